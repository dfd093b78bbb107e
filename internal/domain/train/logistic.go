package train

// Logistic regression by batch gradient descent on the weighted log-loss.
// Zero initialization, fixed learning rate, fixed iteration count: the fit
// is fully deterministic, which is what makes retraining on an unchanged
// match set idempotent.

// fitLogistic fits weights over standardized features x with targets y in
// [0,1] and per-row sample weights w.
func fitLogistic(x [][]float64, y, w []float64, iters int, rate float64) LinearModel {
	if len(x) == 0 {
		return LinearModel{}
	}
	dim := len(x[0])
	model := LinearModel{Weights: make([]float64, dim)}

	var wSum float64
	for _, wi := range w {
		wSum += wi
	}
	if wSum <= 0 {
		wSum = 1
	}

	for iter := 0; iter < iters; iter++ {
		grad := make([]float64, dim)
		var gradBias float64
		for i, row := range x {
			// d/dw of the weighted log-loss is w_i * (p - y) * x.
			p := sigmoid(model.raw(row))
			diff := w[i] * (p - y[i])
			for j, xj := range row {
				grad[j] += diff * xj
			}
			gradBias += diff
		}
		for j := range model.Weights {
			model.Weights[j] -= rate * grad[j] / wSum
		}
		model.Bias -= rate * gradBias / wSum
	}
	return model
}
