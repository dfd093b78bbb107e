package train

// Weighted ridge regression solved in closed form. The normal equations
// (X'WX + lambda*I) b = X'Wy are assembled over the standardized features
// plus an intercept column and solved by Gaussian elimination with partial
// pivoting. Closed-form solving keeps the regressors exactly reproducible
// across retrains on the same data.

// fitRidge fits a weighted ridge regressor. The intercept is not penalized.
func fitRidge(x [][]float64, y, w []float64, lambda float64) LinearModel {
	if len(x) == 0 {
		return LinearModel{}
	}
	dim := len(x[0])
	n := dim + 1 // intercept last

	a := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, n+1)
	}

	for r, row := range x {
		wi := w[r]
		for i := 0; i < n; i++ {
			xi := 1.0
			if i < dim {
				xi = row[i]
			}
			for j := i; j < n; j++ {
				xj := 1.0
				if j < dim {
					xj = row[j]
				}
				a[i][j] += wi * xi * xj
			}
			a[i][n] += wi * xi * y[r]
		}
	}
	// Mirror the upper triangle and add the ridge penalty on the diagonal.
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			a[i][j] = a[j][i]
		}
		if i < dim {
			a[i][i] += lambda
		}
	}

	sol := solve(a)
	return LinearModel{Weights: sol[:dim], Bias: sol[dim]}
}

// solve runs Gaussian elimination with partial pivoting on the augmented
// matrix a (n rows, n+1 columns) and returns the solution vector.
func solve(a [][]float64) []float64 {
	n := len(a)
	for col := 0; col < n; col++ {
		pivot := col
		for r := col + 1; r < n; r++ {
			if abs(a[r][col]) > abs(a[pivot][col]) {
				pivot = r
			}
		}
		a[col], a[pivot] = a[pivot], a[col]
		if a[col][col] == 0 {
			// Degenerate column; leave its coefficient at zero.
			continue
		}
		for r := col + 1; r < n; r++ {
			factor := a[r][col] / a[col][col]
			for c := col; c <= n; c++ {
				a[r][c] -= factor * a[col][c]
			}
		}
	}

	sol := make([]float64, n)
	for r := n - 1; r >= 0; r-- {
		if a[r][r] == 0 {
			continue
		}
		sum := a[r][n]
		for c := r + 1; c < n; c++ {
			sum -= a[r][c] * sol[c]
		}
		sol[r] = sum / a[r][r]
	}
	return sol
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
