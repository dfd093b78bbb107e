package train

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/feature"
)

// Default training configuration constants.
const (
	DefaultTrainSplit    = 0.8
	DefaultLogisticIters = 500
	DefaultLogisticRate  = 0.5
	DefaultRidgeLambda   = 1e-3
)

// Params configures one trainer.
type Params struct {
	TrainSplit    float64 // chronological train fraction, holdout is the rest
	LogisticIters int
	LogisticRate  float64
	RidgeLambda   float64
}

// DefaultParams returns the deployment defaults.
func DefaultParams() Params {
	return Params{
		TrainSplit:    DefaultTrainSplit,
		LogisticIters: DefaultLogisticIters,
		LogisticRate:  DefaultLogisticRate,
		RidgeLambda:   DefaultRidgeLambda,
	}
}

// Option applies a configuration option to the Trainer.
type Option func(*Trainer)

// WithParams overrides the training parameters.
func WithParams(p Params) Option {
	return func(t *Trainer) {
		if p.TrainSplit > 0 && p.TrainSplit < 1 {
			t.params.TrainSplit = p.TrainSplit
		}
		if p.LogisticIters > 0 {
			t.params.LogisticIters = p.LogisticIters
		}
		if p.LogisticRate > 0 {
			t.params.LogisticRate = p.LogisticRate
		}
		if p.RidgeLambda > 0 {
			t.params.RidgeLambda = p.RidgeLambda
		}
	}
}

// WithClock overrides the snapshot clock, used by tests to pin the training
// cutoff date.
func WithClock(clock func() time.Time) Option {
	return func(t *Trainer) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// Trainer fits one model bundle per league from the feature table.
type Trainer struct {
	builder *feature.Builder
	params  Params
	clock   func() time.Time
}

// NewTrainer creates a trainer over the given feature builder.
func NewTrainer(builder *feature.Builder, opts ...Option) *Trainer {
	t := &Trainer{
		builder: builder,
		params:  DefaultParams(),
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Train builds the training table as of now, fits the classifier and the two
// score regressors, evaluates them on the chronological holdout slice, and
// returns the artifact. ErrInsufficientHistory from the feature builder
// propagates unchanged; no artifact is produced on any error.
func (t *Trainer) Train(ctx context.Context, leagueID int) (*Artifact, error) {
	asOf := t.clock()
	table, err := t.builder.TrainingTable(ctx, leagueID, asOf)
	if err != nil {
		return nil, fmt.Errorf("build training table for league %d: %w", leagueID, err)
	}
	bounds := table.Winsorize()

	// Chronological split: earliest rows train, latest rows validate. A
	// random split would leak future information through the time-dependent
	// features.
	nTrain := int(float64(len(table.Rows)) * t.params.TrainSplit)
	if nTrain < 1 {
		nTrain = 1
	}
	if nTrain > len(table.Rows) {
		nTrain = len(table.Rows)
	}
	trainRows := table.Rows[:nTrain]
	holdout := table.Rows[nTrain:]

	scaler := fitScaler(trainRows)
	x := make([][]float64, len(trainRows))
	yWin := make([]float64, len(trainRows))
	yHome := make([]float64, len(trainRows))
	yAway := make([]float64, len(trainRows))
	w := make([]float64, len(trainRows))
	for i, r := range trainRows {
		x[i] = scaler.Transform(r.Fields)
		yWin[i] = r.HomeWin
		yHome[i] = r.HomeScore
		yAway[i] = r.AwayScore
		w[i] = r.Weight
	}

	artifact := &Artifact{
		Classifier: fitLogistic(x, yWin, w, t.params.LogisticIters, t.params.LogisticRate),
		HomeScore:  fitRidge(x, yHome, w, t.params.RidgeLambda),
		AwayScore:  fitRidge(x, yAway, w, t.params.RidgeLambda),
		Scaler:     scaler,
		ClipBounds: bounds,
	}

	accuracy, mae := t.evaluate(artifact, holdout)
	artifact.Metadata = Metadata{
		LeagueID:             leagueID,
		ID:                   uuid.NewString(),
		TrainedAt:            asOf,
		TrainingRows:         len(trainRows),
		WinnerAccuracy:       accuracy,
		ScoreMAE:             mae,
		FeatureSchemaVersion: feature.SchemaVersion,
	}
	return artifact, nil
}

// evaluate scores the artifact on the holdout slice: winner accuracy and
// mean absolute error of the predicted margin. An empty holdout (very small
// league) yields zero metrics rather than an error.
func (t *Trainer) evaluate(a *Artifact, holdout []feature.Vector) (accuracy, mae float64) {
	if len(holdout) == 0 {
		return 0, 0
	}
	var correct, absErr float64
	for _, r := range holdout {
		p := a.PredictProba(r)
		predictedHomeWin := p > 0.5
		actualHomeWin := r.HomeWin == 1.0
		if predictedHomeWin == actualHomeWin {
			correct++
		}
		ph, pa := a.PredictScores(r)
		absErr += math.Abs((ph - pa) - (r.HomeScore - r.AwayScore))
	}
	n := float64(len(holdout))
	return correct / n, absErr / n
}

// fitScaler computes per-column mean and standard deviation over the train
// slice. Constant columns get unit scale so standardization stays total.
func fitScaler(rows []feature.Vector) Scaler {
	s := Scaler{
		Mean: make([]float64, feature.FieldCount),
		Std:  make([]float64, feature.FieldCount),
	}
	n := float64(len(rows))
	if n == 0 {
		for i := range s.Std {
			s.Std[i] = 1
		}
		return s
	}
	for _, r := range rows {
		for i, v := range r.Fields {
			s.Mean[i] += v
		}
	}
	for i := range s.Mean {
		s.Mean[i] /= n
	}
	for _, r := range rows {
		for i, v := range r.Fields {
			d := v - s.Mean[i]
			s.Std[i] += d * d
		}
	}
	for i := range s.Std {
		s.Std[i] = math.Sqrt(s.Std[i] / n)
		if s.Std[i] == 0 {
			s.Std[i] = 1
		}
	}
	return s
}
