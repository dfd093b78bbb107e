// Package train fits the per-league predictive models: one probabilistic
// win/loss classifier and two score regressors, weighted by time decay.
package train

import (
	"math"
	"time"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/feature"
)

// LinearModel is a fitted linear form over standardized features.
type LinearModel struct {
	Weights []float64 `json:"weights"`
	Bias    float64   `json:"bias"`
}

func (m LinearModel) raw(x []float64) float64 {
	z := m.Bias
	for i, w := range m.Weights {
		z += w * x[i]
	}
	return z
}

// Scaler standardizes feature columns with the training-slice mean and
// standard deviation. It ships with the artifact so inference rows are
// transformed identically.
type Scaler struct {
	Mean []float64 `json:"mean"`
	Std  []float64 `json:"std"`
}

// Transform returns the standardized copy of one feature row.
func (s Scaler) Transform(fields [feature.FieldCount]float64) []float64 {
	x := make([]float64, len(s.Mean))
	for i := range s.Mean {
		x[i] = (fields[i] - s.Mean[i]) / s.Std[i]
	}
	return x
}

// Metadata describes a trained artifact.
type Metadata struct {
	LeagueID             int       `json:"league_id"`
	ID                   string    `json:"id"`
	Version              int       `json:"version"`
	TrainedAt            time.Time `json:"trained_at"`
	TrainingRows         int       `json:"training_rows"`
	WinnerAccuracy       float64   `json:"winner_accuracy"`
	ScoreMAE             float64   `json:"score_mae"`
	FeatureSchemaVersion int       `json:"feature_schema_version"`
}

// Artifact is the serialized per-league model bundle. It is immutable once
// published; the registry only ever appends new versions.
type Artifact struct {
	Metadata   Metadata           `json:"metadata"`
	Classifier LinearModel        `json:"classifier"`
	HomeScore  LinearModel        `json:"home_score"`
	AwayScore  LinearModel        `json:"away_score"`
	Scaler     Scaler             `json:"scaler"`
	ClipBounds feature.ClipBounds `json:"clip_bounds"`
}

// PredictProba returns the model-implied home-win probability for one
// feature row. The stored clip bounds are applied first so inference-time
// values are winsorized exactly as the training set was.
func (a *Artifact) PredictProba(v feature.Vector) float64 {
	a.ClipBounds.ClipVector(&v)
	x := a.Scaler.Transform(v.Fields)
	return sigmoid(a.Classifier.raw(x))
}

// PredictScores returns the regressed home and away scores for one feature
// row, floored at zero.
func (a *Artifact) PredictScores(v feature.Vector) (home, away float64) {
	a.ClipBounds.ClipVector(&v)
	x := a.Scaler.Transform(v.Fields)
	home = math.Max(0, a.HomeScore.raw(x))
	away = math.Max(0, a.AwayScore.raw(x))
	return home, away
}

func sigmoid(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}
