// Package blend combines model probabilities with market odds and classifies
// the result into the labels exposed to callers.
//
// The blending method is an explicit tagged variant selected once per
// request, never a scattered conditional: a prediction is ModelOnly, Hybrid,
// or Heuristic, and the response discloses which.
package blend

import (
	"errors"
	"math"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/model"
)

// Sentinel kinds for blending errors.
var (
	// ErrInvalidOdds marks odds that are non-positive or non-finite. The
	// predict path degrades to model-only on this, it never fails.
	ErrInvalidOdds = errors.New("invalid odds")
)

// Method identifies how the final probability was produced.
type Method string

// Blending method variants.
const (
	MethodModelOnly Method = "model-only"
	MethodHybrid    Method = "hybrid"
	MethodHeuristic Method = "heuristic-fallback"
)

// Default blend weights. Odds carry more weight than the model because they
// aggregate market information the model cannot see.
const (
	DefaultModelWeight = 0.4
	DefaultOddsWeight  = 0.6
)

// NormalizeOdds converts decimal odds for the two outcomes into the implied
// home-win probability with the bookmaker overround removed. The two implied
// probabilities sum to exactly one.
func NormalizeOdds(home, away float64) (float64, error) {
	if !validOdd(home) || !validOdd(away) {
		return 0, ErrInvalidOdds
	}
	invHome := 1 / home
	invAway := 1 / away
	return invHome / (invHome + invAway), nil
}

func validOdd(o float64) bool {
	return o > 0 && !math.IsNaN(o) && !math.IsInf(o, 0)
}

// Probability blends the model's home-win probability with the implied
// probability from the supplied odds. Absent or invalid odds degrade to the
// model probability unchanged, with the method reported as model-only.
func Probability(pModel float64, odds *model.Odds, wModel, wOdds float64) (float64, Method) {
	if odds == nil {
		return pModel, MethodModelOnly
	}
	pOdds, err := NormalizeOdds(odds.Home, odds.Away)
	if err != nil {
		return pModel, MethodModelOnly
	}
	return wModel*pModel + wOdds*pOdds, MethodHybrid
}

// Winner maps the final probability to a winner name. Exactly 0.5 is a draw.
func Winner(pFinal float64, homeName, awayName string) string {
	switch {
	case pFinal > 0.5:
		return homeName
	case pFinal < 0.5:
		return awayName
	default:
		return "Draw"
	}
}

// Confidence returns the confidence score for a final probability.
func Confidence(pFinal float64) float64 {
	return math.Max(pFinal, 1-pFinal)
}

// Confidence label thresholds: a total, non-overlapping partition of
// [0.5, 1.0].
const (
	confidenceHigh     = 0.80
	confidenceModerate = 0.65
)

// ConfidenceLabel classifies a confidence score.
func ConfidenceLabel(confidence float64) string {
	switch {
	case confidence >= confidenceHigh:
		return "high"
	case confidence >= confidenceModerate:
		return "moderate"
	default:
		return "close match expected"
	}
}

// Intensity thresholds on predicted absolute margin: a total,
// non-overlapping partition of [0, inf). Fixed by contract, not
// configurable.
const (
	intensityClose       = 2.0
	intensityCompetitive = 5.0
	intensityModerate    = 10.0
)

// IntensityLabel classifies the predicted absolute score margin.
func IntensityLabel(margin float64) string {
	d := math.Abs(margin)
	switch {
	case d <= intensityClose:
		return "close"
	case d <= intensityCompetitive:
		return "competitive"
	case d <= intensityModerate:
		return "moderate advantage"
	default:
		return "decisive"
	}
}
