package feature

import (
	"math"
	"sort"
)

// Winsorization percentile bounds, fixed by contract.
const (
	winsorLowerPct = 0.01
	winsorUpperPct = 0.99
)

// Label pseudo-field names used for clip bounds on regression targets.
const (
	LabelHomeScore = "home_score"
	LabelAwayScore = "away_score"
)

// Bound is one [lo, hi] clip range.
type Bound struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

// Clip clamps v into the bound. Applying an already-clipped value again is a
// no-op.
func (b Bound) Clip(v float64) float64 {
	return math.Min(b.Hi, math.Max(b.Lo, v))
}

// ClipBounds maps field names to their winsorization ranges. Bounds are
// computed once per training run and persisted with the artifact so
// inference-time values are clipped identically.
type ClipBounds map[string]Bound

// winsorFields lists the point/margin columns subject to clipping. Rates and
// rating differentials are naturally bounded and left alone.
var winsorFields = []int{
	FieldHomeAvgPoints,
	FieldAwayAvgPoints,
	FieldHomeAvgMargin,
	FieldAwayAvgMargin,
}

// Winsorize computes [1st, 99th] percentile bounds over the table for the
// point/margin feature columns and the regression targets, then clips the
// table in place. The computed bounds are stored on the table.
func (t *Table) Winsorize() ClipBounds {
	bounds := make(ClipBounds, len(winsorFields)+2)

	for _, f := range winsorFields {
		col := make([]float64, len(t.Rows))
		for i, r := range t.Rows {
			col[i] = r.Fields[f]
		}
		bounds[FieldNames[f]] = percentileBound(col)
	}

	homeScores := make([]float64, len(t.Rows))
	awayScores := make([]float64, len(t.Rows))
	for i, r := range t.Rows {
		homeScores[i] = r.HomeScore
		awayScores[i] = r.AwayScore
	}
	bounds[LabelHomeScore] = percentileBound(homeScores)
	bounds[LabelAwayScore] = percentileBound(awayScores)

	t.Bounds = bounds
	for i := range t.Rows {
		bounds.ClipVector(&t.Rows[i])
		t.Rows[i].HomeScore = bounds[LabelHomeScore].Clip(t.Rows[i].HomeScore)
		t.Rows[i].AwayScore = bounds[LabelAwayScore].Clip(t.Rows[i].AwayScore)
	}
	return bounds
}

// ClipVector applies the stored feature bounds to one vector in place.
// Fields without a bound pass through untouched.
func (b ClipBounds) ClipVector(v *Vector) {
	if b == nil {
		return
	}
	for _, f := range winsorFields {
		if bound, ok := b[FieldNames[f]]; ok {
			v.Fields[f] = bound.Clip(v.Fields[f])
		}
	}
}

// percentileBound returns the [1st, 99th] percentile range of values using
// nearest-rank interpolation over the sorted column.
func percentileBound(values []float64) Bound {
	if len(values) == 0 {
		return Bound{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return Bound{
		Lo: percentile(sorted, winsorLowerPct),
		Hi: percentile(sorted, winsorUpperPct),
	}
}

// percentile reads the p-quantile from an already-sorted slice with linear
// interpolation between adjacent ranks.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
