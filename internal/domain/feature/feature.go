// Package feature assembles the fixed-width, decayed, winsorized feature
// vectors consumed by the trainer and the predictor.
//
// Conventions:
//   - Every vector is built from the home perspective.
//   - No field may depend on the match's own result or on any match dated on
//     or after the vector's date (no lookahead).
//   - A team with zero prior history yields neutral defaults, never an error.
package feature

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/model"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/rating"
)

// SchemaVersion identifies the field layout below. Bump on any change to
// FieldNames or their semantics; artifacts record the version they were
// trained against.
const SchemaVersion = 1

// Field indices into Vector.Fields, fixed for SchemaVersion 1.
const (
	FieldEloDiff = iota
	FieldHomeFormWinRate
	FieldAwayFormWinRate
	FieldHomeAvgPoints
	FieldAwayAvgPoints
	FieldHomeAvgMargin
	FieldAwayAvgMargin
	FieldH2HHomeWinRate
	FieldH2HPlayed

	FieldCount
)

// FieldNames gives the stable name of each field, in index order.
var FieldNames = [FieldCount]string{
	"elo_diff",
	"home_form_win_rate",
	"away_form_win_rate",
	"home_avg_points",
	"away_avg_points",
	"home_avg_margin",
	"away_avg_margin",
	"h2h_home_win_rate",
	"h2h_played",
}

// Default feature configuration constants.
const (
	DefaultFormWindow    = 5
	DefaultHalfLifeDays  = 200.0
	DefaultMinHistory    = 10
	DefaultNeutralPoints = 22.0
)

// Params configures feature construction for one league.
type Params struct {
	Rating        rating.Params
	FormWindow    int     // matches per team folded into form aggregates
	HalfLifeDays  float64 // exponential decay half-life for sample weights
	MinHistory    int     // minimum completed matches to build any table
	NeutralPoints float64 // avg-points default for zero-history teams
}

// DefaultParams returns the deployment defaults.
func DefaultParams() Params {
	return Params{
		Rating:        rating.DefaultParams(),
		FormWindow:    DefaultFormWindow,
		HalfLifeDays:  DefaultHalfLifeDays,
		MinHistory:    DefaultMinHistory,
		NeutralPoints: DefaultNeutralPoints,
	}
}

// Vector is one (match, home-perspective) feature row. Labels are populated
// only for training rows.
type Vector struct {
	LeagueID   int
	Date       time.Time
	HomeTeamID string
	AwayTeamID string

	Fields [FieldCount]float64
	Weight float64 // time-decay sample weight in (0,1]

	// Training labels.
	HomeWin   float64 // 1 / 0.5 / 0
	HomeScore float64
	AwayScore float64
}

// Table is the training table for one league as of a snapshot date.
type Table struct {
	LeagueID int
	AsOf     time.Time
	Rows     []Vector
	Bounds   ClipBounds // populated by Winsorize
}

// MatchSource provides completed match history. Implemented by the
// repository adapter.
type MatchSource interface {
	CompletedBefore(ctx context.Context, leagueID int, before time.Time) ([]model.Match, error)
}

// Builder produces feature vectors from match history and the rating book.
type Builder struct {
	source MatchSource
	params Params
}

// NewBuilder creates a builder over the given match source.
func NewBuilder(source MatchSource, params Params) *Builder {
	if params.FormWindow <= 0 {
		params.FormWindow = DefaultFormWindow
	}
	if params.HalfLifeDays <= 0 {
		params.HalfLifeDays = DefaultHalfLifeDays
	}
	if params.MinHistory <= 0 {
		params.MinHistory = DefaultMinHistory
	}
	if params.NeutralPoints <= 0 {
		params.NeutralPoints = DefaultNeutralPoints
	}
	return &Builder{source: source, params: params}
}

// TrainingTable builds one row per completed match dated strictly before
// asOf. Returns ErrInsufficientHistory when the league has fewer than
// MinHistory completed matches.
func (b *Builder) TrainingTable(ctx context.Context, leagueID int, asOf time.Time) (*Table, error) {
	matches, err := b.source.CompletedBefore(ctx, leagueID, asOf)
	if err != nil {
		return nil, fmt.Errorf("load match history: %w", err)
	}
	if len(matches) < b.params.MinHistory {
		return nil, fmt.Errorf("league %d has %d completed matches, need %d: %w",
			leagueID, len(matches), b.params.MinHistory, ErrInsufficientHistory)
	}

	sortChronological(matches)
	book := rating.NewBook(b.params.Rating, matches)

	rows := make([]Vector, 0, len(matches))
	for _, m := range matches {
		v := b.row(book, matches, m.HomeTeamID, m.AwayTeamID, leagueID, m.Date)
		v.Weight = b.decayWeight(m.Date, asOf)
		v.HomeWin = m.HomeResult()
		v.HomeScore = float64(m.HomeScore)
		v.AwayScore = float64(m.AwayScore)
		rows = append(rows, v)
	}

	return &Table{LeagueID: leagueID, AsOf: asOf, Rows: rows}, nil
}

// InferenceRow builds the single feature row for a query match. It is total
// over any pair of team IDs: unknown or zero-history teams get neutral
// defaults so the model always receives a complete vector.
func (b *Builder) InferenceRow(ctx context.Context, homeID, awayID string, leagueID int, date time.Time) (Vector, error) {
	matches, err := b.source.CompletedBefore(ctx, leagueID, date)
	if err != nil {
		return Vector{}, fmt.Errorf("load match history: %w", err)
	}
	sortChronological(matches)
	book := rating.NewBook(b.params.Rating, matches)

	v := b.row(book, matches, homeID, awayID, leagueID, date)
	v.Weight = 1.0
	return v, nil
}

// row assembles the feature fields for one (home, away, date) triple from
// matches strictly before date.
func (b *Builder) row(book *rating.Book, matches []model.Match, homeID, awayID string, leagueID int, date time.Time) Vector {
	v := Vector{
		LeagueID:   leagueID,
		Date:       date,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
	}

	v.Fields[FieldEloDiff] = book.At(homeID, date) - book.At(awayID, date)

	homeForm := b.formStats(matches, homeID, date)
	awayForm := b.formStats(matches, awayID, date)
	v.Fields[FieldHomeFormWinRate] = homeForm.winRate
	v.Fields[FieldAwayFormWinRate] = awayForm.winRate
	v.Fields[FieldHomeAvgPoints] = homeForm.avgPoints
	v.Fields[FieldAwayAvgPoints] = awayForm.avgPoints
	v.Fields[FieldHomeAvgMargin] = homeForm.avgMargin
	v.Fields[FieldAwayAvgMargin] = awayForm.avgMargin

	h2hRate, h2hPlayed := headToHead(matches, homeID, awayID, date)
	v.Fields[FieldH2HHomeWinRate] = h2hRate
	v.Fields[FieldH2HPlayed] = h2hPlayed

	return v
}

// decayWeight implements smooth forgetting: 0.5^(age_days / half_life).
func (b *Builder) decayWeight(matchDate, asOf time.Time) float64 {
	ageDays := asOf.Sub(matchDate).Hours() / 24
	if ageDays < 0 {
		ageDays = 0
	}
	return math.Pow(0.5, ageDays/b.params.HalfLifeDays)
}

type formAggregates struct {
	winRate   float64
	avgPoints float64
	avgMargin float64
}

// formStats aggregates the team's last FormWindow matches strictly before
// date. Zero prior matches yields the neutral defaults.
func (b *Builder) formStats(matches []model.Match, teamID string, date time.Time) formAggregates {
	var recent []model.Match
	for _, m := range matches {
		if !m.Date.Before(date) {
			continue
		}
		if m.HomeTeamID == teamID || m.AwayTeamID == teamID {
			recent = append(recent, m)
		}
	}
	if len(recent) == 0 {
		return formAggregates{winRate: 0.5, avgPoints: b.params.NeutralPoints, avgMargin: 0}
	}
	if len(recent) > b.params.FormWindow {
		recent = recent[len(recent)-b.params.FormWindow:]
	}

	var wins, points, margin float64
	for _, m := range recent {
		if m.HomeTeamID == teamID {
			wins += m.HomeResult()
			points += float64(m.HomeScore)
			margin += m.Margin()
		} else {
			wins += 1 - m.HomeResult()
			points += float64(m.AwayScore)
			margin += -m.Margin()
		}
	}
	n := float64(len(recent))
	return formAggregates{
		winRate:   wins / n,
		avgPoints: points / n,
		avgMargin: margin / n,
	}
}

// headToHead summarizes prior meetings between the two teams at either
// venue, from the home team's perspective.
func headToHead(matches []model.Match, homeID, awayID string, date time.Time) (winRate, played float64) {
	var wins, n float64
	for _, m := range matches {
		if !m.Date.Before(date) {
			continue
		}
		switch {
		case m.HomeTeamID == homeID && m.AwayTeamID == awayID:
			wins += m.HomeResult()
			n++
		case m.HomeTeamID == awayID && m.AwayTeamID == homeID:
			wins += 1 - m.HomeResult()
			n++
		}
	}
	if n == 0 {
		return 0.5, 0
	}
	return wins / n, n
}

func sortChronological(matches []model.Match) {
	sort.Slice(matches, func(i, j int) bool {
		if !matches[i].Date.Equal(matches[j].Date) {
			return matches[i].Date.Before(matches[j].Date)
		}
		return matches[i].Key() < matches[j].Key()
	})
}
