// Package rating maintains per-team Elo skill ratings derived from match
// history. A Book is pure derived data: it is rebuilt by replaying completed
// matches in chronological order and is never mutated by two writers.
package rating

import (
	"math"
	"sort"
	"time"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/model"
)

// Default rating dynamics constants.
const (
	DefaultBaseline      = 1500.0
	DefaultKFactor       = 24.0
	DefaultHomeAdvantage = 50.0

	eloScale = 400.0
)

// Params configures the rating dynamics for one league.
type Params struct {
	Baseline      float64 // initial rating for unseen teams
	KFactor       float64 // step size per match
	HomeAdvantage float64 // rating offset credited to the home side
}

// DefaultParams returns the deployment defaults.
func DefaultParams() Params {
	return Params{
		Baseline:      DefaultBaseline,
		KFactor:       DefaultKFactor,
		HomeAdvantage: DefaultHomeAdvantage,
	}
}

// Expected returns the home side's expected score on the [0,1] scale given
// both ratings and the home-advantage offset.
func Expected(rHome, rAway, homeAdvantage float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (rAway-rHome-homeAdvantage)/eloScale))
}

// Update folds one result into a prior rating. actual is 1 / 0.5 / 0 for
// win / draw / loss; expected comes from Expected.
func Update(prior, expected, actual, kFactor float64) float64 {
	return prior + kFactor*(actual-expected)
}

// snapshot freezes a team's rating as of the moment a match was applied.
type snapshot struct {
	date   time.Time
	rating float64
}

// Book holds the rating timeline for every team in one league. Queries with
// At only fold in matches dated strictly before the query date, which keeps
// feature rows leak-free.
type Book struct {
	params    Params
	timelines map[string][]snapshot
	current   map[string]float64
}

// NewBook replays the given matches and returns the resulting book.
// Incomplete matches are skipped. Input order does not matter: matches are
// sorted chronologically, ties broken by key, so replay is deterministic.
func NewBook(params Params, matches []model.Match) *Book {
	b := &Book{
		params:    params,
		timelines: make(map[string][]snapshot),
		current:   make(map[string]float64),
	}

	ordered := make([]model.Match, 0, len(matches))
	for _, m := range matches {
		if m.Completed {
			ordered = append(ordered, m)
		}
	}
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].Date.Equal(ordered[j].Date) {
			return ordered[i].Date.Before(ordered[j].Date)
		}
		return ordered[i].Key() < ordered[j].Key()
	})

	for _, m := range ordered {
		b.apply(m)
	}
	return b
}

// apply updates both sides' ratings from one completed match.
func (b *Book) apply(m model.Match) {
	rHome := b.Current(m.HomeTeamID)
	rAway := b.Current(m.AwayTeamID)

	expHome := Expected(rHome, rAway, b.params.HomeAdvantage)
	actHome := m.HomeResult()

	newHome := Update(rHome, expHome, actHome, b.params.KFactor)
	// The update is zero-sum: the away side's expectation is the complement.
	newAway := Update(rAway, 1-expHome, 1-actHome, b.params.KFactor)

	b.current[m.HomeTeamID] = newHome
	b.current[m.AwayTeamID] = newAway
	b.timelines[m.HomeTeamID] = append(b.timelines[m.HomeTeamID], snapshot{date: m.Date, rating: newHome})
	b.timelines[m.AwayTeamID] = append(b.timelines[m.AwayTeamID], snapshot{date: m.Date, rating: newAway})
}

// Current returns the team's latest rating, or the baseline for an unseen
// team. Missing history is a policy decision, never an error.
func (b *Book) Current(teamID string) float64 {
	if r, ok := b.current[teamID]; ok {
		return r
	}
	return b.params.Baseline
}

// At returns the team's rating as of asOf, folding in only matches dated
// strictly before it.
func (b *Book) At(teamID string, asOf time.Time) float64 {
	tl := b.timelines[teamID]
	// Binary search for the last snapshot strictly before asOf.
	idx := sort.Search(len(tl), func(i int) bool {
		return !tl[i].date.Before(asOf)
	})
	if idx == 0 {
		return b.params.Baseline
	}
	return tl[idx-1].rating
}

// Params returns the dynamics the book was built with.
func (b *Book) Params() Params {
	return b.params
}
