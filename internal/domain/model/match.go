// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for match dates.
const DateLayout = "2006-01-02"

// Team identifies a club within a league. Identity (ID, LeagueID) is
// immutable; Name is display metadata and may change.
type Team struct {
	ID       string
	LeagueID int
	Name     string
}

// Match is a fixture record owned by the ingestion collaborator. The core
// treats it as read-only input. Scores are meaningful only when Completed.
type Match struct {
	LeagueID   int
	Season     string
	Round      string
	Date       time.Time
	HomeTeamID string
	AwayTeamID string
	HomeScore  int
	AwayScore  int
	Completed  bool
}

// Key uniquely identifies a match for dedup and watermarking purposes.
func (m Match) Key() string {
	return fmt.Sprintf("%d|%s|%s|%s", m.LeagueID, m.Date.Format(DateLayout), m.HomeTeamID, m.AwayTeamID)
}

// Margin returns home score minus away score.
func (m Match) Margin() float64 {
	return float64(m.HomeScore - m.AwayScore)
}

// HomeResult returns the home team's result on the 1 / 0.5 / 0 scale used by
// the rating update and the classifier label.
func (m Match) HomeResult() float64 {
	switch {
	case m.HomeScore > m.AwayScore:
		return 1.0
	case m.HomeScore < m.AwayScore:
		return 0.0
	default:
		return 0.5
	}
}

// Odds carries caller-supplied decimal odds for the two outcomes.
type Odds struct {
	Home float64
	Away float64
}

// Prediction is the ephemeral output of a predict call. It is returned to
// the caller and never persisted as ground truth.
type Prediction struct {
	Winner             string
	HomeWinProb        float64
	PredictedHomeScore float64
	PredictedAwayScore float64
	ConfidenceLabel    string
	IntensityLabel     string
	Method             string
}
