// Package repository defines the match/team record store interface and its
// implementations. The core treats records as read-only input owned by the
// ingestion collaborator; writes here are keyed upserts fed by the ingest
// endpoint.
package repository

import (
	"context"
	"time"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/model"
)

// Store provides access to team and match records.
type Store interface {
	// UpsertTeam creates or renames a team. Identity is (league, id).
	UpsertTeam(ctx context.Context, t model.Team) error

	// ResolveTeam finds a team by display name within a league
	// (case-insensitive). Returns ErrUnknownTeam when absent; it never
	// guesses.
	ResolveTeam(ctx context.Context, leagueID int, name string) (model.Team, error)

	// TeamByID returns a team by identity. Returns ErrUnknownTeam when
	// absent.
	TeamByID(ctx context.Context, leagueID int, teamID string) (model.Team, error)

	// AddMatch upserts a match record keyed by (league, date, home, away).
	// Returns true when the record was new or changed.
	AddMatch(ctx context.Context, m model.Match) (bool, error)

	// CompletedMatches returns all completed matches for a league in
	// chronological order.
	CompletedMatches(ctx context.Context, leagueID int) ([]model.Match, error)

	// CompletedBefore returns completed matches dated strictly before the
	// given date, in chronological order.
	CompletedBefore(ctx context.Context, leagueID int, before time.Time) ([]model.Match, error)

	// Counts returns the number of teams and completed matches per league,
	// for stats reporting.
	Counts(ctx context.Context) (teams, completed int)
}
