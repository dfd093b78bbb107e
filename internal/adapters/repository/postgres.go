package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	// Postgres driver, registered for database/sql.
	_ "github.com/lib/pq"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/model"
)

// PostgresStore implements Store over a relational record store for
// deployments where match history is shared with the ingestion pipeline.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens the DSN and ensures the schema exists.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	s := &PostgresStore{db: db}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Close releases the connection pool.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS teams (
    league_id INTEGER NOT NULL,
    team_id   TEXT    NOT NULL,
    name      TEXT    NOT NULL,
    PRIMARY KEY (league_id, team_id)
);
CREATE TABLE IF NOT EXISTS matches (
    league_id  INTEGER NOT NULL,
    match_date DATE    NOT NULL,
    home_id    TEXT    NOT NULL,
    away_id    TEXT    NOT NULL,
    home_score INTEGER NOT NULL DEFAULT 0,
    away_score INTEGER NOT NULL DEFAULT 0,
    season     TEXT    NOT NULL DEFAULT '',
    round      TEXT    NOT NULL DEFAULT '',
    completed  BOOLEAN NOT NULL DEFAULT FALSE,
    PRIMARY KEY (league_id, match_date, home_id, away_id)
);`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// UpsertTeam creates or renames a team.
func (s *PostgresStore) UpsertTeam(ctx context.Context, t model.Team) error {
	const q = `
INSERT INTO teams (league_id, team_id, name) VALUES ($1, $2, $3)
ON CONFLICT (league_id, team_id) DO UPDATE SET name = EXCLUDED.name`
	if _, err := s.db.ExecContext(ctx, q, t.LeagueID, t.ID, t.Name); err != nil {
		return fmt.Errorf("upsert team: %w", err)
	}
	return nil
}

// ResolveTeam finds a team by display name, case-insensitively.
func (s *PostgresStore) ResolveTeam(ctx context.Context, leagueID int, name string) (model.Team, error) {
	const q = `SELECT team_id, name FROM teams WHERE league_id = $1 AND lower(name) = lower(btrim($2))`
	var t model.Team
	t.LeagueID = leagueID
	err := s.db.QueryRowContext(ctx, q, leagueID, name).Scan(&t.ID, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Team{}, ErrUnknownTeam
	}
	if err != nil {
		return model.Team{}, fmt.Errorf("resolve team: %w", err)
	}
	return t, nil
}

// TeamByID returns a team by identity.
func (s *PostgresStore) TeamByID(ctx context.Context, leagueID int, teamID string) (model.Team, error) {
	const q = `SELECT team_id, name FROM teams WHERE league_id = $1 AND team_id = $2`
	var t model.Team
	t.LeagueID = leagueID
	err := s.db.QueryRowContext(ctx, q, leagueID, teamID).Scan(&t.ID, &t.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Team{}, ErrUnknownTeam
	}
	if err != nil {
		return model.Team{}, fmt.Errorf("team by id: %w", err)
	}
	return t, nil
}

// AddMatch upserts a match record by its natural key.
func (s *PostgresStore) AddMatch(ctx context.Context, m model.Match) (bool, error) {
	const q = `
INSERT INTO matches (league_id, match_date, home_id, away_id, home_score, away_score, season, round, completed)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (league_id, match_date, home_id, away_id) DO UPDATE
SET home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    season     = EXCLUDED.season,
    round      = EXCLUDED.round,
    completed  = EXCLUDED.completed
WHERE (matches.home_score, matches.away_score, matches.season, matches.round, matches.completed)
   IS DISTINCT FROM
      (EXCLUDED.home_score, EXCLUDED.away_score, EXCLUDED.season, EXCLUDED.round, EXCLUDED.completed)`
	res, err := s.db.ExecContext(ctx, q,
		m.LeagueID, m.Date.Format(model.DateLayout), m.HomeTeamID, m.AwayTeamID,
		m.HomeScore, m.AwayScore, m.Season, m.Round, m.Completed)
	if err != nil {
		return false, fmt.Errorf("upsert match: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("upsert match: %w", err)
	}
	return n > 0, nil
}

// CompletedMatches returns all completed matches in chronological order.
func (s *PostgresStore) CompletedMatches(ctx context.Context, leagueID int) ([]model.Match, error) {
	return s.CompletedBefore(ctx, leagueID, time.Time{})
}

// CompletedBefore returns completed matches strictly before the given date.
// A zero time means no upper bound.
func (s *PostgresStore) CompletedBefore(ctx context.Context, leagueID int, before time.Time) ([]model.Match, error) {
	q := `
SELECT match_date, home_id, away_id, home_score, away_score, season, round
FROM matches
WHERE league_id = $1 AND completed`
	args := []any{leagueID}
	if !before.IsZero() {
		q += ` AND match_date < $2`
		args = append(args, before.Format(model.DateLayout))
	}
	q += ` ORDER BY match_date, home_id, away_id`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query completed matches: %w", err)
	}
	defer rows.Close()

	var out []model.Match
	for rows.Next() {
		m := model.Match{LeagueID: leagueID, Completed: true}
		if err := rows.Scan(&m.Date, &m.HomeTeamID, &m.AwayTeamID, &m.HomeScore, &m.AwayScore, &m.Season, &m.Round); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return out, nil
}

// Counts reports store sizes for stats.
func (s *PostgresStore) Counts(ctx context.Context) (teams, completed int) {
	_ = s.db.QueryRowContext(ctx, `SELECT count(*) FROM teams`).Scan(&teams)
	_ = s.db.QueryRowContext(ctx, `SELECT count(*) FROM matches WHERE completed`).Scan(&completed)
	return teams, completed
}
