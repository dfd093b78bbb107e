package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/model"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/pkg/logger"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/pkg/metrics"
)

// MatchInput is one fixture record submitted by the ingestion collaborator.
// Teams are keyed by display name; ingestion owns record correctness.
type MatchInput struct {
	LeagueID  int
	Season    string
	Round     string
	MatchDate time.Time
	HomeTeam  string
	AwayTeam  string
	HomeScore int
	AwayScore int
	Completed bool
}

// IngestResult summarizes one ingest batch.
type IngestResult struct {
	Accepted   int `json:"accepted"`
	Duplicates int `json:"duplicates"`
	Retrain    int `json:"retrain_triggered"` // leagues scheduled for retraining
}

// IngestMatches upserts a batch of fixture records and triggers retraining
// for every league that gained new completed matches. Resubmitting the same
// batch is a no-op: unchanged records are dropped by the dedupe cache and
// the store's keyed upsert, and an unchanged completed set never retrains.
func (s *Service) IngestMatches(ctx context.Context, batch []MatchInput) (IngestResult, error) {
	var res IngestResult
	newKeys := make(map[int][]string)

	for _, in := range batch {
		m, err := s.upsertRecord(ctx, in)
		if err != nil {
			return res, err
		}

		// Dedupe on record content, not just identity: a late result for a
		// fixture we already hold must pass through to the store upsert.
		dedupeKey := fmt.Sprintf("%s|%t|%d|%d", m.Key(), m.Completed, m.HomeScore, m.AwayScore)
		if s.SeenAndRecord(ctx, dedupeKey) {
			res.Duplicates++
			continue
		}

		changed, err := s.store.AddMatch(ctx, m)
		if err != nil {
			s.Unrecord(ctx, dedupeKey)
			return res, fmt.Errorf("add match %s: %w", m.Key(), err)
		}
		if !changed {
			res.Duplicates++
			continue
		}
		res.Accepted++
		metrics.RecordMatchIngested()
		if m.Completed {
			newKeys[m.LeagueID] = append(newKeys[m.LeagueID], m.Key())
		}
	}

	for leagueID, keys := range newKeys {
		if s.OnNewCompletedMatches(ctx, leagueID, keys) {
			res.Retrain++
		}
	}
	s.logger.Info(ctx, "ingest batch processed",
		logger.Int("batch", len(batch)),
		logger.Int("accepted", res.Accepted),
		logger.Int("duplicates", res.Duplicates),
		logger.Int("retrains", res.Retrain),
	)
	return res, nil
}

// upsertRecord registers both teams and builds the match record. Team IDs
// are derived from the name so the same club maps to the same identity on
// every submission.
func (s *Service) upsertRecord(ctx context.Context, in MatchInput) (model.Match, error) {
	homeID := teamSlug(in.HomeTeam)
	awayID := teamSlug(in.AwayTeam)
	if homeID == "" || awayID == "" {
		return model.Match{}, fmt.Errorf("match %d/%s: empty team name", in.LeagueID, in.MatchDate.Format(model.DateLayout))
	}
	if homeID == awayID {
		return model.Match{}, fmt.Errorf("match %d/%s: team %q plays itself", in.LeagueID, in.MatchDate.Format(model.DateLayout), in.HomeTeam)
	}

	for _, t := range []model.Team{
		{ID: homeID, LeagueID: in.LeagueID, Name: in.HomeTeam},
		{ID: awayID, LeagueID: in.LeagueID, Name: in.AwayTeam},
	} {
		if err := s.store.UpsertTeam(ctx, t); err != nil {
			return model.Match{}, fmt.Errorf("upsert team %q: %w", t.Name, err)
		}
	}

	return model.Match{
		LeagueID:   in.LeagueID,
		Season:     in.Season,
		Round:      in.Round,
		Date:       in.MatchDate,
		HomeTeamID: homeID,
		AwayTeamID: awayID,
		HomeScore:  in.HomeScore,
		AwayScore:  in.AwayScore,
		Completed:  in.Completed,
	}, nil
}

// teamSlug normalizes a display name into a stable team identity.
func teamSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "-") {
				b.WriteByte('-')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
