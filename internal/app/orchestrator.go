package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/adapters/mq/queue"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/feature"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/train"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/pkg/logger"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/pkg/metrics"
)

// trainState is the per-league retrain state machine:
// idle -> training -> (published) -> idle.
type trainState int

const (
	stateIdle trainState = iota
	stateTraining
)

// leagueState serializes training per league. The watermark is the hash of
// the completed-match key set behind the last successful publish; a failed
// run returns to idle without advancing it, so the next trigger retries.
type leagueState struct {
	mu        sync.Mutex
	state     trainState
	watermark string
	// pending coalesces triggers that arrive while training: at most one
	// follow-up run executes after the in-flight one completes.
	pending bool
}

// published reports whether the league has trained on a non-empty match set.
func (st *leagueState) published() bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.watermark != ""
}

func (s *Service) leagueStateFor(leagueID int) *leagueState {
	v, _ := s.leagues.LoadOrStore(leagueID, &leagueState{})
	return v.(*leagueState)
}

// OnNewCompletedMatches is the idempotent retrain trigger. The match-id set
// supplied by the ingestion path is advisory; staleness is decided against
// the record store's full completed set, so overlapping or repeated trigger
// sets cannot cause duplicate retrains. Returns true when a training run was
// scheduled.
func (s *Service) OnNewCompletedMatches(ctx context.Context, leagueID int, matchKeys []string) bool {
	snapshot, err := s.completedSetHash(ctx, leagueID)
	if err != nil {
		s.logger.Error(ctx, "failed to hash completed-match set",
			logger.Int("league", leagueID), logger.Error(err))
		return false
	}
	if snapshot == "" {
		// Nothing completed yet; nothing to train on.
		return false
	}

	st := s.leagueStateFor(leagueID)
	st.mu.Lock()
	if snapshot == st.watermark {
		st.mu.Unlock()
		return false
	}
	if st.state == stateTraining {
		st.pending = true
		st.mu.Unlock()
		return false
	}
	st.state = stateTraining
	st.mu.Unlock()

	t := queue.Trigger{
		LeagueID:   leagueID,
		RequestID:  uuid.NewString(),
		EnqueuedAt: s.clock(),
	}
	if !s.queue.Enqueue(ctx, t) {
		st.mu.Lock()
		st.state = stateIdle
		st.mu.Unlock()
		s.logger.Warn(ctx, "retrain trigger dropped, queue full",
			logger.Int("league", leagueID),
			logger.Int("new_matches", len(matchKeys)),
		)
		return false
	}
	s.logger.Info(ctx, "retrain scheduled",
		logger.Int("league", leagueID),
		logger.String("request", t.RequestID),
		logger.Int("new_matches", len(matchKeys)),
	)
	return true
}

// RunTraining executes one retrain cycle for the worker pool. It holds the
// league's training state for the duration of the fit; a trigger that
// arrived meanwhile causes exactly one follow-up run.
func (s *Service) RunTraining(ctx context.Context, t queue.Trigger) {
	st := s.leagueStateFor(t.LeagueID)

	// Snapshot the completed set before fitting so the watermark matches
	// the data the model actually saw; matches arriving mid-fit are caught
	// by the pending follow-up.
	snapshot, hashErr := s.completedSetHash(ctx, t.LeagueID)

	var artifact *train.Artifact
	var err error
	if hashErr != nil {
		err = hashErr
	} else {
		lc := s.cfg.ForLeague(t.LeagueID)
		trainer := train.NewTrainer(
			feature.NewBuilder(s.store, lc.FeatureParams()),
			train.WithParams(train.Params{TrainSplit: lc.TrainSplit}),
			train.WithClock(s.clock),
		)
		artifact, err = trainer.Train(ctx, t.LeagueID)
	}

	switch {
	case err == nil:
		version, pubErr := s.registry.Publish(ctx, t.LeagueID, artifact)
		if pubErr != nil {
			err = pubErr
			break
		}
		st.mu.Lock()
		st.watermark = snapshot
		st.mu.Unlock()
		metrics.RecordTrainingRun("published")
		s.logger.Info(ctx, "model published",
			logger.Int("league", t.LeagueID),
			logger.Int("version", version),
			logger.Int("rows", artifact.Metadata.TrainingRows),
			logger.Float64("winner_accuracy", artifact.Metadata.WinnerAccuracy),
			logger.Float64("score_mae", artifact.Metadata.ScoreMAE),
		)
	case errors.Is(err, feature.ErrInsufficientHistory):
		metrics.RecordTrainingRun("skipped")
		s.logger.Warn(ctx, "not enough history to train, keeping previous model",
			logger.Int("league", t.LeagueID), logger.Error(err))
	}
	if err != nil && !errors.Is(err, feature.ErrInsufficientHistory) {
		metrics.RecordTrainingRun("failed")
		s.logger.Error(ctx, "training run failed, keeping previous model",
			logger.Int("league", t.LeagueID), logger.Error(err))
	}

	st.mu.Lock()
	st.state = stateIdle
	wasPending := st.pending
	st.pending = false
	st.mu.Unlock()

	if wasPending {
		// One coalesced follow-up; the watermark check no-ops it when the
		// pending trigger carried no genuinely new matches.
		s.OnNewCompletedMatches(ctx, t.LeagueID, nil)
	}
}

// completedSetHash hashes the sorted key set of all completed matches for a
// league. Empty set hashes to "".
func (s *Service) completedSetHash(ctx context.Context, leagueID int) (string, error) {
	matches, err := s.store.CompletedMatches(ctx, leagueID)
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", nil
	}
	keys := make([]string, len(matches))
	for i, m := range matches {
		keys[i] = m.Key()
	}
	sort.Strings(keys)
	sum := sha256.Sum256([]byte(strings.Join(keys, "\n")))
	return hex.EncodeToString(sum[:]), nil
}

// ActiveModel returns the active artifact metadata for a league.
func (s *Service) ActiveModel(ctx context.Context, leagueID int) (train.Metadata, error) {
	a, err := s.registry.Active(ctx, leagueID)
	if err != nil {
		return train.Metadata{}, err
	}
	return a.Metadata, nil
}

// ModelVersions returns the full version history for a league.
func (s *Service) ModelVersions(ctx context.Context, leagueID int) ([]train.Metadata, error) {
	return s.registry.Versions(ctx, leagueID)
}

// LastTrainedAt reports the time of the last successful publish for stats.
func (s *Service) LastTrainedAt(ctx context.Context, leagueID int) (time.Time, bool) {
	meta, err := s.ActiveModel(ctx, leagueID)
	if err != nil {
		return time.Time{}, false
	}
	return meta.TrainedAt, true
}
