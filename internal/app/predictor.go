package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/adapters/registry"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/adapters/repository"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/blend"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/feature"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/model"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/rating"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/pkg/logger"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/pkg/metrics"
)

// PredictRequest carries one prediction query from the API layer.
type PredictRequest struct {
	HomeTeam  string
	AwayTeam  string
	LeagueID  int
	MatchDate time.Time
	Odds      *model.Odds
}

// Predict is the hybrid read path: model probability blended with market
// odds when supplied, heuristic fallback when the league has no published
// model. It is a pure read; it never mutates the rating book or the
// registry.
func (s *Service) Predict(ctx context.Context, req PredictRequest) (model.Prediction, error) {
	start := time.Now()
	defer func() {
		metrics.ObservePredictionLatency(float64(time.Since(start).Milliseconds()))
	}()

	ctx, cancel := context.WithTimeout(ctx, s.predictTimeout)
	defer cancel()

	home, err := s.store.ResolveTeam(ctx, req.LeagueID, req.HomeTeam)
	if err != nil {
		return model.Prediction{}, s.resolveErr(req.HomeTeam, err)
	}
	away, err := s.store.ResolveTeam(ctx, req.LeagueID, req.AwayTeam)
	if err != nil {
		return model.Prediction{}, s.resolveErr(req.AwayTeam, err)
	}

	lc := s.cfg.ForLeague(req.LeagueID)
	builder := feature.NewBuilder(s.store, lc.FeatureParams())
	row, err := builder.InferenceRow(ctx, home.ID, away.ID, req.LeagueID, req.MatchDate)
	if err != nil {
		if ctx.Err() != nil {
			return model.Prediction{}, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return model.Prediction{}, fmt.Errorf("build features: %w", err)
	}

	var (
		pFinal    float64
		homeScore float64
		awayScore float64
		method    blend.Method
	)
	artifact, err := s.registry.Active(ctx, req.LeagueID)
	switch {
	case err == nil:
		pModel := artifact.PredictProba(row)
		homeScore, awayScore = artifact.PredictScores(row)
		pFinal, method = blend.Probability(pModel, req.Odds, lc.ModelWeight, lc.OddsWeight)
	case errors.Is(err, registry.ErrNotFound):
		// The model is an enhancement, not a hard requirement: degrade to
		// the Elo/form heuristic and disclose it in the method label.
		pFinal, homeScore, awayScore = heuristic(row, lc.HomeAdvantage)
		method = blend.MethodHeuristic
		s.logger.Debug(ctx, "no model published, serving heuristic",
			logger.Int("league", req.LeagueID),
		)
	default:
		return model.Prediction{}, fmt.Errorf("load active model: %w", err)
	}

	confidence := blend.Confidence(pFinal)
	pred := model.Prediction{
		Winner:             blend.Winner(pFinal, home.Name, away.Name),
		HomeWinProb:        pFinal,
		PredictedHomeScore: homeScore,
		PredictedAwayScore: awayScore,
		ConfidenceLabel:    blend.ConfidenceLabel(confidence),
		IntensityLabel:     blend.IntensityLabel(homeScore - awayScore),
		Method:             string(method),
	}
	metrics.RecordPrediction(pred.Method)
	return pred, nil
}

// resolveErr translates store failures on team resolution: a deadline hit is
// a retryable timeout, an unknown name stays a caller error.
func (s *Service) resolveErr(name string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: resolving %q", ErrTimeout, name)
	}
	if errors.Is(err, repository.ErrUnknownTeam) {
		return fmt.Errorf("%w: %q", repository.ErrUnknownTeam, name)
	}
	return fmt.Errorf("resolve team %q: %w", name, err)
}

// heuristic produces a prediction from the feature row alone: the Elo
// expectation for the probability and recent scoring form for the scores.
func heuristic(row feature.Vector, homeAdvantage float64) (p, homeScore, awayScore float64) {
	diff := row.Fields[feature.FieldEloDiff]
	p = rating.Expected(diff, 0, homeAdvantage)
	homeScore = row.Fields[feature.FieldHomeAvgPoints]
	awayScore = row.Fields[feature.FieldAwayAvgPoints]
	return p, homeScore, awayScore
}
