package seedtool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/model"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/pkg/logger"
)

// verifyResubmission replays the first batch and checks the service reports
// every record as a duplicate without scheduling another retrain.
func verifyResubmission(ctx context.Context, config *Config, client *HTTPClient, fixtures []fixture) error {
	n := config.BatchSize
	if n > len(fixtures) {
		n = len(fixtures)
	}
	resp, err := client.Post(ctx, config.BaseURL+"/matches", fixtures[:n])
	if err != nil {
		return fmt.Errorf("resubmission failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read resubmission response: %w", err)
	}
	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("resubmission rejected with status %d: %s", resp.StatusCode, body)
	}

	var ack ingestAck
	if err := json.Unmarshal(body, &ack); err != nil {
		return fmt.Errorf("failed to parse resubmission response: %w", err)
	}
	if ack.Accepted != 0 || ack.Duplicates != n {
		return fmt.Errorf("resubmission not idempotent: accepted=%d duplicates=%d want 0/%d",
			ack.Accepted, ack.Duplicates, n)
	}
	if ack.Retrain != 0 {
		return fmt.Errorf("resubmission triggered %d retrains, want 0", ack.Retrain)
	}
	logger.Get().Info(ctx, "resubmission idempotency verified", logger.Int("records", n))
	return nil
}

// verifyPredictions samples pairings of a clear favourite against a clear
// struggler and checks the responses are well formed and mostly favour the
// stronger side.
func verifyPredictions(ctx context.Context, config *Config, client *HTTPClient, stats *Stats) error {
	teams := generateTeams(config.NumTeams)
	date := time.Now().UTC().AddDate(0, 0, 7).Format(model.DateLayout)

	upheld := 0
	pairs := config.NumTeams / 2
	for i := 0; i < pairs; i++ {
		strong := teams[config.NumTeams-1-i]
		weak := teams[i]

		p, err := requestPrediction(ctx, config, client, strong.name, weak.name, date)
		if err != nil {
			return err
		}
		stats.PredictionsRequested++

		if err := checkPredictionShape(p); err != nil {
			return fmt.Errorf("prediction for %s vs %s: %w", strong.name, weak.name, err)
		}
		if p.HomeWinProb > 0.5 {
			upheld++
		}
		if config.Verbose {
			logger.Get().Info(ctx, "sampled prediction",
				logger.String("home", strong.name),
				logger.String("away", weak.name),
				logger.Float64("homeWinProb", p.HomeWinProb),
				logger.String("method", p.PredictionMethod),
			)
		}
	}
	stats.PredictionsUpheld = upheld

	// The strength gap in the seeded data is large; the model should favour
	// the stronger club in the clear majority of pairings.
	if pairs > 0 && upheld*2 <= pairs {
		return fmt.Errorf("only %d of %d favourite predictions upheld", upheld, pairs)
	}
	logger.Get().Info(ctx, "prediction sanity verified",
		logger.Int("requested", stats.PredictionsRequested),
		logger.Int("upheld", upheld),
	)
	return nil
}

// checkPredictionShape validates the wire contract of one prediction.
func checkPredictionShape(p prediction) error {
	switch {
	case p.HomeWinProb < 0 || p.HomeWinProb > 1:
		return fmt.Errorf("home_win_prob %f outside [0,1]", p.HomeWinProb)
	case p.Winner == "":
		return fmt.Errorf("empty winner")
	case p.PredictedHomeScore < 0 || p.PredictedAwayScore < 0:
		return fmt.Errorf("negative predicted score")
	case p.ConfidenceLabel == "" || p.IntensityLabel == "":
		return fmt.Errorf("missing labels")
	case p.PredictionMethod == "":
		return fmt.Errorf("missing prediction_method")
	}
	return nil
}
