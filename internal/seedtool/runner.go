package seedtool

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/pkg/logger"
)

// trainingSettleDelay gives the background workers time to retrain after the
// last batch lands before predictions are sampled.
const trainingSettleDelay = 3 * time.Second

// Run executes the complete seeding and verification pass.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting season seeding",
		logger.String("baseURL", config.BaseURL),
		logger.Int("league", config.LeagueID),
		logger.Int("teams", config.NumTeams),
		logger.Int("seasons", config.Seasons),
		logger.String("timeout", config.Timeout.String()),
	)

	client := newHTTPClient(config.Timeout)

	// Step 1: check service health.
	if err := checkServiceHealth(ctx, config, client); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: generate synthetic seasons.
	fixtures := generateSeasons(ctx, config, stats)

	// Step 3: submit them in batches.
	if err := submitFixtures(ctx, config, client, fixtures, stats); err != nil {
		return fmt.Errorf("fixture submission failed: %w", err)
	}

	// Step 4: resubmit the first batch; every record must come back as a
	// duplicate and no extra retrain may trigger.
	if err := verifyResubmission(ctx, config, client, fixtures); err != nil {
		return fmt.Errorf("resubmission check failed: %w", err)
	}

	// Step 5: wait for training to settle, then sample predictions.
	logger.Get().Info(ctx, "waiting for training to settle")
	time.Sleep(trainingSettleDelay)

	if err := verifyPredictions(ctx, config, client, stats); err != nil {
		return fmt.Errorf("prediction verification failed: %w", err)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "seeding completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config, client *HTTPClient) error {
	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Any 200 counts as healthy; the endpoint serves Prometheus metrics.
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// displayFinalStats prints the final seeding statistics.
func displayFinalStats(stats *Stats) {
	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("fixturesGenerated", stats.FixturesGenerated),
		logger.Int("fixturesAccepted", stats.FixturesAccepted),
		logger.Int("fixturesDuplicate", stats.FixturesDuplicate),
		logger.Int("retrainsTriggered", stats.RetrainsTriggered),
		logger.Int("predictionsRequested", stats.PredictionsRequested),
		logger.Int("predictionsUpheld", stats.PredictionsUpheld),
		logger.String("duration", stats.Duration.String()),
	)
}
