package seedtool

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/pkg/logger"
)

// HTTPClient wraps http.Client with a per-request timeout.
type HTTPClient struct {
	client *http.Client
}

func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request.
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with a JSON body.
func (c *HTTPClient) Post(ctx context.Context, url string, body any) (*http.Response, error) {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.client.Do(req)
}

func readResponseBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}

// submitFixtures posts the generated fixtures in batches and accumulates the
// ingest acknowledgements.
func submitFixtures(ctx context.Context, config *Config, client *HTTPClient, fixtures []fixture, stats *Stats) error {
	url := config.BaseURL + "/matches"
	for start := 0; start < len(fixtures); start += config.BatchSize {
		end := start + config.BatchSize
		if end > len(fixtures) {
			end = len(fixtures)
		}

		resp, err := client.Post(ctx, url, fixtures[start:end])
		if err != nil {
			return fmt.Errorf("failed to submit batch at %d: %w", start, err)
		}
		body, err := readResponseBody(resp)
		if err != nil {
			return fmt.Errorf("failed to read batch response: %w", err)
		}
		if resp.StatusCode != http.StatusAccepted {
			return fmt.Errorf("batch at %d rejected with status %d: %s", start, resp.StatusCode, body)
		}

		var ack ingestAck
		if err := json.Unmarshal(body, &ack); err != nil {
			return fmt.Errorf("failed to parse batch response: %w", err)
		}
		stats.FixturesAccepted += ack.Accepted
		stats.FixturesDuplicate += ack.Duplicates
		stats.RetrainsTriggered += ack.Retrain

		if config.Verbose {
			logger.Get().Info(ctx, "batch submitted",
				logger.Int("offset", start),
				logger.Int("accepted", ack.Accepted),
				logger.Int("duplicates", ack.Duplicates),
			)
		}
	}
	return nil
}

// requestPrediction asks for one upcoming pairing.
func requestPrediction(ctx context.Context, config *Config, client *HTTPClient, homeTeam, awayTeam, date string) (prediction, error) {
	req := map[string]any{
		"home_team":  homeTeam,
		"away_team":  awayTeam,
		"league_id":  config.LeagueID,
		"match_date": date,
	}
	resp, err := client.Post(ctx, config.BaseURL+"/predict", req)
	if err != nil {
		return prediction{}, fmt.Errorf("predict request failed: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return prediction{}, fmt.Errorf("failed to read predict response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return prediction{}, fmt.Errorf("predict rejected with status %d: %s", resp.StatusCode, body)
	}
	var p prediction
	if err := json.Unmarshal(body, &p); err != nil {
		return prediction{}, fmt.Errorf("failed to parse predict response: %w", err)
	}
	return p, nil
}
