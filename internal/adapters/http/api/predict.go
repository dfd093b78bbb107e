// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/adapters/repository"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/app"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/model"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/pkg/metrics"
)

// PredictDependencies defines the interface for prediction operations.
type PredictDependencies interface {
	Predict(ctx context.Context, req app.PredictRequest) (model.Prediction, error)
}

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps PredictDependencies
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps PredictDependencies) *PredictHandler {
	return &PredictHandler{deps: deps}
}

// predictRequest mirrors the JSON schema for POST /predict.
type predictRequest struct {
	HomeTeam  string     `json:"home_team"`
	AwayTeam  string     `json:"away_team"`
	LeagueID  int        `json:"league_id"`
	MatchDate string     `json:"match_date"`
	Odds      *oddsInput `json:"odds,omitempty"`
}

type oddsInput struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

func (p predictRequest) validate() error {
	switch {
	case strings.TrimSpace(p.HomeTeam) == "":
		return errors.New("missing home_team")
	case strings.TrimSpace(p.AwayTeam) == "":
		return errors.New("missing away_team")
	case p.LeagueID <= 0:
		return errors.New("missing or invalid league_id")
	case strings.TrimSpace(p.MatchDate) == "":
		return errors.New("missing match_date")
	}
	if _, err := time.Parse(model.DateLayout, p.MatchDate); err != nil {
		return errors.New("invalid match_date; must be YYYY-MM-DD")
	}
	return nil
}

// predictResponse is the wire shape of a prediction.
type predictResponse struct {
	Winner             string  `json:"winner"`
	HomeWinProb        float64 `json:"home_win_prob"`
	PredictedHomeScore float64 `json:"predicted_home_score"`
	PredictedAwayScore float64 `json:"predicted_away_score"`
	ConfidenceLabel    string  `json:"confidence_label"`
	IntensityLabel     string  `json:"intensity_label"`
	PredictionMethod   string  `json:"prediction_method"`
}

// HandlePredict handles POST /predict requests.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	date, _ := time.Parse(model.DateLayout, req.MatchDate)

	var odds *model.Odds
	if req.Odds != nil {
		odds = &model.Odds{Home: req.Odds.Home, Away: req.Odds.Away}
	}

	pred, err := h.deps.Predict(r.Context(), app.PredictRequest{
		HomeTeam:  req.HomeTeam,
		AwayTeam:  req.AwayTeam,
		LeagueID:  req.LeagueID,
		MatchDate: date,
		Odds:      odds,
	})
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrUnknownTeam):
		metrics.RecordPredictionError("unknown_team")
		writeError(w, http.StatusBadRequest, "unknown_team", err)
		return
	case errors.Is(err, app.ErrTimeout):
		metrics.RecordPredictionError("timeout")
		writeError(w, http.StatusGatewayTimeout, "timeout", err)
		return
	default:
		metrics.RecordPredictionError("internal")
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}

	writeJSON(w, http.StatusOK, predictResponse{
		Winner:             pred.Winner,
		HomeWinProb:        pred.HomeWinProb,
		PredictedHomeScore: pred.PredictedHomeScore,
		PredictedAwayScore: pred.PredictedAwayScore,
		ConfidenceLabel:    pred.ConfidenceLabel,
		IntensityLabel:     pred.IntensityLabel,
		PredictionMethod:   pred.Method,
	})
}
