// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/app"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/model"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/train"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Predict runs the hybrid prediction read path.
	Predict(ctx context.Context, req app.PredictRequest) (model.Prediction, error)

	// IngestMatches upserts fixture records and schedules retraining.
	IngestMatches(ctx context.Context, batch []app.MatchInput) (app.IngestResult, error)

	// Model metadata reads for the registry surface.
	ActiveModel(ctx context.Context, leagueID int) (train.Metadata, error)
	ModelVersions(ctx context.Context, leagueID int) ([]train.Metadata, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	predictHandler *PredictHandler
	matchesHandler *MatchesHandler
	modelsHandler  *ModelsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:  NewHealthHandler(),
		statsHandler:   NewStatsHandler(statsProvider),
		predictHandler: NewPredictHandler(deps),
		matchesHandler: NewMatchesHandler(deps),
		modelsHandler:  NewModelsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/predict", MetricsMiddleware(s.predictHandler.HandlePredict, "predict"))
	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandlePostMatches, "matches"))
	mux.HandleFunc("/models/", MetricsMiddleware(s.modelsHandler.HandleGetModel, "models"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
