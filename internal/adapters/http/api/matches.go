// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/app"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/model"
)

// MatchesDependencies defines the interface for match ingestion.
type MatchesDependencies interface {
	IngestMatches(ctx context.Context, batch []app.MatchInput) (app.IngestResult, error)
}

// MatchesHandler handles match ingestion requests.
type MatchesHandler struct {
	deps MatchesDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchesDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// matchInput mirrors the JSON schema for one record in POST /matches.
type matchInput struct {
	LeagueID  int    `json:"league_id"`
	Season    string `json:"season"`
	Round     string `json:"round"`
	MatchDate string `json:"match_date"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	Completed bool   `json:"completed"`
}

func (m matchInput) validate() error {
	switch {
	case m.LeagueID <= 0:
		return errors.New("missing or invalid league_id")
	case strings.TrimSpace(m.HomeTeam) == "":
		return errors.New("missing home_team")
	case strings.TrimSpace(m.AwayTeam) == "":
		return errors.New("missing away_team")
	case strings.TrimSpace(m.MatchDate) == "":
		return errors.New("missing match_date")
	}
	if _, err := time.Parse(model.DateLayout, m.MatchDate); err != nil {
		return errors.New("invalid match_date; must be YYYY-MM-DD")
	}
	if m.Completed && (m.HomeScore < 0 || m.AwayScore < 0) {
		return errors.New("negative score")
	}
	return nil
}

// HandlePostMatches handles POST /matches requests. Records are upserted and
// any league that gained completed matches is scheduled for retraining; the
// response acknowledges acceptance, not training completion.
func (h *MatchesHandler) HandlePostMatches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var inputs []matchInput
	if err := json.NewDecoder(r.Body).Decode(&inputs); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if len(inputs) == 0 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("empty batch"))
		return
	}

	batch := make([]app.MatchInput, 0, len(inputs))
	for i, in := range inputs {
		if err := in.validate(); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", fmt.Errorf("record %d: %w", i, err))
			return
		}
		date, _ := time.Parse(model.DateLayout, in.MatchDate)
		batch = append(batch, app.MatchInput{
			LeagueID:  in.LeagueID,
			Season:    in.Season,
			Round:     in.Round,
			MatchDate: date,
			HomeTeam:  in.HomeTeam,
			AwayTeam:  in.AwayTeam,
			HomeScore: in.HomeScore,
			AwayScore: in.AwayScore,
			Completed: in.Completed,
		})
	}

	res, err := h.deps.IngestMatches(r.Context(), batch)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	writeJSON(w, http.StatusAccepted, res)
}
