// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/adapters/registry"
	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/train"
)

// ModelsDependencies defines the interface for model metadata reads.
type ModelsDependencies interface {
	ActiveModel(ctx context.Context, leagueID int) (train.Metadata, error)
	ModelVersions(ctx context.Context, leagueID int) ([]train.Metadata, error)
}

// ModelsHandler handles model metadata requests.
type ModelsHandler struct {
	deps ModelsDependencies
}

// NewModelsHandler creates a new models handler.
func NewModelsHandler(deps ModelsDependencies) *ModelsHandler {
	return &ModelsHandler{deps: deps}
}

// HandleGetModel handles GET /models/{league_id} and
// GET /models/{league_id}/versions requests.
func (h *ModelsHandler) HandleGetModel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameters after /models/
	path := strings.TrimPrefix(r.URL.Path, "/models/")
	leaguePart, rest, _ := strings.Cut(path, "/")
	leagueID, err := strconv.Atoi(leaguePart)
	if err != nil || leagueID <= 0 {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("invalid league id"))
		return
	}

	switch rest {
	case "":
		meta, err := h.deps.ActiveModel(r.Context(), leagueID)
		if err != nil {
			writeModelErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, meta)
	case "versions":
		versions, err := h.deps.ModelVersions(r.Context(), leagueID)
		if err != nil {
			writeModelErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, versions)
	default:
		http.NotFound(w, r)
	}
}

func writeModelErr(w http.ResponseWriter, err error) {
	if errors.Is(err, registry.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", err)
		return
	}
	writeError(w, http.StatusInternalServerError, "internal_error", err)
}
