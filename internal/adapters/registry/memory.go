package registry

import (
	"context"
	"sync"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/train"
)

// MemoryRegistry keeps artifacts in process memory. Versions are append-only
// per league; the active pointer is the index of the latest publish.
type MemoryRegistry struct {
	mu       sync.RWMutex
	versions map[int][]*train.Artifact
	active   map[int]int
}

// NewMemoryRegistry creates an empty in-memory registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		versions: make(map[int][]*train.Artifact),
		active:   make(map[int]int),
	}
}

// Publish appends the artifact and swaps the active pointer under one lock,
// so readers see either the previous artifact or the new one, never a
// partial state.
func (r *MemoryRegistry) Publish(_ context.Context, leagueID int, artifact *train.Artifact) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	version := len(r.versions[leagueID]) + 1
	stored := *artifact
	stored.Metadata.Version = version
	r.versions[leagueID] = append(r.versions[leagueID], &stored)
	r.active[leagueID] = version - 1
	return version, nil
}

// Active returns the league's active artifact.
func (r *MemoryRegistry) Active(_ context.Context, leagueID int) (*train.Artifact, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.active[leagueID]
	if !ok {
		return nil, ErrNotFound
	}
	return r.versions[leagueID][idx], nil
}

// Versions returns metadata for every published version in order.
func (r *MemoryRegistry) Versions(_ context.Context, leagueID int) ([]train.Metadata, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	vs := r.versions[leagueID]
	if len(vs) == 0 {
		return nil, ErrNotFound
	}
	out := make([]train.Metadata, len(vs))
	for i, a := range vs {
		out[i] = a.Metadata
	}
	return out, nil
}
