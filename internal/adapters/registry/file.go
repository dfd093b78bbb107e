package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/train"
)

// index is the on-disk registry index for one league: the active pointer
// plus the full version history.
type index struct {
	ActiveVersion int              `json:"active_version"`
	Versions      []train.Metadata `json:"versions"`
}

// FileRegistry persists artifacts under root/league-<id>/v<N>.json with a
// per-league index.json. Both artifact and index writes go through
// write-temp-then-rename, so the active pointer flips atomically and a
// crashed publish leaves the previous artifact authoritative.
type FileRegistry struct {
	mu   sync.Mutex
	root string

	// Read-through cache of active artifacts; invalidated on publish.
	cache map[int]*train.Artifact
}

// NewFileRegistry creates the root directory if needed.
func NewFileRegistry(root string) (*FileRegistry, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create registry root: %w", err)
	}
	return &FileRegistry{root: root, cache: make(map[int]*train.Artifact)}, nil
}

func (r *FileRegistry) leagueDir(leagueID int) string {
	return filepath.Join(r.root, fmt.Sprintf("league-%d", leagueID))
}

// Publish writes the artifact file, then flips the index to point at it.
func (r *FileRegistry) Publish(_ context.Context, leagueID int, artifact *train.Artifact) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	dir := r.leagueDir(leagueID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return 0, fmt.Errorf("create league dir: %w", err)
	}

	idx, err := r.readIndex(leagueID)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return 0, err
	}

	version := len(idx.Versions) + 1
	stored := *artifact
	stored.Metadata.Version = version

	if err := writeJSONAtomic(filepath.Join(dir, fmt.Sprintf("v%d.json", version)), &stored); err != nil {
		return 0, fmt.Errorf("write artifact v%d: %w", version, err)
	}

	idx.Versions = append(idx.Versions, stored.Metadata)
	idx.ActiveVersion = version
	if err := writeJSONAtomic(filepath.Join(dir, "index.json"), &idx); err != nil {
		return 0, fmt.Errorf("write index: %w", err)
	}

	r.cache[leagueID] = &stored
	return version, nil
}

// Active returns the league's active artifact, reading through the cache.
func (r *FileRegistry) Active(_ context.Context, leagueID int) (*train.Artifact, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.cache[leagueID]; ok {
		return a, nil
	}

	idx, err := r.readIndex(leagueID)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if idx.ActiveVersion == 0 {
		return nil, ErrNotFound
	}

	path := filepath.Join(r.leagueDir(leagueID), fmt.Sprintf("v%d.json", idx.ActiveVersion))
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read artifact: %w", err)
	}
	var a train.Artifact
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("decode artifact: %w", err)
	}
	r.cache[leagueID] = &a
	return &a, nil
}

// Versions returns metadata for every published version in order.
func (r *FileRegistry) Versions(_ context.Context, leagueID int) ([]train.Metadata, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx, err := r.readIndex(leagueID)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(idx.Versions) == 0 {
		return nil, ErrNotFound
	}
	return idx.Versions, nil
}

func (r *FileRegistry) readIndex(leagueID int) (index, error) {
	var idx index
	raw, err := os.ReadFile(filepath.Join(r.leagueDir(leagueID), "index.json"))
	if err != nil {
		return idx, err
	}
	if err := json.Unmarshal(raw, &idx); err != nil {
		return idx, fmt.Errorf("decode index: %w", err)
	}
	return idx, nil
}

// writeJSONAtomic writes v to a temp file in the target directory and
// renames it into place.
func writeJSONAtomic(path string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}
