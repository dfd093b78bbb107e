package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ST10029256/rugby-ai-pedictor-sub000/internal/domain/model"
)

// MemoryStore keeps records in per-league sorted slices. Writes for a league
// are serialized behind one lock; reads return copies so callers can never
// observe a concurrent mutation.
type MemoryStore struct {
	mu      sync.RWMutex
	teams   map[int]map[string]model.Team // league -> team id -> team
	matches map[int][]model.Match         // league -> matches sorted by (date, key)
	index   map[string]int                // match key -> position in its league slice
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		teams:   make(map[int]map[string]model.Team),
		matches: make(map[int][]model.Match),
		index:   make(map[string]int),
	}
}

// UpsertTeam creates or renames a team.
func (s *MemoryStore) UpsertTeam(_ context.Context, t model.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	league, ok := s.teams[t.LeagueID]
	if !ok {
		league = make(map[string]model.Team)
		s.teams[t.LeagueID] = league
	}
	league[t.ID] = t
	return nil
}

// ResolveTeam finds a team by display name, case-insensitively.
func (s *MemoryStore) ResolveTeam(_ context.Context, leagueID int, name string) (model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	want := strings.ToLower(strings.TrimSpace(name))
	for _, t := range s.teams[leagueID] {
		if strings.ToLower(t.Name) == want {
			return t, nil
		}
	}
	return model.Team{}, ErrUnknownTeam
}

// TeamByID returns a team by identity.
func (s *MemoryStore) TeamByID(_ context.Context, leagueID int, teamID string) (model.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if t, ok := s.teams[leagueID][teamID]; ok {
		return t, nil
	}
	return model.Team{}, ErrUnknownTeam
}

// AddMatch upserts a match record by key.
func (s *MemoryStore) AddMatch(_ context.Context, m model.Match) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := m.Key()
	if pos, ok := s.index[key]; ok {
		existing := s.matches[m.LeagueID][pos]
		if existing == m {
			return false, nil
		}
		s.matches[m.LeagueID][pos] = m
		return true, nil
	}

	league := s.matches[m.LeagueID]
	// Insert keeping (date, key) order so reads need no sort.
	at := sort.Search(len(league), func(i int) bool {
		if !league[i].Date.Equal(m.Date) {
			return league[i].Date.After(m.Date)
		}
		return league[i].Key() > key
	})
	league = append(league, model.Match{})
	copy(league[at+1:], league[at:])
	league[at] = m
	s.matches[m.LeagueID] = league

	// Reindex shifted entries.
	for i := at; i < len(league); i++ {
		s.index[league[i].Key()] = i
	}
	return true, nil
}

// CompletedMatches returns all completed matches in chronological order.
func (s *MemoryStore) CompletedMatches(ctx context.Context, leagueID int) ([]model.Match, error) {
	return s.CompletedBefore(ctx, leagueID, time.Time{})
}

// CompletedBefore returns completed matches strictly before the given date.
// A zero time means no upper bound.
func (s *MemoryStore) CompletedBefore(_ context.Context, leagueID int, before time.Time) ([]model.Match, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Match
	for _, m := range s.matches[leagueID] {
		if !before.IsZero() && !m.Date.Before(before) {
			break
		}
		if m.Completed {
			out = append(out, m)
		}
	}
	return out, nil
}

// Counts reports store sizes for stats.
func (s *MemoryStore) Counts(_ context.Context) (teams, completed int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, league := range s.teams {
		teams += len(league)
	}
	for _, league := range s.matches {
		for _, m := range league {
			if m.Completed {
				completed++
			}
		}
	}
	return teams, completed
}
