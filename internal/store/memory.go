package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/tccon-diagnostics/internal/diagnostics"
)

var (
	// ErrNotFound is returned when no artifact matches the query.
	ErrNotFound = errors.New("no artifacts for site")
)

// history holds the artifacts of one site in creation order.
type history struct {
	artifacts []diagnostics.Artifact
}

// MemoryStore keeps the artifacts produced during one invocation. Nothing is
// persisted.
type MemoryStore struct {
	mu sync.RWMutex

	// key: site name, value: history
	data map[string]*history
	all  []diagnostics.Artifact

	// max artifacts kept per site
	maxHistory int
}

// NewMemoryStore creates a new MemoryStore.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int) *MemoryStore {
	return &MemoryStore{
		data:       make(map[string]*history),
		maxHistory: maxHistory,
	}
}

// Save appends an artifact for its site and enforces retention.
func (s *MemoryStore) Save(a diagnostics.Artifact) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.all = append(s.all, a)

	h, ok := s.data[a.Site]
	if !ok {
		h = &history{}
		s.data[a.Site] = h
	}
	h.artifacts = append(h.artifacts, a)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(h.artifacts) > s.maxHistory {
		over := len(h.artifacts) - s.maxHistory
		h.artifacts = h.artifacts[over:]
	}
}

// Latest returns the most recent artifact for a site.
func (s *MemoryStore) Latest(site string) (diagnostics.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.data[site]
	if !ok || len(h.artifacts) == 0 {
		return diagnostics.Artifact{}, ErrNotFound
	}
	return h.artifacts[len(h.artifacts)-1], nil
}

// Range returns the artifacts of a site whose day lies in [from, to].
func (s *MemoryStore) Range(site string, from, to time.Time) ([]diagnostics.Artifact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	h, ok := s.data[site]
	if !ok || len(h.artifacts) == 0 {
		return nil, ErrNotFound
	}

	var result []diagnostics.Artifact
	for _, a := range h.artifacts {
		if !a.Day.Before(from) && !a.Day.After(to) {
			result = append(result, a)
		}
	}

	if len(result) == 0 {
		return nil, ErrNotFound
	}
	return result, nil
}

// All returns every saved artifact in save order, retention aside.
func (s *MemoryStore) All() []diagnostics.Artifact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]diagnostics.Artifact, len(s.all))
	copy(out, s.all)
	return out
}
