// internal/store/memory.go
//
// In-memory Store for comic rounds.
//
// Characteristics:
//   - Stores *game.Round objects keyed by round ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts; Prune drops stale rounds.
//   - Get returns game.ErrNotFound for unknown IDs.

package store

import (
	"context"
	"sync"
	"time"

	"github.com/robalobadob/comicguess/internal/game"
)

// Store defines the persistence interface for rounds.
type Store interface {
	// Save persists or updates a round.
	Save(ctx context.Context, r *game.Round) error

	// Get retrieves a round by ID.
	Get(ctx context.Context, id string) (*game.Round, error)

	// Prune removes rounds started before cutoff and reports how many.
	Prune(ctx context.Context, cutoff time.Time) int
}

type memory struct {
	mu     sync.RWMutex
	rounds map[string]*game.Round
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{rounds: make(map[string]*game.Round)}
}

func (m *memory) Save(ctx context.Context, r *game.Round) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds[r.ID] = r
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*game.Round, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.rounds[id]; ok {
		return r, nil
	}
	return nil, game.ErrNotFound
}

func (m *memory) Prune(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, r := range m.rounds {
		if r.Started.Before(cutoff) {
			delete(m.rounds, id)
			n++
		}
	}
	return n
}
