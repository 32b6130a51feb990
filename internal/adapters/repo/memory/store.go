package memory

import (
	"context"
	"sync"

	"github.com/bnema/punchclock/internal/domain"
	"github.com/bnema/punchclock/internal/ports"
)

// Store keeps the state in process memory. Loads and saves copy the
// aggregate so callers never share maps with the store.
type Store struct {
	mu    sync.RWMutex
	state domain.State
	saves int
}

var _ ports.StateStore = (*Store)(nil)

func NewStore(initial domain.State) *Store {
	initial.ApplyDefaults()
	return &Store{state: initial.Clone()}
}

func (s *Store) Load(ctx context.Context) (domain.State, error) {
	if err := ctx.Err(); err != nil {
		return domain.State{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state.Clone(), nil
}

func (s *Store) Save(ctx context.Context, state domain.State) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = state.Clone()
	s.saves++
	return nil
}

// Saves reports how many times Save succeeded.
func (s *Store) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.saves
}
