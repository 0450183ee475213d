// Package store provides SnapshotStore implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/points-engine/engine"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu    sync.RWMutex
	state *engine.State
}

func NewMemory() *Memory {
	return &Memory{}
}

// Load returns the last saved state, or nil when nothing was saved yet.
func (m *Memory) Load(_ context.Context) (*engine.State, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.state == nil {
		return nil, nil
	}
	return m.state.Clone(), nil
}

// Save keeps a deep copy so later engine mutations can't leak into the
// stored snapshot.
func (m *Memory) Save(_ context.Context, s *engine.State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = s.Clone()
	return nil
}

// =============================================================================
// FAILING STORE - Save failure injection (for testing rollback)
// =============================================================================

// Failing wraps a store and fails Save after AllowSaves successful saves.
type Failing struct {
	Inner      engine.SnapshotStore
	AllowSaves int
	Err        error

	mu    sync.Mutex
	saves int
}

func (f *Failing) Load(ctx context.Context) (*engine.State, error) {
	return f.Inner.Load(ctx)
}

func (f *Failing) Save(ctx context.Context, s *engine.State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saves >= f.AllowSaves {
		return f.Err
	}
	f.saves++
	return f.Inner.Save(ctx, s)
}
