/*
engine.go - The aggregate engine: lock, lifecycle, commit protocol

PURPOSE:
  Engine owns the single State aggregate. Every public operation takes the
  exclusive lock for its full duration (read-modify-persist), settles any
  owed day/week boundaries first, applies the domain change, and commits
  through the SnapshotStore.

COMMIT PROTOCOL:
  Operations clone the state before mutating. If the snapshot write fails,
  the clone is restored and the caller sees ErrStateNotCommitted: the
  in-memory state never drifts ahead of durable state.

CONCURRENCY:
  Single-writer by construction. The scheduler and HTTP handlers call into
  the same locked entry points; settlement is idempotent, so redundant
  triggers are harmless.
*/
package engine

import (
	"context"
	"fmt"
	mrand "math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// =============================================================================
// POINT CONSTANTS
// =============================================================================

const (
	// Weekly minutes-goal settlement.
	weeklyGoalBonus   = 14
	weeklyGoalPenalty = -20

	// Per-missed-completion weekly penalty multiplier.
	weeklyDeficitRate = 5

	// Streak cadence: every streakLength-th consecutive completion pays
	// streakBonus on top of the daily reward.
	streakLength = 7
	streakBonus  = 7

	// Roulette immediate bonus range is [1, bonusPointsMax].
	bonusPointsMax = 5

	// SHOP_FREE_UNDER_100 only considers items cheaper than this.
	freeItemCostCap = 100
)

// =============================================================================
// SNAPSHOT STORE
// =============================================================================

// SnapshotStore persists the aggregate as one atomic snapshot. Load returns
// (nil, nil) when no snapshot exists yet.
type SnapshotStore interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, s *State) error
}

// Rand is the injected random source for the roulette. *math/rand.Rand
// satisfies it; tests substitute a seeded or scripted source.
type Rand interface {
	Intn(n int) int
}

// =============================================================================
// ENGINE
// =============================================================================

type Engine struct {
	mu    sync.Mutex
	store SnapshotStore
	state *State

	clock Clock
	rng   Rand
	zone  *time.Location
	log   *log.Logger
}

type Option func(*Engine)

func WithClock(c Clock) Option         { return func(e *Engine) { e.clock = c } }
func WithRand(r Rand) Option           { return func(e *Engine) { e.rng = r } }
func WithZone(z *time.Location) Option { return func(e *Engine) { e.zone = z } }
func WithLogger(l *log.Logger) Option  { return func(e *Engine) { e.log = l } }

// New loads the persisted state (seeding a fresh one on first run) and
// returns a ready engine.
func New(ctx context.Context, store SnapshotStore, opts ...Option) (*Engine, error) {
	e := &Engine{
		store: store,
		clock: SystemClock{},
		rng:   mrand.New(mrand.NewSource(time.Now().UnixNano())),
		zone:  time.UTC,
		log:   log.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}

	st, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if st == nil {
		st = NewState(e.now())
		st.User.Username = "Anna"
		st.Tasks = SeedTasks()
		st.Goals = SeedGoals()
		st.Shop = SeedShop()
		if err := store.Save(ctx, st); err != nil {
			return nil, fmt.Errorf("seed snapshot: %w", err)
		}
		e.log.Info("seeded fresh state", "installedAt", st.InstalledAt)
	}
	e.state = st
	return e, nil
}

func (e *Engine) now() time.Time { return e.clock.Now().In(e.zone) }
func (e *Engine) today() Date    { return DateOf(e.now()) }

// commit persists the state; on failure the pre-operation clone is restored
// so memory and durable state stay in agreement.
func (e *Engine) commit(ctx context.Context, prev *State) error {
	if err := e.store.Save(ctx, e.state); err != nil {
		e.state = prev
		return fmt.Errorf("%w: %v", ErrStateNotCommitted, err)
	}
	return nil
}

// RunMaintenance settles owed boundaries and resets streaks for tasks
// missed yesterday. Invoked at startup and by the scheduler; idempotent.
func (e *Engine) RunMaintenance(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	prev := e.state.Clone()
	e.settleIfNeeded()
	e.resetStreaksIfMissedYesterday()
	return e.commit(ctx, prev)
}
