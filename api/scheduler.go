/*
scheduler.go - Automated maintenance scheduler

PURPOSE:
  Periodically runs the engine maintenance pass so week settlements, missed
  roulette penalties, and streak resets land on time even when no request
  arrives around a boundary.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Every operation also settles on entry, so the scheduler is a liveness
    aid, not a correctness requirement
  - Runs once immediately on Start

USAGE:
  scheduler := NewMaintenanceScheduler(eng, 10*time.Minute, logger)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - engine/engine.go: RunMaintenance
  - cmd/server/main.go: Wiring and shutdown order
*/
package api

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/warp/points-engine/engine"
)

// MaintenanceScheduler periodically settles owed boundaries.
type MaintenanceScheduler struct {
	Engine        *engine.Engine
	CheckInterval time.Duration

	log    *log.Logger
	ticker *time.Ticker
	stop   chan struct{}
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewMaintenanceScheduler creates a new scheduler.
func NewMaintenanceScheduler(eng *engine.Engine, interval time.Duration, logger *log.Logger) *MaintenanceScheduler {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &MaintenanceScheduler{
		Engine:        eng,
		CheckInterval: interval,
		log:           logger,
		stop:          make(chan struct{}),
	}
}

// Start begins the scheduler.
func (ms *MaintenanceScheduler) Start() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	ms.ticker = time.NewTicker(ms.CheckInterval)
	ms.wg.Add(1)

	go ms.run()

	ms.log.Info("scheduler started", "interval", ms.CheckInterval)
}

// Stop stops the scheduler.
func (ms *MaintenanceScheduler) Stop() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.ticker != nil {
		ms.ticker.Stop()
		close(ms.stop)
		ms.wg.Wait()
		ms.log.Info("scheduler stopped")
	}
}

func (ms *MaintenanceScheduler) run() {
	defer ms.wg.Done()

	// Run immediately on start
	ms.runOnce()

	for {
		select {
		case <-ms.ticker.C:
			ms.runOnce()
		case <-ms.stop:
			return
		}
	}
}

func (ms *MaintenanceScheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := ms.Engine.RunMaintenance(ctx); err != nil {
		ms.log.Error("maintenance pass failed", "err", err)
	}
}

// RunNow triggers an immediate pass (for testing/admin).
func (ms *MaintenanceScheduler) RunNow() {
	ms.runOnce()
}
