// Package tick drives the combat resolution loop.
package tick

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/la2go-combat/internal/clock"
	"github.com/udisondev/la2go-combat/internal/game/combat"
	"github.com/udisondev/la2go-combat/internal/model"
)

// Source enumerates the states to tick. *combat.Registry implements it.
type Source interface {
	Range(fn func(*combat.State) bool)
}

// StateNotifier is told about every entity whose UpdateAll reported a
// client-visible change. Calls come from worker goroutines concurrently.
type StateNotifier interface {
	NotifyStateChanged(id model.ObjectID)
}

// StateNotifierFunc adapts a function to StateNotifier.
type StateNotifierFunc func(id model.ObjectID)

// NotifyStateChanged implements StateNotifier.
func (f StateNotifierFunc) NotifyStateChanged(id model.ObjectID) { f(id) }

// Config controls the loop cadence and parallelism.
type Config struct {
	Interval time.Duration
	Workers  int
}

// DefaultConfig returns 100ms cadence over 4 workers.
func DefaultConfig() Config {
	return Config{Interval: 100 * time.Millisecond, Workers: 4}
}

// Manager calls UpdateAll on every registered State at a fixed cadence.
// All states of one tick see the same timestamp.
type Manager struct {
	states   Source
	clock    clock.Clock
	notifier StateNotifier
	cfg      Config

	stopCh   chan struct{}
	stopOnce sync.Once
	ticks    atomic.Uint64
}

// NewManager creates a tick manager. A nil notifier discards change events.
func NewManager(states Source, clk clock.Clock, notifier StateNotifier, cfg Config) *Manager {
	def := DefaultConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.Workers <= 0 {
		cfg.Workers = def.Workers
	}
	if notifier == nil {
		notifier = StateNotifierFunc(func(model.ObjectID) {})
	}
	return &Manager{
		states:   states,
		clock:    clk,
		notifier: notifier,
		cfg:      cfg,
		stopCh:   make(chan struct{}),
	}
}

// Start runs the tick loop (blocks until context is canceled or Stop is called).
func (m *Manager) Start(ctx context.Context) error {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()

	slog.Info("combat tick manager started",
		"interval", m.cfg.Interval,
		"workers", m.cfg.Workers)

	for {
		select {
		case <-ctx.Done():
			slog.Info("combat tick manager stopping")
			return ctx.Err()

		case <-m.stopCh:
			slog.Info("combat tick manager stopped")
			return nil

		case <-ticker.C:
			m.TickAll(ctx)
		}
	}
}

// Stop stops the tick loop. Safe to call more than once.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// TickAll runs one tick over every state and returns how many reported
// a change. States are updated in parallel, at most Workers at a time.
func (m *Manager) TickAll(ctx context.Context) int {
	now := m.clock.Now()

	var g errgroup.Group
	g.SetLimit(m.cfg.Workers)

	var total, changed atomic.Int32
	m.states.Range(func(st *combat.State) bool {
		if ctx.Err() != nil {
			return false
		}
		g.Go(func() error {
			total.Add(1)
			if st.UpdateAll(now) {
				changed.Add(1)
				m.notifier.NotifyStateChanged(st.ID())
			}
			return nil
		})
		return true
	})
	_ = g.Wait() // workers never fail

	m.ticks.Add(1)

	if total.Load() > 0 && slog.Default().Enabled(ctx, slog.LevelDebug) {
		slog.Debug("combat tick completed",
			"now", now,
			"states", total.Load(),
			"changed", changed.Load())
	}
	return int(changed.Load())
}

// Ticks returns how many ticks have run.
func (m *Manager) Ticks() uint64 {
	return m.ticks.Load()
}
