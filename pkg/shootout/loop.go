package shootout

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// DefaultInterval is the poll cadence when none is configured.
const DefaultInterval = 1 * time.Second

// LoopConfig tunes a Loop.
type LoopConfig struct {
	// Channel is the target channel every source must reach.
	Channel string

	// Interval is the tick cadence. Zero uses DefaultInterval.
	Interval time.Duration

	// IgnoreChannelErrors treats every source as arrived regardless of
	// its reported channel. Set when channel tuning is known to fail on
	// some hardware but the comparison is still wanted.
	IgnoreChannelErrors bool
}

// Loop drives the fixed-interval polling cadence: fetch a snapshot,
// dispatch it to the sync tracker or the accumulator depending on run
// state, and feed the renderer. One tick runs to completion before the
// next begins, so no locking is needed anywhere in the core.
type Loop struct {
	registry Registry
	renderer Renderer
	logger   *slog.Logger

	sources []*Source
	tracker *SyncTracker
	acc     *Accumulator

	interval time.Duration
	state    State
	syncedAt time.Time

	// nowFunc allows tests to override time.Now for deterministic output.
	nowFunc func() time.Time
}

// NewLoop builds a Loop over already-enrolled sources. The registry and
// renderer are the loop's only collaborators.
func NewLoop(registry Registry, renderer Renderer, sources []*Source, cfg LoopConfig, logger *slog.Logger) *Loop {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{
		registry: registry,
		renderer: renderer,
		logger:   logger,
		sources:  sources,
		tracker:  NewSyncTracker(sources, cfg.Channel, cfg.IgnoreChannelErrors),
		acc:      NewAccumulator(sources),
		interval: interval,
		state:    StateSyncing,
		nowFunc:  time.Now,
	}
}

// State returns the current run phase.
func (l *Loop) State() State {
	return l.state
}

// Run polls until ctx is cancelled or a fetch fails for good. There is
// no natural termination: the shootout runs until the operator stops it,
// in which case Run returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		if err := l.Tick(ctx); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Tick executes one poll cycle. A failed session check is logged and the
// tick proceeds; a failed snapshot fetch (the client has already retried)
// is fatal, since ranking against stale counters would corrupt the
// comparison.
func (l *Loop) Tick(ctx context.Context) error {
	if err := l.registry.CheckSession(ctx); err != nil {
		l.logger.Warn("session check failed", "error", err)
	}

	datasources, err := l.registry.Datasources(ctx)
	if err != nil {
		return fmt.Errorf("fetching datasources: %w", err)
	}
	snap := SnapshotFrom(datasources)

	switch l.state {
	case StateSyncing:
		if l.tracker.Observe(snap) == AllSynced {
			l.state = StateCollecting
			l.syncedAt = l.nowFunc()
			l.logger.Info("all sources tuned, collecting", "sources", len(l.sources))
		} else {
			l.renderer.Waiting(l.tracker.Pending())
		}
	case StateCollecting:
		l.acc.Update(snap)
		l.renderer.Display(Rank(l.sources), l.nowFunc().Sub(l.syncedAt))
	}
	return nil
}
