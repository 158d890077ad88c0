// Package watch re-evaluates a plant on a fixed schedule and reports state changes.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"

	"github.com/rcliao/plants/internal/logfields"
	"github.com/rcliao/plants/internal/model"
	"github.com/rcliao/plants/internal/plant"
)

// Refresher is the part of plant.Keeper the watcher drives.
type Refresher interface {
	Plant() string
	Refresh(ctx context.Context) (*plant.Report, error)
}

// Options configures a Watcher.
type Options struct {
	Every  time.Duration
	Clock  clockwork.Clock
	Logger *slog.Logger
	// OnReport is called after every refresh; changed is true when the state
	// differs from the previous refresh (always true for the first).
	OnReport func(rep *plant.Report, changed bool)
}

// Watcher wraps a gocron scheduler running one refresh job.
type Watcher struct {
	scheduler gocron.Scheduler
	target    Refresher
	logger    *slog.Logger
	every     time.Duration
	onReport  func(*plant.Report, bool)

	mu   sync.Mutex
	last model.State
}

// New creates a watcher refreshing target every opts.Every.
func New(target Refresher, opts Options) (*Watcher, error) {
	if opts.Every <= 0 {
		return nil, fmt.Errorf("watch interval must be positive, got %s", opts.Every)
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	schedOpts := []gocron.SchedulerOption{}
	if opts.Clock != nil {
		schedOpts = append(schedOpts, gocron.WithClock(opts.Clock))
	}
	s, err := gocron.NewScheduler(schedOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}

	w := &Watcher{
		scheduler: s,
		target:    target,
		logger:    opts.Logger.With(logfields.Plant(target.Plant())),
		every:     opts.Every,
		onReport:  opts.OnReport,
	}
	return w, nil
}

// Run refreshes immediately, then on every interval, until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	_, err := w.scheduler.NewJob(
		gocron.DurationJob(w.every),
		gocron.NewTask(func() { w.tick(ctx) }),
		gocron.WithName("refresh-"+w.target.Plant()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		w.scheduler.Shutdown()
		return fmt.Errorf("failed to create refresh job: %w", err)
	}

	w.logger.Info("Starting watch", slog.String("every", w.every.String()))
	w.scheduler.Start()
	<-ctx.Done()

	w.logger.Info("Stopping watch")
	return w.scheduler.Shutdown()
}

// tick runs one refresh.
func (w *Watcher) tick(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	rep, err := w.target.Refresh(ctx)
	if err != nil {
		w.logger.Error("Refresh failed", logfields.Error(err))
		return
	}

	w.mu.Lock()
	prev := w.last
	changed := prev != rep.State
	w.last = rep.State
	w.mu.Unlock()

	if changed {
		w.logger.Info("State changed",
			logfields.PreviousState(string(prev)),
			logfields.State(string(rep.State)))
	}
	if w.onReport != nil {
		w.onReport(rep, changed)
	}
}
