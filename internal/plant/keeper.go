// Package plant runs plant sessions: load the record, evaluate it, water it, persist it.
package plant

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rcliao/plants/internal/display"
	"github.com/rcliao/plants/internal/engine"
	"github.com/rcliao/plants/internal/logfields"
	"github.com/rcliao/plants/internal/metrics"
	"github.com/rcliao/plants/internal/model"
	"github.com/rcliao/plants/internal/store"
)

// Options configures a Keeper. Zero fields get defaults.
type Options struct {
	Plant    string
	Clock    clockwork.Clock
	Logger   *slog.Logger
	Recorder metrics.Recorder
}

// Keeper manages one plant against a store.
type Keeper struct {
	plant    string
	store    store.Store
	engine   *engine.Engine
	clock    clockwork.Clock
	logger   *slog.Logger
	recorder metrics.Recorder
}

// Report is the result of one keeper operation.
type Report struct {
	Plant       string        `json:"plant"`
	Now         time.Time     `json:"now"`
	Record      model.Record  `json:"record"`
	State       model.State   `json:"state"`
	Outcome     model.Outcome `json:"outcome,omitempty"`
	View        display.View  `json:"view"`
	ElapsedMS   int64         `json:"elapsed_ms"`
	NextWaterAt *time.Time    `json:"next_water_at,omitempty"`
	DiesAt      *time.Time    `json:"dies_at,omitempty"`
	Died        bool          `json:"died,omitempty"`
}

// NewKeeper creates a keeper for opts.Plant.
func NewKeeper(st store.Store, eng *engine.Engine, opts Options) *Keeper {
	if opts.Plant == "" {
		opts.Plant = model.DefaultPlant
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NoopRecorder{}
	}
	return &Keeper{
		plant:    opts.Plant,
		store:    st,
		engine:   eng,
		clock:    opts.Clock,
		logger:   opts.Logger.With(logfields.Plant(opts.Plant)),
		recorder: opts.Recorder,
	}
}

// Plant returns the plant name.
func (k *Keeper) Plant() string { return k.plant }

// Now returns the keeper's current time.
func (k *Keeper) Now() time.Time { return k.clock.Now() }

// Open is the startup evaluation.
func (k *Keeper) Open(ctx context.Context) (*Report, error) {
	return k.Refresh(ctx)
}

// Refresh re-evaluates the plant and rebuilds the view without watering.
// A dead plant loses its first-watered instant here, once.
func (k *Keeper) Refresh(ctx context.Context) (*Report, error) {
	now := k.clock.Now()
	rec, err := k.store.LoadRecord(ctx, k.plant)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", k.plant, err)
	}
	return k.observe(ctx, now, rec)
}

// Water is the user's watering action.
// A rejected watering is reported with OutcomeTooSoon, not an error.
func (k *Keeper) Water(ctx context.Context) (*Report, error) {
	now := k.clock.Now()
	rec, err := k.store.LoadRecord(ctx, k.plant)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", k.plant, err)
	}

	// Apply a pending death first so the new life gets a fresh first-watered instant.
	died := false
	if k.engine.Evaluate(now, rec) == model.StateDead {
		before, err := k.observe(ctx, now, rec)
		if err != nil {
			return nil, err
		}
		rec, died = before.Record, before.Died
	}

	next, outcome := k.engine.Water(now, rec)
	if outcome == model.OutcomeWatered {
		if err := k.store.SaveRecord(ctx, k.plant, next); err != nil {
			return nil, fmt.Errorf("save %s: %w", k.plant, err)
		}
	}
	if _, err := k.store.AppendWatering(ctx, k.plant, now, outcome); err != nil {
		return nil, fmt.Errorf("journal %s: %w", k.plant, err)
	}
	k.recorder.IncWatering(k.plant, outcome)
	k.logger.Info("watering", logfields.Outcome(string(outcome)))

	rep, err := k.observe(ctx, now, next)
	if err != nil {
		return nil, err
	}
	rep.Outcome = outcome
	rep.Died = rep.Died || died
	rep.View = display.WithNotification(rep.View, outcome)
	return rep, nil
}

// History returns the plant's watering journal, newest first.
func (k *Keeper) History(ctx context.Context, limit int) ([]model.Watering, error) {
	return k.store.History(ctx, store.HistoryParams{Plant: k.plant, Limit: limit})
}

func (k *Keeper) observe(ctx context.Context, now time.Time, rec model.Record) (*Report, error) {
	state := k.engine.Evaluate(now, rec)
	died := false
	if state == model.StateDead {
		var changed bool
		rec, changed = k.engine.ObserveDead(rec)
		if changed {
			if err := k.store.SaveRecord(ctx, k.plant, rec); err != nil {
				return nil, fmt.Errorf("save %s: %w", k.plant, err)
			}
			died = true
			k.recorder.IncDeath(k.plant)
			k.logger.Warn("plant died", logfields.Elapsed(k.engine.Elapsed(now, rec)))
		}
	}

	elapsed := k.engine.Elapsed(now, rec)
	k.recorder.ObserveState(k.plant, state, elapsed)
	k.logger.Debug("evaluated", logfields.State(string(state)), logfields.Elapsed(elapsed))

	rep := &Report{
		Plant:     k.plant,
		Now:       now,
		Record:    rec,
		State:     state,
		View:      display.Render(state, rec, now),
		ElapsedMS: elapsed.Milliseconds(),
		Died:      died,
	}
	if t := k.engine.NextWaterAt(rec); !t.IsZero() {
		rep.NextWaterAt = &t
	}
	if t := k.engine.DiesAt(rec); !t.IsZero() {
		rep.DiesAt = &t
	}
	return rep, nil
}
