// Package engine derives the plant state from its record and applies waterings.
//
// Every function here is pure: the current instant is passed in and the
// updated record is returned rather than stored.
package engine

import (
	"time"

	"github.com/rcliao/plants/internal/model"
)

// Engine evaluates plant records against fixed thresholds.
type Engine struct {
	thresholds model.Thresholds
}

// New creates an engine. Thresholds must already be validated.
func New(t model.Thresholds) *Engine {
	return &Engine{thresholds: t}
}

// Evaluate returns the state of r at now.
func (e *Engine) Evaluate(now time.Time, r model.Record) model.State {
	if r.IsNew() {
		return model.StateNew
	}
	elapsed := now.Sub(r.LastWatered)
	switch {
	case elapsed < e.thresholds.MinReWater:
		return model.StateBlooming
	case elapsed <= e.thresholds.MaxSurvival:
		return model.StateNeedsWater
	default:
		return model.StateDead
	}
}

// Water applies a watering action at now.
// Within the cooldown the record is returned unchanged with OutcomeTooSoon.
func (e *Engine) Water(now time.Time, r model.Record) (model.Record, model.Outcome) {
	if !r.IsNew() && now.Sub(r.LastWatered) < e.thresholds.MinReWater {
		return r, model.OutcomeTooSoon
	}
	r.LastWatered = now
	if r.FirstWatered.IsZero() {
		r.FirstWatered = now
	}
	return r, model.OutcomeWatered
}

// ObserveDead clears FirstWatered so the next watering starts a new life.
// It reports whether the record changed; repeated calls are no-ops.
func (e *Engine) ObserveDead(r model.Record) (model.Record, bool) {
	if r.FirstWatered.IsZero() {
		return r, false
	}
	r.FirstWatered = time.Time{}
	return r, true
}

// Elapsed returns the time since the last watering, or 0 for a new plant.
func (e *Engine) Elapsed(now time.Time, r model.Record) time.Duration {
	if r.IsNew() {
		return 0
	}
	return now.Sub(r.LastWatered)
}

// NextWaterAt returns the earliest instant a watering is accepted.
func (e *Engine) NextWaterAt(r model.Record) time.Time {
	if r.IsNew() {
		return time.Time{}
	}
	return r.LastWatered.Add(e.thresholds.MinReWater)
}

// DiesAt returns the instant after which the plant is dead unless watered.
func (e *Engine) DiesAt(r model.Record) time.Time {
	if r.IsNew() {
		return time.Time{}
	}
	return r.LastWatered.Add(e.thresholds.MaxSurvival)
}
