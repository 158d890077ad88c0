// Package model defines the core plant data types.
package model

import (
	"fmt"
	"time"
)

// DefaultPlant is the plant name used when none is given.
const DefaultPlant = "plant"

// Record holds the two persisted instants of a plant.
// A zero time.Time means the instant is unset.
type Record struct {
	FirstWatered time.Time `json:"first_watered"`
	LastWatered  time.Time `json:"last_watered"`
}

// IsNew reports whether the plant has never been watered.
func (r Record) IsNew() bool {
	return r.LastWatered.IsZero()
}

// Thresholds are the two fixed durations the plant state is derived from.
type Thresholds struct {
	MinReWater  time.Duration `json:"min_rewater"`
	MaxSurvival time.Duration `json:"max_survival"`
}

// DefaultThresholds returns one hour between waterings and one day of survival.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinReWater:  time.Hour,
		MaxSurvival: 24 * time.Hour,
	}
}

// Validate checks 0 < MinReWater < MaxSurvival.
func (t Thresholds) Validate() error {
	if t.MinReWater <= 0 {
		return fmt.Errorf("min rewater must be positive, got %s", t.MinReWater)
	}
	if t.MinReWater >= t.MaxSurvival {
		return fmt.Errorf("min rewater (%s) must be less than max survival (%s)", t.MinReWater, t.MaxSurvival)
	}
	return nil
}

// State is the derived display state of a plant.
type State string

const (
	StateNew        State = "new"
	StateBlooming   State = "blooming"
	StateNeedsWater State = "needs_water"
	StateDead       State = "dead"
)

// Outcome is the result of a watering action.
type Outcome string

const (
	OutcomeWatered Outcome = "watered"
	OutcomeTooSoon Outcome = "too_soon"
)

// Icon identifies the plant picture shown for a state.
type Icon string

const (
	IconOK   Icon = "ok"
	IconGood Icon = "good"
	IconBad  Icon = "bad"
)

// Watering is a journal entry for one watering action.
type Watering struct {
	ID      string    `json:"id"`
	Plant   string    `json:"plant"`
	At      time.Time `json:"at"`
	Outcome Outcome   `json:"outcome"`
}

// ValidOutcomes are the outcomes accepted by the journal.
var ValidOutcomes = map[Outcome]bool{
	OutcomeWatered: true,
	OutcomeTooSoon: true,
}
