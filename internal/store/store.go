// Package store provides the plant persistence interface and SQLite implementation.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/rcliao/plants/internal/model"
)

// Keys under which a plant's instants are stored, as Unix milliseconds.
const (
	KeyLastWatered  = "lastWatered"
	KeyFirstWatered = "firstWatered"
)

// ErrNotFound is returned when a plant has no stored data.
var ErrNotFound = errors.New("plant not found")

// ErrInvalidTime is returned for journal instants that are unset or before the Unix epoch.
var ErrInvalidTime = errors.New("invalid watering time")

// ErrInvalidRecord is returned for a record with FirstWatered set but LastWatered unset.
var ErrInvalidRecord = errors.New("invalid record")

// HistoryParams holds parameters for reading the watering journal.
type HistoryParams struct {
	Plant string
	Limit int
}

// KV is a key-value store of 64-bit values, namespaced by plant.
type KV interface {
	// GetInt64 returns the value stored under key, or def if unset.
	GetInt64(ctx context.Context, plant, key string, def int64) (int64, error)

	// PutInt64s writes all values in one transaction.
	PutInt64s(ctx context.Context, plant string, values map[string]int64) error
}

// Store defines the plant storage interface.
type Store interface {
	KV

	// LoadRecord reads a plant's record. A plant never seen has an unset record.
	LoadRecord(ctx context.Context, plant string) (model.Record, error)

	// SaveRecord writes both instants of a record atomically.
	SaveRecord(ctx context.Context, plant string, r model.Record) error

	// AppendWatering journals one watering action.
	AppendWatering(ctx context.Context, plant string, at time.Time, outcome model.Outcome) (*model.Watering, error)

	// History returns journal entries, newest first.
	History(ctx context.Context, p HistoryParams) ([]model.Watering, error)

	// Close closes the store.
	Close() error
}

// ToMillis encodes an instant, mapping unset to 0.
func ToMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// FromMillis decodes an instant, mapping 0 to unset.
func FromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
