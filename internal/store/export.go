package store

import (
	"context"
	"fmt"
	"time"

	"github.com/rcliao/plants/internal/model"
)

// PlantDump is the exported form of one plant.
type PlantDump struct {
	Plant     string           `json:"plant"`
	Record    model.Record     `json:"record"`
	Waterings []model.Watering `json:"waterings"`
}

// ExportAll returns every plant's record and full journal, optionally for one plant.
func (s *SQLiteStore) ExportAll(ctx context.Context, plant string) ([]PlantDump, error) {
	var names []string
	if plant != "" {
		var n int
		err := s.db.QueryRowContext(ctx,
			`SELECT (SELECT COUNT(*) FROM prefs WHERE plant = ?) + (SELECT COUNT(*) FROM waterings WHERE plant = ?)`,
			plant, plant).Scan(&n)
		if err != nil {
			return nil, err
		}
		if n == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, plant)
		}
		names = []string{plant}
	} else {
		rows, err := s.db.QueryContext(ctx,
			`SELECT plant FROM prefs UNION SELECT plant FROM waterings ORDER BY plant`)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var n string
			if err := rows.Scan(&n); err != nil {
				rows.Close()
				return nil, err
			}
			names = append(names, n)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}

	dumps := make([]PlantDump, 0, len(names))
	for _, n := range names {
		rec, err := s.LoadRecord(ctx, n)
		if err != nil {
			return nil, err
		}
		ws, err := s.journal(ctx, n)
		if err != nil {
			return nil, err
		}
		dumps = append(dumps, PlantDump{Plant: n, Record: rec, Waterings: ws})
	}
	return dumps, nil
}

// journal returns a plant's whole journal, oldest first.
func (s *SQLiteStore) journal(ctx context.Context, plant string) ([]model.Watering, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, plant, at, outcome FROM waterings WHERE plant = ? ORDER BY at, id`, plant)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ws := []model.Watering{}
	for rows.Next() {
		w, err := scanWatering(rows)
		if err != nil {
			return nil, err
		}
		ws = append(ws, w)
	}
	return ws, rows.Err()
}

// Import restores plants from an export in one transaction: either every
// dump is applied or none is. Records are overwritten; journal entries
// already present (same ID) are skipped.
func (s *SQLiteStore) Import(ctx context.Context, dumps []PlantDump) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	for _, d := range dumps {
		if d.Plant == "" {
			return 0, fmt.Errorf("import: plant name is required")
		}
		if !d.Record.FirstWatered.IsZero() && d.Record.LastWatered.IsZero() {
			return 0, fmt.Errorf("import %s: %w: first watered without last watered", d.Plant, ErrInvalidRecord)
		}
		if err := putInt64s(ctx, tx, d.Plant, recordValues(d.Record)); err != nil {
			return 0, fmt.Errorf("import %s: %w", d.Plant, err)
		}

		for _, w := range d.Waterings {
			if !model.ValidOutcomes[w.Outcome] {
				return 0, fmt.Errorf("import %s: invalid outcome %q", d.Plant, w.Outcome)
			}
			if w.At.IsZero() || w.At.Before(time.UnixMilli(0)) {
				return 0, fmt.Errorf("import %s: %w: %s", d.Plant, ErrInvalidTime, w.At)
			}
			w.Plant = d.Plant
			if w.ID == "" {
				if w.ID, err = s.newID(w.At); err != nil {
					return 0, fmt.Errorf("import %s: %w", d.Plant, err)
				}
			}
			if err := s.insertWatering(ctx, tx, w, true); err != nil {
				return 0, fmt.Errorf("import %s: %w", d.Plant, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(dumps), nil
}
