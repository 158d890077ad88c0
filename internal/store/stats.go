package store

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Stats holds database statistics.
type Stats struct {
	DBPath         string       `json:"db_path"`
	DBSizeBytes    int64        `json:"db_size_bytes"`
	TotalPlants    int          `json:"total_plants"`
	TotalWaterings int          `json:"total_waterings"`
	Plants         []PlantStats `json:"plants"`
}

// PlantStats holds per-plant journal counts.
type PlantStats struct {
	Plant     string `json:"plant"`
	Waterings int    `json:"waterings"`
	Accepted  int    `json:"accepted"`
	TooSoon   int    `json:"too_soon"`
}

// PlantInfo is a plant with a stored record.
type PlantInfo struct {
	Plant        string     `json:"plant"`
	FirstWatered *time.Time `json:"first_watered,omitempty"`
	LastWatered  *time.Time `json:"last_watered,omitempty"`
}

// Stats returns database statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT plant) FROM prefs`).Scan(&st.TotalPlants); err != nil {
		return nil, fmt.Errorf("count plants: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM waterings`).Scan(&st.TotalWaterings); err != nil {
		return nil, fmt.Errorf("count waterings: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT plant, COUNT(*) AS cnt,
		       SUM(CASE WHEN outcome = 'watered' THEN 1 ELSE 0 END),
		       SUM(CASE WHEN outcome = 'too_soon' THEN 1 ELSE 0 END)
		FROM waterings
		GROUP BY plant ORDER BY cnt DESC, plant`)
	if err != nil {
		return nil, fmt.Errorf("count per plant: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ps PlantStats
		if err := rows.Scan(&ps.Plant, &ps.Waterings, &ps.Accepted, &ps.TooSoon); err != nil {
			return nil, err
		}
		st.Plants = append(st.Plants, ps)
	}

	return st, rows.Err()
}

// ListPlants returns every plant with a stored record, by name.
func (s *SQLiteStore) ListPlants(ctx context.Context) ([]PlantInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT plant FROM prefs ORDER BY plant`)
	if err != nil {
		return nil, err
	}
	var names []string
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

	plants := make([]PlantInfo, 0, len(names))
	for _, n := range names {
		rec, err := s.LoadRecord(ctx, n)
		if err != nil {
			return nil, err
		}
		info := PlantInfo{Plant: n}
		if !rec.FirstWatered.IsZero() {
			t := rec.FirstWatered
			info.FirstWatered = &t
		}
		if !rec.LastWatered.IsZero() {
			t := rec.LastWatered
			info.LastWatered = &t
		}
		plants = append(plants, info)
	}
	return plants, nil
}
