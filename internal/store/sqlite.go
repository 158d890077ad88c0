package store

import (
	"context"
	"database/sql"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/plants/internal/model"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

// newID returns a ULID stamped with at, so journal IDs sort by watering time.
// IDs made within the same millisecond increase monotonically.
func (s *SQLiteStore) newID(at time.Time) (string, error) {
	if at.IsZero() || at.Before(time.UnixMilli(0)) {
		return "", fmt.Errorf("%w: %s", ErrInvalidTime, at)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id, err := ulid.New(ulid.Timestamp(at), s.entropy)
	if err != nil {
		return "", fmt.Errorf("new id: %w", err)
	}
	return id.String(), nil
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS prefs (
		plant      TEXT NOT NULL,
		key        TEXT NOT NULL,
		value      INTEGER NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (plant, key)
	);

	CREATE TABLE IF NOT EXISTS waterings (
		id         TEXT PRIMARY KEY,
		plant      TEXT NOT NULL,
		at         INTEGER NOT NULL,
		outcome    TEXT NOT NULL,
		created_at TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_waterings_plant_at ON waterings(plant, at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) GetInt64(ctx context.Context, plant, key string, def int64) (int64, error) {
	var v int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM prefs WHERE plant = ? AND key = ?`, plant, key).Scan(&v)
	if err == sql.ErrNoRows {
		return def, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get %s/%s: %w", plant, key, err)
	}
	return v, nil
}

func (s *SQLiteStore) PutInt64s(ctx context.Context, plant string, values map[string]int64) error {
	if len(values) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if err := putInt64s(ctx, tx, plant, values); err != nil {
		return err
	}
	return tx.Commit()
}

func putInt64s(ctx context.Context, db execer, plant string, values map[string]int64) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := time.Now().UTC().Format(time.RFC3339)
	for _, k := range keys {
		_, err := db.ExecContext(ctx,
			`INSERT INTO prefs (plant, key, value, updated_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT(plant, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
			plant, k, values[k], now)
		if err != nil {
			return fmt.Errorf("put %s/%s: %w", plant, k, err)
		}
	}
	return nil
}

func recordValues(r model.Record) map[string]int64 {
	return map[string]int64{
		KeyLastWatered:  ToMillis(r.LastWatered),
		KeyFirstWatered: ToMillis(r.FirstWatered),
	}
}

func (s *SQLiteStore) LoadRecord(ctx context.Context, plant string) (model.Record, error) {
	last, err := s.GetInt64(ctx, plant, KeyLastWatered, 0)
	if err != nil {
		return model.Record{}, err
	}
	first, err := s.GetInt64(ctx, plant, KeyFirstWatered, 0)
	if err != nil {
		return model.Record{}, err
	}
	return model.Record{
		FirstWatered: FromMillis(first),
		LastWatered:  FromMillis(last),
	}, nil
}

func (s *SQLiteStore) SaveRecord(ctx context.Context, plant string, r model.Record) error {
	return s.PutInt64s(ctx, plant, recordValues(r))
}

func (s *SQLiteStore) AppendWatering(ctx context.Context, plant string, at time.Time, outcome model.Outcome) (*model.Watering, error) {
	if !model.ValidOutcomes[outcome] {
		return nil, fmt.Errorf("invalid outcome %q", outcome)
	}

	id, err := s.newID(at)
	if err != nil {
		return nil, err
	}
	w := &model.Watering{
		ID:      id,
		Plant:   plant,
		At:      at.UTC(),
		Outcome: outcome,
	}
	if err := s.insertWatering(ctx, s.db, *w, false); err != nil {
		return nil, err
	}
	return w, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func (s *SQLiteStore) insertWatering(ctx context.Context, db execer, w model.Watering, ignoreDup bool) error {
	verb := "INSERT"
	if ignoreDup {
		verb = "INSERT OR IGNORE"
	}
	_, err := db.ExecContext(ctx,
		verb+` INTO waterings (id, plant, at, outcome, created_at) VALUES (?, ?, ?, ?, ?)`,
		w.ID, w.Plant, w.At.UnixMilli(), string(w.Outcome), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("insert watering: %w", err)
	}
	return nil
}

func (s *SQLiteStore) History(ctx context.Context, p HistoryParams) ([]model.Watering, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, plant, at, outcome FROM waterings
		 WHERE plant = ?
		 ORDER BY at DESC, id DESC
		 LIMIT ?`, p.Plant, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Watering
	for rows.Next() {
		w, err := scanWatering(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanWatering(row scanner) (model.Watering, error) {
	var w model.Watering
	var at int64
	var outcome string

	if err := row.Scan(&w.ID, &w.Plant, &at, &outcome); err != nil {
		return w, err
	}
	w.At = time.UnixMilli(at).UTC()
	w.Outcome = model.Outcome(outcome)
	return w, nil
}
