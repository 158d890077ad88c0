package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/rcliao/plants/internal/model"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGetInt64Default(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	v, err := s.GetInt64(ctx, "plant", KeyLastWatered, 0)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if v != 0 {
		t.Errorf("expected default 0, got %d", v)
	}

	v, _ = s.GetInt64(ctx, "plant", "missing", 7)
	if v != 7 {
		t.Errorf("expected default 7, got %d", v)
	}
}

func TestPutAndGetInt64(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	err := s.PutInt64s(ctx, "plant", map[string]int64{KeyLastWatered: 10, KeyFirstWatered: 5})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	last, _ := s.GetInt64(ctx, "plant", KeyLastWatered, 0)
	first, _ := s.GetInt64(ctx, "plant", KeyFirstWatered, 0)
	if last != 10 || first != 5 {
		t.Errorf("expected 10/5, got %d/%d", last, first)
	}

	// Overwrite one key, the other stays
	s.PutInt64s(ctx, "plant", map[string]int64{KeyFirstWatered: 0})
	last, _ = s.GetInt64(ctx, "plant", KeyLastWatered, -1)
	first, _ = s.GetInt64(ctx, "plant", KeyFirstWatered, -1)
	if last != 10 || first != 0 {
		t.Errorf("expected 10/0 after overwrite, got %d/%d", last, first)
	}
}

func TestPlantsAreIsolated(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.PutInt64s(ctx, "fern", map[string]int64{KeyLastWatered: 1})
	v, _ := s.GetInt64(ctx, "cactus", KeyLastWatered, 0)
	if v != 0 {
		t.Errorf("expected cactus unset, got %d", v)
	}
}

func TestPutInt64sCanceledContextWritesNothing(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.PutInt64s(ctx, "plant", map[string]int64{KeyLastWatered: 1, KeyFirstWatered: 1}); err == nil {
		t.Fatal("expected error with canceled context")
	}

	v, _ := s.GetInt64(context.Background(), "plant", KeyLastWatered, 0)
	if v != 0 {
		t.Errorf("expected no partial write, got %d", v)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	empty, err := s.LoadRecord(ctx, "plant")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !empty.IsNew() || !empty.FirstWatered.IsZero() {
		t.Errorf("expected unset record, got %+v", empty)
	}

	want := model.Record{
		FirstWatered: time.UnixMilli(1_700_000_000_000).UTC(),
		LastWatered:  time.UnixMilli(1_700_000_500_000).UTC(),
	}
	if err := s.SaveRecord(ctx, "plant", want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, _ := s.LoadRecord(ctx, "plant")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record mismatch (-want +got):\n%s", diff)
	}

	// Death reset keeps lastWatered
	want.FirstWatered = time.Time{}
	s.SaveRecord(ctx, "plant", want)
	got, _ = s.LoadRecord(ctx, "plant")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("record mismatch after reset (-want +got):\n%s", diff)
	}
	raw, _ := s.GetInt64(ctx, "plant", KeyFirstWatered, -1)
	if raw != 0 {
		t.Errorf("expected firstWatered stored as 0, got %d", raw)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.UnixMilli(1_700_000_000_000)
	s.AppendWatering(ctx, "plant", base, model.OutcomeWatered)
	s.AppendWatering(ctx, "plant", base.Add(time.Minute), model.OutcomeTooSoon)
	s.AppendWatering(ctx, "plant", base.Add(2*time.Hour), model.OutcomeWatered)
	s.AppendWatering(ctx, "other", base, model.OutcomeWatered)

	hist, err := s.History(ctx, HistoryParams{Plant: "plant"})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(hist))
	}
	if !hist[0].At.Equal(base.Add(2 * time.Hour)) {
		t.Errorf("expected newest first, got %v", hist[0].At)
	}
	if hist[1].Outcome != model.OutcomeTooSoon {
		t.Errorf("expected too_soon, got %s", hist[1].Outcome)
	}

	limited, _ := s.History(ctx, HistoryParams{Plant: "plant", Limit: 1})
	if len(limited) != 1 {
		t.Errorf("expected 1 with limit, got %d", len(limited))
	}
}

func TestAppendWateringInvalidOutcome(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.AppendWatering(context.Background(), "plant", time.Now(), "drowned"); err == nil {
		t.Error("expected error for invalid outcome")
	}
}

func TestStatsAndListPlants(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	now := time.UnixMilli(1_700_000_000_000).UTC()
	s.SaveRecord(ctx, "fern", model.Record{FirstWatered: now, LastWatered: now})
	s.SaveRecord(ctx, "cactus", model.Record{LastWatered: now})
	s.AppendWatering(ctx, "fern", now, model.OutcomeWatered)
	s.AppendWatering(ctx, "fern", now, model.OutcomeTooSoon)

	dbPath := filepath.Join(t.TempDir(), "missing.db")
	st, err := s.Stats(ctx, dbPath)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if st.TotalPlants != 2 || st.TotalWaterings != 2 {
		t.Errorf("expected 2 plants / 2 waterings, got %d / %d", st.TotalPlants, st.TotalWaterings)
	}
	want := []PlantStats{{Plant: "fern", Waterings: 2, Accepted: 1, TooSoon: 1}}
	if diff := cmp.Diff(want, st.Plants); diff != "" {
		t.Errorf("plant stats mismatch (-want +got):\n%s", diff)
	}

	plants, err := s.ListPlants(ctx)
	if err != nil {
		t.Fatalf("list plants: %v", err)
	}
	if len(plants) != 2 || plants[0].Plant != "cactus" || plants[1].Plant != "fern" {
		t.Fatalf("unexpected plants: %+v", plants)
	}
	if plants[0].FirstWatered != nil {
		t.Error("expected cactus first_watered unset")
	}
}

func TestExportImport(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	now := time.UnixMilli(1_700_000_000_000).UTC()
	src.SaveRecord(ctx, "fern", model.Record{FirstWatered: now, LastWatered: now.Add(time.Hour)})
	src.AppendWatering(ctx, "fern", now, model.OutcomeWatered)
	src.AppendWatering(ctx, "fern", now.Add(time.Hour), model.OutcomeWatered)

	dumps, err := src.ExportAll(ctx, "")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if len(dumps) != 1 || len(dumps[0].Waterings) != 2 {
		t.Fatalf("unexpected export: %+v", dumps)
	}

	dst := newTestStore(t)
	n, err := dst.Import(ctx, dumps)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 plant imported, got %d", n)
	}
	// Importing twice skips journal duplicates
	dst.Import(ctx, dumps)

	again, _ := dst.ExportAll(ctx, "fern")
	if diff := cmp.Diff(dumps, again); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestExportUnknownPlant(t *testing.T) {
	s := newTestStore(t)
	_, err := s.ExportAll(context.Background(), "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestHistorySameMillisecondNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	at := time.UnixMilli(1_700_000_000_000)
	var ids []string
	for i := 0; i < 30; i++ {
		w, err := s.AppendWatering(ctx, "plant", at, model.OutcomeTooSoon)
		if err != nil {
			t.Fatalf("append: %v", err)
		}
		ids = append(ids, w.ID)
	}

	hist, err := s.History(ctx, HistoryParams{Plant: "plant", Limit: 30})
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != len(ids) {
		t.Fatalf("expected %d entries, got %d", len(ids), len(hist))
	}
	for i, w := range hist {
		if want := ids[len(ids)-1-i]; w.ID != want {
			t.Fatalf("entry %d: expected %s, got %s", i, want, w.ID)
		}
	}
}

func TestAppendWateringRejectsPreEpoch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	for _, at := range []time.Time{{}, time.UnixMilli(-1)} {
		if _, err := s.AppendWatering(ctx, "plant", at, model.OutcomeWatered); !errors.Is(err, ErrInvalidTime) {
			t.Errorf("at %v: expected ErrInvalidTime, got %v", at, err)
		}
	}
}

func TestImportRejectsEntryWithoutTime(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var dumps []PlantDump
	raw := `[{"plant":"fern","record":{},"waterings":[{"outcome":"watered"}]}]`
	if err := json.Unmarshal([]byte(raw), &dumps); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	n, err := s.Import(ctx, dumps)
	if !errors.Is(err, ErrInvalidTime) {
		t.Fatalf("expected ErrInvalidTime, got %v", err)
	}
	if n != 0 {
		t.Errorf("expected 0 imported, got %d", n)
	}
	if _, err := s.ExportAll(ctx, "fern"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected nothing stored, got %v", err)
	}
}

func TestImportRejectsFirstWithoutLast(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	now := time.UnixMilli(1_700_000_000_000).UTC()
	_, err := s.Import(ctx, []PlantDump{{Plant: "fern", Record: model.Record{FirstWatered: now}}})
	if !errors.Is(err, ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestImportFailureLeavesStoreUntouched(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	now := time.UnixMilli(1_700_000_000_000).UTC()
	old := model.Record{FirstWatered: now, LastWatered: now}
	if err := s.SaveRecord(ctx, "fern", old); err != nil {
		t.Fatalf("save: %v", err)
	}

	dumps := []PlantDump{
		{Plant: "cactus", Record: model.Record{LastWatered: now}},
		{
			Plant:  "fern",
			Record: model.Record{FirstWatered: now.Add(time.Hour), LastWatered: now.Add(time.Hour)},
			Waterings: []model.Watering{
				{At: now, Outcome: model.OutcomeWatered},
				{At: now.Add(time.Hour), Outcome: "drowned"},
			},
		},
	}
	if _, err := s.Import(ctx, dumps); err == nil {
		t.Fatal("expected error for invalid outcome")
	}

	got, err := s.LoadRecord(ctx, "fern")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !got.LastWatered.Equal(old.LastWatered) || !got.FirstWatered.Equal(old.FirstWatered) {
		t.Errorf("record overwritten by failed import: %+v", got)
	}
	hist, _ := s.History(ctx, HistoryParams{Plant: "fern"})
	if len(hist) != 0 {
		t.Errorf("expected no journal entries, got %d", len(hist))
	}
	if _, err := s.ExportAll(ctx, "cactus"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected cactus not imported, got %v", err)
	}
}

func TestStatsReportsQueryErrors(t *testing.T) {
	s := newTestStore(t)
	s.Close()

	if _, err := s.Stats(context.Background(), ""); err == nil {
		t.Error("expected error from closed store")
	}
}

func TestDBPathCreation(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "sub", "dir", "test.db")
	s, err := NewSQLiteStore(dbPath)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	s.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("expected db file to be created")
	}
}

func TestMillisEncoding(t *testing.T) {
	if ToMillis(time.Time{}) != 0 {
		t.Error("unset must encode as 0")
	}
	if !FromMillis(0).IsZero() {
		t.Error("0 must decode as unset")
	}
	ts := time.UnixMilli(123456).UTC()
	if !FromMillis(ToMillis(ts)).Equal(ts) {
		t.Error("expected millisecond round trip")
	}
}
