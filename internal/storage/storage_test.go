package storage_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ptarn/studylog/internal/model"
	"github.com/ptarn/studylog/internal/storage"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	s, err := storage.Open(filepath.Join(t.TempDir(), "studylog.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestUpsertGetRoundTrip(t *testing.T) {
	s := openTestStore(t)

	e := model.Entry{
		Date:       date(2025, 1, 10),
		Topic:      "Goroutines",
		Minutes:    45,
		Practiced:  "channels",
		Challenges: "select fairness",
		Wins:       "first deadlock fixed",
		Confidence: 4,
		Tags:       "go, concurrency",
	}
	if err := s.Upsert(e); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, ok, err := s.Get(e.Date)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("Get: entry not found after upsert")
	}
	if got != e {
		t.Errorf("Get = %+v, want %+v", got, e)
	}
}

func TestUpsertReplacesExisting(t *testing.T) {
	s := openTestStore(t)
	d := date(2025, 1, 10)

	first := model.Entry{Date: d, Topic: "A", Minutes: 30, Confidence: 3, Tags: "x"}
	second := model.Entry{Date: d, Topic: "B", Minutes: 60, Confidence: 5, Tags: ""}

	if err := s.Upsert(first); err != nil {
		t.Fatal(err)
	}
	if err := s.Upsert(second); err != nil {
		t.Fatal(err)
	}

	got, ok, err := s.Get(d)
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if got != second {
		t.Errorf("Get = %+v, want replacement %+v", got, second)
	}

	all, err := s.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Errorf("ListAll = %d entries, want 1", len(all))
	}
}

func TestUpsertIdempotent(t *testing.T) {
	s := openTestStore(t)
	e := model.Entry{Date: date(2025, 2, 1), Topic: "SQL", Minutes: 20, Confidence: 2}

	for i := 0; i < 3; i++ {
		if err := s.Upsert(e); err != nil {
			t.Fatalf("Upsert #%d: %v", i+1, err)
		}
	}
	all, err := s.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 {
		t.Fatalf("ListAll = %d entries, want 1", len(all))
	}
	if all[0] != e {
		t.Errorf("stored = %+v, want %+v", all[0], e)
	}
}

func TestGetMissing(t *testing.T) {
	s := openTestStore(t)
	_, ok, err := s.Get(date(2030, 1, 1))
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("Get on empty store reported presence")
	}
}

func TestDelete(t *testing.T) {
	s := openTestStore(t)
	d := date(2025, 3, 5)

	// Deleting an absent date is a no-op.
	if err := s.Delete(d); err != nil {
		t.Fatalf("Delete absent: %v", err)
	}

	if err := s.Upsert(model.Entry{Date: d, Topic: "X", Confidence: 3}); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(d); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(d); ok {
		t.Error("entry still present after delete")
	}
}

func TestListAllOrderedByDate(t *testing.T) {
	s := openTestStore(t)
	days := []time.Time{date(2025, 3, 3), date(2025, 1, 1), date(2025, 2, 2)}
	for _, d := range days {
		if err := s.Upsert(model.Entry{Date: d, Topic: "t", Confidence: 3}); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.ListAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Fatalf("ListAll = %d entries, want 3", len(all))
	}
	for i := 1; i < len(all); i++ {
		if !all[i-1].Date.Before(all[i].Date) {
			t.Errorf("entries out of order: %v before %v", all[i-1].Date, all[i].Date)
		}
	}
}

func TestSettings(t *testing.T) {
	s := openTestStore(t)

	got, err := s.GetSetting(storage.SettingWeeklyGoal, "0")
	if err != nil {
		t.Fatalf("GetSetting: %v", err)
	}
	if got != "0" {
		t.Errorf("default = %q, want %q", got, "0")
	}

	if err := s.SetSetting(storage.SettingWeeklyGoal, "300"); err != nil {
		t.Fatalf("SetSetting: %v", err)
	}
	if err := s.SetSetting(storage.SettingWeeklyGoal, "450"); err != nil {
		t.Fatalf("SetSetting overwrite: %v", err)
	}

	got, err = s.GetSetting(storage.SettingWeeklyGoal, "0")
	if err != nil {
		t.Fatal(err)
	}
	if got != "450" {
		t.Errorf("GetSetting = %q, want %q", got, "450")
	}
}

func TestOpenMigratesLegacyDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "studylog.db")

	// Build a database in the pre-tags schema with NULLs in every
	// optional column, the way the original app left them.
	legacy, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatal(err)
	}
	_, err = legacy.Exec(`
		CREATE TABLE sessions (
			id INTEGER PRIMARY KEY,
			date TEXT NOT NULL,
			topic TEXT,
			minutes INTEGER DEFAULT 0,
			practiced TEXT,
			challenges TEXT,
			wins TEXT,
			confidence INTEGER DEFAULT 3
		);
		CREATE INDEX idx_sessions_date ON sessions(date);
		CREATE TABLE settings (key TEXT PRIMARY KEY, value TEXT);
		INSERT INTO sessions (date, topic, minutes, practiced, challenges, wins, confidence)
		VALUES ('2024-11-03', 'Legacy', NULL, NULL, NULL, NULL, NULL);
	`)
	if err != nil {
		t.Fatal(err)
	}
	if err := legacy.Close(); err != nil {
		t.Fatal(err)
	}

	s, err := storage.Open(path)
	if err != nil {
		t.Fatalf("Open on legacy db: %v", err)
	}
	defer s.Close()

	want := model.Entry{
		Date:       date(2024, 11, 3),
		Topic:      "Legacy",
		Minutes:    0,
		Confidence: 3,
	}
	all, err := s.ListAll()
	if err != nil {
		t.Fatalf("ListAll on migrated legacy db: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("ListAll = %d entries, want 1", len(all))
	}
	if all[0] != want {
		t.Errorf("migrated entry = %+v, want %+v", all[0], want)
	}

	got, ok, err := s.Get(want.Date)
	if err != nil {
		t.Fatalf("Get on migrated legacy db: %v", err)
	}
	if !ok || got != want {
		t.Errorf("Get = %+v (ok=%v), want %+v", got, ok, want)
	}

	// The added tags column is writable like any other field.
	want.Tags = "legacy, new"
	if err := s.Upsert(want); err != nil {
		t.Fatalf("Upsert after migration: %v", err)
	}
	got, _, err = s.Get(want.Date)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("entry after tags write = %+v, want %+v", got, want)
	}
}

func TestReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "studylog.db")

	s, err := storage.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	e := model.Entry{Date: date(2025, 4, 1), Topic: "Persistence", Minutes: 15, Confidence: 3}
	if err := s.Upsert(e); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s2, err := storage.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s2.Close()
	got, ok, err := s2.Get(e.Date)
	if err != nil || !ok {
		t.Fatalf("Get after reopen: ok=%v err=%v", ok, err)
	}
	if got != e {
		t.Errorf("Get after reopen = %+v, want %+v", got, e)
	}
}
