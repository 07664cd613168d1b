// Package storage persists study entries and settings in an embedded
// SQLite database. Entries are keyed by calendar date; writing is always
// an insert-or-replace against that key. Callers open one store per
// operation and close it before returning.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ptarn/studylog/internal/model"
)

// Well-known settings keys.
const (
	SettingWeeklyGoal = "weekly_goal_minutes"
	SettingTheme      = "theme"
)

// SettingDefaults maps well-known keys to their default values.
var SettingDefaults = map[string]string{
	SettingWeeklyGoal: "0",
	SettingTheme:      "dark",
}

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id INTEGER PRIMARY KEY,
	date TEXT NOT NULL,
	topic TEXT,
	minutes INTEGER DEFAULT 0,
	practiced TEXT,
	challenges TEXT,
	wins TEXT,
	confidence INTEGER DEFAULT 3,
	tags TEXT
);
CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date);
CREATE TABLE IF NOT EXISTS settings (
	key TEXT PRIMARY KEY,
	value TEXT
);
`

// Store wraps the SQLite connection for one logical operation.
type Store struct {
	db   *sql.DB
	path string
}

// DefaultPath returns the database location under the given data
// directory.
func DefaultPath(dataDir string) string {
	return filepath.Join(dataDir, "studylog.db")
}

// Open opens (creating if necessary) the database at path, ensures the
// schema exists, and takes a best-effort daily backup. The caller must
// Close the returned store.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("opening database %s: %w", path, err)
	}
	// Single-writer tool; one connection avoids SQLITE_BUSY between the
	// CLI and the watch loop.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, path: path}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}

	// Backups must never block startup.
	_ = s.backupDaily()

	return s, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) init() error {
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return s.migrateTagsColumn()
}

// migrateTagsColumn adds the tags column to databases created before it
// existed.
func (s *Store) migrateTagsColumn() error {
	rows, err := s.db.Query(`PRAGMA table_info(sessions)`)
	if err != nil {
		return fmt.Errorf("inspecting schema: %w", err)
	}
	defer rows.Close()

	hasTags := false
	for rows.Next() {
		var (
			cid     int
			name    string
			colType string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return fmt.Errorf("inspecting schema: %w", err)
		}
		if name == "tags" {
			hasTags = true
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("inspecting schema: %w", err)
	}
	if !hasTags {
		if _, err := s.db.Exec(`ALTER TABLE sessions ADD COLUMN tags TEXT`); err != nil {
			return fmt.Errorf("adding tags column: %w", err)
		}
	}
	return nil
}

// Upsert inserts the entry if no record exists for its date, otherwise
// replaces every field of the existing record. Repeating the same upsert
// leaves the stored state unchanged.
func (s *Store) Upsert(e model.Entry) error {
	d := model.FormatDate(e.Date)

	var id int64
	err := s.db.QueryRow(`SELECT id FROM sessions WHERE date = ?`, d).Scan(&id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		_, err = s.db.Exec(`
			INSERT INTO sessions (date, topic, minutes, practiced, challenges, wins, confidence, tags)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			d, e.Topic, e.Minutes, e.Practiced, e.Challenges, e.Wins, e.Confidence, e.Tags)
		if err != nil {
			return fmt.Errorf("inserting entry for %s: %w", d, err)
		}
	case err != nil:
		return fmt.Errorf("looking up entry for %s: %w", d, err)
	default:
		_, err = s.db.Exec(`
			UPDATE sessions
			SET topic = ?, minutes = ?, practiced = ?, challenges = ?, wins = ?, confidence = ?, tags = ?
			WHERE id = ?`,
			e.Topic, e.Minutes, e.Practiced, e.Challenges, e.Wins, e.Confidence, e.Tags, id)
		if err != nil {
			return fmt.Errorf("updating entry for %s: %w", d, err)
		}
	}
	return nil
}

// Databases created by older versions hold NULLs in the optional columns
// (the tags migration also leaves NULL tags), so reads coalesce every
// nullable column to its field default.
const entryColumns = `date,
	COALESCE(topic, ''),
	COALESCE(minutes, 0),
	COALESCE(practiced, ''),
	COALESCE(challenges, ''),
	COALESCE(wins, ''),
	COALESCE(confidence, 3),
	COALESCE(tags, '')`

func scanEntry(row interface{ Scan(...any) error }) (model.Entry, error) {
	var (
		e    model.Entry
		date string
	)
	if err := row.Scan(&date, &e.Topic, &e.Minutes, &e.Practiced, &e.Challenges, &e.Wins, &e.Confidence, &e.Tags); err != nil {
		return model.Entry{}, err
	}
	d, err := model.ParseDate(date)
	if err != nil {
		return model.Entry{}, fmt.Errorf("stored entry has bad date %q: %w", date, err)
	}
	e.Date = d
	return e, nil
}

// Get returns the entry for the given date; the bool reports presence.
func (s *Store) Get(date time.Time) (model.Entry, bool, error) {
	row := s.db.QueryRow(
		`SELECT `+entryColumns+` FROM sessions WHERE date = ?`,
		model.FormatDate(date))
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Entry{}, false, nil
	}
	if err != nil {
		return model.Entry{}, false, fmt.Errorf("reading entry: %w", err)
	}
	return e, true, nil
}

// Delete removes the entry for the given date; deleting an absent date is
// a no-op.
func (s *Store) Delete(date time.Time) error {
	if _, err := s.db.Exec(`DELETE FROM sessions WHERE date = ?`, model.FormatDate(date)); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	return nil
}

// ListAll returns every entry ordered by date ascending.
func (s *Store) ListAll() ([]model.Entry, error) {
	rows, err := s.db.Query(`SELECT ` + entryColumns + ` FROM sessions ORDER BY date ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []model.Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("listing entries: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return entries, nil
}

// SetSetting writes a key/value setting, replacing any existing value.
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	if err != nil {
		return fmt.Errorf("saving setting %s: %w", key, err)
	}
	return nil
}

// GetSetting returns the value for key, or def when the key is absent.
func (s *Store) GetSetting(key, def string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return "", fmt.Errorf("reading setting %s: %w", key, err)
	}
	return value, nil
}

// backupDaily copies the database file to <dir>/backups/studylog-YYYYMMDD.db
// once per day. Existing backups for today are left untouched.
func (s *Store) backupDaily() error {
	if _, err := os.Stat(s.path); err != nil {
		return err
	}
	backupsDir := filepath.Join(filepath.Dir(s.path), "backups")
	if err := os.MkdirAll(backupsDir, 0o700); err != nil {
		return err
	}
	backupPath := filepath.Join(backupsDir,
		fmt.Sprintf("studylog-%s.db", time.Now().Format("20060102")))
	if _, err := os.Stat(backupPath); err == nil {
		return nil
	}

	src, err := os.Open(s.path)
	if err != nil {
		return err
	}
	defer src.Close()
	dst, err := os.Create(backupPath)
	if err != nil {
		return err
	}
	defer dst.Close()
	_, err = io.Copy(dst, src)
	return err
}
