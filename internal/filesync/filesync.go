// Package filesync reconciles the entry store with a user-visible data
// file (CSV or JSON). Exports are atomic writes; imports never let a
// file-level failure escape as an error — they report it as a single
// message with zero counts.
package filesync

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/ptarn/studylog/internal/importer"
	"github.com/ptarn/studylog/internal/model"
	"github.com/ptarn/studylog/internal/storage"
	"github.com/ptarn/studylog/internal/validate"
)

// EnvSyncPath overrides the default sync file location.
const EnvSyncPath = "STUDYLOG_SYNC_PATH"

const appDirName = "StudyLog"

// columns is the stable field order of the sync file.
var columns = []string{"date", "topic", "minutes", "practiced", "challenges", "wins", "confidence", "tags"}

// DefaultPath resolves the user-visible sync file: the EnvSyncPath
// override if set, otherwise entries.csv in a StudyLog folder under the
// user's Documents directory (or the home directory when Documents does
// not exist).
func DefaultPath() (string, error) {
	if override := os.Getenv(EnvSyncPath); override != "" {
		return filepath.Abs(override)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	base := home
	if docs := filepath.Join(home, "Documents"); isDir(docs) {
		base = docs
	}
	return filepath.Join(base, appDirName, "entries.csv"), nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// fileRecord is the JSON shape of one entry in the sync file.
type fileRecord struct {
	Date       string `json:"date"`
	Topic      string `json:"topic"`
	Minutes    int    `json:"minutes"`
	Practiced  string `json:"practiced"`
	Challenges string `json:"challenges"`
	Wins       string `json:"wins"`
	Confidence int    `json:"confidence"`
	Tags       string `json:"tags"`
}

func toRecord(e model.Entry) fileRecord {
	return fileRecord{
		Date:       model.FormatDate(e.Date),
		Topic:      e.Topic,
		Minutes:    e.Minutes,
		Practiced:  e.Practiced,
		Challenges: e.Challenges,
		Wins:       e.Wins,
		Confidence: e.Confidence,
		Tags:       e.Tags,
	}
}

// Export serializes all entries to path (default location when empty) and
// returns the path written. The format follows the file extension: .json
// writes a JSON list, anything else CSV. The write is atomic: a temp file
// in the target directory is renamed into place.
func Export(st *storage.Store, path string) (string, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return "", err
		}
	}
	entries, err := st.ListAll()
	if err != nil {
		return "", err
	}

	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err = marshalJSON(entries)
	} else {
		data, err = marshalCSV(entries)
	}
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return "", fmt.Errorf("creating export directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return "", fmt.Errorf("writing export temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("renaming export file: %w", err)
	}
	return path, nil
}

func marshalCSV(entries []model.Entry) ([]byte, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(columns); err != nil {
		return nil, err
	}
	for _, e := range entries {
		r := toRecord(e)
		row := []string{
			r.Date, r.Topic, strconv.Itoa(r.Minutes), r.Practiced,
			r.Challenges, r.Wins, strconv.Itoa(r.Confidence), r.Tags,
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return []byte(b.String()), nil
}

func marshalJSON(entries []model.Entry) ([]byte, error) {
	records := make([]fileRecord, 0, len(entries))
	for _, e := range entries {
		records = append(records, toRecord(e))
	}
	return json.MarshalIndent(records, "", "  ")
}

// Import reads the file at path (default location when empty) and merges
// it into the store. An unreadable or malformed file yields zero counts
// and a single explanatory message; no error crosses this boundary for
// file-level problems.
func Import(st *storage.Store, path string, opts importer.Options) importer.Result {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return failure("Failed to resolve sync path: %v", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return failure("Failed to read %s: %v", path, err)
	}

	var rows []importer.Row
	if strings.EqualFold(filepath.Ext(path), ".json") {
		rows, err = decodeJSONRows(data)
	} else {
		rows, err = decodeCSVRows(data)
	}
	if err != nil {
		return failure("Failed to parse %s: %v", path, err)
	}

	// A header-only or empty file is handed through as an empty batch so
	// the importer's "No rows to import." notice is reported.
	return importer.ImportBatch(st, rows, opts)
}

func failure(format string, args ...any) importer.Result {
	return importer.Result{Messages: []validate.Message{{
		Severity: validate.Fatal,
		Text:     fmt.Sprintf(format, args...),
	}}}
}

func decodeCSVRows(data []byte) ([]importer.Row, error) {
	r := csv.NewReader(strings.NewReader(string(data)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}
	header := records[0]
	rows := make([]importer.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(importer.Row, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[strings.TrimSpace(name)] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeJSONRows(data []byte) ([]importer.Row, error) {
	var raw []map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("expected a JSON list of objects: %w", err)
	}
	rows := make([]importer.Row, 0, len(raw))
	for _, obj := range raw {
		row := make(importer.Row, len(obj))
		for k, v := range obj {
			row[k] = stringify(v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}

// SyncOnLaunch imports the sync file if it exists (collecting any
// messages) and then re-exports the current store state so a file is
// always present afterwards. It returns the file path and the collected
// import messages.
func SyncOnLaunch(st *storage.Store, path string) (string, []validate.Message, error) {
	if path == "" {
		var err error
		if path, err = DefaultPath(); err != nil {
			return "", nil, err
		}
	}
	var msgs []validate.Message
	if _, err := os.Stat(path); err == nil {
		res := Import(st, path, importer.Options{})
		msgs = res.Messages
	}
	if _, err := Export(st, path); err != nil {
		return path, msgs, err
	}
	return path, msgs, nil
}

// Syncer owns the best-effort export that runs once at the end of a
// process. Construct it at startup and call Shutdown on every exit path;
// repeated calls are safe and only the first exports.
type Syncer struct {
	store *storage.Store
	path  string
	once  sync.Once
}

// NewSyncer returns a Syncer bound to the given store and sync path
// (empty path means the default location).
func NewSyncer(st *storage.Store, path string) *Syncer {
	return &Syncer{store: st, path: path}
}

// Shutdown performs the final export. Failures are swallowed: nothing on
// the exit path may block process termination.
func (s *Syncer) Shutdown() {
	s.once.Do(func() {
		_, _ = Export(s.store, s.path)
	})
}
