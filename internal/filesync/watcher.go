package filesync

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ptarn/studylog/internal/importer"
	"github.com/ptarn/studylog/internal/storage"
	"github.com/ptarn/studylog/internal/validate"
)

// defaultDebounce batches the rapid write+rename sequences editors and
// spreadsheet apps produce when saving.
const defaultDebounce = 500 * time.Millisecond

// Watcher re-imports the sync file whenever it changes on disk. The
// database is opened per import and closed again, so no long-lived handle
// is shared with other callers.
type Watcher struct {
	dbPath   string
	syncPath string
	debounce time.Duration
	logger   *log.Logger
	fsw      *fsnotify.Watcher
}

// NewWatcher creates a watcher that merges changes of the sync file at
// syncPath into the database at dbPath. An empty syncPath means the
// default location. A nil logger logs to stderr.
func NewWatcher(dbPath, syncPath string, logger *log.Logger) (*Watcher, error) {
	if syncPath == "" {
		var err error
		if syncPath, err = DefaultPath(); err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[watch] ", log.LstdFlags)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	// Watch the directory: editors replace files by rename, which drops
	// a watch set on the file itself.
	if err := fsw.Add(filepath.Dir(syncPath)); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(syncPath), err)
	}
	return &Watcher{
		dbPath:   dbPath,
		syncPath: syncPath,
		debounce: defaultDebounce,
		logger:   logger,
		fsw:      fsw,
	}, nil
}

// Run blocks until ctx is cancelled, re-importing the sync file on every
// debounced change.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != filepath.Base(w.syncPath) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Printf("watch error: %v", err)

		case <-timer.C:
			w.reimport()
		}
	}
}

func (w *Watcher) reimport() {
	st, err := storage.Open(w.dbPath)
	if err != nil {
		w.logger.Printf("open store: %v", err)
		return
	}
	defer st.Close()

	res := Import(st, w.syncPath, importer.Options{})
	w.logger.Printf("re-imported %s: %d inserted, %d updated, %d skipped",
		w.syncPath, res.Inserted, res.Updated, res.Skipped)
	for _, m := range res.Messages {
		if m.Severity == validate.Fatal {
			w.logger.Printf("  %s", m.Text)
		}
	}
}
