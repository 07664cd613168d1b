package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ptarn/studylog/internal/filesync"
	"github.com/ptarn/studylog/internal/storage"
)

var syncWatch bool

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the database with the user-visible sync file",
	Long: `Sync imports the sync file if it exists, then re-exports the current
database state so a file is always present afterwards. With --watch it
keeps running and re-imports whenever the file changes on disk.`,
	Args: cobra.NoArgs,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&syncWatch, "watch", false, "Keep watching the sync file for changes")
}

func runSync(cmd *cobra.Command, args []string) error {
	st, cfg := openStore()
	defer st.Close()

	// Deferred after Close so the best-effort final export still sees an
	// open store.
	syncer := filesync.NewSyncer(st, cfg.SyncPath)
	defer syncer.Shutdown()

	path, msgs, err := filesync.SyncOnLaunch(st, cfg.SyncPath)
	if err != nil {
		return err
	}
	printMessages(msgs)
	fmt.Printf("Synced with %s\n", path)

	if !syncWatch {
		return nil
	}

	// The watch loop opens its own short-lived store per import.
	w, err := filesync.NewWatcher(storage.DefaultPath(cfg.DataDir), path, nil)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Watching %s (Ctrl-C to stop)\n", path)
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
