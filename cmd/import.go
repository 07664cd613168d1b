package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ptarn/studylog/internal/filesync"
	"github.com/ptarn/studylog/internal/importer"
)

var (
	importDryRun bool
	importAtomic bool
)

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import entries from a CSV or JSON file",
	Long: `Import merges a CSV or JSON file into the study journal, one row per
calendar day. Rows for existing dates replace the stored entry. Rows
without a parsable date are skipped; all other problems are reported but
the row is still saved with adjusted values.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	importCmd.Flags().BoolVar(&importDryRun, "dry-run", false, "Validate and count without writing anything")
	importCmd.Flags().BoolVar(&importAtomic, "atomic", false, "Commit nothing unless every row is clean")
}

func runImport(cmd *cobra.Command, args []string) error {
	st, cfg := openStore()
	defer st.Close()

	if !importDryRun {
		syncer := filesync.NewSyncer(st, cfg.SyncPath)
		defer syncer.Shutdown()
	}

	res := filesync.Import(st, args[0], importer.Options{
		DryRun: importDryRun,
		Atomic: importAtomic,
	})
	printMessages(res.Messages)

	suffix := ""
	if importDryRun {
		suffix = " (dry run, nothing written)"
	}
	fmt.Printf("%d inserted, %d updated, %d skipped%s\n",
		res.Inserted, res.Updated, res.Skipped, suffix)
	return nil
}
