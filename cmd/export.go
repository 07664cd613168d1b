package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ptarn/studylog/internal/filesync"
)

var (
	exportOut    string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all entries to the sync file",
	Args:  cobra.NoArgs,
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "", "Output file (default: configured sync path)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Output format: csv or json (default: by extension)")
}

func runExport(cmd *cobra.Command, args []string) error {
	st, cfg := openStore()
	defer st.Close()

	path := exportOut
	if path == "" {
		path = cfg.SyncPath
	}
	if path == "" {
		var err error
		if path, err = filesync.DefaultPath(); err != nil {
			return err
		}
	}
	format := exportFormat
	if format == "" {
		format = cfg.SyncFormat
	}
	path = withFormatExt(path, format)

	written, err := filesync.Export(st, path)
	if err != nil {
		return err
	}
	fmt.Printf("Exported to %s\n", written)
	return nil
}

// withFormatExt swaps the file extension to match an explicitly requested
// format; an empty or unknown format leaves the path alone.
func withFormatExt(path, format string) string {
	format = strings.ToLower(format)
	if format != "csv" && format != "json" {
		return path
	}
	want := "." + format
	ext := strings.ToLower(filepath.Ext(path))
	if ext == want {
		return path
	}
	if ext == ".csv" || ext == ".json" {
		path = path[:len(path)-len(ext)]
	}
	return path + want
}
