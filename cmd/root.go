package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ptarn/studylog/internal/config"
	"github.com/ptarn/studylog/internal/storage"
	"github.com/ptarn/studylog/internal/validate"
)

var rootCmd = &cobra.Command{
	Use:   "studylog",
	Short: "studylog – a personal study journal",
	Long: `studylog tracks daily learning sessions: one entry per calendar day with
topic, minutes, confidence, free-text notes and tags. Entries live in an
embedded SQLite database under ~/.studylog/ and are mirrored to a
user-visible CSV or JSON file for easy editing and backup.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(settingCmd)
}

// openStore loads the configuration and opens the database for the
// duration of one command.
func openStore() (*storage.Store, config.Config) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	st, err := storage.Open(storage.DefaultPath(cfg.DataDir))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	return st, cfg
}

var (
	fatalColor    = color.New(color.FgRed)
	advisoryColor = color.New(color.FgYellow)
)

// printMessages writes validation findings to stderr, fatals in red and
// advisories in yellow.
func printMessages(msgs []validate.Message) {
	for _, m := range msgs {
		if m.Severity == validate.Fatal {
			fatalColor.Fprintln(os.Stderr, m.Text)
		} else {
			advisoryColor.Fprintln(os.Stderr, m.Text)
		}
	}
}
