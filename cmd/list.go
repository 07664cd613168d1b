package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ptarn/studylog/internal/metrics"
	"github.com/ptarn/studylog/internal/model"
)

var (
	listWeek bool
	listAll  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List study entries",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Only this week's entries")
	listCmd.Flags().BoolVar(&listAll, "all", false, "All entries (the default)")
	listCmd.MarkFlagsMutuallyExclusive("week", "all")
}

func runList(cmd *cobra.Command, args []string) error {
	st, _ := openStore()
	defer st.Close()

	entries, err := st.ListAll()
	if err != nil {
		return err
	}

	if listWeek {
		start, end := metrics.WeekBounds(model.Today())
		var filtered []model.Entry
		for _, e := range entries {
			if !e.Date.Before(start) && !e.Date.After(end) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}

	printEntries(entries)
	return nil
}

func printEntries(entries []model.Entry) {
	if len(entries) == 0 {
		fmt.Println("No entries found.")
		return
	}
	fmt.Printf("%-12s%8s%6s%8s  %-30s%s\n", "date", "min", "conf", "score", "topic", "tags")
	for _, e := range entries {
		fmt.Printf("%-12s%8d%6d%8d  %-30s%s\n",
			model.FormatDate(e.Date), e.Minutes, e.Confidence,
			metrics.ProgressScore(e.Minutes, e.Confidence), e.Topic, e.Tags)
	}
}
