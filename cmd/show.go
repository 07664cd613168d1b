package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ptarn/studylog/internal/metrics"
	"github.com/ptarn/studylog/internal/model"
)

var showCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show one day's entry (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	date := model.Today()
	if len(args) == 1 {
		var err error
		if date, err = model.ParseDate(args[0]); err != nil {
			return err
		}
	}

	st, _ := openStore()
	defer st.Close()

	e, ok, err := st.Get(date)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Printf("No entry for %s.\n", model.FormatDate(date))
		return nil
	}

	fmt.Printf("%s  %s\n", model.FormatDate(e.Date), e.Topic)
	fmt.Printf("  minutes:    %d\n", e.Minutes)
	fmt.Printf("  confidence: %d/5\n", e.Confidence)
	fmt.Printf("  score:      %d\n", metrics.ProgressScore(e.Minutes, e.Confidence))
	if e.Tags != "" {
		fmt.Printf("  tags:       %s\n", e.Tags)
	}
	if e.Practiced != "" {
		fmt.Printf("  practiced:  %s\n", e.Practiced)
	}
	if e.Challenges != "" {
		fmt.Printf("  challenges: %s\n", e.Challenges)
	}
	if e.Wins != "" {
		fmt.Printf("  wins:       %s\n", e.Wins)
	}
	return nil
}
