package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/ptarn/studylog/internal/metrics"
	"github.com/ptarn/studylog/internal/model"
	"github.com/ptarn/studylog/internal/storage"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show streaks, weekly totals and progress",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	st, _ := openStore()
	defer st.Close()

	entries, err := st.ListAll()
	if err != nil {
		return err
	}
	goalStr, err := st.GetSetting(storage.SettingWeeklyGoal, storage.SettingDefaults[storage.SettingWeeklyGoal])
	if err != nil {
		return err
	}
	goal, _ := strconv.Atoi(goalStr)

	if len(entries) == 0 {
		fmt.Println("No entries yet. Log your first session with: studylog log <topic>")
		return nil
	}

	today := model.Today()
	dates := make([]time.Time, len(entries))
	totalMinutes := 0
	totalScore := 0
	for i, e := range entries {
		dates[i] = e.Date
		totalMinutes += e.Minutes
		totalScore += metrics.ProgressScore(e.Minutes, e.Confidence)
	}
	current, longest := metrics.ComputeStreaks(dates, today)
	weekMinutes := metrics.WeeklyMinutes(entries, today)
	start := entries[0].Date // ListAll is date-ascending
	weeks := metrics.WeekIndex(today, start) + 1

	fmt.Printf("Entries:        %d (since %s, week %d)\n", len(entries), model.FormatDate(start), weeks)
	fmt.Printf("Current streak: %s\n", formatDays(current))
	fmt.Printf("Longest streak: %s\n", formatDays(longest))
	fmt.Printf("This week:      %s", formatMinutes(weekMinutes))
	if goal > 0 {
		fmt.Printf(" of %s goal (%d%%)", formatMinutes(goal), 100*weekMinutes/goal)
	}
	fmt.Println()
	fmt.Printf("Total time:     %s\n", formatMinutes(totalMinutes))
	fmt.Printf("Total score:    %d\n", totalScore)
	return nil
}

func formatDays(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
