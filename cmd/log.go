package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ptarn/studylog/internal/filesync"
	"github.com/ptarn/studylog/internal/model"
	"github.com/ptarn/studylog/internal/validate"
)

var (
	logDate       string
	logMinutes    int
	logConfidence int
	logPracticed  string
	logChallenges string
	logWins       string
	logTags       string
	logForce      bool
)

var logCmd = &cobra.Command{
	Use:   "log <topic>",
	Short: "Log or replace a day's study entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runLog,
}

func init() {
	logCmd.Flags().StringVar(&logDate, "date", "", "Entry date (YYYY-MM-DD, default today)")
	logCmd.Flags().IntVar(&logMinutes, "minutes", 0, "Minutes studied (0-1440)")
	logCmd.Flags().IntVar(&logConfidence, "confidence", 3, "Confidence (1-5)")
	logCmd.Flags().StringVar(&logPracticed, "practiced", "", "What you practiced")
	logCmd.Flags().StringVar(&logChallenges, "challenges", "", "Challenges encountered")
	logCmd.Flags().StringVar(&logWins, "wins", "", "Wins of the day")
	logCmd.Flags().StringVar(&logTags, "tags", "", "Comma-separated tags")
	logCmd.Flags().BoolVar(&logForce, "force", false, "Save the adjusted values even when validation fails")
}

func runLog(cmd *cobra.Command, args []string) error {
	date := model.Today()
	if logDate != "" {
		var err error
		if date, err = model.ParseDate(logDate); err != nil {
			return err
		}
	}

	sanitized, msgs := validate.Validate(validate.Fields{
		Topic:      args[0],
		Minutes:    logMinutes,
		Confidence: logConfidence,
		Practiced:  logPracticed,
		Challenges: logChallenges,
		Wins:       logWins,
		Tags:       logTags,
	})
	printMessages(msgs)
	if validate.HasFatal(msgs) && !logForce {
		return fmt.Errorf("entry not saved; fix the errors above or pass --force to save the adjusted values")
	}

	st, cfg := openStore()
	defer st.Close()

	// Keep the user-visible sync file current; failures never block the
	// exit path.
	syncer := filesync.NewSyncer(st, cfg.SyncPath)
	defer syncer.Shutdown()

	_, existed, err := st.Get(date)
	if err != nil {
		return err
	}
	err = st.Upsert(model.Entry{
		Date:       date,
		Topic:      sanitized.Topic,
		Minutes:    sanitized.Minutes,
		Practiced:  sanitized.Practiced,
		Challenges: sanitized.Challenges,
		Wins:       sanitized.Wins,
		Confidence: sanitized.Confidence,
		Tags:       sanitized.Tags,
	})
	if err != nil {
		return err
	}

	verb := "Logged"
	if existed {
		verb = "Updated"
	}
	fmt.Printf("%s entry for %s: %s (%s, confidence %d/5)\n",
		verb, model.FormatDate(date), sanitized.Topic,
		formatMinutes(sanitized.Minutes), sanitized.Confidence)
	return nil
}

// formatMinutes renders minutes as "1h 30m" or "45m".
func formatMinutes(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}
