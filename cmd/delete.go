package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ptarn/studylog/internal/filesync"
	"github.com/ptarn/studylog/internal/model"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <date>",
	Short: "Delete the entry for a date",
	Args:  cobra.ExactArgs(1),
	RunE:  runDelete,
}

func runDelete(cmd *cobra.Command, args []string) error {
	date, err := model.ParseDate(args[0])
	if err != nil {
		return err
	}

	st, cfg := openStore()
	defer st.Close()

	syncer := filesync.NewSyncer(st, cfg.SyncPath)
	defer syncer.Shutdown()

	_, existed, err := st.Get(date)
	if err != nil {
		return err
	}
	if err := st.Delete(date); err != nil {
		return err
	}
	if existed {
		fmt.Printf("Deleted entry for %s.\n", model.FormatDate(date))
	} else {
		fmt.Printf("No entry for %s.\n", model.FormatDate(date))
	}
	return nil
}
