package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ptarn/studylog/internal/storage"
)

var settingCmd = &cobra.Command{
	Use:   "setting",
	Short: "Read and write application settings",
}

var settingGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print a setting value",
	Args:  cobra.ExactArgs(1),
	RunE:  runSettingGet,
}

var settingSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting value",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingSet,
}

func init() {
	settingCmd.AddCommand(settingGetCmd)
	settingCmd.AddCommand(settingSetCmd)
}

func runSettingGet(cmd *cobra.Command, args []string) error {
	st, _ := openStore()
	defer st.Close()

	value, err := st.GetSetting(args[0], storage.SettingDefaults[args[0]])
	if err != nil {
		return err
	}
	fmt.Println(value)
	return nil
}

func runSettingSet(cmd *cobra.Command, args []string) error {
	key, value := args[0], args[1]
	if err := checkSetting(key, value); err != nil {
		return err
	}

	st, _ := openStore()
	defer st.Close()

	if err := st.SetSetting(key, value); err != nil {
		return err
	}
	fmt.Printf("%s = %s\n", key, value)
	return nil
}

// checkSetting validates the well-known keys; unknown keys are stored
// as-is for the presentation layer's own preferences.
func checkSetting(key, value string) error {
	switch key {
	case storage.SettingWeeklyGoal:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer", key)
		}
	case storage.SettingTheme:
		if value != "dark" && value != "light" {
			return fmt.Errorf("%s must be %q or %q", key, "dark", "light")
		}
	}
	return nil
}
