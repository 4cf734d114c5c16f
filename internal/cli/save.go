package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"lapclock/internal/core/model"
	"lapclock/internal/storage"
)

var (
	saveLaps        int
	saveWork        time.Duration
	saveRest        time.Duration
	saveAutoRestart bool
)

var saveCmd = &cobra.Command{
	Use:   "save <id>",
	Short: "Save or update a recipe",
	Args:  cobra.ExactArgs(1),
	RunE:  runSave,
}

func init() {
	defaults := model.DefaultConfiguration()
	saveCmd.Flags().IntVar(&saveLaps, "laps", defaults.Laps, "Number of laps (999 = until stopped)")
	saveCmd.Flags().DurationVar(&saveWork, "work", defaults.WorkDuration, "Work interval length")
	saveCmd.Flags().DurationVar(&saveRest, "rest", defaults.RestDuration, "Rest interval length, 0 = no rest")
	saveCmd.Flags().BoolVar(&saveAutoRestart, "auto-restart", false, "Persist the auto-restart preference")
}

func runSave(cmd *cobra.Command, args []string) error {
	dir, err := storage.DefaultDir(appName)
	if err != nil {
		return err
	}
	store, err := storage.Open(dir)
	if err != nil {
		return err
	}

	config := model.TimerConfiguration{
		ID:           args[0],
		Laps:         saveLaps,
		WorkDuration: saveWork,
		RestDuration: saveRest,
	}.Normalized()

	if err := store.SaveRecipe(config, time.Now()); err != nil {
		return err
	}
	if cmd.Flags().Changed("auto-restart") {
		if err := store.SetAutoRestart(saveAutoRestart); err != nil {
			return err
		}
	}

	fmt.Printf("saved recipe %q: %d laps, %s work, %s rest\n",
		config.ID, config.Laps, config.WorkDuration, config.RestDuration)
	return nil
}
