// Package cli is the terminal frontend: a thin collaborator that
// drives the timer core's command surface and renders its state
// stream. It holds no timing logic of its own.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const appName = "lapclock"

var rootCmd = &cobra.Command{
	Use:   "lapclock",
	Short: "lapclock – a workout interval timer",
	Long: `lapclock runs repeated work/rest intervals ("laps") as a countdown,
with drift-free pause/resume and saved recipes under your user config
directory.`,
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(recipesCmd)
	rootCmd.AddCommand(saveCmd)
}
