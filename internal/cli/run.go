package cli

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"lapclock/internal/core/clock"
	"lapclock/internal/core/model"
	"lapclock/internal/core/timercore"
	"lapclock/internal/platform"
	"lapclock/internal/storage"
)

var (
	runRecipe      string
	runLaps        int
	runWork        time.Duration
	runRest        time.Duration
	runAutoRestart bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interval timer in the terminal",
	Long: `Runs a timer interactively. While it is running, type a command and
press enter:

  p  pause        r  resume       s  skip rest
  d  dismiss alarm                q  quit`,
	Args: cobra.NoArgs,
	RunE: runTimer,
}

func init() {
	runCmd.Flags().StringVar(&runRecipe, "recipe", "", "Saved recipe ID to run (default: most recently used)")
	runCmd.Flags().IntVar(&runLaps, "laps", 0, "Number of laps (999 = until stopped)")
	runCmd.Flags().DurationVar(&runWork, "work", 0, "Work interval length, e.g. 45s")
	runCmd.Flags().DurationVar(&runRest, "rest", 0, "Rest interval length, 0 = no rest")
	runCmd.Flags().BoolVar(&runAutoRestart, "auto-restart", false, "Restart the next run when the alarm is dismissed")
}

func runTimer(cmd *cobra.Command, args []string) error {
	guard, err := platform.AcquireSingleInstance(appName)
	if err != nil {
		return fmt.Errorf("another %s run is already active", appName)
	}
	defer func() {
		_ = guard.Release()
	}()

	dir, err := storage.DefaultDir(appName)
	if err != nil {
		return err
	}
	store, err := storage.Open(dir)
	if err != nil {
		return err
	}

	config, err := resolveConfig(cmd, store)
	if err != nil {
		return err
	}

	autoRestart := store.AutoRestart()
	if cmd.Flags().Changed("auto-restart") {
		autoRestart = runAutoRestart
	}

	core := timercore.New(store, clock.System{}, timercore.Options{AutoRestart: autoRestart})
	defer core.Close()

	states, cancel := core.Subscribe()
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(signals)

	input := readCommands(os.Stdin)

	if err := core.Start(config); err != nil {
		return err
	}
	if runRecipe != "" {
		// Recency bookkeeping only; a failed write must not stop the run.
		if err := store.Touch(runRecipe, time.Now()); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	for {
		select {
		case state, ok := <-states:
			if !ok {
				return nil
			}
			render(state)
			if state.Phase == timercore.PhaseStopped {
				return nil
			}
		case line, ok := <-input:
			if !ok {
				core.Stop()
				return nil
			}
			switch line {
			case "p":
				core.Pause()
			case "r":
				core.Resume()
			case "s":
				core.SkipRest()
			case "d":
				core.DismissAlarm()
			case "q":
				core.Stop()
				return nil
			}
		case <-signals:
			core.Stop()
			return nil
		}
	}
}

// resolveConfig picks the recipe to run: an explicit --recipe, an
// ad-hoc recipe built from flags, or the most recently used one.
func resolveConfig(cmd *cobra.Command, store *storage.Store) (model.TimerConfiguration, error) {
	if runRecipe != "" {
		for _, recipe := range store.Recipes() {
			if recipe.ID == runRecipe {
				return recipe, nil
			}
		}
		return model.TimerConfiguration{}, fmt.Errorf("unknown recipe %q", runRecipe)
	}

	flags := cmd.Flags()
	if !flags.Changed("laps") && !flags.Changed("work") && !flags.Changed("rest") {
		return store.Current(), nil
	}

	config := model.DefaultConfiguration()
	config.ID = "adhoc"
	if flags.Changed("laps") {
		config.Laps = runLaps
	}
	if flags.Changed("work") {
		config.WorkDuration = runWork
	}
	if flags.Changed("rest") {
		config.RestDuration = runRest
	}
	return config.Normalized(), nil
}

// readCommands forwards trimmed stdin lines. The channel closes on EOF.
func readCommands(source *os.File) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(source)
		for scanner.Scan() {
			lines <- strings.ToLower(strings.TrimSpace(scanner.Text()))
		}
	}()
	return lines
}

func render(state timercore.State) {
	switch state.Phase {
	case timercore.PhaseRunning:
		fmt.Printf("lap %s  work  %s\n", lapLabel(state), formatClock(state.TimeRemaining))
	case timercore.PhaseResting:
		fmt.Printf("lap %s  rest  %s\n", lapLabel(state), formatClock(state.TimeRemaining))
	case timercore.PhasePaused:
		fmt.Printf("lap %s  paused at %s (r to resume)\n", lapLabel(state), formatClock(state.TimeRemaining))
	case timercore.PhaseAlarmActive:
		fmt.Println("workout complete! (d to dismiss)")
	case timercore.PhaseStopped:
		fmt.Println("stopped")
	}
}

func lapLabel(state timercore.State) string {
	if state.Configuration.Infinite() {
		return fmt.Sprintf("%d/-", state.CurrentLap)
	}
	return fmt.Sprintf("%d/%d", state.CurrentLap, state.TotalLaps)
}

func formatClock(remaining time.Duration) string {
	if remaining < 0 {
		remaining = 0
	}
	seconds := int(remaining.Round(time.Second).Seconds())
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
