package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"lapclock/internal/storage"
)

var recipesCmd = &cobra.Command{
	Use:   "recipes",
	Short: "List saved recipes, most recently used first",
	Args:  cobra.NoArgs,
	RunE:  runRecipes,
}

func runRecipes(cmd *cobra.Command, args []string) error {
	dir, err := storage.DefaultDir(appName)
	if err != nil {
		return err
	}
	store, err := storage.Open(dir)
	if err != nil {
		return err
	}

	recipes := store.Recipes()
	if len(recipes) == 0 {
		fmt.Println("no saved recipes; run `lapclock save` to add one")
		return nil
	}

	writer := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(writer, "ID\tLAPS\tWORK\tREST\tLAST USED")
	for _, recipe := range recipes {
		laps := fmt.Sprintf("%d", recipe.Laps)
		if recipe.Infinite() {
			laps = "inf"
		}
		lastUsed := "never"
		if !recipe.LastUsed.IsZero() {
			lastUsed = recipe.LastUsed.Local().Format(time.DateTime)
		}
		fmt.Fprintf(writer, "%s\t%s\t%s\t%s\t%s\n",
			recipe.ID, laps, recipe.WorkDuration, recipe.RestDuration, lastUsed)
	}
	return writer.Flush()
}
