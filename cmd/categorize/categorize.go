// Package categorize handles category suggestion commands.
package categorize

import (
	"fmt"

	"github.com/spf13/cobra"

	"harufuji/kakeibo/cmd/root"
	"harufuji/kakeibo/internal/catstore"
	"harufuji/kakeibo/internal/categorizer"
	"harufuji/kakeibo/internal/logging"
)

var (
	description string
	list        bool
)

// Cmd represents the categorize command.
var Cmd = &cobra.Command{
	Use:   "categorize",
	Short: "Suggest a category for a vendor name or memo",
	RunE:  categorizeFunc,
}

func init() {
	Cmd.Flags().StringVarP(&description, "description", "d", "", "Vendor name or memo to categorize")
	Cmd.Flags().BoolVarP(&list, "list", "l", false, "List the category taxonomy in order")
}

func categorizeFunc(cmd *cobra.Command, args []string) error {
	log := logging.NewLogrusAdapterFromLogger(root.Log)

	taxonomy, err := catstore.New(root.Cfg.Data.CategoriesFile, log).Load()
	if err != nil {
		return err
	}
	suggester := categorizer.NewSuggester(taxonomy, log)

	if list {
		for _, c := range suggester.Categories() {
			fmt.Printf("%s %-14s %s\n", c.Icon, c.ID, c.DisplayName)
		}
		return nil
	}

	if description == "" {
		return fmt.Errorf("--description is required (or use --list)")
	}

	fmt.Println(suggester.Suggest(description))
	return nil
}
