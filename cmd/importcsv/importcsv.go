// Package importcsv handles the bank/card statement import command.
package importcsv

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"harufuji/kakeibo/cmd/root"
	"harufuji/kakeibo/internal/catstore"
	"harufuji/kakeibo/internal/categorizer"
	"harufuji/kakeibo/internal/csvimport"
	"harufuji/kakeibo/internal/ledger"
	"harufuji/kakeibo/internal/logging"
	"harufuji/kakeibo/internal/reconcile"
	"harufuji/kakeibo/internal/yenutils"
)

var (
	dialect    string
	excludes   []int
	categories []string
)

// Cmd represents the import command.
var Cmd = &cobra.Command{
	Use:   "import",
	Short: "Import a bank or card statement CSV",
	Long: `Parse a statement CSV into candidate transactions with suggested
categories, preview them, and commit the selected rows as one atomic batch.
Rows are included by default; --exclude drops rows by index and --category
overrides a row's suggestion (e.g. --category 2=supplies).`,
	RunE: importFunc,
}

func init() {
	Cmd.Flags().StringVarP(&dialect, "dialect", "d", "", "CSV dialect: generic or card (defaults to csv.dialect)")
	Cmd.Flags().IntSliceVarP(&excludes, "exclude", "x", nil, "Row indexes to exclude from the import")
	Cmd.Flags().StringArrayVar(&categories, "category", nil, "Row category overrides as index=categoryID")
}

func importFunc(cmd *cobra.Command, args []string) error {
	if root.SharedFlags.Input == "" {
		return fmt.Errorf("--input is required")
	}

	log := logging.NewLogrusAdapterFromLogger(root.Log)
	cfg := root.Cfg

	taxonomy, err := catstore.New(cfg.Data.CategoriesFile, log).Load()
	if err != nil {
		return err
	}
	suggester := categorizer.NewSuggester(taxonomy, log)

	d := csvimport.Dialect(dialect)
	if d == "" {
		d = csvimport.Dialect(cfg.CSV.Dialect)
	}
	parser := csvimport.NewParser(d, []rune(cfg.CSV.Delimiter)[0], suggester, log)

	candidates, err := parser.ParseFile(root.SharedFlags.Input)
	if err != nil {
		return err
	}

	session := reconcile.NewSession(root.BookID(), suggester.IsValid, log)
	if err := session.Load(candidates); err != nil {
		return err
	}

	for _, idx := range excludes {
		if err := session.ToggleRow(idx); err != nil {
			return err
		}
	}
	for _, override := range categories {
		idx, id, err := parseOverride(override)
		if err != nil {
			return err
		}
		if err := session.SetRowCategory(idx, id); err != nil {
			return err
		}
	}

	printPreview(session.Rows())

	if !root.SharedFlags.Commit {
		fmt.Println("\nPreview only; re-run with --commit to persist the included rows.")
		return nil
	}

	if err := os.MkdirAll(cfg.Data.Directory, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	book, err := ledger.Open(filepath.Join(cfg.Data.Directory, "ledger.db"), log)
	if err != nil {
		return err
	}
	defer book.Close()

	count, err := session.Commit(context.Background(), book)
	if err != nil {
		return err
	}
	fmt.Printf("\nImported %d transactions.\n", count)
	return nil
}

func printPreview(rows []reconcile.Row) {
	fmt.Printf("%-4s %-3s %-10s %-12s %-14s %s\n",
		"#", "in", "date", "amount", "category", "description")
	for i, row := range rows {
		mark := " "
		if row.Included {
			mark = "x"
		}
		amount := row.Candidate.Amount
		fmt.Printf("%-4d [%s] %-10s %-12s %-14s %s\n",
			i, mark, row.Candidate.Date, yenutils.FormatYen(amount),
			row.Category(), row.Candidate.Description)
	}
}

func parseOverride(s string) (int, string, error) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("invalid category override %q, want index=categoryID", s)
	}
	idx, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, "", fmt.Errorf("invalid row index in %q: %w", s, err)
	}
	return idx, parts[1], nil
}
