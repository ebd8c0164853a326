// Package root contains the root command for the application.
package root

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"harufuji/kakeibo/internal/config"
	"harufuji/kakeibo/internal/logging"
)

// CommonFlags represents the flags shared by multiple commands.
type CommonFlags struct {
	Input  string
	Book   string
	Commit bool
}

var (
	// Log is the shared logger instance for commands
	Log = logrus.New()

	// Cfg is the resolved application configuration, populated before any
	// command runs
	Cfg *config.Config

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "kakeibo",
		Short: "A bookkeeping tool that scans receipts and imports bank statement CSVs.",
		Long: `kakeibo extracts the amount, date and vendor from receipt photos,
suggests an expense category, and imports bank/card statement CSVs with a
preview-and-select reconciliation step before anything is persisted.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to kakeibo!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			Log = config.ConfigureLogging()
			logging.SetLogger(logging.NewLogrusAdapterFromLogger(Log))

			cfg, err := config.InitializeConfig()
			if err != nil {
				Log.Errorf("Invalid configuration: %v", err)
				os.Exit(1)
			}
			Cfg = cfg
		},
	}

	// SharedFlags holds flag values common to multiple commands
	SharedFlags = CommonFlags{}
)

// Init registers the persistent flags on the root command.
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Book, "book", "b", "", "Book id (defaults to data.book_id)")
	Cmd.PersistentFlags().BoolVarP(&SharedFlags.Commit, "commit", "c", false, "Persist the result instead of previewing")
}

// BookID resolves the effective book id from the flag and configuration.
func BookID() string {
	if SharedFlags.Book != "" {
		return SharedFlags.Book
	}
	return Cfg.Data.BookID
}
