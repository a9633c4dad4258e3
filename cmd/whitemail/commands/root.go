package commands

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/airwl/whitemail/internal/config"
	"github.com/airwl/whitemail/internal/logging"
)

var (
	// Global configuration
	configPath string
	cfg        *config.Config
	log        logging.Logger

	// Root command
	rootCmd = &cobra.Command{
		Use:   "whitemail",
		Short: "Whitemail - airline whitelist batch mailer",
		Long: `Whitemail automates the recurring airline-whitelist mailing workflow:
it backfills and distributes per-agreement spreadsheet files, verifies the
batch-send roster against per-recipient folders, and batch-emails matched
files over a single SMTP session with operator confirmation.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Skip config loading for commands that do not need it
			if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" || cmd.Name() == "generate" {
				return
			}

			// A .env file supplies the SMTP password locally; absence is fine
			_ = godotenv.Load()

			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
				os.Exit(1)
			}

			log = logging.NewConsoleLogger(logging.ParseLevel(cfg.Logging.Level))
		},
	}
)

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
}

// GetRootCmd returns the root command for testing purposes
func GetRootCmd() *cobra.Command {
	return rootCmd
}
