package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/airwl/whitemail/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
	Long:  "Commands for generating and validating Whitemail configuration",
}

var configGeneratePath string

var configGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate default configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Generate(configGeneratePath); err != nil {
			return err
		}
		fmt.Printf("Wrote default configuration to %s\n", configGeneratePath)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("configuration is invalid: %w", err)
		}
		fmt.Println("Configuration is valid")
		return nil
	},
}

func init() {
	configGenerateCmd.Flags().StringVar(&configGeneratePath, "path", "whitemail.toml", "where to write the configuration")

	configCmd.AddCommand(configGenerateCmd)
	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd)
}
