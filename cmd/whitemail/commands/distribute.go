package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/airwl/whitemail/internal/distribute"
)

var distributeSource string

var distributeCmd = &cobra.Command{
	Use:   "distribute",
	Short: "Move split files into per-recipient folders",
	Long: `Read the agreement-to-contact mapping from the roster and move each
per-agreement spreadsheet from the source directory into the folder of
its recipient under the target directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		source := cfg.Paths.SourceDir
		if cmd.Flags().Changed("source") {
			source = distributeSource
		}

		d := &distribute.Distributor{Log: log, Out: os.Stdout}
		stats, err := d.Run(cfg.Paths.Roster, source, cfg.Paths.TargetDir)
		if err != nil {
			return err
		}

		fmt.Printf("移动 %d 个文件，跳过 %d 个\n", stats.Moved, stats.Skipped)
		return nil
	},
}

func init() {
	distributeCmd.Flags().StringVar(&distributeSource, "source", "", "source directory holding split files (overrides config)")

	rootCmd.AddCommand(distributeCmd)
}
