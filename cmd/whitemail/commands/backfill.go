package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/airwl/whitemail/internal/whitelist"
)

var (
	backfillRaw      string
	backfillContacts string
	backfillOut      string
)

var backfillCmd = &cobra.Command{
	Use:   "backfill",
	Short: "Backfill company names in the raw whitelist",
	Long: `Replace the company-name column of the raw whitelist with the
canonical customer name from the contact list, keyed by agreement id.
Rows without a mapping keep their original value.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		updated, err := whitelist.Backfill(backfillRaw, backfillContacts, backfillOut, log)
		if err != nil {
			return err
		}

		fmt.Printf("文件已更新并保存到：%s（更新 %d 行）\n", backfillOut, updated)
		return nil
	},
}

func init() {
	backfillCmd.Flags().StringVar(&backfillRaw, "raw", "", "raw whitelist spreadsheet")
	backfillCmd.Flags().StringVar(&backfillContacts, "contacts", "", "contact list spreadsheet")
	backfillCmd.Flags().StringVar(&backfillOut, "out", "", "where to write the updated whitelist")
	backfillCmd.MarkFlagRequired("raw")
	backfillCmd.MarkFlagRequired("contacts")
	backfillCmd.MarkFlagRequired("out")

	rootCmd.AddCommand(backfillCmd)
}
