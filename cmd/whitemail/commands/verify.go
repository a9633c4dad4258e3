package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/airwl/whitemail/internal/mailer"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify the roster against the recipient folders",
	Long:  "Read the batch-send roster and report, per recipient and cc group, which agreement files were matched on disk. No mail is sent.",
	RunE: func(cmd *cobra.Command, args []string) error {
		verifier := &mailer.Verifier{Log: log, Out: os.Stdout}

		results, err := verifier.Verify(cfg.Paths.Roster, cfg.Paths.TargetDir)
		if err != nil {
			return err
		}

		printVerificationSummary(results)
		return nil
	},
}

func printVerificationSummary(results *mailer.Results) {
	total := results.GroupCount()
	passed := results.MatchedCount()
	fmt.Printf("\n验证结果摘要: 共 %d 个邮箱, %d 个邮件组合, 通过 %d 个，失败 %d 个\n",
		results.Len(), total, passed, total-passed)
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
