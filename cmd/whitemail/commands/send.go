package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/airwl/whitemail/internal/mailer"
)

const passwordEnv = "WHITEMAIL_SMTP_PASSWORD"

var (
	sendTestMode bool
	sendDelay    int

	// confirm gates the real send; tests replace it with a fixed answer
	confirm = func(prompt string) bool {
		fmt.Print(prompt)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return false
		}
		return strings.ToLower(strings.TrimSpace(line)) == "y"
	}
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Verify, preview and batch-send the whitelist mails",
	Long: `Verify the roster against the recipient folders, preview every
message that would go out, and after interactive confirmation send them
over one SMTP session. Successfully sent folders are moved to the
archive folder afterwards.`,
	RunE: runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	delay := cfg.Send.DelaySeconds
	if cmd.Flags().Changed("delay") {
		delay = sendDelay
	}

	password := os.Getenv(passwordEnv)
	if !sendTestMode && password == "" {
		return fmt.Errorf("%s is not set", passwordEnv)
	}

	fmt.Println("开始验证邮箱和协议号的匹配...")
	verifier := &mailer.Verifier{Log: log, Out: os.Stdout}
	results, err := verifier.Verify(cfg.Paths.Roster, cfg.Paths.TargetDir)
	if err != nil {
		return fmt.Errorf("验证失败，无法继续发送邮件: %w", err)
	}

	printVerificationSummary(results)
	if results.MatchedCount() == 0 {
		fmt.Println("没有通过验证的邮箱-协议号组合，无法发送邮件")
		return nil
	}

	if err := mailer.Preview(results, os.Stdout); err != nil {
		return err
	}

	if !confirm("是否继续发送邮件？(y/n): ") {
		fmt.Println("操作已取消")
		return nil
	}

	if !sendTestMode {
		fmt.Printf("\n已设置每封邮件发送间隔为 %d 秒\n", delay)
	}
	fmt.Println("开始发送邮件...")

	dispatcher := &mailer.Dispatcher{
		Session:  mailer.SMTPSession(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Sender, password),
		Sender:   cfg.SMTP.Sender,
		Out:      os.Stdout,
		Log:      log,
		TestMode: sendTestMode,
		Delay:    time.Duration(delay) * time.Second,
	}

	outcome, err := dispatcher.Dispatch(results)
	if err != nil {
		return err
	}

	if !sendTestMode && len(outcome.SentFolders) > 0 {
		fmt.Println("\n开始移动已成功发送的文件夹...")
		if _, err := mailer.ArchiveSentFolders(outcome.SentFolders, cfg.Paths.TargetDir, os.Stdout); err != nil {
			return err
		}
	}

	return nil
}

func init() {
	sendCmd.Flags().BoolVar(&sendTestMode, "test", false, "validate and simulate without sending")
	sendCmd.Flags().IntVar(&sendDelay, "delay", 2, "seconds to pause between messages")

	rootCmd.AddCommand(sendCmd)
}
