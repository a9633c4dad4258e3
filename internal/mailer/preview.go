package mailer

import (
	"fmt"
	"io"
	"strings"
)

// Preview renders every group that would be sent so the operator can
// inspect recipients, subjects, bodies and attachments before
// confirming. The carrier-prefix consistency check runs here: the first
// inconsistent group aborts the whole run with an error, before any
// transport connection is opened.
func Preview(results *Results, out io.Writer) error {
	fmt.Fprintln(out, "\n---- 预览邮件发送信息 ----")

	for _, result := range results.Recipients() {
		if !result.FolderExists {
			continue
		}
		for _, g := range result.Groups() {
			if !g.MatchFound {
				continue
			}

			separateInfo := ""
			if g.SendSeparately {
				separateInfo = "（单独发送）"
			}

			if err := checkGroupPrefixes(g); err != nil {
				fmt.Fprintf(out, "错误: 邮箱 %s (抄送: %s)%s 的 Excel 文件名前缀不一致\n", result.Email, g.CCDisplay(), separateInfo)
				return fmt.Errorf("recipient %s: %w", result.Email, err)
			}

			names := baseNames(g.MatchedFiles)

			fmt.Fprintf(out, "\n收件人: %s (抄送: %s)%s\n", result.Email, g.CCDisplay(), separateInfo)
			fmt.Fprintf(out, "抄送: %v\n", g.CC)
			fmt.Fprintf(out, "主题: %s\n", Subject(names))
			fmt.Fprintf(out, "附件数量: %d，文件: %v\n", len(names), names)
			fmt.Fprintf(out, "正文预览:\n%s\n", strings.Join(BodyLines(names), "\n"))
			fmt.Fprintln(out, "----------------------------------------")
		}
	}

	fmt.Fprintln(out, "---- 预览结束 ----")
	return nil
}
