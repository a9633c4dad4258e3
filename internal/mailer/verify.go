package mailer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/airwl/whitemail/internal/logging"
	"github.com/airwl/whitemail/internal/sheet"
)

// spreadsheet extensions considered when scanning a recipient folder
var spreadsheetExts = []string{".xls", ".xlsx", ".xlsm"}

// Verifier reconciles the roster spreadsheet against the per-recipient
// folder tree. Progress and skip diagnostics go to Out so the operator
// sees them regardless of log level.
type Verifier struct {
	Log logging.Logger
	Out io.Writer
}

// Verify reads the roster at rosterPath and cross-references the folders
// under targetDir. Missing inputs or required columns abort the call.
func (v *Verifier) Verify(rosterPath, targetDir string) (*Results, error) {
	if _, err := os.Stat(rosterPath); err != nil {
		return nil, fmt.Errorf("roster spreadsheet not found: %s", rosterPath)
	}
	if info, err := os.Stat(targetDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("target directory not found: %s", targetDir)
	}

	table, err := sheet.Open(rosterPath)
	if err != nil {
		return nil, fmt.Errorf("reading roster: %w", err)
	}
	if !table.HasColumns(ColumnEmail, ColumnAgreementID) {
		return nil, fmt.Errorf("roster is missing required columns %s, %s", ColumnEmail, ColumnAgreementID)
	}

	fmt.Fprintf(v.Out, "成功读取文件: %s，包含 %d 行数据\n", rosterPath, table.Len())

	results := &Results{}
	invalidEmails := 0

	for i := 0; i < table.Len(); i++ {
		line := table.RowNumber(i)

		email := table.Cell(i, ColumnEmail)
		if email == "" {
			fmt.Fprintf(v.Out, "第 %d 行: 航司对接人邮箱为空\n", line)
			continue
		}
		if !IsValidEmail(email) {
			fmt.Fprintf(v.Out, "第 %d 行: 航司对接人邮箱 '%s' 格式不正确，跳过\n", line, email)
			invalidEmails++
			continue
		}

		agreementID := table.Cell(i, ColumnAgreementID)
		if agreementID == "" {
			fmt.Fprintf(v.Out, "第 %d 行: 协议号为空\n", line)
			continue
		}

		cc, badCC := SplitAddressList(table.Cell(i, ColumnCC))
		for _, bad := range badCC {
			fmt.Fprintf(v.Out, "第 %d 行: 抄送邮箱 '%s' 格式不正确，将被忽略\n", line, bad)
		}

		row := RecipientRow{
			Email:          email,
			AgreementID:    agreementID,
			CC:             cc,
			SendSeparately: table.Cell(i, ColumnSendSeparately) == sendSeparatelyYes,
			Line:           line,
		}

		folder := filepath.Join(targetDir, email)
		folderExists := isDir(folder)

		var matches []string
		if folderExists {
			all, err := listSpreadsheets(folder)
			if err != nil {
				v.Log.Warn("scanning recipient folder failed", logging.F("folder", folder), logging.F("error", err.Error()))
			}
			for _, path := range all {
				if strings.Contains(filepath.Base(path), agreementID) {
					matches = append(matches, path)
				}
			}
		}

		result := results.recipient(email, folderExists)
		v.route(result, row, matches)
		v.reportRow(row, folder, folderExists, matches)
	}

	v.reportSummary(results)

	if invalidEmails > 0 {
		fmt.Fprintf(v.Out, "\n注意: 发现 %d 行数据包含格式不正确的邮箱地址，这些行已被跳过\n", invalidEmails)
	}

	return results, nil
}

// route places one roster row into its match group. Send-separately rows
// with matches get one single-file group each; everything else lands in
// the cc-signature group, accumulating matched files across rows.
// Duplicate files matched by two rows are kept as-is, not deduplicated.
func (v *Verifier) route(result *RecipientResult, row RecipientRow, matches []string) {
	ccSig := row.CCSignature()

	if row.SendSeparately && len(matches) > 0 {
		for _, file := range matches {
			key := ccSig + "_" + filepath.Base(file)
			result.addGroup(&MatchGroup{
				Key:            key,
				CC:             row.CC,
				MatchedFiles:   []string{file},
				MatchFound:     true,
				Row:            row,
				SendSeparately: true,
			})
		}
		return
	}

	result.addGroup(&MatchGroup{
		Key: ccSig,
		CC:  row.CC,
		Row: row,
	})
	group := result.Group(ccSig)
	if len(matches) > 0 {
		group.MatchFound = true
		group.MatchedFiles = append(group.MatchedFiles, matches...)
	}
}

func (v *Verifier) reportRow(row RecipientRow, folder string, folderExists bool, matches []string) {
	status := "失败"
	if folderExists && len(matches) > 0 {
		status = "通过"
	}
	separateInfo := ""
	if row.SendSeparately {
		separateInfo = "（单独发送）"
	}
	fmt.Fprintf(v.Out, "验证 %s - %s%s: %s\n", row.Email, row.AgreementID, separateInfo, status)

	switch {
	case !folderExists:
		fmt.Fprintf(v.Out, "  - 文件夹不存在: %s\n", folder)
	case len(matches) == 0:
		fmt.Fprintf(v.Out, "  - 未找到包含协议号 %s 的Excel文件\n", row.AgreementID)
	default:
		fmt.Fprintf(v.Out, "  - 找到匹配文件: %v\n", baseNames(matches))
		if len(row.CC) > 0 {
			fmt.Fprintf(v.Out, "  - 有效抄送邮箱: %v\n", row.CC)
		}
	}
}

func (v *Verifier) reportSummary(results *Results) {
	for _, result := range results.Recipients() {
		if !result.FolderExists {
			fmt.Fprintf(v.Out, "\n邮箱 %s: 文件夹不存在\n", result.Email)
			continue
		}
		for _, g := range result.Groups() {
			n := len(g.MatchedFiles)
			if g.SendSeparately {
				fmt.Fprintf(v.Out, "\n邮箱 %s (抄送: %s) (单独发送): 找到 %d 个匹配文件\n", result.Email, g.CCDisplay(), n)
			} else if n > 0 {
				fmt.Fprintf(v.Out, "\n邮箱 %s (抄送: %s): 找到 %d 个匹配文件\n", result.Email, g.CCDisplay(), n)
			} else {
				fmt.Fprintf(v.Out, "\n邮箱 %s (抄送: %s): 未找到匹配文件\n", result.Email, g.CCDisplay())
			}
		}
	}
}

// listSpreadsheets enumerates spreadsheet files directly under dir,
// non-recursive, in directory order.
func listSpreadsheets(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		for _, want := range spreadsheetExts {
			if ext == want {
				out = append(out, filepath.Join(dir, e.Name()))
				break
			}
		}
	}
	return out, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func baseNames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}
