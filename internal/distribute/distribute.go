// Package distribute moves per-agreement spreadsheet files produced by
// the upstream splitter into one folder per recipient, driven by the
// agreement-to-contact mapping in the roster spreadsheet.
package distribute

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/airwl/whitemail/internal/logging"
	"github.com/airwl/whitemail/internal/mailer"
	"github.com/airwl/whitemail/internal/sheet"
)

// noEmailPlaceholder stands in for mapping rows without a contact
// address; their files collect in a folder of the same name so the
// operator can triage them.
const noEmailPlaceholder = "无邮箱"

// Stats aggregates one distribution run
type Stats struct {
	Moved   int
	Skipped int
}

// Distributor routes split files into per-recipient folders
type Distributor struct {
	Log logging.Logger
	Out io.Writer
}

// Run reads the agreement→email mapping from the roster at mappingPath
// and moves every split file under sourceDir into
// targetRoot/<email>/. Files with no usable mapping are reported and
// left in place.
func (d *Distributor) Run(mappingPath, sourceDir, targetRoot string) (Stats, error) {
	var stats Stats

	table, err := sheet.Open(mappingPath)
	if err != nil {
		return stats, fmt.Errorf("reading mapping: %w", err)
	}
	if !table.HasColumns(mailer.ColumnAgreementID, mailer.ColumnEmail) {
		return stats, fmt.Errorf("mapping is missing required columns %s, %s", mailer.ColumnAgreementID, mailer.ColumnEmail)
	}

	mapping := make(map[string]string, table.Len())
	for i := 0; i < table.Len(); i++ {
		id := table.Cell(i, mailer.ColumnAgreementID)
		if id == "" {
			continue
		}
		email := table.Cell(i, mailer.ColumnEmail)
		if email == "" {
			email = noEmailPlaceholder
		}
		mapping[id] = email
	}
	d.Log.Info("mapping loaded", logging.F("path", mappingPath), logging.F("agreements", len(mapping)))

	if err := os.MkdirAll(targetRoot, 0755); err != nil {
		return stats, fmt.Errorf("creating target root %s: %w", targetRoot, err)
	}

	entries, err := os.ReadDir(sourceDir)
	if err != nil {
		return stats, fmt.Errorf("reading source directory %s: %w", sourceDir, err)
	}

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".xlsx") || strings.HasPrefix(name, "~$") {
			continue
		}

		parts := strings.Split(name, "_")
		if len(parts) < 2 {
			fmt.Fprintf(d.Out, "文件名 %s 格式不正确，无法提取编号\n", name)
			stats.Skipped++
			continue
		}
		id := parts[1]
		fmt.Fprintf(d.Out, "处理文件: %s, 提取到的编号: %s\n", name, id)

		email, ok := mapping[id]
		if !ok {
			fmt.Fprintf(d.Out, "编号 %s 不在映射关系中\n", id)
			stats.Skipped++
			continue
		}
		fmt.Fprintf(d.Out, "编号 %s 对应的邮箱地址是 %s\n", id, email)

		targetDir := filepath.Join(targetRoot, email)
		if _, err := os.Stat(targetDir); os.IsNotExist(err) {
			if err := os.MkdirAll(targetDir, 0755); err != nil {
				return stats, fmt.Errorf("creating %s: %w", targetDir, err)
			}
			fmt.Fprintf(d.Out, "创建目标文件夹: %s\n", targetDir)
		}

		src := filepath.Join(sourceDir, name)
		if err := os.Rename(src, filepath.Join(targetDir, name)); err != nil {
			fmt.Fprintf(d.Out, "移动文件失败 %s: %v\n", name, err)
			d.Log.Error("move failed", logging.F("file", src), logging.F("error", err.Error()))
			stats.Skipped++
			continue
		}
		fmt.Fprintf(d.Out, "移动文件 %s 到 %s\n", name, targetDir)
		stats.Moved++
	}

	fmt.Fprintln(d.Out, "文件移动完成。")
	return stats, nil
}
