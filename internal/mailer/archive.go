package mailer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ArchiveDirName is the folder under the target directory that holds
// folders whose contents have been sent.
const ArchiveDirName = "已批量发送"

// ArchiveStats aggregates per-folder move results
type ArchiveStats struct {
	Moved  int
	Failed int
}

// ArchiveSentFolders moves every sent source folder into the archive
// directory under targetDir. A same-named entry at the destination is
// destroyed first (overwrite, not merge). Missing sources and failed
// moves are counted, never fatal; only failure to create the archive
// directory itself is an error.
func ArchiveSentFolders(folders []string, targetDir string, out io.Writer) (ArchiveStats, error) {
	var stats ArchiveStats

	archiveDir := filepath.Join(targetDir, ArchiveDirName)
	if _, err := os.Stat(archiveDir); os.IsNotExist(err) {
		if err := os.MkdirAll(archiveDir, 0755); err != nil {
			fmt.Fprintf(out, "创建文件夹失败: %v\n", err)
			return stats, fmt.Errorf("creating archive directory %s: %w", archiveDir, err)
		}
		fmt.Fprintf(out, "创建文件夹: %s\n", archiveDir)
	}

	type failure struct {
		folder string
		reason string
	}
	var failures []failure

	for _, folder := range folders {
		if _, err := os.Stat(folder); err != nil {
			fmt.Fprintf(out, "文件夹不存在，无法移动: %s\n", folder)
			stats.Failed++
			failures = append(failures, failure{folder, "文件夹不存在"})
			continue
		}

		dest := filepath.Join(archiveDir, filepath.Base(folder))
		if _, err := os.Stat(dest); err == nil {
			if err := os.RemoveAll(dest); err != nil {
				fmt.Fprintf(out, "移动文件夹失败 %s: %v\n", folder, err)
				stats.Failed++
				failures = append(failures, failure{folder, err.Error()})
				continue
			}
		}

		if err := os.Rename(folder, dest); err != nil {
			fmt.Fprintf(out, "移动文件夹失败 %s: %v\n", folder, err)
			stats.Failed++
			failures = append(failures, failure{folder, err.Error()})
			continue
		}

		fmt.Fprintf(out, "移动文件夹: %s -> %s\n", filepath.Base(folder), archiveDir)
		stats.Moved++
	}

	fmt.Fprintf(out, "\n文件夹移动摘要: 成功 %d 个，失败 %d 个\n", stats.Moved, stats.Failed)
	if len(failures) > 0 {
		fmt.Fprintln(out, "失败详情:")
		for _, f := range failures {
			fmt.Fprintf(out, "  - %s: %s\n", f.folder, f.reason)
		}
	}

	return stats, nil
}
