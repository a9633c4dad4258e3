package mailer

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchiveSentFolders(t *testing.T) {
	target := t.TempDir()
	folder := filepath.Join(target, "a@x.com")
	touchFiles(t, folder, "MU_110001.xlsx")

	stats, err := ArchiveSentFolders([]string{folder}, target, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Moved)
	assert.Equal(t, 0, stats.Failed)

	// source is gone, contents live under the archive folder
	_, statErr := os.Stat(folder)
	assert.True(t, os.IsNotExist(statErr))
	moved := filepath.Join(target, ArchiveDirName, "a@x.com", "MU_110001.xlsx")
	_, statErr = os.Stat(moved)
	assert.NoError(t, statErr)
}

func TestArchiveOverwritesExistingEntry(t *testing.T) {
	target := t.TempDir()
	folder := filepath.Join(target, "a@x.com")
	touchFiles(t, folder, "new.xlsx")

	// a stale entry from a previous run, with different contents
	stale := filepath.Join(target, ArchiveDirName, "a@x.com")
	touchFiles(t, stale, "old.xlsx")

	stats, err := ArchiveSentFolders([]string{folder}, target, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Moved)

	// replaced, not merged
	_, statErr := os.Stat(filepath.Join(stale, "new.xlsx"))
	assert.NoError(t, statErr)
	_, statErr = os.Stat(filepath.Join(stale, "old.xlsx"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestArchiveMissingSourceIsCountedNotFatal(t *testing.T) {
	target := t.TempDir()
	present := filepath.Join(target, "a@x.com")
	touchFiles(t, present, "MU_110001.xlsx")
	missing := filepath.Join(target, "gone@x.com")

	stats, err := ArchiveSentFolders([]string{missing, present}, target, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Moved)
	assert.Equal(t, 1, stats.Failed)
}
