package mailer

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/airwl/whitemail/internal/logging"
)

func testLogger() logging.Logger {
	l := logging.NewConsoleLogger(logging.Error)
	l.SetOutput(io.Discard)
	return l
}

func writeRoster(t *testing.T, path string, rows [][]string) {
	t.Helper()

	f := excelize.NewFile()
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, value))
		}
	}
	require.NoError(t, f.SaveAs(path))
}

func touchFiles(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0644))
	}
}

const rosterHeader = "航司对接人邮箱"

var rosterColumns = []string{"航司对接人邮箱", "协议号", "抄送邮箱", "是否单独发送"}

func TestVerifyAccumulatesMatchesIntoOneGroup(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "target")
	touchFiles(t, filepath.Join(target, "a@x.com"), "MU_协议A_110001.xlsx", "MU_协议B_110002.xlsx")

	roster := filepath.Join(tmp, "roster.xlsx")
	writeRoster(t, roster, [][]string{
		rosterColumns,
		{"a@x.com", "110001", "cc@x.com", ""},
		{"a@x.com", "110002", "cc@x.com", ""},
	})

	v := &Verifier{Log: testLogger(), Out: io.Discard}
	results, err := v.Verify(roster, target)
	require.NoError(t, err)

	require.Equal(t, 1, results.Len())
	result := results.Get("a@x.com")
	require.NotNil(t, result)
	assert.True(t, result.FolderExists)

	groups := result.Groups()
	require.Len(t, groups, 1)
	g := groups[0]
	assert.True(t, g.MatchFound)
	assert.Equal(t, []string{"cc@x.com"}, g.CC)
	assert.ElementsMatch(t, []string{"MU_协议A_110001.xlsx", "MU_协议B_110002.xlsx"}, baseNames(g.MatchedFiles))
}

func TestVerifySendSeparatelySplitsPerFile(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "target")
	touchFiles(t, filepath.Join(target, "a@x.com"), "MU_协议A_110001.xlsx", "MU_协议B_110001.xlsx")

	roster := filepath.Join(tmp, "roster.xlsx")
	writeRoster(t, roster, [][]string{
		rosterColumns,
		{"a@x.com", "110001", "cc@x.com", "是"},
	})

	v := &Verifier{Log: testLogger(), Out: io.Discard}
	results, err := v.Verify(roster, target)
	require.NoError(t, err)

	groups := results.Get("a@x.com").Groups()
	require.Len(t, groups, 2)
	for _, g := range groups {
		assert.True(t, g.SendSeparately)
		assert.True(t, g.MatchFound)
		assert.Len(t, g.MatchedFiles, 1)
	}
	assert.NotEqual(t, groups[0].Key, groups[1].Key)
}

func TestVerifySkipsInvalidRows(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "target")
	touchFiles(t, filepath.Join(target, "a@x.com"), "MU_110001.xlsx")

	roster := filepath.Join(tmp, "roster.xlsx")
	writeRoster(t, roster, [][]string{
		rosterColumns,
		{"not-an-address", "110001", "", ""},
		{"", "110001", "", ""},
		{"a@x.com", "", "", ""},
		{"a@x.com", "110001", "bad-cc, good@x.com", ""},
	})

	var out bytes.Buffer
	v := &Verifier{Log: testLogger(), Out: &out}
	results, err := v.Verify(roster, target)
	require.NoError(t, err)

	// only the last row survives; the bad cc entry is dropped, not the row
	require.Equal(t, 1, results.Len())
	g := results.Get("a@x.com").Groups()[0]
	assert.Equal(t, []string{"good@x.com"}, g.CC)
	assert.True(t, g.MatchFound)

	// operator diagnostics name the offending rows with the header offset
	assert.Contains(t, out.String(), "第 2 行")
	assert.Contains(t, out.String(), "第 3 行")
	assert.Contains(t, out.String(), "第 4 行")
	assert.Contains(t, out.String(), "bad-cc")
}

func TestVerifyMissingFolder(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "target")
	require.NoError(t, os.MkdirAll(target, 0755))

	roster := filepath.Join(tmp, "roster.xlsx")
	writeRoster(t, roster, [][]string{
		rosterColumns,
		{"ghost@x.com", "110001", "", ""},
	})

	v := &Verifier{Log: testLogger(), Out: io.Discard}
	results, err := v.Verify(roster, target)
	require.NoError(t, err)

	result := results.Get("ghost@x.com")
	require.NotNil(t, result)
	assert.False(t, result.FolderExists)
	require.Len(t, result.Groups(), 1)
	assert.False(t, result.Groups()[0].MatchFound)
}

func TestVerifyMissingRequiredColumns(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "target")
	require.NoError(t, os.MkdirAll(target, 0755))

	roster := filepath.Join(tmp, "roster.xlsx")
	writeRoster(t, roster, [][]string{
		{rosterHeader},
		{"a@x.com"},
	})

	v := &Verifier{Log: testLogger(), Out: io.Discard}
	_, err := v.Verify(roster, target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "协议号")
}

func TestVerifyMissingInputs(t *testing.T) {
	tmp := t.TempDir()
	v := &Verifier{Log: testLogger(), Out: io.Discard}

	_, err := v.Verify(filepath.Join(tmp, "missing.xlsx"), tmp)
	require.Error(t, err)

	roster := filepath.Join(tmp, "roster.xlsx")
	writeRoster(t, roster, [][]string{rosterColumns})
	_, err = v.Verify(roster, filepath.Join(tmp, "no-such-dir"))
	require.Error(t, err)
}

func TestVerifyDuplicateMatchesAreKept(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "target")
	// one file whose name embeds both agreement ids
	touchFiles(t, filepath.Join(target, "a@x.com"), "MU_110001_110002.xlsx")

	roster := filepath.Join(tmp, "roster.xlsx")
	writeRoster(t, roster, [][]string{
		rosterColumns,
		{"a@x.com", "110001", "", ""},
		{"a@x.com", "110002", "", ""},
	})

	v := &Verifier{Log: testLogger(), Out: io.Discard}
	results, err := v.Verify(roster, target)
	require.NoError(t, err)

	// both rows match the same file and neither is deduplicated
	g := results.Get("a@x.com").Groups()[0]
	assert.Len(t, g.MatchedFiles, 2)
}

func TestVerifyIdempotent(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "target")
	touchFiles(t, filepath.Join(target, "a@x.com"), "MU_110001.xlsx")
	touchFiles(t, filepath.Join(target, "b@x.com"), "CA_220001.xlsx", "CA_220002.xlsx")

	roster := filepath.Join(tmp, "roster.xlsx")
	writeRoster(t, roster, [][]string{
		rosterColumns,
		{"a@x.com", "110001", "cc@x.com", ""},
		{"b@x.com", "220001", "", "是"},
		{"b@x.com", "220002", "", "是"},
	})

	v := &Verifier{Log: testLogger(), Out: io.Discard}
	first, err := v.Verify(roster, target)
	require.NoError(t, err)
	second, err := v.Verify(roster, target)
	require.NoError(t, err)

	require.Equal(t, first.Len(), second.Len())
	for i, result := range first.Recipients() {
		other := second.Recipients()[i]
		require.Equal(t, result.Email, other.Email)
		firstGroups := result.Groups()
		secondGroups := other.Groups()
		require.Len(t, secondGroups, len(firstGroups))
		for j, g := range firstGroups {
			assert.Equal(t, g.Key, secondGroups[j].Key)
			assert.Equal(t, g.MatchedFiles, secondGroups[j].MatchedFiles)
		}
	}
}
