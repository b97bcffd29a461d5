package generate

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedCover writes a valid cached cover so the resolver never goes remote.
func seedCover(t *testing.T, coverDir string, bookID int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(coverDir, 0o755))
	img := imaging.New(400, 600, color.NRGBA{R: 120, G: 80, B: 200, A: 255})
	path := filepath.Join(coverDir, fmt.Sprintf("cover_%d.jpg", bookID))
	require.NoError(t, imaging.Save(img, path))
}

func TestGenerateWithParams(t *testing.T) {
	tempDir := t.TempDir()
	coverDir := filepath.Join(tempDir, "covers")
	seedCover(t, coverDir, 123)
	seedCover(t, coverDir, 456)

	csvPath := writeExportCSV(t,
		exportRow("123", "Project Hail Mary", "Andy Weir", "", excelISBN("9780593135204"), "476", "2021", "2021", "2021/06/15"),
		exportRow("456", "Dune", "Frank Herbert", "", excelISBN("9780441013593"), "412", "2005", "1965", ""),
	)

	params := Params{
		CSVFile:       csvPath,
		OutputFile:    filepath.Join(tempDir, "report.pdf"),
		CoverDir:      coverDir,
		MissingReport: filepath.Join(tempDir, "missing.txt"),
		MinYear:       2000,
		BrokenSize:    631,
	}

	require.NoError(t, GenerateWithParams(params))

	info, err := os.Stat(params.OutputFile)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	data, err := os.ReadFile(params.MissingReport)
	require.NoError(t, err)
	assert.Equal(t, "Books without found covers:\n\n", string(data),
		"cached covers leave the missing report empty")
}

func TestGenerateWithParamsNoBooksInRange(t *testing.T) {
	csvPath := writeExportCSV(t,
		exportRow("1", "Old Book", "Somebody", "", "", "100", "1950", "1950", ""),
	)

	err := GenerateWithParams(Params{
		CSVFile:       csvPath,
		OutputFile:    filepath.Join(t.TempDir(), "report.pdf"),
		CoverDir:      t.TempDir(),
		MissingReport: filepath.Join(t.TempDir(), "missing.txt"),
		MinYear:       2000,
	})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "no books"))
}

func TestGenerateWithParamsMissingCSV(t *testing.T) {
	err := GenerateWithParams(Params{
		CSVFile: filepath.Join(t.TempDir(), "absent.csv"),
		MinYear: 2000,
	})
	require.Error(t, err)
}
