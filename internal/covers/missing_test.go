package covers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chris17453/goodreads-pdf/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMissingReportWriteFile(t *testing.T) {
	report := &MissingReport{}
	report.Add("Lost Book", 42, "9780000000001")
	report.Add("No Identifier", 43, "")

	path := testutil.NewTestEnv(t).Path("missing.txt")
	require.NoError(t, report.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	expected := "Books without found covers:\n\n" +
		"Title: Lost Book, Book ID: 42, ISBN: 9780000000001\n" +
		"Title: No Identifier, Book ID: 43, ISBN: N/A\n"
	assert.Equal(t, expected, string(data))
}

func TestMissingReportEmpty(t *testing.T) {
	report := &MissingReport{}

	path := filepath.Join(t.TempDir(), "missing.txt")
	require.NoError(t, report.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Books without found covers:\n\n", string(data))
	assert.Empty(t, report.Entries())
}
