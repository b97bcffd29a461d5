package generate

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAutomateExportRequiresCredentials(t *testing.T) {
	_, err := AutomateExport(context.Background(), ExportOptions{Email: "user@example.com"})
	require.Error(t, err)

	_, err = AutomateExport(context.Background(), ExportOptions{Password: "secret"})
	require.Error(t, err)
}

func TestPrepareDownloadDirCreatesTemp(t *testing.T) {
	dir, cleanup, err := prepareDownloadDir("")
	require.NoError(t, err)
	require.DirExists(t, dir)
	require.NotNil(t, cleanup)

	cleanup()

	_, statErr := os.Stat(dir)
	require.Error(t, statErr)
	require.True(t, os.IsNotExist(statErr))
}

func TestPrepareDownloadDirUsesRequestedPath(t *testing.T) {
	tempDir := t.TempDir()
	requested := filepath.Join(tempDir, "downloads")

	dir, cleanup, err := prepareDownloadDir(requested)
	require.NoError(t, err)
	require.Equal(t, requested, dir)
	require.DirExists(t, dir)
	require.Nil(t, cleanup)
}

func TestMoveDownloadedCSVToCustomDir(t *testing.T) {
	tempDir := t.TempDir()
	source := filepath.Join(tempDir, "original.csv")
	require.NoError(t, os.WriteFile(source, []byte("data"), 0o644))

	targetDir := filepath.Join(tempDir, "target")
	targetPath, err := moveDownloadedCSV(source, targetDir)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(targetDir, exportFileName), targetPath)
	require.FileExists(t, targetPath)

	_, err = os.Stat(source)
	require.True(t, os.IsNotExist(err))
}

func TestWaitForDownloadFindsExistingFile(t *testing.T) {
	tempDir := t.TempDir()
	target := filepath.Join(tempDir, exportFileName)
	require.NoError(t, os.WriteFile(target, []byte("ok"), 0o644))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	path, err := waitForDownload(ctx, tempDir)
	require.NoError(t, err)
	require.Equal(t, target, path)
}

func TestWaitForDownloadTimesOut(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := waitForDownload(ctx, t.TempDir())
	require.Error(t, err)
}

func TestFindDownloadedCSVSkipsPartialFiles(t *testing.T) {
	tempDir := t.TempDir()
	partial := filepath.Join(tempDir, exportFileName+".crdownload")
	require.NoError(t, os.WriteFile(partial, []byte("incomplete"), 0o644))

	_, found := findDownloadedCSV(tempDir)
	require.False(t, found)
}
