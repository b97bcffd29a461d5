package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
)

const (
	exportPollInterval   = 3 * time.Second
	downloadPollInterval = 2 * time.Second
	exportFileName       = "goodreads_library_export.csv"

	defaultExportTimeout = 5 * time.Minute
)

// Swappable for tests.
var (
	chromedpExecAllocator = chromedp.NewExecAllocator
	chromedpContext       = chromedp.NewContext
	chromedpRunner        = chromedp.Run
)

// ExportOptions configures the automated Goodreads export download.
type ExportOptions struct {
	Email       string
	Password    string
	DownloadDir string
	Headless    bool
	Timeout     time.Duration
}

// AutomateExport drives a browser through the Goodreads export flow: sign in,
// request the export, wait for the link and download the CSV. Returns the
// final path of the export file.
func AutomateExport(parentCtx context.Context, opts ExportOptions) (string, error) {
	if opts.Email == "" || opts.Password == "" {
		return "", errors.New("goodreads automation requires both email and password")
	}

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = defaultExportTimeout
	}

	ctx, cancel := context.WithTimeout(parentCtx, timeout)
	defer cancel()

	downloadDir, cleanup, err := prepareDownloadDir(opts.DownloadDir)
	if err != nil {
		return "", err
	}
	defer func() {
		if cleanup != nil {
			cleanup()
		}
	}()

	allocCtx, cancelAllocator := chromedpExecAllocator(ctx, execAllocatorOptions(opts)...)
	defer cancelAllocator()

	browserCtx, cancelBrowser := chromedpContext(allocCtx)
	defer cancelBrowser()

	behavior := browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllow).
		WithDownloadPath(downloadDir).
		WithEventsEnabled(true)
	if err := chromedpRunner(browserCtx, behavior); err != nil {
		return "", fmt.Errorf("failed to configure download directory: %w", err)
	}

	if err := signIn(browserCtx, opts); err != nil {
		return "", err
	}

	if err := triggerExport(browserCtx); err != nil {
		return "", err
	}

	exportLink, err := waitForExportLink(browserCtx)
	if err != nil {
		return "", err
	}

	if err := chromedpRunner(browserCtx, chromedp.Navigate(exportLink)); err != nil {
		return "", fmt.Errorf("failed to start export download: %w", err)
	}

	csvPath, err := waitForDownload(browserCtx, downloadDir)
	if err != nil {
		return "", err
	}

	finalPath, err := moveDownloadedCSV(csvPath, opts.DownloadDir)
	if err != nil {
		return "", err
	}

	slog.Info("Goodreads export downloaded", "path", finalPath)
	return finalPath, nil
}

func execAllocatorOptions(opts ExportOptions) []chromedp.ExecAllocatorOption {
	return []chromedp.ExecAllocatorOption{
		chromedp.NoDefaultBrowserCheck,
		chromedp.NoFirstRun,
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("mute-audio", true),
	}
}

func prepareDownloadDir(path string) (string, func(), error) {
	if path != "" {
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", nil, fmt.Errorf("failed to create download directory: %w", err)
		}
		return filepath.Clean(path), nil, nil
	}

	tmpDir, err := os.MkdirTemp("", "goodreads-pdf-export-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create temporary download directory: %w", err)
	}

	return tmpDir, func() { _ = os.RemoveAll(tmpDir) }, nil
}

func signIn(ctx context.Context, opts ExportOptions) error {
	slog.Info("Logging in to Goodreads", "email", opts.Email)

	tasks := chromedp.Tasks{
		chromedp.Navigate("https://www.goodreads.com/user/sign_in"),
		// The email/password form hides behind the SSO buttons
		chromedp.WaitVisible(`//button[contains(., "Sign in with email")]`, chromedp.BySearch),
		chromedp.Click(`//button[contains(., "Sign in with email")]`, chromedp.BySearch),
		chromedp.WaitVisible(`input[name="email"]`, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="email"]`, opts.Email, chromedp.ByQuery),
		chromedp.SendKeys(`input[name="password"]`, opts.Password, chromedp.ByQuery),
		chromedp.Click(`//button[@type="submit" or contains(., "Sign in")] | //input[@type="submit" and (@name="signIn" or @id="signInSubmit")]`, chromedp.BySearch),
		chromedp.WaitVisible(`.siteHeader__topLevelItem--profile`, chromedp.ByQuery),
	}

	if err := chromedpRunner(ctx, tasks...); err != nil {
		return fmt.Errorf("failed to log in to Goodreads: %w", err)
	}

	return nil
}

func triggerExport(ctx context.Context) error {
	slog.Info("Requesting Goodreads export")

	tasks := chromedp.Tasks{
		chromedp.Navigate("https://www.goodreads.com/review/import"),
		chromedp.WaitVisible(`//input[@value='Export Library']`, chromedp.BySearch),
		chromedp.Click(`//input[@value='Export Library']`, chromedp.BySearch),
	}

	if err := chromedpRunner(ctx, tasks...); err != nil {
		return fmt.Errorf("failed to request Goodreads export: %w", err)
	}

	return nil
}

func waitForExportLink(ctx context.Context) (string, error) {
	start := time.Now()
	ticker := time.NewTicker(exportPollInterval)
	defer ticker.Stop()

	for {
		var exportLink string
		if err := chromedpRunner(ctx, chromedp.Evaluate(`
			(() => {
				const link = document.querySelector('a[href*="goodreads_library_export.csv"]');
				return link ? link.href : "";
			})()
		`, &exportLink)); err != nil {
			return "", fmt.Errorf("failed to check export link: %w", err)
		}

		if exportLink != "" {
			slog.Info("Found export link", "waited", time.Since(start))
			return exportLink, nil
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("timed out waiting for export link: %w", ctx.Err())
		case <-ticker.C:
		}

		if err := chromedpRunner(ctx, chromedp.Reload()); err != nil {
			slog.Debug("Failed to refresh export page", "error", err)
		}
	}
}

func waitForDownload(ctx context.Context, downloadDir string) (string, error) {
	start := time.Now()
	ticker := time.NewTicker(downloadPollInterval)
	defer ticker.Stop()

	for {
		if path, found := findDownloadedCSV(downloadDir); found {
			slog.Info("Export download completed", "path", path, "waited", time.Since(start))
			return path, nil
		}

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("timed out waiting for export download: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}

func findDownloadedCSV(downloadDir string) (string, bool) {
	entries, err := os.ReadDir(downloadDir)
	if err != nil {
		return "", false
	}

	for _, entry := range entries {
		name := entry.Name()
		if strings.Contains(name, exportFileName) && strings.HasSuffix(name, ".csv") {
			return filepath.Join(downloadDir, name), true
		}
	}

	return "", false
}

func moveDownloadedCSV(downloadedPath, requestedDir string) (string, error) {
	targetDir := requestedDir
	if targetDir == "" {
		targetDir = "exports"
	}

	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create target directory: %w", err)
	}

	targetPath := filepath.Join(targetDir, exportFileName)
	if downloadedPath == targetPath {
		return targetPath, nil
	}

	if err := os.Rename(downloadedPath, targetPath); err != nil {
		data, readErr := os.ReadFile(downloadedPath)
		if readErr != nil {
			return "", fmt.Errorf("failed to move downloaded export: %w", err)
		}
		if writeErr := os.WriteFile(targetPath, data, 0644); writeErr != nil {
			return "", fmt.Errorf("failed to copy downloaded export: %w", writeErr)
		}
		_ = os.Remove(downloadedPath)
	}

	return targetPath, nil
}
