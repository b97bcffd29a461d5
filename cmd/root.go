package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/chris17453/goodreads-pdf/cmd/generate"
	"github.com/chris17453/goodreads-pdf/internal/config"
	"github.com/lepinkainen/humanlog"
	"github.com/spf13/viper"
)

var (
	generateReport = generate.GenerateWithParams
	fetchExport    = generate.AutomateExport
)

// CLI represents the complete command structure for the goodreads-pdf application
type CLI struct {
	// Global flags
	UpdateCovers bool   `help:"Re-download cover images even if they already exist"`
	CoverDir     string `help:"Directory where cover images are cached" default:"book_covers"`

	Generate GenerateCmd `cmd:"" default:"withargs" help:"Build the illustrated PDF reading report from a library export CSV"`
	Fetch    FetchCmd    `cmd:"" help:"Download a fresh library export from Goodreads via browser automation"`
}

// GenerateCmd represents the report generation command
type GenerateCmd struct {
	Input         string `short:"f" help:"Path to Goodreads library export CSV file"`
	Output        string `short:"o" help:"Path to the PDF report to write" default:"goodreads_reading_report.pdf"`
	MinYear       int    `help:"Oldest publication year shown as its own section" default:"2000"`
	MissingReport string `help:"Path to the missing-covers report" default:"missing_books_report.txt"`
}

// FetchCmd represents the automated export download command
type FetchCmd struct {
	Email     string        `help:"Goodreads account email"`
	Password  string        `help:"Goodreads account password"`
	OutputDir string        `short:"o" help:"Directory to save the export CSV into" default:"exports"`
	Headless  bool          `help:"Run the browser headless" default:"true" negatable:""`
	Timeout   time.Duration `help:"How long to wait for the export" default:"5m"`
}

// Execute runs the Kong-based CLI
func Execute() {
	initLogging()
	initConfig()

	var cli CLI

	ctx := kong.Parse(&cli,
		kong.Name("goodreads-pdf"),
		kong.Description("Turn a Goodreads library export into an illustrated PDF reading report."),
		kong.UsageOnError(),
	)

	updateGlobalConfig(&cli)

	if err := ctx.Run(); err != nil {
		slog.Error("Command failed", "error", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetDefault("covers.dir", "book_covers")
	viper.SetDefault("covers.broken_size", 631)
	viper.SetDefault("report.missing_file", "missing_books_report.txt")
	viper.SetDefault("report.min_year", 2000)

	viper.AutomaticEnv()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Debug("Config file not found, using defaults")
		} else {
			slog.Error("Fatal error config file", "error", err)
			os.Exit(1)
		}
	}

	config.InitConfig()
}

func updateGlobalConfig(cli *CLI) {
	config.SetUpdateCovers(cli.UpdateCovers)

	viper.Set("covers.dir", cli.CoverDir)
	config.InitConfig()
}

func (g *GenerateCmd) Run() error {
	// Read from config if value not provided via flag
	input := g.Input
	if input == "" {
		input = viper.GetString("goodreads.csvfile")
	}

	if input == "" {
		return fmt.Errorf("input CSV file is required (provide via --input flag or goodreads.csvfile in config)")
	}

	return generateReport(generate.Params{
		CSVFile:       input,
		OutputFile:    g.Output,
		CoverDir:      config.CoverDir,
		MissingReport: g.MissingReport,
		MinYear:       g.MinYear,
		BrokenSize:    config.BrokenImageSize,
		UpdateCovers:  config.UpdateCovers,
	})
}

func (f *FetchCmd) Run() error {
	email := f.Email
	if email == "" {
		email = viper.GetString("goodreads.email")
	}

	password := f.Password
	if password == "" {
		password = viper.GetString("goodreads.password")
	}

	if email == "" || password == "" {
		return fmt.Errorf("goodreads credentials are required (provide via flags or goodreads.email/goodreads.password in config)")
	}

	path, err := fetchExport(context.Background(), generate.ExportOptions{
		Email:       email,
		Password:    password,
		DownloadDir: f.OutputDir,
		Headless:    f.Headless,
		Timeout:     f.Timeout,
	})
	if err != nil {
		return err
	}

	slog.Info("Export ready", "path", path)
	return nil
}

func initLogging() {
	// Create a human-readable handler for logging
	handler := humanlog.NewHandler(os.Stdout, &humanlog.Options{
		Level: slog.LevelInfo,
	})

	// Set the default logger
	slog.SetDefault(slog.New(handler))
}
