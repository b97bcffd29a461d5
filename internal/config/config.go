// Package config holds the global configuration shared across the report pipeline.
package config

import (
	"github.com/spf13/viper"
)

// Global configuration variables
var (
	// CoverDir is the directory where cover images are cached
	CoverDir string
	// BrokenImageSize is the byte size of the providers' "image not found"
	// response; files of exactly this size are treated as invalid
	BrokenImageSize int64
	// MissingReportFile is the path of the missing-covers text report
	MissingReportFile string
	// MinCohortYear excludes books categorized before this year
	MinCohortYear int
	// UpdateCovers forces re-downloading covers that are already cached
	UpdateCovers bool
)

// InitConfig initializes the global configuration from viper.
func InitConfig() {
	viper.SetDefault("covers.dir", "book_covers")
	viper.SetDefault("covers.broken_size", 631)
	viper.SetDefault("report.missing_file", "missing_books_report.txt")
	viper.SetDefault("report.min_year", 2000)

	CoverDir = viper.GetString("covers.dir")
	BrokenImageSize = viper.GetInt64("covers.broken_size")
	MissingReportFile = viper.GetString("report.missing_file")
	MinCohortYear = viper.GetInt("report.min_year")
}

// SetUpdateCovers sets the UpdateCovers flag.
func SetUpdateCovers(update bool) {
	UpdateCovers = update
}
