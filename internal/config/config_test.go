package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestInitConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	InitConfig()

	assert.Equal(t, "book_covers", CoverDir)
	assert.Equal(t, int64(631), BrokenImageSize)
	assert.Equal(t, "missing_books_report.txt", MissingReportFile)
	assert.Equal(t, 2000, MinCohortYear)
}

func TestInitConfigOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("covers.dir", "/tmp/covers")
	viper.Set("covers.broken_size", 1024)
	viper.Set("report.min_year", 1990)

	InitConfig()

	assert.Equal(t, "/tmp/covers", CoverDir)
	assert.Equal(t, int64(1024), BrokenImageSize)
	assert.Equal(t, 1990, MinCohortYear)
}

func TestSetUpdateCovers(t *testing.T) {
	t.Cleanup(func() { UpdateCovers = false })

	SetUpdateCovers(true)
	assert.True(t, UpdateCovers)
}
