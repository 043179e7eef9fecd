package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/de-tools/mortality-atlas/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, DefaultPageURL, cfg.Source.PageURL)
	assert.Equal(t, 10*time.Second, cfg.Source.Timeout)
	assert.Equal(t, []string{"excess", "weekly deaths data"}, cfg.Locator.Phrases)
	assert.True(t, cfg.Locator.Strict)
	assert.Equal(t, 1, cfg.Extract.SheetIndex)
	assert.Equal(t, 1, cfg.Extract.CountColumn)
	assert.False(t, cfg.Extract.KeepLabels)
	assert.Equal(t, "mortality_data.json", cfg.Output.Path)
	assert.Nil(t, cfg.BaselineRecords())
}

func TestLoadConfig_ValidYAML_PopulatesAllFields(t *testing.T) {
	// Given
	// No indentation at the top level to keep the YAML valid
	path := writeFile(t, "mortality.yaml", `source:
  page_url: "https://example.org/reports"
  timeout: 3s
locator:
  phrases: ["deaths workbook"]
  strict: false
extract:
  sheet_index: 0
  count_column: 3
  count_header: "Reported"
  keep_labels: true
baseline:
  - label: "Week 1"
    deaths: 100
  - label: "Week 2"
    deaths: 120
output:
  path: "/tmp/out.json"
  s3:
    bucket: "dashboard"
log:
  level: debug
  format: console`)

	// When
	cfg, err := LoadConfig(path)

	// Then
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/reports", cfg.Source.PageURL)
	assert.Equal(t, 3*time.Second, cfg.Source.Timeout)
	assert.Equal(t, []string{"deaths workbook"}, cfg.LocatorOptions().Phrases)
	assert.False(t, cfg.LocatorOptions().Strict)
	assert.Equal(t, 0, cfg.ExtractOptions().SheetIndex)
	assert.Equal(t, 3, cfg.ExtractOptions().CountColumn)
	assert.Equal(t, "Reported", cfg.ExtractOptions().CountHeader)
	assert.True(t, cfg.ExtractOptions().KeepLabels)
	assert.Equal(t, []domain.WeeklyRecord{
		{Label: "Week 1", TotalDeaths: 100},
		{Label: "Week 2", TotalDeaths: 120},
	}, cfg.BaselineRecords())
	assert.Equal(t, "dashboard", cfg.S3Settings().Bucket)
	assert.Equal(t, "mortality_data.json", cfg.S3Settings().Key)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 3*time.Second, cfg.ClientSettings().Timeout)
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	t.Setenv("MORTALITY_SOURCE_PAGE_URL", "https://mirror.example.org/weekly")
	t.Setenv("MORTALITY_LOCATOR_PHRASES", "excess,weekly deaths")
	t.Setenv("MORTALITY_OUTPUT_PATH", "snapshots/latest.json")

	cfg, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "https://mirror.example.org/weekly", cfg.Source.PageURL)
	assert.Equal(t, []string{"excess", "weekly deaths"}, cfg.Locator.Phrases)
	assert.Equal(t, "snapshots/latest.json", cfg.Output.Path)
}

func TestLoadConfig_InvalidYAML_ReturnsError(t *testing.T) {
	path := writeFile(t, "bad.yaml", "source: page_url: bad: yaml")

	_, err := LoadConfig(path)

	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoadConfig_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errMsg  string
	}{
		{
			name:    "page url",
			content: "source:\n  page_url: \"not a url\"",
			errMsg:  "Config.Source.PageURL",
		},
		{
			name:    "same label and count column",
			content: "extract:\n  label_column: 1\n  count_column: 1",
			errMsg:  "Config.Extract.CountColumn",
		},
		{
			name:    "negative baseline",
			content: "baseline:\n  - label: \"Week 1\"\n    deaths: -5",
			errMsg:  "Config.Baseline[0].Deaths",
		},
		{
			name:    "log format",
			content: "log:\n  format: xml",
			errMsg:  "Config.Log.Format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeFile(t, "cfg.yaml", tt.content))

			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid config")
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestConfig_LoadRatios_DefaultsWithoutFile(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)

	ratios, err := cfg.LoadRatios()

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultRatios(), ratios)
}

func TestConfig_LoadRatios_FromFile(t *testing.T) {
	ratiosPath := writeFile(t, "ratios.ini", `[cause]
natural = 0.9
unnatural = 0.1
`)
	cfg, err := LoadConfig(writeFile(t, "cfg.yaml", "ratios:\n  file: "+ratiosPath))
	require.NoError(t, err)

	ratios, err := cfg.LoadRatios()

	require.NoError(t, err)
	assert.Equal(t, 0.9, ratios.Cause[domain.CauseNatural])
	assert.Equal(t, domain.DefaultRatios().Provinces, ratios.Provinces)
}
