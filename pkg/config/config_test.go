package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, "plantplan.yaml", `input:
  dir: "fixtures"
  orders: "open_orders.csv"
output:
  dir: "reports"
  formats: ["csv", "yaml"]
  no_charts: true
  sqlite: "reports/plan.db"
planning:
  changeover_minutes: 45
  usage_window_days: 14
metrics:
  textfile: "reports/plantplan.prom"
logging:
  level: "debug"
  format: "console"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	checks := []struct {
		name string
		got  any
		want any
	}{
		{"input.dir", cfg.Input.Dir, "fixtures"},
		{"input.orders", cfg.Input.Orders, "open_orders.csv"},
		{"input.lines default", cfg.Input.Lines, "lines.csv"},
		{"output.dir", cfg.Output.Dir, "reports"},
		{"output.no_charts", cfg.Output.NoCharts, true},
		{"output.sqlite", cfg.Output.SQLite, "reports/plan.db"},
		{"planning.changeover_minutes", cfg.Planning.ChangeoverMinutes, 45},
		{"planning.usage_window_days", cfg.Planning.UsageWindowDays, 14},
		{"metrics.textfile", cfg.Metrics.Textfile, "reports/plantplan.prom"},
		{"logging.level", cfg.Logging.Level, "debug"},
		{"logging.format", cfg.Logging.Format, "console"},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}
	assert.Equal(t, []string{"csv", "yaml"}, cfg.Output.Formats)
	assert.Equal(t, filepath.Join("fixtures", "open_orders.csv"), cfg.Input.Path(cfg.Input.Orders))
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.Input.Dir)
	assert.Equal(t, "bom.csv", cfg.Input.BOM)
	assert.Equal(t, "out", cfg.Output.Dir)
	assert.Equal(t, []string{"csv", "json", "text"}, cfg.Output.Formats)
	assert.Equal(t, DefaultChangeoverMinutes, cfg.Planning.ChangeoverMinutes)
	assert.Equal(t, DefaultUsageWindowDays, cfg.Planning.UsageWindowDays)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Output.Wants(FormatText))
	assert.False(t, cfg.Output.Wants(FormatYAML))
}

func TestLoad_JSONWithZeroChangeover(t *testing.T) {
	path := writeConfig(t, "plantplan.json", `{"planning": {"changeover_minutes": 0}}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Planning.ChangeoverMinutes)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	path := writeConfig(t, "plantplan.yaml", "planning:\n  changeover_minutes: 30\n")
	t.Setenv("PLANTPLAN_PLANNING__CHANGEOVER_MINUTES", "90")
	t.Setenv("PLANTPLAN_OUTPUT__FORMATS", "csv,json")
	t.Setenv("PLANTPLAN_OUTPUT__DIR", "env-out")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 90, cfg.Planning.ChangeoverMinutes)
	assert.Equal(t, []string{"csv", "json"}, cfg.Output.Formats)
	assert.Equal(t, "env-out", cfg.Output.Dir)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		file string
		data string
	}{
		{"unsupported extension", "plantplan.toml", "x = 1"},
		{"negative changeover", "plantplan.yaml", "planning:\n  changeover_minutes: -5\n"},
		{"unknown format", "plantplan.yaml", "output:\n  formats: [xlsx]\n"},
		{"unknown log level", "plantplan.yaml", "logging:\n  level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.file, tt.data))
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
