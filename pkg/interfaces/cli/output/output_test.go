package output

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/plantplan/pkg/application/dto"
	"github.com/vsinha/plantplan/pkg/application/services/orchestration"
	"github.com/vsinha/plantplan/pkg/infrastructure/logger"
	testhelpers "github.com/vsinha/plantplan/pkg/infrastructure/testing"
)

func plantResult(t *testing.T) *dto.PlanningResult {
	t.Helper()
	plant := testhelpers.BuildBottlingPlant()
	po := orchestration.NewPlanningOrchestrator(
		orchestration.Config{ChangeoverMinutes: 60, UsageWindowDays: 7},
		orchestration.NopMetrics{}, logger.NopLogger{})
	result, err := po.RunCompletePlanning(context.Background(), "run-test", orchestration.Inputs{
		Demands:   plant.Demands,
		Lines:     plant.Lines,
		BOM:       plant.BOM,
		Inventory: plant.Inventory,
		Suppliers: plant.Suppliers,
	})
	require.NoError(t, err)
	return result
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return records
}

func TestGenerate_AllFormats(t *testing.T) {
	result := plantResult(t)
	dir := t.TempDir()
	var stdout bytes.Buffer

	written, err := Generate(result, Config{
		OutputDir: dir,
		Formats:   []string{"csv", "json", "yaml", "text"},
		Charts:    true,
		Stdout:    &stdout,
	})
	require.NoError(t, err)

	for _, name := range []string{
		ScheduleFile, PlanFile, UnmetFile, LineLoadFile, RequirementsFile, ExceptionsFile,
		LedgerFile, IntegrityFile, PolicyFile, "summary.json", "summary.yaml",
		filepath.Join(ChartsDir, LineLoadChart), filepath.Join(ChartsDir, OTIFRiskChart),
	} {
		assert.Contains(t, written, filepath.Join(dir, name))
		assert.FileExists(t, filepath.Join(dir, name))
	}

	schedule := readCSV(t, filepath.Join(dir, ScheduleFile))
	require.Len(t, schedule, 7)
	assert.Equal(t, []string{"line", "sku", "date", "order_id", "quantity", "unmet_quantity",
		"changeover_minutes", "capacity_flag"}, schedule[0])

	plan := readCSV(t, filepath.Join(dir, PlanFile))
	require.Len(t, plan, 6)
	assert.Equal(t, []string{"WTR-1L-12PK", "2024-03-01", "700"}, plan[1])

	text := stdout.String()
	assert.Contains(t, text, "Material shortages")
	assert.Contains(t, text, "CAP-28MM")
	assert.Contains(t, text, "Unmet demand")
}

func TestGenerate_ByteIdenticalTables(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	cfg := Config{Formats: []string{"csv"}}

	cfg.OutputDir = first
	_, err := Generate(plantResult(t), cfg)
	require.NoError(t, err)
	cfg.OutputDir = second
	_, err = Generate(plantResult(t), cfg)
	require.NoError(t, err)

	entries, err := os.ReadDir(first)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	for _, e := range entries {
		a, err := os.ReadFile(filepath.Join(first, e.Name()))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second, e.Name()))
		require.NoError(t, err)
		assert.Equal(t, string(a), string(b), e.Name())
	}
}

func TestGenerate_PolicyOnly(t *testing.T) {
	full := plantResult(t)
	result := &dto.PlanningResult{RunID: "policy", Policy: full.Policy}
	dir := t.TempDir()

	_, err := Generate(result, Config{OutputDir: dir, Formats: []string{"csv"}, Charts: true})
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(dir, PolicyFile))
	assert.FileExists(t, filepath.Join(dir, IntegrityFile))
	assert.NoFileExists(t, filepath.Join(dir, ScheduleFile))
	assert.NoDirExists(t, filepath.Join(dir, ChartsDir))

	integrity := readCSV(t, filepath.Join(dir, IntegrityFile))
	assert.Len(t, integrity, 1, "header only")
}

func TestSummarize(t *testing.T) {
	s := Summarize(plantResult(t))

	assert.Equal(t, "run-test", s.RunID)
	assert.Equal(t, "2024-03-01", s.PlanningStart)
	assert.Equal(t, "2024-03-02", s.PlanningEnd)

	require.NotNil(t, s.Demand)
	assert.Equal(t, 6, s.Demand.Records)
	assert.Equal(t, int64(3400), s.Demand.DemandCases)
	assert.Equal(t, int64(2375), s.Demand.AssignedCases)
	assert.Equal(t, int64(1025), s.Demand.UnmetCases)
	assert.Equal(t, "69.9", s.Demand.FillRatePct)

	require.NotNil(t, s.MRP)
	assert.Positive(t, s.MRP.Shortages)
	assert.Equal(t, s.MRP.Shortages, s.MRP.ByAction["expedite"]+s.MRP.ByAction["substitute"]+s.MRP.ByAction["re-sequence"])

	total := 0
	for _, n := range s.Policy {
		total += n
	}
	assert.Equal(t, 7, total)
}

func TestSummary_WriteYAML(t *testing.T) {
	dir := t.TempDir()
	path, err := Summarize(plantResult(t)).WriteYAML(dir)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var decoded Summary
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	assert.Equal(t, "run-test", decoded.RunID)
	require.NotNil(t, decoded.Demand)
	assert.Equal(t, int64(1025), decoded.Demand.UnmetCases)
}

func TestCharts(t *testing.T) {
	result := plantResult(t)

	t.Run("line load", func(t *testing.T) {
		svg := LineLoadSVG(result.Schedule)
		assert.True(t, strings.HasPrefix(svg, "<svg"))
		assert.Contains(t, svg, ">L1<")
		assert.Contains(t, svg, ">L2<")
		assert.Contains(t, svg, "2024-03-02")
	})

	t.Run("otif risk", func(t *testing.T) {
		svg := OTIFRiskSVG(result.Schedule)
		assert.Contains(t, svg, "WTR-500ML-24PK")
		assert.Equal(t, svg, OTIFRiskSVG(result.Schedule))
	})

	t.Run("empty", func(t *testing.T) {
		svg := OTIFRiskSVG(&dto.ScheduleResult{})
		assert.Contains(t, svg, "nothing to plot")
	})
}

func TestPolicyTable_Status(t *testing.T) {
	table := PolicyTable(plantResult(t).Policy)
	require.Len(t, table.Rows, 7)
	for _, row := range table.Rows {
		if row[0] == "WTR-35PK" {
			assert.Equal(t, "under_policy", row[7])
			assert.Equal(t, "RED", row[8])
			assert.Equal(t, "300", row[9])
		}
	}
}
