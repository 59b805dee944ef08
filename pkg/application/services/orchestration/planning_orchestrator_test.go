package orchestration

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/plantplan/pkg/application/dto"
	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/infrastructure/events"
	"github.com/vsinha/plantplan/pkg/infrastructure/logger"
	testhelpers "github.com/vsinha/plantplan/pkg/infrastructure/testing"
)

type recordingMetrics struct {
	stages   []string
	warnings int
	policy   int
}

func (m *recordingMetrics) RecordSchedule(*dto.ScheduleResult) {}
func (m *recordingMetrics) RecordMRP(*dto.MRPResult)           {}

func (m *recordingMetrics) RecordPolicy(rows []entities.PolicyAdherence) {
	m.policy += len(rows)
}

func (m *recordingMetrics) RecordWarnings(w []entities.IntegrityWarning) {
	m.warnings += len(w)
}

func (m *recordingMetrics) ObserveStage(stage string, _ time.Duration) {
	m.stages = append(m.stages, stage)
}

func inputsFor(plant *testhelpers.Plant) Inputs {
	return Inputs{
		Demands:   plant.Demands,
		Lines:     plant.Lines,
		BOM:       plant.BOM,
		Inventory: plant.Inventory,
		Suppliers: plant.Suppliers,
	}
}

func newOrchestrator(m MetricsRecorder) *PlanningOrchestrator {
	return NewPlanningOrchestrator(Config{ChangeoverMinutes: 60, UsageWindowDays: 7}, m, logger.NopLogger{})
}

func TestRunCompletePlanning(t *testing.T) {
	metrics := &recordingMetrics{}
	po := newOrchestrator(metrics)

	result, err := po.RunCompletePlanning(context.Background(), "run-1", inputsFor(testhelpers.BuildBottlingPlant()))
	require.NoError(t, err)

	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, "2024-03-01", entities.FormatDate(result.PlanningStart))
	assert.Equal(t, "2024-03-02", entities.FormatDate(result.PlanningEnd))

	require.NotNil(t, result.Schedule)
	require.NotNil(t, result.MRP)
	assert.Len(t, result.Schedule.Assignments, 6)
	assert.Len(t, result.Policy, 7)
	assert.NotEmpty(t, result.MRP.Exceptions)

	assert.Equal(t, []string{StageSchedule, StageMRP, StagePolicy}, metrics.stages)
	assert.Equal(t, 7, metrics.policy)
	assert.Equal(t, len(result.Warnings), metrics.warnings)

	// the MRP stage consumes exactly the scheduler's plan
	var planned entities.Cases
	for _, p := range result.Schedule.Plan {
		planned += p.Quantity
	}
	assert.Equal(t, entities.Cases(2375), planned)
}

func TestRunCompletePlanning_Deterministic(t *testing.T) {
	first, err := newOrchestrator(nil).RunCompletePlanning(context.Background(), "run", inputsFor(testhelpers.BuildBottlingPlant()))
	require.NoError(t, err)
	second, err := newOrchestrator(nil).RunCompletePlanning(context.Background(), "run", inputsFor(testhelpers.BuildBottlingPlant()))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunCompletePlanning_RejectsDuplicateOrders(t *testing.T) {
	plant := testhelpers.BuildBottlingPlant()
	require.NoError(t, plant.Demands.LoadDemands([]*entities.DemandRecord{
		testhelpers.MustDemand("SO-1001", "WTR-35PK", "2024-03-01", 10, 1),
	}))

	_, err := newOrchestrator(nil).RunCompletePlanning(context.Background(), "run", inputsFor(plant))
	require.Error(t, err)
	assert.True(t, errors.Is(err, entities.ErrMalformedInput))
}

func TestRunStagesIndependently(t *testing.T) {
	po := newOrchestrator(nil)
	ctx := context.Background()
	in := inputsFor(testhelpers.BuildBottlingPlant())

	sched, err := po.RunSchedule(ctx, "s", in)
	require.NoError(t, err)
	assert.NotNil(t, sched.Schedule)
	assert.Nil(t, sched.MRP)
	assert.Empty(t, sched.Policy)

	mrpOnly, err := po.RunMRP(ctx, "m", sched.Schedule.Plan, in)
	require.NoError(t, err)
	assert.Nil(t, mrpOnly.Schedule)
	require.NotNil(t, mrpOnly.MRP)
	assert.Equal(t, sched.PlanningStart, mrpOnly.PlanningStart)

	pol, err := po.RunPolicy(ctx, "p", in)
	require.NoError(t, err)
	assert.Len(t, pol.Policy, 7)
	assert.Nil(t, pol.Schedule)
}

func TestRunCompletePlanning_SurfacesMissingBOM(t *testing.T) {
	plant := testhelpers.BuildBottlingPlant()
	require.NoError(t, plant.Lines.LoadLines([]*entities.Line{
		testhelpers.MustLine("L9", "50", "8", "0", "WTR-NEW"),
	}))
	require.NoError(t, plant.Demands.LoadDemands([]*entities.DemandRecord{
		testhelpers.MustDemand("SO-2001", "WTR-NEW", "2024-03-01", 100, 1),
	}))

	result, err := newOrchestrator(nil).RunCompletePlanning(context.Background(), "run", inputsFor(plant))
	require.NoError(t, err)

	var found bool
	for _, w := range result.Warnings {
		if w.Kind == entities.WarningMissingBOM && w.Subject == "WTR-NEW" {
			found = true
		}
	}
	assert.True(t, found)
	for i := 1; i < len(result.Warnings); i++ {
		assert.LessOrEqual(t, result.Warnings[i-1].Kind, result.Warnings[i].Kind)
	}
}

func TestRunCompletePlanning_JournalsEvents(t *testing.T) {
	store := events.NewMemoryJournal()
	po := newOrchestrator(nil)
	po.SetJournal(store)

	result, err := po.RunCompletePlanning(context.Background(), "run-ev", inputsFor(testhelpers.BuildBottlingPlant()))
	require.NoError(t, err)

	journal, err := store.Stream("run-ev", 0)
	require.NoError(t, err)

	breaches := 0
	for _, p := range result.Policy {
		if p.Flag == entities.PolicyUnder {
			breaches++
		}
	}
	counts := make(map[string]int)
	for i, e := range journal {
		assert.Equal(t, i+1, e.Version())
		counts[e.Type()]++
	}
	assert.Equal(t, len(result.Schedule.Unmet), counts[events.DemandUnmetEvent])
	assert.Equal(t, 3, counts[events.DemandUnmetEvent])
	assert.Equal(t, len(result.MRP.Exceptions), counts[events.MaterialShortageEvent])
	assert.Equal(t, breaches, counts[events.PolicyBreachEvent])

	last := journal[len(journal)-1]
	require.Equal(t, events.RunCompletedEvent, last.Type())
	done, ok := last.Data().(events.RunCompleted)
	require.True(t, ok)
	assert.Equal(t, entities.Cases(2375), done.AssignedCases)
	assert.Equal(t, entities.Cases(1025), done.UnmetCases)
	assert.Equal(t, len(result.MRP.Exceptions), done.Shortages)
}
