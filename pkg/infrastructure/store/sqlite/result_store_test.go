package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/plantplan/pkg/application/dto"
	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/infrastructure/events"
	testhelpers "github.com/vsinha/plantplan/pkg/infrastructure/testing"
)

func TestResultStore_SaveRun(t *testing.T) {
	store, err := NewResultStore(filepath.Join(t.TempDir(), "plan.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	day := testhelpers.MustDate("2024-03-01")
	res := &dto.PlanningResult{
		RunID:         "run-1",
		PlanningStart: day,
		PlanningEnd:   day,
		Schedule: &dto.ScheduleResult{
			Assignments: []entities.ScheduleAssignment{
				{Line: "L1", SKU: "SKU-A", Date: day, OrderID: "SO-1", Quantity: 1000, UnmetQuantity: 200, CapacityFlag: entities.FlagCapacityExceeded},
			},
			Plan: []entities.PlannedProduction{{SKU: "SKU-A", Date: day, Quantity: 1000}},
		},
		MRP: &dto.MRPResult{
			Requirements: []entities.MaterialRequirement{
				{Material: "CAP", Date: day, RequiredQty: decimal.NewFromInt(80), AvailableQty: decimal.NewFromInt(50),
					NetShortage: decimal.NewFromInt(30), ClosingBalance: decimal.NewFromInt(-30)},
			},
			Exceptions: []entities.ExceptionRecord{
				{Material: "CAP", Date: day, ShortageQty: decimal.NewFromInt(30), Action: entities.ActionResequence,
					AffectedSKUs: []entities.SKU{"SKU-A"}},
			},
		},
		Policy: []entities.PolicyAdherence{{Key: "SKU-A", Flag: entities.PolicyNoUse, DOSInfinite: true}},
		Warnings: []entities.IntegrityWarning{
			{Kind: entities.WarningNoSupplierRecord, Subject: "CAP", Quantity: decimal.NewFromInt(80)},
		},
	}

	ctx := context.Background()
	require.NoError(t, store.SaveRun(ctx, res))

	sum, err := store.Run(ctx, "run-1")
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Assignments)
	assert.Equal(t, int64(200), sum.UnmetCases)
	assert.Equal(t, 1, sum.Shortages)
	assert.Equal(t, 1, sum.Warnings)

	for table, want := range map[string]int{
		"schedule":                   1,
		"plan_by_sku_day":            1,
		"mrp_requirements":           1,
		"mrp_exceptions":             1,
		"inventory_policy_adherence": 1,
		"data_integrity":             1,
	} {
		n, err := store.CountRows(ctx, table, "run-1")
		require.NoError(t, err)
		assert.Equal(t, want, n, table)
	}

	// run ids are unique
	assert.Error(t, store.SaveRun(ctx, res))

	_, err = store.CountRows(ctx, "plan_runs; DROP TABLE schedule", "run-1")
	assert.Error(t, err)
	_, err = store.Run(ctx, "missing")
	assert.Error(t, err)
}

func TestResultStore_SaveEvents(t *testing.T) {
	store, err := NewResultStore(filepath.Join(t.TempDir(), "plan.db"))
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	journal := events.NewMemoryJournal()
	require.NoError(t, journal.Append("run-1", events.New(events.MaterialShortageEvent, "run-1",
		events.MaterialShortage{Exception: entities.ExceptionRecord{Material: "CAP", ShortageQty: decimal.NewFromInt(30)}})))
	require.NoError(t, journal.Append("run-1", events.New(events.RunCompletedEvent, "run-1",
		events.RunCompleted{Shortages: 1})))
	recorded, err := journal.Stream("run-1", 0)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, store.SaveEvents(ctx, "run-1", recorded))

	n, err := store.CountRows(ctx, "plan_events", "run-1")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// versions are unique within a run
	assert.Error(t, store.SaveEvents(ctx, "run-1", recorded))
}
