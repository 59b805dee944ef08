package policy

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/infrastructure/logger"
	testhelpers "github.com/vsinha/plantplan/pkg/infrastructure/testing"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestEvaluatePolicy(t *testing.T) {
	tests := []struct {
		name   string
		policy *entities.InventoryPolicy
		flag   entities.PolicyFlag
		dos    string
		rec    string
	}{
		{
			name:   "empty shelf rounds up to moq",
			policy: testhelpers.MustPolicy("SKU-A", "0", "10", "5", "15", "30", "100"),
			flag:   entities.PolicyUnder,
			dos:    "0.00",
			rec:    "200",
		},
		{
			name:   "within policy tops up to target",
			policy: testhelpers.MustPolicy("SKU-A", "100", "10", "5", "15", "30", "20"),
			flag:   entities.PolicyWithin,
			dos:    "10.00",
			rec:    "60",
		},
		{
			name:   "above target recommends nothing",
			policy: testhelpers.MustPolicy("SKU-A", "200", "10", "5", "15", "30", "20"),
			flag:   entities.PolicyWithin,
			dos:    "20.00",
			rec:    "0",
		},
		{
			name:   "at max is over policy",
			policy: testhelpers.MustPolicy("SKU-A", "300", "10", "5", "15", "30", "20"),
			flag:   entities.PolicyOver,
			dos:    "30.00",
			rec:    "0",
		},
		{
			name:   "zero moq rounds to whole units",
			policy: testhelpers.MustPolicy("FILM", "10", "3", "5", "7.5", "30", "0"),
			flag:   entities.PolicyUnder,
			dos:    "3.33",
			rec:    "13",
		},
		{
			name:   "no usage",
			policy: testhelpers.MustPolicy("SKU-B", "40", "0", "5", "15", "30", "100"),
			flag:   entities.PolicyNoUse,
			dos:    "inf",
			rec:    "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row := EvaluatePolicy(tt.policy, tt.policy.AvgDailyUsage)
			assert.Equal(t, tt.flag, row.Flag)
			assert.Equal(t, tt.dos, row.FormatDOS())
			assert.True(t, row.RecommendedQty.Equal(dec(tt.rec)), "got %s", row.RecommendedQty)
		})
	}
}

func TestRoundUpToMOQ(t *testing.T) {
	assert.True(t, RoundUpToMOQ(dec("150"), dec("100")).Equal(dec("200")))
	assert.True(t, RoundUpToMOQ(dec("200"), dec("100")).Equal(dec("200")))
	assert.True(t, RoundUpToMOQ(dec("0.2"), dec("0")).Equal(dec("1")))
	assert.True(t, RoundUpToMOQ(dec("-5"), dec("10")).IsZero())
}

func TestDeriveUsage(t *testing.T) {
	demands := []*entities.DemandRecord{
		testhelpers.MustDemand("SO-1", "SKU-A", "2024-03-01", 70, 1),
		testhelpers.MustDemand("SO-2", "SKU-A", "2024-03-03", 70, 1),
		testhelpers.MustDemand("SO-3", "SKU-B", "2024-03-07", 35, 1),
		// outside the seven day window
		testhelpers.MustDemand("SO-4", "SKU-B", "2024-03-08", 1000, 1),
	}

	usage := DeriveUsage(demands, DefaultUsageWindowDays)
	assert.True(t, usage["SKU-A"].Equal(dec("20")), usage["SKU-A"].String())
	assert.True(t, usage["SKU-B"].Equal(dec("5")), usage["SKU-B"].String())
	_, ok := usage["SKU-C"]
	assert.False(t, ok)

	assert.Empty(t, DeriveUsage(nil, DefaultUsageWindowDays))
}

func TestEvaluate_UsesDerivedUsageForBlankRows(t *testing.T) {
	plant := testhelpers.BuildBottlingPlant()
	demands, err := plant.Demands.GetDemands()
	require.NoError(t, err)

	rows, err := NewEvaluator(logger.NopLogger{}).Evaluate(context.Background(), plant.Inventory, DeriveUsage(demands, DefaultUsageWindowDays))
	require.NoError(t, err)
	require.Len(t, rows, 7)

	for i := 1; i < len(rows); i++ {
		assert.Less(t, rows[i-1].Key, rows[i].Key)
	}

	var pack35 entities.PolicyAdherence
	for _, r := range rows {
		if r.Key == "WTR-35PK" {
			pack35 = r
		}
	}
	// 600 cases over a seven day window
	assert.True(t, pack35.AvgDailyUsage.Equal(dec("85.7143")), pack35.AvgDailyUsage.String())
	assert.Equal(t, entities.PolicyUnder, pack35.Flag)
	assert.True(t, pack35.RecommendedQty.Equal(dec("300")), pack35.RecommendedQty.String())
}
