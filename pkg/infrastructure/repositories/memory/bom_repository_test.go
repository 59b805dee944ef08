package memory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/plantplan/pkg/domain/entities"
)

func TestBOMRepository_LoadAndGetBOMEntries(t *testing.T) {
	repo := NewBOMRepository(4)

	entries := []*entities.BOMEntry{
		{SKU: "WTR-1L-12PK", Material: "PREP", QtyPerUnit: decimal.NewFromInt(12)},
		{SKU: "WTR-1L-12PK", Material: "CAP", QtyPerUnit: decimal.NewFromInt(12)},
		{SKU: "WTR-35PK", Material: "CAP", QtyPerUnit: decimal.NewFromInt(35)},
	}
	require.NoError(t, repo.LoadBOMEntries(entries))

	lines, err := repo.GetBOMEntries("WTR-1L-12PK")
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, entities.MaterialID("PREP"), lines[0].Material)
	assert.Equal(t, entities.MaterialID("CAP"), lines[1].Material)

	assert.True(t, repo.HasBOM("WTR-35PK"))
	assert.False(t, repo.HasBOM("WTR-UNKNOWN"))

	missing, err := repo.GetBOMEntries("WTR-UNKNOWN")
	require.NoError(t, err)
	assert.Empty(t, missing)

	assert.Equal(t, []entities.MaterialID{"CAP", "PREP"}, repo.Materials())

	all, err := repo.GetAllBOMEntries()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestBOMRepository_ReturnsCopies(t *testing.T) {
	repo := NewBOMRepository(1)
	repo.AddBOMEntry(entities.BOMEntry{SKU: "A", Material: "CAP", QtyPerUnit: decimal.NewFromInt(1)})

	lines, err := repo.GetBOMEntries("A")
	require.NoError(t, err)
	lines[0].QtyPerUnit = decimal.NewFromInt(99)

	again, err := repo.GetBOMEntries("A")
	require.NoError(t, err)
	assert.True(t, again[0].QtyPerUnit.Equal(decimal.NewFromInt(1)))
}

func TestLineRepository_EligibleLines(t *testing.T) {
	repo := NewLineRepository(3)

	mk := func(id entities.LineID, skus ...entities.SKU) *entities.Line {
		line, err := entities.NewLine(id, decimal.NewFromInt(100), decimal.NewFromInt(8), decimal.Zero, skus)
		require.NoError(t, err)
		return line
	}
	require.NoError(t, repo.LoadLines([]*entities.Line{mk("L3", "A"), mk("L1", "A", "B"), mk("L2", "B")}))

	eligible := repo.EligibleLines("A")
	require.Len(t, eligible, 2)
	assert.Equal(t, entities.LineID("L1"), eligible[0].ID)
	assert.Equal(t, entities.LineID("L3"), eligible[1].ID)
	assert.Empty(t, repo.EligibleLines("Z"))

	all, err := repo.GetAllLines()
	require.NoError(t, err)
	assert.Equal(t, entities.LineID("L1"), all[0].ID)

	err = repo.LoadLines([]*entities.Line{mk("L1")})
	assert.EqualError(t, err, "duplicate line id: L1")
}
