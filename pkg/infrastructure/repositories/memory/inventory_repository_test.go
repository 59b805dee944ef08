package memory

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/plantplan/pkg/domain/entities"
)

func TestInventoryRepository_Policies(t *testing.T) {
	repo := NewInventoryRepository()

	policies := []*entities.InventoryPolicy{
		{Key: "WTR-35PK", OnHand: decimal.NewFromInt(900)},
		{Key: "CAP", OnHand: decimal.NewFromInt(50000)},
	}
	require.NoError(t, repo.LoadPolicies(policies))

	all, err := repo.GetAllPolicies()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "CAP", all[0].Key, "policies are sorted by key")

	p, err := repo.GetPolicy("WTR-35PK")
	require.NoError(t, err)
	assert.True(t, p.OnHand.Equal(decimal.NewFromInt(900)))

	assert.True(t, repo.HasRecord("CAP"))
	assert.False(t, repo.HasRecord("FILM"))

	_, err = repo.GetPolicy("FILM")
	assert.EqualError(t, err, "inventory record not found: FILM")

	err = repo.LoadPolicies([]*entities.InventoryPolicy{{Key: "CAP"}})
	assert.EqualError(t, err, "duplicate inventory record: CAP")
}

func TestSupplierRepository_ReceiptsSortedByETA(t *testing.T) {
	repo := NewSupplierRepository()
	day := func(d int) time.Time { return time.Date(2026, 2, d, 0, 0, 0, 0, time.UTC) }

	require.NoError(t, repo.LoadReceipts([]*entities.SupplierReceipt{
		{Material: "CAP", OnOrderQty: decimal.NewFromInt(300), ETA: day(14)},
		{Material: "CAP", OnOrderQty: decimal.NewFromInt(100), ETA: day(11)},
		{Material: "FILM", OnOrderQty: decimal.NewFromInt(5), ETA: day(10)},
	}))

	receipts, err := repo.GetReceipts("CAP")
	require.NoError(t, err)
	require.Len(t, receipts, 2)
	assert.Equal(t, day(11), receipts[0].ETA)
	assert.Equal(t, day(14), receipts[1].ETA)

	all, err := repo.GetAllReceipts()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, entities.MaterialID("CAP"), all[0].Material)
	assert.Equal(t, entities.MaterialID("FILM"), all[2].Material)

	assert.True(t, repo.HasSupplier("FILM"))
	assert.False(t, repo.HasSupplier("LABEL"))
}

func TestSupplierRepository_Alternates(t *testing.T) {
	repo := NewSupplierRepository()
	require.NoError(t, repo.LoadAlternates([]*entities.MaterialAlternate{
		{Material: "LABEL", Alternate: "LABEL-GENERIC", Priority: 2},
		{Material: "LABEL", Alternate: "LABEL-B", Priority: 1},
	}))

	alts, err := repo.GetAlternates("LABEL")
	require.NoError(t, err)
	assert.Len(t, alts, 2)

	none, err := repo.GetAlternates("CAP")
	require.NoError(t, err)
	assert.Empty(t, none)
}
