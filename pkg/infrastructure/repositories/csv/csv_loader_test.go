package csv

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsinha/plantplan/pkg/domain/entities"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoader_LoadDemands(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "orders.csv", `priority,sku,date,quantity,customer,order_id,due_date,notes
HIGH,WTR-1L-12PK,2024-03-01,1200,RetailCo,SO-1,2024-03-03,rush
2,WTR-35PK,2024-03-01,300.0,,,,

LOW,WTR-35PK,2024-03-02,50,,,,
`)

	demands, err := NewLoader().LoadDemands(path)
	require.NoError(t, err)
	require.Len(t, demands, 3)

	first := demands[0]
	assert.Equal(t, "SO-1", first.OrderID)
	assert.Equal(t, "RetailCo", first.Customer)
	assert.Equal(t, entities.Cases(1200), first.Quantity)
	assert.Equal(t, entities.PriorityHigh, first.Priority)
	assert.Equal(t, "2024-03-03", entities.FormatDate(first.DueDate))

	second := demands[1]
	assert.Equal(t, "WTR-35PK@2024-03-01#3", second.OrderID)
	assert.Equal(t, entities.Cases(300), second.Quantity)
	assert.Equal(t, second.Date, second.DueDate)
	assert.Equal(t, entities.PriorityLow, demands[2].Priority)
}

func TestLoader_MalformedInput(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		load    func(l *Loader, path string) error
	}{
		{
			name:    "missing column",
			file:    "orders.csv",
			content: "sku,date,quantity\nA,2024-03-01,5\n",
			load:    func(l *Loader, p string) error { _, err := l.LoadDemands(p); return err },
		},
		{
			name:    "bad date",
			file:    "orders.csv",
			content: "sku,date,quantity,priority\nA,03/01/2024,5,1\n",
			load:    func(l *Loader, p string) error { _, err := l.LoadDemands(p); return err },
		},
		{
			name:    "fractional cases",
			file:    "orders.csv",
			content: "sku,date,quantity,priority\nA,2024-03-01,5.5,1\n",
			load:    func(l *Loader, p string) error { _, err := l.LoadDemands(p); return err },
		},
		{
			name:    "negative quantity",
			file:    "orders.csv",
			content: "sku,date,quantity,priority\nA,2024-03-01,-5,1\n",
			load:    func(l *Loader, p string) error { _, err := l.LoadDemands(p); return err },
		},
		{
			name:    "zero line rate",
			file:    "lines.csv",
			content: "line_id,rate_cases_per_hr,shift_hours,downtime_hours,eligible_skus\nL1,0,8,0,A\n",
			load:    func(l *Loader, p string) error { _, err := l.LoadLines(p); return err },
		},
		{
			name:    "non numeric on hand",
			file:    "inventory.csv",
			content: "material_or_sku,on_hand,avg_daily_usage,min_dos,target_dos,max_dos,moq\nCAP,lots,1,1,2,3,0\n",
			load:    func(l *Loader, p string) error { _, err := l.LoadInventory(p); return err },
		},
		{
			name:    "positive on order without eta",
			file:    "suppliers.csv",
			content: "material,on_order_qty,eta_date\nCAP,100,\n",
			load:    func(l *Loader, p string) error { _, err := l.LoadSuppliers(p); return err },
		},
		{
			name:    "empty file",
			file:    "bom.csv",
			content: "",
			load:    func(l *Loader, p string) error { _, err := l.LoadBOM(p); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), tt.file, tt.content)
			err := tt.load(NewLoader(), path)
			require.Error(t, err)
			assert.True(t, errors.Is(err, entities.ErrMalformedInput), err.Error())
		})
	}

	_, err := NewLoader().LoadLines(filepath.Join(t.TempDir(), "lines.csv"))
	assert.True(t, errors.Is(err, entities.ErrMalformedInput))
}

func TestLoader_LoadDataset(t *testing.T) {
	dir := t.TempDir()
	paths := DatasetPaths{
		Orders: writeFile(t, dir, "orders.csv", "sku,date,quantity,priority\nWTR-1L-12PK,2024-03-01,100,MED\n"),
		Lines: writeFile(t, dir, "lines.csv",
			"line_id,rate_cases_per_hr,shift_hours,downtime_hours,eligible_skus\nL1,125,8,0.5,WTR-1L-12PK|WTR-35PK\n"),
		Inventory: writeFile(t, dir, "inventory.csv",
			"material_or_sku,on_hand,avg_daily_usage,min_dos,target_dos,max_dos,moq\nCAP-28MM,1000.5,,2,5,10,100\n"),
		BOM:        writeFile(t, dir, "bom.csv", "sku,material,qty_per_unit\nWTR-1L-12PK,CAP-28MM,12\n"),
		Suppliers:  writeFile(t, dir, "suppliers.csv", "material,on_order_qty,eta_date\nCAP-28MM,0,\n"),
		Alternates: writeFile(t, dir, "alternates.csv", "material,alternate_material,priority\nCAP-28MM,CAP-28MM-LW,2\n"),
		Catalog:    filepath.Join(dir, "sku_catalog.csv"),
	}

	ds, err := NewLoader().LoadDataset(paths)
	require.NoError(t, err)

	require.Len(t, ds.Lines, 1)
	assert.Equal(t, []entities.SKU{"WTR-1L-12PK", "WTR-35PK"}, ds.Lines[0].EligibleSKUs)
	assert.True(t, ds.Lines[0].AvailableHours().Equal(decimal.RequireFromString("7.5")))

	require.Len(t, ds.Policies, 1)
	assert.False(t, ds.Policies[0].UsageKnown)
	assert.True(t, ds.Policies[0].OnHand.Equal(decimal.RequireFromString("1000.5")))

	require.Len(t, ds.Alternates, 1)
	assert.Equal(t, 2, ds.Alternates[0].Priority)
	assert.Empty(t, ds.Catalog)

	repos, err := ds.Repositories()
	require.NoError(t, err)
	assert.True(t, repos.BOM.HasBOM("WTR-1L-12PK"))
	assert.True(t, repos.Suppliers.HasSupplier("CAP-28MM"))
	assert.Len(t, repos.Lines.EligibleLines("WTR-35PK"), 1)
}

func TestDataset_DuplicateLineIsMalformed(t *testing.T) {
	line, err := entities.NewLine("L1", decimal.NewFromInt(1), decimal.NewFromInt(8), decimal.Zero, nil)
	require.NoError(t, err)

	_, err = (&Dataset{Lines: []*entities.Line{line, line}}).Repositories()
	assert.True(t, errors.Is(err, entities.ErrMalformedInput))
}

func TestLoader_LoadPlan(t *testing.T) {
	path := writeFile(t, t.TempDir(), "plan_by_sku_day.csv", "sku,date,quantity\nWTR-35PK,2024-03-01,200\n")

	plan, err := NewLoader().LoadPlan(path)
	require.NoError(t, err)
	require.Len(t, plan, 1)
	assert.Equal(t, entities.Cases(200), plan[0].Quantity)
}
