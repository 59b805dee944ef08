package testing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/infrastructure/repositories/memory"
)

// Plant bundles the repositories of a complete planning scenario
type Plant struct {
	Lines     *memory.LineRepository
	BOM       *memory.BOMRepository
	Inventory *memory.InventoryRepository
	Suppliers *memory.SupplierRepository
	Demands   *memory.DemandRepository
}

// NewPlant creates an empty scenario
func NewPlant() *Plant {
	return &Plant{
		Lines:     memory.NewLineRepository(4),
		BOM:       memory.NewBOMRepository(16),
		Inventory: memory.NewInventoryRepository(),
		Suppliers: memory.NewSupplierRepository(),
		Demands:   memory.NewDemandRepository(),
	}
}

// MustDate parses a YYYY-MM-DD date - panics on error
func MustDate(s string) time.Time {
	d, err := entities.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

// MustLine is a helper for tests - panics on validation error
func MustLine(id, rate, shiftHours, downtimeHours string, skus ...entities.SKU) *entities.Line {
	line, err := entities.NewLine(
		entities.LineID(id),
		decimal.RequireFromString(rate),
		decimal.RequireFromString(shiftHours),
		decimal.RequireFromString(downtimeHours),
		skus,
	)
	if err != nil {
		panic(err)
	}
	return line
}

// MustDemand is a helper for tests - panics on validation error
func MustDemand(orderID string, sku entities.SKU, date string, qty entities.Cases, priority int) *entities.DemandRecord {
	d, err := entities.NewDemandRecord(orderID, sku, MustDate(date), time.Time{}, qty, priority)
	if err != nil {
		panic(err)
	}
	return d
}

// MustBOM is a helper for tests - panics on validation error
func MustBOM(sku entities.SKU, material entities.MaterialID, qtyPer string) *entities.BOMEntry {
	entry, err := entities.NewBOMEntry(sku, material, decimal.RequireFromString(qtyPer))
	if err != nil {
		panic(err)
	}
	return entry
}

// MustPolicy is a helper for tests - panics on validation error. An empty usage marks it unknown.
func MustPolicy(key, onHand, usage, minDOS, targetDOS, maxDOS, moq string) *entities.InventoryPolicy {
	known := usage != ""
	u := decimal.Zero
	if known {
		u = decimal.RequireFromString(usage)
	}
	p, err := entities.NewInventoryPolicy(
		key,
		decimal.RequireFromString(onHand),
		u,
		known,
		decimal.RequireFromString(minDOS),
		decimal.RequireFromString(targetDOS),
		decimal.RequireFromString(maxDOS),
		decimal.RequireFromString(moq),
	)
	if err != nil {
		panic(err)
	}
	return p
}

// MustReceipt is a helper for tests - panics on validation error
func MustReceipt(material entities.MaterialID, qty, eta string) *entities.SupplierReceipt {
	var etaDate time.Time
	if eta != "" {
		etaDate = MustDate(eta)
	}
	r, err := entities.NewSupplierReceipt(material, decimal.RequireFromString(qty), etaDate)
	if err != nil {
		panic(err)
	}
	return r
}

// BuildBottlingPlant builds a two-line bottling scenario over two days.
// Line L1 runs every SKU at 125 cases/hour for 8 hours; L2 runs only the 1L SKU at 100 cases/hour
// with one hour of downtime. Caps are short on the second day with a receipt arriving after it.
func BuildBottlingPlant() *Plant {
	plant := NewPlant()

	lines := []*entities.Line{
		MustLine("L1", "125", "8", "0", "WTR-500ML-24PK", "WTR-1L-12PK", "WTR-35PK"),
		MustLine("L2", "100", "8", "1", "WTR-1L-12PK"),
	}
	if err := plant.Lines.LoadLines(lines); err != nil {
		panic(err)
	}

	bom := []*entities.BOMEntry{
		MustBOM("WTR-500ML-24PK", "PREFORM-500", "24"),
		MustBOM("WTR-500ML-24PK", "CAP-28MM", "24"),
		MustBOM("WTR-500ML-24PK", "FILM", "0.05"),
		MustBOM("WTR-1L-12PK", "PREFORM-1L", "12"),
		MustBOM("WTR-1L-12PK", "CAP-28MM", "12"),
		MustBOM("WTR-1L-12PK", "FILM", "0.04"),
		MustBOM("WTR-35PK", "PREFORM-500", "35"),
		MustBOM("WTR-35PK", "CAP-28MM", "35"),
	}
	if err := plant.BOM.LoadBOMEntries(bom); err != nil {
		panic(err)
	}

	policies := []*entities.InventoryPolicy{
		MustPolicy("PREFORM-500", "60000", "20000", "2", "5", "10", "10000"),
		MustPolicy("PREFORM-1L", "30000", "8000", "2", "5", "10", "5000"),
		MustPolicy("CAP-28MM", "30000", "25000", "2", "5", "10", "10000"),
		MustPolicy("FILM", "500", "40", "3", "7", "14", "50"),
		MustPolicy("WTR-500ML-24PK", "200", "400", "1", "3", "6", "100"),
		MustPolicy("WTR-1L-12PK", "1500", "500", "1", "3", "6", "100"),
		MustPolicy("WTR-35PK", "0", "", "1", "3", "6", "50"),
	}
	if err := plant.Inventory.LoadPolicies(policies); err != nil {
		panic(err)
	}

	receipts := []*entities.SupplierReceipt{
		MustReceipt("PREFORM-500", "40000", "2024-03-02"),
		MustReceipt("CAP-28MM", "50000", "2024-03-04"),
		MustReceipt("PREFORM-1L", "0", ""),
		MustReceipt("FILM", "200", "2024-03-01"),
	}
	if err := plant.Suppliers.LoadReceipts(receipts); err != nil {
		panic(err)
	}

	alternates := []*entities.MaterialAlternate{
		{Material: "CAP-28MM", Alternate: "CAP-28MM-LW", Priority: 1},
	}
	if err := plant.Suppliers.LoadAlternates(alternates); err != nil {
		panic(err)
	}

	demands := []*entities.DemandRecord{
		MustDemand("SO-1001", "WTR-500ML-24PK", "2024-03-01", 600, entities.PriorityHigh),
		MustDemand("SO-1002", "WTR-1L-12PK", "2024-03-01", 900, entities.PriorityMedium),
		MustDemand("SO-1003", "WTR-35PK", "2024-03-01", 200, entities.PriorityLow),
		MustDemand("SO-1004", "WTR-500ML-24PK", "2024-03-02", 500, entities.PriorityMedium),
		MustDemand("SO-1005", "WTR-1L-12PK", "2024-03-02", 800, entities.PriorityHigh),
		MustDemand("SO-1006", "WTR-35PK", "2024-03-02", 400, entities.PriorityMedium),
	}
	if err := plant.Demands.LoadDemands(demands); err != nil {
		panic(err)
	}

	return plant
}
