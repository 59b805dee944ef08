package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/plantplan/pkg/application/services/orchestration"
	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/infrastructure/logger"
	"github.com/vsinha/plantplan/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/plantplan/pkg/interfaces/cli/output"
)

func main() {
	ctx := context.Background()

	in, err := buildPlant()
	if err != nil {
		fmt.Printf("❌ building plant failed: %v\n", err)
		os.Exit(1)
	}

	planner := orchestration.NewPlanningOrchestrator(
		orchestration.Config{ChangeoverMinutes: 45, UsageWindowDays: 7},
		orchestration.NopMetrics{},
		logger.NopLogger{},
	)

	fmt.Println("🏭 Planning two days on a single filler line...")
	result, err := planner.RunCompletePlanning(ctx, "example", in)
	if err != nil {
		fmt.Printf("❌ planning failed: %v\n", err)
		os.Exit(1)
	}

	if err := output.WriteText(os.Stdout, result); err != nil {
		fmt.Printf("❌ report failed: %v\n", err)
		os.Exit(1)
	}
}

// buildPlant sets up one filler running two SKUs that share caps, with a cap delivery landing a day late
func buildPlant() (orchestration.Inputs, error) {
	day1 := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	day2 := day1.AddDate(0, 0, 1)
	d := decimal.NewFromInt

	line, err := entities.NewLine("FILLER-1", d(600), d(16), d(1), []entities.SKU{"WTR-500ML-24PK", "WTR-1L-12PK"})
	if err != nil {
		return orchestration.Inputs{}, err
	}
	lines := memory.NewLineRepository(1)
	if err := lines.LoadLines([]*entities.Line{line}); err != nil {
		return orchestration.Inputs{}, err
	}

	var entries []*entities.BOMEntry
	for _, e := range []struct {
		sku      entities.SKU
		material entities.MaterialID
		qty      int64
	}{
		{"WTR-500ML-24PK", "PREFORM-500", 24},
		{"WTR-500ML-24PK", "CAP-28MM", 24},
		{"WTR-1L-12PK", "PREFORM-1L", 12},
		{"WTR-1L-12PK", "CAP-28MM", 12},
	} {
		entry, err := entities.NewBOMEntry(e.sku, e.material, d(e.qty))
		if err != nil {
			return orchestration.Inputs{}, err
		}
		entries = append(entries, entry)
	}
	bom := memory.NewBOMRepository(len(entries))
	if err := bom.LoadBOMEntries(entries); err != nil {
		return orchestration.Inputs{}, err
	}

	inventory := memory.NewInventoryRepository()
	var policies []*entities.InventoryPolicy
	for _, p := range []struct {
		key           string
		onHand, usage int64
	}{
		{"PREFORM-500", 150000, 60000},
		{"PREFORM-1L", 40000, 20000},
		{"CAP-28MM", 120000, 90000},
	} {
		policy, err := entities.NewInventoryPolicy(p.key, d(p.onHand), d(p.usage), true, d(2), d(5), d(10), d(10000))
		if err != nil {
			return orchestration.Inputs{}, err
		}
		policies = append(policies, policy)
	}
	if err := inventory.LoadPolicies(policies); err != nil {
		return orchestration.Inputs{}, err
	}

	suppliers := memory.NewSupplierRepository()
	var receipts []*entities.SupplierReceipt
	for _, material := range []entities.MaterialID{"PREFORM-500", "PREFORM-1L", "CAP-28MM"} {
		eta := day2
		if material == "CAP-28MM" {
			eta = day2.AddDate(0, 0, 1)
		}
		r, err := entities.NewSupplierReceipt(material, d(100000), eta)
		if err != nil {
			return orchestration.Inputs{}, err
		}
		receipts = append(receipts, r)
	}
	if err := suppliers.LoadReceipts(receipts); err != nil {
		return orchestration.Inputs{}, err
	}

	demands := memory.NewDemandRepository()
	var orders []*entities.DemandRecord
	for i, o := range []struct {
		sku      entities.SKU
		date     time.Time
		qty      entities.Cases
		priority int
	}{
		{"WTR-500ML-24PK", day1, 4000, entities.PriorityHigh},
		{"WTR-1L-12PK", day1, 3000, entities.PriorityMedium},
		{"WTR-500ML-24PK", day2, 5000, entities.PriorityMedium},
		{"WTR-1L-12PK", day2, 4500, entities.PriorityHigh},
	} {
		order, err := entities.NewDemandRecord(fmt.Sprintf("SO-%d", 5001+i), o.sku, o.date, time.Time{}, o.qty, o.priority)
		if err != nil {
			return orchestration.Inputs{}, err
		}
		orders = append(orders, order)
	}
	if err := demands.LoadDemands(orders); err != nil {
		return orchestration.Inputs{}, err
	}

	return orchestration.Inputs{
		Demands:   demands,
		Lines:     lines,
		BOM:       bom,
		Inventory: inventory,
		Suppliers: suppliers,
	}, nil
}
