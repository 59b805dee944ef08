package mrp

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/domain/repositories"
)

// grossRequirements holds exploded demand per material and date, with the SKUs that drove it
type grossRequirements struct {
	quantities map[entities.MaterialID]map[time.Time]decimal.Decimal
	sources    map[entities.MaterialID]map[time.Time]map[entities.SKU]bool
	dates      []time.Time
}

func newGrossRequirements() *grossRequirements {
	return &grossRequirements{
		quantities: make(map[entities.MaterialID]map[time.Time]decimal.Decimal),
		sources:    make(map[entities.MaterialID]map[time.Time]map[entities.SKU]bool),
	}
}

func (g *grossRequirements) add(material entities.MaterialID, date time.Time, sku entities.SKU, qty decimal.Decimal) {
	byDate, ok := g.quantities[material]
	if !ok {
		byDate = make(map[time.Time]decimal.Decimal)
		g.quantities[material] = byDate
		g.sources[material] = make(map[time.Time]map[entities.SKU]bool)
	}
	byDate[date] = byDate[date].Add(qty)

	skus, ok := g.sources[material][date]
	if !ok {
		skus = make(map[entities.SKU]bool)
		g.sources[material][date] = skus
	}
	skus[sku] = true
}

// materials returns the exploded materials sorted by id
func (g *grossRequirements) materials() []entities.MaterialID {
	materials := make([]entities.MaterialID, 0, len(g.quantities))
	for m := range g.quantities {
		materials = append(materials, m)
	}
	sort.Slice(materials, func(i, j int) bool { return materials[i] < materials[j] })
	return materials
}

// affectedSKUs returns the sorted SKUs consuming the material on the date
func (g *grossRequirements) affectedSKUs(material entities.MaterialID, date time.Time) []entities.SKU {
	set := g.sources[material][date]
	skus := make([]entities.SKU, 0, len(set))
	for sku := range set {
		skus = append(skus, sku)
	}
	sort.Slice(skus, func(i, j int) bool { return skus[i] < skus[j] })
	return skus
}

// horizonStart returns the first planning date, or the zero time for an empty plan
func (g *grossRequirements) horizonStart() time.Time {
	if len(g.dates) == 0 {
		return time.Time{}
	}
	return g.dates[0]
}

// horizonEnd returns the last planning date, or the zero time for an empty plan
func (g *grossRequirements) horizonEnd() time.Time {
	if len(g.dates) == 0 {
		return time.Time{}
	}
	return g.dates[len(g.dates)-1]
}

// explodePlan multiplies each planned quantity through the single-level BOM.
// SKUs without BOM entries contribute nothing and are reported as missing_bom warnings.
func explodePlan(
	plan []entities.PlannedProduction,
	bomRepo repositories.BOMRepository,
) (*grossRequirements, []entities.IntegrityWarning, error) {
	gross := newGrossRequirements()
	var warnings []entities.IntegrityWarning
	seenDates := make(map[time.Time]bool)

	for _, p := range plan {
		if !seenDates[p.Date] {
			seenDates[p.Date] = true
			gross.dates = append(gross.dates, p.Date)
		}
		if p.Quantity <= 0 {
			continue
		}

		entries, err := bomRepo.GetBOMEntries(p.SKU)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to get BOM entries for %s: %w", p.SKU, err)
		}
		if len(entries) == 0 {
			warnings = append(warnings, entities.IntegrityWarning{
				Kind:     entities.WarningMissingBOM,
				Subject:  string(p.SKU),
				Date:     p.Date,
				Quantity: decimal.NewFromInt(int64(p.Quantity)),
				Detail:   "planned sku has no bom entries; zero material requirement",
			})
			continue
		}

		qty := decimal.NewFromInt(int64(p.Quantity))
		for _, entry := range entries {
			gross.add(entry.Material, p.Date, p.SKU, qty.Mul(entry.QtyPerUnit))
		}
	}

	sort.Slice(gross.dates, func(i, j int) bool { return gross.dates[i].Before(gross.dates[j]) })
	return gross, warnings, nil
}
