package mrp

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/domain/repositories"
)

// SelectBestAlternateByPriority selects the alternate with the lowest priority number.
// Returns nil if no alternates are provided; equal priorities keep load order.
func SelectBestAlternateByPriority(alternates []*entities.MaterialAlternate) *entities.MaterialAlternate {
	if len(alternates) == 0 {
		return nil
	}
	return sortedByPriority(alternates)[0]
}

// SelectBestAlternateWithInventory selects the first alternate, in priority order, whose
// on-hand quantity covers the shortage. Falls back to priority-based selection.
func SelectBestAlternateWithInventory(
	alternates []*entities.MaterialAlternate,
	shortage decimal.Decimal,
	inventoryRepo repositories.InventoryRepository,
) *entities.MaterialAlternate {
	if len(alternates) == 0 {
		return nil
	}

	for _, alt := range sortedByPriority(alternates) {
		policy, err := inventoryRepo.GetPolicy(string(alt.Alternate))
		if err != nil {
			// no snapshot row means nothing on hand
			continue
		}
		if policy.OnHand.GreaterThanOrEqual(shortage) {
			return alt
		}
	}

	return SelectBestAlternateByPriority(alternates)
}

func sortedByPriority(alternates []*entities.MaterialAlternate) []*entities.MaterialAlternate {
	sorted := make([]*entities.MaterialAlternate, len(alternates))
	copy(sorted, alternates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}
