package services

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/vsinha/plantplan/pkg/domain/entities"
)

// InputValidator checks cross-file consistency of a loaded input set
type InputValidator struct{}

// NewInputValidator creates a new input validator
func NewInputValidator() *InputValidator {
	return &InputValidator{}
}

// ValidationResult separates fatal problems from recoverable integrity warnings
type ValidationResult struct {
	Errors   []string
	Warnings []entities.IntegrityWarning
}

// HasErrors reports whether the input must be rejected
func (r *ValidationResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err returns the errors as one ErrMalformedInput, or nil
func (r *ValidationResult) Err() error {
	if !r.HasErrors() {
		return nil
	}
	return fmt.Errorf("%w: %d problem(s), first: %s", entities.ErrMalformedInput, len(r.Errors), r.Errors[0])
}

// Validate checks demand identity, duplicate BOM entries and, when a catalog is
// provided, demand for SKUs the catalog does not know
func (v *InputValidator) Validate(
	demands []*entities.DemandRecord,
	bom []*entities.BOMEntry,
	catalog []*entities.SKUProfile,
) *ValidationResult {
	result := &ValidationResult{
		Errors:   make([]string, 0),
		Warnings: make([]entities.IntegrityWarning, 0),
	}

	for _, orderID := range v.detectDuplicateOrders(demands) {
		result.Errors = append(result.Errors, fmt.Sprintf("duplicate order id: %s", orderID))
	}

	for _, dup := range v.detectDuplicateEntries(bom) {
		result.Warnings = append(result.Warnings, entities.IntegrityWarning{
			Kind:     entities.WarningDuplicateBOM,
			Subject:  fmt.Sprintf("%s/%s", dup.SKU, dup.Material),
			Quantity: dup.QtyPerUnit,
			Detail:   "bom entry repeated; quantities per unit accumulate",
		})
	}

	if len(catalog) > 0 {
		for _, sku := range v.detectUnknownSKUs(demands, catalog) {
			result.Warnings = append(result.Warnings, entities.IntegrityWarning{
				Kind:     entities.WarningUnknownSKU,
				Subject:  string(sku),
				Quantity: decimal.Zero,
				Detail:   "demanded sku is missing from the sku catalog",
			})
		}
	}

	return result
}

func (v *InputValidator) detectDuplicateOrders(demands []*entities.DemandRecord) []string {
	seen := make(map[string]bool, len(demands))
	var duplicates []string
	for _, d := range demands {
		if seen[d.OrderID] {
			duplicates = append(duplicates, d.OrderID)
			continue
		}
		seen[d.OrderID] = true
	}
	return duplicates
}

// detectDuplicateEntries returns every repeat of an already seen (sku, material) pair
func (v *InputValidator) detectDuplicateEntries(bom []*entities.BOMEntry) []*entities.BOMEntry {
	type key struct {
		sku      entities.SKU
		material entities.MaterialID
	}
	seen := make(map[key]bool, len(bom))
	var duplicates []*entities.BOMEntry
	for _, entry := range bom {
		k := key{entry.SKU, entry.Material}
		if seen[k] {
			duplicates = append(duplicates, entry)
			continue
		}
		seen[k] = true
	}
	return duplicates
}

func (v *InputValidator) detectUnknownSKUs(demands []*entities.DemandRecord, catalog []*entities.SKUProfile) []entities.SKU {
	known := make(map[entities.SKU]bool, len(catalog))
	for _, p := range catalog {
		known[p.SKU] = true
	}

	unknown := make(map[entities.SKU]bool)
	for _, d := range demands {
		if !known[d.SKU] {
			unknown[d.SKU] = true
		}
	}

	skus := make([]entities.SKU, 0, len(unknown))
	for sku := range unknown {
		skus = append(skus, sku)
	}
	sort.Slice(skus, func(i, j int) bool { return skus[i] < skus[j] })
	return skus
}
