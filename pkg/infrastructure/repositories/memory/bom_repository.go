package memory

import (
	"fmt"
	"sort"

	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/domain/repositories"
)

// BOMRepository stores BOM entries in a flat slice indexed by SKU
type BOMRepository struct {
	entries    []entities.BOMEntry
	skuIndexes map[entities.SKU][]int
}

// NewBOMRepository creates a BOM repository sized for the expected number of entries
func NewBOMRepository(expectedEntries int) *BOMRepository {
	return &BOMRepository{
		entries:    make([]entities.BOMEntry, 0, expectedEntries),
		skuIndexes: make(map[entities.SKU][]int),
	}
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

// LoadBOMEntries loads BOM entries into the repository
func (r *BOMRepository) LoadBOMEntries(entries []*entities.BOMEntry) error {
	for _, entry := range entries {
		if entry == nil {
			return fmt.Errorf("nil BOM entry")
		}
		r.AddBOMEntry(*entry)
	}
	return nil
}

// AddBOMEntry adds a BOM entry to the repository
func (r *BOMRepository) AddBOMEntry(entry entities.BOMEntry) {
	index := len(r.entries)
	r.entries = append(r.entries, entry)
	r.skuIndexes[entry.SKU] = append(r.skuIndexes[entry.SKU], index)
}

// GetBOMEntries returns the BOM entries of a SKU in load order
func (r *BOMRepository) GetBOMEntries(sku entities.SKU) ([]*entities.BOMEntry, error) {
	indexes, exists := r.skuIndexes[sku]
	if !exists {
		return []*entities.BOMEntry{}, nil
	}

	entries := make([]*entities.BOMEntry, 0, len(indexes))
	for _, index := range indexes {
		entry := r.entries[index]
		entries = append(entries, &entry)
	}
	return entries, nil
}

// GetAllBOMEntries returns all BOM entries
func (r *BOMRepository) GetAllBOMEntries() ([]*entities.BOMEntry, error) {
	entries := make([]*entities.BOMEntry, 0, len(r.entries))
	for i := range r.entries {
		entries = append(entries, &r.entries[i])
	}
	return entries, nil
}

// HasBOM reports whether the SKU has at least one BOM entry
func (r *BOMRepository) HasBOM(sku entities.SKU) bool {
	return len(r.skuIndexes[sku]) > 0
}

// Materials returns the distinct materials referenced by the BOM
func (r *BOMRepository) Materials() []entities.MaterialID {
	seen := make(map[entities.MaterialID]bool)
	var materials []entities.MaterialID
	for _, entry := range r.entries {
		if !seen[entry.Material] {
			seen[entry.Material] = true
			materials = append(materials, entry.Material)
		}
	}
	sort.Slice(materials, func(i, j int) bool { return materials[i] < materials[j] })
	return materials
}
