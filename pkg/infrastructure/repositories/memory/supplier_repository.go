package memory

import (
	"sort"

	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/domain/repositories"
)

// SupplierRepository provides in-memory storage of open receipts and material alternates
type SupplierRepository struct {
	receipts   map[entities.MaterialID][]entities.SupplierReceipt
	alternates map[entities.MaterialID][]entities.MaterialAlternate
}

// NewSupplierRepository creates a new in-memory supplier repository
func NewSupplierRepository() *SupplierRepository {
	return &SupplierRepository{
		receipts:   make(map[entities.MaterialID][]entities.SupplierReceipt),
		alternates: make(map[entities.MaterialID][]entities.MaterialAlternate),
	}
}

// Verify interface compliance
var _ repositories.SupplierRepository = (*SupplierRepository)(nil)

// LoadReceipts loads supplier receipts. A material may have several open receipts.
func (r *SupplierRepository) LoadReceipts(receipts []*entities.SupplierReceipt) error {
	for _, receipt := range receipts {
		r.receipts[receipt.Material] = append(r.receipts[receipt.Material], *receipt)
	}
	return nil
}

// GetReceipts returns the receipts of a material ordered by ETA, then quantity
func (r *SupplierRepository) GetReceipts(material entities.MaterialID) ([]*entities.SupplierReceipt, error) {
	stored := r.receipts[material]
	receipts := make([]*entities.SupplierReceipt, 0, len(stored))
	for i := range stored {
		receipt := stored[i]
		receipts = append(receipts, &receipt)
	}
	sortReceipts(receipts)
	return receipts, nil
}

// GetAllReceipts returns every receipt ordered by material, ETA, then quantity
func (r *SupplierRepository) GetAllReceipts() ([]*entities.SupplierReceipt, error) {
	var receipts []*entities.SupplierReceipt
	for material := range r.receipts {
		materialReceipts, _ := r.GetReceipts(material)
		receipts = append(receipts, materialReceipts...)
	}
	sortReceipts(receipts)
	return receipts, nil
}

// HasSupplier reports whether any supplier record exists for the material
func (r *SupplierRepository) HasSupplier(material entities.MaterialID) bool {
	return len(r.receipts[material]) > 0
}

// LoadAlternates loads material alternates
func (r *SupplierRepository) LoadAlternates(alternates []*entities.MaterialAlternate) error {
	for _, alt := range alternates {
		r.alternates[alt.Material] = append(r.alternates[alt.Material], *alt)
	}
	return nil
}

// GetAlternates returns the alternates of a material in load order
func (r *SupplierRepository) GetAlternates(material entities.MaterialID) ([]*entities.MaterialAlternate, error) {
	stored := r.alternates[material]
	alternates := make([]*entities.MaterialAlternate, 0, len(stored))
	for i := range stored {
		alt := stored[i]
		alternates = append(alternates, &alt)
	}
	return alternates, nil
}

func sortReceipts(receipts []*entities.SupplierReceipt) {
	sort.SliceStable(receipts, func(i, j int) bool {
		if receipts[i].Material != receipts[j].Material {
			return receipts[i].Material < receipts[j].Material
		}
		if !receipts[i].ETA.Equal(receipts[j].ETA) {
			return receipts[i].ETA.Before(receipts[j].ETA)
		}
		return receipts[i].OnOrderQty.LessThan(receipts[j].OnOrderQty)
	})
}
