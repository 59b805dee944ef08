package repositories

import "github.com/vsinha/plantplan/pkg/domain/entities"

// BOMRepository provides access to Bill of Materials data
type BOMRepository interface {
	GetBOMEntries(sku entities.SKU) ([]*entities.BOMEntry, error)
	GetAllBOMEntries() ([]*entities.BOMEntry, error)
	LoadBOMEntries(entries []*entities.BOMEntry) error

	// HasBOM reports whether at least one BOM entry exists for the SKU
	HasBOM(sku entities.SKU) bool

	// Materials returns every distinct material referenced by the BOM, sorted
	Materials() []entities.MaterialID
}
