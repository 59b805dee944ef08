package repositories

import "github.com/vsinha/plantplan/pkg/domain/entities"

// InventoryRepository provides access to the inventory snapshot and its policies
type InventoryRepository interface {
	GetPolicy(key string) (*entities.InventoryPolicy, error)
	GetAllPolicies() ([]*entities.InventoryPolicy, error)
	LoadPolicies(policies []*entities.InventoryPolicy) error
	HasRecord(key string) bool
}

// SupplierRepository provides access to open supplier receipts and material alternates
type SupplierRepository interface {
	GetReceipts(material entities.MaterialID) ([]*entities.SupplierReceipt, error)
	GetAllReceipts() ([]*entities.SupplierReceipt, error)
	LoadReceipts(receipts []*entities.SupplierReceipt) error
	HasSupplier(material entities.MaterialID) bool

	GetAlternates(material entities.MaterialID) ([]*entities.MaterialAlternate, error)
	LoadAlternates(alternates []*entities.MaterialAlternate) error
}
