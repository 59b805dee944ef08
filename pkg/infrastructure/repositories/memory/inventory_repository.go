package memory

import (
	"fmt"
	"sort"

	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/domain/repositories"
)

// InventoryRepository provides in-memory storage of the inventory snapshot
type InventoryRepository struct {
	policies map[string]entities.InventoryPolicy
}

// NewInventoryRepository creates a new in-memory inventory repository
func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{
		policies: make(map[string]entities.InventoryPolicy),
	}
}

// Verify interface compliance
var _ repositories.InventoryRepository = (*InventoryRepository)(nil)

// LoadPolicies loads snapshot rows. A key may appear only once.
func (r *InventoryRepository) LoadPolicies(policies []*entities.InventoryPolicy) error {
	for _, p := range policies {
		if _, exists := r.policies[p.Key]; exists {
			return fmt.Errorf("duplicate inventory record: %s", p.Key)
		}
		r.policies[p.Key] = *p
	}
	return nil
}

// GetPolicy returns the snapshot row for a material or SKU
func (r *InventoryRepository) GetPolicy(key string) (*entities.InventoryPolicy, error) {
	p, exists := r.policies[key]
	if !exists {
		return nil, fmt.Errorf("inventory record not found: %s", key)
	}
	return &p, nil
}

// HasRecord reports whether the snapshot has a row for the key
func (r *InventoryRepository) HasRecord(key string) bool {
	_, exists := r.policies[key]
	return exists
}

// GetAllPolicies returns all snapshot rows sorted by key
func (r *InventoryRepository) GetAllPolicies() ([]*entities.InventoryPolicy, error) {
	keys := make([]string, 0, len(r.policies))
	for key := range r.policies {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	policies := make([]*entities.InventoryPolicy, 0, len(keys))
	for _, key := range keys {
		p := r.policies[key]
		policies = append(policies, &p)
	}
	return policies, nil
}
