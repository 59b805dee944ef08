package entities

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// BOMEntry maps one case of a SKU to the quantity of a material it consumes
type BOMEntry struct {
	SKU        SKU
	Material   MaterialID
	QtyPerUnit decimal.Decimal
}

// NewBOMEntry creates a validated BOMEntry
func NewBOMEntry(sku SKU, material MaterialID, qtyPerUnit decimal.Decimal) (*BOMEntry, error) {
	if string(sku) == "" {
		return nil, fmt.Errorf("sku cannot be empty")
	}
	if string(material) == "" {
		return nil, fmt.Errorf("material cannot be empty")
	}
	if !qtyPerUnit.IsPositive() {
		return nil, fmt.Errorf("quantity per unit must be positive, got %s", qtyPerUnit)
	}

	return &BOMEntry{
		SKU:        sku,
		Material:   material,
		QtyPerUnit: qtyPerUnit,
	}, nil
}

// MaterialAlternate names a material that may substitute for another.
// Lower priority values are preferred.
type MaterialAlternate struct {
	Material  MaterialID
	Alternate MaterialID
	Priority  int
}

// NewMaterialAlternate creates a validated MaterialAlternate
func NewMaterialAlternate(material, alternate MaterialID, priority int) (*MaterialAlternate, error) {
	if material == "" || alternate == "" {
		return nil, fmt.Errorf("material and alternate cannot be empty")
	}
	if material == alternate {
		return nil, fmt.Errorf("material cannot be its own alternate: %s", material)
	}
	if priority < 0 {
		return nil, fmt.Errorf("priority cannot be negative, got %d", priority)
	}
	return &MaterialAlternate{Material: material, Alternate: alternate, Priority: priority}, nil
}
