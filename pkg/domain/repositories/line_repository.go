package repositories

import "github.com/vsinha/plantplan/pkg/domain/entities"

// LineRepository provides access to production line capability and capacity
type LineRepository interface {
	GetAllLines() ([]*entities.Line, error)
	LoadLines(lines []*entities.Line) error

	// EligibleLines returns the lines able to run the SKU, sorted by line id
	EligibleLines(sku entities.SKU) []*entities.Line
}
