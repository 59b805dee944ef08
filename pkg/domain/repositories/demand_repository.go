package repositories

import (
	"time"

	"github.com/vsinha/plantplan/pkg/domain/entities"
)

// DemandRepository provides access to order demand
type DemandRepository interface {
	GetDemands() ([]*entities.DemandRecord, error)
	LoadDemands(demands []*entities.DemandRecord) error

	// Horizon returns the first and last demand dates
	Horizon() (first, last time.Time)
}
