package memory

import (
	"errors"
	"time"

	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/domain/repositories"
)

// DemandRepository keeps demand records in load order and tracks the date span they cover
type DemandRepository struct {
	records     []entities.DemandRecord
	first, last time.Time
}

func NewDemandRepository() *DemandRepository {
	return &DemandRepository{}
}

var _ repositories.DemandRepository = (*DemandRepository)(nil)

// LoadDemands appends the records after any already loaded. Load order is the input
// position the scheduler falls back on for ties.
func (r *DemandRepository) LoadDemands(demands []*entities.DemandRecord) error {
	for _, d := range demands {
		if d == nil {
			return errors.New("nil demand record")
		}
		if r.first.IsZero() || d.Date.Before(r.first) {
			r.first = d.Date
		}
		if d.Date.After(r.last) {
			r.last = d.Date
		}
		r.records = append(r.records, *d)
	}
	return nil
}

func (r *DemandRepository) GetDemands() ([]*entities.DemandRecord, error) {
	out := make([]*entities.DemandRecord, len(r.records))
	for i := range r.records {
		out[i] = &r.records[i]
	}
	return out, nil
}

// Horizon returns the first and last demand dates, or zero times when nothing is loaded
func (r *DemandRepository) Horizon() (time.Time, time.Time) {
	return r.first, r.last
}
