package dto

import (
	"time"

	"github.com/vsinha/plantplan/pkg/domain/entities"
)

// ScheduleResult contains the complete output of the daily scheduler
type ScheduleResult struct {
	Assignments []entities.ScheduleAssignment `json:"schedule" yaml:"schedule"`
	Plan        []entities.PlannedProduction  `json:"plan_by_sku_day" yaml:"plan_by_sku_day"`
	Unmet       []entities.UnmetDemand        `json:"unmet_demand" yaml:"unmet_demand"`
	LineLoads   []entities.LineLoad           `json:"line_loads" yaml:"line_loads"`
}

// TotalUnmet returns the unmet cases across all demand records
func (r *ScheduleResult) TotalUnmet() entities.Cases {
	var total entities.Cases
	for _, u := range r.Unmet {
		total += u.Quantity
	}
	return total
}

// MRPResult contains the complete output of an MRP explosion
type MRPResult struct {
	Requirements []entities.MaterialRequirement   `json:"requirements" yaml:"requirements"`
	Exceptions   []entities.ExceptionRecord       `json:"exceptions" yaml:"exceptions"`
	Ledgers      []entities.MaterialLedgerSummary `json:"ledgers" yaml:"ledgers"`
	Warnings     []entities.IntegrityWarning      `json:"warnings" yaml:"warnings"`
}

// PlanningResult combines every stage of a planning run
type PlanningResult struct {
	RunID         string                      `json:"run_id" yaml:"run_id"`
	PlanningStart time.Time                   `json:"planning_start" yaml:"planning_start"`
	PlanningEnd   time.Time                   `json:"planning_end" yaml:"planning_end"`
	Schedule      *ScheduleResult             `json:"schedule,omitempty" yaml:"schedule,omitempty"`
	MRP           *MRPResult                  `json:"mrp,omitempty" yaml:"mrp,omitempty"`
	Policy        []entities.PolicyAdherence  `json:"policy,omitempty" yaml:"policy,omitempty"`
	Warnings      []entities.IntegrityWarning `json:"data_integrity" yaml:"data_integrity"`
}
