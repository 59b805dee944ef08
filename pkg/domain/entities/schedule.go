package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnassignedLine is the line recorded for demand that no line can run
const UnassignedLine LineID = "UNASSIGNED"

// CapacityFlag records how a demand record was satisfied by the scheduler
type CapacityFlag string

const (
	FlagOK               CapacityFlag = "ok"
	FlagCapacityExceeded CapacityFlag = "capacity_exceeded"
	FlagNoEligibleLine   CapacityFlag = "no_eligible_line"
)

// ScheduleAssignment is the scheduler's decision for one demand record
type ScheduleAssignment struct {
	Line              LineID       `json:"line" yaml:"line"`
	SKU               SKU          `json:"sku" yaml:"sku"`
	Date              time.Time    `json:"date" yaml:"date"`
	OrderID           string       `json:"order_id" yaml:"order_id"`
	Quantity          Cases        `json:"quantity" yaml:"quantity"`
	UnmetQuantity     Cases        `json:"unmet_quantity" yaml:"unmet_quantity"`
	ChangeoverMinutes int          `json:"changeover_minutes" yaml:"changeover_minutes"`
	CapacityFlag      CapacityFlag `json:"capacity_flag" yaml:"capacity_flag"`
}

// PlannedProduction is the aggregated quantity of a SKU planned on a date
type PlannedProduction struct {
	SKU      SKU       `json:"sku" yaml:"sku"`
	Date     time.Time `json:"date" yaml:"date"`
	Quantity Cases     `json:"quantity" yaml:"quantity"`
}

// UnmetDemand is the part of a demand record the plan cannot cover: the OTIF risk proxy
type UnmetDemand struct {
	OrderID  string       `json:"order_id" yaml:"order_id"`
	SKU      SKU          `json:"sku" yaml:"sku"`
	Date     time.Time    `json:"date" yaml:"date"`
	DueDate  time.Time    `json:"due_date" yaml:"due_date"`
	Priority int          `json:"priority" yaml:"priority"`
	Quantity Cases        `json:"quantity" yaml:"quantity"`
	Reason   CapacityFlag `json:"reason" yaml:"reason"`
}

// LineLoad summarises how much of a line's day was consumed
type LineLoad struct {
	Line            LineID          `json:"line" yaml:"line"`
	Date            time.Time       `json:"date" yaml:"date"`
	AvailableHours  decimal.Decimal `json:"available_hours" yaml:"available_hours"`
	ProductionHours decimal.Decimal `json:"production_hours" yaml:"production_hours"`
	ChangeoverHours decimal.Decimal `json:"changeover_hours" yaml:"changeover_hours"`
	Cases           Cases           `json:"cases" yaml:"cases"`
}

// UsedHours returns production plus changeover hours
func (l LineLoad) UsedHours() decimal.Decimal {
	return l.ProductionHours.Add(l.ChangeoverHours)
}
