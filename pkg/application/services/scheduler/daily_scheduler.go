// Package scheduler allocates daily SKU demand to production lines.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/vsinha/plantplan/pkg/application/dto"
	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/domain/repositories"
	"github.com/vsinha/plantplan/pkg/infrastructure/logger"
)

// DefaultChangeoverMinutes is charged when a line switches SKU within a day
const DefaultChangeoverMinutes = 60

// Config holds scheduler tuning
type Config struct {
	ChangeoverMinutes int
}

// DailyScheduler is a greedy single-pass allocator. Each date is planned independently.
type DailyScheduler struct {
	config Config
	log    logger.Logger
}

// NewDailyScheduler creates a scheduler. A nil logger discards output.
func NewDailyScheduler(config Config, log logger.Logger) *DailyScheduler {
	if config.ChangeoverMinutes < 0 {
		config.ChangeoverMinutes = 0
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	return &DailyScheduler{config: config, log: log}
}

// indexedDemand keeps the input position of a demand for the final tie-break
type indexedDemand struct {
	demand   *entities.DemandRecord
	position int
}

// Schedule assigns every demand record to at most one eligible line on its date.
// Every record yields exactly one assignment row; any shortfall is also reported as unmet demand.
func (s *DailyScheduler) Schedule(
	ctx context.Context,
	demands []*entities.DemandRecord,
	lineRepo repositories.LineRepository,
) (*dto.ScheduleResult, error) {
	lines, err := lineRepo.GetAllLines()
	if err != nil {
		return nil, fmt.Errorf("failed to get lines: %w", err)
	}

	byDate := make(map[time.Time][]indexedDemand)
	for i, d := range demands {
		byDate[d.Date] = append(byDate[d.Date], indexedDemand{demand: d, position: i})
	}
	dates := make([]time.Time, 0, len(byDate))
	for date := range byDate {
		dates = append(dates, date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	result := &dto.ScheduleResult{
		Assignments: make([]entities.ScheduleAssignment, 0, len(demands)),
	}

	for _, date := range dates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		day := byDate[date]
		sortDemands(day)

		ledger := newCapacityLedger(lines)
		for _, item := range day {
			s.scheduleDemand(item.demand, ledger, lineRepo, result)
		}
		result.LineLoads = append(result.LineLoads, ledger.loads(date)...)

		s.log.Debugf("scheduled %d demand records for %s", len(day), entities.FormatDate(date))
	}

	result.Plan = aggregatePlan(result.Assignments)
	sort.Slice(result.LineLoads, func(i, j int) bool {
		a, b := result.LineLoads[i], result.LineLoads[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Line < b.Line
	})

	s.log.Infof("scheduled %d demand records over %d dates, %d unmet cases",
		len(demands), len(dates), result.TotalUnmet())

	return result, nil
}

func (s *DailyScheduler) scheduleDemand(
	d *entities.DemandRecord,
	ledger *capacityLedger,
	lineRepo repositories.LineRepository,
	result *dto.ScheduleResult,
) {
	assignment := entities.ScheduleAssignment{
		SKU:     d.SKU,
		Date:    d.Date,
		OrderID: d.OrderID,
	}

	eligible := lineRepo.EligibleLines(d.SKU)
	if len(eligible) == 0 {
		assignment.Line = entities.UnassignedLine
		assignment.UnmetQuantity = d.Quantity
		assignment.CapacityFlag = entities.FlagNoEligibleLine
		result.Assignments = append(result.Assignments, assignment)
		result.Unmet = append(result.Unmet, unmetFor(d, d.Quantity, entities.FlagNoEligibleLine))
		s.log.Warnf("no eligible line for sku %s (order %s)", d.SKU, d.OrderID)
		return
	}

	line := ledger.selectLine(eligible)
	alloc := ledger.allocate(line.ID, d.SKU, d.Quantity, s.config.ChangeoverMinutes)

	assignment.Line = line.ID
	assignment.Quantity = alloc.quantity
	assignment.UnmetQuantity = d.Quantity - alloc.quantity
	assignment.ChangeoverMinutes = alloc.changeoverMinutes
	assignment.CapacityFlag = entities.FlagOK
	if assignment.UnmetQuantity > 0 {
		assignment.CapacityFlag = entities.FlagCapacityExceeded
		result.Unmet = append(result.Unmet, unmetFor(d, assignment.UnmetQuantity, entities.FlagCapacityExceeded))
		s.log.Debugf("order %s on line %s short by %d cases", d.OrderID, line.ID, assignment.UnmetQuantity)
	}
	result.Assignments = append(result.Assignments, assignment)
}

// sortDemands orders a day's demand by priority desc, due date, sku, order id and input position
func sortDemands(day []indexedDemand) {
	sort.SliceStable(day, func(i, j int) bool {
		a, b := day[i].demand, day[j].demand
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if !a.DueDate.Equal(b.DueDate) {
			return a.DueDate.Before(b.DueDate)
		}
		if a.SKU != b.SKU {
			return a.SKU < b.SKU
		}
		if a.OrderID != b.OrderID {
			return a.OrderID < b.OrderID
		}
		return day[i].position < day[j].position
	})
}

func unmetFor(d *entities.DemandRecord, qty entities.Cases, reason entities.CapacityFlag) entities.UnmetDemand {
	return entities.UnmetDemand{
		OrderID:  d.OrderID,
		SKU:      d.SKU,
		Date:     d.Date,
		DueDate:  d.DueDate,
		Priority: d.Priority,
		Quantity: qty,
		Reason:   reason,
	}
}

// aggregatePlan sums assigned cases per (sku, date), dropping zero rows
func aggregatePlan(assignments []entities.ScheduleAssignment) []entities.PlannedProduction {
	type key struct {
		sku  entities.SKU
		date time.Time
	}
	totals := make(map[key]entities.Cases)
	for _, a := range assignments {
		if a.Quantity == 0 {
			continue
		}
		totals[key{a.SKU, a.Date}] += a.Quantity
	}

	plan := make([]entities.PlannedProduction, 0, len(totals))
	for k, qty := range totals {
		plan = append(plan, entities.PlannedProduction{SKU: k.sku, Date: k.date, Quantity: qty})
	}
	sort.Slice(plan, func(i, j int) bool {
		if !plan[i].Date.Equal(plan[j].Date) {
			return plan[i].Date.Before(plan[j].Date)
		}
		return plan[i].SKU < plan[j].SKU
	})
	return plan
}
