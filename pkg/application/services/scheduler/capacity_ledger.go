package scheduler

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/plantplan/pkg/domain/entities"
)

var minutesPerHour = decimal.NewFromInt(60)

// lineDay tracks what a single line has committed on one planning date.
// Usage is kept as whole cases and changeover minutes; hours are derived only for reporting.
type lineDay struct {
	line              *entities.Line
	available         decimal.Decimal
	cases             entities.Cases
	changeoverMinutes int
	lastSKU           entities.SKU
}

// capacityCases returns the cases the line can still make if extraMinutes of changeover
// were charged on top of what is already committed
func (d *lineDay) capacityCases(extraMinutes int) entities.Cases {
	minutes := decimal.NewFromInt(int64(d.changeoverMinutes + extraMinutes))
	budget := d.available.Mul(minutesPerHour).Sub(minutes)
	if !budget.IsPositive() {
		return 0
	}
	// exact floor of budget×rate/60
	whole, _ := budget.Mul(d.line.RateCasesPerHour).QuoRem(minutesPerHour, 0)
	left := entities.Cases(whole.IntPart()) - d.cases
	if left < 0 {
		return 0
	}
	return left
}

func (d *lineDay) changeoverHours() decimal.Decimal {
	return decimal.NewFromInt(int64(d.changeoverMinutes)).Div(minutesPerHour)
}

// productionHours never exceeds the hours left after changeover
func (d *lineDay) productionHours() decimal.Decimal {
	if d.cases == 0 {
		return decimal.Zero
	}
	hours := decimal.NewFromInt(int64(d.cases)).Div(d.line.RateCasesPerHour)
	ceiling := d.available.Sub(d.changeoverHours())
	if hours.GreaterThan(ceiling) {
		return ceiling
	}
	return hours
}

// capacityLedger holds the per-line state for one planning date.
// A fresh ledger is built for every date so no capacity carries over.
type capacityLedger struct {
	days map[entities.LineID]*lineDay
}

func newCapacityLedger(lines []*entities.Line) *capacityLedger {
	ledger := &capacityLedger{days: make(map[entities.LineID]*lineDay, len(lines))}
	for _, line := range lines {
		ledger.days[line.ID] = &lineDay{line: line, available: line.AvailableHours()}
	}
	return ledger
}

// remainingCases returns the whole cases the line could still produce, ignoring changeover
func (c *capacityLedger) remainingCases(id entities.LineID) entities.Cases {
	day, ok := c.days[id]
	if !ok {
		return 0
	}
	return day.capacityCases(0)
}

// selectLine picks the eligible line with the most remaining producible cases.
// Candidates arrive sorted by line id, so keeping the first maximum breaks ties by lowest id.
func (c *capacityLedger) selectLine(candidates []*entities.Line) *entities.Line {
	var best *entities.Line
	var bestCases entities.Cases = -1
	for _, line := range candidates {
		cases := c.remainingCases(line.ID)
		if cases > bestCases {
			best = line
			bestCases = cases
		}
	}
	return best
}

// allocation is the outcome of placing one demand on one line
type allocation struct {
	quantity          entities.Cases
	changeoverMinutes int
}

// allocate assigns up to quantity cases of sku to the line.
// Changeover is deducted before the producible quantity is computed; an allocation that
// yields no cases is not charged changeover and leaves the line's last SKU unchanged.
func (c *capacityLedger) allocate(id entities.LineID, sku entities.SKU, quantity entities.Cases, changeoverMinutes int) allocation {
	day, ok := c.days[id]
	if !ok || quantity <= 0 {
		return allocation{}
	}

	minutes := 0
	if day.lastSKU != "" && day.lastSKU != sku {
		minutes = changeoverMinutes
	}

	assigned := quantity
	if producible := day.capacityCases(minutes); producible < assigned {
		assigned = producible
	}
	if assigned <= 0 {
		return allocation{}
	}

	day.cases += assigned
	day.changeoverMinutes += minutes
	day.lastSKU = sku

	return allocation{quantity: assigned, changeoverMinutes: minutes}
}

// loads returns the consumed capacity of every line on this date
func (c *capacityLedger) loads(date time.Time) []entities.LineLoad {
	loads := make([]entities.LineLoad, 0, len(c.days))
	for id, day := range c.days {
		loads = append(loads, entities.LineLoad{
			Line:            id,
			Date:            date,
			AvailableHours:  day.available,
			ProductionHours: day.productionHours(),
			ChangeoverHours: day.changeoverHours(),
			Cases:           day.cases,
		})
	}
	return loads
}
