package mrp

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/plantplan/pkg/domain/entities"
)

// ledgerEventKind orders events that fall on the same date
type ledgerEventKind int

const (
	eventOpening ledgerEventKind = iota
	eventReceipt
	eventRequirement
)

// ledgerEvent is a single movement on a material's running balance
type ledgerEvent struct {
	kind     ledgerEventKind
	date     time.Time
	quantity decimal.Decimal
}

// materialLedger is the ordered event list of one material over the planning horizon
type materialLedger struct {
	material entities.MaterialID
	events   []ledgerEvent
}

// newMaterialLedger builds the event list. Receipts due before horizonStart join the opening
// balance; receipts after horizonEnd are left out.
func newMaterialLedger(
	material entities.MaterialID,
	opening decimal.Decimal,
	receipts []*entities.SupplierReceipt,
	requirements map[time.Time]decimal.Decimal,
	horizonStart, horizonEnd time.Time,
) *materialLedger {
	ledger := &materialLedger{material: material}
	ledger.events = append(ledger.events, ledgerEvent{kind: eventOpening, quantity: opening})

	for _, r := range receipts {
		if !r.OnOrderQty.IsPositive() || r.ETA.After(horizonEnd) {
			continue
		}
		kind := eventReceipt
		if r.ETA.Before(horizonStart) {
			kind = eventOpening
		}
		ledger.events = append(ledger.events, ledgerEvent{kind: kind, date: r.ETA, quantity: r.OnOrderQty})
	}
	for date, qty := range requirements {
		ledger.events = append(ledger.events, ledgerEvent{kind: eventRequirement, date: date, quantity: qty})
	}

	sort.SliceStable(ledger.events, func(i, j int) bool {
		a, b := ledger.events[i], ledger.events[j]
		if a.kind == eventOpening || b.kind == eventOpening {
			return a.kind == eventOpening && b.kind != eventOpening
		}
		if !a.date.Equal(b.date) {
			return a.date.Before(b.date)
		}
		return a.kind < b.kind
	})
	return ledger
}

// fold walks the events in order and emits one requirement row per requirement date
// together with the horizon totals
func (l *materialLedger) fold() ([]entities.MaterialRequirement, entities.MaterialLedgerSummary) {
	summary := entities.MaterialLedgerSummary{
		Material: l.material,
		Opening:  decimal.Zero,
		Receipts: decimal.Zero,
		Required: decimal.Zero,
	}
	balance := decimal.Zero
	var rows []entities.MaterialRequirement

	for _, e := range l.events {
		switch e.kind {
		case eventOpening:
			summary.Opening = summary.Opening.Add(e.quantity)
			balance = balance.Add(e.quantity)
		case eventReceipt:
			summary.Receipts = summary.Receipts.Add(e.quantity)
			balance = balance.Add(e.quantity)
		case eventRequirement:
			available := balance
			balance = balance.Sub(e.quantity)
			summary.Required = summary.Required.Add(e.quantity)
			rows = append(rows, entities.MaterialRequirement{
				Material:       l.material,
				Date:           e.date,
				RequiredQty:    e.quantity,
				AvailableQty:   available,
				NetShortage:    netShortage(e.quantity, available),
				ClosingBalance: balance,
			})
		}
	}

	summary.Closing = balance
	return rows, summary
}

// netShortage is required less whatever non-negative balance was available
func netShortage(required, available decimal.Decimal) decimal.Decimal {
	usable := decimal.Max(available, decimal.Zero)
	return decimal.Max(required.Sub(usable), decimal.Zero)
}

// resolvingETA returns the first receipt after the need date whose cumulative quantity
// covers the deficit, or the zero time when nothing on order resolves it
func resolvingETA(receipts []*entities.SupplierReceipt, needDate time.Time, deficit decimal.Decimal) time.Time {
	cumulative := decimal.Zero
	for _, r := range receipts {
		if !r.OnOrderQty.IsPositive() || !r.ETA.After(needDate) {
			continue
		}
		cumulative = cumulative.Add(r.OnOrderQty)
		if cumulative.GreaterThanOrEqual(deficit) {
			return r.ETA
		}
	}
	return time.Time{}
}

// hasLaterReceipt reports whether any open receipt arrives after the need date
func hasLaterReceipt(receipts []*entities.SupplierReceipt, needDate time.Time) bool {
	for _, r := range receipts {
		if r.OnOrderQty.IsPositive() && r.ETA.After(needDate) {
			return true
		}
	}
	return false
}
