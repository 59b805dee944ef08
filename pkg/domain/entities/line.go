package entities

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Line represents a production line with its rate and daily capacity
type Line struct {
	ID               LineID
	RateCasesPerHour decimal.Decimal
	ShiftHours       decimal.Decimal
	DowntimeHours    decimal.Decimal
	EligibleSKUs     []SKU
}

// NewLine creates a validated Line. Eligible SKUs are de-duplicated and sorted.
func NewLine(id LineID, rate, shiftHours, downtimeHours decimal.Decimal, eligible []SKU) (*Line, error) {
	if string(id) == "" {
		return nil, fmt.Errorf("line id cannot be empty")
	}
	if !rate.IsPositive() {
		return nil, fmt.Errorf("rate must be positive, got %s", rate)
	}
	if shiftHours.IsNegative() {
		return nil, fmt.Errorf("shift hours cannot be negative, got %s", shiftHours)
	}
	if downtimeHours.IsNegative() {
		return nil, fmt.Errorf("downtime hours cannot be negative, got %s", downtimeHours)
	}

	seen := make(map[SKU]bool, len(eligible))
	skus := make([]SKU, 0, len(eligible))
	for _, sku := range eligible {
		if sku == "" || seen[sku] {
			continue
		}
		seen[sku] = true
		skus = append(skus, sku)
	}
	sort.Slice(skus, func(i, j int) bool { return skus[i] < skus[j] })

	return &Line{
		ID:               id,
		RateCasesPerHour: rate,
		ShiftHours:       shiftHours,
		DowntimeHours:    downtimeHours,
		EligibleSKUs:     skus,
	}, nil
}

// AvailableHours returns shift hours less downtime, never below zero
func (l *Line) AvailableHours() decimal.Decimal {
	hours := l.ShiftHours.Sub(l.DowntimeHours)
	if hours.IsNegative() {
		return decimal.Zero
	}
	return hours
}

// CanProduce reports whether the line is capable of running the SKU
func (l *Line) CanProduce(sku SKU) bool {
	i := sort.Search(len(l.EligibleSKUs), func(i int) bool { return l.EligibleSKUs[i] >= sku })
	return i < len(l.EligibleSKUs) && l.EligibleSKUs[i] == sku
}
