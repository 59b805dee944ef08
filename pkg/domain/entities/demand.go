package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Priority classes accepted in place of numeric priorities
const (
	PriorityLow    = 1
	PriorityMedium = 2
	PriorityHigh   = 3
)

// DemandRecord represents an order or forecast line that must be produced
type DemandRecord struct {
	OrderID  string
	Customer string
	SKU      SKU
	Date     time.Time
	DueDate  time.Time
	Quantity Cases
	Priority int
}

// NewDemandRecord creates a validated DemandRecord. A zero due date defaults to the demand date.
func NewDemandRecord(orderID string, sku SKU, date, dueDate time.Time, quantity Cases, priority int) (*DemandRecord, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id cannot be empty")
	}
	if string(sku) == "" {
		return nil, fmt.Errorf("sku cannot be empty")
	}
	if date.IsZero() {
		return nil, fmt.Errorf("date cannot be empty")
	}
	if quantity < 0 {
		return nil, fmt.Errorf("quantity cannot be negative, got %d", quantity)
	}
	if dueDate.IsZero() {
		dueDate = date
	}

	return &DemandRecord{
		OrderID:  orderID,
		SKU:      sku,
		Date:     date,
		DueDate:  dueDate,
		Quantity: quantity,
		Priority: priority,
	}, nil
}

// ParsePriority accepts an integer or one of HIGH, MED, MEDIUM, LOW
func ParsePriority(s string) (int, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "HIGH":
		return PriorityHigh, nil
	case "MED", "MEDIUM":
		return PriorityMedium, nil
	case "LOW":
		return PriorityLow, nil
	}
	p, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid priority: %s (expected integer, HIGH, MED or LOW)", s)
	}
	return p, nil
}
