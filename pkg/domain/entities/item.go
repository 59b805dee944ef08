package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SKU represents a finished-goods stock keeping unit identifier
type SKU string

// MaterialID represents a purchased material consumed through the BOM
type MaterialID string

// LineID represents a production line identifier
type LineID string

// Cases represents an integer quantity of finished-goods cases
type Cases int64

// DateLayout is the calendar date format used by every input and output table
const DateLayout = "2006-01-02"

// ErrMalformedInput marks input that must abort a run before any output is written
var ErrMalformedInput = errors.New("malformed input")

// ParseDate parses a YYYY-MM-DD date as UTC midnight
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return d, nil
}

// FormatDate renders a date, or an empty string for the zero time
func FormatDate(d time.Time) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// SKUProfile describes the physical characteristics of a SKU
type SKUProfile struct {
	SKU        SKU
	BottleSize string
	Pack       string
	Resin      string
}

// NewSKUProfile creates a validated SKUProfile
func NewSKUProfile(sku SKU, bottleSize, pack, resin string) (*SKUProfile, error) {
	if string(sku) == "" {
		return nil, fmt.Errorf("sku cannot be empty")
	}
	return &SKUProfile{
		SKU:        sku,
		BottleSize: bottleSize,
		Pack:       pack,
		Resin:      resin,
	}, nil
}
