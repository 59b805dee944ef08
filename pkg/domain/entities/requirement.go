package entities

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// MaterialRequirement is the time-phased net requirement of a material on one date
type MaterialRequirement struct {
	Material       MaterialID      `json:"material" yaml:"material"`
	Date           time.Time       `json:"date" yaml:"date"`
	RequiredQty    decimal.Decimal `json:"required_qty" yaml:"required_qty"`
	AvailableQty   decimal.Decimal `json:"available_qty" yaml:"available_qty"`
	NetShortage    decimal.Decimal `json:"net_shortage" yaml:"net_shortage"`
	ClosingBalance decimal.Decimal `json:"closing_balance" yaml:"closing_balance"`
}

// SuggestedAction is the proposed response to a material shortage
type SuggestedAction string

const (
	ActionExpedite   SuggestedAction = "expedite"
	ActionSubstitute SuggestedAction = "substitute"
	ActionResequence SuggestedAction = "re-sequence"
)

// ExceptionRecord reports one shortage on one date.
// A zero ETA means no receipt resolves the shortage.
type ExceptionRecord struct {
	Material           MaterialID      `json:"material" yaml:"material"`
	Date               time.Time       `json:"date" yaml:"date"`
	ShortageQty        decimal.Decimal `json:"shortage_qty" yaml:"shortage_qty"`
	ETA                time.Time       `json:"eta" yaml:"eta"`
	Action             SuggestedAction `json:"suggested_action" yaml:"suggested_action"`
	SubstituteMaterial MaterialID      `json:"substitute_material,omitempty" yaml:"substitute_material,omitempty"`
	AffectedSKUs       []SKU           `json:"affected_skus" yaml:"affected_skus"`
}

// FormatETA renders the resolving ETA or "unresolved"
func (e ExceptionRecord) FormatETA() string {
	if e.ETA.IsZero() {
		return "unresolved"
	}
	return FormatDate(e.ETA)
}

// MaterialLedgerSummary totals a material's ledger over the planning horizon
type MaterialLedgerSummary struct {
	Material MaterialID      `json:"material" yaml:"material"`
	Opening  decimal.Decimal `json:"opening" yaml:"opening"`
	Receipts decimal.Decimal `json:"receipts" yaml:"receipts"`
	Required decimal.Decimal `json:"required" yaml:"required"`
	Closing  decimal.Decimal `json:"closing" yaml:"closing"`
}

// WarningKind classifies a data-integrity warning
type WarningKind string

const (
	WarningMissingBOM        WarningKind = "missing_bom"
	WarningNoSupplierRecord  WarningKind = "no_supplier_record"
	WarningNoInventoryRecord WarningKind = "no_inventory_record"
	WarningDuplicateBOM      WarningKind = "duplicate_bom_entry"
	WarningUnknownSKU        WarningKind = "unknown_sku"
)

// IntegrityWarning is a recoverable data problem surfaced as a report row
type IntegrityWarning struct {
	Kind     WarningKind     `json:"kind" yaml:"kind"`
	Subject  string          `json:"subject" yaml:"subject"`
	Date     time.Time       `json:"date" yaml:"date"`
	Quantity decimal.Decimal `json:"quantity" yaml:"quantity"`
	Detail   string          `json:"detail" yaml:"detail"`
}

// SortWarnings orders warnings by kind, subject, then date
func SortWarnings(warnings []IntegrityWarning) {
	sort.SliceStable(warnings, func(i, j int) bool {
		a, b := warnings[i], warnings[j]
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		return a.Date.Before(b.Date)
	})
}
