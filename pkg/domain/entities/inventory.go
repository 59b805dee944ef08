package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// InventoryPolicy is one row of the inventory snapshot: on-hand stock of a material or SKU
// together with its Days-of-Supply policy.
type InventoryPolicy struct {
	Key           string
	OnHand        decimal.Decimal
	AvgDailyUsage decimal.Decimal
	// UsageKnown is false when the snapshot left average daily usage blank
	UsageKnown bool
	MinDOS     decimal.Decimal
	TargetDOS  decimal.Decimal
	MaxDOS     decimal.Decimal
	MOQ        decimal.Decimal
}

// NewInventoryPolicy creates a validated InventoryPolicy
func NewInventoryPolicy(key string, onHand, usage decimal.Decimal, usageKnown bool, minDOS, targetDOS, maxDOS, moq decimal.Decimal) (*InventoryPolicy, error) {
	if key == "" {
		return nil, fmt.Errorf("material or sku cannot be empty")
	}
	if onHand.IsNegative() {
		return nil, fmt.Errorf("on hand cannot be negative, got %s", onHand)
	}
	if usage.IsNegative() {
		return nil, fmt.Errorf("average daily usage cannot be negative, got %s", usage)
	}
	if minDOS.IsNegative() {
		return nil, fmt.Errorf("min dos cannot be negative, got %s", minDOS)
	}
	if minDOS.GreaterThan(targetDOS) || targetDOS.GreaterThan(maxDOS) {
		return nil, fmt.Errorf("dos policy must satisfy min <= target <= max, got %s/%s/%s", minDOS, targetDOS, maxDOS)
	}
	if moq.IsNegative() {
		return nil, fmt.Errorf("moq cannot be negative, got %s", moq)
	}

	return &InventoryPolicy{
		Key:           key,
		OnHand:        onHand,
		AvgDailyUsage: usage,
		UsageKnown:    usageKnown,
		MinDOS:        minDOS,
		TargetDOS:     targetDOS,
		MaxDOS:        maxDOS,
		MOQ:           moq,
	}, nil
}

// SupplierReceipt represents an open purchase order for a material
type SupplierReceipt struct {
	Material   MaterialID
	OnOrderQty decimal.Decimal
	ETA        time.Time
}

// NewSupplierReceipt creates a validated SupplierReceipt. A receipt with quantity must carry an ETA.
func NewSupplierReceipt(material MaterialID, qty decimal.Decimal, eta time.Time) (*SupplierReceipt, error) {
	if string(material) == "" {
		return nil, fmt.Errorf("material cannot be empty")
	}
	if qty.IsNegative() {
		return nil, fmt.Errorf("on order quantity cannot be negative, got %s", qty)
	}
	if qty.IsPositive() && eta.IsZero() {
		return nil, fmt.Errorf("eta date is required when on order quantity is positive")
	}

	return &SupplierReceipt{
		Material:   material,
		OnOrderQty: qty,
		ETA:        eta,
	}, nil
}

// PolicyFlag classifies current Days-of-Supply against policy
type PolicyFlag string

const (
	PolicyUnder  PolicyFlag = "under_policy"
	PolicyWithin PolicyFlag = "within_policy"
	PolicyOver   PolicyFlag = "over_policy"
	PolicyNoUse  PolicyFlag = "no_usage"
)

// Status returns the traffic-light status used on adherence reports
func (f PolicyFlag) Status() string {
	switch f {
	case PolicyUnder:
		return "RED"
	case PolicyWithin:
		return "GREEN"
	case PolicyOver:
		return "YELLOW"
	default:
		return "GREY"
	}
}

// PolicyAdherence is one row of the inventory policy adherence report
type PolicyAdherence struct {
	Key           string          `json:"material_or_sku" yaml:"material_or_sku"`
	OnHand        decimal.Decimal `json:"on_hand" yaml:"on_hand"`
	AvgDailyUsage decimal.Decimal `json:"avg_daily_usage" yaml:"avg_daily_usage"`
	// DOS is meaningless when DOSInfinite is set
	DOS            decimal.Decimal `json:"dos" yaml:"dos"`
	DOSInfinite    bool            `json:"dos_infinite" yaml:"dos_infinite"`
	MinDOS         decimal.Decimal `json:"min_dos" yaml:"min_dos"`
	TargetDOS      decimal.Decimal `json:"target_dos" yaml:"target_dos"`
	MaxDOS         decimal.Decimal `json:"max_dos" yaml:"max_dos"`
	Flag           PolicyFlag      `json:"policy_flag" yaml:"policy_flag"`
	RecommendedQty decimal.Decimal `json:"recommended_production_qty" yaml:"recommended_production_qty"`
}

// FormatDOS renders DOS with two decimals or "inf" when there is no usage
func (p PolicyAdherence) FormatDOS() string {
	if p.DOSInfinite {
		return "inf"
	}
	return p.DOS.StringFixed(2)
}
