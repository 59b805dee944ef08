package policy

import (
	"time"

	"github.com/shopspring/decimal"
	"gonum.org/v1/gonum/stat"

	"github.com/vsinha/plantplan/pkg/domain/entities"
)

// DefaultUsageWindowDays is the demand window used to derive a missing average daily usage
const DefaultUsageWindowDays = 7

// usagePlaces bounds the precision of derived usage
const usagePlaces = 4

// DeriveUsage computes each SKU's mean daily demand over windowDays starting at the earliest
// demand date. Days without demand count as zero.
func DeriveUsage(demands []*entities.DemandRecord, windowDays int) map[entities.SKU]decimal.Decimal {
	usage := make(map[entities.SKU]decimal.Decimal)
	if len(demands) == 0 || windowDays <= 0 {
		return usage
	}

	start := demands[0].Date
	for _, d := range demands[1:] {
		if d.Date.Before(start) {
			start = d.Date
		}
	}
	end := start.AddDate(0, 0, windowDays)

	daily := make(map[entities.SKU][]float64)
	for _, d := range demands {
		if d.Date.Before(start) || !d.Date.Before(end) {
			continue
		}
		series, ok := daily[d.SKU]
		if !ok {
			series = make([]float64, windowDays)
			daily[d.SKU] = series
		}
		series[dayIndex(start, d.Date)] += float64(d.Quantity)
	}

	for sku, series := range daily {
		usage[sku] = decimal.NewFromFloat(stat.Mean(series, nil)).Round(usagePlaces)
	}
	return usage
}

func dayIndex(start, date time.Time) int {
	return int(date.Sub(start).Hours() / 24)
}
