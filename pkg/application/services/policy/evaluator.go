// Package policy evaluates inventory positions against Days-of-Supply policy.
package policy

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/domain/repositories"
	"github.com/vsinha/plantplan/pkg/infrastructure/logger"
)

// Evaluator computes DOS, policy flags and MOQ-rounded production recommendations
type Evaluator struct {
	log logger.Logger
}

// NewEvaluator creates an evaluator. A nil logger discards output.
func NewEvaluator(log logger.Logger) *Evaluator {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Evaluator{log: log}
}

// Evaluate produces one adherence row per snapshot row, sorted by key. Rows whose usage was
// left blank take it from derived, or zero when the key has no derived usage.
func (e *Evaluator) Evaluate(
	ctx context.Context,
	inventoryRepo repositories.InventoryRepository,
	derived map[entities.SKU]decimal.Decimal,
) ([]entities.PolicyAdherence, error) {
	policies, err := inventoryRepo.GetAllPolicies()
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory policies: %w", err)
	}

	rows := make([]entities.PolicyAdherence, 0, len(policies))
	for _, p := range policies {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		usage := p.AvgDailyUsage
		if !p.UsageKnown {
			usage = decimal.Zero
			if d, ok := derived[entities.SKU(p.Key)]; ok {
				usage = d
				e.log.Debugf("derived usage %s for %s", usage, p.Key)
			}
		}
		rows = append(rows, EvaluatePolicy(p, usage))
	}

	under := 0
	for _, r := range rows {
		if r.Flag == entities.PolicyUnder {
			under++
		}
	}
	e.log.Infof("evaluated %d inventory positions, %d under policy", len(rows), under)

	return rows, nil
}

// EvaluatePolicy evaluates a single position with the given average daily usage
func EvaluatePolicy(p *entities.InventoryPolicy, usage decimal.Decimal) entities.PolicyAdherence {
	row := entities.PolicyAdherence{
		Key:            p.Key,
		OnHand:         p.OnHand,
		AvgDailyUsage:  usage,
		DOS:            decimal.Zero,
		MinDOS:         p.MinDOS,
		TargetDOS:      p.TargetDOS,
		MaxDOS:         p.MaxDOS,
		RecommendedQty: decimal.Zero,
	}

	if !usage.IsPositive() {
		row.DOSInfinite = true
		row.Flag = entities.PolicyNoUse
		return row
	}

	row.DOS = p.OnHand.Div(usage)

	switch {
	case row.DOS.GreaterThanOrEqual(p.MaxDOS):
		row.Flag = entities.PolicyOver
		return row
	case row.DOS.LessThan(p.MinDOS):
		row.Flag = entities.PolicyUnder
	default:
		row.Flag = entities.PolicyWithin
	}

	shortfall := p.TargetDOS.Mul(usage).Sub(p.OnHand)
	row.RecommendedQty = RoundUpToMOQ(decimal.Max(shortfall, decimal.Zero), p.MOQ)
	return row
}

// RoundUpToMOQ rounds qty up to the next MOQ multiple, or to the next whole unit when MOQ is not positive
func RoundUpToMOQ(qty, moq decimal.Decimal) decimal.Decimal {
	if !qty.IsPositive() {
		return decimal.Zero
	}
	if !moq.IsPositive() {
		return qty.Ceil()
	}
	return qty.Div(moq).Ceil().Mul(moq)
}
