// Package mrp explodes a production plan into time-phased material requirements.
package mrp

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/plantplan/pkg/application/dto"
	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/domain/repositories"
	"github.com/vsinha/plantplan/pkg/infrastructure/logger"
)

// MRPService runs the explosion, the per-material ledger fold and shortage classification
type MRPService struct {
	log logger.Logger
}

// NewMRPService creates a new MRP service. A nil logger discards output.
func NewMRPService(log logger.Logger) *MRPService {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &MRPService{log: log}
}

// Explode converts the SKU/day plan into material requirements, shortage exceptions,
// ledger summaries and data-integrity warnings
func (s *MRPService) Explode(
	ctx context.Context,
	plan []entities.PlannedProduction,
	bomRepo repositories.BOMRepository,
	inventoryRepo repositories.InventoryRepository,
	supplierRepo repositories.SupplierRepository,
) (*dto.MRPResult, error) {
	gross, warnings, err := explodePlan(plan, bomRepo)
	if err != nil {
		return nil, err
	}

	result := &dto.MRPResult{Warnings: warnings}
	horizonStart, horizonEnd := gross.horizonStart(), gross.horizonEnd()

	for _, material := range gross.materials() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		opening := decimal.Zero
		policy, err := inventoryRepo.GetPolicy(string(material))
		if err == nil {
			opening = policy.OnHand
		} else {
			result.Warnings = append(result.Warnings, entities.IntegrityWarning{
				Kind:     entities.WarningNoInventoryRecord,
				Subject:  string(material),
				Quantity: decimal.Zero,
				Detail:   "material has no inventory record; opening balance is zero",
			})
		}

		if !supplierRepo.HasSupplier(material) {
			result.Warnings = append(result.Warnings, entities.IntegrityWarning{
				Kind:     entities.WarningNoSupplierRecord,
				Subject:  string(material),
				Quantity: totalOf(gross.quantities[material]),
				Detail:   "required material has no supplier record",
			})
		}

		receipts, err := supplierRepo.GetReceipts(material)
		if err != nil {
			return nil, fmt.Errorf("failed to get receipts for %s: %w", material, err)
		}

		ledger := newMaterialLedger(material, opening, receipts, gross.quantities[material], horizonStart, horizonEnd)
		rows, summary := ledger.fold()
		result.Requirements = append(result.Requirements, rows...)
		result.Ledgers = append(result.Ledgers, summary)

		for _, row := range rows {
			if !row.ClosingBalance.IsNegative() {
				continue
			}
			exception, err := s.classify(row, receipts, gross.affectedSKUs(material, row.Date), inventoryRepo, supplierRepo)
			if err != nil {
				return nil, err
			}
			result.Exceptions = append(result.Exceptions, exception)
		}
	}

	entities.SortWarnings(result.Warnings)

	s.log.Infof("exploded %d plan rows into %d requirements across %d materials, %d shortages",
		len(plan), len(result.Requirements), len(result.Ledgers), len(result.Exceptions))

	return result, nil
}

// classify builds the exception row for a shortage and picks the suggested action:
// expedite an open receipt, else substitute an alternate, else re-sequence production
func (s *MRPService) classify(
	row entities.MaterialRequirement,
	receipts []*entities.SupplierReceipt,
	affected []entities.SKU,
	inventoryRepo repositories.InventoryRepository,
	supplierRepo repositories.SupplierRepository,
) (entities.ExceptionRecord, error) {
	deficit := row.ClosingBalance.Neg()
	exception := entities.ExceptionRecord{
		Material:     row.Material,
		Date:         row.Date,
		ShortageQty:  row.NetShortage,
		ETA:          resolvingETA(receipts, row.Date, deficit),
		AffectedSKUs: affected,
	}

	if hasLaterReceipt(receipts, row.Date) {
		exception.Action = entities.ActionExpedite
		return exception, nil
	}

	alternates, err := supplierRepo.GetAlternates(row.Material)
	if err != nil {
		return exception, fmt.Errorf("failed to get alternates for %s: %w", row.Material, err)
	}
	if best := SelectBestAlternateWithInventory(alternates, row.NetShortage, inventoryRepo); best != nil {
		exception.Action = entities.ActionSubstitute
		exception.SubstituteMaterial = best.Alternate
		return exception, nil
	}

	exception.Action = entities.ActionResequence
	s.log.Debugf("no receipt or alternate for %s on %s", row.Material, entities.FormatDate(row.Date))
	return exception, nil
}

func totalOf(byDate map[time.Time]decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, qty := range byDate {
		total = total.Add(qty)
	}
	return total
}
