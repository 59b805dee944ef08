package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/plantplan/pkg/application/dto"
	"github.com/vsinha/plantplan/pkg/domain/entities"
)

// Table file names
const (
	ScheduleFile     = "schedule.csv"
	PlanFile         = "plan_by_sku_day.csv"
	UnmetFile        = "unmet_demand.csv"
	LineLoadFile     = "line_load.csv"
	RequirementsFile = "mrp_requirements.csv"
	ExceptionsFile   = "mrp_exceptions.csv"
	LedgerFile       = "material_ledger.csv"
	IntegrityFile    = "data_integrity.csv"
	PolicyFile       = "inventory_policy_adherence.csv"
)

// Table is a header plus rows ready for CSV or text rendering
type Table struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Tables returns every table the result carries. Stages that did not run produce no tables,
// except data_integrity which is always present.
func Tables(result *dto.PlanningResult) []Table {
	var tables []Table
	if result.Schedule != nil {
		tables = append(tables,
			ScheduleTable(result.Schedule.Assignments),
			PlanTable(result.Schedule.Plan),
			UnmetTable(result.Schedule.Unmet),
			LineLoadTable(result.Schedule.LineLoads),
		)
	}
	if result.MRP != nil {
		tables = append(tables,
			RequirementsTable(result.MRP.Requirements),
			ExceptionsTable(result.MRP.Exceptions),
			LedgerTable(result.MRP.Ledgers),
		)
	}
	if result.Policy != nil {
		tables = append(tables, PolicyTable(result.Policy))
	}
	tables = append(tables, IntegrityTable(result.Warnings))
	return tables
}

func ScheduleTable(assignments []entities.ScheduleAssignment) Table {
	t := Table{
		Name:   ScheduleFile,
		Header: []string{"line", "sku", "date", "order_id", "quantity", "unmet_quantity", "changeover_minutes", "capacity_flag"},
	}
	for _, a := range assignments {
		t.Rows = append(t.Rows, []string{
			string(a.Line), string(a.SKU), entities.FormatDate(a.Date), a.OrderID,
			cases(a.Quantity), cases(a.UnmetQuantity), strconv.Itoa(a.ChangeoverMinutes), string(a.CapacityFlag),
		})
	}
	return t
}

func PlanTable(plan []entities.PlannedProduction) Table {
	t := Table{Name: PlanFile, Header: []string{"sku", "date", "quantity"}}
	for _, p := range plan {
		t.Rows = append(t.Rows, []string{string(p.SKU), entities.FormatDate(p.Date), cases(p.Quantity)})
	}
	return t
}

func UnmetTable(unmet []entities.UnmetDemand) Table {
	t := Table{
		Name:   UnmetFile,
		Header: []string{"order_id", "sku", "date", "due_date", "priority", "unmet_quantity", "reason"},
	}
	for _, u := range unmet {
		t.Rows = append(t.Rows, []string{
			u.OrderID, string(u.SKU), entities.FormatDate(u.Date), entities.FormatDate(u.DueDate),
			strconv.Itoa(u.Priority), cases(u.Quantity), string(u.Reason),
		})
	}
	return t
}

func LineLoadTable(loads []entities.LineLoad) Table {
	t := Table{
		Name:   LineLoadFile,
		Header: []string{"line", "date", "available_hours", "production_hours", "changeover_hours", "utilization_pct", "cases"},
	}
	for _, l := range loads {
		t.Rows = append(t.Rows, []string{
			string(l.Line), entities.FormatDate(l.Date), hours(l.AvailableHours), hours(l.ProductionHours),
			hours(l.ChangeoverHours), utilization(l).StringFixed(1), cases(l.Cases),
		})
	}
	return t
}

func RequirementsTable(reqs []entities.MaterialRequirement) Table {
	t := Table{
		Name:   RequirementsFile,
		Header: []string{"material", "date", "required_qty", "available_qty", "net_shortage", "closing_balance"},
	}
	for _, r := range reqs {
		t.Rows = append(t.Rows, []string{
			string(r.Material), entities.FormatDate(r.Date), qty(r.RequiredQty), qty(r.AvailableQty),
			qty(r.NetShortage), qty(r.ClosingBalance),
		})
	}
	return t
}

func ExceptionsTable(exceptions []entities.ExceptionRecord) Table {
	t := Table{
		Name: ExceptionsFile,
		Header: []string{"material", "date", "shortage_qty", "eta", "suggested_action",
			"substitute_material", "affected_skus"},
	}
	for _, e := range exceptions {
		skus := make([]string, len(e.AffectedSKUs))
		for i, sku := range e.AffectedSKUs {
			skus[i] = string(sku)
		}
		t.Rows = append(t.Rows, []string{
			string(e.Material), entities.FormatDate(e.Date), qty(e.ShortageQty), e.FormatETA(),
			string(e.Action), string(e.SubstituteMaterial), strings.Join(skus, "|"),
		})
	}
	return t
}

func LedgerTable(ledgers []entities.MaterialLedgerSummary) Table {
	t := Table{Name: LedgerFile, Header: []string{"material", "opening", "receipts", "required", "closing"}}
	for _, l := range ledgers {
		t.Rows = append(t.Rows, []string{
			string(l.Material), qty(l.Opening), qty(l.Receipts), qty(l.Required), qty(l.Closing),
		})
	}
	return t
}

func IntegrityTable(warnings []entities.IntegrityWarning) Table {
	t := Table{Name: IntegrityFile, Header: []string{"kind", "subject", "date", "quantity", "detail"}}
	for _, w := range warnings {
		t.Rows = append(t.Rows, []string{
			string(w.Kind), w.Subject, entities.FormatDate(w.Date), qty(w.Quantity), w.Detail,
		})
	}
	return t
}

func PolicyTable(rows []entities.PolicyAdherence) Table {
	t := Table{
		Name: PolicyFile,
		Header: []string{"material_or_sku", "on_hand", "avg_daily_usage", "dos", "min_dos", "target_dos",
			"max_dos", "policy_flag", "status", "recommended_production_qty"},
	}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.Key, qty(r.OnHand), qty(r.AvgDailyUsage), r.FormatDOS(), qty(r.MinDOS), qty(r.TargetDOS),
			qty(r.MaxDOS), string(r.Flag), r.Flag.Status(), qty(r.RecommendedQty),
		})
	}
	return t
}

// WriteCSV writes the table to dir/Name
func (t Table) WriteCSV(dir string) (string, error) {
	path := filepath.Join(dir, t.Name)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(t.Header); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.WriteAll(t.Rows); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, file.Close()
}

func cases(c entities.Cases) string {
	return strconv.FormatInt(int64(c), 10)
}

// qty renders an exact decimal without trailing zeros
func qty(d decimal.Decimal) string {
	return d.String()
}

func hours(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func utilization(l entities.LineLoad) decimal.Decimal {
	if !l.AvailableHours.IsPositive() {
		return decimal.Zero
	}
	return l.UsedHours().Div(l.AvailableHours).Mul(decimal.NewFromInt(100))
}
