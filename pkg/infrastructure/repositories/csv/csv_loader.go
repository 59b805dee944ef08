package csv

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/plantplan/pkg/domain/entities"
)

// Loader handles loading planning inputs from CSV files.
// Columns are located by header name; extra columns are ignored.
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// table is a parsed CSV file with its header index
type table struct {
	name    string
	columns map[string]int
	rows    [][]string
}

// readTable reads a CSV file and checks that every required column is present
func readTable(filename, name string, required []string) (*table, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s file %s: %v", entities.ErrMalformedInput, name, filename, err)
	}
	defer file.Close()

	return parseTable(file, name, required)
}

func parseTable(r io.Reader, name string, required []string) (*table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s CSV: %v", entities.ErrMalformedInput, name, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: %s CSV must have a header row", entities.ErrMalformedInput, name)
	}

	t := &table{name: name, columns: make(map[string]int, len(records[0]))}
	for i, col := range records[0] {
		col = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))
		if _, dup := t.columns[col]; !dup {
			t.columns[col] = i
		}
	}

	var missing []string
	for _, col := range required {
		if _, ok := t.columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s CSV missing required column(s): %s",
			entities.ErrMalformedInput, name, strings.Join(missing, ", "))
	}

	for _, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		t.rows = append(t.rows, record)
	}
	return t, nil
}

// field returns the trimmed value of a column, or "" when the column or cell is absent
func (t *table) field(record []string, column string) string {
	i, ok := t.columns[column]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// rowError wraps a row-level problem as malformed input. Row numbers count the header as row 1.
func (t *table) rowError(index int, err error) error {
	return fmt.Errorf("%w: %s CSV row %d: %v", entities.ErrMalformedInput, t.name, index+2, err)
}

// LoadDemands loads orders.csv
func (l *Loader) LoadDemands(filename string) ([]*entities.DemandRecord, error) {
	t, err := readTable(filename, "orders", []string{"sku", "date", "quantity", "priority"})
	if err != nil {
		return nil, err
	}

	demands := make([]*entities.DemandRecord, 0, len(t.rows))
	for i, record := range t.rows {
		d, err := t.parseDemand(i, record)
		if err != nil {
			return nil, t.rowError(i, err)
		}
		demands = append(demands, d)
	}
	return demands, nil
}

func (t *table) parseDemand(index int, record []string) (*entities.DemandRecord, error) {
	sku := t.field(record, "sku")
	dateStr := t.field(record, "date")
	date, err := entities.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}

	var due time.Time
	if s := t.field(record, "due_date"); s != "" {
		if due, err = entities.ParseDate(s); err != nil {
			return nil, err
		}
	}

	qty, err := parseCases(t.field(record, "quantity"))
	if err != nil {
		return nil, fmt.Errorf("invalid quantity: %w", err)
	}

	priority, err := entities.ParsePriority(t.field(record, "priority"))
	if err != nil {
		return nil, err
	}

	orderID := t.field(record, "order_id")
	if orderID == "" {
		orderID = fmt.Sprintf("%s@%s#%d", sku, dateStr, index+2)
	}

	d, err := entities.NewDemandRecord(orderID, entities.SKU(sku), date, due, qty, priority)
	if err != nil {
		return nil, err
	}
	d.Customer = t.field(record, "customer")
	return d, nil
}

// LoadLines loads lines.csv
func (l *Loader) LoadLines(filename string) ([]*entities.Line, error) {
	t, err := readTable(filename, "lines",
		[]string{"line_id", "rate_cases_per_hr", "shift_hours", "downtime_hours", "eligible_skus"})
	if err != nil {
		return nil, err
	}

	lines := make([]*entities.Line, 0, len(t.rows))
	for i, record := range t.rows {
		values, err := parseDecimals(t, record, "rate_cases_per_hr", "shift_hours", "downtime_hours")
		if err != nil {
			return nil, t.rowError(i, err)
		}

		var skus []entities.SKU
		for _, s := range strings.Split(t.field(record, "eligible_skus"), "|") {
			if s = strings.TrimSpace(s); s != "" {
				skus = append(skus, entities.SKU(s))
			}
		}

		line, err := entities.NewLine(entities.LineID(t.field(record, "line_id")), values[0], values[1], values[2], skus)
		if err != nil {
			return nil, t.rowError(i, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// LoadInventory loads inventory.csv. A blank avg_daily_usage is kept as unknown.
func (l *Loader) LoadInventory(filename string) ([]*entities.InventoryPolicy, error) {
	t, err := readTable(filename, "inventory",
		[]string{"material_or_sku", "on_hand", "avg_daily_usage", "min_dos", "target_dos", "max_dos", "moq"})
	if err != nil {
		return nil, err
	}

	policies := make([]*entities.InventoryPolicy, 0, len(t.rows))
	for i, record := range t.rows {
		values, err := parseDecimals(t, record, "on_hand", "min_dos", "target_dos", "max_dos", "moq")
		if err != nil {
			return nil, t.rowError(i, err)
		}

		usage := decimal.Zero
		known := false
		if s := t.field(record, "avg_daily_usage"); s != "" {
			if usage, err = decimal.NewFromString(s); err != nil {
				return nil, t.rowError(i, fmt.Errorf("invalid avg_daily_usage: %s", s))
			}
			known = true
		}

		p, err := entities.NewInventoryPolicy(t.field(record, "material_or_sku"),
			values[0], usage, known, values[1], values[2], values[3], values[4])
		if err != nil {
			return nil, t.rowError(i, err)
		}
		policies = append(policies, p)
	}
	return policies, nil
}

// LoadBOM loads bom.csv
func (l *Loader) LoadBOM(filename string) ([]*entities.BOMEntry, error) {
	t, err := readTable(filename, "bom", []string{"sku", "material", "qty_per_unit"})
	if err != nil {
		return nil, err
	}

	entries := make([]*entities.BOMEntry, 0, len(t.rows))
	for i, record := range t.rows {
		values, err := parseDecimals(t, record, "qty_per_unit")
		if err != nil {
			return nil, t.rowError(i, err)
		}
		entry, err := entities.NewBOMEntry(entities.SKU(t.field(record, "sku")),
			entities.MaterialID(t.field(record, "material")), values[0])
		if err != nil {
			return nil, t.rowError(i, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// LoadSuppliers loads suppliers.csv
func (l *Loader) LoadSuppliers(filename string) ([]*entities.SupplierReceipt, error) {
	t, err := readTable(filename, "suppliers", []string{"material", "on_order_qty", "eta_date"})
	if err != nil {
		return nil, err
	}

	receipts := make([]*entities.SupplierReceipt, 0, len(t.rows))
	for i, record := range t.rows {
		values, err := parseDecimals(t, record, "on_order_qty")
		if err != nil {
			return nil, t.rowError(i, err)
		}

		var eta time.Time
		if s := t.field(record, "eta_date"); s != "" {
			if eta, err = entities.ParseDate(s); err != nil {
				return nil, t.rowError(i, err)
			}
		}

		receipt, err := entities.NewSupplierReceipt(entities.MaterialID(t.field(record, "material")), values[0], eta)
		if err != nil {
			return nil, t.rowError(i, err)
		}
		receipts = append(receipts, receipt)
	}
	return receipts, nil
}

// LoadAlternates loads alternates.csv. A missing file yields no alternates.
func (l *Loader) LoadAlternates(filename string) ([]*entities.MaterialAlternate, error) {
	if !exists(filename) {
		return nil, nil
	}
	t, err := readTable(filename, "alternates", []string{"material", "alternate_material"})
	if err != nil {
		return nil, err
	}

	alternates := make([]*entities.MaterialAlternate, 0, len(t.rows))
	for i, record := range t.rows {
		priority := 1
		if s := t.field(record, "priority"); s != "" {
			if priority, err = entities.ParsePriority(s); err != nil {
				return nil, t.rowError(i, err)
			}
		}
		alt, err := entities.NewMaterialAlternate(entities.MaterialID(t.field(record, "material")),
			entities.MaterialID(t.field(record, "alternate_material")), priority)
		if err != nil {
			return nil, t.rowError(i, err)
		}
		alternates = append(alternates, alt)
	}
	return alternates, nil
}

// LoadCatalog loads sku_catalog.csv. A missing file yields an empty catalog.
func (l *Loader) LoadCatalog(filename string) ([]*entities.SKUProfile, error) {
	if !exists(filename) {
		return nil, nil
	}
	t, err := readTable(filename, "sku_catalog", []string{"sku", "bottle_size", "pack", "resin"})
	if err != nil {
		return nil, err
	}

	profiles := make([]*entities.SKUProfile, 0, len(t.rows))
	for i, record := range t.rows {
		p, err := entities.NewSKUProfile(entities.SKU(t.field(record, "sku")),
			t.field(record, "bottle_size"), t.field(record, "pack"), t.field(record, "resin"))
		if err != nil {
			return nil, t.rowError(i, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// LoadPlan reads a plan_by_sku_day.csv written by a previous scheduling run
func (l *Loader) LoadPlan(filename string) ([]entities.PlannedProduction, error) {
	t, err := readTable(filename, "plan_by_sku_day", []string{"sku", "date", "quantity"})
	if err != nil {
		return nil, err
	}

	plan := make([]entities.PlannedProduction, 0, len(t.rows))
	for i, record := range t.rows {
		sku := t.field(record, "sku")
		if sku == "" {
			return nil, t.rowError(i, errors.New("sku cannot be empty"))
		}
		date, err := entities.ParseDate(t.field(record, "date"))
		if err != nil {
			return nil, t.rowError(i, err)
		}
		qty, err := parseCases(t.field(record, "quantity"))
		if err != nil {
			return nil, t.rowError(i, fmt.Errorf("invalid quantity: %w", err))
		}
		if qty < 0 {
			return nil, t.rowError(i, fmt.Errorf("quantity cannot be negative, got %d", qty))
		}
		plan = append(plan, entities.PlannedProduction{SKU: entities.SKU(sku), Date: date, Quantity: qty})
	}
	return plan, nil
}

// Helper functions for parsing CSV records

func parseDecimals(t *table, record []string, columns ...string) ([]decimal.Decimal, error) {
	values := make([]decimal.Decimal, len(columns))
	for i, col := range columns {
		s := t.field(record, col)
		v, err := decimal.NewFromString(s)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %q", col, s)
		}
		values[i] = v
	}
	return values, nil
}

// parseCases accepts whole numbers, including a trailing ".0"
func parseCases(s string) (entities.Cases, error) {
	v, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if !v.Equal(v.Truncate(0)) {
		return 0, fmt.Errorf("%q is not a whole number of cases", s)
	}
	return entities.Cases(v.IntPart()), nil
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func exists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}
