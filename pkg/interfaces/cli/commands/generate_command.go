package commands

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/infrastructure/logger"
)

// GenerateConfig holds configuration for scenario generation
type GenerateConfig struct {
	SKUs         int    // Number of finished-good SKUs
	Lines        int    // Number of production lines
	Days         int    // Planning horizon in days
	OrdersPerDay int    // Customer orders per day
	Customers    int    // Number of customers
	Start        string // First order date, YYYY-MM-DD
	OutputDir    string // Output directory for generated files
	Seed         int64  // Random seed for reproducible generation
}

// DefaultGenerateConfig mirrors a single plant with eight lines over two weeks
func DefaultGenerateConfig() GenerateConfig {
	return GenerateConfig{
		SKUs:         12,
		Lines:        8,
		Days:         14,
		OrdersPerDay: 25,
		Customers:    8,
		Start:        "2026-02-09",
		OutputDir:    "data",
		Seed:         42,
	}
}

// GenerateCommand writes a mock bottling plant in the input file layout
type GenerateCommand struct {
	config GenerateConfig
	rand   *rand.Rand
	log    logger.Logger
}

// NewGenerateCommand creates a new generate command
func NewGenerateCommand(config GenerateConfig, log logger.Logger) *GenerateCommand {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &GenerateCommand{
		config: config,
		rand:   rand.New(rand.NewSource(seed)),
		log:    log,
	}
}

func newGenerateCommand(opts *options) *cobra.Command {
	gc := DefaultGenerateConfig()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a seeded mock plant (orders, lines, BOM, inventory, suppliers)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("output") {
				gc.OutputDir = cfg.Input.Dir
			}
			return NewGenerateCommand(gc, logger.New("generate")).Execute()
		},
	}
	cmd.Flags().IntVar(&gc.SKUs, "skus", gc.SKUs, "number of SKUs")
	cmd.Flags().IntVar(&gc.Lines, "lines", gc.Lines, "number of production lines")
	cmd.Flags().IntVar(&gc.Days, "days", gc.Days, "planning horizon in days")
	cmd.Flags().IntVar(&gc.OrdersPerDay, "orders-per-day", gc.OrdersPerDay, "orders per day")
	cmd.Flags().IntVar(&gc.Customers, "customers", gc.Customers, "number of customers")
	cmd.Flags().StringVar(&gc.Start, "start", gc.Start, "first order date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&gc.OutputDir, "output", "o", gc.OutputDir, "directory receiving the generated CSV files")
	cmd.Flags().Int64Var(&gc.Seed, "seed", gc.Seed, "random seed; 0 picks one from the clock")
	return cmd
}

// mockSKU is a catalog entry plus the attributes the generator derives from it
type mockSKU struct {
	code        string
	bottleSize  string
	pack        string
	resin       string
	unitCost    float64
	palletUnits int
}

func (s mockSKU) bottlesPerCase() int64 {
	n, _ := strconv.Atoi(strings.TrimSuffix(s.pack, "pk"))
	return int64(n)
}

// Execute writes every input file
func (cmd *GenerateCommand) Execute() error {
	c := cmd.config
	if c.SKUs <= 0 || c.Lines <= 0 || c.Days <= 0 || c.OrdersPerDay < 0 || c.Customers <= 0 {
		return fmt.Errorf("skus, lines, days and customers must be positive")
	}
	start, err := entities.ParseDate(c.Start)
	if err != nil {
		return fmt.Errorf("invalid start date: %w", err)
	}
	if err := os.MkdirAll(c.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	skus := cmd.generateCatalog()
	steps := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{"sku_catalog.csv", []string{"sku", "bottle_size", "pack", "resin"}, cmd.catalogRows(skus)},
		{"lines.csv", []string{"line_id", "rate_cases_per_hr", "shift_hours", "downtime_hours", "eligible_skus"}, cmd.generateLines(skus)},
		{"bom.csv", []string{"sku", "material", "qty_per_unit"}, cmd.generateBOM(skus)},
		{"inventory.csv", []string{"material_or_sku", "on_hand", "avg_daily_usage", "min_dos", "target_dos", "max_dos", "moq"}, cmd.generateInventory(skus)},
		{"suppliers.csv", []string{"material", "on_order_qty", "eta_date"}, cmd.generateSuppliers(skus, start)},
		{"alternates.csv", []string{"material", "alternate_material", "priority"}, alternateRows()},
		{"orders.csv", []string{"order_id", "customer", "sku", "date", "due_date", "quantity", "priority"}, cmd.generateOrders(skus, start)},
	}

	for _, step := range steps {
		if err := writeCSV(filepath.Join(c.OutputDir, step.name), step.header, step.rows); err != nil {
			return err
		}
		cmd.log.Debugf("generated %s with %d rows", step.name, len(step.rows))
	}
	cmd.log.Infof("scenario generated in %s (%d skus, %d lines, %d days)", c.OutputDir, c.SKUs, c.Lines, c.Days)
	return nil
}

// generateCatalog starts from a fixed set of bottled-water SKUs and fills up with random variants
func (cmd *GenerateCommand) generateCatalog() []mockSKU {
	base := []mockSKU{
		{code: "WTR-169OZ-24PK", bottleSize: "16.9oz", pack: "24pk", resin: "PET", unitCost: 0.55},
		{code: "WTR-500ML-24PK", bottleSize: "500ml", pack: "24pk", resin: "PET", unitCost: 0.60},
		{code: "WTR-1L-12PK", bottleSize: "1L", pack: "12pk", resin: "PET", unitCost: 0.75},
		{code: "WTR-1GAL-6PK", bottleSize: "1gal", pack: "6pk", resin: "HDPE", unitCost: 1.30},
		{code: "WTR-35PK", bottleSize: "16.9oz", pack: "35pk", resin: "PET", unitCost: 0.78},
		{code: "WTR-8OZ-48PK", bottleSize: "8oz", pack: "48pk", resin: "PET", unitCost: 0.62},
	}
	sizeCost := map[string]float64{"16.9oz": 0.55, "20oz": 0.58, "700ml": 0.68, "1L": 0.75, "1.5L": 0.95}
	sizes := []string{"16.9oz", "20oz", "700ml", "1L", "1.5L"}
	packs := []string{"12pk", "24pk", "35pk", "48pk", "6pk"}

	seen := make(map[string]bool, len(base))
	for _, s := range base {
		seen[s.code] = true
	}
	// bounded so a small variant space cannot loop forever
	for attempts := 0; len(base) < cmd.config.SKUs && attempts < 1000; attempts++ {
		size := sizes[cmd.rand.Intn(len(sizes))]
		pack := packs[cmd.rand.Intn(len(packs))]
		resin := "PET"
		if pack == "6pk" && cmd.rand.Intn(2) == 0 {
			resin = "HDPE"
		}
		code := "WTR-" + strings.ToUpper(strings.ReplaceAll(size, ".", "")) + "-" + strings.ToUpper(pack)
		if resin == "HDPE" {
			code += "-HD"
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		base = append(base, mockSKU{code: code, bottleSize: size, pack: pack, resin: resin, unitCost: sizeCost[size]})
	}
	if len(base) > cmd.config.SKUs {
		base = base[:cmd.config.SKUs]
	}
	for i := range base {
		base[i].palletUnits = 40 + cmd.rand.Intn(80)
	}
	return base
}

func (cmd *GenerateCommand) catalogRows(skus []mockSKU) [][]string {
	rows := make([][]string, 0, len(skus))
	for _, s := range skus {
		rows = append(rows, []string{s.code, s.bottleSize, s.pack, s.resin})
	}
	return rows
}

// generateLines gives each line a random subset of SKUs, a rate and a shift pattern
func (cmd *GenerateCommand) generateLines(skus []mockSKU) [][]string {
	shifts := []string{"16", "20", "24"}
	rows := make([][]string, 0, cmd.config.Lines)
	for i := 1; i <= cmd.config.Lines; i++ {
		n := 3 + cmd.rand.Intn(4)
		if n > len(skus) {
			n = len(skus)
		}
		var eligible []string
		for _, idx := range cmd.rand.Perm(len(skus))[:n] {
			eligible = append(eligible, skus[idx].code)
		}
		sort.Strings(eligible)

		rate := 350 + cmd.rand.Intn(550)
		downtime := decimal.New(int64(cmd.rand.Intn(5)*5), -1) // 0 to 2 hours in half hours
		rows = append(rows, []string{
			fmt.Sprintf("L%d", i),
			strconv.Itoa(rate),
			shifts[cmd.rand.Intn(len(shifts))],
			downtime.String(),
			strings.Join(eligible, "|"),
		})
	}
	return rows
}

// generateBOM uses per-case packaging: one preform, cap and label per bottle plus carton, film and pallet share
func (cmd *GenerateCommand) generateBOM(skus []mockSKU) [][]string {
	var rows [][]string
	for _, s := range skus {
		bottles := strconv.FormatInt(s.bottlesPerCase(), 10)
		pallet := decimal.NewFromInt(1).DivRound(decimal.NewFromInt(int64(s.palletUnits)), 4)
		rows = append(rows,
			[]string{s.code, "PREFORM-" + s.resin, bottles},
			[]string{s.code, "CAP-28MM", bottles},
			[]string{s.code, "LABEL", bottles},
			[]string{s.code, "CARTON", "1"},
			[]string{s.code, "FILM", "1"},
			[]string{s.code, "PALLET", pallet.String()},
		)
	}
	return rows
}

// materialUsage estimates each material's daily draw from the average order volume
func (cmd *GenerateCommand) materialUsage(skus []mockSKU) map[string]decimal.Decimal {
	casesPerSKU := decimal.NewFromInt(int64(cmd.config.OrdersPerDay * 200)).Div(decimal.NewFromInt(int64(len(skus))))
	usage := make(map[string]decimal.Decimal)
	add := func(material string, per decimal.Decimal) {
		usage[material] = usage[material].Add(casesPerSKU.Mul(per))
	}
	for _, s := range skus {
		bottles := decimal.NewFromInt(s.bottlesPerCase())
		add("PREFORM-"+s.resin, bottles)
		add("CAP-28MM", bottles)
		add("LABEL", bottles)
		add("CARTON", decimal.NewFromInt(1))
		add("FILM", decimal.NewFromInt(1))
		add("PALLET", decimal.NewFromInt(1).Div(decimal.NewFromInt(int64(s.palletUnits))))
	}
	return usage
}

func materialsOf(usage map[string]decimal.Decimal) []string {
	materials := make([]string, 0, len(usage))
	for m := range usage {
		materials = append(materials, m)
	}
	sort.Strings(materials)
	return materials
}

// generateInventory writes material positions with estimated usage and SKU positions with blank usage,
// which the policy evaluator derives from the orders
func (cmd *GenerateCommand) generateInventory(skus []mockSKU) [][]string {
	var rows [][]string

	usage := cmd.materialUsage(skus)
	for _, m := range materialsOf(usage) {
		onHand := 20000 + cmd.rand.Intn(140000)
		rows = append(rows, []string{m, strconv.Itoa(onHand), usage[m].Round(0).String(), "2", "5", "10", "10000"})
	}
	for _, alt := range []string{"CAP-28MM-LW", "LABEL-GENERIC"} {
		rows = append(rows, []string{alt, strconv.Itoa(10000 + cmd.rand.Intn(60000)), "0", "2", "5", "10", "10000"})
	}

	// ABC class by unit cost tertile
	byCost := make([]mockSKU, len(skus))
	copy(byCost, skus)
	sort.SliceStable(byCost, func(i, j int) bool { return byCost[i].unitCost < byCost[j].unitCost })
	dos := [][3]string{{"4", "6", "10"}, {"5", "8", "12"}, {"6", "10", "14"}}
	for i, s := range byCost {
		class := i * 3 / len(byCost)
		onHand := 300 + cmd.rand.Intn(2200)
		moq := 200 + cmd.rand.Intn(700)
		rows = append(rows, []string{s.code, strconv.Itoa(onHand), "", dos[class][0], dos[class][1], dos[class][2], strconv.Itoa(moq)})
	}
	return rows
}

// generateSuppliers writes one open order per material; some have nothing on order
func (cmd *GenerateCommand) generateSuppliers(skus []mockSKU, start time.Time) [][]string {
	var rows [][]string
	for _, m := range materialsOf(cmd.materialUsage(skus)) {
		qty := cmd.rand.Intn(120000)
		if cmd.rand.Intn(5) == 0 {
			qty = 0
		}
		eta := ""
		if qty > 0 {
			eta = entities.FormatDate(start.AddDate(0, 0, 2+cmd.rand.Intn(8)))
		}
		rows = append(rows, []string{m, strconv.Itoa(qty), eta})
	}
	return rows
}

func alternateRows() [][]string {
	return [][]string{
		{"CAP-28MM", "CAP-28MM-LW", "1"},
		{"LABEL", "LABEL-GENERIC", "1"},
	}
}

// generateOrders draws daily customer orders; key customers mostly order at high priority
func (cmd *GenerateCommand) generateOrders(skus []mockSKU, start time.Time) [][]string {
	dueOffsets := []int{0, 1, 1, 2, 2, 3, 4, 5}
	var rows [][]string
	oid := 100000
	for d := 0; d < cmd.config.Days; d++ {
		day := start.AddDate(0, 0, d)
		for i := 0; i < cmd.config.OrdersPerDay; i++ {
			oid++
			sku := skus[cmd.rand.Intn(len(skus))]
			customer := fmt.Sprintf("CUST%02d", 1+cmd.rand.Intn(cmd.config.Customers))

			qty := int(cmd.rand.NormFloat64()*140 + 200)
			qty = min(max(qty, 20), 1200)
			due := day.AddDate(0, 0, dueOffsets[cmd.rand.Intn(len(dueOffsets))])

			priority := "LOW"
			switch {
			case (customer == "CUST01" || customer == "CUST02") && cmd.rand.Float64() < 0.6:
				priority = "HIGH"
			case cmd.rand.Float64() < 0.5:
				priority = "MED"
			}

			rows = append(rows, []string{
				fmt.Sprintf("SO%d", oid), customer, sku.code, entities.FormatDate(day), entities.FormatDate(due),
				strconv.Itoa(qty), priority,
			})
		}
	}
	return rows
}

func writeCSV(path string, header []string, rows [][]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return file.Close()
}
