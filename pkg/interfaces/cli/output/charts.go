package output

import (
	"fmt"
	"html"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vsinha/plantplan/pkg/application/dto"
	"github.com/vsinha/plantplan/pkg/domain/entities"
)

// Chart file names, relative to the output directory
const (
	ChartsDir     = "charts"
	LineLoadChart = "line_load.svg"
	OTIFRiskChart = "otif_risk.svg"
)

// GridChart draws one horizontal bar per (row, date) cell
type GridChart struct {
	Title        string
	Unit         string
	CellWidth    int
	RowHeight    int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	Rows         []string
	Dates        []time.Time
	cells        map[string]map[time.Time]gridCell
	scale        decimal.Decimal
}

type gridCell struct {
	value decimal.Decimal
	label string
	color string
}

func newGridChart(title, unit string) *GridChart {
	return &GridChart{
		Title:        title,
		Unit:         unit,
		CellWidth:    120,
		RowHeight:    28,
		MarginLeft:   160,
		MarginTop:    60,
		MarginRight:  40,
		MarginBottom: 50,
		cells:        make(map[string]map[time.Time]gridCell),
		scale:        decimal.Zero,
	}
}

func (gc *GridChart) set(row string, date time.Time, cell gridCell) {
	if gc.cells[row] == nil {
		gc.cells[row] = make(map[time.Time]gridCell)
		gc.Rows = append(gc.Rows, row)
	}
	if _, ok := gc.cells[row][date]; !ok {
		seen := false
		for _, d := range gc.Dates {
			if d.Equal(date) {
				seen = true
				break
			}
		}
		if !seen {
			gc.Dates = append(gc.Dates, date)
		}
	}
	gc.cells[row][date] = cell
	if cell.value.GreaterThan(gc.scale) {
		gc.scale = cell.value
	}
}

// Width returns the rendered width in pixels
func (gc *GridChart) Width() int {
	return gc.MarginLeft + len(gc.Dates)*gc.CellWidth + gc.MarginRight
}

// Height returns the rendered height in pixels
func (gc *GridChart) Height() int {
	rows := len(gc.Rows)
	if rows == 0 {
		rows = 1
	}
	return gc.MarginTop + rows*gc.RowHeight + gc.MarginBottom
}

// SVG renders the chart
func (gc *GridChart) SVG() string {
	sort.Strings(gc.Rows)
	sort.Slice(gc.Dates, func(i, j int) bool { return gc.Dates[i].Before(gc.Dates[j]) })

	if len(gc.Rows) == 0 {
		return gc.emptySVG()
	}

	width, height := gc.Width(), gc.Height()
	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, width, height))
	svg.WriteString(`<defs><style>`)
	svg.WriteString(`.row-label { font-family: Arial, sans-serif; font-size: 12px; fill: #333; }`)
	svg.WriteString(`.date-label { font-family: Arial, sans-serif; font-size: 10px; fill: #666; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 16px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.grid-line { stroke: #e0e0e0; stroke-width: 1; }`)
	svg.WriteString(`.cell-text { font-family: Arial, sans-serif; font-size: 9px; fill: #222; }`)
	svg.WriteString(`</style></defs>`)
	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, width, height))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="30" class="title">%s</text>`, gc.MarginLeft, html.EscapeString(gc.Title)))

	gridBottom := gc.MarginTop + len(gc.Rows)*gc.RowHeight
	for i, date := range gc.Dates {
		x := gc.MarginLeft + i*gc.CellWidth
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			x, gc.MarginTop, x, gridBottom))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="date-label" text-anchor="middle">%s</text>`,
			x+gc.CellWidth/2, gridBottom+15, entities.FormatDate(date)))
	}

	for r, row := range gc.Rows {
		y := gc.MarginTop + r*gc.RowHeight
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="row-label" text-anchor="end">%s</text>`,
			gc.MarginLeft-10, y+gc.RowHeight/2+4, html.EscapeString(row)))
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			gc.MarginLeft, y+gc.RowHeight, width-gc.MarginRight, y+gc.RowHeight))

		for i, date := range gc.Dates {
			cell, ok := gc.cells[row][date]
			if !ok {
				continue
			}
			gc.drawCell(&svg, row, date, cell, gc.MarginLeft+i*gc.CellWidth, y)
		}
	}

	svg.WriteString(`</svg>`)
	return svg.String()
}

func (gc *GridChart) drawCell(svg *strings.Builder, row string, date time.Time, cell gridCell, x, y int) {
	maxWidth := gc.CellWidth - 8
	barWidth := 0
	if gc.scale.IsPositive() {
		barWidth = int(cell.value.Div(gc.scale).Mul(decimal.NewFromInt(int64(maxWidth))).IntPart())
	}
	if barWidth < 2 && cell.value.IsPositive() {
		barWidth = 2
	}
	svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s">`,
		x+4, y+4, barWidth, gc.RowHeight-8, cell.color))
	svg.WriteString(fmt.Sprintf(`<title>%s %s: %s %s</title></rect>`,
		html.EscapeString(row), entities.FormatDate(date), cell.label, gc.Unit))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="cell-text">%s</text>`,
		x+6, y+gc.RowHeight/2+3, cell.label))
}

func (gc *GridChart) emptySVG() string {
	width, height := 600, 160
	return fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`+
		`<rect width="%d" height="%d" fill="white"/>`+
		`<text x="%d" y="%d" style="font-family: Arial, sans-serif; font-size: 16px; fill: #666;" text-anchor="middle">%s: nothing to plot</text>`+
		`</svg>`, width, height, width, height, width/2, height/2, html.EscapeString(gc.Title))
}

// LineLoadSVG plots utilization per line and date
func LineLoadSVG(result *dto.ScheduleResult) string {
	gc := newGridChart("Line load (utilization %)", "%")
	gc.scale = decimal.NewFromInt(100)
	for _, l := range result.LineLoads {
		u := utilization(l)
		gc.set(string(l.Line), l.Date, gridCell{value: u, label: u.StringFixed(1), color: loadColor(u)})
	}
	return gc.SVG()
}

// OTIFRiskSVG plots unmet cases per SKU and date
func OTIFRiskSVG(result *dto.ScheduleResult) string {
	gc := newGridChart("OTIF risk (unmet cases)", "cases")
	totals := make(map[string]map[time.Time]entities.Cases)
	for _, u := range result.Unmet {
		sku := string(u.SKU)
		if totals[sku] == nil {
			totals[sku] = make(map[time.Time]entities.Cases)
		}
		totals[sku][u.Date] += u.Quantity
	}
	for sku, byDate := range totals {
		for date, n := range byDate {
			gc.set(sku, date, gridCell{value: decimal.NewFromInt(int64(n)), label: cases(n), color: "#E5484D"})
		}
	}
	return gc.SVG()
}

func loadColor(pct decimal.Decimal) string {
	switch {
	case pct.GreaterThanOrEqual(decimal.NewFromInt(95)):
		return "#E5484D"
	case pct.GreaterThanOrEqual(decimal.NewFromInt(75)):
		return "#FF9800"
	default:
		return "#4CAF50"
	}
}

// WriteCharts writes the line load and OTIF risk charts under dir/charts
func WriteCharts(dir string, result *dto.ScheduleResult) ([]string, error) {
	chartDir := filepath.Join(dir, ChartsDir)
	if err := os.MkdirAll(chartDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}

	charts := []struct {
		name string
		svg  string
	}{
		{LineLoadChart, LineLoadSVG(result)},
		{OTIFRiskChart, OTIFRiskSVG(result)},
	}

	var paths []string
	for _, c := range charts {
		path := filepath.Join(chartDir, c.name)
		if err := os.WriteFile(path, []byte(c.svg), 0o644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
