package output

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/vsinha/plantplan/pkg/application/dto"
)

// maxTextRows caps each table in the text report
const maxTextRows = 10

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5B8DEF"))
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	redStyle    = lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("#E5484D"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
)

// WriteText renders the run summary and the leading rows of the exception tables
func WriteText(w io.Writer, result *dto.PlanningResult) error {
	s := Summarize(result)
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Plant plan %s → %s", s.PlanningStart, s.PlanningEnd)))
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("run " + s.RunID))
	b.WriteString("\n\n")

	kpis := [][]string{}
	if s.Demand != nil {
		kpis = append(kpis,
			[]string{"demand records", fmt.Sprint(s.Demand.Records)},
			[]string{"assigned cases", fmt.Sprint(s.Demand.AssignedCases)},
			[]string{"unmet cases", fmt.Sprint(s.Demand.UnmetCases)},
			[]string{"fill rate %", s.Demand.FillRatePct},
		)
	}
	if s.MRP != nil {
		kpis = append(kpis,
			[]string{"materials", fmt.Sprint(s.MRP.Materials)},
			[]string{"shortages", fmt.Sprint(s.MRP.Shortages)},
		)
	}
	if s.Policy != nil {
		kpis = append(kpis, []string{"policy RED/GREEN/YELLOW/GREY", fmt.Sprintf("%d/%d/%d/%d",
			s.Policy["RED"], s.Policy["GREEN"], s.Policy["YELLOW"], s.Policy["GREY"])})
	}
	kpis = append(kpis, []string{"data-integrity warnings", fmt.Sprint(len(result.Warnings))})
	b.WriteString(render([]string{"metric", "value"}, kpis, -1))
	b.WriteString("\n")

	if result.Schedule != nil && len(result.Schedule.Unmet) > 0 {
		t := UnmetTable(result.Schedule.Unmet)
		b.WriteString(section("Unmet demand (OTIF risk)", t, -1))
	}
	if result.MRP != nil && len(result.MRP.Exceptions) > 0 {
		t := ExceptionsTable(result.MRP.Exceptions)
		b.WriteString(section("Material shortages", t, -1))
	}
	if result.Policy != nil {
		t := PolicyTable(result.Policy)
		sort.SliceStable(t.Rows, func(i, j int) bool { return t.Rows[i][8] == "RED" && t.Rows[j][8] != "RED" })
		b.WriteString(section("Inventory policy", t, 8))
	}
	if len(result.Warnings) > 0 {
		b.WriteString(section("Data integrity", IntegrityTable(result.Warnings), -1))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func section(title string, t Table, statusCol int) string {
	rows := t.Rows
	more := ""
	if len(rows) > maxTextRows {
		more = mutedStyle.Render(fmt.Sprintf("… %d more in %s", len(rows)-maxTextRows, t.Name)) + "\n"
		rows = rows[:maxTextRows]
	}
	return titleStyle.Render(title) + "\n" + render(t.Header, rows, statusCol) + "\n" + more + "\n"
}

// render draws a bordered table. Rows whose statusCol reads RED are highlighted.
func render(header []string, rows [][]string, statusCol int) string {
	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(borderStyle).
		Headers(header...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if statusCol >= 0 && row >= 0 && row < len(rows) && rows[row][statusCol] == "RED" {
				return redStyle
			}
			return cellStyle
		}).
		String()
}
