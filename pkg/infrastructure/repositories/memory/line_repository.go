package memory

import (
	"fmt"
	"sort"

	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/domain/repositories"
)

// LineRepository provides in-memory line storage with a SKU capability index
type LineRepository struct {
	lines    []entities.Line
	linesMap map[entities.LineID]int
	bySKU    map[entities.SKU][]int
}

// NewLineRepository creates a line repository sized for the expected number of lines
func NewLineRepository(expectedLines int) *LineRepository {
	return &LineRepository{
		lines:    make([]entities.Line, 0, expectedLines),
		linesMap: make(map[entities.LineID]int, expectedLines),
		bySKU:    make(map[entities.SKU][]int),
	}
}

// Verify interface compliance
var _ repositories.LineRepository = (*LineRepository)(nil)

// LoadLines loads lines into the repository. Duplicate line ids are rejected.
func (r *LineRepository) LoadLines(lines []*entities.Line) error {
	for _, line := range lines {
		if _, exists := r.linesMap[line.ID]; exists {
			return fmt.Errorf("duplicate line id: %s", line.ID)
		}
		r.AddLine(*line)
	}
	return nil
}

// AddLine adds a line to the repository
func (r *LineRepository) AddLine(line entities.Line) {
	index := len(r.lines)
	r.linesMap[line.ID] = index
	r.lines = append(r.lines, line)
	for _, sku := range line.EligibleSKUs {
		r.bySKU[sku] = append(r.bySKU[sku], index)
	}
}

// GetAllLines returns all lines sorted by id
func (r *LineRepository) GetAllLines() ([]*entities.Line, error) {
	lines := make([]*entities.Line, 0, len(r.lines))
	for i := range r.lines {
		lines = append(lines, &r.lines[i])
	}
	sortLines(lines)
	return lines, nil
}

// EligibleLines returns the lines capable of running the SKU, sorted by id
func (r *LineRepository) EligibleLines(sku entities.SKU) []*entities.Line {
	indexes := r.bySKU[sku]
	lines := make([]*entities.Line, 0, len(indexes))
	for _, index := range indexes {
		lines = append(lines, &r.lines[index])
	}
	sortLines(lines)
	return lines
}

func sortLines(lines []*entities.Line) {
	sort.Slice(lines, func(i, j int) bool { return lines[i].ID < lines[j].ID })
}
