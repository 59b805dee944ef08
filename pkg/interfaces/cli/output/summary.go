package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/vsinha/plantplan/pkg/application/dto"
	"github.com/vsinha/plantplan/pkg/domain/entities"
)

// Summary is the headline view of a planning run written to summary.json and summary.yaml
type Summary struct {
	RunID         string         `json:"run_id" yaml:"run_id"`
	PlanningStart string         `json:"planning_start" yaml:"planning_start"`
	PlanningEnd   string         `json:"planning_end" yaml:"planning_end"`
	Demand        *DemandSummary `json:"demand,omitempty" yaml:"demand,omitempty"`
	MRP           *MRPSummary    `json:"mrp,omitempty" yaml:"mrp,omitempty"`
	Policy        map[string]int `json:"policy,omitempty" yaml:"policy,omitempty"`
	Warnings      map[string]int `json:"warnings" yaml:"warnings"`
}

// DemandSummary totals the scheduler outcome
type DemandSummary struct {
	Records       int            `json:"records" yaml:"records"`
	DemandCases   int64          `json:"demand_cases" yaml:"demand_cases"`
	AssignedCases int64          `json:"assigned_cases" yaml:"assigned_cases"`
	UnmetCases    int64          `json:"unmet_cases" yaml:"unmet_cases"`
	FillRatePct   string         `json:"fill_rate_pct" yaml:"fill_rate_pct"`
	ByFlag        map[string]int `json:"by_capacity_flag" yaml:"by_capacity_flag"`
}

// MRPSummary totals the explosion outcome
type MRPSummary struct {
	Materials    int            `json:"materials" yaml:"materials"`
	Requirements int            `json:"requirements" yaml:"requirements"`
	Shortages    int            `json:"shortages" yaml:"shortages"`
	ByAction     map[string]int `json:"by_action" yaml:"by_action"`
}

// Summarize builds the summary of a result
func Summarize(result *dto.PlanningResult) Summary {
	s := Summary{
		RunID:         result.RunID,
		PlanningStart: entities.FormatDate(result.PlanningStart),
		PlanningEnd:   entities.FormatDate(result.PlanningEnd),
		Warnings:      make(map[string]int),
	}

	if result.Schedule != nil {
		d := &DemandSummary{Records: len(result.Schedule.Assignments), ByFlag: make(map[string]int)}
		for _, a := range result.Schedule.Assignments {
			d.AssignedCases += int64(a.Quantity)
			d.UnmetCases += int64(a.UnmetQuantity)
			d.ByFlag[string(a.CapacityFlag)]++
		}
		d.DemandCases = d.AssignedCases + d.UnmetCases
		d.FillRatePct = fillRate(d.AssignedCases, d.DemandCases)
		s.Demand = d
	}

	if result.MRP != nil {
		m := &MRPSummary{
			Materials:    len(result.MRP.Ledgers),
			Requirements: len(result.MRP.Requirements),
			Shortages:    len(result.MRP.Exceptions),
			ByAction:     make(map[string]int),
		}
		for _, e := range result.MRP.Exceptions {
			m.ByAction[string(e.Action)]++
		}
		s.MRP = m
	}

	if result.Policy != nil {
		s.Policy = make(map[string]int)
		for _, p := range result.Policy {
			s.Policy[p.Flag.Status()]++
		}
	}

	for _, w := range result.Warnings {
		s.Warnings[string(w.Kind)]++
	}
	return s
}

func fillRate(assigned, demand int64) string {
	if demand == 0 {
		return "100.0"
	}
	return decimal.NewFromInt(assigned).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromInt(demand)).StringFixed(1)
}

// WriteJSON writes dir/summary.json
func (s Summary) WriteJSON(dir string) (string, error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal JSON: %w", err)
	}
	path := filepath.Join(dir, "summary.json")
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return "", fmt.Errorf("failed to write JSON file: %w", err)
	}
	return path, nil
}

// WriteYAML writes dir/summary.yaml
func (s Summary) WriteYAML(dir string) (string, error) {
	data, err := yaml.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to marshal YAML: %w", err)
	}
	path := filepath.Join(dir, "summary.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write YAML file: %w", err)
	}
	return path, nil
}
