// Package metrics records planning run outcomes as prometheus collectors.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vsinha/plantplan/pkg/application/dto"
	"github.com/vsinha/plantplan/pkg/domain/entities"
)

// RunMetrics records the outcome of planning runs in Prometheus metrics.
type RunMetrics struct {
	demandCases  *prometheus.CounterVec
	scheduleRows *prometheus.CounterVec
	shortages    *prometheus.CounterVec
	warnings     *prometheus.CounterVec
	policyRows   *prometheus.CounterVec
	stageTime    *prometheus.HistogramVec
}

// NewRunMetrics registers run metrics on the provided Prometheus registerer.
// If reg is nil, the default registerer is used. If the collectors are already
// registered, the existing ones are reused.
func NewRunMetrics(reg prometheus.Registerer) (*RunMetrics, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	demandCases, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plantplan_demand_cases_total",
		Help: "Demand cases by scheduling outcome",
	}, []string{"outcome"}))
	if err != nil {
		return nil, err
	}
	scheduleRows, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plantplan_schedule_rows_total",
		Help: "Schedule assignment rows by capacity flag",
	}, []string{"capacity_flag"}))
	if err != nil {
		return nil, err
	}
	shortages, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plantplan_material_shortages_total",
		Help: "Material shortage exceptions by suggested action",
	}, []string{"action"}))
	if err != nil {
		return nil, err
	}
	warnings, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plantplan_integrity_warnings_total",
		Help: "Data-integrity warnings by kind",
	}, []string{"kind"}))
	if err != nil {
		return nil, err
	}
	policyRows, err := register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plantplan_policy_positions_total",
		Help: "Inventory positions by policy flag",
	}, []string{"policy_flag"}))
	if err != nil {
		return nil, err
	}
	stageTime, err := register(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plantplan_stage_duration_seconds",
		Help:    "Wall time of each pipeline stage",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"}))
	if err != nil {
		return nil, err
	}

	return &RunMetrics{
		demandCases:  demandCases,
		scheduleRows: scheduleRows,
		shortages:    shortages,
		warnings:     warnings,
		policyRows:   policyRows,
		stageTime:    stageTime,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := are.ExistingCollector.(C)
			if !ok {
				return c, fmt.Errorf("collector type mismatch: %w", err)
			}
			return existing, nil
		}
		return c, err
	}
	return c, nil
}

// RecordSchedule counts assigned and unmet cases and rows per capacity flag.
func (m *RunMetrics) RecordSchedule(res *dto.ScheduleResult) {
	for _, a := range res.Assignments {
		m.demandCases.WithLabelValues("assigned").Add(float64(a.Quantity))
		m.demandCases.WithLabelValues("unmet").Add(float64(a.UnmetQuantity))
		m.scheduleRows.WithLabelValues(string(a.CapacityFlag)).Inc()
	}
}

// RecordMRP counts shortages per suggested action.
func (m *RunMetrics) RecordMRP(res *dto.MRPResult) {
	for _, e := range res.Exceptions {
		m.shortages.WithLabelValues(string(e.Action)).Inc()
	}
}

// RecordWarnings counts integrity warnings per kind.
func (m *RunMetrics) RecordWarnings(warnings []entities.IntegrityWarning) {
	for _, w := range warnings {
		m.warnings.WithLabelValues(string(w.Kind)).Inc()
	}
}

// RecordPolicy counts adherence rows per policy flag.
func (m *RunMetrics) RecordPolicy(rows []entities.PolicyAdherence) {
	for _, r := range rows {
		m.policyRows.WithLabelValues(string(r.Flag)).Inc()
	}
}

// ObserveStage records how long a pipeline stage took.
func (m *RunMetrics) ObserveStage(stage string, d time.Duration) {
	m.stageTime.WithLabelValues(stage).Observe(d.Seconds())
}

// WriteTextfile writes everything the gatherer holds in the node-exporter textfile format.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
