// Package orchestration runs the planning pipeline: Scheduler then MRP, with the policy evaluator alongside.
package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/vsinha/plantplan/pkg/application/dto"
	"github.com/vsinha/plantplan/pkg/application/services/mrp"
	"github.com/vsinha/plantplan/pkg/application/services/policy"
	"github.com/vsinha/plantplan/pkg/application/services/scheduler"
	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/domain/repositories"
	"github.com/vsinha/plantplan/pkg/domain/services"
	"github.com/vsinha/plantplan/pkg/infrastructure/events"
	"github.com/vsinha/plantplan/pkg/infrastructure/logger"
)

// Stage names used for timing
const (
	StageSchedule = "schedule"
	StageMRP      = "mrp"
	StagePolicy   = "policy"
)

// MetricsRecorder receives the outcome of every stage
type MetricsRecorder interface {
	RecordSchedule(res *dto.ScheduleResult)
	RecordMRP(res *dto.MRPResult)
	RecordPolicy(rows []entities.PolicyAdherence)
	RecordWarnings(warnings []entities.IntegrityWarning)
	ObserveStage(stage string, d time.Duration)
}

// NopMetrics discards everything
type NopMetrics struct{}

func (NopMetrics) RecordSchedule(*dto.ScheduleResult)         {}
func (NopMetrics) RecordMRP(*dto.MRPResult)                   {}
func (NopMetrics) RecordPolicy([]entities.PolicyAdherence)    {}
func (NopMetrics) RecordWarnings([]entities.IntegrityWarning) {}
func (NopMetrics) ObserveStage(string, time.Duration)         {}

// Config holds pipeline settings
type Config struct {
	ChangeoverMinutes int
	UsageWindowDays   int
}

// Inputs is the complete input snapshot of a run
type Inputs struct {
	Demands   repositories.DemandRepository
	Lines     repositories.LineRepository
	BOM       repositories.BOMRepository
	Inventory repositories.InventoryRepository
	Suppliers repositories.SupplierRepository
	Catalog   []*entities.SKUProfile
}

// PlanningOrchestrator coordinates the scheduler, the MRP engine and the policy evaluator
type PlanningOrchestrator struct {
	config    Config
	scheduler *scheduler.DailyScheduler
	mrp       *mrp.MRPService
	policy    *policy.Evaluator
	validator *services.InputValidator
	metrics   MetricsRecorder
	events    events.Journal
	log       logger.Logger
}

// NewPlanningOrchestrator creates a new planning orchestrator. Nil metrics and logger are replaced by no-ops.
func NewPlanningOrchestrator(config Config, metrics MetricsRecorder, log logger.Logger) *PlanningOrchestrator {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if config.UsageWindowDays <= 0 {
		config.UsageWindowDays = policy.DefaultUsageWindowDays
	}
	return &PlanningOrchestrator{
		config:    config,
		scheduler: scheduler.NewDailyScheduler(scheduler.Config{ChangeoverMinutes: config.ChangeoverMinutes}, log),
		mrp:       mrp.NewMRPService(log),
		policy:    policy.NewEvaluator(log),
		validator: services.NewInputValidator(),
		metrics:   metrics,
		log:       log,
	}
}

// RunCompletePlanning validates the inputs, schedules demand, explodes the resulting plan
// and evaluates inventory policy
func (po *PlanningOrchestrator) RunCompletePlanning(ctx context.Context, runID string, in Inputs) (*dto.PlanningResult, error) {
	result, demands, err := po.start(runID, in)
	if err != nil {
		return nil, err
	}

	if result.Schedule, err = po.schedule(ctx, demands, in); err != nil {
		return nil, err
	}
	if result.MRP, err = po.explode(ctx, result.Schedule.Plan, in); err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, result.MRP.Warnings...)
	if result.Policy, err = po.evaluate(ctx, demands, in); err != nil {
		return nil, err
	}

	return po.finish(result)
}

// RunSchedule runs only the scheduler
func (po *PlanningOrchestrator) RunSchedule(ctx context.Context, runID string, in Inputs) (*dto.PlanningResult, error) {
	result, demands, err := po.start(runID, in)
	if err != nil {
		return nil, err
	}
	if result.Schedule, err = po.schedule(ctx, demands, in); err != nil {
		return nil, err
	}
	return po.finish(result)
}

// RunMRP explodes an existing SKU/day plan
func (po *PlanningOrchestrator) RunMRP(ctx context.Context, runID string, plan []entities.PlannedProduction, in Inputs) (*dto.PlanningResult, error) {
	result := &dto.PlanningResult{RunID: runID}
	for _, p := range plan {
		result.PlanningStart, result.PlanningEnd = widen(result.PlanningStart, result.PlanningEnd, p.Date)
	}

	var err error
	if result.MRP, err = po.explode(ctx, plan, in); err != nil {
		return nil, err
	}
	result.Warnings = append(result.Warnings, result.MRP.Warnings...)
	return po.finish(result)
}

// RunPolicy evaluates inventory policy only
func (po *PlanningOrchestrator) RunPolicy(ctx context.Context, runID string, in Inputs) (*dto.PlanningResult, error) {
	result, demands, err := po.start(runID, in)
	if err != nil {
		return nil, err
	}
	if result.Policy, err = po.evaluate(ctx, demands, in); err != nil {
		return nil, err
	}
	return po.finish(result)
}

// start validates the inputs and seeds the result with the planning horizon and input warnings
func (po *PlanningOrchestrator) start(runID string, in Inputs) (*dto.PlanningResult, []*entities.DemandRecord, error) {
	demands, err := in.Demands.GetDemands()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get demands: %w", err)
	}
	bom, err := in.BOM.GetAllBOMEntries()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get BOM entries: %w", err)
	}

	validation := po.validator.Validate(demands, bom, in.Catalog)
	if err := validation.Err(); err != nil {
		return nil, nil, err
	}

	result := &dto.PlanningResult{RunID: runID}
	result.Warnings = append(result.Warnings, validation.Warnings...)
	result.PlanningStart, result.PlanningEnd = in.Demands.Horizon()

	po.log.Infof("run %s: %d demand records from %s to %s", runID, len(demands),
		entities.FormatDate(result.PlanningStart), entities.FormatDate(result.PlanningEnd))
	return result, demands, nil
}

func (po *PlanningOrchestrator) schedule(ctx context.Context, demands []*entities.DemandRecord, in Inputs) (*dto.ScheduleResult, error) {
	started := time.Now()
	res, err := po.scheduler.Schedule(ctx, demands, in.Lines)
	if err != nil {
		return nil, fmt.Errorf("failed to schedule demand: %w", err)
	}
	po.metrics.ObserveStage(StageSchedule, time.Since(started))
	po.metrics.RecordSchedule(res)
	return res, nil
}

func (po *PlanningOrchestrator) explode(ctx context.Context, plan []entities.PlannedProduction, in Inputs) (*dto.MRPResult, error) {
	started := time.Now()
	res, err := po.mrp.Explode(ctx, plan, in.BOM, in.Inventory, in.Suppliers)
	if err != nil {
		return nil, fmt.Errorf("failed to run MRP explosion: %w", err)
	}
	po.metrics.ObserveStage(StageMRP, time.Since(started))
	po.metrics.RecordMRP(res)
	return res, nil
}

func (po *PlanningOrchestrator) evaluate(ctx context.Context, demands []*entities.DemandRecord, in Inputs) ([]entities.PolicyAdherence, error) {
	started := time.Now()
	usage := policy.DeriveUsage(demands, po.config.UsageWindowDays)
	rows, err := po.policy.Evaluate(ctx, in.Inventory, usage)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate inventory policy: %w", err)
	}
	po.metrics.ObserveStage(StagePolicy, time.Since(started))
	po.metrics.RecordPolicy(rows)
	return rows, nil
}

func (po *PlanningOrchestrator) finish(result *dto.PlanningResult) (*dto.PlanningResult, error) {
	entities.SortWarnings(result.Warnings)
	po.metrics.RecordWarnings(result.Warnings)
	if len(result.Warnings) > 0 {
		po.log.Warnf("run %s: %d data-integrity warnings", result.RunID, len(result.Warnings))
	}
	if err := po.journal(result); err != nil {
		return nil, fmt.Errorf("failed to journal run events: %w", err)
	}
	return result, nil
}

// SetJournal journals unmet demand, shortages and policy breaches of every run into store
func (po *PlanningOrchestrator) SetJournal(store events.Journal) {
	po.events = store
}

// journal appends the run's exception events in table order, then a completion event
func (po *PlanningOrchestrator) journal(result *dto.PlanningResult) error {
	if po.events == nil {
		return nil
	}
	stream := result.RunID
	done := events.RunCompleted{Warnings: len(result.Warnings)}
	var pending []events.Event

	if result.Schedule != nil {
		for _, a := range result.Schedule.Assignments {
			done.AssignedCases += a.Quantity
		}
		for _, u := range result.Schedule.Unmet {
			done.UnmetCases += u.Quantity
			pending = append(pending, events.New(events.DemandUnmetEvent, stream, events.DemandUnmet{Unmet: u}))
		}
	}
	if result.MRP != nil {
		done.Shortages = len(result.MRP.Exceptions)
		for _, e := range result.MRP.Exceptions {
			pending = append(pending, events.New(events.MaterialShortageEvent, stream, events.MaterialShortage{Exception: e}))
		}
	}
	for _, p := range result.Policy {
		if p.Flag == entities.PolicyUnder {
			done.PolicyBreach++
			pending = append(pending, events.New(events.PolicyBreachEvent, stream, events.PolicyBreach{Position: p}))
		}
	}
	pending = append(pending, events.New(events.RunCompletedEvent, stream, done))

	for _, e := range pending {
		if err := po.events.Append(stream, e); err != nil {
			return err
		}
	}
	return nil
}

func widen(start, end, date time.Time) (time.Time, time.Time) {
	if start.IsZero() || date.Before(start) {
		start = date
	}
	if end.IsZero() || date.After(end) {
		end = date
	}
	return start, end
}
