// Package sqlite persists planning results to a SQLite database keyed by run id.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/vsinha/plantplan/pkg/application/dto"
	"github.com/vsinha/plantplan/pkg/domain/entities"
	"github.com/vsinha/plantplan/pkg/infrastructure/events"
)

const schema = `
CREATE TABLE IF NOT EXISTS plan_runs (
    run_id TEXT PRIMARY KEY,
    saved_at INTEGER,
    planning_start TEXT,
    planning_end TEXT,
    assignments INTEGER,
    unmet_cases INTEGER,
    shortages INTEGER,
    warnings INTEGER
);
CREATE TABLE IF NOT EXISTS schedule (
    run_id TEXT, line TEXT, sku TEXT, date TEXT, order_id TEXT,
    quantity INTEGER, unmet_quantity INTEGER, changeover_minutes INTEGER, capacity_flag TEXT
);
CREATE TABLE IF NOT EXISTS plan_by_sku_day (
    run_id TEXT, sku TEXT, date TEXT, quantity INTEGER
);
CREATE TABLE IF NOT EXISTS mrp_requirements (
    run_id TEXT, material TEXT, date TEXT, required_qty TEXT,
    available_qty TEXT, net_shortage TEXT, closing_balance TEXT
);
CREATE TABLE IF NOT EXISTS mrp_exceptions (
    run_id TEXT, material TEXT, date TEXT, shortage_qty TEXT, eta TEXT,
    suggested_action TEXT, substitute_material TEXT, affected_skus TEXT
);
CREATE TABLE IF NOT EXISTS inventory_policy_adherence (
    run_id TEXT, material_or_sku TEXT, on_hand TEXT, avg_daily_usage TEXT, dos TEXT,
    policy_flag TEXT, recommended_production_qty TEXT
);
CREATE TABLE IF NOT EXISTS data_integrity (
    run_id TEXT, kind TEXT, subject TEXT, date TEXT, quantity TEXT, detail TEXT
);
CREATE TABLE IF NOT EXISTS plan_events (
    run_id TEXT, version INTEGER, type TEXT, recorded_at INTEGER, data TEXT,
    PRIMARY KEY (run_id, version)
);`

// ResultStore writes planning runs to SQLite.
type ResultStore struct {
	db *sql.DB
}

// RunSummary is the plan_runs row of one saved run.
type RunSummary struct {
	RunID       string
	SavedAt     time.Time
	Assignments int
	UnmetCases  int64
	Shortages   int
	Warnings    int
}

// NewResultStore opens or creates the database at path and ensures schema.
func NewResultStore(path string) (*ResultStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &ResultStore{db: db}, nil
}

// SaveRun writes every table of the result in a single transaction.
func (s *ResultStore) SaveRun(ctx context.Context, res *dto.PlanningResult) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var assignments, shortages int
	var unmet int64
	if res.Schedule != nil {
		assignments = len(res.Schedule.Assignments)
		unmet = int64(res.Schedule.TotalUnmet())
	}
	if res.MRP != nil {
		shortages = len(res.MRP.Exceptions)
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO plan_runs (run_id, saved_at, planning_start, planning_end, assignments, unmet_cases, shortages, warnings)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		res.RunID, time.Now().Unix(), entities.FormatDate(res.PlanningStart), entities.FormatDate(res.PlanningEnd),
		assignments, unmet, shortages, len(res.Warnings)); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if res.Schedule != nil {
		if err = s.saveSchedule(ctx, tx, res.RunID, res.Schedule); err != nil {
			return err
		}
	}
	if res.MRP != nil {
		if err = s.saveMRP(ctx, tx, res.RunID, res.MRP); err != nil {
			return err
		}
	}
	for _, p := range res.Policy {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO inventory_policy_adherence VALUES (?, ?, ?, ?, ?, ?, ?)`,
			res.RunID, p.Key, p.OnHand.String(), p.AvgDailyUsage.String(), p.FormatDOS(),
			string(p.Flag), p.RecommendedQty.String()); err != nil {
			return fmt.Errorf("insert policy row: %w", err)
		}
	}
	for _, w := range res.Warnings {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO data_integrity VALUES (?, ?, ?, ?, ?, ?)`,
			res.RunID, string(w.Kind), w.Subject, entities.FormatDate(w.Date), w.Quantity.String(), w.Detail); err != nil {
			return fmt.Errorf("insert warning: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (s *ResultStore) saveSchedule(ctx context.Context, tx *sql.Tx, runID string, sched *dto.ScheduleResult) error {
	for _, a := range sched.Assignments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO schedule VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, string(a.Line), string(a.SKU), entities.FormatDate(a.Date), a.OrderID,
			int64(a.Quantity), int64(a.UnmetQuantity), a.ChangeoverMinutes, string(a.CapacityFlag)); err != nil {
			return fmt.Errorf("insert assignment: %w", err)
		}
	}
	for _, p := range sched.Plan {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO plan_by_sku_day VALUES (?, ?, ?, ?)`,
			runID, string(p.SKU), entities.FormatDate(p.Date), int64(p.Quantity)); err != nil {
			return fmt.Errorf("insert plan row: %w", err)
		}
	}
	return nil
}

func (s *ResultStore) saveMRP(ctx context.Context, tx *sql.Tx, runID string, res *dto.MRPResult) error {
	for _, r := range res.Requirements {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO mrp_requirements VALUES (?, ?, ?, ?, ?, ?, ?)`,
			runID, string(r.Material), entities.FormatDate(r.Date), r.RequiredQty.String(),
			r.AvailableQty.String(), r.NetShortage.String(), r.ClosingBalance.String()); err != nil {
			return fmt.Errorf("insert requirement: %w", err)
		}
	}
	for _, e := range res.Exceptions {
		skus := make([]string, len(e.AffectedSKUs))
		for i, sku := range e.AffectedSKUs {
			skus[i] = string(sku)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO mrp_exceptions VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			runID, string(e.Material), entities.FormatDate(e.Date), e.ShortageQty.String(), e.FormatETA(),
			string(e.Action), string(e.SubstituteMaterial), strings.Join(skus, "|")); err != nil {
			return fmt.Errorf("insert exception: %w", err)
		}
	}
	return nil
}

// SaveEvents writes a run's event journal. Event payloads are stored as JSON.
func (s *ResultStore) SaveEvents(ctx context.Context, runID string, journal []events.Event) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, e := range journal {
		var data []byte
		if data, err = json.Marshal(e.Data()); err != nil {
			return fmt.Errorf("encode %s event: %w", e.Type(), err)
		}
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO plan_events (run_id, version, type, recorded_at, data) VALUES (?, ?, ?, ?, ?)`,
			runID, e.Version(), e.Type(), e.Timestamp().Unix(), string(data)); err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Run returns the plan_runs row of a saved run.
func (s *ResultStore) Run(ctx context.Context, runID string) (RunSummary, error) {
	var sum RunSummary
	var savedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, saved_at, assignments, unmet_cases, shortages, warnings FROM plan_runs WHERE run_id = ?`,
		runID).Scan(&sum.RunID, &savedAt, &sum.Assignments, &sum.UnmetCases, &sum.Shortages, &sum.Warnings)
	if err != nil {
		return RunSummary{}, fmt.Errorf("query run %s: %w", runID, err)
	}
	sum.SavedAt = time.Unix(savedAt, 0)
	return sum, nil
}

// CountRows returns how many rows a run wrote to the named table.
func (s *ResultStore) CountRows(ctx context.Context, table, runID string) (int, error) {
	switch table {
	case "schedule", "plan_by_sku_day", "mrp_requirements", "mrp_exceptions",
		"inventory_policy_adherence", "data_integrity", "plan_events":
	default:
		return 0, fmt.Errorf("unknown table %s", table)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM `+table+` WHERE run_id = ?`, runID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Close closes the underlying database.
func (s *ResultStore) Close() error { return s.db.Close() }
