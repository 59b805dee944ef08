package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/vsinha/plantplan/pkg/application/dto"
	"github.com/vsinha/plantplan/pkg/application/services/orchestration"
	"github.com/vsinha/plantplan/pkg/config"
	"github.com/vsinha/plantplan/pkg/infrastructure/events"
	"github.com/vsinha/plantplan/pkg/infrastructure/logger"
	"github.com/vsinha/plantplan/pkg/infrastructure/metrics"
	"github.com/vsinha/plantplan/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/plantplan/pkg/infrastructure/store/sqlite"
	"github.com/vsinha/plantplan/pkg/interfaces/cli/output"
)

// session holds everything one planning command needs from load to publish
type session struct {
	cfg          *config.Config
	opts         *options
	runID        string
	log          logger.Logger
	registry     *prometheus.Registry
	journal      *events.MemoryJournal
	orchestrator *orchestration.PlanningOrchestrator
	loader       *csv.Loader
}

func newSession(opts *options) (*session, error) {
	cfg, err := opts.loadConfig()
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := logger.NewWithFields("plantplan", map[string]string{"run_id": runID})

	registry := prometheus.NewRegistry()
	runMetrics, err := metrics.NewRunMetrics(registry)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}

	orchestrator := orchestration.NewPlanningOrchestrator(orchestration.Config{
		ChangeoverMinutes: cfg.Planning.ChangeoverMinutes,
		UsageWindowDays:   cfg.Planning.UsageWindowDays,
	}, runMetrics, log)

	journal := events.NewMemoryJournal()
	if err := journal.Subscribe(events.AllEventTypes, events.LogHandler{Log: log}); err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}
	orchestrator.SetJournal(journal)

	return &session{
		cfg:          cfg,
		opts:         opts,
		runID:        runID,
		log:          log,
		registry:     registry,
		journal:      journal,
		orchestrator: orchestrator,
		loader:       csv.NewLoader(),
	}, nil
}

// inputs loads the input directory into repositories. Any malformed file aborts the run
// before output is written.
func (s *session) inputs() (orchestration.Inputs, error) {
	in := s.cfg.Input
	ds, err := s.loader.LoadDataset(csv.DatasetPaths{
		Orders:     in.Path(in.Orders),
		Lines:      in.Path(in.Lines),
		Inventory:  in.Path(in.Inventory),
		BOM:        in.Path(in.BOM),
		Suppliers:  in.Path(in.Suppliers),
		Alternates: in.Path(in.Alternates),
		Catalog:    in.Path(in.Catalog),
	})
	if err != nil {
		return orchestration.Inputs{}, fmt.Errorf("load inputs: %w", err)
	}
	repos, err := ds.Repositories()
	if err != nil {
		return orchestration.Inputs{}, fmt.Errorf("load inputs: %w", err)
	}

	s.log.Debugw("inputs loaded", map[string]any{
		"orders":    len(ds.Demands),
		"lines":     len(ds.Lines),
		"inventory": len(ds.Policies),
		"bom":       len(ds.BOM),
		"suppliers": len(ds.Receipts),
	})
	return orchestration.Inputs{
		Demands:   repos.Demands,
		Lines:     repos.Lines,
		BOM:       repos.BOM,
		Inventory: repos.Inventory,
		Suppliers: repos.Suppliers,
		Catalog:   ds.Catalog,
	}, nil
}

// publish writes the result tables and the optional SQLite and metrics sinks
func (s *session) publish(ctx context.Context, result *dto.PlanningResult) error {
	cfg := output.FromConfig(s.cfg.Output)
	cfg.Stdout = s.opts.stdout
	written, err := output.Generate(result, cfg)
	if err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	s.log.Infof("wrote %d files to %s", len(written), s.cfg.Output.Dir)

	if path := s.cfg.Output.SQLite; path != "" {
		store, err := sqlite.NewResultStore(path)
		if err != nil {
			return fmt.Errorf("open result store: %w", err)
		}
		defer func() {
			if err := store.Close(); err != nil {
				s.log.Errorf("result store close: %v", err)
			}
		}()
		if err := store.SaveRun(ctx, result); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		journal, err := s.journal.Stream(result.RunID, 0)
		if err != nil {
			return fmt.Errorf("read run events: %w", err)
		}
		if err := store.SaveEvents(ctx, result.RunID, journal); err != nil {
			return fmt.Errorf("save run events: %w", err)
		}
		s.log.Infof("stored run in %s", path)
	}

	if path := s.cfg.Metrics.Textfile; path != "" {
		if err := metrics.WriteTextfile(path, s.registry); err != nil {
			return err
		}
	}
	return nil
}
