package commands

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/vsinha/plantplan/pkg/application/dto"
	"github.com/vsinha/plantplan/pkg/application/services/orchestration"
	"github.com/vsinha/plantplan/pkg/interfaces/cli/output"
)

func newMRPCommand(opts *options) *cobra.Command {
	var planPath string

	cmd := &cobra.Command{
		Use:   "mrp",
		Short: "Explode a SKU/day plan into time-phased material requirements",
		Long: "Explode a SKU/day plan into time-phased material requirements.\n" +
			"The plan defaults to plan_by_sku_day.csv in the output directory, as written by the schedule command.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd.Context(), opts, func(ctx context.Context, s *session, in orchestration.Inputs) (*dto.PlanningResult, error) {
				path := planPath
				if path == "" {
					path = filepath.Join(s.cfg.Output.Dir, output.PlanFile)
				}
				plan, err := s.loader.LoadPlan(path)
				if err != nil {
					return nil, fmt.Errorf("load plan: %w", err)
				}
				return s.orchestrator.RunMRP(ctx, s.runID, plan, in)
			})
		},
	}
	addIOFlags(cmd, opts)
	cmd.Flags().StringVar(&planPath, "plan", "", "SKU/day plan CSV (sku,date,quantity)")
	return cmd
}
