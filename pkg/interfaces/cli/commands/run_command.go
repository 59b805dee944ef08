package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vsinha/plantplan/pkg/application/dto"
	"github.com/vsinha/plantplan/pkg/application/services/orchestration"
)

func newRunCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Schedule demand, explode the plan into materials and evaluate inventory policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd.Context(), opts, func(ctx context.Context, s *session, in orchestration.Inputs) (*dto.PlanningResult, error) {
				return s.orchestrator.RunCompletePlanning(ctx, s.runID, in)
			})
		},
	}
	addIOFlags(cmd, opts)
	return cmd
}

func newScheduleCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Assign demand to lines and write the schedule and SKU/day plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd.Context(), opts, func(ctx context.Context, s *session, in orchestration.Inputs) (*dto.PlanningResult, error) {
				return s.orchestrator.RunSchedule(ctx, s.runID, in)
			})
		},
	}
	addIOFlags(cmd, opts)
	return cmd
}

func newPolicyCommand(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "policy",
		Short: "Evaluate days of supply against inventory policy",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStage(cmd.Context(), opts, func(ctx context.Context, s *session, in orchestration.Inputs) (*dto.PlanningResult, error) {
				return s.orchestrator.RunPolicy(ctx, s.runID, in)
			})
		},
	}
	addIOFlags(cmd, opts)
	return cmd
}

type stageFunc func(ctx context.Context, s *session, in orchestration.Inputs) (*dto.PlanningResult, error)

// runStage loads config and inputs, runs one pipeline stage and publishes its result
func runStage(parent context.Context, opts *options, stage stageFunc) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := newSession(opts)
	if err != nil {
		return err
	}
	in, err := s.inputs()
	if err != nil {
		return err
	}

	result, err := stage(ctx, s, in)
	if err != nil {
		s.log.Errorf("planning failed: %v", err)
		return err
	}
	return s.publish(ctx, result)
}
