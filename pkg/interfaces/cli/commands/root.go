// Package commands wires the plantplan CLI onto cobra.
package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vsinha/plantplan/pkg/config"
	"github.com/vsinha/plantplan/pkg/infrastructure/logger"
)

// options carries the persistent and shared flags of every subcommand
type options struct {
	configPath string
	logLevel   string
	inputDir   string
	outputDir  string
	formats    []string
	noCharts   bool
	sqlitePath string
	textfile   string
	stdout     io.Writer
}

// NewRootCommand builds the plantplan command tree
func NewRootCommand() *cobra.Command {
	return newRootCommand(&options{stdout: os.Stdout})
}

func newRootCommand(opts *options) *cobra.Command {
	root := &cobra.Command{
		Use:           "plantplan",
		Short:         "Daily line scheduling, MRP explosion and inventory policy for a bottling plant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "configuration file (yaml or json)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	root.AddCommand(
		newRunCommand(opts),
		newScheduleCommand(opts),
		newMRPCommand(opts),
		newPolicyCommand(opts),
		newGenerateCommand(opts),
	)
	return root
}

// Execute runs the CLI.
func Execute() error { return NewRootCommand().Execute() }

// addIOFlags registers the input and output flags shared by the planning subcommands
func addIOFlags(cmd *cobra.Command, opts *options) {
	cmd.Flags().StringVarP(&opts.inputDir, "input", "i", "", "directory holding the input CSV files")
	cmd.Flags().StringVarP(&opts.outputDir, "output", "o", "", "directory receiving the result tables")
	cmd.Flags().StringSliceVarP(&opts.formats, "format", "f", nil, "output formats: csv, json, yaml, text")
	cmd.Flags().BoolVar(&opts.noCharts, "no-charts", false, "skip SVG charts")
	cmd.Flags().StringVar(&opts.sqlitePath, "sqlite", "", "also store results in this SQLite database")
	cmd.Flags().StringVar(&opts.textfile, "metrics-textfile", "", "write run metrics in the node-exporter textfile format")
}

// loadConfig reads the configuration file and applies flag overrides
func (o *options) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}
	if o.inputDir != "" {
		cfg.Input.Dir = o.inputDir
	}
	if o.outputDir != "" {
		cfg.Output.Dir = o.outputDir
	}
	if len(o.formats) > 0 {
		cfg.Output.Formats = o.formats
	}
	if o.noCharts {
		cfg.Output.NoCharts = true
	}
	if o.sqlitePath != "" {
		cfg.Output.SQLite = o.sqlitePath
	}
	if o.textfile != "" {
		cfg.Metrics.Textfile = o.textfile
	}

	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := logger.Configure(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format}); err != nil {
		return nil, err
	}
	return cfg, nil
}
