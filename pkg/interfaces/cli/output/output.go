package output

import (
	"fmt"
	"io"
	"os"

	"github.com/vsinha/plantplan/pkg/application/dto"
	"github.com/vsinha/plantplan/pkg/config"
)

// Config holds configuration for output generation
type Config struct {
	OutputDir string
	Formats   []string
	Charts    bool
	// Stdout receives the text report; nil means os.Stdout
	Stdout io.Writer
}

// FromConfig builds an output Config from the output section of the application config
func FromConfig(c config.OutputConfig) Config {
	return Config{OutputDir: c.Dir, Formats: c.Formats, Charts: !c.NoCharts}
}

func (c Config) wants(format string) bool {
	for _, f := range c.Formats {
		if f == format {
			return true
		}
	}
	return false
}

// Generate writes every requested output for a planning result and returns the files written
func Generate(result *dto.PlanningResult, cfg Config) ([]string, error) {
	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	if cfg.wants(config.FormatCSV) {
		for _, t := range Tables(result) {
			path, err := t.WriteCSV(cfg.OutputDir)
			if err != nil {
				return written, err
			}
			written = append(written, path)
		}
	}

	summary := Summarize(result)
	if cfg.wants(config.FormatJSON) {
		path, err := summary.WriteJSON(cfg.OutputDir)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}
	if cfg.wants(config.FormatYAML) {
		path, err := summary.WriteYAML(cfg.OutputDir)
		if err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if cfg.Charts && result.Schedule != nil {
		paths, err := WriteCharts(cfg.OutputDir, result.Schedule)
		if err != nil {
			return written, err
		}
		written = append(written, paths...)
	}

	if cfg.wants(config.FormatText) {
		out := cfg.Stdout
		if out == nil {
			out = os.Stdout
		}
		if err := WriteText(out, result); err != nil {
			return written, fmt.Errorf("failed to write text report: %w", err)
		}
	}
	return written, nil
}
