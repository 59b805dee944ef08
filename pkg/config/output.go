package config

import (
	"fmt"
	"strings"
)

// Output formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatText = "text"
)

// OutputConfig controls where and how results are written.
type OutputConfig struct {
	Dir string `json:"dir"`
	// Formats lists csv, json, yaml and text; a single comma separated value is accepted.
	Formats  []string `json:"formats"`
	NoCharts bool     `json:"no_charts"`
	// SQLite is the path of an optional result database.
	SQLite string `json:"sqlite"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "out"
	}
	var formats []string
	for _, f := range c.Formats {
		for _, part := range strings.Split(f, ",") {
			if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
				formats = append(formats, part)
			}
		}
	}
	if len(formats) == 0 {
		formats = []string{FormatCSV, FormatJSON, FormatText}
	}
	c.Formats = formats
}

// Validate checks mandatory fields.
func (c OutputConfig) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	for _, f := range c.Formats {
		switch f {
		case FormatCSV, FormatJSON, FormatYAML, FormatText:
		default:
			return fmt.Errorf("unknown format %s", f)
		}
	}
	return nil
}

// Wants reports whether a format is enabled.
func (c OutputConfig) Wants(format string) bool {
	for _, f := range c.Formats {
		if f == format {
			return true
		}
	}
	return false
}
