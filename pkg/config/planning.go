package config

import "fmt"

const (
	DefaultChangeoverMinutes = 60
	DefaultUsageWindowDays   = 7
)

// PlanningConfig tunes the scheduler and the policy evaluator.
type PlanningConfig struct {
	// ChangeoverMinutes is charged when a line switches SKU within a day. Zero disables it.
	ChangeoverMinutes int `json:"changeover_minutes"`
	// UsageWindowDays is the demand window for deriving a blank average daily usage.
	UsageWindowDays int `json:"usage_window_days"`
}

// SetDefaults applies sane defaults.
func (c *PlanningConfig) SetDefaults() {
	if c.UsageWindowDays == 0 {
		c.UsageWindowDays = DefaultUsageWindowDays
	}
}

// Validate checks value ranges.
func (c PlanningConfig) Validate() error {
	if c.ChangeoverMinutes < 0 {
		return fmt.Errorf("changeover_minutes cannot be negative, got %d", c.ChangeoverMinutes)
	}
	if c.UsageWindowDays < 1 {
		return fmt.Errorf("usage_window_days must be positive, got %d", c.UsageWindowDays)
	}
	return nil
}
