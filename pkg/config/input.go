package config

import (
	"fmt"
	"path/filepath"
)

// InputConfig names the input directory and the files inside it.
type InputConfig struct {
	Dir        string `json:"dir"`
	Orders     string `json:"orders"`
	Lines      string `json:"lines"`
	Inventory  string `json:"inventory"`
	BOM        string `json:"bom"`
	Suppliers  string `json:"suppliers"`
	Alternates string `json:"alternates"`
	Catalog    string `json:"catalog"`
}

// SetDefaults applies the standard file names.
func (c *InputConfig) SetDefaults() {
	if c.Dir == "" {
		c.Dir = "data"
	}
	if c.Orders == "" {
		c.Orders = "orders.csv"
	}
	if c.Lines == "" {
		c.Lines = "lines.csv"
	}
	if c.Inventory == "" {
		c.Inventory = "inventory.csv"
	}
	if c.BOM == "" {
		c.BOM = "bom.csv"
	}
	if c.Suppliers == "" {
		c.Suppliers = "suppliers.csv"
	}
	if c.Alternates == "" {
		c.Alternates = "alternates.csv"
	}
	if c.Catalog == "" {
		c.Catalog = "sku_catalog.csv"
	}
}

// Validate checks mandatory fields.
func (c InputConfig) Validate() error {
	if c.Dir == "" {
		return fmt.Errorf("dir is required")
	}
	return nil
}

// Path joins a file name onto the input directory unless it is already absolute.
func (c InputConfig) Path(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Dir, name)
}
