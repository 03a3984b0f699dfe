// Package config loads document definitions for the clippdf CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mlevac/clippdf/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrConfigInvalid  = errors.New("invalid config")
)

// Config describes one output document: the source to load and the ordered
// selector pairs delimiting its pages.
type Config struct {
	// Source is a URL or a local file path. Files ending in .md are
	// rendered from Markdown before loading.
	Source string `yaml:"source"`

	// Output is the PDF path (default "document.pdf").
	Output string `yaml:"output"`

	Pages []PageConfig `yaml:"pages"`

	Raster    RasterConfig    `yaml:"raster"`
	Assembler AssemblerConfig `yaml:"assembler"`
}

// PageConfig is one from/to selector pair.
type PageConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// RasterConfig tunes capture; zero values take library defaults.
type RasterConfig struct {
	Scale   float64 `yaml:"scale"`
	WidthPx int     `yaml:"widthPx"`
}

// AssemblerConfig tunes PDF layout; zero values take library defaults.
type AssemblerConfig struct {
	Format   string  `yaml:"format"`
	Position string  `yaml:"position"`
	Scale    float64 `yaml:"scale"`
}

// Validate checks required fields and numeric ranges.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return fmt.Errorf("%w: source is required", ErrConfigInvalid)
	}
	if len(c.Pages) == 0 {
		return fmt.Errorf("%w: at least one page is required", ErrConfigInvalid)
	}
	for i, p := range c.Pages {
		if strings.TrimSpace(p.From) == "" {
			return fmt.Errorf("%w: pages[%d].from is empty", ErrConfigInvalid, i)
		}
		if strings.TrimSpace(p.To) == "" {
			return fmt.Errorf("%w: pages[%d].to is empty", ErrConfigInvalid, i)
		}
	}
	if c.Raster.Scale < 0 {
		return fmt.Errorf("%w: raster.scale must not be negative (0 = default), got %.2f", ErrConfigInvalid, c.Raster.Scale)
	}
	if c.Raster.WidthPx < 0 {
		return fmt.Errorf("%w: raster.widthPx must not be negative (0 = default), got %d", ErrConfigInvalid, c.Raster.WidthPx)
	}
	if c.Assembler.Scale < 0 {
		return fmt.Errorf("%w: assembler.scale must not be negative (0 = default), got %.2f", ErrConfigInvalid, c.Assembler.Scale)
	}
	return nil
}

// Load reads and validates a document definition from a YAML file.
// Unknown fields are rejected to catch typos early.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
