package clippdf

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Defaults applied by Config.withDefaults.
const (
	// DefaultFilename is used when Config.Filename is empty.
	DefaultFilename = "document.pdf"

	// DefaultPageWidthPx is the reference staging width in CSS pixels,
	// the approximate width of an A4 page at 96 DPI.
	DefaultPageWidthPx = 794

	// DefaultScale is the device scale factor used for capture.
	DefaultScale = 2.0
)

// Assembler defaults (pdfcpu import parameters).
const (
	DefaultPageFormat  = "A4"
	DefaultPosition    = "c"
	DefaultScaleFactor = 1.0
)

// PageSpec identifies the inclusive DOM span for one output page.
// Both selectors must resolve at render time; when a selector matches more
// than one element, the first in document order is used. Ranges of different
// PageSpecs may overlap or repeat.
type PageSpec struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// RasterOptions configures the capture step. Zero fields take defaults.
type RasterOptions struct {
	// Scale is the device scale factor (default 2).
	Scale float64
	// PageWidthPx pins the staging container and viewport width (default 794).
	PageWidthPx int
}

// AssemblerOptions configures PDF page layout. Zero fields take defaults.
type AssemblerOptions struct {
	// PageFormat is a pdfcpu paper size name such as "A4" or "Letter".
	PageFormat string
	// Position anchors the frame on the page ("c", "tl", "tc", ...).
	Position string
	// ScaleFactor scales the frame relative to the page while preserving
	// aspect ratio (default 1.0 = addressable page width).
	ScaleFactor float64
}

// Config describes one document generation. It is read-only for the duration
// of a Generate call and is not retained afterwards.
//
// Exactly one of Source, HTML, or Markdown must be set.
type Config struct {
	// Source is a URL (http://, https://, file://) or a local file path.
	Source string
	// HTML is an inline HTML document, loaded via a temporary file.
	HTML string
	// Markdown is an inline Markdown document, rendered to HTML first.
	// Headings receive auto-generated IDs usable as From/To selectors.
	Markdown string

	// Pages is the ordered, non-empty list of page definitions.
	Pages []PageSpec

	// Filename is the output path for GeneratePDF (default "document.pdf").
	Filename string

	// Raster and Assembler are forwarded to the capture and assembly steps.
	Raster    *RasterOptions
	Assembler *AssemblerOptions
}

// Validate checks the config before any browser work begins.
func (c *Config) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}

	sources := 0
	for _, s := range []string{c.Source, c.HTML, c.Markdown} {
		if strings.TrimSpace(s) != "" {
			sources++
		}
	}
	if sources == 0 {
		return fmt.Errorf("%w: one of Source, HTML, or Markdown is required", ErrInvalidConfig)
	}
	if sources > 1 {
		return fmt.Errorf("%w: Source, HTML, and Markdown are mutually exclusive", ErrInvalidConfig)
	}

	if len(c.Pages) == 0 {
		return fmt.Errorf("%w: at least one page is required", ErrInvalidConfig)
	}
	for i, p := range c.Pages {
		if strings.TrimSpace(p.From) == "" {
			return fmt.Errorf("%w: pages[%d].from is empty", ErrInvalidConfig, i)
		}
		if strings.TrimSpace(p.To) == "" {
			return fmt.Errorf("%w: pages[%d].to is empty", ErrInvalidConfig, i)
		}
	}

	if c.Raster != nil {
		if c.Raster.Scale < 0 {
			return fmt.Errorf("%w: raster scale must not be negative (0 = default), got %.2f", ErrInvalidConfig, c.Raster.Scale)
		}
		if c.Raster.PageWidthPx < 0 {
			return fmt.Errorf("%w: raster page width must not be negative (0 = default), got %d", ErrInvalidConfig, c.Raster.PageWidthPx)
		}
	}
	if c.Assembler != nil && c.Assembler.ScaleFactor < 0 {
		return fmt.Errorf("%w: assembler scale factor must not be negative (0 = default), got %.2f", ErrInvalidConfig, c.Assembler.ScaleFactor)
	}

	return nil
}

// withDefaults returns a copy of the config with defaults filled in.
// The caller's Config is never mutated.
func (c Config) withDefaults() Config {
	if c.Filename == "" {
		c.Filename = DefaultFilename
	}

	raster := RasterOptions{Scale: DefaultScale, PageWidthPx: DefaultPageWidthPx}
	if c.Raster != nil {
		if c.Raster.Scale > 0 {
			raster.Scale = c.Raster.Scale
		}
		if c.Raster.PageWidthPx > 0 {
			raster.PageWidthPx = c.Raster.PageWidthPx
		}
	}
	c.Raster = &raster

	asm := AssemblerOptions{
		PageFormat:  DefaultPageFormat,
		Position:    DefaultPosition,
		ScaleFactor: DefaultScaleFactor,
	}
	if c.Assembler != nil {
		if c.Assembler.PageFormat != "" {
			asm.PageFormat = c.Assembler.PageFormat
		}
		if c.Assembler.Position != "" {
			asm.Position = c.Assembler.Position
		}
		if c.Assembler.ScaleFactor > 0 {
			asm.ScaleFactor = c.Assembler.ScaleFactor
		}
	}
	c.Assembler = &asm

	return c
}

// Option configures a Generator.
type Option func(*Generator)

// generatorConfig holds internal configuration for Generator.
type generatorConfig struct {
	timeout time.Duration
	logger  *slog.Logger
}

// defaultTimeout bounds page loads when no context deadline is set.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the page-load timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("clippdf: WithTimeout duration must be positive")
	}
	return func(g *Generator) {
		g.cfg.timeout = d
	}
}

// WithLogger sets the logger used for per-page error reporting.
// The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.cfg.logger = l
		}
	}
}
