package main

import (
	"fmt"
	"os"
	"time"

	flag "github.com/spf13/pflag"
)

// generateFlags holds all flags for the generate command.
type generateFlags struct {
	output  string
	workers int
	timeout time.Duration
	quiet   bool
	verbose bool

	// Ad-hoc document definition; alternative to YAML config args.
	source string
	from   []string
	to     []string

	// Capture and layout overrides; zero values keep library defaults.
	scale      float64
	width      int
	pageFormat string
	position   string
}

// parseGenerateFlags parses generate command flags and returns the
// positional arguments (YAML configs, Markdown files, URLs).
func parseGenerateFlags(args []string) (*generateFlags, []string, error) {
	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	f := &generateFlags{}

	fs.StringVarP(&f.output, "output", "o", "", "output PDF path (single document only)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "per-document timeout (e.g. 30s, 2m)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show per-document timing")

	fs.StringVarP(&f.source, "source", "s", "", "document URL or file (instead of a config)")
	fs.StringArrayVar(&f.from, "from", nil, "page start selector (repeatable)")
	fs.StringArrayVar(&f.to, "to", nil, "page end selector (repeatable)")

	fs.Float64Var(&f.scale, "scale", 0, "capture device scale factor")
	fs.IntVar(&f.width, "width", 0, "page width in CSS pixels")
	fs.StringVar(&f.pageFormat, "page-format", "", "PDF page format: A4, Letter, Legal")
	fs.StringVar(&f.position, "position", "", "image anchor on the page (e.g. c, tl)")

	fs.Usage = func() { printGenerateUsage(os.Stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	if len(f.from) != len(f.to) {
		return nil, nil, fmt.Errorf("%w: %d --from flags but %d --to flags",
			ErrSelectorPairMismatch, len(f.from), len(f.to))
	}

	return f, fs.Args(), nil
}
