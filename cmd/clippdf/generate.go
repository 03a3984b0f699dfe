package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	clippdf "github.com/mlevac/clippdf"
	"github.com/mlevac/clippdf/internal/config"
	"github.com/mlevac/clippdf/internal/fileutil"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput              = errors.New("no input specified")
	ErrReadSource           = errors.New("failed to read source file")
	ErrSelectorPairMismatch = errors.New("mismatched selector pairs")
	ErrOutputWithBatch      = errors.New("--output requires a single document")
)

// job is one document to generate.
type job struct {
	// Name identifies the job in output: the config path, source file, or URL.
	Name   string
	Config clippdf.Config
}

// generateResult holds the outcome of a single document.
type generateResult struct {
	Name     string
	Output   string
	Err      error
	Duration time.Duration
}

// runGenerate builds the job list and processes it through the pool.
func runGenerate(ctx context.Context, inputs []string, flags *generateFlags, pool Pool, stdout, stderr io.Writer) error {
	jobs, err := buildJobs(inputs, flags)
	if err != nil {
		return err
	}

	results := generateBatch(ctx, pool, jobs, flags.timeout)

	var firstErr error
	succeeded := 0
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(stderr, "FAIL %s: %v\n", r.Name, r.Err)
			if firstErr == nil {
				firstErr = r.Err
			}
			continue
		}
		succeeded++
		if flags.verbose {
			fmt.Fprintf(stdout, "OK   %s -> %s (%s)\n", r.Name, r.Output, r.Duration.Round(time.Millisecond))
		} else if !flags.quiet {
			fmt.Fprintf(stdout, "OK   %s -> %s\n", r.Name, r.Output)
		}
	}

	if !flags.quiet && len(jobs) > 1 {
		fmt.Fprintf(stdout, "%d generated, %d failed\n", succeeded, len(jobs)-succeeded)
	}
	return firstErr
}

// buildJobs turns positional arguments and flags into the document list.
// YAML arguments are full document definitions; Markdown files and URLs use
// the --from/--to selector pairs from the command line.
func buildJobs(inputs []string, flags *generateFlags) ([]job, error) {
	var jobs []job

	if flags.source != "" {
		j, err := jobFromSource(flags.source, flags)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}

	for _, input := range inputs {
		var (
			j   job
			err error
		)
		switch strings.ToLower(filepath.Ext(input)) {
		case ".yaml", ".yml":
			j, err = jobFromConfig(input, flags)
		default:
			j, err = jobFromSource(input, flags)
		}
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, j)
	}

	if len(jobs) == 0 {
		return nil, ErrNoInput
	}
	if flags.output != "" {
		if len(jobs) > 1 {
			return nil, fmt.Errorf("%w: got %d", ErrOutputWithBatch, len(jobs))
		}
		jobs[0].Config.Filename = flags.output
	}
	return jobs, nil
}

// jobFromConfig loads a YAML document definition.
func jobFromConfig(path string, flags *generateFlags) (job, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return job{}, err
	}

	c := clippdf.Config{
		Filename: cfg.Output,
		Raster: &clippdf.RasterOptions{
			Scale:       cfg.Raster.Scale,
			PageWidthPx: cfg.Raster.WidthPx,
		},
		Assembler: &clippdf.AssemblerOptions{
			PageFormat:  cfg.Assembler.Format,
			Position:    cfg.Assembler.Position,
			ScaleFactor: cfg.Assembler.Scale,
		},
	}
	for _, p := range cfg.Pages {
		c.Pages = append(c.Pages, clippdf.PageSpec{From: p.From, To: p.To})
	}
	if err := assignSource(&c, cfg.Source); err != nil {
		return job{}, err
	}
	if c.Filename == "" {
		c.Filename = derivedOutput(path)
	}
	applyOverrides(&c, flags)
	return job{Name: path, Config: c}, nil
}

// jobFromSource builds an ad-hoc document from a URL or file plus the
// command-line selector pairs.
func jobFromSource(source string, flags *generateFlags) (job, error) {
	if len(flags.from) == 0 {
		return job{}, fmt.Errorf("%w: %s needs at least one --from/--to pair", ErrNoInput, source)
	}

	c := clippdf.Config{Filename: derivedOutput(source)}
	for i := range flags.from {
		c.Pages = append(c.Pages, clippdf.PageSpec{From: flags.from[i], To: flags.to[i]})
	}
	if err := assignSource(&c, source); err != nil {
		return job{}, err
	}
	applyOverrides(&c, flags)
	return job{Name: source, Config: c}, nil
}

// assignSource routes Markdown files to inline rendering and everything
// else (URLs, HTML files) to direct navigation. Local files are checked up
// front so a typo fails before a browser launches.
func assignSource(c *clippdf.Config, source string) error {
	ext := strings.ToLower(filepath.Ext(source))
	if ext == ".md" || ext == ".markdown" {
		content, err := os.ReadFile(source) // #nosec G304 -- user-provided input path
		if err != nil {
			return fmt.Errorf("%w: %v", ErrReadSource, err)
		}
		c.Markdown = string(content)
		return nil
	}
	if !strings.Contains(source, "://") && !fileutil.FileExists(source) {
		return fmt.Errorf("%w: %s", ErrReadSource, source)
	}
	c.Source = source
	return nil
}

// applyOverrides merges command-line capture and layout flags into the
// document config. Flags win over config file values.
func applyOverrides(c *clippdf.Config, flags *generateFlags) {
	if flags.scale > 0 {
		if c.Raster == nil {
			c.Raster = &clippdf.RasterOptions{}
		}
		c.Raster.Scale = flags.scale
	}
	if flags.width > 0 {
		if c.Raster == nil {
			c.Raster = &clippdf.RasterOptions{}
		}
		c.Raster.PageWidthPx = flags.width
	}
	if flags.pageFormat != "" {
		if c.Assembler == nil {
			c.Assembler = &clippdf.AssemblerOptions{}
		}
		c.Assembler.PageFormat = flags.pageFormat
	}
	if flags.position != "" {
		if c.Assembler == nil {
			c.Assembler = &clippdf.AssemblerOptions{}
		}
		c.Assembler.Position = flags.position
	}
}

// derivedOutput names the PDF after the input file; URLs fall back to the
// library default.
func derivedOutput(input string) string {
	if strings.Contains(input, "://") {
		return ""
	}
	base := filepath.Base(input)
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	return base + ".pdf"
}

// generateBatch processes jobs concurrently using the generator pool.
func generateBatch(ctx context.Context, pool Pool, jobs []job, timeout time.Duration) []generateResult {
	if len(jobs) == 0 {
		return nil
	}

	concurrency := pool.Size()
	if concurrency > len(jobs) {
		concurrency = len(jobs)
	}

	results := make([]generateResult, len(jobs))
	var wg sync.WaitGroup
	queue := make(chan int, len(jobs))

	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			gen := pool.Acquire()
			defer pool.Release(gen)

			for idx := range queue {
				if ctx.Err() != nil {
					results[idx] = generateResult{Name: jobs[idx].Name, Err: ctx.Err()}
					continue
				}
				results[idx] = generateOne(ctx, gen, jobs[idx], timeout)
			}
		}()
	}

	for i := range jobs {
		queue <- i
	}
	close(queue)

	wg.Wait()
	return results
}

// generateOne renders a single document, bounding it with the per-document
// timeout when one is set.
func generateOne(ctx context.Context, gen PDFGenerator, j job, timeout time.Duration) generateResult {
	start := time.Now()

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	output := j.Config.Filename
	if output == "" {
		output = clippdf.DefaultFilename
	}

	err := gen.GeneratePDF(ctx, j.Config)
	return generateResult{
		Name:     j.Name,
		Output:   output,
		Err:      err,
		Duration: time.Since(start),
	}
}
