package clippdf

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mlevac/clippdf/internal/assemble"
	"github.com/mlevac/clippdf/internal/browser"
	"github.com/mlevac/clippdf/internal/fileutil"
	"github.com/mlevac/clippdf/internal/source"
)

// Generator renders selector-delimited clips of a document to a paginated
// PDF. Create with New, generate with Generate or GeneratePDF, and Close
// when done. A Generator owns one browser and renders one document at a
// time; use GeneratorPool for parallel batches.
type Generator struct {
	cfg     generatorConfig
	session *browser.Session
	md      *source.Renderer

	// openSession is the live-document factory; replaced in tests.
	openSession func(ctx context.Context, url string) (documentSession, error)
}

// New creates a Generator with default configuration.
// Use options to customize behavior (e.g. WithTimeout, WithLogger).
func New(opts ...Option) *Generator {
	g := &Generator{
		cfg: generatorConfig{
			timeout: defaultTimeout,
			logger:  slog.Default(),
		},
		md: source.NewRenderer(),
	}

	for _, opt := range opts {
		opt(g)
	}

	g.session = browser.NewSession(g.cfg.timeout)
	if g.openSession == nil {
		g.openSession = func(ctx context.Context, url string) (documentSession, error) {
			return openRodSession(ctx, g.session, url)
		}
	}

	return g
}

// Generate runs the full pipeline and returns the assembled PDF as bytes.
// The config is validated before any browser work begins; a failure on any
// page aborts the whole run and no document is produced.
func (g *Generator) Generate(ctx context.Context, cfg Config) ([]byte, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	url, cleanup, err := g.resolveSource(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	sess, err := g.openSession(ctx, url)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	doc, err := assemble.New(assemble.Options{
		PageFormat:  cfg.Assembler.PageFormat,
		Position:    cfg.Assembler.Position,
		ScaleFactor: cfg.Assembler.ScaleFactor,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssembly, err)
	}

	renderer := &pageRenderer{
		session: sess,
		raster:  cfg.Raster,
		logger:  g.cfg.logger,
	}

	// Pages render strictly in order. Staging containers must not coexist:
	// concurrent pages would race on live-document layout state.
	for i, spec := range cfg.Pages {
		frame, err := renderer.renderPage(ctx, spec)
		if err != nil {
			return nil, fmt.Errorf("rendering page %d: %w", i+1, err)
		}
		if err := doc.AppendPage(frame.PNG); err != nil {
			return nil, fmt.Errorf("%w: page %d: %v", ErrAssembly, i+1, err)
		}
	}

	out, err := doc.Bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAssembly, err)
	}
	return out, nil
}

// GeneratePDF runs Generate and delivers the result under cfg.Filename
// (default "document.pdf"). The file is written only after every page
// succeeded; no partial file is produced.
func (g *Generator) GeneratePDF(ctx context.Context, cfg Config) error {
	out, err := g.Generate(ctx, cfg)
	if err != nil {
		return err
	}

	name := cfg.Filename
	if name == "" {
		name = DefaultFilename
	}
	if err := os.WriteFile(name, out, 0o644); err != nil { // #nosec G306 -- regular document output
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}

// Close releases browser resources.
func (g *Generator) Close() error {
	if g.session != nil {
		return g.session.Close()
	}
	return nil
}

// resolveSource turns the configured source into a navigable URL. Inline
// HTML and Markdown go through a temporary file; the cleanup func removes it.
func (g *Generator) resolveSource(ctx context.Context, cfg Config) (url string, cleanup func(), err error) {
	switch {
	case cfg.Markdown != "":
		html, err := g.md.Render(ctx, cfg.Markdown)
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrMarkdownRender, err)
		}
		return tempFileURL(html)

	case cfg.HTML != "":
		return tempFileURL(cfg.HTML)

	default:
		if strings.Contains(cfg.Source, "://") {
			return cfg.Source, nil, nil
		}
		abs, err := filepath.Abs(cfg.Source)
		if err != nil {
			return "", nil, fmt.Errorf("resolving source path %q: %w", cfg.Source, err)
		}
		return "file://" + abs, nil, nil
	}
}

// tempFileURL writes content to a temporary HTML file and returns its
// file:// URL.
func tempFileURL(content string) (string, func(), error) {
	path, cleanup, err := fileutil.WriteTempFile(content, "html")
	if err != nil {
		return "", nil, err
	}
	return "file://" + path, cleanup, nil
}
