package clippdf

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-rod/rod"

	"github.com/mlevac/clippdf/internal/browser"
	"github.com/mlevac/clippdf/internal/clip"
	"github.com/mlevac/clippdf/internal/raster"
)

// documentSession is one loaded live document and the operations the page
// pipeline performs on it. Abstracted so the pipeline can be tested without
// a browser.
type documentSession interface {
	// Materialize clones the inclusive range between the selectors into a
	// fresh staging container and returns the container id.
	Materialize(ctx context.Context, from, to string, widthPx int) (string, error)

	// NormalizeColors rewrites oklch() colors in the staged subtree.
	NormalizeColors(ctx context.Context, containerID string) error

	// Capture screenshots the staging container. beforeCapture runs at the
	// point of final capture, after layout is settled.
	Capture(ctx context.Context, containerID string, opts *RasterOptions, beforeCapture func(context.Context) error) (*raster.Frame, error)

	// Cleanup detaches the staging container if still attached.
	Cleanup(ctx context.Context, containerID string) error

	// Close closes the page, leaving the browser alive.
	Close() error
}

// Compile-time interface check.
var _ documentSession = (*rodSession)(nil)

// pageEvaluator adapts a rod page to the clip.Evaluator interface.
type pageEvaluator struct {
	page *rod.Page
}

func (e pageEvaluator) Eval(ctx context.Context, js string, args ...any) (string, error) {
	res, err := e.page.Context(ctx).Eval(js, args...)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

// rodSession implements documentSession on a headless Chrome page.
type rodSession struct {
	page     *rod.Page
	stage    *clip.Stage
	capturer *raster.Capturer
}

// openRodSession opens url on the shared browser and installs the in-page
// runtime.
func openRodSession(ctx context.Context, sess *browser.Session, url string) (*rodSession, error) {
	page, err := sess.OpenPage(ctx, url)
	if err != nil {
		return nil, mapBrowserErr(err)
	}

	stage := clip.New(pageEvaluator{page: page})
	if err := stage.Install(ctx); err != nil {
		page.Close()
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	return &rodSession{
		page:     page,
		stage:    stage,
		capturer: raster.New(page),
	}, nil
}

// mapBrowserErr translates internal browser sentinels to the public ones.
func mapBrowserErr(err error) error {
	switch {
	case errors.Is(err, browser.ErrConnect):
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	case errors.Is(err, browser.ErrPageCreate):
		return fmt.Errorf("%w: %v", ErrPageCreate, err)
	case errors.Is(err, browser.ErrPageLoad):
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	default:
		return err
	}
}

func (s *rodSession) Materialize(ctx context.Context, from, to string, widthPx int) (string, error) {
	id, err := s.stage.Materialize(ctx, from, to, widthPx)
	if err != nil {
		var selErr *clip.SelectorError
		if errors.As(err, &selErr) {
			return "", fmt.Errorf("%w: %v", ErrSelectorResolution, selErr)
		}
		var rngErr *clip.RangeError
		if errors.As(err, &rngErr) {
			return "", fmt.Errorf("%w: %v", ErrRangeConstruction, rngErr)
		}
		return "", err
	}
	return id, nil
}

func (s *rodSession) NormalizeColors(ctx context.Context, containerID string) error {
	_, err := s.stage.NormalizeColors(ctx, containerID)
	return err
}

func (s *rodSession) Capture(ctx context.Context, containerID string, opts *RasterOptions, beforeCapture func(context.Context) error) (*raster.Frame, error) {
	frame, err := s.capturer.Capture(ctx, "#"+containerID, raster.Options{
		Scale:         opts.Scale,
		PageWidthPx:   opts.PageWidthPx,
		BeforeCapture: beforeCapture,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRasterization, err)
	}
	return frame, nil
}

func (s *rodSession) Cleanup(ctx context.Context, containerID string) error {
	return s.stage.Cleanup(ctx, containerID)
}

func (s *rodSession) Close() error {
	return s.page.Close()
}
