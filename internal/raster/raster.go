// Package raster captures the rendered appearance of a staged DOM element as
// a PNG frame using Chrome's screenshot pipeline.
package raster

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"math"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

// Options configures one capture.
type Options struct {
	// Scale is the device scale factor; 2 doubles the pixel density.
	Scale float64

	// PageWidthPx pins the viewport width to the staging width so layout
	// inside the container matches the width it was staged at.
	PageWidthPx int

	// BeforeCapture runs after the viewport is pinned and the element is
	// scrolled into view, immediately before the screenshot. The capture
	// path can recompute styles and drop inline overrides derived from
	// getComputedStyle, so normalization must be reapplied here, at the
	// point of final capture, not only at staging time.
	BeforeCapture func(ctx context.Context) error
}

// Frame is one captured pixel buffer with its native dimensions.
type Frame struct {
	PNG    []byte
	Width  int
	Height int
}

// ScaledHeight returns the frame height scaled proportionally to the target
// width, preserving aspect ratio.
func (f *Frame) ScaledHeight(targetWidth float64) float64 {
	if f.Width == 0 {
		return 0
	}
	return targetWidth * float64(f.Height) / float64(f.Width)
}

// Capturer screenshots elements on one loaded page.
type Capturer struct {
	page *rod.Page
}

// New creates a Capturer for the given page.
func New(page *rod.Page) *Capturer {
	return &Capturer{page: page}
}

// Capture screenshots the element matching selector and returns the decoded
// frame. The viewport is sized to the reference page width with the A4
// aspect ratio; height only affects how much of the page is visible, not the
// element screenshot bounds.
func (c *Capturer) Capture(ctx context.Context, selector string, opts Options) (*Frame, error) {
	page := c.page.Context(ctx)

	viewportHeight := int(math.Round(float64(opts.PageWidthPx) * math.Sqrt2))
	err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             opts.PageWidthPx,
		Height:            viewportHeight,
		DeviceScaleFactor: opts.Scale,
		Mobile:            false,
	})
	if err != nil {
		return nil, fmt.Errorf("setting viewport: %w", err)
	}

	el, err := page.Element(selector)
	if err != nil {
		return nil, fmt.Errorf("locating %s: %w", selector, err)
	}
	if err := el.ScrollIntoView(); err != nil {
		return nil, fmt.Errorf("scrolling %s into view: %w", selector, err)
	}

	if opts.BeforeCapture != nil {
		if err := opts.BeforeCapture(ctx); err != nil {
			return nil, err
		}
	}

	bin, err := el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, fmt.Errorf("capturing %s: %w", selector, err)
	}

	return Decode(bin)
}

// Decode wraps PNG bytes in a Frame with their native dimensions.
func Decode(bin []byte) (*Frame, error) {
	cfg, err := png.DecodeConfig(bytes.NewReader(bin))
	if err != nil {
		return nil, fmt.Errorf("decoding frame: %w", err)
	}
	return &Frame{PNG: bin, Width: cfg.Width, Height: cfg.Height}, nil
}
