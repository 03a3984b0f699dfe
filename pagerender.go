package clippdf

import (
	"context"
	"log/slog"

	"github.com/mlevac/clippdf/internal/raster"
)

// pageRenderer runs the per-page pipeline against one live document session:
// materialize -> normalize -> capture -> cleanup. Pages are rendered one at
// a time; only one staging container exists on the document body at once.
type pageRenderer struct {
	session documentSession
	raster  *RasterOptions
	logger  *slog.Logger
}

// renderPage produces the frame for one page definition. The staging
// container is detached on every exit path, success or error, so a failed
// run never leaves residual DOM nodes. Errors are logged with the offending
// selector pair before propagation.
func (r *pageRenderer) renderPage(ctx context.Context, spec PageSpec) (_ *raster.Frame, err error) {
	defer func() {
		if err != nil {
			r.logger.Error("page render failed",
				"from", spec.From,
				"to", spec.To,
				"error", err)
		}
	}()

	id, err := r.session.Materialize(ctx, spec.From, spec.To, r.raster.PageWidthPx)
	if err != nil {
		return nil, err
	}
	defer func() {
		// Cleanup must run even when ctx is already canceled.
		cerr := r.session.Cleanup(context.WithoutCancel(ctx), id)
		if cerr != nil && err == nil {
			err = cerr
		}
	}()

	if err := r.session.NormalizeColors(ctx, id); err != nil {
		return nil, err
	}

	frame, err := r.session.Capture(ctx, id, r.raster, func(ctx context.Context) error {
		// The capture path recomputes styles, which can reset inline
		// overrides derived from getComputedStyle. Reapply normalization
		// at the point of final capture; the pass is idempotent.
		return r.session.NormalizeColors(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return frame, nil
}
