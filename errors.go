package clippdf

import "errors"

// Sentinel errors for library operations.
var (
	// ErrInvalidConfig covers missing or malformed configuration. It is
	// returned before any browser work begins.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrSelectorResolution means a page selector matched no elements.
	ErrSelectorResolution = errors.New("selector matched no elements")

	// ErrRangeConstruction means both selectors resolved but no valid
	// inclusive range exists between them (e.g. "to" precedes "from").
	ErrRangeConstruction = errors.New("cannot construct range between selectors")

	// ErrRasterization wraps failures surfaced from the capture step.
	ErrRasterization = errors.New("rasterization failed")

	// ErrAssembly wraps failures from PDF page assembly or serialization.
	ErrAssembly = errors.New("PDF assembly failed")

	// Browser session errors.
	ErrBrowserConnect = errors.New("failed to connect to browser")
	ErrPageCreate     = errors.New("failed to create browser page")
	ErrPageLoad       = errors.New("failed to load page")

	// ErrMarkdownRender means the Markdown source could not be rendered
	// to HTML.
	ErrMarkdownRender = errors.New("markdown rendering failed")
)
