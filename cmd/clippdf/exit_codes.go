package main

import (
	"errors"
	"os"

	clippdf "github.com/mlevac/clippdf"
	"github.com/mlevac/clippdf/internal/config"
)

// Exit codes for the clippdf CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // All documents generated
	ExitGeneral = 1 // General/unexpected error (including unmatched selectors)
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitBrowser = 4 // Browser/Chrome errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Browser errors (exit 4)
	if errors.Is(err, clippdf.ErrBrowserConnect) ||
		errors.Is(err, clippdf.ErrPageCreate) ||
		errors.Is(err, clippdf.ErrPageLoad) ||
		errors.Is(err, clippdf.ErrRasterization) {
		return ExitBrowser
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadSource) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrConfigInvalid) ||
		errors.Is(err, clippdf.ErrInvalidConfig) ||
		errors.Is(err, ErrSelectorPairMismatch) {
		return ExitUsage
	}

	return ExitGeneral
}
