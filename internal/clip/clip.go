// Package clip drives the in-page scripts that materialize selector-delimited
// DOM ranges into staging containers and normalize oklch() colors in their
// computed styles. All DOM work happens inside the live document; this
// package installs the runtime and maps its results onto Go errors.
package clip

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
)

//go:embed runtime.js
var runtimeJS string

// Evaluator runs a JavaScript function expression in the live document and
// returns its result. Results are passed as JSON-encoded strings so callers
// stay decoupled from any particular browser driver.
type Evaluator interface {
	Eval(ctx context.Context, js string, args ...any) (string, error)
}

// SelectorError reports a page selector that matched no elements.
type SelectorError struct {
	Which    string // "from" or "to"
	Selector string
}

func (e *SelectorError) Error() string {
	return fmt.Sprintf("%s selector %q matched no elements", e.Which, e.Selector)
}

// RangeError reports selectors that resolved but cannot form a valid
// inclusive range, e.g. when the "to" element precedes the "from" element
// in tree order.
type RangeError struct {
	From   string
	To     string
	Detail string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("no valid range from %q to %q: %s", e.From, e.To, e.Detail)
}

// NormalizeStats summarizes one color normalization pass.
type NormalizeStats struct {
	Elements int // elements visited
	Replaced int // property values rewritten
}

// Stage owns the staging-container lifecycle for one live document.
type Stage struct {
	eval Evaluator
}

// New creates a Stage bound to an evaluator for one loaded page.
func New(eval Evaluator) *Stage {
	return &Stage{eval: eval}
}

// Install loads the in-page runtime. Idempotent per page; must be called
// after every navigation and before any other Stage method.
func (s *Stage) Install(ctx context.Context) error {
	if _, err := s.eval.Eval(ctx, runtimeJS); err != nil {
		return fmt.Errorf("installing page runtime: %w", err)
	}
	return nil
}

// result is the wire shape shared by all runtime calls.
type result struct {
	OK       bool   `json:"ok"`
	Code     string `json:"code"`
	Which    string `json:"which"`
	Selector string `json:"selector"`
	Detail   string `json:"detail"`
	ID       string `json:"id"`
	Removed  bool   `json:"removed"`
	Count    int    `json:"count"`
	Elements int    `json:"elements"`
	Replaced int    `json:"replaced"`
}

// call invokes one runtime function and decodes its JSON result.
func (s *Stage) call(ctx context.Context, js string, args ...any) (*result, error) {
	raw, err := s.eval.Eval(ctx, js, args...)
	if err != nil {
		return nil, err
	}
	var res result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, fmt.Errorf("decoding page runtime result %q: %w", raw, err)
	}
	return &res, nil
}

// Materialize resolves both selectors, clones the inclusive range between
// them, and mounts the clone in a fresh staging container of the given pixel
// width appended to the document body. Returns the container id.
func (s *Stage) Materialize(ctx context.Context, from, to string, widthPx int) (string, error) {
	res, err := s.call(ctx,
		`(from, to, width) => JSON.stringify(window.__clippdf.materialize(from, to, width))`,
		from, to, widthPx)
	if err != nil {
		return "", fmt.Errorf("materializing range: %w", err)
	}
	if res.OK {
		return res.ID, nil
	}
	switch res.Code {
	case "selector":
		return "", &SelectorError{Which: res.Which, Selector: res.Selector}
	case "range":
		return "", &RangeError{From: from, To: to, Detail: res.Detail}
	default:
		return "", fmt.Errorf("materializing range: %s", res.Detail)
	}
}

// NormalizeColors rewrites every oklch() occurrence in the computed style of
// the staged subtree (container and all descendants) into rgba literals
// sampled from the page's conversion canvas. Safe to run repeatedly; the
// second run is a no-op because rewritten values contain no oklch token.
func (s *Stage) NormalizeColors(ctx context.Context, containerID string) (NormalizeStats, error) {
	res, err := s.call(ctx,
		`(id) => JSON.stringify(window.__clippdf.normalize(id))`,
		containerID)
	if err != nil {
		return NormalizeStats{}, fmt.Errorf("normalizing colors: %w", err)
	}
	if !res.OK {
		return NormalizeStats{}, fmt.Errorf("normalizing colors: %s", res.Detail)
	}
	return NormalizeStats{Elements: res.Elements, Replaced: res.Replaced}, nil
}

// Cleanup detaches the staging container if it is still attached.
func (s *Stage) Cleanup(ctx context.Context, containerID string) error {
	res, err := s.call(ctx,
		`(id) => JSON.stringify(window.__clippdf.cleanup(id))`,
		containerID)
	if err != nil {
		return fmt.Errorf("removing staging container %s: %w", containerID, err)
	}
	if !res.OK {
		return fmt.Errorf("removing staging container %s: %s", containerID, res.Detail)
	}
	return nil
}

// StagingCount reports how many staging containers are currently attached.
// Used to verify the one-container-at-a-time invariant.
func (s *Stage) StagingCount(ctx context.Context) (int, error) {
	res, err := s.call(ctx, `() => JSON.stringify(window.__clippdf.count())`)
	if err != nil {
		return 0, fmt.Errorf("counting staging containers: %w", err)
	}
	return res.Count, nil
}
