// Package clippdf renders selector-delimited clips of an HTML document to a
// paginated PDF using headless Chrome.
//
// # Quick Start
//
// Create a generator, describe the pages, and close when done:
//
//	gen := clippdf.New()
//	defer gen.Close()
//
//	err := gen.GeneratePDF(ctx, clippdf.Config{
//	    Source: "https://example.com/report.html",
//	    Pages: []clippdf.PageSpec{
//	        {From: "#summary", To: "#summary-end"},
//	        {From: "#details", To: "#appendix"},
//	    },
//	    Filename: "report.pdf",
//	})
//
// Each PageSpec names two CSS selectors. The inclusive DOM range between them
// is cloned into an off-screen staging container, rasterized at the reference
// page width, and placed on its own PDF page. Pages are rendered strictly in
// order; a failure on any page aborts the whole run and no file is written.
//
// # Color Normalization
//
// The capture path cannot rely on oklch() declarations surviving the clone:
// inline overrides computed from getComputedStyle can be reset when styles
// are recomputed. Before every capture the staged subtree is walked and any
// computed style value containing oklch() is rewritten to an equivalent
// rgba() literal, sampled from a shared 1x1 canvas inside the page. The
// rewrite runs twice: once when the clone is staged and once immediately
// before capture. Malformed color expressions degrade silently to whatever
// the canvas paints (usually transparent black); this is a known fidelity
// limit, not an error.
//
// # Pipeline
//
//  1. Source load (URL, file, inline HTML, or Markdown rendered via Goldmark)
//  2. Per page: materialize range -> normalize colors -> capture PNG frame
//  3. Assembly: one frame per page via pdfcpu, scaled to the page width
//
// Frames are scaled to fit within the page box preserving aspect ratio.
// A frame taller than the page at full width is therefore shrunk until its
// height fits, rather than stretched to the page width and clipped or split;
// content is never cut mid-frame.
//
// # Parallel Processing
//
// A Generator owns one browser and renders pages sequentially by design: only
// one staging container may exist on the document body at a time. For batch
// work use GeneratorPool, which gives each generator its own browser:
//
//	pool := clippdf.NewGeneratorPool(4)
//	defer pool.Close()
//
//	gen := pool.Acquire()
//	defer pool.Release(gen)
//	err := gen.GeneratePDF(ctx, cfg)
//
// # Browser Requirements
//
// Rendering requires Chrome/Chromium. The go-rod library downloads a managed
// Chromium on first run (~/.cache/rod/browser/). Use ROD_BROWSER_BIN to point
// at an existing binary; set CI=true to disable the sandbox in containers.
package clippdf
