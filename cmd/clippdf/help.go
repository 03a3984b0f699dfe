package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: clippdf <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  generate   Render selector-delimited document clips to PDF")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'clippdf help generate' for details.")
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: clippdf generate [flags] <config.yaml ...>")
	fmt.Fprintln(w, "       clippdf generate [flags] --source <url|file> --from <sel> --to <sel>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Each YAML config describes one output document: its source and the")
	fmt.Fprintln(w, "ordered from/to selector pairs delimiting its pages. Markdown files")
	fmt.Fprintln(w, "(.md) given as arguments or via --source are rendered to HTML first.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -s, --source <s>        Document URL or file (instead of a config)")
	fmt.Fprintln(w, "      --from <sel>        Page start selector (repeat per page)")
	fmt.Fprintln(w, "      --to <sel>          Page end selector (repeat per page)")
	fmt.Fprintln(w, "  -o, --output <path>     Output PDF path (single document only)")
	fmt.Fprintln(w, "  -w, --workers <n>       Parallel workers (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>       Per-document timeout (e.g. 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Capture:")
	fmt.Fprintln(w, "      --scale <f>         Capture device scale factor (default 2)")
	fmt.Fprintln(w, "      --width <n>         Page width in CSS pixels (default 794)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Layout:")
	fmt.Fprintln(w, "      --page-format <s>   PDF page format: A4, Letter, Legal")
	fmt.Fprintln(w, "      --position <s>      Image anchor on the page (e.g. c, tl)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output control:")
	fmt.Fprintln(w, "  -q, --quiet             Only show errors")
	fmt.Fprintln(w, "  -v, --verbose           Show per-document timing")
}

// runHelp dispatches 'clippdf help [command]'.
func runHelp(w io.Writer, args []string) {
	if len(args) > 0 && args[0] == "generate" {
		printGenerateUsage(w)
		return
	}
	printUsage(w)
}
