package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	clippdf "github.com/mlevac/clippdf"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(realMain(os.Args[1:]))
}

// realMain is the testable entry point; it returns the process exit code.
func realMain(args []string) int {
	if len(args) == 0 {
		printUsage(os.Stderr)
		return ExitUsage
	}

	switch args[0] {
	case "version", "--version":
		fmt.Printf("clippdf %s\n", Version)
		return ExitSuccess
	case "help":
		runHelp(os.Stdout, args[1:])
		return ExitSuccess
	case "generate":
		args = args[1:]
	}

	flags, inputs, err := parseGenerateFlags(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return ExitUsage
	}

	// maxprocs.Set only fails on an invalid GOMAXPROCS env value, in which
	// case runtime defaults apply and the program continues.
	if flags.verbose {
		_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}))
	} else {
		_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...interface{}) {}))
	}

	poolSize := clippdf.ResolvePoolSize(flags.workers)
	if flags.verbose {
		fmt.Fprintf(os.Stderr, "Pool size: %d\n", poolSize)
	}
	pool := newGeneratorPool(poolSize)

	err = runGenerate(context.Background(), inputs, flags, pool, os.Stdout, os.Stderr)

	if cerr := pool.Close(); cerr != nil && err == nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}
