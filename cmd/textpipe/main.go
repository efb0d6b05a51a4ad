// Package main provides the textpipe CLI entrypoint.
//
// Usage:
//
//	textpipe <command> [options] [FILE...]
//
// Exit codes:
//   - 0: success
//   - 1: general failure
//   - 2: malformed or unmappable input (with --report)
//   - 3: configuration error
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/KasperOmsK/textpipe/internal/cmd"
)

// commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		os.Exit(cmd.ExitGeneral)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:           "textpipe",
		Usage:          "Streaming charset decoding and text splitting",
		Version:        fmt.Sprintf("%s (commit: %s)", cmd.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands:       cmd.Commands(commit),
	}
}

// exitErrHandler exits with the code carried by a cli.Exit error.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()

		// cli.Exit("", N).Error() is "exit status N"
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(cmd.ExitGeneral)
}
