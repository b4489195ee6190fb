// Package main provides the formdata command line tool.
//
// Usage:
//
//	formdata <command> [options] [FILE|-]
//
// Exit codes:
//   - 0: success
//   - 1: usage, I/O or configuration error
//   - 2: malformed multipart/form-data input
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/shapestone/shape-formdata/internal/cmd"
	"github.com/shapestone/shape-formdata/pkg/formdata"
)

// commit is set via ldflags at build time.
var commit = "unknown"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		os.Exit(cmd.ExitError)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:           "formdata",
		Usage:          "Streaming multipart/form-data decoder",
		Version:        fmt.Sprintf("%s (commit: %s)", formdata.Version, commit),
		ExitErrHandler: exitErrHandler,
		Commands: []*cli.Command{
			cmd.DecodeCommand(),
			cmd.ValidateCommand(),
			cmd.ServeCommand(),
			cmd.VersionCommand(commit),
		},
	}
}

// exitErrHandler prints the message of a cli.Exit error and exits with its
// code. Other errors exit 1.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		if msg := exitCoder.Error(); msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(cmd.ExitError)
}
