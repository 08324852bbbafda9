// Command bevel derives straight and spiral bevel gear pairs from Lisp
// design scripts, prints their derived values, and writes parameter
// files and axial section drawings.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/chazu/bevel/pkg/report"
)

// Version information (set by build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// =============================================================================
// Exit Codes
// =============================================================================

const (
	ExitSuccess     = 0
	ExitConfigError = 1
	ExitEvalError   = 2
	ExitBlocked     = 3
	ExitIOError     = 4
	ExitStoreError  = 5
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cli := newCLI(stdout, stderr)
	root := cli.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "bevel: %v\n", err)
		return exitCode(err)
	}
	return ExitSuccess
}

func exitCode(err error) int {
	var ce *configError
	switch {
	case errors.As(err, &ce):
		return ExitConfigError
	case errors.Is(err, ErrEvalFailed), errors.Is(err, ErrNoPair):
		return ExitEvalError
	case errors.Is(err, ErrBlocked):
		return ExitBlocked
	case isStoreError(err):
		return ExitStoreError
	default:
		return ExitIOError
	}
}

// configError marks failures to load configuration.
type configError struct {
	err error
}

func (e *configError) Error() string { return "configuration error: " + e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// =============================================================================
// Output
// =============================================================================

// printResult writes the report table followed by script errors and
// findings, or the whole result as JSON.
func printResult(w io.Writer, r EvalResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	for _, e := range r.Errors {
		if e.Line > 0 {
			fmt.Fprintf(w, "error: line %d: %s\n", e.Line, e.Message)
		} else {
			fmt.Fprintf(w, "error: %s\n", e.Message)
		}
	}
	if len(r.Rows) > 0 {
		fmt.Fprintf(w, "Project %s (%s)\n\n", r.Project.Name, r.Project.RootDir)
		if err := report.Render(w, r.Rows); err != nil {
			return err
		}
	}
	if len(r.Findings) > 0 {
		fmt.Fprintln(w)
		for _, f := range r.Findings {
			fmt.Fprintf(w, "%s: %s: %s\n", f.Severity, f.Member, f.Message)
		}
	}
	return nil
}
