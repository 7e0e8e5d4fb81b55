package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/harrison/ff/internal/display"
	"github.com/harrison/ff/internal/pattern"
	"github.com/harrison/ff/internal/plugin"
)

// Process exit codes.
const (
	ExitOK          = 0
	ExitFailure     = 1
	ExitUsage       = 2
	ExitInterrupted = 130
)

// usageError marks bad command line input.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...interface{}) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var uerr *usageError
	var perr *pattern.PatternError
	switch {
	case errors.Is(err, context.Canceled):
		return ExitInterrupted
	case errors.As(err, &uerr), errors.As(err, &perr):
		return ExitUsage
	default:
		return ExitFailure
	}
}

// ReportError writes err to w in the form matching its kind.
func ReportError(w io.Writer, err error) {
	if err == nil {
		return
	}

	var uerr *usageError
	var perr *pattern.PatternError
	var plerr *plugin.PluginError
	switch {
	case errors.Is(err, context.Canceled):
		fmt.Fprintln(w, "Interrupted by CTRL-C, aborting")
	case errors.As(err, &perr):
		display.PatternWarning(perr).Display(w)
	case errors.As(err, &plerr):
		display.PluginWarning(plerr).Display(w)
	case errors.As(err, &uerr):
		fmt.Fprintf(w, "Error: %v\n", err)
		fmt.Fprintln(w, "Run 'ff --help' for usage.")
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}
