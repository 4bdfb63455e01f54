//go:build !stackerr_noexit

// exit.go - program-exit integration for Report.
//
// Builds tagged stackerr_noexit leave this file out, for targets where
// writing to os.Stderr and calling os.Exit make no sense.
package stackerr

import (
	"io"
	"os"
)

// diagnosticOutput is where ExitCode writes failure reports.
var diagnosticOutput io.Writer = os.Stderr

// Exit status codes returned by ExitCode.
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// ExitCode writes the failure report to stderr and returns ExitFailure, or
// returns ExitSuccess without writing anything. Write errors are ignored.
func (r Report) ExitCode() int {
	if r.Success() {
		return ExitSuccess
	}
	_, _ = r.WriteTo(diagnosticOutput)
	return ExitFailure
}

// Main runs fn as the body of a program and exits with its report's code:
//
//	func main() { stackerr.Main(run) }
//
// On success Main returns normally so deferred calls in main still run.
func Main(fn func() error) {
	if code := NewReport(fn()).ExitCode(); code != ExitSuccess {
		os.Exit(code)
	}
}
