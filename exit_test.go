//go:build !stackerr_noexit

// exit_test.go - ExitCode writes to the diagnostic stream. Not parallel: it
// swaps diagnosticOutput.
package stackerr

import (
	"io"
	"strings"
	"testing"
)

func withDiagnosticOutput(t *testing.T, w io.Writer) {
	t.Helper()
	prev := diagnosticOutput
	diagnosticOutput = w
	t.Cleanup(func() { diagnosticOutput = prev })
}

func TestExitCode_Success(t *testing.T) {
	var sb strings.Builder
	withDiagnosticOutput(t, &sb)

	if code := NewReport(nil).ExitCode(); code != ExitSuccess {
		t.Fatalf("ExitCode = %d, want %d", code, ExitSuccess)
	}
	if sb.Len() != 0 {
		t.Fatalf("success wrote %q", sb.String())
	}
}

func TestExitCode_FailureWritesReport(t *testing.T) {
	var sb strings.Builder
	withDiagnosticOutput(t, &sb)

	e := newWrapper("x", newSimple())
	if code := NewReport(e).ExitCode(); code != ExitFailure {
		t.Fatalf("ExitCode = %d, want %d", code, ExitFailure)
	}
	if sb.String() != Sprint(e) {
		t.Fatalf("wrote %q, want %q", sb.String(), Sprint(e))
	}
}

func TestExitCode_IgnoresWriteFailure(t *testing.T) {
	w := &failWriter{}
	withDiagnosticOutput(t, w)

	if code := NewReport(newSimple()).ExitCode(); code != ExitFailure {
		t.Fatalf("ExitCode = %d, want %d", code, ExitFailure)
	}
	if w.calls != 1 {
		t.Fatalf("expected one write attempt, got %d", w.calls)
	}
}

func TestMainFunc_SuccessReturns(t *testing.T) {
	var sb strings.Builder
	withDiagnosticOutput(t, &sb)

	ran := false
	Main(func() error { ran = true; return nil })
	if !ran || sb.Len() != 0 {
		t.Fatalf("Main success: ran=%v wrote=%q", ran, sb.String())
	}
}
