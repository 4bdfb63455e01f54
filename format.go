// format.go - renders a StackError chain as a stack-trace-like report.
//
// Shape:
//
//	Error: {TypeName}: {Error()}, at {Location}
//	Caused by the following errors (recent errors listed first):
//	  1| {TypeName}: {Error()}, at {Location}      <- location-aware causes
//	  2| {Error()}                                 <- generic causes
//
// The banner appears only when at least one cause line is written. Indices
// start at 1 and grow by one per line. Output always ends with a single newline.
//
// Write errors are ignored: the report is usually the last thing a failing
// program prints, and replacing the real error with an I/O error would hide it.
package stackerr

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

const causedByBanner = "\nCaused by the following errors (recent errors listed first):\n"

// Frame is one rendered line of a chain report below the root.
type Frame struct {
	Index       int      // 1-based position below the root frame
	TypeName    string   // empty for generic causes
	Message     string   // Error() of the cause
	Location    Location // zero for generic causes
	HasLocation bool     // true for location-aware causes
}

// Frames returns the causes of err in report order.
func Frames(err StackError) []Frame {
	if isNil(err) {
		return nil
	}
	var out []Frame
	walkChain(err, func(l chainLink) bool {
		f := Frame{Index: len(out) + 1, Message: l.err.Error()}
		if l.stack != nil {
			f.TypeName = l.stack.TypeName()
			f.Location = l.stack.StackLocation()
			f.HasLocation = true
		}
		out = append(out, f)
		return true
	})
	return out
}

// Fprint writes the chain report for err to w. A nil err writes nothing.
func Fprint(w io.Writer, err StackError) {
	if isNil(err) {
		return
	}
	// ignore write errors in formatting paths
	_, _ = io.WriteString(w, Sprint(err))
}

// Sprint returns the chain report for err.
func Sprint(err StackError) string {
	if isNil(err) {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("Error: ")
	writeStackLine(&sb, err)

	var causes strings.Builder
	index := 1
	walkChain(err, func(l chainLink) bool {
		writeIndex(&causes, index)
		if l.stack != nil {
			writeStackLine(&causes, l.stack)
		} else {
			causes.WriteString(l.err.Error())
		}
		causes.WriteByte('\n')
		index++
		return true
	})
	writeCauses(&sb, causes.String())
	return sb.String()
}

// writeIndex writes the "  {index}| " prefix of a cause line.
func writeIndex(sb *strings.Builder, index int) {
	sb.WriteString("  ")
	sb.WriteString(strconv.Itoa(index))
	sb.WriteString("| ")
}

// writeCauses ends the root line and, when any cause line was produced,
// appends the banner and the lines.
func writeCauses(sb *strings.Builder, causes string) {
	if causes == "" {
		sb.WriteByte('\n')
		return
	}
	sb.WriteString(causedByBanner)
	sb.WriteString(causes)
}

// writeStackLine writes "{TypeName}: {Error()}, at {Location}".
func writeStackLine(sb *strings.Builder, e StackError) {
	sb.WriteString(e.TypeName())
	sb.WriteString(": ")
	sb.WriteString(e.Error())
	sb.WriteString(", at ")
	sb.WriteString(e.StackLocation().String())
}

// chainFormatter renders a chain report through fmt.
type chainFormatter struct {
	err StackError
}

// Chain returns a value whose %v, %s and String() render the chain report
// for err; %q quotes it.
func Chain(err StackError) interface {
	fmt.Formatter
	fmt.Stringer
} {
	return chainFormatter{err: err}
}

func (c chainFormatter) String() string { return Sprint(c.err) }

func (c chainFormatter) Format(s fmt.State, verb rune) {
	switch verb {
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", Sprint(c.err))
	default:
		Fprint(s, c.err)
	}
}

// sprintPlain renders a report for an error that carries no location: the
// message, then its generic causes with the same banner and numbering.
func sprintPlain(err error) string {
	var sb strings.Builder
	sb.WriteString("Error: ")
	sb.WriteString(err.Error())

	var causes strings.Builder
	index := 1
	seen := newSeenSet()
	seen.mark(err)
	walkCauses(err, seen, func(e error) bool {
		writeIndex(&causes, index)
		causes.WriteString(e.Error())
		causes.WriteByte('\n')
		index++
		return true
	})
	writeCauses(&sb, causes.String())
	return sb.String()
}
