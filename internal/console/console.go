// Package console renders diagnostics and status lines for the stackgen
// command. Styling is applied only when stdout is a terminal.
package console

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/xgx-io/stackerr/internal/diag"
)

// Severity of a rendered diagnostic.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// contextRadius is the number of source lines shown on each side of the
// offending line.
const contextRadius = 1

var (
	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))

	warningStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFB86C"))

	infoStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#8BE9FD"))

	successStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#50FA7B"))

	filePathStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#BD93F9"))

	lineNumberStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))

	contextLineStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#F8F8F2"))

	highlightStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#FF5555")).
			Foreground(lipgloss.Color("#282A36"))

	hintStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#50FA7B"))

	verboseStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#6272A4"))

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#BD93F9"))

	tableBorderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#6272A4"))
)

// isTTY checks if stdout is a terminal.
var isTTY = func() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func applyStyle(style lipgloss.Style, text string) string {
	if isTTY() {
		return style.Render(text)
	}
	return text
}

// ToRelativePath converts an absolute path to one relative to the working
// directory, returning path unchanged when that is not possible.
func ToRelativePath(path string) string {
	if !filepath.IsAbs(path) {
		return path
	}
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(wd, path)
	if err != nil {
		return path
	}
	return rel
}

// FormatDiagnostic renders d in the file:line:column: error: message form
// editors understand, followed by the offending source lines with a caret
// under the column and the hint, if any. source may be nil.
func FormatDiagnostic(d *diag.Diagnostic, severity string, source []byte) string {
	var out strings.Builder

	typeStyle := errorStyle
	if severity == SeverityWarning {
		typeStyle = warningStyle
	} else {
		severity = SeverityError
	}

	if d.Pos.File != "" {
		loc := ToRelativePath(d.Pos.File)
		if d.Pos.Line > 0 {
			loc = fmt.Sprintf("%s:%d:%d", loc, d.Pos.Line, d.Pos.Column)
		}
		out.WriteString(applyStyle(filePathStyle, loc+":"))
		out.WriteString(" ")
	}
	out.WriteString(applyStyle(typeStyle, severity+":"))
	out.WriteString(" ")
	out.WriteString(d.Message)
	out.WriteString("\n")

	if d.Pos.Line > 0 && len(source) > 0 {
		out.WriteString(renderContext(d.Pos, strings.Split(string(source), "\n")))
	}

	if d.Hint != "" {
		out.WriteString(applyStyle(hintStyle, "hint: "))
		out.WriteString(d.Hint)
		out.WriteString("\n")
	}
	return out.String()
}

func renderContext(pos diag.Pos, lines []string) string {
	var out strings.Builder

	first := max(pos.Line-contextRadius, 1)
	last := min(pos.Line+contextRadius, len(lines))
	width := len(fmt.Sprint(last))

	for n := first; n <= last; n++ {
		line := strings.TrimRight(lines[n-1], "\r")
		out.WriteString(applyStyle(lineNumberStyle, fmt.Sprintf("%*d", width, n)))
		out.WriteString(" | ")

		if n != pos.Line {
			out.WriteString(applyStyle(contextLineStyle, line))
			out.WriteString("\n")
			continue
		}
		if pos.Column > 0 && pos.Column <= len(line) {
			out.WriteString(applyStyle(contextLineStyle, line[:pos.Column-1]))
			out.WriteString(applyStyle(highlightStyle, line[pos.Column-1:pos.Column]))
			out.WriteString(applyStyle(contextLineStyle, line[pos.Column:]))
		} else {
			out.WriteString(applyStyle(highlightStyle, line))
		}
		out.WriteString("\n")

		if pos.Column > 0 {
			out.WriteString(strings.Repeat(" ", width+3+pos.Column-1))
			out.WriteString(applyStyle(errorStyle, "^"))
			out.WriteString("\n")
		}
	}
	return out.String()
}

// FormatError renders every diagnostic in err, sorted by position, and the
// remaining errors as plain error lines. sources maps file paths to their
// content for context rendering.
func FormatError(err error, sources map[string][]byte) string {
	diags, other := diag.Split(err)
	var out strings.Builder
	for _, d := range diags {
		out.WriteString(FormatDiagnostic(d, SeverityError, sources[d.Pos.File]))
	}
	for _, e := range other {
		out.WriteString(FormatErrorMessage(e.Error()))
		out.WriteString("\n")
	}
	return out.String()
}

// FormatSuccessMessage formats a success message.
func FormatSuccessMessage(message string) string {
	return applyStyle(successStyle, "✓ ") + message
}

// FormatInfoMessage formats an informational message.
func FormatInfoMessage(message string) string {
	return applyStyle(infoStyle, "ℹ ") + message
}

// FormatWarningMessage formats a warning message.
func FormatWarningMessage(message string) string {
	return applyStyle(warningStyle, "⚠ ") + message
}

// FormatErrorMessage formats a simple error message for stderr.
func FormatErrorMessage(message string) string {
	return applyStyle(errorStyle, "✗ ") + message
}

// FormatVerboseMessage formats verbose output.
func FormatVerboseMessage(message string) string {
	return applyStyle(verboseStyle, "🔍 ") + message
}

// RenderTable renders rows under headers with padded columns.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}

	var out strings.Builder
	out.WriteString(renderRow(headers, widths, tableHeaderStyle))
	out.WriteString("\n")
	sep := make([]string, len(widths))
	for i, w := range widths {
		sep[i] = strings.Repeat("-", w)
	}
	out.WriteString(renderRow(sep, widths, tableBorderStyle))
	out.WriteString("\n")
	for _, row := range rows {
		out.WriteString(renderRow(row, widths, contextLineStyle))
		out.WriteString("\n")
	}
	return out.String()
}

func renderRow(cells []string, widths []int, style lipgloss.Style) string {
	var row strings.Builder
	for i, cell := range cells {
		if i >= len(widths) {
			break
		}
		if i > 0 {
			row.WriteString(applyStyle(tableBorderStyle, " | "))
		}
		row.WriteString(applyStyle(style, fmt.Sprintf("%-*s", widths[i], cell)))
	}
	return row.String()
}
