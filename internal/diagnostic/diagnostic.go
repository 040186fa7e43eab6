// Package diagnostic is the common currency every stage of the pipeline
// reports through: I/O errors, parse errors, type errors, lint
// findings, and internal invariant violations all become a
// Diagnostic rather than a propagated Go error once they cross the
// core/pipeline boundary. Grounded on the teacher's
// internal/errors/errors.go (source-line + caret rendering), rewired
// onto fatih/color and generalized to carry more than one labeled span.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"github.com/duck-lang/duck/internal/token"
)

// Severity classifies a Diagnostic for both exit-code thresholds and
// rendering color.
type Severity int

const (
	Allow Severity = iota
	Warn
	Deny
	Bug
)

func (s Severity) String() string {
	switch s {
	case Allow:
		return "allow"
	case Warn:
		return "warning"
	case Deny:
		return "error"
	case Bug:
		return "bug"
	default:
		return "unknown"
	}
}

// Label attaches a message to a specific source span, e.g. "expected
// Real here" pointing at one operand of a failed unification.
type Label struct {
	Location token.Location
	Message  string
}

// Diagnostic is one reportable finding: a severity, a primary message,
// and zero or more labeled spans providing context.
type Diagnostic struct {
	Severity Severity
	Tag      string // stable rule/source tag, e.g. "type-error", "missing-default-case"
	Message  string
	Labels   []Label
}

// New builds a Diagnostic with a single label at loc.
func New(sev Severity, tag, message string, loc token.Location) *Diagnostic {
	return &Diagnostic{Severity: sev, Tag: tag, Message: message, Labels: []Label{{Location: loc, Message: message}}}
}

// WithLabel appends an additional labeled span to d and returns it, for
// diagnostics that need to point at more than one location (e.g. both
// operands of a failed unification).
func (d *Diagnostic) WithLabel(loc token.Location, message string) *Diagnostic {
	d.Labels = append(d.Labels, Label{Location: loc, Message: message})
	return d
}

// Render formats d as a source-line-and-caret report, in the style of
// the teacher's CompilerError.Format, extended to multiple labels.
// getLine returns the text of a 1-based source line number; callers
// without access to source text may pass a function that always
// returns "".
func Render(d *Diagnostic, filename string, getLine func(line int) string, useColor bool) string {
	var b strings.Builder

	sevColor := severityColor(d.Severity, useColor)
	fmt.Fprintf(&b, "%s: %s\n", sevColor(d.Severity.String()), d.Message)

	for _, l := range d.Labels {
		pos := l.Location.Span.Start
		if filename != "" {
			fmt.Fprintf(&b, "  --> %s:%d:%d\n", filename, pos.Line, pos.Column)
		} else {
			fmt.Fprintf(&b, "  --> %d:%d\n", pos.Line, pos.Column)
		}
		line := getLine(pos.Line)
		if line != "" {
			lineNumStr := fmt.Sprintf("%4d | ", pos.Line)
			fmt.Fprintf(&b, "%s%s\n", lineNumStr, line)
			caret := strings.Repeat(" ", len(lineNumStr)+max(pos.Column-1, 0)) + "^"
			if useColor {
				caret = sevColor(caret)
			}
			b.WriteString(caret)
			if l.Message != "" && l.Message != d.Message {
				fmt.Fprintf(&b, " %s", l.Message)
			}
			b.WriteString("\n")
		}
	}
	return b.String()
}

func severityColor(s Severity, useColor bool) func(a ...any) string {
	if !useColor {
		return func(a ...any) string { return fmt.Sprint(a...) }
	}
	switch s {
	case Warn:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Deny, Bug:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	default:
		return color.New(color.FgCyan).SprintFunc()
	}
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// RenderAll renders every diagnostic in ds, separated by blank lines.
func RenderAll(ds []*Diagnostic, filename string, getLine func(line int) string, useColor bool) string {
	var b strings.Builder
	for i, d := range ds {
		b.WriteString(Render(d, filename, getLine, useColor))
		if i < len(ds)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// CountBySeverity tallies ds by severity, for exit-code thresholding.
func CountBySeverity(ds []*Diagnostic) map[Severity]int {
	counts := make(map[Severity]int, 4)
	for _, d := range ds {
		counts[d.Severity]++
	}
	return counts
}
