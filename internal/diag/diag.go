package diag

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"coreforge/internal/ast"
)

// Severity classifies how a Diagnostic should be treated by callers: Error
// diagnostics mean the checker gave up on the surrounding node and
// substituted types.Error; Warning diagnostics never do.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityNote    Severity = "note"
	SeverityHelp    Severity = "help"
)

// Diagnostic is one reported problem: a span, a code, a message, and
// optional supporting notes/help text.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Span     ast.Span
	Notes    []string
	Help     string
}

// Error renders the diagnostic as a single plain-text line, satisfying
// the error interface so a *Diagnostic can be returned from any function
// signature that wants a plain error.
func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s[%s]: %s (line %d, col %d)",
		d.Severity, d.Code, d.Message, d.Span.Start.Line, d.Span.Start.Column)
}

// Bag accumulates diagnostics during one checker or pass-manager run. A
// Bag with no Error-severity entries means the run succeeded; warnings do
// not fail a run.
type Bag struct {
	entries []*Diagnostic
}

// NewBag returns an empty diagnostic bag.
func NewBag() *Bag { return &Bag{} }

// Add appends a new diagnostic to the bag and returns it, so a caller can
// chain Notes/Help onto it.
func (b *Bag) Add(sev Severity, code Code, msg string, span ast.Span) *Diagnostic {
	d := &Diagnostic{Severity: sev, Code: code, Message: msg, Span: span}
	b.entries = append(b.entries, d)
	return d
}

// Errorf is a convenience for Add(SeverityError, ...) with fmt-style
// message formatting.
func (b *Bag) Errorf(code Code, span ast.Span, format string, args ...any) *Diagnostic {
	return b.Add(SeverityError, code, fmt.Sprintf(format, args...), span)
}

// Warnf is a convenience for Add(SeverityWarning, ...) with fmt-style
// message formatting.
func (b *Bag) Warnf(code Code, span ast.Span, format string, args ...any) *Diagnostic {
	return b.Add(SeverityWarning, code, fmt.Sprintf(format, args...), span)
}

// HasErrors reports whether any entry in the bag is Error severity.
func (b *Bag) HasErrors() bool {
	for _, d := range b.entries {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Entries returns every diagnostic added to the bag, in report order.
func (b *Bag) Entries() []*Diagnostic { return b.entries }

// Len returns the number of diagnostics in the bag.
func (b *Bag) Len() int { return len(b.entries) }

// Reporter formats diagnostics against a known source file, Rust-style:
// a header line, a "--> file:line:col" location line, the offending
// source line, and a caret marker under the offending span.
type Reporter struct {
	filename string
	lines    []string
}

// NewReporter returns a Reporter that renders diagnostics against source,
// attributed to filename in location lines.
func NewReporter(filename, source string) *Reporter {
	return &Reporter{filename: filename, lines: strings.Split(source, "\n")}
}

// Format renders a single diagnostic as a multi-line colored report.
func (r *Reporter) Format(d *Diagnostic) string {
	var out strings.Builder

	levelColor := severityColor(d.Severity)
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	if d.Code != "" {
		fmt.Fprintf(&out, "%s[%s]: %s\n", levelColor(string(d.Severity)), d.Code, d.Message)
	} else {
		fmt.Fprintf(&out, "%s: %s\n", levelColor(string(d.Severity)), d.Message)
	}

	width := lineNumberWidth(d.Span.Start.Line)
	indent := strings.Repeat(" ", width)

	fmt.Fprintf(&out, "%s %s %s:%d:%d\n", indent, dim("-->"), r.filename, d.Span.Start.Line, d.Span.Start.Column)
	fmt.Fprintf(&out, "%s %s\n", indent, dim("|"))

	line := d.Span.Start.Line
	if line > 0 && line <= len(r.lines) {
		fmt.Fprintf(&out, "%s %s %s\n", bold(fmt.Sprintf("%*d", width, line)), dim("|"), r.lines[line-1])
		marker := caretMarker(d.Span.Start.Column, spanLength(d.Span), d.Severity)
		fmt.Fprintf(&out, "%s %s %s\n", indent, dim("|"), marker)
	}

	for _, n := range d.Notes {
		noteColor := color.New(color.FgBlue).SprintFunc()
		fmt.Fprintf(&out, "%s %s %s %s\n", indent, dim("|"), noteColor("note:"), n)
	}
	if d.Help != "" {
		helpColor := color.New(color.FgGreen).SprintFunc()
		fmt.Fprintf(&out, "%s %s %s %s\n", indent, dim("|"), helpColor("help:"), d.Help)
	}
	out.WriteString("\n")
	return out.String()
}

// FormatAll renders every diagnostic in bag in order.
func (r *Reporter) FormatAll(bag *Bag) string {
	var out strings.Builder
	for _, d := range bag.Entries() {
		out.WriteString(r.Format(d))
	}
	return out.String()
}

func severityColor(sev Severity) func(...any) string {
	switch sev {
	case SeverityError:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	case SeverityWarning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case SeverityNote:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	case SeverityHelp:
		return color.New(color.FgGreen, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

func caretMarker(column, length int, sev Severity) string {
	if length <= 0 {
		length = 1
	}
	spaces := strings.Repeat(" ", max(0, column-1))
	markerColor := color.New(color.FgRed, color.Bold).SprintFunc()
	if sev == SeverityWarning {
		markerColor = color.New(color.FgYellow, color.Bold).SprintFunc()
	}
	return spaces + markerColor(strings.Repeat("^", length))
}

func spanLength(sp ast.Span) int {
	if sp.End.Line != sp.Start.Line {
		return 1
	}
	return sp.End.Column - sp.Start.Column
}

func lineNumberWidth(line int) int {
	w := len(fmt.Sprintf("%d", line))
	if w < 3 {
		w = 3
	}
	return w
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
