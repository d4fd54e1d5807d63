package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coreforge/internal/ast"
)

func span(line, col int) ast.Span {
	p := ast.Position{Line: line, Column: col}
	return ast.Span{Start: p, End: ast.Position{Line: line, Column: col + 1}}
}

func TestBagHasErrorsIgnoresWarnings(t *testing.T) {
	b := NewBag()
	b.Warnf(WUnusedVariable, span(1, 1), "x is unused")
	assert.False(t, b.HasErrors())

	b.Errorf(TUndefinedVariable, span(2, 3), "y is undefined")
	assert.True(t, b.HasErrors())
	assert.Equal(t, 2, b.Len())
}

func TestDiagnosticErrorString(t *testing.T) {
	d := &Diagnostic{Severity: SeverityError, Code: TTypeMismatch, Message: "bad type", Span: span(4, 5)}
	s := d.Error()
	assert.Contains(t, s, "T0003")
	assert.Contains(t, s, "bad type")
	assert.Contains(t, s, "line 4")
}

func TestIsWarningAndCategory(t *testing.T) {
	assert.True(t, IsWarning(WUnusedVariable))
	assert.False(t, IsWarning(TTypeMismatch))
	assert.Equal(t, "checker", Category(TTypeMismatch))
	assert.Equal(t, "work-distribution", Category(PBarrierTimeout))
	assert.Equal(t, "vectorization", Category(VDivisionByZero))
}

func TestReporterFormatIncludesSourceLine(t *testing.T) {
	src := "let x = 1\nlet y = x + z\n"
	r := NewReporter("prog.src", src)
	d := &Diagnostic{
		Severity: SeverityError,
		Code:     TUndefinedVariable,
		Message:  "undefined variable z",
		Span:     span(2, 13),
		Help:     "did you mean x?",
	}
	out := r.Format(d)
	assert.Contains(t, out, "T0001")
	assert.Contains(t, out, "let y = x + z")
	assert.Contains(t, out, "prog.src:2:13")
	assert.Contains(t, out, "did you mean x?")
}

func TestDescriptionFallback(t *testing.T) {
	assert.Equal(t, "unclassified diagnostic", Description(Code("Z9999")))
	assert.NotEqual(t, "unclassified diagnostic", Description(TTypeMismatch))
}
