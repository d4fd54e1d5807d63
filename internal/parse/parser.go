// Package parse turns source text into an *ast.Program. It is the
// external-collaborator counterpart to internal/checker: grounded on
// kanso's grammar package, it builds a participle parser over a stateful
// lexer and a struct-tag grammar, then lowers the parsed tree into
// internal/ast via transform.go.
package parse

import (
	"github.com/alecthomas/participle/v2"

	"coreforge/internal/ast"
	"coreforge/internal/diag"
)

var sourceParser = participle.MustBuild[fileNode](
	participle.Lexer(sourceLexer),
	participle.Elide("Whitespace", "Comment"),
	participle.UseLookahead(4),
)

// Parse lexes and parses source, returning the resulting program tree and
// a diagnostic bag. A non-empty bag with HasErrors() true means prog is
// nil; callers should not proceed to checking in that case.
func Parse(filename, source string) (*ast.Program, *diag.Bag) {
	bag := diag.NewBag()

	tree, err := sourceParser.ParseString(filename, source)
	if err != nil {
		bag.Add(diag.SeverityError, diag.SUnexpectedToken, describeParseError(err), spanFromError(err))
		return nil, bag
	}

	return transformFile(tree), bag
}

// describeParseError returns participle's own message without its
// "<file>:<line>:<col>: " location prefix; Reporter already renders
// location information from the Diagnostic's Span.
func describeParseError(err error) string {
	if pe, ok := err.(participle.Error); ok {
		return pe.Message()
	}
	return err.Error()
}

func spanFromError(err error) ast.Span {
	pe, ok := err.(participle.Error)
	if !ok {
		return ast.Span{}
	}
	p := toPosition(pe.Position())
	return ast.Span{Start: p, End: p}
}

// Report renders every diagnostic in bag against source using the shared
// diag.Reporter, the same caret-style format kanso's reportParseError
// produces for its own parser.
func Report(filename, source string, bag *diag.Bag) string {
	return diag.NewReporter(filename, source).FormatAll(bag)
}
