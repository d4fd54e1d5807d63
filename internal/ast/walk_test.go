package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalkVisitsEveryDescendant(t *testing.T) {
	body := NewBlockStmt([]Stmt{
		NewReturnStmt(NewInfixExpr("+", NewIdent("a", Span{}), NewIdent("b", Span{}), Span{}), Span{}),
	}, Span{})
	fn := NewFunctionDecl("add", []*Param{
		NewParam("a", NewTypeExpr("int", Span{}), Span{}),
		NewParam("b", NewTypeExpr("int", Span{}), Span{}),
	}, NewTypeExpr("int", Span{}), body, Span{})
	prog := NewProgram(NewPackageDecl("p", Span{}), nil, []Decl{fn}, Span{})

	var kinds []NodeKind
	Walk(prog, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})

	assert.Contains(t, kinds, KindProgram)
	assert.Contains(t, kinds, KindFunctionDecl)
	assert.Contains(t, kinds, KindReturnStmt)
	assert.Contains(t, kinds, KindInfixExpr)
	assert.Contains(t, kinds, KindIdent)
}

func TestWalkPruneStopsDescent(t *testing.T) {
	inner := NewIdent("x", Span{})
	outer := NewPrefixExpr("-", inner, Span{})

	visited := 0
	Walk(outer, func(n Node) bool {
		visited++
		return n.Kind() != KindPrefixExpr
	})
	assert.Equal(t, 1, visited)
}

func TestImportShortName(t *testing.T) {
	imp := NewImportDecl("std/collections", "", Span{})
	assert.Equal(t, "collections", imp.ShortName())

	aliased := NewImportDecl("std/collections", "coll", Span{})
	assert.Equal(t, "coll", aliased.ShortName())
}

func TestTypeExprString(t *testing.T) {
	elem := NewTypeExpr("int", Span{})
	arr := NewArrayTypeExpr(elem, Span{})
	assert.Equal(t, "[]int", arr.String())
	assert.True(t, arr.IsArray())
	assert.False(t, elem.IsArray())
}
