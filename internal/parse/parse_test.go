package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coreforge/internal/ast"
	"coreforge/internal/diag"
)

func TestParseFunctionDeclWithPrecedence(t *testing.T) {
	src := `
package sample

func add(a: int, b: int): int {
	return a + b * 2;
}
`
	prog, bag := Parse("sample.src", src)
	require.False(t, bag.HasErrors(), "%v", bag.Entries())
	require.NotNil(t, prog)
	require.Equal(t, "sample", prog.Package.Name)
	require.Len(t, prog.Decls, 1)

	fn, ok := prog.Decls[0].(*ast.FunctionDecl)
	require.True(t, ok)
	assert.Equal(t, "add", fn.Name)
	require.Len(t, fn.Params, 2)
	assert.Equal(t, "int", fn.ReturnType.String())

	require.Len(t, fn.Body.Stmts, 1)
	ret, ok := fn.Body.Stmts[0].(*ast.ReturnStmt)
	require.True(t, ok)

	// a + b * 2 must bind as a + (b * 2), not (a + b) * 2.
	top, ok := ret.Value.(*ast.InfixExpr)
	require.True(t, ok)
	assert.Equal(t, "+", top.Op)
	assert.IsType(t, &ast.Ident{}, top.Left)
	mul, ok := top.Right.(*ast.InfixExpr)
	require.True(t, ok)
	assert.Equal(t, "*", mul.Op)
}

func TestParseVarConstAndStructDecls(t *testing.T) {
	src := `
package sample

struct Point {
	x: float,
	y: float,
}

var origin: Point;
const scale: float = 2.5;
`
	prog, bag := Parse("sample.src", src)
	require.False(t, bag.HasErrors(), "%v", bag.Entries())
	require.Len(t, prog.Decls, 3)

	st, ok := prog.Decls[0].(*ast.StructDecl)
	require.True(t, ok)
	assert.Equal(t, "Point", st.Name)
	require.Len(t, st.Fields, 2)
	assert.Equal(t, "x", st.Fields[0].Name)

	v, ok := prog.Decls[1].(*ast.VariableDecl)
	require.True(t, ok)
	assert.Equal(t, "origin", v.Name)
	assert.Nil(t, v.Init)

	c, ok := prog.Decls[2].(*ast.ConstantDecl)
	require.True(t, ok)
	assert.Equal(t, "scale", c.Name)
	require.NotNil(t, c.Init)
	lit, ok := c.Init.(*ast.FloatLiteral)
	require.True(t, ok)
	assert.Equal(t, 2.5, lit.Value)
}

func TestParseIfWhileAndCStyleFor(t *testing.T) {
	src := `
func run(n: int) {
	if (n > 0) {
		n = n - 1;
	} else {
		n = 0;
	}

	while (n > 0) {
		n = n - 1;
	}

	for (n = 0; n < 10; n = n + 1) {
		n = n;
	}
}
`
	prog, bag := Parse("sample.src", src)
	require.False(t, bag.HasErrors(), "%v", bag.Entries())
	fn := prog.Decls[0].(*ast.FunctionDecl)
	require.Len(t, fn.Body.Stmts, 3)

	ifStmt, ok := fn.Body.Stmts[0].(*ast.IfStmt)
	require.True(t, ok)
	assert.NotNil(t, ifStmt.Else)

	whileStmt, ok := fn.Body.Stmts[1].(*ast.ForStmt)
	require.True(t, ok)
	assert.NotNil(t, whileStmt.Cond)

	// the C-style for desugars to a block: [init assignment, ForStmt]
	desugared, ok := fn.Body.Stmts[2].(*ast.BlockStmt)
	require.True(t, ok)
	require.Len(t, desugared.Stmts, 2)
	assert.IsType(t, &ast.AssignStmt{}, desugared.Stmts[0])
	forStmt, ok := desugared.Stmts[1].(*ast.ForStmt)
	require.True(t, ok)
	// the post clause is appended as the loop body's last statement
	lastBodyStmt := forStmt.Body.Stmts[len(forStmt.Body.Stmts)-1]
	assert.IsType(t, &ast.AssignStmt{}, lastBodyStmt)
}

func TestParseParallelDecl(t *testing.T) {
	src := `
parallel dynamic(64) func scale(i: int) {
	i = i * 2;
}
`
	prog, bag := Parse("sample.src", src)
	require.False(t, bag.HasErrors(), "%v", bag.Entries())
	require.Len(t, prog.Decls, 1)

	pd, ok := prog.Decls[0].(*ast.ParallelDecl)
	require.True(t, ok)
	assert.Equal(t, "dynamic", pd.Schedule)
	require.NotNil(t, pd.ChunkSize)
	chunk, ok := pd.ChunkSize.(*ast.IntLiteral)
	require.True(t, ok)
	assert.Equal(t, int64(64), chunk.Value)
	assert.Equal(t, "scale", pd.Body.Name)
}

func TestParseCallMemberAndIndexExpressions(t *testing.T) {
	src := `
func f(a: []int) {
	a[0] = helper(a[1]).value;
}
`
	prog, bag := Parse("sample.src", src)
	require.False(t, bag.HasErrors(), "%v", bag.Entries())
	fn := prog.Decls[0].(*ast.FunctionDecl)
	assert.True(t, fn.Params[0].Type.IsArray())

	assign, ok := fn.Body.Stmts[0].(*ast.AssignStmt)
	require.True(t, ok)

	idx, ok := assign.Target.(*ast.IndexExpr)
	require.True(t, ok)
	assert.IsType(t, &ast.Ident{}, idx.X)

	member, ok := assign.Value.(*ast.MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "value", member.Name)

	call, ok := member.X.(*ast.CallExpr)
	require.True(t, ok)
	require.Len(t, call.Args, 1)
	assert.IsType(t, &ast.IndexExpr{}, call.Args[0])
}

func TestParseSyntaxErrorProducesDiagnostic(t *testing.T) {
	src := `func broken( {`
	prog, bag := Parse("broken.src", src)
	assert.Nil(t, prog)
	require.True(t, bag.HasErrors())
	require.Len(t, bag.Entries(), 1)
	assert.Equal(t, diag.SUnexpectedToken, bag.Entries()[0].Code)
}
