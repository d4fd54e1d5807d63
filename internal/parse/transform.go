package parse

import (
	"strconv"

	"github.com/alecthomas/participle/v2/lexer"

	"coreforge/internal/ast"
)

// binaryPrecedence mirrors kanso's internal/parser/parser_pratt.go table;
// the grammar itself parses a flat left-operand/operator-list shape (like
// kanso's grammar/grammar.go BinaryExpr), so transform.go applies
// precedence climbing over that flat list instead of baking precedence
// into the grammar's production rules.
var binaryPrecedence = map[string]int{
	"||": 1,
	"&&": 2,
	"==": 3, "!=": 3,
	"<": 4, "<=": 4, ">": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

func toPosition(p lexer.Position) ast.Position {
	return ast.Position{Line: p.Line, Column: p.Column}
}

func spanOf(start, end lexer.Position) ast.Span {
	return ast.Span{Start: toPosition(start), End: toPosition(end)}
}

func joinSpan(a, b ast.Expr) ast.Span {
	return ast.Span{Start: a.Span().Start, End: b.Span().End}
}

// transformFile builds a *ast.Program from a parsed fileNode.
func transformFile(f *fileNode) *ast.Program {
	var pkg *ast.PackageDecl
	if f.Package != nil {
		pkg = ast.NewPackageDecl(f.Package.Name, spanOf(f.Package.Pos, f.Package.EndPos))
	}

	imports := make([]*ast.ImportDecl, 0, len(f.Imports))
	for _, im := range f.Imports {
		path := unquote(im.Path)
		imports = append(imports, ast.NewImportDecl(path, im.Alias, spanOf(im.Pos, im.EndPos)))
	}

	decls := make([]ast.Decl, 0, len(f.Decls))
	for _, d := range f.Decls {
		decls = append(decls, transformDecl(d))
	}

	return ast.NewProgram(pkg, imports, decls, spanOf(f.Pos, f.EndPos))
}

func transformDecl(d *declNode) ast.Decl {
	switch {
	case d.Func != nil:
		return transformFuncDecl(d.Func)
	case d.Var != nil:
		return transformVarDecl(d.Var)
	case d.Const != nil:
		return transformConstDecl(d.Const)
	case d.TypeAlias != nil:
		return transformTypeAliasDecl(d.TypeAlias)
	case d.Struct != nil:
		return transformStructDecl(d.Struct)
	case d.Comptime != nil:
		return transformComptimeDecl(d.Comptime)
	case d.Parallel != nil:
		return transformParallelDecl(d.Parallel)
	default:
		panic("parse: declNode with no alternative set")
	}
}

func transformType(t *typeExprNode) *ast.TypeExpr {
	if t == nil {
		return nil
	}
	sp := spanOf(t.Pos, t.EndPos)
	if t.Elem != nil {
		return ast.NewArrayTypeExpr(transformType(t.Elem), sp)
	}
	return ast.NewTypeExpr(t.Name, sp)
}

func transformParam(p *paramNode) *ast.Param {
	return ast.NewParam(p.Name, transformType(p.Type), spanOf(p.Pos, p.EndPos))
}

func transformFuncDecl(f *funcDeclNode) *ast.FunctionDecl {
	params := make([]*ast.Param, 0, len(f.Params))
	for _, p := range f.Params {
		params = append(params, transformParam(p))
	}
	return ast.NewFunctionDecl(f.Name, params, transformType(f.Return), transformBlock(f.Body), spanOf(f.Pos, f.EndPos))
}

func transformVarDecl(v *varDeclNode) *ast.VariableDecl {
	return ast.NewVariableDecl(v.Name, transformType(v.Type), transformOptExpr(v.Init), spanOf(v.Pos, v.EndPos))
}

func transformConstDecl(c *constDeclNode) *ast.ConstantDecl {
	return ast.NewConstantDecl(c.Name, transformType(c.Type), transformExpr(c.Init), spanOf(c.Pos, c.EndPos))
}

func transformTypeAliasDecl(t *typeAliasDeclNode) *ast.TypeAliasDecl {
	return ast.NewTypeAliasDecl(t.Name, transformType(t.Type), spanOf(t.Pos, t.EndPos))
}

func transformFieldDecl(f *fieldDeclNode) *ast.FieldDecl {
	return ast.NewFieldDecl(f.Name, transformType(f.Type), spanOf(f.Pos, f.EndPos))
}

func transformStructDecl(s *structDeclNode) *ast.StructDecl {
	fields := make([]*ast.FieldDecl, 0, len(s.Fields))
	for _, f := range s.Fields {
		fields = append(fields, transformFieldDecl(f))
	}
	return ast.NewStructDecl(s.Name, fields, spanOf(s.Pos, s.EndPos))
}

func transformComptimeDecl(c *comptimeDeclNode) *ast.ComptimeDecl {
	return ast.NewComptimeDecl(transformBlock(c.Body), spanOf(c.Pos, c.EndPos))
}

func transformParallelDecl(p *parallelDeclNode) *ast.ParallelDecl {
	schedule := ""
	if p.Schedule != nil {
		schedule = *p.Schedule
	}
	return ast.NewParallelDecl(schedule, transformOptExpr(p.ChunkSize), transformFuncDecl(p.Body), spanOf(p.Pos, p.EndPos))
}

// Statements.

func transformBlock(b *blockNode) *ast.BlockStmt {
	stmts := make([]ast.Stmt, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		stmts = append(stmts, transformStmt(s))
	}
	return ast.NewBlockStmt(stmts, spanOf(b.Pos, b.EndPos))
}

func transformStmt(s *stmtNode) ast.Stmt {
	switch {
	case s.Block != nil:
		return transformBlock(s.Block)
	case s.If != nil:
		return transformIf(s.If)
	case s.While != nil:
		return transformWhile(s.While)
	case s.For != nil:
		return transformFor(s.For)
	case s.Return != nil:
		return ast.NewReturnStmt(transformOptExpr(s.Return.Value), spanOf(s.Return.Pos, s.Return.EndPos))
	case s.Assign != nil:
		a := s.Assign
		return ast.NewAssignStmt(transformExpr(a.Target), transformExpr(a.Value), spanOf(a.Pos, a.EndPos))
	case s.ExprStmt != nil:
		e := s.ExprStmt
		return ast.NewExprStmt(transformExpr(e.Expr), spanOf(e.Pos, e.EndPos))
	default:
		panic("parse: stmtNode with no alternative set")
	}
}

func transformIf(i *ifStmtNode) *ast.IfStmt {
	var els ast.Stmt
	if i.Else != nil {
		switch {
		case i.Else.If != nil:
			els = transformIf(i.Else.If)
		case i.Else.Block != nil:
			els = transformBlock(i.Else.Block)
		}
	}
	return ast.NewIfStmt(transformExpr(i.Cond), transformBlock(i.Then), els, spanOf(i.Pos, i.EndPos))
}

func transformWhile(w *whileStmtNode) *ast.ForStmt {
	return ast.NewForStmt(transformExpr(w.Cond), transformBlock(w.Body), spanOf(w.Pos, w.EndPos))
}

// transformFor desugars the C-style three-clause form: an Init clause
// becomes a preceding AssignStmt, a Post clause is appended to the loop
// body, and a ForStmt (the AST's unified while/for node) carries the
// condition, defaulting to "true" when omitted.
func transformFor(f *forStmtNode) ast.Stmt {
	sp := spanOf(f.Pos, f.EndPos)
	cond := ast.Expr(ast.NewBoolLiteral(true, sp))
	if f.Cond != nil {
		cond = transformExpr(f.Cond)
	}

	body := transformBlock(f.Body)
	if f.Post != nil {
		postStmt := ast.NewAssignStmt(transformExpr(f.Post.Target), transformExpr(f.Post.Value), spanOf(f.Post.Pos, f.Post.EndPos))
		stmts := append(append([]ast.Stmt{}, body.Stmts...), postStmt)
		body = ast.NewBlockStmt(stmts, body.Span())
	}

	forStmt := ast.NewForStmt(cond, body, sp)
	if f.Init == nil {
		return forStmt
	}

	initStmt := ast.NewAssignStmt(transformExpr(f.Init.Target), transformExpr(f.Init.Value), spanOf(f.Init.Pos, f.Init.EndPos))
	return ast.NewBlockStmt([]ast.Stmt{initStmt, forStmt}, sp)
}

// Expressions.

func transformOptExpr(e *exprNode) ast.Expr {
	if e == nil {
		return nil
	}
	return transformExpr(e)
}

func transformExpr(e *exprNode) ast.Expr {
	return transformBinary(e.Binary)
}

func transformBinary(b *binaryExprNode) ast.Expr {
	operands := []ast.Expr{transformUnary(b.Left)}
	operators := make([]string, 0, len(b.Ops))
	for _, op := range b.Ops {
		operators = append(operators, op.Operator)
		operands = append(operands, transformUnary(op.Right))
	}
	return foldPrecedence(operands, operators)
}

// foldPrecedence reduces a flat operand/operator run into a left-leaning
// tree honoring binaryPrecedence, repeatedly collapsing the leftmost
// highest-precedence operator. Equivalent to precedence climbing for a
// purely left-associative grammar.
func foldPrecedence(operands []ast.Expr, operators []string) ast.Expr {
	for len(operators) > 0 {
		best := 0
		bestPrec := binaryPrecedence[operators[0]]
		for i, op := range operators {
			if p := binaryPrecedence[op]; p > bestPrec {
				bestPrec = p
				best = i
			}
		}

		left := operands[best]
		right := operands[best+1]
		node := ast.NewInfixExpr(operators[best], left, right, joinSpan(left, right))

		newOperands := make([]ast.Expr, 0, len(operands)-1)
		newOperands = append(newOperands, operands[:best]...)
		newOperands = append(newOperands, node)
		newOperands = append(newOperands, operands[best+2:]...)
		operands = newOperands

		operators = append(operators[:best], operators[best+1:]...)
	}
	return operands[0]
}

func transformUnary(u *unaryExprNode) ast.Expr {
	value := transformPostfix(u.Value)
	if u.Operator == nil {
		return value
	}
	return ast.NewPrefixExpr(*u.Operator, value, spanOf(u.Pos, u.EndPos))
}

func transformPostfix(p *postfixExprNode) ast.Expr {
	expr := transformPrimary(p.Primary)
	for _, suf := range p.Suffix {
		sp := ast.Span{Start: expr.Span().Start, End: toPosition(suf.EndPos)}
		switch {
		case suf.Member != "":
			expr = ast.NewMemberExpr(expr, suf.Member, sp)
		case suf.Call != nil:
			args := make([]ast.Expr, 0, len(suf.Call.Args))
			for _, a := range suf.Call.Args {
				args = append(args, transformExpr(a))
			}
			expr = ast.NewCallExpr(expr, args, sp)
		case suf.Index != nil:
			expr = ast.NewIndexExpr(expr, transformExpr(suf.Index), sp)
		}
	}
	return expr
}

func transformPrimary(p *primaryExprNode) ast.Expr {
	sp := spanOf(p.Pos, p.EndPos)
	switch {
	case p.True:
		return ast.NewBoolLiteral(true, sp)
	case p.False:
		return ast.NewBoolLiteral(false, sp)
	case p.Float != nil:
		return ast.NewFloatLiteral(*p.Float, sp)
	case p.Int != nil:
		v, err := strconv.ParseInt(*p.Int, 0, 64)
		if err != nil {
			v = 0
		}
		return ast.NewIntLiteral(v, sp)
	case p.Str != nil:
		return ast.NewStringLiteral(unquote(*p.Str), sp)
	case p.Call != nil:
		args := make([]ast.Expr, 0, len(p.Call.Args))
		for _, a := range p.Call.Args {
			args = append(args, transformExpr(a))
		}
		callee := ast.NewIdent(p.Call.Callee, spanOf(p.Call.Pos, p.Call.Pos))
		return ast.NewCallExpr(callee, args, spanOf(p.Call.Pos, p.Call.EndPos))
	case p.Ident != nil:
		return ast.NewIdent(*p.Ident, sp)
	case p.Paren != nil:
		return transformExpr(p.Paren)
	default:
		panic("parse: primaryExprNode with no alternative set")
	}
}

// unquote decodes a lexer String token (still carrying its surrounding
// quotes) into its literal value. Malformed escapes fall back to the raw
// text rather than panicking; the checker never sees this path since a
// well-formed String token always unquotes cleanly.
func unquote(raw string) string {
	v, err := strconv.Unquote(raw)
	if err != nil {
		return raw
	}
	return v
}
