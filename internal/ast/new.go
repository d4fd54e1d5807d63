package ast

// Constructors give callers (principally internal/parse) a single place to
// stamp a span on a freshly built node instead of repeating struct literals
// with embedded base fields everywhere.

func NewProgram(pkg *PackageDecl, imports []*ImportDecl, decls []Decl, sp Span) *Program {
	return &Program{base: base{span: sp}, Package: pkg, Imports: imports, Decls: decls}
}

func NewPackageDecl(name string, sp Span) *PackageDecl {
	return &PackageDecl{base: base{span: sp}, Name: name}
}

func NewImportDecl(path, alias string, sp Span) *ImportDecl {
	return &ImportDecl{base: base{span: sp}, Path: path, Alias: alias}
}

func NewParam(name string, typ *TypeExpr, sp Span) *Param {
	return &Param{base: base{span: sp}, Name: name, Type: typ}
}

func NewFunctionDecl(name string, params []*Param, ret *TypeExpr, body *BlockStmt, sp Span) *FunctionDecl {
	return &FunctionDecl{base: base{span: sp}, Name: name, Params: params, ReturnType: ret, Body: body}
}

func NewVariableDecl(name string, typ *TypeExpr, init Expr, sp Span) *VariableDecl {
	return &VariableDecl{base: base{span: sp}, Name: name, Type: typ, Init: init}
}

func NewConstantDecl(name string, typ *TypeExpr, init Expr, sp Span) *ConstantDecl {
	return &ConstantDecl{base: base{span: sp}, Name: name, Type: typ, Init: init}
}

func NewTypeAliasDecl(name string, typ *TypeExpr, sp Span) *TypeAliasDecl {
	return &TypeAliasDecl{base: base{span: sp}, Name: name, Type: typ}
}

func NewFieldDecl(name string, typ *TypeExpr, sp Span) *FieldDecl {
	return &FieldDecl{base: base{span: sp}, Name: name, Type: typ}
}

func NewStructDecl(name string, fields []*FieldDecl, sp Span) *StructDecl {
	return &StructDecl{base: base{span: sp}, Name: name, Fields: fields}
}

func NewComptimeDecl(body *BlockStmt, sp Span) *ComptimeDecl {
	return &ComptimeDecl{base: base{span: sp}, Body: body}
}

func NewParallelDecl(schedule string, chunk Expr, body *FunctionDecl, sp Span) *ParallelDecl {
	return &ParallelDecl{base: base{span: sp}, Schedule: schedule, ChunkSize: chunk, Body: body}
}

func NewExprStmt(x Expr, sp Span) *ExprStmt { return &ExprStmt{base: base{span: sp}, X: x} }

func NewReturnStmt(value Expr, sp Span) *ReturnStmt {
	return &ReturnStmt{base: base{span: sp}, Value: value}
}

func NewIfStmt(cond Expr, then *BlockStmt, els Stmt, sp Span) *IfStmt {
	return &IfStmt{base: base{span: sp}, Cond: cond, Then: then, Else: els}
}

func NewForStmt(cond Expr, body *BlockStmt, sp Span) *ForStmt {
	return &ForStmt{base: base{span: sp}, Cond: cond, Body: body}
}

func NewBlockStmt(stmts []Stmt, sp Span) *BlockStmt {
	return &BlockStmt{base: base{span: sp}, Stmts: stmts}
}

func NewAssignStmt(target, value Expr, sp Span) *AssignStmt {
	return &AssignStmt{base: base{span: sp}, Target: target, Value: value}
}

func NewIdent(name string, sp Span) *Ident { return &Ident{base: base{span: sp}, Name: name} }

func NewIntLiteral(v int64, sp Span) *IntLiteral { return &IntLiteral{base: base{span: sp}, Value: v} }

func NewFloatLiteral(v float64, sp Span) *FloatLiteral {
	return &FloatLiteral{base: base{span: sp}, Value: v}
}

func NewStringLiteral(v string, sp Span) *StringLiteral {
	return &StringLiteral{base: base{span: sp}, Value: v}
}

func NewBoolLiteral(v bool, sp Span) *BoolLiteral { return &BoolLiteral{base: base{span: sp}, Value: v} }

func NewPrefixExpr(op string, x Expr, sp Span) *PrefixExpr {
	return &PrefixExpr{base: base{span: sp}, Op: op, X: x}
}

func NewInfixExpr(op string, left, right Expr, sp Span) *InfixExpr {
	return &InfixExpr{base: base{span: sp}, Op: op, Left: left, Right: right}
}

func NewCallExpr(callee Expr, args []Expr, sp Span) *CallExpr {
	return &CallExpr{base: base{span: sp}, Callee: callee, Args: args}
}

func NewIndexExpr(x, index Expr, sp Span) *IndexExpr {
	return &IndexExpr{base: base{span: sp}, X: x, Index: index}
}

func NewMemberExpr(x Expr, name string, sp Span) *MemberExpr {
	return &MemberExpr{base: base{span: sp}, X: x, Name: name}
}
