package parse

import "github.com/alecthomas/participle/v2/lexer"

// The grammar below mirrors kanso's grammar/grammar.go shape (a Program of
// SourceElements built from nested participle struct tags; binary
// expressions are parsed as a flat operand/operator list and grouped by
// precedence in transform.go) generalized to this language's
// surface syntax: package/import, var/const/type/struct/func/comptime/
// parallel declarations, if/while/for/return/assignment statements, and
// the ten ast.Expr forms.
//
// Every node that becomes an internal/ast node in transform.go carries the
// magic Pos/EndPos lexer.Position fields participle populates automatically
// from the surrounding token stream, so transform.go never has to compute
// spans by hand.

type fileNode struct {
	Pos     lexer.Position
	Package *packageClauseNode  `@@?`
	Imports []*importClauseNode `@@*`
	Decls   []*declNode         `@@*`
	EndPos  lexer.Position
}

type packageClauseNode struct {
	Pos    lexer.Position
	Name   string `"package" @Ident [ ";" ]`
	EndPos lexer.Position
}

type importClauseNode struct {
	Pos    lexer.Position
	Alias  string `"import" [ @Ident ]`
	Path   string `@String [ ";" ]`
	EndPos lexer.Position
}

type declNode struct {
	Func      *funcDeclNode      `  @@`
	Var       *varDeclNode       `| @@`
	Const     *constDeclNode     `| @@`
	TypeAlias *typeAliasDeclNode `| @@`
	Struct    *structDeclNode    `| @@`
	Comptime  *comptimeDeclNode  `| @@`
	Parallel  *parallelDeclNode  `| @@`
}

type typeExprNode struct {
	Pos    lexer.Position
	Elem   *typeExprNode `  "[" "]" @@`
	Name   string        `| @Ident`
	EndPos lexer.Position
}

type paramNode struct {
	Pos    lexer.Position
	Name   string        `@Ident ":"`
	Type   *typeExprNode `@@`
	EndPos lexer.Position
}

type funcDeclNode struct {
	Pos    lexer.Position
	Name   string        `"func" @Ident "("`
	Params []*paramNode  `[ @@ { "," @@ } ] ")"`
	Return *typeExprNode `[ ":" @@ ]`
	Body   *blockNode    `@@`
	EndPos lexer.Position
}

type varDeclNode struct {
	Pos    lexer.Position
	Name   string        `"var" @Ident`
	Type   *typeExprNode `[ ":" @@ ]`
	Init   *exprNode     `[ "=" @@ ] ";"`
	EndPos lexer.Position
}

type constDeclNode struct {
	Pos    lexer.Position
	Name   string        `"const" @Ident`
	Type   *typeExprNode `[ ":" @@ ]`
	Init   *exprNode     `"=" @@ ";"`
	EndPos lexer.Position
}

type typeAliasDeclNode struct {
	Pos    lexer.Position
	Name   string        `"type" @Ident "="`
	Type   *typeExprNode `@@ ";"`
	EndPos lexer.Position
}

type fieldDeclNode struct {
	Pos    lexer.Position
	Name   string        `@Ident ":"`
	Type   *typeExprNode `@@ ","`
	EndPos lexer.Position
}

type structDeclNode struct {
	Pos    lexer.Position
	Name   string           `"struct" @Ident "{"`
	Fields []*fieldDeclNode `@@* "}"`
	EndPos lexer.Position
}

type comptimeDeclNode struct {
	Pos    lexer.Position
	Body   *blockNode `"comptime" @@`
	EndPos lexer.Position
}

type parallelDeclNode struct {
	Pos       lexer.Position
	Schedule  *string       `"parallel" [ @("static" | "dynamic" | "guided" | "auto") ]`
	ChunkSize *exprNode     `[ "(" @@ ")" ]`
	Body      *funcDeclNode `@@`
	EndPos    lexer.Position
}

// Statements.

type blockNode struct {
	Pos    lexer.Position
	Stmts  []*stmtNode `"{" @@* "}"`
	EndPos lexer.Position
}

// stmtNode deliberately has no var/const alternative: internal/ast has no
// local-declaration statement kind, so bindings local to a function body
// are expressed as assignments to a name the checker resolves in the
// enclosing scope (function parameters, or module-level var/const).
type stmtNode struct {
	Block    *blockNode      `  @@`
	If       *ifStmtNode     `| @@`
	While    *whileStmtNode  `| @@`
	For      *forStmtNode    `| @@`
	Return   *returnStmtNode `| @@`
	Assign   *assignStmtNode `| @@`
	ExprStmt *exprStmtNode   `| @@`
}

type elseBranchNode struct {
	If    *ifStmtNode `  @@`
	Block *blockNode  `| @@`
}

type ifStmtNode struct {
	Pos    lexer.Position
	Cond   *exprNode       `"if" "(" @@ ")"`
	Then   *blockNode      `@@`
	Else   *elseBranchNode `[ "else" @@ ]`
	EndPos lexer.Position
}

type whileStmtNode struct {
	Pos    lexer.Position
	Cond   *exprNode  `"while" "(" @@ ")"`
	Body   *blockNode `@@`
	EndPos lexer.Position
}

// forStmtNode supports the C-style three-clause form; Init/Post are nil
// for a bare "for (cond) { ... }" loop. transform.go desugars the init
// and post clauses into surrounding statements around an ast.ForStmt,
// since the AST only models the unified while/for shape.
type forStmtNode struct {
	Pos    lexer.Position
	Init   *forAssignNode `"for" "(" [ @@ ] ";"`
	Cond   *exprNode    `[ @@ ] ";"`
	Post   *forPostNode `[ @@ ] ")"`
	Body   *blockNode   `@@`
	EndPos lexer.Position
}

type forAssignNode struct {
	Pos    lexer.Position
	Target *exprNode `@@ "="`
	Value  *exprNode `@@`
	EndPos lexer.Position
}

type forPostNode struct {
	Pos    lexer.Position
	Target *exprNode `@@ "="`
	Value  *exprNode `@@`
	EndPos lexer.Position
}

type returnStmtNode struct {
	Pos    lexer.Position
	Value  *exprNode `"return" [ @@ ] ";"`
	EndPos lexer.Position
}

type assignStmtNode struct {
	Pos    lexer.Position
	Target *exprNode `@@ "="`
	Value  *exprNode `@@ ";"`
	EndPos lexer.Position
}

type exprStmtNode struct {
	Pos    lexer.Position
	Expr   *exprNode `@@ [ ";" ]`
	EndPos lexer.Position
}

// Expressions, generalized to the ten ast.Expr forms. A binary
// expression is a flat Left + Ops list; operator precedence is applied
// afterwards by transform.go.

type exprNode struct {
	Binary *binaryExprNode `@@`
}

type binaryExprNode struct {
	Pos    lexer.Position
	Left   *unaryExprNode `@@`
	Ops    []*binOpNode   `{ @@ }`
	EndPos lexer.Position
}

type binOpNode struct {
	Operator string         `@("||" | "&&" | "==" | "!=" | "<=" | ">=" | "<" | ">" | "+" | "-" | "*" | "/" | "%")`
	Right    *unaryExprNode `@@`
}

type unaryExprNode struct {
	Pos      lexer.Position
	Operator *string          `[ @("!" | "-") ]`
	Value    *postfixExprNode `@@`
	EndPos   lexer.Position
}

type postfixExprNode struct {
	Pos     lexer.Position
	Primary *primaryExprNode `@@`
	Suffix  []*postfixOpNode `{ @@ }`
	EndPos  lexer.Position
}

type postfixOpNode struct {
	Pos    lexer.Position
	Member string        `  "." @Ident`
	Call   *callArgsNode `| @@`
	Index  *exprNode     `| "[" @@ "]"`
	EndPos lexer.Position
}

type callArgsNode struct {
	Args []*exprNode `"(" [ @@ { "," @@ } ] ")"`
}

type primaryExprNode struct {
	Pos    lexer.Position
	True   bool          `  @"true"`
	False  bool          `| @"false"`
	Float  *float64      `| @Float`
	Int    *string       `| @Int`
	Str    *string       `| @String`
	Call   *callExprNode `| @@`
	Ident  *string       `| @Ident`
	Paren  *exprNode     `| "(" @@ ")"`
	EndPos lexer.Position
}

type callExprNode struct {
	Pos    lexer.Position
	Callee string      `@Ident`
	Args   []*exprNode `"(" [ @@ { "," @@ } ] ")"`
	EndPos lexer.Position
}
