// Package ast defines the typed syntax tree that the external parser hands
// to the semantic checker. Nodes are immutable once constructed; the only
// contract the rest of the middle-end relies on is a traversal API and the
// source span carried by every node.
package ast

// Position is a single point in source text.
type Position struct {
	Line   int
	Column int
}

// Span is a pair of Positions bracketing a node's source text.
type Span struct {
	Start Position
	End   Position
}

// NodeKind tags every concrete node type. Do not simulate this with
// interface embedding tricks or reflection-based dispatch: a closed switch
// over Kind() is the whole contract.
type NodeKind int

const (
	KindProgram NodeKind = iota

	KindPackageDecl
	KindImportDecl
	KindFunctionDecl
	KindParam
	KindVariableDecl
	KindConstantDecl
	KindTypeAliasDecl
	KindStructDecl
	KindFieldDecl
	KindComptimeDecl
	KindParallelDecl

	KindExprStmt
	KindReturnStmt
	KindIfStmt
	KindForStmt
	KindBlockStmt
	KindAssignStmt

	KindIdent
	KindIntLiteral
	KindFloatLiteral
	KindStringLiteral
	KindBoolLiteral
	KindPrefixExpr
	KindInfixExpr
	KindCallExpr
	KindIndexExpr
	KindMemberExpr
)

//go:generate stringer -type=NodeKind

func (k NodeKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "Unknown"
}

var kindNames = map[NodeKind]string{
	KindProgram:       "Program",
	KindPackageDecl:   "PackageDecl",
	KindImportDecl:    "ImportDecl",
	KindFunctionDecl:  "FunctionDecl",
	KindParam:         "Param",
	KindVariableDecl:  "VariableDecl",
	KindConstantDecl:  "ConstantDecl",
	KindTypeAliasDecl: "TypeAliasDecl",
	KindStructDecl:    "StructDecl",
	KindFieldDecl:     "FieldDecl",
	KindComptimeDecl:  "ComptimeDecl",
	KindParallelDecl:  "ParallelDecl",
	KindExprStmt:      "ExprStmt",
	KindReturnStmt:    "ReturnStmt",
	KindIfStmt:        "IfStmt",
	KindForStmt:       "ForStmt",
	KindBlockStmt:     "BlockStmt",
	KindAssignStmt:    "AssignStmt",
	KindIdent:         "Ident",
	KindIntLiteral:    "IntLiteral",
	KindFloatLiteral:  "FloatLiteral",
	KindStringLiteral: "StringLiteral",
	KindBoolLiteral:   "BoolLiteral",
	KindPrefixExpr:    "PrefixExpr",
	KindInfixExpr:     "InfixExpr",
	KindCallExpr:      "CallExpr",
	KindIndexExpr:     "IndexExpr",
	KindMemberExpr:    "MemberExpr",
}

// Node is the capability every tree element exports: its tag, its span and
// a human-readable dump. Declarations, statements and expressions all
// satisfy it.
type Node interface {
	Kind() NodeKind
	Span() Span
	String() string
}

// Decl is the tagged-union marker for the nine declaration kinds.
type Decl interface {
	Node
	declNode()
}

// Stmt is the tagged-union marker for the six statement kinds.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is the tagged-union marker for the ten expression kinds.
type Expr interface {
	Node
	exprNode()
}

// base is embedded by every concrete node to carry its span without
// repeating the accessor on each type.
type base struct {
	span Span
}

func (b base) Span() Span { return b.span }
