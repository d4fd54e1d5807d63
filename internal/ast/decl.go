package ast

// Program is the root of the tree: an optional package declaration, an
// ordered list of imports and an ordered list of declarations. Dropping
// the Program drops everything it owns — there is no sharing between
// trees.
type Program struct {
	base
	Package *PackageDecl
	Imports []*ImportDecl
	Decls   []Decl
}

func (p *Program) Kind() NodeKind { return KindProgram }
func (p *Program) String() string { return "Program" }

func (*PackageDecl) declNode()   {}
func (*ImportDecl) declNode()    {}
func (*FunctionDecl) declNode()  {}
func (*VariableDecl) declNode()  {}
func (*ConstantDecl) declNode()  {}
func (*TypeAliasDecl) declNode() {}
func (*StructDecl) declNode()    {}
func (*ComptimeDecl) declNode()  {}
func (*ParallelDecl) declNode()  {}

// PackageDecl names the package a Program belongs to.
type PackageDecl struct {
	base
	Name string
}

func (d *PackageDecl) Kind() NodeKind { return KindPackageDecl }
func (d *PackageDecl) String() string { return "package " + d.Name }

// ImportDecl brings another package's exported names into scope under its
// last path segment, or under Alias when one was given.
type ImportDecl struct {
	base
	Path  string
	Alias string // empty unless the source wrote "import alias \"path\""
}

func (d *ImportDecl) Kind() NodeKind { return KindImportDecl }
func (d *ImportDecl) String() string { return "import " + d.Path }

// ShortName is the symbol bound into scope: Alias if present, else the
// last path segment.
func (d *ImportDecl) ShortName() string {
	if d.Alias != "" {
		return d.Alias
	}
	last := d.Path
	for i := len(d.Path) - 1; i >= 0; i-- {
		if d.Path[i] == '/' {
			last = d.Path[i+1:]
			break
		}
	}
	return last
}

// Param is a function parameter: a name and its declared type.
type Param struct {
	base
	Name string
	Type *TypeExpr
}

func (p *Param) Kind() NodeKind { return KindParam }
func (p *Param) String() string { return p.Name + ": " + p.Type.String() }

// FunctionDecl declares a named function. ReturnType is nil when the
// source omitted it, which the checker treats as Void.
type FunctionDecl struct {
	base
	Name       string
	Params     []*Param
	ReturnType *TypeExpr
	Body       *BlockStmt
}

func (d *FunctionDecl) Kind() NodeKind { return KindFunctionDecl }
func (d *FunctionDecl) String() string { return "func " + d.Name }

// VariableDecl declares a mutable binding. At least one of Type or Init
// must be present; the checker enforces this.
type VariableDecl struct {
	base
	Name string
	Type *TypeExpr // nil if inferred from Init
	Init Expr      // nil if no initializer
}

func (d *VariableDecl) Kind() NodeKind { return KindVariableDecl }
func (d *VariableDecl) String() string { return "var " + d.Name }

// ConstantDecl declares an immutable binding; Init is always present.
type ConstantDecl struct {
	base
	Name string
	Type *TypeExpr // nil if inferred from Init
	Init Expr
}

func (d *ConstantDecl) Kind() NodeKind { return KindConstantDecl }
func (d *ConstantDecl) String() string { return "const " + d.Name }

// TypeAliasDecl binds a name to another type expression.
type TypeAliasDecl struct {
	base
	Name string
	Type *TypeExpr
}

func (d *TypeAliasDecl) Kind() NodeKind { return KindTypeAliasDecl }
func (d *TypeAliasDecl) String() string { return "type " + d.Name }

// FieldDecl is one named, typed field of a StructDecl.
type FieldDecl struct {
	base
	Name string
	Type *TypeExpr
}

func (f *FieldDecl) Kind() NodeKind { return KindFieldDecl }
func (f *FieldDecl) String() string { return f.Name + ": " + f.Type.String() }

// StructDecl declares a named struct type with an ordered field list.
type StructDecl struct {
	base
	Name   string
	Fields []*FieldDecl
}

func (d *StructDecl) Kind() NodeKind { return KindStructDecl }
func (d *StructDecl) String() string { return "struct " + d.Name }

// ComptimeDecl is a compile-time-evaluated block, checked like any other
// function body but never lowered to a runtime call.
type ComptimeDecl struct {
	base
	Body *BlockStmt
}

func (d *ComptimeDecl) Kind() NodeKind { return KindComptimeDecl }
func (d *ComptimeDecl) String() string { return "comptime" }

// ParallelDecl marks a function as a candidate body for parallel-for
// dispatch (internal/work, internal/pool). Schedule is the surface-syntax
// schedule hint ("static", "dynamic", "guided", "auto", or "" for the
// runtime default); ChunkSize is an optional compile-time chunk-size
// expression.
type ParallelDecl struct {
	base
	Schedule  string
	ChunkSize Expr // nil when unspecified
	Body      *FunctionDecl
}

func (d *ParallelDecl) Kind() NodeKind { return KindParallelDecl }
func (d *ParallelDecl) String() string { return "parallel " + d.Body.Name }
