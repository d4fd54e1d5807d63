// Package checker implements the single-pass, top-down type checker:
// CheckProgram walks a *ast.Program, populates a type environment keyed
// by AST node, and accumulates diagnostics rather than stopping at the
// first mistake.
package checker

import (
	"coreforge/internal/ast"
	"coreforge/internal/diag"
	"coreforge/internal/symtab"
	"coreforge/internal/types"
)

// Checker holds the state threaded through one CheckProgram call: the
// scope stack, the interned type registry, the accumulated diagnostics,
// and the per-node type environment the IR builder consults afterward.
type Checker struct {
	scope    *symtab.Table
	registry *types.Registry
	bag      *diag.Bag
	env      map[ast.Node]types.Type

	currentReturn types.Type
	inFunction    bool
}

// New returns a Checker ready to check one Program.
func New() *Checker {
	return &Checker{
		scope:    symtab.New(),
		registry: types.NewRegistry(),
		bag:      diag.NewBag(),
		env:      make(map[ast.Node]types.Type),
	}
}

// Result is what CheckProgram returns: the diagnostic bag (Ok iff
// !bag.HasErrors()) and the type environment populated along the way.
type Result struct {
	Diagnostics *diag.Bag
	Env         map[ast.Node]types.Type
	Registry    *types.Registry
}

// TypeOf returns the type recorded for node, or types.Error{} if node was
// never checked (e.g. dead code the checker never visited).
func (r *Result) TypeOf(node ast.Node) types.Type {
	if t, ok := r.Env[node]; ok {
		return t
	}
	return types.Error{}
}

// CheckProgram type-checks prog and returns the result. It never stops
// early: every declaration is visited even after earlier ones produced
// diagnostics, so a user sees every mistake at once rather than one at a
// time.
func CheckProgram(prog *ast.Program) *Result {
	c := New()

	if prog.Package != nil {
		c.scope.Define(&symtab.Symbol{
			Name: prog.Package.Name, Kind: symtab.KindStruct, Node: prog.Package, DefinedAt: prog.Package.Span(),
		})
	}
	for _, imp := range prog.Imports {
		name := imp.ShortName()
		if _, err := c.scope.Define(&symtab.Symbol{
			Name: name, Kind: symtab.KindVariable, Node: imp, DefinedAt: imp.Span(),
		}); err != nil {
			c.bag.Errorf(diagCodeForRedefinition(), imp.Span(), "import %q conflicts with an existing name", name)
		}
	}

	// First pass: register every function and struct signature so forward
	// references and mutual recursion type-check.
	for _, d := range prog.Decls {
		c.predeclare(d)
	}
	for _, d := range prog.Decls {
		c.checkDecl(d)
	}

	return &Result{Diagnostics: c.bag, Env: c.env, Registry: c.registry}
}

func diagCodeForRedefinition() diag.Code { return diag.TDuplicateDecl }

func (c *Checker) predeclare(d ast.Decl) {
	switch decl := d.(type) {
	case *ast.FunctionDecl:
		params := make([]types.Type, len(decl.Params))
		for i, p := range decl.Params {
			params[i] = c.resolveTypeExpr(p.Type)
		}
		ret := types.Type(types.Void{})
		if decl.ReturnType != nil {
			ret = c.resolveTypeExpr(decl.ReturnType)
		}
		sig := c.registry.DefineFunction(decl.Name, params, ret)
		if _, err := c.scope.Define(&symtab.Symbol{
			Name: decl.Name, Kind: symtab.KindFunction, Type: sig, Node: decl, DefinedAt: decl.Span(),
		}); err != nil {
			c.bag.Errorf(diag.TDuplicateDecl, decl.Span(), "function %q is already declared", decl.Name)
		}
	case *ast.StructDecl:
		fields := make([]types.Field, len(decl.Fields))
		for i, f := range decl.Fields {
			fields[i] = types.Field{Name: f.Name, Type: c.resolveTypeExpr(f.Type)}
		}
		st := c.registry.DefineStruct(decl.Name, fields)
		if _, err := c.scope.Define(&symtab.Symbol{
			Name: decl.Name, Kind: symtab.KindStruct, Type: st, Node: decl, DefinedAt: decl.Span(),
		}); err != nil {
			c.bag.Errorf(diag.TDuplicateDecl, decl.Span(), "struct %q is already declared", decl.Name)
		}
	case *ast.TypeAliasDecl:
		underlying := c.resolveTypeExpr(decl.Type)
		custom := c.registry.DefineCustom(decl.Name, underlying)
		if _, err := c.scope.Define(&symtab.Symbol{
			Name: decl.Name, Kind: symtab.KindTypeAlias, Type: custom, Node: decl, DefinedAt: decl.Span(),
		}); err != nil {
			c.bag.Errorf(diag.TDuplicateDecl, decl.Span(), "type %q is already declared", decl.Name)
		}
	}
}

func (c *Checker) resolveTypeExpr(te *ast.TypeExpr) types.Type {
	if te == nil {
		return types.Void{}
	}
	if te.IsArray() {
		return types.Array{Elem: c.resolveTypeExpr(te.Elem), Length: -1}
	}
	if t, ok := c.registry.Resolve(te.Name); ok {
		return t
	}
	c.bag.Errorf(diag.TUndefinedVariable, te.Span(), "unknown type %q", te.Name)
	return types.Error{}
}

func (c *Checker) checkDecl(d ast.Decl) {
	switch decl := d.(type) {
	case *ast.FunctionDecl:
		c.checkFunction(decl)
	case *ast.VariableDecl:
		c.checkVariable(decl, false)
	case *ast.ConstantDecl:
		c.checkVariable(decl, true)
	case *ast.StructDecl, *ast.TypeAliasDecl, *ast.PackageDecl, *ast.ImportDecl:
		// already fully handled in predeclare/entry registration
	case *ast.ComptimeDecl:
		c.scope.EnterScope()
		c.checkBlock(decl.Body)
		c.scope.LeaveScope()
	case *ast.ParallelDecl:
		if decl.ChunkSize != nil {
			c.checkExpr(decl.ChunkSize)
		}
		c.checkFunction(decl.Body)
	}
}

func (c *Checker) checkFunction(decl *ast.FunctionDecl) {
	sym := c.scope.Lookup(decl.Name)
	var sig types.Function
	if sym != nil {
		sig, _ = sym.Type.(types.Function)
	}

	prevReturn, prevIn := c.currentReturn, c.inFunction
	c.currentReturn = sig.Return
	c.inFunction = true

	c.scope.EnterScope()
	for i, p := range decl.Params {
		pt := types.Type(types.Error{})
		if i < len(sig.Params) {
			pt = sig.Params[i]
		}
		c.scope.Define(&symtab.Symbol{Name: p.Name, Kind: symtab.KindParameter, Type: pt, Node: p, DefinedAt: p.Span(), Used: true})
		c.env[p] = pt
	}
	bodyType := c.checkBlock(decl.Body)
	c.scope.LeaveScope()

	if sig.Return != nil {
		if _, isVoid := sig.Return.(types.Void); !isVoid {
			if !returnsOnAllPaths(decl.Body) {
				c.bag.Errorf(diag.TMissingReturn, decl.Span(), "function %q declares return type %s but may not return on every path", decl.Name, sig.Return)
			}
		}
	}
	_ = bodyType

	c.currentReturn, c.inFunction = prevReturn, prevIn
	c.env[decl] = sig
}

func (c *Checker) checkVariable(d ast.Decl, isConst bool) {
	var name string
	var typeExpr *ast.TypeExpr
	var init ast.Expr

	switch decl := d.(type) {
	case *ast.VariableDecl:
		name, typeExpr, init = decl.Name, decl.Type, decl.Init
	case *ast.ConstantDecl:
		name, typeExpr, init = decl.Name, decl.Type, decl.Init
	}

	if isConst && init == nil {
		c.bag.Errorf(diag.TUninitialized, d.Span(), "constant %q requires an initializer", name)
	}
	if !isConst && typeExpr == nil && init == nil {
		c.bag.Errorf(diag.TUninitialized, d.Span(), "variable %q needs a type annotation, an initializer, or both", name)
	}

	var declared types.Type
	if typeExpr != nil {
		declared = c.resolveTypeExpr(typeExpr)
	}
	var initType types.Type
	if init != nil {
		initType = c.checkExpr(init)
	}

	final := declared
	if declared != nil && initType != nil {
		if !compat(declared, initType) {
			c.bag.Errorf(diag.TTypeMismatch, d.Span(), "cannot initialize %q of type %s with value of type %s", name, declared, initType)
		}
	} else if declared == nil {
		final = initType
	}

	kind := symtab.KindVariable
	if isConst {
		kind = symtab.KindConstant
	}
	sym := &symtab.Symbol{
		Name: name, Kind: kind, Type: final, Node: d, DefinedAt: d.Span(),
		Mutable: !isConst, Initialized: init != nil || isConst,
	}
	if _, err := c.scope.Define(sym); err != nil {
		c.bag.Errorf(diag.TDuplicateDecl, d.Span(), "%q is already declared in this scope", name)
	}
	c.env[d] = final
}

// compat implements the §4.C compatibility rule: actual is compatible
// with expected if actual is Error (absorbed) or the two are equal.
func compat(expected, actual types.Type) bool {
	if expected == nil || actual == nil {
		return true
	}
	if _, ok := actual.(types.Error); ok {
		return true
	}
	if _, ok := expected.(types.Error); ok {
		return true
	}
	return types.Equal(expected, actual)
}

// returnsOnAllPaths is a conservative structural check: a block returns
// on all paths if its last statement does, where an if-statement returns
// on all paths only when both branches do.
func returnsOnAllPaths(b *ast.BlockStmt) bool {
	if b == nil || len(b.Stmts) == 0 {
		return false
	}
	return stmtReturnsOnAllPaths(b.Stmts[len(b.Stmts)-1])
}

func stmtReturnsOnAllPaths(s ast.Stmt) bool {
	switch st := s.(type) {
	case *ast.ReturnStmt:
		return true
	case *ast.BlockStmt:
		return returnsOnAllPaths(st)
	case *ast.IfStmt:
		if st.Else == nil {
			return false
		}
		return stmtReturnsOnAllPaths(st.Then) && stmtReturnsOnAllPaths(st.Else)
	default:
		return false
	}
}
