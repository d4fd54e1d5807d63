package ir

import (
	"coreforge/internal/ast"
	"coreforge/internal/checker"
	"coreforge/internal/types"
)

// BuildProgram is the AST-to-IR entry point, the counterpart to kanso's
// own ir.BuildProgram(contract, context): it walks a checked *ast.Program
// and emits a *Module via the Builder cursor API. Callers must pass the
// Result from checking the same prog value — lowering re-keys the
// checker's per-node type environment by AST node identity, so a
// different (even structurally identical) tree will not resolve.
func BuildProgram(prog *ast.Program, result *checker.Result) *Module {
	name := "module"
	if prog.Package != nil {
		name = prog.Package.Name
	}
	b := NewBuilder(name)
	globals := collectGlobals(prog)

	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.FunctionDecl:
			lowerFunction(b, result, globals, decl)
		case *ast.ParallelDecl:
			// The schedule/chunk-size hint is consumed by internal/work's
			// dispatch, not by the IR: the loop body lowers exactly like an
			// ordinary function.
			lowerFunction(b, result, globals, decl.Body)
		case *ast.ComptimeDecl:
			// Per ast.ComptimeDecl's own doc comment: checked like a
			// function body, never lowered to a runtime call.
		}
	}
	return b.Module()
}

// collectGlobals indexes the program's module-level var/const
// declarations by name, so a function body's Ident references can be
// told apart from local parameters without a second symbol table.
func collectGlobals(prog *ast.Program) map[string]ast.Decl {
	out := make(map[string]ast.Decl)
	for _, d := range prog.Decls {
		switch decl := d.(type) {
		case *ast.VariableDecl:
			out[decl.Name] = decl
		case *ast.ConstantDecl:
			out[decl.Name] = decl
		}
	}
	return out
}

// lowering holds the state threaded through one function body's descent:
// the builder cursor, the shared type environment, the global index, and
// the current function's local-variable slots.
type lowering struct {
	b       *Builder
	result  *checker.Result
	globals map[string]ast.Decl
	vars    map[string]Value
}

func lowerFunction(b *Builder, result *checker.Result, globals map[string]ast.Decl, decl *ast.FunctionDecl) *Function {
	retType := types.Type(types.Void{})
	if sig, ok := result.TypeOf(decl).(types.Function); ok && sig.Return != nil {
		retType = sig.Return
	}

	fn := b.BeginFunction(decl.Name, retType)
	b.BeginBlock(BlockEntry, "entry")

	lz := &lowering{b: b, result: result, globals: globals, vars: make(map[string]Value)}

	// Every parameter gets a stack slot up front: internal/ast has no
	// local-declaration statement (see internal/parse), so a parameter's
	// slot is the only local binding a function body can ever assign to.
	for _, p := range decl.Params {
		pt := result.TypeOf(p)
		paramVal := fn.NewParam(p.Name, pt)
		addr := b.EmitAlloc(p.Name, pt)
		b.EmitStore(addr, paramVal)
		lz.vars[p.Name] = addr
	}

	lz.lowerBlock(decl.Body)

	if tail := b.Block(); tail.Terminator() == nil {
		lz.emitReturnIn(tail, nil)
	}
	return fn
}

// emitReturnIn emits a return into blk (which must be the builder's
// current block) and promotes it to an exit block, the same bookkeeping
// EmitBranch/EmitJump do for their own terminators.
func (lz *lowering) emitReturnIn(blk *BasicBlock, value *Value) {
	lz.b.SetBlock(blk)
	lz.b.EmitReturn(value)
	blk.Kind = BlockExit
	lz.b.Function().Exits = append(lz.b.Function().Exits, blk)
}

func (lz *lowering) lowerBlock(blk *ast.BlockStmt) {
	for _, s := range blk.Stmts {
		lz.lowerStmt(s)
	}
}

func (lz *lowering) lowerStmt(s ast.Stmt) {
	// A block whose current tail already ends in a terminator (an earlier
	// branch returned on every path) has nothing left to reach; appending
	// more instructions to it would violate I3.
	if tail := lz.b.Block(); tail == nil || tail.Terminator() != nil {
		return
	}

	switch st := s.(type) {
	case *ast.BlockStmt:
		lz.lowerBlock(st)
	case *ast.ExprStmt:
		lz.lowerExpr(st.X)
	case *ast.ReturnStmt:
		if st.Value == nil {
			lz.emitReturnIn(lz.b.Block(), nil)
			return
		}
		v := lz.lowerExpr(st.Value)
		lz.emitReturnIn(lz.b.Block(), &v)
	case *ast.IfStmt:
		lz.lowerIf(st)
	case *ast.ForStmt:
		lz.lowerFor(st)
	case *ast.AssignStmt:
		v := lz.lowerExpr(st.Value)
		lz.lowerStore(st.Target, v)
	}
}

func (lz *lowering) lowerIf(s *ast.IfStmt) {
	cond := lz.lowerExpr(s.Cond)
	src := lz.b.Block()

	thenBlk := lz.b.BeginBlock(BlockNormal, "if.then")
	var elseBlk *BasicBlock
	if s.Else != nil {
		elseBlk = lz.b.BeginBlock(BlockNormal, "if.else")
	}
	mergeBlk := lz.b.BeginBlock(BlockNormal, "if.end")

	falseTarget := elseBlk
	if falseTarget == nil {
		falseTarget = mergeBlk
	}
	lz.b.SetBlock(src)
	lz.b.EmitBranch(cond, thenBlk, falseTarget)

	lz.b.SetBlock(thenBlk)
	lz.lowerStmt(s.Then)
	if tail := lz.b.Block(); tail.Terminator() == nil {
		lz.b.SetBlock(tail)
		lz.b.EmitJump(mergeBlk)
	}

	if s.Else != nil {
		lz.b.SetBlock(elseBlk)
		lz.lowerStmt(s.Else)
		if tail := lz.b.Block(); tail.Terminator() == nil {
			lz.b.SetBlock(tail)
			lz.b.EmitJump(mergeBlk)
		}
	}

	lz.b.SetBlock(mergeBlk)
}

// lowerFor lowers the unified while/for loop: a header block that
// re-evaluates Cond on every iteration, a body block, and an exit block.
// Since local variables are addressed through EmitLoad/EmitStore slots
// rather than SSA registers, a later iteration's header load simply
// re-reads whatever the previous iteration's body stored — no phi nodes
// are needed to merge values across the back edge.
func (lz *lowering) lowerFor(s *ast.ForStmt) {
	src := lz.b.Block()
	headerBlk := lz.b.BeginBlock(BlockLoop, "for.header")
	bodyBlk := lz.b.BeginBlock(BlockNormal, "for.body")
	exitBlk := lz.b.BeginBlock(BlockNormal, "for.exit")

	lz.b.SetBlock(src)
	lz.b.EmitJump(headerBlk)

	lz.b.SetBlock(headerBlk)
	cond := lz.lowerExpr(s.Cond)
	lz.b.EmitBranch(cond, bodyBlk, exitBlk)

	lz.b.SetBlock(bodyBlk)
	lz.lowerBlock(s.Body)
	if tail := lz.b.Block(); tail.Terminator() == nil {
		lz.b.SetBlock(tail)
		lz.b.EmitJump(headerBlk)
	}

	lz.b.SetBlock(exitBlk)
}

func (lz *lowering) lowerStore(target ast.Expr, value Value) {
	switch x := target.(type) {
	case *ast.Ident:
		if addr, ok := lz.vars[x.Name]; ok {
			lz.b.EmitStore(addr, value)
			return
		}
		lz.b.EmitGlobalStore(x.Name, value, x.Span())
	case *ast.IndexExpr:
		base := lz.lowerExpr(x.X)
		idx := lz.lowerExpr(x.Index)
		updated := lz.b.EmitIndexStore(base, idx, value, lz.result.TypeOf(x.X), x.Span())
		lz.lowerStore(x.X, updated)
	case *ast.MemberExpr:
		base := lz.lowerExpr(x.X)
		updated := lz.b.EmitFieldStore(base, x.Name, value, lz.result.TypeOf(x.X), x.Span())
		lz.lowerStore(x.X, updated)
	}
}

func (lz *lowering) lowerExpr(e ast.Expr) Value {
	t := lz.result.TypeOf(e)
	sp := e.Span()

	switch x := e.(type) {
	case *ast.IntLiteral:
		return lz.b.EmitConst(x.Value, t, sp)
	case *ast.FloatLiteral:
		return lz.b.EmitConst(x.Value, t, sp)
	case *ast.BoolLiteral:
		return lz.b.EmitConst(x.Value, t, sp)
	case *ast.StringLiteral:
		return lz.b.EmitConst(x.Value, t, sp)
	case *ast.Ident:
		return lz.lowerIdent(x, t, sp)
	case *ast.PrefixExpr:
		v := lz.lowerExpr(x.X)
		return lz.b.EmitUnary(prefixOpcode(x.Op), v, t, sp)
	case *ast.InfixExpr:
		l := lz.lowerExpr(x.Left)
		r := lz.lowerExpr(x.Right)
		return lz.b.EmitBinary(infixOpcode(x.Op), l, r, t, sp)
	case *ast.CallExpr:
		return lz.lowerCall(x, t, sp)
	case *ast.IndexExpr:
		base := lz.lowerExpr(x.X)
		idx := lz.lowerExpr(x.Index)
		return lz.b.EmitIndexLoad(base, idx, t, sp)
	case *ast.MemberExpr:
		base := lz.lowerExpr(x.X)
		return lz.b.EmitFieldLoad(base, x.Name, t, sp)
	default:
		// The Expr union is closed (ast/expr.go); this only triggers if a
		// new Expr kind is added here without a case above.
		return lz.b.EmitConst(nil, types.Error{}, sp)
	}
}

func (lz *lowering) lowerIdent(id *ast.Ident, t types.Type, sp ast.Span) Value {
	if addr, ok := lz.vars[id.Name]; ok {
		return lz.b.EmitLoad(addr, t, sp)
	}
	if decl, ok := lz.globals[id.Name]; ok {
		if c, ok := decl.(*ast.ConstantDecl); ok {
			// A constant's value never changes, so each reference inlines
			// its initializer rather than sharing a cross-function slot —
			// no Value can be referenced outside the function that defines
			// it (I1), and constants have no mutable storage to protect.
			return lz.lowerExpr(c.Init)
		}
		return lz.b.EmitGlobalLoad(id.Name, t, sp)
	}
	// A package or import name used as a bare expression carries no IR
	// representation of its own; absorb it the same way the checker
	// absorbs an already-diagnosed mismatch rather than panicking.
	return lz.b.EmitConst(nil, types.Error{}, sp)
}

func (lz *lowering) lowerCall(x *ast.CallExpr, t types.Type, sp ast.Span) Value {
	args := make([]Value, 0, len(x.Args))
	for _, a := range x.Args {
		args = append(args, lz.lowerExpr(a))
	}
	result := lz.b.EmitCall(calleeName(x.Callee), args, t, sp)
	if result != nil {
		return *result
	}
	return lz.b.EmitConst(nil, types.Void{}, sp)
}

func calleeName(e ast.Expr) string {
	if id, ok := e.(*ast.Ident); ok {
		return id.Name
	}
	return e.String()
}

func prefixOpcode(op string) Opcode {
	switch op {
	case "-":
		return OpNeg
	case "!":
		return OpNot
	default:
		return OpNop
	}
}

func infixOpcode(op string) Opcode {
	switch op {
	case "+":
		return OpAdd
	case "-":
		return OpSub
	case "*":
		return OpMul
	case "/":
		return OpDiv
	case "%":
		return OpMod
	case "==":
		return OpEq
	case "!=":
		return OpNe
	case "<":
		return OpLt
	case "<=":
		return OpLe
	case ">":
		return OpGt
	case ">=":
		return OpGe
	case "&&":
		return OpLogicalAnd
	case "||":
		return OpLogicalOr
	default:
		return OpNop
	}
}
