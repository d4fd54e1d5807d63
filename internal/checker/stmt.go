package checker

import (
	"coreforge/internal/ast"
	"coreforge/internal/diag"
	"coreforge/internal/symtab"
	"coreforge/internal/types"
)

// checkBlock enters a new scope, checks every statement in order, leaves
// the scope, and returns the type of the last statement (for return-value
// inference) or Void if the block is empty or its last statement has no
// type.
func (c *Checker) checkBlock(b *ast.BlockStmt) types.Type {
	c.scope.EnterScope()
	var last types.Type = types.Void{}
	for _, s := range b.Stmts {
		if t := c.checkStmt(s); t != nil {
			last = t
		}
	}
	c.scope.LeaveScope()
	c.env[b] = last
	return last
}

func (c *Checker) checkStmt(s ast.Stmt) types.Type {
	switch st := s.(type) {
	case *ast.ExprStmt:
		t := c.checkExpr(st.X)
		c.env[st] = t
		return t
	case *ast.ReturnStmt:
		c.checkReturn(st)
		return nil
	case *ast.IfStmt:
		c.checkIf(st)
		return nil
	case *ast.ForStmt:
		c.checkFor(st)
		return nil
	case *ast.BlockStmt:
		return c.checkBlock(st)
	case *ast.AssignStmt:
		c.checkAssign(st)
		return nil
	default:
		return nil
	}
}

func (c *Checker) checkReturn(st *ast.ReturnStmt) {
	if !c.inFunction {
		c.bag.Errorf(diag.TMissingReturn, st.Span(), "return statement outside of a function")
		return
	}
	if st.Value == nil {
		if c.currentReturn != nil {
			if _, isVoid := c.currentReturn.(types.Void); !isVoid {
				c.bag.Errorf(diag.TInvalidReturnType, st.Span(), "bare return in function declared to return %s", c.currentReturn)
			}
		}
		return
	}
	actual := c.checkExpr(st.Value)
	if !compat(c.currentReturn, actual) {
		c.bag.Errorf(diag.TInvalidReturnType, st.Span(), "returned value has type %s, expected %s", actual, c.currentReturn)
	}
}

func (c *Checker) checkIf(st *ast.IfStmt) {
	condType := c.checkExpr(st.Cond)
	if !compat(types.Boolean, condType) {
		c.bag.Errorf(diag.TTypeMismatch, st.Cond.Span(), "if condition must be bool, got %s", condType)
	}
	c.checkBlock(st.Then)
	switch e := st.Else.(type) {
	case nil:
	case *ast.BlockStmt:
		c.checkBlock(e)
	case *ast.IfStmt:
		c.checkIf(e)
	}
}

func (c *Checker) checkFor(st *ast.ForStmt) {
	condType := c.checkExpr(st.Cond)
	if !compat(types.Boolean, condType) {
		c.bag.Errorf(diag.TTypeMismatch, st.Cond.Span(), "loop condition must be bool, got %s", condType)
	}
	c.checkBlock(st.Body)
}

func (c *Checker) checkAssign(st *ast.AssignStmt) {
	switch st.Target.(type) {
	case *ast.Ident, *ast.IndexExpr, *ast.MemberExpr:
		// valid lvalues
	default:
		c.bag.Errorf(diag.TInvalidAssignment, st.Span(), "assignment target is not an lvalue")
	}

	targetType := c.checkExpr(st.Target)
	valueType := c.checkExpr(st.Value)
	if !compat(targetType, valueType) {
		c.bag.Errorf(diag.TTypeMismatch, st.Span(), "cannot assign value of type %s to target of type %s", valueType, targetType)
	}

	if id, ok := st.Target.(*ast.Ident); ok {
		if sym := c.scope.Lookup(id.Name); sym != nil {
			if sym.Kind == symtab.KindConstant {
				c.bag.Errorf(diag.TInvalidAssignment, st.Span(), "cannot assign to constant %q", id.Name)
			}
			sym.Initialized = true
			c.scope.MarkModified(id.Name)
		}
	}
}
