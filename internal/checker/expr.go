package checker

import (
	"coreforge/internal/ast"
	"coreforge/internal/diag"
	"coreforge/internal/symtab"
	"coreforge/internal/types"
)

// checkExpr checks expr, records its type in the environment, and
// returns the type for the caller to use immediately (e.g. to compare
// against a declared type without a second map lookup).
func (c *Checker) checkExpr(expr ast.Expr) types.Type {
	var t types.Type
	switch e := expr.(type) {
	case *ast.Ident:
		t = c.checkIdent(e)
	case *ast.IntLiteral:
		t = types.I64
	case *ast.FloatLiteral:
		t = types.F64
	case *ast.StringLiteral:
		t = types.Str
	case *ast.BoolLiteral:
		t = types.Boolean
	case *ast.PrefixExpr:
		t = c.checkPrefix(e)
	case *ast.InfixExpr:
		t = c.checkInfix(e)
	case *ast.CallExpr:
		t = c.checkCall(e)
	case *ast.IndexExpr:
		t = c.checkIndex(e)
	case *ast.MemberExpr:
		t = c.checkMember(e)
	default:
		t = types.Error{}
	}
	c.env[expr] = t
	return t
}

func (c *Checker) checkIdent(e *ast.Ident) types.Type {
	sym := c.scope.Lookup(e.Name)
	if sym == nil {
		c.bag.Errorf(diag.TUndefinedVariable, e.Span(), "undefined name %q", e.Name)
		return types.Error{}
	}
	c.scope.MarkUsed(e.Name)
	if sym.Kind == symtab.KindVariable && !sym.Initialized {
		c.bag.Errorf(diag.TUninitialized, e.Span(), "%q is used before it is initialized", e.Name)
	}
	if sym.Type == nil {
		return types.Error{}
	}
	return sym.Type
}

func (c *Checker) checkPrefix(e *ast.PrefixExpr) types.Type {
	operand := c.checkExpr(e.X)
	switch e.Op {
	case "!":
		if !compat(types.Boolean, operand) {
			c.bag.Errorf(diag.TInvalidOperation, e.Span(), "operator ! requires bool, got %s", operand)
			return types.Error{}
		}
		return types.Boolean
	case "-":
		if !types.IsNumeric(operand) {
			c.bag.Errorf(diag.TInvalidOperation, e.Span(), "unary - requires a numeric operand, got %s", operand)
			return types.Error{}
		}
		return operand
	default:
		c.bag.Errorf(diag.TInvalidOperation, e.Span(), "unknown prefix operator %q", e.Op)
		return types.Error{}
	}
}

func (c *Checker) checkInfix(e *ast.InfixExpr) types.Type {
	left := c.checkExpr(e.Left)
	right := c.checkExpr(e.Right)

	switch e.Op {
	case "+", "-", "*", "/":
		if e.Op == "+" {
			_, leftStr := left.(types.String)
			_, rightStr := right.(types.String)
			if leftStr && rightStr {
				return types.Str
			}
		}
		if !types.IsNumeric(left) || !types.IsNumeric(right) {
			c.bag.Errorf(diag.TInvalidBinaryOp, e.Span(), "operator %s requires numeric operands, got %s and %s", e.Op, left, right)
			return types.Error{}
		}
		if _, ok := left.(types.Float); ok {
			return left
		}
		if _, ok := right.(types.Float); ok {
			return right
		}
		return left
	case "==", "!=":
		if !compat(left, right) && !compat(right, left) {
			c.bag.Errorf(diag.TInvalidBinaryOp, e.Span(), "cannot compare %s and %s", left, right)
			return types.Error{}
		}
		return types.Boolean
	case "<", "<=", ">", ">=":
		_, leftStr := left.(types.String)
		_, rightStr := right.(types.String)
		if leftStr && rightStr {
			return types.Boolean
		}
		if types.IsNumeric(left) && types.IsNumeric(right) {
			return types.Boolean
		}
		c.bag.Errorf(diag.TInvalidBinaryOp, e.Span(), "ordering operator %s requires two numbers or two strings, got %s and %s", e.Op, left, right)
		return types.Error{}
	case "&&", "||":
		if !compat(types.Boolean, left) || !compat(types.Boolean, right) {
			c.bag.Errorf(diag.TInvalidBinaryOp, e.Span(), "logical operator %s requires bool operands, got %s and %s", e.Op, left, right)
			return types.Error{}
		}
		return types.Boolean
	default:
		c.bag.Errorf(diag.TInvalidBinaryOp, e.Span(), "unknown operator %q", e.Op)
		return types.Error{}
	}
}

func (c *Checker) checkCall(e *ast.CallExpr) types.Type {
	args := make([]types.Type, len(e.Args))
	for i, a := range e.Args {
		args[i] = c.checkExpr(a)
	}

	ident, ok := e.Callee.(*ast.Ident)
	if !ok {
		c.checkExpr(e.Callee)
		c.bag.Errorf(diag.TNotCallable, e.Span(), "callee is not a function")
		return types.Error{}
	}

	sym := c.scope.Lookup(ident.Name)
	if sym == nil {
		c.bag.Errorf(diag.TUndefinedFunction, e.Span(), "undefined function %q", ident.Name)
		return types.Error{}
	}
	c.scope.MarkUsed(ident.Name)
	c.env[ident] = sym.Type

	fn, ok := sym.Type.(types.Function)
	if !ok {
		c.bag.Errorf(diag.TNotCallable, e.Span(), "%q is not callable", ident.Name)
		return types.Error{}
	}
	if len(args) != len(fn.Params) {
		c.bag.Errorf(diag.TArityMismatch, e.Span(), "%q expects %d arguments, got %d", ident.Name, len(fn.Params), len(args))
		return types.Error{}
	}
	for i, p := range fn.Params {
		if !compat(p, args[i]) {
			c.bag.Errorf(diag.TInvalidArguments, e.Args[i].Span(), "argument %d to %q has type %s, expected %s", i+1, ident.Name, args[i], p)
		}
	}
	if fn.Return == nil {
		return types.Void{}
	}
	return fn.Return
}

func (c *Checker) checkIndex(e *ast.IndexExpr) types.Type {
	target := c.checkExpr(e.X)
	idx := c.checkExpr(e.Index)
	if !types.IsInteger(idx) {
		c.bag.Errorf(diag.TInvalidOperation, e.Index.Span(), "index must be an integer, got %s", idx)
	}
	arr, ok := target.(types.Array)
	if !ok {
		c.bag.Errorf(diag.TInvalidOperation, e.Span(), "%s is not indexable", target)
		return types.Error{}
	}
	return arr.Elem
}

func (c *Checker) checkMember(e *ast.MemberExpr) types.Type {
	target := c.checkExpr(e.X)
	st, ok := target.(types.Struct)
	if !ok {
		if custom, isCustom := target.(types.Custom); isCustom {
			st, ok = custom.Underlying.(types.Struct)
		}
	}
	if !ok {
		c.bag.Errorf(diag.TFieldNotFound, e.Span(), "%s has no fields", target)
		return types.Error{}
	}
	for _, f := range st.Fields {
		if f.Name == e.Name {
			return f.Type
		}
	}
	c.bag.Errorf(diag.TFieldNotFound, e.Span(), "no field %q on %s", e.Name, target)
	return types.Error{}
}
