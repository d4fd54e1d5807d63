// Package foldconst implements the function-level constant-folding pass:
// a fixed-point loop (bounded by MaxIterations) that replaces arithmetic
// on known-constant operands with a single Const instruction carrying
// the computed value.
package foldconst

import (
	"coreforge/internal/ir"
	"coreforge/internal/passmgr"
)

// Pass is a passmgr.FunctionPass. MaxIterations bounds the internal
// fixed-point loop; the pass manager itself never iterates a pass.
type Pass struct {
	MaxIterations int

	manager *passmgr.Manager

	lastFolded    int
	lastRemoved   int
	lastIterCount int
}

// New returns a Pass bounded to maxIterations fixed-point rounds.
func New(maxIterations int) *Pass {
	if maxIterations <= 0 {
		maxIterations = 1
	}
	return &Pass{MaxIterations: maxIterations}
}

func (p *Pass) Name() string { return "constant-folding" }

// Init captures the owning Manager so RunOnFunction can report its
// counters through SetCounter, satisfying passmgr.Initializer.
func (p *Pass) Init(m *passmgr.Manager) { p.manager = m }

// RunOnFunction folds constant arithmetic within f until a fixed point
// or MaxIterations, whichever comes first.
func (p *Pass) RunOnFunction(f *ir.Function) (bool, error) {
	changedGlobal := false
	folded := 0
	iter := 0

	for iter < p.MaxIterations {
		constants := make(map[int]any)
		changedThisIter := false

		for _, block := range f.Blocks {
			for _, instr := range block.Instructions {
				if instr.Op == ir.OpConst && instr.Result != nil {
					constants[instr.Result.ID] = instr.ConstValue
					continue
				}
				if foldInstruction(instr, constants) {
					folded++
					changedThisIter = true
					changedGlobal = true
					if instr.Result != nil {
						constants[instr.Result.ID] = instr.ConstValue
					}
				}
			}
		}

		iter++
		if !changedThisIter {
			break
		}
	}

	p.lastFolded = folded
	p.lastRemoved = 0 // folding replaces in place; it does not delete instructions
	p.lastIterCount = iter

	if p.manager != nil {
		p.manager.SetCounter(p.Name(), "folded_expressions", uint64(folded))
		p.manager.SetCounter(p.Name(), "iterations", uint64(iter))
	}

	return changedGlobal, nil
}

// foldInstruction attempts to fold instr in place given the current
// constant map, mutating it into an OpConst instruction on success.
func foldInstruction(instr *ir.Instruction, constants map[int]any) bool {
	switch len(instr.Operands) {
	case 2:
		return foldBinary(instr, constants)
	case 1:
		return foldUnary(instr, constants)
	default:
		return false
	}
}

func foldBinary(instr *ir.Instruction, constants map[int]any) bool {
	switch instr.Op {
	case ir.OpAdd, ir.OpSub, ir.OpMul, ir.OpDiv, ir.OpMod:
	default:
		return false
	}
	left, lok := asInt(instr.Operands[0], constants)
	right, rok := asInt(instr.Operands[1], constants)
	if !lok || !rok {
		return false
	}

	var result int64
	switch instr.Op {
	case ir.OpAdd:
		result = wrapAdd(left, right)
	case ir.OpSub:
		result = wrapSub(left, right)
	case ir.OpMul:
		result = wrapMul(left, right)
	case ir.OpDiv:
		if right == 0 {
			return false
		}
		result = left / right
	case ir.OpMod:
		if right == 0 {
			return false
		}
		result = left % right
	}

	instr.Op = ir.OpConst
	instr.ConstValue = result
	instr.Operands = nil
	return true
}

func foldUnary(instr *ir.Instruction, constants map[int]any) bool {
	switch instr.Op {
	case ir.OpNeg, ir.OpNot:
	default:
		return false
	}
	v, ok := asInt(instr.Operands[0], constants)
	if !ok {
		return false
	}

	var result int64
	switch instr.Op {
	case ir.OpNeg:
		result = wrapNeg(v)
	case ir.OpNot:
		result = ^v
	}

	instr.Op = ir.OpConst
	instr.ConstValue = result
	instr.Operands = nil
	return true
}

func asInt(v ir.Value, constants map[int]any) (int64, bool) {
	raw, ok := constants[v.ID]
	if !ok {
		return 0, false
	}
	switch n := raw.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}

// wrapAdd/wrapSub/wrapMul/wrapNeg implement the defined wrapping
// (two's-complement) overflow semantics the pass requires for Add, Sub,
// Mul and Neg; Go's native int64 arithmetic already wraps on overflow,
// so these exist to name the intent rather than to implement anything
// beyond the language's own semantics.
func wrapAdd(a, b int64) int64 { return a + b }
func wrapSub(a, b int64) int64 { return a - b }
func wrapMul(a, b int64) int64 { return a * b }
func wrapNeg(a int64) int64    { return -a }

// Report returns the result of the most recent RunOnFunction call:
// (folded_expressions, removed_instructions, iterations).
func (p *Pass) Report() (folded, removed, iterations int) {
	return p.lastFolded, p.lastRemoved, p.lastIterCount
}
