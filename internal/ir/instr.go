package ir

import "coreforge/internal/ast"

// Instruction is one operation within a BasicBlock: an opcode, its
// ordered operands, an optional result value, the source span it was
// built from (for diagnostics surfaced post-checking, e.g. a pass
// rejecting a fold), and free-form metadata.
type Instruction struct {
	ID       int
	Op       Opcode
	Operands []Value
	Result   *Value
	Span     ast.Span
	Meta     map[string]string

	// ConstValue holds the literal payload of an OpConst instruction.
	// Const carries its value directly in this field rather than as a
	// disguised operand Value id, so folding and printing never need to
	// chase through a synthetic value to recover the literal.
	ConstValue any

	// Targets holds the destination blocks for a terminator: one entry
	// for Jump, two (true, false) for Branch, none for Return.
	Targets []*BasicBlock
}

// IsTerminator reports whether this instruction ends its block.
func (in *Instruction) IsTerminator() bool { return in.Op.IsTerminator() }

// NewInstruction builds an Instruction with no result, no span, no
// metadata. Callers fill in the fields they need.
func NewInstruction(id int, op Opcode, operands ...Value) *Instruction {
	return &Instruction{ID: id, Op: op, Operands: operands}
}

// WithResult sets the instruction's result value and returns it, so a
// builder can chain construction.
func (in *Instruction) WithResult(v Value) *Instruction {
	in.Result = v.pointer()
	return in
}

func (v Value) pointer() *Value {
	cp := v
	return &cp
}

// WithSpan sets the instruction's source span.
func (in *Instruction) WithSpan(sp ast.Span) *Instruction {
	in.Span = sp
	return in
}

// SetMeta records a metadata key/value pair, creating the map on first
// use.
func (in *Instruction) SetMeta(key, value string) {
	if in.Meta == nil {
		in.Meta = make(map[string]string)
	}
	in.Meta[key] = value
}
