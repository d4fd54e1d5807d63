package ir

import (
	"coreforge/internal/ast"
	"coreforge/internal/types"
)

// Builder maintains an implicit "current module/function/block" cursor,
// the way the teacher's program construction keeps callers from
// threading *Module/*Function/*BasicBlock through every call.
type Builder struct {
	module *Module
	fn     *Function
	block  *BasicBlock
}

// NewBuilder returns a Builder over a fresh module named name.
func NewBuilder(name string) *Builder {
	return &Builder{module: NewModule(name)}
}

// Module returns the module under construction.
func (b *Builder) Module() *Module { return b.module }

// Function returns the function currently being built, or nil if none is
// open.
func (b *Builder) Function() *Function { return b.fn }

// Block returns the block instructions are currently appended to, or nil.
func (b *Builder) Block() *BasicBlock { return b.block }

// BeginFunction opens a new function on the module and makes it current.
func (b *Builder) BeginFunction(name string, ret types.Type) *Function {
	f := NewFunction(name, ret)
	b.module.Functions = append(b.module.Functions, f)
	b.fn = f
	b.block = nil
	return f
}

// BeginBlock adds a block of the given kind to the current function and
// makes it the cursor's current block.
func (b *Builder) BeginBlock(kind BlockKind, name string) *BasicBlock {
	blk := b.fn.AddBlock(kind, name)
	b.block = blk
	return blk
}

// SetBlock moves the cursor to an already-constructed block, e.g. to
// resume appending to a loop header after building its body.
func (b *Builder) SetBlock(blk *BasicBlock) { b.block = blk }

// Emit builds an instruction of op over operands, with the function's
// next instruction id and no result, and appends it to the current block.
func (b *Builder) Emit(op Opcode, operands ...Value) *Instruction {
	instr := &Instruction{ID: b.fn.NewInstructionID(), Op: op, Operands: operands}
	b.block.AddInstruction(instr)
	return instr
}

// EmitConst appends a Const instruction carrying value directly, and
// returns the Value it defines.
func (b *Builder) EmitConst(value any, t types.Type, sp ast.Span) Value {
	result := b.fn.NewValue("", t)
	instr := &Instruction{ID: b.fn.NewInstructionID(), Op: OpConst, ConstValue: value, Span: sp}
	instr.Result = result.pointer()
	b.block.AddInstruction(instr)
	return result
}

// EmitBinary appends a binary arithmetic/logical/comparison instruction
// and returns the Value it defines.
func (b *Builder) EmitBinary(op Opcode, left, right Value, resultType types.Type, sp ast.Span) Value {
	result := b.fn.NewValue("", resultType)
	instr := &Instruction{ID: b.fn.NewInstructionID(), Op: op, Operands: []Value{left, right}, Span: sp}
	instr.Result = result.pointer()
	b.block.AddInstruction(instr)
	return result
}

// EmitUnary appends a unary instruction (Neg/Not) and returns the Value
// it defines.
func (b *Builder) EmitUnary(op Opcode, operand Value, resultType types.Type, sp ast.Span) Value {
	result := b.fn.NewValue("", resultType)
	instr := &Instruction{ID: b.fn.NewInstructionID(), Op: op, Operands: []Value{operand}, Span: sp}
	instr.Result = result.pointer()
	b.block.AddInstruction(instr)
	return result
}

// EmitJump terminates the current block with an unconditional jump to
// target and links the CFG edge.
func (b *Builder) EmitJump(target *BasicBlock) *Instruction {
	instr := &Instruction{ID: b.fn.NewInstructionID(), Op: OpJump, Targets: []*BasicBlock{target}}
	b.block.AddInstruction(instr)
	b.block.Link(target)
	return instr
}

// EmitBranch terminates the current block with a conditional branch and
// links both CFG edges.
func (b *Builder) EmitBranch(cond Value, thenBlock, elseBlock *BasicBlock) *Instruction {
	instr := &Instruction{
		ID:       b.fn.NewInstructionID(),
		Op:       OpBranch,
		Operands: []Value{cond},
		Targets:  []*BasicBlock{thenBlock, elseBlock},
	}
	b.block.AddInstruction(instr)
	b.block.Link(thenBlock)
	b.block.Link(elseBlock)
	return instr
}

// EmitReturn terminates the current block with a return, optionally
// carrying value (nil for a bare return).
func (b *Builder) EmitReturn(value *Value) *Instruction {
	instr := &Instruction{ID: b.fn.NewInstructionID(), Op: OpReturn}
	if value != nil {
		instr.Operands = []Value{*value}
	}
	b.block.AddInstruction(instr)
	return instr
}

// EmitCall appends a call instruction and, unless void, returns the
// Value it defines.
func (b *Builder) EmitCall(callee string, args []Value, resultType types.Type, sp ast.Span) *Value {
	instr := &Instruction{ID: b.fn.NewInstructionID(), Op: OpCall, Operands: args, Span: sp}
	instr.SetMeta("callee", callee)
	var result *Value
	if _, isVoid := resultType.(types.Void); !isVoid && resultType != nil {
		v := b.fn.NewValue("", resultType)
		instr.Result = v.pointer()
		result = &v
	}
	b.block.AddInstruction(instr)
	return result
}

// EmitAlloc appends a stack-slot allocation and returns the Value
// addressing it. The slot is typed by the variable it will hold, not by
// a separate pointer kind — the closed type universe (internal/types)
// has none — so EmitLoad/EmitStore read it back through the same type.
func (b *Builder) EmitAlloc(name string, t types.Type) Value {
	result := b.fn.NewValue(name, t)
	instr := &Instruction{ID: b.fn.NewInstructionID(), Op: OpAlloc}
	instr.Result = result.pointer()
	b.block.AddInstruction(instr)
	return result
}

// EmitStore writes value into the slot addr addresses. A slot store never
// defines a Value (it is a pure side effect, already in the
// dead-code-elimination sink list), so repeated stores to the same slot
// across a function never collide with invariant I5.
func (b *Builder) EmitStore(addr, value Value) *Instruction {
	instr := &Instruction{ID: b.fn.NewInstructionID(), Op: OpStore, Operands: []Value{addr, value}}
	b.block.AddInstruction(instr)
	return instr
}

// EmitLoad reads the slot addr addresses and returns the fresh Value it
// defines.
func (b *Builder) EmitLoad(addr Value, resultType types.Type, sp ast.Span) Value {
	result := b.fn.NewValue("", resultType)
	instr := &Instruction{ID: b.fn.NewInstructionID(), Op: OpLoad, Operands: []Value{addr}, Span: sp}
	instr.Result = result.pointer()
	b.block.AddInstruction(instr)
	return result
}

// EmitGlobalLoad reads a module-level variable by name rather than by
// slot Value: a global's storage outlives and is shared by every
// function, so it cannot be addressed through a Value id (Values are
// scoped to the Function that defines them, per I1). The instruction
// carries the name in Meta["global"] instead, the same way the name the
// teacher keys its storage-load/store instructions on a field name
// rather than a cross-function address.
func (b *Builder) EmitGlobalLoad(name string, t types.Type, sp ast.Span) Value {
	result := b.fn.NewValue(name, t)
	instr := &Instruction{ID: b.fn.NewInstructionID(), Op: OpLoad, Span: sp}
	instr.SetMeta("global", name)
	instr.Result = result.pointer()
	b.block.AddInstruction(instr)
	return result
}

// EmitGlobalStore writes value to the module-level variable name.
func (b *Builder) EmitGlobalStore(name string, value Value, sp ast.Span) *Instruction {
	instr := &Instruction{ID: b.fn.NewInstructionID(), Op: OpStore, Operands: []Value{value}, Span: sp}
	instr.SetMeta("global", name)
	b.block.AddInstruction(instr)
	return instr
}

// EmitIndexLoad reads element index of aggregate base.
func (b *Builder) EmitIndexLoad(base, index Value, resultType types.Type, sp ast.Span) Value {
	result := b.fn.NewValue("", resultType)
	instr := &Instruction{ID: b.fn.NewInstructionID(), Op: OpLoad, Operands: []Value{base, index}, Span: sp}
	instr.SetMeta("kind", "index")
	instr.Result = result.pointer()
	b.block.AddInstruction(instr)
	return result
}

// EmitIndexStore writes value at element index of aggregate base and
// returns the Value naming the updated aggregate — arrays are modeled
// as ordinary (immutable) SSA values here, so "mutating" one element
// produces a new aggregate Value that the caller rebinds in place of
// the old one (see lower.go's lowerStore), rather than writing through
// a shared address.
func (b *Builder) EmitIndexStore(base, index, value Value, resultType types.Type, sp ast.Span) Value {
	result := b.fn.NewValue("", resultType)
	instr := &Instruction{ID: b.fn.NewInstructionID(), Op: OpStore, Operands: []Value{base, index, value}, Span: sp}
	instr.SetMeta("kind", "index")
	instr.Result = result.pointer()
	b.block.AddInstruction(instr)
	return result
}

// EmitFieldLoad reads field of struct-valued base.
func (b *Builder) EmitFieldLoad(base Value, field string, resultType types.Type, sp ast.Span) Value {
	result := b.fn.NewValue("", resultType)
	instr := &Instruction{ID: b.fn.NewInstructionID(), Op: OpLoad, Operands: []Value{base}, Span: sp}
	instr.SetMeta("kind", "member")
	instr.SetMeta("field", field)
	instr.Result = result.pointer()
	b.block.AddInstruction(instr)
	return result
}

// EmitFieldStore writes value into field of struct-valued base and
// returns the updated aggregate Value, same rebinding convention as
// EmitIndexStore.
func (b *Builder) EmitFieldStore(base Value, field string, value Value, resultType types.Type, sp ast.Span) Value {
	result := b.fn.NewValue("", resultType)
	instr := &Instruction{ID: b.fn.NewInstructionID(), Op: OpStore, Operands: []Value{base, value}, Span: sp}
	instr.SetMeta("kind", "member")
	instr.SetMeta("field", field)
	instr.Result = result.pointer()
	b.block.AddInstruction(instr)
	return result
}
