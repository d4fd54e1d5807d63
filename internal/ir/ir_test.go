package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coreforge/internal/ast"
	"coreforge/internal/types"
)

// buildAdd builds:
//
//	function add(a: u32, b: u32) -> u32
//	  entry:
//	    %2 = add %0, %1
//	    return %2
func buildAdd() *Function {
	f := NewFunction("add", types.U32)
	a := f.NewParam("a", types.U32)
	b := f.NewParam("b", types.U32)
	entry := f.AddBlock(BlockEntry, "entry")
	sum := f.NewValue("", types.U32)
	instr := &Instruction{ID: f.NewInstructionID(), Op: OpAdd, Operands: []Value{a, b}, Result: func() *Value { v := sum; return &v }()}
	entry.AddInstruction(instr)
	ret := &Instruction{ID: f.NewInstructionID(), Op: OpReturn, Operands: []Value{sum}}
	entry.AddInstruction(ret)
	f.Exits = append(f.Exits, entry)
	entry.Kind = BlockEntry
	return f
}

func TestFunctionInvariantsHoldForWellFormedFunction(t *testing.T) {
	f := buildAdd()
	problems := f.CheckInvariants()
	assert.Empty(t, problems)
}

func TestCheckInvariantsCatchesUndefinedOperand(t *testing.T) {
	f := NewFunction("bad", types.Void{})
	entry := f.AddBlock(BlockEntry, "entry")
	ghost := Value{ID: 999}
	entry.AddInstruction(&Instruction{ID: f.NewInstructionID(), Op: OpReturn, Operands: []Value{ghost}})
	f.Exits = append(f.Exits, entry)

	problems := f.CheckInvariants()
	assert.NotEmpty(t, problems)
}

func TestCheckInvariantsCatchesNonTerminalTerminator(t *testing.T) {
	f := NewFunction("bad", types.Void{})
	entry := f.AddBlock(BlockEntry, "entry")
	entry.AddInstruction(&Instruction{ID: f.NewInstructionID(), Op: OpReturn})
	entry.AddInstruction(&Instruction{ID: f.NewInstructionID(), Op: OpNop})
	f.Exits = append(f.Exits, entry)

	problems := f.CheckInvariants()
	assert.NotEmpty(t, problems)
}

func TestCheckInvariantsCatchesMissingReturnInExit(t *testing.T) {
	f := NewFunction("bad", types.Void{})
	entry := f.AddBlock(BlockEntry, "entry")
	entry.AddInstruction(&Instruction{ID: f.NewInstructionID(), Op: OpNop})
	f.Exits = append(f.Exits, entry)

	problems := f.CheckInvariants()
	assert.NotEmpty(t, problems)
}

func TestBlockLinkIsMutuallyConsistent(t *testing.T) {
	a := &BasicBlock{ID: 0, Name: "a"}
	b := &BasicBlock{ID: 1, Name: "b"}
	a.Link(b)

	assert.Contains(t, a.Successors, b)
	assert.Contains(t, b.Predecessors, a)

	a.Unlink(b)
	assert.NotContains(t, a.Successors, b)
	assert.NotContains(t, b.Predecessors, a)
}

func TestUnlinkAllSeversEveryEdge(t *testing.T) {
	a := &BasicBlock{ID: 0, Name: "a"}
	b := &BasicBlock{ID: 1, Name: "b"}
	c := &BasicBlock{ID: 2, Name: "c"}
	a.Link(b)
	c.Link(b)

	b.UnlinkAll()
	assert.Empty(t, b.Predecessors)
	assert.NotContains(t, a.Successors, b)
	assert.NotContains(t, c.Successors, b)
}

func TestBuilderEmitsLinkedCFG(t *testing.T) {
	b := NewBuilder("m")
	b.BeginFunction("f", types.Boolean)
	entry := b.BeginBlock(BlockEntry, "entry")
	thenBlk := b.BeginBlock(BlockNormal, "then")
	exitBlk := b.BeginBlock(BlockExit, "exit")

	b.SetBlock(entry)
	cond := b.EmitConst(true, types.Boolean, ast.Span{})
	b.EmitBranch(cond, thenBlk, exitBlk)

	b.SetBlock(thenBlk)
	b.EmitJump(exitBlk)

	b.SetBlock(exitBlk)
	b.EmitReturn(&cond)

	assert.Contains(t, entry.Successors, thenBlk)
	assert.Contains(t, entry.Successors, exitBlk)
	assert.Contains(t, thenBlk.Predecessors, entry)
	assert.Contains(t, exitBlk.Predecessors, thenBlk)
	assert.Contains(t, exitBlk.Predecessors, entry)
}

func TestPrintIncludesFunctionAndInstructions(t *testing.T) {
	f := buildAdd()
	m := NewModule("demo")
	m.Functions = append(m.Functions, f)

	out := Print(m)
	assert.Contains(t, out, "function add")
	assert.Contains(t, out, "add")
	assert.Contains(t, out, "return")
}

func TestValueEqualityIsByID(t *testing.T) {
	a := Value{ID: 1, Name: "x"}
	b := Value{ID: 1, Name: "y"}
	c := Value{ID: 2, Name: "x"}
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
