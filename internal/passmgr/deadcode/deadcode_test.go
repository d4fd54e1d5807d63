package deadcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coreforge/internal/ast"
	"coreforge/internal/ir"
	"coreforge/internal/types"
)

func sp() ast.Span { return ast.Span{} }

func TestEliminatesUnusedPureInstruction(t *testing.T) {
	b := ir.NewBuilder("m")
	b.BeginFunction("f", types.I64)
	b.BeginBlock(ir.BlockEntry, "entry")

	unused := b.EmitConst(int64(42), types.I64, sp())
	_ = unused
	used := b.EmitConst(int64(1), types.I64, sp())
	b.EmitReturn(&used)

	fn := b.Function()
	p := New()

	changed, err := p.RunOnFunction(fn)
	require.NoError(t, err)
	assert.True(t, changed)

	removedInstrs, _, eliminatedValues := p.Report()
	assert.Equal(t, 1, removedInstrs)
	assert.Equal(t, 1, eliminatedValues)
	assert.Len(t, fn.Entry.Instructions, 2)
}

func TestRetainsSideEffectfulInstructionEvenIfResultUnused(t *testing.T) {
	b := ir.NewBuilder("m")
	b.BeginFunction("f", types.Void{})
	b.BeginBlock(ir.BlockEntry, "entry")

	arg := b.EmitConst(int64(1), types.I64, sp())
	b.EmitCall("sideEffect", []ir.Value{arg}, types.Void{}, sp())
	b.EmitReturn(nil)

	fn := b.Function()
	p := New()

	changed, err := p.RunOnFunction(fn)
	require.NoError(t, err)
	assert.False(t, changed, "nothing to remove: the call is a sink and keeps its operand live")
	assert.Len(t, fn.Entry.Instructions, 3)
}

func TestPrunesUnreachableBlock(t *testing.T) {
	b := ir.NewBuilder("m")
	fn := b.BeginFunction("f", types.Void{})
	entry := b.BeginBlock(ir.BlockEntry, "entry")
	exit := fn.AddBlock(ir.BlockExit, "exit")
	orphan := fn.AddBlock(ir.BlockNormal, "orphan")
	_ = orphan

	b.SetBlock(entry)
	b.EmitJump(exit)

	b.SetBlock(exit)
	b.EmitReturn(nil)

	p := New()
	changed, err := p.RunOnFunction(fn)
	require.NoError(t, err)
	assert.True(t, changed)

	_, removedBlocks, _ := p.Report()
	assert.Equal(t, 1, removedBlocks)
	assert.Len(t, fn.Blocks, 2)
}

func TestLivenessPropagatesThroughChainOfPureInstructions(t *testing.T) {
	b := ir.NewBuilder("m")
	b.BeginFunction("f", types.I64)
	b.BeginBlock(ir.BlockEntry, "entry")

	a := b.EmitConst(int64(1), types.I64, sp())
	c := b.EmitConst(int64(2), types.I64, sp())
	sum := b.EmitBinary(ir.OpAdd, a, c, types.I64, sp())
	doubled := b.EmitBinary(ir.OpAdd, sum, sum, types.I64, sp())
	b.EmitReturn(&doubled)

	fn := b.Function()
	p := New()

	changed, err := p.RunOnFunction(fn)
	require.NoError(t, err)
	assert.False(t, changed, "every instruction here feeds the return value and must survive")
	assert.Len(t, fn.Entry.Instructions, 5)
}
