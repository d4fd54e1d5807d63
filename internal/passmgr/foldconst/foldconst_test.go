package foldconst

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coreforge/internal/ast"
	"coreforge/internal/ir"
	"coreforge/internal/types"
)

func sp() ast.Span { return ast.Span{} }

func buildConstAdd() *ir.Function {
	b := ir.NewBuilder("m")
	b.BeginFunction("f", types.I64)
	b.BeginBlock(ir.BlockEntry, "entry")

	left := b.EmitConst(int64(2), types.I64, sp())
	right := b.EmitConst(int64(3), types.I64, sp())
	sum := b.EmitBinary(ir.OpAdd, left, right, types.I64, sp())
	b.EmitReturn(&sum)

	return b.Function()
}

func TestRunOnFunctionFoldsConstantAdd(t *testing.T) {
	fn := buildConstAdd()
	p := New(8)

	changed, err := p.RunOnFunction(fn)
	require.NoError(t, err)
	assert.True(t, changed)

	folded, _, iterations := p.Report()
	assert.Equal(t, 1, folded)
	assert.GreaterOrEqual(t, iterations, 1)

	entry := fn.Entry
	require.Len(t, entry.Instructions, 3)
	assert.Equal(t, ir.OpConst, entry.Instructions[2].Op)
	assert.Equal(t, int64(5), entry.Instructions[2].ConstValue)
}

func TestRunOnFunctionStopsAtFixedPointWithoutMaxIterations(t *testing.T) {
	fn := buildConstAdd()
	p := New(100)

	_, err := p.RunOnFunction(fn)
	require.NoError(t, err)

	_, _, iterations := p.Report()
	assert.Less(t, iterations, 100, "should reach a fixed point well before the iteration cap")
}

func TestRunOnFunctionRefusesDivisionByZero(t *testing.T) {
	b := ir.NewBuilder("m")
	b.BeginFunction("f", types.I64)
	b.BeginBlock(ir.BlockEntry, "entry")

	left := b.EmitConst(int64(7), types.I64, sp())
	right := b.EmitConst(int64(0), types.I64, sp())
	quot := b.EmitBinary(ir.OpDiv, left, right, types.I64, sp())
	b.EmitReturn(&quot)

	fn := b.Function()
	p := New(4)

	changed, err := p.RunOnFunction(fn)
	require.NoError(t, err)
	assert.False(t, changed)

	divInstr := fn.Entry.Instructions[2]
	assert.Equal(t, ir.OpDiv, divInstr.Op)
}

func TestRunOnFunctionLeavesNonConstantOperandsAlone(t *testing.T) {
	b := ir.NewBuilder("m")
	fn := b.BeginFunction("f", types.I64)
	param := fn.NewParam("x", types.I64)
	b.BeginBlock(ir.BlockEntry, "entry")

	constant := b.EmitConst(int64(1), types.I64, sp())
	sum := b.EmitBinary(ir.OpAdd, param, constant, types.I64, sp())
	b.EmitReturn(&sum)

	p := New(4)
	changed, err := p.RunOnFunction(fn)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, ir.OpAdd, fn.Entry.Instructions[1].Op)
}
