package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coreforge/internal/checker"
	"coreforge/internal/parse"
)

func lowerSource(t *testing.T, src string) *Module {
	t.Helper()
	prog, bag := parse.Parse("test.src", src)
	require.False(t, bag.HasErrors(), "%v", bag.Entries())
	result := checker.CheckProgram(prog)
	require.False(t, result.Diagnostics.HasErrors(), "%v", result.Diagnostics.Entries())
	return BuildProgram(prog, result)
}

func TestBuildProgramLowersArithmeticFunction(t *testing.T) {
	mod := lowerSource(t, `
func add(a: i64, b: i64): i64 {
	return a + b;
}
`)
	fn := mod.FindFunction("add")
	require.NotNil(t, fn)
	assert.Empty(t, fn.CheckInvariants())

	var foundAdd bool
	for _, blk := range fn.Blocks {
		for _, instr := range blk.Instructions {
			if instr.Op == OpAdd {
				foundAdd = true
			}
		}
	}
	assert.True(t, foundAdd)
}

func TestBuildProgramLowersIfElseWithMerge(t *testing.T) {
	mod := lowerSource(t, `
func clamp(n: i64): i64 {
	if (n < 0) {
		n = 0;
	} else {
		n = n;
	}
	return n;
}
`)
	fn := mod.FindFunction("clamp")
	require.NotNil(t, fn)

	var thenBlk, elseBlk, mergeBlk *BasicBlock
	for _, b := range fn.Blocks {
		switch b.Name {
		case "if.then":
			thenBlk = b
		case "if.else":
			elseBlk = b
		case "if.end":
			mergeBlk = b
		}
	}
	require.NotNil(t, thenBlk)
	require.NotNil(t, elseBlk)
	require.NotNil(t, mergeBlk)
	assert.Contains(t, thenBlk.Successors, mergeBlk)
	assert.Contains(t, elseBlk.Successors, mergeBlk)
}

func TestBuildProgramLowersForLoopBackEdge(t *testing.T) {
	mod := lowerSource(t, `
func sum(n: i64): i64 {
	for (n = n; n > 0; n = n - 1) {
	}
	return n;
}
`)
	fn := mod.FindFunction("sum")
	require.NotNil(t, fn)

	var headerBlk, bodyBlk *BasicBlock
	for _, b := range fn.Blocks {
		switch b.Name {
		case "for.header":
			headerBlk = b
		case "for.body":
			bodyBlk = b
		}
	}
	require.NotNil(t, headerBlk)
	require.NotNil(t, bodyBlk)
	assert.Contains(t, bodyBlk.Successors, headerBlk, "the loop body must jump back to the header")
}

func TestBuildProgramInlinesGlobalConstant(t *testing.T) {
	mod := lowerSource(t, `
const scale: i64 = 2;

func doubled(n: i64): i64 {
	return n * scale;
}
`)
	fn := mod.FindFunction("doubled")
	require.NotNil(t, fn)

	var foundConst bool
	for _, blk := range fn.Blocks {
		for _, instr := range blk.Instructions {
			if instr.Op == OpConst {
				if v, ok := instr.ConstValue.(int64); ok && v == 2 {
					foundConst = true
				}
			}
		}
	}
	assert.True(t, foundConst, "reading a global constant should inline its literal value")
}

func TestBuildProgramGlobalVariableUsesNamedMeta(t *testing.T) {
	mod := lowerSource(t, `
var counter: i64 = 0;

func bump() {
	counter = counter + 1;
}
`)
	fn := mod.FindFunction("bump")
	require.NotNil(t, fn)

	var sawLoad, sawStore bool
	for _, blk := range fn.Blocks {
		for _, instr := range blk.Instructions {
			if instr.Meta["global"] == "counter" {
				if instr.Op == OpLoad {
					sawLoad = true
				}
				if instr.Op == OpStore {
					sawStore = true
				}
			}
		}
	}
	assert.True(t, sawLoad)
	assert.True(t, sawStore)
}

func TestBuildProgramLowersMemberRead(t *testing.T) {
	mod := lowerSource(t, `
struct Point {
	x: f64,
	y: f64,
}

func getX(p: Point): f64 {
	return p.x;
}
`)
	fn := mod.FindFunction("getX")
	require.NotNil(t, fn)

	var sawFieldLoad bool
	for _, blk := range fn.Blocks {
		for _, instr := range blk.Instructions {
			if instr.Op == OpLoad && instr.Meta["kind"] == "member" && instr.Meta["field"] == "x" {
				sawFieldLoad = true
			}
		}
	}
	assert.True(t, sawFieldLoad)
}

func TestBuildProgramLowersIndexRead(t *testing.T) {
	mod := lowerSource(t, `
func first(xs: []f64): f64 {
	return xs[0];
}
`)
	fn := mod.FindFunction("first")
	require.NotNil(t, fn)

	var sawIndexLoad bool
	for _, blk := range fn.Blocks {
		for _, instr := range blk.Instructions {
			if instr.Op == OpLoad && instr.Meta["kind"] == "index" {
				sawIndexLoad = true
			}
		}
	}
	assert.True(t, sawIndexLoad)
}

func TestBuildProgramSkipsComptimeDecl(t *testing.T) {
	mod := lowerSource(t, `
comptime {
	1 + 1;
}

func f() {
}
`)
	assert.Nil(t, mod.FindFunction("comptime"))
	assert.NotNil(t, mod.FindFunction("f"))
}
