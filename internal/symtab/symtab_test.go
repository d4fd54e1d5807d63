package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"coreforge/internal/ast"
	"coreforge/internal/types"
)

func TestDefineAndLookup(t *testing.T) {
	tb := New()
	sym, err := tb.Define(&Symbol{Name: "x", Kind: KindVariable, Type: types.U32})
	assert.NoError(t, err)
	assert.Same(t, sym, tb.Lookup("x"))
}

func TestRedefinitionInSameScopeFails(t *testing.T) {
	tb := New()
	_, err := tb.Define(&Symbol{Name: "x", Kind: KindVariable, Type: types.U32})
	assert.NoError(t, err)

	_, err = tb.Define(&Symbol{Name: "x", Kind: KindVariable, Type: types.Boolean})
	assert.Error(t, err)
	var redef *RedefinitionError
	assert.ErrorAs(t, err, &redef)
}

func TestShadowingInNestedScopeSucceeds(t *testing.T) {
	tb := New()
	_, err := tb.Define(&Symbol{Name: "x", Kind: KindVariable, Type: types.U32})
	assert.NoError(t, err)

	tb.EnterScope()
	inner, err := tb.Define(&Symbol{Name: "x", Kind: KindVariable, Type: types.Boolean})
	assert.NoError(t, err)
	assert.Same(t, inner, tb.Lookup("x"))
}

func TestLeaveScopeDestroysLevelExactly(t *testing.T) {
	tb := New()
	tb.EnterScope()
	_, err := tb.Define(&Symbol{Name: "y", Kind: KindVariable, Type: types.U32})
	assert.NoError(t, err)
	assert.NotNil(t, tb.Lookup("y"))

	tb.LeaveScope()
	assert.Nil(t, tb.Lookup("y"), "symbol from a popped scope must not be reachable")
	assert.Equal(t, 0, tb.Depth())
}

func TestLeaveScopeOnModuleScopePanics(t *testing.T) {
	tb := New()
	assert.Panics(t, func() { tb.LeaveScope() })
}

func TestLookupLocalDoesNotSeeOuterScope(t *testing.T) {
	tb := New()
	_, _ = tb.Define(&Symbol{Name: "x", Kind: KindVariable, Type: types.U32})
	tb.EnterScope()
	assert.Nil(t, tb.LookupLocal("x"))
	assert.NotNil(t, tb.Lookup("x"))
}

func TestMarkUsedAndUnused(t *testing.T) {
	tb := New()
	_, _ = tb.Define(&Symbol{Name: "a", Kind: KindVariable, Type: types.U32, DefinedAt: ast.Span{}})
	_, _ = tb.Define(&Symbol{Name: "b", Kind: KindVariable, Type: types.U32})

	tb.MarkUsed("a")

	unused := tb.Unused()
	assert.Len(t, unused, 1)
	assert.Equal(t, "b", unused[0].Name)
}
