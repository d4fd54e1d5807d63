package passmgr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coreforge/internal/ir"
)

type stubFunctionPass struct {
	name    string
	changed bool
	err     error
	calls   int
}

func (p *stubFunctionPass) Name() string { return p.name }

func (p *stubFunctionPass) RunOnFunction(f *ir.Function) (bool, error) {
	p.calls++
	return p.changed, p.err
}

type stubModulePass struct {
	name    string
	changed bool
	err     error
	calls   int
}

func (p *stubModulePass) Name() string { return p.name }

func (p *stubModulePass) RunOnModule(m *ir.Module) (bool, error) {
	p.calls++
	return p.changed, p.err
}

func moduleWithFunctions(n int) *ir.Module {
	m := ir.NewModule("m")
	for i := 0; i < n; i++ {
		m.AddFunction("f")
	}
	return m
}

func TestRunInvokesFunctionPassPerFunction(t *testing.T) {
	mgr := NewManager(Config{CollectStatistics: true})
	p := &stubFunctionPass{name: "p"}
	mgr.AddFunctionPass(p)

	mod := moduleWithFunctions(3)
	_, errs := mgr.Run(mod)

	assert.Empty(t, errs)
	assert.Equal(t, 3, p.calls)
}

func TestRunDoesNotHaltOnPassError(t *testing.T) {
	mgr := NewManager(Config{})
	failing := &stubFunctionPass{name: "failing", err: errors.New("boom")}
	following := &stubFunctionPass{name: "following"}
	mgr.AddFunctionPass(failing)
	mgr.AddFunctionPass(following)

	mod := moduleWithFunctions(2)
	_, errs := mgr.Run(mod)

	require.Len(t, errs, 2)
	assert.Equal(t, 2, following.calls, "later passes must still run after an earlier pass errors")
}

func TestRunAggregatesModifiedAcrossPasses(t *testing.T) {
	mgr := NewManager(Config{})
	mgr.AddModulePass(&stubModulePass{name: "mod-unchanged", changed: false})
	mgr.AddFunctionPass(&stubFunctionPass{name: "fn-changed", changed: true})

	mod := moduleWithFunctions(1)
	modified, errs := mgr.Run(mod)

	assert.Empty(t, errs)
	assert.True(t, modified)
}

func TestStatisticsAccumulateAcrossInvocations(t *testing.T) {
	mgr := NewManager(Config{CollectStatistics: true})
	mgr.AddFunctionPass(&stubFunctionPass{name: "p", changed: true})

	mod := moduleWithFunctions(4)
	mgr.Run(mod)

	stat := mgr.GetStat("p")
	require.NotNil(t, stat)
	assert.Equal(t, 4, stat.Invocations)
	assert.Equal(t, 4, stat.Transforms)
}

func TestStatisticsNotCollectedWhenDisabled(t *testing.T) {
	mgr := NewManager(Config{CollectStatistics: false})
	mgr.AddFunctionPass(&stubFunctionPass{name: "p", changed: true})

	mod := moduleWithFunctions(2)
	mgr.Run(mod)

	stat := mgr.GetStat("p")
	require.NotNil(t, stat)
	assert.Equal(t, 0, stat.Invocations, "collection is opt-in via Config.CollectStatistics")
}

func TestSetCounterIsAdditive(t *testing.T) {
	mgr := NewManager(Config{})
	mgr.AddFunctionPass(&stubFunctionPass{name: "p"})

	mgr.SetCounter("p", "removed_instructions", 3)
	mgr.SetCounter("p", "removed_instructions", 4)

	v, ok := mgr.GetCounter("p", "removed_instructions")
	require.True(t, ok)
	assert.Equal(t, uint64(7), v)
}

func TestGetCounterUnknownPassReturnsFalse(t *testing.T) {
	mgr := NewManager(Config{})
	_, ok := mgr.GetCounter("nope", "anything")
	assert.False(t, ok)
}
