// Package passmgr implements the optimization pass manager: an ordered
// list of module and function passes, run once per Manager.Run call,
// with per-pass timing and counter statistics. The manager itself never
// iterates a pass to a fixed point — passes that need that (constant
// folding) do it internally.
package passmgr

import (
	"time"

	"github.com/tliron/commonlog"

	"coreforge/internal/ir"
)

var log = commonlog.GetLogger("coreforge.passmgr")

// OptimizationLevel is carried in Config for callers to read; Manager.Run
// does not consult it and invokes every registered pass at any level.
type OptimizationLevel int

const (
	LevelNone OptimizationLevel = iota
	LevelDebug
	LevelDefault
	LevelSize
	LevelSpeed
)

func (l OptimizationLevel) String() string {
	switch l {
	case LevelNone:
		return "none"
	case LevelDebug:
		return "debug"
	case LevelDefault:
		return "default"
	case LevelSize:
		return "size"
	case LevelSpeed:
		return "speed"
	default:
		return "unknown"
	}
}

// ModulePass runs once per Module per Manager.Run.
type ModulePass interface {
	Name() string
	RunOnModule(m *ir.Module) (changed bool, err error)
}

// FunctionPass runs once per Function, for every function in the module,
// per Manager.Run.
type FunctionPass interface {
	Name() string
	RunOnFunction(f *ir.Function) (changed bool, err error)
}

// Initializer is implemented by a pass that needs one-time setup when
// added to a Manager.
type Initializer interface {
	Init(m *Manager)
}

// Deinitializer is implemented by a pass that needs teardown; currently
// unused by any shipped pass but part of the contract a pass may opt
// into.
type Deinitializer interface {
	Deinit()
}

// Config is the manager's run configuration.
type Config struct {
	OptimizationLevel  OptimizationLevel
	SizeSpeedTradeoff  int // 0 (pure size) .. 100 (pure speed)
	Verbose            bool
	CollectStatistics  bool
}

// Stat is the per-pass statistic bundle the manager accumulates across
// every invocation of a pass.
type Stat struct {
	Invocations int
	TotalNanos  int64
	Transforms  int
	Counters    map[string]uint64
}

// Manager owns the ordered pass lists and accumulated statistics for one
// compilation session.
type Manager struct {
	cfg           Config
	modulePasses  []ModulePass
	functionPasses []FunctionPass
	stats         map[string]*Stat
}

// NewManager returns a Manager with no passes registered.
func NewManager(cfg Config) *Manager {
	return &Manager{cfg: cfg, stats: make(map[string]*Stat)}
}

// AddModulePass registers a module-level pass, calling its Init hook (if
// any) immediately.
func (m *Manager) AddModulePass(p ModulePass) {
	if init, ok := p.(Initializer); ok {
		init.Init(m)
	}
	m.modulePasses = append(m.modulePasses, p)
	m.ensureStat(p.Name())
}

// AddFunctionPass registers a function-level pass, calling its Init hook
// (if any) immediately.
func (m *Manager) AddFunctionPass(p FunctionPass) {
	if init, ok := p.(Initializer); ok {
		init.Init(m)
	}
	m.functionPasses = append(m.functionPasses, p)
	m.ensureStat(p.Name())
}

func (m *Manager) ensureStat(name string) {
	if _, ok := m.stats[name]; !ok {
		m.stats[name] = &Stat{Counters: make(map[string]uint64)}
	}
}

// Run executes every registered pass, module passes first, then
// function passes over every function in module order, and returns
// whether any pass reported a change. A pass returning an error does not
// stop the run: the error is appended to the returned errs and the
// manager proceeds to the next pass.
func (m *Manager) Run(mod *ir.Module) (modified bool, errs []error) {
	for _, p := range m.modulePasses {
		changed, err := m.timeModulePass(p, mod)
		if err != nil {
			errs = append(errs, err)
		}
		modified = modified || changed
	}

	for _, fn := range mod.Functions {
		for _, p := range m.functionPasses {
			changed, err := m.timeFunctionPass(p, fn)
			if err != nil {
				errs = append(errs, err)
			}
			modified = modified || changed
		}
	}

	return modified, errs
}

func (m *Manager) timeModulePass(p ModulePass, mod *ir.Module) (bool, error) {
	if m.cfg.Verbose {
		log.Debugf("Running module pass %s", p.Name())
	}
	start := time.Now()
	changed, err := p.RunOnModule(mod)
	m.record(p.Name(), time.Since(start), changed)
	return changed, err
}

func (m *Manager) timeFunctionPass(p FunctionPass, fn *ir.Function) (bool, error) {
	if m.cfg.Verbose {
		log.Debugf("Running function pass %s", p.Name())
	}
	start := time.Now()
	changed, err := p.RunOnFunction(fn)
	m.record(p.Name(), time.Since(start), changed)
	return changed, err
}

func (m *Manager) record(name string, d time.Duration, changed bool) {
	if !m.cfg.CollectStatistics {
		return
	}
	s := m.stats[name]
	s.Invocations++
	s.TotalNanos += d.Nanoseconds()
	if changed {
		s.Transforms++
	}
}

// SetCounter records a pass-reported numeric counter (e.g. DCE's
// removed_blocks), additive across invocations within one Run.
func (m *Manager) SetCounter(passName, key string, value uint64) {
	m.ensureStat(passName)
	m.stats[passName].Counters[key] += value
}

// GetStat returns the accumulated statistic bundle for passName, or nil
// if that pass was never registered.
func (m *Manager) GetStat(passName string) *Stat {
	return m.stats[passName]
}

// GetCounter returns a specific counter for passName, and whether it was
// ever set.
func (m *Manager) GetCounter(passName, key string) (uint64, bool) {
	s := m.stats[passName]
	if s == nil {
		return 0, false
	}
	v, ok := s.Counters[key]
	return v, ok
}
