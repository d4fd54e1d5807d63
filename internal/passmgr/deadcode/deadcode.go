// Package deadcode implements the two-phase dead-code-elimination pass:
// unreachable blocks are pruned first, then unused, side-effect-free
// instructions are stripped from what remains.
package deadcode

import (
	"coreforge/internal/ir"
	"coreforge/internal/passmgr"
)

// Pass is a passmgr.FunctionPass.
type Pass struct {
	manager *passmgr.Manager

	lastRemovedInstructions int
	lastRemovedBlocks       int
	lastEliminatedValues    int
}

// New returns a ready-to-register Pass.
func New() *Pass { return &Pass{} }

func (p *Pass) Name() string { return "dead-code-elimination" }

// Init captures the owning Manager so RunOnFunction can report its
// counters through SetCounter, satisfying passmgr.Initializer.
func (p *Pass) Init(m *passmgr.Manager) { p.manager = m }

// RunOnFunction prunes unreachable blocks, then eliminates instructions
// whose result is never used and which have no side effect. A function
// with no entry block (never built, or already gutted) is reported as
// zero removals rather than walked.
func (p *Pass) RunOnFunction(f *ir.Function) (bool, error) {
	if f.Entry == nil {
		p.lastRemovedBlocks = 0
		p.lastRemovedInstructions = 0
		p.lastEliminatedValues = 0
		if p.manager != nil {
			p.manager.SetCounter(p.Name(), "removed_blocks", 0)
			p.manager.SetCounter(p.Name(), "removed_instructions", 0)
			p.manager.SetCounter(p.Name(), "eliminated_values", 0)
		}
		return false, nil
	}

	removedBlocks := p.pruneUnreachableBlocks(f)
	removedInstrs, eliminatedValues := p.eliminateDeadInstructions(f)

	p.lastRemovedBlocks = removedBlocks
	p.lastRemovedInstructions = removedInstrs
	p.lastEliminatedValues = eliminatedValues

	if p.manager != nil {
		p.manager.SetCounter(p.Name(), "removed_blocks", uint64(removedBlocks))
		p.manager.SetCounter(p.Name(), "removed_instructions", uint64(removedInstrs))
		p.manager.SetCounter(p.Name(), "eliminated_values", uint64(eliminatedValues))
	}

	return removedBlocks > 0 || removedInstrs > 0, nil
}

// pruneUnreachableBlocks removes every block not reachable from f.Entry,
// unlinking its CFG edges first so Predecessors/Successors on the
// surviving graph stay consistent.
func (p *Pass) pruneUnreachableBlocks(f *ir.Function) int {
	if f.Entry == nil {
		return 0
	}
	reachable := reachableFrom(f.Entry)

	var unreachable []*ir.BasicBlock
	for _, b := range f.Blocks {
		if !reachable[b] {
			unreachable = append(unreachable, b)
		}
	}
	for _, b := range unreachable {
		b.UnlinkAll()
		f.RemoveBlock(b)
	}
	return len(unreachable)
}

func reachableFrom(entry *ir.BasicBlock) map[*ir.BasicBlock]bool {
	seen := map[*ir.BasicBlock]bool{entry: true}
	stack := []*ir.BasicBlock{entry}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, s := range b.Successors {
			if !seen[s] {
				seen[s] = true
				stack = append(stack, s)
			}
		}
	}
	return seen
}

// eliminateDeadInstructions runs a backward liveness worklist seeded by
// every side-effectful instruction's operands, and by the return values
// any still-live instruction consumes. An instruction whose result is
// never observed live, and which has no side effect of its own, is
// removed.
func (p *Pass) eliminateDeadInstructions(f *ir.Function) (removedInstructions, eliminatedValues int) {
	live := make(map[int]bool)

	for _, b := range f.Blocks {
		for _, instr := range b.Instructions {
			if instr.Op.IsSideEffectful() {
				for _, operand := range instr.Operands {
					live[operand.ID] = true
				}
			}
		}
	}

	// Propagate backward until no new value is marked live: any
	// instruction whose result is already live makes its own operands
	// live too.
	changed := true
	for changed {
		changed = false
		for _, b := range f.Blocks {
			for _, instr := range b.Instructions {
				if instr.Result == nil {
					continue
				}
				if !live[instr.Result.ID] {
					continue
				}
				for _, operand := range instr.Operands {
					if !live[operand.ID] {
						live[operand.ID] = true
						changed = true
					}
				}
			}
		}
	}

	for _, b := range f.Blocks {
		var kept []*ir.Instruction
		for _, instr := range b.Instructions {
			if instr.Op.IsSideEffectful() {
				kept = append(kept, instr)
				continue
			}
			if instr.Result != nil && live[instr.Result.ID] {
				kept = append(kept, instr)
				continue
			}
			removedInstructions++
			if instr.Result != nil {
				eliminatedValues++
			}
		}
		b.Instructions = kept
	}

	return removedInstructions, eliminatedValues
}

// Report returns the result of the most recent RunOnFunction call:
// (removed_instructions, removed_blocks, eliminated_values).
func (p *Pass) Report() (removedInstructions, removedBlocks, eliminatedValues int) {
	return p.lastRemovedInstructions, p.lastRemovedBlocks, p.lastEliminatedValues
}
