package ir

import "coreforge/internal/types"

// Function is one function body in SSA-like form: an ordered parameter
// list, an ordered local-value list, and an ordered block list with a
// distinguished entry and at least one exit.
type Function struct {
	Name       string
	Params     []Value
	ReturnType types.Type
	Locals     []Value
	Blocks     []*BasicBlock
	Entry      *BasicBlock
	Exits      []*BasicBlock

	nextValueID int
	nextBlockID int
	nextInstrID int
}

// NewFunction returns an empty function named name with the given return
// type (types.Void{} if the source declared none).
func NewFunction(name string, ret types.Type) *Function {
	return &Function{Name: name, ReturnType: ret}
}

// NewParam allocates a fresh parameter Value, appends it to Params, and
// returns it.
func (f *Function) NewParam(name string, t types.Type) Value {
	v := Value{ID: f.nextValueID, Name: name, Type: t}
	f.nextValueID++
	f.Params = append(f.Params, v)
	return v
}

// NewLocal allocates a fresh local Value, appends it to Locals, and
// returns it. Locals are not parameters but are otherwise ordinary SSA
// values (e.g. the result of an Alloc).
func (f *Function) NewLocal(name string, t types.Type) Value {
	v := Value{ID: f.nextValueID, Name: name, Type: t}
	f.nextValueID++
	f.Locals = append(f.Locals, v)
	return v
}

// NewValue allocates a fresh Value not tracked in Params or Locals — the
// ordinary case of an instruction's result.
func (f *Function) NewValue(name string, t types.Type) Value {
	v := Value{ID: f.nextValueID, Name: name, Type: t}
	f.nextValueID++
	return v
}

// AddBlock appends a new block of the given kind to the function. The
// first block of kind Entry becomes f.Entry; every block of kind Exit is
// appended to f.Exits.
func (f *Function) AddBlock(kind BlockKind, name string) *BasicBlock {
	b := &BasicBlock{ID: f.nextBlockID, Name: name, Kind: kind}
	f.nextBlockID++
	f.Blocks = append(f.Blocks, b)
	switch kind {
	case BlockEntry:
		if f.Entry == nil {
			f.Entry = b
		}
	case BlockExit:
		f.Exits = append(f.Exits, b)
	}
	return b
}

// NewInstructionID returns the next unique-within-function instruction
// id and advances the counter. Instruction ids need only be unique
// within a block per the data model, but a function-wide counter is
// simpler to maintain and still satisfies that.
func (f *Function) NewInstructionID() int {
	id := f.nextInstrID
	f.nextInstrID++
	return id
}

// RemoveBlock deletes b from f.Blocks (and from f.Exits if present). It
// does not unlink b's CFG edges; callers (DCE) must call b.UnlinkAll()
// first.
func (f *Function) RemoveBlock(b *BasicBlock) {
	f.Blocks = removeBlockFromSlice(f.Blocks, b)
	f.Exits = removeBlockFromSlice(f.Exits, b)
	if f.Entry == b {
		f.Entry = nil
	}
}

func removeBlockFromSlice(list []*BasicBlock, b *BasicBlock) []*BasicBlock {
	out := list[:0]
	for _, x := range list {
		if x != b {
			out = append(out, x)
		}
	}
	return out
}

// CheckInvariants validates I1-I5 against the current function state and
// returns every violation found (nil if none). This is test and
// pass-manager tooling, not part of normal construction.
func (f *Function) CheckInvariants() []string {
	var problems []string

	defined := make(map[int]bool)
	for _, p := range f.Params {
		defined[p.ID] = true
	}
	for _, l := range f.Locals {
		defined[l.ID] = true
	}
	resultCount := make(map[int]int)

	blockSet := make(map[*BasicBlock]bool, len(f.Blocks))
	for _, b := range f.Blocks {
		blockSet[b] = true
	}

	for _, b := range f.Blocks {
		for i, instr := range b.Instructions {
			// I3: terminators only as the last instruction.
			if instr.IsTerminator() && i != len(b.Instructions)-1 {
				problems = append(problems, "terminator not last in block "+b.Name)
			}
			if instr.Result != nil {
				resultCount[instr.Result.ID]++
				defined[instr.Result.ID] = true
			}
		}
	}
	// I1: operands must reference Values defined in this function, in any
	// of its blocks, so every result is recorded before operands are checked.
	for _, b := range f.Blocks {
		for _, instr := range b.Instructions {
			for _, op := range instr.Operands {
				if !defined[op.ID] {
					problems = append(problems, "operand references undefined value in block "+b.Name)
				}
			}
		}
	}

	// I5: a Value has at most one defining instruction.
	for id, count := range resultCount {
		if count > 1 {
			problems = append(problems, "value redefined: "+Value{ID: id}.String())
		}
	}

	// I4: exit blocks end in Return.
	for _, b := range f.Exits {
		term := b.Terminator()
		if term == nil || term.Op != OpReturn {
			problems = append(problems, "exit block does not end in return: "+b.Name)
		}
	}

	// I2: every block reachable from entry, or it should have been
	// pruned by DCE; this check only flags it, it does not prune.
	if f.Entry != nil {
		reachable := reachableBlocks(f.Entry)
		for _, b := range f.Blocks {
			if !reachable[b] {
				problems = append(problems, "unreachable block not pruned: "+b.Name)
			}
		}
	}

	return problems
}

func reachableBlocks(entry *BasicBlock) map[*BasicBlock]bool {
	seen := map[*BasicBlock]bool{entry: true}
	stack := []*BasicBlock{entry}
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
