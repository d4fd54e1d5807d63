// Package symtab implements the checker's scoped symbol table: a stack of
// scope levels where EnterScope pushes a new level and LeaveScope
// destroys exactly that level's definitions, rather than the unbounded
// parent-chain a tree of *SymbolTable values would keep alive.
package symtab

import (
	"fmt"

	"coreforge/internal/ast"
	"coreforge/internal/types"
)

// Kind tags what a Symbol denotes.
type Kind int

const (
	KindFunction Kind = iota
	KindVariable
	KindConstant
	KindParameter
	KindStruct
	KindTypeAlias
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindVariable:
		return "variable"
	case KindConstant:
		return "constant"
	case KindParameter:
		return "parameter"
	case KindStruct:
		return "struct"
	case KindTypeAlias:
		return "type alias"
	default:
		return "symbol"
	}
}

// Symbol is one bound name: what kind of thing it is, its type, the AST
// node that defines it, and usage bookkeeping (Used, Modified) that
// Table.Unused reads; the checker itself emits no unused-variable
// warnings.
type Symbol struct {
	Name        string
	Kind        Kind
	Type        types.Type
	Node        ast.Node
	Mutable     bool
	Used        bool
	Modified    bool
	Initialized bool
	DefinedAt   ast.Span
}

// RedefinitionError reports that name was already defined in the current
// (innermost) scope when Define was called again.
type RedefinitionError struct {
	Name     string
	Previous ast.Span
}

func (e *RedefinitionError) Error() string {
	return fmt.Sprintf("%q is already defined at line %d, column %d",
		e.Name, e.Previous.Start.Line, e.Previous.Start.Column)
}

// level is one scope's bindings, indexed by name.
type level map[string]*Symbol

// Table is a level-indexed scoped symbol table. Level 0 is the module
// (file) scope and is never popped; EnterScope pushes level N+1 and
// LeaveScope discards it, so a symbol defined in a block that has
// exited is unreachable and its memory is released rather than retained
// by a live parent pointer.
type Table struct {
	levels []level
}

// New returns a Table with only the module-level scope open.
func New() *Table {
	return &Table{levels: []level{make(level)}}
}

// EnterScope pushes a new, empty scope level.
func (t *Table) EnterScope() {
	t.levels = append(t.levels, make(level))
}

// LeaveScope pops and discards the innermost scope level. Calling
// LeaveScope on the module-level scope (depth 0) is a programmer error
// and panics, the same way popping an empty stack would.
func (t *Table) LeaveScope() {
	if len(t.levels) <= 1 {
		panic("symtab: LeaveScope called with no scope to leave")
	}
	t.levels = t.levels[:len(t.levels)-1]
}

// Depth returns the current scope nesting depth; 0 is module scope.
func (t *Table) Depth() int { return len(t.levels) - 1 }

// Define binds name in the innermost scope. If name is already bound in
// that same scope, Define returns a *RedefinitionError and leaves the
// existing binding untouched; shadowing a name from an outer scope is
// always allowed.
func (t *Table) Define(sym *Symbol) (*Symbol, error) {
	cur := t.levels[len(t.levels)-1]
	if existing, ok := cur[sym.Name]; ok {
		return nil, &RedefinitionError{Name: sym.Name, Previous: existing.DefinedAt}
	}
	cur[sym.Name] = sym
	return sym, nil
}

// Lookup searches from the innermost scope outward and returns the first
// match, or nil if name is bound nowhere.
func (t *Table) Lookup(name string) *Symbol {
	for i := len(t.levels) - 1; i >= 0; i-- {
		if sym, ok := t.levels[i][name]; ok {
			return sym
		}
	}
	return nil
}

// LookupLocal searches only the innermost scope.
func (t *Table) LookupLocal(name string) *Symbol {
	return t.levels[len(t.levels)-1][name]
}

// MarkUsed records that name was read, walking outward the same way
// Lookup does since the symbol may live in an enclosing scope.
func (t *Table) MarkUsed(name string) {
	if sym := t.Lookup(name); sym != nil {
		sym.Used = true
	}
}

// MarkModified records that name was assigned to.
func (t *Table) MarkModified(name string) {
	if sym := t.Lookup(name); sym != nil {
		sym.Modified = true
	}
}

// Unused returns every symbol defined in the innermost scope that was
// never read, in definition order undefined (map iteration order) —
// callers sort by DefinedAt if a stable report order matters.
func (t *Table) Unused() []*Symbol {
	cur := t.levels[len(t.levels)-1]
	var out []*Symbol
	for _, sym := range cur {
		if sym.Kind == KindVariable && !sym.Used {
			out = append(out, sym)
		}
	}
	return out
}
