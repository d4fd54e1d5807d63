package ir

// Module is the top-level IR unit: a name plus an ordered list of
// functions. Dropping a Module (letting it go out of scope) drops every
// Function, BasicBlock and Instruction it owns — there is no separate
// teardown step, ownership is a plain tree.
type Module struct {
	Name      string
	Functions []*Function
}

// NewModule returns an empty module named name.
func NewModule(name string) *Module {
	return &Module{Name: name}
}

// AddFunction appends a new, empty function and returns it for the
// caller to populate.
func (m *Module) AddFunction(name string) *Function {
	f := NewFunction(name, nil)
	m.Functions = append(m.Functions, f)
	return f
}

// FindFunction returns the function named name, or nil.
func (m *Module) FindFunction(name string) *Function {
	for _, f := range m.Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}
