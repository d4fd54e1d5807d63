package types

// Registry interns Struct and Custom types declared within one checker
// run, so that two lookups of the same declared name return the identical
// Type value. Interning does not shorten Equal: Struct.Equal still
// compares fields structurally.
type Registry struct {
	customs map[string]Custom
	structs map[string]Struct
	funcs   map[string]Function
}

// NewRegistry returns an empty Registry seeded with no declared types;
// built-in types never need interning since LookupBuiltin already returns
// a canonical value.
func NewRegistry() *Registry {
	return &Registry{
		customs: make(map[string]Custom),
		structs: make(map[string]Struct),
		funcs:   make(map[string]Function),
	}
}

// DefineCustom records a named type alias. Redefinition under the same
// name overwrites the previous entry; the checker is responsible for
// rejecting redeclaration before calling this.
func (r *Registry) DefineCustom(name string, underlying Type) Custom {
	c := Custom{Name: name, Underlying: underlying}
	r.customs[name] = c
	return c
}

// DefineStruct records a named struct type under name (the struct's
// declaration identifier), returning the canonical Struct value.
func (r *Registry) DefineStruct(name string, fields []Field) Struct {
	s := Struct{Fields: fields}
	r.structs[name] = s
	return s
}

// DefineFunction records a named function's signature, used for forward
// references within a module (a function calling one declared later).
func (r *Registry) DefineFunction(name string, params []Type, ret Type) Function {
	f := Function{Params: params, Return: ret}
	r.funcs[name] = f
	return f
}

// LookupCustom returns the interned Custom for name, if one was defined.
func (r *Registry) LookupCustom(name string) (Custom, bool) {
	c, ok := r.customs[name]
	return c, ok
}

// LookupStruct returns the interned Struct for name, if one was defined.
func (r *Registry) LookupStruct(name string) (Struct, bool) {
	s, ok := r.structs[name]
	return s, ok
}

// LookupFunction returns the interned Function signature for name, if one
// was defined.
func (r *Registry) LookupFunction(name string) (Function, bool) {
	f, ok := r.funcs[name]
	return f, ok
}

// Resolve looks up name across built-ins, then custom aliases, then
// structs, returning the first match. This is the single entry point the
// checker uses to turn a *ast.TypeExpr's Name into a Type.
func (r *Registry) Resolve(name string) (Type, bool) {
	if t, ok := LookupBuiltin(name); ok {
		return t, true
	}
	if c, ok := r.customs[name]; ok {
		return c, true
	}
	if s, ok := r.structs[name]; ok {
		return s, true
	}
	return nil, false
}
