// Package types implements the closed type universe of the core: a fixed
// set of kinds (Void, Bool, Int, Float, String, Array, Struct, Function,
// Custom, Error) with structural equality everywhere except Custom, which
// is compared nominally.
package types

import (
	"fmt"
	"strings"
)

// Type is the interface every member of the closed universe implements.
type Type interface {
	Kind() Kind
	String() string
	// Equal reports structural equality, except Custom types which compare
	// by name only.
	Equal(other Type) bool
}

// Kind tags which concrete Type a value is, so callers can type-switch
// without an interface type assertion chain.
type Kind int

const (
	KindVoid Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindArray
	KindStruct
	KindFunction
	KindCustom
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindFunction:
		return "function"
	case KindCustom:
		return "custom"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Void is the absence of a value; it is the implicit return type of
// functions with no declared ReturnType.
type Void struct{}

func (Void) Kind() Kind        { return KindVoid }
func (Void) String() string    { return "void" }
func (Void) Equal(o Type) bool { _, ok := o.(Void); return ok }

// Bool is the boolean type.
type Bool struct{}

func (Bool) Kind() Kind        { return KindBool }
func (Bool) String() string    { return "bool" }
func (Bool) Equal(o Type) bool { _, ok := o.(Bool); return ok }

// Int is a fixed-width integer, signed or unsigned. Bits is one of
// 8/16/32/64.
type Int struct {
	Bits   int
	Signed bool
}

func (i Int) Kind() Kind { return KindInt }
func (i Int) String() string {
	prefix := "u"
	if i.Signed {
		prefix = "i"
	}
	return fmt.Sprintf("%s%d", prefix, i.Bits)
}
func (i Int) Equal(o Type) bool {
	oi, ok := o.(Int)
	return ok && oi.Bits == i.Bits && oi.Signed == i.Signed
}

// Float is a fixed-width IEEE-754 floating-point type. Bits is 32 or 64.
type Float struct {
	Bits int
}

func (f Float) Kind() Kind        { return KindFloat }
func (f Float) String() string    { return fmt.Sprintf("f%d", f.Bits) }
func (f Float) Equal(o Type) bool { of, ok := o.(Float); return ok && of.Bits == f.Bits }

// String is the UTF-8 string type.
type String struct{}

func (String) Kind() Kind        { return KindString }
func (String) String() string    { return "string" }
func (String) Equal(o Type) bool { _, ok := o.(String); return ok }

// Array is a homogeneous sequence of Elem. Length is -1 for an unsized
// (slice-like) array.
type Array struct {
	Elem   Type
	Length int
}

func (a Array) Kind() Kind { return KindArray }
func (a Array) String() string {
	if a.Length < 0 {
		return "[]" + a.Elem.String()
	}
	return fmt.Sprintf("[%d]%s", a.Length, a.Elem.String())
}
func (a Array) Equal(o Type) bool {
	oa, ok := o.(Array)
	return ok && oa.Length == a.Length && typeEqual(oa.Elem, a.Elem)
}

// Field is one named, typed member of a Struct.
type Field struct {
	Name string
	Type Type
}

// Struct is a named-field aggregate, compared structurally: two anonymous
// structs with identical field names, order and types in the same
// positions are equal regardless of declaration site.
type Struct struct {
	Fields []Field
}

func (s Struct) Kind() Kind { return KindStruct }
func (s Struct) String() string {
	parts := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		parts[i] = f.Name + ": " + f.Type.String()
	}
	return "struct{" + strings.Join(parts, ", ") + "}"
}
func (s Struct) Equal(o Type) bool {
	os, ok := o.(Struct)
	if !ok || len(os.Fields) != len(s.Fields) {
		return false
	}
	for i, f := range s.Fields {
		of := os.Fields[i]
		if of.Name != f.Name || !typeEqual(of.Type, f.Type) {
			return false
		}
	}
	return true
}

// Function is a callable signature.
type Function struct {
	Params []Type
	Return Type
}

func (f Function) Kind() Kind { return KindFunction }
func (f Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		parts[i] = p.String()
	}
	ret := "void"
	if f.Return != nil {
		ret = f.Return.String()
	}
	return "fn(" + strings.Join(parts, ", ") + ") " + ret
}
func (f Function) Equal(o Type) bool {
	of, ok := o.(Function)
	if !ok || len(of.Params) != len(f.Params) {
		return false
	}
	for i, p := range f.Params {
		if !typeEqual(of.Params[i], p) {
			return false
		}
	}
	return typeEqual(of.Return, f.Return)
}

// Custom is a named type introduced by a "type" alias declaration. Unlike
// every other kind, Custom compares nominally: two Customs with the same
// Name are equal even if their Underlying types differ in shape, and a
// Custom is never structurally interchangeable with its Underlying type.
type Custom struct {
	Name       string
	Underlying Type
}

func (c Custom) Kind() Kind        { return KindCustom }
func (c Custom) String() string    { return c.Name }
func (c Custom) Equal(o Type) bool { oc, ok := o.(Custom); return ok && oc.Name == c.Name }

// Error is the sentinel type assigned to an expression once a diagnostic
// has already been raised against it, so the checker does not cascade a
// second error from the same root cause. Error is equal to every type,
// absorbing mismatches silently.
type Error struct{}

func (Error) Kind() Kind      { return KindError }
func (Error) String() string  { return "<error>" }
func (Error) Equal(Type) bool { return true }

func typeEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if _, ok := a.(Error); ok {
		return true
	}
	if _, ok := b.(Error); ok {
		return true
	}
	return a.Equal(b)
}

// Equal is the package-level entry point used outside this file; it
// absorbs Error on either side the same way the methods above do.
func Equal(a, b Type) bool { return typeEqual(a, b) }

var (
	U8      = Int{Bits: 8, Signed: false}
	U16     = Int{Bits: 16, Signed: false}
	U32     = Int{Bits: 32, Signed: false}
	U64     = Int{Bits: 64, Signed: false}
	I8      = Int{Bits: 8, Signed: true}
	I16     = Int{Bits: 16, Signed: true}
	I32     = Int{Bits: 32, Signed: true}
	I64     = Int{Bits: 64, Signed: true}
	F32     = Float{Bits: 32}
	F64     = Float{Bits: 64}
	Str     = String{}
	Boolean = Bool{}
)

// builtinNames maps the surface-syntax spelling of a built-in type to its
// Type value, mirroring the registry lookup the checker needs when it sees
// a *ast.TypeExpr with no Elem.
var builtinNames = map[string]Type{
	"u8": U8, "u16": U16, "u32": U32, "u64": U64,
	"i8": I8, "i16": I16, "i32": I32, "i64": I64,
	"f32": F32, "f64": F64,
	"bool": Boolean,
	"string": Str,
	"void": Void{},
}

// LookupBuiltin returns the built-in Type for name, or nil if name is not
// a built-in spelling (it may still be a Custom or Struct name the caller
// should look up elsewhere).
func LookupBuiltin(name string) (Type, bool) {
	t, ok := builtinNames[name]
	return t, ok
}

// IsNumeric reports whether t is an Int or Float, i.e. accepts arithmetic
// operators.
func IsNumeric(t Type) bool {
	switch t.(type) {
	case Int, Float:
		return true
	default:
		return false
	}
}

// IsInteger reports whether t is an Int of any width or signedness.
func IsInteger(t Type) bool {
	_, ok := t.(Int)
	return ok
}
