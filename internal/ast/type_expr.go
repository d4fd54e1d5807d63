package ast

// TypeExpr is the surface-syntax spelling of a type annotation, e.g. "int",
// "[]float", or "Point". The checker (internal/checker) resolves these
// names against internal/types.Universe; TypeExpr itself carries no
// semantic meaning.
type TypeExpr struct {
	base
	Name string    // scalar or named-type spelling ("int", "Point", ...); empty when Array
	Elem *TypeExpr // element type when this is an array type
}

func NewTypeExpr(name string, sp Span) *TypeExpr {
	return &TypeExpr{base: base{span: sp}, Name: name}
}

func NewArrayTypeExpr(elem *TypeExpr, sp Span) *TypeExpr {
	return &TypeExpr{base: base{span: sp}, Elem: elem}
}

func (t *TypeExpr) IsArray() bool { return t.Elem != nil }

func (t *TypeExpr) String() string {
	if t.IsArray() {
		return "[]" + t.Elem.String()
	}
	return t.Name
}
