package ir

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// Printer renders a Module as a human-readable dump. Round-tripping the
// dump back into a Module is not supported or required.
type Printer struct {
	indent int
	out    strings.Builder
}

// NewPrinter returns an empty Printer.
func NewPrinter() *Printer { return &Printer{} }

// Print renders m with a fresh Printer and returns the result.
func Print(m *Module) string {
	p := NewPrinter()
	p.module(m)
	return p.out.String()
}

func (p *Printer) writeIndent() {
	p.out.WriteString(strings.Repeat("  ", p.indent))
}

func (p *Printer) line(format string, args ...any) {
	p.writeIndent()
	fmt.Fprintf(&p.out, format, args...)
	p.out.WriteString("\n")
}

func (p *Printer) module(m *Module) {
	p.line("module %s", m.Name)
	for _, f := range m.Functions {
		p.out.WriteString("\n")
		p.function(f)
	}
}

func (p *Printer) function(f *Function) {
	params := make([]string, len(f.Params))
	for i, v := range f.Params {
		params[i] = v.String() + ": " + typeName(v.Type)
	}
	ret := "void"
	if f.ReturnType != nil {
		ret = f.ReturnType.String()
	}
	p.line("function %s(%s) -> %s", f.Name, strings.Join(params, ", "), ret)
	p.indent++
	for _, b := range f.Blocks {
		p.block(b)
	}
	p.indent--
}

// blockLabel assigns every block a deterministic, readable label even
// when it has no source-level Name: an auto-generated "bb<id>" handle
// snake_cased alongside any human name the builder did provide, instead
// of a bare numeric id.
func blockLabel(b *BasicBlock) string {
	if b.Name == "" {
		return fmt.Sprintf("bb%d", b.ID)
	}
	return strcase.ToSnake(b.Name) + fmt.Sprintf("_bb%d", b.ID)
}

func (p *Printer) block(b *BasicBlock) {
	preds := make([]string, len(b.Predecessors))
	for i, pr := range b.Predecessors {
		preds[i] = blockLabel(pr)
	}
	predStr := ""
	if len(preds) > 0 {
		predStr = "  ; preds: " + strings.Join(preds, ", ")
	}
	p.line("%s: [%s]%s", blockLabel(b), b.Kind, predStr)
	p.indent++
	for _, instr := range b.Instructions {
		p.instruction(instr)
	}
	p.indent--
}

func (p *Printer) instruction(instr *Instruction) {
	var lhs string
	if instr.Result != nil {
		lhs = instr.Result.String() + " = "
	}

	switch instr.Op {
	case OpConst:
		p.line("%s%s %v", lhs, instr.Op, instr.ConstValue)
	case OpJump:
		p.line("jump %s", blockLabel(instr.Targets[0]))
	case OpBranch:
		p.line("branch %s ? %s : %s", instr.Operands[0], blockLabel(instr.Targets[0]), blockLabel(instr.Targets[1]))
	case OpCall:
		callee := instr.Meta["callee"]
		p.line("%s%s %s(%s)", lhs, instr.Op, callee, joinValues(instr.Operands))
	default:
		if len(instr.Operands) == 0 {
			p.line("%s%s", lhs, instr.Op)
		} else {
			p.line("%s%s %s", lhs, instr.Op, joinValues(instr.Operands))
		}
	}
}

func joinValues(vs []Value) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = v.String()
	}
	return strings.Join(parts, ", ")
}

func typeName(t interface{ String() string }) string {
	if t == nil {
		return "void"
	}
	return t.String()
}
