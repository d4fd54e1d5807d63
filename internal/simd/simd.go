// Package simd implements a portable element-wise vector layer: capability
// detection, aligned allocation, and masked element-wise kernels written
// as plain scalar Go. Not every (op, type) pair has a kernel: Execute
// returns an error for pairs without one, such as Min/Max over integer
// lanes or Div over unsigned lanes.
package simd

import "github.com/tliron/commonlog"

var log = commonlog.GetLogger("coreforge.simd")

// DataType tags the scalar element type a kernel operates over.
type DataType int

const (
	Int8 DataType = iota
	Int16
	Int32
	Int64
	UInt8
	UInt16
	UInt32
	UInt64
	Float32
	Float64
)

func (d DataType) String() string {
	switch d {
	case Int8:
		return "i8"
	case Int16:
		return "i16"
	case Int32:
		return "i32"
	case Int64:
		return "i64"
	case UInt8:
		return "u8"
	case UInt16:
		return "u16"
	case UInt32:
		return "u32"
	case UInt64:
		return "u64"
	case Float32:
		return "f32"
	case Float64:
		return "f64"
	default:
		return "unknown"
	}
}

// Op names one element-wise operation the layer supports.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpFma
	OpAbs
	OpSqrt
	OpAnd
	OpOr
	OpXor
	OpNot
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpMin
	OpMax
	OpLoad
	OpStore
	OpGather
	OpScatter
	OpBlend
	OpShuffle
	OpSet1
)

func (o Op) String() string {
	names := [...]string{
		"add", "sub", "mul", "div", "fma", "abs", "sqrt", "and", "or", "xor",
		"not", "eq", "ne", "lt", "le", "gt", "ge", "min", "max", "load",
		"store", "gather", "scatter", "blend", "shuffle", "set1",
	}
	if int(o) < 0 || int(o) >= len(names) {
		return "unknown"
	}
	return names[o]
}
