package simd

import (
	"fmt"
	"unsafe"
)

// VectorOp is the vector-operation state Execute dispatches on: the
// operation, the element type and target instruction-set tier it should
// run under, the operand buffers, and the lane mask/alignment
// requirement to enforce before handing off to a kernel. Src2 is nil
// for unary ops (Abs, Sqrt, Not). A few Op values need a parameter this
// state does not carry (Set1's scalar, Load/Store's offset, Gather/
// Scatter's indices, Shuffle's permutation, Fma's third operand); those
// are called directly as kernels rather than through Execute.
type VectorOp struct {
	Op          Op
	DataType    DataType
	SimdType    InstructionSet
	Src1        any
	Src2        any
	Dst         any
	ElementSize int
	Length      int
	Mask        *VectorMask
	Aligned     bool
}

// Execute validates op's buffers (recognized type, matching length,
// matching element size) and, if Aligned is set, that every buffer meets
// SimdType's required alignment, then dispatches to the kernel selected
// by (Op, DataType). It returns an error instead of panicking for any
// combination this build has no kernel for.
func Execute(op *VectorOp) error {
	if op.Dst == nil || op.Src1 == nil {
		return fmt.Errorf("simd: execute %s: dst and src1 are required", op.Op)
	}
	if op.ElementSize != 0 && op.ElementSize != elementSizeFor(op.DataType) {
		return fmt.Errorf("simd: execute %s: element size %d does not match %s", op.Op, op.ElementSize, op.DataType)
	}
	if err := validateLength(op.Dst, op.Length, "dst"); err != nil {
		return err
	}
	if err := validateLength(op.Src1, op.Length, "src1"); err != nil {
		return err
	}
	if op.Src2 != nil {
		if err := validateLength(op.Src2, op.Length, "src2"); err != nil {
			return err
		}
	}
	if op.Aligned {
		if err := validateAlignment(op); err != nil {
			return err
		}
	}

	switch op.DataType {
	case Float32, Float64:
		return dispatchFloat(op)
	case Int8, Int16, Int32, Int64:
		return dispatchInt(op)
	case UInt8, UInt16, UInt32, UInt64:
		return dispatchUint(op)
	default:
		return fmt.Errorf("simd: execute %s: unrecognized data type %v", op.Op, op.DataType)
	}
}

func elementSizeFor(t DataType) int {
	switch t {
	case Int8, UInt8:
		return 1
	case Int16, UInt16:
		return 2
	case Int32, UInt32, Float32:
		return 4
	default:
		return 8
	}
}

func vecLen(v any) (int, bool) {
	switch x := v.(type) {
	case *IntVector:
		return len(x.Data), true
	case *UIntVector:
		return len(x.Data), true
	case *FloatVector:
		return len(x.Data), true
	case *CmpResult:
		return len(x.Bits), true
	default:
		return 0, false
	}
}

func validateLength(v any, want int, role string) error {
	n, ok := vecLen(v)
	if !ok {
		return fmt.Errorf("simd: %s has an unrecognized buffer type %T", role, v)
	}
	if n != want {
		return fmt.Errorf("simd: %s has length %d, want %d", role, n, want)
	}
	return nil
}

func dataPointer(v any) (unsafe.Pointer, bool) {
	switch x := v.(type) {
	case *IntVector:
		if len(x.Data) == 0 {
			return nil, false
		}
		return unsafe.Pointer(&x.Data[0]), true
	case *UIntVector:
		if len(x.Data) == 0 {
			return nil, false
		}
		return unsafe.Pointer(&x.Data[0]), true
	case *FloatVector:
		if len(x.Data) == 0 {
			return nil, false
		}
		return unsafe.Pointer(&x.Data[0]), true
	default:
		return nil, false
	}
}

func validateAlignment(op *VectorOp) error {
	align := AlignmentFor(op.SimdType)
	checks := []struct {
		role string
		v    any
	}{
		{"dst", op.Dst},
		{"src1", op.Src1},
		{"src2", op.Src2},
	}
	for _, c := range checks {
		if c.v == nil {
			continue
		}
		ptr, ok := dataPointer(c.v)
		if !ok {
			continue
		}
		if !IsAligned(ptr, align) {
			return fmt.Errorf("simd: %s buffer is not %d-byte aligned for %s", c.role, align, op.SimdType)
		}
	}
	return nil
}

func unsupportedOp(op *VectorOp) error {
	return fmt.Errorf("simd: no kernel for op=%s type=%s", op.Op, op.DataType)
}

func dispatchFloat(op *VectorOp) error {
	src1, ok1 := op.Src1.(*FloatVector)
	if !ok1 {
		return unsupportedOp(op)
	}

	switch op.Op {
	case OpAdd, OpSub, OpMul, OpDiv, OpMin, OpMax, OpBlend:
		dst, okd := op.Dst.(*FloatVector)
		src2, ok2 := op.Src2.(*FloatVector)
		if !okd || !ok2 {
			return unsupportedOp(op)
		}
		switch op.Op {
		case OpAdd:
			AddFloat(dst, src1, src2, op.Mask)
		case OpSub:
			SubFloat(dst, src1, src2, op.Mask)
		case OpMul:
			MulFloat(dst, src1, src2, op.Mask)
		case OpDiv:
			DivFloat(dst, src1, src2, op.Mask)
		case OpMin:
			MinFloat(dst, src1, src2, op.Mask)
		case OpMax:
			MaxFloat(dst, src1, src2, op.Mask)
		case OpBlend:
			BlendFloat(dst, src1, src2, op.Mask)
		}
		return nil

	case OpAbs, OpSqrt:
		dst, okd := op.Dst.(*FloatVector)
		if !okd {
			return unsupportedOp(op)
		}
		if op.Op == OpAbs {
			AbsFloat(dst, src1, op.Mask)
		} else {
			SqrtFloat(dst, src1, op.Mask)
		}
		return nil

	case OpEq, OpNe, OpLt, OpLe, OpGt, OpGe:
		dst, okd := op.Dst.(*CmpResult)
		src2, ok2 := op.Src2.(*FloatVector)
		if !okd || !ok2 {
			return unsupportedOp(op)
		}
		var r *CmpResult
		switch op.Op {
		case OpEq:
			r = EqFloat(src1, src2, op.Mask)
		case OpNe:
			r = NeFloat(src1, src2, op.Mask)
		case OpLt:
			r = LtFloat(src1, src2, op.Mask)
		case OpLe:
			r = LeFloat(src1, src2, op.Mask)
		case OpGt:
			r = GtFloat(src1, src2, op.Mask)
		case OpGe:
			r = GeFloat(src1, src2, op.Mask)
		}
		copy(dst.Bits, r.Bits)
		return nil

	default:
		return unsupportedOp(op)
	}
}

func dispatchInt(op *VectorOp) error {
	dst, okd := op.Dst.(*IntVector)
	src1, ok1 := op.Src1.(*IntVector)
	if !okd || !ok1 {
		return unsupportedOp(op)
	}

	if op.Op == OpNot {
		NotInt(dst, src1, op.Mask)
		return nil
	}

	src2, ok2 := op.Src2.(*IntVector)
	if !ok2 {
		return unsupportedOp(op)
	}
	switch op.Op {
	case OpAdd:
		AddInt(dst, src1, src2, op.Mask)
	case OpSub:
		SubInt(dst, src1, src2, op.Mask)
	case OpMul:
		MulInt(dst, src1, src2, op.Mask)
	case OpDiv:
		DivInt(dst, src1, src2, op.Mask)
	case OpAnd:
		AndInt(dst, src1, src2, op.Mask)
	case OpOr:
		OrInt(dst, src1, src2, op.Mask)
	case OpXor:
		XorInt(dst, src1, src2, op.Mask)
	default:
		return unsupportedOp(op)
	}
	return nil
}

func dispatchUint(op *VectorOp) error {
	dst, okd := op.Dst.(*UIntVector)
	src1, ok1 := op.Src1.(*UIntVector)
	src2, ok2 := op.Src2.(*UIntVector)
	if !okd || !ok1 || !ok2 {
		return unsupportedOp(op)
	}

	switch op.Op {
	case OpAdd:
		AddUint(dst, src1, src2, op.Mask)
	case OpSub:
		SubUint(dst, src1, src2, op.Mask)
	case OpMul:
		MulUint(dst, src1, src2, op.Mask)
	default:
		return unsupportedOp(op)
	}
	return nil
}
