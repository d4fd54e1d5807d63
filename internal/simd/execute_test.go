package simd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecuteDispatchesFloatAdd(t *testing.T) {
	a := &FloatVector{Type: Float64, Data: []float64{1, 2, 3}}
	b := &FloatVector{Type: Float64, Data: []float64{10, 20, 30}}
	dst := &FloatVector{Type: Float64, Data: make([]float64, 3)}

	err := Execute(&VectorOp{
		Op: OpAdd, DataType: Float64, Src1: a, Src2: b, Dst: dst, Length: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{11, 22, 33}, dst.Data)
}

func TestExecuteDispatchesIntCompareLikeBitwise(t *testing.T) {
	a := &IntVector{Type: Int32, Data: []int64{0b1100}}
	b := &IntVector{Type: Int32, Data: []int64{0b1010}}
	dst := &IntVector{Type: Int32, Data: make([]int64, 1)}

	err := Execute(&VectorOp{
		Op: OpAnd, DataType: Int32, Src1: a, Src2: b, Dst: dst, Length: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0b1000), dst.Data[0])
}

func TestExecuteDispatchesFloatComparison(t *testing.T) {
	a := &FloatVector{Type: Float64, Data: []float64{1, 2, 3}}
	b := &FloatVector{Type: Float64, Data: []float64{1, 5, 2}}
	dst := &CmpResult{Bits: make([]bool, 3)}

	err := Execute(&VectorOp{
		Op: OpEq, DataType: Float64, Src1: a, Src2: b, Dst: dst, Length: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, []bool{true, false, false}, dst.Bits)
}

func TestExecuteRejectsLengthMismatch(t *testing.T) {
	a := &FloatVector{Type: Float64, Data: []float64{1, 2}}
	b := &FloatVector{Type: Float64, Data: []float64{1, 2}}
	dst := &FloatVector{Type: Float64, Data: make([]float64, 3)}

	err := Execute(&VectorOp{
		Op: OpAdd, DataType: Float64, Src1: a, Src2: b, Dst: dst, Length: 3,
	})
	assert.Error(t, err)
}

func TestExecuteRejectsUnsupportedCombination(t *testing.T) {
	a := &IntVector{Type: Int32, Data: []int64{1}}
	b := &IntVector{Type: Int32, Data: []int64{2}}
	dst := &IntVector{Type: Int32, Data: make([]int64, 1)}

	err := Execute(&VectorOp{
		Op: OpMin, DataType: Int32, Src1: a, Src2: b, Dst: dst, Length: 1,
	})
	assert.Error(t, err, "no Min kernel is defined for integer lanes")
}

func TestExecuteAcceptsScalarAlignedBuffers(t *testing.T) {
	// A Go-allocated []float64 backing array is always aligned to at
	// least 8 bytes (its element size), which is exactly what Scalar
	// requires, so requesting Aligned checking at Scalar's tier must
	// always succeed.
	a := &FloatVector{Type: Float64, Data: []float64{1, 2}}
	b := &FloatVector{Type: Float64, Data: []float64{1, 2}}
	dst := &FloatVector{Type: Float64, Data: []float64{0, 0}}

	err := Execute(&VectorOp{
		Op: OpAdd, DataType: Float64, SimdType: Scalar, Src1: a, Src2: b, Dst: dst,
		Length: 2, Aligned: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, dst.Data)
}

func TestExecuteRejectsElementSizeMismatch(t *testing.T) {
	a := &IntVector{Type: Int64, Data: []int64{1}}
	b := &IntVector{Type: Int64, Data: []int64{2}}
	dst := &IntVector{Type: Int64, Data: make([]int64, 1)}

	err := Execute(&VectorOp{
		Op: OpAdd, DataType: Int64, ElementSize: 4, Src1: a, Src2: b, Dst: dst, Length: 1,
	})
	assert.Error(t, err)
}
