package linalg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDesignAddsIntercept(t *testing.T) {
	d := Design([][]float64{{2, 3}, {4, 5}})
	require.Equal(t, 2, d.R)
	require.Equal(t, 3, d.C)
	assert.Equal(t, 1.0, d.At(0, 0))
	assert.Equal(t, 1.0, d.At(1, 0))
	assert.Equal(t, 3.0, d.At(0, 2))
	assert.Equal(t, 4.0, d.At(1, 1))
}

func TestMatMul(t *testing.T) {
	A := FromRows([][]float64{{1, 2}, {3, 4}})
	B := FromRows([][]float64{{5, 6}, {7, 8}})
	C, err := MatMul(A, B)
	require.NoError(t, err)
	assert.Equal(t, []float64{19, 22, 43, 50}, C.Data)

	_, err = MatMul(A, FromRows([][]float64{{1, 2}}))
	assert.Error(t, err)
}

func TestTranspose(t *testing.T) {
	A := FromRows([][]float64{{1, 2, 3}, {4, 5, 6}})
	T := A.Transpose()
	require.Equal(t, 3, T.R)
	require.Equal(t, 2, T.C)
	assert.Equal(t, 4.0, T.At(0, 1))
	assert.Equal(t, 6.0, T.At(2, 1))
}

func TestMatVec(t *testing.T) {
	A := FromRows([][]float64{{1, 2}, {3, 4}})
	v, err := MatVec(A, []float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, []float64{3, 7}, v)
}

func TestSolve(t *testing.T) {
	// 2x + y = 5, x + 3y = 10 -> x = 1, y = 3
	A := FromRows([][]float64{{2, 1}, {1, 3}})
	x, err := Solve(A, []float64{5, 10})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, x[0], 1e-9)
	assert.InDelta(t, 3.0, x[1], 1e-9)
}

func TestSolveSingular(t *testing.T) {
	A := FromRows([][]float64{{1, 2}, {2, 4}})
	_, err := Solve(A, []float64{1, 2})
	assert.Error(t, err)
}

func TestSolveLeavesInputsUntouched(t *testing.T) {
	A := FromRows([][]float64{{2, 1}, {1, 3}})
	b := []float64{5, 10}
	_, err := Solve(A, b)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 1, 1, 3}, A.Data)
	assert.Equal(t, []float64{5, 10}, b)
}
