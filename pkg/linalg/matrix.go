package linalg

import (
	"errors"
	"math"
	"runtime"
	"sync"
)

// Matrix is a dense row-major float64 matrix.
type Matrix struct {
	R, C int
	Data []float64
}

// NewMatrix allocates a zero matrix.
func NewMatrix(r, c int) *Matrix {
	return &Matrix{R: r, C: c, Data: make([]float64, r*c)}
}

// FromRows creates a Matrix from a nested slice (copies the data).
func FromRows(a [][]float64) *Matrix {
	r := len(a)
	if r == 0 {
		return &Matrix{R: 0, C: 0}
	}
	c := len(a[0])
	m := NewMatrix(r, c)
	k := 0
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			m.Data[k] = a[i][j]
			k++
		}
	}
	return m
}

// Design builds a regression design matrix from feature rows: a leading
// intercept column of ones followed by the features.
func Design(rows [][]float64) *Matrix {
	r := len(rows)
	if r == 0 {
		return &Matrix{R: 0, C: 0}
	}
	c := len(rows[0]) + 1
	m := NewMatrix(r, c)
	for i, row := range rows {
		m.Data[i*c] = 1.0
		copy(m.Data[i*c+1:(i+1)*c], row)
	}
	return m
}

// At returns element (i, j).
func (m *Matrix) At(i, j int) float64 { return m.Data[i*m.C+j] }

// Set stores v at element (i, j).
func (m *Matrix) Set(i, j int, v float64) { m.Data[i*m.C+j] = v }

// Transpose returns a new transposed matrix.
func (m *Matrix) Transpose() *Matrix {
	t := NewMatrix(m.C, m.R)
	for i := 0; i < m.R; i++ {
		for j := 0; j < m.C; j++ {
			t.Data[j*t.C+i] = m.Data[i*m.C+j]
		}
	}
	return t
}

// MatMul computes A*B, splitting rows across CPU cores.
func MatMul(A, B *Matrix) (*Matrix, error) {
	if A.C != B.R {
		return nil, errors.New("Dimension mismatch")
	}

	C := NewMatrix(A.R, B.C)
	workers := runtime.GOMAXPROCS(0)
	var wg sync.WaitGroup
	rowsPerWorker := (A.R + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, A.R)
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(rs, re int) {
			defer wg.Done()
			for i := rs; i < re; i++ {
				for k := 0; k < A.C; k++ {
					aik := A.Data[i*A.C+k]
					for j := 0; j < B.C; j++ {
						C.Data[i*C.C+j] += aik * B.Data[k*B.C+j]
					}
				}
			}
		}(start, end)
	}
	wg.Wait()
	return C, nil
}

// MatVec computes A*v.
func MatVec(A *Matrix, v []float64) ([]float64, error) {
	if A.C != len(v) {
		return nil, errors.New("Dimension mismatch")
	}
	out := make([]float64, A.R)
	for i := 0; i < A.R; i++ {
		s := 0.0
		row := A.Data[i*A.C : (i+1)*A.C]
		for j, a := range row {
			s += a * v[j]
		}
		out[i] = s
	}
	return out, nil
}

// Solve solves the square linear system A x = b by Gaussian elimination
// with partial pivoting. A and b are left untouched.
func Solve(A *Matrix, b []float64) ([]float64, error) {
	n := A.R
	if A.C != n {
		return nil, errors.New("Solve expects a square matrix")
	}
	if len(b) != n {
		return nil, errors.New("Dimension mismatch")
	}

	// Augmented working copy [A | b].
	aug := make([][]float64, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]float64, n+1)
		copy(aug[i][:n], A.Data[i*n:(i+1)*n])
		aug[i][n] = b[i]
	}

	for i := 0; i < n; i++ {
		pivot := i
		for j := i + 1; j < n; j++ {
			if math.Abs(aug[j][i]) > math.Abs(aug[pivot][i]) {
				pivot = j
			}
		}
		aug[i], aug[pivot] = aug[pivot], aug[i]

		if math.Abs(aug[i][i]) < 1e-12 {
			return nil, errors.New("singular system")
		}

		for j := i + 1; j < n; j++ {
			factor := aug[j][i] / aug[i][i]
			for k := i; k <= n; k++ {
				aug[j][k] -= factor * aug[i][k]
			}
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		x[i] = aug[i][n]
		for j := i + 1; j < n; j++ {
			x[i] -= aug[i][j] * x[j]
		}
		x[i] /= aug[i][i]
	}
	return x, nil
}
