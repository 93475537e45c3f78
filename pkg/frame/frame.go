package frame

import (
	"fmt"
	"strings"

	"causalml/pkg/linalg"
)

// Kind describes how a column's values should be interpreted.
type Kind int

const (
	Continuous Kind = iota
	Binary
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Continuous:
		return "continuous"
	case Binary:
		return "binary"
	case Categorical:
		return "categorical"
	}
	return "unknown"
}

// Frame is an ordered set of named float64 columns of equal length.
// Binary columns hold 0/1, categorical columns hold label codes.
type Frame struct {
	names []string
	kinds []Kind
	cols  [][]float64
	index map[string]int
}

// New returns an empty frame.
func New() *Frame {
	return &Frame{index: map[string]int{}}
}

// FromColumns builds a frame from parallel name/kind/value slices.
func FromColumns(names []string, kinds []Kind, cols [][]float64) (*Frame, error) {
	if len(names) != len(cols) || len(names) != len(kinds) {
		return nil, fmt.Errorf("frame: %d names, %d kinds, %d columns", len(names), len(kinds), len(cols))
	}
	f := New()
	for i, name := range names {
		if err := f.AddColumn(name, kinds[i], cols[i]); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// AddColumn appends a column. The values slice is owned by the frame afterwards.
func (f *Frame) AddColumn(name string, kind Kind, values []float64) error {
	if _, ok := f.index[name]; ok {
		return fmt.Errorf("frame: duplicate column %q", name)
	}
	if len(f.cols) > 0 && len(values) != len(f.cols[0]) {
		return fmt.Errorf("frame: column %q has %d rows, want %d", name, len(values), len(f.cols[0]))
	}
	f.index[name] = len(f.names)
	f.names = append(f.names, name)
	f.kinds = append(f.kinds, kind)
	f.cols = append(f.cols, values)
	return nil
}

// SetColumn replaces the values of an existing column.
func (f *Frame) SetColumn(name string, values []float64) error {
	j, ok := f.index[name]
	if !ok {
		return fmt.Errorf("frame: unknown column %q", name)
	}
	if len(values) != len(f.cols[j]) {
		return fmt.Errorf("frame: column %q has %d rows, want %d", name, len(values), len(f.cols[j]))
	}
	f.cols[j] = values
	return nil
}

// Column returns a copy of the named column.
func (f *Frame) Column(name string) ([]float64, error) {
	v, err := f.ColumnView(name)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out, nil
}

// ColumnView returns the backing slice of the named column. Callers must not
// grow it; mutating elements mutates the frame.
func (f *Frame) ColumnView(name string) ([]float64, error) {
	j, ok := f.index[name]
	if !ok {
		return nil, fmt.Errorf("frame: unknown column %q", name)
	}
	return f.cols[j], nil
}

// Has reports whether the frame holds a column with the given name.
func (f *Frame) Has(name string) bool {
	_, ok := f.index[name]
	return ok
}

// Names returns the column names in order.
func (f *Frame) Names() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

// KindOf returns the kind of the named column.
func (f *Frame) KindOf(name string) (Kind, error) {
	j, ok := f.index[name]
	if !ok {
		return Continuous, fmt.Errorf("frame: unknown column %q", name)
	}
	return f.kinds[j], nil
}

// Rows returns the number of rows.
func (f *Frame) Rows() int {
	if len(f.cols) == 0 {
		return 0
	}
	return len(f.cols[0])
}

// Cols returns the number of columns.
func (f *Frame) Cols() int { return len(f.cols) }

// Select returns a new frame holding copies of the named columns, in the
// given order.
func (f *Frame) Select(names ...string) (*Frame, error) {
	out := New()
	for _, name := range names {
		j, ok := f.index[name]
		if !ok {
			return nil, fmt.Errorf("frame: unknown column %q", name)
		}
		vals := make([]float64, len(f.cols[j]))
		copy(vals, f.cols[j])
		if err := out.AddColumn(name, f.kinds[j], vals); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// TakeRows gathers the given row indices into a new frame. Indices may
// repeat, so a bootstrap or weighted resample is a TakeRows call.
func (f *Frame) TakeRows(idx []int) (*Frame, error) {
	n := f.Rows()
	for _, i := range idx {
		if i < 0 || i >= n {
			return nil, fmt.Errorf("frame: row %d out of range [0,%d)", i, n)
		}
	}
	out := New()
	for j, name := range f.names {
		vals := make([]float64, len(idx))
		for k, i := range idx {
			vals[k] = f.cols[j][i]
		}
		if err := out.AddColumn(name, f.kinds[j], vals); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Clone deep-copies the frame.
func (f *Frame) Clone() *Frame {
	out := New()
	for j, name := range f.names {
		vals := make([]float64, len(f.cols[j]))
		copy(vals, f.cols[j])
		out.AddColumn(name, f.kinds[j], vals)
	}
	return out
}

// Matrix gathers the named columns into a row-major matrix, one row per
// frame row. Pass it to linalg.Design to prepend an intercept.
func (f *Frame) Matrix(names ...string) (*linalg.Matrix, error) {
	if len(names) == 0 {
		names = f.names
	}
	js := make([]int, len(names))
	for k, name := range names {
		j, ok := f.index[name]
		if !ok {
			return nil, fmt.Errorf("frame: unknown column %q", name)
		}
		js[k] = j
	}
	m := linalg.NewMatrix(f.Rows(), len(names))
	for i := 0; i < f.Rows(); i++ {
		for k, j := range js {
			m.Set(i, k, f.cols[j][i])
		}
	}
	return m, nil
}

// Head renders the first n rows as a small table for printing.
func (f *Frame) Head(n int) string {
	if n > f.Rows() {
		n = f.Rows()
	}
	var b strings.Builder
	b.WriteString(strings.Join(f.names, "\t"))
	b.WriteByte('\n')
	for i := 0; i < n; i++ {
		for j := range f.cols {
			if j > 0 {
				b.WriteByte('\t')
			}
			fmt.Fprintf(&b, "%.4f", f.cols[j][i])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
