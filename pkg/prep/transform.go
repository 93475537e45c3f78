package prep

import (
	"errors"
	"fmt"
	"math"

	"causalml/pkg/frame"
	"causalml/pkg/stats"
)

// Transformer is a preprocessing step: fit on training data, then
// transform any frame with the fitted state.
type Transformer interface {
	Fit(f *frame.Frame) error
	Transform(f *frame.Frame) (*frame.Frame, error)
}

// Pipeline chains transformers. Fit runs each step on the output of the
// previous one.
type Pipeline struct {
	steps []Transformer
}

func NewPipeline(steps ...Transformer) *Pipeline {
	return &Pipeline{steps: steps}
}

func (p *Pipeline) Fit(f *frame.Frame) error {
	cur := f
	for _, step := range p.steps {
		if err := step.Fit(cur); err != nil {
			return err
		}
		next, err := step.Transform(cur)
		if err != nil {
			return err
		}
		cur = next
	}
	return nil
}

func (p *Pipeline) Transform(f *frame.Frame) (*frame.Frame, error) {
	cur := f
	for _, step := range p.steps {
		next, err := step.Transform(cur)
		if err != nil {
			return nil, err
		}
		cur = next
	}
	return cur, nil
}

func (p *Pipeline) FitTransform(f *frame.Frame) (*frame.Frame, error) {
	if err := p.Fit(f); err != nil {
		return nil, err
	}
	return p.Transform(f)
}

// StandardScaler standardizes columns to zero mean and unit variance.
// With no column names given it scales every continuous column, leaving
// binary and categorical columns alone.
type StandardScaler struct {
	Cols []string

	mean map[string]float64
	std  map[string]float64
}

func NewStandardScaler(cols ...string) *StandardScaler {
	return &StandardScaler{Cols: cols}
}

func (s *StandardScaler) targets(f *frame.Frame) ([]string, error) {
	if len(s.Cols) > 0 {
		for _, name := range s.Cols {
			if !f.Has(name) {
				return nil, fmt.Errorf("prep: unknown column %q", name)
			}
		}
		return s.Cols, nil
	}
	var out []string
	for _, name := range f.Names() {
		k, err := f.KindOf(name)
		if err != nil {
			return nil, err
		}
		if k == frame.Continuous {
			out = append(out, name)
		}
	}
	return out, nil
}

func (s *StandardScaler) Fit(f *frame.Frame) error {
	cols, err := s.targets(f)
	if err != nil {
		return err
	}
	s.mean = map[string]float64{}
	s.std = map[string]float64{}
	for _, name := range cols {
		col, err := f.ColumnView(name)
		if err != nil {
			return err
		}
		m := stats.Mean(col)
		sd := stats.Std(col)
		if sd == 0 || math.IsNaN(sd) {
			sd = 1
		}
		s.mean[name] = m
		s.std[name] = sd
	}
	return nil
}

func (s *StandardScaler) Transform(f *frame.Frame) (*frame.Frame, error) {
	if s.mean == nil {
		return nil, errors.New("prep: scaler is not fitted")
	}
	out := f.Clone()
	for name, m := range s.mean {
		col, err := out.ColumnView(name)
		if err != nil {
			return nil, err
		}
		sd := s.std[name]
		for i := range col {
			col[i] = (col[i] - m) / sd
		}
	}
	return out, nil
}

func (s *StandardScaler) FitTransform(f *frame.Frame) (*frame.Frame, error) {
	if err := s.Fit(f); err != nil {
		return nil, err
	}
	return s.Transform(f)
}
