// Package do draws samples from interventional distributions: the data
// as it would look if the treatment were set by intervention instead of
// following its observed causes.
//
// Every sampler runs the same pipeline over the model's frame: reset to
// a fresh copy, disrupt the treatment's causes, make the treatment
// effective, emit the frame. What "disrupt" means is the sampler's
// strategy; the emitted frame is ordinary data that any estimator can
// consume.
package do

import (
	"context"
	"errors"
	"fmt"

	"causalml/pkg/frame"
	"causalml/pkg/infer"
)

// Sampler draws a frame from an interventional distribution. A nil
// intervention keeps every row's original treatment value, which is the
// usual setup for contrasting treated and control group means on the
// emitted frame.
type Sampler interface {
	Sample(ctx context.Context, iv *Intervention) (*frame.Frame, error)
}

// Intervention fixes one variable to a value, do(Variable = Value).
type Intervention struct {
	Variable string
	Value    float64
}

// ErrTreatmentNotBinary is returned when a sampler requires a 0/1
// treatment column and the model's treatment is not one.
var ErrTreatmentNotBinary = errors.New("treatment column must be binary")

// ErrTreatmentLevelMissing is returned when the data holds only one
// treatment level: with no rows on the other side there is nothing to
// reweight against.
var ErrTreatmentLevelMissing = errors.New("treatment column must contain both levels")

// Column names attached to emitted frames by the weighting sampler.
const (
	PropensityColumn = "propensity_score"
	WeightColumn     = "weight"
)

func validateModel(m *infer.Model, est *infer.Estimand) error {
	if m == nil {
		return errors.New("do: nil model")
	}
	if est == nil {
		return errors.New("do: nil estimand")
	}
	if est.Treatment != m.Treatment() || est.Outcome != m.Outcome() {
		return fmt.Errorf("do: estimand is for %s -> %s, model is for %s -> %s",
			est.Treatment, est.Outcome, m.Treatment(), m.Outcome())
	}
	for _, col := range est.Backdoor {
		if !m.Frame().Has(col) {
			return fmt.Errorf("do: backdoor column %q not in frame", col)
		}
	}
	return nil
}

func validateIntervention(m *infer.Model, iv *Intervention) error {
	if iv == nil {
		return nil
	}
	if iv.Variable != m.Treatment() {
		return fmt.Errorf("do: intervention on %q, model treats %q", iv.Variable, m.Treatment())
	}
	kind, err := m.Frame().KindOf(iv.Variable)
	if err != nil {
		return err
	}
	if kind == frame.Binary && iv.Value != 0 && iv.Value != 1 {
		return fmt.Errorf("do: intervention value %v on binary treatment %q", iv.Value, iv.Variable)
	}
	return nil
}

// featureRows gathers the named columns of f into one row per frame row.
func featureRows(f *frame.Frame, names []string) ([][]float64, error) {
	views := make([][]float64, len(names))
	for j, name := range names {
		v, err := f.ColumnView(name)
		if err != nil {
			return nil, err
		}
		views[j] = v
	}
	rows := make([][]float64, f.Rows())
	for i := range rows {
		row := make([]float64, len(names))
		for j := range names {
			row[j] = views[j][i]
		}
		rows[i] = row
	}
	return rows, nil
}

func checkCtx(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("do: sampling cancelled: %w", err)
	}
	return nil
}
