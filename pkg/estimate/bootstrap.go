package estimate

import (
	"errors"
	"fmt"
	"math/rand"

	"causalml/pkg/frame"
	"causalml/pkg/sample"
	"causalml/pkg/stats"
)

// Report is a point estimate with a percentile bootstrap interval.
type Report struct {
	Method   string
	Estimate float64
	CILow    float64
	CIHigh   float64
	B        int
}

func (r *Report) String() string {
	if r.B == 0 {
		return fmt.Sprintf("%s: %.4f", r.Method, r.Estimate)
	}
	return fmt.Sprintf("%s: %.4f  (95%% CI [%.4f, %.4f], B=%d)", r.Method, r.Estimate, r.CILow, r.CIHigh, r.B)
}

// Bootstrap computes the estimate on f, then B more times on row
// resamples of f, and reports the 2.5/97.5 percentile interval of the
// replicates. Replicates where the estimator fails (a resample can lose
// a whole treatment group) are skipped and counted out of B.
func Bootstrap(method string, est Estimator, f *frame.Frame, b int, seed int64) (*Report, error) {
	if b <= 0 {
		return nil, errors.New("estimate: bootstrap replicates must be positive")
	}
	point, err := est(f)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	replicates := make([]float64, 0, b)
	for i := 0; i < b; i++ {
		idx := sample.Bootstrap(rng, f.Rows())
		rf, err := f.TakeRows(idx)
		if err != nil {
			return nil, err
		}
		v, err := est(rf)
		if err != nil {
			continue
		}
		replicates = append(replicates, v)
	}
	if len(replicates) == 0 {
		return nil, errors.New("estimate: every bootstrap replicate failed")
	}

	return &Report{
		Method:   method,
		Estimate: point,
		CILow:    stats.Percentile(replicates, 2.5),
		CIHigh:   stats.Percentile(replicates, 97.5),
		B:        len(replicates),
	}, nil
}
