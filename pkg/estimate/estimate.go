// Package estimate turns data into treatment-effect numbers: the naive
// group contrast, inverse-propensity weighting, and contrasts computed
// on do-sampler output, with bootstrap intervals and refutation checks
// on top.
package estimate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"causalml/pkg/do"
	"causalml/pkg/frame"
	"causalml/pkg/infer"
	"causalml/pkg/model"
	"causalml/pkg/stats"
)

// ErrMissingGroup is returned when a contrast needs both treatment
// levels and the data holds only one.
var ErrMissingGroup = errors.New("estimate: need both treated and control rows")

// Estimator maps a frame to a point estimate. Bootstrap and the
// refuters re-run an Estimator on resampled or perturbed frames, so it
// must not keep state across calls.
type Estimator func(f *frame.Frame) (float64, error)

// NaiveDifference is the raw contrast mean(y | d=1) - mean(y | d=0).
// On observational data it mixes the effect with confounding; on a
// do-sample it reads off the causal effect.
func NaiveDifference(f *frame.Frame, treatment, outcome string) (float64, error) {
	d, err := f.ColumnView(treatment)
	if err != nil {
		return 0, err
	}
	y, err := f.ColumnView(outcome)
	if err != nil {
		return 0, err
	}
	means := stats.GroupMeans(y, d)
	treated, okT := means[1]
	control, okC := means[0]
	if !okT || !okC {
		return 0, fmt.Errorf("%w: column %q", ErrMissingGroup, treatment)
	}
	return treated - control, nil
}

// Naive adapts NaiveDifference to the Estimator shape.
func Naive(treatment, outcome string) Estimator {
	return func(f *frame.Frame) (float64, error) {
		return NaiveDifference(f, treatment, outcome)
	}
}

// IPWConfig tunes the inverse-propensity estimator.
type IPWConfig struct {
	// Clf scores P(d=1 | backdoor). Nil means a fresh logistic
	// regression per call.
	Clf model.Classifier
	// TrimLower/TrimUpper clip the weights to these percentiles.
	// Zero values mean the 1st and 99th.
	TrimLower float64
	TrimUpper float64
	Seed      int64
}

// IPW computes the Hajek-weighted contrast: each row is weighted by
// 1 over the probability of the treatment it received, so the weighted
// group means behave as if treatment had been randomized.
func IPW(f *frame.Frame, treatment, outcome string, backdoor []string, cfg IPWConfig) (float64, error) {
	if len(backdoor) == 0 {
		// Nothing to adjust for; the naive contrast is already causal.
		return NaiveDifference(f, treatment, outcome)
	}
	kind, err := f.KindOf(treatment)
	if err != nil {
		return 0, err
	}
	if kind != frame.Binary {
		return 0, do.ErrTreatmentNotBinary
	}

	d, err := f.ColumnView(treatment)
	if err != nil {
		return 0, err
	}
	y, err := f.ColumnView(outcome)
	if err != nil {
		return 0, err
	}
	X := make([][]float64, f.Rows())
	for j, name := range backdoor {
		col, err := f.ColumnView(name)
		if err != nil {
			return 0, err
		}
		for i := range X {
			if X[i] == nil {
				X[i] = make([]float64, len(backdoor))
			}
			X[i][j] = col[i]
		}
	}

	clf := cfg.Clf
	if clf == nil {
		seed := cfg.Seed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		clf = model.NewLogisticRegression(model.WithSeed(seed))
	}
	if err := clf.Fit(X, d); err != nil {
		return 0, err
	}
	p := clf.PredictProba(X)

	lo, hi := cfg.TrimLower, cfg.TrimUpper
	if lo == 0 && hi == 0 {
		lo, hi = 1, 99
	}
	w := make([]float64, len(p))
	for i := range p {
		pi := clamp(p[i], 1e-6, 1-1e-6)
		if d[i] == 1 {
			w[i] = 1 / pi
		} else {
			w[i] = 1 / (1 - pi)
		}
	}
	w = stats.ClipToQuantiles(w, lo, hi)

	var yT, yC, wT, wC []float64
	for i := range d {
		if d[i] == 1 {
			yT = append(yT, y[i])
			wT = append(wT, w[i])
		} else {
			yC = append(yC, y[i])
			wC = append(wC, w[i])
		}
	}
	if len(yT) == 0 || len(yC) == 0 {
		return 0, fmt.Errorf("%w: column %q", ErrMissingGroup, treatment)
	}
	return stats.WeightedMean(yT, wT) - stats.WeightedMean(yC, wC), nil
}

// IPWFor builds an Estimator that re-fits the propensity model on
// whatever frame it is handed, using the model's identified backdoor
// set. That re-fitting is what makes it bootstrappable.
func IPWFor(m *infer.Model, est *infer.Estimand, cfg IPWConfig) Estimator {
	return func(f *frame.Frame) (float64, error) {
		return IPW(f, m.Treatment(), m.Outcome(), est.Backdoor, cfg)
	}
}

// FromDoSample draws one interventional sample and reads the contrast
// off it. The sampler is run with a nil intervention, keeping each
// row's treatment value so both groups appear in the output.
func FromDoSample(ctx context.Context, s do.Sampler, treatment, outcome string) (float64, error) {
	out, err := s.Sample(ctx, nil)
	if err != nil {
		return 0, err
	}
	return NaiveDifference(out, treatment, outcome)
}

// ATEFromInterventions contrasts the mean outcome under do(d=1) and
// do(d=0), each from its own sampler draw.
func ATEFromInterventions(ctx context.Context, s do.Sampler, treatment, outcome string) (float64, error) {
	means := make([]float64, 2)
	for v := 0; v < 2; v++ {
		out, err := s.Sample(ctx, &do.Intervention{Variable: treatment, Value: float64(v)})
		if err != nil {
			return 0, err
		}
		y, err := out.ColumnView(outcome)
		if err != nil {
			return 0, err
		}
		means[v] = stats.Mean(y)
	}
	return means[1] - means[0], nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
