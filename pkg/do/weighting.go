package do

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"causalml/pkg/frame"
	"causalml/pkg/infer"
	"causalml/pkg/model"
	"causalml/pkg/sample"
	"causalml/pkg/stats"
)

// propensityEps keeps fitted propensities away from 0 and 1 so inverse
// weights stay finite.
const propensityEps = 1e-6

// WeightingSampler breaks the link between the treatment and its causes
// by inverse propensity resampling. It fits a propensity model on the
// backdoor set, weights every row by 1 over the probability of the
// treatment value it actually received, and resamples rows by those
// weights. In the emitted frame the treatment is independent of the
// backdoor variables, so a plain group-mean contrast reads off the
// causal effect.
type WeightingSampler struct {
	// Options
	KeepOriginalTreatment bool
	TrimLower             float64
	TrimUpper             float64
	SampleSize            int
	Seed                  int64

	clf model.Classifier
	log *slog.Logger

	m   *infer.Model
	est *infer.Estimand

	propensity []float64 // P(treatment=1 | backdoor) per source row
	weights    []float64 // trimmed resampling weight per source row
}

// WeightingOption is functional config for WeightingSampler.
type WeightingOption func(*WeightingSampler)

// KeepOriginalTreatment makes Sample leave each row's treatment as
// observed even when an intervention value is passed.
func KeepOriginalTreatment() WeightingOption {
	return func(s *WeightingSampler) { s.KeepOriginalTreatment = true }
}

// WithTrim clips weights to the given percentiles (0-100) before
// resampling. WithTrim(0, 100) disables trimming.
func WithTrim(lower, upper float64) WeightingOption {
	return func(s *WeightingSampler) { s.TrimLower, s.TrimUpper = lower, upper }
}

// WithPropensityModel swaps the default logistic regression for another
// classifier, e.g. model.NewKNNClassifier for a nonparametric fit.
func WithPropensityModel(clf model.Classifier) WeightingOption {
	return func(s *WeightingSampler) { s.clf = clf }
}

// WithSampleSize sets how many rows Sample emits. Zero means as many as
// the source frame has.
func WithSampleSize(n int) WeightingOption {
	return func(s *WeightingSampler) { s.SampleSize = n }
}

// WithSamplerSeed fixes the resampling and model-init randomness.
func WithSamplerSeed(seed int64) WeightingOption {
	return func(s *WeightingSampler) { s.Seed = seed }
}

// WithSamplerLogger routes sampler diagnostics to the given logger.
func WithSamplerLogger(log *slog.Logger) WeightingOption {
	return func(s *WeightingSampler) { s.log = log }
}

// NewWeightingSampler builds a weighting do-sampler for the model and its
// identified estimand. The treatment column must be binary.
func NewWeightingSampler(m *infer.Model, est *infer.Estimand, opts ...WeightingOption) (*WeightingSampler, error) {
	if err := validateModel(m, est); err != nil {
		return nil, err
	}
	kind, err := m.Frame().KindOf(m.Treatment())
	if err != nil {
		return nil, err
	}
	if kind != frame.Binary {
		return nil, ErrTreatmentNotBinary
	}
	d, err := m.Frame().ColumnView(m.Treatment())
	if err != nil {
		return nil, err
	}
	var seen0, seen1 bool
	for _, v := range d {
		if v == 0 {
			seen0 = true
		} else {
			seen1 = true
		}
		if seen0 && seen1 {
			break
		}
	}
	if !seen0 || !seen1 {
		return nil, fmt.Errorf("%w: %q", ErrTreatmentLevelMissing, m.Treatment())
	}

	s := &WeightingSampler{
		TrimLower: 1,
		TrimUpper: 99,
		Seed:      time.Now().UnixNano(),
		log:       m.Logger(),
		m:         m,
		est:       est,
	}
	for _, o := range opts {
		o(s)
	}
	if s.clf == nil {
		s.clf = model.NewLogisticRegression(model.WithSeed(s.Seed))
	}
	return s, nil
}

// Sample runs the pipeline: clone the frame, fit the propensity model,
// weight and resample the rows, then apply the intervention. A nil
// intervention (or KeepOriginalTreatment) leaves the observed treatment
// values in place.
func (s *WeightingSampler) Sample(ctx context.Context, iv *Intervention) (*frame.Frame, error) {
	if err := validateIntervention(s.m, iv); err != nil {
		return nil, err
	}

	// Reset: every call works on a fresh copy of the source data.
	work := s.m.Frame().Clone()
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	if err := s.disruptCauses(work); err != nil {
		return nil, err
	}
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	work, err := s.resample(work)
	if err != nil {
		return nil, err
	}
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	if err := s.makeTreatmentEffective(work, iv); err != nil {
		return nil, err
	}
	return work, nil
}

// disruptCauses fits the propensity model and attaches propensity and
// weight columns to the working frame.
func (s *WeightingSampler) disruptCauses(work *frame.Frame) error {
	n := work.Rows()
	d, err := work.ColumnView(s.m.Treatment())
	if err != nil {
		return err
	}

	p := make([]float64, n)
	w := make([]float64, n)
	if len(s.est.Backdoor) == 0 {
		// Nothing points at the treatment: uniform weights.
		s.log.Debug("no backdoor variables; resampling uniformly")
		for i := range w {
			p[i] = 0.5
			w[i] = 1
		}
	} else {
		X, err := featureRows(work, s.est.Backdoor)
		if err != nil {
			return err
		}
		if err := s.clf.Fit(X, d); err != nil {
			return err
		}
		copy(p, s.clf.PredictProba(X))
		for i := range p {
			if p[i] < propensityEps {
				p[i] = propensityEps
			}
			if p[i] > 1-propensityEps {
				p[i] = 1 - propensityEps
			}
			// Weight by 1 / P(the treatment value this row received).
			if d[i] == 1 {
				w[i] = 1 / p[i]
			} else {
				w[i] = 1 / (1 - p[i])
			}
		}
		w = stats.ClipToQuantiles(w, s.TrimLower, s.TrimUpper)
	}

	s.propensity = p
	s.weights = w

	if err := setOrAdd(work, PropensityColumn, p); err != nil {
		return err
	}
	return setOrAdd(work, WeightColumn, w)
}

// resample draws rows with replacement, probability proportional to the
// weight column.
func (s *WeightingSampler) resample(work *frame.Frame) (*frame.Frame, error) {
	n := s.SampleSize
	if n <= 0 {
		n = work.Rows()
	}
	rng := rand.New(rand.NewSource(s.Seed))
	idx, err := sample.Weighted(rng, s.weights, n)
	if err != nil {
		return nil, err
	}
	return work.TakeRows(idx)
}

// makeTreatmentEffective forces the intervention value onto the
// treatment column, unless the sampler keeps original treatments.
func (s *WeightingSampler) makeTreatmentEffective(work *frame.Frame, iv *Intervention) error {
	if iv == nil || s.KeepOriginalTreatment {
		return nil
	}
	forced := make([]float64, work.Rows())
	for i := range forced {
		forced[i] = iv.Value
	}
	return work.SetColumn(s.m.Treatment(), forced)
}

// PropensityScores returns P(treatment=1 | backdoor) per source row from
// the last Sample call.
func (s *WeightingSampler) PropensityScores() []float64 { return s.propensity }

// Weights returns the trimmed resampling weight per source row from the
// last Sample call.
func (s *WeightingSampler) Weights() []float64 { return s.weights }

func setOrAdd(f *frame.Frame, name string, values []float64) error {
	if f.Has(name) {
		return f.SetColumn(name, values)
	}
	return f.AddColumn(name, frame.Continuous, values)
}
