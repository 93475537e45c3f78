package do

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"causalml/pkg/frame"
	"causalml/pkg/infer"
	"causalml/pkg/model"
	"causalml/pkg/sample"
)

// GComputationSampler draws interventional outcomes from a fitted
// outcome model instead of reweighting rows. It regresses the outcome on
// the treatment and the backdoor set, then emits a frame where the
// outcome is the model's prediction under the intervened treatment plus
// a bootstrap draw from the training residuals.
type GComputationSampler struct {
	Seed int64

	reg model.Regressor
	log *slog.Logger

	m   *infer.Model
	est *infer.Estimand

	fitted    bool
	residuals []float64
	// features is the regression column order: treatment first, then
	// the backdoor set.
	features []string
}

// GCompOption is functional config for GComputationSampler.
type GCompOption func(*GComputationSampler)

// WithOutcomeModel swaps the default OLS regressor.
func WithOutcomeModel(reg model.Regressor) GCompOption {
	return func(s *GComputationSampler) { s.reg = reg }
}

// WithGCompSeed fixes the residual bootstrap randomness.
func WithGCompSeed(seed int64) GCompOption {
	return func(s *GComputationSampler) { s.Seed = seed }
}

// WithGCompLogger routes sampler diagnostics to the given logger.
func WithGCompLogger(log *slog.Logger) GCompOption {
	return func(s *GComputationSampler) { s.log = log }
}

// NewGComputationSampler builds a g-computation do-sampler for the model
// and its identified estimand.
func NewGComputationSampler(m *infer.Model, est *infer.Estimand, opts ...GCompOption) (*GComputationSampler, error) {
	if err := validateModel(m, est); err != nil {
		return nil, err
	}
	s := &GComputationSampler{
		Seed:     time.Now().UnixNano(),
		log:      m.Logger(),
		m:        m,
		est:      est,
		features: append([]string{m.Treatment()}, est.Backdoor...),
	}
	for _, o := range opts {
		o(s)
	}
	if s.reg == nil {
		s.reg = model.NewOLS()
	}
	return s, nil
}

// Sample fits the outcome model on first use, then emits a frame whose
// outcome column is redrawn under the intervention. A nil intervention
// keeps each row's observed treatment and only redraws the outcome.
func (s *GComputationSampler) Sample(ctx context.Context, iv *Intervention) (*frame.Frame, error) {
	if err := validateIntervention(s.m, iv); err != nil {
		return nil, err
	}
	if err := s.fit(); err != nil {
		return nil, err
	}
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	work := s.m.Frame().Clone()

	// Make the treatment effective before predicting, so the outcome
	// model sees the intervened value.
	if iv != nil {
		forced := make([]float64, work.Rows())
		for i := range forced {
			forced[i] = iv.Value
		}
		if err := work.SetColumn(s.m.Treatment(), forced); err != nil {
			return nil, err
		}
	}
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	X, err := featureRows(work, s.features)
	if err != nil {
		return nil, err
	}
	yhat := s.reg.Predict(X)

	// Add back noise: bootstrap draws from the training residuals keep
	// the outcome's dispersion without assuming a noise law.
	rng := rand.New(rand.NewSource(s.Seed))
	draw := sample.Bootstrap(rng, len(s.residuals))
	for i := range yhat {
		yhat[i] += s.residuals[draw[i%len(draw)]]
	}

	if err := work.SetColumn(s.m.Outcome(), yhat); err != nil {
		return nil, err
	}
	return work, nil
}

func (s *GComputationSampler) fit() error {
	if s.fitted {
		return nil
	}
	f := s.m.Frame()
	X, err := featureRows(f, s.features)
	if err != nil {
		return err
	}
	y, err := f.Column(s.m.Outcome())
	if err != nil {
		return err
	}
	if err := s.reg.Fit(X, y); err != nil {
		return err
	}

	pred := s.reg.Predict(X)
	s.residuals = make([]float64, len(y))
	for i := range y {
		s.residuals[i] = y[i] - pred[i]
	}
	s.fitted = true
	s.log.Debug("outcome model fitted", "features", s.features, "rows", len(y))
	return nil
}

// Coefficients returns the fitted outcome-model coefficients when the
// regressor is OLS: intercept, treatment, then the backdoor set.
func (s *GComputationSampler) Coefficients() []float64 {
	if ols, ok := s.reg.(*model.OLS); ok {
		return ols.Coef
	}
	return nil
}
