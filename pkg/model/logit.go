package model

import (
	"errors"
	"math/rand"
	"runtime"
	"sync"

	"causalml/pkg/optim"
)

// LogisticRegression is a binary classifier trained with mini-batch
// gradient descent on the cross-entropy loss.
type LogisticRegression struct {
	// Hyperparameters / options
	Lr        float64
	Epochs    int
	BatchSize int
	Seed      int64

	// Learned parameters
	W []float64
	b float64
}

// LogitOption is functional config for LogisticRegression.
type LogitOption func(*LogisticRegression)

func WithLearningRate(lr float64) LogitOption {
	return func(m *LogisticRegression) { m.Lr = lr }
}
func WithEpochs(n int) LogitOption    { return func(m *LogisticRegression) { m.Epochs = n } }
func WithBatchSize(n int) LogitOption { return func(m *LogisticRegression) { m.BatchSize = n } }
func WithSeed(s int64) LogitOption    { return func(m *LogisticRegression) { m.Seed = s } }

// NewLogisticRegression initializes the model with sensible defaults.
func NewLogisticRegression(opts ...LogitOption) *LogisticRegression {
	m := &LogisticRegression{
		Lr:        0.1,
		Epochs:    200,
		BatchSize: 256,
		Seed:      1,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Fit trains the model. Each epoch streams the rows through a fresh
// mini-batch channel, so the data is revisited Epochs times.
func (m *LogisticRegression) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("logit: empty training data")
	}
	if len(X) != len(y) {
		return errors.New("logit: X and y length mismatch")
	}
	nFeatures := len(X[0])

	// Small random init to break symmetry, seeded for reproducibility.
	rng := rand.New(rand.NewSource(m.Seed))
	m.W = make([]float64, nFeatures)
	for i := range m.W {
		m.W[i] = rng.NormFloat64() * 0.01
	}
	m.b = 0

	opt := optim.NewSGD(m.Lr)

	for ep := 0; ep < m.Epochs; ep++ {
		for batch := range Batches(X, y, m.BatchSize) {
			if len(batch.X[0]) != nFeatures {
				return errors.New("logit: feature count mismatch between model and batch data")
			}

			p := m.PredictProba(batch.X)
			_, dy := BCE(batch.Y, p)

			gW := make([]float64, nFeatures)
			gb := 0.0
			for i, row := range batch.X {
				d := dy[i]
				for j, xij := range row {
					gW[j] += d * xij
				}
				gb += d
			}

			opt.Step(m.W, gW)
			m.b -= m.Lr * gb
		}
	}
	return nil
}

// PredictProba returns p(y=1) for each row, splitting rows across CPU
// cores.
func (m *LogisticRegression) PredictProba(X [][]float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	out := make([]float64, len(X))
	var wg sync.WaitGroup

	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers

	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, len(X))
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				sum := m.b
				for j, v := range X[i] {
					sum += m.W[j] * v
				}
				out[i] = Sigmoid(sum)
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

// Predict returns 0/1 labels at a 0.5 threshold.
func (m *LogisticRegression) Predict(X [][]float64) []float64 {
	proba := m.PredictProba(X)
	out := make([]float64, len(proba))
	for i, p := range proba {
		if p >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

// Coefficients returns the bias followed by the learned weights.
func (m *LogisticRegression) Coefficients() []float64 {
	out := make([]float64, 0, len(m.W)+1)
	out = append(out, m.b)
	out = append(out, m.W...)
	return out
}
