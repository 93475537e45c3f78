// Package datasets generates synthetic data with known causal structure,
// so estimators can be checked against the effect that actually produced
// the numbers.
package datasets

import (
	"errors"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"causalml/pkg/frame"
	"causalml/pkg/graph"
	"causalml/pkg/model"
)

// Truth records the quantities a generator built into the data.
type Truth struct {
	// ATE is the true average treatment effect on the outcome.
	ATE float64
}

// Dataset bundles generated data with the variable roles needed to build
// a causal model over it.
type Dataset struct {
	Frame        *frame.Frame
	Treatment    string
	Outcome      string
	CommonCauses []string
	Instruments  []string
	Truth        Truth
}

// ConfoundedBinary generates the classic single-confounder setup: a
// uniform cause z pushes both a binary treatment d and a continuous
// outcome y, so the raw group contrast overstates the true effect.
//
//	z ~ Uniform(0, 1)
//	d ~ Bernoulli(sigmoid(Confounding * (z - 0.5)))
//	y = OutcomeSlope*z + Effect*d + Noise*N(0, 1)
type ConfoundedBinary struct {
	N            int
	Confounding  float64
	OutcomeSlope float64
	Effect       float64
	Noise        float64
	Seed         uint64

	Confounder string
	Treatment  string
	Outcome    string
}

// ConfoundedOption is functional config for ConfoundedBinary.
type ConfoundedOption func(*ConfoundedBinary)

func WithN(n int) ConfoundedOption {
	return func(g *ConfoundedBinary) { g.N = n }
}
func WithConfounding(c float64) ConfoundedOption {
	return func(g *ConfoundedBinary) { g.Confounding = c }
}
func WithOutcomeSlope(s float64) ConfoundedOption {
	return func(g *ConfoundedBinary) { g.OutcomeSlope = s }
}
func WithEffect(e float64) ConfoundedOption {
	return func(g *ConfoundedBinary) { g.Effect = e }
}
func WithNoise(sd float64) ConfoundedOption {
	return func(g *ConfoundedBinary) { g.Noise = sd }
}
func WithSeed(s uint64) ConfoundedOption {
	return func(g *ConfoundedBinary) { g.Seed = s }
}
func WithNames(confounder, treatment, outcome string) ConfoundedOption {
	return func(g *ConfoundedBinary) {
		g.Confounder, g.Treatment, g.Outcome = confounder, treatment, outcome
	}
}

// NewConfoundedBinary initializes the generator with defaults matching
// the usual demonstration: n=5000, confounding 4, slope 2, effect 1.
func NewConfoundedBinary(opts ...ConfoundedOption) *ConfoundedBinary {
	g := &ConfoundedBinary{
		N:            5000,
		Confounding:  4,
		OutcomeSlope: 2,
		Effect:       1,
		Noise:        0.1,
		Seed:         1,
		Confounder:   "z",
		Treatment:    "d",
		Outcome:      "y",
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Generate draws the dataset.
func (g *ConfoundedBinary) Generate() (*Dataset, error) {
	if g.N <= 0 {
		return nil, errors.New("datasets: N must be positive")
	}
	src := rand.NewPCG(g.Seed, g.Seed+1)

	zDist := distuv.Uniform{Min: 0, Max: 1, Src: src}
	noise := distuv.Normal{Mu: 0, Sigma: g.Noise, Src: src}

	z := make([]float64, g.N)
	d := make([]float64, g.N)
	y := make([]float64, g.N)
	for i := 0; i < g.N; i++ {
		z[i] = zDist.Rand()
		p := model.Sigmoid(g.Confounding * (z[i] - 0.5))
		d[i] = distuv.Bernoulli{P: p, Src: src}.Rand()
		y[i] = g.OutcomeSlope*z[i] + g.Effect*d[i] + noise.Rand()
	}

	f, err := frame.FromColumns(
		[]string{g.Confounder, g.Treatment, g.Outcome},
		[]frame.Kind{frame.Continuous, frame.Binary, frame.Continuous},
		[][]float64{z, d, y},
	)
	if err != nil {
		return nil, err
	}
	return &Dataset{
		Frame:        f,
		Treatment:    g.Treatment,
		Outcome:      g.Outcome,
		CommonCauses: []string{g.Confounder},
		Truth:        Truth{ATE: g.Effect},
	}, nil
}

// Graph returns the frozen diagram the generator follows:
// confounder -> treatment, confounder -> outcome, treatment -> outcome.
func (g *ConfoundedBinary) Graph() (*graph.DAG, error) {
	dag := graph.New()
	for _, n := range []string{g.Confounder, g.Treatment, g.Outcome} {
		if err := dag.AddNode(n); err != nil {
			return nil, err
		}
	}
	edges := [][2]string{
		{g.Confounder, g.Treatment},
		{g.Confounder, g.Outcome},
		{g.Treatment, g.Outcome},
	}
	for _, e := range edges {
		if err := dag.AddEdge(e[0], e[1]); err != nil {
			return nil, err
		}
	}
	dag.Freeze()
	return dag, nil
}
