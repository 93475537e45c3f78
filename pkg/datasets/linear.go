package datasets

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"

	"causalml/pkg/frame"
	"causalml/pkg/model"
)

// Linear generates a dataset with several standard-normal common causes
// w0..w{k-1}, optional instruments i0.. that push only the treatment,
// a binary treatment driven by their sum, and a linear outcome:
//
//	w_j ~ N(0, 1)
//	i_j ~ N(0, 1)
//	d   ~ Bernoulli(sigmoid(Confounding * mean(w) + InstrumentPull * mean(i)))
//	y   = Effect*d + sum_j Slopes[j]*w_j + Noise*N(0, 1)
type Linear struct {
	N               int
	NumCommonCauses int
	NumInstruments  int
	Confounding     float64
	InstrumentPull  float64
	Effect          float64
	Slopes          []float64 // one per common cause; nil means all ones
	Noise           float64
	Seed            uint64

	Treatment string
	Outcome   string
}

// NewLinear initializes the generator with defaults.
func NewLinear() *Linear {
	return &Linear{
		N:               1000,
		NumCommonCauses: 3,
		Confounding:     2,
		InstrumentPull:  2,
		Effect:          1,
		Noise:           0.5,
		Seed:            1,
		Treatment:       "d",
		Outcome:         "y",
	}
}

// Generate draws the dataset.
func (g *Linear) Generate() (*Dataset, error) {
	if g.N <= 0 {
		return nil, errors.New("datasets: N must be positive")
	}
	if g.NumCommonCauses <= 0 {
		return nil, errors.New("datasets: NumCommonCauses must be positive")
	}
	slopes := g.Slopes
	if slopes == nil {
		slopes = make([]float64, g.NumCommonCauses)
		for j := range slopes {
			slopes[j] = 1
		}
	}
	if len(slopes) != g.NumCommonCauses {
		return nil, fmt.Errorf("datasets: %d slopes for %d common causes", len(slopes), g.NumCommonCauses)
	}

	src := rand.NewPCG(g.Seed, g.Seed+1)
	wDist := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	noise := distuv.Normal{Mu: 0, Sigma: g.Noise, Src: src}

	w := make([][]float64, g.NumCommonCauses)
	names := make([]string, g.NumCommonCauses)
	kinds := make([]frame.Kind, g.NumCommonCauses)
	for j := range w {
		w[j] = make([]float64, g.N)
		names[j] = fmt.Sprintf("w%d", j)
		kinds[j] = frame.Continuous
	}
	iv := make([][]float64, g.NumInstruments)
	ivNames := make([]string, g.NumInstruments)
	for j := range iv {
		iv[j] = make([]float64, g.N)
		ivNames[j] = fmt.Sprintf("i%d", j)
	}

	d := make([]float64, g.N)
	y := make([]float64, g.N)
	for i := 0; i < g.N; i++ {
		sum := 0.0
		for j := range w {
			w[j][i] = wDist.Rand()
			sum += w[j][i]
		}
		score := g.Confounding * sum / float64(g.NumCommonCauses)
		if g.NumInstruments > 0 {
			ivSum := 0.0
			for j := range iv {
				iv[j][i] = wDist.Rand()
				ivSum += iv[j][i]
			}
			score += g.InstrumentPull * ivSum / float64(g.NumInstruments)
		}
		d[i] = distuv.Bernoulli{P: model.Sigmoid(score), Src: src}.Rand()
		y[i] = g.Effect*d[i] + noise.Rand()
		for j := range w {
			y[i] += slopes[j] * w[j][i]
		}
	}

	names = append(names, ivNames...)
	for range ivNames {
		kinds = append(kinds, frame.Continuous)
	}
	names = append(names, g.Treatment, g.Outcome)
	kinds = append(kinds, frame.Binary, frame.Continuous)
	cols := append(append(w, iv...), d, y)

	f, err := frame.FromColumns(names, kinds, cols)
	if err != nil {
		return nil, err
	}
	return &Dataset{
		Frame:        f,
		Treatment:    g.Treatment,
		Outcome:      g.Outcome,
		CommonCauses: names[:g.NumCommonCauses],
		Instruments:  ivNames,
		Truth:        Truth{ATE: g.Effect},
	}, nil
}
