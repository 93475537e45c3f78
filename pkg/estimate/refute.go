package estimate

import (
	"fmt"
	"math/rand"

	"causalml/pkg/frame"
	"causalml/pkg/sample"
	"causalml/pkg/stats"
)

// Refutation is the outcome of a sanity check on an estimate: the
// original value, the value under the perturbation, and what to look
// for. The checks cannot prove an estimate right, only catch ones that
// fail in obvious ways.
type Refutation struct {
	Name     string
	Original float64
	Refuted  float64
	Note     string
}

func (r *Refutation) String() string {
	return fmt.Sprintf("%s: original %.4f, refuted %.4f (%s)", r.Name, r.Original, r.Refuted, r.Note)
}

// PlaceboTreatment replaces the treatment column with a random
// permutation of itself and re-estimates. The permuted treatment causes
// nothing, so an estimator that still reports a sizable effect is
// reading something other than the treatment.
func PlaceboTreatment(est Estimator, f *frame.Frame, treatment string, seed int64) (*Refutation, error) {
	original, err := est(f)
	if err != nil {
		return nil, err
	}

	d, err := f.Column(treatment)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	perm := sample.Permutation(rng, len(d))
	placebo := make([]float64, len(d))
	for i, j := range perm {
		placebo[i] = d[j]
	}

	pf := f.Clone()
	if err := pf.SetColumn(treatment, placebo); err != nil {
		return nil, err
	}
	refuted, err := est(pf)
	if err != nil {
		return nil, err
	}
	return &Refutation{
		Name:     "placebo treatment",
		Original: original,
		Refuted:  refuted,
		Note:     "refuted value should be near zero",
	}, nil
}

// SubsetStability re-estimates on random subsets of the rows and
// reports the mean of the subset estimates; the spread across subsets
// goes in the note. A stable estimate should not move much when part of
// the data is dropped.
func SubsetStability(est Estimator, f *frame.Frame, fraction float64, reps int, seed int64) (*Refutation, error) {
	if fraction <= 0 || fraction >= 1 {
		return nil, fmt.Errorf("estimate: subset fraction %v outside (0, 1)", fraction)
	}
	if reps <= 0 {
		return nil, fmt.Errorf("estimate: subset repetitions must be positive")
	}
	original, err := est(f)
	if err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(seed))
	k := int(float64(f.Rows()) * fraction)
	values := make([]float64, 0, reps)
	for r := 0; r < reps; r++ {
		idx := sample.Permutation(rng, f.Rows())[:k]
		sub, err := f.TakeRows(idx)
		if err != nil {
			return nil, err
		}
		v, err := est(sub)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("estimate: every subset estimate failed")
	}
	return &Refutation{
		Name:     "subset stability",
		Original: original,
		Refuted:  stats.Mean(values),
		Note:     fmt.Sprintf("sd %.4f across %d subsets of %.0f%%", stats.Std(values), len(values), fraction*100),
	}, nil
}
