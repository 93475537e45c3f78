package model

import (
	"errors"
	"runtime"
	"sort"
	"sync"
)

// KNNClassifier scores binary labels by averaging the K nearest training
// labels, so PredictProba is the local positive rate around each point.
type KNNClassifier struct {
	K int
	X [][]float64
	y []float64
}

// NewKNNClassifier creates a KNN model with k neighbors.
func NewKNNClassifier(k int) *KNNClassifier {
	return &KNNClassifier{K: k}
}

// Fit stores the training data. KNN is lazy: all work happens at
// prediction time.
func (m *KNNClassifier) Fit(X [][]float64, y []float64) error {
	if len(X) != len(y) {
		return errors.New("knn: X and y length mismatch")
	}
	if len(X) == 0 {
		return errors.New("knn: empty training data")
	}
	if m.K <= 0 {
		return errors.New("knn: K must be positive")
	}
	m.X = X
	m.y = y
	return nil
}

// PredictProba returns the mean label among the K nearest neighbors of
// each row, splitting rows across CPU cores.
func (m *KNNClassifier) PredictProba(X [][]float64) []float64 {
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
				out[i] = m.scoreSingle(X[i])
			}
		}(start, end)
	}

	wg.Wait()
	return out
}

// PredictProbaOf returns, per row, the fraction of the K nearest
// neighbors whose label equals level. PredictProba is the level=1 case;
// this form covers treatments with more than two levels.
func (m *KNNClassifier) PredictProbaOf(X [][]float64, level float64) []float64 {
	ind := &KNNClassifier{K: m.K, X: m.X, y: make([]float64, len(m.y))}
	for i, v := range m.y {
		if v == level {
			ind.y[i] = 1
		}
	}
	return ind.PredictProba(X)
}

// Predict returns 0/1 labels at a 0.5 threshold.
func (m *KNNClassifier) Predict(X [][]float64) []float64 {
	proba := m.PredictProba(X)
	out := make([]float64, len(proba))
	for i, p := range proba {
		if p >= 0.5 {
			out[i] = 1
		}
	}
	return out
}

// scoreSingle maintains a small sorted slice of the nearest neighbors
// found so far and returns their mean label.
func (m *KNNClassifier) scoreSingle(xi []float64) float64 {
	type pair struct {
		d float64
		v float64
	}

	k := min(m.K, len(m.X))
	nbrs := make([]pair, 0, k+1)

	for j, xj := range m.X {
		distSquared := euclidSquared(xi, xj)
		neighbor := pair{d: distSquared, v: m.y[j]}

		if len(nbrs) < k {
			nbrs = append(nbrs, neighbor)
			sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
		} else if distSquared < nbrs[len(nbrs)-1].d {
			nbrs[len(nbrs)-1] = neighbor
			sort.Slice(nbrs, func(a, b int) bool { return nbrs[a].d < nbrs[b].d })
		}
	}

	sum := 0.0
	for _, p := range nbrs {
		sum += p.v
	}
	return sum / float64(len(nbrs))
}

// euclidSquared computes the squared Euclidean distance between two
// vectors. Squared distance avoids the square root during comparisons.
func euclidSquared(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
