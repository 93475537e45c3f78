package model

import "math"

// Sigmoid maps a real score to (0, 1).
func Sigmoid(x float64) float64 { return 1.0 / (1.0 + math.Exp(-x)) }

// BCE returns the binary cross-entropy loss and its gradient with respect
// to the predictions. Predictions are clamped away from 0 and 1 so the
// logs stay finite.
func BCE(yTrue, yPred []float64) (float64, []float64) {
	n := len(yTrue)
	s := 0.0
	grad := make([]float64, n)

	for i := range n {
		p := math.Min(math.Max(yPred[i], 1e-12), 1-1e-12)
		y := yTrue[i]
		s += -(y*math.Log(p) + (1-y)*math.Log(1-p))
		grad[i] = (p - y) / float64(n)
	}
	return s / float64(n), grad
}
