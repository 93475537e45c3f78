package model

import "math"

func MSE(yTrue, yPred []float64) float64 {
	n := float64(len(yTrue))
	s := 0.0
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		s += d * d
	}
	return s / n
}

func RMSE(yTrue, yPred []float64) float64 { return math.Sqrt(MSE(yTrue, yPred)) }

func MAE(yTrue, yPred []float64) float64 {
	n := float64(len(yTrue))
	s := 0.0
	for i := range yTrue {
		d := yPred[i] - yTrue[i]
		if d < 0 {
			d = -d
		}
		s += d
	}
	return s / n
}

func R2(yTrue, yPred []float64) float64 {
	m := 0.0
	for _, v := range yTrue {
		m += v
	}
	m /= float64(len(yTrue))
	ssTot := 0.0
	ssRes := 0.0
	for i := range yTrue {
		d := yTrue[i] - m
		ssTot += d * d
		r := yTrue[i] - yPred[i]
		ssRes += r * r
	}
	if ssTot == 0 {
		return 0
	}
	return 1 - ssRes/ssTot
}

// Accuracy compares 0/1 labels.
func Accuracy(yTrue, yPred []float64) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// LogLoss is the mean binary cross-entropy of predicted probabilities.
func LogLoss(yTrue, proba []float64) float64 {
	loss, _ := BCE(yTrue, proba)
	return loss
}

// CalibrationBin summarizes one probability band: how often the model
// said p(y=1) in [Lo, Hi) and how often y actually was 1 there.
type CalibrationBin struct {
	Lo, Hi    float64
	Count     int
	MeanProba float64
	MeanLabel float64
}

// CalibrationTable buckets predictions into equal-width probability bins.
// A well calibrated propensity model has MeanProba close to MeanLabel in
// every populated bin.
func CalibrationTable(yTrue, proba []float64, bins int) []CalibrationBin {
	if bins <= 0 {
		bins = 10
	}
	out := make([]CalibrationBin, bins)
	width := 1.0 / float64(bins)
	for i := range out {
		out[i].Lo = float64(i) * width
		out[i].Hi = out[i].Lo + width
	}
	for i, p := range proba {
		b := int(p / width)
		if b >= bins {
			b = bins - 1
		}
		if b < 0 {
			b = 0
		}
		out[b].Count++
		out[b].MeanProba += p
		out[b].MeanLabel += yTrue[i]
	}
	for i := range out {
		if out[i].Count > 0 {
			out[i].MeanProba /= float64(out[i].Count)
			out[i].MeanLabel /= float64(out[i].Count)
		}
	}
	return out
}
