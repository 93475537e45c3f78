package stats

// Weighted moments and weight hygiene for inverse-propensity estimation.
// Weights are sampling weights: non-negative, not required to sum to one.

// WeightedMean computes sum(w*x)/sum(w). Returns 0 when the total weight is 0.
func WeightedMean(x, w []float64) float64 {
	if len(x) == 0 || len(w) != len(x) {
		return 0
	}
	var sw, swx float64
	for i := range x {
		sw += w[i]
		swx += w[i] * x[i]
	}
	if sw == 0 {
		return 0
	}
	return swx / sw
}

// WeightedVariance computes the weighted population variance around the
// weighted mean.
func WeightedVariance(x, w []float64) float64 {
	if len(x) == 0 || len(w) != len(x) {
		return 0
	}
	m := WeightedMean(x, w)
	var sw, swd float64
	for i := range x {
		d := x[i] - m
		sw += w[i]
		swd += w[i] * d * d
	}
	if sw == 0 {
		return 0
	}
	return swd / sw
}

// NormalizeWeights rescales weights in place so they sum to len(w),
// keeping the effective sample size comparable to unweighted data.
// A zero total leaves the slice untouched.
func NormalizeWeights(w []float64) {
	total := Sum(w)
	if total == 0 {
		return
	}
	scale := float64(len(w)) / total
	for i := range w {
		w[i] *= scale
	}
}

// ClipToQuantiles clips values to the given lower and upper percentiles
// (0-100) and returns a new slice. Used to truncate extreme inverse-propensity
// weights before resampling.
func ClipToQuantiles(x []float64, lower, upper float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}
	lo := Percentile(x, lower)
	hi := Percentile(x, upper)
	for i, v := range x {
		switch {
		case v < lo:
			out[i] = lo
		case v > hi:
			out[i] = hi
		default:
			out[i] = v
		}
	}
	return out
}

// GroupMeans returns the mean of values for each distinct level observed in
// by, keyed by level. The two slices must be aligned; extra values are
// ignored.
func GroupMeans(values, by []float64) map[float64]float64 {
	n := len(values)
	if len(by) < n {
		n = len(by)
	}
	sums := make(map[float64]float64)
	counts := make(map[float64]int)
	for i := 0; i < n; i++ {
		sums[by[i]] += values[i]
		counts[by[i]]++
	}
	out := make(map[float64]float64, len(sums))
	for level, s := range sums {
		out[level] = s / float64(counts[level])
	}
	return out
}
