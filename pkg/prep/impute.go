// Package prep prepares frames for modeling: missing-value imputation,
// row filtering and column scaling, plus a small fit/transform pipeline.
package prep

import (
	"fmt"
	"math"

	"causalml/pkg/frame"
	"causalml/pkg/stats"
)

// ImputeReport records what happened to one column during imputation.
type ImputeReport struct {
	Column   string
	Strategy string
	Filled   int
}

func observed(col []float64) []float64 {
	out := make([]float64, 0, len(col))
	for _, v := range col {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

func fill(col []float64, v float64) int {
	n := 0
	for i := range col {
		if math.IsNaN(col[i]) {
			col[i] = v
			n++
		}
	}
	return n
}

// ImputeMean replaces NaN cells with the column mean of the observed
// values. The frame is modified in place. With no column names given,
// every column is imputed.
func ImputeMean(f *frame.Frame, cols ...string) ([]ImputeReport, error) {
	return impute(f, "mean", cols)
}

// ImputeMedian replaces NaN cells with the column median.
func ImputeMedian(f *frame.Frame, cols ...string) ([]ImputeReport, error) {
	return impute(f, "median", cols)
}

func impute(f *frame.Frame, strategy string, cols []string) ([]ImputeReport, error) {
	if len(cols) == 0 {
		cols = f.Names()
	}
	var reports []ImputeReport
	for _, name := range cols {
		col, err := f.ColumnView(name)
		if err != nil {
			return nil, err
		}
		obs := observed(col)
		if len(obs) == 0 {
			return nil, fmt.Errorf("prep: column %q has no observed values", name)
		}
		var v float64
		switch strategy {
		case "mean":
			v = stats.Mean(obs)
		case "median":
			v = stats.Median(obs)
		default:
			return nil, fmt.Errorf("prep: unknown impute strategy %q", strategy)
		}
		if n := fill(col, v); n > 0 {
			reports = append(reports, ImputeReport{Column: name, Strategy: strategy, Filled: n})
		}
	}
	return reports, nil
}

// Impute picks a strategy per column: mean for roughly symmetric
// distributions, median when mean and median sit more than one standard
// deviation apart.
func Impute(f *frame.Frame) ([]ImputeReport, error) {
	var reports []ImputeReport
	for _, name := range f.Names() {
		col, err := f.ColumnView(name)
		if err != nil {
			return nil, err
		}
		obs := observed(col)
		if len(obs) == 0 {
			return nil, fmt.Errorf("prep: column %q has no observed values", name)
		}
		if len(obs) == len(col) {
			continue
		}

		mean := stats.Mean(obs)
		median := stats.Median(obs)
		skew := math.Abs(mean-median) / (stats.Std(obs) + 1e-9)

		strategy, v := "mean", mean
		if skew > 1.0 {
			strategy, v = "median", median
		}
		n := fill(col, v)
		reports = append(reports, ImputeReport{Column: name, Strategy: strategy, Filled: n})
	}
	return reports, nil
}

// DropMissingRows returns a new frame without the rows that hold any NaN
// cell, plus the number of rows dropped.
func DropMissingRows(f *frame.Frame) (*frame.Frame, int, error) {
	var keep []int
	names := f.Names()
	views := make([][]float64, len(names))
	for j, name := range names {
		v, err := f.ColumnView(name)
		if err != nil {
			return nil, 0, err
		}
		views[j] = v
	}
	for i := 0; i < f.Rows(); i++ {
		ok := true
		for _, v := range views {
			if math.IsNaN(v[i]) {
				ok = false
				break
			}
		}
		if ok {
			keep = append(keep, i)
		}
	}
	out, err := f.TakeRows(keep)
	if err != nil {
		return nil, 0, err
	}
	return out, f.Rows() - len(keep), nil
}
