package model

// Classifier is a supervised binary model. Predict returns hard 0/1
// labels, PredictProba returns p(y=1) per row.
type Classifier interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) []float64
	PredictProba(X [][]float64) []float64
}

// Regressor predicts a continuous target.
type Regressor interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) []float64
}
