package model

import (
	"errors"

	"causalml/pkg/linalg"
)

// OLS fits a linear model by the normal equations. For the small design
// matrices used here the closed form beats iterative fitting: one solve,
// no learning-rate tuning.
type OLS struct {
	// Coef holds the intercept at index 0 followed by one coefficient
	// per feature column.
	Coef []float64
}

// NewOLS returns an unfitted ordinary least squares regressor.
func NewOLS() *OLS { return &OLS{} }

// Fit solves (X'X) beta = X'y on the intercept-augmented design matrix.
func (m *OLS) Fit(X [][]float64, y []float64) error {
	if len(X) == 0 {
		return errors.New("ols: empty training data")
	}
	if len(X) != len(y) {
		return errors.New("ols: X and y length mismatch")
	}

	D := linalg.Design(X)
	Dt := D.Transpose()

	XtX, err := linalg.MatMul(Dt, D)
	if err != nil {
		return err
	}
	Xty, err := linalg.MatVec(Dt, y)
	if err != nil {
		return err
	}

	beta, err := linalg.Solve(XtX, Xty)
	if err != nil {
		return errors.New("ols: normal equations are singular; drop collinear features")
	}
	m.Coef = beta
	return nil
}

// Predict evaluates the fitted line for each row.
func (m *OLS) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i, row := range X {
		s := m.Coef[0]
		for j, v := range row {
			s += m.Coef[j+1] * v
		}
		out[i] = s
	}
	return out
}

// Residuals returns y - yhat for the given data.
func (m *OLS) Residuals(X [][]float64, y []float64) []float64 {
	pred := m.Predict(X)
	out := make([]float64, len(y))
	for i := range y {
		out[i] = y[i] - pred[i]
	}
	return out
}
