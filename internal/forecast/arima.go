package forecast

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// ARIMA(1,1,1) over the monthly series: first-difference the counts,
// then fit an ARMA(1,1) with drift by conditional sum of squares. The
// coefficient search is a Nelder-Mead minimization; no analytic gradient
// exists for the recursive residuals.

type ARIMAModel struct {
	c     float64
	phi   float64
	theta float64

	series []float64 // original scale
	diff   []float64 // first differences
	resid  []float64 // one-step residuals on the differenced scale
}

// FitARIMA estimates the (1,1,1) model for values.
func FitARIMA(values []float64) (*ARIMAModel, error) {
	if len(values) < 4 {
		return nil, errors.New("arima: series too short to difference and fit")
	}

	diff := make([]float64, len(values)-1)
	for i := 1; i < len(values); i++ {
		diff[i-1] = values[i] - values[i-1]
	}

	problem := optimize.Problem{
		Func: func(params []float64) float64 {
			return conditionalSSE(diff, params[0], params[1], params[2])
		},
	}

	initial := []float64{mean(diff), 0.1, 0.1}
	result, err := optimize.Minimize(problem, initial, nil, &optimize.NelderMead{})
	if err != nil {
		return nil, err
	}

	model := &ARIMAModel{
		c:      result.X[0],
		phi:    result.X[1],
		theta:  result.X[2],
		series: append([]float64(nil), values...),
		diff:   diff,
	}
	model.resid = residuals(diff, model.c, model.phi, model.theta)
	return model, nil
}

// conditionalSSE is the CSS objective. Roots on or outside the unit
// circle are pushed away with a stationarity penalty instead of a hard
// constraint, which keeps the simplex method unconstrained.
func conditionalSSE(diff []float64, c, phi, theta float64) float64 {
	if math.Abs(phi) >= 0.999 || math.Abs(theta) >= 0.999 {
		return math.Inf(1)
	}

	var sse, prevResid float64
	for t := 1; t < len(diff); t++ {
		pred := c + phi*diff[t-1] + theta*prevResid
		resid := diff[t] - pred
		sse += resid * resid
		prevResid = resid
	}
	return sse
}

func residuals(diff []float64, c, phi, theta float64) []float64 {
	resid := make([]float64, len(diff))
	for t := 1; t < len(diff); t++ {
		pred := c + phi*diff[t-1] + theta*resid[t-1]
		resid[t] = diff[t] - pred
	}
	return resid
}

// FittedValues returns the one-step-ahead in-sample predictions on the
// original scale. The first entry is pinned to the first observation;
// in-sample metrics skip it.
func (m *ARIMAModel) FittedValues() []float64 {
	fitted := make([]float64, len(m.series))
	fitted[0] = m.series[0]
	for t := 1; t < len(m.series); t++ {
		var predDiff float64
		if t-1 < 1 {
			predDiff = m.c
		} else {
			predDiff = m.c + m.phi*m.diff[t-2] + m.theta*m.resid[t-2]
		}
		fitted[t] = m.series[t-1] + predDiff
	}
	return fitted
}

// Forecast produces steps future values on the original scale. Future
// shocks are zero, so beyond the first step the AR term runs on its own
// predictions and the differences are re-integrated from the last
// observation.
func (m *ARIMAModel) Forecast(steps int) []float64 {
	out := make([]float64, steps)

	lastDiff := m.diff[len(m.diff)-1]
	lastResid := m.resid[len(m.resid)-1]
	level := m.series[len(m.series)-1]

	for k := 0; k < steps; k++ {
		var predDiff float64
		if k == 0 {
			predDiff = m.c + m.phi*lastDiff + m.theta*lastResid
		} else {
			predDiff = m.c + m.phi*lastDiff
		}
		level += predDiff
		out[k] = level
		lastDiff = predDiff
	}
	return out
}
