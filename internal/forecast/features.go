package forecast

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Feature vector layout, shared by training and the recursive horizon:
// lag_1, lag_2, lag_3, calendar month, calendar quarter, trend index,
// rolling mean and rolling std over the three prior months.
const (
	numLags       = 3
	rollingWindow = 3
	numFeatures   = numLags + 5
)

// BuildFeatures constructs the training matrix for a series. Lags and
// rolling statistics are shifted one month back so no row sees its own or
// any future month. Head rows whose lags or rolling stats precede the
// series are backfilled from the first defined value of the column, then
// zero-filled, mirroring the source pipeline.
func BuildFeatures(s Series) ([][]float64, []float64) {
	n := s.Len()
	x := make([][]float64, n)
	y := make([]float64, n)

	for i := 0; i < n; i++ {
		row := make([]float64, numFeatures)
		for j := 1; j <= numLags; j++ {
			if i-j >= 0 {
				row[j-1] = s.Values[i-j]
			} else {
				row[j-1] = math.NaN()
			}
		}
		row[3] = float64(s.Months[i].Month())
		row[4] = float64((int(s.Months[i].Month())-1)/3 + 1)
		row[5] = float64(i)
		if i >= rollingWindow {
			window := s.Values[i-rollingWindow : i]
			row[6] = stat.Mean(window, nil)
			row[7] = stat.StdDev(window, nil)
		} else {
			row[6] = math.NaN()
			row[7] = math.NaN()
		}
		x[i] = row
		y[i] = s.Values[i]
	}

	backfillColumns(x)
	return x, y
}

// backfillColumns replaces NaN cells with the next defined value below
// them in the same column, then zeroes whatever remains.
func backfillColumns(x [][]float64) {
	if len(x) == 0 {
		return
	}
	for col := 0; col < numFeatures; col++ {
		next := math.NaN()
		for row := len(x) - 1; row >= 0; row-- {
			if math.IsNaN(x[row][col]) {
				x[row][col] = next
			} else {
				next = x[row][col]
			}
		}
	}
	for row := range x {
		for col := range x[row] {
			if math.IsNaN(x[row][col]) {
				x[row][col] = 0
			}
		}
	}
}

// horizonFeatures builds the feature vector for future step i (0-based)
// of the recursive forecast. history holds the training series values and
// forecasts the already predicted steps; lags and the rolling window read
// from their concatenation, so each step depends on all prior steps. The
// rolling std here is the population variant, matching the original
// recursive loop.
func horizonFeatures(history, forecasts []float64, i int, month int, trend int) []float64 {
	combined := append(append([]float64(nil), history...), forecasts[:i]...)

	row := make([]float64, numFeatures)
	for j := 1; j <= numLags; j++ {
		idx := len(combined) - j
		if idx >= 0 {
			row[j-1] = combined[idx]
		}
	}
	row[3] = float64(month)
	row[4] = float64((month-1)/3 + 1)
	row[5] = float64(trend)

	start := len(combined) - rollingWindow
	if start < 0 {
		start = 0
	}
	window := combined[start:]
	if len(window) > 0 {
		row[6] = stat.Mean(window, nil)
		row[7] = stat.PopStdDev(window, nil)
	}
	return row
}
