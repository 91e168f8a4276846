package forecast

import (
	"fmt"
	"math"
	"time"

	"github.com/nhiennh/supply-chain-analytics/internal/config"
	"github.com/nhiennh/supply-chain-analytics/internal/dataset"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

const (
	ModelBoosted = "boosted"
	ModelARIMA   = "arima"

	chartTypeActual = "actual"
)

// Forecaster computes per-category and aggregate monthly demand
// forecasts. Failures never escape as panics or errors: every path
// produces a ForecastResult whose Status tells the caller whether the
// category is usable, so batch orchestration stays a plain loop.
type Forecaster struct {
	cfg                config.ForecastConfig
	unitHoldingCostVND float64
}

func NewForecaster(cfg config.ForecastConfig, unitHoldingCostVND float64) *Forecaster {
	return &Forecaster{cfg: cfg, unitHoldingCostVND: unitHoldingCostVND}
}

// Forecast runs the pipeline for one category, or for the aggregate
// series when category is empty.
func (f *Forecaster) Forecast(ds *dataset.Dataset, category string) *domain.ForecastResult {
	name := category
	if name == "" {
		name = domain.OverallCategory
	}

	if category != "" {
		records := ds.CategoryCounts()[category]
		if records < f.cfg.MinCategoryRecords {
			err := &domain.InsufficientDataError{Category: category, Records: records, Minimum: f.cfg.MinCategoryRecords}
			return errorResult(name, err.Error())
		}
	}

	floor := 0.0
	if category == "" {
		// The aggregate series feeds the inventory math downstream; a
		// degenerate near-zero forecast would distort it.
		floor = f.cfg.AggregateDemandFloor
	}

	result, err := f.forecastSeries(ds.MonthlySeries(category), name, category, floor)
	if err != nil {
		log.Warn().Err(err).Str("category", name).Msg("forecast failed")
		return errorResult(name, err.Error())
	}
	return result
}

func (f *Forecaster) forecastSeries(points []domain.MonthlyPoint, name, category string, floor float64) (*domain.ForecastResult, error) {
	series := BuildMonthly(points)
	if series.Len() < 4 {
		return nil, &domain.ModelFitError{
			Category: name,
			Model:    ModelARIMA,
			Err:      fmt.Errorf("only %d months of history", series.Len()),
		}
	}
	series = TrimOutliers(series, f.cfg.OutlierSigma, f.cfg.MinMonthsAfterTrim)

	x, y := BuildFeatures(series)

	boosted, err := FitGBT(x, y, DefaultGBTConfig())
	if err != nil {
		return nil, &domain.ModelFitError{Category: name, Model: ModelBoosted, Err: err}
	}
	fittedBoosted := make([]float64, len(y))
	for i := range x {
		fittedBoosted[i] = boosted.Predict(x[i])
	}

	arima, err := FitARIMA(series.Values)
	if err != nil {
		return nil, &domain.ModelFitError{Category: name, Model: ModelARIMA, Err: err}
	}
	fittedARIMA := arima.FittedValues()

	horizon := f.cfg.Horizon
	futureMonths := make([]time.Time, horizon)
	for i := range futureMonths {
		futureMonths[i] = series.LastMonth().AddDate(0, i+1, 0)
	}

	// Recursive multi-step forecast: each step's lag and rolling features
	// depend on the steps already predicted, so this is an accumulator
	// loop, not a vectorized pass.
	boostedForecast := make([]float64, 0, horizon)
	for i := 0; i < horizon; i++ {
		features := horizonFeatures(series.Values, boostedForecast, i, int(futureMonths[i].Month()), series.Len()+i)
		pred := boosted.Predict(features)
		boostedForecast = append(boostedForecast, math.Trunc(math.Max(floor, pred)))
	}

	arimaForecast := arima.Forecast(horizon)
	lastValue := series.Values[series.Len()-1]
	arimaInts := make([]int, horizon)
	for i, v := range arimaForecast {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			arimaInts[i] = int(lastValue)
			continue
		}
		arimaInts[i] = int(math.Max(0, v))
	}

	table := make([]domain.ForecastRow, horizon)
	for i := 0; i < horizon; i++ {
		table[i] = domain.ForecastRow{
			Month:   futureMonths[i].Format("2006-01"),
			Boosted: int(boostedForecast[i]),
			ARIMA:   arimaInts[i],
		}
	}

	chart := make([]domain.ChartPoint, 0, series.Len()+2*horizon)
	for i := range series.Values {
		chart = append(chart, domain.ChartPoint{
			Month:    series.Months[i].Format("2006-01"),
			Orders:   int(series.Values[i]),
			Type:     chartTypeActual,
			Category: category,
		})
	}
	for i := 0; i < horizon; i++ {
		chart = append(chart, domain.ChartPoint{
			Month:    futureMonths[i].Format("2006-01"),
			Orders:   int(boostedForecast[i]),
			Type:     ModelBoosted,
			Category: category,
		})
	}
	for i := 0; i < horizon; i++ {
		chart = append(chart, domain.ChartPoint{
			Month:    futureMonths[i].Format("2006-01"),
			Orders:   arimaInts[i],
			Type:     ModelARIMA,
			Category: category,
		})
	}

	result := &domain.ForecastResult{
		Category:      name,
		Status:        domain.StatusSuccess,
		ForecastTable: table,
		ChartData:     chart,
		Metrics: map[string]domain.ModelMetrics{
			ModelBoosted: fitMetrics(y, fittedBoosted),
			ModelARIMA:   fitMetrics(y[1:], fittedARIMA[1:]),
		},
	}

	if category != "" {
		// Category results carry a coarse inventory summary derived from
		// the peak of the boosted horizon.
		peak := 0
		for _, v := range boostedForecast {
			if int(v) > peak {
				peak = int(v)
			}
		}
		result.OptimalInventory = peak
		result.HoldingCost = float64(peak) * f.unitHoldingCostVND
	}

	return result, nil
}

// fitMetrics reports in-sample MAE/RMSE against fitted values. This is
// display-grade fit quality, not an out-of-sample accuracy claim.
func fitMetrics(actual, fitted []float64) domain.ModelMetrics {
	n := len(actual)
	if n == 0 || n != len(fitted) {
		return domain.ModelMetrics{}
	}

	var absSum, sqSum float64
	for i := range actual {
		diff := actual[i] - fitted[i]
		absSum += math.Abs(diff)
		sqSum += diff * diff
	}
	return domain.ModelMetrics{
		MAE:  round2(absSum / float64(n)),
		RMSE: round2(math.Sqrt(sqSum / float64(n))),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func errorResult(category, message string) *domain.ForecastResult {
	return &domain.ForecastResult{
		Category:      category,
		Status:        domain.StatusError,
		Message:       message,
		ForecastTable: []domain.ForecastRow{},
		ChartData:     []domain.ChartPoint{},
	}
}

// MeanBoosted returns the mean of the boosted predictions of a success
// result; the reorder engine treats it as expected monthly demand.
func MeanBoosted(result *domain.ForecastResult) float64 {
	if len(result.ForecastTable) == 0 {
		return 0
	}
	values := make([]float64, len(result.ForecastTable))
	for i, row := range result.ForecastTable {
		values[i] = float64(row.Boosted)
	}
	return stat.Mean(values, nil)
}
