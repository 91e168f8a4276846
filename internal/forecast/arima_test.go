package forecast

import (
	"math"
	"testing"
)

func TestFitARIMARejectsShortSeries(t *testing.T) {
	if _, err := FitARIMA([]float64{1, 2, 3}); err == nil {
		t.Fatal("expected error for series shorter than 4")
	}
}

func TestARIMAFittedValuesShape(t *testing.T) {
	series := []float64{100, 110, 105, 120, 115, 130, 125, 140}
	model, err := FitARIMA(series)
	if err != nil {
		t.Fatalf("FitARIMA failed: %v", err)
	}

	fitted := model.FittedValues()
	if len(fitted) != len(series) {
		t.Fatalf("fitted length = %d, want %d", len(fitted), len(series))
	}
	if fitted[0] != series[0] {
		t.Errorf("fitted[0] = %v, pinned to first observation %v", fitted[0], series[0])
	}
	for i, v := range fitted {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("fitted[%d] = %v", i, v)
		}
	}
}

func TestARIMAForecastFollowsTrend(t *testing.T) {
	// Steady +10 drift; the forecast should keep climbing.
	series := []float64{100, 110, 120, 130, 140, 150, 160, 170, 180, 190}
	model, err := FitARIMA(series)
	if err != nil {
		t.Fatalf("FitARIMA failed: %v", err)
	}

	forecast := model.Forecast(6)
	if len(forecast) != 6 {
		t.Fatalf("forecast length = %d, want 6", len(forecast))
	}
	if forecast[0] <= 190 {
		t.Errorf("forecast[0] = %v, want above the last observation", forecast[0])
	}
	for i := 1; i < len(forecast); i++ {
		if forecast[i] <= forecast[i-1] {
			t.Errorf("forecast not increasing at step %d: %v", i, forecast)
			break
		}
	}
}

func TestARIMAForecastIsFinite(t *testing.T) {
	series := []float64{50, 48, 55, 60, 52, 58, 61, 57, 63, 59, 62, 65}
	model, err := FitARIMA(series)
	if err != nil {
		t.Fatalf("FitARIMA failed: %v", err)
	}
	for i, v := range model.Forecast(6) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("forecast[%d] = %v", i, v)
		}
	}
}
