package forecast

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/nhiennh/supply-chain-analytics/internal/config"
	"github.com/nhiennh/supply-chain-analytics/internal/dataset"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
)

func testForecastConfig() config.ForecastConfig {
	return config.ForecastConfig{
		Horizon:              6,
		MinCategoryRecords:   10,
		OutlierSigma:         3.0,
		MinMonthsAfterTrim:   5,
		AggregateDemandFloor: 100,
		WorkerCount:          2,
	}
}

// testDataset builds a dataset with ordersPerMonth records per month for
// the given category, spanning months beginning January 2023.
func testDataset(category string, months int, ordersPerMonth int) *dataset.Dataset {
	ds := &dataset.Dataset{}
	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	seq := 0
	for m := 0; m < months; m++ {
		// Varying volume so the models see a non-constant series.
		count := ordersPerMonth + (m%4)*3
		for i := 0; i < count; i++ {
			seq++
			purchase := start.AddDate(0, m, i%27)
			ds.Records = append(ds.Records, domain.OrderRecord{
				OrderID:           fmt.Sprintf("%s-%04d", category, seq),
				Category:          category,
				PurchaseTimestamp: purchase,
				OrderMonth:        dataset.MonthStart(purchase),
			})
		}
	}
	return ds
}

func TestForecastCategorySuccess(t *testing.T) {
	ds := testDataset("toys", 14, 20)
	f := NewForecaster(testForecastConfig(), 26000)

	result := f.Forecast(ds, "toys")
	if result.Status != domain.StatusSuccess {
		t.Fatalf("status = %q (%s), want success", result.Status, result.Message)
	}
	if len(result.ForecastTable) != 6 {
		t.Fatalf("forecast table has %d rows, want 6", len(result.ForecastTable))
	}
	for i, row := range result.ForecastTable {
		if row.Boosted < 0 || row.ARIMA < 0 {
			t.Errorf("row %d has negative prediction: %+v", i, row)
		}
	}
	if result.OptimalInventory <= 0 {
		t.Errorf("category result should carry optimal inventory, got %d", result.OptimalInventory)
	}
	if result.HoldingCost != float64(result.OptimalInventory)*26000 {
		t.Errorf("holding cost = %v, want optimal*unit cost", result.HoldingCost)
	}
	if _, ok := result.Metrics[ModelBoosted]; !ok {
		t.Error("missing boosted metrics")
	}
	if _, ok := result.Metrics[ModelARIMA]; !ok {
		t.Error("missing arima metrics")
	}
}

func TestForecastInsufficientRecords(t *testing.T) {
	ds := testDataset("books", 2, 3)
	f := NewForecaster(testForecastConfig(), 26000)

	result := f.Forecast(ds, "books")
	if result.Status != domain.StatusError {
		t.Fatalf("status = %q, want error for a thin category", result.Status)
	}
	if result.Message == "" {
		t.Error("error result should carry a message")
	}
	if len(result.ForecastTable) != 0 {
		t.Errorf("error result should have an empty table, got %d rows", len(result.ForecastTable))
	}
}

func TestForecastOverallAppliesFloor(t *testing.T) {
	// Tiny aggregate volume: every raw prediction sits far below the
	// floor, so the floor must show through.
	ds := testDataset("toys", 12, 2)
	f := NewForecaster(testForecastConfig(), 26000)

	result := f.Forecast(ds, "")
	if result.Status != domain.StatusSuccess {
		t.Fatalf("status = %q (%s), want success", result.Status, result.Message)
	}
	if result.Category != domain.OverallCategory {
		t.Errorf("category = %q, want %q", result.Category, domain.OverallCategory)
	}
	for i, row := range result.ForecastTable {
		if row.Boosted < 100 {
			t.Errorf("row %d boosted = %d, want >= aggregate floor 100", i, row.Boosted)
		}
	}
	if result.OptimalInventory != 0 {
		t.Errorf("aggregate result must not carry inventory fields, got %d", result.OptimalInventory)
	}
}

func TestForecastChartSeries(t *testing.T) {
	ds := testDataset("toys", 12, 15)
	f := NewForecaster(testForecastConfig(), 26000)

	result := f.Forecast(ds, "toys")
	if result.Status != domain.StatusSuccess {
		t.Fatalf("status = %q, want success", result.Status)
	}

	typeCounts := make(map[string]int)
	for _, p := range result.ChartData {
		typeCounts[p.Type]++
	}
	if typeCounts["actual"] == 0 {
		t.Error("chart data missing actual series")
	}
	if typeCounts[ModelBoosted] != 6 || typeCounts[ModelARIMA] != 6 {
		t.Errorf("chart forecast series = %v, want 6 of each model", typeCounts)
	}
}

func TestForecastAllPartialResults(t *testing.T) {
	ds := testDataset("toys", 14, 20)
	// A second category too thin to forecast.
	thin := testDataset("books", 2, 3)
	ds.Records = append(ds.Records, thin.Records...)

	f := NewForecaster(testForecastConfig(), 26000)
	batch, err := f.ForecastAll(context.Background(), ds, 0)
	if err != nil {
		t.Fatalf("ForecastAll failed: %v", err)
	}

	if batch.Overall == nil || batch.Overall.Status != domain.StatusSuccess {
		t.Fatal("overall forecast should succeed")
	}
	if got := batch.Categories["toys"]; got == nil || got.Status != domain.StatusSuccess {
		t.Error("toys should succeed")
	}
	if got := batch.Categories["books"]; got == nil || got.Status != domain.StatusError {
		t.Error("books should be an error entry, not missing")
	}
}

func TestForecastAllHonorsLimit(t *testing.T) {
	ds := testDataset("toys", 14, 20)
	other := testDataset("books", 14, 15)
	ds.Records = append(ds.Records, other.Records...)

	f := NewForecaster(testForecastConfig(), 26000)
	batch, err := f.ForecastAll(context.Background(), ds, 1)
	if err != nil {
		t.Fatalf("ForecastAll failed: %v", err)
	}
	if len(batch.Categories) != 1 {
		t.Fatalf("expected 1 category with limit=1, got %d", len(batch.Categories))
	}
	if _, ok := batch.Categories["toys"]; !ok {
		t.Error("limit should keep the largest category")
	}
}
