package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nhiennh/supply-chain-analytics/internal/cache"
	"github.com/nhiennh/supply-chain-analytics/internal/config"
	"github.com/nhiennh/supply-chain-analytics/internal/currency"
	"github.com/nhiennh/supply-chain-analytics/internal/dataset"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"github.com/nhiennh/supply-chain-analytics/internal/forecast"
)

// writeDataset generates a small but forecastable CSV dataset: months of
// order history for one category.
func writeDataset(t *testing.T, dir string, months int) {
	t.Helper()

	var orders, items strings.Builder
	orders.WriteString("order_id,customer_id,order_purchase_timestamp,order_estimated_delivery_date,order_delivered_timestamp\n")
	items.WriteString("order_id,product_id,seller_id,price,shipping_charges\n")

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	seq := 0
	for m := 0; m < months; m++ {
		count := 12 + (m%3)*4
		for i := 0; i < count; i++ {
			seq++
			id := fmt.Sprintf("o%05d", seq)
			purchase := start.AddDate(0, m, i%27)
			delivered := purchase.AddDate(0, 0, 8+i%10)
			estimated := purchase.AddDate(0, 0, 12)
			fmt.Fprintf(&orders, "%s,c%03d,%s,%s,%s\n",
				id, seq%50,
				purchase.Format("2006-01-02 15:04:05"),
				estimated.Format("2006-01-02 15:04:05"),
				delivered.Format("2006-01-02 15:04:05"))
			fmt.Fprintf(&items, "%s,p1,s%02d,%0.2f,%0.2f\n", id, i%5, 100.0, 10.0)
		}
	}

	files := map[string]string{
		dataset.CustomersFile:  "customer_id\nc001\n",
		dataset.OrdersFile:     orders.String(),
		dataset.OrderItemsFile: items.String(),
		dataset.ProductsFile:   "product_id,product_category_name\np1,toys\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
}

func newTestProvider(t *testing.T, dir string) *DatasetProvider {
	t.Helper()
	loader := dataset.NewLoader(dir, currency.NewConverter(5200), 0)
	return NewDatasetProvider(loader)
}

func TestDatasetProviderLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, 6)
	provider := newTestProvider(t, dir)

	first, err := provider.Dataset(context.Background())
	if err != nil {
		t.Fatalf("Dataset failed: %v", err)
	}
	second, err := provider.Dataset(context.Background())
	if err != nil {
		t.Fatalf("second Dataset failed: %v", err)
	}
	if first != second {
		t.Error("provider reloaded instead of reusing the cached dataset")
	}

	provider.Invalidate()
	third, err := provider.Dataset(context.Background())
	if err != nil {
		t.Fatalf("Dataset after invalidation failed: %v", err)
	}
	if first == third {
		t.Error("invalidation did not force a reload")
	}
}

func TestUploadServiceRejectsNonCSV(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(dir, newTestProvider(t, dir), cache.NewMemoryCache(), nil)

	_, err := svc.SaveCSV(context.Background(), "data.txt", strings.NewReader("x"))
	var dataErr *domain.DataError
	if !errors.As(err, &dataErr) {
		t.Fatalf("expected DataError for non-csv upload, got %v", err)
	}
}

func TestUploadServiceInvalidatesCaches(t *testing.T) {
	dir := t.TempDir()
	resultCache := cache.NewMemoryCache()
	ctx := context.Background()

	for _, prefix := range cache.Prefixes {
		if err := resultCache.Set(ctx, prefix+"stale", []byte("v"), time.Hour); err != nil {
			t.Fatalf("seed cache: %v", err)
		}
	}

	svc := NewUploadService(dir, newTestProvider(t, dir), resultCache, nil)
	uploaded, err := svc.SaveCSV(ctx, "df_Orders.csv", strings.NewReader("order_id\no1\n"))
	if err != nil {
		t.Fatalf("SaveCSV failed: %v", err)
	}
	if uploaded.Size == 0 {
		t.Error("uploaded file size not recorded")
	}
	if _, err := os.Stat(uploaded.Path); err != nil {
		t.Errorf("uploaded file not on disk: %v", err)
	}

	for _, prefix := range cache.Prefixes {
		if _, ok, _ := resultCache.Get(ctx, prefix+"stale"); ok {
			t.Errorf("prefix %s not invalidated by upload", prefix)
		}
	}
}

func TestForecastServiceCachesResults(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, 14)

	resultCache := cache.NewMemoryCache()
	cfg := config.ForecastConfig{
		Horizon:              6,
		MinCategoryRecords:   10,
		OutlierSigma:         3.0,
		MinMonthsAfterTrim:   5,
		AggregateDemandFloor: 100,
		WorkerCount:          2,
	}
	forecaster := forecast.NewForecaster(cfg, 26000)
	svc := NewForecastService(newTestProvider(t, dir), forecaster, resultCache, nil, time.Hour)

	ctx := context.Background()
	result, err := svc.Overall(ctx, false)
	if err != nil {
		t.Fatalf("Overall failed: %v", err)
	}
	if result.Status != domain.StatusSuccess {
		t.Fatalf("status = %q (%s), want success", result.Status, result.Message)
	}

	if _, ok, _ := resultCache.Get(ctx, cache.PrefixForecast+"overall"); !ok {
		t.Error("overall result not written to cache")
	}

	cachedResult, err := svc.Overall(ctx, false)
	if err != nil {
		t.Fatalf("cached Overall failed: %v", err)
	}
	if cachedResult.Status != domain.StatusSuccess || len(cachedResult.ForecastTable) != len(result.ForecastTable) {
		t.Error("cached result does not match the computed one")
	}
}

func TestForecastServiceAllFiltersFailures(t *testing.T) {
	dir := t.TempDir()
	writeDataset(t, dir, 14)

	cfg := config.ForecastConfig{
		Horizon:              6,
		MinCategoryRecords:   1000000, // every category is too thin
		OutlierSigma:         3.0,
		MinMonthsAfterTrim:   5,
		AggregateDemandFloor: 100,
		WorkerCount:          2,
	}
	forecaster := forecast.NewForecaster(cfg, 26000)
	svc := NewForecastService(newTestProvider(t, dir), forecaster, cache.NewMemoryCache(), nil, time.Hour)

	results, err := svc.All(context.Background(), 0, false)
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	for _, r := range results {
		if r.Status != domain.StatusSuccess {
			t.Errorf("non-success result leaked into All output: %+v", r)
		}
	}
}
