package reorder

import (
	"reflect"
	"testing"

	"github.com/nhiennh/supply-chain-analytics/internal/config"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
)

func testReorderConfig() config.ReorderConfig {
	return config.ReorderConfig{
		ServiceLevelZ:        1.65,
		UnitHoldingCostBRL:   5,
		HoldingCostThreshold: 50000000,
		TopRecommendations:   5,
	}
}

// successResult builds a success forecast whose boosted horizon has the
// given predictions.
func successResult(category string, boosted ...int) *domain.ForecastResult {
	rows := make([]domain.ForecastRow, len(boosted))
	for i, v := range boosted {
		rows[i] = domain.ForecastRow{Month: "2025-01", Boosted: v, ARIMA: v}
	}
	return &domain.ForecastResult{
		Category:      category,
		Status:        domain.StatusSuccess,
		ForecastTable: rows,
	}
}

func TestComputeStrategyServiceLevelMath(t *testing.T) {
	// Mean 200, sample std 20, lead time 10 days:
	// safety stock = round(1.65 * 20 * sqrt(10)) = 104
	// reorder point = round(200*10 + 104) = 2104
	forecasts := map[string]*domain.ForecastResult{
		"toys": successResult("toys", 180, 200, 220),
	}
	leadTimes := map[string]float64{"toys": 10}

	engine := NewEngine(testReorderConfig(), 26000)
	policies := engine.ComputeStrategy(forecasts, leadTimes)
	if len(policies) != 1 {
		t.Fatalf("expected 1 policy, got %d", len(policies))
	}

	p := policies[0]
	if p.SafetyStock != 104 {
		t.Errorf("safety stock = %d, want 104", p.SafetyStock)
	}
	if p.ReorderPoint != 2104 {
		t.Errorf("reorder point = %d, want 2104", p.ReorderPoint)
	}
	if p.OptimalInventory != 2208 {
		t.Errorf("optimal inventory = %d, want 2208", p.OptimalInventory)
	}
	wantCost := 2208.0 * 26000 * 10 / 30
	if p.HoldingCost < wantCost-1 || p.HoldingCost > wantCost+1 {
		t.Errorf("holding cost = %v, want ~%v", p.HoldingCost, wantCost)
	}
}

func TestComputeStrategyZeroLeadTime(t *testing.T) {
	forecasts := map[string]*domain.ForecastResult{
		"toys": successResult("toys", 180, 200, 220),
	}
	leadTimes := map[string]float64{"toys": 0}

	engine := NewEngine(testReorderConfig(), 26000)
	policies := engine.ComputeStrategy(forecasts, leadTimes)
	if len(policies) != 1 {
		t.Fatalf("expected 1 policy, got %d", len(policies))
	}
	if policies[0].SafetyStock != 0 {
		t.Errorf("safety stock = %d, want 0 with no lead time", policies[0].SafetyStock)
	}
	if policies[0].ReorderPoint != 0 {
		t.Errorf("reorder point = %d, want 0 with no lead time", policies[0].ReorderPoint)
	}
}

func TestComputeStrategySkipsMissingForecasts(t *testing.T) {
	forecasts := map[string]*domain.ForecastResult{
		"toys": successResult("toys", 100, 110, 120),
		"books": {
			Category: "books",
			Status:   domain.StatusError,
			Message:  "too thin",
		},
	}
	leadTimes := map[string]float64{"toys": 7, "books": 9, "garden": 12}

	engine := NewEngine(testReorderConfig(), 26000)
	policies := engine.ComputeStrategy(forecasts, leadTimes)
	if len(policies) != 1 || policies[0].Category != "toys" {
		t.Fatalf("expected only toys, got %+v", policies)
	}
}

func TestComputeStrategyIdempotent(t *testing.T) {
	forecasts := map[string]*domain.ForecastResult{
		"toys":  successResult("toys", 150, 170, 140, 180, 160, 175),
		"books": successResult("books", 40, 55, 48, 60, 52, 45),
	}
	leadTimes := map[string]float64{"toys": 11.5, "books": 19.2}

	engine := NewEngine(testReorderConfig(), 26000)
	first := engine.ComputeStrategy(forecasts, leadTimes)
	second := engine.ComputeStrategy(forecasts, leadTimes)
	if !reflect.DeepEqual(first, second) {
		t.Error("identical inputs produced different policies")
	}
}

func TestComputeStrategyMonotoneInLeadTime(t *testing.T) {
	forecasts := map[string]*domain.ForecastResult{
		"toys": successResult("toys", 180, 200, 220),
	}

	engine := NewEngine(testReorderConfig(), 26000)
	var prevRP int
	var prevCost float64
	for _, lt := range []float64{1, 5, 10, 20, 40} {
		policies := engine.ComputeStrategy(forecasts, map[string]float64{"toys": lt})
		p := policies[0]
		if p.ReorderPoint < prevRP {
			t.Errorf("reorder point decreased at lead time %v: %d < %d", lt, p.ReorderPoint, prevRP)
		}
		if p.HoldingCost < prevCost {
			t.Errorf("holding cost decreased at lead time %v: %v < %v", lt, p.HoldingCost, prevCost)
		}
		prevRP, prevCost = p.ReorderPoint, p.HoldingCost
	}
}

func TestAnnotateMarksCostlyPolicies(t *testing.T) {
	engine := NewEngine(testReorderConfig(), 26000)
	policies := []domain.ReorderPolicy{
		{Category: "cheap", HoldingCost: 1000},
		{Category: "costly", HoldingCost: 60000000},
	}

	annotated := engine.Annotate(policies)
	if annotated[0].Note != "" {
		t.Errorf("cheap policy should have no note, got %q", annotated[0].Note)
	}
	if annotated[1].Note == "" {
		t.Error("costly policy should carry an optimization note")
	}
}
