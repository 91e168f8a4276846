package reorder

import (
	"testing"

	"github.com/nhiennh/supply-chain-analytics/internal/domain"
)

func costlyPolicy(category string, cost float64) domain.ReorderPolicy {
	return domain.ReorderPolicy{
		Category:        category,
		AvgLeadTimeDays: 10,
		SafetyStock:     100,
		ReorderPoint:    1000,
		HoldingCost:     cost,
	}
}

func TestRecommendationsThresholdAndTopN(t *testing.T) {
	engine := NewEngine(testReorderConfig(), 26000)

	policies := []domain.ReorderPolicy{
		costlyPolicy("a", 90000000),
		costlyPolicy("b", 80000000),
		costlyPolicy("c", 70000000),
		costlyPolicy("d", 65000000),
		costlyPolicy("e", 60000000),
		costlyPolicy("f", 55000000),
		costlyPolicy("below", 1000),
	}

	recs := engine.GenerateRecommendations(policies)
	if len(recs) != 5 {
		t.Fatalf("expected top 5 recommendations, got %d", len(recs))
	}
	if recs[0].Category != "a" || recs[4].Category != "e" {
		t.Errorf("recommendations not ordered by cost: %+v", recs)
	}
	for _, r := range recs {
		if r.Category == "below" {
			t.Error("policy below the cost threshold must not be recommended")
		}
	}
}

func TestRecommendationsPerturbation(t *testing.T) {
	engine := NewEngine(testReorderConfig(), 26000)
	recs := engine.GenerateRecommendations([]domain.ReorderPolicy{costlyPolicy("toys", 90000000)})
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}

	r := recs[0]
	if r.ProposedSafetyStock != 80 {
		t.Errorf("proposed safety stock = %d, want 100*0.8 = 80", r.ProposedSafetyStock)
	}
	if r.ProposedReorderPoint != 900 {
		t.Errorf("proposed reorder point = %d, want 1000*0.9 = 900", r.ProposedReorderPoint)
	}
	if r.ProposedHoldingCost >= r.CurrentHoldingCost {
		t.Errorf("proposed cost %v should undercut current %v", r.ProposedHoldingCost, r.CurrentHoldingCost)
	}
	if r.PotentialSaving != r.CurrentHoldingCost-r.ProposedHoldingCost {
		t.Errorf("saving = %v, want cost delta", r.PotentialSaving)
	}
}

func TestRecommendationsNeverNegative(t *testing.T) {
	engine := NewEngine(testReorderConfig(), 26000)
	recs := engine.GenerateRecommendations([]domain.ReorderPolicy{
		{Category: "zero", AvgLeadTimeDays: 5, SafetyStock: 0, ReorderPoint: 0, HoldingCost: 60000000},
	})
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	r := recs[0]
	if r.ProposedSafetyStock < 0 || r.ProposedReorderPoint < 0 {
		t.Errorf("negative proposal: %+v", r)
	}
	if r.PotentialSaving < 0 {
		t.Errorf("negative saving: %v", r.PotentialSaving)
	}
}
