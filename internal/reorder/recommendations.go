package reorder

import (
	"math"
	"sort"

	"github.com/nhiennh/supply-chain-analytics/internal/domain"
)

const (
	safetyStockReduction  = 0.8
	reorderPointReduction = 0.9
)

// GenerateRecommendations evaluates a single fixed alternative policy
// (safety stock cut 20%, reorder point cut 10%) for the costliest
// categories. It is a perturbation heuristic, not a cost optimizer.
func (e *Engine) GenerateRecommendations(policies []domain.ReorderPolicy) []domain.Recommendation {
	costly := make([]domain.ReorderPolicy, 0, len(policies))
	for _, p := range policies {
		if p.HoldingCost > e.cfg.HoldingCostThreshold {
			costly = append(costly, p)
		}
	}

	sort.Slice(costly, func(i, j int) bool {
		if costly[i].HoldingCost != costly[j].HoldingCost {
			return costly[i].HoldingCost > costly[j].HoldingCost
		}
		return costly[i].Category < costly[j].Category
	})
	if len(costly) > e.cfg.TopRecommendations {
		costly = costly[:e.cfg.TopRecommendations]
	}

	recs := make([]domain.Recommendation, 0, len(costly))
	for _, p := range costly {
		proposedSS := math.Max(0, math.Round(float64(p.SafetyStock)*safetyStockReduction))
		proposedRP := math.Max(0, math.Round(float64(p.ReorderPoint)*reorderPointReduction))
		proposedOptimal := proposedRP + proposedSS
		proposedCost := proposedOptimal * e.unitHoldingCostVND * p.AvgLeadTimeDays / 30

		recs = append(recs, domain.Recommendation{
			Category:             p.Category,
			CurrentSafetyStock:   p.SafetyStock,
			ProposedSafetyStock:  int(proposedSS),
			CurrentReorderPoint:  p.ReorderPoint,
			ProposedReorderPoint: int(proposedRP),
			CurrentHoldingCost:   p.HoldingCost,
			ProposedHoldingCost:  math.Round(proposedCost),
			PotentialSaving:      math.Max(0, p.HoldingCost-math.Round(proposedCost)),
		})
	}
	return recs
}
