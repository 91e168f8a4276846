package reorder

import (
	"fmt"
	"math"
	"sort"

	"github.com/nhiennh/supply-chain-analytics/internal/config"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"github.com/nhiennh/supply-chain-analytics/internal/forecast"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

// Engine derives per-category inventory policies from forecast output
// and historical lead times. All math is closed-form, so identical
// inputs always produce identical policies.
type Engine struct {
	cfg                config.ReorderConfig
	unitHoldingCostVND float64
}

func NewEngine(cfg config.ReorderConfig, unitHoldingCostVND float64) *Engine {
	return &Engine{cfg: cfg, unitHoldingCostVND: unitHoldingCostVND}
}

// ComputeStrategy builds a policy for every category present in both
// the forecast map and the lead-time map. Categories missing a usable
// forecast are skipped with a log entry, never an error.
func (e *Engine) ComputeStrategy(forecasts map[string]*domain.ForecastResult, leadTimes map[string]float64) []domain.ReorderPolicy {
	categories := make([]string, 0, len(leadTimes))
	for category := range leadTimes {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	policies := make([]domain.ReorderPolicy, 0, len(categories))
	for _, category := range categories {
		result, ok := forecasts[category]
		if !ok || result.Status != domain.StatusSuccess || len(result.ForecastTable) == 0 {
			log.Debug().Str("category", category).Msg("no usable forecast, skipping policy")
			continue
		}
		policies = append(policies, e.policyFor(category, result, leadTimes[category]))
	}
	return policies
}

func (e *Engine) policyFor(category string, result *domain.ForecastResult, leadTimeDays float64) domain.ReorderPolicy {
	predictions := make([]float64, len(result.ForecastTable))
	for i, row := range result.ForecastTable {
		predictions[i] = float64(row.Boosted)
	}

	avgDemand := forecast.MeanBoosted(result)
	demandStd := stat.StdDev(predictions, nil)
	if math.IsNaN(demandStd) {
		demandStd = 0
	}

	var safetyStock float64
	if leadTimeDays > 0 {
		safetyStock = math.Round(e.cfg.ServiceLevelZ * demandStd * math.Sqrt(leadTimeDays))
	} else {
		// Zero lead time means the data could not support the stockout
		// model, not that the category carries zero risk.
		log.Warn().Str("category", category).Msg("lead time unavailable, safety stock set to zero")
	}

	reorderPoint := math.Round(avgDemand*leadTimeDays + safetyStock)
	optimal := reorderPoint + safetyStock
	holdingCost := optimal * e.unitHoldingCostVND * leadTimeDays / 30

	return domain.ReorderPolicy{
		Category:          category,
		AvgLeadTimeDays:   math.Round(leadTimeDays*100) / 100,
		ForecastAvgDemand: int(math.Round(avgDemand)),
		DemandStd:         int(math.Round(demandStd)),
		SafetyStock:       int(safetyStock),
		ReorderPoint:      int(reorderPoint),
		OptimalInventory:  int(optimal),
		HoldingCost:       math.Round(holdingCost),
	}
}

// Annotate attaches a short optimization note to policies whose holding
// cost crosses the attention threshold.
func (e *Engine) Annotate(policies []domain.ReorderPolicy) []domain.ReorderPolicy {
	for i := range policies {
		if policies[i].HoldingCost > e.cfg.HoldingCostThreshold {
			policies[i].Note = fmt.Sprintf(
				"holding cost %.0f VND exceeds %.0f VND; consider reducing safety stock or negotiating lead time",
				policies[i].HoldingCost, e.cfg.HoldingCostThreshold)
		}
	}
	return policies
}
