package segment

import (
	"sort"

	"github.com/nhiennh/supply-chain-analytics/internal/dataset"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"github.com/rs/zerolog/log"
)

const maxBottlenecks = 10

type supplierDeliveries struct {
	sellerID   string
	total      int
	late       int
	byCategory map[string]int
}

// DetectBottlenecks flags suppliers whose late-delivery rate exceeds the
// overall average. An order is late when its shipping duration exceeds
// the configured threshold. Only suppliers with enough orders qualify,
// and the ten worst by late percentage are returned.
func (a *Analyzer) DetectBottlenecks(ds *dataset.Dataset) []domain.Bottleneck {
	byID := make(map[string]*supplierDeliveries)
	totalOrders, totalLate := 0, 0

	for i := range ds.Records {
		r := &ds.Records[i]
		if r.SellerID == "" || r.ShippingDuration == nil {
			continue
		}
		s, ok := byID[r.SellerID]
		if !ok {
			s = &supplierDeliveries{sellerID: r.SellerID, byCategory: make(map[string]int)}
			byID[r.SellerID] = s
		}
		s.total++
		s.byCategory[r.Category]++
		totalOrders++
		if *r.ShippingDuration > a.cfg.LateThresholdDays {
			s.late++
			totalLate++
		}
	}

	if totalOrders == 0 {
		return []domain.Bottleneck{}
	}
	overallRate := float64(totalLate) / float64(totalOrders) * 100
	log.Debug().Float64("overall_late_rate", overallRate).Msg("bottleneck baseline computed")

	flagged := make([]domain.Bottleneck, 0)
	for _, s := range byID {
		if s.total < a.cfg.MinSupplierOrders {
			continue
		}
		latePct := float64(s.late) / float64(s.total) * 100
		if latePct <= overallRate {
			continue
		}
		flagged = append(flagged, domain.Bottleneck{
			SellerID:         s.sellerID,
			TotalOrders:      s.total,
			LateOrders:       s.late,
			LatePercentage:   latePct,
			DominantCategory: dominantCategory(s.byCategory),
			Severity:         severityFor(latePct),
		})
	}

	sort.Slice(flagged, func(i, j int) bool {
		if flagged[i].LatePercentage != flagged[j].LatePercentage {
			return flagged[i].LatePercentage > flagged[j].LatePercentage
		}
		return flagged[i].SellerID < flagged[j].SellerID
	})
	if len(flagged) > maxBottlenecks {
		flagged = flagged[:maxBottlenecks]
	}
	return flagged
}

func severityFor(latePct float64) string {
	switch {
	case latePct > 75:
		return "critical"
	case latePct > 50:
		return "high"
	case latePct > 25:
		return "medium"
	default:
		return "low"
	}
}

func dominantCategory(counts map[string]int) string {
	best, bestCount := "", -1
	for category, count := range counts {
		if count > bestCount || (count == bestCount && category < best) {
			best, bestCount = category, count
		}
	}
	return best
}
