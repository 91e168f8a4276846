package eda

import (
	"math"
	"sort"

	"github.com/nhiennh/supply-chain-analytics/internal/dataset"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
)

const topN = 10

// Summarize builds the descriptive statistics shown on the analysis
// dashboard: order volume by month, category mix, delay rate and the
// seller and category cost profiles.
func Summarize(ds *dataset.Dataset) *domain.EDASummary {
	return &domain.EDASummary{
		OrdersByMonth:        OrdersByMonth(ds),
		TopCategories:        TopCategories(ds),
		DeliveryDelayRate:    DeliveryDelayRate(ds),
		AvgShippingBySeller:  AvgShippingBySeller(ds),
		AvgFreightByCategory: AvgFreightByCategory(ds),
	}
}

// OrdersByMonth counts distinct orders per calendar month.
func OrdersByMonth(ds *dataset.Dataset) []domain.MonthlyCount {
	type monthOrders struct {
		orders map[string]struct{}
	}
	byMonth := make(map[string]*monthOrders)
	for i := range ds.Records {
		r := &ds.Records[i]
		key := r.OrderMonth.Format("2006-01")
		m, ok := byMonth[key]
		if !ok {
			m = &monthOrders{orders: make(map[string]struct{})}
			byMonth[key] = m
		}
		m.orders[r.OrderID] = struct{}{}
	}

	out := make([]domain.MonthlyCount, 0, len(byMonth))
	for month, m := range byMonth {
		out = append(out, domain.MonthlyCount{Month: month, Count: len(m.orders)})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// TopCategories returns the ten largest categories by record count.
func TopCategories(ds *dataset.Dataset) []domain.NamedValue {
	counts := ds.CategoryCounts()
	out := make([]domain.NamedValue, 0, len(counts))
	for category, count := range counts {
		if category == "" {
			continue
		}
		out = append(out, domain.NamedValue{Name: category, Value: float64(count)})
	}
	return sortAndCap(out)
}

// DeliveryDelayRate is the percentage of delivered orders that arrived
// after their estimated date.
func DeliveryDelayRate(ds *dataset.Dataset) float64 {
	total, delayed := 0, 0
	for i := range ds.Records {
		r := &ds.Records[i]
		if r.DeliveryDelay == nil {
			continue
		}
		total++
		if *r.DeliveryDelay > 0 {
			delayed++
		}
	}
	if total == 0 {
		return 0
	}
	return math.Round(float64(delayed)/float64(total)*10000) / 100
}

// AvgShippingBySeller returns the ten slowest sellers by average
// shipping duration.
func AvgShippingBySeller(ds *dataset.Dataset) []domain.NamedValue {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := range ds.Records {
		r := &ds.Records[i]
		if r.SellerID == "" || r.ShippingDuration == nil {
			continue
		}
		sums[r.SellerID] += *r.ShippingDuration
		counts[r.SellerID]++
	}

	out := make([]domain.NamedValue, 0, len(sums))
	for seller, sum := range sums {
		out = append(out, domain.NamedValue{
			Name:  seller,
			Value: math.Round(sum/float64(counts[seller])*100) / 100,
		})
	}
	return sortAndCap(out)
}

// AvgFreightByCategory returns the ten costliest categories by average
// freight charge.
func AvgFreightByCategory(ds *dataset.Dataset) []domain.NamedValue {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for i := range ds.Records {
		r := &ds.Records[i]
		if r.Category == "" {
			continue
		}
		sums[r.Category] += r.FreightVND
		counts[r.Category]++
	}

	out := make([]domain.NamedValue, 0, len(sums))
	for category, sum := range sums {
		out = append(out, domain.NamedValue{
			Name:  category,
			Value: math.Round(sum/float64(counts[category])*100) / 100,
		})
	}
	return sortAndCap(out)
}

// sortAndCap orders descending by value (name ascending on ties) and
// truncates to the dashboard's ten entries.
func sortAndCap(values []domain.NamedValue) []domain.NamedValue {
	sort.Slice(values, func(i, j int) bool {
		if values[i].Value != values[j].Value {
			return values[i].Value > values[j].Value
		}
		return values[i].Name < values[j].Name
	})
	if len(values) > topN {
		values = values[:topN]
	}
	return values
}
