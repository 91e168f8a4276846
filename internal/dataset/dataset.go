package dataset

import (
	"sort"
	"time"

	"github.com/nhiennh/supply-chain-analytics/internal/domain"
)

// Dataset is the unified record set the analytics pipeline runs on.
type Dataset struct {
	Records []domain.OrderRecord
}

// CategoryCounts returns the number of records per product category.
// Records with an empty category are ignored.
func (d *Dataset) CategoryCounts() map[string]int {
	counts := make(map[string]int)
	for _, r := range d.Records {
		if r.Category == "" {
			continue
		}
		counts[r.Category]++
	}
	return counts
}

// Categories returns category names ordered by record count descending.
// Ties break alphabetically so the ordering is stable.
func (d *Dataset) Categories() []string {
	counts := d.CategoryCounts()
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	return names
}

// MonthlySeries builds the per-month order counts for one category, or for
// the whole dataset when category is empty. Months are returned sorted;
// calendar gaps are left to the caller to fill.
func (d *Dataset) MonthlySeries(category string) []domain.MonthlyPoint {
	counts := make(map[time.Time]float64)
	for _, r := range d.Records {
		if category != "" && r.Category != category {
			continue
		}
		if r.OrderMonth.IsZero() {
			continue
		}
		counts[r.OrderMonth]++
	}

	points := make([]domain.MonthlyPoint, 0, len(counts))
	for month, n := range counts {
		points = append(points, domain.MonthlyPoint{Month: month, Orders: n})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Month.Before(points[j].Month) })
	return points
}

// AvgLeadTimeByCategory returns the mean shipping duration in days per
// category. Records without a delivered timestamp do not contribute.
func (d *Dataset) AvgLeadTimeByCategory() map[string]float64 {
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, r := range d.Records {
		if r.Category == "" || r.ShippingDuration == nil {
			continue
		}
		sums[r.Category] += *r.ShippingDuration
		counts[r.Category]++
	}

	avgs := make(map[string]float64, len(sums))
	for category, sum := range sums {
		avgs[category] = sum / float64(counts[category])
	}
	return avgs
}

// MonthStart truncates t to the first day of its month in UTC.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}
