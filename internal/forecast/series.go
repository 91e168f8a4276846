package forecast

import (
	"time"

	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"gonum.org/v1/gonum/stat"
)

// Series is a monthly demand series with strict monthly cadence (one
// entry per calendar month between its first and last observation).
type Series struct {
	Months []time.Time
	Values []float64
}

func (s Series) Len() int { return len(s.Values) }

// LastMonth returns the final month of the series.
func (s Series) LastMonth() time.Time {
	return s.Months[len(s.Months)-1]
}

// BuildMonthly coerces observed monthly points to strict monthly cadence.
// Missing interior months are filled by linear interpolation between the
// surrounding observations; anything interpolation cannot determine
// becomes zero. Downstream lag features assume this contiguity, so gaps
// are never silently dropped.
func BuildMonthly(points []domain.MonthlyPoint) Series {
	if len(points) == 0 {
		return Series{}
	}

	observed := make(map[time.Time]float64, len(points))
	for _, p := range points {
		observed[p.Month] = p.Orders
	}

	first := points[0].Month
	last := points[len(points)-1].Month

	var s Series
	for month := first; !month.After(last); month = month.AddDate(0, 1, 0) {
		s.Months = append(s.Months, month)
		if v, ok := observed[month]; ok {
			s.Values = append(s.Values, v)
		} else {
			s.Values = append(s.Values, interpolateAt(month, points))
		}
	}
	return s
}

// interpolateAt linearly interpolates the value at month between the
// nearest observations on either side.
func interpolateAt(month time.Time, points []domain.MonthlyPoint) float64 {
	var prev, next *domain.MonthlyPoint
	for i := range points {
		p := points[i]
		if p.Month.Before(month) {
			prev = &points[i]
		} else if p.Month.After(month) {
			next = &points[i]
			break
		}
	}
	if prev == nil || next == nil {
		return 0
	}

	span := monthsBetween(prev.Month, next.Month)
	if span == 0 {
		return prev.Orders
	}
	offset := monthsBetween(prev.Month, month)
	return prev.Orders + (next.Orders-prev.Orders)*float64(offset)/float64(span)
}

func monthsBetween(a, b time.Time) int {
	return (b.Year()-a.Year())*12 + int(b.Month()) - int(a.Month())
}

// TrimOutliers removes months whose order count lies outside
// mean ± sigma·stddev, but only applies the trim when at least
// minRemaining months survive it. The training set is never shrunk below
// a usable size.
func TrimOutliers(s Series, sigma float64, minRemaining int) Series {
	if s.Len() < 3 {
		return s
	}

	mean := stat.Mean(s.Values, nil)
	std := stat.StdDev(s.Values, nil)
	lo := mean - sigma*std
	hi := mean + sigma*std

	var trimmed Series
	for i, v := range s.Values {
		if v > lo && v < hi {
			trimmed.Months = append(trimmed.Months, s.Months[i])
			trimmed.Values = append(trimmed.Values, v)
		}
	}
	if trimmed.Len() < minRemaining {
		return s
	}
	return trimmed
}
