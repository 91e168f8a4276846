package segment

import (
	"fmt"
	"math"
	"sort"

	"github.com/nhiennh/supply-chain-analytics/internal/config"
	"github.com/nhiennh/supply-chain-analytics/internal/dataset"
	"github.com/nhiennh/supply-chain-analytics/internal/domain"
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/stat"
)

// Analyzer segments suppliers by shipping behavior and cost profile.
// Clustering is fully deterministic (farthest-point seeding, stable
// ordering), so repeated runs over the same dataset agree.
type Analyzer struct {
	cfg             config.SegmentConfig
	cheapFreightVND float64
}

func NewAnalyzer(cfg config.SegmentConfig, cheapFreightVND float64) *Analyzer {
	return &Analyzer{cfg: cfg, cheapFreightVND: cheapFreightVND}
}

type supplierStats struct {
	sellerID      string
	totalOrders   int
	shippingSum   float64
	shippingCount int
	freightSum    float64
}

func (s supplierStats) avgShipping() float64 {
	if s.shippingCount == 0 {
		return 0
	}
	return s.shippingSum / float64(s.shippingCount)
}

func (s supplierStats) avgFreight() float64 {
	if s.totalOrders == 0 {
		return 0
	}
	return s.freightSum / float64(s.totalOrders)
}

// ClusterSuppliers aggregates per-supplier order count, average shipping
// duration and average freight cost, drops suppliers below the minimum
// order count, standardizes the three features and k-means clusters the
// rest. k shrinks to half the qualifying suppliers when there are fewer
// than 2k of them.
func (a *Analyzer) ClusterSuppliers(ds *dataset.Dataset) []domain.SupplierCluster {
	suppliers := a.qualifyingSuppliers(ds)
	if len(suppliers) == 0 {
		return []domain.SupplierCluster{}
	}

	k := a.cfg.Clusters
	if len(suppliers) < 2*k {
		k = len(suppliers) / 2
		if k < 1 {
			k = 1
		}
		log.Warn().
			Int("suppliers", len(suppliers)).
			Int("k", k).
			Msg("few qualifying suppliers, reducing cluster count")
	}

	features := make([][]float64, len(suppliers))
	for i, s := range suppliers {
		features[i] = []float64{float64(s.totalOrders), s.avgShipping(), s.avgFreight()}
	}
	standardized := standardize(features)

	assignments, centroids := kmeans(standardized, k)

	// Centroid means on the original scale drive the labels.
	labels := a.labelClusters(suppliers, assignments, len(centroids))

	out := make([]domain.SupplierCluster, len(suppliers))
	for i, s := range suppliers {
		out[i] = domain.SupplierCluster{
			SellerID:        s.sellerID,
			TotalOrders:     s.totalOrders,
			AvgShippingDays: math.Round(s.avgShipping()*100) / 100,
			AvgFreightCost:  math.Round(s.avgFreight()*100) / 100,
			ClusterID:       assignments[i],
			ClusterLabel:    labels[assignments[i]],
		}
	}
	return out
}

func (a *Analyzer) qualifyingSuppliers(ds *dataset.Dataset) []supplierStats {
	byID := make(map[string]*supplierStats)
	for i := range ds.Records {
		r := &ds.Records[i]
		if r.SellerID == "" {
			continue
		}
		s, ok := byID[r.SellerID]
		if !ok {
			s = &supplierStats{sellerID: r.SellerID}
			byID[r.SellerID] = s
		}
		s.totalOrders++
		s.freightSum += r.FreightVND
		if r.ShippingDuration != nil {
			s.shippingSum += *r.ShippingDuration
			s.shippingCount++
		}
	}

	suppliers := make([]supplierStats, 0, len(byID))
	for _, s := range byID {
		if s.totalOrders >= a.cfg.MinSupplierOrders {
			suppliers = append(suppliers, *s)
		}
	}
	sort.Slice(suppliers, func(i, j int) bool { return suppliers[i].sellerID < suppliers[j].sellerID })
	return suppliers
}

// labelClusters names each cluster by comparing its mean shipping
// duration and mean freight against the fixed thresholds.
func (a *Analyzer) labelClusters(suppliers []supplierStats, assignments []int, k int) []string {
	shippingSum := make([]float64, k)
	freightSum := make([]float64, k)
	counts := make([]int, k)
	for i, s := range suppliers {
		c := assignments[i]
		shippingSum[c] += s.avgShipping()
		freightSum[c] += s.avgFreight()
		counts[c]++
	}

	labels := make([]string, k)
	for c := 0; c < k; c++ {
		if counts[c] == 0 {
			labels[c] = "unclassified"
			continue
		}
		shipping := shippingSum[c] / float64(counts[c])
		freight := freightSum[c] / float64(counts[c])

		speed := "slow"
		if shipping <= a.cfg.FastShippingDays {
			speed = "fast"
		}
		cost := "expensive"
		if freight <= a.cheapFreightVND {
			cost = "cheap"
		}
		labels[c] = fmt.Sprintf("%s shipping, %s freight", speed, cost)
	}
	return labels
}

// standardize centers each feature column to zero mean and unit
// variance. Constant columns stay zero rather than dividing by zero.
func standardize(features [][]float64) [][]float64 {
	if len(features) == 0 {
		return features
	}
	dims := len(features[0])
	out := make([][]float64, len(features))
	for i := range out {
		out[i] = make([]float64, dims)
	}

	column := make([]float64, len(features))
	for d := 0; d < dims; d++ {
		for i := range features {
			column[i] = features[i][d]
		}
		mean := stat.Mean(column, nil)
		std := stat.PopStdDev(column, nil)
		for i := range features {
			if std > 0 {
				out[i][d] = (features[i][d] - mean) / std
			}
		}
	}
	return out
}

// kmeans is a deterministic Lloyd iteration. The first centroid is the
// first point; each further centroid is the point farthest from its
// nearest existing centroid. Ties break toward the lower index, so the
// seeding has no randomness at all.
func kmeans(points [][]float64, k int) (assignments []int, centroids [][]float64) {
	if k > len(points) {
		k = len(points)
	}

	centroids = make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), points[0]...))
	for len(centroids) < k {
		farthest, farthestDist := 0, -1.0
		for i, p := range points {
			d := nearestDist(p, centroids)
			if d > farthestDist {
				farthest, farthestDist = i, d
			}
		}
		centroids = append(centroids, append([]float64(nil), points[farthest]...))
	}

	assignments = make([]int, len(points))
	for iter := 0; iter < 100; iter++ {
		changed := false
		for i, p := range points {
			best := nearestCentroid(p, centroids)
			if best != assignments[i] {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		dims := len(points[0])
		sums := make([][]float64, len(centroids))
		counts := make([]int, len(centroids))
		for c := range sums {
			sums[c] = make([]float64, dims)
		}
		for i, p := range points {
			c := assignments[i]
			counts[c]++
			for d, v := range p {
				sums[c][d] += v
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			for d := range centroids[c] {
				centroids[c][d] = sums[c][d] / float64(counts[c])
			}
		}
	}
	return assignments, centroids
}

func nearestCentroid(p []float64, centroids [][]float64) int {
	best, bestDist := 0, math.Inf(1)
	for c, centroid := range centroids {
		if d := sqDist(p, centroid); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

func nearestDist(p []float64, centroids [][]float64) float64 {
	best := math.Inf(1)
	for _, centroid := range centroids {
		if d := sqDist(p, centroid); d < best {
			best = d
		}
	}
	return best
}

func sqDist(a, b []float64) float64 {
	var sum float64
	for i := range a {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum
}
