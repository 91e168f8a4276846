package forecast

import (
	"errors"
	"sort"
)

// Gradient-boosted regression trees over the monthly feature table. The
// trainer is deliberately minimal: squared-error objective, greedy
// variance-reduction splits, no subsampling — which also makes every fit
// deterministic for a given input.

type GBTConfig struct {
	Trees           int
	LearningRate    float64
	MaxDepth        int
	MinSamplesSplit int
}

// DefaultGBTConfig mirrors the production regressor settings
// (100 estimators, learning rate 0.1, depth 3).
func DefaultGBTConfig() GBTConfig {
	return GBTConfig{
		Trees:           100,
		LearningRate:    0.1,
		MaxDepth:        3,
		MinSamplesSplit: 2,
	}
}

type GBTRegressor struct {
	cfg   GBTConfig
	base  float64
	trees []*treeNode
}

type treeNode struct {
	leaf      bool
	value     float64
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

// FitGBT trains a boosted ensemble on (x, y).
func FitGBT(x [][]float64, y []float64, cfg GBTConfig) (*GBTRegressor, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, errors.New("gbt: empty or mismatched training data")
	}

	model := &GBTRegressor{cfg: cfg, base: mean(y)}

	pred := make([]float64, len(y))
	for i := range pred {
		pred[i] = model.base
	}

	residuals := make([]float64, len(y))
	indices := make([]int, len(y))
	for i := range indices {
		indices[i] = i
	}

	for t := 0; t < cfg.Trees; t++ {
		for i := range y {
			residuals[i] = y[i] - pred[i]
		}
		tree := buildTree(x, residuals, indices, 0, cfg)
		model.trees = append(model.trees, tree)
		for i := range pred {
			pred[i] += cfg.LearningRate * tree.predict(x[i])
		}
	}
	return model, nil
}

// Predict evaluates the ensemble for one feature vector.
func (m *GBTRegressor) Predict(features []float64) float64 {
	out := m.base
	for _, tree := range m.trees {
		out += m.cfg.LearningRate * tree.predict(features)
	}
	return out
}

func (n *treeNode) predict(features []float64) float64 {
	for !n.leaf {
		if features[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.value
}

func buildTree(x [][]float64, target []float64, indices []int, depth int, cfg GBTConfig) *treeNode {
	if depth >= cfg.MaxDepth || len(indices) < cfg.MinSamplesSplit {
		return &treeNode{leaf: true, value: meanAt(target, indices)}
	}

	feature, threshold, ok := bestSplit(x, target, indices)
	if !ok {
		return &treeNode{leaf: true, value: meanAt(target, indices)}
	}

	var left, right []int
	for _, i := range indices {
		if x[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, value: meanAt(target, indices)}
	}

	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      buildTree(x, target, left, depth+1, cfg),
		right:     buildTree(x, target, right, depth+1, cfg),
	}
}

// bestSplit scans every feature for the threshold with the largest
// sum-of-squares reduction, using prefix sums over the sorted column.
func bestSplit(x [][]float64, target []float64, indices []int) (int, float64, bool) {
	n := len(indices)
	if n < 2 {
		return 0, 0, false
	}

	var total, totalSq float64
	for _, i := range indices {
		total += target[i]
		totalSq += target[i] * target[i]
	}
	parentSSE := totalSq - total*total/float64(n)

	bestGain := 1e-12
	bestFeature, bestThreshold := -1, 0.0

	sorted := make([]int, n)
	for f := 0; f < len(x[indices[0]]); f++ {
		copy(sorted, indices)
		sort.Slice(sorted, func(a, b int) bool { return x[sorted[a]][f] < x[sorted[b]][f] })

		var leftSum, leftSq float64
		for pos := 0; pos < n-1; pos++ {
			i := sorted[pos]
			leftSum += target[i]
			leftSq += target[i] * target[i]

			if x[sorted[pos]][f] == x[sorted[pos+1]][f] {
				continue
			}

			leftN := float64(pos + 1)
			rightN := float64(n - pos - 1)
			rightSum := total - leftSum
			rightSq := totalSq - leftSq

			sse := (leftSq - leftSum*leftSum/leftN) + (rightSq - rightSum*rightSum/rightN)
			gain := parentSSE - sse
			if gain > bestGain {
				bestGain = gain
				bestFeature = f
				bestThreshold = (x[sorted[pos]][f] + x[sorted[pos+1]][f]) / 2
			}
		}
	}

	if bestFeature < 0 {
		return 0, 0, false
	}
	return bestFeature, bestThreshold, true
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func meanAt(values []float64, indices []int) float64 {
	var sum float64
	for _, i := range indices {
		sum += values[i]
	}
	return sum / float64(len(indices))
}
