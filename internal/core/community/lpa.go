package community

import (
	"sort"
)

// LabelPropagationDetector splits loosely bridged groups that a plain
// connected-components pass would merge.
type LabelPropagationDetector struct {
	MaxIterations int
}

func NewLabelPropagationDetector() *LabelPropagationDetector {
	return &LabelPropagationDetector{
		MaxIterations: 20,
	}
}

func (d *LabelPropagationDetector) Detect(g *Graph) [][]string {
	if len(g.Nodes) == 0 {
		return nil
	}

	// Each gene starts in its own cluster.
	labels := make(map[string]string, len(g.Nodes))
	for _, n := range g.Nodes {
		labels[n] = n
	}

	for iter := 0; iter < d.MaxIterations; iter++ {
		changeCount := 0

		for _, u := range g.Nodes {
			neighbors := g.Neighbors(u)
			if len(neighbors) == 0 {
				continue
			}

			labelCounts := make(map[string]int)
			maxCount := 0
			for v, weight := range neighbors {
				label := labels[v]
				labelCounts[label] += weight
				if labelCounts[label] > maxCount {
					maxCount = labelCounts[label]
				}
			}

			var candidates []string
			for label, count := range labelCounts {
				if count == maxCount {
					candidates = append(candidates, label)
				}
			}
			// Lexicographically largest wins ties.
			sort.Strings(candidates)
			bestLabel := candidates[len(candidates)-1]

			if labels[u] != bestLabel {
				labels[u] = bestLabel
				changeCount++
			}
		}

		if changeCount == 0 {
			break
		}
	}

	clusters := make(map[string][]string)
	var order []string
	for _, n := range g.Nodes {
		label := labels[n]
		if _, seen := clusters[label]; !seen {
			order = append(order, label)
		}
		clusters[label] = append(clusters[label], n)
	}

	groups := make([][]string, 0, len(order))
	for _, label := range order {
		groups = append(groups, clusters[label])
	}
	return g.ordered(groups)
}
