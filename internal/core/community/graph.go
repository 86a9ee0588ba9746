// Package community groups genes into interaction clusters.
package community

import (
	"slices"

	"github.com/agenthands/genescan/internal/core/model"
)

// Graph is an undirected, weighted gene interaction graph. Node order is
// kept so detector output is reproducible.
type Graph struct {
	Nodes []string
	index map[string]int
	adj   map[string]map[string]int // node -> neighbor -> weight
}

func NewGraph(nodes []string) *Graph {
	g := &Graph{
		Nodes: slices.Clone(nodes),
		index: make(map[string]int, len(nodes)),
		adj:   make(map[string]map[string]int, len(nodes)),
	}
	for i, n := range nodes {
		g.index[n] = i
		g.adj[n] = make(map[string]int)
	}
	return g
}

// Connect adds one unit of weight between a and b. Self loops and unknown
// nodes are ignored.
func (g *Graph) Connect(a, b string) {
	if a == b {
		return
	}
	if _, ok := g.adj[a]; !ok {
		return
	}
	if _, ok := g.adj[b]; !ok {
		return
	}
	g.adj[a][b]++
	g.adj[b][a]++
}

func (g *Graph) Neighbors(n string) map[string]int {
	return g.adj[n]
}

// FromRun builds the graph of reported partners; a pair reported from both
// sides gets weight 2.
func FromRun(result model.RunResult) *Graph {
	g := NewGraph(result.Genes())
	for _, rec := range result.Records {
		for _, p := range rec.Partners {
			g.Connect(rec.Gene, p)
		}
	}
	return g
}

// Detector partitions a graph into clusters of two or more genes.
type Detector interface {
	Detect(g *Graph) [][]string
}

// ordered sorts members by node order and clusters by their first member.
func (g *Graph) ordered(groups [][]string) [][]string {
	out := make([][]string, 0, len(groups))
	for _, grp := range groups {
		if len(grp) < 2 {
			continue
		}
		slices.SortFunc(grp, func(a, b string) int { return g.index[a] - g.index[b] })
		out = append(out, grp)
	}
	slices.SortFunc(out, func(a, b []string) int { return g.index[a[0]] - g.index[b[0]] })
	return out
}
