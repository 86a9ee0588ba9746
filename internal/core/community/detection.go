package community

// ComponentDetector reports connected components.
type ComponentDetector struct{}

func NewComponentDetector() Detector {
	return &ComponentDetector{}
}

func (d *ComponentDetector) Detect(g *Graph) [][]string {
	visited := make(map[string]bool, len(g.Nodes))
	var components [][]string

	for _, n := range g.Nodes {
		if visited[n] {
			continue
		}
		var component []string
		d.dfs(g, n, visited, &component)
		components = append(components, component)
	}

	// Singletons are not clusters.
	return g.ordered(components)
}

func (d *ComponentDetector) dfs(g *Graph, u string, visited map[string]bool, component *[]string) {
	visited[u] = true
	*component = append(*component, u)
	for v := range g.Neighbors(u) {
		if !visited[v] {
			d.dfs(g, v, visited, component)
		}
	}
}
