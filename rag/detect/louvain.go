package detect

import "sort"

const (
	louvainMaxIterations = 100
	louvainMinGain       = 1e-9
)

// weightedGraph is an undirected weighted graph over string node ids.
type weightedGraph struct {
	adj map[string]map[string]float64
}

func newWeightedGraph() *weightedGraph {
	return &weightedGraph{adj: map[string]map[string]float64{}}
}

func (g *weightedGraph) addNode(id string) {
	if _, ok := g.adj[id]; !ok {
		g.adj[id] = map[string]float64{}
	}
}

// addEdge accumulates weight on the undirected edge a-b. Self loops are
// ignored.
func (g *weightedGraph) addEdge(a, b string, w float64) {
	if a == b || w <= 0 {
		return
	}
	g.addNode(a)
	g.addNode(b)
	g.adj[a][b] += w
	g.adj[b][a] += w
}

func (g *weightedGraph) nodes() []string {
	ids := make([]string, 0, len(g.adj))
	for id := range g.adj {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// louvain runs modularity-maximizing local moves and returns the final
// node partition as sorted member groups, ordered by each group's lowest
// node id. Nodes are visited in sorted order and equal modularity gains
// resolve to the community holding the lowest node id, so the partition is
// deterministic for a given graph.
func louvain(g *weightedGraph) [][]string {
	nodeIDs := g.nodes()
	if len(nodeIDs) == 0 {
		return nil
	}

	nodeToComm := make(map[string]int, len(nodeIDs))
	commLowest := make(map[int]string, len(nodeIDs))
	for i, id := range nodeIDs {
		nodeToComm[id] = i
		commLowest[i] = id
	}

	var m float64
	degree := make(map[string]float64, len(nodeIDs))
	for _, id := range nodeIDs {
		for _, w := range g.adj[id] {
			degree[id] += w
			m += w
		}
	}
	m /= 2 // each edge counted from both ends

	if m == 0 {
		return groupByCommunity(nodeIDs, nodeToComm)
	}

	commDegree := make(map[int]float64, len(nodeIDs))
	for _, id := range nodeIDs {
		commDegree[nodeToComm[id]] += degree[id]
	}

	for iter := 0; iter < louvainMaxIterations; iter++ {
		improved := false

		for _, id := range nodeIDs {
			current := nodeToComm[id]
			ki := degree[id]

			// Weight from this node into each neighboring community.
			weightTo := map[int]float64{}
			for neighbor, w := range g.adj[id] {
				weightTo[nodeToComm[neighbor]] += w
			}

			bestComm := current
			bestGain := 0.0
			bestLowest := commLowest[current]
			for comm, wTo := range weightTo {
				if comm == current {
					continue
				}
				sumCurrent := commDegree[current] - ki
				sumTarget := commDegree[comm]
				gain := (wTo-weightTo[current])/m -
					ki*(sumTarget-sumCurrent)/(2*m*m)
				if gain < bestGain+louvainMinGain && gain > bestGain-louvainMinGain {
					// Equal gain, prefer the community with the lower id.
					if commLowest[comm] < bestLowest && gain > louvainMinGain {
						bestComm = comm
						bestLowest = commLowest[comm]
					}
					continue
				}
				if gain > bestGain {
					bestGain = gain
					bestComm = comm
					bestLowest = commLowest[comm]
				}
			}

			if bestComm != current && bestGain > louvainMinGain {
				commDegree[current] -= ki
				commDegree[bestComm] += ki
				nodeToComm[id] = bestComm
				if id < commLowest[bestComm] {
					commLowest[bestComm] = id
				}
				improved = true
			}
		}

		if !improved {
			break
		}
	}

	return groupByCommunity(nodeIDs, nodeToComm)
}

func groupByCommunity(nodeIDs []string, nodeToComm map[string]int) [][]string {
	byComm := map[int][]string{}
	for _, id := range nodeIDs {
		comm := nodeToComm[id]
		byComm[comm] = append(byComm[comm], id)
	}

	groups := make([][]string, 0, len(byComm))
	for _, members := range byComm {
		sort.Strings(members)
		groups = append(groups, members)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i][0] < groups[j][0] })
	return groups
}
