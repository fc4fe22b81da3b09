package utils

import (
	"cmp"
	"slices"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
	"gonum.org/v1/gonum/stat"
)

// gonum iterators walk maps, so everything that feeds a simulation decision
// goes through the sorted helpers below.

// SortedNodeIDs returns every node id of g in ascending order
func SortedNodeIDs(g graph.Graph) []int64 {
	return sortedIDs(g.Nodes())
}

// SortedNeighbors returns the ids adjacent to id in ascending order
func SortedNeighbors(g graph.Graph, id int64) []int64 {
	return sortedIDs(g.From(id))
}

func sortedIDs(nodes graph.Nodes) []int64 {
	ret := make([]int64, 0, nodes.Len())
	for nodes.Next() {
		ret = append(ret, nodes.Node().ID())
	}
	slices.Sort(ret)
	return ret
}

// SortedEdges lists each undirected edge once as {min, max}, sorted
func SortedEdges(g *simple.UndirectedGraph) [][2]int64 {
	edges := g.Edges()
	ret := make([][2]int64, 0, edges.Len())
	for edges.Next() {
		e := edges.Edge()
		u, v := e.From().ID(), e.To().ID()
		if u > v {
			u, v = v, u
		}
		ret = append(ret, [2]int64{u, v})
	}
	slices.SortFunc(ret, func(a, b [2]int64) int {
		if c := cmp.Compare(a[0], b[0]); c != 0 {
			return c
		}
		return cmp.Compare(a[1], b[1])
	})
	return ret
}

// MeanDegree returns the average node degree of g
func MeanDegree(g graph.Graph) float64 {
	ids := SortedNodeIDs(g)
	if len(ids) == 0 {
		return 0
	}
	degrees := make([]float64, len(ids))
	for i, id := range ids {
		degrees[i] = float64(g.From(id).Len())
	}
	return stat.Mean(degrees, nil)
}

// ReachableFrom returns, in ascending order, every node that shares a
// connected component with at least one of the seeds
func ReachableFrom(g graph.Undirected, seeds []int64) []int64 {
	seedSet := make(map[int64]bool, len(seeds))
	for _, s := range seeds {
		seedSet[s] = true
	}

	var ret []int64
	for _, component := range topo.ConnectedComponents(g) {
		hit := false
		for _, n := range component {
			if seedSet[n.ID()] {
				hit = true
				break
			}
		}
		if !hit {
			continue
		}
		for _, n := range component {
			ret = append(ret, n.ID())
		}
	}
	slices.Sort(ret)
	return ret
}

// Helper function to compare two graphs for equality
func CompareGraphs(g1, g2 *simple.UndirectedGraph) bool {
	return slices.Equal(SortedNodeIDs(g1), SortedNodeIDs(g2)) &&
		slices.Equal(SortedEdges(g1), SortedEdges(g2))
}
