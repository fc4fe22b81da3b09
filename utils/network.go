package utils

import (
	"gonum.org/v1/gonum/graph/simple"
)

// EdgeProbability converts a target mean degree into the G(n, p) edge
// probability p = avgDegree / (n - 1), clamped to [0, 1].
func EdgeProbability(nodeCount int, avgDegree float64) float64 {
	if nodeCount < 2 || avgDegree <= 0 {
		return 0
	}
	p := avgDegree / float64(nodeCount-1)
	return min(p, 1)
}

// n, p graph
//
// Every unordered pair is visited once in ascending order so the same
// source yields the same graph.
func CreateRandomNetwork(nodeCount int, edgeProbability float64, rng *RandomSource) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()

	for i := range nodeCount {
		g.AddNode(simple.Node(i))
	}

	for i := range nodeCount {
		for j := i + 1; j < nodeCount; j++ {
			if rng.Float64() < edgeProbability {
				g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(j)))
			}
		}
	}

	return g
}

// CreateSmallWorldNetwork builds a Watts-Strogatz graph: a ring lattice where
// each node links to its k/2 nearest neighbours on either side, after which
// every clockwise lattice edge is rewired with probability rewireProbability.
func CreateSmallWorldNetwork(nodeCount int, k int, rewireProbability float64, rng *RandomSource) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()

	for i := range nodeCount {
		g.AddNode(simple.Node(i))
	}
	if nodeCount < 2 {
		return g
	}

	half := min(k/2, (nodeCount-1)/2)
	for i := range nodeCount {
		for j := 1; j <= half; j++ {
			right := (i + j) % nodeCount
			g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(right)))
		}
	}

	// random reconnect
	for j := 1; j <= half; j++ {
		for i := range nodeCount {
			if rng.Float64() >= rewireProbability {
				continue
			}
			// a saturated node has no free target
			if g.From(int64(i)).Len() >= nodeCount-1 {
				continue
			}

			oldTarget := (i + j) % nodeCount
			if !g.HasEdgeBetween(int64(i), int64(oldTarget)) {
				continue
			}

			// find new target
			var newTarget int
			for {
				newTarget = rng.Intn(nodeCount)
				if newTarget != i && !g.HasEdgeBetween(int64(i), int64(newTarget)) {
					break
				}
			}

			// rewire
			g.RemoveEdge(int64(i), int64(oldTarget))
			g.SetEdge(g.NewEdge(simple.Node(i), simple.Node(newTarget)))
		}
	}

	return g
}
