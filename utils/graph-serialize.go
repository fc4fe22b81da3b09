package utils

import (
	"os"

	"github.com/vmihailenco/msgpack/v5"
	"gonum.org/v1/gonum/graph/simple"
)

// NetworkXGraph mirrors networkx's adjacency_data layout so contact
// networks can be exchanged with Python tooling.
type NetworkXGraph struct {
	Adjacency map[int64]map[int64]any  `msgpack:"adjacency"`
	Directed  bool                     `msgpack:"directed"`
	Nodes     map[int64]map[string]any `msgpack:"nodes"`
	Graph     map[string]any           `msgpack:"graph"`
}

func SerializeGraph(g *simple.UndirectedGraph) *NetworkXGraph {
	nxGraph := &NetworkXGraph{
		Adjacency: make(map[int64]map[int64]any),
		Directed:  false,
		Nodes:     make(map[int64]map[string]any),
		Graph:     make(map[string]any),
	}

	// isolated nodes must survive the round trip
	for _, id := range SortedNodeIDs(g) {
		nxGraph.Nodes[id] = make(map[string]any)
		nxGraph.Adjacency[id] = make(map[int64]any)
	}

	// adjacency is symmetric for undirected graphs
	for _, e := range SortedEdges(g) {
		nxGraph.Adjacency[e[0]][e[1]] = map[string]any{}
		nxGraph.Adjacency[e[1]][e[0]] = map[string]any{}
	}

	nxGraph.Graph["name"] = "contact network"

	return nxGraph
}

func DeserializeGraph(nxGraph *NetworkXGraph) *simple.UndirectedGraph {
	g := simple.NewUndirectedGraph()

	// add nodes
	for nodeID := range nxGraph.Nodes {
		g.AddNode(simple.Node(nodeID))
	}

	// add nodes not in the list
	for nodeID := range nxGraph.Adjacency {
		if g.Node(nodeID) == nil {
			g.AddNode(simple.Node(nodeID))
		}
	}

	// add edges
	for fromID, targets := range nxGraph.Adjacency {
		for toID := range targets {
			if fromID == toID {
				continue
			}
			if g.Node(toID) == nil {
				g.AddNode(simple.Node(toID))
			}
			g.SetEdge(simple.Edge{
				F: simple.Node(fromID),
				T: simple.Node(toID),
			})
		}
	}

	return g
}

func SaveGraphToFile(g *simple.UndirectedGraph, filename string) error {
	nxGraph := SerializeGraph(g)

	data, err := msgpack.Marshal(nxGraph)
	if err != nil {
		return err
	}

	return os.WriteFile(filename, data, 0644)
}

func LoadGraphFromFile(filename string) (*simple.UndirectedGraph, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var nxGraph NetworkXGraph
	err = msgpack.Unmarshal(data, &nxGraph)
	if err != nil {
		return nil, err
	}

	return DeserializeGraph(&nxGraph), nil
}
