package model

import (
	"fmt"

	"agent-sim/utils"

	"gonum.org/v1/gonum/graph/simple"
)

// NetworkGrid places exactly one agent on each node of an undirected graph
type NetworkGrid struct {
	Graph    *simple.UndirectedGraph
	AgentMap map[int64]Agent
	nodeOf   map[int]int64
	nodes    []int64
}

// NewNetworkGrid creates a new network grid
func NewNetworkGrid(g *simple.UndirectedGraph) *NetworkGrid {
	return &NetworkGrid{
		Graph:    g,
		AgentMap: make(map[int64]Agent),
		nodeOf:   make(map[int]int64),
		nodes:    utils.SortedNodeIDs(g),
	}
}

// PlaceAgent binds an agent to an empty node
func (ng *NetworkGrid) PlaceAgent(agent Agent, nodeID int64) {
	if ng.Graph.Node(nodeID) == nil {
		violate("node %d is not in the graph", nodeID)
	}
	if prev, ok := ng.AgentMap[nodeID]; ok {
		violate("node %d already holds agent %d", nodeID, prev.UniqueID())
	}
	if prev, ok := ng.nodeOf[agent.UniqueID()]; ok {
		violate("agent %d already bound to node %d", agent.UniqueID(), prev)
	}
	ng.AgentMap[nodeID] = agent
	ng.nodeOf[agent.UniqueID()] = nodeID
}

// GetAgent returns the agent at the specified node
func (ng *NetworkGrid) GetAgent(nodeID int64) Agent {
	return ng.AgentMap[nodeID]
}

// NodeOf returns the node an agent is bound to
func (ng *NetworkGrid) NodeOf(agent Agent) (int64, bool) {
	n, ok := ng.nodeOf[agent.UniqueID()]
	return n, ok
}

// Nodes returns every node id in ascending order
func (ng *NetworkGrid) Nodes() []int64 {
	return ng.nodes
}

// GetNeighbors returns the nodes adjacent to nodeID in ascending order
func (ng *NetworkGrid) GetNeighbors(nodeID int64, includeCenter bool) []int64 {
	neighbors := utils.SortedNeighbors(ng.Graph, nodeID)
	if includeCenter {
		neighbors = append([]int64{nodeID}, neighbors...)
	}
	return neighbors
}

// GetNeighborAgents returns the agents on the nodes adjacent to nodeID
func (ng *NetworkGrid) GetNeighborAgents(nodeID int64) []Agent {
	neighbors := ng.GetNeighbors(nodeID, false)
	ret := make([]Agent, 0, len(neighbors))
	for _, n := range neighbors {
		if a, ok := ng.AgentMap[n]; ok {
			ret = append(ret, a)
		}
	}
	return ret
}

// Edges lists each edge once as {min, max}, sorted
func (ng *NetworkGrid) Edges() [][2]int64 {
	return utils.SortedEdges(ng.Graph)
}

// CheckBijection verifies every node holds one agent and every agent sits on
// one node
func (ng *NetworkGrid) CheckBijection() error {
	if len(ng.AgentMap) != len(ng.nodes) {
		return fmt.Errorf("%d agents bound to %d nodes", len(ng.AgentMap), len(ng.nodes))
	}
	if len(ng.nodeOf) != len(ng.AgentMap) {
		return fmt.Errorf("%d agents map onto %d nodes", len(ng.nodeOf), len(ng.AgentMap))
	}
	for _, n := range ng.nodes {
		a, ok := ng.AgentMap[n]
		if !ok {
			return fmt.Errorf("node %d holds no agent", n)
		}
		if back := ng.nodeOf[a.UniqueID()]; back != n {
			return fmt.Errorf("agent %d on node %d maps back to node %d", a.UniqueID(), n, back)
		}
	}
	return nil
}
