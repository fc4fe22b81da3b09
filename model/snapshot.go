package model

const (
	KindGrid    = "grid"
	KindNetwork = "network"
)

// AgentView is the read-only rendering record of one agent.
// Grid agents fill X/Y and Wealth; network agents fill Node and State.
type AgentView struct {
	ID     int     `msgpack:"id"`
	X      int     `msgpack:"x"`
	Y      int     `msgpack:"y"`
	Node   int64   `msgpack:"node"`
	Wealth int     `msgpack:"wealth,omitempty"`
	State  string  `msgpack:"state,omitempty"`
	Color  string  `msgpack:"color"`
	Layer  int     `msgpack:"layer"`
	Radius float64 `msgpack:"r,omitempty"`
}

// EdgeView is the rendering record of one network edge
type EdgeView struct {
	Source int64  `msgpack:"source"`
	Target int64  `msgpack:"target"`
	Color  string `msgpack:"color"`
	Width  int    `msgpack:"width"`
}

// Snapshot is the state of a model between two steps
type Snapshot struct {
	Kind   string      `msgpack:"kind"`
	Step   int         `msgpack:"step"`
	Width  int         `msgpack:"width,omitempty"`
	Height int         `msgpack:"height,omitempty"`
	Agents []AgentView `msgpack:"agents"`
	Edges  []EdgeView  `msgpack:"edges,omitempty"`
}
