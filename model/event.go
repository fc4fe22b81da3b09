package model

// EventRecord describes one agent-level change within a step
type EventRecord struct {
	Type    string `msgpack:"type"`
	AgentID int    `msgpack:"agent_id"`
	Step    int    `msgpack:"step"`
	Body    any    `msgpack:"body"`
}

const (
	EventTransfer = "Transfer"
	EventInfect   = "Infect"
	EventRecover  = "Recover"
	EventResist   = "Resist"
	EventDie      = "Die"
)

// TransferEventBody records one unit of wealth changing hands
type TransferEventBody struct {
	From int `msgpack:"from"`
	To   int `msgpack:"to"`
}

// TransitionEventBody records an epidemic state change.
// Source is the infecting agent for Infect events, otherwise the agent itself.
type TransitionEventBody struct {
	Source int   `msgpack:"source"`
	Node   int64 `msgpack:"node"`
	From   State `msgpack:"from"`
	To     State `msgpack:"to"`
}

// EventLogger receives events as they happen. It must not mutate the model.
type EventLogger func(*EventRecord)
