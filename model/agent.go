package model

// Agent is anything the scheduler can activate. Implementations keep a
// back-reference to their model and read topology and randomness through it.
type Agent interface {
	UniqueID() int
	Step()
}

// BaseAgent carries the identity shared by every agent variant
type BaseAgent struct {
	ID int
}

// UniqueID returns the agent id, stable for the model's lifetime
func (a *BaseAgent) UniqueID() int {
	return a.ID
}
