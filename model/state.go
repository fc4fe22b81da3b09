package model

import "fmt"

// State is the epidemic status of a VirusAgent
type State int

const (
	Susceptible State = iota
	Infected
	Resistant
	Dead
)

var stateNames = [...]string{
	Susceptible: "SUSCEPTIBLE",
	Infected:    "INFECTED",
	Resistant:   "RESISTANT",
	Dead:        "DEAD",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether no further transition can leave s
func (s State) Terminal() bool {
	return s == Resistant || s == Dead
}

// Color is the node colour used when rendering s
func (s State) Color() string {
	switch s {
	case Infected:
		return "#FF0000"
	case Susceptible:
		return "#008000"
	case Dead:
		return "#8B4500"
	}
	return "#808080"
}

// AllStates lists the states in declaration order
func AllStates() []State {
	return []State{Susceptible, Infected, Resistant, Dead}
}
