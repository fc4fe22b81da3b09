package model

import "agent-sim/utils"

// RandomActivation activates every agent once per step, in an order
// re-shuffled each step. Agent effects are visible immediately to agents
// activated later in the same step.
type RandomActivation struct {
	Steps int

	rng      *utils.RandomSource
	agents   []Agent
	ids      map[int]bool
	stepping bool
}

// NewRandomActivation creates a new random activation scheduler
func NewRandomActivation(rng *utils.RandomSource) *RandomActivation {
	return &RandomActivation{
		rng:    rng,
		agents: make([]Agent, 0),
		ids:    make(map[int]bool),
	}
}

// AddAgent adds an agent to the scheduler
func (ra *RandomActivation) AddAgent(agent Agent) {
	if ra.ids[agent.UniqueID()] {
		violate("agent %d registered twice", agent.UniqueID())
	}
	ra.ids[agent.UniqueID()] = true
	ra.agents = append(ra.agents, agent)
}

// Agents returns the population in insertion order
func (ra *RandomActivation) Agents() []Agent {
	return ra.agents
}

// Len returns the population size
func (ra *RandomActivation) Len() int {
	return len(ra.agents)
}

// Step activates all agents in random order
func (ra *RandomActivation) Step() {
	if ra.stepping {
		violate("scheduler step re-entered during step %d", ra.Steps)
	}
	ra.stepping = true
	defer func() { ra.stepping = false }()

	// the order is fixed before any agent acts
	order := make([]Agent, len(ra.agents))
	copy(order, ra.agents)
	ra.rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	activated := make(map[int]bool, len(order))
	for _, agent := range order {
		id := agent.UniqueID()
		if activated[id] {
			violate("agent %d activated twice in step %d", id, ra.Steps)
		}
		activated[id] = true
		agent.Step()
	}

	ra.Steps++
}
