package model

import (
	"math"

	"agent-sim/utils"

	"gonum.org/v1/gonum/graph/simple"
)

const (
	NetworkRandom     = "random"
	NetworkSmallWorld = "small_world"
)

// VirusModelParams configures the epidemic-on-a-network model
type VirusModelParams struct {
	NumNodes                 int     `yaml:"num_nodes"`
	AvgNodeDegree            float64 `yaml:"avg_node_degree"`
	InitialOutbreakSize      int     `yaml:"initial_outbreak_size"`
	VirusSpreadChance        float64 `yaml:"virus_spread_chance"`
	VirusCheckFrequency      float64 `yaml:"virus_check_frequency"`
	RecoveryChance           float64 `yaml:"recovery_chance"`
	GainResistanceChance     float64 `yaml:"gain_resistance_chance"`
	DeathRate                float64 `yaml:"death_rate"`
	DoubleVaccinesRate       float64 `yaml:"double_vaccines_rate"`
	DoubleVaccinesEfficiency float64 `yaml:"double_vaccines_efficiency"`
	NetworkType              string  `yaml:"network_type"`
	RewireProbability        float64 `yaml:"rewire_probability"`
}

// DefaultVirusModelParams creates a new parameters struct with default values
func DefaultVirusModelParams() *VirusModelParams {
	return &VirusModelParams{
		NumNodes:                 1000,
		AvgNodeDegree:            5,
		InitialOutbreakSize:      1,
		VirusSpreadChance:        0.9,
		VirusCheckFrequency:      0.1,
		RecoveryChance:           0.6,
		GainResistanceChance:     0.2,
		DeathRate:                0.1,
		DoubleVaccinesRate:       0.5,
		DoubleVaccinesEfficiency: 0.6,
		NetworkType:              NetworkRandom,
		RewireProbability:        0.1,
	}
}

// ToMap converts the parameters to a map
func (p *VirusModelParams) ToMap() map[string]any {
	return map[string]any{
		"num_nodes":                  p.NumNodes,
		"avg_node_degree":            p.AvgNodeDegree,
		"initial_outbreak_size":      p.InitialOutbreakSize,
		"virus_spread_chance":        p.VirusSpreadChance,
		"virus_check_frequency":      p.VirusCheckFrequency,
		"recovery_chance":            p.RecoveryChance,
		"gain_resistance_chance":     p.GainResistanceChance,
		"death_rate":                 p.DeathRate,
		"double_vaccines_rate":       p.DoubleVaccinesRate,
		"double_vaccines_efficiency": p.DoubleVaccinesEfficiency,
		"network_type":               p.NetworkType,
		"rewire_probability":         p.RewireProbability,
	}
}

// Validate rejects parameters outside their domain
func (p *VirusModelParams) Validate() error {
	if p.NumNodes < 1 {
		return &ConfigurationError{Field: "num_nodes", Value: p.NumNodes, Reason: "must be at least 1"}
	}
	if p.AvgNodeDegree < 0 || math.IsNaN(p.AvgNodeDegree) {
		return &ConfigurationError{Field: "avg_node_degree", Value: p.AvgNodeDegree, Reason: "must not be negative"}
	}
	if p.InitialOutbreakSize < 0 || p.InitialOutbreakSize > p.NumNodes {
		return &ConfigurationError{Field: "initial_outbreak_size", Value: p.InitialOutbreakSize, Reason: "must be within [0, num_nodes]"}
	}
	switch p.NetworkType {
	case "", NetworkRandom, NetworkSmallWorld:
	default:
		return &ConfigurationError{Field: "network_type", Value: p.NetworkType, Reason: "must be random or small_world"}
	}

	probabilities := []struct {
		field string
		value float64
	}{
		{"virus_spread_chance", p.VirusSpreadChance},
		{"virus_check_frequency", p.VirusCheckFrequency},
		{"recovery_chance", p.RecoveryChance},
		{"gain_resistance_chance", p.GainResistanceChance},
		{"death_rate", p.DeathRate},
		{"double_vaccines_rate", p.DoubleVaccinesRate},
		{"double_vaccines_efficiency", p.DoubleVaccinesEfficiency},
		{"rewire_probability", p.RewireProbability},
	}
	for _, prob := range probabilities {
		if err := checkProbability(prob.field, prob.value); err != nil {
			return err
		}
	}
	return nil
}

// BuildNetwork generates the contact graph described by the parameters
func (p *VirusModelParams) BuildNetwork(rng *utils.RandomSource) *simple.UndirectedGraph {
	if p.NetworkType == NetworkSmallWorld {
		return utils.CreateSmallWorldNetwork(p.NumNodes, int(math.Round(p.AvgNodeDegree)), p.RewireProbability, rng)
	}
	return utils.CreateRandomNetwork(p.NumNodes, utils.EdgeProbability(p.NumNodes, p.AvgNodeDegree), rng)
}

// VirusAgent is a person on a contact network
type VirusAgent struct {
	BaseAgent
	Model *VirusModel
	Node  int64
	State State
}

// Step lets an infected agent spread the virus to its susceptible
// neighbours and then, occasionally, check whether it dies or recovers.
// Agents in any other state do nothing.
func (a *VirusAgent) Step() {
	if a.State != Infected {
		return
	}
	a.tryToInfectNeighbors()
	a.tryCheckSituation()
}

func (a *VirusAgent) tryToInfectNeighbors() {
	m := a.Model
	for _, n := range m.Grid.GetNeighborAgents(a.Node) {
		neighbor := n.(*VirusAgent)
		if neighbor.State != Susceptible {
			continue
		}
		if m.RNG.Chance(m.Params.VirusSpreadChance) {
			neighbor.transition(Infected, EventInfect, a.ID)
		}
	}
}

// death is evaluated before recovery
func (a *VirusAgent) tryCheckSituation() {
	m := a.Model
	if !m.RNG.Chance(m.Params.VirusCheckFrequency) {
		return
	}

	if m.RNG.Chance(m.Params.DeathRate) {
		a.transition(Dead, EventDie, a.ID)
		return
	}

	if m.RNG.Chance(m.Params.RecoveryChance) {
		a.tryRemoveInfection()
	}
}

func (a *VirusAgent) tryRemoveInfection() {
	if a.Model.RNG.Chance(a.Model.Params.GainResistanceChance) {
		a.transition(Resistant, EventResist, a.ID)
	} else {
		a.transition(Susceptible, EventRecover, a.ID)
	}
}

func (a *VirusAgent) transition(to State, eventType string, source int) {
	from := a.State
	if from.Terminal() {
		violate("agent %d left terminal state %s", a.ID, from)
	}
	a.State = to
	a.Model.logEvent(eventType, a.ID, TransitionEventBody{
		Source: source,
		Node:   a.Node,
		From:   from,
		To:     to,
	})
}

// VirusModel spreads a virus over a contact network with one agent per node
type VirusModel struct {
	Params      *VirusModelParams
	Graph       *simple.UndirectedGraph
	Grid        *NetworkGrid
	Schedule    *RandomActivation
	RNG         *utils.RandomSource
	Running     bool
	EventLogger EventLogger

	agents []*VirusAgent
}

// NewVirusModel builds the contact network and population from params
func NewVirusModel(params *VirusModelParams, seed int64, eventLogger EventLogger) (*VirusModel, error) {
	// Use default params if none provided
	if params == nil {
		params = DefaultVirusModelParams()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rng := utils.NewRandomSource(seed)
	return newVirusModel(params.BuildNetwork(rng), params, rng, eventLogger), nil
}

// NewVirusModelFromGraph populates an existing contact network. NumNodes is
// taken from the graph.
func NewVirusModelFromGraph(g *simple.UndirectedGraph, params *VirusModelParams, seed int64, eventLogger EventLogger) (*VirusModel, error) {
	if params == nil {
		params = DefaultVirusModelParams()
	}
	p := *params
	p.NumNodes = g.Nodes().Len()
	if err := p.Validate(); err != nil {
		return nil, err
	}

	return newVirusModel(g, &p, utils.NewRandomSource(seed), eventLogger), nil
}

func newVirusModel(g *simple.UndirectedGraph, params *VirusModelParams, rng *utils.RandomSource, eventLogger EventLogger) *VirusModel {
	m := &VirusModel{
		Params:      params,
		Graph:       g,
		Grid:        NewNetworkGrid(g),
		Schedule:    NewRandomActivation(rng),
		RNG:         rng,
		Running:     true,
		EventLogger: eventLogger,
	}

	// one agent per node, in node order
	for i, node := range m.Grid.Nodes() {
		a := &VirusAgent{BaseAgent: BaseAgent{ID: i}, Model: m, Node: node, State: Susceptible}
		m.Grid.PlaceAgent(a, node)
		m.Schedule.AddAgent(a)
		m.agents = append(m.agents, a)
	}

	// two doses make a share of the vaccinated immune before the outbreak
	if params.DoubleVaccinesRate > 0 {
		for _, a := range m.agents {
			if rng.Chance(params.DoubleVaccinesRate) && rng.Chance(params.DoubleVaccinesEfficiency) {
				a.State = Resistant
			}
		}
	}

	// seed the outbreak among the susceptible
	susceptible := make([]*VirusAgent, 0, len(m.agents))
	for _, a := range m.agents {
		if a.State == Susceptible {
			susceptible = append(susceptible, a)
		}
	}
	for _, i := range rng.Sample(len(susceptible), params.InitialOutbreakSize) {
		susceptible[i].State = Infected
	}

	return m
}

func (m *VirusModel) logEvent(eventType string, agentID int, body any) {
	if m.EventLogger == nil {
		return
	}
	m.EventLogger(&EventRecord{
		Type:    eventType,
		AgentID: agentID,
		Step:    m.Schedule.Steps,
		Body:    body,
	})
}

// Step advances the model by one time step
func (m *VirusModel) Step() {
	m.Schedule.Step()
}

func (m *VirusModel) StepCount() int          { return m.Schedule.Steps }
func (m *VirusModel) IsRunning() bool         { return m.Running }
func (m *VirusModel) SetRunning(running bool) { m.Running = running }

// Agents returns the population in id order
func (m *VirusModel) Agents() []*VirusAgent {
	return m.agents
}

// AgentAt returns the agent bound to node
func (m *VirusModel) AgentAt(node int64) *VirusAgent {
	a, _ := m.Grid.GetAgent(node).(*VirusAgent)
	return a
}

// CountStates tallies agents per state
func (m *VirusModel) CountStates() map[State]int {
	counts := make(map[State]int, 4)
	for _, s := range AllStates() {
		counts[s] = 0
	}
	for _, a := range m.agents {
		counts[a.State]++
	}
	return counts
}

// NumberInfected counts the currently infected agents
func (m *VirusModel) NumberInfected() int {
	return m.CountStates()[Infected]
}

// NodesInState returns, in ascending order, the nodes whose agent is in s
func (m *VirusModel) NodesInState(s State) []int64 {
	var ret []int64
	for _, a := range m.agents {
		if a.State == s {
			ret = append(ret, a.Node)
		}
	}
	return ret
}

// ResistantSusceptibleRatio is resistant/susceptible, +Inf when nobody is
// susceptible
func (m *VirusModel) ResistantSusceptibleRatio() float64 {
	counts := m.CountStates()
	if counts[Susceptible] == 0 {
		return math.Inf(1)
	}
	return float64(counts[Resistant]) / float64(counts[Susceptible])
}

// Metrics reports state counts after the last step
func (m *VirusModel) Metrics() Metrics {
	counts := m.CountStates()
	return Metrics{
		"susceptible":                 float64(counts[Susceptible]),
		"infected":                    float64(counts[Infected]),
		"resistant":                   float64(counts[Resistant]),
		"dead":                        float64(counts[Dead]),
		"resistant_susceptible_ratio": m.ResistantSusceptibleRatio(),
	}
}

// Snapshot captures node states and the edge list
func (m *VirusModel) Snapshot() *Snapshot {
	s := &Snapshot{
		Kind:   KindNetwork,
		Step:   m.Schedule.Steps,
		Agents: make([]AgentView, 0, len(m.agents)),
	}
	for _, a := range m.agents {
		s.Agents = append(s.Agents, AgentView{
			ID:     a.ID,
			Node:   a.Node,
			State:  a.State.String(),
			Color:  a.State.Color(),
			Radius: 6,
		})
	}

	edges := m.Grid.Edges()
	s.Edges = make([]EdgeView, 0, len(edges))
	for _, e := range edges {
		view := EdgeView{Source: e[0], Target: e[1], Color: "#e8e8e8", Width: 2}
		if m.AgentAt(e[0]).State == Resistant || m.AgentAt(e[1]).State == Resistant {
			view.Color, view.Width = "#000000", 3
		}
		s.Edges = append(s.Edges, view)
	}
	return s
}
