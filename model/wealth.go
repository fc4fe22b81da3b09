package model

import (
	"slices"

	"agent-sim/utils"

	"gonum.org/v1/gonum/stat"
)

// WealthModelParams configures the money-exchange model
type WealthModelParams struct {
	N             int  `yaml:"n"`
	Width         int  `yaml:"width"`
	Height        int  `yaml:"height"`
	InitialWealth int  `yaml:"initial_wealth"`
	Torus         bool `yaml:"torus"`
}

// DefaultWealthModelParams creates a new parameters struct with default values
func DefaultWealthModelParams() *WealthModelParams {
	return &WealthModelParams{
		N:             100,
		Width:         10,
		Height:        10,
		InitialWealth: 1,
		Torus:         true,
	}
}

// ToMap converts the parameters to a map
func (p *WealthModelParams) ToMap() map[string]any {
	return map[string]any{
		"n":              p.N,
		"width":          p.Width,
		"height":         p.Height,
		"initial_wealth": p.InitialWealth,
		"torus":          p.Torus,
	}
}

// Validate rejects parameters outside their domain
func (p *WealthModelParams) Validate() error {
	if p.N < 0 {
		return &ConfigurationError{Field: "n", Value: p.N, Reason: "must not be negative"}
	}
	if p.Width <= 0 {
		return &ConfigurationError{Field: "width", Value: p.Width, Reason: "must be positive"}
	}
	if p.Height <= 0 {
		return &ConfigurationError{Field: "height", Value: p.Height, Reason: "must be positive"}
	}
	if p.InitialWealth < 0 {
		return &ConfigurationError{Field: "initial_wealth", Value: p.InitialWealth, Reason: "must not be negative"}
	}
	return nil
}

// WealthAgent holds units of wealth and hands one to a cellmate each step
type WealthAgent struct {
	BaseAgent
	Model  *WealthModel
	Wealth int
}

// Step moves to a random neighbouring cell, then gives one unit of wealth to
// a random cellmate if the agent has any
func (a *WealthAgent) Step() {
	a.move()
	if a.Wealth > 0 {
		a.giveMoney()
	}
}

func (a *WealthAgent) move() {
	g := a.Model.Grid
	p, _ := g.Position(a)
	cells := g.GetNeighborhood(p.X, p.Y, true, false, 1)
	if len(cells) == 0 {
		return
	}
	next := cells[a.Model.RNG.Intn(len(cells))]
	g.MoveTo(a, next.X, next.Y)
}

func (a *WealthAgent) giveMoney() {
	p, _ := a.Model.Grid.Position(a)
	cellmates := slices.DeleteFunc(a.Model.Grid.GetCellContents(p.X, p.Y), func(o Agent) bool {
		return o.UniqueID() == a.ID
	})
	if len(cellmates) == 0 {
		return
	}

	other := cellmates[a.Model.RNG.Intn(len(cellmates))].(*WealthAgent)
	other.Wealth++
	a.Wealth--

	a.Model.logEvent(EventTransfer, a.ID, TransferEventBody{From: a.ID, To: other.ID})
}

// WealthModel is the toy wealth-exchange model on a MultiGrid
type WealthModel struct {
	Params      *WealthModelParams
	Grid        *MultiGrid
	Schedule    *RandomActivation
	RNG         *utils.RandomSource
	Running     bool
	EventLogger EventLogger

	agents []*WealthAgent
	topK   *utils.TopKFinder
}

// NewWealthModel creates N agents with InitialWealth each, placed on random
// cells drawn in id order
func NewWealthModel(params *WealthModelParams, seed int64, eventLogger EventLogger) (*WealthModel, error) {
	// Use default params if none provided
	if params == nil {
		params = DefaultWealthModelParams()
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	grid, err := NewMultiGrid(params.Width, params.Height, params.Torus)
	if err != nil {
		return nil, err
	}

	rng := utils.NewRandomSource(seed)
	m := &WealthModel{
		Params:      params,
		Grid:        grid,
		Schedule:    NewRandomActivation(rng),
		RNG:         rng,
		Running:     true,
		EventLogger: eventLogger,
		agents:      make([]*WealthAgent, 0, params.N),
		topK:        utils.NewTopKFinder(max(params.N/10, 1)),
	}

	for i := range params.N {
		a := &WealthAgent{BaseAgent: BaseAgent{ID: i}, Model: m, Wealth: params.InitialWealth}
		m.agents = append(m.agents, a)
		m.Schedule.AddAgent(a)
		p := grid.RandomPosition(rng)
		grid.PlaceAgent(a, p.X, p.Y)
	}

	return m, nil
}

func (m *WealthModel) logEvent(eventType string, agentID int, body any) {
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
func (m *WealthModel) Step() {
	m.Schedule.Step()
}

func (m *WealthModel) StepCount() int          { return m.Schedule.Steps }
func (m *WealthModel) IsRunning() bool         { return m.Running }
func (m *WealthModel) SetRunning(running bool) { m.Running = running }

// Agents returns the population in id order
func (m *WealthModel) Agents() []*WealthAgent {
	return m.agents
}

// CollectWealth returns every agent's wealth, indexed by id
func (m *WealthModel) CollectWealth() []int {
	ret := make([]int, len(m.agents))
	for i, a := range m.agents {
		ret[i] = a.Wealth
	}
	return ret
}

// TotalWealth sums the wealth of every agent
func (m *WealthModel) TotalWealth() int {
	total := 0
	for _, a := range m.agents {
		total += a.Wealth
	}
	return total
}

// Gini computes the Gini coefficient of the wealth distribution
func (m *WealthModel) Gini() float64 {
	n := len(m.agents)
	total := m.TotalWealth()
	if n == 0 || total == 0 {
		return 0
	}

	x := m.CollectWealth()
	slices.Sort(x)
	b := 0.0
	for i, xi := range x {
		b += float64(xi * (n - i))
	}
	b /= float64(n) * float64(total)
	return 1 + 1/float64(n) - 2*b
}

// Richest returns the ids of the k wealthiest agents, richest first
func (m *WealthModel) Richest(k int) []int {
	wealth := make([]float64, len(m.agents))
	for i, a := range m.agents {
		wealth[i] = float64(a.Wealth)
	}
	// agent ids equal their index
	return m.topK.FindTopK(wealth, k)
}

// Metrics reports the wealth distribution after the last step
func (m *WealthModel) Metrics() Metrics {
	total := m.TotalWealth()
	wealth := make([]float64, len(m.agents))
	broke, richest := 0, 0
	for i, a := range m.agents {
		wealth[i] = float64(a.Wealth)
		if a.Wealth == 0 {
			broke++
		}
		richest = max(richest, a.Wealth)
	}

	mean, topShare := 0.0, 0.0
	if len(wealth) > 0 {
		mean = stat.Mean(wealth, nil)
	}
	if total > 0 {
		top := 0
		for _, id := range m.Richest(max(len(m.agents)/10, 1)) {
			top += m.agents[id].Wealth
		}
		topShare = float64(top) / float64(total)
	}

	return Metrics{
		"total_wealth": float64(total),
		"mean_wealth":  mean,
		"max_wealth":   float64(richest),
		"broke_agents": float64(broke),
		"gini":         m.Gini(),
		"top10_share":  topShare,
	}
}

// Snapshot captures agent positions and wealth
func (m *WealthModel) Snapshot() *Snapshot {
	s := &Snapshot{
		Kind:   KindGrid,
		Step:   m.Schedule.Steps,
		Width:  m.Grid.Width(),
		Height: m.Grid.Height(),
		Agents: make([]AgentView, 0, len(m.agents)),
	}
	for _, a := range m.agents {
		p, _ := m.Grid.Position(a)
		view := AgentView{ID: a.ID, X: p.X, Y: p.Y, Node: -1, Wealth: a.Wealth}
		if a.Wealth > 0 {
			view.Color, view.Layer, view.Radius = "green", 0, 0.5
		} else {
			view.Color, view.Layer, view.Radius = "red", 1, 0.2
		}
		s.Agents = append(s.Agents, view)
	}
	return s
}
