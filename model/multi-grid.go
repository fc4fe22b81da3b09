package model

import (
	"slices"

	"agent-sim/utils"
)

// Position is a cell coordinate on a MultiGrid
type Position struct {
	X int `msgpack:"x"`
	Y int `msgpack:"y"`
}

// MultiGrid is a rectangular grid where any number of agents may share a
// cell. On a torus, coordinates wrap at the edges.
type MultiGrid struct {
	width  int
	height int
	torus  bool

	// row-major, each cell keeps insertion order
	cells     [][]Agent
	positions map[int]Position
}

// NewMultiGrid creates an empty grid
func NewMultiGrid(width, height int, torus bool) (*MultiGrid, error) {
	if width <= 0 {
		return nil, &ConfigurationError{Field: "width", Value: width, Reason: "must be positive"}
	}
	if height <= 0 {
		return nil, &ConfigurationError{Field: "height", Value: height, Reason: "must be positive"}
	}
	return &MultiGrid{
		width:     width,
		height:    height,
		torus:     torus,
		cells:     make([][]Agent, width*height),
		positions: make(map[int]Position),
	}, nil
}

func (g *MultiGrid) Width() int  { return g.width }
func (g *MultiGrid) Height() int { return g.height }
func (g *MultiGrid) Torus() bool { return g.torus }

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *MultiGrid) Wrap(x, y int) (int, int) {
	x = (x%g.width + g.width) % g.width
	y = (y%g.height + g.height) % g.height
	return x, y
}

func (g *MultiGrid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// normalize wraps on a torus; off-grid coordinates on a bounded grid are a
// caller defect
func (g *MultiGrid) normalize(x, y int) Position {
	if g.torus {
		x, y = g.Wrap(x, y)
	} else if !g.inBounds(x, y) {
		violate("position (%d, %d) outside %dx%d grid", x, y, g.width, g.height)
	}
	return Position{X: x, Y: y}
}

func (g *MultiGrid) index(p Position) int {
	return p.Y*g.width + p.X
}

// PlaceAgent puts an unplaced agent into cell (x, y)
func (g *MultiGrid) PlaceAgent(agent Agent, x, y int) {
	if _, ok := g.positions[agent.UniqueID()]; ok {
		violate("agent %d placed twice", agent.UniqueID())
	}
	p := g.normalize(x, y)
	idx := g.index(p)
	g.cells[idx] = append(g.cells[idx], agent)
	g.positions[agent.UniqueID()] = p
}

// RemoveAgent takes an agent off the grid
func (g *MultiGrid) RemoveAgent(agent Agent) {
	p, ok := g.positions[agent.UniqueID()]
	if !ok {
		violate("agent %d is not on the grid", agent.UniqueID())
	}
	idx := g.index(p)
	g.cells[idx] = slices.DeleteFunc(g.cells[idx], func(a Agent) bool {
		return a.UniqueID() == agent.UniqueID()
	})
	delete(g.positions, agent.UniqueID())
}

// MoveTo relocates an agent to (x, y)
func (g *MultiGrid) MoveTo(agent Agent, x, y int) {
	p := g.normalize(x, y)
	g.RemoveAgent(agent)
	g.PlaceAgent(agent, p.X, p.Y)
}

// MoveAgent shifts an agent by (dx, dy)
func (g *MultiGrid) MoveAgent(agent Agent, dx, dy int) {
	p, ok := g.Position(agent)
	if !ok {
		violate("agent %d is not on the grid", agent.UniqueID())
	}
	g.MoveTo(agent, p.X+dx, p.Y+dy)
}

// Position returns where an agent currently is
func (g *MultiGrid) Position(agent Agent) (Position, bool) {
	p, ok := g.positions[agent.UniqueID()]
	return p, ok
}

// GetCellContents returns the occupants of (x, y) in arrival order
func (g *MultiGrid) GetCellContents(x, y int) []Agent {
	p := g.normalize(x, y)
	return slices.Clone(g.cells[g.index(p)])
}

// IsCellEmpty reports whether nobody occupies (x, y)
func (g *MultiGrid) IsCellEmpty(x, y int) bool {
	return len(g.cells[g.index(g.normalize(x, y))]) == 0
}

// GetNeighborhood lists the cells around (x, y) within radius. Moore
// neighbourhoods include diagonals, von Neumann ones do not. Cells are
// ordered by dx then dy; on a torus they wrap and are listed once, on a
// bounded grid off-grid cells are dropped.
func (g *MultiGrid) GetNeighborhood(x, y int, moore bool, includeCenter bool, radius int) []Position {
	center := g.normalize(x, y)
	seen := make(map[Position]bool)
	var ret []Position

	for dx := -radius; dx <= radius; dx++ {
		for dy := -radius; dy <= radius; dy++ {
			if !moore && abs(dx)+abs(dy) > radius {
				continue
			}
			if dx == 0 && dy == 0 && !includeCenter {
				continue
			}

			nx, ny := center.X+dx, center.Y+dy
			if g.torus {
				nx, ny = g.Wrap(nx, ny)
			} else if !g.inBounds(nx, ny) {
				continue
			}

			p := Position{X: nx, Y: ny}
			if p == center && !includeCenter {
				// wrapped back onto itself on a narrow torus
				continue
			}
			if seen[p] {
				continue
			}
			seen[p] = true
			ret = append(ret, p)
		}
	}
	return ret
}

// GetNeighbors returns the agents in the neighbourhood of (x, y), cell by
// cell in neighbourhood order
func (g *MultiGrid) GetNeighbors(x, y int, moore bool, includeCenter bool, radius int) []Agent {
	var ret []Agent
	for _, p := range g.GetNeighborhood(x, y, moore, includeCenter, radius) {
		ret = append(ret, g.cells[g.index(p)]...)
	}
	return ret
}

// RandomPosition draws a uniform cell
func (g *MultiGrid) RandomPosition(rng *utils.RandomSource) Position {
	x := rng.Intn(g.width)
	y := rng.Intn(g.height)
	return Position{X: x, Y: y}
}

// AgentCount returns how many agents are on the grid
func (g *MultiGrid) AgentCount() int {
	return len(g.positions)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
