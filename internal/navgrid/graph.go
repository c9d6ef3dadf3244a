package navgrid

import "fmt"

// Graph is the navigation artifact consumed by path search. It is built once
// per collision map and parameter set and never mutated afterwards.
type Graph struct {
	width  int
	height int
	params Params
	tiles  CollisionMap
	cells  []Cell
}

// Build classifies every cell of the collision map and links the navigable
// ones by run, fall and jump edges.
func Build(m CollisionMap, params Params) (*Graph, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("build navigation graph: %w", err)
	}
	g := &Graph{
		width:  m.Width,
		height: m.Height,
		params: params.normalized().clampedTo(m.Height),
		tiles:  m.Clone(),
		cells:  make([]Cell, m.Width*m.Height),
	}
	g.detectPlatforms()
	g.createRunLinks()
	g.createFallLinks()
	g.createJumpLinks()
	return g, nil
}

func (g *Graph) Width() int {
	if g == nil {
		return 0
	}
	return g.width
}

func (g *Graph) Height() int {
	if g == nil {
		return 0
	}
	return g.height
}

func (g *Graph) Params() Params {
	if g == nil {
		return Params{}
	}
	return g.params
}

// Len reports the number of cells, navigable or not.
func (g *Graph) Len() int {
	if g == nil {
		return 0
	}
	return len(g.cells)
}

func (g *Graph) InBounds(x, z int) bool {
	return g != nil && x >= 0 && z >= 0 && x < g.width && z < g.height
}

func (g *Graph) Index(x, z int) int {
	return z*g.width + x
}

// Point converts a flat cell index back to grid coordinates.
func (g *Graph) Point(index int) Point {
	if g == nil || g.width == 0 {
		return Point{}
	}
	return Point{X: index % g.width, Z: index / g.width}
}

// Cell returns the record at the flat index, or nil when out of range.
func (g *Graph) Cell(index int) *Cell {
	if g == nil || index < 0 || index >= len(g.cells) {
		return nil
	}
	return &g.cells[index]
}

func (g *Graph) CellAt(x, z int) *Cell {
	if !g.InBounds(x, z) {
		return nil
	}
	return &g.cells[g.Index(x, z)]
}

func (g *Graph) Navigable(x, z int) bool {
	return g.CellAt(x, z).Navigable()
}

// Solid reports collision at the coordinates; off-grid cells are solid.
func (g *Graph) Solid(x, z int) bool {
	if g == nil {
		return true
	}
	return g.tiles.Solid(x, z)
}

// Stats summarises a graph for logs and diagnostics.
type Stats struct {
	Width      int             `json:"width"`
	Height     int             `json:"height"`
	Navigable  int             `json:"navigable"`
	ByType     map[NavType]int `json:"-"`
	RunLinks   int             `json:"runLinks"`
	FallLinks  int             `json:"fallLinks"`
	JumpLinks  int             `json:"jumpLinks"`
	JumpHeight int             `json:"jumpHeight"`
	BodyHeight int             `json:"bodyHeight"`
}

func (g *Graph) Stats() Stats {
	if g == nil {
		return Stats{}
	}
	stats := Stats{
		Width:      g.width,
		Height:     g.height,
		ByType:     make(map[NavType]int, 5),
		JumpHeight: g.params.JumpHeight,
		BodyHeight: g.params.BodyHeight,
	}
	for i := range g.cells {
		cell := &g.cells[i]
		stats.ByType[cell.Nav]++
		if cell.Navigable() {
			stats.Navigable++
		}
		stats.RunLinks += len(cell.RunLinks)
		stats.FallLinks += len(cell.FallLinks)
		stats.JumpLinks += len(cell.JumpLinks)
	}
	return stats
}
