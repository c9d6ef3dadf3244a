package pathfind

import (
	"errors"
	"fmt"
	"math"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/navgrid"
)

var ErrStepBudget = errors.New("pathfind: step budget exhausted")

type Status uint8

const (
	StatusRunning Status = iota
	StatusFound
	StatusExhausted
)

type Options struct {
	// StepBudget caps the number of expansions performed by Run. Zero means
	// no limit.
	StepBudget int
}

// Context holds the state of one query against a navigation graph. Nodes live
// in an arena and refer to their parents by arena index, so the parent chain
// is a tree rooted at the start node. A Context is owned by a single agent and
// is not safe for concurrent use.
type Context struct {
	graph *navgrid.Graph
	opts  Options

	goal    int
	goalX   int
	goalZ   int
	nodes   []Node
	open    []int
	visited map[int]struct{}
	order   []int
	path    []int
	steps   int
	status  Status
}

func NewContext(graph *navgrid.Graph, opts Options) *Context {
	return &Context{graph: graph, opts: opts, visited: make(map[int]struct{})}
}

// Reset discards every node from the previous query.
func (c *Context) Reset() {
	c.nodes = c.nodes[:0]
	c.open = c.open[:0]
	c.order = c.order[:0]
	c.path = c.path[:0]
	for k := range c.visited {
		delete(c.visited, k)
	}
	c.steps = 0
	c.status = StatusExhausted
}

// Init seeds the open set with the start node. It reports false when either
// endpoint lies outside the graph.
func (c *Context) Init(start, goal navgrid.Point) bool {
	c.Reset()
	if c.graph == nil || !c.graph.InBounds(start.X, start.Z) || !c.graph.InBounds(goal.X, goal.Z) {
		return false
	}
	c.goal = c.graph.Index(goal.X, goal.Z)
	c.goalX = goal.X
	c.goalZ = goal.Z
	c.nodes = append(c.nodes, Node{
		X:      start.X,
		Z:      start.Z,
		Index:  c.graph.Index(start.X, start.Z),
		G:      0,
		H:      heuristic(start.X, start.Z, goal.X, goal.Z),
		Parent: noParent,
		Edge:   EdgeStart,
		Curve:  navgrid.NoCurve,
	})
	c.open = append(c.open, 0)
	c.status = StatusRunning
	return true
}

// Step expands the open node with the lowest F. Ties go to the node that
// entered the open set first.
func (c *Context) Step() Status {
	if c.status != StatusRunning {
		return c.status
	}
	if len(c.open) == 0 {
		c.status = StatusExhausted
		return c.status
	}

	best := 0
	for i := 1; i < len(c.open); i++ {
		if c.nodes[c.open[i]].F() < c.nodes[c.open[best]].F() {
			best = i
		}
	}
	current := c.open[best]
	c.open = append(c.open[:best], c.open[best+1:]...)
	c.visited[c.nodes[current].Index] = struct{}{}
	c.order = append(c.order, current)
	c.steps++

	if c.nodes[current].Index == c.goal {
		c.reconstruct(current)
		c.status = StatusFound
		return c.status
	}
	c.expand(current)
	return c.status
}

// Run steps until the search finds the goal or runs out of nodes. A
// configured step budget turns an unfinished search into ErrStepBudget.
func (c *Context) Run() (bool, error) {
	for {
		switch c.Step() {
		case StatusFound:
			return true, nil
		case StatusExhausted:
			return false, nil
		}
		if c.opts.StepBudget > 0 && c.steps >= c.opts.StepBudget {
			return false, fmt.Errorf("%w after %d expansions", ErrStepBudget, c.steps)
		}
	}
}

func (c *Context) expand(current int) {
	from := c.nodes[current]
	cell := c.graph.Cell(from.Index)
	if cell == nil {
		return
	}

	for _, next := range cell.RunLinks {
		dest := c.graph.Cell(next)
		step := from.Index + 1
		if dest.X < cell.X {
			step = from.Index - 1
		}
		c.propose(next, from.G+1, current, EdgeRun, []int{from.Index, step}, navgrid.NoCurve)
	}

	for _, next := range cell.FallLinks {
		dest := c.graph.Cell(next)
		cost := 1.0
		if drop := cell.Z - dest.Z; drop > 0 {
			cost = math.Sqrt(1 + float64(drop*drop))
		}
		offset := 0
		if dest.X > cell.X {
			offset = 1
		} else if dest.X < cell.X {
			offset = -1
		}
		cells := []int{from.Index, from.Index + offset, c.graph.Index(cell.X+offset, dest.Z)}
		c.propose(next, from.G+cost, current, EdgeFall, cells, navgrid.NoCurve)
	}

	for _, jump := range cell.JumpLinks {
		cells := append([]int(nil), jump.Path...)
		c.propose(jump.Target, from.G+jump.Cost, current, EdgeJump, cells, jump.Curve)
	}
}

// propose offers a successor. Expanded cells are ignored; an open node for the
// same cell is rewired only when the new route gives it a strictly lower F.
func (c *Context) propose(index int, g float64, parent int, edge EdgeType, cells []int, curve navgrid.CurveHint) {
	if _, done := c.visited[index]; done {
		return
	}
	for _, i := range c.open {
		existing := &c.nodes[i]
		if existing.Index != index {
			continue
		}
		if g+existing.H < existing.F() {
			existing.G = g
			existing.Parent = parent
			existing.Edge = edge
			existing.Cells = cells
			existing.Curve = curve
		}
		return
	}

	p := c.graph.Point(index)
	c.nodes = append(c.nodes, Node{
		X:      p.X,
		Z:      p.Z,
		Index:  index,
		G:      g,
		H:      heuristic(p.X, p.Z, c.goalX, c.goalZ),
		Parent: parent,
		Edge:   edge,
		Cells:  cells,
		Curve:  curve,
	})
	c.open = append(c.open, len(c.nodes)-1)
}

// reconstruct records the parent chain from the goal back to the start.
func (c *Context) reconstruct(end int) {
	c.path = c.path[:0]
	for i := end; i != noParent; i = c.nodes[i].Parent {
		c.path = append(c.path, i)
	}
}

// Path returns the winning route in travel order, start first. It is empty
// until a search has found the goal.
func (c *Context) Path() []Node {
	if len(c.path) == 0 {
		return nil
	}
	out := make([]Node, 0, len(c.path))
	for i := len(c.path) - 1; i >= 0; i-- {
		node := c.nodes[c.path[i]]
		node.Cells = append([]int(nil), node.Cells...)
		out = append(out, node)
	}
	return out
}

// ReversePath returns the route goal first, as the parent chain is walked.
func (c *Context) ReversePath() []Node {
	forward := c.Path()
	for i, j := 0, len(forward)-1; i < j; i, j = i+1, j-1 {
		forward[i], forward[j] = forward[j], forward[i]
	}
	return forward
}

func (c *Context) Status() Status {
	return c.status
}

// Expanded reports how many nodes were moved to the visited set.
func (c *Context) Expanded() int {
	return len(c.order)
}

// OpenLen reports the current frontier size.
func (c *Context) OpenLen() int {
	return len(c.open)
}

// Search runs a complete query with a fresh context.
func Search(graph *navgrid.Graph, start, goal navgrid.Point, opts Options) ([]Node, bool, error) {
	ctx := NewContext(graph, opts)
	if !ctx.Init(start, goal) {
		return nil, false, nil
	}
	found, err := ctx.Run()
	if err != nil || !found {
		return nil, false, err
	}
	return ctx.Path(), true, nil
}
