// Package navsystem is the query surface used by a single agent: it owns the
// agent's navigation graph and search state and translates between world
// space and grid cells.
package navsystem

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/navgrid"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/pathfind"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/telemetry"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/logging/navigation"
)

const (
	metricGraphBuilds    = "graph_builds"
	metricGraphRejected  = "graph_rejected"
	metricGraphNavigable = "graph_navigable_cells"
	metricGraphJumpLinks = "graph_jump_links"
	metricPathQueries    = "path_queries"
	metricPathFound      = "path_found"
	metricPathNotFound   = "path_not_found"
	metricQueryRejected  = "path_query_rejected"
	metricSearchExpanded = "path_search_expanded"
	durationGraphBuild   = "graph_build"
	durationPathSearch   = "path_search"
)

// Reasons reported when a query fails.
const (
	ReasonNoGraph       = "no_graph"
	ReasonStartInvalid  = "start_unresolved"
	ReasonGoalInvalid   = "goal_unresolved"
	ReasonContradiction = "solid_endpoint"
	ReasonExhausted     = "exhausted"
	ReasonStepBudget    = "step_budget"
	ReasonCanceled      = "canceled"
)

var ErrNoGraph = errors.New("navsystem: navigation graph not built")

// System belongs to exactly one agent. It is not safe for concurrent use;
// agents that query from separate goroutines each hold their own System.
type System struct {
	cfg     Config
	graph   *navgrid.Graph
	search  *pathfind.Context
	path    []Waypoint
	queries uint64
	reason  string
}

func New(cfg Config) *System {
	return &System{cfg: cfg.normalized()}
}

// BuildNavigation replaces the current graph with one built from tiles.
// The previous graph and search state are discarded even when the build
// fails.
func (s *System) BuildNavigation(ctx context.Context, jumpHeight, bodyHeight, width, height int, tiles []byte) error {
	m := navgrid.CollisionMap{Width: width, Height: height, Tiles: tiles}
	return s.Build(ctx, m, navgrid.Params{JumpHeight: jumpHeight, BodyHeight: bodyHeight})
}

// Build is BuildNavigation for callers that already hold a collision map.
func (s *System) Build(ctx context.Context, m navgrid.CollisionMap, params navgrid.Params) error {
	s.Clear()
	started := time.Now()
	graph, err := navgrid.Build(m, params)
	if err != nil {
		s.add(metricGraphRejected, 1)
		navigation.GraphRejected(ctx, s.cfg.Publisher, navigation.GraphRejectedPayload{
			Width:  m.Width,
			Height: m.Height,
			Tiles:  len(m.Tiles),
			Reason: err.Error(),
		}, nil)
		return err
	}
	elapsed := time.Since(started)

	s.graph = graph
	s.search = pathfind.NewContext(graph, pathfind.Options{StepBudget: s.cfg.StepBudget})

	stats := graph.Stats()
	s.add(metricGraphBuilds, 1)
	s.store(metricGraphNavigable, uint64(stats.Navigable))
	s.store(metricGraphJumpLinks, uint64(stats.JumpLinks))
	telemetry.Observe(s.cfg.Metrics, durationGraphBuild, elapsed.Seconds())
	navigation.GraphBuilt(ctx, s.cfg.Publisher, navigation.GraphBuiltPayload{
		Width:       stats.Width,
		Height:      stats.Height,
		JumpHeight:  stats.JumpHeight,
		BodyHeight:  stats.BodyHeight,
		Navigable:   stats.Navigable,
		RunLinks:    stats.RunLinks,
		FallLinks:   stats.FallLinks,
		JumpLinks:   stats.JumpLinks,
		DurationMic: elapsed.Microseconds(),
	}, nil)
	return nil
}

// FindPath resolves both world positions to grid cells and searches between
// them. On success it returns the world anchor of the goal cell and makes the
// route available through Path. Any failure returns the zero anchor and
// false; the reason is available through LastReason.
func (s *System) FindPath(ctx context.Context, start, goal Vec2) (Vec3, bool) {
	s.ClearPath()
	s.queries++
	queryID := s.queries
	s.add(metricPathQueries, 1)

	payload := navigation.PathPayload{}
	if s.graph == nil {
		return s.reject(ctx, queryID, payload, ReasonNoGraph)
	}

	from, ok := s.resolveStart(start)
	payload.StartX, payload.StartZ = from.X, from.Z
	if !ok {
		return s.reject(ctx, queryID, payload, ReasonStartInvalid)
	}
	to, ok := s.resolveGoal(goal)
	payload.GoalX, payload.GoalZ = to.X, to.Z
	if !ok {
		return s.reject(ctx, queryID, payload, ReasonGoalInvalid)
	}
	if s.graph.Solid(from.X, from.Z) || s.graph.Solid(to.X, to.Z) {
		return s.reject(ctx, queryID, payload, ReasonContradiction)
	}
	if ctx.Err() != nil {
		return s.reject(ctx, queryID, payload, ReasonCanceled)
	}

	started := time.Now()
	s.search.Init(from, to)
	found, err := s.search.Run()
	telemetry.Observe(s.cfg.Metrics, durationPathSearch, time.Since(started).Seconds())
	payload.Expanded = s.search.Expanded()
	s.add(metricSearchExpanded, uint64(payload.Expanded))

	if !found {
		s.reason = ReasonExhausted
		if errors.Is(err, pathfind.ErrStepBudget) {
			s.reason = ReasonStepBudget
		}
		payload.Reason = s.reason
		s.add(metricPathNotFound, 1)
		navigation.PathNotFound(ctx, s.cfg.Publisher, queryID, payload, nil)
		return Vec3{}, false
	}

	s.path = waypointsFromNodes(s.graph, s.search.Path())
	payload.Waypoints = len(s.path)
	payload.Cost = s.path[len(s.path)-1].Cost
	s.add(metricPathFound, 1)
	navigation.PathFound(ctx, s.cfg.Publisher, queryID, payload, nil)
	return s.anchor(to), true
}

func (s *System) reject(ctx context.Context, queryID uint64, payload navigation.PathPayload, reason string) (Vec3, bool) {
	s.reason = reason
	payload.Reason = reason
	s.add(metricQueryRejected, 1)
	navigation.QueryRejected(ctx, s.cfg.Publisher, queryID, payload, nil)
	return Vec3{}, false
}

// resolveStart maps the agent position to the cell it stands on. The
// position is measured one row above the supporting cell, so the grid row is
// shifted down by one. A non-navigable result is retried one row up.
func (s *System) resolveStart(pos Vec2) (navgrid.Point, bool) {
	p, ok := s.worldToGrid(pos)
	if !ok {
		return p, false
	}
	p.Z--
	if p.Z < 0 {
		return p, false
	}
	if s.graph.Navigable(p.X, p.Z) {
		return p, true
	}
	if s.graph.Navigable(p.X, p.Z+1) {
		return navgrid.Point{X: p.X, Z: p.Z + 1}, true
	}
	return p, false
}

// resolveGoal maps a target position to a navigable cell: the cell itself,
// the one above it, or the first navigable cell below it in the same column.
func (s *System) resolveGoal(pos Vec2) (navgrid.Point, bool) {
	p, ok := s.worldToGrid(pos)
	if !ok {
		return p, false
	}
	if s.graph.Navigable(p.X, p.Z) {
		return p, true
	}
	if s.graph.Navigable(p.X, p.Z+1) {
		return navgrid.Point{X: p.X, Z: p.Z + 1}, true
	}
	for z := p.Z - 1; z >= 0; z-- {
		if s.graph.Navigable(p.X, z) {
			return navgrid.Point{X: p.X, Z: z}, true
		}
	}
	return p, false
}

func (s *System) worldToGrid(pos Vec2) (navgrid.Point, bool) {
	if math.IsNaN(pos.X) || math.IsNaN(pos.Z) {
		return navgrid.Point{}, false
	}
	fx := math.Floor(pos.X / s.cfg.CellSize)
	fz := math.Floor(pos.Z / s.cfg.CellSize)
	if fx < 0 || fz < 0 || fx >= float64(s.graph.Width()) || fz >= float64(s.graph.Height()) {
		return navgrid.Point{X: -1, Z: -1}, false
	}
	return navgrid.Point{X: int(fx), Z: int(fz)}, true
}

// anchor is the column center of p at the fixed depth, aligned to the top
// of p's row.
func (s *System) anchor(p navgrid.Point) Vec3 {
	cs := s.cfg.CellSize
	return Vec3{
		X: float64(p.X)*cs + cs/2,
		Y: s.cfg.AnchorDepth,
		Z: float64(p.Z+1) * cs,
	}
}

// CellCenter returns the world position at the center of a grid cell.
func (s *System) CellCenter(p navgrid.Point) Vec2 {
	cs := s.cfg.CellSize
	return Vec2{X: float64(p.X)*cs + cs/2, Z: float64(p.Z)*cs + cs/2}
}

// StandingPosition returns the agent position that FindPath resolves to a
// start on p.
func (s *System) StandingPosition(p navgrid.Point) Vec2 {
	center := s.CellCenter(p)
	center.Z += s.cfg.CellSize
	return center
}

// Path returns a copy of the last route found, start first. It is nil when
// the last query failed.
func (s *System) Path() []Waypoint {
	if len(s.path) == 0 {
		return nil
	}
	copied := make([]Waypoint, len(s.path))
	for i, wp := range s.path {
		copied[i] = wp
		copied[i].Cells = append([]navgrid.Point(nil), wp.Cells...)
		copied[i].CurveAnchors = append([]navgrid.Point(nil), wp.CurveAnchors...)
	}
	return copied
}

// LastReason explains the most recent failed query. It is empty after a
// successful one.
func (s *System) LastReason() string {
	return s.reason
}

// Expanded reports how many nodes the last search expanded.
func (s *System) Expanded() int {
	if s.search == nil {
		return 0
	}
	return s.search.Expanded()
}

func (s *System) Graph() *navgrid.Graph {
	return s.graph
}

func (s *System) Config() Config {
	return s.cfg
}

// Stats describes the current graph or fails with ErrNoGraph.
func (s *System) Stats() (navgrid.Stats, error) {
	if s.graph == nil {
		return navgrid.Stats{}, fmt.Errorf("stats: %w", ErrNoGraph)
	}
	return s.graph.Stats(), nil
}

// Clear drops the graph together with any search state.
func (s *System) Clear() {
	s.graph = nil
	s.search = nil
	s.ClearPath()
}

// ClearPath forgets the last route but keeps the graph.
func (s *System) ClearPath() {
	s.path = nil
	s.reason = ""
	if s.search != nil {
		s.search.Reset()
	}
}

func (s *System) add(key string, delta uint64) {
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.Add(key, delta)
	}
}

func (s *System) store(key string, value uint64) {
	if s.cfg.Metrics != nil {
		s.cfg.Metrics.Store(key, value)
	}
}
