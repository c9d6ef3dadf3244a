package navsystem

import (
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/navgrid"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/pathfind"
)

// Vec2 is a world-space position on the level plane.
type Vec2 struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

// Vec3 is a world-space anchor handed back to the movement layer.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Waypoint is one step of a resolved route, in grid coordinates.
type Waypoint struct {
	X    int               `json:"x"`
	Z    int               `json:"z"`
	Cost float64           `json:"cost"`
	Edge pathfind.EdgeType `json:"edge"`
	// Cells are the grid cells crossed on the way in from the previous
	// waypoint.
	Cells []navgrid.Point `json:"cells,omitempty"`
	// Curve holds the apex anchor indices of a jump, or navgrid.NoCurve.
	Curve navgrid.CurveHint `json:"curve"`
	// CurveAnchors resolves Curve to grid points. Nil when the curve is unset.
	CurveAnchors []navgrid.Point `json:"curveAnchors,omitempty"`
}

func waypointsFromNodes(g *navgrid.Graph, nodes []pathfind.Node) []Waypoint {
	if len(nodes) == 0 {
		return nil
	}
	waypoints := make([]Waypoint, 0, len(nodes))
	for _, node := range nodes {
		wp := Waypoint{
			X:     node.X,
			Z:     node.Z,
			Cost:  node.G,
			Edge:  node.Edge,
			Curve: node.Curve,
		}
		if len(node.Cells) > 0 {
			wp.Cells = make([]navgrid.Point, 0, len(node.Cells))
			for _, idx := range node.Cells {
				wp.Cells = append(wp.Cells, g.Point(idx))
			}
		}
		if node.Curve.IsSet() {
			wp.CurveAnchors = []navgrid.Point{g.Point(node.Curve[0]), g.Point(node.Curve[1])}
		}
		waypoints = append(waypoints, wp)
	}
	return waypoints
}
