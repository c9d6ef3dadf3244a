package pathfind

import (
	"math"

	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/navgrid"
)

// EdgeType names the kind of link that produced a search node.
type EdgeType uint8

const (
	EdgeStart EdgeType = iota
	EdgeRun
	EdgeFall
	EdgeJump
)

func (e EdgeType) String() string {
	switch e {
	case EdgeStart:
		return "start"
	case EdgeRun:
		return "run"
	case EdgeFall:
		return "fall"
	case EdgeJump:
		return "jump"
	default:
		return "unknown"
	}
}

// MarshalText encodes the edge by name so JSON carries "run" rather than 1.
func (e EdgeType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

const noParent = -1

// Node is one search record. Parent is an index into the search arena, or -1
// for the start node.
type Node struct {
	X      int
	Z      int
	Index  int
	G      float64
	H      float64
	Parent int
	Edge   EdgeType
	// Cells lists the cell indices crossed on the way in from the parent.
	Cells []int
	Curve navgrid.CurveHint
}

func (n *Node) F() float64 {
	return n.G + n.H
}

// heuristic is the straight-line distance between two grid cells.
func heuristic(ax, az, bx, bz int) float64 {
	dx := float64(ax - bx)
	dz := float64(az - bz)
	return math.Sqrt(dx*dx + dz*dz)
}
