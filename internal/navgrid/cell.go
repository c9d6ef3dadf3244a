package navgrid

// NavType classifies how an agent can stand on a cell.
type NavType uint8

const (
	NavNone NavType = iota
	NavLeftEdge
	NavMiddle
	NavRightEdge
	NavLone
)

func (t NavType) String() string {
	switch t {
	case NavNone:
		return "none"
	case NavLeftEdge:
		return "left_edge"
	case NavMiddle:
		return "middle"
	case NavRightEdge:
		return "right_edge"
	case NavLone:
		return "lone"
	default:
		return "unknown"
	}
}

// Navigable reports whether an agent can stand on a cell of this type.
func (t NavType) Navigable() bool {
	return t != NavNone
}

// Unset marks a missing curve anchor.
const Unset = -1

// CurveHint holds the two apex anchor cell indices used to draw a jump
// trajectory. Both entries are Unset when no apex was recorded.
type CurveHint [2]int

// NoCurve is the hint carried by run and fall edges.
var NoCurve = CurveHint{Unset, Unset}

func (h CurveHint) IsSet() bool {
	return h[0] != Unset && h[1] != Unset
}

// Point is a grid coordinate.
type Point struct {
	X int `json:"x"`
	Z int `json:"z"`
}

// JumpEdge is one ballistic arc from its owning cell to Target.
type JumpEdge struct {
	Target     int
	Horizontal int
	Height     int
	Cost       float64
	Curve      CurveHint
	// Path lists every cell the arc passes through, origin first and
	// landing cell last.
	Path []int
}

// Cell is the derived navigation record for one grid position.
type Cell struct {
	X         int
	Z         int
	Collision byte
	Nav       NavType
	RunLinks  []int
	FallLinks []int
	JumpLinks []JumpEdge
}

func (c *Cell) Navigable() bool {
	return c != nil && c.Nav.Navigable()
}

func (c *Cell) Point() Point {
	return Point{X: c.X, Z: c.Z}
}

func (c *Cell) hasJumpTo(target int) bool {
	for _, edge := range c.JumpLinks {
		if edge.Target == target {
			return true
		}
	}
	return false
}
