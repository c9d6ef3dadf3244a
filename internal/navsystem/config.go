package navsystem

import (
	"github.com/RomanSolomatin/2d-platformer-pathfinding/internal/telemetry"
	"github.com/RomanSolomatin/2d-platformer-pathfinding/logging"
)

const (
	DefaultCellSize    = 32
	DefaultAnchorDepth = 32
)

// Config tunes the world-space mapping of a System. The zero value is usable.
type Config struct {
	// CellSize is the edge length of one grid cell in world units.
	CellSize float64
	// AnchorDepth is the fixed height component of the anchor returned by
	// FindPath.
	AnchorDepth float64
	// StepBudget caps search expansions per query. Zero is unbounded.
	StepBudget int
	// Agent tags every published event.
	Agent     string
	Publisher logging.Publisher
	Metrics   telemetry.Metrics
}

func (c Config) normalized() Config {
	normalized := c
	if normalized.CellSize <= 0 {
		normalized.CellSize = DefaultCellSize
	}
	if normalized.AnchorDepth == 0 {
		normalized.AnchorDepth = DefaultAnchorDepth
	}
	if normalized.StepBudget < 0 {
		normalized.StepBudget = 0
	}
	if normalized.Publisher == nil {
		normalized.Publisher = logging.NopPublisher()
	}
	normalized.Publisher = logging.WithAgent(normalized.Publisher, normalized.Agent)
	return normalized
}
