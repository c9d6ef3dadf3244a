package navgrid

const DefaultMaxDropsAfterJump = 10

// Params are the per-agent inputs that shape the navigation graph. Any change
// requires a full rebuild.
type Params struct {
	// JumpHeight is the tallest arc the agent can make, in grid rows.
	JumpHeight int `json:"jumpHeight" yaml:"jumpHeight"`
	// BodyHeight is the clearance checked above every cell an arc visits.
	BodyHeight int `json:"bodyHeight" yaml:"bodyHeight"`
	// MaxDropsAfterJump bounds the fall probe that follows an arc which
	// lands nowhere.
	MaxDropsAfterJump int `json:"maxDropsAfterJump,omitempty" yaml:"maxDropsAfterJump,omitempty"`
}

func (p Params) normalized() Params {
	normalized := p
	if normalized.JumpHeight < 0 {
		normalized.JumpHeight = 0
	}
	if normalized.BodyHeight < 0 {
		normalized.BodyHeight = 0
	}
	if normalized.MaxDropsAfterJump <= 0 {
		normalized.MaxDropsAfterJump = DefaultMaxDropsAfterJump
	}
	return normalized
}

func (p Params) Normalized() Params {
	return p.normalized()
}

// clampedTo bounds the vertical reach to the grid height. An arc or a
// clearance check taller than the grid leaves the map before it can land, so
// the clamp builds the same links.
func (p Params) clampedTo(height int) Params {
	p.JumpHeight = min(p.JumpHeight, height)
	p.BodyHeight = min(p.BodyHeight, height)
	return p
}
