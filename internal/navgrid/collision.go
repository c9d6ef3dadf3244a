package navgrid

import (
	"errors"
	"fmt"
	"math"
)

const (
	TileOpen  byte = 0
	TileSolid byte = 1
)

var (
	ErrInvalidDimensions = errors.New("navgrid: invalid grid dimensions")
	ErrBufferSize        = errors.New("navgrid: collision buffer size mismatch")
	ErrInvalidTile       = errors.New("navgrid: invalid tile value")
)

// CollisionMap is the raw tile buffer supplied by the host world. Tiles are
// stored row-major with row 0 at the bottom of the level.
type CollisionMap struct {
	Width  int
	Height int
	Tiles  []byte
}

// NewCollisionMap returns an all-open map of the given size.
func NewCollisionMap(width, height int) CollisionMap {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return CollisionMap{Width: width, Height: height, Tiles: make([]byte, width*height)}
}

func (m CollisionMap) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, m.Width, m.Height)
	}
	if m.Width > math.MaxInt/m.Height {
		return fmt.Errorf("%w: %dx%d overflows", ErrInvalidDimensions, m.Width, m.Height)
	}
	if len(m.Tiles) != m.Width*m.Height {
		return fmt.Errorf("%w: got %d tiles, want %d", ErrBufferSize, len(m.Tiles), m.Width*m.Height)
	}
	for i, tile := range m.Tiles {
		if tile != TileOpen && tile != TileSolid {
			return fmt.Errorf("%w: %d at index %d", ErrInvalidTile, tile, i)
		}
	}
	return nil
}

func (m CollisionMap) InBounds(x, z int) bool {
	return x >= 0 && z >= 0 && x < m.Width && z < m.Height
}

func (m CollisionMap) Index(x, z int) int {
	return z*m.Width + x
}

// Solid reports whether the tile blocks movement. Cells outside the map are
// treated as solid.
func (m CollisionMap) Solid(x, z int) bool {
	if !m.InBounds(x, z) {
		return true
	}
	return m.Tiles[m.Index(x, z)] == TileSolid
}

// Set marks a single tile, ignoring coordinates outside the map.
func (m CollisionMap) Set(x, z int, tile byte) {
	if !m.InBounds(x, z) {
		return
	}
	m.Tiles[m.Index(x, z)] = tile
}

// Clone returns a copy with independent backing storage.
func (m CollisionMap) Clone() CollisionMap {
	cloned := m
	cloned.Tiles = append([]byte(nil), m.Tiles...)
	return cloned
}
