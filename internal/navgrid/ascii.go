package navgrid

import (
	"fmt"
	"strings"
)

// ParseRows builds a collision map from ASCII rows listed top row first.
// '#' marks a solid tile and '.' an open one.
func ParseRows(rows []string) (CollisionMap, error) {
	if len(rows) == 0 {
		return CollisionMap{}, fmt.Errorf("%w: no rows", ErrInvalidDimensions)
	}
	width := len(rows[0])
	if width == 0 {
		return CollisionMap{}, fmt.Errorf("%w: empty row", ErrInvalidDimensions)
	}
	height := len(rows)
	m := NewCollisionMap(width, height)
	for i, row := range rows {
		if len(row) != width {
			return CollisionMap{}, fmt.Errorf("%w: row %d has %d columns, want %d", ErrInvalidDimensions, i, len(row), width)
		}
		z := height - 1 - i
		for x, ch := range row {
			switch ch {
			case '#':
				m.Set(x, z, TileSolid)
			case '.':
			default:
				return CollisionMap{}, fmt.Errorf("%w: %q at row %d column %d", ErrInvalidTile, ch, i, x)
			}
		}
	}
	return m, nil
}

// Rows renders the collision map back to ASCII, top row first.
func (m CollisionMap) Rows() []string {
	rows := make([]string, 0, m.Height)
	for z := m.Height - 1; z >= 0; z-- {
		var b strings.Builder
		b.Grow(m.Width)
		for x := 0; x < m.Width; x++ {
			if m.Solid(x, z) {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		rows = append(rows, b.String())
	}
	return rows
}

var navGlyphs = map[NavType]byte{
	NavLeftEdge:  'L',
	NavMiddle:    'M',
	NavRightEdge: 'R',
	NavLone:      'O',
}

// Render draws the classification, top row first: '#' solid, '.' open and
// L/M/R/O for left edge, middle, right edge and lone cells.
func (g *Graph) Render() []string {
	if g == nil {
		return nil
	}
	rows := make([]string, 0, g.height)
	for z := g.height - 1; z >= 0; z-- {
		var b strings.Builder
		b.Grow(g.width)
		for x := 0; x < g.width; x++ {
			cell := &g.cells[g.Index(x, z)]
			switch {
			case cell.Navigable():
				b.WriteByte(navGlyphs[cell.Nav])
			case cell.Collision == TileSolid:
				b.WriteByte('#')
			default:
				b.WriteByte('.')
			}
		}
		rows = append(rows, b.String())
	}
	return rows
}
