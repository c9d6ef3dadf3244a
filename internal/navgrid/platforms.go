package navgrid

// detectPlatforms classifies every cell row by row. A platform run never
// wraps to the next row.
func (g *Graph) detectPlatforms() {
	for z := 0; z < g.height; z++ {
		started := false
		for x := 0; x < g.width; x++ {
			idx := g.Index(x, z)
			cell := &g.cells[idx]
			cell.X = x
			cell.Z = z
			cell.Collision = g.tiles.Tiles[idx]

			if !started && g.standable(x, z) {
				cell.Nav = NavLeftEdge
				started = true
			}
			if !started {
				continue
			}

			lowerRightSolid := x+1 < g.width && z > 0 && g.tiles.Solid(x+1, z-1)
			rightOpen := x+1 < g.width && !g.tiles.Solid(x+1, z)

			if lowerRightSolid && rightOpen && cell.Nav != NavLeftEdge {
				cell.Nav = NavMiddle
			}
			if !lowerRightSolid || !rightOpen {
				if cell.Nav == NavLeftEdge {
					cell.Nav = NavLone
				} else {
					cell.Nav = NavRightEdge
				}
				started = false
			}
		}
	}
}

// standable reports an open tile resting on a solid one.
func (g *Graph) standable(x, z int) bool {
	if z <= 0 || !g.tiles.InBounds(x, z) {
		return false
	}
	return !g.tiles.Solid(x, z) && g.tiles.Solid(x, z-1)
}
