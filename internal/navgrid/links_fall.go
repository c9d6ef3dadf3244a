package navgrid

// fallSides lists the horizontal directions an edge cell can drop from, left
// before right.
func fallSides(t NavType) []int {
	switch t {
	case NavLeftEdge:
		return []int{-1}
	case NavRightEdge:
		return []int{1}
	case NavLone:
		return []int{-1, 1}
	default:
		return nil
	}
}

func (g *Graph) createFallLinks() {
	for i := range g.cells {
		cell := &g.cells[i]
		for _, side := range fallSides(cell.Nav) {
			sideX := cell.X + side
			if !g.InBounds(sideX, cell.Z) || g.tiles.Solid(sideX, cell.Z) {
				continue
			}
			if target, ok := g.firstNavigableBelow(sideX, cell.Z-1); ok {
				cell.FallLinks = append(cell.FallLinks, target)
			}
		}
	}
}

// firstNavigableBelow scans the column downward starting at row z. Row 0 can
// never be navigable so the scan stops above it.
func (g *Graph) firstNavigableBelow(x, z int) (int, bool) {
	for row := z; row > 0; row-- {
		if !g.InBounds(x, row) {
			continue
		}
		idx := g.Index(x, row)
		if g.cells[idx].Navigable() {
			return idx, true
		}
	}
	return 0, false
}
