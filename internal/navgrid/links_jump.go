package navgrid

import "math"

// jumpDirections are walked in order: rightward arcs before leftward ones.
var jumpDirections = [...]int{1, -1}

func (g *Graph) createJumpLinks() {
	if g.params.JumpHeight <= 0 {
		return
	}
	for i := range g.cells {
		if !g.cells[i].Navigable() {
			continue
		}
		for height := 1; height <= g.params.JumpHeight; height++ {
			g.jumpsAtHeight(i, height)
		}
	}
}

// jumpsAtHeight simulates every arc of the given height from base. An arc
// rises straight up for offset rows, then moves one column per row until it
// reaches the apex, descends back to the base row and finally probes a short
// drop below it. The first navigable cell reached ends the arc.
func (g *Graph) jumpsAtHeight(base, height int) {
	origin := &g.cells[base]
	x, z := origin.X, origin.Z

	for _, dir := range jumpDirections {
		for offset := height - 1; offset >= 0; offset-- {
			path := []int{base}

			climbed := true
			for f := 1; f <= offset; f++ {
				if !g.InBounds(x, z+f) || !g.headroomClear(x, z+f) {
					climbed = false
					break
				}
				path = append(path, g.Index(x, z+f))
			}
			if !climbed || !g.headroomClear(x, z+1+offset) {
				continue
			}

			horizontal := 1
			done := false

			for j := 1 + offset; j <= height; j++ {
				cx, cz := x+horizontal*dir, z+j
				if !g.passable(cx, cz) {
					done = true
					break
				}
				idx := g.Index(cx, cz)
				path = append(path, idx)
				if g.cells[idx].Navigable() {
					g.addJumpLink(base, idx, height, horizontal, path)
					done = true
					break
				}
				horizontal++
			}
			if done {
				continue
			}

			for j := 1; j <= height; j++ {
				cx, cz := x+horizontal*dir, z+height-j
				if !g.passable(cx, cz) {
					done = true
					break
				}
				idx := g.Index(cx, cz)
				path = append(path, idx)
				if g.cells[idx].Navigable() {
					g.addJumpLink(base, idx, height, horizontal, path)
					done = true
					break
				}
				// The last offset rows of the descent drop straight down.
				if j < height-offset {
					horizontal++
				}
			}
			if done {
				continue
			}

			for j := 1; j <= g.params.MaxDropsAfterJump; j++ {
				cx, cz := x+horizontal*dir, z-j
				if !g.InBounds(cx, cz) || g.tiles.Solid(cx, cz) {
					break
				}
				idx := g.Index(cx, cz)
				path = append(path, idx)
				if g.cells[idx].Navigable() {
					g.addJumpLink(base, idx, height+j, horizontal, path)
					break
				}
			}
		}
	}
}

// passable reports an in-bounds open cell with clear headroom.
func (g *Graph) passable(x, z int) bool {
	if !g.InBounds(x, z) || g.tiles.Solid(x, z) {
		return false
	}
	return g.headroomClear(x, z)
}

// headroomClear checks rows z..z+BodyHeight in column x. Rows above the top
// of the map count as open sky.
func (g *Graph) headroomClear(x, z int) bool {
	if x < 0 || x >= g.width || z < 0 {
		return false
	}
	for k := 0; k <= g.params.BodyHeight; k++ {
		row := z + k
		if row >= g.height {
			break
		}
		if g.tiles.Solid(x, row) {
			return false
		}
	}
	return true
}

// addJumpLink records at most one arc per (base, target) pair; the first arc
// discovered wins.
func (g *Graph) addJumpLink(base, target, height, horizontal int, path []int) {
	origin := &g.cells[base]
	if origin.hasJumpTo(target) {
		return
	}
	edge := JumpEdge{
		Target:     target,
		Horizontal: horizontal,
		Height:     height,
		Cost:       math.Sqrt(float64(horizontal*horizontal + height*height)),
		Curve:      g.curveHint(base, target, path),
		Path:       append([]int(nil), path...),
	}
	origin.JumpLinks = append(origin.JumpLinks, edge)
}

// curveHint anchors the trajectory at the highest row the arc visits, above
// the base column and above the target column.
func (g *Graph) curveHint(base, target int, path []int) CurveHint {
	highest := 0
	found := false
	for _, idx := range path {
		if row := idx / g.width; row > highest {
			highest = row
			found = true
		}
	}
	if !found {
		return NoCurve
	}
	rowStart := highest * g.width
	return CurveHint{rowStart + base%g.width, rowStart + target%g.width}
}
