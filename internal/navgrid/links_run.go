package navgrid

func (g *Graph) createRunLinks() {
	for i := range g.cells {
		cell := &g.cells[i]
		if !cell.Navigable() || cell.X+1 >= g.width {
			continue
		}
		right := &g.cells[i+1]
		if !right.Navigable() {
			continue
		}
		cell.RunLinks = append(cell.RunLinks, i+1)
		right.RunLinks = append(right.RunLinks, i)
	}
}
