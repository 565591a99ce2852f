package grid

import "github.com/tatianab/grid-bazaar/internal/models"

// Layout places a grid on screen: the top-left screen position of cell
// (0, 0) and the screen size of one cell.
type Layout struct {
	OriginX, OriginY int
	CellW, CellH     int
}

// SetLayout records where the grid is drawn.
func (g *Grid) SetLayout(l Layout) {
	if l.CellW < 1 {
		l.CellW = 1
	}
	if l.CellH < 1 {
		l.CellH = 1
	}
	g.layout = l
}

// ScreenToCell maps a screen position to a cell. ok is false when the
// position is outside the grid.
func (g *Grid) ScreenToCell(sx, sy int) (models.Point, bool) {
	l := g.layout
	dx, dy := sx-l.OriginX, sy-l.OriginY
	if dx < 0 || dy < 0 {
		return models.Point{}, false
	}
	p := models.Point{X: dx / l.CellW, Y: dy / l.CellH}
	return p, g.InBounds(p.X, p.Y, 1, 1)
}

// CellToScreen returns the screen position of a cell's top-left corner.
func (g *Grid) CellToScreen(p models.Point) (int, int) {
	l := g.layout
	return l.OriginX + p.X*l.CellW, l.OriginY + p.Y*l.CellH
}
