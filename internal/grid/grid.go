// Package grid implements the slot-occupancy table that items are placed on.
//
// Every cell holds at most one item reference. An item covering several
// cells is referenced by each of them, so the table answers both "what is
// here" and "what is in this area" queries without a separate index.
package grid

import (
	"log/slog"

	"github.com/tatianab/grid-bazaar/internal/models"
)

// Grid is a fixed-size occupancy table.
type Grid struct {
	id     string
	width  int
	height int
	cells  []*models.Item // row-major, len = width*height
	placed map[*models.Item]models.Rect
	layout Layout
}

// New creates an empty grid.
func New(id string, width, height int) *Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Grid{
		id:     id,
		width:  width,
		height: height,
		cells:  make([]*models.Item, width*height),
		placed: make(map[*models.Item]models.Rect),
		layout: Layout{CellW: 1, CellH: 1},
	}
}

func (g *Grid) ID() string  { return g.id }
func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// InBounds reports whether a w x h footprint anchored at (x, y) lies
// entirely inside the grid.
func (g *Grid) InBounds(x, y, w, h int) bool {
	if x < 0 || y < 0 || w < 1 || h < 1 {
		return false
	}
	return x+w <= g.width && y+h <= g.height
}

// At returns the item occupying a cell, or nil.
func (g *Grid) At(x, y int) *models.Item {
	if !g.InBounds(x, y, 1, 1) {
		return nil
	}
	return g.cells[y*g.width+x]
}

// ItemsInRect returns every distinct item with at least one cell inside r,
// in row-major order of first appearance. Parts of r outside the grid are
// ignored.
func (g *Grid) ItemsInRect(r models.Rect) []*models.Item {
	x0, y0 := max(r.X, 0), max(r.Y, 0)
	x1, y1 := min(r.X+r.W, g.width), min(r.Y+r.H, g.height)

	var out []*models.Item
	seen := make(map[*models.Item]struct{})
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			it := g.cells[y*g.width+x]
			if it == nil {
				continue
			}
			if _, ok := seen[it]; ok {
				continue
			}
			seen[it] = struct{}{}
			out = append(out, it)
		}
	}
	return out
}

// Place anchors item at (x, y). Items already covering the target footprint
// are evicted from the grid and returned; they are not destroyed. If item is
// already on this grid its old cells are released first, so re-placing it in
// its own slot displaces nothing. Place fails when the footprint is out of
// bounds or the item still sits on another grid, and then changes nothing.
func (g *Grid) Place(item *models.Item, x, y int) ([]*models.Item, bool) {
	if item == nil || item.Def == nil {
		slog.Error("grid place called without an item", "grid", g.id)
		return nil, false
	}
	if item.GridID != "" && item.GridID != g.id {
		slog.Error("item is still on another grid", "grid", g.id, "owner", item.GridID, "item", item.ID)
		return nil, false
	}
	size := item.Size()
	if !g.InBounds(x, y, size.W, size.H) {
		return nil, false
	}

	if item.GridID == g.id {
		g.clear(item)
	}

	target := models.Rect{X: x, Y: y, W: size.W, H: size.H}
	var displaced []*models.Item
	for _, other := range g.ItemsInRect(target) {
		if other == item {
			continue
		}
		if !g.placed[other].Intersects(target) {
			slog.Error("cell owner's footprint misses the target", "grid", g.id, "item", other.ID)
		}
		g.clear(other)
		other.GridID = ""
		displaced = append(displaced, other)
	}

	for cy := y; cy < y+size.H; cy++ {
		for cx := x; cx < x+size.W; cx++ {
			if prev := g.cells[cy*g.width+cx]; prev != nil && prev != item {
				slog.Error("cell still owned after displacement", "grid", g.id, "x", cx, "y", cy, "owner", prev.ID)
			}
			g.cells[cy*g.width+cx] = item
		}
	}
	item.Pos = models.Point{X: x, Y: y}
	item.GridID = g.id
	g.placed[item] = target
	return displaced, true
}

// PickUp removes and returns the item covering (x, y), or nil for an empty
// cell. The item keeps its recorded anchor so callers can put it back.
func (g *Grid) PickUp(x, y int) *models.Item {
	it := g.At(x, y)
	if it == nil {
		return nil
	}
	g.clear(it)
	it.GridID = ""
	return it
}

// Remove releases every cell owned by item.
func (g *Grid) Remove(item *models.Item) {
	if item == nil {
		return
	}
	g.clear(item)
	if item.GridID == g.id {
		item.GridID = ""
	}
}

// FindSpace returns the first anchor, scanning rows top to bottom and each
// row left to right, where a w x h footprint covers only empty cells.
func (g *Grid) FindSpace(w, h int) (models.Point, bool) {
	if w < 1 || h < 1 {
		return models.Point{}, false
	}
	for y := 0; y+h <= g.height; y++ {
		for x := 0; x+w <= g.width; x++ {
			if g.isEmpty(x, y, w, h) {
				return models.Point{X: x, Y: y}, true
			}
		}
	}
	return models.Point{}, false
}

// Items returns each distinct item on the grid once.
func (g *Grid) Items() []*models.Item {
	return g.ItemsInRect(models.Rect{W: g.width, H: g.height})
}

func (g *Grid) isEmpty(x, y, w, h int) bool {
	for cy := y; cy < y+h; cy++ {
		for cx := x; cx < x+w; cx++ {
			if g.cells[cy*g.width+cx] != nil {
				return false
			}
		}
	}
	return true
}

// clear releases the cells of the footprint item was last placed with, which
// may differ from item.Rect() if it was rotated in place. Cells in that
// footprint owned by something else indicate a broken table and are logged.
func (g *Grid) clear(item *models.Item) {
	r, ok := g.placed[item]
	if !ok {
		return
	}
	delete(g.placed, item)
	for cy := max(r.Y, 0); cy < min(r.Y+r.H, g.height); cy++ {
		for cx := max(r.X, 0); cx < min(r.X+r.W, g.width); cx++ {
			idx := cy*g.width + cx
			switch g.cells[idx] {
			case item:
				g.cells[idx] = nil
			case nil:
			default:
				slog.Error("recorded footprint overlaps another item", "grid", g.id, "item", item.ID, "x", cx, "y", cy)
			}
		}
	}
}
