package engine

import (
	"log/slog"

	"github.com/tatianab/grid-bazaar/internal/grid"
	"github.com/tatianab/grid-bazaar/internal/metrics"
	"github.com/tatianab/grid-bazaar/internal/models"
)

type heldItem struct {
	item    *models.Item
	from    string
	origin  models.Point
	rotated bool
}

// Outcome is the result of a drop.
type Outcome int

const (
	// Rejected leaves the item in hand.
	Rejected Outcome = iota
	Placed
	Combined
)

func (o Outcome) String() string {
	switch o {
	case Placed:
		return "placed"
	case Combined:
		return "combined"
	default:
		return "rejected"
	}
}

// DropResult reports what a drop did.
type DropResult struct {
	Outcome Outcome
	// Item is the dropped item, or the new item for a combination.
	Item *models.Item
	// Displaced were evicted from the target grid; each ended up either in
	// Relocated or in Destroyed.
	Displaced []*models.Item
	Relocated []*models.Item
	Destroyed []*models.Item
}

// Highlight is advisory feedback for a hovered drop target.
type Highlight int

const (
	HighlightNone Highlight = iota
	HighlightInvalid
	HighlightCombine
	HighlightFree
	HighlightDisplace
)

// Positive reports whether the drop would land cleanly.
func (h Highlight) Positive() bool {
	return h == HighlightCombine || h == HighlightFree
}

func (h Highlight) String() string {
	switch h {
	case HighlightInvalid:
		return "invalid"
	case HighlightCombine:
		return "combine"
	case HighlightFree:
		return "free"
	case HighlightDisplace:
		return "displace"
	default:
		return "none"
	}
}

// Held returns the item in hand, or nil.
func (e *Engine) Held() *models.Item {
	if e.held == nil {
		return nil
	}
	return e.held.item
}

// BeginDrag picks up the item covering (x, y) on a grid. An empty cell
// returns nil without error.
func (e *Engine) BeginDrag(gridID string, x, y int) (*models.Item, error) {
	if err := e.requirePlaying(); err != nil {
		return nil, err
	}
	if e.held != nil {
		return nil, ErrAlreadyHolding
	}
	g, err := e.Grid(gridID)
	if err != nil {
		return nil, err
	}
	it := g.PickUp(x, y)
	if it == nil {
		return nil, nil
	}
	e.held = &heldItem{item: it, from: gridID, origin: it.Pos, rotated: it.Rotated}
	e.audio.Play(it.Def.PickSound)
	return it, nil
}

// RotateHeld turns the item in hand.
func (e *Engine) RotateHeld() error {
	if err := e.requirePlaying(); err != nil {
		return err
	}
	if e.held == nil {
		return ErrNotHolding
	}
	e.held.item.Rotate()
	return nil
}

// CancelDrag puts the held item back where it was picked up.
func (e *Engine) CancelDrag() {
	if e.held == nil {
		return
	}
	h := e.held
	e.held = nil
	h.item.Rotated = h.rotated

	g, err := e.Grid(h.from)
	if err != nil {
		slog.Error("held item has no origin grid", "item", h.item.ID, "grid", h.from)
		return
	}
	res := &DropResult{}
	if !e.placeOn(g, h.item, h.origin.X, h.origin.Y, res) {
		slog.Error("could not return held item to its origin", "item", h.item.ID, "grid", h.from)
		e.relocate(h.item, res)
	}
}

// Evaluate predicts what dropping the held item at (x, y) would do. It never
// changes any state.
func (e *Engine) Evaluate(gridID string, x, y int) Highlight {
	if e.held == nil || e.phase != PhasePlaying {
		return HighlightNone
	}
	g, err := e.Grid(gridID)
	if err != nil {
		return HighlightNone
	}
	it := e.held.item
	size := it.Size()
	if !g.InBounds(x, y, size.W, size.H) {
		return HighlightInvalid
	}
	if other := exactMatch(g, it, x, y); other != nil && e.catalog.CanCombine(it.Def, other.Def) {
		return HighlightCombine
	}
	if len(g.ItemsInRect(models.Rect{X: x, Y: y, W: size.W, H: size.H})) == 0 {
		return HighlightFree
	}
	return HighlightDisplace
}

// Drop releases the held item at (x, y). In order:
//  1. a footprint outside the grid is rejected and the item stays in hand;
//  2. if exactly one item overlaps and it has the same anchor and footprint,
//     and the two can combine, both are consumed and the next-level item is
//     placed at the anchor;
//  3. otherwise the item is placed, evicting whatever it overlaps; evicted
//     items move to free space in the shop, or are destroyed if it is full.
func (e *Engine) Drop(gridID string, x, y int) (DropResult, error) {
	if err := e.requirePlaying(); err != nil {
		return DropResult{}, err
	}
	if e.held == nil {
		return DropResult{}, ErrNotHolding
	}
	g, err := e.Grid(gridID)
	if err != nil {
		return DropResult{}, err
	}
	it := e.held.item
	size := it.Size()
	if !g.InBounds(x, y, size.W, size.H) {
		return DropResult{Outcome: Rejected, Item: it}, nil
	}

	if other := exactMatch(g, it, x, y); other != nil && e.catalog.CanCombine(it.Def, other.Def) {
		e.held = nil
		return e.combine(g, it, other, x, y), nil
	}

	e.held = nil
	res := DropResult{Outcome: Placed, Item: it}
	e.placeOn(g, it, x, y, &res)
	e.audio.Play(it.Def.PlaceSound)
	return res, nil
}

// exactMatch returns the single item overlapping the target whose anchor and
// footprint are identical to its, or nil.
func exactMatch(g *grid.Grid, it *models.Item, x, y int) *models.Item {
	size := it.Size()
	over := g.ItemsInRect(models.Rect{X: x, Y: y, W: size.W, H: size.H})
	if len(over) != 1 {
		return nil
	}
	other := over[0]
	if other == it || other.Pos != (models.Point{X: x, Y: y}) || other.Size() != size {
		return nil
	}
	return other
}

func (e *Engine) combine(g *grid.Grid, held, other *models.Item, x, y int) DropResult {
	next, _ := e.catalog.NextLevel(other.Def.Group, other.Def.Level)
	rotated := held.Rotated

	// Counted sources are folded into the result, which is counted afresh
	// at the end of the round.
	for _, src := range []*models.Item{other, held} {
		if src.Counted {
			e.totals = e.totals.Sub(src.Def.Attributes())
		}
		e.destroy(src, metrics.ReasonCombined)
	}

	merged := models.NewItem(next)
	res := DropResult{Outcome: Combined, Item: merged}
	metrics.ItemsCombined.WithLabelValues(held.Def.Name, next.Name).Inc()
	slog.Info("items combined", "source", held.Def.ID, "result", next.ID, "grid", g.ID(), "x", x, "y", y)

	merged.Rotated = rotated
	if !e.placeOn(g, merged, x, y, &res) {
		merged.Rotated = !rotated
		if !e.placeOn(g, merged, x, y, &res) {
			// The next level does not fit at the anchor in either
			// orientation; find it a home elsewhere.
			merged.Rotated = rotated
			s := merged.Size()
			if p, ok := g.FindSpace(s.W, s.H); ok {
				e.placeOn(g, merged, p.X, p.Y, &res)
			} else {
				e.relocate(merged, &res)
			}
		}
	}
	e.emit(Event{Kind: EventCombined, Item: merged, Grid: merged.GridID, Detail: held.Def.Name})
	e.audio.Play(next.PlaceSound)
	return res
}

// placeOn places it on g, relocating anything it displaces into res.
func (e *Engine) placeOn(g *grid.Grid, it *models.Item, x, y int, res *DropResult) bool {
	displaced, ok := g.Place(it, x, y)
	if !ok {
		return false
	}
	e.notePlaced(g, it)
	for _, d := range displaced {
		metrics.ItemsDisplaced.WithLabelValues(g.ID()).Inc()
		e.emit(Event{Kind: EventDisplaced, Item: d, Grid: g.ID()})
		res.Displaced = append(res.Displaced, d)
		e.relocate(d, res)
	}
	return true
}

// relocate moves an evicted item to the first free spot in the shop, or
// destroys it when there is none.
func (e *Engine) relocate(it *models.Item, res *DropResult) {
	s := it.Size()
	p, ok := e.shop.FindSpace(s.W, s.H)
	if !ok {
		slog.Warn("no room in shop for displaced item, destroying", "item", it.Def.ID)
		e.destroy(it, metrics.ReasonOverflow)
		res.Destroyed = append(res.Destroyed, it)
		return
	}
	if displaced, _ := e.shop.Place(it, p.X, p.Y); len(displaced) > 0 {
		slog.Error("free-space placement displaced items", "grid", ShopGrid, "count", len(displaced))
	}
	e.notePlaced(e.shop, it)
	res.Relocated = append(res.Relocated, it)
	e.emit(Event{Kind: EventRelocated, Item: it, Grid: ShopGrid})
}

func (e *Engine) notePlaced(g *grid.Grid, it *models.Item) {
	if g == e.shop {
		e.track(it)
	}
	metrics.ItemsPlaced.WithLabelValues(g.ID()).Inc()
	e.emit(Event{Kind: EventPlaced, Item: it, Grid: g.ID()})
}
