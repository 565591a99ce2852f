package engine

import (
	"log/slog"

	"github.com/tatianab/grid-bazaar/internal/grid"
	"github.com/tatianab/grid-bazaar/internal/models"
)

// Snapshot records every placed item and the running totals.
func (e *Engine) Snapshot() models.Snapshot {
	snap := models.Snapshot{Round: e.round, Attributes: e.totals}
	for _, g := range []*grid.Grid{e.inventory, e.shop} {
		for _, it := range g.Items() {
			snap.Entries = append(snap.Entries, models.SnapshotEntry{
				GridID:  g.ID(),
				ItemID:  it.Def.ID,
				X:       it.Pos.X,
				Y:       it.Pos.Y,
				Rotated: it.Rotated,
				State:   it.State(),
				Counted: it.Counted,
			})
		}
	}
	return snap
}

// Restore replaces both grids with fresh ones built from snap. Entries that
// name an unknown item or grid, or that no longer fit, are skipped with a
// warning.
func (e *Engine) Restore(snap models.Snapshot) {
	e.reveals.Cancel()
	e.held = nil
	e.resetGrids()
	e.round = snap.Round
	e.totals = snap.Attributes

	for _, en := range snap.Entries {
		def, ok := e.catalog.ByID(en.ItemID)
		if !ok {
			slog.Warn("snapshot references unknown item", "item", en.ItemID)
			continue
		}
		g, err := e.Grid(en.GridID)
		if err != nil {
			slog.Warn("snapshot references unknown grid", "grid", en.GridID)
			continue
		}
		it := models.NewItem(def)
		it.Rotated = en.Rotated
		it.Counted = en.Counted
		it.ResetState(en.State)
		displaced, ok := g.Place(it, en.X, en.Y)
		if !ok {
			slog.Warn("snapshot entry out of bounds", "item", en.ItemID, "grid", en.GridID, "x", en.X, "y", en.Y)
			continue
		}
		for _, d := range displaced {
			slog.Error("snapshot entries overlap", "grid", en.GridID, "dropped", d.Def.ID)
			d.Destroy()
			e.untrack(d)
		}
		if g == e.shop {
			e.track(it)
		}
	}
}
