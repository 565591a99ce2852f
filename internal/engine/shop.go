package engine

import (
	"fmt"
	"log/slog"

	"github.com/tatianab/grid-bazaar/internal/metrics"
	"github.com/tatianab/grid-bazaar/internal/models"
	"github.com/tatianab/grid-bazaar/internal/rarity"
)

// generationAttemptFactor bounds restock attempts relative to the target
// count, so a crowded shop cannot stall the refresh.
const generationAttemptFactor = 3

// Refresh restocks the shop on demand.
func (e *Engine) Refresh() error {
	if err := e.requirePlaying(); err != nil {
		return err
	}
	e.refresh()
	if e.opts.RefreshInterval > 0 {
		e.refreshLeft = e.opts.RefreshInterval
	}
	return nil
}

// refresh clears out the old stock and generates new hidden items:
//  1. the reveal sequence is cancelled;
//  2. tracked items that left the shop are forgotten, the rest destroyed;
//  3. player items still awaiting reveal are queued again;
//  4. new items are drawn by rarity weight and queued in placement order.
func (e *Engine) refresh() {
	e.reveals.Cancel()

	tracked := e.shopItems
	e.shopItems = nil
	for _, it := range tracked {
		if it.Destroyed() || it.GridID != ShopGrid {
			continue
		}
		e.destroy(it, metrics.ReasonRefresh)
	}
	// Anything on the shop grid that slipped past tracking goes too.
	for _, it := range e.shop.Items() {
		e.destroy(it, metrics.ReasonRefresh)
	}

	for _, it := range e.inventory.Items() {
		if it.State() != models.Revealed {
			e.reveals.Enqueue(it)
		}
	}
	if e.held != nil && e.held.item.State() != models.Revealed {
		e.reveals.Enqueue(e.held.item)
	}

	generated := e.generate()
	metrics.ShopRefreshes.Inc()
	metrics.RevealQueueDepth.Set(float64(e.reveals.Len()))
	slog.Debug("shop refreshed", "generated", generated, "queued", e.reveals.Len())
	e.emit(Event{Kind: EventRefreshed, Grid: ShopGrid, Detail: fmt.Sprint(generated)})
}

func (e *Engine) generate() int {
	eligible := e.catalog.ShopEligible()
	if len(eligible) == 0 {
		slog.Warn("no shop-eligible items in catalog")
		return 0
	}
	target := e.opts.ShopMaxItems
	generated := 0
	for attempt := 0; attempt < target*generationAttemptFactor && generated < target; attempt++ {
		def, _ := rarity.Pick(e.rng, e.opts.Weights, eligible, func(d *models.Definition) int { return d.Rarity })
		it := models.NewItem(def)
		p, ok := e.shop.FindSpace(def.Size.W, def.Size.H)
		if !ok && def.Size.W != def.Size.H {
			it.Rotate()
			p, ok = e.shop.FindSpace(def.Size.H, def.Size.W)
		}
		if !ok {
			continue
		}
		e.shop.Place(it, p.X, p.Y)
		it.Hide()
		e.track(it)
		e.reveals.Enqueue(it)
		generated++
		metrics.ItemsGenerated.WithLabelValues(fmt.Sprint(def.Rarity)).Inc()
		e.emit(Event{Kind: EventGenerated, Item: it, Grid: ShopGrid})
	}
	return generated
}
