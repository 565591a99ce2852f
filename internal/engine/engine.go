// Package engine runs one game session: the two grids, the drag and drop
// rules, the shop restock loop and the phase timers. It has no clock of its
// own; a driver calls Tick with the elapsed time.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/tatianab/grid-bazaar/internal/audio"
	"github.com/tatianab/grid-bazaar/internal/config"
	"github.com/tatianab/grid-bazaar/internal/grid"
	"github.com/tatianab/grid-bazaar/internal/metrics"
	"github.com/tatianab/grid-bazaar/internal/models"
	"github.com/tatianab/grid-bazaar/internal/rarity"
)

// Grid identifiers.
const (
	InventoryGrid = "inventory"
	ShopGrid      = "shop"
)

var (
	ErrNotPlaying     = errors.New("game is not in the playing phase")
	ErrUnknownGrid    = errors.New("unknown grid")
	ErrAlreadyHolding = errors.New("already holding an item")
	ErrNotHolding     = errors.New("not holding an item")
)

// Phase is the session's coarse state.
type Phase int

const (
	PhaseCountdown Phase = iota
	PhasePlaying
	PhaseOver
)

func (p Phase) String() string {
	switch p {
	case PhaseCountdown:
		return "countdown"
	case PhasePlaying:
		return "playing"
	case PhaseOver:
		return "over"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Options configures an Engine.
type Options struct {
	InventoryWidth, InventoryHeight int
	ShopWidth, ShopHeight           int
	ShopMaxItems                    int

	Reveal          RevealTiming
	Countdown       time.Duration
	PhaseDuration   time.Duration
	RefreshInterval time.Duration // zero disables automatic refresh
	Weights         rarity.Table

	Rand  *rand.Rand
	Audio audio.Player
	Store *models.Store
}

// OptionsFromConfig maps application configuration onto engine options.
func OptionsFromConfig(cfg *config.Config) Options {
	seed := cfg.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return Options{
		InventoryWidth:  cfg.InventoryWidth,
		InventoryHeight: cfg.InventoryHeight,
		ShopWidth:       cfg.ShopWidth,
		ShopHeight:      cfg.ShopHeight,
		ShopMaxItems:    cfg.ShopMaxItems,
		Reveal: RevealTiming{
			Base:      cfg.RevealBase,
			PerRarity: cfg.RevealPerRarity,
			Min:       cfg.RevealMin,
		},
		Countdown:       cfg.Countdown,
		PhaseDuration:   cfg.PhaseDuration,
		RefreshInterval: cfg.RefreshInterval,
		Weights:         rarity.Table{Weights: cfg.RarityWeights},
		Rand:            rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
}

// Engine owns one game session.
type Engine struct {
	opts    Options
	catalog *models.Catalog
	rng     *rand.Rand
	audio   audio.Player
	store   *models.Store

	inventory *grid.Grid
	shop      *grid.Grid
	// shopItems are the items currently sitting on the shop grid, or that
	// sat there when last seen; the next refresh sorts them out.
	shopItems []*models.Item
	reveals   *RevealQueue
	held      *heldItem

	phase       Phase
	phaseLeft   time.Duration
	refreshLeft time.Duration
	round       int
	totals      models.Attributes
	listeners   []Listener
}

// New creates an engine in the countdown phase. If the store holds a
// snapshot from a previous round, the grids are rebuilt from it.
func New(catalog *models.Catalog, opts Options) *Engine {
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if opts.Audio == nil {
		opts.Audio = audio.Nop{}
	}
	if opts.Store == nil {
		opts.Store = models.NewStore()
	}
	if len(opts.Weights.Weights) == 0 {
		opts.Weights = rarity.Table{Weights: rarity.DefaultWeights}
	}
	e := &Engine{
		opts:    opts,
		catalog: catalog,
		rng:     opts.Rand,
		audio:   opts.Audio,
		store:   opts.Store,
	}
	e.reveals = NewRevealQueue(opts.Reveal)
	e.reveals.OnStart = func(it *models.Item) {
		e.emit(Event{Kind: EventSearching, Item: it, Grid: it.GridID})
	}
	e.reveals.OnDone = e.onRevealed

	e.resetGrids()
	if snap, ok := e.store.Get(); ok {
		e.Restore(snap)
	}
	e.enterCountdown()
	return e
}

// Subscribe registers a listener for engine events.
func (e *Engine) Subscribe(l Listener) {
	e.listeners = append(e.listeners, l)
}

func (e *Engine) Catalog() *models.Catalog  { return e.catalog }
func (e *Engine) Phase() Phase              { return e.phase }
func (e *Engine) Round() int                { return e.round }
func (e *Engine) Totals() models.Attributes { return e.totals }
func (e *Engine) Reveals() *RevealQueue     { return e.reveals }
func (e *Engine) Inventory() *grid.Grid     { return e.inventory }
func (e *Engine) Shop() *grid.Grid          { return e.shop }

// TimeLeft is the time remaining in the countdown or playing phase.
func (e *Engine) TimeLeft() time.Duration { return e.phaseLeft }

// RefreshLeft is the time until the next automatic shop refresh.
func (e *Engine) RefreshLeft() time.Duration { return e.refreshLeft }

// Grid returns a grid by id.
func (e *Engine) Grid(id string) (*grid.Grid, error) {
	switch id {
	case InventoryGrid:
		return e.inventory, nil
	case ShopGrid:
		return e.shop, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownGrid, id)
}

// Tick advances every timer by dt: the countdown, the phase clock, the
// automatic refresh, and the reveal queue.
func (e *Engine) Tick(dt time.Duration) {
	if dt <= 0 {
		return
	}
	switch e.phase {
	case PhaseCountdown:
		if dt < e.phaseLeft {
			e.phaseLeft -= dt
			return
		}
		dt -= e.phaseLeft
		e.startPlaying()
		e.tickPlaying(dt)
	case PhasePlaying:
		e.tickPlaying(dt)
	}
}

func (e *Engine) tickPlaying(dt time.Duration) {
	// The phase ends partway through this tick; only the part before the
	// deadline counts for the shop.
	ending := dt >= e.phaseLeft
	if ending {
		dt = e.phaseLeft
	}
	e.phaseLeft -= dt

	if e.opts.RefreshInterval > 0 {
		rest := dt
		for rest >= e.refreshLeft {
			e.reveals.Advance(e.refreshLeft)
			rest -= e.refreshLeft
			e.refreshLeft = e.opts.RefreshInterval
			e.refresh()
		}
		e.refreshLeft -= rest
		e.reveals.Advance(rest)
	} else {
		e.reveals.Advance(dt)
	}
	metrics.RevealQueueDepth.Set(float64(e.reveals.Len()))

	if ending {
		e.EndPhase()
	}
}

func (e *Engine) enterCountdown() {
	e.phaseLeft = e.opts.Countdown
	e.setPhase(PhaseCountdown)
}

func (e *Engine) startPlaying() {
	e.phaseLeft = e.opts.PhaseDuration
	e.refreshLeft = e.opts.RefreshInterval
	e.setPhase(PhasePlaying)
	e.refresh()
}

func (e *Engine) setPhase(p Phase) {
	e.phase = p
	metrics.PhaseChanges.WithLabelValues(p.String()).Inc()
	slog.Info("phase changed", "phase", p, "round", e.round)
	e.emit(Event{Kind: EventPhase, Phase: p})
}

// EndPhase stops the round: any held item goes back where it came from, the
// reveal sequence is cancelled, the attributes of inventory items not yet
// counted are added to the running totals, and the snapshot is published to
// the store. Further mutations are refused until the next round starts.
func (e *Engine) EndPhase() {
	if e.phase == PhaseOver {
		return
	}
	if e.held != nil {
		e.CancelDrag()
	}
	e.reveals.Cancel()
	metrics.RevealQueueDepth.Set(0)

	for _, it := range e.inventory.Items() {
		if it.Counted {
			continue
		}
		it.Counted = true
		e.totals = e.totals.Add(it.Def.Attributes())
	}
	e.round++
	e.phaseLeft = 0
	e.setPhase(PhaseOver)
	e.store.Put(e.Snapshot())
}

// NextRound starts another round from the stored snapshot.
func (e *Engine) NextRound() {
	if snap, ok := e.store.Get(); ok {
		e.Restore(snap)
	}
	e.enterCountdown()
}

// NewGame discards all progress and starts over.
func (e *Engine) NewGame() {
	e.store.Clear()
	e.reveals.Cancel()
	e.held = nil
	for _, g := range []*grid.Grid{e.inventory, e.shop} {
		for _, it := range g.Items() {
			e.destroy(it, metrics.ReasonNewGame)
		}
	}
	e.resetGrids()
	e.round = 0
	e.totals = models.Attributes{}
	e.enterCountdown()
}

func (e *Engine) resetGrids() {
	e.inventory = grid.New(InventoryGrid, e.opts.InventoryWidth, e.opts.InventoryHeight)
	e.shop = grid.New(ShopGrid, e.opts.ShopWidth, e.opts.ShopHeight)
	e.shopItems = nil
}

func (e *Engine) requirePlaying() error {
	if e.phase != PhasePlaying {
		return ErrNotPlaying
	}
	return nil
}

func (e *Engine) onRevealed(it *models.Item) {
	metrics.RevealsCompleted.WithLabelValues(fmt.Sprint(it.Def.Rarity)).Inc()
	e.audio.Cue(it.Def.Rarity)
	e.emit(Event{Kind: EventRevealed, Item: it, Grid: it.GridID})
}

// destroy removes an item from whatever grid holds it and marks it dead.
func (e *Engine) destroy(it *models.Item, reason string) {
	if g, err := e.Grid(it.GridID); err == nil {
		g.Remove(it)
	}
	it.Destroy()
	e.untrack(it)
	metrics.ItemsDestroyed.WithLabelValues(reason).Inc()
	e.emit(Event{Kind: EventDestroyed, Item: it, Detail: reason})
}

func (e *Engine) track(it *models.Item) {
	for _, s := range e.shopItems {
		if s == it {
			return
		}
	}
	e.shopItems = append(e.shopItems, it)
}

func (e *Engine) untrack(it *models.Item) {
	for i, s := range e.shopItems {
		if s == it {
			e.shopItems = append(e.shopItems[:i], e.shopItems[i+1:]...)
			return
		}
	}
}
