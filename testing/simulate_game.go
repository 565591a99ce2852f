package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/tatianab/grid-bazaar/internal/config"
	"github.com/tatianab/grid-bazaar/internal/engine"
	"github.com/tatianab/grid-bazaar/internal/logger"
	"github.com/tatianab/grid-bazaar/internal/models"
	"github.com/tatianab/grid-bazaar/internal/results"
)

const step = 100 * time.Millisecond

func main() {
	moveEvery := flag.Duration("move-every", 2*time.Second, "simulated time between player moves")
	verbose := flag.Bool("v", false, "print every engine event")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Engine logs go to stderr; -v turns on debug output.
	logCfg := logger.Config{Level: "warn", Format: cfg.LogFormat, Version: "sim"}
	if *verbose {
		logCfg = logger.DevelopmentConfig()
	}
	if _, err := logger.Setup(logCfg); err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}

	catalog, err := models.LoadCatalog(cfg.ContentPath)
	if err != nil {
		log.Fatalf("Failed to load items: %v", err)
	}

	opts := engine.OptionsFromConfig(cfg)
	store := models.NewStore()
	opts.Store = store
	eng := engine.New(catalog, opts)
	rng := rand.New(rand.NewPCG(cfg.Seed, 7))

	eng.Subscribe(engine.ListenerFunc(func(ev engine.Event) {
		if !*verbose && ev.Kind != engine.EventRevealed && ev.Kind != engine.EventCombined && ev.Kind != engine.EventPhase {
			return
		}
		name := ""
		if ev.Item != nil {
			name = ev.Item.Def.Name
		}
		fmt.Printf("[%s] %-10s %-9s %s %s\n", clock(opts, eng), ev.Kind, ev.Grid, name, ev.Detail)
	}))

	fmt.Println("--- Simulating one phase ---")
	since := time.Duration(0)
	moves := 0
	for eng.Phase() != engine.PhaseOver {
		eng.Tick(step)
		since += step
		if eng.Phase() != engine.PhasePlaying || since < *moveEvery {
			continue
		}
		since = 0
		if move(eng, rng) {
			moves++
		}
	}

	snap, _ := store.Get()
	s := results.Summarize(eng.Inventory().Items(), snap)
	fmt.Printf("\n--- Results after %d moves ---\n", moves)
	fmt.Printf("Items kept: %d\n", s.Items)
	for _, l := range s.Highlights {
		fmt.Printf("  %dx %s (level %d)\n", l.Count, l.Name, l.Level)
	}
	fmt.Printf("Totals: charm=%d knowledge=%d talent=%d wealth=%d\n",
		s.Totals.Charm, s.Totals.Knowledge, s.Totals.Talent, s.Totals.Wealth)

	var chron results.Chronicler = results.Local{}
	if cfg.GeminiAPIKey != "" {
		g, err := results.NewGemini(ctx, cfg.GeminiAPIKey)
		if err != nil {
			log.Printf("Chronicle model unavailable: %v", err)
		} else {
			chron = g
		}
	}
	defer chron.Close()
	e := results.WithFallback(ctx, chron, s)
	fmt.Printf("\n%s\n%s\n", e.Title, e.Text)
}

// move takes one revealed item and drops it on a random inventory cell. An
// inventory item with a twin is preferred so combinations get exercised.
func move(eng *engine.Engine, rng *rand.Rand) bool {
	src, dst := pickPair(eng)
	if src == nil {
		return false
	}
	if _, err := eng.BeginDrag(src.GridID, src.Pos.X, src.Pos.Y); err != nil {
		log.Printf("Pick up failed: %v", err)
		return false
	}

	inv := eng.Inventory()
	x, y := rng.IntN(inv.Width()), rng.IntN(inv.Height())
	if dst != nil {
		x, y = dst.Pos.X, dst.Pos.Y
	}
	res, err := eng.Drop(engine.InventoryGrid, x, y)
	if err != nil || res.Outcome == engine.Rejected {
		eng.CancelDrag()
		return false
	}
	return true
}

func pickPair(eng *engine.Engine) (src, dst *models.Item) {
	shop := revealed(eng.Shop().Items())
	inv := revealed(eng.Inventory().Items())
	for _, a := range shop {
		for _, b := range inv {
			if eng.Catalog().CanCombine(a.Def, b.Def) && a.Rotated == b.Rotated {
				return a, b
			}
		}
	}
	for i, a := range inv {
		for _, b := range inv[i+1:] {
			if eng.Catalog().CanCombine(a.Def, b.Def) && a.Rotated == b.Rotated {
				return a, b
			}
		}
	}
	if len(shop) > 0 {
		return shop[0], nil
	}
	return nil, nil
}

func revealed(items []*models.Item) []*models.Item {
	var out []*models.Item
	for _, it := range items {
		if it.State() == models.Revealed {
			out = append(out, it)
		}
	}
	return out
}

func clock(opts engine.Options, eng *engine.Engine) string {
	if eng.Phase() == engine.PhaseCountdown {
		return "--:--"
	}
	elapsed := opts.PhaseDuration - eng.TimeLeft()
	return fmt.Sprintf("%02d:%02d", int(elapsed.Minutes()), int(elapsed.Seconds())%60)
}
