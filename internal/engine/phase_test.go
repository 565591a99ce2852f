package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/grid-bazaar/internal/models"
)

func TestPhases(t *testing.T) {
	c := testCatalog(t)
	opts := testOptions()
	opts.Countdown = 3 * time.Second
	opts.PhaseDuration = 10 * time.Second
	e := New(c, opts)
	rec := &recorder{}
	e.Subscribe(rec)

	assert.Equal(t, PhaseCountdown, e.Phase())
	_, err := e.BeginDrag(InventoryGrid, 0, 0)
	assert.ErrorIs(t, err, ErrNotPlaying)

	e.Tick(2 * time.Second)
	assert.Equal(t, PhaseCountdown, e.Phase())
	assert.Equal(t, time.Second, e.TimeLeft())

	e.Tick(2 * time.Second) // one second spills into the phase
	assert.Equal(t, PhasePlaying, e.Phase())
	assert.Equal(t, 9*time.Second, e.TimeLeft())

	e.Tick(time.Hour)
	assert.Equal(t, PhaseOver, e.Phase())
	assert.Zero(t, e.TimeLeft())

	var phases []Phase
	for _, ev := range rec.events {
		if ev.Kind == EventPhase {
			phases = append(phases, ev.Phase)
		}
	}
	assert.Equal(t, []Phase{PhasePlaying, PhaseOver}, phases)
}

func TestEndPhase_FreezesAndPublishes(t *testing.T) {
	c := testCatalog(t)
	store := models.NewStore()
	opts := testOptions()
	opts.Store = store
	e := playing(t, c, opts)

	quill, _ := c.ByID(5)
	box, _ := c.ByID(7)
	put(t, e, InventoryGrid, quill, 0, 0)
	b := put(t, e, InventoryGrid, box, 1, 1)
	put(t, e, ShopGrid, quill, 3, 1)

	_, err := e.BeginDrag(InventoryGrid, 1, 1)
	require.NoError(t, err)

	e.EndPhase()
	assert.Equal(t, PhaseOver, e.Phase())
	assert.Nil(t, e.Held(), "held item goes back on phase end")
	assert.Same(t, b, e.Inventory().At(1, 1))

	// Only the inventory counts: charm = id, wealth = 1 per item.
	assert.Equal(t, models.Attributes{Charm: 12, Wealth: 2}, e.Totals())
	assert.Equal(t, 1, e.Round())

	_, err = e.BeginDrag(InventoryGrid, 0, 0)
	assert.ErrorIs(t, err, ErrNotPlaying)
	assert.ErrorIs(t, e.Refresh(), ErrNotPlaying)
	assert.ErrorIs(t, e.RotateHeld(), ErrNotPlaying)

	snap, ok := store.Get()
	require.True(t, ok)
	assert.Equal(t, 1, snap.Round)
	assert.Equal(t, e.Totals(), snap.Attributes)
	assert.Len(t, snap.Entries, 3)

	e.EndPhase() // idempotent
	assert.Equal(t, 1, e.Round())
}

func TestSnapshotRestore(t *testing.T) {
	c := testCatalog(t)
	store := models.NewStore()
	opts := testOptions()
	opts.Store = store
	e := playing(t, c, opts)

	tall, _ := c.ByID(9)
	quill, _ := c.ByID(5)
	r := put(t, e, InventoryGrid, tall, 0, 0)
	e.Inventory().Remove(r)
	r.Rotate()
	_, ok := e.Inventory().Place(r, 0, 0)
	require.True(t, ok)
	h := put(t, e, InventoryGrid, quill, 2, 2)
	h.Hide()
	e.EndPhase()

	// A fresh engine on the same store picks up where the round ended.
	next := New(c, opts)
	assert.Equal(t, PhaseCountdown, next.Phase())
	assert.Equal(t, 1, next.Round())
	assert.Equal(t, e.Totals(), next.Totals())

	restored := next.Inventory().At(0, 1)
	require.NotNil(t, restored)
	assert.Equal(t, 9, restored.Def.ID)
	assert.True(t, restored.Rotated)
	assert.NotSame(t, r, restored)

	pending := next.Inventory().At(2, 2)
	require.NotNil(t, pending)
	assert.Equal(t, models.Hidden, pending.State())

	// Starting play re-queues the unrevealed item.
	next.Tick(time.Nanosecond)
	cur, _ := next.Reveals().Current()
	assert.Same(t, pending, cur)
}

func TestRestore_SkipsBadEntries(t *testing.T) {
	c := testCatalog(t)
	e := New(c, testOptions())
	e.Restore(models.Snapshot{
		Round: 4,
		Entries: []models.SnapshotEntry{
			{GridID: InventoryGrid, ItemID: 5, X: 0, Y: 0},
			{GridID: InventoryGrid, ItemID: 404, X: 1, Y: 0},
			{GridID: "attic", ItemID: 5, X: 1, Y: 0},
			{GridID: InventoryGrid, ItemID: 7, X: 2, Y: 2},
			{GridID: ShopGrid, ItemID: 8, X: 3, Y: 1, State: models.Searching},
		},
	})
	assert.Equal(t, 4, e.Round())
	assert.Len(t, e.Inventory().Items(), 1)
	shop := e.Shop().Items()
	require.Len(t, shop, 1)
	assert.Equal(t, models.Searching, shop[0].State())
	assert.Equal(t, shop, e.shopItems)
}

func TestNextRoundAndNewGame(t *testing.T) {
	c := testCatalog(t)
	store := models.NewStore()
	opts := testOptions()
	opts.Store = store
	e := playing(t, c, opts)

	quill, _ := c.ByID(5)
	put(t, e, InventoryGrid, quill, 0, 0)
	e.EndPhase()

	e.NextRound()
	assert.Equal(t, PhaseCountdown, e.Phase())
	assert.Len(t, e.Inventory().Items(), 1)
	e.Tick(time.Nanosecond)
	assert.Equal(t, PhasePlaying, e.Phase())
	e.EndPhase()
	assert.Equal(t, 2, e.Round())
	assert.Equal(t, models.Attributes{Charm: 5, Wealth: 1}, e.Totals(), "a kept item counts once")

	e.NewGame()
	_, ok := store.Get()
	assert.False(t, ok)
	assert.Zero(t, e.Round())
	assert.Equal(t, models.Attributes{}, e.Totals())
	assert.Empty(t, e.Inventory().Items())
	assert.Equal(t, PhaseCountdown, e.Phase())
}

func TestTotals_KeptItemsCountOnce(t *testing.T) {
	c := testCatalog(t)
	store := models.NewStore()
	opts := testOptions()
	opts.Store = store
	e := playing(t, c, opts)

	quill, _ := c.ByID(5)
	put(t, e, InventoryGrid, quill, 0, 0)
	e.Tick(time.Hour)
	require.Equal(t, PhaseOver, e.Phase())
	want := models.Attributes{Charm: 5, Wealth: 1}
	assert.Equal(t, want, e.Totals())

	for round := 2; round <= 3; round++ {
		e.NextRound()
		e.Tick(time.Nanosecond)
		require.Equal(t, PhasePlaying, e.Phase())
		e.Tick(time.Hour)
		assert.Equal(t, round, e.Round())
		assert.Equal(t, want, e.Totals(), "round %d", round)
	}

	snap, ok := store.Get()
	require.True(t, ok)
	require.Len(t, snap.Entries, 1)
	assert.True(t, snap.Entries[0].Counted)
	assert.Equal(t, want, snap.Attributes)

	// the flag survives a reload
	next := New(c, opts)
	assert.True(t, next.Inventory().At(0, 0).Counted)
	next.Tick(time.Nanosecond)
	next.EndPhase()
	assert.Equal(t, want, next.Totals())
}

func TestTotals_CombiningCountedItems(t *testing.T) {
	c := testCatalog(t)
	store := models.NewStore()
	opts := testOptions()
	opts.Store = store
	e := playing(t, c, opts)

	quill, _ := c.ByID(5)
	put(t, e, InventoryGrid, quill, 0, 0)
	put(t, e, InventoryGrid, quill, 1, 0)
	e.EndPhase()
	assert.Equal(t, models.Attributes{Charm: 10, Wealth: 2}, e.Totals())

	e.NextRound()
	e.Tick(time.Nanosecond)
	_, err := e.BeginDrag(InventoryGrid, 1, 0)
	require.NoError(t, err)
	res, err := e.Drop(InventoryGrid, 0, 0)
	require.NoError(t, err)
	require.Equal(t, Combined, res.Outcome)
	assert.False(t, res.Item.Counted)

	// the merged item replaces both quills in the totals
	e.EndPhase()
	assert.Equal(t, models.Attributes{Charm: 6, Wealth: 1}, e.Totals())
	assert.True(t, res.Item.Counted)
}
