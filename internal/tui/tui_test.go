package tui

import (
	"math/rand/v2"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tatianab/grid-bazaar/internal/engine"
	"github.com/tatianab/grid-bazaar/internal/grid"
	"github.com/tatianab/grid-bazaar/internal/metrics"
	"github.com/tatianab/grid-bazaar/internal/models"
	"github.com/tatianab/grid-bazaar/internal/sprites"
)

func newTestModel(t *testing.T) (model, *engine.Engine, *models.Item) {
	t.Helper()
	c, err := models.NewCatalog(&models.Definition{
		ID: 1, Name: "Quill", Type: models.TypeSpecial, Level: 1, Group: 1,
		Size: models.Size{W: 1, H: 1}, Resource: "icons/quill",
	})
	require.NoError(t, err)
	store := models.NewStore()
	e := engine.New(c, engine.Options{
		InventoryWidth: 3, InventoryHeight: 3,
		ShopWidth: 4, ShopHeight: 2,
		ShopMaxItems:  2,
		PhaseDuration: time.Minute,
		Reveal:        engine.RevealTiming{Base: time.Second},
		Rand:          rand.New(rand.NewPCG(1, 1)),
		Store:         store,
	})
	e.Tick(time.Nanosecond)
	require.Equal(t, engine.PhasePlaying, e.Phase())

	quill, _ := c.ByID(1)
	it := models.NewItem(quill)
	_, ok := e.Inventory().Place(it, 0, 0)
	require.True(t, ok)

	m := NewModel(Deps{Engine: e, Sprites: sprites.NewStore(t.TempDir()), Store: store})
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(model)
	require.Equal(t, statePlaying, m.state)
	return m, e, it
}

func send(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func press(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
}

func move(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
}

func release(x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft}
}

func TestLayout(t *testing.T) {
	_, e, _ := newTestModel(t)

	p, ok := e.Inventory().ScreenToCell(1, gridTop)
	require.True(t, ok)
	assert.Equal(t, models.Point{X: 0, Y: 0}, p)

	p, ok = e.Inventory().ScreenToCell(7, gridTop+2)
	require.True(t, ok)
	assert.Equal(t, models.Point{X: 2, Y: 2}, p)

	// inventory block is 3*3+2 wide, then the gap and the shop's border
	p, ok = e.Shop().ScreenToCell(16, gridTop+1)
	require.True(t, ok)
	assert.Equal(t, models.Point{X: 0, Y: 1}, p)

	_, ok = e.Inventory().ScreenToCell(0, gridTop)
	assert.False(t, ok, "border is not a cell")
}

func TestLayout_WideLabel(t *testing.T) {
	_, e, _ := newTestModel(t)
	inv := grid.New(engine.InventoryGrid, 2, 2)
	inv.SetLayout(grid.Layout{OriginX: 1, OriginY: gridTop, CellW: cellWidth, CellH: 1})
	x, y := inv.CellToScreen(models.Point{X: 1, Y: 1})
	assert.Equal(t, 4, x)
	assert.Equal(t, gridTop+1, y)

	// a 2-wide block (8 columns) is narrower than its 9-letter label
	m := NewModel(Deps{Engine: engine.New(e.Catalog(), engine.Options{
		InventoryWidth: 2, InventoryHeight: 2, ShopWidth: 2, ShopHeight: 2,
	}), Sprites: sprites.NewStore(t.TempDir()), Store: models.NewStore()})
	p, ok := m.engine.Shop().ScreenToCell(len(inventoryLabel)+gridGap+1, gridTop)
	require.True(t, ok)
	assert.Equal(t, models.Point{X: 0, Y: 0}, p)
}

func TestMouseDragMovesItem(t *testing.T) {
	m, e, it := newTestModel(t)

	m = send(m, press(1, gridTop), move(4, gridTop))
	require.Same(t, it, e.Held())

	m = send(m, release(4, gridTop))
	assert.Nil(t, e.Held())
	assert.Equal(t, models.Point{X: 1, Y: 0}, it.Pos)
	assert.Same(t, it, e.Inventory().At(1, 0))
	assert.Nil(t, e.Inventory().At(0, 0))
}

func TestMouseDragOutsideReturnsItem(t *testing.T) {
	m, e, it := newTestModel(t)

	send(m, press(1, gridTop), move(1, 0), release(1, 0))
	assert.Nil(t, e.Held())
	assert.Same(t, it, e.Inventory().At(0, 0))
}

func TestClickPickAndDrop(t *testing.T) {
	m, e, it := newTestModel(t)

	m = send(m, press(1, gridTop), release(1, gridTop))
	require.Same(t, it, e.Held())
	assert.Contains(t, m.status, "Quill")

	// hover shows where it would land
	m = send(m, tea.MouseMsg{X: 16, Y: gridTop, Action: tea.MouseActionMotion})
	h, r, g := m.hoverTarget()
	assert.Equal(t, engine.HighlightFree, h)
	assert.Equal(t, models.Rect{X: 0, Y: 0, W: 1, H: 1}, r)
	assert.Same(t, e.Shop(), g)

	send(m, press(16, gridTop), release(16, gridTop))
	assert.Nil(t, e.Held())
	assert.Equal(t, engine.ShopGrid, it.GridID)
}

func TestKeys(t *testing.T) {
	m, e, _ := newTestModel(t)

	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Equal(t, "Nothing in hand", m.status)

	m = send(m, press(1, gridTop), release(1, gridTop))
	require.NotNil(t, e.Held())
	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	assert.Nil(t, e.Held())

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestReloadKeyRereadsSprites(t *testing.T) {
	m, _, it := newTestModel(t)
	dir := t.TempDir()
	m.sprites = sprites.NewStore(dir)

	_, glyph := m.itemGlyph(it)
	assert.Equal(t, "Q", glyph)

	require.NoError(t, os.MkdirAll(filepath.Join(dir, "icons"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "icons", "quill.yaml"), []byte("glyph: \"✎\"\n"), 0644))
	_, glyph = m.itemGlyph(it)
	assert.Equal(t, "Q", glyph, "cached until reloaded")

	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlL})
	assert.Equal(t, "Art reloaded", m.status)
	_, glyph = m.itemGlyph(it)
	assert.Equal(t, "✎", glyph)
}

func TestSaveKey(t *testing.T) {
	dir := t.TempDir()
	old := models.SaveDir
	models.SaveDir = dir
	t.Cleanup(func() { models.SaveDir = old })

	m, _, _ := newTestModel(t)
	m = send(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("w")})
	assert.Equal(t, "Saved", m.status)

	snap, err := models.LoadSnapshot(saveName)
	require.NoError(t, err)
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, engine.InventoryGrid, snap.Entries[0].GridID)
}

func TestPhaseEndShowsResults(t *testing.T) {
	m, _, _ := newTestModel(t)
	start := time.Now()

	m = send(m, frameMsg(start))
	next, cmd := m.Update(frameMsg(start.Add(2 * time.Minute)))
	m = next.(model)

	require.Equal(t, stateResults, m.state)
	assert.Equal(t, 1, m.summary.Items)
	assert.Equal(t, 1, m.summary.Round)
	require.NotNil(t, cmd)

	m = send(m, cmd())
	require.NotNil(t, m.entry)
	assert.Equal(t, "Round 1 ledger", m.entry.Title)
	assert.Contains(t, m.View(), "ROUND 1 COMPLETE")

	m = send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, statePlaying, m.state)
}

func TestDescribe(t *testing.T) {
	it := models.NewItem(&models.Definition{ID: 1, Name: "Quill"})
	assert.Equal(t, "Found: Quill", describe(engine.Event{Kind: engine.EventRevealed, Item: it}))
	assert.Equal(t, "Quill fell off the full shop",
		describe(engine.Event{Kind: engine.EventDestroyed, Item: it, Detail: metrics.ReasonOverflow}))
	assert.Empty(t, describe(engine.Event{Kind: engine.EventDestroyed, Item: it, Detail: metrics.ReasonRefresh}))
	assert.Empty(t, describe(engine.Event{Kind: engine.EventPlaced, Item: it}))
}

func TestEventLogKeepsRecentLines(t *testing.T) {
	l := &eventLog{}
	for range maxLogLines + 3 {
		l.OnEvent(engine.Event{Kind: engine.EventRefreshed})
	}
	assert.Len(t, l.lines, maxLogLines)
}

func TestClock(t *testing.T) {
	assert.Equal(t, "1:30", clock(90*time.Second))
	assert.Equal(t, "0:03", clock(2600*time.Millisecond))
}
