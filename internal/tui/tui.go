package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tatianab/grid-bazaar/internal/engine"
	"github.com/tatianab/grid-bazaar/internal/grid"
	"github.com/tatianab/grid-bazaar/internal/input"
	"github.com/tatianab/grid-bazaar/internal/metrics"
	"github.com/tatianab/grid-bazaar/internal/models"
	"github.com/tatianab/grid-bazaar/internal/results"
	"github.com/tatianab/grid-bazaar/internal/sprites"
)

const (
	frameInterval = 50 * time.Millisecond
	holdToDrag    = 300 * time.Millisecond
	saveName      = "current"
	maxLogLines   = 6
)

type sessionState int

const (
	stateTitle sessionState = iota
	statePlaying
	stateResults
)

// Deps are the collaborators the front end drives.
type Deps struct {
	Engine     *engine.Engine
	Sprites    *sprites.Store
	Store      *models.Store
	Chronicler results.Chronicler
}

type model struct {
	state     sessionState
	engine    *engine.Engine
	sprites   *sprites.Store
	store     *models.Store
	chronicle results.Chronicler

	pointer  *input.Pointer
	help     help.Model
	progress progress.Model
	log      *eventLog
	now      func() time.Time

	lastFrame      time.Time
	mouseX, mouseY int
	status         string
	summary        results.Summary
	entry          *results.Entry
	width, height  int
}

type frameMsg time.Time

type chronicleMsg struct {
	entry results.Entry
}

// eventLog keeps the most recent engine events for display.
type eventLog struct {
	lines []string
}

func (l *eventLog) OnEvent(ev engine.Event) {
	line := describe(ev)
	if line == "" {
		return
	}
	l.lines = append(l.lines, line)
	if len(l.lines) > maxLogLines {
		l.lines = l.lines[len(l.lines)-maxLogLines:]
	}
}

func describe(ev engine.Event) string {
	name := ""
	if ev.Item != nil {
		name = ev.Item.Def.Name
	}
	switch ev.Kind {
	case engine.EventCombined:
		return fmt.Sprintf("Combined into %s", name)
	case engine.EventRelocated:
		return fmt.Sprintf("%s was pushed into the shop", name)
	case engine.EventDestroyed:
		if ev.Detail == metrics.ReasonOverflow {
			return fmt.Sprintf("%s fell off the full shop", name)
		}
	case engine.EventRefreshed:
		return "The shop restocked"
	case engine.EventRevealed:
		return fmt.Sprintf("Found: %s", name)
	case engine.EventPhase:
		return fmt.Sprintf("Phase: %s", ev.Phase)
	}
	return ""
}

func NewModel(d Deps) model {
	chron := d.Chronicler
	if chron == nil {
		chron = results.Local{}
	}
	m := model{
		state:     stateTitle,
		engine:    d.Engine,
		sprites:   d.Sprites,
		store:     d.Store,
		chronicle: chron,
		pointer:   input.NewPointer(1, holdToDrag),
		help:      help.New(),
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(24), progress.WithoutPercentage()),
		log:       &eventLog{},
		now:       time.Now,
	}
	m.engine.Subscribe(m.log)
	m.applyLayout()
	return m
}

func (m model) Init() tea.Cmd {
	return nil
}

func frame() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Grids are rebuilt on new rounds, so the screen layout is reapplied
	// before every mouse lookup.
	m.applyLayout()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.state != statePlaying || tea.MouseEvent(msg).IsWheel() {
			return m, nil
		}
		m.mouseX, m.mouseY = msg.X, msg.Y
		down := msg.Action == tea.MouseActionPress ||
			(msg.Action == tea.MouseActionMotion && msg.Button == tea.MouseButtonLeft)
		for _, ev := range m.pointer.Feed(input.Sample{X: msg.X, Y: msg.Y, Down: down, At: m.now()}) {
			m.handlePointer(ev)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case frameMsg:
		if m.state != statePlaying {
			return m, nil
		}
		t := time.Time(msg)
		dt := t.Sub(m.lastFrame)
		if m.lastFrame.IsZero() || dt < 0 {
			dt = 0
		}
		m.lastFrame = t
		if m.pointer.State() == input.Pressed {
			for _, ev := range m.pointer.Feed(input.Sample{X: m.mouseX, Y: m.mouseY, Down: true, At: t}) {
				m.handlePointer(ev)
			}
		}
		m.engine.Tick(dt)
		if m.engine.Phase() == engine.PhaseOver {
			return m.showResults()
		}
		return m, frame()

	case chronicleMsg:
		m.entry = &msg.entry
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keys.Quit) {
		return m, tea.Quit
	}
	if key.Matches(msg, keys.Reload) {
		m.sprites.Invalidate()
		m.status = "Art reloaded"
		return m, nil
	}

	switch m.state {
	case stateTitle:
		if key.Matches(msg, keys.Start) {
			return m.startPlaying()
		}
		if key.Matches(msg, keys.NewGame) {
			m.engine.NewGame()
			m.log.lines = nil
			return m.startPlaying()
		}

	case statePlaying:
		switch {
		case key.Matches(msg, keys.Rotate):
			m.report(m.engine.RotateHeld())
		case key.Matches(msg, keys.Refresh):
			m.report(m.engine.Refresh())
		case key.Matches(msg, keys.Cancel):
			m.engine.CancelDrag()
			m.pointer.Reset()
		case key.Matches(msg, keys.Save):
			m.save()
		case key.Matches(msg, keys.NewGame):
			m.pointer.Reset()
			m.engine.NewGame()
			m.log.lines = nil
			m.status = "New game"
		}

	case stateResults:
		switch {
		case key.Matches(msg, keys.Start):
			m.engine.NextRound()
			return m.startPlaying()
		case key.Matches(msg, keys.NewGame):
			m.engine.NewGame()
			m.log.lines = nil
			return m.startPlaying()
		case key.Matches(msg, keys.Save):
			m.save()
		}
	}
	return m, nil
}

func (m model) startPlaying() (tea.Model, tea.Cmd) {
	m.state = statePlaying
	m.status = ""
	m.entry = nil
	m.lastFrame = time.Time{}
	m.pointer.Reset()
	m.applyLayout()
	return m, frame()
}

func (m model) showResults() (tea.Model, tea.Cmd) {
	m.state = stateResults
	m.pointer.Reset()
	snap, _ := m.store.Get()
	m.summary = results.Summarize(m.engine.Inventory().Items(), snap)
	m.entry = nil
	chron, s := m.chronicle, m.summary
	return m, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()
		return chronicleMsg{entry: results.WithFallback(ctx, chron, s)}
	}
}

// handlePointer maps pointer events onto drag operations. A drag picks up
// on DragStart and drops on release; a click picks up or drops, so both
// styles work.
func (m *model) handlePointer(ev input.Event) {
	switch ev.Kind {
	case input.DragStart:
		if m.engine.Held() == nil {
			m.pickUp(ev.X, ev.Y)
		}
	case input.Drop:
		if m.engine.Held() == nil {
			return
		}
		if !m.drop(ev.X, ev.Y) {
			m.engine.CancelDrag()
		}
	case input.Click:
		if m.engine.Held() == nil {
			m.pickUp(ev.X, ev.Y)
			return
		}
		m.drop(ev.X, ev.Y)
	}
}

func (m *model) pickUp(sx, sy int) {
	g, p, ok := m.cellAt(sx, sy)
	if !ok {
		return
	}
	it, err := m.engine.BeginDrag(g.ID(), p.X, p.Y)
	if err != nil {
		m.report(err)
		return
	}
	if it != nil {
		m.status = fmt.Sprintf("Holding %s", label(it))
	}
}

// drop reports whether the held item left the hand.
func (m *model) drop(sx, sy int) bool {
	g, p, ok := m.cellAt(sx, sy)
	if !ok {
		return false
	}
	res, err := m.engine.Drop(g.ID(), p.X, p.Y)
	if err != nil {
		m.report(err)
		return false
	}
	switch res.Outcome {
	case engine.Rejected:
		m.status = "Does not fit there"
		return false
	case engine.Combined:
		m.status = fmt.Sprintf("Made %s", res.Item.Def.Name)
	default:
		m.status = ""
		if n := len(res.Destroyed); n > 0 {
			m.status = fmt.Sprintf("%d item(s) lost to a full shop", n)
		}
	}
	return true
}

func (m *model) save() {
	snap := m.engine.Snapshot()
	if err := snap.Save(saveName); err != nil {
		slog.Error("failed to save game", "error", err)
		m.status = "Save failed"
		return
	}
	m.status = "Saved"
}

func (m *model) report(err error) {
	switch {
	case err == nil:
	case errors.Is(err, engine.ErrNotPlaying):
		m.status = "Wait for the countdown"
	case errors.Is(err, engine.ErrNotHolding):
		m.status = "Nothing in hand"
	default:
		slog.Warn("action failed", "error", err)
		m.status = err.Error()
	}
}

// cellAt finds the grid cell under a screen position.
func (m model) cellAt(sx, sy int) (*grid.Grid, models.Point, bool) {
	for _, g := range []*grid.Grid{m.engine.Inventory(), m.engine.Shop()} {
		if p, ok := g.ScreenToCell(sx, sy); ok {
			return g, p, true
		}
	}
	return nil, models.Point{}, false
}

func label(it *models.Item) string {
	if it.State() != models.Revealed {
		return "an unknown item"
	}
	s := it.Size()
	return fmt.Sprintf("%s (%dx%d)", it.Def.Name, s.W, s.H)
}

// Run starts the program and blocks until the player quits.
func Run(d Deps) error {
	p := tea.NewProgram(NewModel(d), tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	return err
}
