package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/tatianab/grid-bazaar/internal/engine"
	"github.com/tatianab/grid-bazaar/internal/grid"
	"github.com/tatianab/grid-bazaar/internal/models"
)

// Screen geometry. The play view is: title, status, blank, grid labels,
// top border, then the cell rows.
const (
	cellWidth = 3
	gridTop   = 5
	gridGap   = 4
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFA500")).
			Bold(true).
			Underline(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888")).
			Italic(true)

	logStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("#3C3C3C")).
			PaddingLeft(2).
			Foreground(lipgloss.Color("#AAAAAA"))

	gridStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("#5F5F87"))

	emptyCell = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center).
			Foreground(lipgloss.Color("#3C3C3C"))

	itemCell = lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center).
			Bold(true)

	hiddenColor = lipgloss.Color("#5F5F87")

	highlightColors = map[engine.Highlight]lipgloss.Color{
		engine.HighlightInvalid:  lipgloss.Color("#5F0000"),
		engine.HighlightCombine:  lipgloss.Color("#00305F"),
		engine.HighlightFree:     lipgloss.Color("#005F00"),
		engine.HighlightDisplace: lipgloss.Color("#5F5F00"),
	}

	rarityNames = []string{"common", "uncommon", "rare", "legendary"}
)

const (
	inventoryLabel = "INVENTORY"
	shopLabel      = "SHOP"
)

// applyLayout records where each grid is drawn so mouse positions can be
// mapped back to cells.
func (m model) applyLayout() {
	inv, shop := m.engine.Inventory(), m.engine.Shop()
	inv.SetLayout(grid.Layout{OriginX: 1, OriginY: gridTop, CellW: cellWidth, CellH: 1})
	// The inventory's right border sits where a cell one past the last
	// column would start; its label may be wider still.
	border, _ := inv.CellToScreen(models.Point{X: inv.Width()})
	shopX := max(border+1, len(inventoryLabel)) + gridGap + 1
	shop.SetLayout(grid.Layout{OriginX: shopX, OriginY: gridTop, CellW: cellWidth, CellH: 1})
}

func (m model) View() string {
	switch m.state {
	case stateTitle:
		return m.titleView()
	case stateResults:
		return m.resultsView()
	}
	return m.playView()
}

func (m model) titleView() string {
	resume := ""
	if _, ok := m.store.Get(); ok {
		resume = fmt.Sprintf("A saved bazaar is waiting (round %d). Enter resumes it, n starts over.\n\n", m.engine.Round()+1)
	}
	return "\n" + titleStyle.Render("GRID BAZAAR") + "\n\n" +
		"Drag items from the shop into your inventory before time runs out.\n" +
		"Drop an item on an identical one to combine them.\n\n" +
		resume +
		helpStyle.Render("enter: start   q: quit") + "\n"
}

func (m model) playView() string {
	header := titleStyle.Render(fmt.Sprintf("GRID BAZAAR  round %d", m.engine.Round()+1))

	highlight, target, hover := m.hoverTarget()
	inv := m.renderGrid(m.engine.Inventory(), inventoryLabel, hover, target, highlight)
	shop := m.renderGrid(m.engine.Shop(), shopLabel, hover, target, highlight)
	grids := lipgloss.JoinHorizontal(lipgloss.Top, inv, strings.Repeat(" ", gridGap), shop, "  ", m.renderSide())

	lines := []string{
		header,
		statusStyle.Render(m.statusLine()),
		"",
		grids,
		"",
		m.revealLine(),
		statusStyle.Render(m.status),
		m.help.View(keys),
	}
	return strings.Join(lines, "\n")
}

func (m model) statusLine() string {
	switch m.engine.Phase() {
	case engine.PhaseCountdown:
		return fmt.Sprintf("Starting in %s", clock(m.engine.TimeLeft()))
	case engine.PhaseOver:
		return "Time is up"
	}
	s := fmt.Sprintf("Time %s", clock(m.engine.TimeLeft()))
	if left := m.engine.RefreshLeft(); left > 0 {
		s += fmt.Sprintf("   restock in %s", clock(left))
	}
	if held := m.engine.Held(); held != nil {
		s += "   holding " + label(held)
	}
	return s
}

func (m model) revealLine() string {
	it, frac := m.engine.Reveals().Current()
	if it == nil {
		return statusStyle.Render("Nothing to search")
	}
	return fmt.Sprintf("Searching %s  %s  (%d more)",
		rarityName(it.Def.Rarity), m.progress.ViewAs(frac), len(m.engine.Reveals().Pending()))
}

func (m model) renderSide() string {
	t := m.engine.Totals()
	var b strings.Builder
	b.WriteString(labelStyle.Render("TOTALS") + "\n")
	fmt.Fprintf(&b, "Charm %d\nKnowledge %d\nTalent %d\nWealth %d\n\n", t.Charm, t.Knowledge, t.Talent, t.Wealth)
	b.WriteString(labelStyle.Render("LOG") + "\n")
	for _, l := range m.log.lines {
		b.WriteString(l + "\n")
	}
	return logStyle.Render(b.String())
}

// hoverTarget returns the advisory highlight for the held item at the mouse
// position, the covered rectangle, and the grid under the mouse.
func (m model) hoverTarget() (engine.Highlight, models.Rect, *grid.Grid) {
	held := m.engine.Held()
	if held == nil {
		return engine.HighlightNone, models.Rect{}, nil
	}
	g, p, ok := m.cellAt(m.mouseX, m.mouseY)
	if !ok {
		return engine.HighlightNone, models.Rect{}, nil
	}
	s := held.Size()
	return m.engine.Evaluate(g.ID(), p.X, p.Y), models.Rect{X: p.X, Y: p.Y, W: s.W, H: s.H}, g
}

func (m model) renderGrid(g *grid.Grid, title string, hover *grid.Grid, target models.Rect, h engine.Highlight) string {
	rows := make([]string, g.Height())
	for y := range g.Height() {
		var row strings.Builder
		for x := range g.Width() {
			style := emptyCell
			text := "·"
			if it := g.At(x, y); it != nil {
				style, text = m.itemGlyph(it)
			}
			if hover == g && target.Contains(x, y) {
				if c, ok := highlightColors[h]; ok {
					style = style.Background(c)
				}
			}
			row.WriteString(style.Render(text))
		}
		rows[y] = row.String()
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		labelStyle.Render(title),
		gridStyle.Render(strings.Join(rows, "\n")),
	)
}

func (m model) itemGlyph(it *models.Item) (lipgloss.Style, string) {
	switch it.State() {
	case models.Hidden:
		return itemCell.Foreground(hiddenColor), "?"
	case models.Searching:
		return itemCell.Foreground(hiddenColor), "~"
	}
	sp := m.sprites.Lookup(it.Def.Resource)
	return itemCell.Foreground(lipgloss.Color(sp.Color)), sp.Glyph
}

func (m model) resultsView() string {
	s := m.summary
	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render(fmt.Sprintf("ROUND %d COMPLETE", s.Round)) + "\n\n")
	if m.entry != nil {
		b.WriteString(labelStyle.Render(m.entry.Title) + "\n" + m.entry.Text + "\n\n")
	} else {
		b.WriteString(statusStyle.Render("The bookkeeper is writing...") + "\n\n")
	}

	fmt.Fprintf(&b, "Items kept: %d\n", s.Items)
	for r, name := range rarityNames {
		if n := s.ByRarity[r]; n > 0 {
			fmt.Fprintf(&b, "  %s: %d\n", name, n)
		}
	}
	if s.Best != nil {
		fmt.Fprintf(&b, "Best find: %s (level %d)\n", s.Best.Name, s.Best.Level)
	}
	c, t := s.Collected, s.Totals
	fmt.Fprintf(&b, "\nThis round  charm %d  knowledge %d  talent %d  wealth %d\n", c.Charm, c.Knowledge, c.Talent, c.Wealth)
	fmt.Fprintf(&b, "Overall     charm %d  knowledge %d  talent %d  wealth %d\n\n", t.Charm, t.Knowledge, t.Talent, t.Wealth)
	b.WriteString(helpStyle.Render("enter: next round   n: new game   w: save   q: quit") + "\n")
	return b.String()
}

func rarityName(r int) string {
	if r >= 0 && r < len(rarityNames) {
		return rarityNames[r]
	}
	return fmt.Sprintf("tier %d", r)
}

func clock(d time.Duration) string {
	d = d.Round(time.Second)
	return fmt.Sprintf("%d:%02d", int(d.Minutes()), int(d.Seconds())%60)
}
