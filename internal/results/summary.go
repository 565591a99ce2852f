// Package results aggregates what the player collected for the end-of-round
// screen.
package results

import (
	"sort"

	"github.com/tatianab/grid-bazaar/internal/models"
)

// Summary is the tally of a round.
type Summary struct {
	Round      int
	Items      int
	ByRarity   map[int]int
	Collected  models.Attributes // this round's inventory
	Totals     models.Attributes // running totals across rounds
	Best       *models.Definition
	Highlights []Line
}

// Line is one row of the per-item breakdown.
type Line struct {
	Name  string
	Level int
	Count int
	Stats models.Attributes
}

// Summarize tallies the items left in the inventory together with the
// totals carried by the snapshot.
func Summarize(items []*models.Item, snap models.Snapshot) Summary {
	s := Summary{
		Round:    snap.Round,
		Items:    len(items),
		ByRarity: make(map[int]int),
		Totals:   snap.Attributes,
	}
	lines := make(map[int]*Line)
	for _, it := range items {
		d := it.Def
		s.ByRarity[d.Rarity]++
		s.Collected = s.Collected.Add(d.Attributes())
		if s.Best == nil || better(d, s.Best) {
			s.Best = d
		}
		l, ok := lines[d.ID]
		if !ok {
			l = &Line{Name: d.Name, Level: d.Level}
			lines[d.ID] = l
		}
		l.Count++
		l.Stats = l.Stats.Add(d.Attributes())
	}
	for _, l := range lines {
		s.Highlights = append(s.Highlights, *l)
	}
	sort.Slice(s.Highlights, func(i, j int) bool {
		a, b := s.Highlights[i], s.Highlights[j]
		if a.Stats.Total() != b.Stats.Total() {
			return a.Stats.Total() > b.Stats.Total()
		}
		return a.Name < b.Name
	})
	return s
}

// better ranks by level, then rarity, then attribute total.
func better(a, b *models.Definition) bool {
	if a.Level != b.Level {
		return a.Level > b.Level
	}
	if a.Rarity != b.Rarity {
		return a.Rarity > b.Rarity
	}
	return a.Attributes().Total() > b.Attributes().Total()
}
