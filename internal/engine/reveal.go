package engine

import (
	"time"

	"github.com/tatianab/grid-bazaar/internal/models"
)

// RevealTiming scales the search delay with rarity.
type RevealTiming struct {
	Base      time.Duration
	PerRarity time.Duration
	Min       time.Duration
}

// Duration is base + perRarity*rarity, never less than Min.
func (t RevealTiming) Duration(rarity int) time.Duration {
	if rarity < 0 {
		rarity = 0
	}
	d := t.Base + time.Duration(rarity)*t.PerRarity
	return max(d, t.Min)
}

// RevealQueue reveals items strictly one at a time in FIFO order. Each item
// goes Hidden -> Searching when it reaches the head of the queue and
// Searching -> Revealed once its duration has elapsed. Time left over after
// one reveal carries into the next.
type RevealQueue struct {
	timing  RevealTiming
	pending []*models.Item
	current *models.Item
	elapsed time.Duration
	target  time.Duration

	OnStart func(*models.Item)
	OnDone  func(*models.Item)
}

// NewRevealQueue returns an empty queue.
func NewRevealQueue(t RevealTiming) *RevealQueue {
	return &RevealQueue{timing: t}
}

// Enqueue appends an item. Items already queued are ignored.
func (q *RevealQueue) Enqueue(it *models.Item) {
	if it == nil || it == q.current {
		return
	}
	for _, p := range q.pending {
		if p == it {
			return
		}
	}
	q.pending = append(q.pending, it)
}

// Cancel drops the in-flight reveal and everything pending. The item being
// searched keeps its Searching state.
func (q *RevealQueue) Cancel() {
	q.pending = nil
	q.current = nil
	q.elapsed, q.target = 0, 0
}

// Len counts pending items plus the one being searched.
func (q *RevealQueue) Len() int {
	n := len(q.pending)
	if q.current != nil {
		n++
	}
	return n
}

// Current returns the item being searched and how far along it is, in [0,1].
func (q *RevealQueue) Current() (*models.Item, float64) {
	if q.current == nil {
		return nil, 0
	}
	if q.target <= 0 {
		return q.current, 1
	}
	return q.current, float64(q.elapsed) / float64(q.target)
}

// Pending returns the items waiting behind the current one.
func (q *RevealQueue) Pending() []*models.Item {
	return q.pending
}

// Advance moves the queue forward by dt and returns the items revealed.
func (q *RevealQueue) Advance(dt time.Duration) []*models.Item {
	var revealed []*models.Item
	for {
		if q.current == nil && !q.startNext() {
			return revealed
		}
		remaining := q.target - q.elapsed
		if dt < remaining {
			q.elapsed += dt
			return revealed
		}
		dt -= remaining

		it := q.current
		q.current = nil
		q.elapsed, q.target = 0, 0
		if it.Destroyed() {
			continue
		}
		it.SetState(models.Revealed)
		revealed = append(revealed, it)
		if q.OnDone != nil {
			q.OnDone(it)
		}
	}
}

// startNext pops the next live item and marks it Searching.
func (q *RevealQueue) startNext() bool {
	for len(q.pending) > 0 {
		it := q.pending[0]
		q.pending = q.pending[1:]
		if it.Destroyed() || it.State() == models.Revealed {
			continue
		}
		it.SetState(models.Searching)
		q.current = it
		q.elapsed = 0
		q.target = q.timing.Duration(it.Def.Rarity)
		if q.OnStart != nil {
			q.OnStart(it)
		}
		return true
	}
	return false
}
