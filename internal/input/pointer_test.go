package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

func at(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

func TestPointer_Click(t *testing.T) {
	p := NewPointer(2, 300*time.Millisecond)
	assert.Nil(t, p.Feed(Sample{X: 3, Y: 4, Down: true, At: at(0)}))
	assert.Equal(t, Pressed, p.State())
	assert.Nil(t, p.Feed(Sample{X: 4, Y: 4, Down: true, At: at(50)}), "below threshold")

	evs := p.Feed(Sample{X: 4, Y: 4, Down: false, At: at(100)})
	assert.Equal(t, []Event{{Kind: Click, X: 4, Y: 4}}, evs)
	assert.Equal(t, Released, p.State())

	assert.Nil(t, p.Feed(Sample{X: 4, Y: 4, At: at(120)}))
	assert.Equal(t, Idle, p.State())
}

func TestPointer_DragByDistance(t *testing.T) {
	p := NewPointer(2, time.Second)
	p.Feed(Sample{X: 1, Y: 1, Down: true, At: at(0)})

	evs := p.Feed(Sample{X: 3, Y: 1, Down: true, At: at(10)})
	assert.Equal(t, []Event{
		{Kind: DragStart, X: 1, Y: 1},
		{Kind: DragMove, X: 3, Y: 1},
	}, evs)
	assert.Equal(t, Dragging, p.State())

	assert.Nil(t, p.Feed(Sample{X: 3, Y: 1, Down: true, At: at(20)}), "no move, no event")
	assert.Equal(t, []Event{{Kind: DragMove, X: 5, Y: 2}}, p.Feed(Sample{X: 5, Y: 2, Down: true, At: at(30)}))
	assert.Equal(t, []Event{{Kind: Drop, X: 6, Y: 2}}, p.Feed(Sample{X: 6, Y: 2, At: at(40)}))
	assert.Equal(t, Released, p.State())
}

func TestPointer_DragByHold(t *testing.T) {
	p := NewPointer(5, 300*time.Millisecond)
	p.Feed(Sample{X: 2, Y: 2, Down: true, At: at(0)})
	assert.Nil(t, p.Feed(Sample{X: 2, Y: 2, Down: true, At: at(299)}))

	evs := p.Feed(Sample{X: 2, Y: 2, Down: true, At: at(300)})
	assert.Equal(t, []Event{{Kind: DragStart, X: 2, Y: 2}}, evs)
	assert.Equal(t, Dragging, p.State())
}

func TestPointer_Reset(t *testing.T) {
	p := NewPointer(1, 0)
	p.Feed(Sample{X: 0, Y: 0, Down: true})
	p.Feed(Sample{X: 1, Y: 0, Down: true})
	assert.Equal(t, Dragging, p.State())
	p.Reset()
	assert.Equal(t, Idle, p.State())
	assert.Nil(t, p.Feed(Sample{X: 1, Y: 0}))
}

func TestPointer_ZeroDistanceMeansOneCell(t *testing.T) {
	p := NewPointer(0, 0)
	p.Feed(Sample{X: 0, Y: 0, Down: true})
	assert.Nil(t, p.Feed(Sample{X: 0, Y: 0, Down: true}))
	assert.Len(t, p.Feed(Sample{X: 0, Y: 1, Down: true}), 2)
}
