package models

// Point is a grid cell coordinate with origin at the top-left.
type Point struct {
	X int `yaml:"x" json:"x"`
	Y int `yaml:"y" json:"y"`
}

// Size is a footprint in cells.
type Size struct {
	W int `yaml:"w" json:"w"`
	H int `yaml:"h" json:"h"`
}

// Rect is an anchored footprint.
type Rect struct {
	X, Y, W, H int
}

// Intersects reports whether two rectangles share at least one cell.
func (r Rect) Intersects(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Attributes are the four scalar stats carried by items and accumulated by
// the player.
type Attributes struct {
	Charm     int `yaml:"charm" json:"charm"`
	Knowledge int `yaml:"knowledge" json:"knowledge"`
	Talent    int `yaml:"talent" json:"talent"`
	Wealth    int `yaml:"wealth" json:"wealth"`
}

// Add returns the field-wise sum.
func (a Attributes) Add(b Attributes) Attributes {
	return Attributes{
		Charm:     a.Charm + b.Charm,
		Knowledge: a.Knowledge + b.Knowledge,
		Talent:    a.Talent + b.Talent,
		Wealth:    a.Wealth + b.Wealth,
	}
}

// Sub returns the field-wise difference.
func (a Attributes) Sub(b Attributes) Attributes {
	return Attributes{
		Charm:     a.Charm - b.Charm,
		Knowledge: a.Knowledge - b.Knowledge,
		Talent:    a.Talent - b.Talent,
		Wealth:    a.Wealth - b.Wealth,
	}
}

// Total is the sum of all four attributes.
func (a Attributes) Total() int {
	return a.Charm + a.Knowledge + a.Talent + a.Wealth
}

// SnapshotEntry records one placed item.
type SnapshotEntry struct {
	GridID  string      `yaml:"grid" json:"grid"`
	ItemID  int         `yaml:"item" json:"item"`
	X       int         `yaml:"x" json:"x"`
	Y       int         `yaml:"y" json:"y"`
	Rotated bool        `yaml:"rotated,omitempty" json:"rotated,omitempty"`
	State   RevealState `yaml:"state" json:"state"`
	Counted bool        `yaml:"counted,omitempty" json:"counted,omitempty"`
}

// Snapshot is the state carried from one round to the next.
type Snapshot struct {
	Round      int             `yaml:"round" json:"round"`
	Entries    []SnapshotEntry `yaml:"entries" json:"entries"`
	Attributes Attributes      `yaml:"attributes" json:"attributes"`
}
