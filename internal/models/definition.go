package models

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Item types. Only common items are stocked by the shop; special items can
// only be obtained by combining.
const (
	TypeCommon  = 0
	TypeSpecial = 1
)

// Definition is the static description of an item, loaded once from the
// content file.
type Definition struct {
	ID          int    `json:"id" validate:"min=1"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Resource    string `json:"resource"`
	Footprint   string `json:"size"`

	Charm     int `json:"charm" validate:"min=0"`
	Knowledge int `json:"knowledge" validate:"min=0"`
	Talent    int `json:"talent" validate:"min=0"`
	Wealth    int `json:"wealth" validate:"min=0"`

	Type   int `json:"type" validate:"min=0"`
	Level  int `json:"level" validate:"min=1"`
	Group  int `json:"group" validate:"min=0"`
	Rarity int `json:"rarity" validate:"min=0"`

	PickSound  string `json:"pickSound,omitempty"`
	PlaceSound string `json:"placeSound,omitempty"`

	Size Size `json:"-"`
}

// Attributes returns the definition's four stats.
func (d *Definition) Attributes() Attributes {
	return Attributes{Charm: d.Charm, Knowledge: d.Knowledge, Talent: d.Talent, Wealth: d.Wealth}
}

func (d *Definition) String() string {
	return fmt.Sprintf("%s#%d(L%d)", d.Name, d.ID, d.Level)
}

// ParseFootprint decodes the compact "H_W" encoding.
func ParseFootprint(s string) (Size, error) {
	h, w, ok := strings.Cut(strings.TrimSpace(s), "_")
	if !ok {
		return Size{}, fmt.Errorf("footprint %q: missing separator", s)
	}
	height, err := strconv.Atoi(h)
	if err != nil {
		return Size{}, fmt.Errorf("footprint %q: height: %w", s, err)
	}
	width, err := strconv.Atoi(w)
	if err != nil {
		return Size{}, fmt.Errorf("footprint %q: width: %w", s, err)
	}
	if height < 1 || width < 1 {
		return Size{}, fmt.Errorf("footprint %q: dimensions must be positive", s)
	}
	return Size{W: width, H: height}, nil
}

// resolveFootprint fills Size, falling back to 1x1 on malformed input.
func (d *Definition) resolveFootprint() {
	size, err := ParseFootprint(d.Footprint)
	if err != nil {
		slog.Warn("malformed item footprint, using 1x1", "item", d.ID, "error", err)
		size = Size{W: 1, H: 1}
	}
	d.Size = size
}
