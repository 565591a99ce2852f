package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/go-playground/validator/v10"
)

// Sentinel errors for catalog loading.
var (
	ErrNoItems     = errors.New("no item definitions")
	ErrDuplicateID = errors.New("duplicate item id")
	ErrInvalidItem = errors.New("invalid item definition")
)

// Catalog is the immutable set of item definitions.
type Catalog struct {
	items []*Definition
	byID  map[int]*Definition
}

type catalogFile struct {
	Items []*Definition `json:"items"`
}

// LoadCatalog reads and parses a content file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read content file: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog accepts either {"items": [...]} or a bare array.
func ParseCatalog(data []byte) (*Catalog, error) {
	var defs []*Definition
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &defs); err != nil {
			return nil, fmt.Errorf("failed to parse content file: %w", err)
		}
	} else {
		var f catalogFile
		if err := json.Unmarshal(trimmed, &f); err != nil {
			return nil, fmt.Errorf("failed to parse content file: %w", err)
		}
		defs = f.Items
	}
	return NewCatalog(defs...)
}

// NewCatalog validates defs and indexes them by id.
func NewCatalog(defs ...*Definition) (*Catalog, error) {
	if len(defs) == 0 {
		return nil, ErrNoItems
	}
	v := validator.New()
	c := &Catalog{byID: make(map[int]*Definition, len(defs))}
	for i, d := range defs {
		if d == nil {
			return nil, fmt.Errorf("%w: entry %d is null", ErrInvalidItem, i)
		}
		if err := v.Struct(d); err != nil {
			return nil, fmt.Errorf("%w: entry %d (%q): %v", ErrInvalidItem, i, d.Name, err)
		}
		if _, dup := c.byID[d.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, d.ID)
		}
		if d.Size.W == 0 || d.Size.H == 0 {
			d.resolveFootprint()
		}
		c.byID[d.ID] = d
		c.items = append(c.items, d)
	}
	sort.Slice(c.items, func(i, j int) bool { return c.items[i].ID < c.items[j].ID })
	return c, nil
}

// ByID looks up a definition.
func (c *Catalog) ByID(id int) (*Definition, bool) {
	d, ok := c.byID[id]
	return d, ok
}

// All returns definitions ordered by id.
func (c *Catalog) All() []*Definition {
	return c.items
}

// NextLevel returns the lowest-id definition at level+1 in group.
func (c *Catalog) NextLevel(group, level int) (*Definition, bool) {
	for _, d := range c.items {
		if d.Group == group && d.Level == level+1 {
			return d, true
		}
	}
	return nil, false
}

// ShopEligible returns the definitions the shop may stock: common items at
// level 1.
func (c *Catalog) ShopEligible() []*Definition {
	var out []*Definition
	for _, d := range c.items {
		if d.Type == TypeCommon && d.Level == 1 {
			out = append(out, d)
		}
	}
	return out
}

// CanCombine reports whether a and b merge into the next level of their
// group: same id, same level, same group, and a level+1 definition exists.
func (c *Catalog) CanCombine(a, b *Definition) bool {
	if a == nil || b == nil {
		return false
	}
	if a.ID != b.ID || a.Level != b.Level || a.Group != b.Group {
		return false
	}
	_, ok := c.NextLevel(a.Group, a.Level)
	return ok
}
