package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleContent = `{
	"items": [
		{"id": 5, "name": "Quill", "size": "1_1", "charm": 1, "knowledge": 3, "type": 0, "level": 1, "group": 2, "rarity": 0},
		{"id": 6, "name": "Golden Quill", "size": "2_1", "knowledge": 8, "type": 1, "level": 2, "group": 2, "rarity": 1},
		{"id": 7, "name": "Harp", "size": "3_2", "talent": 5, "type": 0, "level": 1, "group": 3, "rarity": 2, "pickSound": "sfx/harp.wav"},
		{"id": 8, "name": "Odd Box", "size": "wide", "wealth": 2, "type": 0, "level": 1, "group": 4, "rarity": 0}
	]
}`

func sampleCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := ParseCatalog([]byte(sampleContent))
	require.NoError(t, err)
	return c
}

func TestParseCatalog(t *testing.T) {
	c := sampleCatalog(t)
	require.Len(t, c.All(), 4)

	quill, ok := c.ByID(5)
	require.True(t, ok)
	assert.Equal(t, Size{W: 1, H: 1}, quill.Size)
	assert.Equal(t, Attributes{Charm: 1, Knowledge: 3}, quill.Attributes())

	harp, _ := c.ByID(7)
	assert.Equal(t, Size{W: 2, H: 3}, harp.Size)
	assert.Equal(t, "sfx/harp.wav", harp.PickSound)

	box, _ := c.ByID(8)
	assert.Equal(t, Size{W: 1, H: 1}, box.Size, "malformed footprint falls back to 1x1")
}

func TestParseCatalog_BareArray(t *testing.T) {
	c, err := ParseCatalog([]byte(`[{"id": 1, "name": "Coin", "size": "1_1", "level": 1}]`))
	require.NoError(t, err)
	assert.Len(t, c.All(), 1)
}

func TestParseCatalog_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		target  error
	}{
		{"empty", `{"items": []}`, ErrNoItems},
		{"duplicate", `[{"id": 1, "name": "A", "level": 1}, {"id": 1, "name": "B", "level": 1}]`, ErrDuplicateID},
		{"missing name", `[{"id": 1, "level": 1}]`, ErrInvalidItem},
		{"negative rarity", `[{"id": 1, "name": "A", "level": 1, "rarity": -1}]`, ErrInvalidItem},
		{"zero level", `[{"id": 1, "name": "A", "level": 0}]`, ErrInvalidItem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.content))
			assert.ErrorIs(t, err, tt.target)
		})
	}

	_, err := ParseCatalog([]byte(`{not json}`))
	assert.ErrorContains(t, err, "failed to parse content file")
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleContent), 0644))

	c, err := LoadCatalog(path)
	require.NoError(t, err)
	assert.Len(t, c.All(), 4)

	_, err = LoadCatalog(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorContains(t, err, "failed to read content file")
}

func TestCatalog_ShopEligible(t *testing.T) {
	c := sampleCatalog(t)
	var ids []int
	for _, d := range c.ShopEligible() {
		ids = append(ids, d.ID)
	}
	assert.Equal(t, []int{5, 7, 8}, ids)
}

func TestCatalog_CanCombine(t *testing.T) {
	c := sampleCatalog(t)
	quill, _ := c.ByID(5)
	harp, _ := c.ByID(7)

	assert.True(t, c.CanCombine(quill, quill))
	assert.False(t, c.CanCombine(quill, nil))
	assert.False(t, c.CanCombine(harp, harp), "no level 2 in group 3")

	// Each condition on its own flips eligibility.
	otherID := *quill
	otherID.ID = 99
	assert.False(t, c.CanCombine(quill, &otherID))

	otherLevel := *quill
	otherLevel.Level = 2
	assert.False(t, c.CanCombine(quill, &otherLevel))

	otherGroup := *quill
	otherGroup.Group = 9
	assert.False(t, c.CanCombine(quill, &otherGroup))

	noNext, err := NewCatalog(&Definition{ID: 5, Name: "Quill", Level: 1, Group: 2, Size: Size{W: 1, H: 1}})
	require.NoError(t, err)
	assert.False(t, noNext.CanCombine(quill, quill))
}

func TestCatalog_NextLevel(t *testing.T) {
	c := sampleCatalog(t)
	next, ok := c.NextLevel(2, 1)
	require.True(t, ok)
	assert.Equal(t, 6, next.ID)

	_, ok = c.NextLevel(2, 2)
	assert.False(t, ok)
}

func TestShippedContent(t *testing.T) {
	c, err := LoadCatalog(filepath.Join("..", "..", "content", "items.json"))
	require.NoError(t, err)
	assert.Len(t, c.ShopEligible(), 6)

	// every level-1 item can be combined at least once
	for _, d := range c.ShopEligible() {
		assert.True(t, c.CanCombine(d, d), d.Name)
		assert.Positive(t, d.Attributes().Total(), d.Name)
	}
	for _, d := range c.All() {
		assert.NotEmpty(t, d.Resource, d.Name)
	}
}
