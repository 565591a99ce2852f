// Package sprites resolves an item's resource key to the glyph and color
// used to draw it.
package sprites

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"gopkg.in/yaml.v3"
)

const (
	defaultCacheSize = 256
	defaultTTL       = 10 * time.Minute
	fallbackColor    = "#AAAAAA"
)

// Sprite is how an item looks on the grid.
type Sprite struct {
	Glyph string `yaml:"glyph"`
	Color string `yaml:"color"`
	// Fallback is set when the resource could not be loaded.
	Fallback bool `yaml:"-"`
}

// Store loads sprite files from a directory and keeps recent ones in memory.
// A key "icons/quill" reads dir/icons/quill.yaml.
type Store struct {
	dir   string
	cache *expirable.LRU[string, Sprite]
}

// NewStore creates a store rooted at dir.
func NewStore(dir string) *Store {
	return &Store{
		dir:   dir,
		cache: expirable.NewLRU[string, Sprite](defaultCacheSize, nil, defaultTTL),
	}
}

// Lookup returns the sprite for key. Missing or malformed resources produce
// a fallback glyph built from the key and log a warning once per cache
// lifetime.
func (s *Store) Lookup(key string) Sprite {
	if sp, ok := s.cache.Get(key); ok {
		return sp
	}
	sp, err := s.load(key)
	if err != nil {
		slog.Warn("sprite unavailable, using fallback", "key", key, "error", err)
		sp = Fallback(key)
	}
	s.cache.Add(key, sp)
	return sp
}

// Invalidate drops cached sprites, e.g. after the asset directory changed.
func (s *Store) Invalidate() { s.cache.Purge() }

func (s *Store) load(key string) (Sprite, error) {
	if key == "" {
		return Sprite{}, fmt.Errorf("empty resource key")
	}
	clean := filepath.Clean("/" + key)[1:] // keep lookups inside dir
	data, err := os.ReadFile(filepath.Join(s.dir, clean+".yaml"))
	if err != nil {
		return Sprite{}, err
	}
	var sp Sprite
	if err := yaml.Unmarshal(data, &sp); err != nil {
		return Sprite{}, err
	}
	if utf8.RuneCountInString(sp.Glyph) == 0 {
		return Sprite{}, fmt.Errorf("sprite %q has no glyph", key)
	}
	if sp.Color == "" {
		sp.Color = fallbackColor
	}
	return sp, nil
}

// Fallback builds a placeholder from the first letter of the key's last
// path element.
func Fallback(key string) Sprite {
	base := key[strings.LastIndex(key, "/")+1:]
	glyph := "?"
	for _, r := range base {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			glyph = string(unicode.ToUpper(r))
			break
		}
	}
	return Sprite{Glyph: glyph, Color: fallbackColor, Fallback: true}
}
