package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration.
type Config struct {
	ContentPath string `validate:"required"`
	AssetDir    string
	SaveDir     string `validate:"required"`

	LogLevel  string `validate:"oneof=debug info warn warning error DEBUG INFO WARN ERROR"`
	LogFormat string `validate:"oneof=text json"`
	LogDir    string

	// Optional integrations; empty disables them.
	GeminiAPIKey string
	MetricsAddr  string
	Audio        bool

	InventoryWidth  int `validate:"min=1,max=40"`
	InventoryHeight int `validate:"min=1,max=20"`
	ShopWidth       int `validate:"min=1,max=40"`
	ShopHeight      int `validate:"min=1,max=20"`

	ShopMaxItems    int           `validate:"min=1"`
	RevealBase      time.Duration `validate:"min=0"`
	RevealPerRarity time.Duration `validate:"min=0"`
	RevealMin       time.Duration `validate:"min=0"`
	Countdown       time.Duration `validate:"min=0"`
	PhaseDuration   time.Duration `validate:"gt=0"`
	RefreshInterval time.Duration `validate:"min=0"`
	RarityWeights   []float64     `validate:"min=1,dive,min=0"`
	Seed            uint64
}

// LoadConfig loads the configuration from environment variables, reading a
// .env file first when one exists.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ContentPath:  getEnv("CONTENT_PATH", "content/items.json"),
		AssetDir:     getEnv("ASSET_DIR", "assets"),
		SaveDir:      getEnv("SAVE_DIR", ".saves"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		LogFormat:    getEnv("LOG_FORMAT", "text"),
		LogDir:       getEnv("LOG_DIR", "logs"),
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		MetricsAddr:  os.Getenv("METRICS_ADDR"),
	}

	var err error
	if cfg.Audio, err = getBool("AUDIO", true); err != nil {
		return nil, err
	}
	ints := []struct {
		key string
		def int
		dst *int
	}{
		{"INVENTORY_WIDTH", 10, &cfg.InventoryWidth},
		{"INVENTORY_HEIGHT", 8, &cfg.InventoryHeight},
		{"SHOP_WIDTH", 10, &cfg.ShopWidth},
		{"SHOP_HEIGHT", 8, &cfg.ShopHeight},
		{"SHOP_MAX_ITEMS", 6, &cfg.ShopMaxItems},
	}
	for _, i := range ints {
		if *i.dst, err = getInt(i.key, i.def); err != nil {
			return nil, err
		}
	}
	durations := []struct {
		key string
		def time.Duration
		dst *time.Duration
	}{
		{"REVEAL_BASE", time.Second, &cfg.RevealBase},
		{"REVEAL_PER_RARITY", 500 * time.Millisecond, &cfg.RevealPerRarity},
		{"REVEAL_MIN", 250 * time.Millisecond, &cfg.RevealMin},
		{"COUNTDOWN", 3 * time.Second, &cfg.Countdown},
		{"PHASE_DURATION", 2 * time.Minute, &cfg.PhaseDuration},
		{"REFRESH_INTERVAL", 20 * time.Second, &cfg.RefreshInterval},
	}
	for _, d := range durations {
		if *d.dst, err = getDuration(d.key, d.def); err != nil {
			return nil, err
		}
	}
	if cfg.RarityWeights, err = parseWeights(getEnv("RARITY_WEIGHTS", "100,75,50,25")); err != nil {
		return nil, err
	}
	seed, err := strconv.ParseUint(getEnv("SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid SEED value: %w", err)
	}
	cfg.Seed = seed

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return n, nil
}

func getBool(key string, def bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return b, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value: %w", key, err)
	}
	return d, nil
}

func parseWeights(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		w, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid RARITY_WEIGHTS entry %q: %w", p, err)
		}
		out = append(out, w)
	}
	return out, nil
}
