package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/tatianab/grid-bazaar/internal/audio"
	"github.com/tatianab/grid-bazaar/internal/config"
	"github.com/tatianab/grid-bazaar/internal/engine"
	"github.com/tatianab/grid-bazaar/internal/logger"
	"github.com/tatianab/grid-bazaar/internal/models"
	"github.com/tatianab/grid-bazaar/internal/results"
	"github.com/tatianab/grid-bazaar/internal/server"
	"github.com/tatianab/grid-bazaar/internal/sprites"
	"github.com/tatianab/grid-bazaar/internal/tui"
)

var version = "dev"

const saveName = "current"

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := logger.Setup(logger.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Version: version,
		Dir:     cfg.LogDir,
	})
	if err != nil {
		fmt.Printf("Error setting up logging: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	models.SaveDir = cfg.SaveDir

	catalog, err := models.LoadCatalog(cfg.ContentPath)
	if err != nil {
		fmt.Printf("Error loading items: %v\n", err)
		os.Exit(1)
	}

	store := models.NewStore()
	saves, err := models.ListSaves()
	if err != nil {
		slog.Warn("cannot list saves", "error", err)
	}
	if slices.Contains(saves, saveName) {
		snap, err := models.LoadSnapshot(saveName)
		if err != nil {
			slog.Warn("ignoring unreadable save", "name", saveName, "error", err)
		} else {
			store.Put(*snap)
			slog.Info("resuming saved game", "round", snap.Round)
		}
	}

	var player audio.Player = audio.Nop{}
	if cfg.Audio {
		sp, err := audio.NewSpeaker(cfg.AssetDir)
		if err != nil {
			slog.Warn("audio disabled", "error", err)
		} else {
			player = sp
		}
	}
	defer player.Close()

	var chron results.Chronicler = results.Local{}
	if cfg.GeminiAPIKey != "" {
		g, err := results.NewGemini(ctx, cfg.GeminiAPIKey)
		if err != nil {
			slog.Warn("chronicle model unavailable", "error", err)
		} else {
			chron = g
		}
	}
	defer chron.Close()

	if cfg.MetricsAddr != "" {
		srv := server.NewServer(cfg.MetricsAddr, store)
		go func() {
			if err := srv.Start(); err != nil {
				slog.Error("debug server stopped", "error", err)
			}
		}()
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			srv.Stop(ctx)
		}()
	}

	opts := engine.OptionsFromConfig(cfg)
	opts.Audio = player
	opts.Store = store
	eng := engine.New(catalog, opts)

	if err := tui.Run(tui.Deps{
		Engine:     eng,
		Sprites:    sprites.NewStore(cfg.AssetDir),
		Store:      store,
		Chronicler: chron,
	}); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
