package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/xtding233/idle-forge/internal/config"
	"github.com/xtding233/idle-forge/internal/engine"
	"github.com/xtding233/idle-forge/internal/events"
	"github.com/xtding233/idle-forge/internal/save"
	"github.com/xtding233/idle-forge/internal/save/file"
	"github.com/xtding233/idle-forge/internal/save/sqlite"
	"github.com/xtding233/idle-forge/internal/upgrade"
)

func main() {
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to YAML config")
	flag.Parse()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*configPath, level, logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(configPath string, level *slog.LevelVar, logger *slog.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	lvl, _ := config.ParseLevel(cfg.LogLevel)
	level.Set(lvl)
	logger.Info("configuration loaded", "path", configPath, "version", cfg.Version, "storage", cfg.StorageDriver)

	store, closeStore, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	var rng upgrade.RandomSource
	if cfg.Seed != 0 {
		rng = upgrade.NewSeededRNG(cfg.Seed)
	}
	bus := events.NewSimpleBus()
	bus.Subscribe("log", func(e events.Event) {
		logger.Debug("progress", "kind", string(e.Kind), "count", e.Count)
	})
	progress := &events.Counter{}
	bus.Subscribe("progress", progress.Handle)

	eng := engine.New(
		engine.WithStore(store),
		engine.WithRNG(rng),
		engine.WithBus(bus),
		engine.WithLogger(logger),
		engine.WithStartingCurrency(cfg.StartingCurrency),
	)
	ctx := context.Background()
	_ = eng.Load(ctx) // falls back to a fresh state and logs why

	if configPath != "" {
		w := config.NewWatcher(configPath, 2*time.Second, func(path string) {
			next, err := config.Load(path)
			if err != nil {
				logger.Warn("config reload rejected", "err", err)
				return
			}
			l, _ := config.ParseLevel(next.LogLevel)
			level.Set(l)
			logger.Info("log level reloaded", "level", l.String())
		})
		w.Start()
		defer w.Stop()
	}

	var history historyLister
	if hl, ok := store.(historyLister); ok {
		history = hl
	}
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(eng, progress, history, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		logger.Info("shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", "err", err)
	}
	if err := eng.Save(shutdownCtx); err != nil {
		logger.Warn("final save failed", "err", err)
	}
	return nil
}

func openStore(cfg config.Config) (save.Store, func(), error) {
	noop := func() {}
	switch cfg.StorageDriver {
	case "file":
		s, err := file.New(cfg.StoragePath)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil
	case "sqlite":
		s, err := sqlite.Open(cfg.StoragePath, cfg.History)
		if err != nil {
			return nil, noop, err
		}
		return s, func() { _ = s.Close() }, nil
	case "memory":
		return &save.MemoryStore{}, noop, nil
	}
	return nil, noop, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
