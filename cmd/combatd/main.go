package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/udisondev/la2go-combat/internal/clock"
	"github.com/udisondev/la2go-combat/internal/config"
	"github.com/udisondev/la2go-combat/internal/data"
	"github.com/udisondev/la2go-combat/internal/db"
	"github.com/udisondev/la2go-combat/internal/game/combat"
	"github.com/udisondev/la2go-combat/internal/game/tick"
	"github.com/udisondev/la2go-combat/internal/model"
)

const ConfigPath = "config/combatd.yaml"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("shutting down", "signal", sig)
		cancel()
	}()

	if err := run(ctx); err != nil {
		slog.Error("fatal", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfgPath := ConfigPath
	if p := os.Getenv("COMBAT_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.LoadEngine(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))
	slog.Info("config loaded",
		"path", cfgPath,
		"tickInterval", cfg.Tick.Interval,
		"workers", cfg.Tick.Workers,
		"persistEffects", cfg.PersistEffects)

	spells, err := data.LoadSpells(cfg.SpellsPath)
	if err != nil {
		return fmt.Errorf("loading spells: %w", err)
	}
	slog.Info("spell table loaded", "spells", spells.Len())

	exempt, err := cfg.Tenacity.ExemptKinds()
	if err != nil {
		return fmt.Errorf("tenacity rules: %w", err)
	}
	rules := combat.TenacityRules{
		Exempt:     make(map[model.StatusKind]bool, len(exempt)),
		MaxPercent: cfg.Tenacity.MaxPercent,
	}
	for _, k := range exempt {
		rules.Exempt[k] = true
	}

	var store *effectStore
	if cfg.PersistEffects {
		database, err := db.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to database: %w", err)
		}
		defer database.Close()

		if err := database.Migrate(ctx); err != nil {
			return fmt.Errorf("migrating database: %w", err)
		}
		store = &effectStore{repo: db.NewEffectRepository(database.Pool())}
	}

	clk := clock.NewSystem()
	events := logNotifier{}

	registry := combat.NewRegistry(combat.Deps{
		Notifier: events,
		Spells:   spells,
		Tenacity: rules,
	})
	registry.SetAttackResolver(combat.NewVitalResolver(registry, nil))

	if os.Getenv("COMBAT_DEMO") != "" {
		if err := seedDemo(ctx, registry, spells, clk, store); err != nil {
			return fmt.Errorf("seeding demo: %w", err)
		}
	}

	tickMgr := tick.NewManager(registry, clk, events, tick.Config{
		Interval: cfg.Tick.Interval,
		Workers:  cfg.Tick.Workers,
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := tickMgr.Start(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("combat tick manager: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	if store != nil {
		saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.saveAll(saveCtx, registry, clk.Now()); err != nil {
			return fmt.Errorf("saving effects: %w", err)
		}
	}
	return nil
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
