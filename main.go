package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Johann-FullHD/ChatTags/commands"
	"github.com/Johann-FullHD/ChatTags/internal/config"
	"github.com/Johann-FullHD/ChatTags/internal/game"
	"github.com/Johann-FullHD/ChatTags/internal/tags"
)

const shutdownSaveTimeout = 10 * time.Second

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "TCP address to listen on")
	flag.StringVar(&cfg.AdminAccount, "admin", cfg.AdminAccount, "Account granted administrator privileges")
	flag.BoolVar(&cfg.EveryoneAdmin, "everyone-admin", cfg.EveryoneAdmin, "Grant administrator privileges to all players")
	flag.StringVar(&cfg.AccountsPath, "accounts", cfg.AccountsPath, "Path to the player accounts database")
	flag.StringVar(&cfg.StoreBackend, "store", cfg.StoreBackend, "Tag storage backend (yaml or sqlite)")
	flag.StringVar(&cfg.StorePath, "tags", cfg.StorePath, "Path to the tag store")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	accounts, err := game.NewAccountManager(cfg.AccountsPath)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	accounts.SetAdminAccount(cfg.AdminAccount)

	world := game.NewWorld(logger)
	world.ConfigurePrivileges(cfg.EveryoneAdmin)
	world.SetDefaultPermissions(cfg.Permissions())

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	manager, err := tags.NewManager(store, world,
		tags.WithRules(cfg.Rules()),
		tags.WithLogger(logger.With("component", "tags")),
	)
	if err != nil {
		return fmt.Errorf("create tag manager: %w", err)
	}
	if err := manager.Load(ctx); err != nil {
		logger.Error("could not load player tags, starting empty", "error", err)
	}
	world.AttachHooks(manager)
	manager.SyncOnline()

	serveErr := game.ListenAndServe(ctx, cfg.Addr, world, accounts, commands.NewDispatcher(manager))

	saveCtx, cancel := context.WithTimeout(context.Background(), shutdownSaveTimeout)
	defer cancel()
	if err := manager.Save(saveCtx); err != nil {
		logger.Error("final tag save failed", "error", err)
	}
	return serveErr
}

func openStore(cfg *config.Config, logger *slog.Logger) (tags.Storage, error) {
	switch cfg.Backend() {
	case config.BackendSQLite:
		store, err := tags.OpenSQLiteStore(cfg.StorePath)
		if err != nil {
			return nil, fmt.Errorf("open tag database: %w", err)
		}
		logger.Info("tag store opened", "backend", "sqlite", "path", cfg.StorePath)
		return store, nil
	default:
		store := tags.NewYAMLStore(cfg.StorePath, logger)
		if store.Path() == "" {
			logger.Warn("tag store has no path; tags will not persist")
		} else {
			logger.Info("tag store opened", "backend", "yaml", "path", store.Path())
		}
		return store, nil
	}
}
