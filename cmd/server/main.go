package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/iudanet/expensekeeper/internal/auth"
	"github.com/iudanet/expensekeeper/internal/config"
	"github.com/iudanet/expensekeeper/internal/server"
	"github.com/iudanet/expensekeeper/internal/server/storage/sqlite"
	"github.com/iudanet/expensekeeper/internal/server/token"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(ctx, cfg.SQLiteDBPath)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer store.Close()

	revocation, closeRevocation, err := newRevocationList(cfg)
	if err != nil {
		return err
	}
	defer closeRevocation()

	tokens := token.NewService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	handler := server.NewHandler(server.Deps{
		Logger:     logger,
		Config:     cfg,
		Users:      store,
		Expenses:   store,
		Tokens:     tokens,
		Revocation: revocation,
	})

	logger.Info("starting expensekeeper server",
		"version", Version,
		"address", cfg.Address,
		"revocation_store", cfg.RevocationStore,
	)

	return server.New(cfg.Address, handler, logger).Run(ctx)
}

// newRevocationList picks the revocation backend from config
// The in-memory list forgets revocations on restart; the bolt list persists
func newRevocationList(cfg *config.Config) (auth.RevocationChecker, func(), error) {
	if cfg.RevocationStore == config.RevocationStoreBolt {
		list, err := auth.NewBoltRevocationList(cfg.RevocationDBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open revocation store: %w", err)
		}
		return list, func() { _ = list.Close() }, nil
	}

	return auth.NewMemoryRevocationList(), func() {}, nil
}

func printVersion() {
	fmt.Printf("ExpenseKeeper Server\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
