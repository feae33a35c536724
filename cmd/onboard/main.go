package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"go.uber.org/zap"

	"github.com/alexanderramin/onboard/internal/backend"
	"github.com/alexanderramin/onboard/internal/cli"
	"github.com/alexanderramin/onboard/internal/config"
	"github.com/alexanderramin/onboard/internal/db"
	"github.com/alexanderramin/onboard/internal/domain"
	"github.com/alexanderramin/onboard/internal/logging"
	"github.com/alexanderramin/onboard/internal/onboarding"
	"github.com/alexanderramin/onboard/internal/repository"
	"github.com/alexanderramin/onboard/internal/session"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgPath := config.DefaultPath()
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.Log.Mode, cfg.Log.File)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Open database
	database, err := db.OpenDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire local storage
	uow := db.NewSQLiteUnitOfWork(database)
	kv := repository.NewSQLiteLocalStore(database, uow)
	completions := repository.NewSQLiteCompletionRepo(database)

	// Wire the backend client
	var observer backend.Observer = backend.NoopObserver{}
	if cfg.API.LogCalls {
		observer = backend.NewLogObserver(logger)
	}
	client := backend.NewClient(cfg.Backend(), observer)

	app := &cli.App{
		Options:  client,
		Profiles: client,
		Starter: cli.StartFunc(func(ctx context.Context, id domain.Identity) error {
			res, err := client.Start(ctx, id)
			if err != nil {
				return err
			}
			logger.Debug("onboarding started", zap.String("user_id", res.UserID),
				zap.String("status", res.OnboardingStatus))
			return nil
		}),
		Session:     session.NewStore(kv, logger),
		Completions: completions,
		Observer:    onboarding.NewLogObserver(logger),
		Logger:      logger,
		AutoAdvance: cfg.AutoAdvance(),
		Handoff:     cfg.HandoffFor,
		ConfigPath:  cfgPath,
		Context:     ctx,
	}

	// Detect interactive terminal for the chat entrypoint.
	app.IsInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
	}

	// Execute root command
	rootCmd := cli.NewRootCmd(app)
	return rootCmd.ExecuteContext(ctx)
}
