package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/chris/journal/config"
	"github.com/chris/journal/internal/discord"
	"github.com/chris/journal/internal/health"
	"github.com/chris/journal/internal/scheduler"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func newRunCmd(verbose *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the Discord bot and the weekly prompt scheduler",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel, *verbose)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()
			return run(cmd.Context(), cfg, logger)
		},
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	if cfg.DiscordToken == "" {
		return errors.New("DISCORD_BOT_TOKEN is required for run")
	}

	bot, err := discord.New(cfg.DiscordToken, logger)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, bot, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	sched, err := scheduler.New(a.companion, scheduler.Options{
		Spec:        cfg.TickCron,
		Location:    cfg.Location(),
		Concurrency: cfg.DispatchConcurrency,
		Notes:       a.db,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	if err := bot.Open(discord.NewHandler(a.companion, logger)); err != nil {
		return err
	}
	defer bot.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched.Start(ctx)
	defer sched.Stop()

	g, ctx := errgroup.WithContext(ctx)
	if cfg.HealthAddr != "" {
		srv := health.New(a.db, logger)
		g.Go(func() error { return srv.Serve(ctx, cfg.HealthAddr) })
	}
	g.Go(func() error {
		<-ctx.Done()
		return nil
	})

	logger.Info("bot is running",
		zap.String("timezone", cfg.Timezone),
		zap.String("tick", cfg.TickCron),
	)
	err = g.Wait()
	logger.Info("shutting down")
	return err
}
