package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "cardtracker",
		Short:         "Track sports card purchases and sales",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	// setup runs before every subcommand
	var (
		cfg    Config
		logger zerolog.Logger
	)
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = loadConfig(configPath)
		if err != nil {
			return err
		}
		logger = newLogger(os.Stdout, cfg.LogLevel)
		return nil
	}

	logFailure := func(run func(ctx context.Context) error, msg string) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			if err := run(cmd.Context()); err != nil {
				logger.Error().Err(err).Msg(msg)
				return err
			}
			return nil
		}
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		RunE: logFailure(func(ctx context.Context) error {
			return runServer(ctx, cfg, logger)
		}, "server failed"),
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema",
		RunE: logFailure(func(ctx context.Context) error {
			if err := setupDatabase(ctx, cfg, logger); err != nil {
				return err
			}
			logger.Info().Msg("migration completed successfully")
			return nil
		}, "migration failed"),
	}

	var demoPassword string
	seed := &cobra.Command{
		Use:   "seed-demo",
		Short: "Create a demo account with sample transactions (idempotent)",
		RunE: logFailure(func(ctx context.Context) error {
			return seedDemo(ctx, cfg, demoPassword, logger)
		}, "seeding demo data failed"),
	}
	seed.Flags().StringVar(&demoPassword, "password", "demo-password", "password for the demo account")

	root.AddCommand(serve, migrate, seed)
	return root
}

func runServer(ctx context.Context, cfg Config, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := openDB(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := ensureSchema(ctx, db); err != nil {
		return err
	}

	var (
		transactions TransactionStore = newPGTransactionStore(db)
		sessions     SessionStore
	)
	redisClient, err := openRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("continuing without redis: sessions kept in memory, no cache")
		sessions = newMemorySessionStore()
	} else {
		defer redisClient.Close()
		sessions = newRedisSessionStore(redisClient)
		transactions = newCachedTransactionStore(transactions, redisClient, cfg.CacheTTL, logger)
	}

	gin.SetMode(gin.ReleaseMode)
	srv := newServer(cfg, transactions, newPGUserStore(db), sessions, func(ctx context.Context) error {
		return pingDB(ctx, db)
	}, logger)
	r, err := srv.routes()
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("server starting")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}
