// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/danielhkuo/collabhub/assistant"
	"github.com/danielhkuo/collabhub/cliparse"
	"github.com/danielhkuo/collabhub/db"
	"github.com/danielhkuo/collabhub/events"
	"github.com/danielhkuo/collabhub/logging"
	"github.com/danielhkuo/collabhub/middleware"
	"github.com/danielhkuo/collabhub/pubsub"
	"github.com/danielhkuo/collabhub/router"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var flags cliparse.Config

	root := &cobra.Command{
		Use:           "collabhub",
		Short:         "CollabHub freelance marketplace API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cliparse.RegisterFlags(root.PersistentFlags(), &flags)

	// setup loads .env, resolves the configuration and installs the logger.
	setup := func(cmd *cobra.Command) (cliparse.Config, func() error, error) {
		if err := cliparse.LoadDotEnv(); err != nil {
			return cliparse.Config{}, nil, err
		}
		cfg, err := cliparse.Resolve(cmd.Flags(), flags)
		if err != nil {
			slog.Error("Error parsing configuration", "error", err)
			return cliparse.Config{}, nil, err
		}
		logger, sync, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)
		if err != nil {
			return cliparse.Config{}, nil, err
		}
		slog.SetDefault(logger)
		return cfg, sync, nil
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, sync, err := setup(cmd)
			if err != nil {
				return err
			}
			defer sync()
			return runServer(cmd.Context(), cfg)
		},
	}

	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, sync, err := setup(cmd)
			if err != nil {
				return err
			}
			defer sync()

			conn, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return conn.Close()
		},
	}

	root.AddCommand(serve, migrate)
	return root
}

func openDatabase(ctx context.Context, cfg cliparse.Config) (*sql.DB, error) {
	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database connection failed", "error", err)
		return nil, err
	}
	if err := db.CreateSchema(conn); err != nil {
		conn.Close()
		slog.Error("schema creation failed", "error", err)
		return nil, err
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType)
	return conn, nil
}

func runServer(ctx context.Context, cfg cliparse.Config) error {
	dbConn, err := openDatabase(ctx, cfg)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	emitter := events.NewEmitter()
	emitter.On(events.LogPermissionErrors)
	deps := router.Dependencies{Emitter: emitter}

	// Pub/sub and rate limits go through Redis when configured
	if cfg.RedisURL != "" {
		broker, err := pubsub.NewRedisBroker(ctx, cfg.RedisURL)
		if err != nil {
			slog.Error("redis connection failed", "error", err)
			return err
		}
		defer broker.Close()
		deps.Broker = broker
		deps.Limiter = middleware.NewRedisLimiter(broker.Client())
		slog.Info("Using Redis pub/sub")
	} else {
		broker := pubsub.NewMemoryBroker()
		defer broker.Close()
		deps.Broker = broker
		deps.Limiter = middleware.NewRateLimiter()
	}

	if cfg.GenAIKey != "" {
		gen, err := assistant.NewGeminiGenerator(ctx, cfg.GenAIKey, cfg.GenAIModel)
		if err != nil {
			slog.Error("gemini client failed", "error", err)
			return err
		}
		deps.Generator = gen
		slog.Info("Proposal assistant enabled", "model", cfg.GenAIModel)
	} else {
		slog.Warn("GEMINI_API_KEY not set; proposal assistant disabled")
	}

	mux, err := router.NewRouter(dbConn, cfg, deps)
	if err != nil {
		return err
	}

	server := http.Server{
		Handler:           middleware.CORS(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(ctrlc)

	shutdownErr := make(chan error, 1)
	go func() {
		<-ctrlc
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- server.Shutdown(shutdownCtx)
	}()

	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
		return err
	}
	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	slog.Info("Server closed")
	return nil
}
