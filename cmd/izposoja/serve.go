package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/erazemk/izposoja/internal/api"
	"github.com/erazemk/izposoja/internal/config"
	"github.com/erazemk/izposoja/internal/db"
	"github.com/erazemk/izposoja/internal/events"
	"github.com/erazemk/izposoja/internal/lifecycle"
	"github.com/erazemk/izposoja/internal/logging"
	"github.com/erazemk/izposoja/internal/notify"
	"github.com/erazemk/izposoja/internal/ratelimit"
	"github.com/erazemk/izposoja/internal/store"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API server. The database is created and migrated on
first start. Stops gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		logger, closeLog, err := logging.New(cfg.LogEnv, cfg.LogFile)
		if err != nil {
			return err
		}
		defer closeLog()
		defer zap.ReplaceGlobals(logger)()

		return serve(cmd.Context(), cfg, logger)
	},
}

func serve(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	database, err := db.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return fmt.Errorf("migrating database: %w", err)
	}
	logger.Info("database ready", zap.String("path", cfg.DB))

	st := store.New(database)

	jwtSecret := cfg.JWTSecret
	if jwtSecret == "" {
		// Auto-generated and persisted on first run.
		jwtSecret, err = st.GetJWTSecret(ctx)
		if err != nil {
			return fmt.Errorf("getting JWT secret: %w", err)
		}
	}

	publisher, err := newPublisher(cfg, logger)
	if err != nil {
		return err
	}
	defer publisher.Close()

	dispatcher := notify.New(st, publisher, logger)
	engine := lifecycle.New(lifecycle.FromStore(st), dispatcher, logger)

	limiter := func(prefix string, perMinute int) ratelimit.Limiter {
		return ratelimit.New(ctx, ratelimit.Options{
			Limit:         perMinute,
			Window:        time.Minute,
			Prefix:        prefix,
			RedisAddr:     cfg.RedisAddr,
			RedisPassword: cfg.RedisPassword,
			RedisDB:       cfg.RedisDB,
		}, logger)
	}

	handler := api.NewRouter(api.Deps{
		Store:         st,
		Engine:        engine,
		Notifications: dispatcher,
		JWTSecret:     jwtSecret,
		JWTExpiry:     cfg.JWTExpiry,
		Logger:        logger,
		WriteLimiter:  limiter("write", cfg.RequestsPerMinute),
		LoginLimiter:  limiter("login", cfg.LoginsPerMinute),
	})

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	go func() {
		sig := <-quit
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	logger.Info("server stopped, closing database")
	return nil
}

// newPublisher returns a Kafka publisher when brokers are configured and a
// no-op one otherwise.
func newPublisher(cfg *config.Config, logger *zap.Logger) (events.Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.Nop{}, nil
	}

	k, err := events.NewKafka(cfg.KafkaBrokers, cfg.KafkaTopic, logger)
	if err != nil {
		return nil, fmt.Errorf("connecting to kafka: %w", err)
	}
	logger.Info("publishing notifications to kafka",
		zap.Strings("brokers", cfg.KafkaBrokers),
		zap.String("topic", cfg.KafkaTopic),
	)
	return k, nil
}
