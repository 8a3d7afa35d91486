package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/haulwise/backoffice/internal/api"
	"github.com/haulwise/backoffice/internal/api/handler"
	"github.com/haulwise/backoffice/internal/core/service"
	"github.com/haulwise/backoffice/internal/infrastructure/cache"
	"github.com/haulwise/backoffice/internal/infrastructure/db/mongo"
	"github.com/haulwise/backoffice/internal/infrastructure/db/redis"
	"github.com/haulwise/backoffice/internal/infrastructure/notify"
	"github.com/haulwise/backoffice/internal/infrastructure/queue"
	"github.com/haulwise/backoffice/internal/pkg/config"
	"github.com/haulwise/backoffice/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the status event workers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return serve(ctx, config.Load())
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.Development(),
		Service: "backoffice",
		Env:     cfg.Env,
	})

	loc, err := time.LoadLocation(cfg.DisplayTZ)
	if err != nil {
		return fmt.Errorf("display zone: %w", err)
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	publisher, err := notify.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		return err
	}
	defer publisher.Close()

	// --- Repositories ---
	orderRepo := mongo.NewOrderRepository(db)
	companyRepo := mongo.NewCompanyRepository(db)
	authRepo := mongo.NewAuthRepository(db)
	eventRepo := mongo.NewEventRepository(db)
	if err := mongo.EnsureIndexes(ctx, orderRepo, companyRepo, authRepo); err != nil {
		return err
	}

	// --- Services ---
	notifications := service.NewNotificationService(publisher, logger.Component("notify"))
	orders := service.NewOrderService(orderRepo, companyRepo, logger.Component("orders"))
	ledger := service.NewLedgerService(orderRepo, logger.Component("ledger"))
	dispatch := service.NewDispatchService(orderRepo, companyRepo, notifications, logger.Component("dispatch"))
	companies := service.NewCompanyService(companyRepo, cache.NewSearchCache(cfg.SearchCacheTTL), logger.Component("companies"))
	events := service.NewEventService(orderRepo, eventRepo, redis.NewDedupChecker(rdb), logger.Component("events"))
	auth := service.NewAuthService(authRepo, cfg.JWTSecret, cfg.TokenTTL)

	dispatcher := queue.NewDispatcher(cfg.Workers, events, logger.Component("dispatcher"))
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	e := api.NewRouter(api.Deps{
		Logger:        log,
		JWTSecret:     cfg.JWTSecret,
		Location:      loc,
		Auth:          auth,
		Orders:        orders,
		Ledger:        ledger,
		Dispatch:      dispatch,
		Companies:     companies,
		Notifications: notifications,
		Events:        dispatcher,
		Health: map[string]handler.Pinger{
			"mongodb": handler.PingFunc(func(ctx context.Context) error { return client.Ping(ctx, nil) }),
			"redis":   handler.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		},
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Int("workers", cfg.Workers).Msg("backoffice listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(sctx)
}
