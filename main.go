package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"laundry-scheduler/api"
	"laundry-scheduler/config"
	"laundry-scheduler/console"
	"laundry-scheduler/database"
	"laundry-scheduler/scheduler"
	"laundry-scheduler/service"
	"laundry-scheduler/store"

	"github.com/redis/go-redis/v9"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "laundry-scheduler:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Log.SlogLevel()}))

	calendar, err := cfg.Scheduler.Calendar()
	if err != nil {
		return err
	}
	var opts []scheduler.Option
	if cfg.Scheduler.ReleaseOnRebook {
		opts = append(opts, scheduler.WithReleaseOnRebook())
	}
	alloc, err := scheduler.NewAllocator(calendar, opts...)
	if err != nil {
		return err
	}

	ctx := context.Background()

	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("close store", slog.Any("error", err))
		}
	}()

	svc := service.New(alloc, st, logger)
	svc.Start(ctx)

	if cfg.Scheduler.Mode == config.ModeHTTP {
		return serve(ctx, cfg, svc, logger)
	}
	return console.New(svc, os.Stdin, os.Stdout).Run(ctx)
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		logger.Info("attempting to connect to database...")
		db, err := database.Connect(ctx, cfg.Postgres.DSN)
		if err != nil {
			return nil, fmt.Errorf("database connect: %w", err)
		}
		if err := database.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("database migrate: %w", err)
		}
		logger.Info("successfully connected to database")
		return store.NewSQLStore(db), nil
	case config.DriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			// Start anyway: reads degrade to empty and writes are queued.
			logger.Warn("redis unreachable", slog.String("addr", cfg.Redis.Addr), slog.Any("error", err))
		}
		return store.NewRedisStore(client, cfg.Redis.Prefix), nil
	default:
		logger.Debug("using csv store",
			slog.String("users", cfg.Store.UsersFile),
			slog.String("bookings", cfg.Store.BookingsFile),
		)
		return store.NewFileStore(cfg.Store.UsersFile, cfg.Store.BookingsFile), nil
	}
}

func serve(ctx context.Context, cfg config.Config, svc *service.Scheduler, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := api.NewAPI(svc, os.Stdout)
	a.RegisterRoutes()

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", slog.String("port", cfg.Server.Port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", slog.Any("error", err))
		}
	}

	if err := svc.Flush(context.Background()); err != nil {
		logger.Warn("unsaved writes at shutdown", slog.Int("pending", svc.Pending()), slog.Any("error", err))
	}
	return nil
}
