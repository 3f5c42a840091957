package app

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"food-rescue-matching/internal/logx"
	"food-rescue-matching/internal/transport/kafka"
)

// Runner runs the HTTP API.
type Runner struct {
	runFn  func(*dig.Container) error
	fatalf func(string, ...any)
}

// NewRunner returns a Runner for the HTTP API.
func NewRunner() *Runner {
	return &Runner{runFn: run, fatalf: log.Fatalf}
}

// MustRun starts the HTTP server using the provided DI container
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}
	logger := containerLogger(container)
	switch {
	case errors.Is(err, context.Canceled):
		logger.Info("shutdown requested, exiting")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("startup aborted: startup timeout exceeded")
	default:
		fatalf := r.fatalf
		if fatalf == nil {
			fatalf = log.Fatalf
		}
		fatalf("run error: %v", err)
	}
}

func containerLogger(container *dig.Container) logx.Logger {
	logger := logx.Nop()
	_ = container.Invoke(func(l logx.Logger) { logger = l })
	return logger
}

func run(container *dig.Container) error {
	return container.Invoke(func(
		ctx context.Context,
		server *http.Server,
		pool *pgxpool.Pool,
		producer *kafka.Producer,
		logger logx.Logger,
	) error {
		startServer(server, logger)
		<-ctx.Done()
		logger.Info("shutting down matching api")
		gracefulShutdown(server, logger, 15*time.Second)
		closeResources(logger, pool, producer)
		return ctx.Err()
	})
}

func startServer(server *http.Server, logger logx.Logger) {
	if server == nil {
		return
	}
	go func() {
		logger.Info("http listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen error", logx.Err(err))
		}
	}()
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	if srv == nil {
		return
	}
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Error("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(logger logx.Logger, pool *pgxpool.Pool, producer *kafka.Producer) {
	if err := producer.Close(); err != nil {
		logger.Error("kafka producer close error", logx.Err(err))
	}
	if pool != nil {
		pool.Close()
	}
}
