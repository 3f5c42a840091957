package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"food-rescue-matching/internal/config"
	"food-rescue-matching/internal/logx"
	"food-rescue-matching/internal/service/offers"
	"food-rescue-matching/internal/transport/kafka"
)

// WorkerRunner runs the event consumer and the expiry sweep.
type WorkerRunner struct {
	runFn func(*dig.Container) error
}

// NewWorkerRunner returns a new WorkerRunner
func NewWorkerRunner() *WorkerRunner {
	return &WorkerRunner{runFn: runWorker}
}

// MustRun runs the worker until the container context is canceled; any other failure panics.
func (r *WorkerRunner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	panic(err)
}

func runWorker(container *dig.Container) error {
	return container.Invoke(workerRun)
}

func workerRun(
	ctx context.Context,
	cfg *config.Config,
	pool *pgxpool.Pool,
	logger logx.Logger,
	consumer *kafka.Consumer,
	producer *kafka.Producer,
	svc *offers.Service,
	server *http.Server,
) error {
	if consumer == nil {
		return fmt.Errorf("kafka consumer is nil: worker container misconfigured")
	}
	defer closeWorker(logger, pool, consumer, producer)

	startServer(server, logger)
	defer gracefulShutdown(server, logger, 5*time.Second)

	startExpirySweep(ctx, logger, svc, cfg.Sweep.Interval)

	logger.Info("matching worker started", logx.Any("topics", consumer.Topics()))
	return consumer.Run(ctx)
}

func closeWorker(logger logx.Logger, pool *pgxpool.Pool, consumer *kafka.Consumer, producer *kafka.Producer) {
	if err := consumer.Close(); err != nil {
		logger.Error("kafka close error", logx.Err(err))
	}
	closeResources(logger, pool, producer)
}
