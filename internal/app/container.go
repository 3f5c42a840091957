package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"

	"food-rescue-matching/internal/config"
	"food-rescue-matching/internal/domain"
	"food-rescue-matching/internal/geo"
	"food-rescue-matching/internal/http/handlers"
	"food-rescue-matching/internal/http/router"
	"food-rescue-matching/internal/logx"
	"food-rescue-matching/internal/metrics"
	"food-rescue-matching/internal/ports/matchingtx"
	"food-rescue-matching/internal/repository"
	"food-rescue-matching/internal/service/matching"
	"food-rescue-matching/internal/service/offers"
	"food-rescue-matching/internal/service/reassign"
	"food-rescue-matching/internal/service/scoring"
)

type dbConnectFunc func(ctx context.Context, logger logx.Logger, dsn string, retries int, delay time.Duration) (*pgxpool.Pool, error)

type operationTimeout time.Duration

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	loadConfig func() (*config.Config, error)
	dbConnect  dbConnectFunc
	registerer prometheus.Registerer
	logFatalf  func(string, ...interface{})
}

// NewContainerBuilder returns a new dig container builder
func NewContainerBuilder() *ContainerBuilder {
	return &ContainerBuilder{
		loadConfig: config.Load,
		dbConnect:  connectAndMigrate,
		registerer: prometheus.DefaultRegisterer,
		logFatalf:  log.Fatalf,
	}
}

// WithConfigLoader replaces config.Load.
func (b *ContainerBuilder) WithConfigLoader(fn func() (*config.Config, error)) *ContainerBuilder {
	if fn != nil {
		b.loadConfig = fn
	}
	return b
}

// WithDBConnect sets the database connection function
func (b *ContainerBuilder) WithDBConnect(fn dbConnectFunc) *ContainerBuilder {
	if fn != nil {
		b.dbConnect = fn
	}
	return b
}

// WithRegisterer sets the registry the matching collectors are registered with.
func (b *ContainerBuilder) WithRegisterer(reg prometheus.Registerer) *ContainerBuilder {
	if reg != nil {
		b.registerer = reg
	}
	return b
}

// WithLogFatalf sets the log.Fatalf function
func (b *ContainerBuilder) WithLogFatalf(fn func(string, ...interface{})) *ContainerBuilder {
	if fn != nil {
		b.logFatalf = fn
	}
	return b
}

// MustBuild builds the HTTP API container.
func (b *ContainerBuilder) MustBuild(ctx context.Context) *dig.Container {
	container, err := b.build(ctx)
	if err != nil {
		b.logFatalf("failed to build container: %v", err)
	}
	return container
}

// MustBuildWorker builds the event worker container.
func (b *ContainerBuilder) MustBuildWorker(ctx context.Context) *dig.Container {
	container, err := b.buildWorker(ctx)
	if err != nil {
		b.logFatalf("failed to build worker container: %v", err)
	}
	return container
}

func (b *ContainerBuilder) build(ctx context.Context) (*dig.Container, error) {
	container, err := b.buildCommon(ctx)
	if err != nil {
		return nil, err
	}
	if err := registerHTTP(container); err != nil {
		return nil, fmt.Errorf("http: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildWorker(ctx context.Context) (*dig.Container, error) {
	container, err := b.buildCommon(ctx)
	if err != nil {
		return nil, err
	}
	if err := registerWorker(container); err != nil {
		return nil, fmt.Errorf("worker: %w", err)
	}
	return container, nil
}

func (b *ContainerBuilder) buildCommon(ctx context.Context) (*dig.Container, error) {
	container := dig.New()

	if err := registerCore(container, ctx, b.loadConfig, b.registerer); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := registerDb(container, b.dbConnect); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	return container, nil
}

// MustBuildContainer builds the HTTP API container with production wiring.
func MustBuildContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuild(ctx)
}

// MustBuildWorkerContainer builds the worker container with production wiring.
func MustBuildWorkerContainer(ctx context.Context) *dig.Container {
	return NewContainerBuilder().MustBuildWorker(ctx)
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func registerCore(
	container *dig.Container,
	ctx context.Context,
	loadConfig func() (*config.Config, error),
	reg prometheus.Registerer,
) error {
	return provideAll(container,
		func() context.Context { return ctx },
		loadConfig,
		NewLogger,
		func(cfg *config.Config) operationTimeout {
			return operationTimeout(cfg.OperationTimeout)
		},
		func() (*metrics.Matching, error) {
			m := metrics.NewMatching()
			if err := m.Register(reg); err != nil {
				return nil, fmt.Errorf("register matching metrics: %w", err)
			}
			return m, nil
		},
	)
}

func registerDb(container *dig.Container, dbConnect dbConnectFunc) error {
	providerDB := func(ctx context.Context, logger logx.Logger, cfg *config.Config) (*pgxpool.Pool, error) {
		return dbConnect(ctx, logger, cfg.DB.DSN(), 10, time.Second)
	}
	return provideAll(container, providerDB)
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewMatchingRepo,
		func(repo *repository.MatchingRepo) matchingtx.Store { return repo },
		newProducer,
		newPublisher,
		newNotifier,
		func(
			store matchingtx.Store,
			notifier offers.Notifier,
			publisher offers.Publisher,
			m *metrics.Matching,
			cfg *config.Config,
			timeout operationTimeout,
			logger logx.Logger,
		) *offers.Service {
			return offers.NewService(store, notifier, publisher, m, cfg.Matching, time.Duration(timeout), logger)
		},
	)
}

func registerHTTP(container *dig.Container) error {
	return provideAll(container,
		handlers.New,
		handlers.NewAssignmentUsecase,
		handlers.NewAssignmentHandler,
		func(logger logx.Logger, repo *repository.MatchingRepo, timeout operationTimeout) *handlers.DonationHandler {
			return handlers.NewDonationHandler(logger, repo, time.Duration(timeout))
		},
		router.New,
		newServer,
	)
}

func registerWorker(container *dig.Container) error {
	return provideAll(container,
		repository.NewOrganizationRepo,
		repository.NewTransporterRepo,
		newScorer,
		func(repo *repository.MatchingRepo, scorer *scoring.Scorer, svc *offers.Service, cfg *config.Config, logger logx.Logger) *reassign.Controller {
			return reassign.NewController(repo, scorer, svc, cfg.Matching.MaxAttempts, logger)
		},
		func(
			repo *repository.MatchingRepo,
			scorer *scoring.Scorer,
			svc *offers.Service,
			ctrl *reassign.Controller,
			logger logx.Logger,
		) *matching.Processor {
			return matching.NewProcessor(repo, scorer, svc, ctrl, logger)
		},
		newConsumer,
		handlers.New,
		router.NewWorker,
		newServer,
	)
}

func newScorer(
	orgs *repository.OrganizationRepo,
	transporters *repository.TransporterRepo,
	m *metrics.Matching,
	cfg *config.Config,
) (*scoring.Scorer, error) {
	finder := geo.NewFinder[domain.Organization](orgs, func(o domain.Organization) domain.Location {
		return o.Location
	}).WithQueryCounter(m.GeoRangeQueries)
	return scoring.NewScorer(finder, transporters, cfg.Matching)
}

func newServer(cfg *config.Config, mux http.Handler) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
