package setup

import (
	"context"

	"github.com/LavaJover/shvark-activity-service/internal/config"
	"github.com/LavaJover/shvark-activity-service/internal/domain"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/codegen"
	publisher "github.com/LavaJover/shvark-activity-service/internal/infrastructure/kafka"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/metrics"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/migrate"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/notifier"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres"
	"github.com/LavaJover/shvark-activity-service/internal/infrastructure/postgres/repository"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Dependencies struct {
	Config       *config.ActivityConfig
	DB           *gorm.DB
	Publisher    *publisher.DefaultKafkaPublisher
	Dispatcher   *notifier.Dispatcher
	Redis        *redis.Client
	Registry     *prometheus.Registry
	Metrics      *metrics.EngineMetrics
	Codes        domain.CodeGenerator
	Repositories *Repositories
}

type Repositories struct {
	ActivityRepo   domain.ActivityRepository
	CouponRepo     domain.CouponRepository
	RedemptionRepo domain.RedemptionRepository
	GroupRepo      domain.GroupRepository
	PresaleRepo    domain.PresaleRepository
	StoreRepo      domain.StoreRepository
	IdentityRepo   domain.IdentityRepository
}

func InitializeDependencies(cfg *config.ActivityConfig) (*Dependencies, error) {
	db, err := postgres.InitDB(cfg)
	if err != nil {
		return nil, err
	}

	if err := migrate.RunMigrations(db, cfg.ActivityDB.MigrationsPath); err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, errors.Wrap(err, "migrations")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	pub := publisher.NewDefaultKafkaPublisher(cfg.KafkaService.Brokers(), cfg.KafkaService.Topic)

	return &Dependencies{
		Config:     cfg,
		DB:         db,
		Publisher:  pub,
		Dispatcher: notifier.NewDispatcher(pub, cfg.Engine.NotifyTimeout),
		Redis: redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}),
		Registry:     registry,
		Metrics:      metrics.NewEngineMetrics(registry),
		Codes:        codegen.MustNanoidGenerator(),
		Repositories: NewRepositories(db),
	}, nil
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		ActivityRepo:   repository.NewDefaultActivityRepository(db),
		CouponRepo:     repository.NewDefaultCouponRepository(db),
		RedemptionRepo: repository.NewDefaultRedemptionRepository(db),
		GroupRepo:      repository.NewDefaultGroupRepository(db),
		PresaleRepo:    repository.NewDefaultPresaleRepository(db),
		StoreRepo:      repository.NewDefaultStoreRepository(db),
		IdentityRepo:   repository.NewDefaultIdentityRepository(db),
	}
}

// PingDB checks the database connection.
func (d *Dependencies) PingDB(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close flushes pending notifications and releases external clients.
func (d *Dependencies) Close() error {
	d.Dispatcher.Wait()

	var firstErr error
	if err := d.Publisher.Close(); err != nil {
		firstErr = errors.Wrap(err, "kafka publisher")
	}
	if err := d.Redis.Close(); err != nil && firstErr == nil {
		firstErr = errors.Wrap(err, "redis")
	}
	if sqlDB, err := d.DB.DB(); err == nil {
		if err := sqlDB.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrap(err, "db")
		}
	}
	return firstErr
}
