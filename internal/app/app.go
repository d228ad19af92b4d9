package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/yungbote/changetrack/internal/data/aggregates"
	"github.com/yungbote/changetrack/internal/data/db"
	"github.com/yungbote/changetrack/internal/data/repos"
	"github.com/yungbote/changetrack/internal/observability"
	"github.com/yungbote/changetrack/internal/platform/clock"
	"github.com/yungbote/changetrack/internal/platform/idgen"
	"github.com/yungbote/changetrack/internal/platform/logger"
	"github.com/yungbote/changetrack/internal/services"
)

type Repos struct {
	Employees repos.EmployeeRepo
	Addresses repos.AddressRepo
}

type Services struct {
	Employees services.EmployeeService
}

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Cfg      Config
	Repos    Repos
	Store    *aggregates.EmployeeStore
	Services Services
	Registry *prometheus.Registry

	dbService    *db.Service
	otelShutdown func(context.Context) error
}

// New wires the application from cfg. Callers own Close.
func New(ctx context.Context, cfg Config) (*App, error) {
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	shutdown, err := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.OtelEnabled,
		ServiceName: "changetrack",
		Environment: cfg.Environment,
		Version:     cfg.Version,
		Endpoint:    cfg.OtelEndpoint,
		Insecure:    cfg.OtelInsecure,
		SampleRatio: cfg.OtelSampleRatio,
	})
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init otel: %w", err)
	}

	dbService, err := db.NewService(db.Options{
		Driver:        cfg.DBDriver,
		DSN:           cfg.DBDSN,
		SlowThreshold: cfg.DBSlowThreshold,
		AutoMigrate:   cfg.DBAutoMigrate,
	}, log)
	if err != nil {
		_ = shutdown(ctx)
		log.Sync()
		return nil, fmt.Errorf("init db: %w", err)
	}
	theDB := dbService.DB()

	hooks := aggregates.Hooks(nil)
	var registry *prometheus.Registry
	if cfg.MetricsEnabled {
		registry = prometheus.NewRegistry()
		metrics, err := observability.NewMetrics(registry)
		if err != nil {
			_ = dbService.Close()
			_ = shutdown(ctx)
			log.Sync()
			return nil, fmt.Errorf("init metrics: %w", err)
		}
		hooks = aggregates.NewObservabilityHooks(metrics)
	}

	reposet := Repos{
		Employees: repos.NewEmployeeRepo(theDB, log),
		Addresses: repos.NewAddressRepo(theDB, log),
	}
	clk := clock.System()
	store := aggregates.NewEmployeeStore(aggregates.EmployeeStoreDeps{
		Base: aggregates.BaseDeps{
			DB:    theDB,
			Log:   log,
			Hooks: hooks,
		},
		Employees: reposet.Employees,
		Addresses: reposet.Addresses,
		Clock:     clk,
	})
	serviceset := Services{
		Employees: services.NewEmployeeService(log, store, clk, idgen.UUID()),
	}

	return &App{
		Log:          log,
		DB:           theDB,
		Cfg:          cfg,
		Repos:        reposet,
		Store:        store,
		Services:     serviceset,
		Registry:     registry,
		dbService:    dbService,
		otelShutdown: shutdown,
	}, nil
}

func (a *App) Close(ctx context.Context) error {
	if a == nil {
		return nil
	}
	var errs []error
	if a.otelShutdown != nil {
		errs = append(errs, a.otelShutdown(ctx))
	}
	if a.dbService != nil {
		errs = append(errs, a.dbService.Close())
	}
	if a.Log != nil {
		a.Log.Sync()
	}
	return errors.Join(errs...)
}
