package app

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"time"

	"job-board/internal/config"
	"job-board/internal/database"
	"job-board/internal/database/migration"
	dbpostgres "job-board/internal/database/postgres"
	"job-board/internal/delivery/http/handler"
	"job-board/internal/delivery/http/routes"
	"job-board/internal/domain/job"
	"job-board/internal/events"
	"job-board/internal/repository"
	"job-board/internal/telemetry"
	"job-board/internal/usecase"
	"job-board/internal/ws"
	"job-board/migrations"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

// Module wires the HTTP service. Construction order follows the
// dependency graph; hooks start and stop in registration order.
var Module = fx.Options(
	fx.Provide(
		loadConfig,
		newLogger,
		newPool,
		func(p *dbpostgres.Pool) database.DB { return p },
		func(p *dbpostgres.Pool) handler.Pinger { return p },
		newJobRepository,
		newHub,
		newPublisher,
		newJobUsecase,
		handler.NewJobsHandler,
		handler.NewHealthHandler,
		ws.NewHandler,
		routes.NewRegistry,
		New,
	),
	fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
		return &fxevent.ZapLogger{Logger: logger.Named("fx")}
	}),
	fx.Invoke(
		registerTelemetry,
		prepareSchema,
		registerServer,
	),
)

func loadConfig() (config.Config, error) {
	return config.Load()
}

func newLogger(cfg config.Config, lc fx.Lifecycle) (*zap.Logger, error) {
	logger, err := NewLogger(cfg.App)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
	return logger, nil
}

func registerTelemetry(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) error {
	shutdown, err := telemetry.InitTracer(context.Background(), cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		return fmt.Errorf("init tracer: %w", err)
	}
	if cfg.Telemetry.OTLPEndpoint != "" {
		logger.Info("tracing enabled", zap.String("endpoint", cfg.Telemetry.OTLPEndpoint))
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return shutdown(ctx)
		},
	})
	return nil
}

func newPool(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*dbpostgres.Pool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	pool, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	logger.Info("database connected")

	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return pool.Close()
		},
	})
	return pool, nil
}

// prepareSchema applies pending migrations when enabled, then refuses to
// start unless the jobs table exposes every column the repository reads.
func prepareSchema(lc fx.Lifecycle, cfg config.Config, pool *dbpostgres.Pool, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Database.RunMigrations {
				var src fs.FS = migrations.FS
				if cfg.Database.MigrationsDir != "" {
					src = os.DirFS(cfg.Database.MigrationsDir)
				}
				n, err := migration.NewRunner(pool, logger.Named("migration")).Apply(ctx, src)
				if err != nil {
					return err
				}
				logger.Info("schema up to date", zap.Int("applied", n))
			}
			return database.EnsureTableColumns(ctx, pool, repository.JobsTable, repository.JobColumns...)
		},
	})
}

func newJobRepository(db database.DB) job.Repository {
	return repository.NewPostgresJobRepository(db)
}

func newHub(lc fx.Lifecycle, logger *zap.Logger) *ws.Hub {
	hub := ws.NewHub(logger.Named("ws"))
	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go hub.Run(ctx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
	return hub
}

// newPublisher always feeds the websocket hub and adds NATS when a URL
// is configured.
func newPublisher(lc fx.Lifecycle, cfg config.Config, hub *ws.Hub, logger *zap.Logger) (events.Publisher, error) {
	pubs := events.Multi{ws.NewPublisher(hub)}
	if cfg.NATS.URL == "" {
		return pubs, nil
	}

	np, err := events.NewNATSPublisher(cfg.NATS, logger.Named("nats"))
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			np.Close()
			return nil
		},
	})
	return append(pubs, np), nil
}

func newJobUsecase(repo job.Repository, pub events.Publisher, logger *zap.Logger) usecase.JobUsecase {
	return usecase.NewJobUsecase(repo, pub, logger.Named("jobs"))
}

func registerServer(lc fx.Lifecycle, shutdowner fx.Shutdowner, a *App, cfg config.Config, logger *zap.Logger) error {
	addr, err := ListenAddr(cfg.App.HTTPPort)
	if err != nil {
		return err
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				logger.Info("http server listening", zap.String("addr", addr))
				err := a.Fiber.Listen(addr, fiber.ListenConfig{DisableStartupMessage: true})
				if err != nil {
					logger.Error("http server stopped", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return a.Fiber.ShutdownWithContext(ctx)
		},
	})
	return nil
}
