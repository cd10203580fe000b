package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/catalog-backend/internal/cfg"
	v1Http "github.com/DRSN-tech/catalog-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/catalog-backend/internal/infrastructure/kafka"
	"github.com/DRSN-tech/catalog-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/catalog-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/catalog-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/catalog-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/catalog-backend/internal/usecase"
	"github.com/DRSN-tech/catalog-backend/pkg/clients"
	"github.com/DRSN-tech/catalog-backend/pkg/closer"
	"github.com/DRSN-tech/catalog-backend/pkg/e"
	"github.com/DRSN-tech/catalog-backend/pkg/logger"
	"github.com/DRSN-tech/catalog-backend/pkg/postgres"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jimlawless/whereami"
)

// App связывает все слои приложения и управляет их жизненным циклом.
// Ресурсы регистрируются в closer и закрываются в обратном порядке.
type App struct {
	cfg       *config.Config
	logger    logger.Logger
	httpSrv   *v1Http.Server
	worker    *kafka.OutboxWorker
	workerCtx context.Context
	closer    *closer.Closer
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	c := closer.NewCloser(2 * time.Second)

	db, err := initPGDB(log, cfg)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	c.Add(func(ctx context.Context) error {
		db.Close()
		log.Infof("Database pool closed")
		return nil
	})

	prConv := pgdbConv.NewProductConverterImpl()
	obConv := pgdbConv.NewOutboxEventConverterImpl()
	cacheConv := redisConv.NewProductConverterImpl()

	productRepo := pgdb.NewProductRepo(db.Pool, prConv)
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, obConv)

	redisClient := clients.NewRedisClient(cfg.Redis)
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	c.Add(func(ctx context.Context) error {
		return redisClient.Client.Close()
	})

	cacheRepo := redis.NewCacheRepo(redisClient, cacheConv, cfg.Redis, log)

	producer, err := kafka.NewProducer(log, cfg.Kafka)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := producer.EnsureTopic(10 * time.Second); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	c.Add(func(ctx context.Context) error {
		return producer.Close()
	})

	workerCtx, workerCancel := context.WithCancel(context.Background())
	worker := kafka.NewOutboxWorker(outboxRepo, log, producer, db.Dsn)
	c.Add(func(ctx context.Context) error {
		workerCancel()
		worker.Stop()
		log.Infof("Outbox worker stopped")
		return nil
	})

	productUC := usecase.NewProductUC(
		productRepo,
		outboxRepo,
		db.Pool,
		cacheRepo,
		log,
	)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.Cors.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router := v1Http.NewRouter(r, log)
	router.Init(productUC)

	httpSrv := v1Http.NewServer(r, cfg.Http)
	c.Add(func(ctx context.Context) error {
		return httpSrv.Stop(ctx)
	})

	return &App{
		cfg:       cfg,
		logger:    log,
		httpSrv:   httpSrv,
		worker:    worker,
		workerCtx: workerCtx,
		closer:    c,
	}, nil
}

// Run запускает outbox-воркер и HTTP-сервер и блокируется до сигнала завершения
// или фатальной ошибки сервера.
func (a *App) Run() error {
	a.worker.Start(a.workerCtx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.closer.Close(shutdownCtx); err != nil {
		a.logger.Warnf("Shutdown finished with errors: %v", err)
	} else {
		a.logger.Infof("Application shutdown complete")
	}

	return appErr
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.Ping(); err != nil {
		logger.Errorf(err, "failed to ping database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
