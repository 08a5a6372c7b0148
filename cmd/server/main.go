// @title                       Library Admin API
// @version                     1.0
// @description                 Book catalog, person directory and lending.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/librarydesk/library-admin/internal/api"
	"github.com/librarydesk/library-admin/internal/api/handler"
	"github.com/librarydesk/library-admin/internal/core/access"
	"github.com/librarydesk/library-admin/internal/core/ports"
	"github.com/librarydesk/library-admin/internal/core/service"
	"github.com/librarydesk/library-admin/internal/infrastructure/db/mongo"
	"github.com/librarydesk/library-admin/internal/infrastructure/db/postgres"
	"github.com/librarydesk/library-admin/internal/infrastructure/db/redis"
	"github.com/librarydesk/library-admin/internal/infrastructure/security"
	"github.com/librarydesk/library-admin/internal/pkg/config"
	"github.com/librarydesk/library-admin/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "library-admin",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	pool, err := postgres.Connect(ctx, postgres.Config{DSN: cfg.Postgres.DSN, MaxConns: cfg.Postgres.MaxConns})
	if err != nil {
		return err
	}
	defer pool.Close()

	// The audit trail and the dedup cache are optional: lending keeps working
	// without them.
	var (
		events   ports.LoanEventRepository
		dedup    service.LoanDedup
		auditDB  *mongodriver.Database
		dedupRDB *goredis.Client
	)

	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		log.Warn().Err(err).Msg("mongo unavailable, loan history disabled")
	} else {
		defer func() { _ = mongoClient.Disconnect(context.Background()) }()
		repo := mongo.NewLoanEventRepository(db)
		if err := repo.EnsureIndexes(ctx); err != nil {
			log.Warn().Err(err).Msg("loan event index not created")
		}
		events, auditDB = repo, db
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable, idempotency keys ignored")
	} else {
		defer rdb.Close()
		dedup, dedupRDB = redis.NewLoanDedup(rdb), rdb
	}

	books := postgres.NewBookRepository(pool)
	people := postgres.NewPersonRepository(pool)
	tx := postgres.NewTxManager(pool)
	hasher := security.NewBcryptHasher(0)

	directory := service.NewDirectoryService(people, books, tx, hasher, logger.For("directory"))
	catalog := service.NewCatalogService(books, people, events, tx, dedup,
		access.Policy{PermissiveLending: cfg.Lending.Permissive}, logger.For("catalog"))
	auth := service.NewAuthService(directory, hasher, cfg.JWTSecret, cfg.TokenTTL)

	if err := seedAdmin(ctx, directory, cfg.Admin, log); err != nil {
		return err
	}

	e := api.NewRouter(api.Deps{
		Catalog:   catalog,
		Directory: directory,
		Auth:      auth,
		Readiness: handler.NewStoreReadinessHandler(pool, auditDB, dedupRDB),
		JWTSecret: cfg.JWTSecret,
		Log:       log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Bool("permissive_lending", cfg.Lending.Permissive).
			Msg("http server listening")
		if err := e.Start(net.JoinHostPort("", cfg.Port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func seedAdmin(ctx context.Context, directory *service.DirectoryService, admin config.AdminConfig, log zerolog.Logger) error {
	if admin.Username == "" || admin.Password == "" {
		return nil
	}
	created, err := directory.EnsureAdmin(ctx, ports.PersonInput{
		Name:     admin.Name,
		Username: admin.Username,
		Password: admin.Password,
	})
	if err != nil {
		return err
	}
	if created {
		log.Info().Str("username", admin.Username).Msg("bootstrap admin created")
	}
	return nil
}
