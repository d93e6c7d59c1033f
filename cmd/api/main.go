// Command api serves the blog HTTP API.
//
// @title                       Blog API
// @version                     1.0
// @description                 Blog posts and comments with JWT authentication and role based access.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/inkpress/blog-api/internal/api"
	"github.com/inkpress/blog-api/internal/api/middleware"
	"github.com/inkpress/blog-api/internal/core/ports"
	"github.com/inkpress/blog-api/internal/core/service"
	"github.com/inkpress/blog-api/internal/infrastructure/db/memory"
	"github.com/inkpress/blog-api/internal/infrastructure/db/mongo"
	"github.com/inkpress/blog-api/internal/infrastructure/db/redis"
	"github.com/inkpress/blog-api/internal/infrastructure/http/handlers"
	"github.com/inkpress/blog-api/internal/infrastructure/queue"
	"github.com/inkpress/blog-api/internal/pkg/config"
	"github.com/inkpress/blog-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	users    ports.UserRepository
	posts    ports.PostRepository
	comments ports.CommentRepository
	audit    ports.AuditRepository
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  !cfg.IsProduction(),
		Service: "blog-api",
	})

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	readiness := map[string]handlers.Pinger{}

	repos, closeStore, err := openStore(ctx, cfg, readiness)
	if err != nil {
		return err
	}
	defer closeStore()

	var limiter middleware.Limiter
	if cfg.RateLimit.Enabled {
		client, err := redis.Connect(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return err
		}
		defer closeRedis(client, log)

		limiter = redis.NewRateLimiter(client, "ratelimit", cfg.RateLimit.Max, cfg.RateLimit.Window)
		readiness["redis"] = redis.NewPinger(client)
	}

	dispatcherCtx, stopDispatcher := context.WithCancel(context.Background())
	dispatcher := queue.NewDispatcher(cfg.AuditWorkers, repos.audit, logger.Component("audit"))
	dispatcher.Start(dispatcherCtx)
	defer func() {
		stopDispatcher()
		dispatcher.Wait()
	}()

	tokens, err := service.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}
	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost)
	gate := service.NewAuthenticator(repos.users, hasher, tokens, dispatcher, logger.Component("auth"))
	auth := service.NewAuthService(repos.users, hasher, gate, tokens, dispatcher, logger.Component("auth"))

	if cfg.Admin.Enabled() {
		if _, err := auth.SeedAdmin(ctx, ports.RegisterInput{
			Username: cfg.Admin.Username,
			Email:    cfg.Admin.Email,
			Password: cfg.Admin.Password,
		}); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	e := api.NewRouter(api.Deps{
		Auth:           auth,
		Gate:           gate,
		Posts:          service.NewPostService(repos.posts, repos.comments, dispatcher, logger.Component("posts")),
		Comments:       service.NewCommentService(repos.comments, repos.posts, dispatcher, logger.Component("comments")),
		Audit:          dispatcher,
		Limiter:        limiter,
		TrustedProxies: cfg.TrustedProxyNets(),
		Readiness:      readiness,
		CORSOrigins:    cfg.CORSOrigins,
		Log:            log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Str("store", cfg.StoreDriver).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// openStore selects the persistence backend and registers its readiness
// check. The returned func releases the backend's connections.
func openStore(ctx context.Context, cfg *config.Config, readiness map[string]handlers.Pinger) (repositories, func(), error) {
	if cfg.StoreDriver == config.DriverMemory {
		readiness["store"] = handlers.PingFunc(func(context.Context) error { return nil })
		return repositories{
			users:    memory.NewUserRepository(),
			posts:    memory.NewPostRepository(),
			comments: memory.NewCommentRepository(),
			audit:    memory.NewAuditLog(),
		}, func() {}, nil
	}

	client, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return repositories{}, nil, err
	}

	disconnect := func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(ctx)
	}

	store := mongo.NewStore(db)
	if err := store.EnsureIndexes(ctx); err != nil {
		disconnect()
		return repositories{}, nil, err
	}
	readiness["store"] = store

	return repositories{
		users:    store.Users,
		posts:    store.Posts,
		comments: store.Comments,
		audit:    store.Audit,
	}, disconnect, nil
}

func closeRedis(client *goredis.Client, log zerolog.Logger) {
	if err := client.Close(); err != nil {
		log.Warn().Err(err).Msg("redis close")
	}
}
