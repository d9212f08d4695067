package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/stitchboard/tailor-admin/internal/api"
	"github.com/stitchboard/tailor-admin/internal/api/handler"
	"github.com/stitchboard/tailor-admin/internal/core/service"
	"github.com/stitchboard/tailor-admin/internal/infrastructure/db/mongo"
	"github.com/stitchboard/tailor-admin/internal/infrastructure/db/redis"
	"github.com/stitchboard/tailor-admin/internal/pkg/config"
)

const (
	appName         = "tailor-admin"
	shutdownTimeout = 15 * time.Second
)

// Server wraps the Echo instance and the connections it was built on.
type Server struct {
	echo  *echo.Echo
	addr  string
	mongo *mongodriver.Client
	redis *goredis.Client
	log   zerolog.Logger
}

// New connects to MongoDB and Redis, ensures indexes and wires the API.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Server, error) {
	mongoClient, db, err := mongo.Connect(ctx, mongo.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		AppName:  appName,
	})
	if err != nil {
		return nil, err
	}

	redisClient, err := redis.Connect(ctx, redis.Config{
		URL:      cfg.Redis.URL,
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		_ = mongoClient.Disconnect(ctx)
		return nil, err
	}

	users := mongo.NewUserRepository(db)
	clients := mongo.NewClientRepository(db)
	if err := mongo.EnsureIndexes(ctx, users, clients); err != nil {
		_ = redisClient.Close()
		_ = mongoClient.Disconnect(ctx)
		return nil, err
	}

	accounts := service.NewAccountService(
		users,
		service.NewBcryptHasher(cfg.Auth.BcryptCost),
		service.NewTokenService(cfg.Auth.AccessTokenSecret, cfg.Auth.AccessTokenExpiry),
		redis.NewDenylist(redisClient),
		cfg.Auth.RecoveryTokenTTL,
		log.With().Str("component", "accounts").Logger(),
	)
	clientService := service.NewClientService(clients, log.With().Str("component", "clients").Logger())

	e := api.NewRouter(api.RouterConfig{
		Accounts: accounts,
		Clients:  clientService,
		Readiness: map[string]handler.DependencyCheck{
			"mongodb": func(ctx context.Context) error { return mongoClient.Ping(ctx, nil) },
			"redis":   func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		},
		Cookie: handler.CookieOptions{
			Secure: cfg.Auth.CookieSecure,
			TTL:    cfg.Auth.AccessTokenExpiry,
		},
		AllowOrigins: cfg.AllowOrigins,
		Logger:       log,
	})
	e.Server.ReadTimeout = 15 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.IdleTimeout = 60 * time.Second

	return &Server{
		echo:  e,
		addr:  ":" + cfg.Port,
		mongo: mongoClient,
		redis: redisClient,
		log:   log,
	}, nil
}

// Run serves HTTP until ctx is cancelled, then drains in-flight requests and
// closes the database connections.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("http server starting")
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case err := <-errCh:
		runErr = fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		s.log.Info().Msg("shutting down")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		s.log.Error().Err(err).Msg("http server shutdown failed")
	}
	if err := s.redis.Close(); err != nil {
		s.log.Warn().Err(err).Msg("redis close failed")
	}
	if err := s.mongo.Disconnect(shutdownCtx); err != nil {
		s.log.Warn().Err(err).Msg("mongo disconnect failed")
	}

	s.log.Info().Msg("server stopped")
	return runErr
}
