package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"skill-swap/internal/config"
	"skill-swap/internal/database"
	"skill-swap/internal/database/migration"
	dbpostgres "skill-swap/internal/database/postgres"
	"skill-swap/internal/infrastructure/cache"
	"skill-swap/internal/logging"
	"skill-swap/internal/pkg/jwt"
	"skill-swap/internal/relay"
	"skill-swap/internal/repository"
	"skill-swap/internal/usecase"

	"github.com/rs/zerolog"
)

const startupTimeout = 15 * time.Second

type Container struct {
	Config config.Config
	Logger zerolog.Logger

	DB    database.DB
	Cache *cache.Redis
	Hub   *relay.Hub
	JWT   *jwt.HMACService

	Discovery usecase.DiscoveryUsecase
	Matches   usecase.MatchUsecase
}

// NewContainer connects to Postgres, applies pending migrations and
// connects to Redis. Redis being down is not fatal.
func NewContainer(cfg config.Config, logger zerolog.Logger) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database, logging.Component(logger, "database"))
	if err != nil {
		return nil, err
	}

	runner := migration.Runner{Logger: logging.Component(logger, "migration")}
	if err := runner.Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	redis := cache.NewRedis(ctx, cfg.Redis, logging.Component(logger, "cache"))

	profiles := repository.NewPostgresProfileRepository(db)
	matches := repository.NewPostgresMatchRepository(db)
	ucLogger := logging.Component(logger, "usecase")
	hub := relay.NewHub(logging.Component(logger, "relay"))

	return &Container{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Cache:     redis,
		Hub:       hub,
		JWT:       jwt.NewHMACService(cfg.JWT.AccessSecret, cfg.JWT.Issuer, cfg.JWT.AccessExpiresIn),
		Discovery: usecase.NewDiscoveryUsecase(profiles, redis, cfg.Match.FeedCacheTTL, ucLogger),
		Matches:   usecase.NewMatchUsecase(profiles, matches, redis, hub, cfg.Match.LockTTL, ucLogger),
	}, nil
}

// Close shuts the relay down before releasing the stores it may still touch.
func (c *Container) Close() error {
	if c == nil {
		return nil
	}

	c.Hub.Shutdown()

	var errs []error
	if c.Cache != nil {
		if err := c.Cache.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close cache: %w", err))
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
