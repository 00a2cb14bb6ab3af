// Package container wires the application dependencies together.
package container

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"bookshelf-api/internal/config"
	"bookshelf-api/internal/domains/book"
	bookrepo "bookshelf-api/internal/domains/book/repository"
	"bookshelf-api/internal/domains/person"
	personrepo "bookshelf-api/internal/domains/person/repository"
	"bookshelf-api/internal/domains/publisher"
	publisherrepo "bookshelf-api/internal/domains/publisher/repository"
	"bookshelf-api/internal/domains/review"
	reviewrepo "bookshelf-api/internal/domains/review/repository"
	"bookshelf-api/internal/exposure"
	infracache "bookshelf-api/internal/infrastructure/cache"
	"bookshelf-api/internal/infrastructure/database"
	"bookshelf-api/pkg/cache"
	"bookshelf-api/pkg/logger"
)

// Container holds every dependency the application needs, built once
// at startup.
type Container struct {
	Config   *config.Config
	DB       *database.PostgresDB
	Cache    cache.Cache // nil when no redis host is configured
	Registry *exposure.Registry

	redisCache *infracache.RedisCache
}

// New builds the dependency graph: config, logger, database, optional
// cache, then the resource registry on top.
func New(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(cfg.App.Environment)

	db := database.NewPostgresDB(&cfg.Database)
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	c := &Container{Config: cfg, DB: db}

	if cfg.Redis.Host != "" {
		redisCache := infracache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warn().Err(err).Msg("redis unreachable, running without cache")
			_ = redisCache.Close()
		} else {
			c.Cache = redisCache
			c.redisCache = redisCache
			log.Info().Str("host", cfg.Redis.Host).Msg("redis cache connected")
		}
	}

	registry, err := c.buildRegistry()
	if err != nil {
		c.Cleanup()
		return nil, err
	}
	c.Registry = registry

	return c, nil
}

func (c *Container) buildRegistry() (*exposure.Registry, error) {
	pool := c.DB.Pool

	registry := exposure.NewRegistry(c.Config.App.APIPrefix)

	resources := []*exposure.Resource{
		person.NewResource(personrepo.NewPostgresRepository(pool, c.Cache), c.Config.Seed.MailSpool),
		book.NewResource(bookrepo.NewPostgresRepository(pool, c.Cache)),
		publisher.NewResource(publisherrepo.NewPostgresRepository(pool, c.Cache)),
		review.NewResource(reviewrepo.NewPostgresRepository(pool, c.Cache)),
	}
	for _, r := range resources {
		if err := registry.Register(r); err != nil {
			return nil, fmt.Errorf("failed to register resource %s: %w", r.Name, err)
		}
	}

	return registry, nil
}

// Cleanup releases held connections. Safe to call on a partly built
// container.
func (c *Container) Cleanup() {
	if c.redisCache != nil {
		if err := c.redisCache.Close(); err != nil {
			log.Error().Err(err).Msg("redis close error")
		}
		c.redisCache = nil
		c.Cache = nil
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Error().Err(err).Msg("database close error")
		}
	}
}
