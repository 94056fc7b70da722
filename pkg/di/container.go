// Package di wires the service graph: database, cache store, log channels,
// audit recorder, and one engine plus cache-aside reader per entity.
package di

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/verano-labs/go-entity-cache/audit"
	"github.com/verano-labs/go-entity-cache/cache"
	"github.com/verano-labs/go-entity-cache/internal/config"
	"github.com/verano-labs/go-entity-cache/internal/model"
	"github.com/verano-labs/go-entity-cache/logging"
	"github.com/verano-labs/go-entity-cache/repository"
	"github.com/verano-labs/go-entity-cache/repository/cached"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

// Entity bundles the engine and cache-aside reader for one entity type.
type Entity[T, C, U, R any] struct {
	Engine *repository.Engine[T, C, U, R]
	Reader *cached.Reader[T, C, U, R]
}

// Container holds the wired service graph. Build it once at startup and
// close it on shutdown.
type Container struct {
	DB       *bun.DB
	Store    cache.Store
	Registry *cached.KeyRegistry
	Recorder *audit.Recorder

	Items Entity[model.Item, model.ItemCreate, model.ItemUpdate, model.ItemRead]
	Users Entity[model.User, model.UserCreate, model.UserUpdate, model.UserRead]
}

// New builds the container. A redis backend that cannot be reached fails
// construction; the service does not start without its cache.
func New(ctx context.Context, cfg config.Config, channels *logging.Channels) (*Container, error) {
	if channels == nil {
		channels = logging.NewNop()
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := createTables(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	store, err := cache.New(cache.Config{
		Backend:   cfg.CacheBackend,
		RedisURL:  cfg.RedisURL,
		TTL:       cfg.CacheTTL,
		Capacity:  cfg.CacheCapacity,
		NumShards: cfg.CacheShards,
	}, channels.Error())
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connect cache: %w", err)
	}

	c := &Container{
		DB:       db,
		Store:    store,
		Registry: cached.NewKeyRegistry(),
		Recorder: audit.NewRecorder(channels.Activity()),
	}
	inv := cached.NewInvalidator(store, c.Registry, c.Recorder)

	c.Items, err = buildEntity(c, inv, cfg, model.ItemHandlers())
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.Users, err = buildEntity(c, inv, cfg, model.UserHandlers())
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	return c, nil
}

// Close releases the cache connection and the database.
func (c *Container) Close() error {
	var firstErr error
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			firstErr = err
		}
	}
	if c.DB != nil {
		if err := c.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func buildEntity[T, C, U, R any](c *Container, inv repository.Invalidator, cfg config.Config, h repository.Handlers[T, C, U, R]) (Entity[T, C, U, R], error) {
	engine, err := repository.NewEngine(c.DB, h, c.Recorder, inv)
	if err != nil {
		return Entity[T, C, U, R]{}, fmt.Errorf("build %s engine: %w", h.Table, err)
	}
	reader, err := cached.NewReader(engine, c.Store, c.Registry, c.Recorder, cfg.CacheTTL)
	if err != nil {
		return Entity[T, C, U, R]{}, fmt.Errorf("build %s reader: %w", h.Table, err)
	}
	return Entity[T, C, U, R]{Engine: engine, Reader: reader}, nil
}

func openDB(cfg config.Config) (*bun.DB, error) {
	sqldb, err := sql.Open(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	switch cfg.DatabaseDriver {
	case "postgres":
		return bun.NewDB(sqldb, pgdialect.New()), nil
	default:
		// SQLite serializes writers; one connection avoids lock errors.
		sqldb.SetMaxOpenConns(1)
		return bun.NewDB(sqldb, sqlitedialect.New()), nil
	}
}

func createTables(ctx context.Context, db *bun.DB) error {
	models := []any{(*model.Item)(nil), (*model.User)(nil)}
	for _, m := range models {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}
