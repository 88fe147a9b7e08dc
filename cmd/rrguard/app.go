package main

import (
	"context"
	"fmt"

	"rrguard.io/internal/cache"
	"rrguard.io/internal/config"
	"rrguard.io/internal/logging"
	"rrguard.io/internal/pgsqlpool"
	"rrguard.io/internal/redis"
	"rrguard.io/internal/storage"
	"rrguard.io/internal/validation"
)

// redisClientName is the named client the answer cache uses
const redisClientName = "answers"

// app holds everything a command needs, built from the environment
type app struct {
	cfg     *config.Config
	logger  *logging.Logger
	gateway storage.Gateway
	engine  *validation.Engine

	closers []func() error
}

// newApp loads configuration, opens the record store and builds the engine
func newApp(ctx context.Context) (*app, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	logConfig := logging.DefaultConfig()
	logConfig.Level = logging.ParseLevel(cfg.LogLevel)
	logConfig.Directory = cfg.LogDir
	logger, err := logging.New(logConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	a := &app{cfg: cfg, logger: logger}
	a.closers = append(a.closers, logger.Close)

	settings, err := config.LoadSettings(cfg.SettingsFile)
	if err != nil {
		a.Close()
		return nil, err
	}

	if err := a.openGateway(ctx); err != nil {
		a.Close()
		return nil, err
	}

	engine, err := validation.NewEngine(settings, a.gateway, validation.WithLogger(logger))
	if err != nil {
		a.Close()
		return nil, err
	}
	a.engine = engine

	return a, nil
}

// openGateway selects the record store by driver and wraps it in the
// answer cache when enabled
func (a *app) openGateway(ctx context.Context) error {
	db := a.cfg.Database

	var gw storage.Gateway
	switch db.Driver {
	case config.DriverMemory:
		mem, err := storage.LoadMemoryGateway(db.RecordsFile)
		if err != nil {
			return err
		}
		gw = mem

	case config.DriverPostgres:
		pool := pgsqlpool.NewPool()
		a.closers = append(a.closers, pool.Close)

		pgConfig := &storage.Config{
			Host:            db.Host,
			Port:            db.Port,
			User:            db.User,
			Password:        db.Password,
			DBName:          db.DBName,
			SSLMode:         db.SSLMode,
			TablePrefix:     db.TablePrefix,
			MaxOpenConns:    db.MaxOpenConns,
			MaxIdleConns:    db.MaxIdleConns,
			ConnMaxLifetime: db.ConnMaxLifetime,
			ConnMaxIdleTime: db.ConnMaxIdleTime,
		}
		pg, err := storage.NewPostgresGateway(ctx, pool, db.ConnectionName, pgConfig)
		if err != nil {
			return err
		}
		gw = pg

	case config.DriverMySQL, config.DriverSQLite:
		orm, err := storage.OpenGorm(db.Driver, db.DSN)
		if err != nil {
			return err
		}
		g := storage.NewGormGateway(orm, db.TablePrefix)
		a.closers = append(a.closers, g.Close)
		gw = g

	default:
		return fmt.Errorf("unsupported driver %q", db.Driver)
	}

	a.logger.Info("storage", "record store opened", "driver", db.Driver, "table", gw.TableName(storage.LogicalRecordsTable))

	if !a.cfg.Cache.Enabled {
		a.gateway = gw
		return nil
	}

	opts := storage.DefaultCacheOptions()
	opts.MemoryTTL = a.cfg.Cache.TTL
	opts.Logger = a.logger

	if a.cfg.Redis.Enabled {
		redis.NewClient(redisClientName, a.cfg.Redis.Addr, true)
		a.closers = append(a.closers, func() error {
			redis.Close(redisClientName)
			return nil
		})
		opts.RedisClient = redisClientName
		opts.KeyPrefix = a.cfg.Redis.KeyPrefix
	}

	memCache := cache.NewMemoryCache(&cache.Config{
		MaxEntries:      a.cfg.Cache.MaxEntries,
		CleanupInterval: a.cfg.Cache.CleanupInterval,
	})
	a.closers = append(a.closers, memCache.Close)
	a.gateway = storage.NewCachedGateway(gw, memCache, opts)

	a.logger.Info("storage", "answer cache enabled",
		"max_entries", a.cfg.Cache.MaxEntries,
		"ttl", a.cfg.Cache.TTL,
		"redis", a.cfg.Redis.Enabled,
	)
	return nil
}

// Close releases resources in reverse order of acquisition
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.logger != nil {
			a.logger.Warn("app", "close failed", "error", err)
		}
	}
	a.closers = nil
}
