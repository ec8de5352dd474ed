package main

import (
	"context"
	"fmt"

	"github.com/quantiva/dashboard/internal/core/ports"
	"github.com/quantiva/dashboard/internal/infrastructure/config"
	"github.com/quantiva/dashboard/internal/infrastructure/db/memory"
	"github.com/quantiva/dashboard/internal/infrastructure/db/mongo"
	"github.com/quantiva/dashboard/internal/infrastructure/db/redis"
	"github.com/quantiva/dashboard/internal/infrastructure/db/sqlite"
	"github.com/quantiva/dashboard/internal/infrastructure/record"
)

type recordBackend interface {
	ports.RecordStorage
	Ping(ctx context.Context) error
}

// openStorage connects the configured backend. The returned func releases it.
func openStorage(ctx context.Context, cfg *config.Config) (recordBackend, func(), error) {
	var (
		store interface {
			recordBackend
			Close() error
		}
		err error
	)

	switch cfg.Storage.Backend {
	case config.BackendSQLite:
		store, err = sqlite.Open(ctx, cfg.Storage.SQLitePath)
	case config.BackendRedis:
		store, err = redis.Open(ctx, redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	case config.BackendMongo:
		store, err = mongo.Open(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
	case config.BackendMemory:
		return memory.NewRecordStorage(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage backend %q", cfg.Storage.Backend)
	}
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func newCodec(cfg config.SessionConfig) (ports.RecordCodec, error) {
	if cfg.RecordFormat == config.RecordFormatSigned {
		return record.NewSignedCodec([]byte(cfg.RecordSecret), cfg.RecordTTL)
	}
	return record.PlainCodec{}, nil
}
