package session

import (
	"context"
	"fmt"

	"github.com/kiwari-pos/storefront/internal/config"
	"github.com/kiwari-pos/storefront/internal/enum"
	"go.uber.org/zap"
)

// Open builds the store selected by cfg.SessionBackend. The returned close
// func releases the backend's connections.
func Open(ctx context.Context, cfg *config.Config, log *zap.Logger) (Store, func(), error) {
	switch cfg.SessionBackend {
	case enum.SessionBackendMemory, "":
		log.Info("session store ready", zap.String("backend", enum.SessionBackendMemory))
		return NewMemoryStore(cfg.SessionTTL), func() {}, nil

	case enum.SessionBackendRedis:
		client, err := NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("session store ready", zap.String("backend", enum.SessionBackendRedis))
		return NewRedisStore(client, cfg.SessionTTL), func() { client.Close() }, nil

	case enum.SessionBackendPostgres:
		if err := Migrate(cfg.DatabaseURL); err != nil {
			return nil, nil, err
		}
		pool, err := NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		log.Info("session store ready", zap.String("backend", enum.SessionBackendPostgres))
		return NewPostgresStore(pool, cfg.SessionTTL), pool.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown session backend %q", cfg.SessionBackend)
}
