package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/AchrafRT/sales-crm/internal/domain/repository"
	"github.com/AchrafRT/sales-crm/pkg/config"
	"github.com/AchrafRT/sales-crm/pkg/logger"
)

var _ repository.Locker = (*Redis)(nil)

// DefaultKey clave del candado si la configuración no define otra.
const DefaultKey = "lock:sales-crm:commands"

// Redis candado distribuido sobre bsm/redislock. El TTL acota cuánto sobrevive el
// candado si el proceso muere sin liberarlo.
type Redis struct {
	client *redislock.Client
	key    string
	ttl    time.Duration
	retry  time.Duration
	log    *logger.Logger
}

// NewRedisClient conecta y verifica con PING.
func NewRedisClient(ctx context.Context, cfg config.LockConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
		PoolSize: 10,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.RedisAddr, err)
	}
	return rdb, nil
}

// NewRedis construye el candado con un cliente ya conectado.
func NewRedis(rdb redislock.RedisClient, cfg config.LockConfig, log *logger.Logger) *Redis {
	key := cfg.Key
	if key == "" {
		key = DefaultKey
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &Redis{
		client: redislock.New(rdb),
		key:    key,
		ttl:    ttl,
		retry:  50 * time.Millisecond,
		log:    log.Component("lock"),
	}
}

// Lock reintenta hasta obtener el candado o hasta que ctx termine.
func (r *Redis) Lock(ctx context.Context) (func(), error) {
	opts := &redislock.Options{RetryStrategy: redislock.LinearBackoff(r.retry)}
	l, err := r.client.Obtain(ctx, r.key, r.ttl, opts)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("candado %s ocupado: %w", r.key, err)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener candado %s: %w", r.key, err)
	}
	released := false
	return func() {
		if released {
			return
		}
		released = true
		// Liberar con contexto propio: el del comando puede estar cancelado.
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.Release(rctx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			r.log.Warn().Err(err).Str("key", r.key).Msg("no se pudo liberar el candado")
		}
	}, nil
}
