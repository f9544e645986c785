package localstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/stridezone/storefront/internal/config"
	"github.com/stridezone/storefront/internal/log"
)

// RedisStore backs slots with redis string keys. Used when several
// development machines share one staging cart; the file store stays
// the default.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(c context.Context, cfg config.Store) (*RedisStore, error) {
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "NewRedisStore").
		Logger()

	logger = logger.With().Str(log.KeyProcess, "initializing redis client").Logger()
	logger.Info().Msg("initializing redis client")
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.Database,
	})
	logger.Info().Msg("initialized redis client")

	logger = logger.With().Str(log.KeyProcess, "initializing redis otel tracing").Logger()
	logger.Info().Msg("initializing redis otel tracing")
	err := redisotel.InstrumentTracing(client, redisotel.WithAttributes(semconv.DBSystemRedis))
	if err != nil {
		err = fmt.Errorf("failed initializing otel redis tracing with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("initialized redis otel tracing")

	logger = logger.With().Str(log.KeyProcess, "pinging connection to redis").Logger()
	logger.Info().Msg("pinging connection to redis")
	err = client.Ping(c).Err()
	if err != nil {
		err = fmt.Errorf("failed pinging redis with error=%w", err)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msg("pinged connection to redis")

	return &RedisStore{client: client}, nil
}

func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Get(c context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(c, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed reading slot key=%s with error=%w", key, err)
	}
	return value, nil
}

func (s *RedisStore) Set(c context.Context, key string, value []byte) error {
	// Slots never expire on their own, matching the cart lifecycle.
	err := s.client.Set(c, key, value, 0).Err()
	if err != nil {
		return fmt.Errorf("failed writing slot key=%s with error=%w", key, err)
	}
	return nil
}

func (s *RedisStore) Delete(c context.Context, key string) error {
	err := s.client.Del(c, key).Err()
	if err != nil {
		return fmt.Errorf("failed deleting slot key=%s with error=%w", key, err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
