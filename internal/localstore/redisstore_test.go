package localstore

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	testRedis "github.com/testcontainers/testcontainers-go/modules/redis"

	"github.com/stretchr/testify/assert"
)

type (
	redisSetupFunc    func(context.Context) (*RedisStore, *testRedis.RedisContainer)
	redisTeardownFunc func(*RedisStore, *testRedis.RedisContainer)
)

func setupRedis(t *testing.T) redisSetupFunc {
	return func(c context.Context) (*RedisStore, *testRedis.RedisContainer) {
		redisContainer, err := testRedis.Run(
			c,
			"redis:7.4.2-alpine3.21",
			testRedis.WithLogLevel(testRedis.LogLevelVerbose),
		)
		if err != nil {
			t.Fatalf("failed running redis container with error: %s", err)
		}

		redisConnStr, err := redisContainer.ConnectionString(c)
		if err != nil {
			t.Fatalf("failed getting redis connection string with error: %s", err)
		}

		redisOpt, err := redis.ParseURL(redisConnStr)
		if err != nil {
			t.Fatalf("failed parsing redis connection string with error: %s", err)
		}

		client := redis.NewClient(redisOpt)
		if err = client.Ping(c).Err(); err != nil {
			t.Fatalf("failed ping redis client with error: %s", err)
		}
		return NewRedisStoreFromClient(client), redisContainer
	}
}

func teardownRedis(t *testing.T) redisTeardownFunc {
	return func(store *RedisStore, redisContainer *testRedis.RedisContainer) {
		store.Close()
		if err := testcontainers.TerminateContainer(redisContainer); err != nil {
			t.Fatalf("failed to terminate container: %s", err)
		}
	}
}

func TestRedisStore(t *testing.T) {
	c := testContext()
	store, container := setupRedis(t)(c)
	defer teardownRedis(t)(store, container)

	_, err := store.Get(c, "stridezone_cart")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	assert.NoError(t, store.Set(c, "stridezone_cart", []byte(`[{"id":1}]`)))
	value, err := store.Get(c, "stridezone_cart")
	assert.NoError(t, err)
	assert.Equal(t, []byte(`[{"id":1}]`), value)

	assert.NoError(t, store.Delete(c, "stridezone_cart"))
	_, err = store.Get(c, "stridezone_cart")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}
