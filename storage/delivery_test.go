package storage

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeliveryStore(t *testing.T) {
	ctx := context.Background()

	t.Run("redis remembers a delivery for an hour", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()

		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer client.Close()
		store := NewDeliveryStore(client)

		isNew, err := store.MarkProcessed(ctx, "sig_1")
		assert.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "sig_1")
		assert.NoError(t, err)
		assert.False(t, isNew)

		assert.Equal(t, DeliveryTTL, mr.TTL("webhook_delivery_sig_1"))

		mr.FastForward(DeliveryTTL)
		isNew, err = store.MarkProcessed(ctx, "sig_1")
		assert.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("redis errors are returned", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
		defer client.Close()
		mr.Close()

		_, err = NewDeliveryStore(client).MarkProcessed(ctx, "sig_2")
		assert.Error(t, err)
	})

	t.Run("memory store without redis", func(t *testing.T) {
		store := NewDeliveryStore(nil)

		isNew, err := store.MarkProcessed(ctx, "sig_3")
		assert.NoError(t, err)
		assert.True(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "sig_3")
		assert.NoError(t, err)
		assert.False(t, isNew)

		isNew, err = store.MarkProcessed(ctx, "sig_4")
		assert.NoError(t, err)
		assert.True(t, isNew)
	})

	t.Run("forget allows a redelivery", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()

		client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
		defer client.Close()

		for _, store := range []DeliveryStore{NewDeliveryStore(client), NewDeliveryStore(nil)} {
			isNew, err := store.MarkProcessed(ctx, "sig_5")
			require.NoError(t, err)
			require.True(t, isNew)

			require.NoError(t, store.Forget(ctx, "sig_5"))

			isNew, err = store.MarkProcessed(ctx, "sig_5")
			assert.NoError(t, err)
			assert.True(t, isNew)
		}
	})
}

func TestInitializeRedis(t *testing.T) {
	t.Run("empty URL leaves redis disabled", func(t *testing.T) {
		RedisClient = nil
		assert.NoError(t, InitializeRedis(""))
		assert.Nil(t, RedisClient)
	})

	t.Run("connects to a live server", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		defer mr.Close()

		require.NoError(t, InitializeRedis("redis://"+mr.Addr()))
		assert.NotNil(t, RedisClient)
		assert.NoError(t, RedisClient.Ping(context.Background()).Err())
		RedisClient.Close()
		RedisClient = nil
	})

	t.Run("rejects a malformed URL", func(t *testing.T) {
		assert.Error(t, InitializeRedis("not-a-url"))
	})
}
