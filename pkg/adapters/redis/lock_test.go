package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/anilink/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker_LockUnlock(t *testing.T) {
	mr, client := newClient(t)

	locker := redis.NewLocker(client, "test:")
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "dog", 5*time.Second)
	require.NoError(t, err)
	require.NotNil(t, unlock)

	assert.True(t, mr.Exists("test:lock:dog"), "Lock key should be set in Redis")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("test:lock:dog"), "Lock key should be removed after unlock")
}

func TestRedisLocker_Contention(t *testing.T) {
	_, client := newClient(t)

	locker1 := redis.NewLocker(client, "test:", redis.WithRetryInterval(10*time.Millisecond))
	locker2 := redis.NewLocker(client, "test:", redis.WithRetryInterval(10*time.Millisecond))
	ctx := context.Background()

	unlock1, err := locker1.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)

	ctxTimeout, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()

	_, err = locker2.Lock(ctxTimeout, "shared", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	require.NoError(t, unlock1(ctx))

	unlock2, err := locker2.Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)
	assert.NoError(t, unlock2(ctx))
}

func TestRedisLocker_StaleUnlockKeepsNewHolder(t *testing.T) {
	mr, client := newClient(t)

	locker := redis.NewLocker(client, "test:", redis.WithRetryInterval(10*time.Millisecond))
	ctx := context.Background()

	staleUnlock, err := locker.Lock(ctx, "cat", 1*time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	freshUnlock, err := locker.Lock(ctx, "cat", 5*time.Second)
	require.NoError(t, err)

	require.NoError(t, staleUnlock(ctx))
	assert.True(t, mr.Exists("test:lock:cat"), "Expired holder must not release the new lock")

	require.NoError(t, freshUnlock(ctx))
	assert.False(t, mr.Exists("test:lock:cat"))
}
