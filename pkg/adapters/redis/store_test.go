package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/anilink/pkg/adapters/redis"
	"github.com/aretw0/anilink/pkg/domain"
	"github.com/aretw0/anilink/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)

	store := redis.NewFromClient(client)
	ports.RunSubjectStoreContract(t, store)
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	err := store.Save(ctx, domain.NewSubject("dog", "barks"))
	require.NoError(t, err)

	subjects, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, subjects, 1)
	assert.Equal(t, "dog", subjects[0].ID)

	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "dog")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// The index entry outlives the key until its score passes; List must skip it.
	subjects, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, subjects)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := newClient(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	err := store.Save(ctx, domain.Subject{ID: "cat", ActionLabel: "meows", State: domain.StateIdle})
	require.NoError(t, err)

	assert.True(t, mr.Exists("custom:app:cat"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:index"), "Expected index with custom prefix to exist")
	assert.Equal(t, "meows", mr.HGet("custom:app:cat", "action"))
	assert.Equal(t, domain.StateIdle, mr.HGet("custom:app:cat", "state"))
}

func TestRedisStore_SharedBetweenInstances(t *testing.T) {
	_, client := newClient(t)
	ctx := context.Background()

	a := redis.NewFromClient(client)
	b := redis.NewFromClient(client)

	require.NoError(t, a.Save(ctx, domain.NewSubject("kangaroo", "jumps")))

	loaded, err := b.Load(ctx, "kangaroo")
	require.NoError(t, err)
	assert.Equal(t, "jumps", loaded.ActionLabel)

	require.NoError(t, b.Delete(ctx, "kangaroo"))
	_, err = a.Load(ctx, "kangaroo")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
