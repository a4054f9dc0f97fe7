package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/anilink/pkg/adapters/memory"
	"github.com/aretw0/anilink/pkg/domain"
	"github.com/aretw0/anilink/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunSubjectStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	subject := domain.NewSubject("dog", "barks")
	require.NoError(t, store.Save(ctx, subject))

	// Mutating the caller's copy must not leak into the store.
	subject.State = "corrupted"

	loaded, err := store.Load(ctx, "dog")
	require.NoError(t, err)
	assert.Equal(t, domain.StateDormant, loaded.State)

	loaded.State = "corrupted"
	again, err := store.Load(ctx, "dog")
	require.NoError(t, err)
	assert.Equal(t, domain.StateDormant, again.State)
	assert.Equal(t, 1, store.Len())
}
