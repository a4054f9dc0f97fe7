package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/anilink/pkg/adapters/memory"
	"github.com/aretw0/anilink/pkg/domain"
	"github.com/aretw0/anilink/pkg/persistence/middleware"
	"github.com/aretw0/anilink/pkg/ports"
	"github.com/aretw0/anilink/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegrityMiddleware_Contract(t *testing.T) {
	store := middleware.Chain(memory.NewStore(), middleware.NewIntegrityMiddleware(nil))
	ports.RunSubjectStoreContract(t, store)
}

func TestIntegrityMiddleware_RegistryContract(t *testing.T) {
	store := middleware.Chain(memory.NewStore(), middleware.NewIntegrityMiddleware(nil))
	ports.RunRegistryContract(t, registry.New(store))
}

func TestIntegrityMiddleware_RejectsCorruptSave(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	store := middleware.Chain(underlying, middleware.NewIntegrityMiddleware(nil))

	err := store.Save(ctx, domain.Subject{ID: "dog", ActionLabel: "barks", State: "meows"})
	assert.ErrorIs(t, err, middleware.ErrCorruptRecord)
	assert.Equal(t, 0, underlying.Len())

	// Empty ids and labels are legal records as long as the state fits the lifecycle.
	require.NoError(t, store.Save(ctx, domain.NewSubject("", "barks")))
	require.NoError(t, store.Save(ctx, domain.NewSubject("dog", "")))
	assert.Equal(t, 2, underlying.Len())
}

func TestIntegrityMiddleware_ConnectAcceptsEmptyLabel(t *testing.T) {
	ctx := context.Background()
	reg := registry.New(middleware.Chain(memory.NewStore(), middleware.NewIntegrityMiddleware(nil)))

	require.NoError(t, reg.Connect(ctx, "dog", ""))
	state, err := reg.GetState(ctx, "dog")
	require.NoError(t, err)
	assert.Equal(t, domain.StateDormant, state)
}

func TestIntegrityMiddleware_CorruptRecordStaysReplaceable(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()

	var connects []*domain.LinkEvent
	var disconnects []*domain.LinkEvent
	reg := registry.New(middleware.Chain(underlying, middleware.NewIntegrityMiddleware(nil)),
		registry.WithHooks(domain.LifecycleHooks{
			OnConnect:    func(_ context.Context, e *domain.LinkEvent) { connects = append(connects, e) },
			OnDisconnect: func(_ context.Context, e *domain.LinkEvent) { disconnects = append(disconnects, e) },
		}),
	)

	require.NoError(t, underlying.Save(ctx, domain.Subject{ID: "dog", ActionLabel: "barks", State: "flying"}))
	require.NoError(t, reg.Connect(ctx, "dog", "barks"), "connect overwrites a corrupt record")
	require.Len(t, connects, 1)
	assert.True(t, connects[0].Replaced)

	state, err := reg.GetState(ctx, "dog")
	require.NoError(t, err)
	assert.Equal(t, domain.StateDormant, state)

	require.NoError(t, underlying.Save(ctx, domain.Subject{ID: "cat", ActionLabel: "meows", State: "flying"}))
	require.NoError(t, reg.Disconnect(ctx, "cat"), "disconnect removes a corrupt record")
	require.Len(t, disconnects, 1)
	assert.True(t, disconnects[0].Removed)

	_, err = underlying.Load(ctx, "cat")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIntegrityMiddleware_HidesCorruptRecords(t *testing.T) {
	ctx := context.Background()
	underlying := memory.NewStore()
	require.NoError(t, underlying.Save(ctx, domain.Subject{ID: "cat", ActionLabel: "meows", State: "barks"}))
	require.NoError(t, underlying.Save(ctx, domain.NewSubject("dog", "barks")))

	store := middleware.Chain(underlying, middleware.NewIntegrityMiddleware(nil))

	_, err := store.Load(ctx, "cat")
	assert.ErrorIs(t, err, middleware.ErrCorruptRecord)

	subjects, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Subject{domain.NewSubject("dog", "barks")}, subjects)

	// The registry reports the corruption instead of validating against garbage.
	reg := registry.New(store)
	_, err = reg.SetState(ctx, "cat", domain.StateIdle)
	assert.ErrorIs(t, err, middleware.ErrCorruptRecord)

	require.NoError(t, reg.Disconnect(ctx, "dog"))
	_, err = underlying.Load(ctx, "dog")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestChain_Order(t *testing.T) {
	var calls []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.SubjectStore) ports.SubjectStore {
			return recordingStore{SubjectStore: next, name: name, calls: &calls}
		}
	}

	store := middleware.Chain(memory.NewStore(), tag("outer"), tag("inner"))
	require.NoError(t, store.Save(context.Background(), domain.NewSubject("dog", "barks")))
	assert.Equal(t, []string{"outer", "inner"}, calls)
}

type recordingStore struct {
	ports.SubjectStore
	name  string
	calls *[]string
}

func (r recordingStore) Save(ctx context.Context, s domain.Subject) error {
	*r.calls = append(*r.calls, r.name)
	return r.SubjectStore.Save(ctx, s)
}
