package anilink_test

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/anilink"
	"github.com/aretw0/anilink/pkg/domain"
	"github.com/aretw0/anilink/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLink_Contract(t *testing.T) {
	link, err := anilink.New()
	require.NoError(t, err)
	ports.RunRegistryContract(t, link)
}

func TestLink_Transcript(t *testing.T) {
	link, err := anilink.New()
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, link.Connect(ctx, "dog", "barks"))

	state, err := link.GetState(ctx, "dog")
	require.NoError(t, err)
	assert.Equal(t, "dormant", state)

	state, err = link.SetState(ctx, "dog", "idle")
	require.NoError(t, err)
	assert.Equal(t, "idle", state)

	state, err = link.SetState(ctx, "dog", "action")
	require.NoError(t, err)
	assert.Equal(t, "barks", state)

	_, err = link.SetState(ctx, "dog", "dormant")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	state, _ = link.GetState(ctx, "dog")
	assert.Equal(t, "barks", state)

	state, err = link.SetState(ctx, "dog", "idle")
	require.NoError(t, err)
	assert.Equal(t, "idle", state)

	state, err = link.SetState(ctx, "dog", "dormant")
	require.NoError(t, err)
	assert.Equal(t, "dormant", state)

	_, err = link.SetState(ctx, "dog", "action")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	require.NoError(t, link.Disconnect(ctx, "dog"))
	_, err = link.GetState(ctx, "dog")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLink_Seed(t *testing.T) {
	link, err := anilink.New()
	require.NoError(t, err)
	ctx := context.Background()

	err = link.Seed(ctx,
		domain.Subject{ID: "cat", ActionLabel: "meows", State: "meows"},
		domain.NewSubject("kangaroo", "jumps"),
	)
	require.NoError(t, err)

	state, err := link.GetState(ctx, "cat")
	require.NoError(t, err)
	assert.Equal(t, domain.StateDormant, state, "seeding always starts dormant")

	subjects, err := link.List(ctx)
	require.NoError(t, err)
	assert.Len(t, subjects, 2)
}

func TestLink_Metrics(t *testing.T) {
	promReg := prometheus.NewRegistry()

	var seen []string
	link, err := anilink.New(
		anilink.WithMetrics(promReg),
		anilink.WithLifecycleHooks(domain.LifecycleHooks{
			OnTransition: func(_ context.Context, e *domain.TransitionEvent) { seen = append(seen, e.Requested) },
		}),
	)
	require.NoError(t, err)
	require.NotNil(t, link.Metrics())
	assert.Same(t, promReg, link.Gatherer())

	ctx := context.Background()
	require.NoError(t, link.Connect(ctx, "dog", "barks"))
	_, _ = link.SetState(ctx, "dog", "idle")

	assert.Equal(t, 1.0, testutil.ToFloat64(link.Metrics().Connects))
	assert.Equal(t, []string{"idle"}, seen, "user hooks run alongside metrics")

	_, err = anilink.New(anilink.WithMetrics(promReg))
	assert.ErrorContains(t, err, "failed to register metrics")
}

func TestLink_MetricsDisabled(t *testing.T) {
	link, err := anilink.New()
	require.NoError(t, err)
	assert.Nil(t, link.Metrics())
	assert.Nil(t, link.Gatherer())
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestLink_Close(t *testing.T) {
	var closed int
	boom := errors.New("boom")

	link, err := anilink.New(
		anilink.WithCloser(closerFunc(func() error { closed++; return nil })),
		anilink.WithCloser(closerFunc(func() error { closed++; return boom })),
	)
	require.NoError(t, err)

	err = link.Close()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, closed)
}
