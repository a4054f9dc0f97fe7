package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/anilink/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSubjectStoreContract runs a suite of tests to verify that a SubjectStore implementation
// adheres to the defined interface contract.
func RunSubjectStoreContract(t *testing.T, store SubjectStore) {
	ctx := context.Background()
	prefix := "contract-store-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		subject := domain.NewSubject(prefix+"-dog", "barks")

		err := store.Save(ctx, subject)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, subject.ID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, subject, loaded)
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		id := prefix + "-overwrite"
		require.NoError(t, store.Save(ctx, domain.Subject{ID: id, ActionLabel: "barks", State: domain.StateIdle}))
		require.NoError(t, store.Save(ctx, domain.NewSubject(id, "howls")))

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "howls", loaded.ActionLabel)
		assert.Equal(t, domain.StateDormant, loaded.State)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+prefix)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		id := prefix + "-delete"
		require.NoError(t, store.Save(ctx, domain.NewSubject(id, "jumps")))

		err := store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound, "Load after Delete should return ErrNotFound")

		assert.NoError(t, store.Delete(ctx, id), "Deleting twice should be a no-op")
	})

	t.Run("List", func(t *testing.T) {
		id1 := prefix + "-1"
		id2 := prefix + "-2"
		_ = store.Save(ctx, domain.NewSubject(id1, "meows"))
		_ = store.Save(ctx, domain.NewSubject(id2, "jumps"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		subjects, err := store.List(ctx)
		require.NoError(t, err)

		ids := make([]string, 0, len(subjects))
		for _, s := range subjects {
			ids = append(ids, s.ID)
		}
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}

// RunRegistryContract runs the lifecycle properties every Registry must satisfy.
// Each subtest uses its own subject IDs, so the registry may be shared between subtests.
func RunRegistryContract(t *testing.T, reg Registry) {
	ctx := context.Background()
	prefix := "contract-reg-" + time.Now().Format("20060102150405")

	t.Run("Unknown Subject", func(t *testing.T) {
		id := prefix + "-ghost"

		_, err := reg.GetState(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		_, err = reg.SetState(ctx, id, domain.StateIdle)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Connect Starts Dormant", func(t *testing.T) {
		id := prefix + "-cat"
		require.NoError(t, reg.Connect(ctx, id, "meows"))

		state, err := reg.GetState(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StateDormant, state)
	})

	t.Run("Walk Through Idle", func(t *testing.T) {
		id := prefix + "-walk"
		require.NoError(t, reg.Connect(ctx, id, "barks"))

		state, err := reg.SetState(ctx, id, domain.StateIdle)
		require.NoError(t, err)
		assert.Equal(t, domain.StateIdle, state)

		state, err = reg.SetState(ctx, id, domain.AliasAction)
		require.NoError(t, err)
		assert.Equal(t, "barks", state)
	})

	t.Run("Active To Dormant Rejected", func(t *testing.T) {
		id := prefix + "-active"
		require.NoError(t, reg.Connect(ctx, id, "barks"))
		_, err := reg.SetState(ctx, id, domain.StateIdle)
		require.NoError(t, err)
		_, err = reg.SetState(ctx, id, "barks")
		require.NoError(t, err)

		_, err = reg.SetState(ctx, id, domain.StateDormant)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		state, err := reg.GetState(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "barks", state, "rejected transition must leave state untouched")
	})

	t.Run("Dormant To Active Rejected", func(t *testing.T) {
		id := prefix + "-dormant"
		require.NoError(t, reg.Connect(ctx, id, "jumps"))

		_, err := reg.SetState(ctx, id, "jumps")
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)

		state, err := reg.GetState(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StateDormant, state)
	})

	t.Run("Unrelated Value Rejected From Any State", func(t *testing.T) {
		id := prefix + "-unrelated"
		require.NoError(t, reg.Connect(ctx, id, "barks"))

		for _, step := range []string{"", domain.StateIdle, domain.AliasAction} {
			if step != "" {
				_, err := reg.SetState(ctx, id, step)
				require.NoError(t, err)
			}
			before, err := reg.GetState(ctx, id)
			require.NoError(t, err)

			_, err = reg.SetState(ctx, id, "unrelated_string")
			assert.ErrorIs(t, err, domain.ErrInvalidState, "from %s", before)

			after, err := reg.GetState(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, before, after)
		}
	})

	t.Run("Self Loops Succeed", func(t *testing.T) {
		id := prefix + "-loops"
		require.NoError(t, reg.Connect(ctx, id, "barks"))

		for _, s := range []string{domain.StateDormant, domain.StateIdle, domain.StateIdle, "barks", domain.AliasAction} {
			_, err := reg.SetState(ctx, id, s)
			require.NoError(t, err, "requested %s", s)
		}
	})

	t.Run("Disconnect Is Idempotent", func(t *testing.T) {
		id := prefix + "-gone"
		require.NoError(t, reg.Connect(ctx, id, "barks"))

		assert.NoError(t, reg.Disconnect(ctx, id))
		assert.NoError(t, reg.Disconnect(ctx, id))
		assert.NoError(t, reg.Disconnect(ctx, prefix+"-never-connected"))

		_, err := reg.GetState(ctx, id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		_, err = reg.SetState(ctx, id, domain.StateIdle)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Reconnect Resets", func(t *testing.T) {
		id := prefix + "-reset"
		require.NoError(t, reg.Connect(ctx, id, "barks"))
		_, err := reg.SetState(ctx, id, domain.StateIdle)
		require.NoError(t, err)
		_, err = reg.SetState(ctx, id, domain.AliasAction)
		require.NoError(t, err)

		require.NoError(t, reg.Connect(ctx, id, "howls"))

		state, err := reg.GetState(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StateDormant, state)

		_, err = reg.SetState(ctx, id, domain.StateIdle)
		require.NoError(t, err)
		state, err = reg.SetState(ctx, id, domain.AliasAction)
		require.NoError(t, err)
		assert.Equal(t, "howls", state, "the new action label replaces the old one")

		_, err = reg.SetState(ctx, id, "barks")
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("Transcript", func(t *testing.T) {
		dog := prefix + "-dog"
		require.NoError(t, reg.Connect(ctx, dog, "barks"))

		state, err := reg.GetState(ctx, dog)
		require.NoError(t, err)
		assert.Equal(t, domain.StateDormant, state)

		steps := []struct {
			requested string
			want      string
			err       error
		}{
			{domain.StateIdle, domain.StateIdle, nil},
			{domain.AliasAction, "barks", nil},
			{domain.StateDormant, "", domain.ErrInvalidTransition},
			{domain.StateIdle, domain.StateIdle, nil},
			{domain.StateDormant, domain.StateDormant, nil},
			{domain.AliasAction, "", domain.ErrInvalidTransition},
		}
		for i, step := range steps {
			got, err := reg.SetState(ctx, dog, step.requested)
			if step.err != nil {
				assert.ErrorIs(t, err, step.err, "step %d", i)
				continue
			}
			require.NoError(t, err, "step %d", i)
			assert.Equal(t, step.want, got, "step %d", i)
		}

		state, err = reg.GetState(ctx, dog)
		require.NoError(t, err)
		assert.Equal(t, domain.StateDormant, state)

		require.NoError(t, reg.Disconnect(ctx, dog))
		_, err = reg.GetState(ctx, dog)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
