package registry

import (
	"context"
	"sync"
	"testing"

	"github.com/aretw0/anilink/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestKeyLocks_GarbageCollected(t *testing.T) {
	reg := New(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = reg.Connect(ctx, "dog", "barks")
			_, _ = reg.SetState(ctx, "dog", domain.StateIdle)
			_, _ = reg.GetState(ctx, "dog")
			_ = reg.Disconnect(ctx, "dog")
		}()
	}
	wg.Wait()

	assert.Equal(t, 0, reg.locks.size(), "lock entries must be released once unused")
}
