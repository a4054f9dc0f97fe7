package ports

import (
	"context"

	"github.com/aretw0/anilink/pkg/domain"
)

// Registry is the capability contract for managing subjects and their lifecycle.
type Registry interface {
	// Connect inserts or replaces the subject, resetting it to dormant.
	// In-memory implementations never fail; backend errors are the only possible failure.
	Connect(ctx context.Context, id, actionLabel string) error

	// Disconnect removes the subject. Removing an absent subject is a no-op.
	Disconnect(ctx context.Context, id string) error

	// GetState returns the stored state value.
	// Returns domain.ErrNotFound if the subject is not registered.
	GetState(ctx context.Context, id string) (string, error)

	// SetState validates and commits a state change, returning the new state.
	// Returns domain.ErrNotFound, domain.ErrInvalidTransition or domain.ErrInvalidState.
	SetState(ctx context.Context, id, requested string) (string, error)
}

// Lister is implemented by registries that can enumerate their subjects.
type Lister interface {
	List(ctx context.Context) ([]domain.Subject, error)
}
