package ports

import (
	"context"

	"github.com/aretw0/anilink/pkg/domain"
)

// SubjectStore defines the interface for holding subject records.
// Implementations must be safe for concurrent use and must not let callers
// alias stored records.
type SubjectStore interface {
	// Save inserts or overwrites the record keyed by subject.ID.
	Save(ctx context.Context, subject domain.Subject) error

	// Load retrieves the record for the given ID.
	// Returns domain.ErrNotFound if the subject does not exist.
	Load(ctx context.Context, id string) (domain.Subject, error)

	// Delete removes the record. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns every stored record in no particular order.
	List(ctx context.Context) ([]domain.Subject, error)
}
