package middleware

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/anilink/internal/logging"
	"github.com/aretw0/anilink/pkg/domain"
	"github.com/aretw0/anilink/pkg/ports"
)

// ErrCorruptRecord is returned when a stored subject is not a legal lifecycle record.
var ErrCorruptRecord = domain.ErrCorruptRecord

type integrityMiddleware struct {
	next   ports.SubjectStore
	logger *slog.Logger
}

// NewIntegrityMiddleware creates a middleware that refuses to write or read subject
// records whose state is not one of the subject's three legal values.
// Shared backends such as Redis can be edited from outside the registry.
// Corrupt records are hidden from List and logged. Delete always passes through,
// and the registry treats a corrupt record as present, so Connect overwrites it.
func NewIntegrityMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = logging.NewNop()
	}
	return func(next ports.SubjectStore) ports.SubjectStore {
		return &integrityMiddleware{
			next:   next,
			logger: logger,
		}
	}
}

// check enforces the lifecycle rule only. Empty ids and labels are legal records.
func check(s domain.Subject) error {
	if _, ok := s.Class(); !ok {
		return fmt.Errorf("%w: subject %q has state %q outside its lifecycle", ErrCorruptRecord, s.ID, s.State)
	}
	return nil
}

func (m *integrityMiddleware) Save(ctx context.Context, subject domain.Subject) error {
	if err := check(subject); err != nil {
		return err
	}
	return m.next.Save(ctx, subject)
}

func (m *integrityMiddleware) Load(ctx context.Context, id string) (domain.Subject, error) {
	subject, err := m.next.Load(ctx, id)
	if err != nil {
		return subject, err
	}
	if err := check(subject); err != nil {
		m.logger.Warn("Corrupt subject record", "subject_id", id, "err", err)
		return domain.Subject{}, err
	}
	return subject, nil
}

func (m *integrityMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *integrityMiddleware) List(ctx context.Context) ([]domain.Subject, error) {
	subjects, err := m.next.List(ctx)
	if err != nil {
		return nil, err
	}
	valid := subjects[:0]
	for _, s := range subjects {
		if err := check(s); err != nil {
			m.logger.Warn("Skipping corrupt subject record", "subject_id", s.ID, "err", err)
			continue
		}
		valid = append(valid, s)
	}
	return valid, nil
}
