package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aretw0/anilink/internal/logging"
	"github.com/aretw0/anilink/pkg/adapters/memory"
	"github.com/aretw0/anilink/pkg/domain"
	"github.com/aretw0/anilink/pkg/ports"
)

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// Registry owns subject records and serializes every operation per subject.
type Registry struct {
	store ports.SubjectStore
	locks *keyLocks

	locker  ports.DistributedLocker // Optional distributed locker
	lockTTL time.Duration

	hooks  domain.LifecycleHooks
	logger *slog.Logger
	now    func() time.Time
}

// Ensure Registry implements the ports it advertises.
var (
	_ ports.Registry = (*Registry)(nil)
	_ ports.Lister   = (*Registry)(nil)
)

// Option configures the Registry.
type Option func(*Registry)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(r *Registry) {
		r.locker = locker
	}
}

// WithLockTTL overrides DefaultLockTTL for distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(r *Registry) {
		r.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Registry.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithHooks registers observability hooks.
// Calling it more than once chains the hooks in order.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(r *Registry) {
		r.hooks = r.hooks.Merge(hooks)
	}
}

// New creates a Registry backed by the given store.
// A nil store selects a fresh in-memory store.
func New(store ports.SubjectStore, opts ...Option) *Registry {
	if store == nil {
		store = memory.NewStore()
	}
	r := &Registry{
		store:   store,
		locks:   newKeyLocks(),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the underlying subject store.
func (r *Registry) Store() ports.SubjectStore {
	return r.store
}

// Connect registers the subject in the dormant state, replacing any previous record.
func (r *Registry) Connect(ctx context.Context, id, actionLabel string) error {
	var replaced bool
	err := r.withLock(ctx, id, func(ctx context.Context) error {
		_, err := r.store.Load(ctx, id)
		switch {
		case err == nil, errors.Is(err, domain.ErrCorruptRecord):
			replaced = true
		case !errors.Is(err, domain.ErrNotFound):
			return fmt.Errorf("failed to check subject existence: %w", err)
		}

		if err := r.store.Save(ctx, domain.NewSubject(id, actionLabel)); err != nil {
			return fmt.Errorf("failed to connect subject: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Info("Subject connected", "subject_id", id, "action", actionLabel, "replaced", replaced)
	if r.hooks.OnConnect != nil {
		r.hooks.OnConnect(ctx, &domain.LinkEvent{
			EventBase:   r.event(domain.EventConnect, id),
			ActionLabel: actionLabel,
			Replaced:    replaced,
		})
	}
	return nil
}

// Disconnect removes the subject. Absent subjects are ignored.
func (r *Registry) Disconnect(ctx context.Context, id string) error {
	var removed bool
	err := r.withLock(ctx, id, func(ctx context.Context) error {
		_, err := r.store.Load(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		// A corrupt record still exists and must stay removable.
		if err != nil && !errors.Is(err, domain.ErrCorruptRecord) {
			return fmt.Errorf("failed to check subject existence: %w", err)
		}

		if err := r.store.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to disconnect subject: %w", err)
		}
		removed = true
		return nil
	})
	if err != nil {
		return err
	}

	r.logger.Debug("Subject disconnected", "subject_id", id, "removed", removed)
	if r.hooks.OnDisconnect != nil {
		r.hooks.OnDisconnect(ctx, &domain.LinkEvent{
			EventBase: r.event(domain.EventDisconnect, id),
			Removed:   removed,
		})
	}
	return nil
}

// GetState returns the current state value of the subject.
func (r *Registry) GetState(ctx context.Context, id string) (string, error) {
	var state string
	err := r.withLock(ctx, id, func(ctx context.Context) error {
		subject, err := r.load(ctx, id)
		if err != nil {
			return err
		}
		state = subject.State
		return nil
	})
	return state, err
}

// SetState validates the requested change against the subject's lifecycle and commits it.
// Rejected requests leave the record untouched.
func (r *Registry) SetState(ctx context.Context, id, requested string) (string, error) {
	var subject domain.Subject
	var next string

	err := r.withLock(ctx, id, func(ctx context.Context) error {
		var err error
		subject, err = r.load(ctx, id)
		if err != nil {
			return err
		}

		next, err = domain.Validate(subject.State, subject.ActionLabel, requested)
		if err != nil {
			var terr *domain.TransitionError
			if errors.As(err, &terr) {
				terr.SubjectID = id
			}
			return err
		}

		if next == subject.State {
			return nil
		}

		updated := subject
		updated.State = next
		if err := r.store.Save(ctx, updated); err != nil {
			return fmt.Errorf("failed to commit state: %w", err)
		}
		return nil
	})

	r.emitTransition(ctx, id, subject.State, requested, next, err)

	if err != nil {
		return "", err
	}
	return next, nil
}

// List returns a snapshot of every subject, sorted by ID.
func (r *Registry) List(ctx context.Context) ([]domain.Subject, error) {
	subjects, err := r.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	sort.Slice(subjects, func(i, j int) bool {
		return subjects[i].ID < subjects[j].ID
	})
	return subjects, nil
}

func (r *Registry) load(ctx context.Context, id string) (domain.Subject, error) {
	subject, err := r.store.Load(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Subject{}, fmt.Errorf("%w: %q", domain.ErrNotFound, id)
	}
	if err != nil {
		return domain.Subject{}, fmt.Errorf("failed to load subject: %w", err)
	}
	return subject, nil
}

func (r *Registry) emitTransition(ctx context.Context, id, from, requested, to string, err error) {
	switch {
	case err == nil:
		r.logger.Info("State changed", "subject_id", id, "from", from, "to", to)
	case isRejection(err):
		r.logger.Debug("State change rejected", "subject_id", id, "from", from, "requested", requested, "err", err)
	default:
		r.logger.Error("State change failed", "subject_id", id, "requested", requested, "err", err)
	}

	if r.hooks.OnTransition == nil {
		return
	}
	r.hooks.OnTransition(ctx, &domain.TransitionEvent{
		EventBase: r.event(domain.EventTransition, id),
		From:      from,
		Requested: requested,
		To:        to,
		Err:       err,
	})
}

func (r *Registry) event(t domain.EventType, id string) domain.EventBase {
	return domain.EventBase{
		Timestamp: r.now(),
		Type:      t,
		SubjectID: id,
	}
}

// withLock executes fn while holding the lock for the subject.
func (r *Registry) withLock(ctx context.Context, id string, fn func(context.Context) error) error {
	entry := r.locks.acquire(id)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		r.locks.release(id)
	}()

	if r.locker != nil {
		unlock, err := r.locker.Lock(ctx, id, r.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				r.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"subject_id", id,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}

func isRejection(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrInvalidTransition) ||
		errors.Is(err, domain.ErrInvalidState)
}
