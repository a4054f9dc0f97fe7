package anilink

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/anilink/pkg/domain"
	"github.com/aretw0/anilink/pkg/observability"
	"github.com/aretw0/anilink/pkg/ports"
	"github.com/aretw0/anilink/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
)

// Version is the current release of anilink.
const Version = "0.3.0"

// Link is the high-level entry point for the anilink library.
// It wraps the registry and owns the resources created for it.
type Link struct {
	*registry.Registry

	store      ports.SubjectStore
	locker     ports.DistributedLocker
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	registerer prometheus.Registerer
	metrics    *observability.Metrics
	regOpts    []registry.Option
	closers    []io.Closer
}

// Option defines a functional option for configuring the Link.
type Option func(*Link)

// WithStore selects the subject store (default: in-memory).
func WithStore(store ports.SubjectStore) Option {
	return func(l *Link) {
		l.store = store
	}
}

// WithLocker enables distributed per-subject locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(l *Link) {
		l.locker = locker
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Link) {
		l.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(l *Link) {
		l.hooks = l.hooks.Merge(hooks)
	}
}

// WithMetrics registers Prometheus collectors with reg and feeds them from the registry.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(l *Link) {
		l.registerer = reg
	}
}

// WithRegistryOptions passes low-level options straight to the registry.
func WithRegistryOptions(opts ...registry.Option) Option {
	return func(l *Link) {
		l.regOpts = append(l.regOpts, opts...)
	}
}

// WithCloser hands a resource (e.g. a Redis client) to the Link, which closes it on Close.
func WithCloser(c io.Closer) Option {
	return func(l *Link) {
		l.closers = append(l.closers, c)
	}
}

// New initializes a new Link.
func New(opts ...Option) (*Link, error) {
	l := &Link{}
	for _, opt := range opts {
		opt(l)
	}

	var regOpts []registry.Option
	if l.logger != nil {
		regOpts = append(regOpts, registry.WithLogger(l.logger))
	}
	if l.locker != nil {
		regOpts = append(regOpts, registry.WithLocker(l.locker))
	}
	if l.registerer != nil {
		metrics, err := newMetrics(l.registerer)
		if err != nil {
			return nil, err
		}
		l.metrics = metrics
		regOpts = append(regOpts, registry.WithHooks(metrics.Hooks()))
	}
	regOpts = append(regOpts, registry.WithHooks(l.hooks))
	regOpts = append(regOpts, l.regOpts...)

	l.Registry = registry.New(l.store, regOpts...)
	return l, nil
}

// newMetrics converts a duplicate-registration panic into an error.
func newMetrics(reg prometheus.Registerer) (m *observability.Metrics, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to register metrics: %v", r)
		}
	}()
	return observability.NewMetrics(reg), nil
}

// Seed connects every subject in order, stopping at the first failure.
// Seeded subjects start dormant regardless of their State field.
func (l *Link) Seed(ctx context.Context, subjects ...domain.Subject) error {
	for _, s := range subjects {
		if err := l.Connect(ctx, s.ID, s.ActionLabel); err != nil {
			return fmt.Errorf("failed to seed subject %q: %w", s.ID, err)
		}
	}
	return nil
}

// Metrics returns the Prometheus collectors, or nil when metrics are disabled.
func (l *Link) Metrics() *observability.Metrics {
	return l.metrics
}

// Gatherer returns the metrics registry when it can also be scraped.
func (l *Link) Gatherer() prometheus.Gatherer {
	if g, ok := l.registerer.(prometheus.Gatherer); ok {
		return g
	}
	return nil
}

// Close releases the resources handed to the Link.
func (l *Link) Close() error {
	var errs []error
	for _, c := range l.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
