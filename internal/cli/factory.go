package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/anilink"
	"github.com/aretw0/anilink/internal/config"
	"github.com/aretw0/anilink/internal/logging"
	"github.com/aretw0/anilink/pkg/adapters/memory"
	"github.com/aretw0/anilink/pkg/adapters/redis"
	"github.com/aretw0/anilink/pkg/persistence/middleware"
	"github.com/aretw0/anilink/pkg/ports"
	"github.com/aretw0/anilink/pkg/registry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// NewLogger builds the application logger from the log section of the config.
func NewLogger(cfg config.LogConfig, w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	return logging.NewWithFormat(w, level, cfg.Format), nil
}

// NewLink initializes a Link with standard CLI conventions:
// the configured backend wrapped in the integrity check, metrics on a private
// registry and the seed subjects connected.
func NewLink(ctx context.Context, cfg config.Config, logger *slog.Logger, extra ...anilink.Option) (*anilink.Link, error) {
	opts := []anilink.Option{anilink.WithLogger(logger)}

	var store ports.SubjectStore
	switch cfg.Store.Backend {
	case config.BackendRedis:
		rc := cfg.Store.Redis
		rs := redis.New(rc.Addr, rc.Password, rc.DB,
			redis.WithPrefix(rc.Prefix),
			redis.WithTTL(rc.TTL),
		)
		store = rs
		opts = append(opts, anilink.WithCloser(rs))
		if rc.Lock {
			opts = append(opts,
				anilink.WithLocker(redis.NewLocker(rs.Client(), rc.Prefix)),
				anilink.WithRegistryOptions(registry.WithLockTTL(rc.LockTTL)),
			)
		}
		logger.Info("Using Redis store", "addr", rc.Addr, "prefix", rc.Prefix, "lock", rc.Lock)
	default:
		store = memory.NewStore()
	}

	if cfg.Store.Verify {
		store = middleware.Chain(store, middleware.NewIntegrityMiddleware(logger))
	}
	opts = append(opts, anilink.WithStore(store))

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector())
		opts = append(opts, anilink.WithMetrics(reg))
	}

	opts = append(opts, extra...)

	link, err := anilink.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing registry: %w", err)
	}

	if err := link.Seed(ctx, cfg.Subjects...); err != nil {
		_ = link.Close()
		return nil, err
	}
	return link, nil
}
