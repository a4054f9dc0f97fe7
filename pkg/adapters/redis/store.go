package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/aretw0/anilink/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

const (
	// DefaultPrefix namespaces subject keys.
	DefaultPrefix = "anilink:subject:"

	fieldAction = "action"
	fieldState  = "state"

	// farFuture is the index score of records that never expire (2100-01-01).
	farFuture = 4102444800
)

// Store implements ports.SubjectStore using Redis.
// Each subject is a hash (action, state); a sorted set indexes IDs by expiry.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for subject records.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for subject records.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: DefaultPrefix,
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client returns the underlying Redis client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(id string) string {
	return s.prefix + id
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save writes the subject hash and refreshes its index entry.
func (s *Store) Save(ctx context.Context, subject domain.Subject) error {
	key := s.key(subject.ID)

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, key, fieldAction, subject.ActionLabel, fieldState, subject.State)

	score := float64(farFuture)
	if s.ttl > 0 {
		pipe.Expire(ctx, key, s.ttl)
		score = float64(time.Now().Add(s.ttl).Unix())
	} else {
		pipe.Persist(ctx, key)
	}

	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: subject.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the subject hash.
func (s *Store) Load(ctx context.Context, id string) (domain.Subject, error) {
	fields, err := s.client.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return domain.Subject{}, fmt.Errorf("failed to get from redis: %w", err)
	}
	if len(fields) == 0 {
		return domain.Subject{}, domain.ErrNotFound
	}

	return domain.Subject{
		ID:          id,
		ActionLabel: fields[fieldAction],
		State:       fields[fieldState],
	}, nil
}

// Delete removes the subject and its index entry.
func (s *Store) Delete(ctx context.Context, id string) error {
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, s.key(id))
	pipe.ZRem(ctx, s.indexKey(), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// List returns every live subject.
// Expired IDs are pruned from the index lazily.
func (s *Store) List(ctx context.Context) ([]domain.Subject, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired subjects: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects: %w", err)
	}
	if len(ids) == 0 {
		return []domain.Subject{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*backend.MapStringStringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.HGetAll(ctx, s.key(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to load subjects: %w", err)
	}

	subjects := make([]domain.Subject, 0, len(ids))
	for i, cmd := range cmds {
		fields := cmd.Val()
		if len(fields) == 0 {
			// Key expired before its index score.
			continue
		}
		subjects = append(subjects, domain.Subject{
			ID:          ids[i],
			ActionLabel: fields[fieldAction],
			State:       fields[fieldState],
		})
	}
	return subjects, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
