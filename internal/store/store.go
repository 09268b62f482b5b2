// Package store is the single owner of durable state. Every write runs as one
// serialized transaction; committed writes invalidate live projections and
// are mirrored to the event bus.
package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/paramset/paramset/internal/events"
	"github.com/paramset/paramset/internal/live"
)

// ErrDBNil is returned by New when the database connection is nil.
var ErrDBNil = errors.New("database connection is nil")

// Store implements the persistence operations on top of gorm.
type Store struct {
	db       *gorm.DB
	mu       sync.Mutex // serializes writes
	notifier *live.Notifier

	publisher events.Publisher
	topic     string
}

// Option configures a Store.
type Option func(*Store)

// WithNotifier shares n instead of a private notifier.
func WithNotifier(n *live.Notifier) Option {
	return func(s *Store) {
		s.notifier = n
	}
}

// WithPublisher mirrors committed writes to p on topic.
func WithPublisher(p events.Publisher, topic string) Option {
	return func(s *Store) {
		s.publisher = p
		s.topic = topic
	}
}

// New returns a Store over a migrated database.
func New(db *gorm.DB, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	s := &Store{
		db:        db,
		notifier:  live.NewNotifier(),
		publisher: &events.NoopPublisher{},
		topic:     events.TopicTablesChanged,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Notifier returns the notifier committed writes are announced on.
func (s *Store) Notifier() *live.Notifier {
	return s.notifier
}

// write runs fn in one transaction while holding the write lock. fn must only
// use tx: SQLite runs on a single connection and a query on s.db would wait
// for the transaction forever.
func (s *Store) write(ctx context.Context, op string, configID uint64, tables []string, fn func(tx *gorm.DB) error) error {
	s.mu.Lock()
	err := s.db.WithContext(ctx).Transaction(fn)
	s.mu.Unlock()

	if err != nil {
		return err
	}

	s.notifier.Notify(tables...)

	change := events.TablesChanged{Op: op, Tables: tables, ConfigID: configID, At: time.Now().UTC()}
	if err := s.publisher.Publish(ctx, s.topic, change); err != nil {
		log.Warn().Err(err).Str("op", op).Msg("failed to publish change event")
	}

	return nil
}

func (s *Store) read(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx)
}
