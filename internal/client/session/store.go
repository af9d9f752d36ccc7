// Package session owns the bearer token: where it is persisted, how it is
// read back, and when it is destroyed.
//
// A Store is an explicit context object created once per running client and
// passed to whoever needs the token. It keeps no copy of the token in memory;
// Token always consults the backing storage, so a change made through another
// Store over the same storage (another process sharing the database file) is
// seen by the very next request.
package session

import (
	"context"
	"time"

	"github.com/dmitrijs2005/qrtag/internal/common"
	"github.com/dmitrijs2005/qrtag/internal/logging"
)

// savedAtKey records when the current token was stored.
const savedAtKey = common.TokenMetadataKey + "_saved_at"

// Storage is the durable key-value store behind a Store.
type Storage interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetMany(ctx context.Context, values map[string][]byte) error
	Delete(ctx context.Context, keys ...string) error
}

type Store struct {
	storage Storage
	logger  logging.Logger
	now     func() time.Time
}

func NewStore(storage Storage, logger logging.Logger) *Store {
	return &Store{storage: storage, logger: logger, now: time.Now}
}

// Token returns the persisted token, or "" when there is none. A storage
// failure is logged and reported as "no token".
func (s *Store) Token(ctx context.Context) string {
	v, err := s.storage.Get(ctx, common.TokenMetadataKey)
	if err != nil {
		s.logger.Warn(ctx, "token storage unreadable, treating session as anonymous", "error", err)
		return ""
	}
	return string(v)
}

// HasToken reports whether a token is currently persisted.
func (s *Store) HasToken(ctx context.Context) bool {
	return s.Token(ctx) != ""
}

// SetToken persists token as-is; its shape is not checked.
func (s *Store) SetToken(ctx context.Context, token string) error {
	return s.storage.SetMany(ctx, map[string][]byte{
		common.TokenMetadataKey: []byte(token),
		savedAtKey:              []byte(s.now().UTC().Format(time.RFC3339)),
	})
}

// ClearToken removes the token. Clearing an absent token is a no-op.
func (s *Store) ClearToken(ctx context.Context) error {
	return s.storage.Delete(ctx, common.TokenMetadataKey, savedAtKey)
}

// SavedAt returns when the current token was stored.
func (s *Store) SavedAt(ctx context.Context) (time.Time, bool) {
	v, err := s.storage.Get(ctx, savedAtKey)
	if err != nil || len(v) == 0 {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, string(v))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
