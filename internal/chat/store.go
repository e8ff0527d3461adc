package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	appErr "github.com/dashspec/engine/pkg/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionKey identifies one user's conversation on one project flow.
type SessionKey struct {
	ProjectID uuid.UUID
	UserID    uuid.UUID
	Flow      Flow
}

func (k SessionKey) String() string {
	return fmt.Sprintf("chat:session:%s:%s:%s", k.ProjectID, k.UserID, k.Flow)
}

func KeyOf(s Session) SessionKey {
	return SessionKey{ProjectID: s.ProjectID, UserID: s.UserID, Flow: s.Flow}
}

// SessionStore keeps session snapshots between requests. A missing snapshot
// is not an error: callers rebuild the session with Engine.Start.
type SessionStore interface {
	Load(ctx context.Context, key SessionKey) (Session, bool, error)
	Save(ctx context.Context, s Session) error
	Delete(ctx context.Context, key SessionKey) error
}

type memoryEntry struct {
	session Session
	expires time.Time
}

// MemorySessionStore is an in-process SessionStore for the CLI and tests.
type MemorySessionStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[SessionKey]memoryEntry
}

func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	return &MemorySessionStore{ttl: ttl, now: time.Now, entries: map[SessionKey]memoryEntry{}}
}

func (m *MemorySessionStore) Load(_ context.Context, key SessionKey) (Session, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return Session{}, false, nil
	}
	if m.ttl > 0 && m.now().After(e.expires) {
		delete(m.entries, key)
		return Session{}, false, nil
	}
	return e.session, true, nil
}

func (m *MemorySessionStore) Save(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[KeyOf(s)] = memoryEntry{session: s, expires: m.now().Add(m.ttl)}
	return nil
}

func (m *MemorySessionStore) Delete(_ context.Context, key SessionKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

// RedisSessionStore keeps JSON session snapshots in Redis with a TTL.
type RedisSessionStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewRedisSessionStore(rdb redis.UniversalClient, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func (r *RedisSessionStore) Load(ctx context.Context, key SessionKey) (Session, bool, error) {
	b, err := r.rdb.Get(ctx, key.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, false, nil
	}
	if err != nil {
		return Session{}, false, appErr.Wrap(err, appErr.CodeUnavailable, "load chat session failed")
	}
	var s Session
	if err := json.Unmarshal(b, &s); err != nil {
		// A corrupt snapshot is dropped; Start rebuilds it from the store.
		_ = r.rdb.Del(ctx, key.String()).Err()
		return Session{}, false, nil
	}
	return s, true, nil
}

func (r *RedisSessionStore) Save(ctx context.Context, s Session) error {
	b, err := json.Marshal(s)
	if err != nil {
		return appErr.Wrap(err, appErr.CodeInternal, "encode chat session failed")
	}
	if err := r.rdb.Set(ctx, KeyOf(s).String(), b, r.ttl).Err(); err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "save chat session failed")
	}
	return nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, key SessionKey) error {
	if err := r.rdb.Del(ctx, key.String()).Err(); err != nil {
		return appErr.Wrap(err, appErr.CodeUnavailable, "delete chat session failed")
	}
	return nil
}
