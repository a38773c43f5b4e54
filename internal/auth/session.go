package auth

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// SessionTTL is the server-side lifetime of a plain (non-remembered)
	// session.
	SessionTTL    = 24 * time.Hour
	SessionCookie = "session_id"
)

// Store maps opaque session tokens to user ids.
type Store interface {
	Create(ctx context.Context, userID int64, ttl time.Duration) (string, error)
	// Get returns the user id for a token, or 0 if missing / expired.
	Get(ctx context.Context, token string) (int64, error)
	Delete(ctx context.Context, token string) error
}

// NewRedisClient creates and pings a Redis client with optional password auth.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// RedisStore keeps sessions in Redis so they survive restarts and are
// shared across replicas.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Create(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	token := uuid.New().String()
	err := s.rdb.Set(ctx, "session:"+token, strconv.FormatInt(userID, 10), ttl).Err()
	return token, err
}

func (s *RedisStore) Get(ctx context.Context, token string) (int64, error) {
	val, err := s.rdb.Get(ctx, "session:"+token).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, "session:"+token).Err()
}

// MemoryStore keeps sessions in-process. It is the default for the
// single-binary sqlite deployment, where no Redis is configured.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memorySession
}

type memorySession struct {
	userID    int64
	expiresAt time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]memorySession)}
}

func (s *MemoryStore) Create(ctx context.Context, userID int64, ttl time.Duration) (string, error) {
	token := uuid.New().String()
	s.mu.Lock()
	s.sessions[token] = memorySession{userID: userID, expiresAt: time.Now().Add(ttl)}
	s.mu.Unlock()
	return token, nil
}

func (s *MemoryStore) Get(ctx context.Context, token string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return 0, nil
	}
	if time.Now().After(sess.expiresAt) {
		delete(s.sessions, token)
		return 0, nil
	}
	return sess.userID, nil
}

func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
	return nil
}
