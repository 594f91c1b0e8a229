package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/example/trainbot/pkg/models"
)

// RedisStore keeps sessions in Redis so they survive a bot restart. Keys carry
// a TTL, so idle sessions expire on the Redis side and DeleteIdle is a no-op.
// Advance is serialized with a process-local mutex: the bot is the only writer
// of its sessions, which is enough to keep the read-modify-write atomic.
type RedisStore struct {
	mu     sync.Mutex
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a session store backed by the given Redis client
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		client: client,
		ttl:    ttl,
	}
}

func (s *RedisStore) redisKey(key string) string {
	return "quiz_session:" + key
}

func (s *RedisStore) Create(ctx context.Context, key string, questions []models.TestQuestion) error {
	snapshot := make([]models.TestQuestion, len(questions))
	copy(snapshot, questions)

	session := &Session{
		ProductID: snapshotProductID(snapshot),
		Questions: snapshot,
		Current:   0,
		Answers:   make(map[int64]Answer),
		UpdatedAt: time.Now(),
	}
	return s.save(ctx, key, session)
}

func (s *RedisStore) Get(ctx context.Context, key string) (*Session, error) {
	data, err := s.client.Get(ctx, s.redisKey(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &session, nil
}

func (s *RedisStore) Advance(ctx context.Context, key string, questionID int64, answer string) (*AdvanceResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	session, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	result := advanceSession(session, questionID, answer)
	if !result.AlreadyDone {
		if err := s.save(ctx, key, session); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteIdle is handled by per-key TTLs on the Redis side
func (s *RedisStore) DeleteIdle(time.Duration) int {
	return 0
}

func (s *RedisStore) save(ctx context.Context, key string, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := s.client.Set(ctx, s.redisKey(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}
