package tokenstore

import (
	"context"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"
)

// RedisStore keeps token mirrors in redis with per-entry TTLs.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, namespace, subject, token string, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return errors.New("token store not configured")
	}
	if ttl <= 0 {
		return errors.New("token ttl must be positive")
	}
	return s.client.Set(ctx, Key(namespace, subject, token), "1", ttl).Err()
}

func (s *RedisStore) Exists(ctx context.Context, namespace, subject, token string) (bool, error) {
	if s == nil || s.client == nil {
		return false, errors.New("token store not configured")
	}
	n, err := s.client.Exists(ctx, Key(namespace, subject, token)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisStore) Delete(ctx context.Context, namespace, subject, token string) error {
	if s == nil || s.client == nil {
		return errors.New("token store not configured")
	}
	return s.client.Del(ctx, Key(namespace, subject, token)).Err()
}

// RevokeSubject removes every live token mirror belonging to the subject.
func (s *RedisStore) RevokeSubject(ctx context.Context, subject string) (int, error) {
	if s == nil || s.client == nil {
		return 0, errors.New("token store not configured")
	}

	revoked := 0
	iter := s.client.Scan(ctx, 0, subjectPattern(subject), 100).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return revoked, err
		}
		revoked++
	}
	if err := iter.Err(); err != nil {
		return revoked, err
	}
	return revoked, nil
}

var _ Store = (*RedisStore)(nil)
