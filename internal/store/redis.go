package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/swarajpanmand/encode-ai-native-health/internal/logging"
)

const defaultRedisPrefix = "convs-"

// RedisStore keeps each history as a redis list. Every append refreshes the
// key expiry, so a conversation lives for ttl after its last turn.
type RedisStore struct {
	rc     redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger *zap.SugaredLogger
}

type RedisOption func(*RedisStore)

func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

func WithRedisLogger(logger *zap.SugaredLogger) RedisOption {
	return func(s *RedisStore) {
		s.logger = logger
	}
}

// NewRedisStore connects using a redis:// URI.
func NewRedisStore(uri string, opts ...RedisOption) (*RedisStore, error) {
	ropts, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse redis uri: %w", err)
	}
	return NewRedisStoreFromClient(redis.NewClient(ropts), opts...), nil
}

func NewRedisStoreFromClient(rc redis.UniversalClient, opts ...RedisOption) *RedisStore {
	s := &RedisStore{
		rc:     rc,
		prefix: defaultRedisPrefix,
		ttl:    DefaultTTL,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Get(ctx context.Context, id string) (turns []Turn, err error) {
	if err = s.rc.LRange(ctx, s.key(id), 0, -1).ScanSlice(&turns); err != nil {
		return nil, err
	}
	if len(turns) == 0 {
		return nil, ErrNotFound
	}
	return turns, nil
}

func (s *RedisStore) Append(ctx context.Context, id string, turns ...Turn) error {
	if len(turns) == 0 {
		return nil
	}
	key := s.key(id)
	values := make([]any, 0, len(turns))
	for _, t := range turns {
		values = append(values, t)
	}
	_, err := s.rc.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, values...)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		s.logger.Infow("add history fail", "key", key, "err", err)
		return err
	}
	s.logger.Debugw("add history ok", "key", key, "count", len(turns))
	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.rc.Del(ctx, s.key(id)).Err()
}

// Ping checks the connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rc.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rc.Close()
}
