// Package session 在 Redis 中保存刷新令牌，支持轮换与吊销
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"social_feed/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
)

// Store 刷新令牌会话存储
type Store interface {
	// Save 记录 jti 属于 userID，ttl 后自动过期
	Save(ctx context.Context, jti string, userID int64, ttl time.Duration) error
	// Consume 原子地取出并删除 jti，令牌只能使用一次
	Consume(ctx context.Context, jti string) (int64, error)
	// Revoke 删除 jti，不存在时视为成功
	Revoke(ctx context.Context, jti string) error
}

type redisStore struct {
	rdb    redis.Cmdable
	prefix string
}

func NewRedisStore(rdb redis.Cmdable) Store {
	return &redisStore{rdb: rdb, prefix: "refresh:"}
}

func (s *redisStore) key(jti string) string {
	return fmt.Sprintf("%s%s", s.prefix, jti)
}

func (s *redisStore) Save(ctx context.Context, jti string, userID int64, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, s.key(jti), userID, ttl).Err(); err != nil {
		return errs.Unavailable(err)
	}
	return nil
}

func (s *redisStore) Consume(ctx context.Context, jti string) (int64, error) {
	val, err := s.rdb.GetDel(ctx, s.key(jti)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, errs.ErrTokenInvalid
	}
	if err != nil {
		return 0, errs.Unavailable(err)
	}
	userID, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, errs.ErrTokenInvalid
	}
	return userID, nil
}

func (s *redisStore) Revoke(ctx context.Context, jti string) error {
	if err := s.rdb.Del(ctx, s.key(jti)).Err(); err != nil {
		return errs.Unavailable(err)
	}
	return nil
}
