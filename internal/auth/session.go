package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyFmt = "session:%s"

// SessionStore keeps the one live token per user.
type SessionStore interface {
	Set(ctx context.Context, userId string, token string, ttl time.Duration) error
	Get(ctx context.Context, userId string) (string, error)
	Delete(ctx context.Context, userId string) error
}

type RedisSessions struct {
	rdb *redis.Client
}

func NewRedisSessions(rdb *redis.Client) *RedisSessions {
	return &RedisSessions{rdb: rdb}
}

func (s *RedisSessions) Set(ctx context.Context, userId string, token string, ttl time.Duration) error {
	return s.rdb.Set(ctx, fmt.Sprintf(sessionKeyFmt, userId), token, ttl).Err()
}

func (s *RedisSessions) Get(ctx context.Context, userId string) (string, error) {
	return s.rdb.Get(ctx, fmt.Sprintf(sessionKeyFmt, userId)).Result()
}

func (s *RedisSessions) Delete(ctx context.Context, userId string) error {
	return s.rdb.Del(ctx, fmt.Sprintf(sessionKeyFmt, userId)).Err()
}

// OnlineCount returns the number of unique users with active sessions.
func (s *RedisSessions) OnlineCount(ctx context.Context) (int, error) {
	var cursor uint64
	userIds := make(map[string]struct{})
	for {
		keys, newCursor, err := s.rdb.Scan(ctx, cursor, "session:*", 100).Result()
		if err != nil {
			return 0, err
		}
		for _, key := range keys {
			if id, ok := strings.CutPrefix(key, "session:"); ok && id != "" {
				userIds[id] = struct{}{}
			}
		}
		if newCursor == 0 {
			break
		}
		cursor = newCursor
	}
	return len(userIds), nil
}
