package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
	ErrExtendFailed     = errors.New("token extend failed")
	ErrTokenDeleted     = errors.New("token delete failed")
)

const (
	SessionTokenPrefix = "login:user:token"
	SessionTokenExpire = 60 * 30
)

// SessionRepository keeps the single active access token per user with a
// sliding TTL; a login elsewhere replaces it.
type SessionRepository struct {
	RDB *redis.Client
}

func NewSessionRepository(rdb *redis.Client) *SessionRepository {
	return &SessionRepository{RDB: rdb}
}

func (r *SessionRepository) sessionKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", SessionTokenPrefix, userID)
}

func (r *SessionRepository) AddUserToken(ctx context.Context, userID uint64, token string) error {
	if err := r.RDB.Set(ctx, r.sessionKey(userID), token, time.Second*SessionTokenExpire).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *SessionRepository) GetUserToken(ctx context.Context, userID uint64) (string, error) {
	token, err := r.RDB.Get(ctx, r.sessionKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

func (r *SessionRepository) ExtendUserToken(ctx context.Context, userID uint64) error {
	if _, err := r.RDB.Expire(ctx, r.sessionKey(userID), time.Second*SessionTokenExpire).Result(); err != nil {
		return ErrExtendFailed
	}
	return nil
}

func (r *SessionRepository) DeleteUserToken(ctx context.Context, userID uint64) error {
	if err := r.RDB.Del(ctx, r.sessionKey(userID)).Err(); err != nil {
		return ErrTokenDeleted
	}
	return nil
}
