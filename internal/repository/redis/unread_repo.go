package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	UnreadCntTTL       = 60 * time.Second
	UnreadCntKeyPrefix = "unread:chat"
)

// UnreadCacheRepository is a read-aside cache for per-member chat unread
// counts. Stale reads are tolerated for the TTL window; the source of truth
// stays in MySQL.
type UnreadCacheRepository struct {
	RDB *redis.Client
	ttl time.Duration
}

func NewUnreadCacheRepository(rdb *redis.Client) *UnreadCacheRepository {
	return &UnreadCacheRepository{RDB: rdb, ttl: UnreadCntTTL}
}

func (r *UnreadCacheRepository) key(communityID, userID uint64) string {
	return fmt.Sprintf("%s:%d:%d", UnreadCntKeyPrefix, communityID, userID)
}

func (r *UnreadCacheRepository) Get(ctx context.Context, communityID, userID uint64) (int64, bool, error) {
	val, err := r.RDB.Get(ctx, r.key(communityID, userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func (r *UnreadCacheRepository) Set(ctx context.Context, communityID, userID uint64, n int64) error {
	return r.RDB.Set(ctx, r.key(communityID, userID), n, r.ttl).Err()
}

func (r *UnreadCacheRepository) Invalidate(ctx context.Context, communityID, userID uint64) error {
	err := r.RDB.Del(ctx, r.key(communityID, userID)).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	return nil
}
