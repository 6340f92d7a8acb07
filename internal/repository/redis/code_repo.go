package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultResetCodeTTL = 5 * time.Minute

	resetCodePrefix = "email:code:reset"
	pendingSuffix   = "pending"
	confirmedSuffix = "confirmed"
)

var (
	ErrCodeNotFound        = errors.New("code not found")
	ErrCodePendingFailed   = errors.New("code pending failed")
	ErrCodeConfirmedFailed = errors.New("code confirmed failed")
	ErrCodeDeleteFailed    = errors.New("code delete failed")
)

// promoteScript atomically moves a pending code to confirmed with a fresh
// TTL and deletes the source key.
const promoteScript = `
local val = redis.call("GET", KEYS[1])
if not val then
  return 0
end
redis.call("SET", KEYS[2], val, "PX", ARGV[1])
redis.call("DEL", KEYS[1])
return 1
`

// CodeRepository stores password-reset codes in two phases: a pending key is
// written before the email goes out and promoted to confirmed only after the
// send succeeds, so unconfirmed codes never pass verification.
type CodeRepository struct {
	RDB *redis.Client
}

func NewCodeRepository(rdb *redis.Client) *CodeRepository {
	return &CodeRepository{RDB: rdb}
}

func pendingKey(email string) string {
	return fmt.Sprintf("%s:%s:%s", resetCodePrefix, pendingSuffix, email)
}

func confirmedKey(email string) string {
	return fmt.Sprintf("%s:%s:%s", resetCodePrefix, confirmedSuffix, email)
}

func (r *CodeRepository) SetPending(ctx context.Context, email, code string) error {
	if err := r.RDB.Set(ctx, pendingKey(email), code, DefaultResetCodeTTL).Err(); err != nil {
		return ErrCodePendingFailed
	}
	return nil
}

func (r *CodeRepository) Confirm(ctx context.Context, email string) error {
	px := int64(DefaultResetCodeTTL / time.Millisecond)
	res := r.RDB.Eval(ctx, promoteScript, []string{pendingKey(email), confirmedKey(email)}, px)
	if err := res.Err(); err != nil {
		return ErrCodeConfirmedFailed
	}
	if ok, _ := res.Int(); ok != 1 {
		return ErrCodeConfirmedFailed
	}
	return nil
}

func (r *CodeRepository) DeletePending(ctx context.Context, email string) error {
	if err := r.RDB.Del(ctx, pendingKey(email)).Err(); err != nil {
		return ErrCodeDeleteFailed
	}
	return nil
}

func (r *CodeRepository) GetConfirmed(ctx context.Context, email string) (string, error) {
	val, err := r.RDB.Get(ctx, confirmedKey(email)).Result()
	if err != nil {
		return "", ErrCodeNotFound
	}
	return val, nil
}

func (r *CodeRepository) DeleteConfirmed(ctx context.Context, email string) error {
	if err := r.RDB.Del(ctx, confirmedKey(email)).Err(); err != nil {
		return ErrCodeDeleteFailed
	}
	return nil
}
