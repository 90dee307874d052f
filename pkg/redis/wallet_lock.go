package redis

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	rd "github.com/redis/go-redis/v9"
)

// ErrLockBusy 等待超时仍未拿到锁。
var ErrLockBusy = errors.New("wallet lock busy")

// luaReleaseIfMatch 仅当锁值等于自己的 token 时才删除，避免误删别人续上的锁。
const luaReleaseIfMatch = `
if redis.call('GET', KEYS[1]) == ARGV[1] then
  return redis.call('DEL', KEYS[1])
end
return 0
`

const lockRetryInterval = 25 * time.Millisecond

// WalletLock 基于 SET NX PX 的卖家级互斥锁。
type WalletLock struct {
	rdb  *rd.Client
	ttl  time.Duration
	wait time.Duration
}

func NewWalletLock(rdb *rd.Client, ttl, wait time.Duration) *WalletLock {
	return &WalletLock{rdb: rdb, ttl: ttl, wait: wait}
}

// Lock 在 wait 时间内反复尝试加锁，成功返回释放函数。
func (l *WalletLock) Lock(ctx context.Context, dropshipperID string) (func(), error) {
	key := WalletLockKey(dropshipperID)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.rdb.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			return func() { l.release(key, token) }, nil
		}
		if !time.Now().Before(deadline) {
			return nil, ErrLockBusy
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}

// release 用独立 ctx，请求已取消时也要尽量把锁还回去。
func (l *WalletLock) release(key, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := l.rdb.Eval(ctx, luaReleaseIfMatch, []string{key}, token).Err(); err != nil {
		log.Printf("wallet lock release %s: %v", key, err)
	}
}
