package middleware

import (
	"fmt"
	"net/http"
	"time"

	rediskey "dropshipping/pkg/redis"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
)

// luaRateLimit：Redis 滑动窗口限流 Lua 脚本（原子操作）
// KEYS[1]=限流key，ARGV[1]=当前毫秒时间戳，ARGV[2]=窗口开始毫秒时间戳，
// ARGV[3]=窗口秒数，ARGV[4]=本次请求成员，ARGV[5]=窗口内上限
// 返回：当前窗口内的请求数，超限返回 -1
const luaRateLimit = `
local key = KEYS[1]
local now = tonumber(ARGV[1])
local windowStart = tonumber(ARGV[2])
local windowSec = tonumber(ARGV[3])
local member = ARGV[4]
local limit = tonumber(ARGV[5])

redis.call('ZREMRANGEBYSCORE', key, '-inf', windowStart)

local count = redis.call('ZCARD', key)
if count < limit then
  redis.call('ZADD', key, now, member)
  redis.call('EXPIRE', key, windowSec)
  return count + 1
end
return -1
`

// RedisRateLimit 下单接口限流：已认证时按卖家，否则按 IP。
// Redis 出错时放行（降级策略）。
func RedisRateLimit(rdb *rd.Client, limit int, window time.Duration) gin.HandlerFunc {
	windowSec := int64(window / time.Second)
	if windowSec < 1 {
		windowSec = 1
	}
	return func(c *gin.Context) {
		key := rediskey.RateLimitKey("ip", c.ClientIP())
		if id := DropshipperID(c); id != "" {
			key = rediskey.RateLimitKey("dropshipper", id)
		}

		now := time.Now()
		nowMs := now.UnixMilli()
		windowStart := nowMs - windowSec*1000
		member := fmt.Sprintf("%d-%d", nowMs, now.UnixNano())

		res, err := rdb.Eval(c.Request.Context(), luaRateLimit, []string{key},
			nowMs, windowStart, windowSec, member, limit).Int()
		if err != nil {
			c.Next()
			return
		}
		if res < 0 {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code": 429,
				"msg":  "请求过于频繁，请稍后再试",
			})
			return
		}
		c.Next()
	}
}
