package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func newLimitedEngine(t *testing.T, limit int) (*gin.Engine, *miniredis.Miniredis) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	mr := miniredis.RunT(t)
	rdb := rd.NewClient(&rd.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	// 测试里直接用请求头充当已认证的卖家
	setID := func(c *gin.Context) {
		if id := c.GetHeader(HeaderDropshipper); id != "" {
			c.Set(ctxDropshipperID, id)
		}
	}
	r.POST("/orders", setID, RedisRateLimit(rdb, limit, time.Minute), func(c *gin.Context) {
		c.Status(http.StatusCreated)
	})
	return r, mr
}

func postOrder(r *gin.Engine, dropshipperID string) int {
	req := httptest.NewRequest(http.MethodPost, "/orders", nil)
	if dropshipperID != "" {
		req.Header.Set(HeaderDropshipper, dropshipperID)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRedisRateLimitPerDropshipper(t *testing.T) {
	r, _ := newLimitedEngine(t, 2)

	assert.Equal(t, http.StatusCreated, postOrder(r, "ds-1"))
	assert.Equal(t, http.StatusCreated, postOrder(r, "ds-1"))
	assert.Equal(t, http.StatusTooManyRequests, postOrder(r, "ds-1"))

	// 另一个卖家有自己的窗口
	assert.Equal(t, http.StatusCreated, postOrder(r, "ds-2"))
	// 未认证请求按 IP 计数
	assert.Equal(t, http.StatusCreated, postOrder(r, ""))
}

func TestRedisRateLimitFailsOpen(t *testing.T) {
	r, mr := newLimitedEngine(t, 1)

	assert.Equal(t, http.StatusCreated, postOrder(r, "ds-1"))
	assert.Equal(t, http.StatusTooManyRequests, postOrder(r, "ds-1"))

	mr.Close()
	assert.Equal(t, http.StatusCreated, postOrder(r, "ds-1"))
}
