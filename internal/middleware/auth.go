package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"dropshipping/internal/catalog"
	"dropshipping/internal/model"

	"github.com/gin-gonic/gin"
)

const (
	// HeaderDropshipper 由上游身份服务注入的卖家 ID。
	HeaderDropshipper = "X-Dropshipper-ID"
	HeaderAdminToken  = "X-Admin-Token"

	ctxDropshipperID = "dropshipper_id"
)

// DropshipperFinder 按 ID 查卖家。
type DropshipperFinder interface {
	GetDropshipper(ctx context.Context, id string) (*model.Dropshipper, error)
}

// DropshipperAuth 把请求头里的卖家 ID 解析为已启用的卖家，写入 gin.Context。
// 只有“查无此人”和停用返回 401，查询本身出错按 500 处理。
func DropshipperAuth(finder DropshipperFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(HeaderDropshipper))
		if id == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": "缺少卖家身份"})
			return
		}
		d, err := finder.GetDropshipper(c.Request.Context(), id)
		if err != nil && !errors.Is(err, catalog.ErrDropshipperNotFound) {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
			return
		}
		if err != nil || !d.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": "卖家不存在或已停用"})
			return
		}
		c.Set(ctxDropshipperID, d.ID)
		c.Next()
	}
}

// DropshipperID 取出 DropshipperAuth 写入的卖家 ID，未认证时为空串。
func DropshipperID(c *gin.Context) string {
	return c.GetString(ctxDropshipperID)
}

// AdminToken 管理接口的简单令牌校验（demo 级别保护）。
func AdminToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader(HeaderAdminToken) != token {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 401, "msg": "admin token 无效"})
			return
		}
		c.Next()
	}
}
