package router

import (
	"net/http"

	"dropshipping/internal/catalog"
	"dropshipping/internal/store"
	rediskey "dropshipping/pkg/redis"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
)

// listProducts 支持 search / brand_id / category_id 过滤与分页。
func listProducts(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := paging(c)
		if !ok {
			return
		}
		page, err := svc.ListProducts(c.Request.Context(), store.ProductFilter{
			Paging:     p,
			SearchTerm: c.Query("search"),
			BrandID:    c.Query("brand_id"),
			CategoryID: c.Query("category_id"),
		})
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, page)
	}
}

func createProduct(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return
		}
		p, err := svc.CreateProduct(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusCreated, p)
	}
}

func getProduct(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, p)
	}
}

// updateProduct 改价不影响已下订单的总价。
func updateProduct(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return
		}
		p, err := svc.UpdateProduct(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, p)
	}
}

func deleteProduct(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "已删除"})
	}
}

func listDropshippers(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.ListDropshippers(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, list)
	}
}

// createDropshipper 仅管理员可调用；钱包在首单时创建。
func createDropshipper(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.DropshipperInput
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return
		}
		d, err := svc.CreateDropshipper(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusCreated, d)
	}
}

// updateDropshipper 管理员修改资料或停用卖家。
func updateDropshipper(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.DropshipperUpdate
		if err := c.ShouldBindJSON(&in); err != nil {
			badRequest(c, err.Error())
			return
		}
		d, err := svc.UpdateDropshipper(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, d)
	}
}

func deleteDropshipper(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteDropshipper(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "已删除"})
	}
}

func getDropshipper(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		d, err := svc.GetDropshipper(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, d)
	}
}

// getWallet 返回余额与全部流水。
func getWallet(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		w, err := svc.Wallet(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, w)
	}
}

// getStats 读取 Kafka 消费者累计的销售统计（最终一致，非权威）。
func getStats(svc *catalog.Service, rdb *rd.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rdb == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"code": 503, "msg": "统计服务未启用"})
			return
		}
		id := c.Param("id")
		if _, err := svc.GetDropshipper(c.Request.Context(), id); err != nil {
			writeError(c, err)
			return
		}
		stats, err := rediskey.GetDropshipperStats(c.Request.Context(), rdb, id)
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"code": 503, "msg": err.Error()})
			return
		}
		respond(c, http.StatusOK, stats)
	}
}
