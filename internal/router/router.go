package router

import (
	"errors"
	"net/http"
	"strconv"

	"dropshipping/internal/catalog"
	"dropshipping/internal/config"
	"dropshipping/internal/middleware"
	"dropshipping/internal/order"
	"dropshipping/internal/store"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
)

// Deps 路由依赖。Redis 为 nil 时关闭限流与统计接口。
type Deps struct {
	Orders  *order.Service
	Catalog *catalog.Service
	Store   *store.Store
	Redis   *rd.Client
	Config  config.AppConfig
}

// Setup 注册全部 HTTP 路由。
func Setup(r *gin.Engine, d Deps) {
	r.GET("/ping", ping(d.Store))

	api := r.Group("/api")

	admin := middleware.AdminToken(d.Config.AdminToken)

	// Products：写操作仅管理员
	api.GET("/products", listProducts(d.Catalog))
	api.POST("/products", admin, createProduct(d.Catalog))
	api.GET("/products/:id", getProduct(d.Catalog))
	api.PUT("/products/:id", admin, updateProduct(d.Catalog))
	api.DELETE("/products/:id", admin, deleteProduct(d.Catalog))

	// Categories / Brands
	api.GET("/categories", listCategories(d.Catalog))
	api.POST("/categories", admin, createCategory(d.Catalog))
	api.GET("/categories/:id", getCategory(d.Catalog))
	api.PUT("/categories/:id", admin, updateCategory(d.Catalog))
	api.DELETE("/categories/:id", admin, deleteCategory(d.Catalog))
	api.GET("/categories/:id/brands", brandsByCategory(d.Catalog))

	api.GET("/brands", listBrands(d.Catalog))
	api.POST("/brands", admin, createBrand(d.Catalog))
	api.GET("/brands/:id", getBrand(d.Catalog))
	api.PUT("/brands/:id", admin, updateBrand(d.Catalog))
	api.DELETE("/brands/:id", admin, deleteBrand(d.Catalog))

	// Dropshippers
	api.GET("/dropshippers", listDropshippers(d.Catalog))
	api.POST("/dropshippers", admin, createDropshipper(d.Catalog))
	api.GET("/dropshippers/:id", getDropshipper(d.Catalog))
	api.PUT("/dropshippers/:id", admin, updateDropshipper(d.Catalog))
	api.DELETE("/dropshippers/:id", admin, deleteDropshipper(d.Catalog))
	api.GET("/dropshippers/:id/wallet", getWallet(d.Catalog))
	api.GET("/dropshippers/:id/stats", getStats(d.Catalog, d.Redis))

	// Orders：下单先认证卖家再按卖家限流
	create := []gin.HandlerFunc{middleware.DropshipperAuth(d.Catalog)}
	if d.Redis != nil {
		create = append(create, middleware.RedisRateLimit(d.Redis, d.Config.OrderRateLimit, d.Config.OrderRateWindow))
	}
	create = append(create, createOrder(d.Orders))
	api.POST("/orders", create...)
	api.GET("/orders", listOrders(d.Orders))
	api.GET("/orders/:id", getOrder(d.Orders))
	api.PUT("/orders/:id", updateOrder(d.Orders))
	api.DELETE("/orders/:id", deleteOrder(d.Orders))
}

func ping(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := st.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"code": 503, "msg": "db unavailable: " + err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"msg": "pong"})
	}
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{"code": 0, "data": data})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": msg})
}

// writeError 把领域错误映射为 HTTP 状态码。
func writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, order.ErrValidation), errors.Is(err, catalog.ErrInvalid):
		status = http.StatusBadRequest
	case errors.Is(err, order.ErrProductNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, catalog.ErrBrandNotFound),
		errors.Is(err, catalog.ErrCategoryNotFound),
		errors.Is(err, catalog.ErrDropshipperNotFound),
		errors.Is(err, catalog.ErrWalletNotFound):
		status = http.StatusNotFound
	case errors.Is(err, catalog.ErrDuplicate),
		errors.Is(err, catalog.ErrInUse),
		errors.Is(err, order.ErrWalletConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"code": status, "msg": err.Error()})
}

// paging 解析 page_index / page_size，缺省交给 store 归一化。
func paging(c *gin.Context) (store.Paging, bool) {
	var p store.Paging
	for key, dst := range map[string]*int{"page_index": &p.PageIndex, "page_size": &p.PageSize} {
		v := c.Query(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			badRequest(c, key+" 必须是整数")
			return p, false
		}
		*dst = n
	}
	return p, true
}
