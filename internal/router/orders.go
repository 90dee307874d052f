package router

import (
	"net/http"
	"time"

	"dropshipping/internal/middleware"
	"dropshipping/internal/model"
	"dropshipping/internal/order"
	"dropshipping/internal/store"

	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// createOrder 下单入口。卖家身份只取认证中间件的结果，请求体里的不信任。
// 关键流程在 order.Service.CreateOrder：查/建客户 -> 定价 -> 写单 -> 钱包入账，同一事务。
func createOrder(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Customer    order.CustomerInput `json:"customer"`
			Items       []order.LineItem    `json:"items"`
			ShippedDate *time.Time          `json:"shipped_date"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		view, err := svc.CreateOrder(c.Request.Context(), order.CreateRequest{
			DropshipperID: middleware.DropshipperID(c),
			Customer:      req.Customer,
			Items:         req.Items,
			ShippedDate:   req.ShippedDate,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusCreated, view)
	}
}

// listOrders 支持 status / from / to（yyyy-mm-dd，to 含当天）/ dropshipper_id 与分页。
func listOrders(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := paging(c)
		if !ok {
			return
		}
		f := store.OrderFilter{Paging: p, DropshipperID: c.Query("dropshipper_id")}

		if v := c.Query("status"); v != "" {
			st, err := model.ParseOrderStatus(v)
			if err != nil {
				badRequest(c, err.Error())
				return
			}
			f.Status = &st
		}
		for key, dst := range map[string]**time.Time{"from": &f.From, "to": &f.To} {
			v := c.Query(key)
			if v == "" {
				continue
			}
			t, err := time.Parse(dateLayout, v)
			if err != nil {
				badRequest(c, key+" 格式错误，请用 yyyy-mm-dd")
				return
			}
			*dst = &t
		}

		page, err := svc.ListOrders(c.Request.Context(), f)
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, page)
	}
}

func getOrder(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := svc.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, view)
	}
}

// updateOrder 只改状态与发货日期，不会再次结算钱包。
func updateOrder(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status      string     `json:"status" binding:"required"`
			ShippedDate *time.Time `json:"shipped_date"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		view, err := svc.UpdateOrder(c.Request.Context(), c.Param("id"), order.UpdateRequest{
			Status:      model.OrderStatus(req.Status),
			ShippedDate: req.ShippedDate,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		respond(c, http.StatusOK, view)
	}
}

func deleteOrder(svc *order.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteOrder(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"code": 0, "msg": "已删除"})
	}
}
