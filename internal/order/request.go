package order

import (
	"strings"
	"time"

	"dropshipping/internal/model"
)

// CustomerInput 下单时的客户信息。
type CustomerInput struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

// LineItem 一行 (商品, 数量)。
type LineItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// CreateRequest 下单入参。DropshipperID 来自已认证身份，不信任请求体。
type CreateRequest struct {
	DropshipperID string
	Customer      CustomerInput
	Items         []LineItem
	ShippedDate   *time.Time
}

// Validate 在开启事务前拒绝空订单和非正数量。
func (r CreateRequest) Validate() error {
	if strings.TrimSpace(r.DropshipperID) == "" {
		return validationErr("dropshipper id is required")
	}
	if strings.TrimSpace(r.Customer.Phone) == "" {
		return validationErr("customer phone is required")
	}
	if strings.TrimSpace(r.Customer.Name) == "" {
		return validationErr("customer name is required")
	}
	if len(r.Items) == 0 {
		return validationErr("order must contain at least one item")
	}
	for i, it := range r.Items {
		if strings.TrimSpace(it.ProductID) == "" {
			return validationErr("items[%d]: product id is required", i)
		}
		if it.Quantity < 1 {
			return validationErr("items[%d]: quantity must be >= 1", i)
		}
	}
	return nil
}

// UpdateRequest 订单后续只允许改状态与发货日期。
type UpdateRequest struct {
	Status      model.OrderStatus
	ShippedDate *time.Time
}
