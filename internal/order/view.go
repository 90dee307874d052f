package order

import (
	"time"

	"dropshipping/internal/model"

	"github.com/shopspring/decimal"
)

// OrderView 下单/查询接口的响应读模型。
type OrderView struct {
	ID          string            `json:"id"`
	Status      model.OrderStatus `json:"status"`
	TotalPrice  decimal.Decimal   `json:"total_price"`
	Discount    decimal.Decimal   `json:"discount"`
	ShippedDate *time.Time        `json:"shipped_date,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`

	CustomerID      string `json:"customer_id"`
	CustomerName    string `json:"customer_name"`
	CustomerAddress string `json:"customer_address"`
	CustomerPhone   string `json:"customer_phone"`

	DropshipperID   string `json:"dropshipper_id"`
	DropshipperName string `json:"dropshipper_name"`

	Items []ItemView `json:"items"`
}

// ItemView 订单行；名称与单价取商品的当前值，不是下单快照。
type ItemView struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Discount    decimal.Decimal `json:"discount"`
}

func newView(o *model.Order) *OrderView {
	v := &OrderView{
		ID:              o.ID,
		Status:          o.Status,
		TotalPrice:      o.TotalPrice,
		Discount:        o.Discount,
		ShippedDate:     o.ShippedDate,
		CreatedAt:       o.CreatedAt,
		CustomerID:      o.CustomerID,
		CustomerName:    o.Customer.Name,
		CustomerAddress: o.Customer.Address,
		CustomerPhone:   o.Customer.PhoneNumber,
		DropshipperID:   o.DropshipperID,
		DropshipperName: o.Dropshipper.Name,
		Items:           make([]ItemView, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		v.Items = append(v.Items, ItemView{
			ProductID:   it.ProductID,
			ProductName: it.Product.Name,
			Quantity:    it.Quantity,
			UnitPrice:   it.Product.Price,
			Discount:    it.Discount,
		})
	}
	return v
}
