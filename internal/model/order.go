package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus 订单状态。服务端没有 pending/cart 状态，创建即 Delivering。
type OrderStatus string

const (
	OrderDeclined   OrderStatus = "Declined"
	OrderDelivering OrderStatus = "Delivering"
	OrderDelivered  OrderStatus = "Delivered"
)

// ParseOrderStatus 大小写不敏感地解析状态名。
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range []OrderStatus{OrderDeclined, OrderDelivering, OrderDelivered} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

// Order 订单头。TotalPrice 在创建时算定，之后不再重算。
type Order struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CustomerID    string      `gorm:"size:36;not null;index" json:"customer_id"`
	Customer      Customer    `json:"customer"`
	DropshipperID string      `gorm:"size:64;not null;index" json:"dropshipper_id"`
	Dropshipper   Dropshipper `json:"dropshipper"`

	Status      OrderStatus     `gorm:"size:16;not null;index" json:"status"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total_price"`
	Discount    decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"discount"` // 预留，当前恒为 0
	ShippedDate *time.Time      `json:"shipped_date"`

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// OrderItem 订单行，生命周期归属订单。
type OrderItem struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	OrderID   string          `gorm:"size:36;not null;index" json:"order_id"`
	ProductID string          `gorm:"size:36;not null;index" json:"product_id"`
	Product   Product         `json:"product"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Discount  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"discount"` // 预留，当前恒为 0
}

func (OrderItem) TableName() string { return "order_items" }

func (i *OrderItem) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
