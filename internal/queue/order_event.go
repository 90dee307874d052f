package queue

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OrderEvent 下单提交后写入 Redis Stream、再由 Relay 转发 Kafka 的事件。
type OrderEvent struct {
	OrderID       string          `json:"order_id"`
	DropshipperID string          `json:"dropshipper_id"`
	CustomerID    string          `json:"customer_id"`
	Total         decimal.Decimal `json:"total"`
	Commission    decimal.Decimal `json:"commission"`
	ItemCount     int             `json:"item_count"`
	CreatedAt     int64           `json:"created_at"` // unix 秒
}

// Validate 做最小字段校验，防止消费者处理脏消息。
func (e OrderEvent) Validate() error {
	if e.OrderID == "" {
		return fmt.Errorf("order_id is required")
	}
	if e.DropshipperID == "" {
		return fmt.Errorf("dropshipper_id is required")
	}
	if e.ItemCount <= 0 {
		return fmt.Errorf("item_count must be > 0")
	}
	if e.Total.IsNegative() {
		return fmt.Errorf("total must be >= 0")
	}
	if e.Commission.IsNegative() {
		return fmt.Errorf("commission must be >= 0")
	}
	return nil
}

// streamValues Redis Stream 只存扁平字符串字段。
func (e OrderEvent) streamValues() map[string]any {
	return map[string]any{
		"order_id":       e.OrderID,
		"dropshipper_id": e.DropshipperID,
		"customer_id":    e.CustomerID,
		"total":          e.Total.String(),
		"commission":     e.Commission.String(),
		"item_count":     e.ItemCount,
		"created_at":     e.CreatedAt,
	}
}
