package order

import (
	"context"
	"time"

	"dropshipping/internal/model"
	"dropshipping/internal/store"

	"github.com/shopspring/decimal"
)

// assembleOrder 逐行定价并累加总价：total += unitPrice * quantity。
// 任意一行商品缺失立即失败，不产生部分订单。
func assembleOrder(ctx context.Context, tx *store.Store, customerID, dropshipperID string, items []LineItem, now time.Time) (*model.Order, error) {
	total := decimal.Zero
	orderItems := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		price, err := resolveUnitPrice(ctx, tx, it.ProductID)
		if err != nil {
			return nil, err
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		orderItems = append(orderItems, model.OrderItem{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			Discount:  decimal.Zero,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}

	return &model.Order{
		CustomerID:    customerID,
		DropshipperID: dropshipperID,
		Status:        model.OrderDelivering,
		TotalPrice:    total,
		Discount:      decimal.Zero,
		CreatedAt:     now,
		UpdatedAt:     now,
		Items:         orderItems,
	}, nil
}
