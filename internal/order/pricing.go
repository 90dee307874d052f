package order

import (
	"context"
	"errors"

	"dropshipping/internal/store"

	"github.com/shopspring/decimal"
)

// resolveUnitPrice 读取商品当前价格。商品不存在时返回 ProductNotFoundError，
// 调用方据此中止整个工作单元。
func resolveUnitPrice(ctx context.Context, tx *store.Store, productID string) (decimal.Decimal, error) {
	p, err := tx.FindProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return decimal.Zero, &ProductNotFoundError{ProductID: productID}
		}
		return decimal.Zero, err
	}
	return p.Price, nil
}
