package order

import (
	"context"
	"errors"
	"strings"
	"time"

	"dropshipping/internal/model"
	"dropshipping/internal/store"
)

// findOrCreateCustomer 按 (phone, dropshipper) 查客户，查到就原样返回，
// 即使姓名/地址与请求不同也不更新；查不到才新建。
func findOrCreateCustomer(ctx context.Context, tx *store.Store, dropshipperID string, in CustomerInput, now time.Time) (*model.Customer, error) {
	phone := strings.TrimSpace(in.Phone)
	c, err := tx.FindCustomer(ctx, phone, dropshipperID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	c = &model.Customer{
		Name:          strings.TrimSpace(in.Name),
		Address:       strings.TrimSpace(in.Address),
		PhoneNumber:   phone,
		DropshipperID: dropshipperID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := tx.CreateCustomer(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
