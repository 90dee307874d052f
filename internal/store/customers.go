package store

import (
	"context"

	"dropshipping/internal/model"
)

// FindCustomer 按 (phone, dropshipper) 精确匹配，多条时取最早创建的一条。
func (s *Store) FindCustomer(ctx context.Context, phone, dropshipperID string) (*model.Customer, error) {
	var c model.Customer
	err := s.db.WithContext(ctx).
		Where("phone_number = ? AND dropshipper_id = ?", phone, dropshipperID).
		Order("created_at ASC").
		First(&c).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (s *Store) CreateCustomer(ctx context.Context, c *model.Customer) error {
	return s.db.WithContext(ctx).Create(c).Error
}

// CountCustomers 统计某卖家名下的客户数。
func (s *Store) CountCustomers(ctx context.Context, dropshipperID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Customer{}).
		Where("dropshipper_id = ?", dropshipperID).
		Count(&n).Error
	return n, err
}
