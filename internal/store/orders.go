package store

import (
	"context"
	"time"

	"dropshipping/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderFilter 订单列表过滤条件。To 按天包含。
type OrderFilter struct {
	Paging
	Status        *model.OrderStatus
	From          *time.Time
	To            *time.Time
	DropshipperID string
}

// CreateOrder 写订单头与全部订单行。关联对象（客户、卖家）不在这里写。
func (s *Store) CreateOrder(ctx context.Context, o *model.Order) error {
	db := s.db.WithContext(ctx)
	if err := db.Omit(clause.Associations).Create(o).Error; err != nil {
		return err
	}
	if len(o.Items) == 0 {
		return nil
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	return db.Omit(clause.Associations).Create(&o.Items).Error
}

// withOrderRelations 组装读模型：客户、订单行+商品、卖家。
// 商品和卖家用 Unscoped 预加载，软删除后历史订单仍能显示。
func withOrderRelations(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Customer").
		Preload("Items", func(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC, id ASC") }).
		Preload("Items.Product", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }).
		Preload("Dropshipper", func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() })
}

// LoadOrder 单次读取完整订单视图所需数据。
func (s *Store) LoadOrder(ctx context.Context, id string) (*model.Order, error) {
	var o model.Order
	err := withOrderRelations(s.db.WithContext(ctx)).Where("id = ?", id).First(&o).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

func (s *Store) ListOrders(ctx context.Context, f OrderFilter) (Page[model.Order], error) {
	paging := f.Paging.normalize()
	q := s.db.WithContext(ctx).Model(&model.Order{})
	if f.DropshipperID != "" {
		q = q.Where("dropshipper_id = ?", f.DropshipperID)
	}
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", startOfDay(*f.From))
	}
	if f.To != nil {
		q = q.Where("created_at < ?", startOfDay(*f.To).AddDate(0, 0, 1))
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Page[model.Order]{}, err
	}
	var list []model.Order
	err := withOrderRelations(q).
		Order("created_at DESC").
		Offset(paging.offset()).
		Limit(paging.PageSize).
		Find(&list).Error
	if err != nil {
		return Page[model.Order]{}, err
	}
	return Page[model.Order]{Result: list, TotalCount: total, PageIndex: paging.PageIndex, PageSize: paging.PageSize}, nil
}

// UpdateOrderStatus 只改状态与发货日期；总价创建后不再变。
func (s *Store) UpdateOrderStatus(ctx context.Context, id string, status model.OrderStatus, shipped *time.Time) error {
	res := s.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       status,
			"shipped_date": shipped,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOrder 连同订单行一起删除。
func (s *Store) DeleteOrder(ctx context.Context, id string) error {
	return s.InTx(ctx, func(tx *Store) error {
		if err := tx.db.Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.db.Where("id = ?", id).Delete(&model.Order{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

// CountOrderItems 统计订单行数。
func (s *Store) CountOrderItems(ctx context.Context, orderID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.OrderItem{}).Where("order_id = ?", orderID).Count(&n).Error
	return n, err
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
