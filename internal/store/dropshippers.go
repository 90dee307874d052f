package store

import (
	"context"

	"dropshipping/internal/model"
)

func (s *Store) CreateDropshipper(ctx context.Context, d *model.Dropshipper) error {
	err := s.db.WithContext(ctx).Create(d).Error
	if errorsLikeUnique(err) {
		return ErrConflict
	}
	return err
}

func (s *Store) FindDropshipper(ctx context.Context, id string) (*model.Dropshipper, error) {
	var d model.Dropshipper
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&d).Error; err != nil {
		return nil, notFound(err)
	}
	return &d, nil
}

func (s *Store) ListDropshippers(ctx context.Context) ([]model.Dropshipper, error) {
	var list []model.Dropshipper
	err := s.db.WithContext(ctx).Order("created_at ASC").Find(&list).Error
	return list, err
}

// UpdateDropshipper 覆盖资料与启用状态；邮箱冲突返回 ErrConflict。
func (s *Store) UpdateDropshipper(ctx context.Context, d *model.Dropshipper) error {
	err := updateByID[model.Dropshipper](s.db.WithContext(ctx), d.ID, map[string]any{
		"name":      d.Name,
		"email":     d.Email,
		"phone":     d.Phone,
		"is_active": d.IsActive,
	})
	if errorsLikeUnique(err) {
		return ErrConflict
	}
	return err
}

// DeleteDropshipper 软删除，订单与钱包保留。
func (s *Store) DeleteDropshipper(ctx context.Context, id string) error {
	return deleteByID[model.Dropshipper](s.db.WithContext(ctx), id)
}
