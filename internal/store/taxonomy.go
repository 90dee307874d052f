package store

import (
	"context"

	"dropshipping/internal/model"

	"gorm.io/gorm"
)

// findByID 读取未软删除的一行。
func findByID[T any](db *gorm.DB, id string) (*T, error) {
	var v T
	if err := db.Where("id = ?", id).First(&v).Error; err != nil {
		return nil, notFound(err)
	}
	return &v, nil
}

// updateByID 按主键更新给定列，行不存在返回 ErrNotFound。
func updateByID[T any](db *gorm.DB, id string, fields map[string]any) error {
	res := db.Model(new(T)).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// deleteByID 软删除。
func deleteByID[T any](db *gorm.DB, id string) error {
	res := db.Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) CreateCategory(ctx context.Context, c *model.Category) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *Store) FindCategory(ctx context.Context, id string) (*model.Category, error) {
	return findByID[model.Category](s.db.WithContext(ctx), id)
}

func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	var list []model.Category
	err := s.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (s *Store) UpdateCategory(ctx context.Context, c *model.Category) error {
	return updateByID[model.Category](s.db.WithContext(ctx), c.ID, map[string]any{
		"name":        c.Name,
		"description": c.Description,
	})
}

func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	return deleteByID[model.Category](s.db.WithContext(ctx), id)
}

func (s *Store) CreateBrand(ctx context.Context, b *model.Brand) error {
	return s.db.WithContext(ctx).Create(b).Error
}

func (s *Store) FindBrand(ctx context.Context, id string) (*model.Brand, error) {
	return findByID[model.Brand](s.db.WithContext(ctx), id)
}

func (s *Store) ListBrands(ctx context.Context) ([]model.Brand, error) {
	var list []model.Brand
	err := s.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (s *Store) UpdateBrand(ctx context.Context, b *model.Brand) error {
	return updateByID[model.Brand](s.db.WithContext(ctx), b.ID, map[string]any{
		"name":        b.Name,
		"description": b.Description,
	})
}

func (s *Store) DeleteBrand(ctx context.Context, id string) error {
	return deleteByID[model.Brand](s.db.WithContext(ctx), id)
}

// ListBrandsByCategory 该分类下仍在售商品涉及的品牌（去重）。
func (s *Store) ListBrandsByCategory(ctx context.Context, categoryID string) ([]model.Brand, error) {
	db := s.db.WithContext(ctx)
	sub := db.Model(&model.Product{}).
		Select("brand_id").
		Where("category_id = ? AND brand_id IS NOT NULL", categoryID)

	var list []model.Brand
	err := db.Where("id IN (?)", sub).Order("name ASC").Find(&list).Error
	return list, err
}

// CountProductsByBrand / CountProductsByCategory 统计引用它的在售商品数，删除前检查。
func (s *Store) CountProductsByBrand(ctx context.Context, brandID string) (int64, error) {
	return s.countProducts(ctx, "brand_id = ?", brandID)
}

func (s *Store) CountProductsByCategory(ctx context.Context, categoryID string) (int64, error) {
	return s.countProducts(ctx, "category_id = ?", categoryID)
}

func (s *Store) countProducts(ctx context.Context, cond string, id string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&model.Product{}).Where(cond, id).Count(&n).Error
	return n, err
}
