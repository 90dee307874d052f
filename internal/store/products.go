package store

import (
	"context"

	"dropshipping/internal/model"

	"gorm.io/gorm"
)

// ProductFilter 商品列表的过滤条件。
type ProductFilter struct {
	Paging
	SearchTerm string
	BrandID    string
	CategoryID string
}

// FindProduct 读取未删除的商品。
func (s *Store) FindProduct(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	if err := withProductRelations(s.db.WithContext(ctx)).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *model.Product) error {
	return s.db.WithContext(ctx).Create(p).Error
}

// UpdateProduct 整体覆盖可编辑字段。
func (s *Store) UpdateProduct(ctx context.Context, p *model.Product) error {
	res := s.db.WithContext(ctx).Model(&model.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]any{
			"name":        p.Name,
			"description": p.Description,
			"brand_id":    p.BrandID,
			"category_id": p.CategoryID,
			"price":       p.Price,
			"model_year":  p.ModelYear,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProduct 软删除；历史订单行仍能读到该商品。
func (s *Store) DeleteProduct(ctx context.Context, id string) error {
	return deleteByID[model.Product](s.db.WithContext(ctx), id)
}

// withProductRelations 品牌与分类即使已软删除也照常展示。
func withProductRelations(db *gorm.DB) *gorm.DB {
	unscoped := func(tx *gorm.DB) *gorm.DB { return tx.Unscoped() }
	return db.Preload("Brand", unscoped).Preload("Category", unscoped)
}

func (s *Store) ListProducts(ctx context.Context, f ProductFilter) (Page[model.Product], error) {
	paging := f.Paging.normalize()
	q := s.db.WithContext(ctx).Model(&model.Product{})
	if f.SearchTerm != "" {
		q = q.Where("name LIKE ?", "%"+f.SearchTerm+"%")
	}
	if f.BrandID != "" {
		q = q.Where("brand_id = ?", f.BrandID)
	}
	if f.CategoryID != "" {
		q = q.Where("category_id = ?", f.CategoryID)
	}
	q = q.Session(&gorm.Session{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return Page[model.Product]{}, err
	}
	var list []model.Product
	err := withProductRelations(q).Order("created_at DESC").Offset(paging.offset()).Limit(paging.PageSize).Find(&list).Error
	if err != nil {
		return Page[model.Product]{}, err
	}
	return Page[model.Product]{Result: list, TotalCount: total, PageIndex: paging.PageIndex, PageSize: paging.PageSize}, nil
}
