package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dropshipping/internal/model"
	"dropshipping/internal/store"
)

// TaxonomyInput 品牌/分类共用的字段。
type TaxonomyInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (in TaxonomyInput) normalize() (TaxonomyInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if in.Name == "" {
		return in, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	return in, nil
}

// mapNotFound 把 store.ErrNotFound 换成调用方的领域错误。
func mapNotFound(err, target error) error {
	if errors.Is(err, store.ErrNotFound) {
		return target
	}
	return err
}

func (s *Service) CreateCategory(ctx context.Context, in TaxonomyInput) (*model.Category, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	c := &model.Category{Name: in.Name, Description: in.Description}
	if err := s.store.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) GetCategory(ctx context.Context, id string) (*model.Category, error) {
	c, err := s.store.FindCategory(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrCategoryNotFound)
	}
	return c, nil
}

func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	return s.store.ListCategories(ctx)
}

func (s *Service) UpdateCategory(ctx context.Context, id string, in TaxonomyInput) (*model.Category, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	c := &model.Category{ID: id, Name: in.Name, Description: in.Description}
	if err := s.store.UpdateCategory(ctx, c); err != nil {
		return nil, mapNotFound(err, ErrCategoryNotFound)
	}
	return s.GetCategory(ctx, id)
}

// DeleteCategory 仍有在售商品时拒绝删除。
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return err
	}
	n, err := s.store.CountProductsByCategory(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: category %s has %d products", ErrInUse, id, n)
	}
	return mapNotFound(s.store.DeleteCategory(ctx, id), ErrCategoryNotFound)
}

func (s *Service) CreateBrand(ctx context.Context, in TaxonomyInput) (*model.Brand, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	b := &model.Brand{Name: in.Name, Description: in.Description}
	if err := s.store.CreateBrand(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) GetBrand(ctx context.Context, id string) (*model.Brand, error) {
	b, err := s.store.FindBrand(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, ErrBrandNotFound)
	}
	return b, nil
}

func (s *Service) ListBrands(ctx context.Context) ([]model.Brand, error) {
	return s.store.ListBrands(ctx)
}

// BrandsByCategory 该分类下有在售商品的品牌。
func (s *Service) BrandsByCategory(ctx context.Context, categoryID string) ([]model.Brand, error) {
	if _, err := s.GetCategory(ctx, categoryID); err != nil {
		return nil, err
	}
	return s.store.ListBrandsByCategory(ctx, categoryID)
}

func (s *Service) UpdateBrand(ctx context.Context, id string, in TaxonomyInput) (*model.Brand, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}
	b := &model.Brand{ID: id, Name: in.Name, Description: in.Description}
	if err := s.store.UpdateBrand(ctx, b); err != nil {
		return nil, mapNotFound(err, ErrBrandNotFound)
	}
	return s.GetBrand(ctx, id)
}

func (s *Service) DeleteBrand(ctx context.Context, id string) error {
	if _, err := s.GetBrand(ctx, id); err != nil {
		return err
	}
	n, err := s.store.CountProductsByBrand(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("%w: brand %s has %d products", ErrInUse, id, n)
	}
	return mapNotFound(s.store.DeleteBrand(ctx, id), ErrBrandNotFound)
}
