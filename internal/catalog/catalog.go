// Package catalog 管理商品目录与卖家档案。
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dropshipping/internal/model"
	"dropshipping/internal/store"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalid             = errors.New("invalid input")
	ErrProductNotFound     = errors.New("product not found")
	ErrBrandNotFound       = errors.New("brand not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrDropshipperNotFound = errors.New("dropshipper not found")
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrDuplicate           = errors.New("already exists")
	// ErrInUse 仍有在售商品引用，不能删除。
	ErrInUse = errors.New("still referenced by products")
)

type Service struct {
	store *store.Store
}

func NewService(st *store.Store) *Service { return &Service{store: st} }

// ProductInput 创建/更新商品的字段。BrandID / CategoryID 可为空。
type ProductInput struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	BrandID     string          `json:"brand_id"`
	CategoryID  string          `json:"category_id"`
	Price       decimal.Decimal `json:"price"`
	ModelYear   int             `json:"model_year"`
}

// validate 按入库精度（两位小数）判断价格，0.004 这类会被舍成 0 的价格直接拒绝。
func (in ProductInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if !in.Price.Round(2).IsPositive() {
		return fmt.Errorf("%w: price must be > 0", ErrInvalid)
	}
	if in.ModelYear < 0 {
		return fmt.Errorf("%w: model_year must be >= 0", ErrInvalid)
	}
	return nil
}

func (in ProductInput) apply(p *model.Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.Description = in.Description
	p.BrandID = optionalID(in.BrandID)
	p.CategoryID = optionalID(in.CategoryID)
	p.Price = in.Price.Round(2)
	p.ModelYear = in.ModelYear
}

func optionalID(id string) *string {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil
	}
	return &id
}

// checkRefs 品牌、分类若给出则必须存在。
func (s *Service) checkRefs(ctx context.Context, p *model.Product) error {
	if p.BrandID != nil {
		if _, err := s.GetBrand(ctx, *p.BrandID); err != nil {
			return err
		}
	}
	if p.CategoryID != nil {
		if _, err := s.GetCategory(ctx, *p.CategoryID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, in ProductInput) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &model.Product{}
	in.apply(p)
	if err := s.checkRefs(ctx, p); err != nil {
		return nil, err
	}
	if err := s.store.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	return s.GetProduct(ctx, p.ID)
}

func (s *Service) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.store.FindProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrProductNotFound
	}
	return p, err
}

// UpdateProduct 改价只影响之后的新订单；已下订单总价不变。
func (s *Service) UpdateProduct(ctx context.Context, id string, in ProductInput) (*model.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	p := &model.Product{ID: id}
	in.apply(p)
	if err := s.checkRefs(ctx, p); err != nil {
		return nil, err
	}
	if err := s.store.UpdateProduct(ctx, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return s.GetProduct(ctx, id)
}

func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	err := s.store.DeleteProduct(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrProductNotFound
	}
	return err
}

func (s *Service) ListProducts(ctx context.Context, f store.ProductFilter) (store.Page[model.Product], error) {
	f.SearchTerm = strings.TrimSpace(f.SearchTerm)
	return s.store.ListProducts(ctx, f)
}
