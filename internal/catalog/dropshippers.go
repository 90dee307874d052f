package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dropshipping/internal/model"
	"dropshipping/internal/store"

	"github.com/google/uuid"
)

// DropshipperInput 注册卖家。ID 为空时自动生成。
type DropshipperInput struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// CreateDropshipper 只建档案；钱包在首单结算时懒创建。
func (s *Service) CreateDropshipper(ctx context.Context, in DropshipperInput) (*model.Dropshipper, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalid)
	}
	if !strings.Contains(in.Email, "@") {
		return nil, fmt.Errorf("%w: email is invalid", ErrInvalid)
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	d := &model.Dropshipper{
		ID:       id,
		Name:     strings.TrimSpace(in.Name),
		Email:    strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:    strings.TrimSpace(in.Phone),
		IsActive: true,
	}
	if err := s.store.CreateDropshipper(ctx, d); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, fmt.Errorf("%w: dropshipper %s", ErrDuplicate, d.Email)
		}
		return nil, err
	}
	return d, nil
}

// GetDropshipper 同时满足 middleware.DropshipperFinder。
func (s *Service) GetDropshipper(ctx context.Context, id string) (*model.Dropshipper, error) {
	d, err := s.store.FindDropshipper(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrDropshipperNotFound
	}
	return d, err
}

func (s *Service) ListDropshippers(ctx context.Context) ([]model.Dropshipper, error) {
	return s.store.ListDropshippers(ctx)
}

// Wallet 读取卖家钱包与全部流水。
func (s *Service) Wallet(ctx context.Context, dropshipperID string) (*model.Wallet, error) {
	if _, err := s.GetDropshipper(ctx, dropshipperID); err != nil {
		return nil, err
	}
	w, err := s.store.FindWallet(ctx, dropshipperID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrWalletNotFound
	}
	return w, err
}

// DropshipperUpdate 管理员修改卖家资料；IsActive 为空表示不改启用状态。
type DropshipperUpdate struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	IsActive *bool  `json:"is_active"`
}

// UpdateDropshipper 停用后该卖家无法再下单，已有订单与钱包不受影响。
func (s *Service) UpdateDropshipper(ctx context.Context, id string, in DropshipperUpdate) (*model.Dropshipper, error) {
	d, err := s.GetDropshipper(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Name); name != "" {
		d.Name = name
	}
	if email := strings.TrimSpace(in.Email); email != "" {
		if !strings.Contains(email, "@") {
			return nil, fmt.Errorf("%w: email is invalid", ErrInvalid)
		}
		d.Email = strings.ToLower(email)
	}
	if in.Phone != "" {
		d.Phone = strings.TrimSpace(in.Phone)
	}
	if in.IsActive != nil {
		d.IsActive = *in.IsActive
	}

	if err := s.store.UpdateDropshipper(ctx, d); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return nil, fmt.Errorf("%w: dropshipper %s", ErrDuplicate, d.Email)
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrDropshipperNotFound
		}
		return nil, err
	}
	return s.GetDropshipper(ctx, id)
}

// DeleteDropshipper 软删除：之后认证不通过，历史订单仍显示该卖家。
func (s *Service) DeleteDropshipper(ctx context.Context, id string) error {
	err := s.store.DeleteDropshipper(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return ErrDropshipperNotFound
	}
	return err
}
