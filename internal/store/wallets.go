package store

import (
	"context"

	"dropshipping/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FindWallet 读取卖家钱包并带出全部流水。
func (s *Store) FindWallet(ctx context.Context, dropshipperID string) (*model.Wallet, error) {
	var w model.Wallet
	err := s.db.WithContext(ctx).
		Preload("Transactions", func(tx *gorm.DB) *gorm.DB { return tx.Order("id ASC") }).
		Where("dropshipper_id = ?", dropshipperID).
		First(&w).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &w, nil
}

// CreateWallet 首单时懒创建钱包。并发创建撞上唯一索引时返回 ErrConflict。
func (s *Store) CreateWallet(ctx context.Context, w *model.Wallet) error {
	err := s.db.WithContext(ctx).Omit(clause.Associations).Create(w).Error
	if errorsLikeUnique(err) {
		return ErrConflict
	}
	return err
}

// BumpWallet 以 version 做乐观锁写入新余额：
// UPDATE wallets SET balance=?, version=version+1 WHERE id=? AND version=?
// 影响 0 行说明期间有其他写者，返回 ErrConflict。
func (s *Store) BumpWallet(ctx context.Context, w *model.Wallet, balance decimal.Decimal) error {
	res := s.db.WithContext(ctx).Model(&model.Wallet{}).
		Where("id = ? AND version = ?", w.ID, w.Version).
		Updates(map[string]any{
			"balance": balance,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrConflict
	}
	w.Balance = balance
	w.Version++
	return nil
}

func (s *Store) CreateWalletTransaction(ctx context.Context, t *model.WalletTransaction) error {
	return s.db.WithContext(ctx).Create(t).Error
}
