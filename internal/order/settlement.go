package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dropshipping/internal/model"
	"dropshipping/internal/store"

	"github.com/shopspring/decimal"
)

// CommissionPolicy 决定每单给卖家钱包入账多少。
type CommissionPolicy interface {
	Commission(orderTotal decimal.Decimal) decimal.Decimal
	Name() string
}

// RatePolicy 按订单总额的固定比例入账，结果保留两位小数。
type RatePolicy struct {
	Rate decimal.Decimal
}

func (p RatePolicy) Commission(total decimal.Decimal) decimal.Decimal {
	return total.Mul(p.Rate).Round(2)
}

func (p RatePolicy) Name() string { return "rate:" + p.Rate.String() }

// FullTotalPolicy 订单总额全额入账。
type FullTotalPolicy struct{}

func (FullTotalPolicy) Commission(total decimal.Decimal) decimal.Decimal { return total }

func (FullTotalPolicy) Name() string { return "full" }

// DefaultCommission 默认策略：订单总额的 20%。
var DefaultCommission CommissionPolicy = RatePolicy{Rate: decimal.RequireFromString("0.20")}

// settler 钱包结算：有钱包则按版本号入账，没有则懒创建，并追加一条流水。
type settler struct {
	policy CommissionPolicy
}

func (s settler) settle(ctx context.Context, tx *store.Store, dropshipperID, orderID string, total decimal.Decimal, now time.Time) (*model.WalletTransaction, error) {
	amount := s.policy.Commission(total)

	wallet, err := tx.FindWallet(ctx, dropshipperID)
	switch {
	case err == nil:
		if err := tx.BumpWallet(ctx, wallet, wallet.Balance.Add(amount)); err != nil {
			return nil, walletErr(err)
		}
	case errors.Is(err, store.ErrNotFound):
		wallet = &model.Wallet{
			DropshipperID: dropshipperID,
			Balance:       amount,
			Version:       1,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if err := tx.CreateWallet(ctx, wallet); err != nil {
			return nil, walletErr(err)
		}
	default:
		return nil, err
	}

	wt := &model.WalletTransaction{
		WalletID:        wallet.ID,
		OrderID:         orderID,
		Amount:          amount,
		TransactionDate: now,
		Description:     model.WalletTxOrderPayment,
	}
	if err := tx.CreateWalletTransaction(ctx, wt); err != nil {
		return nil, err
	}
	return wt, nil
}

func walletErr(err error) error {
	if errors.Is(err, store.ErrConflict) {
		return fmt.Errorf("%w: %v", ErrWalletConflict, err)
	}
	return err
}
