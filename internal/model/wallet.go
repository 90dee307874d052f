package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Wallet 卖家钱包，与 Dropshipper 一对一。
// Balance 只增不减，Version 用于乐观锁：每次入账 version+1。
type Wallet struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	DropshipperID string          `gorm:"size:64;not null;uniqueIndex" json:"dropshipper_id"`
	Balance       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"balance"`
	Version       int64           `gorm:"not null" json:"version"`

	Transactions []WalletTransaction `gorm:"foreignKey:WalletID;constraint:OnDelete:CASCADE" json:"transactions"`
}

func (Wallet) TableName() string { return "wallets" }

// 入账流水的固定描述。
const WalletTxOrderPayment = "Order Payment"

// WalletTransaction 钱包流水，只追加。
type WalletTransaction struct {
	ID              uint            `gorm:"primarykey" json:"id"`
	WalletID        uint            `gorm:"not null;index" json:"wallet_id"`
	OrderID         string          `gorm:"size:36;index" json:"order_id"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	TransactionDate time.Time       `gorm:"not null" json:"transaction_date"`
	Description     string          `gorm:"size:255" json:"description"`
}

func (WalletTransaction) TableName() string { return "wallet_transactions" }
