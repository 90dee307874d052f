package model

import (
	"time"

	"gorm.io/gorm"
)

// Dropshipper 平台卖家，代客户下单并按单获得钱包入账。
// ID 由身份服务分配，这里直接作为主键。删除为软删除，历史订单仍可显示卖家。
type Dropshipper struct {
	ID        string         `gorm:"primaryKey;size:64" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name     string `gorm:"size:128;not null" json:"name"`
	Email    string `gorm:"size:128;uniqueIndex" json:"email"`
	Phone    string `gorm:"size:32" json:"phone"`
	IsActive bool   `gorm:"not null" json:"is_active"`

	Wallet *Wallet `gorm:"foreignKey:DropshipperID;references:ID" json:"wallet,omitempty"`
}

func (Dropshipper) TableName() string { return "dropshippers" }
