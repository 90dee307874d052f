package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product 商品目录：名称、描述、品牌、分类、当前售价。品牌与分类可为空。
type Product struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"size:128;not null;index" json:"name"`
	Description string `gorm:"size:1024" json:"description"`

	BrandID    *string   `gorm:"size:36;index" json:"brand_id"`
	Brand      *Brand    `json:"brand,omitempty"`
	CategoryID *string   `gorm:"size:36;index" json:"category_id"`
	Category   *Category `json:"category,omitempty"`

	// Price 是下单时读取的权威单价，订单项不做快照。
	Price     decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"price"`
	ModelYear int             `json:"model_year"`
}

func (Product) TableName() string { return "products" }

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
