package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category 商品分类。软删除，历史商品仍可引用。
type Category struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"size:64;not null;index" json:"name"`
	Description string `gorm:"size:512" json:"description"`
}

func (Category) TableName() string { return "categories" }

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Brand 品牌。与分类没有直接关系，经由商品关联。
type Brand struct {
	ID        string         `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"size:64;not null;index" json:"name"`
	Description string `gorm:"size:512" json:"description"`
}

func (Brand) TableName() string { return "brands" }

func (b *Brand) BeforeCreate(*gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
