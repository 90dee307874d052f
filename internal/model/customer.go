package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer 终端客户。(phone_number, dropshipper_id) 只建普通索引：
// 唯一性靠查询保证，先查到的那一条生效。
type Customer struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name          string `gorm:"size:128;not null" json:"name"`
	Address       string `gorm:"size:512" json:"address"`
	PhoneNumber   string `gorm:"size:32;not null;index:idx_customer_phone_owner,priority:1" json:"phone_number"`
	DropshipperID string `gorm:"size:64;not null;index:idx_customer_phone_owner,priority:2" json:"dropshipper_id"`
}

func (Customer) TableName() string { return "customers" }

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
