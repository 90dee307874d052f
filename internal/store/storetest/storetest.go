// Package storetest 提供测试用的 SQLite 临时库与种子数据。
package storetest

import (
	"path/filepath"
	"testing"

	"dropshipping/internal/model"
	"dropshipping/internal/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB 每个测试一个独立的 SQLite 文件库，已建表。
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, store.Migrate(db))
	return db
}

// SeedProduct 写入一个商品，price 用十进制字符串。
func SeedProduct(t *testing.T, db *gorm.DB, name, price string) *model.Product {
	t.Helper()
	p := &model.Product{Name: name, Price: decimal.RequireFromString(price)}
	require.NoError(t, db.Create(p).Error)
	return p
}

// SeedDropshipper 写入一个启用状态的卖家（不带钱包）。
func SeedDropshipper(t *testing.T, db *gorm.DB, id, name string) *model.Dropshipper {
	t.Helper()
	d := &model.Dropshipper{ID: id, Name: name, Email: id + "@example.com", IsActive: true}
	require.NoError(t, db.Create(d).Error)
	return d
}

// Count 统计某张表的行数。
func Count(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}
