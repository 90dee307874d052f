package store

import (
	"fmt"
	"strings"
	"time"

	"dropshipping/internal/config"
	"dropshipping/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open 按 DB_DRIVER 打开 SQLite（默认）或 MySQL，并配置连接池。
func Open(cfg config.AppConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "mysql":
		dialector = mysql.Open(cfg.MySQLDSN)
	case "sqlite", "":
		dialector = sqlite.Open(sqliteDSN(cfg.DBPath))
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(5)

	return gdb, nil
}

// sqliteDSN 给 SQLite 文件库补上并发写所需的连接参数：
// WAL 让读不阻塞写；写事务用 BEGIN IMMEDIATE 一开始就拿写锁，
// 其余写者在 busy_timeout 内排队等待，而不是直接返回 database is locked。
func sqliteDSN(path string) string {
	if path == ":memory:" || strings.Contains(path, "_txlock=") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_busy_timeout=10000&_journal_mode=WAL&_txlock=immediate"
}

// Migrate 自动建表。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Category{},
		&model.Brand{},
		&model.Product{},
		&model.Dropshipper{},
		&model.Customer{},
		&model.Order{},
		&model.OrderItem{},
		&model.Wallet{},
		&model.WalletTransaction{},
	)
}
