// Package store 是订单/钱包/客户等记录的持久化网关，基于 GORM。
package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 记录不存在。
	ErrNotFound = errors.New("record not found")
	// ErrConflict 乐观锁版本不匹配或唯一键竞争。
	ErrConflict = errors.New("concurrent update conflict")
)

// Store 包装 *gorm.DB。InTx 回调里拿到的 Store 绑定在同一个事务上。
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store { return &Store{db: db} }

// DB 暴露底层连接，供健康检查等场景使用。
func (s *Store) DB() *gorm.DB { return s.db }

// InTx 开启一个工作单元：fn 返回 nil 则提交，返回错误或 panic 则回滚。
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

// Ping 检查数据库连接。
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func errorsLikeUnique(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "UNIQUE") || strings.Contains(s, "unique") || strings.Contains(s, "Duplicate entry")
}

// Page 分页结果。
type Page[T any] struct {
	Result     []T   `json:"result"`
	TotalCount int64 `json:"total_count"`
	PageIndex  int   `json:"page_index"`
	PageSize   int   `json:"page_size"`
}

// Paging 页码从 1 开始。
type Paging struct {
	PageIndex int
	PageSize  int
}

const maxPageSize = 100

func (p Paging) normalize() Paging {
	if p.PageIndex < 1 {
		p.PageIndex = 1
	}
	if p.PageSize < 1 {
		p.PageSize = 10
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	return p
}

func (p Paging) offset() int { return (p.PageIndex - 1) * p.PageSize }
