package order

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation 请求结构不合法，工作流不会开始。
	ErrValidation = errors.New("invalid order request")
	// ErrProductNotFound 定价阶段找不到商品，整单回滚。
	ErrProductNotFound = errors.New("product not found")
	ErrOrderNotFound   = errors.New("order not found")
	// ErrWalletConflict 钱包行被并发写入，可整单重试。
	ErrWalletConflict = errors.New("wallet updated concurrently")
)

// ProductNotFoundError 带上缺失商品的 ID，errors.Is 可匹配 ErrProductNotFound。
type ProductNotFoundError struct {
	ProductID string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product with id %s not found", e.ProductID)
}

func (e *ProductNotFoundError) Is(target error) bool { return target == ErrProductNotFound }

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
