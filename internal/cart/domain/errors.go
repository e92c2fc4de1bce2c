package domain

import (
	"errors"
	"fmt"
)

var (
	ErrCartNotFound    = errors.New("cart not found")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrProductNotFound = errors.New("product not found")
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrCartConflict 并发打开购物车时唯一约束拒绝了后到的写入
	ErrCartConflict = errors.New("open cart already exists for user")
)

// OutOfBoundsError 减量会使行项目数量为负
type OutOfBoundsError struct {
	ProductID string
	Current   int
	Delta     int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("quantity out of bounds: product %s has %d in cart, delta %d", e.ProductID, e.Current, e.Delta)
}

// OutOfStockError 增量会使行项目数量超过可用库存
type OutOfStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("out of stock: product %s requested %d, available %d", e.ProductID, e.Requested, e.Available)
}
