package domain

import "context"

// ProductRepository 商品存储口
type ProductRepository interface {
	// GetByProductID 按商品 ID 点查，缺失时返回 ErrProductNotFound
	GetByProductID(ctx context.Context, productID string) (*Product, error)
	// List 按分类分页列出商品
	List(ctx context.Context, category string, offset, limit int) ([]*Product, int64, error)
	// Save 持久化商品（建档或更新），内部装配与测试铺数据用
	Save(ctx context.Context, product *Product) error
	// DecrementStock 原子扣减库存，仅当剩余库存足够时生效，
	// 不足时返回 ErrInsufficientStock
	DecrementStock(ctx context.Context, productID string, quantity int) error
}
