// Package application 商品目录的应用服务。目录管理不在本服务范围内，
// 这里只提供读路径和订货流程需要的库存扣减。
package application

import (
	"context"
	"fmt"

	"github.com/wyfcoding/retailordering/internal/catalog/domain"
)

// CatalogService 商品目录应用服务
type CatalogService struct {
	repo domain.ProductRepository
}

// NewCatalogService 创建商品目录应用服务实例
func NewCatalogService(repo domain.ProductRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// GetProduct 按商品 ID 查询
func (s *CatalogService) GetProduct(ctx context.Context, productID string) (*domain.Product, error) {
	if productID == "" {
		return nil, fmt.Errorf("product id is required")
	}
	return s.repo.GetByProductID(ctx, productID)
}

// ListProducts 按分类分页列出商品
func (s *CatalogService) ListProducts(ctx context.Context, category string, page, size int) ([]*domain.Product, int64, error) {
	offset := (page - 1) * size
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, category, offset, size)
}

// ReserveStock 为订货扣减库存，库存不足时失败且不产生部分扣减
func (s *CatalogService) ReserveStock(ctx context.Context, productID string, quantity int) error {
	if productID == "" || quantity <= 0 {
		return fmt.Errorf("invalid reserve request: product %q quantity %d", productID, quantity)
	}
	return s.repo.DecrementStock(ctx, productID, quantity)
}
