// Package adapter 把商品目录适配成购物车侧的库存口
package adapter

import (
	"context"
	"errors"
	"fmt"

	cartdomain "github.com/wyfcoding/retailordering/internal/cart/domain"
	catalogdomain "github.com/wyfcoding/retailordering/internal/catalog/domain"
)

// productStockOracle 基于商品仓储实现 domain.StockOracle。
// 每次 Lookup 都落到存储实时读取，不做任何缓存。
type productStockOracle struct {
	products catalogdomain.ProductRepository
}

// NewStockOracle 创建库存读取适配器
func NewStockOracle(products catalogdomain.ProductRepository) cartdomain.StockOracle {
	return &productStockOracle{products: products}
}

// Lookup 实现 domain.StockOracle.Lookup
func (o *productStockOracle) Lookup(ctx context.Context, productID string) (*cartdomain.StockSnapshot, error) {
	product, err := o.products.GetByProductID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, cartdomain.ErrProductNotFound)
		}
		return nil, err
	}
	return &cartdomain.StockSnapshot{
		ProductID: product.ProductID,
		Available: product.Stock,
		UnitPrice: product.Price,
	}, nil
}
