package domain

import "context"

// ProductDemand 商品的在途需求：当前躺在所有打开购物车里的总件数
type ProductDemand struct {
	ProductID string `json:"product_id"`
	InCart    int64  `json:"in_cart"`
}

// DemandRepository 在途需求投影的读写口。
// 投影由购物车事件驱动，允许短暂滞后，不参与任何守卫判断。
type DemandRepository interface {
	// Incr 按增量更新商品的在途需求，delta 可为负
	Incr(ctx context.Context, productID string, delta int64) error
	// Top 返回在途需求最高的前 n 个商品
	Top(ctx context.Context, n int64) ([]ProductDemand, error)
}
