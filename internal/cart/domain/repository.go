package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// CartRepository 购物车存储口。
// 调整相关的方法把并发代价下推到存储层：AdjustItem 以单条带条件的
// 增量语句执行，绝不盲写覆盖。
type CartRepository interface {
	// Save 持久化新购物车。同一用户已有打开购物车时返回 ErrCartConflict。
	Save(ctx context.Context, cart *Cart) error
	// GetByCartID 按购物车 ID 点查
	GetByCartID(ctx context.Context, cartID string) (*Cart, error)
	// GetOpenByUserID 查询用户当前打开的购物车，不存在时返回 (nil, nil)
	GetOpenByUserID(ctx context.Context, userID string) (*Cart, error)
	// ListByUserID 返回用户的全部购物车（含已关闭），一次物化
	ListByUserID(ctx context.Context, userID string) ([]*Cart, error)
	// Close 置关闭时间与状态并释放唯一占位，已关闭时为空操作
	Close(ctx context.Context, cartID string, closedAt time.Time) error

	// GetItem 点查行项目，缺失与数量为零是两种不同结果
	GetItem(ctx context.Context, cartID, productID string) (*CartItem, error)
	// InsertItem 首次插入行项目
	InsertItem(ctx context.Context, item *CartItem) error
	// ItemAndStock 单条联查读取 (购物车内数量, 当前库存)
	ItemAndStock(ctx context.Context, cartID, productID string) (inCart int, inStock int, err error)
	// AdjustItem 受守卫的原子增量：quantity += delta，price += delta × 当前单价，
	// 守卫条件 0 ≤ quantity+delta ≤ 库存 由存储在同一语句内求值。
	// 守卫拒绝时返回 (false, nil)。
	AdjustItem(ctx context.Context, cartID, productID string, delta int) (bool, error)
	// ZeroItem 管理性清零：quantity = 0 且状态置 REMOVED，保留行
	ZeroItem(ctx context.Context, cartID, productID string) error
	// ListActiveItems 活跃行项目联查商品名称与现价
	ListActiveItems(ctx context.Context, cartID string) ([]*CartItemView, error)

	// WithTx 在单个存储事务内执行 fn，事务经 context 传递给嵌套调用
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// StockSnapshot 库存快照（瞬态）。每次调整决策都实时读取，
// 库存外部可变，严禁跨调用缓存。
type StockSnapshot struct {
	ProductID string
	Available int
	UnitPrice decimal.Decimal
}

// StockOracle 商品可用库存与当前单价的外部读取口
type StockOracle interface {
	// Lookup 按商品 ID 读取快照，商品不存在时返回 ErrProductNotFound
	Lookup(ctx context.Context, productID string) (*StockSnapshot, error)
}

// EventPublisher 集成事件发布口
type EventPublisher interface {
	Publish(ctx context.Context, topic string, key string, event any) error
}
