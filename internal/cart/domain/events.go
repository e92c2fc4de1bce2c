package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartOpenedEvent 购物车打开事件
type CartOpenedEvent struct {
	CartID    string    `json:"cart_id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CartClosedEvent 购物车关闭事件
type CartClosedEvent struct {
	CartID    string    `json:"cart_id"`
	UserID    string    `json:"user_id"`
	Timestamp time.Time `json:"timestamp"`
}

// CartItemAddedEvent 购物车新增商品事件
type CartItemAddedEvent struct {
	CartID    string          `json:"cart_id"`
	UserID    string          `json:"user_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Timestamp time.Time       `json:"timestamp"`
}

// CartItemAdjustedEvent 行项目数量调整事件
type CartItemAdjustedEvent struct {
	CartID    string    `json:"cart_id"`
	ProductID string    `json:"product_id"`
	Delta     int       `json:"delta"`
	Timestamp time.Time `json:"timestamp"`
}

// CartItemRemovedEvent 购物车移除商品事件，Quantity 为移除前的数量
type CartItemRemovedEvent struct {
	CartID    string    `json:"cart_id"`
	ProductID string    `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Timestamp time.Time `json:"timestamp"`
}
