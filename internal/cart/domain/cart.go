// Package domain 包含购物车服务的领域模型
package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// CartStatus 购物车状态
type CartStatus int

const (
	CartStatusDraft  CartStatus = 0
	CartStatusOpen   CartStatus = 1
	CartStatusClosed CartStatus = -1
)

// ItemStatus 行项目状态。客户把数量调到零仍保持 ACTIVE，
// 管理性移除标记为 REMOVED，两种情况都保留行做审计。
type ItemStatus string

const (
	ItemStatusActive  ItemStatus = "ACTIVE"
	ItemStatusRemoved ItemStatus = "REMOVED"
)

// Cart 购物车聚合根
// 同一用户同一时刻至多存在一个未关闭的购物车（closed_at 为空即为打开）。
type Cart struct {
	gorm.Model
	// 购物车 ID
	CartID string `json:"cart_id"`
	// 所属用户 ID
	UserID string `json:"user_id"`
	// 状态
	Status CartStatus `json:"status"`
	// 打开时间
	OpenedAt time.Time `json:"opened_at"`
	// 关闭时间，打开期间为空
	ClosedAt *time.Time `json:"closed_at,omitempty"`
	// 行项目集合
	Items []CartItem `json:"items,omitempty"`
}

// NewCart 为用户创建一个新的打开状态购物车
func NewCart(userID string) *Cart {
	return &Cart{
		CartID:   uuid.NewString(),
		UserID:   userID,
		Status:   CartStatusOpen,
		OpenedAt: time.Now(),
	}
}

// IsOpen 是否处于打开状态
func (c *Cart) IsOpen() bool {
	return c.ClosedAt == nil
}

// Close 关闭购物车。对已关闭的购物车重复调用是幂等空操作。
func (c *Cart) Close(now time.Time) {
	if c.ClosedAt != nil {
		return
	}
	t := now
	c.ClosedAt = &t
	c.Status = CartStatusClosed
}

// CartItem 购物车行项目，以 (cart_id, product_id) 为复合标识。
// Price 是累计金额：每次数量变化按当时单价增量累加，而不是按现价重算，
// 以保留商品加入时的历史定价。
type CartItem struct {
	gorm.Model
	CartID    string          `json:"cart_id"`
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Status    ItemStatus      `json:"status"`
}

// IsActive 是否应出现在活跃行项目视图中
func (i *CartItem) IsActive() bool {
	return i.Status == ItemStatusActive && i.Quantity > 0
}

// CartItemView 行项目与商品目录现价的联查视图。
// Price 是累计的加入价，CurrentPrice 是商品当前单价，
// 两者同时暴露给调用方以便展示"已付价 / 现价"。
type CartItemView struct {
	CartItem
	ProductName  string          `json:"product_name"`
	CurrentPrice decimal.Decimal `json:"current_price"`
}
