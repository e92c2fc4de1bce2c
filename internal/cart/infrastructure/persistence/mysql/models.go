// Package mysql 提供购物车仓储接口的 MySQL GORM 实现。
package mysql

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wyfcoding/retailordering/internal/cart/domain"
)

// CartModel 购物车数据库模型。
// active 在购物车打开期间为 1，关闭后置 NULL；(user_id, active) 的
// 复合唯一索引由存储层保证"每用户至多一个打开购物车"。MySQL 唯一索引
// 不约束 NULL，关闭的购物车互不冲突。
type CartModel struct {
	gorm.Model
	CartID   string     `gorm:"column:cart_id;type:char(36);uniqueIndex;not null"`
	UserID   string     `gorm:"column:user_id;type:char(36);not null;uniqueIndex:uk_user_active,priority:1"`
	Status   int        `gorm:"column:status;not null;default:1"`
	Active   *int8      `gorm:"column:active;uniqueIndex:uk_user_active,priority:2"`
	OpenedAt time.Time  `gorm:"column:opened_at;type:datetime;not null"`
	ClosedAt *time.Time `gorm:"column:closed_at;type:datetime"`
}

// TableName 指定表名
func (CartModel) TableName() string { return "carts" }

// CartItemModel 行项目数据库模型，(cart_id, product_id) 复合唯一。
// price 为累计金额，decimal(12,2) 与货币两位小数精度一致。
type CartItemModel struct {
	gorm.Model
	CartID    string          `gorm:"column:cart_id;type:char(36);not null;uniqueIndex:uk_cart_product,priority:1"`
	ProductID string          `gorm:"column:product_id;type:char(36);not null;uniqueIndex:uk_cart_product,priority:2"`
	Quantity  int             `gorm:"column:quantity;not null;default:0"`
	Price     decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null"`
	Status    string          `gorm:"column:status;type:varchar(20);index;not null;default:ACTIVE"`
}

// TableName 指定表名
func (CartItemModel) TableName() string { return "cart_items" }

func toCartModel(c *domain.Cart) *CartModel {
	active := int8(1)
	m := &CartModel{
		Model:    c.Model,
		CartID:   c.CartID,
		UserID:   c.UserID,
		Status:   int(c.Status),
		OpenedAt: c.OpenedAt,
		ClosedAt: c.ClosedAt,
	}
	if c.IsOpen() {
		m.Active = &active
	}
	return m
}

func toDomainCart(m *CartModel) *domain.Cart {
	return &domain.Cart{
		Model:    m.Model,
		CartID:   m.CartID,
		UserID:   m.UserID,
		Status:   domain.CartStatus(m.Status),
		OpenedAt: m.OpenedAt,
		ClosedAt: m.ClosedAt,
	}
}

func toItemModel(i *domain.CartItem) *CartItemModel {
	return &CartItemModel{
		Model:     i.Model,
		CartID:    i.CartID,
		ProductID: i.ProductID,
		Quantity:  i.Quantity,
		Price:     i.Price,
		Status:    string(i.Status),
	}
}

func toDomainItem(m *CartItemModel) *domain.CartItem {
	return &domain.CartItem{
		Model:     m.Model,
		CartID:    m.CartID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
		Price:     m.Price,
		Status:    domain.ItemStatus(m.Status),
	}
}
