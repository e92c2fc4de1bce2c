// Package domain 包含商品目录服务的领域模型
package domain

import (
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("product not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product 商品实体，购物车侧库存与现价的数据来源
type Product struct {
	gorm.Model
	// 商品 ID
	ProductID string `json:"product_id"`
	// 名称
	Name string `json:"name"`
	// 描述
	Description string `json:"description"`
	// 当前单价
	Price decimal.Decimal `json:"price"`
	// 可用库存
	Stock int `json:"stock"`
	// 分类
	Category string `json:"category"`
}
