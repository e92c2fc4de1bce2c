// Package mysql 提供商品仓储接口的 MySQL GORM 实现。
package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/pkg/logging"
	"gorm.io/gorm"

	"github.com/wyfcoding/retailordering/internal/catalog/domain"
)

// ProductModel 商品数据库模型
type ProductModel struct {
	gorm.Model
	ProductID   string          `gorm:"column:product_id;type:char(36);uniqueIndex;not null"`
	Name        string          `gorm:"column:name;type:varchar(255);not null"`
	Description string          `gorm:"column:description;type:text"`
	Price       decimal.Decimal `gorm:"column:price;type:decimal(12,2);not null"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	Category    string          `gorm:"column:category;type:varchar(100);index"`
}

// TableName 指定表名
func (ProductModel) TableName() string { return "products" }

// productRepositoryImpl 是 domain.ProductRepository 接口的 GORM 实现
type productRepositoryImpl struct {
	db *gorm.DB
}

// NewProductRepository 创建商品仓储实例
func NewProductRepository(db *gorm.DB) domain.ProductRepository {
	return &productRepositoryImpl{db: db}
}

// GetByProductID 实现 domain.ProductRepository.GetByProductID
func (r *productRepositoryImpl) GetByProductID(ctx context.Context, productID string) (*domain.Product, error) {
	var m ProductModel
	if err := r.db.WithContext(ctx).Where("product_id = ?", productID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", productID, domain.ErrProductNotFound)
		}
		logging.Error(ctx, "product_repository.GetByProductID failed", "product_id", productID, "error", err)
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return toDomain(&m), nil
}

// List 实现 domain.ProductRepository.List
func (r *productRepositoryImpl) List(ctx context.Context, category string, offset, limit int) ([]*domain.Product, int64, error) {
	db := r.db.WithContext(ctx).Model(&ProductModel{})
	if category != "" {
		db = db.Where("category = ?", category)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var ms []ProductModel
	if err := db.Order("id").Offset(offset).Limit(limit).Find(&ms).Error; err != nil {
		logging.Error(ctx, "product_repository.List failed", "category", category, "error", err)
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}

	products := make([]*domain.Product, len(ms))
	for i := range ms {
		products[i] = toDomain(&ms[i])
	}
	return products, total, nil
}

// Save 实现 domain.ProductRepository.Save
func (r *productRepositoryImpl) Save(ctx context.Context, p *domain.Product) error {
	m := &ProductModel{
		Model:       p.Model,
		ProductID:   p.ProductID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
	}
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		logging.Error(ctx, "product_repository.Save failed", "product_id", p.ProductID, "error", err)
		return fmt.Errorf("failed to save product: %w", err)
	}
	p.Model = m.Model
	return nil
}

// DecrementStock 实现 domain.ProductRepository.DecrementStock，
// 扣减与余量校验在同一条语句内完成。
func (r *productRepositoryImpl) DecrementStock(ctx context.Context, productID string, quantity int) error {
	res := r.db.WithContext(ctx).Model(&ProductModel{}).
		Where("product_id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		logging.Error(ctx, "product_repository.DecrementStock failed", "product_id", productID, "error", res.Error)
		return fmt.Errorf("failed to decrement stock: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		// 分辨商品缺失与库存不足
		if _, err := r.GetByProductID(ctx, productID); err != nil {
			return err
		}
		return fmt.Errorf("product %s quantity %d: %w", productID, quantity, domain.ErrInsufficientStock)
	}
	return nil
}

func toDomain(m *ProductModel) *domain.Product {
	return &domain.Product{
		Model:       m.Model,
		ProductID:   m.ProductID,
		Name:        m.Name,
		Description: m.Description,
		Price:       m.Price,
		Stock:       m.Stock,
		Category:    m.Category,
	}
}
