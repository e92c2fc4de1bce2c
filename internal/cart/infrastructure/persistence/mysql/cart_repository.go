package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"
	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/logging"
	"gorm.io/gorm"

	"github.com/wyfcoding/retailordering/internal/cart/domain"
)

// isDuplicateKey 识别唯一键冲突。gorm 仅在开启 TranslateError 时
// 才把驱动错误翻译成 gorm.ErrDuplicatedKey，接入的 DB 构造没有开，
// 所以这里同时直接判 MySQL 1062。
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysqldriver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

// cartRepositoryImpl 是 domain.CartRepository 接口的 GORM 实现
type cartRepositoryImpl struct {
	db *gorm.DB
}

// NewCartRepository 创建购物车仓储实例
func NewCartRepository(db *gorm.DB) domain.CartRepository {
	return &cartRepositoryImpl{db: db}
}

func (r *cartRepositoryImpl) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return tx
	}
	return r.db
}

// WithTx 实现 domain.CartRepository.WithTx，事务经 context 传递
func (r *cartRepositoryImpl) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(contextx.WithTx(ctx, tx))
	})
}

// Save 实现 domain.CartRepository.Save
func (r *cartRepositoryImpl) Save(ctx context.Context, cart *domain.Cart) error {
	m := toCartModel(cart)
	if err := r.getDB(ctx).WithContext(ctx).Create(m).Error; err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("user %s: %w", cart.UserID, domain.ErrCartConflict)
		}
		logging.Error(ctx, "cart_repository.Save failed", "cart_id", cart.CartID, "error", err)
		return fmt.Errorf("failed to save cart: %w", err)
	}
	cart.Model = m.Model
	return nil
}

// GetByCartID 实现 domain.CartRepository.GetByCartID
func (r *cartRepositoryImpl) GetByCartID(ctx context.Context, cartID string) (*domain.Cart, error) {
	var m CartModel
	if err := r.getDB(ctx).WithContext(ctx).Where("cart_id = ?", cartID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart %s: %w", cartID, domain.ErrCartNotFound)
		}
		logging.Error(ctx, "cart_repository.GetByCartID failed", "cart_id", cartID, "error", err)
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return toDomainCart(&m), nil
}

// GetOpenByUserID 实现 domain.CartRepository.GetOpenByUserID，
// 打开的购物车即 closed_at 为空的那一行；不存在时返回 (nil, nil)。
func (r *cartRepositoryImpl) GetOpenByUserID(ctx context.Context, userID string) (*domain.Cart, error) {
	var m CartModel
	err := r.getDB(ctx).WithContext(ctx).
		Where("user_id = ? AND closed_at IS NULL", userID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		logging.Error(ctx, "cart_repository.GetOpenByUserID failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to get open cart: %w", err)
	}
	return toDomainCart(&m), nil
}

// ListByUserID 实现 domain.CartRepository.ListByUserID
func (r *cartRepositoryImpl) ListByUserID(ctx context.Context, userID string) ([]*domain.Cart, error) {
	var ms []CartModel
	if err := r.getDB(ctx).WithContext(ctx).Where("user_id = ?", userID).Find(&ms).Error; err != nil {
		logging.Error(ctx, "cart_repository.ListByUserID failed", "user_id", userID, "error", err)
		return nil, fmt.Errorf("failed to list carts: %w", err)
	}
	carts := make([]*domain.Cart, len(ms))
	for i := range ms {
		carts[i] = toDomainCart(&ms[i])
	}
	return carts, nil
}

// Close 实现 domain.CartRepository.Close。active 置 NULL 释放
// (user_id, active) 的唯一占位；已关闭的行不匹配条件，天然幂等。
func (r *cartRepositoryImpl) Close(ctx context.Context, cartID string, closedAt time.Time) error {
	err := r.getDB(ctx).WithContext(ctx).Model(&CartModel{}).
		Where("cart_id = ? AND closed_at IS NULL", cartID).
		Updates(map[string]any{
			"closed_at": closedAt,
			"status":    int(domain.CartStatusClosed),
			"active":    nil,
		}).Error
	if err != nil {
		logging.Error(ctx, "cart_repository.Close failed", "cart_id", cartID, "error", err)
		return fmt.Errorf("failed to close cart: %w", err)
	}
	return nil
}

// GetItem 实现 domain.CartRepository.GetItem
func (r *cartRepositoryImpl) GetItem(ctx context.Context, cartID, productID string) (*domain.CartItem, error) {
	var m CartItemModel
	err := r.getDB(ctx).WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart %s product %s: %w", cartID, productID, domain.ErrItemNotFound)
		}
		logging.Error(ctx, "cart_repository.GetItem failed", "cart_id", cartID, "product_id", productID, "error", err)
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return toDomainItem(&m), nil
}

// InsertItem 实现 domain.CartRepository.InsertItem
func (r *cartRepositoryImpl) InsertItem(ctx context.Context, item *domain.CartItem) error {
	m := toItemModel(item)
	if err := r.getDB(ctx).WithContext(ctx).Create(m).Error; err != nil {
		logging.Error(ctx, "cart_repository.InsertItem failed", "cart_id", item.CartID, "product_id", item.ProductID, "error", err)
		return fmt.Errorf("failed to insert cart item: %w", err)
	}
	item.Model = m.Model
	return nil
}

// ItemAndStock 实现 domain.CartRepository.ItemAndStock，
// 单条语句联查行项目数量与商品库存。
func (r *cartRepositoryImpl) ItemAndStock(ctx context.Context, cartID, productID string) (int, int, error) {
	var row struct {
		Quantity int
		Stock    int
	}
	err := r.getDB(ctx).WithContext(ctx).
		Table("cart_items ci").
		Select("ci.quantity AS quantity, p.stock AS stock").
		Joins("JOIN products p ON p.product_id = ci.product_id").
		Where("ci.cart_id = ? AND ci.product_id = ?", cartID, productID).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, 0, fmt.Errorf("cart %s product %s: %w", cartID, productID, domain.ErrItemNotFound)
		}
		logging.Error(ctx, "cart_repository.ItemAndStock failed", "cart_id", cartID, "product_id", productID, "error", err)
		return 0, 0, fmt.Errorf("failed to read item and stock: %w", err)
	}
	return row.Quantity, row.Stock, nil
}

// AdjustItem 实现 domain.CartRepository.AdjustItem。
// 数量与价格在同一条语句里按增量更新：价格增量取语句执行时刻的
// p.price，读写之间的调价只作用于本次增量。守卫条件
// 0 ≤ quantity+delta ≤ stock 由 MySQL 在同一语句内求值，
// 被拒绝时影响行数为零。
func (r *cartRepositoryImpl) AdjustItem(ctx context.Context, cartID, productID string, delta int) (bool, error) {
	res := r.getDB(ctx).WithContext(ctx).Exec(
		`UPDATE cart_items ci
		   JOIN products p ON p.product_id = ci.product_id
		    SET ci.quantity = ci.quantity + ?,
		        ci.price = ci.price + ? * p.price,
		        ci.status = ?
		  WHERE ci.cart_id = ? AND ci.product_id = ?
		    AND ci.quantity + ? >= 0
		    AND ci.quantity + ? <= p.stock`,
		delta, delta, string(domain.ItemStatusActive), cartID, productID, delta, delta,
	)
	if res.Error != nil {
		logging.Error(ctx, "cart_repository.AdjustItem failed", "cart_id", cartID, "product_id", productID, "delta", delta, "error", res.Error)
		return false, fmt.Errorf("failed to adjust cart item: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ZeroItem 实现 domain.CartRepository.ZeroItem，软删除：清零并保留行
func (r *cartRepositoryImpl) ZeroItem(ctx context.Context, cartID, productID string) error {
	err := r.getDB(ctx).WithContext(ctx).Model(&CartItemModel{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Updates(map[string]any{
			"quantity": 0,
			"status":   string(domain.ItemStatusRemoved),
		}).Error
	if err != nil {
		logging.Error(ctx, "cart_repository.ZeroItem failed", "cart_id", cartID, "product_id", productID, "error", err)
		return fmt.Errorf("failed to zero cart item: %w", err)
	}
	return nil
}

// ListActiveItems 实现 domain.CartRepository.ListActiveItems，
// 联查商品名称与现价供展示层并列输出"已付价 / 现价"。
func (r *cartRepositoryImpl) ListActiveItems(ctx context.Context, cartID string) ([]*domain.CartItemView, error) {
	var rows []struct {
		CartItemModel
		ProductName  string          `gorm:"column:product_name"`
		CurrentPrice decimal.Decimal `gorm:"column:current_price"`
	}
	err := r.getDB(ctx).WithContext(ctx).
		Table("cart_items ci").
		Select("ci.*, p.name AS product_name, p.price AS current_price").
		Joins("JOIN products p ON p.product_id = ci.product_id").
		Where("ci.cart_id = ? AND ci.quantity > 0 AND ci.status = ?", cartID, string(domain.ItemStatusActive)).
		Find(&rows).Error
	if err != nil {
		logging.Error(ctx, "cart_repository.ListActiveItems failed", "cart_id", cartID, "error", err)
		return nil, fmt.Errorf("failed to list active items: %w", err)
	}

	views := make([]*domain.CartItemView, len(rows))
	for i := range rows {
		views[i] = &domain.CartItemView{
			CartItem:     *toDomainItem(&rows[i].CartItemModel),
			ProductName:  rows[i].ProductName,
			CurrentPrice: rows[i].CurrentPrice,
		}
	}
	return views, nil
}
