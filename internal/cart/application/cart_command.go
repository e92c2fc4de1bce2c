package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/retailordering/internal/cart/domain"
)

// CartCommandService 购物车命令服务：生命周期与数量调整协议
type CartCommandService struct {
	repo      domain.CartRepository
	oracle    domain.StockOracle
	publisher domain.EventPublisher
}

// NewCartCommandService 创建购物车命令服务实例
func NewCartCommandService(
	repo domain.CartRepository,
	oracle domain.StockOracle,
	publisher domain.EventPublisher,
) *CartCommandService {
	return &CartCommandService{
		repo:      repo,
		oracle:    oracle,
		publisher: publisher,
	}
}

// OpenCart 为用户新建一个打开的购物车并持久化。
// 不检查用户是否已有打开的购物车，调用方应先走 GetOpenCart；
// (user_id, active) 唯一约束保证并发双开只有一方成功，
// 输掉的一方收到 ErrCartConflict。
func (s *CartCommandService) OpenCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidArgument)
	}

	cart := domain.NewCart(userID)
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Save(txCtx, cart); err != nil {
			return err
		}
		return s.publisher.Publish(txCtx, "cart.opened", cart.CartID, domain.CartOpenedEvent{
			CartID:    cart.CartID,
			UserID:    cart.UserID,
			Timestamp: cart.OpenedAt,
		})
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// CloseCart 关闭购物车。关闭已关闭的购物车是幂等的空操作。
func (s *CartCommandService) CloseCart(ctx context.Context, cartID string) error {
	if cartID == "" {
		return fmt.Errorf("%w: cart id is required", domain.ErrInvalidArgument)
	}

	cart, err := s.repo.GetByCartID(ctx, cartID)
	if err != nil {
		return err
	}
	if !cart.IsOpen() {
		return nil
	}

	now := time.Now()
	if err := s.repo.Close(ctx, cartID, now); err != nil {
		return err
	}

	if err := s.publisher.Publish(ctx, "cart.closed", cartID, domain.CartClosedEvent{
		CartID:    cartID,
		UserID:    cart.UserID,
		Timestamp: now,
	}); err != nil {
		slog.WarnContext(ctx, "failed to publish cart.closed", "cart_id", cartID, "error", err)
	}
	return nil
}

// AddToCart 向用户当前打开的购物车加入商品，没有打开的购物车时先开一个。
// 该商品已在车内时转为数量调整；首次加入走无条件插入，线价取
// 插入时刻的单价 × 数量。首次插入不校验库存，与后续增量路径不一致，
// 这是沿用的历史行为。
func (s *CartCommandService) AddToCart(ctx context.Context, userID, productID string, quantity int) error {
	if userID == "" || productID == "" {
		return fmt.Errorf("%w: user id and product id are required", domain.ErrInvalidArgument)
	}
	if quantity <= 0 {
		return fmt.Errorf("%w: quantity must be positive, got %d", domain.ErrInvalidArgument, quantity)
	}

	cart, err := s.repo.GetOpenByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if cart == nil {
		cart, err = s.OpenCart(ctx, userID)
		if errors.Is(err, domain.ErrCartConflict) {
			// 并发打开输给了另一请求，改用赢家创建的购物车
			cart, err = s.repo.GetOpenByUserID(ctx, userID)
			if err == nil && cart == nil {
				err = domain.ErrCartConflict
			}
		}
		if err != nil {
			return err
		}
	}

	item, err := s.repo.GetItem(ctx, cart.CartID, productID)
	if err != nil && !errors.Is(err, domain.ErrItemNotFound) {
		return err
	}
	if item != nil {
		return s.AdjustQuantity(ctx, cart.CartID, productID, quantity)
	}

	snap, err := s.oracle.Lookup(ctx, productID)
	if err != nil {
		return err
	}
	newItem := &domain.CartItem{
		CartID:    cart.CartID,
		ProductID: productID,
		Quantity:  quantity,
		Price:     snap.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))),
		Status:    domain.ItemStatusActive,
	}
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.InsertItem(txCtx, newItem); err != nil {
			return err
		}
		return s.publisher.Publish(txCtx, "cart.item.added", cart.CartID, domain.CartItemAddedEvent{
			CartID:    cart.CartID,
			UserID:    userID,
			ProductID: productID,
			Quantity:  quantity,
			Price:     newItem.Price,
			Timestamp: time.Now(),
		})
	})
}

// AdjustQuantity 对行项目施加带符号的数量增量。
// 协议：联查读取 (车内数量, 库存) → 下界校验 → 库存校验 → 受守卫的
// 原子增量更新。价格增量按更新语句执行时刻的单价计算，而不是
// 读取阶段的单价：读写之间的调价只影响本次增量部分。
// 守卫被并发修改拒绝时重新校验一次再重试，第二次仍被拒绝则放弃。
func (s *CartCommandService) AdjustQuantity(ctx context.Context, cartID, productID string, delta int) error {
	if cartID == "" || productID == "" {
		return fmt.Errorf("%w: cart id and product id are required", domain.ErrInvalidArgument)
	}
	// 零增量是空操作。带守卫的 UPDATE 对它改不了任何列，
	// 影响行数为零会被误判成守卫拒绝，这里直接短路。
	if delta == 0 {
		return nil
	}

	const maxAttempts = 2
	for attempt := 1; ; attempt++ {
		inCart, inStock, err := s.repo.ItemAndStock(ctx, cartID, productID)
		if err != nil {
			if errors.Is(err, domain.ErrItemNotFound) {
				// 联查落空可能是行项目缺失也可能是商品缺失，问一次库存源分辨
				if _, lerr := s.oracle.Lookup(ctx, productID); lerr != nil {
					return lerr
				}
			}
			return err
		}

		next := inCart + delta
		if next < 0 {
			return &domain.OutOfBoundsError{ProductID: productID, Current: inCart, Delta: delta}
		}
		if next > inStock {
			return &domain.OutOfStockError{ProductID: productID, Requested: next, Available: inStock}
		}

		ok, err := s.repo.AdjustItem(ctx, cartID, productID, delta)
		if err != nil {
			return err
		}
		if ok {
			break
		}
		if attempt == maxAttempts {
			return fmt.Errorf("adjust item %s/%s: concurrent updates kept rejecting the guard", cartID, productID)
		}
	}

	if err := s.publisher.Publish(ctx, "cart.item.adjusted", cartID, domain.CartItemAdjustedEvent{
		CartID:    cartID,
		ProductID: productID,
		Delta:     delta,
		Timestamp: time.Now(),
	}); err != nil {
		slog.WarnContext(ctx, "failed to publish cart.item.adjusted", "cart_id", cartID, "product_id", productID, "error", err)
	}
	return nil
}

// RemoveItem 管理性清零：数量直接置 0 并标记 REMOVED，行保留做审计。
// 这是清除操作而非减量，不经过 AdjustQuantity 的下界与库存校验。
func (s *CartCommandService) RemoveItem(ctx context.Context, cartID, productID string) error {
	if cartID == "" || productID == "" {
		return fmt.Errorf("%w: cart id and product id are required", domain.ErrInvalidArgument)
	}

	prior := 0
	if item, err := s.repo.GetItem(ctx, cartID, productID); err == nil {
		prior = item.Quantity
	} else if !errors.Is(err, domain.ErrItemNotFound) {
		return err
	}

	if err := s.repo.ZeroItem(ctx, cartID, productID); err != nil {
		return err
	}

	if err := s.publisher.Publish(ctx, "cart.item.removed", cartID, domain.CartItemRemovedEvent{
		CartID:    cartID,
		ProductID: productID,
		Quantity:  prior,
		Timestamp: time.Now(),
	}); err != nil {
		slog.WarnContext(ctx, "failed to publish cart.item.removed", "cart_id", cartID, "product_id", productID, "error", err)
	}
	return nil
}
