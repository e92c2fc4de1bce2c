package application

import (
	"context"

	"github.com/wyfcoding/retailordering/internal/cart/domain"
)

// CartService 购物车服务门面，整合命令服务和查询服务
type CartService struct {
	command *CartCommandService
	query   *CartQueryService
}

// NewCartService 创建购物车服务门面实例
func NewCartService(
	repo domain.CartRepository,
	oracle domain.StockOracle,
	publisher domain.EventPublisher,
) *CartService {
	return &CartService{
		command: NewCartCommandService(repo, oracle, publisher),
		query:   NewCartQueryService(repo),
	}
}

// --- Command (Writes) ---

func (s *CartService) OpenCart(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.command.OpenCart(ctx, userID)
}

func (s *CartService) CloseCart(ctx context.Context, cartID string) error {
	return s.command.CloseCart(ctx, cartID)
}

func (s *CartService) AddToCart(ctx context.Context, userID, productID string, quantity int) error {
	return s.command.AddToCart(ctx, userID, productID, quantity)
}

func (s *CartService) AdjustQuantity(ctx context.Context, cartID, productID string, delta int) error {
	return s.command.AdjustQuantity(ctx, cartID, productID, delta)
}

func (s *CartService) RemoveItem(ctx context.Context, cartID, productID string) error {
	return s.command.RemoveItem(ctx, cartID, productID)
}

// --- Query (Reads) ---

func (s *CartService) GetOpenCart(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.query.GetOpenCart(ctx, userID)
}

func (s *CartService) GetCart(ctx context.Context, userID string, includeItems bool) (*CartDTO, error) {
	return s.query.GetCart(ctx, userID, includeItems)
}

func (s *CartService) ListCarts(ctx context.Context, userID string, includeItems bool) ([]*CartDTO, error) {
	return s.query.ListCarts(ctx, userID, includeItems)
}
