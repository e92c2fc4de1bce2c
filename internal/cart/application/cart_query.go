package application

import (
	"context"
	"fmt"

	"github.com/wyfcoding/retailordering/internal/cart/domain"
)

// CartQueryService 购物车查询服务，纯读路径
type CartQueryService struct {
	repo domain.CartRepository
}

// NewCartQueryService 创建购物车查询服务实例
func NewCartQueryService(repo domain.CartRepository) *CartQueryService {
	return &CartQueryService{repo: repo}
}

// GetOpenCart 查询用户当前打开的购物车，不存在时返回 (nil, nil)，不会顺带创建
func (s *CartQueryService) GetOpenCart(ctx context.Context, userID string) (*domain.Cart, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidArgument)
	}
	return s.repo.GetOpenByUserID(ctx, userID)
}

// GetCart 返回用户打开的购物车，可选带活跃行项目（联查商品名称与现价）
func (s *CartQueryService) GetCart(ctx context.Context, userID string, includeItems bool) (*CartDTO, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidArgument)
	}

	cart, err := s.repo.GetOpenByUserID(ctx, userID)
	if err != nil || cart == nil {
		return nil, err
	}

	dto := toCartDTO(cart)
	if includeItems {
		views, err := s.repo.ListActiveItems(ctx, cart.CartID)
		if err != nil {
			return nil, err
		}
		dto.Items, dto.Total = toItemDTOs(views)
	}
	return dto, nil
}

// ListCarts 返回用户的全部购物车（含已关闭），整表物化后返回，
// 顺序即存储返回的插入顺序。
func (s *CartQueryService) ListCarts(ctx context.Context, userID string, includeItems bool) ([]*CartDTO, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrInvalidArgument)
	}

	carts, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	dtos := make([]*CartDTO, 0, len(carts))
	for _, cart := range carts {
		dto := toCartDTO(cart)
		if includeItems {
			views, err := s.repo.ListActiveItems(ctx, cart.CartID)
			if err != nil {
				return nil, err
			}
			dto.Items, dto.Total = toItemDTOs(views)
		}
		dtos = append(dtos, dto)
	}
	return dtos, nil
}
