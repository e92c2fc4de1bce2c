package application

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/retailordering/internal/cart/domain"
)

// CartItemDTO 行项目展示结构。
// LinePrice 是累计的加入价，CurrentPrice 是商品目录现价，两者并列返回。
type CartItemDTO struct {
	ProductID    string          `json:"product_id"`
	ProductName  string          `json:"product_name"`
	Quantity     int             `json:"quantity"`
	LinePrice    decimal.Decimal `json:"line_price"`
	CurrentPrice decimal.Decimal `json:"current_price"`
}

// CartDTO 购物车展示结构
type CartDTO struct {
	CartID   string          `json:"cart_id"`
	UserID   string          `json:"user_id"`
	Status   int             `json:"status"`
	OpenedAt time.Time       `json:"opened_at"`
	ClosedAt *time.Time      `json:"closed_at,omitempty"`
	Total    decimal.Decimal `json:"total"`
	Items    []CartItemDTO   `json:"items,omitempty"`
}

func toCartDTO(cart *domain.Cart) *CartDTO {
	return &CartDTO{
		CartID:   cart.CartID,
		UserID:   cart.UserID,
		Status:   int(cart.Status),
		OpenedAt: cart.OpenedAt,
		ClosedAt: cart.ClosedAt,
		Total:    decimal.Zero,
	}
}

func toItemDTOs(views []*domain.CartItemView) ([]CartItemDTO, decimal.Decimal) {
	items := make([]CartItemDTO, 0, len(views))
	total := decimal.Zero
	for _, v := range views {
		items = append(items, CartItemDTO{
			ProductID:    v.ProductID,
			ProductName:  v.ProductName,
			Quantity:     v.Quantity,
			LinePrice:    v.Price,
			CurrentPrice: v.CurrentPrice,
		})
		total = total.Add(v.Price)
	}
	return items, total
}
