// Package memory 提供购物车仓储与库存口的内存实现，
// 语义与 MySQL 实现对齐（唯一打开购物车约束、受守卫的原子增量），
// 供测试与本地联调使用。
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wyfcoding/retailordering/internal/cart/domain"
)

type productRec struct {
	name  string
	price decimal.Decimal
	stock int
}

// Store 内存存储，同时实现 domain.CartRepository 与 domain.StockOracle
type Store struct {
	mu       sync.Mutex
	products map[string]*productRec
	carts    map[string]*domain.Cart
	userOpen map[string]string
	items    map[string]map[string]*domain.CartItem
	nextID   uint
}

// NewStore 创建空的内存存储
func NewStore() *Store {
	return &Store{
		products: make(map[string]*productRec),
		carts:    make(map[string]*domain.Cart),
		userOpen: make(map[string]string),
		items:    make(map[string]map[string]*domain.CartItem),
	}
}

// SeedProduct 铺入一个商品
func (s *Store) SeedProduct(productID, name string, price decimal.Decimal, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[productID] = &productRec{name: name, price: price, stock: stock}
}

// SetPrice 调整商品现价
func (s *Store) SetPrice(productID string, price decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[productID]; ok {
		p.price = price
	}
}

// SetStock 调整商品库存
func (s *Store) SetStock(productID string, stock int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok := s.products[productID]; ok {
		p.stock = stock
	}
}

// RawItem 返回行项目底层行（含已清零的），测试断言软删除用
func (s *Store) RawItem(cartID, productID string) (domain.CartItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.items[cartID][productID]; ok {
		return *item, true
	}
	return domain.CartItem{}, false
}

// --- domain.StockOracle ---

// Lookup 实现 domain.StockOracle.Lookup
func (s *Store) Lookup(_ context.Context, productID string) (*domain.StockSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", productID, domain.ErrProductNotFound)
	}
	return &domain.StockSnapshot{ProductID: productID, Available: p.stock, UnitPrice: p.price}, nil
}

// --- domain.CartRepository ---

// Save 持久化新购物车，模拟 (user_id, active) 唯一约束
func (s *Store) Save(_ context.Context, cart *domain.Cart) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cart.IsOpen() {
		if _, exists := s.userOpen[cart.UserID]; exists {
			return fmt.Errorf("user %s: %w", cart.UserID, domain.ErrCartConflict)
		}
		s.userOpen[cart.UserID] = cart.CartID
	}
	s.nextID++
	cart.ID = s.nextID
	cp := *cart
	s.carts[cart.CartID] = &cp
	s.items[cart.CartID] = make(map[string]*domain.CartItem)
	return nil
}

func (s *Store) GetByCartID(_ context.Context, cartID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[cartID]
	if !ok {
		return nil, fmt.Errorf("cart %s: %w", cartID, domain.ErrCartNotFound)
	}
	cp := *cart
	return &cp, nil
}

func (s *Store) GetOpenByUserID(_ context.Context, userID string) (*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cartID, ok := s.userOpen[userID]
	if !ok {
		return nil, nil
	}
	cp := *s.carts[cartID]
	return &cp, nil
}

func (s *Store) ListByUserID(_ context.Context, userID string) ([]*domain.Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var carts []*domain.Cart
	for _, cart := range s.carts {
		if cart.UserID == userID {
			cp := *cart
			carts = append(carts, &cp)
		}
	}
	return carts, nil
}

// Close 关闭购物车并释放唯一占位，已关闭时为空操作
func (s *Store) Close(_ context.Context, cartID string, closedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart, ok := s.carts[cartID]
	if !ok || !cart.IsOpen() {
		return nil
	}
	cart.Close(closedAt)
	if s.userOpen[cart.UserID] == cartID {
		delete(s.userOpen, cart.UserID)
	}
	return nil
}

func (s *Store) GetItem(_ context.Context, cartID, productID string) (*domain.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[cartID][productID]
	if !ok {
		return nil, fmt.Errorf("cart %s product %s: %w", cartID, productID, domain.ErrItemNotFound)
	}
	cp := *item
	return &cp, nil
}

func (s *Store) InsertItem(_ context.Context, item *domain.CartItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.carts[item.CartID]; !ok {
		return fmt.Errorf("cart %s: %w", item.CartID, domain.ErrCartNotFound)
	}
	if _, dup := s.items[item.CartID][item.ProductID]; dup {
		return fmt.Errorf("cart %s product %s: duplicate item", item.CartID, item.ProductID)
	}
	s.nextID++
	item.ID = s.nextID
	cp := *item
	s.items[item.CartID][item.ProductID] = &cp
	return nil
}

func (s *Store) ItemAndStock(_ context.Context, cartID, productID string) (int, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[cartID][productID]
	if !ok {
		return 0, 0, fmt.Errorf("cart %s product %s: %w", cartID, productID, domain.ErrItemNotFound)
	}
	p, ok := s.products[productID]
	if !ok {
		return 0, 0, fmt.Errorf("cart %s product %s: %w", cartID, productID, domain.ErrItemNotFound)
	}
	return item.Quantity, p.stock, nil
}

// AdjustItem 受守卫的原子增量，价格增量按调用时刻的现价计算
func (s *Store) AdjustItem(_ context.Context, cartID, productID string, delta int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[cartID][productID]
	if !ok {
		return false, nil
	}
	p, ok := s.products[productID]
	if !ok {
		return false, nil
	}
	next := item.Quantity + delta
	if next < 0 || next > p.stock {
		return false, nil
	}
	item.Quantity = next
	item.Price = item.Price.Add(p.price.Mul(decimal.NewFromInt(int64(delta))))
	item.Status = domain.ItemStatusActive
	return true, nil
}

func (s *Store) ZeroItem(_ context.Context, cartID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.items[cartID][productID]; ok {
		item.Quantity = 0
		item.Status = domain.ItemStatusRemoved
	}
	return nil
}

func (s *Store) ListActiveItems(_ context.Context, cartID string) ([]*domain.CartItemView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var views []*domain.CartItemView
	for productID, item := range s.items[cartID] {
		if !item.IsActive() {
			continue
		}
		p := s.products[productID]
		if p == nil {
			continue
		}
		views = append(views, &domain.CartItemView{
			CartItem:     *item,
			ProductName:  p.name,
			CurrentPrice: p.price,
		})
	}
	return views, nil
}

// WithTx 内存实现没有事务语义，直接执行
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
