// Package http 购物车 HTTP 接口
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"

	"github.com/wyfcoding/retailordering/internal/cart/application"
	"github.com/wyfcoding/retailordering/internal/cart/domain"
)

// CartHandler 购物车 HTTP 处理器
type CartHandler struct {
	app *application.CartService
}

// NewCartHandler 创建购物车 HTTP 处理器实例
func NewCartHandler(app *application.CartService) *CartHandler {
	return &CartHandler{app: app}
}

// RegisterRoutes 注册路由
func (h *CartHandler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/carts")
	{
		g.POST("/open", h.OpenCart)
		g.POST("/close", h.CloseCart)
		g.GET("/open", h.GetOpenCart)
		g.GET("", h.GetCart)
		g.GET("/history", h.ListCarts)
		g.POST("/items", h.AddToCart)
		g.PATCH("/items", h.AdjustQuantity)
		g.DELETE("/items", h.RemoveItem)
	}
}

type openCartRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

// OpenCart 为用户打开新购物车
func (h *CartHandler) OpenCart(c *gin.Context) {
	var req openCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cart, err := h.app.OpenCart(c.Request.Context(), req.UserID)
	if err != nil {
		h.replyError(c, err, "Failed to open cart")
		return
	}

	c.JSON(http.StatusCreated, cart)
}

type closeCartRequest struct {
	CartID string `json:"cart_id" binding:"required"`
}

// CloseCart 关闭购物车，重复关闭为幂等
func (h *CartHandler) CloseCart(c *gin.Context) {
	var req closeCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.app.CloseCart(c.Request.Context(), req.CartID); err != nil {
		h.replyError(c, err, "Failed to close cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "closed"})
}

// GetOpenCart 查询用户当前打开的购物车，没有则返回 404
func (h *CartHandler) GetOpenCart(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	cart, err := h.app.GetOpenCart(c.Request.Context(), userID)
	if err != nil {
		h.replyError(c, err, "Failed to get open cart")
		return
	}
	if cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open cart"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// GetCart 查询用户当前购物车明细，include_items=false 时只返回头
func (h *CartHandler) GetCart(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	includeItems := c.DefaultQuery("include_items", "true") != "false"

	cart, err := h.app.GetCart(c.Request.Context(), userID, includeItems)
	if err != nil {
		h.replyError(c, err, "Failed to get cart")
		return
	}
	if cart == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no open cart"})
		return
	}

	c.JSON(http.StatusOK, cart)
}

// ListCarts 列出用户全部购物车，含已关闭的
func (h *CartHandler) ListCarts(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}
	includeItems := c.DefaultQuery("include_items", "false") == "true"

	carts, err := h.app.ListCarts(c.Request.Context(), userID, includeItems)
	if err != nil {
		h.replyError(c, err, "Failed to list carts")
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": len(carts), "carts": carts})
}

type addToCartRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity"`
}

// AddToCart 向当前购物车加入商品，没有打开的购物车时自动打开
func (h *CartHandler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if err := h.app.AddToCart(c.Request.Context(), req.UserID, req.ProductID, req.Quantity); err != nil {
		h.replyError(c, err, "Failed to add to cart")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "added"})
}

type adjustQuantityRequest struct {
	CartID    string `json:"cart_id" binding:"required"`
	ProductID string `json:"product_id" binding:"required"`
	Delta     int    `json:"delta" binding:"required"`
}

// AdjustQuantity 调整行项目数量，delta 可正可负
func (h *CartHandler) AdjustQuantity(c *gin.Context) {
	var req adjustQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.app.AdjustQuantity(c.Request.Context(), req.CartID, req.ProductID, req.Delta); err != nil {
		h.replyError(c, err, "Failed to adjust quantity")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "adjusted"})
}

type removeItemRequest struct {
	CartID    string `json:"cart_id" binding:"required"`
	ProductID string `json:"product_id" binding:"required"`
}

// RemoveItem 从购物车移除商品
func (h *CartHandler) RemoveItem(c *gin.Context) {
	var req removeItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.app.RemoveItem(c.Request.Context(), req.CartID, req.ProductID); err != nil {
		h.replyError(c, err, "Failed to remove item")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "removed"})
}

// replyError 把领域错误映射为 HTTP 状态码
func (h *CartHandler) replyError(c *gin.Context, err error, msg string) {
	var oob *domain.OutOfBoundsError
	var oos *domain.OutOfStockError

	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCartNotFound),
		errors.Is(err, domain.ErrItemNotFound),
		errors.Is(err, domain.ErrProductNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrCartConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &oob):
		c.JSON(http.StatusConflict, gin.H{
			"error":      err.Error(),
			"product_id": oob.ProductID,
			"current":    oob.Current,
			"delta":      oob.Delta,
		})
	case errors.As(err, &oos):
		c.JSON(http.StatusConflict, gin.H{
			"error":      err.Error(),
			"product_id": oos.ProductID,
			"requested":  oos.Requested,
			"available":  oos.Available,
		})
	default:
		logging.Error(c.Request.Context(), msg, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
