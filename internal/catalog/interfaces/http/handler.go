// Package http 商品目录只读接口
package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/pkg/logging"

	"github.com/wyfcoding/retailordering/internal/catalog/application"
	"github.com/wyfcoding/retailordering/internal/catalog/domain"
)

// CatalogHandler 商品目录 HTTP 处理器
type CatalogHandler struct {
	app    *application.CatalogService
	demand *application.DemandService
}

// NewCatalogHandler 创建商品目录 HTTP 处理器实例
func NewCatalogHandler(app *application.CatalogService, demand *application.DemandService) *CatalogHandler {
	return &CatalogHandler{app: app, demand: demand}
}

// RegisterRoutes 注册路由
func (h *CatalogHandler) RegisterRoutes(r *gin.RouterGroup) {
	g := r.Group("/products")
	{
		g.GET("", h.ListProducts)
		g.GET("/trending", h.TrendingProducts)
		g.GET("/:id", h.GetProduct)
	}
}

// TrendingProducts 按在途需求排序的热门商品
func (h *CatalogHandler) TrendingProducts(c *gin.Context) {
	n, err := strconv.ParseInt(c.DefaultQuery("limit", "10"), 10, 64)
	if err != nil || n < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}

	demands, err := h.demand.Top(c.Request.Context(), n)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list trending products", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": demands})
}

// GetProduct 按 ID 查询商品
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	productID := c.Param("id")

	product, err := h.app.GetProduct(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logging.Error(c.Request.Context(), "Failed to get product", "product_id", productID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, product)
}

// ListProducts 按分类分页列出商品
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	category := c.Query("category")

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}
	size, err := strconv.Atoi(c.DefaultQuery("size", "20"))
	if err != nil || size < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid size"})
		return
	}

	products, total, err := h.app.ListProducts(c.Request.Context(), category, page, size)
	if err != nil {
		logging.Error(c.Request.Context(), "Failed to list products", "category", category, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"total": total, "products": products})
}
