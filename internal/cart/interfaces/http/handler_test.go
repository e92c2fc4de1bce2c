package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/retailordering/internal/cart/application"
	"github.com/wyfcoding/retailordering/internal/cart/infrastructure/persistence/memory"
)

type noopPublisher struct{}

func (noopPublisher) Publish(context.Context, string, string, any) error { return nil }

func newTestRouter(t *testing.T) (*gin.Engine, *memory.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	store := memory.NewStore()
	svc := application.NewCartService(store, store, noopPublisher{})
	r := gin.New()
	NewCartHandler(svc).RegisterRoutes(r.Group("/api"))
	return r, store
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestOpenCartEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/carts/open", gin.H{"user_id": "user-1"})
	require.Equal(t, http.StatusCreated, w.Code)

	var cart struct {
		CartID string `json:"cart_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))
	assert.NotEmpty(t, cart.CartID)
}

func TestOpenCartEndpointValidatesBody(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/carts/open", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOpenCartEndpointConflictOnSecondOpen(t *testing.T) {
	r, _ := newTestRouter(t)

	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/api/carts/open", gin.H{"user_id": "user-1"}).Code)
	assert.Equal(t, http.StatusConflict, doJSON(t, r, http.MethodPost, "/api/carts/open", gin.H{"user_id": "user-1"}).Code)
}

// 没有打开的购物车时明细查询与 /open 一致返回 404
func TestGetCartEndpointNoOpenCart(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/carts?user_id=nobody", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetOpenCartEndpoint(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodGet, "/api/carts/open?user_id=user-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/api/carts/open", gin.H{"user_id": "user-1"}).Code)

	w = doJSON(t, r, http.MethodGet, "/api/carts/open?user_id=user-1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAddAdjustRemoveFlow(t *testing.T) {
	r, store := newTestRouter(t)
	store.SeedProduct("p-1", "牛奶", decimal.NewFromInt(6), 5)

	// 加入默认数量 1
	w := doJSON(t, r, http.MethodPost, "/api/carts/items", gin.H{"user_id": "user-1", "product_id": "p-1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/carts/open?user_id=user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cart struct {
		CartID string `json:"cart_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))

	// 增量超出库存
	w = doJSON(t, r, http.MethodPatch, "/api/carts/items", gin.H{"cart_id": cart.CartID, "product_id": "p-1", "delta": 10})
	require.Equal(t, http.StatusConflict, w.Code)
	var conflict struct {
		Available int `json:"available"`
		Requested int `json:"requested"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conflict))
	assert.Equal(t, 5, conflict.Available)
	assert.Equal(t, 11, conflict.Requested)

	// 降到下界以下
	w = doJSON(t, r, http.MethodPatch, "/api/carts/items", gin.H{"cart_id": cart.CartID, "product_id": "p-1", "delta": -2})
	assert.Equal(t, http.StatusConflict, w.Code)

	// 合法增量
	w = doJSON(t, r, http.MethodPatch, "/api/carts/items", gin.H{"cart_id": cart.CartID, "product_id": "p-1", "delta": 4})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/carts?user_id=user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dto struct {
		Items []struct {
			Quantity  int    `json:"quantity"`
			LinePrice string `json:"line_price"`
		} `json:"items"`
		Total string `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 5, dto.Items[0].Quantity)
	assert.Equal(t, "30", dto.Items[0].LinePrice)

	// 移除
	w = doJSON(t, r, http.MethodDelete, "/api/carts/items", gin.H{"cart_id": cart.CartID, "product_id": "p-1"})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/carts?user_id=user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dto))
	assert.Empty(t, dto.Items)
}

func TestAddToCartEndpointUnknownProduct(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/api/carts/items", gin.H{"user_id": "user-1", "product_id": "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCloseAndHistoryEndpoints(t *testing.T) {
	r, store := newTestRouter(t)
	store.SeedProduct("p-1", "牛奶", decimal.NewFromInt(6), 5)

	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/api/carts/items", gin.H{"user_id": "user-1", "product_id": "p-1"}).Code)

	w := doJSON(t, r, http.MethodGet, "/api/carts/open?user_id=user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var cart struct {
		CartID string `json:"cart_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cart))

	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/api/carts/close", gin.H{"cart_id": cart.CartID}).Code)
	// 重复关闭仍是 200
	require.Equal(t, http.StatusOK, doJSON(t, r, http.MethodPost, "/api/carts/close", gin.H{"cart_id": cart.CartID}).Code)

	require.Equal(t, http.StatusCreated, doJSON(t, r, http.MethodPost, "/api/carts/open", gin.H{"user_id": "user-1"}).Code)

	w = doJSON(t, r, http.MethodGet, "/api/carts/history?user_id=user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Total int `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	assert.Equal(t, 2, history.Total)
}

func TestEndpointsRequireUserID(t *testing.T) {
	r, _ := newTestRouter(t)

	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodGet, "/api/carts/open", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodGet, "/api/carts", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(t, r, http.MethodGet, "/api/carts/history", nil).Code)
}
