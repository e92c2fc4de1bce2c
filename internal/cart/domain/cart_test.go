package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewCart(t *testing.T) {
	cart := NewCart("user-1")

	assert.NotEmpty(t, cart.CartID)
	assert.Equal(t, "user-1", cart.UserID)
	assert.Equal(t, CartStatusOpen, cart.Status)
	assert.Nil(t, cart.ClosedAt)
	assert.True(t, cart.IsOpen())

	other := NewCart("user-1")
	assert.NotEqual(t, cart.CartID, other.CartID)
}

func TestCartClose(t *testing.T) {
	cart := NewCart("user-1")
	first := time.Now()
	cart.Close(first)

	assert.False(t, cart.IsOpen())
	assert.Equal(t, CartStatusClosed, cart.Status)
	assert.Equal(t, first, *cart.ClosedAt)

	// 重复关闭不改变首次关闭时间
	cart.Close(first.Add(time.Hour))
	assert.Equal(t, first, *cart.ClosedAt)
	assert.Equal(t, CartStatusClosed, cart.Status)
}

func TestCartItemIsActive(t *testing.T) {
	item := CartItem{ProductID: "p1", Quantity: 2, Price: decimal.NewFromInt(20), Status: ItemStatusActive}
	assert.True(t, item.IsActive())

	item.Quantity = 0
	assert.False(t, item.IsActive())

	item.Quantity = 2
	item.Status = ItemStatusRemoved
	assert.False(t, item.IsActive())
}
