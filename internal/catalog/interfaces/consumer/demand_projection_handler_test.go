package consumer

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/retailordering/internal/catalog/application"
	"github.com/wyfcoding/retailordering/internal/catalog/domain"
)

type mapDemandRepo struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (r *mapDemandRepo) Incr(_ context.Context, productID string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counts[productID] += delta
	return nil
}

func (r *mapDemandRepo) Top(context.Context, int64) ([]domain.ProductDemand, error) {
	return nil, nil
}

func TestDemandProjectionHandler(t *testing.T) {
	repo := &mapDemandRepo{counts: make(map[string]int64)}
	h := NewDemandProjectionHandler(application.NewDemandService(repo), slog.Default())
	ctx := context.Background()

	require.NoError(t, h.Handle(ctx, kafka.Message{
		Topic: "cart.item.added",
		Value: []byte(`{"cart_id":"c-1","product_id":"p-1","quantity":3}`),
	}))
	require.NoError(t, h.Handle(ctx, kafka.Message{
		Topic: "cart.item.adjusted",
		Value: []byte(`{"cart_id":"c-1","product_id":"p-1","delta":-1}`),
	}))
	require.NoError(t, h.Handle(ctx, kafka.Message{
		Topic: "cart.item.removed",
		Value: []byte(`{"cart_id":"c-1","product_id":"p-1","quantity":2}`),
	}))
	assert.EqualValues(t, 0, repo.counts["p-1"])

	// 未知主题直接忽略
	require.NoError(t, h.Handle(ctx, kafka.Message{Topic: "cart.opened", Value: []byte(`{}`)}))

	// 坏消息报错，留给消费框架重试或丢弃
	assert.Error(t, h.Handle(ctx, kafka.Message{Topic: "cart.item.added", Value: []byte(`{0}`)}))
}
