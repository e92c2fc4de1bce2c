package consumer

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/wyfcoding/retailordering/internal/catalog/application"
)

const (
	cartItemAddedTopic    = "cart.item.added"
	cartItemAdjustedTopic = "cart.item.adjusted"
	cartItemRemovedTopic  = "cart.item.removed"
)

// DemandTopics 投影订阅的购物车事件主题
var DemandTopics = []string{cartItemAddedTopic, cartItemAdjustedTopic, cartItemRemovedTopic}

// DemandProjectionHandler 消费购物车行项目事件，维护商品在途需求投影。
type DemandProjectionHandler struct {
	demand *application.DemandService
	logger *slog.Logger
}

func NewDemandProjectionHandler(demand *application.DemandService, logger *slog.Logger) *DemandProjectionHandler {
	return &DemandProjectionHandler{demand: demand, logger: logger}
}

func (h *DemandProjectionHandler) Handle(ctx context.Context, msg kafka.Message) error {
	switch msg.Topic {
	case cartItemAddedTopic:
		var payload struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
		}
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			h.logger.ErrorContext(ctx, "failed to unmarshal cart item added event", "error", err)
			return err
		}
		return h.demand.Record(ctx, payload.ProductID, int64(payload.Quantity))
	case cartItemAdjustedTopic:
		var payload struct {
			ProductID string `json:"product_id"`
			Delta     int    `json:"delta"`
		}
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			h.logger.ErrorContext(ctx, "failed to unmarshal cart item adjusted event", "error", err)
			return err
		}
		return h.demand.Record(ctx, payload.ProductID, int64(payload.Delta))
	case cartItemRemovedTopic:
		var payload struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
		}
		if err := json.Unmarshal(msg.Value, &payload); err != nil {
			h.logger.ErrorContext(ctx, "failed to unmarshal cart item removed event", "error", err)
			return err
		}
		return h.demand.Record(ctx, payload.ProductID, -int64(payload.Quantity))
	default:
		h.logger.WarnContext(ctx, "unknown cart event topic", "topic", msg.Topic)
		return nil
	}
}
