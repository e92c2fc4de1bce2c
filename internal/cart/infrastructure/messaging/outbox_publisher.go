// Package messaging 基于 Outbox 模式的事件发布实现
package messaging

import (
	"context"

	"github.com/wyfcoding/pkg/contextx"
	"github.com/wyfcoding/pkg/messagequeue/outbox"
	"gorm.io/gorm"

	"github.com/wyfcoding/retailordering/internal/cart/domain"
)

// outboxPublisher 把集成事件写入 outbox 表，由独立的 Processor 投递到 Kafka。
// 调用方在仓储事务内发布时，事务经 context 传入，事件与业务写同库提交。
type outboxPublisher struct {
	manager *outbox.Manager
}

// NewOutboxPublisher 创建一个新的 OutboxPublisher 实例
func NewOutboxPublisher(manager *outbox.Manager) domain.EventPublisher {
	return &outboxPublisher{manager: manager}
}

// Publish 实现 domain.EventPublisher.Publish
func (p *outboxPublisher) Publish(ctx context.Context, topic string, key string, event any) error {
	if tx, ok := contextx.GetTx(ctx).(*gorm.DB); ok {
		return p.manager.PublishInTx(ctx, tx, topic, key, event)
	}
	return p.manager.PublishInTx(ctx, p.manager.DB(), topic, key, event)
}
