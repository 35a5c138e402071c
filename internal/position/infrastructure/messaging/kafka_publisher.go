// Package messaging 持仓事件的 Kafka 发布实现
package messaging

import (
	"context"

	"github.com/wyfcoding/riskdesk/internal/position/domain"
	"github.com/wyfcoding/riskdesk/pkg/mq"
)

// KafkaEventPublisher 将持仓事件发布到 Kafka
type KafkaEventPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

// NewKafkaEventPublisher 创建 Kafka 事件发布器
func NewKafkaEventPublisher(producer *mq.KafkaProducer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

// PublishPositionUpserted 发布持仓入账事件
func (p *KafkaEventPublisher) PublishPositionUpserted(ctx context.Context, event *domain.PositionUpsertedEvent) error {
	return p.producer.SendMessage(ctx, p.topic, event.Symbol, event)
}

// PublishPortfolioCleared 发布清仓事件
func (p *KafkaEventPublisher) PublishPortfolioCleared(ctx context.Context, event *domain.PortfolioClearedEvent) error {
	return p.producer.SendMessage(ctx, p.topic, event.EventID, event)
}

// NoopEventPublisher 未配置 broker 时的空实现
type NoopEventPublisher struct{}

// PublishPositionUpserted 丢弃事件
func (NoopEventPublisher) PublishPositionUpserted(context.Context, *domain.PositionUpsertedEvent) error {
	return nil
}

// PublishPortfolioCleared 丢弃事件
func (NoopEventPublisher) PublishPortfolioCleared(context.Context, *domain.PortfolioClearedEvent) error {
	return nil
}
