// Package messaging 风险告警事件的 Kafka 发布实现
package messaging

import (
	"context"

	"github.com/wyfcoding/riskdesk/internal/risk/domain"
	"github.com/wyfcoding/riskdesk/pkg/mq"
)

// KafkaEventPublisher 将风险告警发布到 Kafka
type KafkaEventPublisher struct {
	producer *mq.KafkaProducer
	topic    string
}

// NewKafkaEventPublisher 创建 Kafka 事件发布器
func NewKafkaEventPublisher(producer *mq.KafkaProducer, topic string) *KafkaEventPublisher {
	return &KafkaEventPublisher{producer: producer, topic: topic}
}

// PublishRiskAlert 发布 VaR 超限告警
func (p *KafkaEventPublisher) PublishRiskAlert(ctx context.Context, event *domain.RiskAlertGeneratedEvent) error {
	return p.producer.SendMessage(ctx, p.topic, event.EventID, event)
}

// NoopEventPublisher 未配置 broker 时的空实现
type NoopEventPublisher struct{}

// PublishRiskAlert 丢弃事件
func (NoopEventPublisher) PublishRiskAlert(context.Context, *domain.RiskAlertGeneratedEvent) error {
	return nil
}
