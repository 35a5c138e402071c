package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RiskAlertGeneratedEvent VaR 超限告警事件
type RiskAlertGeneratedEvent struct {
	EventID    string          `json:"event_id"`
	VaR95      decimal.Decimal `json:"var_95"`
	Limit      float64         `json:"limit"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// EventPublisher 风险事件发布端口
type EventPublisher interface {
	PublishRiskAlert(ctx context.Context, event *RiskAlertGeneratedEvent) error
}
