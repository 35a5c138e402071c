package domain

import (
	"context"
	"time"
)

// PositionUpsertedEvent 持仓入账事件
type PositionUpsertedEvent struct {
	EventID    string       `json:"event_id"`
	Symbol     string       `json:"symbol"`
	Kind       PositionKind `json:"kind"`
	Quantity   int64        `json:"quantity"`
	Replaced   bool         `json:"replaced"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// PortfolioClearedEvent 清仓事件
type PortfolioClearedEvent struct {
	EventID        string    `json:"event_id"`
	PositionsCount int       `json:"positions_count"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// EventPublisher 持仓事件发布端口
type EventPublisher interface {
	PublishPositionUpserted(ctx context.Context, event *PositionUpsertedEvent) error
	PublishPortfolioCleared(ctx context.Context, event *PortfolioClearedEvent) error
}
