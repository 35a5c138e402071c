package domain

import "context"

// SnapshotRepository 风险指标历史的持久化端口
type SnapshotRepository interface {
	// SaveSnapshot 追加一条风险快照
	SaveSnapshot(ctx context.Context, metrics *RiskMetrics) error
	// LatestSnapshots 按时间倒序返回最近 limit 条快照
	LatestSnapshots(ctx context.Context, limit int) ([]*RiskMetrics, error)
}

// SnapshotCache 最新风险快照的缓存端口
type SnapshotCache interface {
	// SetLatest 写入最新快照
	SetLatest(ctx context.Context, metrics *RiskMetrics) error
	// GetLatest 读取最新快照，未命中返回 nil
	GetLatest(ctx context.Context) (*RiskMetrics, error)
}
