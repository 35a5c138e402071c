// Package redis 最新风险快照的缓存实现
package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/wyfcoding/riskdesk/internal/risk/domain"
	"github.com/wyfcoding/riskdesk/pkg/cache"
)

const (
	latestSnapshotKey = "risk:snapshot:latest"
	snapshotTTL       = time.Hour
)

// RiskCache 最新风险快照缓存
type RiskCache struct {
	cache *cache.RedisCache
}

// NewRiskCache 创建风险缓存实例
func NewRiskCache(c *cache.RedisCache) *RiskCache {
	return &RiskCache{cache: c}
}

// SetLatest 写入最新快照
func (r *RiskCache) SetLatest(ctx context.Context, metrics *domain.RiskMetrics) error {
	return r.cache.SetJSON(ctx, latestSnapshotKey, metrics, snapshotTTL)
}

// GetLatest 读取最新快照，未命中返回 nil
func (r *RiskCache) GetLatest(ctx context.Context) (*domain.RiskMetrics, error) {
	val, err := r.cache.Get(ctx, latestSnapshotKey)
	if err != nil {
		return nil, err
	}
	if val == "" {
		return nil, nil
	}

	var metrics domain.RiskMetrics
	if err := json.Unmarshal([]byte(val), &metrics); err != nil {
		return nil, err
	}
	return &metrics, nil
}
