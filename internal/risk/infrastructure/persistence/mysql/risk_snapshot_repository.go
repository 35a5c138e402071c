// Package mysql 风险快照历史的 GORM 持久化实现
package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/shopspring/decimal"
	"github.com/wyfcoding/riskdesk/internal/risk/domain"
)

// RiskSnapshotModel 风险快照表
type RiskSnapshotModel struct {
	gorm.Model
	PortfolioValue       float64   `gorm:"not null"`
	VaR95                float64   `gorm:"column:var_95;not null"`
	PositionCount        int       `gorm:"not null"`
	DiversificationScore float64   `gorm:"not null"`
	ComputedAt           time.Time `gorm:"index;not null"`
}

// TableName 指定表名
func (RiskSnapshotModel) TableName() string {
	return "risk_snapshots"
}

// RiskSnapshotRepository 风险快照仓储
type RiskSnapshotRepository struct {
	db *gorm.DB
}

// NewRiskSnapshotRepository 创建风险快照仓储实例
func NewRiskSnapshotRepository(db *gorm.DB) *RiskSnapshotRepository {
	return &RiskSnapshotRepository{db: db}
}

// SaveSnapshot 追加一条风险快照
func (r *RiskSnapshotRepository) SaveSnapshot(ctx context.Context, metrics *domain.RiskMetrics) error {
	portfolioValue, _ := metrics.PortfolioValue.Float64()
	varValue, _ := metrics.VaR95.Float64()

	model := &RiskSnapshotModel{
		PortfolioValue:       portfolioValue,
		VaR95:                varValue,
		PositionCount:        metrics.PositionCount,
		DiversificationScore: metrics.DiversificationScore,
		ComputedAt:           metrics.ComputedAt,
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// LatestSnapshots 按时间倒序返回最近 limit 条快照
func (r *RiskSnapshotRepository) LatestSnapshots(ctx context.Context, limit int) ([]*domain.RiskMetrics, error) {
	if limit <= 0 {
		limit = 20
	}

	var models []RiskSnapshotModel
	if err := r.db.WithContext(ctx).Order("computed_at DESC").Limit(limit).Find(&models).Error; err != nil {
		return nil, err
	}

	snapshots := make([]*domain.RiskMetrics, 0, len(models))
	for i := range models {
		m := &models[i]
		snapshots = append(snapshots, &domain.RiskMetrics{
			PortfolioValue:       decimal.NewFromFloat(m.PortfolioValue),
			VaR95:                decimal.NewFromFloat(m.VaR95),
			PositionCount:        m.PositionCount,
			DiversificationScore: m.DiversificationScore,
			ComputedAt:           m.ComputedAt,
		})
	}
	return snapshots, nil
}
