// Package application 风险分析应用服务
package application

import (
	"context"
	"time"

	"github.com/google/uuid"

	position "github.com/wyfcoding/riskdesk/internal/position/domain"
	"github.com/wyfcoding/riskdesk/internal/risk/domain"
	"github.com/wyfcoding/riskdesk/pkg/logger"
	"github.com/wyfcoding/riskdesk/pkg/metrics"
)

// RiskService 编排账本快照、分析器、快照存储、缓存与告警
type RiskService struct {
	analyzer  *domain.Analyzer
	ledger    *position.Ledger
	snapshots domain.SnapshotRepository
	cache     domain.SnapshotCache
	publisher domain.EventPublisher
	metrics   *metrics.Metrics
	varLimit  float64
}

// NewRiskService 创建风险应用服务
func NewRiskService(analyzer *domain.Analyzer, ledger *position.Ledger, snapshots domain.SnapshotRepository, cache domain.SnapshotCache, publisher domain.EventPublisher, m *metrics.Metrics, varLimit float64) *RiskService {
	return &RiskService{
		analyzer:  analyzer,
		ledger:    ledger,
		snapshots: snapshots,
		cache:     cache,
		publisher: publisher,
		metrics:   m,
		varLimit:  varLimit,
	}
}

// Greeks 组合希腊字母
func (s *RiskService) Greeks(ctx context.Context) (*domain.PortfolioGreeks, error) {
	return s.analyzer.AggregateGreeks(s.ledger.List(), time.Now())
}

// Metrics 计算风险指标，落库历史并直写缓存，超限时发出告警
func (s *RiskService) Metrics(ctx context.Context) (*domain.RiskMetrics, error) {
	result, err := s.analyzer.ComputeRiskMetrics(s.ledger.List(), time.Now())
	if err != nil {
		return nil, err
	}

	if s.snapshots != nil {
		if err := s.snapshots.SaveSnapshot(ctx, result); err != nil {
			// 历史落库失败不阻断本次计算结果
			logger.Warn(ctx, "failed to persist risk snapshot", "error", err)
		}
	}
	if s.cache != nil {
		if err := s.cache.SetLatest(ctx, result); err != nil {
			logger.Warn(ctx, "failed to cache risk snapshot", "error", err)
		}
	}
	if s.metrics != nil {
		s.metrics.RiskSnapshotsTotal.Inc()
	}

	s.maybeAlert(ctx, result)
	return result, nil
}

// LatestCached 读取缓存中的最新快照，未命中返回 nil
func (s *RiskService) LatestCached(ctx context.Context) (*domain.RiskMetrics, error) {
	if s.cache == nil {
		return nil, nil
	}
	return s.cache.GetLatest(ctx)
}

// History 按时间倒序返回最近的风险快照
func (s *RiskService) History(ctx context.Context, limit int) ([]*domain.RiskMetrics, error) {
	if s.snapshots == nil {
		return nil, nil
	}
	return s.snapshots.LatestSnapshots(ctx, limit)
}

// Sensitivity 敏感度扫描
func (s *RiskService) Sensitivity(ctx context.Context, greek domain.SensitivityGreek) ([]domain.SensitivityPoint, error) {
	return s.analyzer.Sensitivity(s.ledger.List(), greek, time.Now())
}

// Scenario 单一情景推演
func (s *RiskService) Scenario(ctx context.Context, scenario domain.Scenario) (*domain.ScenarioResult, error) {
	result, err := s.analyzer.Project(s.ledger.List(), scenario, time.Now())
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ScenariosTotal.Inc()
	}
	return result, nil
}

// CompareScenarios 预置情景对比
func (s *RiskService) CompareScenarios(ctx context.Context) ([]*domain.ScenarioResult, error) {
	results, err := s.analyzer.Compare(s.ledger.List(), domain.PresetScenarios(), time.Now())
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ScenariosTotal.Add(float64(len(results)))
	}
	return results, nil
}

// maybeAlert VaR 超过配置阈值时发布告警事件
func (s *RiskService) maybeAlert(ctx context.Context, result *domain.RiskMetrics) {
	if s.varLimit <= 0 {
		return
	}
	v, _ := result.VaR95.Float64()
	if v <= s.varLimit {
		return
	}

	logger.Warn(ctx, "portfolio VaR exceeds limit", "var_95", v, "limit", s.varLimit)
	if s.publisher == nil {
		return
	}
	event := &domain.RiskAlertGeneratedEvent{
		EventID:    uuid.NewString(),
		VaR95:      result.VaR95,
		Limit:      s.varLimit,
		OccurredAt: time.Now(),
	}
	if err := s.publisher.PublishRiskAlert(ctx, event); err != nil {
		logger.Warn(ctx, "failed to publish risk alert", "error", err)
	}
}
