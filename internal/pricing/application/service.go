// Package application 定价应用服务
package application

import (
	"context"

	"github.com/wyfcoding/riskdesk/internal/pricing/domain"
	"github.com/wyfcoding/riskdesk/pkg/logger"
	"github.com/wyfcoding/riskdesk/pkg/metrics"
)

// PricingService 封装定价引擎的用例编排
type PricingService struct {
	engine  *domain.Engine
	metrics *metrics.Metrics
}

// NewPricingService 创建定价应用服务
func NewPricingService(engine *domain.Engine, m *metrics.Metrics) *PricingService {
	return &PricingService{engine: engine, metrics: m}
}

// SetRiskFreeRate 调整会话级无风险利率
func (s *PricingService) SetRiskFreeRate(ctx context.Context, rate float64) {
	s.engine.SetRiskFreeRate(rate)
	logger.Info(ctx, "risk-free rate updated", "rate", rate)
}

// RiskFreeRate 返回当前无风险利率
func (s *PricingService) RiskFreeRate() float64 {
	return s.engine.RiskFreeRate()
}

// Price 计算单笔期权的价格与希腊字母
func (s *PricingService) Price(ctx context.Context, spot, strike, timeToExpiry, volatility float64, optionType domain.OptionType) (*domain.Result, error) {
	result, err := s.engine.Price(spot, strike, timeToExpiry, volatility, optionType)
	if err != nil {
		logger.Warn(ctx, "pricing failed", "error", err, "spot", spot, "strike", strike)
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.PricingsTotal.Inc()
	}
	return result, nil
}

// ImpliedVolatility 由市场价格反解隐含波动率
func (s *PricingService) ImpliedVolatility(ctx context.Context, marketPrice, spot, strike, timeToExpiry float64, optionType domain.OptionType) (float64, error) {
	iv, err := s.engine.ImpliedVolatility(marketPrice, spot, strike, timeToExpiry, optionType)
	if err != nil {
		logger.Warn(ctx, "implied volatility solve failed", "error", err, "market_price", marketPrice)
		return 0, err
	}
	if s.metrics != nil {
		s.metrics.ImpliedVolsTotal.Inc()
	}
	return iv, nil
}

// PnLProfile 生成盈亏曲线采样点
func (s *PricingService) PnLProfile(ctx context.Context, in domain.ProfileInput, points int, lower, upper float64) ([]domain.ProfilePoint, error) {
	profile, err := s.engine.PnLProfile(in, points, lower, upper)
	if err != nil {
		logger.Warn(ctx, "pnl profile failed", "error", err)
		return nil, err
	}
	return profile, nil
}
