package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	position "github.com/wyfcoding/riskdesk/internal/position/domain"
)

// 每年交易日数，日波动率换算使用
const tradingDaysPerYear = 252

// RiskMetrics 组合风险指标快照
type RiskMetrics struct {
	PortfolioValue       decimal.Decimal `json:"portfolio_value"`
	VaR95                decimal.Decimal `json:"var_95"`
	PositionCount        int             `json:"position_count"`
	DiversificationScore float64         `json:"diversification_score"`
	ComputedAt           time.Time       `json:"computed_at"`
}

// ComputeRiskMetrics 计算组合风险指标
// VaR 采用 Delta-Normal 单日 95% 口径，持仓间独立假设：
// 每笔的美元波动 |delta_i|×underlying_i×vol_i/√252，按平方和开根聚合后乘以分位数；
// 分散化得分为 1 - Herfindahl 指数，权重按绝对名义市值，空仓或单一持仓为 0
func (a *Analyzer) ComputeRiskMetrics(positions []*position.Position, now time.Time) (*RiskMetrics, error) {
	var portfolioValue, varianceSum float64
	notionals := make([]float64, 0, len(positions))

	for _, p := range positions {
		price, unitDelta, err := a.priceAndDelta(p, now)
		if err != nil {
			return nil, fmt.Errorf("price position %s: %w", p.Symbol, err)
		}

		mult := a.multiplier(p)
		notional := price * float64(p.Quantity) * mult
		portfolioValue += notional
		notionals = append(notionals, math.Abs(notional))

		// 持仓级 delta 含数量与乘数
		positionDelta := unitDelta * float64(p.Quantity) * mult
		if !p.IsOption() {
			positionDelta = float64(p.Quantity)
		}
		dailyVol := a.volatility(p) / math.Sqrt(tradingDaysPerYear)
		dollarSigma := math.Abs(positionDelta) * p.UnderlyingPrice * dailyVol
		varianceSum += dollarSigma * dollarSigma
	}

	return &RiskMetrics{
		PortfolioValue:       decimal.NewFromFloat(portfolioValue),
		VaR95:                decimal.NewFromFloat(a.cfg.ConfidenceZ * math.Sqrt(varianceSum)),
		PositionCount:        len(positions),
		DiversificationScore: diversificationScore(notionals),
		ComputedAt:           now,
	}, nil
}

// priceAndDelta 返回单位价格与单位 delta（未乘数量与乘数）
func (a *Analyzer) priceAndDelta(p *position.Position, now time.Time) (price, delta float64, err error) {
	if p.IsOption() {
		result, err := a.engine.Price(p.UnderlyingPrice, p.Strike, p.TimeToExpiry(now), p.Volatility, p.OptionType)
		if err != nil {
			return 0, 0, err
		}
		return mustFloat(result.Price), mustFloat(result.Delta), nil
	}
	return p.UnderlyingPrice, 1, nil
}

// diversificationScore 1 - Σw_i²，权重按绝对名义市值
func diversificationScore(notionals []float64) float64 {
	if len(notionals) <= 1 {
		return 0
	}

	var total float64
	for _, n := range notionals {
		total += n
	}
	if total == 0 {
		return 0
	}

	var herfindahl float64
	for _, n := range notionals {
		w := n / total
		herfindahl += w * w
	}
	return 1 - herfindahl
}
