package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	position "github.com/wyfcoding/riskdesk/internal/position/domain"
	pricing "github.com/wyfcoding/riskdesk/internal/pricing/domain"
)

func newTestAnalyzer() *Analyzer {
	return NewAnalyzer(pricing.NewEngine(0.05), Config{
		ContractMultiplier: 100,
		FutureVolatility:   0.15,
		ConfidenceZ:        1.645,
		SensitivityPoints:  100,
		SensitivityLower:   0.7,
		SensitivityUpper:   1.3,
	})
}

func optionIn(t *testing.T, symbol string, optionType pricing.OptionType, spot, strike, vol float64, qty int64, entry *float64, now time.Time) *position.Position {
	t.Helper()
	p, err := position.NewOptionPosition(symbol, optionType, spot, strike, now.Add(365*24*time.Hour), vol, qty, entry)
	require.NoError(t, err)
	return p
}

func futureIn(t *testing.T, symbol string, spot float64, qty int64, entry *float64) *position.Position {
	t.Helper()
	p, err := position.NewFuturePosition(symbol, spot, qty, entry)
	require.NoError(t, err)
	return p
}

func TestAggregateGreeksEmptyPortfolio(t *testing.T) {
	a := newTestAnalyzer()
	greeks, err := a.AggregateGreeks(nil, time.Now())
	require.NoError(t, err)
	assert.True(t, greeks.Delta.IsZero())
	assert.True(t, greeks.Gamma.IsZero())
	assert.True(t, greeks.Theta.IsZero())
	assert.True(t, greeks.Vega.IsZero())
}

func TestAggregateGreeksScaling(t *testing.T) {
	a := newTestAnalyzer()
	now := time.Now()

	// 2 张 1 年期平值看涨（delta 参考值 0.63683）+ 3 张期货
	positions := []*position.Position{
		optionIn(t, "OPT", pricing.OptionTypeCall, 100, 100, 0.2, 2, nil, now),
		futureIn(t, "FUT", 4500, 3, nil),
	}

	greeks, err := a.AggregateGreeks(positions, now)
	require.NoError(t, err)

	delta, _ := greeks.Delta.Float64()
	gamma, _ := greeks.Gamma.Float64()
	assert.InDelta(t, 0.6368306512*2*100+3, delta, 1e-2)
	// 期货不贡献 gamma
	assert.InDelta(t, 0.0187620173*2*100, gamma, 1e-4)
}

func TestComputeRiskMetricsEmptyPortfolio(t *testing.T) {
	a := newTestAnalyzer()
	metrics, err := a.ComputeRiskMetrics(nil, time.Now())
	require.NoError(t, err)
	assert.True(t, metrics.PortfolioValue.IsZero())
	assert.True(t, metrics.VaR95.IsZero())
	assert.Zero(t, metrics.PositionCount)
	assert.Zero(t, metrics.DiversificationScore)
}

func TestComputeRiskMetricsSingleOptionVaR(t *testing.T) {
	a := newTestAnalyzer()
	now := time.Now()
	positions := []*position.Position{
		optionIn(t, "OPT", pricing.OptionTypeCall, 100, 100, 0.2, 1, nil, now),
	}

	metrics, err := a.ComputeRiskMetrics(positions, now)
	require.NoError(t, err)

	// sigma$ = |delta*qty*mult| * U * vol/sqrt(252)
	expectedSigma := 0.6368306512 * 100 * 100 * 0.2 / math.Sqrt(252)
	v, _ := metrics.VaR95.Float64()
	assert.InDelta(t, 1.645*expectedSigma, v, 0.5)

	// 单一持仓不体现分散化
	assert.Zero(t, metrics.DiversificationScore)
	assert.Equal(t, 1, metrics.PositionCount)
}

func TestComputeRiskMetricsFutureUsesDefaultVol(t *testing.T) {
	a := newTestAnalyzer()
	now := time.Now()
	positions := []*position.Position{futureIn(t, "FUT", 4500, 2, nil)}

	metrics, err := a.ComputeRiskMetrics(positions, now)
	require.NoError(t, err)

	expectedSigma := 2.0 * 4500 * 0.15 / math.Sqrt(252)
	v, _ := metrics.VaR95.Float64()
	assert.InDelta(t, 1.645*expectedSigma, v, 1e-6)

	value, _ := metrics.PortfolioValue.Float64()
	assert.InDelta(t, 9000, value, 1e-9)
}

func TestDiversificationScoreEqualWeights(t *testing.T) {
	// 等权 N 笔的 Herfindahl 为 1/N
	assert.InDelta(t, 0.5, diversificationScore([]float64{100, 100}), 1e-12)
	assert.InDelta(t, 0.75, diversificationScore([]float64{100, 100, 100, 100}), 1e-12)
	assert.Zero(t, diversificationScore([]float64{100}))
	assert.Zero(t, diversificationScore(nil))
	assert.Zero(t, diversificationScore([]float64{0, 0}))
}

func TestSensitivityNoOptions(t *testing.T) {
	a := newTestAnalyzer()
	curve, err := a.Sensitivity([]*position.Position{futureIn(t, "FUT", 4500, 1, nil)}, GreekDelta, time.Now())
	require.NoError(t, err)
	assert.Nil(t, curve)
}

func TestSensitivityDeltaCurve(t *testing.T) {
	a := newTestAnalyzer()
	now := time.Now()
	positions := []*position.Position{
		optionIn(t, "OPT", pricing.OptionTypeCall, 100, 100, 0.2, 1, nil, now),
	}

	curve, err := a.Sensitivity(positions, GreekDelta, now)
	require.NoError(t, err)
	require.Len(t, curve, 100)

	first, _ := curve[0].UnderlyingPrice.Float64()
	last, _ := curve[99].UnderlyingPrice.Float64()
	assert.InDelta(t, 70, first, 1e-9)
	assert.InDelta(t, 130, last, 1e-9)

	// 看涨 delta 曲线随标的单调不减
	prev := math.Inf(-1)
	for _, pt := range curve {
		v, _ := pt.Value.Float64()
		assert.GreaterOrEqual(t, v, prev)
		prev = v
	}
}

func TestSensitivityRejectsDegenerateSampling(t *testing.T) {
	// 采样点不足两个时步长退化为 Inf，必须作为非法输入拦截而非让 NaN 流入定价
	a := NewAnalyzer(pricing.NewEngine(0.05), Config{
		ContractMultiplier: 100,
		FutureVolatility:   0.15,
		ConfidenceZ:        1.645,
		SensitivityPoints:  1,
		SensitivityLower:   0.7,
		SensitivityUpper:   1.3,
	})
	now := time.Now()
	positions := []*position.Position{
		optionIn(t, "OPT", pricing.OptionTypeCall, 100, 100, 0.2, 1, nil, now),
	}

	_, err := a.Sensitivity(positions, GreekDelta, now)
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
}

func TestSensitivityUnknownGreek(t *testing.T) {
	a := newTestAnalyzer()
	now := time.Now()
	positions := []*position.Position{
		optionIn(t, "OPT", pricing.OptionTypeCall, 100, 100, 0.2, 1, nil, now),
	}
	_, err := a.Sensitivity(positions, SensitivityGreek("rho"), now)
	assert.ErrorIs(t, err, pricing.ErrInvalidInput)
}
