package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	position "github.com/wyfcoding/riskdesk/internal/position/domain"
)

// 情景下波动率的下限，避免压到非正
const minScenarioVol = 1e-6

// Scenario 市场情景：标的价格相对变化、波动率绝对变化、经过天数
type Scenario struct {
	Name            string  `json:"name,omitempty"`
	PriceChange     float64 `json:"price_change"`
	VolatilityShift float64 `json:"volatility_shift"`
	DaysElapsed     float64 `json:"days_elapsed"`
}

// PresetScenarios 常用情景集合
func PresetScenarios() []Scenario {
	return []Scenario{
		{Name: "Base Case", PriceChange: 0, VolatilityShift: 0, DaysElapsed: 0},
		{Name: "Market Up 10%", PriceChange: 0.10},
		{Name: "Market Down 10%", PriceChange: -0.10},
		{Name: "Volatility Spike", VolatilityShift: 0.10},
		{Name: "1 Week Decay", DaysElapsed: 7},
	}
}

// PositionPnL 单笔持仓在情景下的盈亏
type PositionPnL struct {
	NewPrice   decimal.Decimal `json:"new_price"`
	PnL        decimal.Decimal `json:"pnl"`
	PnLPercent float64         `json:"pnl_percent"`
}

// ScenarioResult 情景推演结果
type ScenarioResult struct {
	Scenario    Scenario               `json:"scenario"`
	TotalPnL    decimal.Decimal        `json:"total_pnl"`
	ByPosition  map[string]PositionPnL `json:"by_position"`
	ProjectedAt time.Time              `json:"projected_at"`
}

// Project 将情景施加到每笔持仓并重定价
// 期权：spot' = U×(1+f)，vol' = max(vol+Δ, 1e-6)，T' = max(T-days/365, 0)；
// 期货：price' = spot'。盈亏基准取建仓价，未设置时取未加冲击的当前模型价；
// 空账本返回零总盈亏与空映射
func (a *Analyzer) Project(positions []*position.Position, scenario Scenario, now time.Time) (*ScenarioResult, error) {
	result := &ScenarioResult{
		Scenario:    scenario,
		TotalPnL:    decimal.Zero,
		ByPosition:  make(map[string]PositionPnL, len(positions)),
		ProjectedAt: now,
	}

	var totalPnL float64
	for _, p := range positions {
		newPrice, err := a.shockedPrice(p, scenario, now)
		if err != nil {
			return nil, fmt.Errorf("project position %s: %w", p.Symbol, err)
		}

		baseline, err := a.baselinePrice(p, now)
		if err != nil {
			return nil, fmt.Errorf("baseline for position %s: %w", p.Symbol, err)
		}

		scale := float64(p.Quantity) * a.multiplier(p)
		pnl := (newPrice - baseline) * scale

		pnlPercent := 0.0
		if denom := math.Abs(baseline * scale); denom > 0 {
			pnlPercent = pnl / denom * 100
		}

		result.ByPosition[p.Symbol] = PositionPnL{
			NewPrice:   decimal.NewFromFloat(newPrice),
			PnL:        decimal.NewFromFloat(pnl),
			PnLPercent: pnlPercent,
		}
		totalPnL += pnl
	}

	result.TotalPnL = decimal.NewFromFloat(totalPnL)
	return result, nil
}

// Compare 将同一账本依次跑过多个情景
func (a *Analyzer) Compare(positions []*position.Position, scenarios []Scenario, now time.Time) ([]*ScenarioResult, error) {
	results := make([]*ScenarioResult, 0, len(scenarios))
	for _, s := range scenarios {
		r, err := a.Project(positions, s, now)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	return results, nil
}

// shockedPrice 情景冲击后的单位价格
func (a *Analyzer) shockedPrice(p *position.Position, s Scenario, now time.Time) (float64, error) {
	shockedSpot := p.UnderlyingPrice * (1 + s.PriceChange)
	if !p.IsOption() {
		return shockedSpot, nil
	}

	vol := p.Volatility + s.VolatilityShift
	if vol < minScenarioVol {
		vol = minScenarioVol
	}
	expiry := p.TimeToExpiry(now) - s.DaysElapsed/365
	if expiry < 0 {
		expiry = 0
	}

	result, err := a.engine.Price(shockedSpot, p.Strike, expiry, vol, p.OptionType)
	if err != nil {
		return 0, err
	}
	return mustFloat(result.Price), nil
}

// baselinePrice 盈亏基准：建仓价优先，否则取未冲击的当前模型价
func (a *Analyzer) baselinePrice(p *position.Position, now time.Time) (float64, error) {
	if entry, ok := p.EntryOrZero(); ok {
		return entry, nil
	}
	price, _, err := a.priceAndDelta(p, now)
	return price, err
}
