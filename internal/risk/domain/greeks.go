package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	position "github.com/wyfcoding/riskdesk/internal/position/domain"
)

// PortfolioGreeks 组合层面的希腊字母
type PortfolioGreeks struct {
	Delta decimal.Decimal `json:"delta"`
	Gamma decimal.Decimal `json:"gamma"`
	Theta decimal.Decimal `json:"theta"`
	Vega  decimal.Decimal `json:"vega"`
	Rho   decimal.Decimal `json:"rho"`
}

// AggregateGreeks 聚合组合希腊字母
// 期权贡献按数量与合约乘数缩放；期货只贡献 delta（每张一个单位敞口）；
// 空账本返回全零
func (a *Analyzer) AggregateGreeks(positions []*position.Position, now time.Time) (*PortfolioGreeks, error) {
	var delta, gamma, theta, vega, rho float64

	for _, p := range positions {
		if !p.IsOption() {
			delta += float64(p.Quantity)
			continue
		}

		result, err := a.engine.Price(p.UnderlyingPrice, p.Strike, p.TimeToExpiry(now), p.Volatility, p.OptionType)
		if err != nil {
			return nil, fmt.Errorf("price position %s: %w", p.Symbol, err)
		}

		scale := float64(p.Quantity) * a.cfg.ContractMultiplier
		delta += mustFloat(result.Delta) * scale
		gamma += mustFloat(result.Gamma) * scale
		theta += mustFloat(result.Theta) * scale
		vega += mustFloat(result.Vega) * scale
		rho += mustFloat(result.Rho) * scale
	}

	return &PortfolioGreeks{
		Delta: decimal.NewFromFloat(delta),
		Gamma: decimal.NewFromFloat(gamma),
		Theta: decimal.NewFromFloat(theta),
		Vega:  decimal.NewFromFloat(vega),
		Rho:   decimal.NewFromFloat(rho),
	}, nil
}

func mustFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
