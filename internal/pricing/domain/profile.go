package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ProfileInput 盈亏曲线的输入
// EntryPrice 为建仓权利金，Quantity 为签约张数，Multiplier 为合约乘数
type ProfileInput struct {
	Spot         float64
	Strike       float64
	TimeToExpiry float64
	Volatility   float64
	OptionType   OptionType
	EntryPrice   float64
	Quantity     int64
	Multiplier   float64
}

// ProfilePoint 盈亏曲线上的一个采样点
type ProfilePoint struct {
	UnderlyingPrice decimal.Decimal `json:"underlying_price"`
	OptionPrice     decimal.Decimal `json:"option_price"`
	PnL             decimal.Decimal `json:"pnl"`
}

// PnLProfile 对标的价格区间 [lower*spot, upper*spot] 做均匀采样，
// 在每个采样点重定价并计算相对建仓价的盈亏
func (e *Engine) PnLProfile(in ProfileInput, points int, lower, upper float64) ([]ProfilePoint, error) {
	if points < 2 {
		return nil, fmt.Errorf("%w: at least 2 sample points required, got %d", ErrInvalidInput, points)
	}
	if lower <= 0 || upper <= lower {
		return nil, fmt.Errorf("%w: invalid sweep range [%v, %v]", ErrInvalidInput, lower, upper)
	}
	if err := validateInputs(in.Spot, in.Strike, in.TimeToExpiry, in.Volatility, in.OptionType); err != nil {
		return nil, err
	}

	rate := e.RiskFreeRate()
	scale := float64(in.Quantity) * in.Multiplier

	profile := make([]ProfilePoint, 0, points)
	step := (upper - lower) / float64(points-1)
	for i := 0; i < points; i++ {
		spot := in.Spot * (lower + step*float64(i))
		price, _, _, _, _, _ := blackScholes(spot, in.Strike, in.TimeToExpiry, in.Volatility, rate, in.OptionType)
		profile = append(profile, ProfilePoint{
			UnderlyingPrice: decimal.NewFromFloat(spot),
			OptionPrice:     decimal.NewFromFloat(price),
			PnL:             decimal.NewFromFloat((price - in.EntryPrice) * scale),
		})
	}
	return profile, nil
}
