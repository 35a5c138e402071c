package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	position "github.com/wyfcoding/riskdesk/internal/position/domain"
	pricing "github.com/wyfcoding/riskdesk/internal/pricing/domain"
)

// SensitivityGreek 敏感度扫描的目标希腊字母
type SensitivityGreek string

const (
	GreekDelta SensitivityGreek = "delta"
	GreekGamma SensitivityGreek = "gamma"
	GreekTheta SensitivityGreek = "theta"
	GreekVega  SensitivityGreek = "vega"
)

// Valid 校验取值
func (g SensitivityGreek) Valid() bool {
	switch g {
	case GreekDelta, GreekGamma, GreekTheta, GreekVega:
		return true
	}
	return false
}

// SensitivityPoint 敏感度曲线上的一个采样点
type SensitivityPoint struct {
	UnderlyingPrice decimal.Decimal `json:"underlying_price"`
	Value           decimal.Decimal `json:"value"`
}

// Sensitivity 对标的价格做相对扫描，输出组合希腊字母曲线
// 横轴取期权标的均价的 [lower, upper] 倍区间；每笔期权按同一相对偏移
// 在各自标的上重定价后求和；无期权持仓时返回空切片
func (a *Analyzer) Sensitivity(positions []*position.Position, greek SensitivityGreek, now time.Time) ([]SensitivityPoint, error) {
	if !greek.Valid() {
		return nil, fmt.Errorf("%w: unknown greek %q", pricing.ErrInvalidInput, greek)
	}
	if a.cfg.SensitivityPoints < 2 {
		return nil, fmt.Errorf("%w: at least 2 sample points required, got %d", pricing.ErrInvalidInput, a.cfg.SensitivityPoints)
	}

	options := make([]*position.Position, 0, len(positions))
	var spotSum float64
	for _, p := range positions {
		if p.IsOption() {
			options = append(options, p)
			spotSum += p.UnderlyingPrice
		}
	}
	if len(options) == 0 {
		return nil, nil
	}
	axisSpot := spotSum / float64(len(options))

	points := a.cfg.SensitivityPoints
	step := (a.cfg.SensitivityUpper - a.cfg.SensitivityLower) / float64(points-1)

	curve := make([]SensitivityPoint, 0, points)
	for i := 0; i < points; i++ {
		offset := a.cfg.SensitivityLower + step*float64(i)

		var total float64
		for _, p := range options {
			result, err := a.engine.Price(p.UnderlyingPrice*offset, p.Strike, p.TimeToExpiry(now), p.Volatility, p.OptionType)
			if err != nil {
				return nil, fmt.Errorf("price position %s: %w", p.Symbol, err)
			}
			total += greekValue(result, greek) * float64(p.Quantity) * a.cfg.ContractMultiplier
		}

		curve = append(curve, SensitivityPoint{
			UnderlyingPrice: decimal.NewFromFloat(axisSpot * offset),
			Value:           decimal.NewFromFloat(total),
		})
	}
	return curve, nil
}

func greekValue(r *pricing.Result, greek SensitivityGreek) float64 {
	switch greek {
	case GreekDelta:
		return mustFloat(r.Delta)
	case GreekGamma:
		return mustFloat(r.Gamma)
	case GreekTheta:
		return mustFloat(r.Theta)
	case GreekVega:
		return mustFloat(r.Vega)
	}
	return 0
}
