package domain

import (
	"fmt"
	"math"
)

// 隐含波动率求解参数
const (
	ivInitialGuess  = 0.2
	ivMinVol        = 1e-6
	ivMaxVol        = 5.0
	ivTolerance     = 1e-6
	ivMaxIterations = 100
	ivVegaFloor     = 1e-10
)

// ImpliedVolatility 由市场价格反解隐含波动率
// 先用牛顿法迭代，vega 过小或迭代不收敛时退化为二分法；
// 市场价格超出当前区间可表达的范围时返回 ErrNoConvergence
func (e *Engine) ImpliedVolatility(marketPrice, spot, strike, timeToExpiry float64, optionType OptionType) (float64, error) {
	if err := validateInputs(spot, strike, timeToExpiry, ivInitialGuess, optionType); err != nil {
		return 0, err
	}
	if !isFinite(marketPrice) || marketPrice <= 0 {
		return 0, fmt.Errorf("%w: market price must be positive and finite, got %v", ErrInvalidInput, marketPrice)
	}
	// 到期后价格不再携带波动率信息，任何目标价都无法由波动率解出
	if timeToExpiry == 0 {
		return 0, fmt.Errorf("%w: expired option price carries no volatility information", ErrNoConvergence)
	}

	rate := e.RiskFreeRate()
	priceAt := func(vol float64) float64 {
		p, _, _, _, _, _ := blackScholes(spot, strike, timeToExpiry, vol, rate, optionType)
		return p
	}

	vol := ivInitialGuess
	for i := 0; i < ivMaxIterations; i++ {
		price, _, _, _, vega, _ := blackScholes(spot, strike, timeToExpiry, vol, rate, optionType)
		diff := price - marketPrice
		if math.Abs(diff) < ivTolerance {
			return vol, nil
		}
		if vega < ivVegaFloor {
			break
		}
		vol -= diff / vega
		if vol < ivMinVol {
			vol = ivMinVol
		} else if vol > ivMaxVol {
			vol = ivMaxVol
		}
	}

	return bisectImpliedVol(marketPrice, priceAt)
}

// bisectImpliedVol 在 (ivMinVol, ivMaxVol) 上二分
// 要求价格对波动率单调递增，目标价格不在区间内视为不可解
func bisectImpliedVol(marketPrice float64, priceAt func(float64) float64) (float64, error) {
	lo, hi := ivMinVol, ivMaxVol
	if marketPrice < priceAt(lo) || marketPrice > priceAt(hi) {
		return 0, fmt.Errorf("%w: market price %v outside attainable range", ErrNoConvergence, marketPrice)
	}

	for i := 0; i < ivMaxIterations; i++ {
		mid := (lo + hi) / 2
		diff := priceAt(mid) - marketPrice
		if math.Abs(diff) < ivTolerance {
			return mid, nil
		}
		if diff > 0 {
			hi = mid
		} else {
			lo = mid
		}
	}
	return 0, fmt.Errorf("%w: bisection exhausted without meeting tolerance", ErrNoConvergence)
}
