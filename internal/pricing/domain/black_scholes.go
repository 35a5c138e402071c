// Package domain 定价引擎的领域模型
// 实现 Black-Scholes 欧式期权定价、希腊字母与期货的线性定价
package domain

import (
	"fmt"
	"math"
	"sync"

	"github.com/shopspring/decimal"
)

// OptionType 期权类型
type OptionType string

const (
	OptionTypeCall OptionType = "CALL" // 看涨期权
	OptionTypePut  OptionType = "PUT"  // 看跌期权
)

// Valid 校验期权类型取值
func (t OptionType) Valid() bool {
	return t == OptionTypeCall || t == OptionTypePut
}

// Result 定价结果：价格与希腊字母
// vega 为对单位波动率的导数，theta 为年化值，展示层如需
// 按 1% 波动率或按日损耗展示需自行缩放
type Result struct {
	Price decimal.Decimal `json:"price"`
	Delta decimal.Decimal `json:"delta"`
	Gamma decimal.Decimal `json:"gamma"`
	Theta decimal.Decimal `json:"theta"`
	Vega  decimal.Decimal `json:"vega"`
	Rho   decimal.Decimal `json:"rho"`
}

// Engine 定价引擎
// 持有会话级无风险利率；利率可随时调整，作用于之后的每次定价
type Engine struct {
	mu           sync.RWMutex
	riskFreeRate float64
}

// NewEngine 创建定价引擎实例
func NewEngine(riskFreeRate float64) *Engine {
	return &Engine{riskFreeRate: riskFreeRate}
}

// SetRiskFreeRate 调整无风险利率，不影响已返回的结果
func (e *Engine) SetRiskFreeRate(rate float64) {
	e.mu.Lock()
	e.riskFreeRate = rate
	e.mu.Unlock()
}

// RiskFreeRate 返回当前无风险利率
func (e *Engine) RiskFreeRate() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.riskFreeRate
}

// Price 计算欧式期权价格与希腊字母
// spot/strike/timeToExpiry/volatility 均要求非负，否则返回 ErrInvalidInput；
// timeToExpiry == 0 或 volatility == 0 走内在价值的退化分支，不报错
func (e *Engine) Price(spot, strike, timeToExpiry, volatility float64, optionType OptionType) (*Result, error) {
	if err := validateInputs(spot, strike, timeToExpiry, volatility, optionType); err != nil {
		return nil, err
	}
	return e.PriceWithRate(spot, strike, timeToExpiry, volatility, optionType, e.RiskFreeRate())
}

// PriceWithRate 使用显式利率计算，供隐含波动率求解复用
func (e *Engine) PriceWithRate(spot, strike, timeToExpiry, volatility float64, optionType OptionType, rate float64) (*Result, error) {
	if err := validateInputs(spot, strike, timeToExpiry, volatility, optionType); err != nil {
		return nil, err
	}

	price, delta, gamma, theta, vega, rho := blackScholes(spot, strike, timeToExpiry, volatility, rate, optionType)
	return &Result{
		Price: decimal.NewFromFloat(price),
		Delta: decimal.NewFromFloat(delta),
		Gamma: decimal.NewFromFloat(gamma),
		Theta: decimal.NewFromFloat(theta),
		Vega:  decimal.NewFromFloat(vega),
		Rho:   decimal.NewFromFloat(rho),
	}, nil
}

// PriceFuture 期货的线性定价
// 价格等于标的现价，delta 等于持仓数量（每张合约一个单位敞口），其余希腊字母为 0
func (e *Engine) PriceFuture(spot float64, quantity int64) (*Result, error) {
	if !isFinite(spot) {
		return nil, fmt.Errorf("%w: spot must be finite", ErrInvalidInput)
	}
	if spot < 0 {
		return nil, fmt.Errorf("%w: spot must be non-negative, got %v", ErrInvalidInput, spot)
	}
	return &Result{
		Price: decimal.NewFromFloat(spot),
		Delta: decimal.NewFromInt(quantity),
		Gamma: decimal.Zero,
		Theta: decimal.Zero,
		Vega:  decimal.Zero,
		Rho:   decimal.Zero,
	}, nil
}

func validateInputs(spot, strike, timeToExpiry, volatility float64, optionType OptionType) error {
	if !isFinite(spot) || !isFinite(strike) || !isFinite(timeToExpiry) || !isFinite(volatility) {
		return fmt.Errorf("%w: inputs must be finite", ErrInvalidInput)
	}
	if spot < 0 {
		return fmt.Errorf("%w: spot must be non-negative, got %v", ErrInvalidInput, spot)
	}
	if strike < 0 {
		return fmt.Errorf("%w: strike must be non-negative, got %v", ErrInvalidInput, strike)
	}
	if timeToExpiry < 0 {
		return fmt.Errorf("%w: time to expiry must be non-negative, got %v", ErrInvalidInput, timeToExpiry)
	}
	if volatility < 0 {
		return fmt.Errorf("%w: volatility must be non-negative, got %v", ErrInvalidInput, volatility)
	}
	if !optionType.Valid() {
		return fmt.Errorf("%w: unknown option type %q", ErrInvalidInput, optionType)
	}
	return nil
}

// isFinite NaN 与 ±Inf 会穿过非负校验并在 decimal 转换处炸掉，必须前置拦截
func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// blackScholes 按 float64 精度计算价格与全部希腊字母
// spot == 0 或 strike == 0 时 d1 不再有定义，与到期/零波动率一并走内在价值分支
func blackScholes(spot, strike, t, vol, rate float64, optionType OptionType) (price, delta, gamma, theta, vega, rho float64) {
	if t == 0 || vol == 0 || spot == 0 || strike == 0 {
		return intrinsic(spot, strike, optionType)
	}

	sqrtT := math.Sqrt(t)
	d1 := (math.Log(spot/strike) + (rate+0.5*vol*vol)*t) / (vol * sqrtT)
	d2 := d1 - vol*sqrtT
	discount := math.Exp(-rate * t)

	gamma = normPdf(d1) / (spot * vol * sqrtT)
	vega = spot * normPdf(d1) * sqrtT

	if optionType == OptionTypeCall {
		price = spot*normCdf(d1) - strike*discount*normCdf(d2)
		delta = normCdf(d1)
		theta = -(spot*normPdf(d1)*vol)/(2*sqrtT) - rate*strike*discount*normCdf(d2)
		rho = strike * t * discount * normCdf(d2)
	} else {
		price = strike*discount*normCdf(-d2) - spot*normCdf(-d1)
		delta = normCdf(d1) - 1
		theta = -(spot*normPdf(d1)*vol)/(2*sqrtT) + rate*strike*discount*normCdf(-d2)
		rho = -strike * t * discount * normCdf(-d2)
	}
	return price, delta, gamma, theta, vega, rho
}

// intrinsic 退化分支：价格取内在价值
// delta 按约定取 ±1/0（恰好平价时为 0），其余希腊字母为 0
func intrinsic(spot, strike float64, optionType OptionType) (price, delta, gamma, theta, vega, rho float64) {
	if optionType == OptionTypeCall {
		price = math.Max(spot-strike, 0)
		if spot > strike {
			delta = 1
		}
	} else {
		price = math.Max(strike-spot, 0)
		if spot < strike {
			delta = -1
		}
	}
	return price, delta, 0, 0, 0, 0
}
