package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormCdf(t *testing.T) {
	assert.InDelta(t, 0.5, normCdf(0), 1e-12)
	assert.InDelta(t, 0.8413447460685429, normCdf(1), 1e-9)
	assert.InDelta(t, 0.15865525393145707, normCdf(-1), 1e-9)
	assert.InDelta(t, 0.9772498680518208, normCdf(2), 1e-9)
}

func TestNormPdf(t *testing.T) {
	assert.InDelta(t, 0.3989422804014327, normPdf(0), 1e-12)
	// 对称性
	assert.InDelta(t, normPdf(1.3), normPdf(-1.3), 1e-15)
}

func TestPriceCallReferenceValue(t *testing.T) {
	// S=100, K=100, r=0.05, sigma=0.2, T=1 的标准参考值
	engine := NewEngine(0.05)
	res, err := engine.Price(100, 100, 1, 0.2, OptionTypeCall)
	require.NoError(t, err)

	price, _ := res.Price.Float64()
	delta, _ := res.Delta.Float64()
	gamma, _ := res.Gamma.Float64()
	vega, _ := res.Vega.Float64()

	assert.InDelta(t, 10.450583572185565, price, 1e-9)
	assert.InDelta(t, 0.6368306511756191, delta, 1e-9)
	assert.InDelta(t, 0.018762017345846895, gamma, 1e-9)
	assert.InDelta(t, 37.52403469169379, vega, 1e-9)
}

func TestPricePutReferenceValue(t *testing.T) {
	engine := NewEngine(0.05)
	res, err := engine.Price(100, 100, 1, 0.2, OptionTypePut)
	require.NoError(t, err)

	price, _ := res.Price.Float64()
	delta, _ := res.Delta.Float64()

	assert.InDelta(t, 5.573526022256971, price, 1e-9)
	assert.InDelta(t, -0.3631693488243809, delta, 1e-9)
}

func TestPutCallParity(t *testing.T) {
	// C - P = S - K*exp(-rT)
	engine := NewEngine(0.05)
	cases := []struct {
		spot, strike, t, vol float64
	}{
		{100, 100, 1, 0.2},
		{120, 90, 0.5, 0.35},
		{80, 110, 2, 0.15},
	}
	for _, c := range cases {
		call, err := engine.Price(c.spot, c.strike, c.t, c.vol, OptionTypeCall)
		require.NoError(t, err)
		put, err := engine.Price(c.spot, c.strike, c.t, c.vol, OptionTypePut)
		require.NoError(t, err)

		cp, _ := call.Price.Float64()
		pp, _ := put.Price.Float64()
		forward := c.spot - c.strike*math.Exp(-0.05*c.t)
		assert.InDelta(t, forward, cp-pp, 1e-9)
	}
}

func TestPriceExpiredOptionIsIntrinsic(t *testing.T) {
	engine := NewEngine(0.05)

	res, err := engine.Price(110, 100, 0, 0.2, OptionTypeCall)
	require.NoError(t, err)
	price, _ := res.Price.Float64()
	delta, _ := res.Delta.Float64()
	assert.InDelta(t, 10, price, 1e-12)
	assert.InDelta(t, 1, delta, 1e-12)
	assert.True(t, res.Gamma.IsZero())
	assert.True(t, res.Vega.IsZero())
	assert.True(t, res.Theta.IsZero())
	assert.True(t, res.Rho.IsZero())

	// 恰好平价时 delta 约定为 0
	res, err = engine.Price(100, 100, 0, 0.2, OptionTypeCall)
	require.NoError(t, err)
	assert.True(t, res.Price.IsZero())
	assert.True(t, res.Delta.IsZero())

	res, err = engine.Price(90, 100, 0.5, 0, OptionTypePut)
	require.NoError(t, err)
	price, _ = res.Price.Float64()
	delta, _ = res.Delta.Float64()
	assert.InDelta(t, 10, price, 1e-12)
	assert.InDelta(t, -1, delta, 1e-12)
}

func TestPriceZeroSpotOrStrike(t *testing.T) {
	engine := NewEngine(0.05)

	res, err := engine.Price(0, 100, 1, 0.2, OptionTypePut)
	require.NoError(t, err)
	price, _ := res.Price.Float64()
	assert.InDelta(t, 100, price, 1e-12)

	res, err = engine.Price(100, 0, 1, 0.2, OptionTypeCall)
	require.NoError(t, err)
	price, _ = res.Price.Float64()
	assert.InDelta(t, 100, price, 1e-12)
}

func TestPriceInvalidInputs(t *testing.T) {
	engine := NewEngine(0.05)
	cases := []struct {
		name                 string
		spot, strike, t, vol float64
		optionType           OptionType
	}{
		{"negative spot", -1, 100, 1, 0.2, OptionTypeCall},
		{"negative strike", 100, -1, 1, 0.2, OptionTypeCall},
		{"negative expiry", 100, 100, -1, 0.2, OptionTypePut},
		{"negative vol", 100, 100, 1, -0.2, OptionTypePut},
		{"unknown type", 100, 100, 1, 0.2, OptionType("STRADDLE")},
		{"nan spot", math.NaN(), 100, 1, 0.2, OptionTypeCall},
		{"inf spot", math.Inf(1), 100, 1, 0.2, OptionTypeCall},
		{"nan vol", 100, 100, 1, math.NaN(), OptionTypePut},
		{"inf expiry", 100, 100, math.Inf(1), 0.2, OptionTypeCall},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := engine.Price(c.spot, c.strike, c.t, c.vol, c.optionType)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestDeltaMonotonicInSpot(t *testing.T) {
	// 看涨期权 delta 随标的价格单调不减
	engine := NewEngine(0.05)
	prev := -1.0
	for spot := 50.0; spot <= 150; spot += 10 {
		res, err := engine.Price(spot, 100, 1, 0.2, OptionTypeCall)
		require.NoError(t, err)
		delta, _ := res.Delta.Float64()
		assert.GreaterOrEqual(t, delta, prev)
		assert.LessOrEqual(t, delta, 1.0)
		prev = delta
	}
}

func TestPutDeltaMonotonicInSpot(t *testing.T) {
	// 看跌期权 delta 的绝对值随标的价格上行单调收缩，取值始终落在 [-1, 0]
	engine := NewEngine(0.05)
	prev := 0.0
	for spot := 50.0; spot <= 150; spot += 10 {
		res, err := engine.Price(spot, 100, 1, 0.2, OptionTypePut)
		require.NoError(t, err)
		delta, _ := res.Delta.Float64()
		assert.GreaterOrEqual(t, delta, -1.0)
		assert.LessOrEqual(t, delta, 0.0)
		if spot > 50 {
			assert.GreaterOrEqual(t, delta, prev)
		}
		prev = delta
	}
}

func TestSetRiskFreeRateAffectsSubsequentPricing(t *testing.T) {
	engine := NewEngine(0.05)
	before, err := engine.Price(100, 100, 1, 0.2, OptionTypeCall)
	require.NoError(t, err)

	engine.SetRiskFreeRate(0.10)
	assert.InDelta(t, 0.10, engine.RiskFreeRate(), 1e-15)

	after, err := engine.Price(100, 100, 1, 0.2, OptionTypeCall)
	require.NoError(t, err)
	// 利率升高抬升看涨期权价格
	assert.True(t, after.Price.GreaterThan(before.Price))
}

func TestPriceFuture(t *testing.T) {
	engine := NewEngine(0.05)
	res, err := engine.PriceFuture(4500, -3)
	require.NoError(t, err)

	price, _ := res.Price.Float64()
	delta, _ := res.Delta.Float64()
	assert.InDelta(t, 4500, price, 1e-12)
	assert.InDelta(t, -3, delta, 1e-12)
	assert.True(t, res.Gamma.IsZero())

	_, err = engine.PriceFuture(-1, 1)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.PriceFuture(math.NaN(), 1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
