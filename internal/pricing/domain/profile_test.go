package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPnLProfileSweep(t *testing.T) {
	engine := NewEngine(0.05)
	in := ProfileInput{
		Spot:         100,
		Strike:       100,
		TimeToExpiry: 1,
		Volatility:   0.2,
		OptionType:   OptionTypeCall,
		EntryPrice:   10.45,
		Quantity:     1,
		Multiplier:   100,
	}

	profile, err := engine.PnLProfile(in, 100, 0.7, 1.3)
	require.NoError(t, err)
	require.Len(t, profile, 100)

	first, _ := profile[0].UnderlyingPrice.Float64()
	last, _ := profile[99].UnderlyingPrice.Float64()
	assert.InDelta(t, 70, first, 1e-9)
	assert.InDelta(t, 130, last, 1e-9)

	// 看涨期权：曲线左端亏损、右端盈利
	leftPnL, _ := profile[0].PnL.Float64()
	rightPnL, _ := profile[99].PnL.Float64()
	assert.Negative(t, leftPnL)
	assert.Positive(t, rightPnL)

	// 期权价格随标的单调不减
	prev := -1.0
	for _, p := range profile {
		price, _ := p.OptionPrice.Float64()
		assert.GreaterOrEqual(t, price, prev)
		prev = price
	}
}

func TestPnLProfileInvalidRange(t *testing.T) {
	engine := NewEngine(0.05)
	in := ProfileInput{Spot: 100, Strike: 100, TimeToExpiry: 1, Volatility: 0.2, OptionType: OptionTypeCall, Quantity: 1, Multiplier: 100}

	_, err := engine.PnLProfile(in, 1, 0.7, 1.3)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.PnLProfile(in, 100, 1.3, 0.7)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.PnLProfile(in, 100, 0, 1.3)
	assert.ErrorIs(t, err, ErrInvalidInput)
}
