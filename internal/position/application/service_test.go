package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/riskdesk/internal/position/domain"
	pricing "github.com/wyfcoding/riskdesk/internal/pricing/domain"
)

func newTestService() *PositionService {
	engine := pricing.NewEngine(0.05)
	return NewPositionService(domain.NewLedger(), engine, nil, nil, nil, 100)
}

func TestAddMaterializesEntryPrice(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p, err := domain.NewOptionPosition("AAPL-C-100", pricing.OptionTypeCall, 100, 100, time.Now().Add(365*24*time.Hour), 0.2, 1, nil)
	require.NoError(t, err)

	saved, err := svc.Add(ctx, p)
	require.NoError(t, err)
	require.NotNil(t, saved.EntryPrice)
	// 未指定建仓价时回填当前模型价（约等于 1 年期平值看涨参考值）
	assert.InDelta(t, 10.4506, *saved.EntryPrice, 1e-2)
}

func TestAddKeepsExplicitEntryPrice(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	entry := 12.5
	p, err := domain.NewOptionPosition("AAPL-C-100", pricing.OptionTypeCall, 100, 100, time.Now().Add(365*24*time.Hour), 0.2, 1, &entry)
	require.NoError(t, err)

	saved, err := svc.Add(ctx, p)
	require.NoError(t, err)
	require.NotNil(t, saved.EntryPrice)
	assert.InDelta(t, 12.5, *saved.EntryPrice, 1e-12)
}

func TestSummaryTotals(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	entry := 10.0
	opt, err := domain.NewOptionPosition("OPT", pricing.OptionTypeCall, 100, 100, time.Now().Add(365*24*time.Hour), 0.2, 2, &entry)
	require.NoError(t, err)
	_, err = svc.Add(ctx, opt)
	require.NoError(t, err)

	futEntry := 4400.0
	fut, err := domain.NewFuturePosition("FUT", 4500, 1, &futEntry)
	require.NoError(t, err)
	_, err = svc.Add(ctx, fut)
	require.NoError(t, err)

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.PositionCount)
	assert.Equal(t, 1, summary.OptionCount)
	assert.Equal(t, 1, summary.FutureCount)
	require.Len(t, summary.Positions, 2)

	// 期权市值 price*qty*100，期货市值 price*qty*1
	optValue, _ := summary.Positions[0].MarketValue.Float64()
	futValue, _ := summary.Positions[1].MarketValue.Float64()
	assert.InDelta(t, 10.4506*2*100, optValue, 1.0)
	assert.InDelta(t, 4500, futValue, 1e-9)

	total, _ := summary.TotalMarketValue.Float64()
	assert.InDelta(t, optValue+futValue, total, 1e-9)

	futPnL, _ := summary.Positions[1].UnrealizedPnL.Float64()
	assert.InDelta(t, 100, futPnL, 1e-9)
}

func TestSummaryEmptyLedger(t *testing.T) {
	svc := newTestService()

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Zero(t, summary.PositionCount)
	assert.Empty(t, summary.Positions)
	assert.True(t, summary.TotalMarketValue.IsZero())
}

func TestClearEmptiesLedger(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p, err := domain.NewFuturePosition("FUT", 4500, 1, nil)
	require.NoError(t, err)
	_, err = svc.Add(ctx, p)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx))
	assert.Zero(t, svc.Ledger().Len())
}
