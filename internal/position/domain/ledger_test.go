package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pricing "github.com/wyfcoding/riskdesk/internal/pricing/domain"
)

func mustOption(t *testing.T, symbol string, qty int64) *Position {
	t.Helper()
	p, err := NewOptionPosition(symbol, pricing.OptionTypeCall, 100, 100, time.Now().AddDate(0, 3, 0), 0.2, qty, nil)
	require.NoError(t, err)
	return p
}

func TestLedgerUpsertOverwritesBySymbol(t *testing.T) {
	ledger := NewLedger()

	replaced := ledger.Upsert(mustOption(t, "AAPL-C-100", 1))
	assert.False(t, replaced)
	assert.Equal(t, 1, ledger.Len())

	// 同名覆盖，不新增
	replaced = ledger.Upsert(mustOption(t, "AAPL-C-100", 5))
	assert.True(t, replaced)
	assert.Equal(t, 1, ledger.Len())

	p, ok := ledger.Get("AAPL-C-100")
	require.True(t, ok)
	assert.Equal(t, int64(5), p.Quantity)
}

func TestLedgerListPreservesInsertionOrder(t *testing.T) {
	ledger := NewLedger()
	ledger.Upsert(mustOption(t, "A", 1))
	ledger.Upsert(mustOption(t, "B", 1))
	ledger.Upsert(mustOption(t, "C", 1))
	// 覆盖 A 不改变其顺序位
	ledger.Upsert(mustOption(t, "A", 9))

	list := ledger.List()
	require.Len(t, list, 3)
	assert.Equal(t, "A", list[0].Symbol)
	assert.Equal(t, "B", list[1].Symbol)
	assert.Equal(t, "C", list[2].Symbol)
	assert.Equal(t, int64(9), list[0].Quantity)
}

func TestLedgerClear(t *testing.T) {
	ledger := NewLedger()
	ledger.Upsert(mustOption(t, "A", 1))
	ledger.Upsert(mustOption(t, "B", 1))

	ledger.Clear()
	assert.Equal(t, 0, ledger.Len())
	assert.Empty(t, ledger.List())

	_, ok := ledger.Get("A")
	assert.False(t, ok)
}

func TestLedgerSnapshotsAreCopies(t *testing.T) {
	ledger := NewLedger()
	ledger.Upsert(mustOption(t, "A", 1))

	p, ok := ledger.Get("A")
	require.True(t, ok)
	p.Quantity = 42

	again, _ := ledger.Get("A")
	assert.Equal(t, int64(1), again.Quantity)
}

func TestPositionValidation(t *testing.T) {
	_, err := NewOptionPosition("", pricing.OptionTypeCall, 100, 100, time.Now(), 0.2, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	_, err = NewOptionPosition("X", pricing.OptionTypeCall, 100, 100, time.Now(), 0, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	_, err = NewOptionPosition("X", pricing.OptionType("SWAP"), 100, 100, time.Now(), 0.2, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	_, err = NewFuturePosition("X", -1, 1, nil)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	neg := -1.0
	_, err = NewFuturePosition("X", 100, 1, &neg)
	assert.ErrorIs(t, err, ErrInvalidPosition)

	// 数量为 0 与负数均合法（空头）
	_, err = NewFuturePosition("X", 100, 0, nil)
	assert.NoError(t, err)
	_, err = NewOptionPosition("X", pricing.OptionTypePut, 100, 100, time.Now().AddDate(1, 0, 0), 0.2, -3, nil)
	assert.NoError(t, err)
}

func TestTimeToExpiry(t *testing.T) {
	now := time.Now()

	p, err := NewOptionPosition("X", pricing.OptionTypeCall, 100, 100, now.Add(365*24*time.Hour), 0.2, 1, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, p.TimeToExpiry(now), 1e-9)

	// 已到期归零
	p.Expiration = now.Add(-24 * time.Hour)
	assert.Zero(t, p.TimeToExpiry(now))

	// 期货无期限概念
	f, err := NewFuturePosition("F", 100, 1, nil)
	require.NoError(t, err)
	assert.Zero(t, f.TimeToExpiry(now))
}
