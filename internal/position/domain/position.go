// Package domain 持仓账本的领域模型
package domain

import (
	"errors"
	"fmt"
	"time"

	pricing "github.com/wyfcoding/riskdesk/internal/pricing/domain"
)

// ErrInvalidPosition 持仓字段非法
var ErrInvalidPosition = errors.New("invalid position")

// PositionKind 持仓品种
type PositionKind string

const (
	KindOption PositionKind = "OPTION" // 期权持仓
	KindFuture PositionKind = "FUTURE" // 期货持仓
)

// Valid 校验品种取值
func (k PositionKind) Valid() bool {
	return k == KindOption || k == KindFuture
}

// Position 单笔持仓
// Symbol 为账本内唯一键；EntryPrice 为空时在入账时以模型价回填；
// Strike/Expiration/Volatility/OptionType 仅期权持仓有效
type Position struct {
	Symbol          string
	Kind            PositionKind
	UnderlyingPrice float64
	Quantity        int64
	EntryPrice      *float64

	Strike     float64
	Expiration time.Time
	Volatility float64
	OptionType pricing.OptionType

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewOptionPosition 创建期权持仓
func NewOptionPosition(symbol string, optionType pricing.OptionType, underlyingPrice, strike float64, expiration time.Time, volatility float64, quantity int64, entryPrice *float64) (*Position, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ErrInvalidPosition)
	}
	if !optionType.Valid() {
		return nil, fmt.Errorf("%w: unknown option type %q", ErrInvalidPosition, optionType)
	}
	if underlyingPrice < 0 {
		return nil, fmt.Errorf("%w: underlying price must be non-negative, got %v", ErrInvalidPosition, underlyingPrice)
	}
	if strike < 0 {
		return nil, fmt.Errorf("%w: strike must be non-negative, got %v", ErrInvalidPosition, strike)
	}
	if volatility <= 0 {
		return nil, fmt.Errorf("%w: volatility must be positive, got %v", ErrInvalidPosition, volatility)
	}
	if entryPrice != nil && *entryPrice < 0 {
		return nil, fmt.Errorf("%w: entry price must be non-negative, got %v", ErrInvalidPosition, *entryPrice)
	}

	now := time.Now()
	return &Position{
		Symbol:          symbol,
		Kind:            KindOption,
		UnderlyingPrice: underlyingPrice,
		Quantity:        quantity,
		EntryPrice:      entryPrice,
		Strike:          strike,
		Expiration:      expiration,
		Volatility:      volatility,
		OptionType:      optionType,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// NewFuturePosition 创建期货持仓
func NewFuturePosition(symbol string, underlyingPrice float64, quantity int64, entryPrice *float64) (*Position, error) {
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ErrInvalidPosition)
	}
	if underlyingPrice < 0 {
		return nil, fmt.Errorf("%w: underlying price must be non-negative, got %v", ErrInvalidPosition, underlyingPrice)
	}
	if entryPrice != nil && *entryPrice < 0 {
		return nil, fmt.Errorf("%w: entry price must be non-negative, got %v", ErrInvalidPosition, *entryPrice)
	}

	now := time.Now()
	return &Position{
		Symbol:          symbol,
		Kind:            KindFuture,
		UnderlyingPrice: underlyingPrice,
		Quantity:        quantity,
		EntryPrice:      entryPrice,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// IsOption 是否期权持仓
func (p *Position) IsOption() bool {
	return p.Kind == KindOption
}

// TimeToExpiry 按 365 天年化的剩余期限，已到期返回 0
// 每次调用基于传入时刻重新计算，不做缓存
func (p *Position) TimeToExpiry(now time.Time) float64 {
	if !p.IsOption() {
		return 0
	}
	remaining := p.Expiration.Sub(now).Hours() / 24 / 365
	if remaining < 0 {
		return 0
	}
	return remaining
}

// EntryOrZero 返回建仓价，未设置时返回 0 与 false
func (p *Position) EntryOrZero() (float64, bool) {
	if p.EntryPrice == nil {
		return 0, false
	}
	return *p.EntryPrice, true
}

// Clone 返回持仓的深拷贝，供账本对外暴露快照
func (p *Position) Clone() *Position {
	dup := *p
	if p.EntryPrice != nil {
		v := *p.EntryPrice
		dup.EntryPrice = &v
	}
	return &dup
}
