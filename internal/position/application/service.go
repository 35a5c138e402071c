// Package application 持仓应用服务
package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wyfcoding/riskdesk/internal/position/domain"
	pricing "github.com/wyfcoding/riskdesk/internal/pricing/domain"
	"github.com/wyfcoding/riskdesk/pkg/logger"
	"github.com/wyfcoding/riskdesk/pkg/metrics"
)

// PositionService 编排账本、定价引擎、持久化与事件发布
type PositionService struct {
	ledger     *domain.Ledger
	engine     *pricing.Engine
	repo       domain.Repository
	publisher  domain.EventPublisher
	metrics    *metrics.Metrics
	multiplier float64
}

// NewPositionService 创建持仓应用服务
func NewPositionService(ledger *domain.Ledger, engine *pricing.Engine, repo domain.Repository, publisher domain.EventPublisher, m *metrics.Metrics, multiplier float64) *PositionService {
	return &PositionService{
		ledger:     ledger,
		engine:     engine,
		repo:       repo,
		publisher:  publisher,
		metrics:    m,
		multiplier: multiplier,
	}
}

// Ledger 暴露账本，供风险域做快照聚合
func (s *PositionService) Ledger() *domain.Ledger {
	return s.ledger
}

// Add 入账一笔持仓
// 未指定建仓价时按当前模型价回填，之后作为该持仓的固定成本基准
func (s *PositionService) Add(ctx context.Context, position *domain.Position) (*domain.Position, error) {
	if position.EntryPrice == nil {
		price, err := s.modelPrice(position, time.Now())
		if err != nil {
			return nil, fmt.Errorf("materialize entry price: %w", err)
		}
		position.EntryPrice = &price
	}

	replaced := s.ledger.Upsert(position)

	if s.repo != nil {
		if err := s.repo.Save(ctx, position); err != nil {
			logger.Error(ctx, "failed to persist position", "error", err, "symbol", position.Symbol)
			return nil, fmt.Errorf("persist position: %w", err)
		}
	}

	if s.publisher != nil {
		event := &domain.PositionUpsertedEvent{
			EventID:    uuid.NewString(),
			Symbol:     position.Symbol,
			Kind:       position.Kind,
			Quantity:   position.Quantity,
			Replaced:   replaced,
			OccurredAt: time.Now(),
		}
		if err := s.publisher.PublishPositionUpserted(ctx, event); err != nil {
			// 事件发布失败不阻断入账
			logger.Warn(ctx, "failed to publish position event", "error", err, "symbol", position.Symbol)
		}
	}

	if s.metrics != nil {
		s.metrics.PositionsActive.Set(float64(s.ledger.Len()))
	}

	logger.Info(ctx, "position upserted", "symbol", position.Symbol, "kind", position.Kind, "quantity", position.Quantity, "replaced", replaced)
	return position.Clone(), nil
}

// Clear 清空账本与持久化存储
func (s *PositionService) Clear(ctx context.Context) error {
	count := s.ledger.Len()
	s.ledger.Clear()

	if s.repo != nil {
		if err := s.repo.DeleteAll(ctx); err != nil {
			logger.Error(ctx, "failed to clear persisted positions", "error", err)
			return fmt.Errorf("clear positions: %w", err)
		}
	}

	if s.publisher != nil {
		event := &domain.PortfolioClearedEvent{
			EventID:        uuid.NewString(),
			PositionsCount: count,
			OccurredAt:     time.Now(),
		}
		if err := s.publisher.PublishPortfolioCleared(ctx, event); err != nil {
			logger.Warn(ctx, "failed to publish clear event", "error", err)
		}
	}

	if s.metrics != nil {
		s.metrics.PositionsActive.Set(0)
	}

	logger.Info(ctx, "portfolio cleared", "positions", count)
	return nil
}

// Restore 启动时从持久化存储恢复账本
func (s *PositionService) Restore(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	positions, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("restore positions: %w", err)
	}
	for _, p := range positions {
		s.ledger.Upsert(p)
	}
	if s.metrics != nil {
		s.metrics.PositionsActive.Set(float64(s.ledger.Len()))
	}
	logger.Info(ctx, "ledger restored", "positions", len(positions))
	return nil
}

// SummaryRow 持仓摘要的一行，价格与希腊字母均为实时重算结果
type SummaryRow struct {
	Symbol          string              `json:"symbol"`
	Kind            domain.PositionKind `json:"kind"`
	Quantity        int64               `json:"quantity"`
	UnderlyingPrice decimal.Decimal     `json:"underlying_price"`
	EntryPrice      decimal.Decimal     `json:"entry_price"`
	TimeToExpiry    float64             `json:"time_to_expiry,omitempty"`
	CurrentPrice    decimal.Decimal     `json:"current_price"`
	MarketValue     decimal.Decimal     `json:"market_value"`
	UnrealizedPnL   decimal.Decimal     `json:"unrealized_pnl"`
	Delta           decimal.Decimal     `json:"delta"`
	Gamma           decimal.Decimal     `json:"gamma"`
	Theta           decimal.Decimal     `json:"theta"`
	Vega            decimal.Decimal     `json:"vega"`
}

// Summary 持仓摘要与组合总览
type Summary struct {
	Positions        []SummaryRow    `json:"positions"`
	TotalMarketValue decimal.Decimal `json:"total_market_value"`
	TotalPnL         decimal.Decimal `json:"total_pnl"`
	PositionCount    int             `json:"position_count"`
	OptionCount      int             `json:"option_count"`
	FutureCount      int             `json:"future_count"`
}

// Summary 对账本做一致快照并逐笔重定价
func (s *PositionService) Summary(ctx context.Context) (*Summary, error) {
	now := time.Now()
	positions := s.ledger.List()

	summary := &Summary{
		Positions:        make([]SummaryRow, 0, len(positions)),
		TotalMarketValue: decimal.Zero,
		TotalPnL:         decimal.Zero,
		PositionCount:    len(positions),
	}

	for _, p := range positions {
		result, multiplier, err := s.price(p, now)
		if err != nil {
			return nil, fmt.Errorf("price position %s: %w", p.Symbol, err)
		}

		scale := decimal.NewFromInt(p.Quantity).Mul(decimal.NewFromFloat(multiplier))
		marketValue := result.Price.Mul(scale)

		entry := decimal.Zero
		if v, ok := p.EntryOrZero(); ok {
			entry = decimal.NewFromFloat(v)
		}
		pnl := result.Price.Sub(entry).Mul(scale)

		row := SummaryRow{
			Symbol:          p.Symbol,
			Kind:            p.Kind,
			Quantity:        p.Quantity,
			UnderlyingPrice: decimal.NewFromFloat(p.UnderlyingPrice),
			EntryPrice:      entry,
			CurrentPrice:    result.Price,
			MarketValue:     marketValue,
			UnrealizedPnL:   pnl,
			Delta:           result.Delta,
			Gamma:           result.Gamma,
			Theta:           result.Theta,
			Vega:            result.Vega,
		}
		if p.IsOption() {
			row.TimeToExpiry = p.TimeToExpiry(now)
			summary.OptionCount++
		} else {
			summary.FutureCount++
		}

		summary.Positions = append(summary.Positions, row)
		summary.TotalMarketValue = summary.TotalMarketValue.Add(marketValue)
		summary.TotalPnL = summary.TotalPnL.Add(pnl)
	}

	return summary, nil
}

// price 按品种重定价，返回结果与合约乘数
func (s *PositionService) price(p *domain.Position, now time.Time) (*pricing.Result, float64, error) {
	if p.IsOption() {
		result, err := s.engine.Price(p.UnderlyingPrice, p.Strike, p.TimeToExpiry(now), p.Volatility, p.OptionType)
		if err != nil {
			return nil, 0, err
		}
		return result, s.multiplier, nil
	}
	result, err := s.engine.PriceFuture(p.UnderlyingPrice, p.Quantity)
	if err != nil {
		return nil, 0, err
	}
	return result, 1, nil
}

// modelPrice 持仓的当前模型价，用于回填缺省建仓价
func (s *PositionService) modelPrice(p *domain.Position, now time.Time) (float64, error) {
	result, _, err := s.price(p, now)
	if err != nil {
		return 0, err
	}
	price, _ := result.Price.Float64()
	return price, nil
}
