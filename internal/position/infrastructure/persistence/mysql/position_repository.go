// Package mysql 持仓的 GORM 持久化实现
package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wyfcoding/riskdesk/internal/position/domain"
	pricing "github.com/wyfcoding/riskdesk/internal/pricing/domain"
)

// PositionModel 持仓表
type PositionModel struct {
	gorm.Model
	Symbol          string     `gorm:"uniqueIndex;size:64;not null"`
	Kind            string     `gorm:"size:16;not null"`
	UnderlyingPrice float64    `gorm:"not null"`
	Quantity        int64      `gorm:"not null"`
	EntryPrice      *float64   `gorm:""`
	Strike          float64    `gorm:""`
	Expiration      *time.Time `gorm:""`
	Volatility      float64    `gorm:""`
	OptionType      string     `gorm:"size:8"`
}

// TableName 指定表名
func (PositionModel) TableName() string {
	return "positions"
}

// PositionRepository 持仓仓储
type PositionRepository struct {
	db *gorm.DB
}

// NewPositionRepository 创建持仓仓储实例
func NewPositionRepository(db *gorm.DB) *PositionRepository {
	return &PositionRepository{db: db}
}

// Save 按 Symbol 冲突更新
func (r *PositionRepository) Save(ctx context.Context, position *domain.Position) error {
	model := fromDomain(position)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"kind", "underlying_price", "quantity", "entry_price",
			"strike", "expiration", "volatility", "option_type", "updated_at",
		}),
	}).Create(model).Error
}

// DeleteAll 清空持仓表
func (r *PositionRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("1 = 1").Delete(&PositionModel{}).Error
}

// FindAll 按入账顺序加载全部持仓
func (r *PositionRepository) FindAll(ctx context.Context) ([]*domain.Position, error) {
	var models []PositionModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	positions := make([]*domain.Position, 0, len(models))
	for i := range models {
		positions = append(positions, toDomain(&models[i]))
	}
	return positions, nil
}

func fromDomain(p *domain.Position) *PositionModel {
	model := &PositionModel{
		Symbol:          p.Symbol,
		Kind:            string(p.Kind),
		UnderlyingPrice: p.UnderlyingPrice,
		Quantity:        p.Quantity,
		EntryPrice:      p.EntryPrice,
	}
	if p.IsOption() {
		expiration := p.Expiration
		model.Strike = p.Strike
		model.Expiration = &expiration
		model.Volatility = p.Volatility
		model.OptionType = string(p.OptionType)
	}
	return model
}

func toDomain(m *PositionModel) *domain.Position {
	p := &domain.Position{
		Symbol:          m.Symbol,
		Kind:            domain.PositionKind(m.Kind),
		UnderlyingPrice: m.UnderlyingPrice,
		Quantity:        m.Quantity,
		EntryPrice:      m.EntryPrice,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
	if p.Kind == domain.KindOption {
		p.Strike = m.Strike
		if m.Expiration != nil {
			p.Expiration = *m.Expiration
		}
		p.Volatility = m.Volatility
		p.OptionType = pricing.OptionType(m.OptionType)
	}
	return p
}
