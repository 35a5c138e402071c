// Package domain 组合风险分析的领域模型
// 希腊字母聚合、Delta-Normal VaR、敏感度扫描与情景推演
// 全部复用定价域的同一套定价语义
package domain

import (
	position "github.com/wyfcoding/riskdesk/internal/position/domain"
	pricing "github.com/wyfcoding/riskdesk/internal/pricing/domain"
)

// Config 分析参数
type Config struct {
	// 期权合约乘数
	ContractMultiplier float64
	// 期货的默认年化波动率（期货本身无波动率字段）
	FutureVolatility float64
	// VaR 置信度分位数（95% -> 1.645）
	ConfidenceZ float64
	// 敏感度扫描采样点数
	SensitivityPoints int
	// 敏感度扫描相对区间
	SensitivityLower float64
	SensitivityUpper float64
}

// Analyzer 组合风险分析器
type Analyzer struct {
	engine *pricing.Engine
	cfg    Config
}

// NewAnalyzer 创建分析器实例
func NewAnalyzer(engine *pricing.Engine, cfg Config) *Analyzer {
	return &Analyzer{engine: engine, cfg: cfg}
}

// multiplier 按品种返回合约乘数
func (a *Analyzer) multiplier(p *position.Position) float64 {
	if p.IsOption() {
		return a.cfg.ContractMultiplier
	}
	return 1
}

// volatility 按品种返回年化波动率
func (a *Analyzer) volatility(p *position.Position) float64 {
	if p.IsOption() {
		return p.Volatility
	}
	return a.cfg.FutureVolatility
}
