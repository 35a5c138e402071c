package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/wyfcoding/riskdesk/internal/pricing/application"
	"github.com/wyfcoding/riskdesk/internal/pricing/domain"
	"github.com/wyfcoding/riskdesk/pkg/config"
	"github.com/wyfcoding/riskdesk/pkg/logger"
	"github.com/wyfcoding/riskdesk/pkg/response"
)

// HTTP 处理器
// 负责处理定价与引擎参数相关的 HTTP 请求
type PricingHandler struct {
	svc           *application.PricingService
	multiplier    float64
	profilePoints int
	profileLower  float64
	profileUpper  float64
}

// 创建 HTTP 处理器实例
func NewPricingHandler(svc *application.PricingService, engineCfg config.EngineConfig) *PricingHandler {
	return &PricingHandler{
		svc:           svc,
		multiplier:    engineCfg.ContractMultiplier,
		profilePoints: engineCfg.SensitivityPoints,
		profileLower:  engineCfg.SensitivityLower,
		profileUpper:  engineCfg.SensitivityUpper,
	}
}

// 注册路由
// 将处理器方法绑定到 Gin 路由引擎
func (h *PricingHandler) RegisterRoutes(router *gin.RouterGroup) {
	engine := router.Group("/engine")
	{
		engine.PUT("/rate", h.SetRiskFreeRate)
		engine.GET("/rate", h.GetRiskFreeRate)
	}
	pricing := router.Group("/pricing")
	{
		pricing.POST("/price", h.Price)
		pricing.POST("/implied-vol", h.ImpliedVolatility)
		pricing.POST("/pnl-profile", h.PnLProfile)
	}
}

// RateRequest 无风险利率设置请求
type RateRequest struct {
	Rate *float64 `json:"rate" binding:"required"`
}

// PriceRequest 定价请求
type PriceRequest struct {
	UnderlyingPrice float64 `json:"underlying_price"`
	Strike          float64 `json:"strike"`
	TimeToExpiry    float64 `json:"time_to_expiry"`
	Volatility      float64 `json:"volatility"`
	OptionType      string  `json:"option_type" binding:"required"`
}

// ImpliedVolRequest 隐含波动率请求
type ImpliedVolRequest struct {
	MarketPrice     float64 `json:"market_price"`
	UnderlyingPrice float64 `json:"underlying_price"`
	Strike          float64 `json:"strike"`
	TimeToExpiry    float64 `json:"time_to_expiry"`
	OptionType      string  `json:"option_type" binding:"required"`
}

// ProfileRequest 盈亏曲线请求
type ProfileRequest struct {
	UnderlyingPrice float64 `json:"underlying_price"`
	Strike          float64 `json:"strike"`
	TimeToExpiry    float64 `json:"time_to_expiry"`
	Volatility      float64 `json:"volatility"`
	OptionType      string  `json:"option_type" binding:"required"`
	EntryPrice      float64 `json:"entry_price"`
	Quantity        int64   `json:"quantity"`
}

// SetRiskFreeRate 调整无风险利率
func (h *PricingHandler) SetRiskFreeRate(c *gin.Context) {
	var req RateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}
	if *req.Rate < -1 || *req.Rate > 1 {
		response.ErrorWithStatus(c, http.StatusBadRequest, "rate must be within [-1, 1]")
		return
	}

	h.svc.SetRiskFreeRate(c.Request.Context(), *req.Rate)
	response.Success(c, gin.H{"rate": *req.Rate})
}

// GetRiskFreeRate 查询当前无风险利率
func (h *PricingHandler) GetRiskFreeRate(c *gin.Context) {
	response.Success(c, gin.H{"rate": h.svc.RiskFreeRate()})
}

// Price 计算期权价格与希腊字母
func (h *PricingHandler) Price(c *gin.Context) {
	var req PriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Price(c.Request.Context(), req.UnderlyingPrice, req.Strike, req.TimeToExpiry, req.Volatility, domain.OptionType(req.OptionType))
	if err != nil {
		writePricingError(c, err)
		return
	}
	response.Success(c, result)
}

// ImpliedVolatility 由市场价格反解隐含波动率
func (h *PricingHandler) ImpliedVolatility(c *gin.Context) {
	var req ImpliedVolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	iv, err := h.svc.ImpliedVolatility(c.Request.Context(), req.MarketPrice, req.UnderlyingPrice, req.Strike, req.TimeToExpiry, domain.OptionType(req.OptionType))
	if err != nil {
		writePricingError(c, err)
		return
	}
	response.Success(c, gin.H{"implied_volatility": iv})
}

// PnLProfile 生成盈亏曲线
func (h *PricingHandler) PnLProfile(c *gin.Context) {
	var req ProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}
	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}

	in := domain.ProfileInput{
		Spot:         req.UnderlyingPrice,
		Strike:       req.Strike,
		TimeToExpiry: req.TimeToExpiry,
		Volatility:   req.Volatility,
		OptionType:   domain.OptionType(req.OptionType),
		EntryPrice:   req.EntryPrice,
		Quantity:     quantity,
		Multiplier:   h.multiplier,
	}
	profile, err := h.svc.PnLProfile(c.Request.Context(), in, h.profilePoints, h.profileLower, h.profileUpper)
	if err != nil {
		writePricingError(c, err)
		return
	}
	response.Success(c, gin.H{"points": profile})
}

func writePricingError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNoConvergence):
		response.ErrorWithStatus(c, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.Error(c.Request.Context(), "pricing request failed", "error", err)
		response.Error(c, err.Error())
	}
}
