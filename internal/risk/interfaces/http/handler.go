package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	pricing "github.com/wyfcoding/riskdesk/internal/pricing/domain"
	"github.com/wyfcoding/riskdesk/internal/risk/application"
	"github.com/wyfcoding/riskdesk/internal/risk/domain"
	"github.com/wyfcoding/riskdesk/pkg/logger"
	"github.com/wyfcoding/riskdesk/pkg/response"
)

// HTTP 处理器
// 负责处理组合风险相关的 HTTP 请求
type RiskHandler struct {
	svc *application.RiskService
}

// 创建 HTTP 处理器实例
func NewRiskHandler(svc *application.RiskService) *RiskHandler {
	return &RiskHandler{svc: svc}
}

// 注册路由
func (h *RiskHandler) RegisterRoutes(router *gin.RouterGroup) {
	risk := router.Group("/risk")
	{
		risk.GET("/greeks", h.GetGreeks)
		risk.GET("/metrics", h.GetMetrics)
		risk.GET("/metrics/latest", h.GetLatestCached)
		risk.GET("/metrics/history", h.GetHistory)
		risk.GET("/sensitivity", h.GetSensitivity)
		risk.POST("/scenario", h.ProjectScenario)
		risk.POST("/scenario/compare", h.CompareScenarios)
	}
}

// ScenarioRequest 情景推演请求
type ScenarioRequest struct {
	PriceChange     float64 `json:"price_change"`
	VolatilityShift float64 `json:"volatility_shift"`
	DaysElapsed     float64 `json:"days_elapsed"`
}

// GetGreeks 组合希腊字母
func (h *RiskHandler) GetGreeks(c *gin.Context) {
	greeks, err := h.svc.Greeks(c.Request.Context())
	if err != nil {
		writeRiskError(c, err)
		return
	}
	response.Success(c, greeks)
}

// GetMetrics 计算并返回风险指标
func (h *RiskHandler) GetMetrics(c *gin.Context) {
	metrics, err := h.svc.Metrics(c.Request.Context())
	if err != nil {
		writeRiskError(c, err)
		return
	}
	response.Success(c, metrics)
}

// GetLatestCached 缓存中的最新快照
func (h *RiskHandler) GetLatestCached(c *gin.Context) {
	metrics, err := h.svc.LatestCached(c.Request.Context())
	if err != nil {
		writeRiskError(c, err)
		return
	}
	response.Success(c, metrics)
}

// GetHistory 最近的风险快照历史
func (h *RiskHandler) GetHistory(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	history, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		writeRiskError(c, err)
		return
	}
	response.Success(c, history)
}

// GetSensitivity 敏感度扫描
func (h *RiskHandler) GetSensitivity(c *gin.Context) {
	greek := domain.SensitivityGreek(c.DefaultQuery("greek", string(domain.GreekDelta)))

	curve, err := h.svc.Sensitivity(c.Request.Context(), greek)
	if err != nil {
		writeRiskError(c, err)
		return
	}
	response.Success(c, gin.H{"greek": greek, "points": curve})
}

// ProjectScenario 单一情景推演
func (h *RiskHandler) ProjectScenario(c *gin.Context) {
	var req ScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.svc.Scenario(c.Request.Context(), domain.Scenario{
		PriceChange:     req.PriceChange,
		VolatilityShift: req.VolatilityShift,
		DaysElapsed:     req.DaysElapsed,
	})
	if err != nil {
		writeRiskError(c, err)
		return
	}
	response.Success(c, result)
}

// CompareScenarios 预置情景对比
func (h *RiskHandler) CompareScenarios(c *gin.Context) {
	results, err := h.svc.CompareScenarios(c.Request.Context())
	if err != nil {
		writeRiskError(c, err)
		return
	}
	response.Success(c, results)
}

func writeRiskError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, pricing.ErrInvalidInput):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, pricing.ErrNoConvergence):
		response.ErrorWithStatus(c, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.Error(c.Request.Context(), "risk request failed", "error", err)
		response.Error(c, err.Error())
	}
}
