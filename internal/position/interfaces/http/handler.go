package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wyfcoding/riskdesk/internal/position/application"
	"github.com/wyfcoding/riskdesk/internal/position/domain"
	pricing "github.com/wyfcoding/riskdesk/internal/pricing/domain"
	"github.com/wyfcoding/riskdesk/pkg/logger"
	"github.com/wyfcoding/riskdesk/pkg/response"
)

// HTTP 处理器
// 负责处理持仓账本相关的 HTTP 请求
type PositionHandler struct {
	svc *application.PositionService
}

// 创建 HTTP 处理器实例
func NewPositionHandler(svc *application.PositionService) *PositionHandler {
	return &PositionHandler{svc: svc}
}

// 注册路由
func (h *PositionHandler) RegisterRoutes(router *gin.RouterGroup) {
	positions := router.Group("/positions")
	{
		positions.POST("", h.AddPosition)
		positions.DELETE("", h.ClearPortfolio)
		positions.GET("/summary", h.GetSummary)
	}
}

// AddPositionRequest 入账请求
// kind 为 OPTION 时 strike/expiration/volatility/option_type 必填
type AddPositionRequest struct {
	Symbol          string   `json:"symbol" binding:"required"`
	Kind            string   `json:"kind" binding:"required"`
	UnderlyingPrice float64  `json:"underlying_price"`
	Quantity        int64    `json:"quantity"`
	EntryPrice      *float64 `json:"entry_price"`
	Strike          float64  `json:"strike"`
	Expiration      string   `json:"expiration"`
	Volatility      float64  `json:"volatility"`
	OptionType      string   `json:"option_type"`
}

// AddPosition 入账一笔持仓，同名覆盖
func (h *PositionHandler) AddPosition(c *gin.Context) {
	var req AddPositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	position, err := h.buildPosition(&req)
	if err != nil {
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
		return
	}

	saved, err := h.svc.Add(c.Request.Context(), position)
	if err != nil {
		writePositionError(c, err)
		return
	}
	response.Success(c, gin.H{
		"symbol":      saved.Symbol,
		"kind":        saved.Kind,
		"entry_price": saved.EntryPrice,
	})
}

// ClearPortfolio 清空账本
func (h *PositionHandler) ClearPortfolio(c *gin.Context) {
	if err := h.svc.Clear(c.Request.Context()); err != nil {
		writePositionError(c, err)
		return
	}
	response.Success(c, nil)
}

// GetSummary 持仓摘要与组合总览
func (h *PositionHandler) GetSummary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context())
	if err != nil {
		writePositionError(c, err)
		return
	}
	response.Success(c, summary)
}

func (h *PositionHandler) buildPosition(req *AddPositionRequest) (*domain.Position, error) {
	switch domain.PositionKind(req.Kind) {
	case domain.KindOption:
		expiration, err := time.Parse(time.RFC3339, req.Expiration)
		if err != nil {
			return nil, errors.New("expiration must be RFC3339 formatted")
		}
		return domain.NewOptionPosition(req.Symbol, pricing.OptionType(req.OptionType), req.UnderlyingPrice, req.Strike, expiration, req.Volatility, req.Quantity, req.EntryPrice)
	case domain.KindFuture:
		return domain.NewFuturePosition(req.Symbol, req.UnderlyingPrice, req.Quantity, req.EntryPrice)
	default:
		return nil, errors.New("kind must be OPTION or FUTURE")
	}
}

func writePositionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPosition), errors.Is(err, pricing.ErrInvalidInput):
		response.ErrorWithStatus(c, http.StatusBadRequest, err.Error())
	default:
		logger.Error(c.Request.Context(), "position request failed", "error", err)
		response.Error(c, err.Error())
	}
}
