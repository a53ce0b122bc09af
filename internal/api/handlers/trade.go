package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jstittsworth/ffdecision/pkg/utils"
)

type TradeHandler struct {
	deps *Deps
}

func NewTradeHandler(deps *Deps) *TradeHandler {
	return &TradeHandler{deps: deps}
}

type tradeAnalyzeRequest struct {
	MyValueBefore    float64 `json:"my_value_before" binding:"required"`
	MyValueAfter     float64 `json:"my_value_after" binding:"required"`
	TheirValueBefore float64 `json:"their_value_before" binding:"required"`
	TheirValueAfter  float64 `json:"their_value_after" binding:"required"`
	WeeksRemaining   int     `json:"weeks_remaining"`
}

// AnalyzeTrade handles POST /leagues/:id/trades/analyze. The caller
// supplies each side's roster value before and after the proposed
// trade (computed upstream via C5 ROS valuation) — this endpoint only
// runs C7's acceptance-probability and grade model over the deltas.
func (h *TradeHandler) AnalyzeTrade(c *gin.Context) {
	var req tradeAnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "invalid trade analysis request", err.Error())
		return
	}
	weeksRemaining := req.WeeksRemaining
	if weeksRemaining <= 0 {
		weeksRemaining = 10
	}

	analysis := h.deps.Orchestrator.TradeAnalysis(req.MyValueBefore, req.MyValueAfter, req.TheirValueBefore, req.TheirValueAfter, weeksRemaining)
	utils.SendSuccess(c, analysis)
}
