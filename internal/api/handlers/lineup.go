package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jstittsworth/ffdecision/pkg/utils"
)

type LineupHandler struct {
	deps *Deps
}

func NewLineupHandler(deps *Deps) *LineupHandler {
	return &LineupHandler{deps: deps}
}

// GetLineupRecommendation handles GET
// /leagues/:id/weeks/:week/lineup-recommendation.
func (h *LineupHandler) GetLineupRecommendation(c *gin.Context) {
	league, _, ok := h.deps.loadLeague(c)
	if !ok {
		return
	}

	teamID := c.Query("team_id")
	if teamID == "" {
		utils.SendValidationError(c, "team_id query parameter is required", "")
		return
	}
	week := weekParam(c, league.CurrentWeek)

	recommendation, err := h.deps.Orchestrator.LineupRecommendation(reqCtx(c), league, teamID, week)
	if err != nil {
		utils.SendNotFound(c, err.Error())
		return
	}

	if h.deps.Hub != nil {
		_ = h.deps.Hub.BroadcastToTeam(teamID, "lineup_recommendation_ready", recommendation)
	}

	utils.SendSuccess(c, recommendation)
}
