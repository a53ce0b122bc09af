package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jstittsworth/ffdecision/pkg/utils"
)

type FreeAgentHandler struct {
	deps *Deps
}

func NewFreeAgentHandler(deps *Deps) *FreeAgentHandler {
	return &FreeAgentHandler{deps: deps}
}

// GetFreeAgents handles GET /leagues/:id/free-agents.
func (h *FreeAgentHandler) GetFreeAgents(c *gin.Context) {
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

	useROS := c.Query("ros") == "true"
	topN := 25
	if n, err := strconv.Atoi(c.Query("top_n")); err == nil && n > 0 {
		topN = n
	}

	rankings, err := h.deps.Orchestrator.FreeAgentRankings(reqCtx(c), league, teamID, week, useROS, topN)
	if err != nil {
		utils.SendNotFound(c, err.Error())
		return
	}

	utils.SendSuccess(c, rankings)
}
