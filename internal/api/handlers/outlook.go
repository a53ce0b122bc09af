package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jstittsworth/ffdecision/pkg/utils"
)

type OutlookHandler struct {
	deps *Deps
}

func NewOutlookHandler(deps *Deps) *OutlookHandler {
	return &OutlookHandler{deps: deps}
}

// GetSeasonOutlook handles GET /leagues/:id/season-outlook, running C6's
// Monte Carlo engine over the league's remaining schedule.
func (h *OutlookHandler) GetSeasonOutlook(c *gin.Context) {
	league, leagueID, ok := h.deps.loadLeague(c)
	if !ok {
		return
	}

	result, err := h.deps.Orchestrator.SeasonOutlook(league)
	if err != nil {
		utils.SendInternalError(c, "season simulation failed")
		return
	}

	if h.deps.Hub != nil {
		_ = h.deps.Hub.BroadcastToTopic(leagueTopic(leagueID), "simulation_progress", gin.H{"status": "complete"})
	}

	utils.SendSuccess(c, result)
}

func leagueTopic(leagueID int) string {
	return "league:" + strconv.Itoa(leagueID)
}
