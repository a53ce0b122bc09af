// Package handlers implements the decision engine's HTTP surface: one
// file per resource, each a thin adapter between gin and the
// orchestrate/backtest/abeval packages.
package handlers

import (
	"context"
	"strconv"

	"github.com/jstittsworth/ffdecision/internal/models"
	"github.com/jstittsworth/ffdecision/internal/orchestrate"
	"github.com/jstittsworth/ffdecision/internal/services"
	"github.com/jstittsworth/ffdecision/internal/snapshot"
	"github.com/jstittsworth/ffdecision/pkg/database"
	"github.com/jstittsworth/ffdecision/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LeagueLoader resolves the current LeagueContext for a league ID,
// satisfied by providers.ESPNClient.FetchLeagueContext.
type LeagueLoader interface {
	FetchLeagueContext(leagueID, year int) (models.LeagueContext, error)
}

// Deps bundles every dependency the decision-engine handlers need. It
// is constructed once in cmd/server and threaded into each handler
// constructor, mirroring the teacher's per-handler service injection.
type Deps struct {
	DB           *database.DB
	Orchestrator *orchestrate.Service
	Leagues      LeagueLoader
	Snapshots    *snapshot.Store
	Hub          *services.WebSocketHub
	Logger       *logrus.Logger
	Year         int
}

func (d *Deps) loadLeague(c *gin.Context) (models.LeagueContext, int, bool) {
	leagueID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "league id must be an integer", err.Error())
		return models.LeagueContext{}, 0, false
	}
	league, err := d.Leagues.FetchLeagueContext(leagueID, d.Year)
	if err != nil {
		utils.SendInternalError(c, "failed to load league context")
		return models.LeagueContext{}, 0, false
	}
	return league, leagueID, true
}

// weekParam resolves the requested week from the route's :week path
// segment where present (lineup-recommendation), else from a ?week=
// query parameter (free-agents, snapshots), else fallback.
func weekParam(c *gin.Context, fallback int) int {
	raw := c.Param("week")
	if raw == "" {
		raw = c.Query("week")
	}
	week, err := strconv.Atoi(raw)
	if err != nil || week <= 0 {
		return fallback
	}
	return week
}

func reqCtx(c *gin.Context) context.Context {
	return c.Request.Context()
}
