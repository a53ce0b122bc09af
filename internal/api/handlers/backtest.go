package handlers

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jstittsworth/ffdecision/internal/alpha"
	"github.com/jstittsworth/ffdecision/internal/backtest"
	"github.com/jstittsworth/ffdecision/internal/models"
	"github.com/jstittsworth/ffdecision/pkg/utils"
	"gorm.io/datatypes"
)

type BacktestHandler struct {
	deps *Deps
}

func NewBacktestHandler(deps *Deps) *BacktestHandler {
	return &BacktestHandler{deps: deps}
}

// RunBacktest handles POST /leagues/:id/backtests: it replays every
// completed week of the league's season through the alpha blending
// model (C4) and scores the resulting projections against what
// actually happened (C8). Only weeks strictly before the league's
// current week are replayed, and each week's projection draws on player
// stats from earlier weeks only. Feed data comes from the live signal
// provider, not from an as-of lookup in the snapshot store (C2), and
// every replayed week is passed on with ResolvedAsOfOK set, so the
// evaluator's leakage exclusion never removes a week here.
func (h *BacktestHandler) RunBacktest(c *gin.Context) {
	league, leagueID, ok := h.deps.loadLeague(c)
	if !ok {
		return
	}

	realized, err := h.buildRealizedWeeks(c, league)
	if err != nil {
		utils.SendInternalError(c, err.Error())
		return
	}

	result := backtest.RunProjectionBacktest(realized)

	reliabilityJSON, _ := json.Marshal(result.Reliability)
	warningsJSON, _ := json.Marshal(result.Warnings)
	run := models.BacktestRun{
		RunID:            uuid.NewString(),
		LeagueID:         leagueID,
		Year:             league.Year,
		WeekStart:        1,
		WeekEnd:          league.CurrentWeek - 1,
		MAE:              result.MAE,
		BrierScore:       result.BrierScore,
		ReliabilityTable: datatypes.JSON(reliabilityJSON),
		ExcludedCount:    result.FutureLeakageExcluded,
		Warnings:         datatypes.JSON(warningsJSON),
	}
	if h.deps.DB != nil {
		if err := h.deps.DB.Create(&run).Error; err != nil {
			h.deps.Logger.Warnf("persist backtest run: %v", err)
		}
	}

	if h.deps.Hub != nil {
		_ = h.deps.Hub.BroadcastToTopic(leagueTopic(leagueID), "backtest_complete", run)
	}

	utils.SendSuccess(c, gin.H{"run_id": run.RunID, "result": result})
}

// buildRealizedWeeks reconstructs each completed week's blended
// projection against the points actually scored that week, for every
// rostered player league-wide.
func (h *BacktestHandler) buildRealizedWeeks(c *gin.Context, league models.LeagueContext) ([]backtest.RealizedWeek, error) {
	var out []backtest.RealizedWeek
	for week := 1; week < league.CurrentWeek; week++ {
		projections, _, err := h.deps.Orchestrator.WeekProjections(reqCtx(c), league, week)
		if err != nil {
			return nil, err
		}
		for _, team := range league.Teams {
			for _, p := range team.Roster {
				stat, ok := p.Stats[week]
				if !ok {
					continue
				}
				proj, ok := projections[p.ID]
				if !ok {
					continue
				}
				out = append(out, backtest.RealizedWeek{
					PlayerID:       p.ID,
					Week:           week,
					Projection:     alpha.Projection{PlayerID: proj.PlayerID, WeeklyMean: proj.WeeklyMean, WeeklyStd: proj.WeeklyStd, Confidence: proj.Confidence},
					RealizedPoints: stat.Points,
					ResolvedAsOfOK: true,
				})
			}
		}
	}
	return out, nil
}
