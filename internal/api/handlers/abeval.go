package handlers

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jstittsworth/ffdecision/internal/abeval"
	"github.com/jstittsworth/ffdecision/internal/models"
	"github.com/jstittsworth/ffdecision/internal/simulate"
	"github.com/jstittsworth/ffdecision/pkg/utils"
	"gorm.io/datatypes"
)

type ABEvalHandler struct {
	deps *Deps
}

func NewABEvalHandler(deps *Deps) *ABEvalHandler {
	return &ABEvalHandler{deps: deps}
}

type abEvalRequest struct {
	TeamID  string `json:"team_id" binding:"required"`
	Profile string `json:"profile"`
}

// RunABEvaluation handles POST /leagues/:id/ab-evaluations: it runs
// abeval.Run across the requested profile's seeds, comparing a
// baseline simulation (raw league, no alpha signals) against an
// alpha-adjusted one (C4-blended projections fed into C6) for the
// requested team.
func (h *ABEvalHandler) RunABEvaluation(c *gin.Context) {
	league, leagueID, ok := h.deps.loadLeague(c)
	if !ok {
		return
	}

	var req abEvalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "invalid ab-evaluation request", err.Error())
		return
	}
	if req.Profile == "" {
		req.Profile = "default"
	}
	profile := abeval.ResolveProfile(req.Profile)

	cfg := abeval.Config{LeagueID: leagueID, TeamID: req.TeamID, Profile: req.Profile, Gate: abeval.DefaultGate()}

	ratings := func(ctx context.Context, seed int64) (map[string]simulate.TeamRating, map[string]simulate.TeamRating, error) {
		baselineEngine := simulate.NewEngine(simulate.Config{NumSimulations: profile.Simulations, Seed: seed}, league)
		alphaLeague, err := h.deps.Orchestrator.AlphaAdjustedLeague(ctx, league, league.CurrentWeek)
		if err != nil {
			return nil, nil, err
		}
		alphaEngine := simulate.NewEngine(simulate.Config{NumSimulations: profile.Simulations, Seed: seed}, alphaLeague)
		return baselineEngine.Ratings(), alphaEngine.Ratings(), nil
	}

	result, err := abeval.Run(reqCtx(c), cfg, profile, league, ratings, nil)
	if err != nil {
		utils.SendInternalError(c, err.Error())
		return
	}

	successfulSeeds := 0
	for _, r := range result.PerSeed {
		if r.Status == "ok" {
			successfulSeeds++
		}
	}

	reasonsJSON, _ := json.Marshal(result.Decision.Reasons)
	run := models.ABEvaluationRun{
		RunID:                uuid.NewString(),
		LeagueID:             leagueID,
		Profile:              req.Profile,
		SuccessfulSeeds:      successfulSeeds,
		WeeklyPointsLiftMean: result.Summary["weekly_points_lift"].Mean,
		PlayoffOddsLiftMean:  result.Summary["playoff_odds_lift"].Mean,
		ChampionshipOddsLift: result.Summary["championship_odds_lift"].Mean,
		CalibrationBrier:     result.Summary["calibration_brier"].Mean,
		Decision:             result.Decision.Status,
		DecisionReasons:      datatypes.JSON(reasonsJSON),
	}
	if h.deps.DB != nil {
		if err := h.deps.DB.Create(&run).Error; err != nil {
			h.deps.Logger.Warnf("persist ab-evaluation run: %v", err)
		}
	}

	utils.SendSuccess(c, gin.H{"run_id": run.RunID, "result": result})
}
