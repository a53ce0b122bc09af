package decision

import (
	"testing"

	"github.com/jstittsworth/ffdecision/internal/alpha"
	"github.com/jstittsworth/ffdecision/internal/models"
	"github.com/stretchr/testify/assert"
)

func rosterWithBench() []models.Player {
	return []models.Player{
		{ID: "qb1", Name: "Starter QB", Position: "QB", LineupSlot: "QB"},
		{ID: "qb2", Name: "Bench QB", Position: "QB", LineupSlot: "BE"},
		{ID: "rb1", Name: "Starter RB1", Position: "RB", LineupSlot: "RB"},
		{ID: "rb2", Name: "Bench RB", Position: "RB", LineupSlot: "BE"},
		{ID: "wr1", Name: "Starter WR1", Position: "WR", LineupSlot: "WR"},
		{ID: "wr2", Name: "Bench WR", Position: "WR", LineupSlot: "BE"},
		{ID: "te1", Name: "Starter TE", Position: "TE", LineupSlot: "TE"},
		{ID: "k1", Name: "Starter K", Position: "K", LineupSlot: "K"},
		{ID: "dst1", Name: "Starter DST", Position: "D/ST", LineupSlot: "D/ST"},
	}
}

func projectionsFor(roster []models.Player, boost map[string]float64) map[string]alpha.Projection {
	out := make(map[string]alpha.Projection, len(roster))
	for _, p := range roster {
		mean := 10.0 + boost[p.ID]
		out[p.ID] = alpha.Projection{PlayerID: p.ID, WeeklyMean: mean, WeeklyStd: 3}
	}
	return out
}

func TestEligibleForSlot_FlexAcceptsRBWRTEOnly(t *testing.T) {
	assert.True(t, eligibleForSlot(models.Player{Position: "RB"}, "FLEX"))
	assert.True(t, eligibleForSlot(models.Player{Position: "TE"}, "FLEX"))
	assert.False(t, eligibleForSlot(models.Player{Position: "QB"}, "FLEX"))
}

func TestIsCurrentStarter_ExcludesBenchAndIR(t *testing.T) {
	assert.False(t, isCurrentStarter(models.Player{LineupSlot: "BE"}))
	assert.False(t, isCurrentStarter(models.Player{LineupSlot: "IR"}))
	assert.False(t, isCurrentStarter(models.Player{LineupSlot: ""}))
	assert.True(t, isCurrentStarter(models.Player{LineupSlot: "RB"}))
}

func TestOptimalLineup_PicksBenchPlayerWhenHigherScoring(t *testing.T) {
	roster := rosterWithBench()
	projections := projectionsFor(roster, map[string]float64{"rb2": 20})

	lineup := OptimalLineup(roster, projections)
	var rbNames []string
	for _, c := range lineup {
		if c.Player.Position == "RB" || eligibleForSlot(c.Player, "FLEX") {
			rbNames = append(rbNames, c.Player.ID)
		}
	}
	assert.Contains(t, rbNames, "rb2")
}

func TestOptimalLineup_NeverDuplicatesAPlayerAcrossSlots(t *testing.T) {
	roster := rosterWithBench()
	projections := projectionsFor(roster, nil)
	lineup := OptimalLineup(roster, projections)

	seen := make(map[string]bool)
	for _, c := range lineup {
		assert.False(t, seen[c.Player.ID], "player %s used twice", c.Player.ID)
		seen[c.Player.ID] = true
	}
}

func TestCurrentLineup_FallsBackToOptimalWhenNoStarters(t *testing.T) {
	roster := rosterWithBench()
	for i := range roster {
		roster[i].LineupSlot = ""
	}
	projections := projectionsFor(roster, nil)
	lineup := CurrentLineup(roster, projections)
	assert.NotEmpty(t, lineup)
}

func TestScoreLineup_CombinesVarianceIntoCombinedStd(t *testing.T) {
	candidates := []LineupCandidate{
		{Projection: alpha.Projection{WeeklyMean: 10, WeeklyStd: 4}},
		{Projection: alpha.Projection{WeeklyMean: 8, WeeklyStd: 3}},
	}
	score := ScoreLineup(candidates)
	assert.InDelta(t, 18, score.Mean, 1e-9)
	assert.Greater(t, score.Std, 0.0)
}

func TestRecommendLineup_ReportsDeltaBetweenCurrentAndOptimal(t *testing.T) {
	roster := rosterWithBench()
	projections := projectionsFor(roster, map[string]float64{"rb2": 20})
	team := models.Team{ID: "t1", Roster: roster}

	rec := RecommendLineup(team, projections)
	assert.Equal(t, "t1", rec.TeamID)
	assert.NotEmpty(t, rec.RecommendedLineup)
	assert.GreaterOrEqual(t, rec.ProjectedDelta, 0.0)
}
