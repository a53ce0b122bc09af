package alpha

import (
	"testing"

	"github.com/jstittsworth/ffdecision/internal/models"
	"github.com/jstittsworth/ffdecision/internal/signals"
	"github.com/stretchr/testify/assert"
)

func playerWithHistory(weeks map[int]float64) models.Player {
	stats := make(map[int]models.WeeklyStat)
	for wk, pts := range weeks {
		stats[wk] = models.WeeklyStat{WeekID: wk, Points: pts}
	}
	return models.Player{
		ID: "p1", Position: "RB", ProjectedAvgPoints: 12, PercentStarted: 55, Stats: stats,
	}
}

func TestProjectPlayer_NoAdjustmentOrOverride(t *testing.T) {
	cfg := DefaultConfig()
	player := playerWithHistory(map[int]float64{1: 10, 2: 14, 3: 12})
	proj := ProjectPlayer(cfg, player, 14, 4, signals.PlayerAdjustment{}, false, "", 0, false)

	assert.Greater(t, proj.WeeklyMean, 0.0)
	assert.GreaterOrEqual(t, proj.WeeklyStd, 2.0)
	assert.GreaterOrEqual(t, proj.Confidence, 0.05)
	assert.LessOrEqual(t, proj.Confidence, 0.99)
}

func TestProjectPlayer_OutInjuryZeroesMean(t *testing.T) {
	cfg := DefaultConfig()
	player := playerWithHistory(map[int]float64{1: 10, 2: 14, 3: 12})
	proj := ProjectPlayer(cfg, player, 14, 4, signals.PlayerAdjustment{}, false, "OUT", 0, false)
	assert.Equal(t, 0.0, proj.WeeklyMean)
}

func TestProjectPlayer_InjuryWidensStd(t *testing.T) {
	cfg := DefaultConfig()
	player := playerWithHistory(map[int]float64{1: 10, 2: 14, 3: 12})
	healthy := ProjectPlayer(cfg, player, 14, 4, signals.PlayerAdjustment{}, false, "", 0, false)
	questionable := ProjectPlayer(cfg, player, 14, 4, signals.PlayerAdjustment{}, false, "QUESTIONABLE", 0, false)
	assert.Greater(t, questionable.WeeklyStd, healthy.WeeklyStd)
}

func TestProjectPlayer_MatchupOverrideClippedToBounds(t *testing.T) {
	cfg := DefaultConfig()
	player := playerWithHistory(map[int]float64{1: 10})
	proj := ProjectPlayer(cfg, player, 14, 2, signals.PlayerAdjustment{}, false, "", 5.0, true)
	// An absurd override (5.0) should be clipped to the [0.7, 1.3] bound
	// before it's applied, not used raw.
	unclipped := proj.Components["matchup_factor"]
	assert.LessOrEqual(t, unclipped, 1.3)
}

func TestProjectPlayer_NoHistoryFallsBackToPrior(t *testing.T) {
	cfg := DefaultConfig()
	player := models.Player{ID: "p1", Position: "WR", ProjectedAvgPoints: 9, Stats: map[int]models.WeeklyStat{}}
	proj := ProjectPlayer(cfg, player, 14, 1, signals.PlayerAdjustment{}, false, "", 0, false)
	assert.InDelta(t, 9.0, proj.Components["recent_avg"], 1e-9)
}

func TestInjuryFactor_UnknownStatusDefaultsHealthy(t *testing.T) {
	assert.Equal(t, 1.0, InjuryFactor("SOME_UNKNOWN_TOKEN"))
}

func TestProjectPlayers_CoversEveryRosterPlayer(t *testing.T) {
	cfg := DefaultConfig()
	players := []models.Player{
		playerWithHistory(map[int]float64{1: 10}),
		{ID: "p2", Position: "WR", ProjectedAvgPoints: 8},
	}
	result := signals.Result{
		PlayerAdjustments: map[string]signals.PlayerAdjustment{},
		InjuryOverrides:   map[string]string{},
		MatchupOverrides:  map[string]float64{},
	}
	projections := ProjectPlayers(cfg, players, 14, 2, result)
	assert.Len(t, projections, 2)
	assert.Contains(t, projections, "p1")
	assert.Contains(t, projections, "p2")
}
