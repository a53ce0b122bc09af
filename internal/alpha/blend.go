// Package alpha implements the alpha blending model (C4): combining a
// player's season prior with recent-form shrinkage, market signal,
// injury penalty, matchup factor, and the alpha signal provider's
// composite adjustment into a single weekly projection.
package alpha

import (
	"math"

	"github.com/jstittsworth/ffdecision/internal/models"
	"github.com/jstittsworth/ffdecision/internal/signals"
)

// Config controls the blend's shrinkage and matchup sensitivity.
type Config struct {
	ShrinkageK   float64
	MatchupScale float64
	RecentWeeks  int
}

func DefaultConfig() Config {
	return Config{ShrinkageK: 4.0, MatchupScale: 0.12, RecentWeeks: 3}
}

// injuryFactor maps a normalized injury status onto the scoring
// multiplier it implies. Anything not in the table (e.g. a healthy
// empty string) defaults to full health.
var injuryFactor = map[string]float64{
	"OUT":             0,
	"DOUBTFUL":        0.55,
	"QUESTIONABLE":    0.85,
	"SUSPENSION":      0,
	"INJURY_RESERVE":  0,
	"ACTIVE":          1,
	"NONE":            1,
}

func InjuryFactor(status string) float64 {
	if f, ok := injuryFactor[status]; ok {
		return f
	}
	return 1.0
}

// Projection is the blended weekly output for one player.
type Projection struct {
	PlayerID     string
	WeeklyMean   float64
	WeeklyStd    float64
	Confidence   float64
	Components   map[string]float64
}

// ConfidenceBand is the low/mid/high range callers display alongside a
// projection.
type ConfidenceBand struct {
	Low, Mid, High float64
}

func (p Projection) Band() ConfidenceBand {
	low := p.WeeklyMean - p.WeeklyStd
	if low < 0 {
		low = 0
	}
	return ConfidenceBand{Low: low, Mid: p.WeeklyMean, High: p.WeeklyMean + p.WeeklyStd}
}

// ProjectPlayer blends one player's recent/season history with the
// alpha signal provider's adjustment and matchup override for the given
// week.
func ProjectPlayer(cfg Config, player models.Player, regSeasonGames, week int,
	adj signals.PlayerAdjustment, hasAdj bool, injuryOverride string, matchupOverride float64, hasMatchupOverride bool) Projection {

	recent := player.RecentPoints(week)
	if cfg.RecentWeeks > 0 && len(recent) > cfg.RecentWeeks {
		recent = recent[:cfg.RecentWeeks]
	}
	nRecent := len(recent)
	prior := player.Baseline(regSeasonGames)

	var recentAvg float64
	if nRecent > 0 {
		recentAvg = meanOf(recent)
	} else {
		recentAvg = prior
	}

	wRecent := float64(nRecent) / (float64(nRecent) + math.Max(0.1, cfg.ShrinkageK))
	wPrior := 1 - wRecent

	marketAdj := (player.PercentStarted - 50) * 0.03
	baseMu := wPrior*prior + wRecent*recentAvg + marketAdj

	providerAdj := 0.0
	if hasAdj {
		providerAdj = adj.FinalAdjustment
	}

	status := injuryOverride
	if status == "" {
		status = normalizeStatus(player.InjuryStatus)
	}
	injFactor := InjuryFactor(status)

	matchupFactor := matchupFromRank(cfg, player.ProPosRank)
	if hasMatchupOverride {
		matchupFactor = clip(matchupOverride, 0.7, 1.3)
	}

	mean := math.Max(0, (baseMu+providerAdj)*injFactor*matchupFactor)

	var std float64
	switch {
	case nRecent >= 2:
		std = stddevOf(recent)
	case nRecent == 1:
		std = 0.25 * math.Abs(recent[0])
	default:
		std = math.Max(2.0, prior*0.35)
	}
	std = math.Max(2.0, std)
	if injFactor < 1.0 {
		std += 2.5
	}

	confidence := clip((float64(nRecent)/math.Max(1, float64(cfg.RecentWeeks)))*injFactor, 0.05, 0.99)

	return Projection{
		PlayerID:   player.ID,
		WeeklyMean: mean,
		WeeklyStd:  std,
		Confidence: confidence,
		Components: map[string]float64{
			"prior":         prior,
			"recent_avg":    recentAvg,
			"market_adj":    marketAdj,
			"provider_adj":  providerAdj,
			"injury_factor": injFactor,
			"matchup_factor": matchupFactor,
		},
	}
}

// ProjectPlayers blends every roster player against the provider's
// result for the given week.
func ProjectPlayers(cfg Config, players []models.Player, regSeasonGames, week int, result signals.Result) map[string]Projection {
	out := make(map[string]Projection, len(players))
	for _, player := range players {
		adj, hasAdj := result.PlayerAdjustments[player.ID]
		injuryOverride := result.InjuryOverrides[player.ID]
		matchupOverride, hasMatchup := result.MatchupOverrides[player.ID]
		out[player.ID] = ProjectPlayer(cfg, player, regSeasonGames, week, adj, hasAdj, injuryOverride, matchupOverride, hasMatchup)
	}
	return out
}

func matchupFromRank(cfg Config, rank int) float64 {
	if rank <= 0 {
		return 1.0
	}
	centered := (float64(rank) - 17) / 16
	factor := 1 + cfg.MatchupScale*centered
	return clip(factor, 0.85, 1.15)
}

func normalizeStatus(status string) string {
	if status == "" {
		return "NONE"
	}
	return status
}

func clip(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

func meanOf(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddevOf(values []float64) float64 {
	m := meanOf(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}
