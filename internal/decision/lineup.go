// Package decision implements the decision services (C7): lineup
// recommendation, free-agent ranking, and trade analysis — all built
// on the C4 alpha projections and C5 ROS valuator.
package decision

import (
	"math"
	"strings"

	"github.com/jstittsworth/ffdecision/internal/alpha"
	"github.com/jstittsworth/ffdecision/internal/models"
)

// DefaultLineupSlots is the standard starting lineup shape, grounded on
// `_default_lineup_slots`.
func DefaultLineupSlots() []string {
	return []string{"QB", "RB", "RB", "WR", "WR", "TE", "FLEX", "K", "D/ST"}
}

var flexEligible = map[string]bool{"RB": true, "WR": true, "TE": true}

func eligibleForSlot(player models.Player, slot string) bool {
	if slot == "FLEX" {
		return flexEligible[player.Position]
	}
	if player.Position == slot {
		return true
	}
	for _, s := range player.EligibleSlots {
		if strings.EqualFold(s, slot) {
			return true
		}
	}
	return false
}

func isCurrentStarter(player models.Player) bool {
	slot := strings.ToUpper(player.LineupSlot)
	switch slot {
	case "", "BE", "BENCH", "IR", "FA":
		return false
	default:
		return true
	}
}

// RiskAdjustedScore penalizes a player's projection by its uncertainty
// — grounded on `_risk_adjusted_score`: `weekly_mean - 0.15*weekly_std`.
func RiskAdjustedScore(proj alpha.Projection) float64 {
	return proj.WeeklyMean - 0.15*proj.WeeklyStd
}

// LineupCandidate pairs a player with its projection for a single
// lineup-building pass.
type LineupCandidate struct {
	Player     models.Player
	Projection alpha.Projection
}

// CurrentLineup returns the players already slotted into a starting
// position, falling back to the risk-adjusted-optimal lineup when no
// slots are set (e.g. a freshly synced league context).
func CurrentLineup(roster []models.Player, projections map[string]alpha.Projection) []LineupCandidate {
	var starters []LineupCandidate
	for _, p := range roster {
		if isCurrentStarter(p) {
			starters = append(starters, LineupCandidate{Player: p, Projection: projections[p.ID]})
		}
	}
	if len(starters) > 0 {
		return starters
	}
	return OptimalLineup(roster, projections)
}

// OptimalLineup greedily fills each lineup slot with the best
// remaining risk-adjusted candidate — grounded on `_optimize_lineup`.
func OptimalLineup(roster []models.Player, projections map[string]alpha.Projection) []LineupCandidate {
	used := make(map[string]bool, len(roster))
	var selected []LineupCandidate

	for _, slot := range DefaultLineupSlots() {
		var best *models.Player
		bestScore := 0.0
		first := true
		for i := range roster {
			p := roster[i]
			if used[p.ID] || !eligibleForSlot(p, slot) {
				continue
			}
			score := RiskAdjustedScore(projections[p.ID])
			if first || score > bestScore {
				best = &roster[i]
				bestScore = score
				first = false
			}
		}
		if best != nil {
			used[best.ID] = true
			selected = append(selected, LineupCandidate{Player: *best, Projection: projections[best.ID]})
		}
	}
	return selected
}

// LineupScore sums a lineup's mean and combines its weekly variances
// into a single standard deviation — grounded on `_lineup_score`.
type LineupScore struct {
	Mean float64
	Std  float64
}

func ScoreLineup(lineup []LineupCandidate) LineupScore {
	var mean, varianceSum float64
	for _, c := range lineup {
		mean += c.Projection.WeeklyMean
		varianceSum += c.Projection.WeeklyStd * c.Projection.WeeklyStd
	}
	std := sqrtOrFloor(varianceSum, mean)
	return LineupScore{Mean: mean, Std: std}
}

func sqrtOrFloor(varianceSum, mean float64) float64 {
	if varianceSum <= 0 {
		return math.Max(6.0, mean*0.2)
	}
	return math.Max(6.0, math.Sqrt(varianceSum))
}

// LineupRecommendation is the C7 lineup-recommendation HTTP/CLI payload.
type LineupRecommendation struct {
	TeamID            string
	CurrentLineup     []string
	RecommendedLineup []string
	ProjectedDelta    float64
	ExpectedPoints    float64
}

// RecommendLineup compares a team's current starters against the
// risk-adjusted-optimal lineup for the given week.
func RecommendLineup(team models.Team, projections map[string]alpha.Projection) LineupRecommendation {
	current := CurrentLineup(team.Roster, projections)
	optimal := OptimalLineup(team.Roster, projections)

	currentScore := ScoreLineup(current)
	optimalScore := ScoreLineup(optimal)

	return LineupRecommendation{
		TeamID:            team.ID,
		CurrentLineup:     names(current),
		RecommendedLineup: names(optimal),
		ProjectedDelta:    optimalScore.Mean - currentScore.Mean,
		ExpectedPoints:    optimalScore.Mean,
	}
}

func names(candidates []LineupCandidate) []string {
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.Player.Name
	}
	return out
}
