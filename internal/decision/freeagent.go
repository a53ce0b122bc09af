package decision

import (
	"sort"
	"strings"

	"github.com/jstittsworth/ffdecision/internal/alpha"
	"github.com/jstittsworth/ffdecision/internal/models"
)

// healthyInjuryStatuses is the whitelist a free agent's injury status
// must fall into to be surfaced as an upgrade candidate — anything
// else (OUT, DOUBTFUL, QUESTIONABLE, INJURY_RESERVE, ...) is excluded.
// INJURY_RESERVE is the full token, not the ESPN abbreviation IR, per
// the normalization the signal provider already applies.
var healthyInjuryStatuses = map[string]bool{
	"": true, "ACTIVE": true, "NORMAL": true, "NONE": true,
}

func isHealthy(status string) bool {
	return healthyInjuryStatuses[strings.ToUpper(status)]
}

// FreeAgentRecommendation is one ranked pickup suggestion.
type FreeAgentRecommendation struct {
	Player         models.Player
	ValueAdded     float64
	DropCandidate  string
	FAValue        float64
	DropValue      float64
	Priority       string
	UsesROS        bool
}

func priorityFor(valueAdded float64) string {
	switch {
	case valueAdded > 3:
		return "HIGH"
	case valueAdded > 1:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

func playerValue(player models.Player, proj map[string]alpha.Projection, rosValues map[string]float64, useROS bool) float64 {
	if useROS {
		if v, ok := rosValues[player.ID]; ok {
			return v
		}
	}
	if p, ok := proj[player.ID]; ok {
		return p.WeeklyMean
	}
	return player.Baseline(14)
}

// RankFreeAgents ranks healthy free agents by the value they'd add
// over the weakest current roster player at the same position —
// grounded on `recommend_free_agents`, generalized to accept
// pre-computed ROS values so the valuator's schedule-awareness (C5)
// and the blended weekly projections (C4) both flow through when
// useROS is set.
func RankFreeAgents(roster []models.Player, freeAgents []models.Player,
	weeklyProjections map[string]alpha.Projection, rosValues map[string]float64, useROS bool, topN int) []FreeAgentRecommendation {

	byPosition := make(map[string][]models.Player)
	for _, p := range roster {
		byPosition[p.Position] = append(byPosition[p.Position], p)
	}

	var recs []FreeAgentRecommendation
	for _, fa := range freeAgents {
		if !isHealthy(fa.InjuryStatus) {
			continue
		}

		positionPlayers := byPosition[fa.Position]
		faValue := playerValue(fa, weeklyProjections, rosValues, useROS)

		var dropCandidate *models.Player
		var dropValue float64
		priorityMultiplier := 1.0

		if len(positionPlayers) == 0 {
			priorityMultiplier = 0.5
		} else {
			worst := positionPlayers[0]
			worstValue := playerValue(worst, weeklyProjections, rosValues, useROS)
			for _, candidate := range positionPlayers[1:] {
				v := playerValue(candidate, weeklyProjections, rosValues, useROS)
				if v < worstValue {
					worst, worstValue = candidate, v
				}
			}
			dropCandidate = &worst
			dropValue = worstValue
		}

		var valueAdded float64
		dropName := "None (roster expansion)"
		if dropCandidate != nil {
			valueAdded = (faValue - dropValue) * priorityMultiplier
			dropName = dropCandidate.Name
		} else {
			valueAdded = faValue * priorityMultiplier
		}

		if valueAdded <= 0 {
			continue
		}

		recs = append(recs, FreeAgentRecommendation{
			Player:        fa,
			ValueAdded:    valueAdded,
			DropCandidate: dropName,
			FAValue:       faValue,
			DropValue:     dropValue,
			Priority:      priorityFor(valueAdded),
			UsesROS:       useROS,
		})
	}

	sort.Slice(recs, func(i, j int) bool { return recs[i].ValueAdded > recs[j].ValueAdded })

	if topN > 0 && len(recs) > topN {
		recs = recs[:topN]
	}
	return recs
}
