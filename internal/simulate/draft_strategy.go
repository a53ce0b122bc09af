package simulate

import (
	"errors"
	"math"
	"math/rand"

	"github.com/jstittsworth/ffdecision/internal/models"
)

var errPreseasonOnly = errors.New("draft strategy analysis only available in preseason mode")

// StrategyWeights names a draft archetype and the position emphasis it
// implies, grounded on `analyze_draft_strategy`'s strategy table.
var StrategyWeights = map[string]map[string]float64{
	"Zero RB":  {"RB": 0.1, "WR": 0.4, "TE": 0.2, "QB": 0.2, "K": 0.05, "D/ST": 0.05},
	"RB Heavy": {"RB": 0.4, "WR": 0.2, "TE": 0.1, "QB": 0.2, "K": 0.05, "D/ST": 0.05},
	"Balanced": {"RB": 0.25, "WR": 0.25, "TE": 0.15, "QB": 0.25, "K": 0.05, "D/ST": 0.05},
}

// ChampionshipRosterProfile summarizes the composition of one
// simulated championship-winning roster.
type ChampionshipRosterProfile struct {
	Composition     map[string]float64
	StarPlayers     int
	TotalProjection float64
}

func (e *Engine) rosterComposition(roster []models.Player) map[string]float64 {
	composition := map[string]float64{"QB": 0, "RB": 0, "WR": 0, "TE": 0, "K": 0, "D/ST": 0}
	var total float64
	for _, p := range roster {
		if _, tracked := composition[p.Position]; !tracked {
			continue
		}
		value := e.playerProjection(p)
		if value <= 0 {
			continue
		}
		composition[p.Position] += value
		total += value
	}
	if total > 0 {
		for pos := range composition {
			composition[pos] /= total
		}
	}
	return composition
}

func (e *Engine) applyStrategyWeights(weights map[string]float64) map[string]TeamRating {
	modified := make(map[string]TeamRating, len(e.ratings))
	for id, rating := range e.ratings {
		modified[id] = rating
	}
	for _, team := range e.league.Teams {
		comp := e.rosterComposition(team.Roster)
		var strategyMatch float64
		for pos, pct := range comp {
			strategyMatch += weights[pos] * pct
		}
		factor := 0.75 + 0.5*strategyMatch
		r := modified[team.ID]
		r.Mean *= factor
		modified[team.ID] = r
	}
	return modified
}

func (e *Engine) analyzeChampionshipRosters(rosters [][]models.Player) []ChampionshipRosterProfile {
	profiles := make([]ChampionshipRosterProfile, 0, len(rosters))
	for _, roster := range rosters {
		comp := e.rosterComposition(roster)

		projections := make([]float64, 0, len(roster))
		for _, p := range roster {
			if v := e.playerProjection(p); v > 0 {
				projections = append(projections, v)
			}
		}

		var starPlayers int
		var total float64
		if len(projections) > 0 {
			m := mean(projections)
			s := stddevPop(projections)
			cutoff := m + s
			for _, p := range roster {
				if e.playerProjection(p) > cutoff {
					starPlayers++
				}
			}
			for _, v := range projections {
				total += v
			}
		}

		profiles = append(profiles, ChampionshipRosterProfile{
			Composition:     comp,
			StarPlayers:     starPlayers,
			TotalProjection: total,
		})
	}
	return profiles
}

func stddevPop(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)))
}

// AnalyzeDraftStrategy runs a shortened season simulation under each
// named strategy's position-weighted ratings and profiles the rosters
// that win the championship — preseason-only, since it has no meaning
// once drafts and waivers have already shaped real rosters.
func (e *Engine) AnalyzeDraftStrategy() (map[string][]ChampionshipRosterProfile, error) {
	if !e.cfg.Preseason {
		return nil, errPreseasonOnly
	}

	iterations := maxInt(1, e.cfg.NumSimulations/10)
	playoffSpots := maxInt(1, e.league.PlayoffTeamCount)
	results := make(map[string][]ChampionshipRosterProfile, len(StrategyWeights))

	for strategy, weights := range StrategyWeights {
		modifiedRatings := e.applyStrategyWeights(weights)
		rng := rand.New(rand.NewSource(workerSeed(e.cfg.Seed, hashString(strategy))))

		var championshipRosters [][]models.Player
		for i := 0; i < iterations; i++ {
			wins := e.SimulateSeason(rng, modifiedRatings)
			sorted := sortTeamsByWins(wins, rng)
			playoffTeams := sorted
			if len(playoffTeams) > playoffSpots {
				playoffTeams = playoffTeams[:playoffSpots]
			}
			if len(playoffTeams) < 2 {
				continue
			}
			champID := SimulatePlayoffs(rng, modifiedRatings, playoffTeams)
			if champTeam, ok := e.teamByID[champID]; ok {
				championshipRosters = append(championshipRosters, champTeam.Roster)
			}
		}

		results[strategy] = e.analyzeChampionshipRosters(championshipRosters)
	}

	return results, nil
}

func hashString(s string) int {
	h := 0
	for _, c := range s {
		h = h*31 + int(c)
	}
	return h
}
