// Package orchestrate wires the decision engine's components (C1-C8)
// into the handful of operations the HTTP surface and CLI actually
// expose: building a week's blended projections, and running each
// decision service against them. It plays the role the teacher's
// service layer plays for the optimizer — a thin composition root, not
// a place for new domain logic.
package orchestrate

import (
	"context"
	"fmt"

	"github.com/jstittsworth/ffdecision/internal/alpha"
	"github.com/jstittsworth/ffdecision/internal/decision"
	"github.com/jstittsworth/ffdecision/internal/models"
	"github.com/jstittsworth/ffdecision/internal/signals"
	"github.com/jstittsworth/ffdecision/internal/simulate"
	"github.com/jstittsworth/ffdecision/internal/valuation"
)

// Config aggregates every component config the orchestrator threads
// through to its callees.
type Config struct {
	Alpha     alpha.Config
	Valuation valuation.Config
	Simulate  simulate.Config
}

func DefaultConfig() Config {
	return Config{
		Alpha:     alpha.DefaultConfig(),
		Valuation: valuation.DefaultConfig(),
		Simulate:  simulate.DefaultConfig(),
	}
}

// Service is the composition root: it holds the alpha signal provider
// and every component config needed to turn a LeagueContext into
// projections, and projections into a decision-service response.
type Service struct {
	cfg      Config
	provider *signals.Provider
}

func NewService(cfg Config, provider *signals.Provider) *Service {
	return &Service{cfg: cfg, provider: provider}
}

// WeekProjections blends every rostered player in the league for the
// given week, running the alpha signal provider once and feeding its
// result into the C4 blend for each team's roster.
func (s *Service) WeekProjections(ctx context.Context, league models.LeagueContext, week int) (map[string]alpha.Projection, signals.Result, error) {
	result, err := s.provider.Evaluate(ctx, league, week)
	if err != nil {
		return nil, signals.Result{}, fmt.Errorf("evaluate alpha signals: %w", err)
	}

	out := make(map[string]alpha.Projection)
	for _, team := range league.Teams {
		for _, proj := range alpha.ProjectPlayers(s.cfg.Alpha, team.Roster, league.RegSeasonGames(), week, result) {
			out[proj.PlayerID] = proj
		}
	}
	return out, result, nil
}

// LineupRecommendation runs C7's lineup optimizer against one team's
// blended projections for the current week.
func (s *Service) LineupRecommendation(ctx context.Context, league models.LeagueContext, teamID string, week int) (decision.LineupRecommendation, error) {
	team, ok := league.TeamByID(teamID)
	if !ok {
		return decision.LineupRecommendation{}, fmt.Errorf("team %s not found in league %d", teamID, league.LeagueID)
	}
	projections, _, err := s.WeekProjections(ctx, league, week)
	if err != nil {
		return decision.LineupRecommendation{}, err
	}
	return decision.RecommendLineup(team, projections), nil
}

// FreeAgentRankings runs C7's free-agent ranker for one team against
// every player rostered on the league's other teams (the league context
// carries no separate free-agent pool), optionally valuing candidates
// on a rest-of-season basis via C5.
func (s *Service) FreeAgentRankings(ctx context.Context, league models.LeagueContext, teamID string, week int, useROS bool, topN int) ([]decision.FreeAgentRecommendation, error) {
	team, ok := league.TeamByID(teamID)
	if !ok {
		return nil, fmt.Errorf("team %s not found in league %d", teamID, league.LeagueID)
	}
	projections, _, err := s.WeekProjections(ctx, league, week)
	if err != nil {
		return nil, err
	}

	onTeam := make(map[string]bool, len(team.Roster))
	for _, p := range team.Roster {
		onTeam[p.ID] = true
	}
	// The league context carries no dedicated free-agent pool (unlike
	// ESPN's own free-agent endpoint), so every player rostered on
	// another team stands in as a waiver-wire candidate.
	var freeAgents []models.Player
	for _, t := range league.Teams {
		if t.ID == teamID {
			continue
		}
		for _, p := range t.Roster {
			if !onTeam[p.ID] {
				freeAgents = append(freeAgents, p)
			}
		}
	}

	var rosValues map[string]float64
	if useROS {
		rosValues = s.rosterROSValues(team.Roster, league, teamID, week)
		for _, t := range league.Teams {
			if t.ID == teamID {
				continue
			}
			for k, v := range s.rosterROSValues(t.Roster, league, t.ID, week) {
				rosValues[k] = v
			}
		}
	}

	return decision.RankFreeAgents(team.Roster, freeAgents, projections, rosValues, useROS, topN), nil
}

// rosterROSValues computes per-player rest-of-season value (C5) for
// every player on roster, keyed by player ID.
func (s *Service) rosterROSValues(roster []models.Player, league models.LeagueContext, teamID string, fromWeek int) map[string]float64 {
	team, ok := league.TeamByID(teamID)
	if !ok {
		return nil
	}
	out := make(map[string]float64, len(roster))
	for _, p := range roster {
		multipliers := s.cfg.Valuation.ScheduleMultipliers(team.Schedule, fromWeek, p.Position, nil)
		projections := make(map[int]alpha.Projection)
		for week := fromWeek; week <= league.RegSeasonGames(); week++ {
			projections[week] = alpha.Projection{WeeklyMean: p.Baseline(league.RegSeasonGames())}
		}
		out[p.ID] = valuation.ROSValue(projections, multipliers)
	}
	return out
}

// SeasonOutlook runs C6's Monte Carlo engine over the league to produce
// every team's rest-of-season playoff/championship odds.
func (s *Service) SeasonOutlook(league models.LeagueContext) (simulate.Result, error) {
	engine := simulate.NewEngine(s.cfg.Simulate, league)
	return engine.RunSimulations(context.Background(), engine.Ratings())
}

// TradeAnalysis runs C7's trade analyzer given both sides' roster value
// deltas.
func (s *Service) TradeAnalysis(myValueBefore, myValueAfter, theirValueBefore, theirValueAfter float64, weeksRemaining int) decision.TradeAnalysis {
	return decision.AnalyzeTrade(myValueBefore, myValueAfter, theirValueBefore, theirValueAfter, weeksRemaining)
}

// AlphaAdjustedLeague returns a copy of league with every rostered
// player's ProjectedAvgPoints overwritten by its C4-blended weekly
// projection, so the Monte Carlo engine (C6) can be run twice — once
// against the raw league, once against this one — to measure the lift
// the alpha signal stack contributes (C8's A/B evaluation harness).
func (s *Service) AlphaAdjustedLeague(ctx context.Context, league models.LeagueContext, week int) (models.LeagueContext, error) {
	projections, _, err := s.WeekProjections(ctx, league, week)
	if err != nil {
		return models.LeagueContext{}, err
	}

	adjusted := league
	adjusted.Teams = make([]models.Team, len(league.Teams))
	for i, team := range league.Teams {
		adjusted.Teams[i] = team
		adjusted.Teams[i].Roster = make([]models.Player, len(team.Roster))
		for j, p := range team.Roster {
			if proj, ok := projections[p.ID]; ok {
				p.ProjectedAvgPoints = proj.WeeklyMean
			}
			adjusted.Teams[i].Roster[j] = p
		}
	}
	return adjusted, nil
}
