// Package abeval implements the A/B evaluation mode supplementing C6:
// running N seeds of baseline-vs-alpha Monte Carlo simulation pairs and
// applying a decision gate to the aggregated lift distribution.
package abeval

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/jstittsworth/ffdecision/internal/models"
	"github.com/jstittsworth/ffdecision/internal/simulate"
)

// Profile is a named simulation-scale preset.
type Profile struct {
	Simulations int
	Seeds       int
}

var Profiles = map[string]Profile{
	"quick":   {Simulations: 1200, Seeds: 3},
	"default": {Simulations: 5000, Seeds: 7},
	"deep":    {Simulations: 12000, Seeds: 15},
}

// GateConfig is the decision gate applied to the weekly-points-lift
// distribution across seeds.
type GateConfig struct {
	MinWeeklyPointsLift   float64
	MaxDownsideProbability float64
	MinSuccessfulSeeds    int
}

func DefaultGate() GateConfig {
	return GateConfig{MinWeeklyPointsLift: 0.5, MaxDownsideProbability: 0.35, MinSuccessfulSeeds: 3}
}

// Config controls one A/B evaluation run.
type Config struct {
	LeagueID int
	TeamID   string
	Profile  string
	Gate     GateConfig
}

func ResolveProfile(name string) Profile {
	if p, ok := Profiles[name]; ok {
		return p
	}
	return Profiles["default"]
}

// SeedResult is one seed's baseline-vs-alpha comparison.
type SeedResult struct {
	Seed                 int64
	WeeklyPointsLift     float64
	PlayoffOddsLift      float64
	ChampionshipOddsLift float64
	CalibrationBrier     float64
	Status               string
	Error                string
}

// MetricSummary is the distributional summary of one lift metric
// across all successful seeds.
type MetricSummary struct {
	Metric              string
	N                   int
	Mean                float64
	Median              float64
	Std                 float64
	P05                 float64
	P95                 float64
	DownsideProbability float64
}

func summarize(name string, values []float64) MetricSummary {
	if len(values) == 0 {
		return MetricSummary{Metric: name, DownsideProbability: 1.0}
	}
	sorted := append([]float64{}, values...)
	sort.Float64s(sorted)

	var downside int
	for _, v := range values {
		if v < 0 {
			downside++
		}
	}

	return MetricSummary{
		Metric:              name,
		N:                   len(values),
		Mean:                mean(values),
		Median:              percentile(sorted, 50),
		Std:                 stddev(values),
		P05:                 percentile(sorted, 5),
		P95:                 percentile(sorted, 95),
		DownsideProbability: float64(downside) / float64(len(values)),
	}
}

// Decision is the gate's verdict and the reasoning behind it.
type Decision struct {
	Status  string // pass | fail | inconclusive
	Reasons []string
}

func decide(summary MetricSummary, successfulSeeds int, gate GateConfig) Decision {
	if successfulSeeds < gate.MinSuccessfulSeeds {
		return Decision{
			Status: "inconclusive",
			Reasons: []string{fmt.Sprintf("insufficient successful seeds (%d) < min_successful_seeds (%d)",
				successfulSeeds, gate.MinSuccessfulSeeds)},
		}
	}

	if summary.Mean > gate.MinWeeklyPointsLift && summary.DownsideProbability <= gate.MaxDownsideProbability {
		return Decision{
			Status: "pass",
			Reasons: []string{fmt.Sprintf("mean weekly points lift %.3f > %.3f and downside_probability %.3f <= %.3f",
				summary.Mean, gate.MinWeeklyPointsLift, summary.DownsideProbability, gate.MaxDownsideProbability)},
		}
	}

	if summary.P95 <= gate.MinWeeklyPointsLift || summary.DownsideProbability > gate.MaxDownsideProbability {
		return Decision{
			Status: "fail",
			Reasons: []string{fmt.Sprintf("lift profile did not clear gate: p95=%.3f, mean=%.3f, downside_probability=%.3f",
				summary.P95, summary.Mean, summary.DownsideProbability)},
		}
	}

	if summary.P05 <= gate.MinWeeklyPointsLift && gate.MinWeeklyPointsLift <= summary.P95 {
		return Decision{Status: "inconclusive", Reasons: []string{fmt.Sprintf(
			"confidence band overlaps threshold: p05=%.3f, p95=%.3f, threshold=%.3f",
			summary.P05, summary.P95, gate.MinWeeklyPointsLift)}}
	}
	return Decision{Status: "inconclusive", Reasons: []string{"signal is mixed across seeds; additional data is required"}}
}

// RatingsPair supplies the baseline and alpha-blended team ratings for
// one seed, so abeval stays decoupled from exactly how "alpha mode"
// ratings are derived (C4 projections blended into lineup scores).
type RatingsPair func(ctx context.Context, seed int64) (baseline, alpha map[string]simulate.TeamRating, err error)

// BrierFunc optionally supplies the calibration Brier score for a seed
// from the C8 projection backtest; omit to report zero.
type BrierFunc func(ctx context.Context, seed int64) (float64, error)

// Result is the full aggregate output of Run.
type Result struct {
	PerSeed  []SeedResult
	Summary  map[string]MetricSummary
	Decision Decision
}

// Run executes cfg.Gate-checked A/B evaluation across profile.Seeds
// seeds, pairing a baseline simulation against an alpha-mode simulation
// for each and aggregating the lift distributions.
func Run(ctx context.Context, cfg Config, profile Profile, league models.LeagueContext,
	ratings RatingsPair, brier BrierFunc) (Result, error) {

	var perSeed []SeedResult
	for seed := int64(1); seed <= int64(profile.Seeds); seed++ {
		result, err := runSeed(ctx, cfg, profile, league, seed, ratings, brier)
		if err != nil {
			perSeed = append(perSeed, SeedResult{Seed: seed, Status: "error", Error: err.Error()})
			continue
		}
		perSeed = append(perSeed, result)
	}

	var weekly, playoff, champ, briers []float64
	successful := 0
	for _, r := range perSeed {
		if r.Status != "ok" {
			continue
		}
		successful++
		weekly = append(weekly, r.WeeklyPointsLift)
		playoff = append(playoff, r.PlayoffOddsLift)
		champ = append(champ, r.ChampionshipOddsLift)
		briers = append(briers, r.CalibrationBrier)
	}

	weeklySummary := summarize("weekly_points_lift", weekly)
	summary := map[string]MetricSummary{
		"weekly_points_lift":     weeklySummary,
		"playoff_odds_lift":      summarize("playoff_odds_lift", playoff),
		"championship_odds_lift": summarize("championship_odds_lift", champ),
		"calibration_brier":      summarize("calibration_brier", briers),
	}

	return Result{
		PerSeed:  perSeed,
		Summary:  summary,
		Decision: decide(weeklySummary, successful, cfg.Gate),
	}, nil
}

func runSeed(ctx context.Context, cfg Config, profile Profile, league models.LeagueContext, seed int64,
	ratings RatingsPair, brier BrierFunc) (SeedResult, error) {

	baseline, alpha, err := ratings(ctx, seed)
	if err != nil {
		return SeedResult{}, fmt.Errorf("ratings for seed %d: %w", seed, err)
	}

	engine := simulate.NewEngine(simulate.Config{NumSimulations: profile.Simulations, Seed: seed}, league)

	baselineResult, err := engine.RunSimulations(ctx, baseline)
	if err != nil {
		return SeedResult{}, fmt.Errorf("baseline simulation for seed %d: %w", seed, err)
	}
	alphaResult, err := engine.RunSimulations(ctx, alpha)
	if err != nil {
		return SeedResult{}, fmt.Errorf("alpha simulation for seed %d: %w", seed, err)
	}

	baselineOdds := baselineResult.Odds[cfg.TeamID]
	alphaOdds := alphaResult.Odds[cfg.TeamID]

	weeklyLift := alpha[cfg.TeamID].Mean - baseline[cfg.TeamID].Mean

	var brierScore float64
	if brier != nil {
		brierScore, err = brier(ctx, seed)
		if err != nil {
			return SeedResult{}, fmt.Errorf("brier score for seed %d: %w", seed, err)
		}
	}

	return SeedResult{
		Seed:                 seed,
		WeeklyPointsLift:     weeklyLift,
		PlayoffOddsLift:      alphaOdds.PlayoffOdds - baselineOdds.PlayoffOdds,
		ChampionshipOddsLift: alphaOdds.ChampionshipOdds - baselineOdds.ChampionshipOdds,
		CalibrationBrier:     brierScore,
		Status:               "ok",
	}, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

func percentile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(q / 100.0 * float64(len(sorted)-1))
	if idx < 0 {
		idx = 0
	}
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}
