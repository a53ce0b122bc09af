// Command decide is the CLI entrypoint for the decision engine,
// grounded on fantasy_decision_maker.py's command surface: print a
// weekly report, a lineup recommendation, or a season outlook, all
// without standing up the HTTP server.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jstittsworth/ffdecision/internal/alpha"
	"github.com/jstittsworth/ffdecision/internal/orchestrate"
	"github.com/jstittsworth/ffdecision/internal/providers"
	"github.com/jstittsworth/ffdecision/internal/signals"
	"github.com/jstittsworth/ffdecision/internal/simulate"
	"github.com/jstittsworth/ffdecision/internal/valuation"
	"github.com/jstittsworth/ffdecision/pkg/config"
	applogger "github.com/jstittsworth/ffdecision/pkg/logger"
	"github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}
	applogger.Setup(cfg.IsDevelopment())

	switch os.Args[1] {
	case "report":
		runReport(cfg, os.Args[2:])
	case "lineup":
		runLineup(cfg, os.Args[2:])
	case "outlook":
		runOutlook(cfg, os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: decide <report|lineup|outlook> [flags]")
	fmt.Println("  report   generate the weekly decision report (lineup + free agents + outlook) for a team")
	fmt.Println("  lineup   print the optimal-lineup recommendation for a team")
	fmt.Println("  outlook  print the season-long playoff/championship odds for the league")
}

// noopCache satisfies providers.LeagueCache without a Redis dependency,
// for one-shot CLI runs that don't benefit from a persistent cache.
type noopCache struct{}

func (noopCache) SetSimple(key string, value interface{}, expiration time.Duration) error {
	return nil
}

func (noopCache) GetSimple(key string, dest interface{}) error {
	return fmt.Errorf("cache disabled for CLI runs")
}

func newESPNClient(cfg *config.Config) *providers.ESPNClient {
	return providers.NewESPNClient(noopCache{}, logrus.StandardLogger(), cfg.ESPNSWID, cfg.ESPNS2)
}

func buildOrchestrator(cfg *config.Config) *orchestrate.Service {
	signalsCfg := signals.DefaultConfig()
	signalsCfg.EnableExtendedSignals = cfg.EnableExtendedSignals
	signalsCfg.DegradeGracefully = cfg.DegradeGracefully
	provider := signals.NewProvider(nil, nil, signalsCfg)

	orchestratorCfg := orchestrate.Config{
		Alpha:     alpha.Config{ShrinkageK: cfg.ShrinkageK, MatchupScale: cfg.MatchupScale, RecentWeeks: cfg.RecentWeeks},
		Valuation: valuation.Config{ThinDVP: cfg.ThinDVP, MinWeeksPerOpponent: cfg.MinWeeksPerOpponent},
		Simulate:  simulate.Config{NumSimulations: cfg.SimulationsDecision, Workers: cfg.SimulationWorkers},
	}
	return orchestrate.NewService(orchestratorCfg, provider)
}

func runLineup(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("lineup", flag.ExitOnError)
	leagueID := fs.Int("league-id", cfg.ESPNLeagueID, "ESPN league ID")
	teamID := fs.String("team-id", "", "your team ID")
	week := fs.Int("week", 0, "week to optimize for (default: current week)")
	fs.Parse(args)

	if *teamID == "" {
		log.Fatal("--team-id is required")
	}

	espn := newESPNClient(cfg)
	league, err := espn.FetchLeagueContext(*leagueID, cfg.ESPNYear)
	if err != nil {
		log.Fatalf("fetch league context: %v", err)
	}

	svc := buildOrchestrator(cfg)
	targetWeek := *week
	if targetWeek <= 0 {
		targetWeek = league.CurrentWeek
	}
	recommendation, err := svc.LineupRecommendation(context.Background(), league, *teamID, targetWeek)
	if err != nil {
		log.Fatalf("lineup recommendation: %v", err)
	}
	printJSON(recommendation)
}

func runOutlook(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("outlook", flag.ExitOnError)
	leagueID := fs.Int("league-id", cfg.ESPNLeagueID, "ESPN league ID")
	fs.Parse(args)

	espn := newESPNClient(cfg)
	league, err := espn.FetchLeagueContext(*leagueID, cfg.ESPNYear)
	if err != nil {
		log.Fatalf("fetch league context: %v", err)
	}

	svc := buildOrchestrator(cfg)
	result, err := svc.SeasonOutlook(league)
	if err != nil {
		log.Fatalf("season outlook: %v", err)
	}
	printJSON(result)
}

func runReport(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	leagueID := fs.Int("league-id", cfg.ESPNLeagueID, "ESPN league ID")
	teamID := fs.String("team-id", "", "your team ID")
	fs.Parse(args)

	if *teamID == "" {
		log.Fatal("--team-id is required")
	}

	espn := newESPNClient(cfg)
	league, err := espn.FetchLeagueContext(*leagueID, cfg.ESPNYear)
	if err != nil {
		log.Fatalf("fetch league context: %v", err)
	}

	svc := buildOrchestrator(cfg)
	ctx := context.Background()

	lineup, err := svc.LineupRecommendation(ctx, league, *teamID, league.CurrentWeek)
	if err != nil {
		log.Fatalf("lineup recommendation: %v", err)
	}
	freeAgents, err := svc.FreeAgentRankings(ctx, league, *teamID, league.CurrentWeek, true, 10)
	if err != nil {
		log.Fatalf("free agent rankings: %v", err)
	}
	outlook, err := svc.SeasonOutlook(league)
	if err != nil {
		log.Fatalf("season outlook: %v", err)
	}

	printJSON(map[string]interface{}{
		"league_id":   *leagueID,
		"team_id":     *teamID,
		"week":        league.CurrentWeek,
		"lineup":      lineup,
		"free_agents": freeAgents,
		"outlook":     outlook,
	})
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Fatalf("encode output: %v", err)
	}
}
