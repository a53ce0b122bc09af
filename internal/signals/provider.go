package signals

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jstittsworth/ffdecision/internal/models"
)

// Provider fans out to every feed domain and blends the results into a
// per-player composite alpha adjustment.
type Provider struct {
	clients map[models.FeedDomain]FeedClient
	cache   Cache
	cfg     Config
}

func NewProvider(clients map[models.FeedDomain]FeedClient, cache Cache, cfg Config) *Provider {
	return &Provider{clients: clients, cache: cache, cfg: cfg}
}

func feedCacheKey(domain models.FeedDomain, leagueID, year, week int) string {
	return fmt.Sprintf("alpha-feed:%s:%d:%d:%d", domain, leagueID, year, week)
}

// fetchAllFeeds fetches every configured domain concurrently, applying
// cache-then-network, contract validation, and graceful degradation.
func (p *Provider) fetchAllFeeds(ctx context.Context, leagueID, year, week int) (map[models.FeedDomain]models.FeedEnvelope, []string) {
	out := make(map[models.FeedDomain]models.FeedEnvelope, len(p.clients))
	var warnings []string
	var mu sync.Mutex
	var wg sync.WaitGroup

	for domain, client := range p.clients {
		wg.Add(1)
		go func(domain models.FeedDomain, client FeedClient) {
			defer wg.Done()
			env, envWarnings := p.fetchOne(ctx, domain, client, leagueID, year, week)
			mu.Lock()
			out[domain] = env
			warnings = append(warnings, envWarnings...)
			mu.Unlock()
		}(domain, client)
	}
	wg.Wait()
	return out, warnings
}

func (p *Provider) fetchOne(ctx context.Context, domain models.FeedDomain, client FeedClient, leagueID, year, week int) (models.FeedEnvelope, []string) {
	key := feedCacheKey(domain, leagueID, year, week)
	var cached models.FeedEnvelope
	if p.cache != nil {
		if err := p.cache.Get(ctx, key, &cached); err == nil {
			return p.enforceContract(domain, cached)
		}
	}

	env, err := client.Fetch(ctx, leagueID, year, week)
	if err != nil {
		flag := "fetch_failed"
		env = BuildEmptyEnvelope(flag)
		if !p.cfg.DegradeGracefully {
			env.Warnings = append(env.Warnings, fmt.Sprintf("%s: %v", domain, err))
		}
		return env, []string{fmt.Sprintf("%s:%s", domain, flag)}
	}

	if p.cache != nil {
		ttl := time.Duration(p.cfg.FeedCacheTTLSeconds) * time.Second
		_ = p.cache.Set(ctx, key, env, ttl)
	}
	return p.enforceContract(domain, env)
}

func (p *Provider) enforceContract(domain models.FeedDomain, env models.FeedEnvelope) (models.FeedEnvelope, []string) {
	if p.cfg.ContractMode == ContractOff {
		return env, nil
	}
	if env.HasFlag("feed_disabled") || env.HasFlag("endpoint_not_configured") ||
		env.HasFlag("fetch_failed") || env.HasFlag("invalid_payload") {
		return env, nil
	}
	if !p.domainInScope(domain) {
		return env, nil
	}
	if err := ValidateCanonicalFeed(domain, env); err != nil {
		warning := fmt.Sprintf("%s_contract_error:%v", domain, err)
		env.Warnings = append(env.Warnings, warning)
		env.QualityFlags = append(env.QualityFlags, "contract_invalid")
		if p.cfg.ContractMode == ContractStrict {
			return env, []string{warning}
		}
		env.Data = map[string]interface{}{}
		env.QualityFlags = append(env.QualityFlags, "contract_degraded_to_empty")
		return env, []string{warning}
	}
	return env, nil
}

func (p *Provider) domainInScope(domain models.FeedDomain) bool {
	if len(p.cfg.ContractDomains) == 0 {
		return true
	}
	for _, d := range p.cfg.ContractDomains {
		if d == domain {
			return true
		}
	}
	return false
}

type playerContext struct {
	player     models.Player
	teamID     string
	opponentID string
	baseline   float64
	recentAvg  float64
	olderAvg   float64
	volatility float64
}

// Evaluate computes the full per-player composite alpha adjustment for
// the given week.
func (p *Provider) Evaluate(ctx context.Context, league models.LeagueContext, week int) (Result, error) {
	feeds, fetchWarnings := p.fetchAllFeeds(ctx, league.LeagueID, league.Year, week)

	market := asMap(feedData(feeds, models.FeedMarket))
	odds := asMap(feedData(feeds, models.FeedOdds))
	weather := asMap(feedData(feeds, models.FeedWeather))
	injury := asMap(feedData(feeds, models.FeedInjuryNews))
	nextgen := asMap(feedData(feeds, models.FeedNextGenStats))

	regGames := league.RegSeasonGames()
	weights := p.cfg.normalizedWeights()

	contexts, injuryOverrides, ownership := p.buildPlayerContexts(league, week, injury)
	replacementByPosition, starterByTeamPosition, meanOwnershipByPosition, injuredCounts := p.buildPositionAggregates(league, contexts, injuryOverrides, ownership)

	adjustments := make(map[string]PlayerAdjustment, len(contexts))
	matchupOverrides := make(map[string]float64)
	flags := append([]string{}, fetchWarnings...)
	nonZero := 0
	capHits := 0

	for _, pc := range contexts {
		signalsOut := p.computeSignals(pc, week, regGames, market, odds, weather, nextgen,
			injuryOverrides, ownership, replacementByPosition, starterByTeamPosition,
			meanOwnershipByPosition, injuredCounts)

		weighted := make(map[SignalName]float64, len(signalsOut))
		var weightedSum float64
		for name, raw := range signalsOut {
			w := weights[name]
			weighted[name] = raw * w
			weightedSum += weighted[name]
		}

		final := p.cfg.TotalAdjustmentCap.Clip(weightedSum)
		if final == p.cfg.TotalAdjustmentCap.Low || final == p.cfg.TotalAdjustmentCap.High {
			capHits++
		}
		if final != 0 {
			nonZero++
		}

		scheduleCluster := signalsOut[SignalShortTermScheduleCluster]
		weatherVenue := signalsOut[SignalWeatherVenue]
		dvp := nestedNestedFloat(odds, "defense_vs_position", pc.teamID, pc.player.Position, 0)
		matchupSignalMultiplier := p.cfg.MatchupMultiplierCap.Clip(1.0 + 0.025*dvp)
		multiplier := matchupSignalMultiplier * (1 + 0.01*scheduleCluster) * (1 + clip(weatherVenue*0.02, -0.03, 0.03))
		multiplier = p.cfg.MatchupMultiplierCap.Clip(multiplier)
		matchupOverrides[pc.player.ID] = multiplier

		adjustments[pc.player.ID] = PlayerAdjustment{
			PlayerID:          pc.player.ID,
			Signals:           signalsOut,
			WeightedSignals:   weighted,
			FinalAdjustment:   final,
			MatchupMultiplier: multiplier,
			InjuryStatus:      injuryOverrides[pc.player.ID],
			ExtendedEnabled:   p.cfg.EnableExtendedSignals,
		}
	}

	activeNames := make([]string, 0, len(weights))
	for name := range weights {
		activeNames = append(activeNames, string(name))
	}

	return Result{
		PlayerAdjustments: adjustments,
		InjuryOverrides:   injuryOverrides,
		MatchupOverrides:  matchupOverrides,
		Diagnostics: Diagnostics{
			PlayersEvaluated:        len(contexts),
			PlayersWithNonZeroAlpha: nonZero,
			CapHitsTotalAdjustment:  capHits,
			QualityFlags:            flags,
			ActiveSignals:           activeNames,
			ExtendedSignalsEnabled:  p.cfg.EnableExtendedSignals,
		},
		Warnings: fetchWarnings,
	}, nil
}

func feedData(feeds map[models.FeedDomain]models.FeedEnvelope, domain models.FeedDomain) map[string]interface{} {
	env, ok := feeds[domain]
	if !ok {
		return map[string]interface{}{}
	}
	if env.Data == nil {
		return map[string]interface{}{}
	}
	return env.Data
}

func (p *Provider) buildPlayerContexts(league models.LeagueContext, week int, injury map[string]interface{}) ([]playerContext, map[string]string, map[string]float64) {
	var contexts []playerContext
	injuryOverrides := make(map[string]string)
	ownership := make(map[string]float64)

	injuryStatusMap := asMap(injury["injury_status_map"])

	for _, team := range league.Teams {
		for _, player := range team.Roster {
			baseline := player.Baseline(league.RegSeasonGames())
			recent := player.RecentPoints(week)
			var recentWindow, olderWindow []float64
			if len(recent) > 3 {
				recentWindow, olderWindow = recent[:3], recent[3:min(6, len(recent))]
			} else {
				recentWindow = recent
			}
			recentAvg := fallbackMean(recentWindow, baseline)
			olderAvg := fallbackMean(olderWindow, baseline)

			var volSample []float64
			if len(recent) > 6 {
				volSample = recent[:6]
			} else {
				volSample = recent
			}
			volatility := stddev(volSample)
			if len(volSample) < 2 {
				volatility = maxFloat(2.0, baseline*0.2)
			}

			status := player.InjuryStatus
			if injuryStatusMap != nil {
				if override, ok := injuryStatusMap[player.ID]; ok {
					status = asString(override, status)
				}
			}
			status = normalizeInjuryStatus(status)
			if !healthyStatus(status) {
				injuryOverrides[player.ID] = status
			}

			own := player.PercentOwned / 100.0
			if own == 0 {
				own = player.PercentStarted / 100.0
			}
			ownership[player.ID] = own

			contexts = append(contexts, playerContext{
				player:     player,
				teamID:     team.ID,
				opponentID: team.OpponentForWeek(week),
				baseline:   baseline,
				recentAvg:  recentAvg,
				olderAvg:   olderAvg,
				volatility: volatility,
			})
		}
	}
	return contexts, injuryOverrides, ownership
}

func (p *Provider) buildPositionAggregates(league models.LeagueContext, contexts []playerContext, injuryOverrides map[string]string, ownership map[string]float64) (
	map[string]float64, map[string]map[string]float64, map[string]float64, map[string]map[string]int) {

	positionValues := map[string][]float64{}
	starterByTeamPosition := map[string]map[string]float64{}
	ownershipByPosition := map[string][]float64{}
	injuredCounts := map[string]map[string]int{}

	for _, pc := range contexts {
		pos := pc.player.Position
		positionValues[pos] = append(positionValues[pos], pc.baseline)
		ownershipByPosition[pos] = append(ownershipByPosition[pos], ownership[pc.player.ID])

		if starterByTeamPosition[pc.teamID] == nil {
			starterByTeamPosition[pc.teamID] = map[string]float64{}
		}
		if pc.baseline > starterByTeamPosition[pc.teamID][pos] {
			starterByTeamPosition[pc.teamID][pos] = pc.baseline
		}

		if status, outlike := injuryOverrides[pc.player.ID]; outlike && outlikeStatus(status) {
			if injuredCounts[pc.teamID] == nil {
				injuredCounts[pc.teamID] = map[string]int{}
			}
			injuredCounts[pc.teamID][pos]++
		}
	}

	replacementByPosition := map[string]float64{}
	for pos, values := range positionValues {
		replacementByPosition[pos] = percentile(values, 35)
	}

	meanOwnershipByPosition := map[string]float64{}
	for pos, values := range ownershipByPosition {
		if len(values) == 0 {
			meanOwnershipByPosition[pos] = 0.5
			continue
		}
		meanOwnershipByPosition[pos] = mean(values)
	}

	return replacementByPosition, starterByTeamPosition, meanOwnershipByPosition, injuredCounts
}

func fallbackMean(values []float64, fallback float64) float64 {
	if len(values) == 0 {
		return fallback
	}
	return mean(values)
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
