package signals

import "strings"

var healthyStatuses = map[string]bool{"NONE": true, "ACTIVE": true, "": true}
var outlikeStatuses = map[string]bool{"OUT": true, "DOUBTFUL": true, "INJURY_RESERVE": true, "SUSPENSION": true}

// normalizeInjuryStatus maps provider-specific tokens (notably ESPN's
// "IR" abbreviation) onto the full uppercase token used everywhere else
// in this package, per the engine's injury-status convention.
func normalizeInjuryStatus(status string) string {
	s := strings.ToUpper(strings.TrimSpace(status))
	if s == "IR" {
		return "INJURY_RESERVE"
	}
	return s
}

func healthyStatus(status string) bool {
	return healthyStatuses[status]
}

func outlikeStatus(status string) bool {
	return outlikeStatuses[status]
}

var usagePositionScale = map[string]float64{
	"RB": 1.15, "WR": 1.10, "TE": 0.90, "QB": 0.85, "K": 0.40, "D/ST": 0.40,
}

var injuryBaseComponent = map[string]float64{
	"OUT": -3.0, "INJURY_RESERVE": -3.0, "DOUBTFUL": -1.8,
	"QUESTIONABLE": -0.8, "P": -0.4, "SUSPENSION": -2.5,
}

var wpPositionWeight = map[string]float64{
	"QB": -1.0, "WR": -0.85, "TE": -0.60, "RB": 0.95, "K": 0.20, "D/ST": 0.25,
}

var backupWeightByPosition = map[string]float64{
	"QB": 1.0, "RB": 0.4, "WR": 0.2, "TE": 0.3, "K": 0.1, "D/ST": 0.15,
}

var lineMoveWeightByPosition = map[string]float64{
	"QB": 0.15, "RB": 0.20, "WR": 0.15, "TE": 0.10, "K": 0.05, "D/ST": 0.12,
}

// computeSignals evaluates every active signal for one player, returning
// raw (un-weighted, capped) values keyed by signal name.
func (p *Provider) computeSignals(
	pc playerContext, week, regGames int,
	market, odds, weather, nextgen map[string]interface{},
	injuryOverrides map[string]string, ownership map[string]float64,
	replacementByPosition map[string]float64, starterByTeamPosition map[string]map[string]float64,
	meanOwnershipByPosition map[string]float64, injuredCounts map[string]map[string]int,
) map[SignalName]float64 {

	pos := pc.player.Position
	teamID := pc.teamID
	opponentID := pc.opponentID

	out := map[SignalName]float64{}

	externalProjection := nestedFloat(market, "market_projections", pc.player.ID, 0)
	residual := 0.0
	if externalProjection != 0 {
		residual = 0.3 * (externalProjection - pc.baseline)
	}
	ngSeparation := nestedNestedFloat(nextgen, "nextgen_player_metrics", pc.player.ID, "ng_avg_separation", 0)
	ngExplosiveRate := nestedNestedFloat(nextgen, "nextgen_player_metrics", pc.player.ID, "ng_explosive_play_rate", 0)
	residual += 0.20*ngExplosiveRate + 0.10*ngSeparation
	out[SignalProjectionResidual] = p.cfg.capFor(SignalProjectionResidual).Clip(residual)

	usageBase := nestedFloat(market, "usage_trend_map", pc.player.ID, pc.recentAvg-pc.olderAvg)
	ngUsageOverExpected := nestedNestedFloat(nextgen, "nextgen_player_metrics", pc.player.ID, "ng_usage_over_expected", 0)
	ngRouteParticipation := nestedNestedFloat(nextgen, "nextgen_player_metrics", pc.player.ID, "ng_route_participation", 0)
	usage := usageBase + 0.30*ngUsageOverExpected
	if pos == "WR" || pos == "TE" {
		usage += 0.12 * ngRouteParticipation
	}
	scale, ok := usagePositionScale[pos]
	if !ok {
		scale = 1.0
	}
	out[SignalUsageTrend] = p.cfg.capFor(SignalUsageTrend).Clip(usage * scale)

	status := injuryOverrides[pc.player.ID]
	if status == "" {
		status = "ACTIVE"
	}
	injuryComponent := injuryBaseComponent[status]
	teammateOut := injuredCounts[teamID][pos]
	if outlikeStatus(status) && teammateOut > 0 {
		teammateOut--
	}
	if healthyStatus(status) && teammateOut > 0 {
		injuryComponent += 0.8 * float64(teammateOut)
	}
	out[SignalInjuryOpportunity] = p.cfg.capFor(SignalInjuryOpportunity).Clip(injuryComponent)

	dvp := nestedNestedFloat(odds, "defense_vs_position", opponentID, pos, 0)
	out[SignalMatchupUnit] = p.cfg.capFor(SignalMatchupUnit).Clip(0.2 * dvp)

	spread := nestedFloat(odds, "spread_by_team", teamID, 0)
	impliedTotal := nestedFloat(odds, "implied_total_by_team", teamID, 22.0)
	favorite := spread < 0
	var scriptBase float64
	switch pos {
	case "QB", "WR", "TE":
		if favorite {
			scriptBase = -0.30
		} else {
			scriptBase = 0.35
		}
	case "RB":
		if favorite {
			scriptBase = 0.40
		} else {
			scriptBase = -0.25
		}
	default:
		scriptBase = 0.05
	}
	gameScript := scriptBase + 0.08*((impliedTotal-22.0)/3.0)
	out[SignalGameScript] = p.cfg.capFor(SignalGameScript).Clip(gameScript)

	ngVolatility := nestedNestedFloat(nextgen, "nextgen_player_metrics", pc.player.ID, "ng_volatility_index", pc.volatility)
	volatilityProxy := maxFloat(0, 0.55*pc.volatility+0.45*ngVolatility)
	volAware := -0.08 * volatilityProxy
	if volatilityProxy < 4.0 {
		volAware += 0.25
	}
	out[SignalVolatilityAware] = p.cfg.capFor(SignalVolatilityAware).Clip(volAware)

	weatherVenue := computeWeatherVenue(weather, teamID, pos)
	out[SignalWeatherVenue] = p.cfg.capFor(SignalWeatherVenue).Clip(weatherVenue)

	sentiment := computeMarketSentiment(market, pc, residual)
	out[SignalMarketSentiment] = p.cfg.capFor(SignalMarketSentiment).Clip(sentiment)

	replacementValue := replacementByPosition[pos]
	if replacementValue == 0 {
		replacementValue = pc.baseline
	}
	starterValue := starterByTeamPosition[teamID][pos]
	if starterValue == 0 {
		starterValue = replacementValue
	}
	waiver := 0.03*(pc.baseline-replacementValue) + 0.08*(pc.baseline-starterValue)
	out[SignalWaiverReplacementValue] = p.cfg.capFor(SignalWaiverReplacementValue).Clip(waiver)

	scheduleStrength := computeScheduleCluster(odds, market, teamID, p.cfg.ScheduleHorizonWeeks)
	out[SignalShortTermScheduleCluster] = p.cfg.capFor(SignalShortTermScheduleCluster).Clip(0.25*scheduleStrength + 0.05*dvp)

	if p.cfg.EnableExtendedSignals {
		ownershipDelta := meanOwnershipByPosition[pos] - ownership[pc.player.ID]
		residualZ := clip(residual/maxFloat(2.0, pc.baseline*0.35), -2.5, 2.5)
		out[SignalPlayerTiltLeverage] = p.cfg.capFor(SignalPlayerTiltLeverage).Clip(2.0 * ownershipDelta * residualZ)

		lineOpen := nestedNestedFloat(market, "player_props_by_player", pc.player.ID, "line_open", pc.baseline)
		lineCurrent := nestedNestedFloat(market, "player_props_by_player", pc.player.ID, "line_current", pc.baseline)
		sharpOverPct := nestedNestedFloat(market, "player_props_by_player", pc.player.ID, "sharp_over_pct", 0.5)
		lineEdge := (lineCurrent - pc.baseline) / maxFloat(5, absFloat(pc.baseline))
		lineMove := (lineCurrent - lineOpen) / maxFloat(3, absFloat(lineOpen))
		vegas := 3.0*lineEdge + 1.8*lineMove + 1.5*(sharpOverPct-0.5)
		out[SignalVegasProps] = p.cfg.capFor(SignalVegasProps).Clip(vegas)

		winProb := nestedFloat(odds, "win_probability_by_team", teamID, 0.5)
		quarter := nestedNestedFloat(odds, "live_game_state_by_team", teamID, "quarter", 1)
		scoreDiff := nestedNestedFloat(odds, "live_game_state_by_team", teamID, "score_differential", 0)
		liveWeight := clip((quarter-1)/3.0, 0, 1)
		scorePressure := clip(scoreDiff/14.0, -1.5, 1.5)
		wpWeight := wpPositionWeight[pos]
		wpScript := 1.8*(winProb-0.5)*wpWeight + 0.7*liveWeight*scorePressure*wpWeight
		out[SignalWinProbabilityScript] = p.cfg.capFor(SignalWinProbabilityScript).Clip(wpScript)

		backupRatio := nestedFloat(market, "backup_projection_ratio_by_player", pc.player.ID, 1.0)
		backupWeight := backupWeightByPosition[pos]
		backupAdj := 0.0
		if backupRatio < 0.40 {
			backupAdj = 0.15 * backupWeight
		} else if backupRatio > 0.80 {
			backupAdj = -0.10 * backupWeight
		}
		out[SignalBackupQuality] = p.cfg.capFor(SignalBackupQuality).Clip(backupAdj)

		rzShare := nestedNestedFloat(nextgen, "nextgen_player_metrics", pc.player.ID, "red_zone_touch_share", 0)
		rzTrend := nestedNestedFloat(nextgen, "nextgen_player_metrics", pc.player.ID, "red_zone_touch_trend", 0)
		out[SignalRedZoneOpportunity] = p.cfg.capFor(SignalRedZoneOpportunity).Clip(0.20*clip(rzShare, 0, 1) + 0.30*clip(rzTrend, -1, 1))

		snapShare := nestedNestedFloat(nextgen, "nextgen_player_metrics", pc.player.ID, "snap_share", 0.5)
		snapTrend := nestedNestedFloat(nextgen, "nextgen_player_metrics", pc.player.ID, "snap_share_trend", 0)
		snapLevel := clip((snapShare-0.50)/0.30, -1, 1)
		snapTrendLevel := clip(snapTrend/0.10, -1, 1)
		out[SignalSnapCountPercentage] = p.cfg.capFor(SignalSnapCountPercentage).Clip(0.20*snapLevel + 0.30*snapTrendLevel)

		openingSpread := nestedFloat(odds, "opening_spread_by_team", teamID, spread)
		closingSpread := nestedFloat(odds, "closing_spread_by_team", teamID, spread)
		spreadMove := closingSpread - openingSpread
		lineMoveWeight, ok := lineMoveWeightByPosition[pos]
		if !ok {
			lineMoveWeight = 0.08
		}
		sign := 1.0
		if spreadMove > 0 {
			sign = -1.0
		} else if spreadMove < 0 {
			sign = 1.0
		} else {
			sign = 0
		}
		out[SignalLineMovement] = p.cfg.capFor(SignalLineMovement).Clip(lineMoveWeight * sign * clip(absFloat(spreadMove), 0, 4))
	}

	return out
}

func computeWeatherVenue(weather map[string]interface{}, teamID, pos string) float64 {
	teamWeather := asMap(asMap(weather["team_weather"])[teamID])
	if teamWeather == nil {
		return 0
	}
	dome := asString(teamWeather["venue"], "") == "dome"
	posGroup := pos == "QB" || pos == "WR" || pos == "TE"

	if dome {
		if posGroup {
			return 0.15
		}
		return 0.05
	}

	wind := asFloat(teamWeather["wind_mph"], 0)
	precip := asFloat(teamWeather["precip_probability"], 0)
	value := 0.0
	if wind >= 15 {
		if posGroup {
			value -= 0.5
		} else {
			value -= 0.1
		}
	}
	if wind >= 22 {
		if posGroup {
			value -= 0.4
		} else {
			value -= 0.1
		}
	}
	if precip >= 0.4 {
		if posGroup {
			value -= 0.4
		} else {
			value -= 0.05
		}
	}
	return value
}

func computeMarketSentiment(market map[string]interface{}, pc playerContext, residual float64) float64 {
	sentimentMap := asMap(market["sentiment_map"])
	var score, startDelta float64
	if sentimentMap != nil {
		if raw, ok := sentimentMap[pc.player.ID]; ok {
			switch v := raw.(type) {
			case float64:
				score = v
			case map[string]interface{}:
				score = asFloat(v["score"], 0)
				startDelta = asFloat(v["start_delta"], 0)
			}
		}
	}
	value := -0.5 * score
	startedPct := pc.player.PercentStarted
	if startedPct >= 75 && residual < 0 {
		value -= minFloat(1.0, absFloat(residual)*0.12)
	}
	if startedPct <= 40 && residual > 0 {
		value += minFloat(1.0, residual*0.12)
	}
	value -= 0.10 * startDelta
	return value
}

func computeScheduleCluster(odds, market map[string]interface{}, teamID string, horizonWeeks int) float64 {
	raw := asMap(odds["odds_schedule"])[teamID]
	if raw == nil {
		raw = asMap(market["market_schedule"])[teamID]
	}
	if raw == nil {
		return 0
	}
	if list := floatList(raw); list != nil {
		n := horizonWeeks
		if n > len(list) {
			n = len(list)
		}
		if n == 0 {
			return 0
		}
		return mean(list[:n])
	}
	return asFloat(raw, 0)
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
