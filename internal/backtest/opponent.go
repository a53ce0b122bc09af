package backtest

import (
	"fmt"
	"math"
	"sort"
)

// WeeklyLineupSample is one week's starting lineup and the points it
// scored, used to derive an opponent's historical tendencies.
type WeeklyLineupSample struct {
	Week             int
	PlayerIDs        []string
	PositionPoints   map[string]float64
	TotalPoints      float64
}

// PositionPressure names the position whose mean points changed most
// between the first and last third of this opponent's sampled weeks,
// and by how much (first-third mean minus last-third mean).
type PositionPressure struct {
	TopPosition string
	TopDelta    float64
}

// OpponentTendencyReport is the narrative-tagged profile for one
// opponent built from their week-by-week lineup history.
type OpponentTendencyReport struct {
	OpponentID            string
	GamesSampled          int
	ScoreVolatility       float64
	HighCeilingRate       float64
	LineupStabilityIndex  float64
	WaiverAggressiveness  float64
	PositionPressure      PositionPressure
	EarlySeasonDelta      float64
	StatisticalConfidence float64
	ConfidenceBand        string // high | medium | low
	QualitativeTags       []string
	NarrativeSummary      string
}

func safeMean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func safeStd(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := safeMean(values)
	var sumSq float64
	for _, v := range values {
		d := v - m
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

func lineupStability(samples []WeeklyLineupSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	if len(samples) == 1 {
		return 1.0
	}
	var similarities []float64
	for i := 1; i < len(samples); i++ {
		prev := toSet(samples[i-1].PlayerIDs)
		curr := toSet(samples[i].PlayerIDs)
		union := len(unionSet(prev, curr))
		if union == 0 {
			similarities = append(similarities, 1.0)
			continue
		}
		similarities = append(similarities, float64(len(intersectSet(prev, curr)))/float64(union))
	}
	return safeMean(similarities)
}

func waiverAggressiveness(samples []WeeklyLineupSample) float64 {
	if len(samples) <= 1 {
		return 0
	}
	var changes []float64
	for i := 1; i < len(samples); i++ {
		prev := toSet(samples[i-1].PlayerIDs)
		curr := toSet(samples[i].PlayerIDs)
		union := unionSet(prev, curr)
		if len(union) == 0 {
			changes = append(changes, 0)
			continue
		}
		changes = append(changes, float64(len(symmetricDiff(prev, curr)))/float64(len(union)))
	}
	return safeMean(changes)
}

func firstLastSplitDelta(scores []float64) float64 {
	if len(scores) < 4 {
		return 0
	}
	cut := len(scores) / 3
	if cut < 1 {
		cut = 1
	}
	first := safeMean(scores[:cut])
	last := safeMean(scores[len(scores)-cut:])
	return first - last
}

func positionPressure(samples []WeeklyLineupSample) PositionPressure {
	deltas := make(map[string]float64)
	for _, pos := range []string{"QB", "RB", "WR", "TE", "K", "D/ST"} {
		var points []float64
		for _, s := range samples {
			points = append(points, s.PositionPoints[pos])
		}
		deltas[pos] = firstLastSplitDelta(points)
	}

	var topPos string
	var topDelta float64
	for pos, delta := range deltas {
		if math.Abs(delta) > math.Abs(topDelta) {
			topPos, topDelta = pos, delta
		}
	}
	return PositionPressure{TopPosition: topPos, TopDelta: topDelta}
}

func statisticalConfidence(games int, volatility float64, flags []string) float64 {
	sampleTerm := math.Min(0.95, float64(games)/10.0)
	volatilityPenalty := math.Min(0.35, math.Max(0.0, (volatility-10.0)/40.0))
	qualityPenalty := 0.0
	if len(flags) > 0 {
		qualityPenalty = 0.1
	}
	return math.Max(0.05, sampleTerm-volatilityPenalty-qualityPenalty)
}

func confidenceBand(score float64) string {
	switch {
	case score >= 0.7:
		return "high"
	case score >= 0.4:
		return "medium"
	default:
		return "low"
	}
}

// AnalyzeOpponentTendency builds the narrative-tagged profile for one
// opponent from their week-by-week lineup samples — grounded on
// `run_historical_backtest`'s per-opponent quantitative/narrative pass.
func AnalyzeOpponentTendency(opponentID string, samples []WeeklyLineupSample, minWeeksPerOpponent int, dataQualityFlags []string) OpponentTendencyReport {
	var scores []float64
	for _, s := range samples {
		scores = append(scores, s.TotalPoints)
	}

	volatility := safeStd(scores)
	games := len(samples)

	highCeilingRate := 0.0
	if games > 0 {
		mean := safeMean(scores)
		var highCeilingWeeks int
		for _, s := range scores {
			if s >= mean+volatility {
				highCeilingWeeks++
			}
		}
		highCeilingRate = float64(highCeilingWeeks) / float64(games)
	}

	stability := lineupStability(samples)
	pressure := positionPressure(samples)
	splitDelta := firstLastSplitDelta(scores)

	statConf := statisticalConfidence(games, volatility, dataQualityFlags)
	band := confidenceBand(statConf)

	tags, summary := buildNarrative(volatility, highCeilingRate, stability, splitDelta, pressure, games, minWeeksPerOpponent, band)

	return OpponentTendencyReport{
		OpponentID:            opponentID,
		GamesSampled:          games,
		ScoreVolatility:       volatility,
		HighCeilingRate:       highCeilingRate,
		LineupStabilityIndex:  stability,
		WaiverAggressiveness:  waiverAggressiveness(samples),
		PositionPressure:      pressure,
		EarlySeasonDelta:      splitDelta,
		StatisticalConfidence: statConf,
		ConfidenceBand:        band,
		QualitativeTags:       tags,
		NarrativeSummary:      summary,
	}
}

func buildNarrative(volatility, highCeilingRate, stability, splitDelta float64,
	pressure PositionPressure, games, minWeeks int, band string) ([]string, string) {

	var tags, evidence []string

	if volatility >= 18.0 {
		tags = append(tags, "Boom/Bust scorer")
		evidence = append(evidence, fmt.Sprintf("score_volatility=%.1f", volatility))
	}
	if highCeilingRate >= 0.4 {
		tags = append(tags, "High-ceiling threat")
		evidence = append(evidence, fmt.Sprintf("high_ceiling_rate=%.2f", highCeilingRate))
	}
	if stability >= 0.75 && volatility <= 12.0 {
		tags = append(tags, "Stable lineup grinder")
		evidence = append(evidence, fmt.Sprintf("lineup_stability_index=%.2f", stability))
	}
	if splitDelta >= 5.0 {
		tags = append(tags, "Fast starter")
		evidence = append(evidence, fmt.Sprintf("early_season_delta=%.1f", splitDelta))
	}
	if pressure.TopPosition != "" && math.Abs(pressure.TopDelta) >= 1.5 {
		tags = append(tags, fmt.Sprintf("%s-heavy pressure", pressure.TopPosition))
		evidence = append(evidence, fmt.Sprintf("top_position_delta=%.2f", pressure.TopDelta))
	}
	if games < minWeeks {
		tags = append(tags, "Sparse sample")
		evidence = append(evidence, fmt.Sprintf("games_sampled=%d", games))
	}
	if len(tags) == 0 {
		tags = append(tags, "Balanced tendency profile")
		evidence = append(evidence, "no major threshold triggers")
	}

	summary := fmt.Sprintf("%s. Evidence: %s. Confidence=%s.", joinStrings(tags, "; "), joinStrings(evidence, ", "), band)
	return tags, summary
}

func joinStrings(items []string, sep string) string {
	out := ""
	for i, item := range items {
		if i > 0 {
			out += sep
		}
		out += item
	}
	return out
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func unionSet(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}

func intersectSet(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for k := range a {
		if b[k] {
			out[k] = true
		}
	}
	return out
}

func symmetricDiff(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool)
	for k := range a {
		if !b[k] {
			out[k] = true
		}
	}
	for k := range b {
		if !a[k] {
			out[k] = true
		}
	}
	return out
}

// RankOpponentsByPressure sorts reports by absolute position-pressure
// delta descending, for surfacing the most tactically demanding
// opponents first.
func RankOpponentsByPressure(reports []OpponentTendencyReport) []OpponentTendencyReport {
	sorted := append([]OpponentTendencyReport{}, reports...)
	sort.Slice(sorted, func(i, j int) bool {
		return math.Abs(sorted[i].PositionPressure.TopDelta) > math.Abs(sorted[j].PositionPressure.TopDelta)
	})
	return sorted
}
