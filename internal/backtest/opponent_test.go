package backtest

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sample(week int, total float64, ids []string, posPoints map[string]float64) WeeklyLineupSample {
	return WeeklyLineupSample{Week: week, PlayerIDs: ids, PositionPoints: posPoints, TotalPoints: total}
}

func TestLineupStability_IdenticalLineupsScoreOne(t *testing.T) {
	samples := []WeeklyLineupSample{
		sample(1, 100, []string{"a", "b", "c"}, nil),
		sample(2, 110, []string{"a", "b", "c"}, nil),
	}
	assert.Equal(t, 1.0, lineupStability(samples))
}

func TestLineupStability_CompletelyDifferentLineupsScoreZero(t *testing.T) {
	samples := []WeeklyLineupSample{
		sample(1, 100, []string{"a", "b"}, nil),
		sample(2, 110, []string{"c", "d"}, nil),
	}
	assert.Equal(t, 0.0, lineupStability(samples))
}

func TestLineupStability_SingleSampleReturnsOne(t *testing.T) {
	samples := []WeeklyLineupSample{sample(1, 100, []string{"a"}, nil)}
	assert.Equal(t, 1.0, lineupStability(samples))
}

func TestWaiverAggressiveness_NoChangeIsZero(t *testing.T) {
	samples := []WeeklyLineupSample{
		sample(1, 100, []string{"a", "b"}, nil),
		sample(2, 100, []string{"a", "b"}, nil),
	}
	assert.Equal(t, 0.0, waiverAggressiveness(samples))
}

func TestWaiverAggressiveness_FullTurnoverIsOne(t *testing.T) {
	samples := []WeeklyLineupSample{
		sample(1, 100, []string{"a", "b"}, nil),
		sample(2, 100, []string{"c", "d"}, nil),
	}
	assert.Equal(t, 1.0, waiverAggressiveness(samples))
}

func TestPositionPressure_FlagsLargestDeltaPosition(t *testing.T) {
	var samples []WeeklyLineupSample
	for week := 1; week <= 6; week++ {
		qb := 15.0
		rb := 10.0
		if week >= 5 {
			rb = 25.0
		}
		samples = append(samples, sample(week, qb+rb, nil, map[string]float64{"QB": qb, "RB": rb}))
	}
	pressure := positionPressure(samples)
	assert.Equal(t, "RB", pressure.TopPosition)
	assert.Less(t, pressure.TopDelta, 0.0)
}

func TestStatisticalConfidence_MoreGamesIncreasesConfidence(t *testing.T) {
	low := statisticalConfidence(2, 5, nil)
	high := statisticalConfidence(12, 5, nil)
	assert.Greater(t, high, low)
}

func TestStatisticalConfidence_HighVolatilityReducesConfidence(t *testing.T) {
	calm := statisticalConfidence(10, 5, nil)
	volatile := statisticalConfidence(10, 40, nil)
	assert.Greater(t, calm, volatile)
}

func TestConfidenceBand_Thresholds(t *testing.T) {
	assert.Equal(t, "high", confidenceBand(0.8))
	assert.Equal(t, "medium", confidenceBand(0.5))
	assert.Equal(t, "low", confidenceBand(0.1))
}

func TestAnalyzeOpponentTendency_FlagsBoomBustForHighVolatility(t *testing.T) {
	samples := []WeeklyLineupSample{
		sample(1, 60, []string{"a", "b"}, nil),
		sample(2, 160, []string{"a", "b"}, nil),
		sample(3, 50, []string{"a", "b"}, nil),
		sample(4, 170, []string{"a", "b"}, nil),
	}
	report := AnalyzeOpponentTendency("opp1", samples, 3, nil)
	assert.Equal(t, "opp1", report.OpponentID)
	assert.Contains(t, report.QualitativeTags, "Boom/Bust scorer")
}

func TestAnalyzeOpponentTendency_SparseSampleFlaggedBelowMinWeeks(t *testing.T) {
	samples := []WeeklyLineupSample{sample(1, 100, []string{"a"}, nil)}
	report := AnalyzeOpponentTendency("opp2", samples, 5, nil)
	assert.Contains(t, report.QualitativeTags, "Sparse sample")
}

func TestAnalyzeOpponentTendency_FallsBackToBalancedWhenNoTriggers(t *testing.T) {
	// Small score spread (ceiling hit in 2 of 6 weeks), a lineup that
	// rotates one slot every week, and flat early/late splits: no
	// threshold fires.
	totals := []float64{100, 101, 99, 100, 101, 99}
	var samples []WeeklyLineupSample
	for week := 1; week <= 6; week++ {
		lineup := []string{"a", "b"}
		if week%2 == 0 {
			lineup = []string{"a", "c"}
		}
		total := totals[week-1]
		samples = append(samples, sample(week, total, lineup, map[string]float64{"QB": 50, "RB": total - 50}))
	}
	report := AnalyzeOpponentTendency("opp3", samples, 3, nil)
	assert.Contains(t, report.QualitativeTags, "Balanced tendency profile")
}

func TestAnalyzeOpponentTendency_NarrativeSummaryIncludesConfidenceBand(t *testing.T) {
	samples := []WeeklyLineupSample{sample(1, 100, []string{"a"}, nil)}
	report := AnalyzeOpponentTendency("opp4", samples, 3, nil)
	assert.Contains(t, report.NarrativeSummary, report.ConfidenceBand)
}

func TestRankOpponentsByPressure_SortsDescendingByAbsoluteDelta(t *testing.T) {
	reports := []OpponentTendencyReport{
		{OpponentID: "low", PositionPressure: PositionPressure{TopPosition: "RB", TopDelta: 1.0}},
		{OpponentID: "high", PositionPressure: PositionPressure{TopPosition: "WR", TopDelta: -8.0}},
		{OpponentID: "mid", PositionPressure: PositionPressure{TopPosition: "QB", TopDelta: 3.0}},
	}
	ranked := RankOpponentsByPressure(reports)
	assert.Equal(t, "high", ranked[0].OpponentID)
	assert.Equal(t, "mid", ranked[1].OpponentID)
	assert.Equal(t, "low", ranked[2].OpponentID)
}
