package backtest

import (
	"testing"

	"github.com/jstittsworth/ffdecision/internal/alpha"
	"github.com/stretchr/testify/assert"
)

func projWeek(playerID string, week int, mean, std, realized float64, asOfOK bool) RealizedWeek {
	return RealizedWeek{
		PlayerID:       playerID,
		Week:           week,
		Projection:     alpha.Projection{PlayerID: playerID, WeeklyMean: mean, WeeklyStd: std},
		RealizedPoints: realized,
		ResolvedAsOfOK: asOfOK,
	}
}

func TestRunProjectionBacktest_EmptyInputReturnsZeroResult(t *testing.T) {
	result := RunProjectionBacktest(nil)
	assert.Equal(t, 0, result.WeeksEvaluated)
	assert.Equal(t, 0.0, result.MAE)
	assert.Empty(t, result.Reliability)
}

func TestRunProjectionBacktest_ComputesMeanAbsoluteError(t *testing.T) {
	weeks := []RealizedWeek{
		projWeek("p1", 1, 10, 3, 12, true),
		projWeek("p2", 1, 20, 3, 16, true),
	}
	result := RunProjectionBacktest(weeks)
	assert.Equal(t, 2, result.WeeksEvaluated)
	assert.InDelta(t, 3.0, result.MAE, 1e-9)
}

func TestRunProjectionBacktest_BrierScoreWithinBounds(t *testing.T) {
	weeks := []RealizedWeek{
		projWeek("p1", 1, 10, 3, 25, true),
		projWeek("p2", 1, 20, 3, 1, true),
		projWeek("p3", 1, 12, 3, 12, true),
	}
	result := RunProjectionBacktest(weeks)
	assert.GreaterOrEqual(t, result.BrierScore, 0.0)
	assert.LessOrEqual(t, result.BrierScore, 1.0)
}

func TestRunProjectionBacktest_ExcludesFutureLeakageEntries(t *testing.T) {
	weeks := []RealizedWeek{
		projWeek("p1", 1, 10, 3, 12, true),
		projWeek("p2", 2, 10, 3, 12, false),
		projWeek("p3", 2, 10, 3, 12, false),
	}
	result := RunProjectionBacktest(weeks)
	assert.Equal(t, 1, result.WeeksEvaluated)
	assert.Equal(t, 2, result.FutureLeakageExcluded)
	assert.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "future_leakage_excluded")
}

func TestRunProjectionBacktest_AllExcludedReturnsEmptyReliability(t *testing.T) {
	weeks := []RealizedWeek{
		projWeek("p1", 1, 10, 3, 12, false),
	}
	result := RunProjectionBacktest(weeks)
	assert.Equal(t, 0, result.WeeksEvaluated)
	assert.Equal(t, 1, result.FutureLeakageExcluded)
	assert.Empty(t, result.Reliability)
}

func TestReliabilityTable_BucketsByConfidenceAscending(t *testing.T) {
	var weeks []RealizedWeek
	for i := 0; i < 20; i++ {
		conf := float64(i) / 20.0
		proj := alpha.Projection{PlayerID: "p", WeeklyMean: 10, WeeklyStd: 2, Confidence: conf}
		weeks = append(weeks, RealizedWeek{PlayerID: "p", Week: i, Projection: proj, RealizedPoints: 10, ResolvedAsOfOK: true})
	}
	buckets := reliabilityTable(weeks)
	assert.NotEmpty(t, buckets)
	for i := 1; i < len(buckets); i++ {
		assert.LessOrEqual(t, buckets[i-1].ConfidenceLow, buckets[i].ConfidenceLow)
	}
}

func TestReliabilityTable_HitRateReflectsBandCoverage(t *testing.T) {
	var weeks []RealizedWeek
	for i := 0; i < 10; i++ {
		proj := alpha.Projection{PlayerID: "p", WeeklyMean: 10, WeeklyStd: 2, Confidence: 0.5}
		weeks = append(weeks, RealizedWeek{PlayerID: "p", Week: i, Projection: proj, RealizedPoints: 10, ResolvedAsOfOK: true})
	}
	buckets := reliabilityTable(weeks)
	for _, b := range buckets {
		assert.Equal(t, 1.0, b.HitRate)
	}
}
