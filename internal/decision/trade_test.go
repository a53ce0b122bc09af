package decision

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyzeTrade_BothSidesGainYieldsHighAcceptance(t *testing.T) {
	analysis := AnalyzeTrade(100, 110, 100, 108, 10)
	assert.Greater(t, analysis.AcceptanceProbability, 70.0)
	assert.Equal(t, "ACCEPT", analysis.Recommendation)
}

func TestAnalyzeTrade_OneSidedWinLowAcceptance(t *testing.T) {
	analysis := AnalyzeTrade(100, 130, 100, 70, 10)
	assert.Less(t, analysis.AcceptanceProbability, 30.0)
	assert.True(t, analysis.AsymmetricAdvantage)
}

func TestAnalyzeTrade_BothLoseYieldsVeryLowAcceptance(t *testing.T) {
	analysis := AnalyzeTrade(100, 95, 100, 95, 10)
	assert.LessOrEqual(t, analysis.AcceptanceProbability, 10.0)
}

func TestAnalyzeTrade_ProbabilityAlwaysWithinBounds(t *testing.T) {
	cases := [][4]float64{
		{100, 200, 100, 0}, {100, 0, 100, 200}, {50, 50, 50, 50}, {1, 1000, 1, -1000},
	}
	for _, c := range cases {
		analysis := AnalyzeTrade(c[0], c[1], c[2], c[3], 8)
		assert.GreaterOrEqual(t, analysis.AcceptanceProbability, 0.0)
		assert.LessOrEqual(t, analysis.AcceptanceProbability, 100.0)
	}
}

func TestAnalyzeTrade_ZeroWeeksRemainingDefaultsToOne(t *testing.T) {
	analysis := AnalyzeTrade(100, 110, 100, 105, 0)
	assert.Equal(t, 1, analysis.WeeksRemaining)
}

func TestAnalyzeTrade_RejectsWhenMyValueDrops(t *testing.T) {
	analysis := AnalyzeTrade(100, 90, 100, 110, 10)
	assert.Equal(t, "REJECT", analysis.Recommendation)
}
