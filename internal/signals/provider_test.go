package signals

import (
	"context"
	"testing"
	"time"

	"github.com/jstittsworth/ffdecision/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	env models.FeedEnvelope
	err error
}

func (f fakeClient) Fetch(ctx context.Context, leagueID, year, week int) (models.FeedEnvelope, error) {
	return f.env, f.err
}

func emptyEnv() models.FeedEnvelope {
	return models.FeedEnvelope{Data: map[string]interface{}{}, SourceTimestamp: time.Now()}
}

func testLeague() models.LeagueContext {
	player := models.Player{
		ID: "p1", Name: "Test Player", Position: "WR",
		ProjectedAvgPoints: 12, PercentStarted: 60, PercentOwned: 55,
		Stats: map[int]models.WeeklyStat{1: {WeekID: 1, Points: 10}, 2: {WeekID: 2, Points: 14}, 3: {WeekID: 3, Points: 11}},
	}
	team := models.Team{ID: "t1", Roster: []models.Player{player}, Schedule: []string{"t2", "t2", "t2", "t2"}}
	opponent := models.Team{ID: "t2", Roster: nil}
	return models.LeagueContext{
		LeagueID: 1, Year: 2026, CurrentWeek: 4, RegSeasonCount: 14,
		Teams: []models.Team{team, opponent},
	}
}

func newTestProvider(cfg Config) *Provider {
	clients := map[models.FeedDomain]FeedClient{
		models.FeedWeather:      fakeClient{env: emptyEnv()},
		models.FeedMarket:       fakeClient{env: emptyEnv()},
		models.FeedOdds:         fakeClient{env: emptyEnv()},
		models.FeedInjuryNews:   fakeClient{env: emptyEnv()},
		models.FeedNextGenStats: fakeClient{env: emptyEnv()},
	}
	return NewProvider(clients, nil, cfg)
}

func TestEvaluate_ProducesAdjustmentForEveryPlayer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ContractMode = ContractOff
	p := newTestProvider(cfg)

	result, err := p.Evaluate(context.Background(), testLeague(), 4)
	require.NoError(t, err)
	assert.Contains(t, result.PlayerAdjustments, "p1")
	assert.Equal(t, 1, result.Diagnostics.PlayersEvaluated)
}

func TestEvaluate_MatchupMultiplierWithinBounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ContractMode = ContractOff
	p := newTestProvider(cfg)

	result, err := p.Evaluate(context.Background(), testLeague(), 4)
	require.NoError(t, err)
	m := result.MatchupOverrides["p1"]
	assert.GreaterOrEqual(t, m, 0.70)
	assert.LessOrEqual(t, m, 1.30)
}

func TestEvaluate_FinalAdjustmentWithinTotalCap(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ContractMode = ContractOff
	p := newTestProvider(cfg)

	result, err := p.Evaluate(context.Background(), testLeague(), 4)
	require.NoError(t, err)
	adj := result.PlayerAdjustments["p1"]
	assert.GreaterOrEqual(t, adj.FinalAdjustment, cfg.TotalAdjustmentCap.Low)
	assert.LessOrEqual(t, adj.FinalAdjustment, cfg.TotalAdjustmentCap.High)
}

func TestNormalizedWeights_SumToOne(t *testing.T) {
	cfg := DefaultConfig()
	weights := cfg.normalizedWeights()
	var sum float64
	for _, w := range weights {
		sum += w
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}

func TestNormalizedWeights_AllNonPositiveFallsBackToEqualSplit(t *testing.T) {
	cfg := DefaultConfig()
	for name := range cfg.Weights {
		cfg.Weights[name] = -1
	}
	weights := cfg.normalizedWeights()
	names := cfg.activeSignalNames()
	expected := 1.0 / float64(len(names))
	for _, name := range names {
		assert.InDelta(t, expected, weights[name], 1e-9)
	}
}

func TestNormalizeInjuryStatus_MapsIRToFullToken(t *testing.T) {
	assert.Equal(t, "INJURY_RESERVE", normalizeInjuryStatus("IR"))
	assert.Equal(t, "INJURY_RESERVE", normalizeInjuryStatus("ir"))
	assert.Equal(t, "OUT", normalizeInjuryStatus("out"))
	assert.Equal(t, "", normalizeInjuryStatus(""))
}

func TestValidateCanonicalFeed_MarketRequiresProjections(t *testing.T) {
	err := ValidateCanonicalFeed(models.FeedMarket, models.FeedEnvelope{Data: map[string]interface{}{}})
	assert.Error(t, err)

	err = ValidateCanonicalFeed(models.FeedMarket, models.FeedEnvelope{Data: map[string]interface{}{
		"market_projections": map[string]interface{}{},
	}})
	assert.NoError(t, err)
}

func TestEnforceContract_WarnModeDegradesToEmpty(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ContractMode = ContractWarn
	p := newTestProvider(cfg)

	badEnv := models.FeedEnvelope{Data: map[string]interface{}{"wrong_key": true}}
	env, warnings := p.enforceContract(models.FeedMarket, badEnv)
	assert.NotEmpty(t, warnings)
	assert.Contains(t, env.QualityFlags, "contract_degraded_to_empty")
	assert.Empty(t, env.Data)
}

func TestEnforceContract_StrictModeReturnsWarningWithoutDegrading(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ContractMode = ContractStrict
	p := newTestProvider(cfg)

	badEnv := models.FeedEnvelope{Data: map[string]interface{}{"wrong_key": true}}
	_, warnings := p.enforceContract(models.FeedMarket, badEnv)
	assert.NotEmpty(t, warnings)
}
