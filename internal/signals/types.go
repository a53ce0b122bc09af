package signals

import "github.com/jstittsworth/ffdecision/internal/models"

// SignalName identifies one of the 17 composite alpha signals.
type SignalName string

const (
	SignalProjectionResidual       SignalName = "projection_residual"
	SignalUsageTrend               SignalName = "usage_trend"
	SignalInjuryOpportunity        SignalName = "injury_opportunity"
	SignalMatchupUnit              SignalName = "matchup_unit"
	SignalGameScript               SignalName = "game_script"
	SignalVolatilityAware          SignalName = "volatility_aware"
	SignalWeatherVenue             SignalName = "weather_venue"
	SignalMarketSentiment          SignalName = "market_sentiment_contrarian"
	SignalWaiverReplacementValue   SignalName = "waiver_replacement_value"
	SignalShortTermScheduleCluster SignalName = "short_term_schedule_cluster"

	SignalPlayerTiltLeverage   SignalName = "player_tilt_leverage"
	SignalVegasProps           SignalName = "vegas_props"
	SignalWinProbabilityScript SignalName = "win_probability_script"
	SignalBackupQuality        SignalName = "backup_quality_adjustment"
	SignalRedZoneOpportunity   SignalName = "red_zone_opportunity"
	SignalSnapCountPercentage  SignalName = "snap_count_percentage"
	SignalLineMovement         SignalName = "line_movement"
)

// BaseSignalNames are always active.
func BaseSignalNames() []SignalName {
	return []SignalName{
		SignalProjectionResidual, SignalUsageTrend, SignalInjuryOpportunity,
		SignalMatchupUnit, SignalGameScript, SignalVolatilityAware,
		SignalWeatherVenue, SignalMarketSentiment, SignalWaiverReplacementValue,
		SignalShortTermScheduleCluster,
	}
}

// ExtendedSignalNames are only computed when EnableExtendedSignals is set.
func ExtendedSignalNames() []SignalName {
	return []SignalName{
		SignalPlayerTiltLeverage, SignalVegasProps, SignalWinProbabilityScript,
		SignalBackupQuality, SignalRedZoneOpportunity, SignalSnapCountPercentage,
		SignalLineMovement,
	}
}

// Bounds is an inclusive [Low, High] cap applied to a raw signal value
// before it is weighted into the composite adjustment.
type Bounds struct {
	Low, High float64
}

func (b Bounds) Clip(v float64) float64 {
	if v < b.Low {
		return b.Low
	}
	if v > b.High {
		return b.High
	}
	return v
}

// Config controls a Provider's weighting, caps, and degradation policy.
type Config struct {
	Weights                map[SignalName]float64
	Caps                   map[SignalName]Bounds
	TotalAdjustmentCap     Bounds
	MatchupMultiplierCap   Bounds
	EnableExtendedSignals  bool
	ContractMode           ContractMode
	ContractDomains        []models.FeedDomain
	DegradeGracefully      bool
	ScheduleHorizonWeeks   int
	FeedCacheTTLSeconds    int
}

// DefaultConfig returns sensible defaults grounded on the reference
// weighting scheme: every active signal starts with equal weight, and
// caps are wide enough to let any single signal matter without letting
// one feed outlier dominate the composite adjustment.
func DefaultConfig() Config {
	weights := map[SignalName]float64{}
	for _, name := range BaseSignalNames() {
		weights[name] = 1.0
	}
	for _, name := range ExtendedSignalNames() {
		weights[name] = 1.0
	}
	// volatility_aware is configured with a negative weight, which
	// normalizedWeights floors to 0: by default the signal takes no
	// share of the composite.
	weights[SignalVolatilityAware] = -0.4

	caps := map[SignalName]Bounds{
		SignalProjectionResidual:       {-4, 4},
		SignalUsageTrend:               {-3, 3},
		SignalInjuryOpportunity:        {-3.5, 1},
		SignalMatchupUnit:              {-2, 2},
		SignalGameScript:               {-1.5, 1.5},
		SignalVolatilityAware:          {-2, 1},
		SignalWeatherVenue:             {-1.5, 0.5},
		SignalMarketSentiment:          {-2, 2},
		SignalWaiverReplacementValue:   {-2, 2},
		SignalShortTermScheduleCluster: {-1.5, 1.5},
		SignalPlayerTiltLeverage:       {-3, 3},
		SignalVegasProps:               {-4, 4},
		SignalWinProbabilityScript:     {-2.5, 2.5},
		SignalBackupQuality:            {-1.5, 1.5},
		SignalRedZoneOpportunity:       {-1, 2},
		SignalSnapCountPercentage:      {-1, 1},
		SignalLineMovement:             {-1.5, 1.5},
	}

	return Config{
		Weights:               weights,
		Caps:                  caps,
		TotalAdjustmentCap:    Bounds{-8, 8},
		MatchupMultiplierCap:  Bounds{0.70, 1.30},
		EnableExtendedSignals: true,
		ContractMode:          ContractWarn,
		ContractDomains:       models.AllFeedDomains(),
		DegradeGracefully:     true,
		ScheduleHorizonWeeks:  3,
		FeedCacheTTLSeconds:   300,
	}
}

// activeSignalNames returns the signal set this config evaluates.
func (c Config) activeSignalNames() []SignalName {
	names := append([]SignalName{}, BaseSignalNames()...)
	if c.EnableExtendedSignals {
		names = append(names, ExtendedSignalNames()...)
	}
	return names
}

// normalizedWeights floors every configured weight at 0 and renormalizes
// the active set to sum to 1, falling back to an equal split when every
// weight is non-positive. This mirrors the reference implementation's
// positive_weights step: a signal can be configured with a conceptually
// negative influence (see volatility_aware), but the blending weight
// itself is always a non-negative share of the composite.
func (c Config) normalizedWeights() map[SignalName]float64 {
	names := c.activeSignalNames()
	positive := make(map[SignalName]float64, len(names))
	var sum float64
	for _, name := range names {
		w := c.Weights[name]
		if w < 0 {
			w = 0
		}
		positive[name] = w
		sum += w
	}
	if sum <= 0 {
		equal := 1.0 / float64(len(names))
		for _, name := range names {
			positive[name] = equal
		}
		return positive
	}
	for _, name := range names {
		positive[name] /= sum
	}
	return positive
}

func (c Config) capFor(name SignalName) Bounds {
	if b, ok := c.Caps[name]; ok {
		return b
	}
	return Bounds{-10, 10}
}

// PlayerAdjustment is the provider's output for a single player.
type PlayerAdjustment struct {
	PlayerID           string
	Signals            map[SignalName]float64
	WeightedSignals    map[SignalName]float64
	FinalAdjustment    float64
	MatchupMultiplier  float64
	InjuryStatus       string
	ExtendedEnabled    bool
}

// Diagnostics summarizes a full provider run across all evaluated
// players.
type Diagnostics struct {
	PlayersEvaluated         int
	PlayersWithNonZeroAlpha  int
	CapHitsTotalAdjustment   int
	QualityFlags             []string
	ActiveSignals            []string
	ExtendedSignalsEnabled   bool
}

// Result is the full return value of a provider run.
type Result struct {
	PlayerAdjustments map[string]PlayerAdjustment
	InjuryOverrides   map[string]string
	MatchupOverrides  map[string]float64
	Diagnostics       Diagnostics
	Warnings          []string
}
