// Package signals implements the alpha signal provider (C3): a
// concurrent fan-out over five external feed domains (weather, market,
// odds, injury news, next-gen player tracking) that validates each
// payload against its canonical contract and blends 10 base signals
// (plus 7 extended signals, when enabled) into a per-player composite
// adjustment.
package signals

import (
	"fmt"

	"github.com/jstittsworth/ffdecision/internal/models"
)

// ContractMode controls how strictly canonical-feed validation failures
// are handled.
type ContractMode string

const (
	ContractOff    ContractMode = "off"
	ContractWarn   ContractMode = "warn"
	ContractStrict ContractMode = "strict"
)

// ValidateCanonicalFeed checks that an envelope's data payload carries
// the fields each domain's signal computations depend on. It never
// mutates env; callers decide what to do with a non-nil error (degrade
// to empty in warn mode, fail in strict mode).
func ValidateCanonicalFeed(domain models.FeedDomain, env models.FeedEnvelope) error {
	if env.Data == nil {
		return fmt.Errorf("%s: missing data payload", domain)
	}
	switch domain {
	case models.FeedWeather:
		return validateWeather(env.Data)
	case models.FeedMarket:
		return validateMarket(env.Data)
	case models.FeedOdds:
		return validateOdds(env.Data)
	case models.FeedInjuryNews:
		return validateInjuryNews(env.Data)
	case models.FeedNextGenStats:
		return validateNextGenStats(env.Data)
	default:
		return fmt.Errorf("unknown feed domain %q", domain)
	}
}

func validateWeather(data map[string]interface{}) error {
	if _, ok := data["team_weather"]; !ok {
		return fmt.Errorf("weather: missing team_weather")
	}
	return nil
}

func validateMarket(data map[string]interface{}) error {
	required := []string{"market_projections"}
	for _, key := range required {
		if _, ok := data[key]; !ok {
			return fmt.Errorf("market: missing %s", key)
		}
	}
	return nil
}

func validateOdds(data map[string]interface{}) error {
	required := []string{"defense_vs_position", "spread_by_team"}
	for _, key := range required {
		if _, ok := data[key]; !ok {
			return fmt.Errorf("odds: missing %s", key)
		}
	}
	return nil
}

func validateInjuryNews(data map[string]interface{}) error {
	if _, ok := data["injury_status_map"]; !ok {
		return fmt.Errorf("injury_news: missing injury_status_map")
	}
	return nil
}

func validateNextGenStats(data map[string]interface{}) error {
	if _, ok := data["nextgen_player_metrics"]; !ok {
		return fmt.Errorf("nextgenstats: missing nextgen_player_metrics")
	}
	return nil
}

// BuildEmptyEnvelope returns a degraded, empty-but-valid envelope used
// whenever a feed cannot be fetched or fails contract validation in
// warn mode.
func BuildEmptyEnvelope(flag string) models.FeedEnvelope {
	return models.FeedEnvelope{
		Data:         map[string]interface{}{},
		QualityFlags: []string{flag},
		Warnings:     []string{},
	}
}
