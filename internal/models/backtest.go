package models

import (
	"time"

	"gorm.io/datatypes"
)

// BacktestRun persists one execution of the per-week projection
// backtest (C8): MAE/Brier/reliability against realized outcomes, under
// the as-of leakage guard.
type BacktestRun struct {
	ID                    uint           `gorm:"primaryKey" json:"id"`
	RunID                 string         `gorm:"uniqueIndex" json:"run_id"`
	LeagueID              int            `gorm:"index" json:"league_id"`
	Year                  int            `json:"year"`
	WeekStart             int            `json:"week_start"`
	WeekEnd               int            `json:"week_end"`
	MAE                   float64        `json:"mae"`
	BrierScore            float64        `json:"brier_score"`
	ReliabilityTable      datatypes.JSON `json:"reliability_table"`
	ExcludedCount         int            `json:"excluded_count"`
	Warnings              datatypes.JSON `json:"warnings"`
	CreatedAt             time.Time      `json:"created_at"`
}

// OpponentTendencyRun persists one execution of the historical
// opponent-tendency backtest (supplemented from historical_backtest.py).
type OpponentTendencyRun struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	RunID     string         `gorm:"uniqueIndex" json:"run_id"`
	LeagueID  int            `gorm:"index" json:"league_id"`
	TeamID    string         `json:"team_id"`
	Opponents datatypes.JSON `json:"opponents"`
	CreatedAt time.Time      `json:"created_at"`
}

// ABEvaluationRun persists one alpha-vs-baseline A/B evaluation
// (supplemented from ab_evaluation.py).
type ABEvaluationRun struct {
	ID                      uint           `gorm:"primaryKey" json:"id"`
	RunID                   string         `gorm:"uniqueIndex" json:"run_id"`
	LeagueID                int            `gorm:"index" json:"league_id"`
	Profile                 string         `json:"profile"`
	ConfigHash              string         `json:"config_hash"`
	SuccessfulSeeds         int            `json:"successful_seeds"`
	WeeklyPointsLiftMean    float64        `json:"weekly_points_lift_mean"`
	PlayoffOddsLiftMean     float64        `json:"playoff_odds_lift_mean"`
	ChampionshipOddsLift    float64        `json:"championship_odds_lift_mean"`
	CalibrationBrier        float64        `json:"calibration_brier"`
	Decision                string         `json:"decision"`
	DecisionReasons         datatypes.JSON `json:"decision_reasons"`
	CreatedAt               time.Time      `json:"created_at"`
}
