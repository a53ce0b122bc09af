package main

import (
	"fmt"
	"log"
	"os"

	"github.com/jstittsworth/ffdecision/internal/models"
	"github.com/jstittsworth/ffdecision/pkg/config"
	"github.com/jstittsworth/ffdecision/pkg/database"
	"github.com/sirupsen/logrus"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: migrate [up|down]")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		if err := runMigrations(db); err != nil {
			logrus.Fatalf("failed to run migrations: %v", err)
		}
		logrus.Info("migrations completed successfully")

	case "down":
		if err := dropTables(db); err != nil {
			logrus.Fatalf("failed to drop tables: %v", err)
		}
		logrus.Info("tables dropped successfully")

	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func runMigrations(db *database.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		logrus.Warnf("uuid-ossp extension unavailable (expected on sqlite): %v", err)
	}

	if err := db.AutoMigrate(
		&models.SnapshotRecord{},
		&models.BacktestRun{},
		&models.OpponentTendencyRun{},
		&models.ABEvaluationRun{},
	); err != nil {
		return fmt.Errorf("failed to migrate models: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_backtest_runs_league ON backtest_runs(league_id)",
		"CREATE INDEX IF NOT EXISTS idx_opponent_tendency_runs_league ON opponent_tendency_runs(league_id)",
		"CREATE INDEX IF NOT EXISTS idx_ab_evaluation_runs_league ON ab_evaluation_runs(league_id)",
	}
	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	return nil
}

func dropTables(db *database.DB) error {
	tables := []string{
		"ab_evaluation_runs",
		"opponent_tendency_runs",
		"backtest_runs",
		"snapshot_records",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to drop table %s: %w", table, err)
		}
	}
	return nil
}
