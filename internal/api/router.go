package api

import (
	"github.com/gin-gonic/gin"
	"github.com/jstittsworth/ffdecision/internal/api/handlers"
	"github.com/jstittsworth/ffdecision/internal/api/middleware"
	"github.com/jstittsworth/ffdecision/pkg/config"
)

// SetupRoutes configures the decision engine's HTTP surface on the
// given router group, wiring every handler against the shared
// dependency bundle.
func SetupRoutes(group *gin.RouterGroup, deps *handlers.Deps, cfg *config.Config) {
	healthHandler := handlers.NewHealthHandler()
	lineupHandler := handlers.NewLineupHandler(deps)
	freeAgentHandler := handlers.NewFreeAgentHandler(deps)
	tradeHandler := handlers.NewTradeHandler(deps)
	outlookHandler := handlers.NewOutlookHandler(deps)
	backtestHandler := handlers.NewBacktestHandler(deps)
	abEvalHandler := handlers.NewABEvalHandler(deps)
	snapshotHandler := handlers.NewSnapshotHandler(deps)

	group.GET("/health", healthHandler.GetHealth)

	leagues := group.Group("/leagues")
	leagues.Use(middleware.OptionalAuth(cfg.JWTSecret))
	{
		leagues.GET("/:id/weeks/:week/lineup-recommendation", lineupHandler.GetLineupRecommendation)
		leagues.GET("/:id/free-agents", freeAgentHandler.GetFreeAgents)
		leagues.GET("/:id/season-outlook", outlookHandler.GetSeasonOutlook)
		leagues.GET("/:id/snapshots/:feed", snapshotHandler.GetFeedSnapshot)
	}

	mutating := group.Group("/leagues")
	mutating.Use(middleware.AuthRequired(cfg.JWTSecret))
	{
		mutating.POST("/:id/trades/analyze", tradeHandler.AnalyzeTrade)
		mutating.POST("/:id/backtests", backtestHandler.RunBacktest)
		mutating.POST("/:id/ab-evaluations", abEvalHandler.RunABEvaluation)
	}
}
