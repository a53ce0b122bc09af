package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/jstittsworth/ffdecision/internal/api"
	"github.com/jstittsworth/ffdecision/internal/api/handlers"
	"github.com/jstittsworth/ffdecision/internal/api/middleware"
	"github.com/jstittsworth/ffdecision/internal/models"
	"github.com/jstittsworth/ffdecision/internal/orchestrate"
	"github.com/jstittsworth/ffdecision/internal/providers"
	"github.com/jstittsworth/ffdecision/internal/signals"
	"github.com/jstittsworth/ffdecision/internal/snapshot"
	"github.com/jstittsworth/ffdecision/internal/valuation"
	"github.com/jstittsworth/ffdecision/internal/simulate"
	"github.com/jstittsworth/ffdecision/internal/alpha"
	"github.com/jstittsworth/ffdecision/internal/services"
	"github.com/jstittsworth/ffdecision/pkg/config"
	"github.com/jstittsworth/ffdecision/pkg/database"
	applogger "github.com/jstittsworth/ffdecision/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("failed to load config: %v", err)
	}

	applogger.Setup(cfg.IsDevelopment())
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewConnection(cfg.DatabaseURL, cfg.IsDevelopment())
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logrus.Fatalf("failed to parse redis url: %v", err)
	}
	redisClient := redis.NewClient(opt)
	ctx := context.Background()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logrus.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	cacheService := services.NewCacheService(redisClient)
	webSocketHub := services.NewWebSocketHub()
	go webSocketHub.Run()

	espnClient := providers.NewESPNClient(cacheService, logrus.StandardLogger(), cfg.ESPNSWID, cfg.ESPNS2)

	feedClients := map[models.FeedDomain]signals.FeedClient{
		models.FeedWeather:      signals.NewHTTPFeedClient(models.FeedWeather, cfg.WeatherEndpoint, cfg.ExternalAPITimeout, cfg.FeedRequestsPerMinute),
		models.FeedMarket:       signals.NewHTTPFeedClient(models.FeedMarket, cfg.MarketEndpoint, cfg.ExternalAPITimeout, cfg.FeedRequestsPerMinute),
		models.FeedOdds:         signals.NewHTTPFeedClient(models.FeedOdds, cfg.OddsEndpoint, cfg.ExternalAPITimeout, cfg.FeedRequestsPerMinute),
		models.FeedInjuryNews:   signals.NewHTTPFeedClient(models.FeedInjuryNews, cfg.InjuryNewsEndpoint, cfg.ExternalAPITimeout, cfg.FeedRequestsPerMinute),
		models.FeedNextGenStats: signals.NewHTTPFeedClient(models.FeedNextGenStats, cfg.NextGenStatsEndpoint, cfg.ExternalAPITimeout, cfg.FeedRequestsPerMinute),
	}

	signalsCfg := signals.DefaultConfig()
	signalsCfg.EnableExtendedSignals = cfg.EnableExtendedSignals
	signalsCfg.DegradeGracefully = cfg.DegradeGracefully
	signalsCfg.FeedCacheTTLSeconds = cfg.FeedCacheTTLSeconds
	if cfg.CanonicalContractMode == "strict" {
		signalsCfg.ContractMode = signals.ContractStrict
	}
	provider := signals.NewProvider(feedClients, cacheService, signalsCfg)

	orchestratorCfg := orchestrate.Config{
		Alpha: alpha.Config{ShrinkageK: cfg.ShrinkageK, MatchupScale: cfg.MatchupScale, RecentWeeks: cfg.RecentWeeks},
		Valuation: valuation.Config{ThinDVP: cfg.ThinDVP, MinWeeksPerOpponent: cfg.MinWeeksPerOpponent},
		Simulate: simulate.Config{NumSimulations: cfg.SimulationsDecision, Workers: cfg.SimulationWorkers},
	}
	orchestrator := orchestrate.NewService(orchestratorCfg, provider)

	snapshotStore := snapshot.New(cfg.SnapshotRoot, cfg.SnapshotRetentionDays)

	var scheduler *services.SnapshotScheduler
	if cfg.ESPNLeagueID > 0 {
		scheduler = services.NewSnapshotScheduler(espnClient, provider, cfg.ESPNLeagueID, cfg.ESPNYear, logrus.StandardLogger())
		if err := scheduler.Start(cfg.SnapshotRefreshInterval); err != nil {
			logrus.Errorf("failed to start snapshot scheduler: %v", err)
		} else {
			defer scheduler.Stop()
		}
	}

	deps := &handlers.Deps{
		DB:           db,
		Orchestrator: orchestrator,
		Leagues:      espnClient,
		Snapshots:    snapshotStore,
		Hub:          webSocketHub,
		Logger:       logrus.StandardLogger(),
		Year:         cfg.ESPNYear,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.Logger())
	router.Use(middleware.CORS(cfg.CorsOrigins))

	apiV1 := router.Group("/api/v1")
	api.SetupRoutes(apiV1, deps, cfg)

	wsHandler := handlers.NewWebSocketHandler(webSocketHub)
	router.GET("/ws", middleware.OptionalAuth(cfg.JWTSecret), wsHandler.HandleWebSocket)

	logrus.Info("=== registered routes ===")
	for _, route := range router.Routes() {
		logrus.Infof("%s %s", route.Method, route.Path)
	}
	logrus.Info("=========================")

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logrus.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Errorf("server forced to shutdown: %v", err)
	}

	logrus.Info("server exited")
}
