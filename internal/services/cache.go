package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

type CacheService struct {
	client *redis.Client
}

func NewCacheService(client *redis.Client) *CacheService {
	return &CacheService{
		client: client,
	}
}

func (s *CacheService) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	if err := s.client.Set(ctx, key, data, expiration).Err(); err != nil {
		return fmt.Errorf("failed to set cache: %w", err)
	}

	return nil
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return fmt.Errorf("key not found")
		}
		return fmt.Errorf("failed to get cache: %w", err)
	}

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("failed to unmarshal value: %w", err)
	}

	return nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	if err := s.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to delete cache: %w", err)
	}
	return nil
}

func (s *CacheService) Exists(ctx context.Context, key string) (bool, error) {
	val, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cache existence: %w", err)
	}
	return val > 0, nil
}

// Cache key generators

// PlayerModelCacheKey keys a trained C1 performance model by player.
func PlayerModelCacheKey(playerID string) string {
	return fmt.Sprintf("player_model:%s", playerID)
}

// FeedCacheKey keys one feed domain's envelope for a league/year/week,
// mirroring the provider's own feedCacheKey so handlers can invalidate
// what the provider populated.
func FeedCacheKey(domain string, leagueID, year, week int) string {
	return fmt.Sprintf("alpha-feed:%s:%d:%d:%d", domain, leagueID, year, week)
}

// ProjectionCacheKey keys one team's blended weekly projections.
func ProjectionCacheKey(leagueID int, week int, teamID string) string {
	return fmt.Sprintf("projection:%d:%d:%s", leagueID, week, teamID)
}

// SeasonOutlookCacheKey keys a Monte Carlo season-simulation result.
func SeasonOutlookCacheKey(leagueID int) string {
	return fmt.Sprintf("season_outlook:%d", leagueID)
}

// BacktestResultCacheKey keys a persisted backtest run by its run ID.
func BacktestResultCacheKey(runID string) string {
	return fmt.Sprintf("backtest_result:%s", runID)
}

// ABEvaluationCacheKey keys a persisted A/B evaluation run by its run ID.
func ABEvaluationCacheKey(runID string) string {
	return fmt.Sprintf("ab_evaluation:%s", runID)
}

// Cache with retry logic
func (s *CacheService) SetWithRetry(ctx context.Context, key string, value interface{}, expiration time.Duration, maxRetries int) error {
	var err error
	for i := 0; i < maxRetries; i++ {
		if err = s.Set(ctx, key, value, expiration); err == nil {
			return nil
		}
		logrus.Warnf("Cache set failed (attempt %d/%d): %v", i+1, maxRetries, err)
		time.Sleep(time.Millisecond * 100 * time.Duration(i+1))
	}
	return err
}

// Convenience methods without context (use background context)
func (s *CacheService) SetSimple(key string, value interface{}, expiration time.Duration) error {
	return s.Set(context.Background(), key, value, expiration)
}

func (s *CacheService) GetSimple(key string, dest interface{}) error {
	return s.Get(context.Background(), key, dest)
}

// Flush clears all cache entries
func (s *CacheService) Flush() error {
	return s.client.FlushDB(context.Background()).Err()
}
