package signals

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/jstittsworth/ffdecision/internal/models"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// FeedClient fetches one domain's raw payload for a given league/year/
// week. Implementations wrap whatever upstream source the domain uses
// (weather API, market-projection aggregator, odds book, injury-news
// scraper, next-gen tracking feed).
type FeedClient interface {
	Fetch(ctx context.Context, leagueID, year, week int) (models.FeedEnvelope, error)
}

// Cache is the subset of services.CacheService a feed client needs;
// kept as a local interface so this package doesn't import the
// services package.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// HTTPFeedClient calls a JSON HTTP endpoint through a circuit breaker
// and a rate limiter. Fetch returns an error on any failure; the
// provider turns that into an empty envelope flagged fetch_failed (and,
// when DegradeGracefully is false, also copies the error text into the
// envelope's warnings).
type HTTPFeedClient struct {
	Domain   models.FeedDomain
	Endpoint string
	Client   *http.Client
	breaker  *gobreaker.CircuitBreaker
	limiter  *rate.Limiter
}

func NewHTTPFeedClient(domain models.FeedDomain, endpoint string, timeout time.Duration, requestsPerMinute int) *HTTPFeedClient {
	settings := gobreaker.Settings{
		Name:        string(domain) + "-feed",
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
	return &HTTPFeedClient{
		Domain:   domain,
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: timeout},
		breaker:  gobreaker.NewCircuitBreaker(settings),
		limiter:  rate.NewLimiter(rate.Limit(float64(requestsPerMinute)/60.0), requestsPerMinute),
	}
}

func (c *HTTPFeedClient) Fetch(ctx context.Context, leagueID, year, week int) (models.FeedEnvelope, error) {
	if c.Endpoint == "" {
		return models.FeedEnvelope{}, fmt.Errorf("%s: endpoint_not_configured", c.Domain)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return models.FeedEnvelope{}, fmt.Errorf("%s: rate limit wait: %w", c.Domain, err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doFetch(ctx, leagueID, year, week)
	})
	if err != nil {
		return models.FeedEnvelope{}, fmt.Errorf("%s: fetch_failed: %w", c.Domain, err)
	}
	return result.(models.FeedEnvelope), nil
}

func (c *HTTPFeedClient) doFetch(ctx context.Context, leagueID, year, week int) (models.FeedEnvelope, error) {
	url := fmt.Sprintf("%s?league_id=%d&year=%d&week=%d", c.Endpoint, leagueID, year, week)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.FeedEnvelope{}, err
	}
	resp, err := c.Client.Do(req)
	if err != nil {
		return models.FeedEnvelope{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return models.FeedEnvelope{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.FeedEnvelope{}, err
	}

	var payload struct {
		Data            map[string]interface{} `json:"data"`
		SourceTimestamp time.Time              `json:"source_timestamp"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return models.FeedEnvelope{}, fmt.Errorf("invalid_payload: %w", err)
	}

	return models.FeedEnvelope{
		Data:            payload.Data,
		SourceTimestamp: payload.SourceTimestamp,
		QualityFlags:    []string{},
		Warnings:        []string{},
	}, nil
}
