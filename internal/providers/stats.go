package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/yourusername/sharpline/internal/models"
)

// StatsClient implements StatsProvider against an HTTP team statistics API
type StatsClient struct {
	httpClient *RateLimitedHTTPClient
	cache      *ResponseCache
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *log.Logger
}

// statsEntry is the provider's wire format for one team's cumulative stats
type statsEntry struct {
	Team          string    `json:"team"`
	GamesPlayed   int       `json:"gamesPlayed"`
	Wins          int       `json:"wins"`
	Losses        int       `json:"losses"`
	PointsFor     float64   `json:"pointsFor"`
	PointsAgainst float64   `json:"pointsAgainst"`
	YardsFor      float64   `json:"yardsFor"`
	YardsAgainst  float64   `json:"yardsAgainst"`
	RecentMargins []float64 `json:"recentMargins"`
}

// NewStatsClient creates a new team statistics client
func NewStatsClient(httpClient *RateLimitedHTTPClient, cache *ResponseCache, baseURL, apiKey string, enabled bool, logger *log.Logger) *StatsClient {
	return &StatsClient{
		httpClient: httpClient,
		cache:      cache,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchTeamStats retrieves cumulative statistics for a team through a week
func (c *StatsClient) FetchTeamStats(ctx context.Context, league models.League, team string, season, week int) (*models.TeamStatRecord, error) {
	if !c.enabled {
		return nil, NewProviderError(c.Name(), ErrCodeDisabled, providerDisabledMsg, ErrProviderDisabled)
	}

	cacheKey := fmt.Sprintf("stats:%s:%s:%d:%d", league, team, season, week)
	if cached, found := c.cache.Get(cacheKey); found {
		if record, ok := cached.(*models.TeamStatRecord); ok {
			return record, nil
		}
	}

	reqURL := fmt.Sprintf("%s/%s/stats?team=%s&season=%d&week=%d",
		c.baseURL, league, url.QueryEscape(team), season, week)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, NewProviderError(c.Name(), ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewProviderError(c.Name(), ErrCodeNetworkError, "failed to fetch team stats", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(c.Name(), resp); err != nil {
		return nil, err
	}

	var entry statsEntry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return nil, NewProviderError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	record := &models.TeamStatRecord{
		Team:          team,
		League:        league,
		Season:        season,
		Week:          week,
		GamesPlayed:   entry.GamesPlayed,
		Wins:          entry.Wins,
		Losses:        entry.Losses,
		PointsFor:     entry.PointsFor,
		PointsAgainst: entry.PointsAgainst,
		YardsFor:      entry.YardsFor,
		YardsAgainst:  entry.YardsAgainst,
		RecentMargins: entry.RecentMargins,
		RetrievedAt:   time.Now().UTC(),
	}

	c.cache.Set(cacheKey, record)
	return record, nil
}

// Name returns the provider name
func (c *StatsClient) Name() string {
	return "stats"
}

// IsEnabled returns whether this provider is enabled
func (c *StatsClient) IsEnabled() bool {
	return c.enabled
}
