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

// InjuryClient implements InjuryProvider against an HTTP injury report API.
// Reports are cached per team; they update a handful of times per day.
type InjuryClient struct {
	httpClient *RateLimitedHTTPClient
	cache      *ResponseCache
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *log.Logger
}

// injuryEntry is the provider's wire format for one report row
type injuryEntry struct {
	Player   string `json:"player"`
	Position string `json:"position"`
	Status   string `json:"status"`
}

// NewInjuryClient creates a new injury report client
func NewInjuryClient(httpClient *RateLimitedHTTPClient, cache *ResponseCache, baseURL, apiKey string, enabled bool, logger *log.Logger) *InjuryClient {
	return &InjuryClient{
		httpClient: httpClient,
		cache:      cache,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchInjuries retrieves the current injury report for a team
func (c *InjuryClient) FetchInjuries(ctx context.Context, league models.League, team string) ([]models.InjuryRecord, error) {
	if !c.enabled {
		return nil, NewProviderError(c.Name(), ErrCodeDisabled, providerDisabledMsg, ErrProviderDisabled)
	}

	cacheKey := fmt.Sprintf("injuries:%s:%s", league, team)
	if cached, found := c.cache.Get(cacheKey); found {
		if records, ok := cached.([]models.InjuryRecord); ok {
			return records, nil
		}
	}

	reqURL := fmt.Sprintf("%s/%s/injuries?team=%s", c.baseURL, league, url.QueryEscape(team))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, NewProviderError(c.Name(), ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewProviderError(c.Name(), ErrCodeNetworkError, "failed to fetch injuries", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(c.Name(), resp); err != nil {
		return nil, err
	}

	var entries []injuryEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, NewProviderError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	now := time.Now().UTC()
	records := make([]models.InjuryRecord, 0, len(entries))
	for _, entry := range entries {
		status := models.PlayerStatus(entry.Status)
		switch status {
		case models.StatusActive, models.StatusProbable, models.StatusQuestionable,
			models.StatusDoubtful, models.StatusOut:
		default:
			c.logger.Printf("Skipping injury entry for %s: unknown status %q", entry.Player, entry.Status)
			continue
		}
		records = append(records, models.InjuryRecord{
			Team:        team,
			League:      league,
			Player:      entry.Player,
			Position:    entry.Position,
			Status:      status,
			RetrievedAt: now,
		})
	}

	c.cache.Set(cacheKey, records)
	return records, nil
}

// Name returns the provider name
func (c *InjuryClient) Name() string {
	return "injury"
}

// IsEnabled returns whether this provider is enabled
func (c *InjuryClient) IsEnabled() bool {
	return c.enabled
}
