package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/yourusername/sharpline/internal/models"
)

const providerDisabledMsg = "provider is disabled"

// ScheduleClient implements ScheduleProvider against an HTTP schedule API
type ScheduleClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *log.Logger
}

// scheduleEntry is the provider's wire format for one scheduled game
type scheduleEntry struct {
	ID       string `json:"id"`
	Season   int    `json:"season"`
	Week     int    `json:"week"`
	HomeTeam string `json:"homeTeam"`
	AwayTeam string `json:"awayTeam"`
	Kickoff  string `json:"kickoff"`
	Venue    string `json:"venue"`
	Indoor   bool   `json:"indoor"`
}

// NewScheduleClient creates a new schedule provider client
func NewScheduleClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *log.Logger) *ScheduleClient {
	return &ScheduleClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchSchedule retrieves the slate for one league scoring period
func (c *ScheduleClient) FetchSchedule(ctx context.Context, league models.League, season, week int) ([]models.ScheduleRecord, error) {
	if !c.enabled {
		return nil, NewProviderError(c.Name(), ErrCodeDisabled, providerDisabledMsg, ErrProviderDisabled)
	}

	url := fmt.Sprintf("%s/%s/schedule?season=%d&week=%d", c.baseURL, league, season, week)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewProviderError(c.Name(), ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewProviderError(c.Name(), ErrCodeNetworkError, "failed to fetch schedule", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(c.Name(), resp); err != nil {
		return nil, err
	}

	var entries []scheduleEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, NewProviderError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	records := make([]models.ScheduleRecord, 0, len(entries))
	for _, entry := range entries {
		kickoff, err := time.Parse(time.RFC3339, entry.Kickoff)
		if err != nil {
			c.logger.Printf("Skipping schedule entry %s: bad kickoff time %q", entry.ID, entry.Kickoff)
			continue
		}
		records = append(records, models.ScheduleRecord{
			ProviderID:  entry.ID,
			Season:      entry.Season,
			Week:        entry.Week,
			League:      league,
			HomeTeam:    entry.HomeTeam,
			AwayTeam:    entry.AwayTeam,
			KickoffTime: kickoff.UTC(),
			Venue:       entry.Venue,
			Indoor:      entry.Indoor,
		})
	}

	return records, nil
}

// Name returns the provider name
func (c *ScheduleClient) Name() string {
	return "schedule"
}

// IsEnabled returns whether this provider is enabled
func (c *ScheduleClient) IsEnabled() bool {
	return c.enabled
}

// checkStatus maps non-200 responses onto typed provider errors
func checkStatus(provider string, resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return NewProviderError(provider, ErrCodeAuthenticationFailed, "invalid API key", ErrAuthenticationFailed)
	case resp.StatusCode == http.StatusNotFound:
		return NewProviderError(provider, ErrCodeNotFound, "resource not found", nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return NewProviderError(provider, ErrCodeRateLimitExceeded, "rate limit exceeded", ErrRateLimitExceeded)
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return NewProviderError(provider, ErrCodeServerError,
			fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)), nil)
	}
}
