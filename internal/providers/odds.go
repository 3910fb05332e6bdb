package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yourusername/sharpline/internal/models"
)

// OddsClient implements OddsProvider against an HTTP odds snapshot API
type OddsClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *log.Logger
}

// marketEntry is the provider's wire format for one book's line on one game
type marketEntry struct {
	GameID        string   `json:"gameId"`
	Book          string   `json:"book"`
	HomeTeam      string   `json:"homeTeam"`
	AwayTeam      string   `json:"awayTeam"`
	Kickoff       string   `json:"kickoff"`
	HomeSpread    float64  `json:"homeSpread"`
	Total         *float64 `json:"total"`
	MoneylineHome *int     `json:"moneylineHome"`
	MoneylineAway *int     `json:"moneylineAway"`
	SpreadPrice   *string  `json:"spreadPrice"`
}

// NewOddsClient creates a new odds snapshot client
func NewOddsClient(httpClient *RateLimitedHTTPClient, baseURL, apiKey string, enabled bool, logger *log.Logger) *OddsClient {
	return &OddsClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchMarkets retrieves per-book market snapshots for a scoring period
func (c *OddsClient) FetchMarkets(ctx context.Context, league models.League, season, week int) ([]models.MarketRecord, error) {
	if !c.enabled {
		return nil, NewProviderError(c.Name(), ErrCodeDisabled, providerDisabledMsg, ErrProviderDisabled)
	}

	url := fmt.Sprintf("%s/%s/odds?season=%d&week=%d", c.baseURL, league, season, week)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, NewProviderError(c.Name(), ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewProviderError(c.Name(), ErrCodeNetworkError, "failed to fetch odds", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(c.Name(), resp); err != nil {
		return nil, err
	}

	var entries []marketEntry
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, NewProviderError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	now := time.Now().UTC()
	records := make([]models.MarketRecord, 0, len(entries))
	for _, entry := range entries {
		record, err := c.convertMarket(&entry, now)
		if err != nil {
			c.logger.Printf("Skipping market entry %s: %v", entry.GameID, err)
			continue
		}
		records = append(records, *record)
	}

	return records, nil
}

// Name returns the provider name
func (c *OddsClient) Name() string {
	return "odds"
}

// IsEnabled returns whether this provider is enabled
func (c *OddsClient) IsEnabled() bool {
	return c.enabled
}

func (c *OddsClient) convertMarket(entry *marketEntry, retrievedAt time.Time) (*models.MarketRecord, error) {
	kickoff, err := time.Parse(time.RFC3339, entry.Kickoff)
	if err != nil {
		return nil, fmt.Errorf("bad kickoff time %q: %w", entry.Kickoff, err)
	}

	record := &models.MarketRecord{
		ProviderID:    entry.GameID,
		Book:          entry.Book,
		HomeTeam:      entry.HomeTeam,
		AwayTeam:      entry.AwayTeam,
		KickoffTime:   kickoff.UTC(),
		HomeSpread:    entry.HomeSpread,
		Total:         entry.Total,
		MoneylineHome: entry.MoneylineHome,
		MoneylineAway: entry.MoneylineAway,
		RetrievedAt:   retrievedAt,
	}

	if entry.SpreadPrice != nil && *entry.SpreadPrice != "" {
		price, err := decimal.NewFromString(*entry.SpreadPrice)
		if err != nil {
			c.logger.Printf("Ignoring unparseable spread price %q for %s", *entry.SpreadPrice, entry.GameID)
		} else {
			record.SpreadPrice = &price
		}
	}

	return record, nil
}
