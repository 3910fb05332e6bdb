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

// WeatherClient implements WeatherProvider against an HTTP forecast API.
// Responses are cached per venue and kickoff hour; forecasts do not change
// fast enough to justify a fetch per game per run.
type WeatherClient struct {
	httpClient *RateLimitedHTTPClient
	cache      *ResponseCache
	baseURL    string
	apiKey     string
	enabled    bool
	logger     *log.Logger
}

// forecastEntry is the provider's wire format for one venue forecast
type forecastEntry struct {
	Venue        string  `json:"venue"`
	TemperatureF float64 `json:"temperatureF"`
	WindMPH      float64 `json:"windMph"`
	PrecipChance float64 `json:"precipChance"`
	PrecipType   string  `json:"precipType"`
	Alert        string  `json:"alert"`
}

// NewWeatherClient creates a new weather provider client
func NewWeatherClient(httpClient *RateLimitedHTTPClient, cache *ResponseCache, baseURL, apiKey string, enabled bool, logger *log.Logger) *WeatherClient {
	return &WeatherClient{
		httpClient: httpClient,
		cache:      cache,
		baseURL:    baseURL,
		apiKey:     apiKey,
		enabled:    enabled,
		logger:     logger,
	}
}

// FetchForecast retrieves the forecast for a venue at kickoff
func (c *WeatherClient) FetchForecast(ctx context.Context, venue string, kickoff time.Time) (*models.WeatherRecord, error) {
	if !c.enabled {
		return nil, NewProviderError(c.Name(), ErrCodeDisabled, providerDisabledMsg, ErrProviderDisabled)
	}

	cacheKey := fmt.Sprintf("weather:%s:%s", venue, kickoff.UTC().Format("2006-01-02T15"))
	if cached, found := c.cache.Get(cacheKey); found {
		if record, ok := cached.(*models.WeatherRecord); ok {
			return record, nil
		}
	}

	reqURL := fmt.Sprintf("%s/forecast?venue=%s&at=%s",
		c.baseURL, url.QueryEscape(venue), kickoff.UTC().Format(time.RFC3339))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, NewProviderError(c.Name(), ErrCodeNetworkError, "failed to create request", err)
	}
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(ctx, req)
	if err != nil {
		return nil, NewProviderError(c.Name(), ErrCodeNetworkError, "failed to fetch forecast", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(c.Name(), resp); err != nil {
		return nil, err
	}

	var entry forecastEntry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		return nil, NewProviderError(c.Name(), ErrCodeInvalidData, "failed to parse response", err)
	}

	record := &models.WeatherRecord{
		Venue:        entry.Venue,
		TemperatureF: entry.TemperatureF,
		WindMPH:      entry.WindMPH,
		PrecipChance: entry.PrecipChance,
		Precip:       models.PrecipType(entry.PrecipType),
		Alert:        models.AlertSeverity(entry.Alert),
		RetrievedAt:  time.Now().UTC(),
	}

	c.cache.Set(cacheKey, record)
	return record, nil
}

// Name returns the provider name
func (c *WeatherClient) Name() string {
	return "weather"
}

// IsEnabled returns whether this provider is enabled
func (c *WeatherClient) IsEnabled() bool {
	return c.enabled
}
