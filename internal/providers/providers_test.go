package providers

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharpline/internal/models"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func testHTTPClient() *RateLimitedHTTPClient {
	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	return NewRateLimitedHTTPClient(cfg, testLogger())
}

func TestScheduleClientNormalizesEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/nfl/schedule", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"id":"g1","season":2025,"week":11,"homeTeam":"KC Chiefs","awayTeam":"Buffalo Bills",
			 "kickoff":"2025-11-16T21:25:00Z","venue":"Arrowhead Stadium","indoor":false},
			{"id":"g2","season":2025,"week":11,"homeTeam":"Detroit Lions","awayTeam":"Green Bay Packers",
			 "kickoff":"not-a-time","venue":"Ford Field","indoor":true}
		]`))
	}))
	defer server.Close()

	client := NewScheduleClient(testHTTPClient(), server.URL, "test-key", true, testLogger())

	records, err := client.FetchSchedule(context.Background(), models.LeagueNFL, 2025, 11)
	require.NoError(t, err)

	// the entry with the unparseable kickoff is dropped, not fatal
	require.Len(t, records, 1)
	assert.Equal(t, "g1", records[0].ProviderID)
	assert.Equal(t, models.LeagueNFL, records[0].League)
	assert.Equal(t, "KC Chiefs", records[0].HomeTeam)
	assert.Equal(t, time.UTC, records[0].KickoffTime.Location())
}

func TestScheduleClientDisabled(t *testing.T) {
	client := NewScheduleClient(testHTTPClient(), "http://unused", "", false, testLogger())

	_, err := client.FetchSchedule(context.Background(), models.LeagueNFL, 2025, 11)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrProviderDisabled)
}

func TestScheduleClientAuthFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewScheduleClient(testHTTPClient(), server.URL, "bad-key", true, testLogger())

	_, err := client.FetchSchedule(context.Background(), models.LeagueNFL, 2025, 11)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthenticationFailed)

	var provErr ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, ErrCodeAuthenticationFailed, provErr.Code)
	assert.Equal(t, "schedule", provErr.Provider)
}

func TestOddsClientParsesSpreadPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"gameId":"g1","book":"pinnacle","homeTeam":"Kansas City","awayTeam":"Buffalo",
			 "kickoff":"2025-11-16T21:25:00Z","homeSpread":-2.5,"total":48.5,"spreadPrice":"1.91"}
		]`))
	}))
	defer server.Close()

	client := NewOddsClient(testHTTPClient(), server.URL, "k", true, testLogger())

	records, err := client.FetchMarkets(context.Background(), models.LeagueNFL, 2025, 11)
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, -2.5, records[0].HomeSpread)
	require.NotNil(t, records[0].Total)
	assert.Equal(t, 48.5, *records[0].Total)
	require.NotNil(t, records[0].SpreadPrice)
	assert.Equal(t, "1.91", records[0].SpreadPrice.String())
	assert.False(t, records[0].RetrievedAt.IsZero())
}

func TestWeatherClientCachesByVenueAndHour(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"venue":"Arrowhead Stadium","temperatureF":18,"windMph":22,
			"precipChance":0.6,"precipType":"snow","alert":"watch"}`))
	}))
	defer server.Close()

	cache := NewResponseCache(time.Minute)
	client := NewWeatherClient(testHTTPClient(), cache, server.URL, "k", true, testLogger())

	kickoff := time.Date(2025, 11, 16, 21, 25, 0, 0, time.UTC)

	first, err := client.FetchForecast(context.Background(), "Arrowhead Stadium", kickoff)
	require.NoError(t, err)
	second, err := client.FetchForecast(context.Background(), "Arrowhead Stadium", kickoff)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, models.PrecipSnow, first.Precip)
	assert.Equal(t, models.AlertWatch, first.Alert)
}

func TestInjuryClientDropsUnknownStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"player":"P Mahomes","position":"QB","status":"questionable"},
			{"player":"T Kelce","position":"TE","status":"week-to-week"}
		]`))
	}))
	defer server.Close()

	client := NewInjuryClient(testHTTPClient(), NewResponseCache(time.Minute), server.URL, "k", true, testLogger())

	records, err := client.FetchInjuries(context.Background(), models.LeagueNFL, "Kansas City Chiefs")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.StatusQuestionable, records[0].Status)
	assert.Equal(t, "Kansas City Chiefs", records[0].Team)
}

func TestStatsClientReturnsTypedRecord(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"team":"Kansas City Chiefs","gamesPlayed":10,"wins":8,"losses":2,
			"pointsFor":265,"pointsAgainst":180,"yardsFor":3600,"yardsAgainst":3100,
			"recentMargins":[7,-3,14]}`))
	}))
	defer server.Close()

	client := NewStatsClient(testHTTPClient(), NewResponseCache(time.Minute), server.URL, "k", true, testLogger())

	record, err := client.FetchTeamStats(context.Background(), models.LeagueNFL, "Kansas City Chiefs", 2025, 11)
	require.NoError(t, err)

	assert.Equal(t, 8, record.Wins)
	assert.InDelta(t, 0.8, record.WinPct(), 1e-9)
	assert.Equal(t, []float64{7, -3, 14}, record.RecentMargins)
}

func TestResponseCacheStats(t *testing.T) {
	cache := NewResponseCache(time.Minute)

	_, found := cache.Get("missing")
	assert.False(t, found)

	cache.Set("key", "value")
	value, found := cache.Get("key")
	assert.True(t, found)
	assert.Equal(t, "value", value)

	hits, misses, ratio := cache.Stats()
	assert.Equal(t, uint64(1), hits)
	assert.Equal(t, uint64(1), misses)
	assert.InDelta(t, 0.5, ratio, 1e-9)
}

func TestResponseCacheConcurrentReaders(t *testing.T) {
	cache := NewResponseCache(time.Minute)
	cache.Set("shared", "value")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, found := cache.Get("shared")
				assert.True(t, found)
				cache.Get("absent")
			}
		}()
	}
	wg.Wait()

	hits, misses, _ := cache.Stats()
	assert.Equal(t, uint64(800), hits)
	assert.Equal(t, uint64(800), misses)
}

func TestHTTPClientBreakerOpensUnderConcurrentFailures(t *testing.T) {
	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		conn, _, err := w.(http.Hijacker).Hijack()
		if err == nil {
			conn.Close()
		}
	}))
	defer server.Close()

	cfg := DefaultHTTPClientConfig()
	cfg.MaxRetries = 0
	cfg.RateLimit = 1000
	cfg.CircuitBreakerMax = 3
	client := NewRateLimitedHTTPClient(cfg, testLogger())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := client.Get(context.Background(), server.URL)
			if resp != nil {
				resp.Body.Close()
			}
			assert.Error(t, err)
		}()
	}
	wg.Wait()

	// breaker is open now; further calls fail fast without reaching upstream
	before := calls.Load()
	_, err := client.Get(context.Background(), server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
	assert.Equal(t, before, calls.Load())
}
