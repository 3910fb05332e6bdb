package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yourusername/sharpline/internal/models"
)

// OddsStreamClient maintains a WebSocket connection to the odds provider's
// streaming feed and emits normalized market records as lines move. The
// batch pipeline uses the HTTP snapshot client; this feed exists for the
// serve mode, where fresh lines between weekly runs feed closing line
// capture.
type OddsStreamClient struct {
	streamURL       string
	apiKey          string
	conn            *websocket.Conn
	mu              sync.RWMutex
	isConnected     bool
	handlers        []MarketHandler
	reconnectConfig ReconnectConfig
	lastMessageTime time.Time
	logger          *log.Logger
}

// MarketHandler is called for each market record received from the stream
type MarketHandler func(record models.MarketRecord) error

// ReconnectConfig controls reconnection behavior
type ReconnectConfig struct {
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// DefaultReconnectConfig returns default reconnection configuration
func DefaultReconnectConfig() ReconnectConfig {
	return ReconnectConfig{
		MaxRetries:        10,
		InitialBackoff:    1 * time.Second,
		MaxBackoff:        30 * time.Second,
		BackoffMultiplier: 1.5,
	}
}

// streamMessage is the feed's wire format for one line move
type streamMessage struct {
	Op         string  `json:"op"`
	GameID     string  `json:"gameId"`
	Book       string  `json:"book"`
	HomeTeam   string  `json:"homeTeam"`
	AwayTeam   string  `json:"awayTeam"`
	Kickoff    string  `json:"kickoff"`
	HomeSpread float64 `json:"homeSpread"`
	Heartbeat  bool    `json:"heartbeat"`
}

// NewOddsStreamClient creates a new odds stream client
func NewOddsStreamClient(streamURL, apiKey string, logger *log.Logger) *OddsStreamClient {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &OddsStreamClient{
		streamURL:       streamURL,
		apiKey:          apiKey,
		handlers:        make([]MarketHandler, 0),
		reconnectConfig: DefaultReconnectConfig(),
		logger:          logger,
	}
}

// OnMarket registers a handler for incoming market records
func (c *OddsStreamClient) OnMarket(handler MarketHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, handler)
}

// Connect establishes the WebSocket connection
func (c *OddsStreamClient) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isConnected {
		return nil
	}

	header := http.Header{}
	header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.streamURL, header)
	if err != nil {
		return fmt.Errorf("failed to dial odds stream: %w", err)
	}

	c.conn = conn
	c.isConnected = true
	c.lastMessageTime = time.Now()
	return nil
}

// IsConnected reports whether the stream is currently connected
func (c *OddsStreamClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected
}

// Listen reads from the stream until the context is cancelled, reconnecting
// with exponential backoff on connection loss
func (c *OddsStreamClient) Listen(ctx context.Context) error {
	backoff := c.reconnectConfig.InitialBackoff
	retries := 0

	for {
		if err := c.Connect(ctx); err != nil {
			retries++
			if retries > c.reconnectConfig.MaxRetries {
				return fmt.Errorf("odds stream reconnect retries exhausted: %w", err)
			}
			c.logger.Printf("Odds stream connect failed (attempt %d): %v", retries, err)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			backoff = time.Duration(float64(backoff) * c.reconnectConfig.BackoffMultiplier)
			if backoff > c.reconnectConfig.MaxBackoff {
				backoff = c.reconnectConfig.MaxBackoff
			}
			continue
		}

		retries = 0
		backoff = c.reconnectConfig.InitialBackoff

		if err := c.readLoop(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.logger.Printf("Odds stream read error, reconnecting: %v", err)
			c.disconnect()
		}
	}
}

// Close shuts the stream down
func (c *OddsStreamClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isConnected {
		return nil
	}
	c.isConnected = false
	return c.conn.Close()
}

func (c *OddsStreamClient) disconnect() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil {
		_ = c.conn.Close()
	}
	c.isConnected = false
}

func (c *OddsStreamClient) readLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read message: %w", err)
		}

		c.mu.Lock()
		c.lastMessageTime = time.Now()
		c.mu.Unlock()

		var msg streamMessage
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.logger.Printf("Dropping unparseable stream message: %v", err)
			continue
		}
		if msg.Heartbeat {
			continue
		}

		record, err := c.convertMessage(&msg)
		if err != nil {
			c.logger.Printf("Dropping stream message for %s: %v", msg.GameID, err)
			continue
		}

		c.mu.RLock()
		handlers := c.handlers
		c.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(*record); err != nil {
				c.logger.Printf("Market handler error for %s: %v", msg.GameID, err)
			}
		}
	}
}

func (c *OddsStreamClient) convertMessage(msg *streamMessage) (*models.MarketRecord, error) {
	kickoff, err := time.Parse(time.RFC3339, msg.Kickoff)
	if err != nil {
		return nil, fmt.Errorf("bad kickoff time %q: %w", msg.Kickoff, err)
	}

	return &models.MarketRecord{
		ProviderID:  msg.GameID,
		Book:        msg.Book,
		HomeTeam:    msg.HomeTeam,
		AwayTeam:    msg.AwayTeam,
		KickoffTime: kickoff.UTC(),
		HomeSpread:  msg.HomeSpread,
		RetrievedAt: time.Now().UTC(),
	}, nil
}
