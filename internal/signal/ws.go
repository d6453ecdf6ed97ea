package signal

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// StreamCollector reads price ticks from a websocket feed. Each message is a
// JSON object {"symbol": "BTC", "price": "50000.1"}. The collector reconnects
// with capped backoff; while disconnected the hub simply serves stale data.
type StreamCollector struct {
	URL    string
	Logger *zap.Logger

	mu        sync.Mutex
	lastPoll  *time.Time
	lastError *string
	status    string
}

type streamTick struct {
	Symbol string      `json:"symbol"`
	Price  json.Number `json:"price"`
}

func (c *StreamCollector) Name() string { return "price_stream" }

func (c *StreamCollector) Start(ctx context.Context, out chan<- Observation) error {
	if c == nil || strings.TrimSpace(c.URL) == "" {
		return nil
	}
	backoff := time.Second
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := c.readLoop(ctx, out)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			c.setHealth(time.Now().UTC(), "down", strPtr(err.Error()))
			if c.Logger != nil {
				c.Logger.Warn("price stream disconnected", zap.Error(err))
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		if backoff < 30*time.Second {
			backoff *= 2
		}
	}
}

func (c *StreamCollector) readLoop(ctx context.Context, out chan<- Observation) error {
	conn, _, err := websocket.Dial(ctx, c.URL, nil)
	if err != nil {
		return err
	}
	defer conn.Close(websocket.StatusNormalClosure, "shutdown")
	conn.SetReadLimit(1 << 20)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		var tick streamTick
		if err := json.Unmarshal(data, &tick); err != nil {
			continue
		}
		symbol := strings.ToUpper(strings.TrimSpace(tick.Symbol))
		price, perr := decimal.NewFromString(tick.Price.String())
		if symbol == "" || perr != nil || price.LessThanOrEqual(decimal.Zero) {
			continue
		}
		c.setHealth(now, "healthy", nil)
		select {
		case out <- Observation{Kind: ObservationPrice, Symbol: symbol, Price: price, At: now}:
		default:
		}
	}
}

func (c *StreamCollector) Health() HealthStatus {
	if c == nil {
		return HealthStatus{Status: "unknown"}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	status := c.status
	if status == "" {
		status = "unknown"
	}
	return HealthStatus{Status: status, LastPollAt: c.lastPoll, LastError: c.lastError}
}

func (c *StreamCollector) setHealth(ts time.Time, status string, errStr *string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastPoll = &ts
	c.status = status
	c.lastError = errStr
}
