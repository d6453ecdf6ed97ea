package signal

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// FTSOCollector polls an FTSO-style REST price endpoint for a fixed symbol
// set. The endpoint is expected to answer GET {endpoint}?symbol={SYM} with
// {"symbol": "...", "price": <number or numeric string>}.
type FTSOCollector struct {
	HTTP   *http.Client
	Logger *zap.Logger

	Endpoint     string
	Symbols      []string
	PollInterval time.Duration

	mu        sync.Mutex
	lastPoll  *time.Time
	lastError *string
	status    string
}

func (c *FTSOCollector) Name() string { return "ftso_price" }

func (c *FTSOCollector) Start(ctx context.Context, out chan<- Observation) error {
	if c == nil {
		return nil
	}
	if c.HTTP == nil {
		c.HTTP = &http.Client{Timeout: 10 * time.Second}
	}
	interval := c.PollInterval
	if interval <= 0 {
		interval = 15 * time.Second
	}

	c.pollOnce(ctx, out)

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			c.pollOnce(ctx, out)
		}
	}
}

func (c *FTSOCollector) Health() HealthStatus {
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

func (c *FTSOCollector) pollOnce(ctx context.Context, out chan<- Observation) {
	now := time.Now().UTC()
	endpoint := strings.TrimSpace(c.Endpoint)
	if endpoint == "" {
		c.setHealth(now, "down", strPtr("missing endpoint"))
		return
	}

	var firstErr *string
	ok := 0
	for _, symbol := range c.Symbols {
		symbol = strings.ToUpper(strings.TrimSpace(symbol))
		if symbol == "" {
			continue
		}
		price, err := c.fetchPrice(ctx, endpoint, symbol)
		if err != nil {
			// A single failed symbol only degrades health; the hub keeps
			// whatever it already had for it.
			if firstErr == nil {
				firstErr = strPtr(fmt.Sprintf("%s: %v", symbol, err))
			}
			continue
		}
		ok++
		select {
		case out <- Observation{Kind: ObservationPrice, Symbol: symbol, Price: price, At: now}:
		default:
		}
	}

	switch {
	case ok == 0 && firstErr != nil:
		c.setHealth(now, "down", firstErr)
	case firstErr != nil:
		c.setHealth(now, "degraded", firstErr)
	default:
		c.setHealth(now, "healthy", nil)
	}
}

func (c *FTSOCollector) fetchPrice(ctx context.Context, endpoint, symbol string) (decimal.Decimal, error) {
	url := endpoint
	if strings.Contains(endpoint, "?") {
		url += "&symbol=" + symbol
	} else {
		url += "?symbol=" + symbol
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decimal.Zero, fmt.Errorf("http %d", resp.StatusCode)
	}
	var parsed struct {
		Symbol string      `json:"symbol"`
		Price  json.Number `json:"price"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return decimal.Zero, err
	}
	price, err := decimal.NewFromString(parsed.Price.String())
	if err != nil || price.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("invalid price %q", parsed.Price.String())
	}
	return price, nil
}

func (c *FTSOCollector) setHealth(ts time.Time, status string, errStr *string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastPoll = &ts
	c.status = status
	c.lastError = errStr
}

func strPtr(s string) *string { return &s }
