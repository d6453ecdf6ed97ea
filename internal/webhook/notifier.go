package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"autopilot/internal/models"
	"autopilot/internal/repository"
	"autopilot/internal/strategy"
)

const EventStrategyExecuted = "strategy.executed"

// ExecutionEvent is the payload delivered to subscribed webhooks.
type ExecutionEvent struct {
	Event          string          `json:"event"`
	StrategyID     string          `json:"strategy_id"`
	OwnerAddress   string          `json:"owner_address"`
	Action         string          `json:"action"`
	Amount         decimal.Decimal `json:"amount"`
	ExecutionCount uint64          `json:"execution_count"`
	At             time.Time       `json:"at"`
}

// Notifier manages owner webhook registrations and delivers execution events
// best-effort: a dead endpoint costs one short timeout and a debug line,
// never a failed tick.
type Notifier struct {
	Repo   repository.WebhookRepository
	HTTP   *http.Client
	Logger *zap.Logger
}

func (n *Notifier) Register(ctx context.Context, owner, rawURL string, events []string) (*models.Webhook, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, fmt.Errorf("%w: webhook url must be http(s)", strategy.ErrInvalidInput)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: at least one event required", strategy.ErrInvalidInput)
	}
	raw, err := json.Marshal(events)
	if err != nil {
		return nil, err
	}
	hook := &models.Webhook{
		ID:           uuid.NewString(),
		OwnerAddress: owner,
		URL:          parsed.String(),
		Events:       datatypes.JSON(raw),
		Active:       true,
		CreatedAt:    time.Now().UTC(),
	}
	if err := n.Repo.InsertWebhook(ctx, hook); err != nil {
		return nil, err
	}
	return hook, nil
}

func (n *Notifier) ListByOwner(ctx context.Context, owner string) ([]models.Webhook, error) {
	return n.Repo.ListWebhooksByOwner(ctx, owner)
}

// NotifyExecution posts the event to every active webhook of the owner that
// subscribed to it.
func (n *Notifier) NotifyExecution(ctx context.Context, ev ExecutionEvent) {
	if n == nil || n.Repo == nil {
		return
	}
	if ev.Event == "" {
		ev.Event = EventStrategyExecuted
	}
	hooks, err := n.Repo.ListWebhooksByOwner(ctx, ev.OwnerAddress)
	if err != nil {
		if n.Logger != nil {
			n.Logger.Debug("webhook lookup failed", zap.Error(err))
		}
		return
	}
	body, err := json.Marshal(ev)
	if err != nil {
		return
	}
	for _, hook := range hooks {
		if !hook.Active || !subscribed(hook, ev.Event) {
			continue
		}
		n.deliver(ctx, hook, body)
	}
}

func (n *Notifier) deliver(ctx context.Context, hook models.Webhook, body []byte) {
	client := n.HTTP
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Second}
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, hook.URL, bytes.NewReader(body))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		if n.Logger != nil {
			n.Logger.Debug("webhook delivery failed",
				zap.String("webhook_id", hook.ID),
				zap.Error(err),
			)
		}
		return
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 300 && n.Logger != nil {
		n.Logger.Debug("webhook delivery rejected",
			zap.String("webhook_id", hook.ID),
			zap.Int("status", resp.StatusCode),
		)
	}
}

func subscribed(hook models.Webhook, event string) bool {
	if len(hook.Events) == 0 {
		return true
	}
	var events []string
	if err := json.Unmarshal(hook.Events, &events); err != nil {
		return false
	}
	for _, e := range events {
		if e == event || e == "*" {
			return true
		}
	}
	return false
}
