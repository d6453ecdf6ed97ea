package repository

import (
	"context"
	"time"

	"autopilot/internal/models"
)

// CredentialRepository owns issued API credentials.
type CredentialRepository interface {
	InsertCredential(ctx context.Context, item *models.Credential) error
	GetCredentialByToken(ctx context.Context, token string) (*models.Credential, error)
	// TouchCredential increments the request counter and stamps last-used in
	// one atomic step, returning the updated credential. Concurrent touches
	// for the same token must not lose updates.
	TouchCredential(ctx context.Context, token string, at time.Time) (*models.Credential, error)
}

// StrategyRepository owns strategy records. List results preserve insertion
// order.
type StrategyRepository interface {
	InsertStrategy(ctx context.Context, item *models.Strategy) error
	GetStrategyByID(ctx context.Context, id string) (*models.Strategy, error)
	ListStrategiesByOwner(ctx context.Context, owner string) ([]models.Strategy, error)
	ListActiveStrategies(ctx context.Context) ([]models.Strategy, error)
	DeleteStrategy(ctx context.Context, id string) error
	SetStrategyActive(ctx context.Context, id string, active bool) error
	// IncrementExecutionCount adds one to the strategy's execution counter and
	// returns the new value.
	IncrementExecutionCount(ctx context.Context, id string) (uint64, error)
}

type ExecutionRepository interface {
	InsertExecutionRecord(ctx context.Context, item *models.ExecutionRecord) error
	ListExecutionRecordsByStrategy(ctx context.Context, strategyID string, limit int) ([]models.ExecutionRecord, error)
}

type AlertRepository interface {
	InsertSecurityAlert(ctx context.Context, item *models.SecurityAlert) error
	ListRecentSecurityAlerts(ctx context.Context, limit int) ([]models.SecurityAlert, error)
}

type WebhookRepository interface {
	InsertWebhook(ctx context.Context, item *models.Webhook) error
	ListWebhooksByOwner(ctx context.Context, owner string) ([]models.Webhook, error)
	ListActiveWebhooks(ctx context.Context) ([]models.Webhook, error)
}

// Repository is the unified store expected by the service wiring. Components
// depend on the narrow sub-interfaces; main hands them all the same backend.
type Repository interface {
	CredentialRepository
	StrategyRepository
	ExecutionRepository
	AlertRepository
	WebhookRepository
}
