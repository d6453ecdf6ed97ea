package gormrepository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"autopilot/internal/models"
)

// Store is the Postgres-backed repository. It mirrors the in-memory backend's
// semantics; single-statement updates carry the atomicity requirements.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- credentials -------------------------------------------------------------

func (s *Store) InsertCredential(ctx context.Context, item *models.Credential) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetCredentialByToken(ctx context.Context, token string) (*models.Credential, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Credential
	err := s.db.WithContext(ctx).Where("token = ?", token).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) TouchCredential(ctx context.Context, token string, at time.Time) (*models.Credential, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	// Single UPDATE keeps the read-and-increment atomic under concurrency.
	res := s.db.WithContext(ctx).
		Model(&models.Credential{}).
		Where("token = ?", token).
		Updates(map[string]any{
			"request_count": gorm.Expr("request_count + 1"),
			"last_used_at":  at,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.GetCredentialByToken(ctx, token)
}

// --- strategies --------------------------------------------------------------

func (s *Store) InsertStrategy(ctx context.Context, item *models.Strategy) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) GetStrategyByID(ctx context.Context, id string) (*models.Strategy, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Strategy
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListStrategiesByOwner(ctx context.Context, owner string) ([]models.Strategy, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Strategy
	err := s.db.WithContext(ctx).
		Where("owner_address = ?", owner).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListActiveStrategies(ctx context.Context) ([]models.Strategy, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Strategy
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) DeleteStrategy(ctx context.Context, id string) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Strategy{}).Error
}

func (s *Store) SetStrategyActive(ctx context.Context, id string, active bool) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).
		Model(&models.Strategy{}).
		Where("id = ?", id).
		Updates(map[string]any{"active": active, "updated_at": time.Now().UTC()}).Error
}

func (s *Store) IncrementExecutionCount(ctx context.Context, id string) (uint64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Strategy{}).
		Where("id = ?", id).
		UpdateColumn("execution_count", gorm.Expr("execution_count + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	item, err := s.GetStrategyByID(ctx, id)
	if err != nil || item == nil {
		return 0, err
	}
	return item.ExecutionCount, nil
}

// --- executions --------------------------------------------------------------

func (s *Store) InsertExecutionRecord(ctx context.Context, item *models.ExecutionRecord) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListExecutionRecordsByStrategy(ctx context.Context, strategyID string, limit int) ([]models.ExecutionRecord, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 100
	}
	var items []models.ExecutionRecord
	err := s.db.WithContext(ctx).
		Where("strategy_id = ?", strategyID).
		Order("created_at desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- alerts ------------------------------------------------------------------

func (s *Store) InsertSecurityAlert(ctx context.Context, item *models.SecurityAlert) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListRecentSecurityAlerts(ctx context.Context, limit int) ([]models.SecurityAlert, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 {
		limit = 10
	}
	var items []models.SecurityAlert
	err := s.db.WithContext(ctx).
		Order("created_at desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// --- webhooks ----------------------------------------------------------------

func (s *Store) InsertWebhook(ctx context.Context, item *models.Webhook) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListWebhooksByOwner(ctx context.Context, owner string) ([]models.Webhook, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Webhook
	err := s.db.WithContext(ctx).
		Where("owner_address = ?", owner).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ListActiveWebhooks(ctx context.Context) ([]models.Webhook, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.Webhook
	err := s.db.WithContext(ctx).
		Where("active = ?", true).
		Order("created_at asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
