package memoryrepository

import (
	"context"
	"sync"
	"time"

	"autopilot/internal/models"
)

// Store is the in-memory repository backend. It is the default when no
// database DSN is configured and mirrors the process-local maps the service
// started out with; nothing survives a restart.
type Store struct {
	mu sync.RWMutex

	credentials map[string]*models.Credential

	strategies    map[string]*models.Strategy
	strategyOrder []string

	executions []models.ExecutionRecord
	execSeq    uint64

	alerts   []models.SecurityAlert
	alertSeq uint64

	webhooks     map[string]*models.Webhook
	webhookOrder []string
}

func New() *Store {
	return &Store{
		credentials: map[string]*models.Credential{},
		strategies:  map[string]*models.Strategy{},
		webhooks:    map[string]*models.Webhook{},
	}
}

// --- credentials -------------------------------------------------------------

func (s *Store) InsertCredential(ctx context.Context, item *models.Credential) error {
	if s == nil || item == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *item
	s.credentials[item.Token] = &cp
	return nil
}

func (s *Store) GetCredentialByToken(ctx context.Context, token string) (*models.Credential, error) {
	if s == nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred, ok := s.credentials[token]
	if !ok {
		return nil, nil
	}
	cp := *cred
	return &cp, nil
}

func (s *Store) TouchCredential(ctx context.Context, token string, at time.Time) (*models.Credential, error) {
	if s == nil {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cred, ok := s.credentials[token]
	if !ok {
		return nil, nil
	}
	cred.RequestCount++
	t := at
	cred.LastUsedAt = &t
	cp := *cred
	return &cp, nil
}

// --- strategies --------------------------------------------------------------

func (s *Store) InsertStrategy(ctx context.Context, item *models.Strategy) error {
	if s == nil || item == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.strategies[item.ID]; !exists {
		s.strategyOrder = append(s.strategyOrder, item.ID)
	}
	cp := *item
	s.strategies[item.ID] = &cp
	return nil
}

func (s *Store) GetStrategyByID(ctx context.Context, id string) (*models.Strategy, error) {
	if s == nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	strat, ok := s.strategies[id]
	if !ok {
		return nil, nil
	}
	cp := *strat
	return &cp, nil
}

func (s *Store) ListStrategiesByOwner(ctx context.Context, owner string) ([]models.Strategy, error) {
	if s == nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Strategy
	for _, id := range s.strategyOrder {
		strat, ok := s.strategies[id]
		if !ok || strat.OwnerAddress != owner {
			continue
		}
		out = append(out, *strat)
	}
	return out, nil
}

func (s *Store) ListActiveStrategies(ctx context.Context) ([]models.Strategy, error) {
	if s == nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Strategy
	for _, id := range s.strategyOrder {
		strat, ok := s.strategies[id]
		if !ok || !strat.Active {
			continue
		}
		out = append(out, *strat)
	}
	return out, nil
}

func (s *Store) DeleteStrategy(ctx context.Context, id string) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.strategies[id]; !ok {
		return nil
	}
	delete(s.strategies, id)
	for i, sid := range s.strategyOrder {
		if sid == id {
			s.strategyOrder = append(s.strategyOrder[:i], s.strategyOrder[i+1:]...)
			break
		}
	}
	return nil
}

func (s *Store) SetStrategyActive(ctx context.Context, id string, active bool) error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	strat, ok := s.strategies[id]
	if !ok {
		return nil
	}
	strat.Active = active
	strat.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) IncrementExecutionCount(ctx context.Context, id string) (uint64, error) {
	if s == nil {
		return 0, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	strat, ok := s.strategies[id]
	if !ok {
		return 0, nil
	}
	strat.ExecutionCount++
	strat.UpdatedAt = time.Now().UTC()
	return strat.ExecutionCount, nil
}

// --- executions --------------------------------------------------------------

func (s *Store) InsertExecutionRecord(ctx context.Context, item *models.ExecutionRecord) error {
	if s == nil || item == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.execSeq++
	item.ID = s.execSeq
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	s.executions = append(s.executions, *item)
	return nil
}

func (s *Store) ListExecutionRecordsByStrategy(ctx context.Context, strategyID string, limit int) ([]models.ExecutionRecord, error) {
	if s == nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ExecutionRecord
	// Newest first.
	for i := len(s.executions) - 1; i >= 0; i-- {
		if s.executions[i].StrategyID != strategyID {
			continue
		}
		out = append(out, s.executions[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

// --- alerts ------------------------------------------------------------------

func (s *Store) InsertSecurityAlert(ctx context.Context, item *models.SecurityAlert) error {
	if s == nil || item == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alertSeq++
	item.ID = s.alertSeq
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	s.alerts = append(s.alerts, *item)
	return nil
}

func (s *Store) ListRecentSecurityAlerts(ctx context.Context, limit int) ([]models.SecurityAlert, error) {
	if s == nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.alerts) {
		limit = len(s.alerts)
	}
	out := make([]models.SecurityAlert, 0, limit)
	for i := len(s.alerts) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.alerts[i])
	}
	return out, nil
}

// --- webhooks ----------------------------------------------------------------

func (s *Store) InsertWebhook(ctx context.Context, item *models.Webhook) error {
	if s == nil || item == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.webhooks[item.ID]; !exists {
		s.webhookOrder = append(s.webhookOrder, item.ID)
	}
	cp := *item
	s.webhooks[item.ID] = &cp
	return nil
}

func (s *Store) ListWebhooksByOwner(ctx context.Context, owner string) ([]models.Webhook, error) {
	if s == nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Webhook
	for _, id := range s.webhookOrder {
		hook, ok := s.webhooks[id]
		if !ok || hook.OwnerAddress != owner {
			continue
		}
		out = append(out, *hook)
	}
	return out, nil
}

func (s *Store) ListActiveWebhooks(ctx context.Context) ([]models.Webhook, error) {
	if s == nil {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Webhook
	for _, id := range s.webhookOrder {
		hook, ok := s.webhooks[id]
		if !ok || !hook.Active {
			continue
		}
		out = append(out, *hook)
	}
	return out, nil
}
