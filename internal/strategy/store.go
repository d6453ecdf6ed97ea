package strategy

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"autopilot/internal/models"
	"autopilot/internal/repository"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("strategy not found")
	ErrForbidden    = errors.New("access denied")
)

// Definition is the caller-supplied part of a strategy.
type Definition struct {
	Trigger       Trigger
	Action        string
	Amount        decimal.Decimal
	Protected     bool
	MaxExecutions uint64
}

func (d Definition) validate() error {
	if err := d.Trigger.Validate(); err != nil {
		return err
	}
	switch d.Action {
	case models.ActionMint, models.ActionSwap, models.ActionTransfer, models.ActionRedeem:
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidInput, d.Action)
	}
	if d.Amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInput)
	}
	return nil
}

// Store owns the strategy records and enforces ownership on every
// caller-facing operation. A strategy is only ever visible to its owner; the
// not-found/denied split deliberately mirrors the original API (a denied
// response does reveal that the id exists).
type Store struct {
	Repo   repository.StrategyRepository
	Logger *zap.Logger
}

func (s *Store) Create(ctx context.Context, owner string, def Definition) (*models.Strategy, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}
	payload, err := EncodeTrigger(def.Trigger)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	item := &models.Strategy{
		ID:            uuid.NewString(),
		OwnerAddress:  owner,
		TriggerType:   def.Trigger.Kind,
		Trigger:       payload,
		Action:        def.Action,
		Amount:        def.Amount,
		Protected:     def.Protected,
		Active:        true,
		MaxExecutions: def.MaxExecutions,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.Repo.InsertStrategy(ctx, item); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("strategy created",
			zap.String("id", item.ID),
			zap.String("owner", owner),
			zap.String("trigger_type", item.TriggerType),
			zap.String("action", item.Action),
		)
	}
	return item, nil
}

// load fetches a strategy and applies the ownership check shared by Get,
// Delete and SetActive.
func (s *Store) load(ctx context.Context, id, caller string) (*models.Strategy, error) {
	item, err := s.Repo.GetStrategyByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, ErrNotFound
	}
	if item.OwnerAddress != caller {
		return nil, ErrForbidden
	}
	return item, nil
}

func (s *Store) Get(ctx context.Context, id, caller string) (*models.Strategy, error) {
	return s.load(ctx, id, caller)
}

func (s *Store) ListByOwner(ctx context.Context, caller string) ([]models.Strategy, error) {
	return s.Repo.ListStrategiesByOwner(ctx, caller)
}

func (s *Store) Delete(ctx context.Context, id, caller string) error {
	if _, err := s.load(ctx, id, caller); err != nil {
		return err
	}
	if err := s.Repo.DeleteStrategy(ctx, id); err != nil {
		return err
	}
	if s.Logger != nil {
		s.Logger.Info("strategy deleted", zap.String("id", id), zap.String("owner", caller))
	}
	return nil
}

func (s *Store) SetActive(ctx context.Context, id, caller string, active bool) error {
	if _, err := s.load(ctx, id, caller); err != nil {
		return err
	}
	return s.Repo.SetStrategyActive(ctx, id, active)
}

// RecordExecution bumps the execution counter. It bypasses the ownership
// check on purpose: the executor acts on the owner's behalf, not as the
// owner. Only the gate calls this, after approval.
func (s *Store) RecordExecution(ctx context.Context, id string) (uint64, error) {
	return s.Repo.IncrementExecutionCount(ctx, id)
}
