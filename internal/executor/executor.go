package executor

import (
	"context"

	"go.uber.org/zap"

	"autopilot/internal/models"
	"autopilot/internal/repository"
)

// Submitter performs the external effect of an approved execution. Its
// success or failure is independent of the strategy's execution counter,
// which is incremented before submission and never reconciled afterwards.
type Submitter interface {
	Submit(ctx context.Context, item models.Strategy) (*models.ExecutionRecord, error)
}

// LogSubmitter stands in for the on-chain transaction submitter: it records
// the handoff and logs it. With DryRun set the record is marked accordingly;
// there is no live mode in this service, the real effect belongs to an
// external system.
type LogSubmitter struct {
	Repo   repository.ExecutionRepository
	Logger *zap.Logger
	DryRun bool
}

func (s *LogSubmitter) Submit(ctx context.Context, item models.Strategy) (*models.ExecutionRecord, error) {
	rec := &models.ExecutionRecord{
		StrategyID:   item.ID,
		OwnerAddress: item.OwnerAddress,
		Action:       item.Action,
		Amount:       item.Amount,
		Status:       models.ExecutionStatusSubmitted,
		DryRun:       s.DryRun,
	}
	if err := s.Repo.InsertExecutionRecord(ctx, rec); err != nil {
		return nil, err
	}
	if s.Logger != nil {
		s.Logger.Info("execution submitted",
			zap.String("strategy_id", item.ID),
			zap.String("action", item.Action),
			zap.String("amount", item.Amount.String()),
			zap.Bool("dry_run", s.DryRun),
		)
	}
	return rec, nil
}
