package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"autopilot/internal/executor"
	"autopilot/internal/repository"
	"autopilot/internal/signal"
	"autopilot/internal/strategy"
	"autopilot/internal/webhook"
)

// Monitor drives the evaluation loop: one snapshot per tick, one execution
// attempt per active strategy. A single scheduler goroutine (plus the gate's
// per-id locks) keeps attempts for the same strategy serialized.
type Monitor struct {
	Repo      repository.StrategyRepository
	Gate      *strategy.Gate
	Hub       *signal.Hub
	Submitter executor.Submitter
	Webhooks  *webhook.Notifier
	Logger    *zap.Logger
}

func (m *Monitor) Tick(ctx context.Context) {
	if m == nil || m.Repo == nil || m.Gate == nil || m.Hub == nil {
		return
	}
	snap := m.Hub.Snapshot()
	items, err := m.Repo.ListActiveStrategies(ctx)
	if err != nil {
		if m.Logger != nil {
			m.Logger.Warn("monitor: list strategies failed", zap.Error(err))
		}
		return
	}

	executed := 0
	for _, item := range items {
		res, err := m.Gate.AttemptExecution(ctx, item.ID, snap)
		if err != nil {
			// Deleted between list and attempt, or a bad stored payload.
			if m.Logger != nil {
				m.Logger.Warn("monitor: attempt failed",
					zap.String("id", item.ID),
					zap.Error(err),
				)
			}
			continue
		}
		if !res.Executed {
			continue
		}
		executed++

		if m.Submitter != nil {
			if _, err := m.Submitter.Submit(ctx, item); err != nil && m.Logger != nil {
				// The counter was already incremented; submission failure is
				// recorded, not reconciled.
				m.Logger.Warn("monitor: submit failed",
					zap.String("id", item.ID),
					zap.Error(err),
				)
			}
		}
		if m.Webhooks != nil {
			m.Webhooks.NotifyExecution(ctx, webhook.ExecutionEvent{
				Event:          webhook.EventStrategyExecuted,
				StrategyID:     item.ID,
				OwnerAddress:   item.OwnerAddress,
				Action:         item.Action,
				Amount:         item.Amount,
				ExecutionCount: res.ExecutionCount,
				At:             time.Now().UTC(),
			})
		}
	}

	if m.Logger != nil {
		m.Logger.Debug("monitor tick",
			zap.Int("active", len(items)),
			zap.Int("executed", executed),
		)
	}
}
