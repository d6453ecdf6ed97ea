package strategy

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"autopilot/internal/models"
	"autopilot/internal/signal"
)

// Reason classifies an execution attempt's outcome. All of these are expected
// result values on a normal tick, not errors.
type Reason string

const (
	ReasonExecuted     Reason = "executed"
	ReasonPaused       Reason = "paused"
	ReasonExhausted    Reason = "exhausted"
	ReasonBlocked      Reason = "blocked"
	ReasonNotTriggered Reason = "not_triggered"
)

// Result is the outcome of one execution attempt.
type Result struct {
	Executed bool
	Reason   Reason
	// ExecutionCount is the counter after the attempt (unchanged unless
	// Executed).
	ExecutionCount uint64
}

// BreakerState is the slice of the security posture the gate consumes.
type BreakerState interface {
	CircuitBreakerActive() bool
}

// Gate decides whether a strategy may execute on this tick. Attempts for the
// same strategy id are serialized so two concurrent callers cannot both pass
// the max-executions check before either records its increment.
type Gate struct {
	Store   *Store
	Posture BreakerState
	Logger  *zap.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func (g *Gate) lockFor(id string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.locks == nil {
		g.locks = map[string]*sync.Mutex{}
	}
	l, ok := g.locks[id]
	if !ok {
		l = &sync.Mutex{}
		g.locks[id] = l
	}
	return l
}

// AttemptExecution runs the gate checks in cost order: the local-state checks
// (paused, exhausted) come before the breaker check, which comes before
// trigger evaluation, so strategies that cannot execute anyway never pay for
// an evaluation. On approval the execution is recorded before returning; the
// caller performs the external effect afterwards and its failure does not
// roll the counter back.
func (g *Gate) AttemptExecution(ctx context.Context, id string, snap signal.Snapshot) (Result, error) {
	l := g.lockFor(id)
	l.Lock()
	defer l.Unlock()

	item, err := g.Store.Repo.GetStrategyByID(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if item == nil {
		return Result{}, ErrNotFound
	}

	if !item.Active {
		return Result{Reason: ReasonPaused, ExecutionCount: item.ExecutionCount}, nil
	}
	if item.MaxExecutions != 0 && item.ExecutionCount >= item.MaxExecutions {
		return Result{Reason: ReasonExhausted, ExecutionCount: item.ExecutionCount}, nil
	}
	if item.Protected && g.Posture != nil && g.Posture.CircuitBreakerActive() {
		return Result{Reason: ReasonBlocked, ExecutionCount: item.ExecutionCount}, nil
	}

	trig, err := DecodeTrigger(*item)
	if err != nil {
		return Result{}, err
	}
	if !Satisfied(trig, snap) {
		return Result{Reason: ReasonNotTriggered, ExecutionCount: item.ExecutionCount}, nil
	}

	count, err := g.Store.RecordExecution(ctx, id)
	if err != nil {
		return Result{}, err
	}
	if g.Logger != nil {
		g.Logger.Info("strategy execution approved",
			zap.String("id", id),
			zap.Uint64("execution_count", count),
			zap.Uint64("max_executions", item.MaxExecutions),
		)
	}
	return Result{Executed: true, Reason: ReasonExecuted, ExecutionCount: count}, nil
}

// StateOf reports the derived lifecycle state for display: paused beats
// exhausted beats blocked beats active.
func StateOf(item models.Strategy, breakerActive bool) string {
	switch {
	case !item.Active:
		return "paused"
	case item.MaxExecutions != 0 && item.ExecutionCount >= item.MaxExecutions:
		return "exhausted"
	case item.Protected && breakerActive:
		return "blocked"
	default:
		return "active"
	}
}
