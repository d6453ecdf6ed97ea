package signal

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// HealthStatus is a collector's self-reported state.
type HealthStatus struct {
	Status     string
	LastPollAt *time.Time
	LastError  *string
}

// Collector produces observations for the hub. Fetch failures stay inside the
// collector as health state; they never surface to consumers.
type Collector interface {
	Name() string
	Start(ctx context.Context, out chan<- Observation) error
	Health() HealthStatus
}

// Hub runs collectors and folds their observations into the latest-known
// signal state. Snapshot returns a point-in-time copy for trigger evaluation.
type Hub struct {
	mu         sync.RWMutex
	collectors []Collector
	prices     map[string]decimal.Decimal
	events     map[string]EventObservation

	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		prices: map[string]decimal.Decimal{},
		events: map[string]EventObservation{},
		logger: logger,
	}
}

func (h *Hub) Register(c Collector) {
	if h == nil || c == nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.collectors = append(h.collectors, c)
}

func (h *Hub) Run(ctx context.Context) error {
	if h == nil {
		return nil
	}
	out := make(chan Observation, 128)

	h.mu.RLock()
	collectors := make([]Collector, len(h.collectors))
	copy(collectors, h.collectors)
	h.mu.RUnlock()

	for _, c := range collectors {
		c := c
		go func() {
			if err := c.Start(ctx, out); err != nil && ctx.Err() == nil && h.logger != nil {
				h.logger.Warn("signal collector stopped", zap.String("collector", c.Name()), zap.Error(err))
			}
		}()
	}

	healthTicker := time.NewTicker(60 * time.Second)
	defer healthTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-healthTicker.C:
			if h.logger == nil {
				continue
			}
			for _, c := range collectors {
				hs := c.Health()
				fields := []zap.Field{
					zap.String("collector", c.Name()),
					zap.String("status", hs.Status),
				}
				if hs.LastError != nil {
					fields = append(fields, zap.String("last_error", *hs.LastError))
				}
				h.logger.Debug("signal collector health", fields...)
			}
		case obs := <-out:
			h.apply(obs)
		}
	}
}

func (h *Hub) apply(obs Observation) {
	h.mu.Lock()
	defer h.mu.Unlock()
	switch obs.Kind {
	case ObservationPrice:
		if obs.Symbol == "" {
			return
		}
		h.prices[obs.Symbol] = obs.Price
	case ObservationEvent:
		if obs.EventName == "" {
			return
		}
		h.events[obs.EventName] = EventObservation{
			Occurred:   obs.Occurred,
			Magnitude:  obs.Magnitude,
			ObservedAt: obs.At,
		}
	}
}

// SetPrice records a price directly, bypassing the collector pipeline. Used by
// tests and by the anomaly scanner's baseline bootstrap.
func (h *Hub) SetPrice(symbol string, price decimal.Decimal) {
	if h == nil || symbol == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.prices[symbol] = price
}

// SetEvent records an event observation directly.
func (h *Hub) SetEvent(name string, obs EventObservation) {
	if h == nil || name == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events[name] = obs
}

// Snapshot returns a copy of the latest signal state stamped with the current
// time. Readers may observe slightly stale data but never a torn write.
func (h *Hub) Snapshot() Snapshot {
	snap := Snapshot{
		Prices: map[string]decimal.Decimal{},
		Events: map[string]EventObservation{},
		At:     time.Now().UTC(),
	}
	if h == nil {
		return snap
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for k, v := range h.prices {
		snap.Prices[k] = v
	}
	for k, v := range h.events {
		snap.Events[k] = v
	}
	return snap
}
