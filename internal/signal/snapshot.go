package signal

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventObservation is the latest known state of a named external event.
type EventObservation struct {
	Occurred   bool            `json:"occurred"`
	Magnitude  decimal.Decimal `json:"magnitude"`
	ObservedAt time.Time       `json:"observed_at"`
}

// Snapshot is a point-in-time bundle of external data used to evaluate
// triggers. A missing entry means the feed had nothing for it; evaluation
// treats that as not satisfied, never as a fault.
type Snapshot struct {
	Prices map[string]decimal.Decimal
	Events map[string]EventObservation
	At     time.Time
}

func (s Snapshot) Price(asset string) (decimal.Decimal, bool) {
	p, ok := s.Prices[asset]
	return p, ok
}

func (s Snapshot) Event(name string) (EventObservation, bool) {
	e, ok := s.Events[name]
	return e, ok
}

// Observation is one feed reading on its way into the hub.
type Observation struct {
	// Kind is "price" or "event".
	Kind string

	Symbol string
	Price  decimal.Decimal

	EventName string
	Occurred  bool
	Magnitude decimal.Decimal

	At time.Time
}

const (
	ObservationPrice = "price"
	ObservationEvent = "event"
)
