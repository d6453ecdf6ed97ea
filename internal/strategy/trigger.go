package strategy

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"autopilot/internal/models"
)

const (
	ConditionAbove  = "above"
	ConditionBelow  = "below"
	ConditionEquals = "equals"
)

// PriceTrigger fires on an asset price crossing a target.
type PriceTrigger struct {
	Asset     string          `json:"asset"`
	Condition string          `json:"condition"`
	Target    decimal.Decimal `json:"target"`
}

// EventTrigger fires when a named external event has occurred with at least
// the given magnitude.
type EventTrigger struct {
	Name         string          `json:"name"`
	MinMagnitude decimal.Decimal `json:"min_magnitude"`
}

// TimeTrigger fires once the clock reaches At.
type TimeTrigger struct {
	At time.Time `json:"at"`
}

// Trigger is a tagged variant: exactly one payload is set, matching Kind.
// Evaluation dispatches on the tag instead of sniffing optional fields.
type Trigger struct {
	Kind  string
	Price *PriceTrigger
	Event *EventTrigger
	Time  *TimeTrigger
}

func (t Trigger) Validate() error {
	switch t.Kind {
	case models.TriggerTypePrice:
		if t.Price == nil || t.Event != nil || t.Time != nil {
			return fmt.Errorf("%w: price trigger payload required", ErrInvalidInput)
		}
		if strings.TrimSpace(t.Price.Asset) == "" {
			return fmt.Errorf("%w: asset required for price trigger", ErrInvalidInput)
		}
		switch t.Price.Condition {
		case ConditionAbove, ConditionBelow, ConditionEquals:
		default:
			return fmt.Errorf("%w: unknown condition %q", ErrInvalidInput, t.Price.Condition)
		}
		if t.Price.Target.LessThanOrEqual(decimal.Zero) {
			return fmt.Errorf("%w: target must be positive", ErrInvalidInput)
		}
	case models.TriggerTypeEvent:
		if t.Event == nil || t.Price != nil || t.Time != nil {
			return fmt.Errorf("%w: event trigger payload required", ErrInvalidInput)
		}
		if strings.TrimSpace(t.Event.Name) == "" {
			return fmt.Errorf("%w: event name required", ErrInvalidInput)
		}
		if t.Event.MinMagnitude.IsNegative() {
			return fmt.Errorf("%w: min_magnitude must not be negative", ErrInvalidInput)
		}
	case models.TriggerTypeTime:
		if t.Time == nil || t.Price != nil || t.Event != nil {
			return fmt.Errorf("%w: time trigger payload required", ErrInvalidInput)
		}
		if t.Time.At.IsZero() {
			return fmt.Errorf("%w: time trigger needs a timestamp", ErrInvalidInput)
		}
	default:
		return fmt.Errorf("%w: unknown trigger type %q", ErrInvalidInput, t.Kind)
	}
	return nil
}

// EncodeTrigger serializes the active payload for storage.
func EncodeTrigger(t Trigger) (datatypes.JSON, error) {
	var payload any
	switch t.Kind {
	case models.TriggerTypePrice:
		payload = t.Price
	case models.TriggerTypeEvent:
		payload = t.Event
	case models.TriggerTypeTime:
		payload = t.Time
	default:
		return nil, fmt.Errorf("%w: unknown trigger type %q", ErrInvalidInput, t.Kind)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// DecodeTrigger reconstructs the variant from a stored strategy record.
func DecodeTrigger(item models.Strategy) (Trigger, error) {
	trig := Trigger{Kind: item.TriggerType}
	switch item.TriggerType {
	case models.TriggerTypePrice:
		var p PriceTrigger
		if err := json.Unmarshal(item.Trigger, &p); err != nil {
			return Trigger{}, fmt.Errorf("decode price trigger for %s: %w", item.ID, err)
		}
		trig.Price = &p
	case models.TriggerTypeEvent:
		var e EventTrigger
		if err := json.Unmarshal(item.Trigger, &e); err != nil {
			return Trigger{}, fmt.Errorf("decode event trigger for %s: %w", item.ID, err)
		}
		trig.Event = &e
	case models.TriggerTypeTime:
		var tt TimeTrigger
		if err := json.Unmarshal(item.Trigger, &tt); err != nil {
			return Trigger{}, fmt.Errorf("decode time trigger for %s: %w", item.ID, err)
		}
		trig.Time = &tt
	default:
		return Trigger{}, fmt.Errorf("unknown stored trigger type %q", item.TriggerType)
	}
	return trig, nil
}
