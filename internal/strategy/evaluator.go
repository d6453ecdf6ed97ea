package strategy

import (
	"github.com/shopspring/decimal"

	"autopilot/internal/models"
	"autopilot/internal/signal"
)

// priceEqualsTolerance is the policy tolerance for the "equals" condition.
// It is zero: equals means exact equality, since no upstream tolerance is
// specified. Widen here if feeds ever carry rounding noise.
var priceEqualsTolerance = decimal.Zero

// Satisfied reports whether the trigger condition holds against the snapshot.
// It is a pure function: no I/O, no side effects, and deterministic for
// identical inputs. Missing snapshot data means not satisfied, never an error.
func Satisfied(trig Trigger, snap signal.Snapshot) bool {
	switch trig.Kind {
	case models.TriggerTypePrice:
		if trig.Price == nil {
			return false
		}
		price, ok := snap.Price(trig.Price.Asset)
		if !ok {
			return false
		}
		switch trig.Price.Condition {
		case ConditionAbove:
			return price.GreaterThan(trig.Price.Target)
		case ConditionBelow:
			return price.LessThan(trig.Price.Target)
		case ConditionEquals:
			return price.Sub(trig.Price.Target).Abs().LessThanOrEqual(priceEqualsTolerance)
		default:
			return false
		}
	case models.TriggerTypeEvent:
		if trig.Event == nil {
			return false
		}
		obs, ok := snap.Event(trig.Event.Name)
		if !ok || !obs.Occurred {
			return false
		}
		return obs.Magnitude.GreaterThanOrEqual(trig.Event.MinMagnitude)
	case models.TriggerTypeTime:
		if trig.Time == nil {
			return false
		}
		return !snap.At.Before(trig.Time.At)
	default:
		return false
	}
}
