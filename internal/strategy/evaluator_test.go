package strategy

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"autopilot/internal/models"
	"autopilot/internal/signal"
)

func snapWithPrice(symbol string, price float64) signal.Snapshot {
	return signal.Snapshot{
		Prices: map[string]decimal.Decimal{symbol: decimal.NewFromFloat(price)},
		Events: map[string]signal.EventObservation{},
		At:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func priceTrigger(asset, condition string, target float64) Trigger {
	return Trigger{
		Kind: models.TriggerTypePrice,
		Price: &PriceTrigger{
			Asset:     asset,
			Condition: condition,
			Target:    decimal.NewFromFloat(target),
		},
	}
}

func TestSatisfiedPriceTriggers(t *testing.T) {
	tests := []struct {
		name string
		trig Trigger
		snap signal.Snapshot
		want bool
	}{
		{"above hit", priceTrigger("BTC", ConditionAbove, 50000), snapWithPrice("BTC", 50001), true},
		{"above miss", priceTrigger("BTC", ConditionAbove, 50000), snapWithPrice("BTC", 50000), false},
		{"below hit", priceTrigger("BTC", ConditionBelow, 45000), snapWithPrice("BTC", 44999.99), true},
		{"below miss at boundary", priceTrigger("BTC", ConditionBelow, 45000), snapWithPrice("BTC", 45000), false},
		{"equals exact", priceTrigger("FLR", ConditionEquals, 0.025), snapWithPrice("FLR", 0.025), true},
		{"equals near miss", priceTrigger("FLR", ConditionEquals, 0.025), snapWithPrice("FLR", 0.0251), false},
		{"missing price", priceTrigger("ETH", ConditionAbove, 1), snapWithPrice("BTC", 50000), false},
	}
	for _, tt := range tests {
		if got := Satisfied(tt.trig, tt.snap); got != tt.want {
			t.Fatalf("%s: Satisfied = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSatisfiedEventTriggers(t *testing.T) {
	trig := Trigger{
		Kind: models.TriggerTypeEvent,
		Event: &EventTrigger{
			Name:         "flare_upgrade",
			MinMagnitude: decimal.NewFromFloat(5),
		},
	}

	snap := signal.Snapshot{Events: map[string]signal.EventObservation{}}
	if Satisfied(trig, snap) {
		t.Fatalf("unknown event should not satisfy")
	}

	snap.Events["flare_upgrade"] = signal.EventObservation{Occurred: false, Magnitude: decimal.NewFromFloat(10)}
	if Satisfied(trig, snap) {
		t.Fatalf("non-occurred event should not satisfy")
	}

	snap.Events["flare_upgrade"] = signal.EventObservation{Occurred: true, Magnitude: decimal.NewFromFloat(4)}
	if Satisfied(trig, snap) {
		t.Fatalf("magnitude below minimum should not satisfy")
	}

	snap.Events["flare_upgrade"] = signal.EventObservation{Occurred: true, Magnitude: decimal.NewFromFloat(5)}
	if !Satisfied(trig, snap) {
		t.Fatalf("magnitude at minimum should satisfy")
	}
}

func TestSatisfiedTimeTriggers(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	trig := Trigger{Kind: models.TriggerTypeTime, Time: &TimeTrigger{At: at}}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"before", at.Add(-time.Second), false},
		{"exact", at, true},
		{"after", at.Add(time.Hour), true},
	}
	for _, tt := range tests {
		snap := signal.Snapshot{At: tt.now}
		if got := Satisfied(trig, snap); got != tt.want {
			t.Fatalf("%s: Satisfied = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSatisfiedIsDeterministic(t *testing.T) {
	trig := priceTrigger("BTC", ConditionAbove, 50000)
	snap := snapWithPrice("BTC", 50001)
	for i := 0; i < 100; i++ {
		if !Satisfied(trig, snap) {
			t.Fatalf("evaluation flipped on iteration %d", i)
		}
	}
}
