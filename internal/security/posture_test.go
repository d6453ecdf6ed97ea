package security

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"SAFE", LevelSafe},
		{"low", LevelLow},
		{" Medium ", LevelMedium},
		{"HIGH", LevelHigh},
		{"critical", LevelCritical},
		{"", LevelLow},
		{"banana", LevelLow},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestThreatLevelRatchetsUp(t *testing.T) {
	p := NewPosture(nil, nil)
	ctx := context.Background()

	p.ReportThreat(ctx, "scanner", LevelMedium, "suspicious flow")
	if got := p.Status().ThreatLevel; got != LevelMedium {
		t.Fatalf("level %v, want MEDIUM", got)
	}

	// A lower severity never lowers the level.
	p.ReportThreat(ctx, "scanner", LevelLow, "minor event")
	if got := p.Status().ThreatLevel; got != LevelMedium {
		t.Fatalf("level dropped to %v", got)
	}

	p.ReportThreat(ctx, "scanner", LevelCritical, "exploit detected")
	state := p.Status()
	if state.ThreatLevel != LevelCritical {
		t.Fatalf("level %v, want CRITICAL", state.ThreatLevel)
	}
	if state.ThreatsDetected != 3 {
		t.Fatalf("threats detected %d, want 3", state.ThreatsDetected)
	}
	if state.LastThreatDescription != "exploit detected" {
		t.Fatalf("last description %q", state.LastThreatDescription)
	}
}

func TestBreakerEngagesAtHigh(t *testing.T) {
	p := NewPosture(nil, nil)
	ctx := context.Background()

	p.ReportThreat(ctx, "scanner", LevelMedium, "probe")
	if p.CircuitBreakerActive() {
		t.Fatalf("breaker engaged below HIGH")
	}

	p.ReportThreat(ctx, "scanner", LevelHigh, "attack")
	if !p.CircuitBreakerActive() {
		t.Fatalf("breaker not engaged at HIGH")
	}

	// Further low reports keep it engaged.
	p.ReportThreat(ctx, "scanner", LevelLow, "echo")
	if !p.CircuitBreakerActive() {
		t.Fatalf("breaker released without reset")
	}
}

func TestStatusNeverTorn(t *testing.T) {
	p := NewPosture(nil, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			p.ReportThreat(ctx, "scanner", LevelHigh, "attack")
		}
		close(stop)
	}()

	for {
		state := p.Status()
		if (state.ThreatLevel >= LevelHigh) != state.CircuitBreakerActive {
			t.Fatalf("torn read: level=%v breaker=%v", state.ThreatLevel, state.CircuitBreakerActive)
		}
		select {
		case <-stop:
			wg.Wait()
			return
		default:
		}
	}
}

func TestAlertLogRetention(t *testing.T) {
	p := NewPosture(nil, nil)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		p.ReportThreat(ctx, "scanner", LevelLow, fmt.Sprintf("event %d", i))
	}
	state := p.Status()
	if len(state.Alerts) != alertLogRetention {
		t.Fatalf("alert log length %d, want %d", len(state.Alerts), alertLogRetention)
	}
	if state.Alerts[0].Description != "event 5" {
		t.Fatalf("oldest kept alert %q, want event 5", state.Alerts[0].Description)
	}
	if state.Alerts[len(state.Alerts)-1].Description != "event 14" {
		t.Fatalf("newest alert %q, want event 14", state.Alerts[len(state.Alerts)-1].Description)
	}
	if state.ThreatsDetected != 15 {
		t.Fatalf("threats detected %d, want 15", state.ThreatsDetected)
	}
}

func TestResetClearsLevelKeepsLog(t *testing.T) {
	p := NewPosture(nil, nil)
	ctx := context.Background()

	p.ReportThreat(ctx, "scanner", LevelCritical, "exploit")
	p.Reset(ctx)

	state := p.Status()
	if state.ThreatLevel != LevelSafe {
		t.Fatalf("level after reset %v", state.ThreatLevel)
	}
	if state.CircuitBreakerActive {
		t.Fatalf("breaker still engaged after reset")
	}
	if state.ThreatsDetected != 0 {
		t.Fatalf("counter after reset %d", state.ThreatsDetected)
	}
	if len(state.Alerts) != 1 {
		t.Fatalf("alert log should survive reset, got %d entries", len(state.Alerts))
	}
}
