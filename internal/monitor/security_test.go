package monitor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"autopilot/internal/security"
	"autopilot/internal/signal"
)

func TestScanFeedsThreatSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"threats":[
			{"severity":"HIGH","description":"drained pool"},
			{"source":"external","severity":"LOW","description":"odd traffic"}
		]}`))
	}))
	defer srv.Close()

	posture := security.NewPosture(nil, nil)
	scanner := &SecurityScanner{
		Posture: posture,
		Sources: []ThreatSource{&HTTPThreatSource{
			SourceName: "intel",
			Endpoint:   srv.URL,
			HTTP:       srv.Client(),
		}},
	}
	scanner.Scan(context.Background())

	state := posture.Status()
	if state.ThreatLevel != security.LevelHigh {
		t.Fatalf("level %v, want HIGH", state.ThreatLevel)
	}
	if !state.CircuitBreakerActive {
		t.Fatalf("breaker should be active after HIGH report")
	}
	if state.ThreatsDetected != 2 {
		t.Fatalf("threats detected %d, want 2", state.ThreatsDetected)
	}
	if len(state.Alerts) != 2 {
		t.Fatalf("alerts %d, want 2", len(state.Alerts))
	}
	if state.Alerts[0].Source != "intel" {
		t.Fatalf("blank source should default to the feed name, got %q", state.Alerts[0].Source)
	}
	if state.Alerts[1].Source != "external" {
		t.Fatalf("explicit source overwritten: %q", state.Alerts[1].Source)
	}
}

func TestScanIgnoresDeadSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	posture := security.NewPosture(nil, nil)
	scanner := &SecurityScanner{
		Posture: posture,
		Sources: []ThreatSource{&HTTPThreatSource{
			SourceName: "intel",
			Endpoint:   srv.URL,
			HTTP:       srv.Client(),
		}},
	}
	scanner.Scan(context.Background())

	state := posture.Status()
	if state.ThreatsDetected != 0 || state.ThreatLevel != security.LevelSafe {
		t.Fatalf("dead source raised posture: %+v", state)
	}
}

func TestPriceAnomalyRaisesHigh(t *testing.T) {
	posture := security.NewPosture(nil, nil)
	hub := signal.NewHub(nil)
	scanner := &SecurityScanner{
		Posture:    posture,
		Hub:        hub,
		AnomalyPct: 20,
	}
	ctx := context.Background()

	hub.SetPrice("BTC", decimal.NewFromInt(50000))
	scanner.Scan(ctx)
	if posture.Status().ThreatLevel != security.LevelSafe {
		t.Fatalf("baseline scan should not report")
	}

	// 10% move: under the threshold.
	hub.SetPrice("BTC", decimal.NewFromInt(55000))
	scanner.Scan(ctx)
	if posture.Status().ThreatLevel != security.LevelSafe {
		t.Fatalf("sub-threshold move reported")
	}

	// 25% drop against the new baseline.
	hub.SetPrice("BTC", decimal.NewFromInt(41250))
	scanner.Scan(ctx)
	state := posture.Status()
	if state.ThreatLevel != security.LevelHigh {
		t.Fatalf("level %v, want HIGH", state.ThreatLevel)
	}
	if !state.CircuitBreakerActive {
		t.Fatalf("breaker should engage on a price anomaly")
	}
}
