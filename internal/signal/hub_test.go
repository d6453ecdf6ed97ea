package signal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestSnapshotIsACopy(t *testing.T) {
	hub := NewHub(nil)
	hub.SetPrice("BTC", decimal.NewFromInt(50000))
	hub.SetEvent("upgrade", EventObservation{Occurred: true, Magnitude: decimal.NewFromInt(7)})

	snap := hub.Snapshot()
	if p, ok := snap.Price("BTC"); !ok || !p.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("price missing from snapshot")
	}
	if ev, ok := snap.Event("upgrade"); !ok || !ev.Occurred {
		t.Fatalf("event missing from snapshot")
	}
	if snap.At.IsZero() {
		t.Fatalf("snapshot not timestamped")
	}

	// Mutating the snapshot must not leak back into the hub.
	snap.Prices["BTC"] = decimal.NewFromInt(1)
	delete(snap.Events, "upgrade")
	snap2 := hub.Snapshot()
	if p, _ := snap2.Price("BTC"); !p.Equal(decimal.NewFromInt(50000)) {
		t.Fatalf("snapshot mutation leaked into hub")
	}
	if _, ok := snap2.Event("upgrade"); !ok {
		t.Fatalf("snapshot delete leaked into hub")
	}
}

func TestHubAppliesObservations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		symbol := r.URL.Query().Get("symbol")
		w.Header().Set("Content-Type", "application/json")
		switch symbol {
		case "BTC":
			w.Write([]byte(`{"symbol":"BTC","price":50123.45}`))
		default:
			http.Error(w, "unknown symbol", http.StatusNotFound)
		}
	}))
	defer srv.Close()

	hub := NewHub(nil)
	collector := &FTSOCollector{
		HTTP:         srv.Client(),
		Endpoint:     srv.URL,
		Symbols:      []string{"BTC", "ETH"},
		PollInterval: time.Hour,
	}
	hub.Register(collector)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.Run(ctx)
	}()

	deadline := time.After(3 * time.Second)
	for {
		if p, ok := hub.Snapshot().Price("BTC"); ok {
			if !p.Equal(decimal.NewFromFloat(50123.45)) {
				t.Fatalf("price %s, want 50123.45", p)
			}
			break
		}
		select {
		case <-deadline:
			t.Fatalf("hub never applied the price observation")
		case <-time.After(10 * time.Millisecond):
		}
	}
	cancel()
	<-done

	// ETH failed; the collector is degraded, not down, and the snapshot simply
	// has no ETH entry.
	hs := collector.Health()
	if hs.Status != "degraded" {
		t.Fatalf("health %q, want degraded", hs.Status)
	}
	if _, ok := hub.Snapshot().Price("ETH"); ok {
		t.Fatalf("failed symbol should not have a price")
	}
}

func TestFTSOCollectorDownWhenAllFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	collector := &FTSOCollector{
		HTTP:     srv.Client(),
		Endpoint: srv.URL,
		Symbols:  []string{"BTC"},
	}
	out := make(chan Observation, 8)
	collector.pollOnce(context.Background(), out)

	hs := collector.Health()
	if hs.Status != "down" {
		t.Fatalf("health %q, want down", hs.Status)
	}
	if hs.LastError == nil {
		t.Fatalf("down health should carry the error")
	}
	select {
	case obs := <-out:
		t.Fatalf("unexpected observation: %+v", obs)
	default:
	}
}
