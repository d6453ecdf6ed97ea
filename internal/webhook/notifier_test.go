package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	memoryrepository "autopilot/internal/repository/memory"
	"autopilot/internal/strategy"
)

const testOwner = "0xdddddddddddddddddddddddddddddddddddddddd"

func TestRegisterValidation(t *testing.T) {
	n := &Notifier{Repo: memoryrepository.New()}
	ctx := context.Background()

	tests := []struct {
		name   string
		url    string
		events []string
	}{
		{"empty url", "", []string{"*"}},
		{"bad scheme", "ftp://example.com/hook", []string{"*"}},
		{"no host", "http://", []string{"*"}},
		{"no events", "https://example.com/hook", nil},
	}
	for _, tt := range tests {
		if _, err := n.Register(ctx, testOwner, tt.url, tt.events); !errors.Is(err, strategy.ErrInvalidInput) {
			t.Fatalf("%s: expected ErrInvalidInput, got %v", tt.name, err)
		}
	}

	hook, err := n.Register(ctx, testOwner, " https://example.com/hook ", []string{EventStrategyExecuted})
	if err != nil {
		t.Fatalf("valid register: %v", err)
	}
	if hook.ID == "" || !hook.Active {
		t.Fatalf("unexpected webhook: %+v", hook)
	}
}

func TestNotifyExecutionDeliversToSubscribers(t *testing.T) {
	var mu sync.Mutex
	var received []ExecutionEvent
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev ExecutionEvent
		if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
			t.Errorf("decode delivery: %v", err)
		}
		mu.Lock()
		received = append(received, ev)
		mu.Unlock()
	}))
	defer srv.Close()

	repo := memoryrepository.New()
	n := &Notifier{Repo: repo, HTTP: srv.Client()}
	ctx := context.Background()

	if _, err := n.Register(ctx, testOwner, srv.URL+"/subscribed", []string{EventStrategyExecuted}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := n.Register(ctx, testOwner, srv.URL+"/wildcard", []string{"*"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := n.Register(ctx, testOwner, srv.URL+"/other", []string{"strategy.deleted"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	n.NotifyExecution(ctx, ExecutionEvent{
		StrategyID:     "s-1",
		OwnerAddress:   testOwner,
		Action:         "swap",
		Amount:         decimal.NewFromInt(100),
		ExecutionCount: 1,
	})

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 2 {
		t.Fatalf("deliveries %d, want 2", len(received))
	}
	for _, ev := range received {
		if ev.Event != EventStrategyExecuted || ev.StrategyID != "s-1" {
			t.Fatalf("unexpected payload: %+v", ev)
		}
	}
}

func TestNotifyExecutionSurvivesDeadEndpoint(t *testing.T) {
	repo := memoryrepository.New()
	n := &Notifier{Repo: repo}
	ctx := context.Background()

	// Nothing listens on this port; delivery must fail quietly.
	if _, err := n.Register(ctx, testOwner, "http://127.0.0.1:1/hook", []string{"*"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	n.NotifyExecution(ctx, ExecutionEvent{OwnerAddress: testOwner, Amount: decimal.NewFromInt(1)})
}
