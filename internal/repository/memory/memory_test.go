package memoryrepository

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"autopilot/internal/models"
)

func TestTouchCredentialAtomicUnderConcurrency(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.InsertCredential(ctx, &models.Credential{Token: "flr_t"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	const touches = 200
	var wg sync.WaitGroup
	for i := 0; i < touches; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.TouchCredential(ctx, "flr_t", time.Now().UTC()); err != nil {
				t.Errorf("touch: %v", err)
			}
		}()
	}
	wg.Wait()

	cred, err := store.GetCredentialByToken(ctx, "flr_t")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cred.RequestCount != touches {
		t.Fatalf("request count %d, want %d", cred.RequestCount, touches)
	}
	if cred.LastUsedAt == nil {
		t.Fatalf("last used not stamped")
	}
}

func TestTouchUnknownTokenReturnsNil(t *testing.T) {
	store := New()
	cred, err := store.TouchCredential(context.Background(), "flr_missing", time.Now())
	if err != nil {
		t.Fatalf("touch: %v", err)
	}
	if cred != nil {
		t.Fatalf("expected nil for unknown token, got %+v", cred)
	}
}

func TestReadsReturnCopies(t *testing.T) {
	store := New()
	ctx := context.Background()

	if err := store.InsertStrategy(ctx, &models.Strategy{ID: "s-1", OwnerAddress: "0xab", Active: true}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := store.GetStrategyByID(ctx, "s-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	got.Active = false

	again, err := store.GetStrategyByID(ctx, "s-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !again.Active {
		t.Fatalf("mutation of a returned copy leaked into the store")
	}
}

func TestListActiveStrategiesFilters(t *testing.T) {
	store := New()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		item := &models.Strategy{ID: fmt.Sprintf("s-%d", i), Active: i%2 == 0}
		if err := store.InsertStrategy(ctx, item); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	items, err := store.ListActiveStrategies(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("active count %d, want 2", len(items))
	}
	if items[0].ID != "s-0" || items[1].ID != "s-2" {
		t.Fatalf("insertion order broken: %s, %s", items[0].ID, items[1].ID)
	}
}

func TestExecutionRecordsNewestFirstWithLimit(t *testing.T) {
	store := New()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		rec := &models.ExecutionRecord{StrategyID: "s-1", Action: fmt.Sprintf("a-%d", i)}
		if err := store.InsertExecutionRecord(ctx, rec); err != nil {
			t.Fatalf("insert: %v", err)
		}
		if rec.ID == 0 {
			t.Fatalf("id not assigned")
		}
	}
	if err := store.InsertExecutionRecord(ctx, &models.ExecutionRecord{StrategyID: "s-2"}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	records, err := store.ListExecutionRecordsByStrategy(ctx, "s-1", 3)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records %d, want 3", len(records))
	}
	if records[0].Action != "a-4" || records[2].Action != "a-2" {
		t.Fatalf("not newest first: %s ... %s", records[0].Action, records[2].Action)
	}
}

func TestDeleteStrategyDropsFromOrder(t *testing.T) {
	store := New()
	ctx := context.Background()

	for _, id := range []string{"s-1", "s-2", "s-3"} {
		if err := store.InsertStrategy(ctx, &models.Strategy{ID: id, OwnerAddress: "0xab", Active: true}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}
	if err := store.DeleteStrategy(ctx, "s-2"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	items, err := store.ListStrategiesByOwner(ctx, "0xab")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 || items[0].ID != "s-1" || items[1].ID != "s-3" {
		t.Fatalf("unexpected list after delete: %+v", items)
	}
}
