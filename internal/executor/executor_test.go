package executor

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"autopilot/internal/models"
	memoryrepository "autopilot/internal/repository/memory"
)

func TestSubmitRecordsExecution(t *testing.T) {
	repo := memoryrepository.New()
	sub := &LogSubmitter{Repo: repo, DryRun: true}

	item := models.Strategy{
		ID:           "s-1",
		OwnerAddress: "0xab",
		Action:       models.ActionSwap,
		Amount:       decimal.NewFromInt(100),
	}
	rec, err := sub.Submit(context.Background(), item)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if rec.Status != models.ExecutionStatusSubmitted {
		t.Fatalf("status %q", rec.Status)
	}
	if !rec.DryRun {
		t.Fatalf("dry run flag not carried")
	}

	records, err := repo.ListExecutionRecordsByStrategy(context.Background(), "s-1", 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("records %d, want 1", len(records))
	}
	if records[0].OwnerAddress != "0xab" || records[0].Action != models.ActionSwap {
		t.Fatalf("unexpected record: %+v", records[0])
	}
}
