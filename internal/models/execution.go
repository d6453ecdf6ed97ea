package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ExecutionStatusSubmitted = "submitted"
	ExecutionStatusFailed    = "failed"
)

// ExecutionRecord is the submitter-side log of an approved execution. The
// strategy's execution counter is incremented before submission and is not
// reconciled if submission later fails (at-least-once accounting).
type ExecutionRecord struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	StrategyID   string `gorm:"type:varchar(64);not null;index"`
	OwnerAddress string `gorm:"type:varchar(64);not null;index"`

	Action string          `gorm:"type:varchar(20);not null"`
	Amount decimal.Decimal `gorm:"type:numeric(30,10);not null"`

	Status string  `gorm:"type:varchar(20);not null"`
	Error  *string `gorm:"type:text"`
	DryRun bool    `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (ExecutionRecord) TableName() string {
	return "execution_records"
}
