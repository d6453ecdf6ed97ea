package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	TriggerTypePrice = "price"
	TriggerTypeEvent = "event"
	TriggerTypeTime  = "time"
)

const (
	ActionMint     = "mint"
	ActionSwap     = "swap"
	ActionTransfer = "transfer"
	ActionRedeem   = "redeem"
)

// Strategy is a user-defined automation rule: a trigger condition bound to an
// action. Trigger holds the payload for the variant named by TriggerType.
type Strategy struct {
	ID           string `gorm:"type:varchar(64);primaryKey"`
	OwnerAddress string `gorm:"type:varchar(64);not null;index"`

	TriggerType string         `gorm:"type:varchar(20);not null"`
	Trigger     datatypes.JSON `gorm:"type:jsonb;not null"`

	Action string          `gorm:"type:varchar(20);not null"`
	Amount decimal.Decimal `gorm:"type:numeric(30,10);not null"`

	// Protected strategies are halted while the security circuit breaker is
	// active; unprotected ones keep executing.
	Protected bool `gorm:"not null;default:false"`
	Active    bool `gorm:"not null;default:true;index"`

	ExecutionCount uint64 `gorm:"not null;default:0"`
	// MaxExecutions caps ExecutionCount; 0 means unlimited.
	MaxExecutions uint64 `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (Strategy) TableName() string {
	return "strategies"
}
