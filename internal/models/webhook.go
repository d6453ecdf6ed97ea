package models

import (
	"time"

	"gorm.io/datatypes"
)

// Webhook is an owner-registered callback for execution events.
type Webhook struct {
	ID           string `gorm:"type:varchar(64);primaryKey"`
	OwnerAddress string `gorm:"type:varchar(64);not null;index"`
	URL          string `gorm:"type:text;not null"`

	// Events is a JSON array of event names, e.g. ["strategy.executed"].
	Events datatypes.JSON `gorm:"type:jsonb"`
	Active bool           `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (Webhook) TableName() string {
	return "webhooks"
}
