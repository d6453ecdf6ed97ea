package models

import "time"

// SecurityAlert is one entry of the posture's alert log.
type SecurityAlert struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	Source      string `gorm:"type:varchar(50);not null;index"`
	Severity    string `gorm:"type:varchar(20);not null"`
	Description string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (SecurityAlert) TableName() string {
	return "security_alerts"
}
