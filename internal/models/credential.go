package models

import (
	"time"
)

const (
	TierFree       = "free"
	TierPro        = "pro"
	TierEnterprise = "enterprise"
)

// RateLimitForTier returns the hourly request allowance for a tier.
func RateLimitForTier(tier string) int {
	switch tier {
	case TierPro:
		return 1000
	case TierEnterprise:
		return 10000
	default:
		return 100
	}
}

// Credential identifies an API caller. The token is issued once at registration
// and never rotated; there is no revocation flow.
type Credential struct {
	Token        string `gorm:"type:varchar(100);primaryKey"`
	OwnerAddress string `gorm:"type:varchar(64);not null;index"`
	DisplayName  string `gorm:"type:varchar(100)"`
	Tier         string `gorm:"type:varchar(20);not null;default:free"`
	RateLimit    int    `gorm:"not null;default:100"`

	RequestCount uint64     `gorm:"not null;default:0"`
	LastUsedAt   *time.Time `gorm:"type:timestamptz"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (Credential) TableName() string {
	return "credentials"
}
