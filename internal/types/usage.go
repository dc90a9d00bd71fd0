package types

import (
	"time"

	"github.com/google/uuid"
)

// UsageKind names a quota-guarded action.
type UsageKind string

const (
	UsageDiscussionPost UsageKind = "discussion_post"
	UsageAIQuery        UsageKind = "ai_query"
	UsageQuizAttempt    UsageKind = "quiz_attempt"
	UsageSavedItems     UsageKind = "saved_items"
)

// DailyUsage holds one counter per (user, kind, UTC calendar date).
// Counts only grow within a day; the next day gets a fresh row.
type DailyUsage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_daily_usage_key;column:user_id" json:"user_id"`
	Kind      UsageKind `gorm:"not null;uniqueIndex:idx_daily_usage_key;column:kind" json:"kind"`
	Date      string    `gorm:"not null;uniqueIndex:idx_daily_usage_key;column:date" json:"date"`
	Count     int       `gorm:"not null;default:0;column:count" json:"count"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (DailyUsage) TableName() string {
	return "daily_usage"
}

// MonthlyUsage mirrors DailyUsage at "YYYY-MM" granularity; only AI
// queries carry a monthly bound today.
type MonthlyUsage struct {
	ID        uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_monthly_usage_key;column:user_id" json:"user_id"`
	Kind      UsageKind `gorm:"not null;uniqueIndex:idx_monthly_usage_key;column:kind" json:"kind"`
	Month     string    `gorm:"not null;uniqueIndex:idx_monthly_usage_key;column:month" json:"month"`
	Count     int       `gorm:"not null;default:0;column:count" json:"count"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (MonthlyUsage) TableName() string {
	return "monthly_usage"
}
