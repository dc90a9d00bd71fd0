package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Achievement is a catalog entry. The catalog is seeded from
// config/achievements.yaml; Criteria keeps the raw rule for clients that
// render locked-achievement hints.
type Achievement struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Slug        string         `gorm:"uniqueIndex;not null;column:slug" json:"slug"`
	Name        string         `gorm:"not null;column:name" json:"name"`
	Description string         `gorm:"not null;column:description" json:"description"`
	Category    string         `gorm:"not null;index;column:category" json:"category"`
	Threshold   int            `gorm:"not null;column:threshold" json:"threshold"`
	Tier        int            `gorm:"not null;default:1;column:tier" json:"tier"`
	XPReward    int            `gorm:"not null;default:0;column:xp_reward" json:"xp_reward"`
	Criteria    datatypes.JSON `gorm:"column:criteria" json:"criteria,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (Achievement) TableName() string {
	return "achievement"
}

// UserAchievement is the per-user unlock record. At most one row per
// (user, achievement); IsNew flips true to false exactly once.
type UserAchievement struct {
	ID            uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement;column:user_id" json:"user_id"`
	AchievementID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_achievement;column:achievement_id" json:"achievement_id"`
	UnlockedAt    time.Time `gorm:"not null;default:now();column:unlocked_at" json:"unlocked_at"`
	IsNew         bool      `gorm:"not null;default:true;column:is_new" json:"is_new"`
}

func (UserAchievement) TableName() string {
	return "user_achievement"
}
