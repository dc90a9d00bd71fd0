package types

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionTier gates feature limits. Changed only by entitlement
// events written from the billing integration, never by this service.
type SubscriptionTier string

const (
	TierFree     SubscriptionTier = "free"
	TierPremium  SubscriptionTier = "premium"
	TierLifetime SubscriptionTier = "lifetime"
)

// ValidTier reports whether s is a recognized subscription tier.
func ValidTier(s SubscriptionTier) bool {
	switch s {
	case TierFree, TierPremium, TierLifetime:
		return true
	}
	return false
}

type User struct {
	ID               uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Email            string           `gorm:"uniqueIndex;not null;column:email" json:"email"`
	Password         string           `gorm:"not null;column:password" json:"-"`
	FirstName        string           `gorm:"not null;column:first_name" json:"first_name"`
	LastName         string           `gorm:"not null;column:last_name" json:"last_name"`
	SubscriptionTier SubscriptionTier `gorm:"not null;default:'free';column:subscription_tier" json:"subscription_tier"`
	AvatarBucketKey  string           `gorm:"column:avatar_bucket_key" json:"avatar_bucket_key"`
	AvatarURL        string           `gorm:"column:avatar_url" json:"avatar_url"`
	AvatarColor      string           `gorm:"column:avatar_color" json:"avatar_color"`
	CreatedAt        time.Time        `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time        `gorm:"not null;default:now()" json:"updated_at"`
}

func (User) TableName() string {
	return "user"
}
