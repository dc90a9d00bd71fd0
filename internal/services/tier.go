package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/repos"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

// TierService resolves a user's subscription tier. The tier attribute
// is written by the billing integration; this service only reads it.
//
// Resolution never fails: a missing profile, an empty or unrecognized
// attribute, or a lookup error all resolve to the free tier. Every
// quota decision downstream inherits this lowest-privilege fallback.
type TierService interface {
	ResolveTier(ctx context.Context, userID uuid.UUID) types.SubscriptionTier
}

type tierService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewTierService(log *logger.Logger, userRepo repos.UserRepo) TierService {
	return &tierService{
		log:      log.With("service", "TierService"),
		userRepo: userRepo,
	}
}

func (ts *tierService) ResolveTier(ctx context.Context, userID uuid.UUID) types.SubscriptionTier {
	if userID == uuid.Nil {
		return types.TierFree
	}
	tier, err := ts.userRepo.GetSubscriptionTier(ctx, nil, userID)
	if err != nil {
		ts.log.Warn("Tier lookup failed, falling back to free", "user_id", userID, "error", err)
		return types.TierFree
	}
	if !types.ValidTier(tier) {
		return types.TierFree
	}
	return tier
}
