package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/repos"
	"github.com/sanadlabs/sanad-backend/internal/requestdata"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

type UserService interface {
	GetMe(ctx context.Context) (*types.User, error)
	UpdateSubscriptionTier(ctx context.Context, tier types.SubscriptionTier) (*types.User, error)
}

type userService struct {
	log      *logger.Logger
	userRepo repos.UserRepo
}

func NewUserService(log *logger.Logger, userRepo repos.UserRepo) UserService {
	return &userService{
		log:      log.With("service", "UserService"),
		userRepo: userRepo,
	}
}

func (us *userService) GetMe(ctx context.Context) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
	if err != nil {
		return nil, fmt.Errorf("fetch user: %w", err)
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return users[0], nil
}

// UpdateSubscriptionTier is the hook the billing webhook drives. It is the
// only write path for the tier column.
func (us *userService) UpdateSubscriptionTier(ctx context.Context, tier types.SubscriptionTier) (*types.User, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if !types.ValidTier(tier) {
		return nil, fmt.Errorf("%w: unknown subscription tier %q", ErrValidation, tier)
	}
	if err := us.userRepo.UpdateSubscriptionTier(ctx, nil, rd.UserID, tier); err != nil {
		return nil, fmt.Errorf("update subscription tier: %w", err)
	}
	us.log.Info("Subscription tier updated", "userID", rd.UserID, "tier", tier)
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{rd.UserID})
	if err != nil || len(users) == 0 {
		return nil, fmt.Errorf("fetch updated user: %w", err)
	}
	return users[0], nil
}
