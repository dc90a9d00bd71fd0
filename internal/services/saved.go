package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/repos"
	"github.com/sanadlabs/sanad-backend/internal/requestdata"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

type SavedService interface {
	Save(ctx context.Context, narrationID uuid.UUID, note string) (*types.SavedNarration, error)
	Unsave(ctx context.Context, narrationID uuid.UUID) error
	List(ctx context.Context) ([]*types.SavedNarration, error)
}

type savedService struct {
	db        *gorm.DB
	log       *logger.Logger
	savedRepo repos.SavedNarrationRepo
	tier      TierService
	quota     QuotaService
	activity  ActivityService
}

func NewSavedService(db *gorm.DB, log *logger.Logger, savedRepo repos.SavedNarrationRepo, tier TierService, quota QuotaService, activity ActivityService) SavedService {
	return &savedService{
		db:        db,
		log:       log.With("service", "SavedService"),
		savedRepo: savedRepo,
		tier:      tier,
		quota:     quota,
		activity:  activity,
	}
}

func (ss *savedService) Save(ctx context.Context, narrationID uuid.UUID, note string) (*types.SavedNarration, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if narrationID == uuid.Nil {
		return nil, fmt.Errorf("%w: narration_id is required", ErrValidation)
	}

	tier := ss.tier.ResolveTier(ctx, rd.UserID)
	decision := ss.quota.CheckQuota(ctx, rd.UserID, types.UsageSavedItems, tier)
	if !decision.Allowed {
		return nil, &QuotaExceededError{Decision: decision}
	}

	saved := &types.SavedNarration{
		ID:          uuid.New(),
		UserID:      rd.UserID,
		NarrationID: narrationID,
		Note:        note,
	}
	if _, err := ss.savedRepo.Create(ctx, nil, saved); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadySaved
		}
		return nil, fmt.Errorf("save narration: %w", err)
	}

	if _, _, err := ss.activity.Track(ctx, rd.UserID, ActivityNarrationSaved); err != nil {
		ss.log.Error("Failed to track save activity", "user_id", rd.UserID, "error", err)
	}
	return saved, nil
}

func (ss *savedService) Unsave(ctx context.Context, narrationID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return ErrUnauthorized
	}
	deleted, err := ss.savedRepo.DeleteByUserAndNarration(ctx, nil, rd.UserID, narrationID)
	if err != nil {
		return fmt.Errorf("unsave narration: %w", err)
	}
	if !deleted {
		return ErrNotFound
	}
	return nil
}

func (ss *savedService) List(ctx context.Context) ([]*types.SavedNarration, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	return ss.savedRepo.ListByUser(ctx, nil, rd.UserID)
}
