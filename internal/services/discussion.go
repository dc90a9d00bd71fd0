package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/repos"
	"github.com/sanadlabs/sanad-backend/internal/requestdata"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

const maxPostBody = 5000

// CreatePostResult is what a successful submission returns: the stored
// post (whose moderation status may be held or rejected), the quota
// state after charging, and any achievements the post unlocked.
type CreatePostResult struct {
	Post        *types.DiscussionPost `json:"post"`
	Quota       QuotaDecision         `json:"quota"`
	NewUnlocks  []*types.Achievement  `json:"new_achievements,omitempty"`
}

type DiscussionService interface {
	CreatePost(ctx context.Context, narrationID uuid.UUID, body string) (*CreatePostResult, error)
	ListPosts(ctx context.Context, narrationID uuid.UUID, limit, offset int) ([]*types.DiscussionPost, error)
}

type discussionService struct {
	db            *gorm.DB
	log           *logger.Logger
	postRepo      repos.DiscussionPostRepo
	narrationRepo repos.NarrationRepo
	tier          TierService
	quota         QuotaService
	moderationSvc ModerationService
	activity      ActivityService
}

func NewDiscussionService(
	db *gorm.DB,
	log *logger.Logger,
	postRepo repos.DiscussionPostRepo,
	narrationRepo repos.NarrationRepo,
	tier TierService,
	quota QuotaService,
	moderationSvc ModerationService,
	activity ActivityService,
) DiscussionService {
	return &discussionService{
		db:            db,
		log:           log.With("service", "DiscussionService"),
		postRepo:      postRepo,
		narrationRepo: narrationRepo,
		tier:          tier,
		quota:         quota,
		moderationSvc: moderationSvc,
		activity:      activity,
	}
}

func (ds *discussionService) CreatePost(ctx context.Context, narrationID uuid.UUID, body string) (*CreatePostResult, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: post body is required", ErrValidation)
	}
	if len(body) > maxPostBody {
		return nil, fmt.Errorf("%w: post body exceeds %d characters", ErrValidation, maxPostBody)
	}
	if narrationID == uuid.Nil {
		return nil, fmt.Errorf("%w: narration_id is required", ErrValidation)
	}

	narrations, err := ds.narrationRepo.GetByIDs(ctx, nil, []uuid.UUID{narrationID})
	if err != nil {
		return nil, fmt.Errorf("fetch narration: %w", err)
	}
	if len(narrations) == 0 {
		return nil, ErrNotFound
	}

	tier := ds.tier.ResolveTier(ctx, rd.UserID)
	decision := ds.quota.CheckQuota(ctx, rd.UserID, types.UsageDiscussionPost, tier)
	if !decision.Allowed {
		return nil, &QuotaExceededError{Decision: decision}
	}

	verdict := ds.moderationSvc.Moderate(ctx, body)

	post := &types.DiscussionPost{
		ID:               uuid.New(),
		UserID:           rd.UserID,
		NarrationID:      narrationID,
		Body:             body,
		ModerationStatus: verdict.Status,
		ModerationReason: verdict.Reason,
		ModeratedBy:      verdict.By,
	}
	if err := runInTx(ctx, ds.db, func(tx *gorm.DB) error {
		_, err := ds.postRepo.Create(ctx, tx, post)
		return err
	}); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}

	// Usage is charged only after the write succeeded; a failed insert
	// costs no quota.
	if err := ds.quota.RecordUsage(ctx, rd.UserID, types.UsageDiscussionPost); err != nil {
		ds.log.Error("Failed to record post usage", "user_id", rd.UserID, "error", err)
	}

	var unlocks []*types.Achievement
	if _, newUnlocks, err := ds.activity.Track(ctx, rd.UserID, ActivityPostCreated); err != nil {
		ds.log.Error("Failed to track post activity", "user_id", rd.UserID, "error", err)
	} else {
		unlocks = newUnlocks
	}

	after := decision
	if !after.Unlimited && after.Remaining > 0 {
		after.Remaining--
	}
	return &CreatePostResult{Post: post, Quota: after, NewUnlocks: unlocks}, nil
}

func (ds *discussionService) ListPosts(ctx context.Context, narrationID uuid.UUID, limit, offset int) ([]*types.DiscussionPost, error) {
	if narrationID == uuid.Nil {
		return nil, fmt.Errorf("%w: narration_id is required", ErrValidation)
	}
	return ds.postRepo.ListByNarration(ctx, nil, narrationID, limit, offset)
}
