package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

type DiscussionPostRepo interface {
	Create(ctx context.Context, tx *gorm.DB, post *types.DiscussionPost) (*types.DiscussionPost, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DiscussionPost, error)
	ListByNarration(ctx context.Context, tx *gorm.DB, narrationID uuid.UUID, limit, offset int) ([]*types.DiscussionPost, error)
	SetModeration(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.ModerationStatus, reason, moderatedBy string) error
	SetReportCount(ctx context.Context, tx *gorm.DB, id uuid.UUID, count int) error
}

type discussionPostRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDiscussionPostRepo(db *gorm.DB, baseLog *logger.Logger) DiscussionPostRepo {
	return &discussionPostRepo{db: db, log: baseLog.With("repo", "DiscussionPostRepo")}
}

func (r *discussionPostRepo) Create(ctx context.Context, tx *gorm.DB, post *types.DiscussionPost) (*types.DiscussionPost, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(post).Error; err != nil {
		return nil, err
	}
	return post, nil
}

func (r *discussionPostRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DiscussionPost, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var post types.DiscussionPost
	err := transaction.WithContext(ctx).
		Where("id = ?", id).
		First(&post).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *discussionPostRepo) ListByNarration(ctx context.Context, tx *gorm.DB, narrationID uuid.UUID, limit, offset int) ([]*types.DiscussionPost, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var results []*types.DiscussionPost
	// Held and rejected posts stay out of the public listing.
	if err := transaction.WithContext(ctx).
		Where("narration_id = ? AND moderation_status = ?", narrationID, types.ModerationApproved).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *discussionPostRepo) SetModeration(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.ModerationStatus, reason, moderatedBy string) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	now := time.Now().UTC()
	return transaction.WithContext(ctx).
		Model(&types.DiscussionPost{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"moderation_status": status,
			"moderation_reason": reason,
			"moderated_by":      moderatedBy,
			"moderated_at":      now,
		}).Error
}

func (r *discussionPostRepo) SetReportCount(ctx context.Context, tx *gorm.DB, id uuid.UUID, count int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.DiscussionPost{}).
		Where("id = ?", id).
		Update("report_count", count).Error
}

type PostReportRepo interface {
	Create(ctx context.Context, tx *gorm.DB, report *types.PostReport) (*types.PostReport, error)
	CountByPost(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (int, error)
}

type postReportRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostReportRepo(db *gorm.DB, baseLog *logger.Logger) PostReportRepo {
	return &postReportRepo{db: db, log: baseLog.With("repo", "PostReportRepo")}
}

func (r *postReportRepo) Create(ctx context.Context, tx *gorm.DB, report *types.PostReport) (*types.PostReport, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(report).Error; err != nil {
		return nil, err
	}
	return report, nil
}

func (r *postReportRepo) CountByPost(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.PostReport{}).
		Where("post_id = ?", postID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}
