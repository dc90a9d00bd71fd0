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

// autoHoldThreshold is the report count at which approved content is
// pulled into the human-review queue.
const autoHoldThreshold = 3

// ReportService handles community reports on discussion posts.
//
// Auto-hold is monotone: approved posts transition to held at the
// threshold and are never auto-reverted; releasing a held post takes a
// human reviewer. Rejected posts stay rejected — a report never lowers
// the severity of an existing decision.
type ReportService interface {
	ReportPost(ctx context.Context, postID uuid.UUID, reason string) (*types.DiscussionPost, error)
}

type reportService struct {
	db         *gorm.DB
	log        *logger.Logger
	postRepo   repos.DiscussionPostRepo
	reportRepo repos.PostReportRepo
}

func NewReportService(db *gorm.DB, log *logger.Logger, postRepo repos.DiscussionPostRepo, reportRepo repos.PostReportRepo) ReportService {
	return &reportService{
		db:         db,
		log:        log.With("service", "ReportService"),
		postRepo:   postRepo,
		reportRepo: reportRepo,
	}
}

func (rs *reportService) ReportPost(ctx context.Context, postID uuid.UUID, reason string) (*types.DiscussionPost, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	var out *types.DiscussionPost
	err := runInTx(ctx, rs.db, func(tx *gorm.DB) error {
		post, err := rs.postRepo.GetByID(ctx, tx, postID)
		if err != nil {
			return fmt.Errorf("fetch post: %w", err)
		}
		if post == nil {
			return ErrNotFound
		}
		if post.UserID == rd.UserID {
			return ErrSelfReport
		}

		report := &types.PostReport{
			ID:         uuid.New(),
			PostID:     postID,
			ReporterID: rd.UserID,
			Reason:     reason,
		}
		if _, err := rs.reportRepo.Create(ctx, tx, report); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyReported
			}
			return fmt.Errorf("create report: %w", err)
		}

		count, err := rs.reportRepo.CountByPost(ctx, tx, postID)
		if err != nil {
			return fmt.Errorf("count reports: %w", err)
		}
		if err := rs.postRepo.SetReportCount(ctx, tx, postID, count); err != nil {
			return fmt.Errorf("update report count: %w", err)
		}
		post.ReportCount = count

		if count >= autoHoldThreshold && post.ModerationStatus == types.ModerationApproved {
			holdReason := fmt.Sprintf("Auto-held: %d reports received", count)
			if err := rs.postRepo.SetModeration(ctx, tx, postID, types.ModerationHeld, holdReason, types.ModeratorAuto); err != nil {
				return fmt.Errorf("auto-hold post: %w", err)
			}
			rs.log.Info("Post auto-held", "post_id", postID, "report_count", count)
			post.ModerationStatus = types.ModerationHeld
			post.ModerationReason = holdReason
			post.ModeratedBy = types.ModeratorAuto
		}

		out = post
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
