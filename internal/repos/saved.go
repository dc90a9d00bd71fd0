package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

type SavedNarrationRepo interface {
	Create(ctx context.Context, tx *gorm.DB, saved *types.SavedNarration) (*types.SavedNarration, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SavedNarration, error)
	DeleteByUserAndNarration(ctx context.Context, tx *gorm.DB, userID, narrationID uuid.UUID) (bool, error)
}

type savedNarrationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSavedNarrationRepo(db *gorm.DB, baseLog *logger.Logger) SavedNarrationRepo {
	return &savedNarrationRepo{db: db, log: baseLog.With("repo", "SavedNarrationRepo")}
}

func (r *savedNarrationRepo) Create(ctx context.Context, tx *gorm.DB, saved *types.SavedNarration) (*types.SavedNarration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if err := transaction.WithContext(ctx).Create(saved).Error; err != nil {
		return nil, err
	}
	return saved, nil
}

func (r *savedNarrationRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.SavedNarration{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *savedNarrationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SavedNarration, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.SavedNarration
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *savedNarrationRepo) DeleteByUserAndNarration(ctx context.Context, tx *gorm.DB, userID, narrationID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	res := transaction.WithContext(ctx).
		Where("user_id = ? AND narration_id = ?", userID, narrationID).
		Delete(&types.SavedNarration{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
