package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

type AchievementRepo interface {
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Achievement, error)
	UpsertBySlug(ctx context.Context, tx *gorm.DB, achievements []*types.Achievement) error
}

type achievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAchievementRepo(db *gorm.DB, baseLog *logger.Logger) AchievementRepo {
	return &achievementRepo{db: db, log: baseLog.With("repo", "AchievementRepo")}
}

func (r *achievementRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Achievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Achievement
	if err := transaction.WithContext(ctx).
		Order("category ASC, tier ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *achievementRepo) UpsertBySlug(ctx context.Context, tx *gorm.DB, achievements []*types.Achievement) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(achievements) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "description", "category", "threshold", "tier", "xp_reward", "criteria",
			}),
		}).
		Create(&achievements).Error
}

type UserAchievementRepo interface {
	// Unlock inserts the unlock record if absent. Returns true when this
	// call created it, false when the user already had it.
	Unlock(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserAchievement, error)
	// MarkSeen flips is_new to false; it never sets it back to true.
	MarkSeen(ctx context.Context, tx *gorm.DB, userID uuid.UUID, achievementIDs []uuid.UUID) error
}

type userAchievementRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserAchievementRepo(db *gorm.DB, baseLog *logger.Logger) UserAchievementRepo {
	return &userAchievementRepo{db: db, log: baseLog.With("repo", "UserAchievementRepo")}
}

func (r *userAchievementRepo) Unlock(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	rec := &types.UserAchievement{
		ID:            uuid.New(),
		UserID:        userID,
		AchievementID: achievementID,
		IsNew:         true,
	}
	res := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "achievement_id"}},
			DoNothing: true,
		}).
		Create(rec)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *userAchievementRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserAchievement, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.UserAchievement
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("unlocked_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *userAchievementRepo) MarkSeen(ctx context.Context, tx *gorm.DB, userID uuid.UUID, achievementIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	q := transaction.WithContext(ctx).
		Model(&types.UserAchievement{}).
		Where("user_id = ? AND is_new = true", userID)
	if len(achievementIDs) > 0 {
		q = q.Where("achievement_id IN ?", achievementIDs)
	}
	return q.Update("is_new", false).Error
}
