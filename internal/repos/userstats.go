package repos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

// statsCounterColumns whitelists the columns AddCounters may touch so a
// caller can never inject arbitrary SQL through a field name.
var statsCounterColumns = map[string]struct{}{
	"posts_created":    {},
	"quizzes_taken":    {},
	"perfect_quizzes":  {},
	"ai_queries":       {},
	"narrations_saved": {},
}

type UserStatsRepo interface {
	// GetOrCreate returns the user's stats row, creating a zeroed one
	// when absent.
	GetOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStats, error)
	// AddXP atomically adds delta XP and stores the recomputed level.
	AddXP(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta, newLevel int) error
	// AddCounters atomically bumps the named counter columns.
	AddCounters(ctx context.Context, tx *gorm.DB, userID uuid.UUID, deltas map[string]int) error
}

type userStatsRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserStatsRepo(db *gorm.DB, baseLog *logger.Logger) UserStatsRepo {
	return &userStatsRepo{db: db, log: baseLog.With("repo", "UserStatsRepo")}
}

func (r *userStatsRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStats, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var stats types.UserStats
	err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&stats).Error
	if err == nil {
		return &stats, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	stats = types.UserStats{ID: uuid.New(), UserID: userID, Level: 1}
	if cErr := transaction.WithContext(ctx).Create(&stats).Error; cErr != nil {
		// A concurrent request may have created the row first.
		if cErr == gorm.ErrDuplicatedKey {
			if gErr := transaction.WithContext(ctx).
				Where("user_id = ?", userID).
				First(&stats).Error; gErr != nil {
				return nil, gErr
			}
			return &stats, nil
		}
		return nil, cErr
	}
	return &stats, nil
}

func (r *userStatsRepo) AddXP(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta, newLevel int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	return transaction.WithContext(ctx).
		Model(&types.UserStats{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{
			"xp":    gorm.Expr("xp + ?", delta),
			"level": newLevel,
		}).Error
}

func (r *userStatsRepo) AddCounters(ctx context.Context, tx *gorm.DB, userID uuid.UUID, deltas map[string]int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(deltas) == 0 {
		return nil
	}
	updates := make(map[string]any, len(deltas))
	for col, delta := range deltas {
		if _, ok := statsCounterColumns[col]; !ok {
			return fmt.Errorf("unknown stats counter column %q", col)
		}
		updates[col] = gorm.Expr(col+" + ?", delta)
	}
	return transaction.WithContext(ctx).
		Model(&types.UserStats{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}
