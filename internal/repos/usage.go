package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

// DailyUsageRepo reads and bumps the (user, kind, date) counters. Absent
// rows read as zero. Increment is a single conditional upsert so the
// count can never be torn by two concurrent writers.
type DailyUsageRepo interface {
	GetCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind types.UsageKind, date string) (int, error)
	Increment(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind types.UsageKind, date string, delta int) (int, error)
}

type dailyUsageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyUsageRepo(db *gorm.DB, baseLog *logger.Logger) DailyUsageRepo {
	return &dailyUsageRepo{db: db, log: baseLog.With("repo", "DailyUsageRepo")}
}

func (r *dailyUsageRepo) GetCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind types.UsageKind, date string) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int
	err := transaction.WithContext(ctx).
		Model(&types.DailyUsage{}).
		Where("user_id = ? AND kind = ? AND date = ?", userID, kind, date).
		Pluck("count", &count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *dailyUsageRepo) Increment(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind types.UsageKind, date string, delta int) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var newCount int
	err := transaction.WithContext(ctx).Raw(`
		INSERT INTO daily_usage (id, user_id, kind, date, count, created_at, updated_at)
		VALUES (uuid_generate_v4(), ?, ?, ?, ?, now(), now())
		ON CONFLICT (user_id, kind, date)
		DO UPDATE SET count = daily_usage.count + ?, updated_at = now()
		RETURNING count`,
		userID, kind, date, delta, delta,
	).Scan(&newCount).Error
	if err != nil {
		return 0, err
	}
	return newCount, nil
}

// MonthlyUsageRepo is the month-granularity twin of DailyUsageRepo.
type MonthlyUsageRepo interface {
	GetCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind types.UsageKind, month string) (int, error)
	Increment(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind types.UsageKind, month string, delta int) (int, error)
}

type monthlyUsageRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMonthlyUsageRepo(db *gorm.DB, baseLog *logger.Logger) MonthlyUsageRepo {
	return &monthlyUsageRepo{db: db, log: baseLog.With("repo", "MonthlyUsageRepo")}
}

func (r *monthlyUsageRepo) GetCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind types.UsageKind, month string) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int
	err := transaction.WithContext(ctx).
		Model(&types.MonthlyUsage{}).
		Where("user_id = ? AND kind = ? AND month = ?", userID, kind, month).
		Pluck("count", &count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *monthlyUsageRepo) Increment(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind types.UsageKind, month string, delta int) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var newCount int
	err := transaction.WithContext(ctx).Raw(`
		INSERT INTO monthly_usage (id, user_id, kind, month, count, created_at, updated_at)
		VALUES (uuid_generate_v4(), ?, ?, ?, ?, now(), now())
		ON CONFLICT (user_id, kind, month)
		DO UPDATE SET count = monthly_usage.count + ?, updated_at = now()
		RETURNING count`,
		userID, kind, month, delta, delta,
	).Scan(&newCount).Error
	if err != nil {
		return 0, err
	}
	return newCount, nil
}
