package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/progression"
	"github.com/sanadlabs/sanad-backend/internal/repos"
	"github.com/sanadlabs/sanad-backend/internal/requestdata"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

// Achievement categories understood by the evaluator. The catalog maps
// a category plus a threshold; the evaluator compares against the
// matching stats value.
const (
	AchievementCategoryPosts          = "posts"
	AchievementCategoryQuizzes        = "quizzes"
	AchievementCategoryPerfectQuizzes = "perfect_quizzes"
	AchievementCategoryAIQueries      = "ai_queries"
	AchievementCategorySaves          = "saves"
	AchievementCategoryXP             = "xp"
	AchievementCategoryLevel          = "level"
)

// UnlockedAchievement pairs a catalog entry with its unlock record.
type UnlockedAchievement struct {
	Achievement *types.Achievement `json:"achievement"`
	UnlockedAt  string             `json:"unlocked_at,omitempty"`
	IsNew       bool               `json:"is_new"`
	Unlocked    bool               `json:"unlocked"`
}

// AchievementService evaluates the catalog against a user's stats.
// Unlocks are idempotent: re-evaluating an already-unlocked achievement
// is a no-op, and is_new is set true exactly once per unlock.
type AchievementService interface {
	// Evaluate unlocks every newly eligible achievement and returns the
	// catalog entries unlocked by this call.
	Evaluate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Achievement, error)
	// ListForUser returns the whole catalog with per-user unlock state.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*UnlockedAchievement, error)
	// MarkSeen flips is_new false on the given unlocks (all when empty).
	MarkSeen(ctx context.Context, achievementIDs []uuid.UUID) error
}

type achievementService struct {
	db        *gorm.DB
	log       *logger.Logger
	statsRepo repos.UserStatsRepo
	catalog   repos.AchievementRepo
	unlocks   repos.UserAchievementRepo
}

func NewAchievementService(
	db *gorm.DB,
	log *logger.Logger,
	statsRepo repos.UserStatsRepo,
	catalog repos.AchievementRepo,
	unlocks repos.UserAchievementRepo,
) AchievementService {
	return &achievementService{
		db:        db,
		log:       log.With("service", "AchievementService"),
		statsRepo: statsRepo,
		catalog:   catalog,
		unlocks:   unlocks,
	}
}

func (as *achievementService) Evaluate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Achievement, error) {
	catalog, err := as.catalog.ListAll(ctx, tx)
	if err != nil {
		return nil, fmt.Errorf("load achievement catalog: %w", err)
	}

	var newlyUnlocked []*types.Achievement
	// XP rewards from unlocks can push xp/level achievements over their
	// thresholds, so evaluate until a fixpoint, bounded to stay cheap.
	for pass := 0; pass < 3; pass++ {
		stats, err := as.statsRepo.GetOrCreate(ctx, tx, userID)
		if err != nil {
			return nil, fmt.Errorf("load user stats: %w", err)
		}

		unlockedThisPass := false
		for _, a := range catalog {
			if statValue(stats, a.Category) < a.Threshold {
				continue
			}
			created, err := as.unlocks.Unlock(ctx, tx, userID, a.ID)
			if err != nil {
				return nil, fmt.Errorf("unlock achievement %s: %w", a.Slug, err)
			}
			if !created {
				continue
			}
			unlockedThisPass = true
			newlyUnlocked = append(newlyUnlocked, a)
			as.log.Info("Achievement unlocked", "user_id", userID, "achievement", a.Slug)
			if a.XPReward > 0 {
				newLevel := progression.Level(stats.XP + a.XPReward)
				if err := as.statsRepo.AddXP(ctx, tx, userID, a.XPReward, newLevel); err != nil {
					return nil, fmt.Errorf("credit achievement xp: %w", err)
				}
				stats.XP += a.XPReward
				stats.Level = newLevel
			}
		}
		if !unlockedThisPass {
			break
		}
	}
	return newlyUnlocked, nil
}

func (as *achievementService) ListForUser(ctx context.Context, userID uuid.UUID) ([]*UnlockedAchievement, error) {
	catalog, err := as.catalog.ListAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("load achievement catalog: %w", err)
	}
	unlocked, err := as.unlocks.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("load unlocks: %w", err)
	}
	byAchievement := make(map[uuid.UUID]*types.UserAchievement, len(unlocked))
	for _, u := range unlocked {
		byAchievement[u.AchievementID] = u
	}

	out := make([]*UnlockedAchievement, 0, len(catalog))
	for _, a := range catalog {
		entry := &UnlockedAchievement{Achievement: a}
		if u, ok := byAchievement[a.ID]; ok {
			entry.Unlocked = true
			entry.IsNew = u.IsNew
			entry.UnlockedAt = u.UnlockedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
		}
		out = append(out, entry)
	}
	return out, nil
}

func (as *achievementService) MarkSeen(ctx context.Context, achievementIDs []uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return ErrUnauthorized
	}
	return as.unlocks.MarkSeen(ctx, nil, rd.UserID, achievementIDs)
}

func statValue(stats *types.UserStats, category string) int {
	switch category {
	case AchievementCategoryPosts:
		return stats.PostsCreated
	case AchievementCategoryQuizzes:
		return stats.QuizzesTaken
	case AchievementCategoryPerfectQuizzes:
		return stats.PerfectQuizzes
	case AchievementCategoryAIQueries:
		return stats.AIQueries
	case AchievementCategorySaves:
		return stats.NarrationsSaved
	case AchievementCategoryXP:
		return stats.XP
	case AchievementCategoryLevel:
		return progression.Level(stats.XP)
	}
	return 0
}
