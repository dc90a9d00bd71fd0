package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/progression"
	"github.com/sanadlabs/sanad-backend/internal/repos"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

// ActivityKind names an XP-earning event.
type ActivityKind string

const (
	ActivityPostCreated    ActivityKind = "post_created"
	ActivityQuizCompleted  ActivityKind = "quiz_completed"
	ActivityPerfectQuiz    ActivityKind = "perfect_quiz"
	ActivityAIQuery        ActivityKind = "ai_query"
	ActivityNarrationSaved ActivityKind = "narration_saved"
)

// xpAwards is the XP credited per activity kind.
var xpAwards = map[ActivityKind]int{
	ActivityPostCreated:    10,
	ActivityQuizCompleted:  25,
	ActivityPerfectQuiz:    40,
	ActivityAIQuery:        5,
	ActivityNarrationSaved: 2,
}

// statsColumn maps an activity kind to the stats counter it bumps.
var statsColumn = map[ActivityKind]string{
	ActivityPostCreated:    "posts_created",
	ActivityQuizCompleted:  "quizzes_taken",
	ActivityPerfectQuiz:    "perfect_quizzes",
	ActivityAIQuery:        "ai_queries",
	ActivityNarrationSaved: "narrations_saved",
}

// ActivityService accrues XP and activity counters, then re-evaluates
// achievements. XP only ever grows; level is recomputed from the new
// total on every write.
type ActivityService interface {
	Track(ctx context.Context, userID uuid.UUID, kind ActivityKind) (*types.UserStats, []*types.Achievement, error)
}

type activityService struct {
	db           *gorm.DB
	log          *logger.Logger
	statsRepo    repos.UserStatsRepo
	achievements AchievementService
}

func NewActivityService(db *gorm.DB, log *logger.Logger, statsRepo repos.UserStatsRepo, achievements AchievementService) ActivityService {
	return &activityService{
		db:           db,
		log:          log.With("service", "ActivityService"),
		statsRepo:    statsRepo,
		achievements: achievements,
	}
}

func (s *activityService) Track(ctx context.Context, userID uuid.UUID, kind ActivityKind) (*types.UserStats, []*types.Achievement, error) {
	if userID == uuid.Nil {
		return nil, nil, ErrUnauthorized
	}
	xp, ok := xpAwards[kind]
	if !ok {
		return nil, nil, fmt.Errorf("%w: unknown activity kind %q", ErrValidation, kind)
	}

	var stats *types.UserStats
	var unlocked []*types.Achievement
	err := runInTx(ctx, s.db, func(tx *gorm.DB) error {
		current, err := s.statsRepo.GetOrCreate(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("load stats: %w", err)
		}

		deltas := map[string]int{statsColumn[kind]: 1}
		// A perfect quiz is still a quiz taken.
		if kind == ActivityPerfectQuiz {
			deltas[statsColumn[ActivityQuizCompleted]] = 1
		}
		if err := s.statsRepo.AddCounters(ctx, tx, userID, deltas); err != nil {
			return fmt.Errorf("bump activity counters: %w", err)
		}

		newXP := current.XP + xp
		newLevel := progression.Level(newXP)
		if err := s.statsRepo.AddXP(ctx, tx, userID, xp, newLevel); err != nil {
			return fmt.Errorf("add xp: %w", err)
		}
		if newLevel > current.Level {
			s.log.Info("User leveled up", "user_id", userID, "level", newLevel)
		}

		newUnlocks, err := s.achievements.Evaluate(ctx, tx, userID)
		if err != nil {
			return err
		}
		unlocked = newUnlocks

		stats, err = s.statsRepo.GetOrCreate(ctx, tx, userID)
		if err != nil {
			return fmt.Errorf("reload stats: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return stats, unlocked, nil
}
