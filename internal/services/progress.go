package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/progression"
	"github.com/sanadlabs/sanad-backend/internal/repos"
	"github.com/sanadlabs/sanad-backend/internal/requestdata"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

type ProgressSummary struct {
	Stats        *types.UserStats       `json:"stats"`
	Progress     progression.Progress   `json:"progress"`
	XPFloor      int                    `json:"xp_floor"`
	XPCeiling    int                    `json:"xp_ceiling"`
	Achievements []*UnlockedAchievement `json:"achievements"`
	SavedCount   int                    `json:"saved_count"`
}

// ProgressService assembles the profile progress page: stats and level
// progress, the achievement catalog with unlock state, and the saved
// narration count, fetched concurrently.
type ProgressService interface {
	Summary(ctx context.Context) (*ProgressSummary, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	statsRepo    repos.UserStatsRepo
	savedRepo    repos.SavedNarrationRepo
	achievements AchievementService
}

func NewProgressService(
	db *gorm.DB,
	log *logger.Logger,
	statsRepo repos.UserStatsRepo,
	savedRepo repos.SavedNarrationRepo,
	achievements AchievementService,
) ProgressService {
	return &progressService{
		db:           db,
		log:          log.With("service", "ProgressService"),
		statsRepo:    statsRepo,
		savedRepo:    savedRepo,
		achievements: achievements,
	}
}

func (ps *progressService) Summary(ctx context.Context) (*ProgressSummary, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	userID := rd.UserID

	var (
		stats      *types.UserStats
		unlocks    []*UnlockedAchievement
		savedCount int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := ps.statsRepo.GetOrCreate(gctx, nil, userID)
		if err != nil {
			return fmt.Errorf("fetch stats: %w", err)
		}
		stats = s
		return nil
	})
	g.Go(func() error {
		u, err := ps.achievements.ListForUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("fetch achievements: %w", err)
		}
		unlocks = u
		return nil
	})
	g.Go(func() error {
		n, err := ps.savedRepo.CountByUser(gctx, nil, userID)
		if err != nil {
			return fmt.Errorf("count saved narrations: %w", err)
		}
		savedCount = n
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	prog := progression.ProgressFor(stats.XP)
	return &ProgressSummary{
		Stats:        stats,
		Progress:     prog,
		XPFloor:      progression.XPFloor(prog.Level),
		XPCeiling:    progression.XPCeiling(prog.Level),
		Achievements: unlocks,
		SavedCount:   savedCount,
	}, nil
}
