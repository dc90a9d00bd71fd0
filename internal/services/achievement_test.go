package services

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/sanadlabs/sanad-backend/internal/types"
)

func newAchievementFixture(t *testing.T, catalog []*types.Achievement) (AchievementService, *fakeStatsRepo, *fakeUserAchievementRepo) {
	t.Helper()
	stats := newFakeStatsRepo()
	unlocks := newFakeUserAchievementRepo()
	svc := NewAchievementService(nil, testLogger(t), stats, &fakeAchievementRepo{catalog: catalog}, unlocks)
	return svc, stats, unlocks
}

func achievementEntry(slug, category string, threshold, xpReward int) *types.Achievement {
	return &types.Achievement{
		ID:        uuid.New(),
		Slug:      slug,
		Name:      slug,
		Category:  category,
		Threshold: threshold,
		XPReward:  xpReward,
	}
}

func TestEvaluate_UnlocksAtThreshold(t *testing.T) {
	first := achievementEntry("first-post", AchievementCategoryPosts, 1, 10)
	tenth := achievementEntry("ten-posts", AchievementCategoryPosts, 10, 25)
	svc, stats, _ := newAchievementFixture(t, []*types.Achievement{first, tenth})
	ctx := context.Background()
	userID := uuid.New()

	s, _ := stats.GetOrCreate(ctx, nil, userID)
	s.PostsCreated = 1

	unlocked, err := svc.Evaluate(ctx, nil, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(unlocked) != 1 || unlocked[0].Slug != "first-post" {
		t.Fatalf("unlocked = %+v, want only first-post", unlocked)
	}
	if s.XP != 10 {
		t.Fatalf("xp reward not credited, xp = %d", s.XP)
	}
}

func TestEvaluate_Idempotent(t *testing.T) {
	first := achievementEntry("first-post", AchievementCategoryPosts, 1, 10)
	svc, stats, _ := newAchievementFixture(t, []*types.Achievement{first})
	ctx := context.Background()
	userID := uuid.New()

	s, _ := stats.GetOrCreate(ctx, nil, userID)
	s.PostsCreated = 5

	if unlocked, err := svc.Evaluate(ctx, nil, userID); err != nil || len(unlocked) != 1 {
		t.Fatalf("first evaluate: %v, %v", unlocked, err)
	}
	unlocked, err := svc.Evaluate(ctx, nil, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(unlocked) != 0 {
		t.Fatalf("second evaluate unlocked %d again", len(unlocked))
	}
	if s.XP != 10 {
		t.Fatalf("xp awarded twice, xp = %d", s.XP)
	}
}

func TestEvaluate_XPRewardChainsIntoXPAchievement(t *testing.T) {
	// The post unlock's reward pushes XP over the xp achievement's
	// threshold within the same evaluation.
	postAch := achievementEntry("first-post", AchievementCategoryPosts, 1, 50)
	xpAch := achievementEntry("xp-100", AchievementCategoryXP, 100, 0)
	svc, stats, _ := newAchievementFixture(t, []*types.Achievement{postAch, xpAch})
	ctx := context.Background()
	userID := uuid.New()

	s, _ := stats.GetOrCreate(ctx, nil, userID)
	s.PostsCreated = 1
	s.XP = 60

	unlocked, err := svc.Evaluate(ctx, nil, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(unlocked) != 2 {
		t.Fatalf("unlocked %d achievements, want 2 (chained)", len(unlocked))
	}
}

func TestListForUser_MarksUnlockState(t *testing.T) {
	first := achievementEntry("first-post", AchievementCategoryPosts, 1, 0)
	locked := achievementEntry("fifty-posts", AchievementCategoryPosts, 50, 0)
	svc, stats, _ := newAchievementFixture(t, []*types.Achievement{first, locked})
	ctx := context.Background()
	userID := uuid.New()

	s, _ := stats.GetOrCreate(ctx, nil, userID)
	s.PostsCreated = 1
	if _, err := svc.Evaluate(ctx, nil, userID); err != nil {
		t.Fatal(err)
	}

	entries, err := svc.ListForUser(ctx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want the whole catalog", len(entries))
	}
	bySlug := map[string]*UnlockedAchievement{}
	for _, e := range entries {
		bySlug[e.Achievement.Slug] = e
	}
	if e := bySlug["first-post"]; !e.Unlocked || !e.IsNew {
		t.Fatalf("first-post entry = %+v, want unlocked and new", e)
	}
	if e := bySlug["fifty-posts"]; e.Unlocked {
		t.Fatalf("fifty-posts should stay locked: %+v", e)
	}
}

func TestMarkSeen_FlipsIsNewOnce(t *testing.T) {
	first := achievementEntry("first-post", AchievementCategoryPosts, 1, 0)
	svc, stats, unlocks := newAchievementFixture(t, []*types.Achievement{first})
	userID := uuid.New()
	ctx := authedCtx(userID)

	s, _ := stats.GetOrCreate(ctx, nil, userID)
	s.PostsCreated = 1
	if _, err := svc.Evaluate(ctx, nil, userID); err != nil {
		t.Fatal(err)
	}

	if err := svc.MarkSeen(ctx, nil); err != nil {
		t.Fatal(err)
	}
	rows, _ := unlocks.ListByUser(ctx, nil, userID)
	if len(rows) != 1 || rows[0].IsNew {
		t.Fatalf("unlock still marked new: %+v", rows)
	}

	// Marking seen again keeps it seen.
	if err := svc.MarkSeen(ctx, []uuid.UUID{first.ID}); err != nil {
		t.Fatal(err)
	}
	rows, _ = unlocks.ListByUser(ctx, nil, userID)
	if rows[0].IsNew {
		t.Fatal("is_new reverted to true")
	}
}

func TestMarkSeen_RequiresAuth(t *testing.T) {
	svc, _, _ := newAchievementFixture(t, nil)
	if err := svc.MarkSeen(context.Background(), nil); err != ErrUnauthorized {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}
