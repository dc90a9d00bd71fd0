package repos

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sanadlabs/sanad-backend/internal/repos/testutil"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

func TestSavedNarrationRepo_DuplicateSave(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewSavedNarrationRepo(db, testutil.Logger(t))
	ctx := context.Background()

	userID := uuid.New()
	narrationID := uuid.New()

	if _, err := repo.Create(ctx, tx, &types.SavedNarration{
		ID: uuid.New(), UserID: userID, NarrationID: narrationID,
	}); err != nil {
		t.Fatal(err)
	}

	_, err := repo.Create(ctx, tx, &types.SavedNarration{
		ID: uuid.New(), UserID: userID, NarrationID: narrationID,
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate save err = %v, want gorm.ErrDuplicatedKey", err)
	}
}

func TestSavedNarrationRepo_CountAndDelete(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewSavedNarrationRepo(db, testutil.Logger(t))
	ctx := context.Background()

	userID := uuid.New()
	narrations := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	for _, n := range narrations {
		if _, err := repo.Create(ctx, tx, &types.SavedNarration{
			ID: uuid.New(), UserID: userID, NarrationID: n,
		}); err != nil {
			t.Fatal(err)
		}
	}

	if count, err := repo.CountByUser(ctx, tx, userID); err != nil || count != 3 {
		t.Fatalf("count = %d, %v", count, err)
	}

	deleted, err := repo.DeleteByUserAndNarration(ctx, tx, userID, narrations[0])
	if err != nil || !deleted {
		t.Fatalf("delete = %v, %v", deleted, err)
	}
	deleted, err = repo.DeleteByUserAndNarration(ctx, tx, userID, narrations[0])
	if err != nil || deleted {
		t.Fatalf("second delete = %v, %v, want no-op", deleted, err)
	}
	if count, _ := repo.CountByUser(ctx, tx, userID); count != 2 {
		t.Fatalf("count after delete = %d, want 2", count)
	}
}

func TestPostReportRepo_DuplicateReport(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewPostReportRepo(db, testutil.Logger(t))
	ctx := context.Background()

	postID := uuid.New()
	reporterID := uuid.New()

	if _, err := repo.Create(ctx, tx, &types.PostReport{
		ID: uuid.New(), PostID: postID, ReporterID: reporterID, Reason: "spam",
	}); err != nil {
		t.Fatal(err)
	}
	_, err := repo.Create(ctx, tx, &types.PostReport{
		ID: uuid.New(), PostID: postID, ReporterID: reporterID, Reason: "again",
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate report err = %v, want gorm.ErrDuplicatedKey", err)
	}

	if count, err := repo.CountByPost(ctx, tx, postID); err != nil || count != 1 {
		t.Fatalf("count = %d, %v", count, err)
	}
}

func TestUserStatsRepo_AddXPAndCounters(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewUserStatsRepo(db, testutil.Logger(t))
	ctx := context.Background()

	userID := uuid.New()
	stats, err := repo.GetOrCreate(ctx, tx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.XP != 0 || stats.Level != 1 {
		t.Fatalf("fresh stats = %+v", stats)
	}

	if err := repo.AddXP(ctx, tx, userID, 150, 2); err != nil {
		t.Fatal(err)
	}
	if err := repo.AddCounters(ctx, tx, userID, map[string]int{"posts_created": 1, "ai_queries": 2}); err != nil {
		t.Fatal(err)
	}

	stats, err = repo.GetOrCreate(ctx, tx, userID)
	if err != nil {
		t.Fatal(err)
	}
	if stats.XP != 150 || stats.Level != 2 {
		t.Fatalf("after AddXP: xp=%d level=%d", stats.XP, stats.Level)
	}
	if stats.PostsCreated != 1 || stats.AIQueries != 2 {
		t.Fatalf("after AddCounters: %+v", stats)
	}

	// Unknown columns are refused, not silently dropped.
	if err := repo.AddCounters(ctx, tx, userID, map[string]int{"xp": 999}); err == nil {
		t.Fatal("AddCounters accepted a non-whitelisted column")
	}
}
