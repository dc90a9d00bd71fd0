package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/sanadlabs/sanad-backend/internal/repos/testutil"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

func TestDailyUsageRepo_IncrementUpserts(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewDailyUsageRepo(db, testutil.Logger(t))
	ctx := context.Background()

	userID := uuid.New()
	const date = "2025-03-15"

	// Absent row reads as zero.
	count, err := repo.GetCount(ctx, tx, userID, types.UsageDiscussionPost, date)
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Fatalf("fresh count = %d, want 0", count)
	}

	// First increment creates the row, later ones bump it in place.
	for want := 1; want <= 3; want++ {
		got, err := repo.Increment(ctx, tx, userID, types.UsageDiscussionPost, date, 1)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("increment %d returned %d", want, got)
		}
	}

	count, err = repo.GetCount(ctx, tx, userID, types.UsageDiscussionPost, date)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("count = %d, want 3", count)
	}

	// Other kinds and dates stay independent.
	if count, _ := repo.GetCount(ctx, tx, userID, types.UsageAIQuery, date); count != 0 {
		t.Fatalf("ai_query count = %d, want 0", count)
	}
	if count, _ := repo.GetCount(ctx, tx, userID, types.UsageDiscussionPost, "2025-03-16"); count != 0 {
		t.Fatalf("next day count = %d, want 0", count)
	}
}

func TestMonthlyUsageRepo_IncrementUpserts(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	repo := NewMonthlyUsageRepo(db, testutil.Logger(t))
	ctx := context.Background()

	userID := uuid.New()
	const month = "2025-03"

	if got, err := repo.Increment(ctx, tx, userID, types.UsageAIQuery, month, 1); err != nil || got != 1 {
		t.Fatalf("first increment = %d, %v", got, err)
	}
	if got, err := repo.Increment(ctx, tx, userID, types.UsageAIQuery, month, 1); err != nil || got != 2 {
		t.Fatalf("second increment = %d, %v", got, err)
	}
	if count, _ := repo.GetCount(ctx, tx, userID, types.UsageAIQuery, "2025-04"); count != 0 {
		t.Fatalf("next month count = %d, want 0", count)
	}
}
