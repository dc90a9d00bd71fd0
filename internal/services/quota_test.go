package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/sanadlabs/sanad-backend/internal/types"
)

func newQuotaFixture(t *testing.T) (*quotaService, *fakeUsageRepo, *fakeUsageRepo, *fakeSavedRepo, *fakeClock) {
	t.Helper()
	daily := newFakeUsageRepo()
	monthly := newFakeUsageRepo()
	saved := newFakeSavedRepo()
	clock := &fakeClock{now: time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)}
	qs := NewQuotaService(nil, testLogger(t), clock, daily, monthly, saved, nil).(*quotaService)
	return qs, daily, monthly, saved, clock
}

func TestCheckQuota_FreePostsDailyLimit(t *testing.T) {
	qs, _, _, _, clock := newQuotaFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 5; i++ {
		d := qs.CheckQuota(ctx, userID, types.UsageDiscussionPost, types.TierFree)
		if !d.Allowed {
			t.Fatalf("post %d denied: %+v", i+1, d)
		}
		if d.Remaining != 5-i {
			t.Fatalf("post %d remaining = %d, want %d", i+1, d.Remaining, 5-i)
		}
		if err := qs.RecordUsage(ctx, userID, types.UsageDiscussionPost); err != nil {
			t.Fatal(err)
		}
	}

	d := qs.CheckQuota(ctx, userID, types.UsageDiscussionPost, types.TierFree)
	if d.Allowed {
		t.Fatalf("6th post allowed: %+v", d)
	}
	if !strings.Contains(d.Reason, "daily") {
		t.Fatalf("denial reason %q does not mention the daily bound", d.Reason)
	}
	if d.Limit != 5 {
		t.Fatalf("denial limit = %d, want 5", d.Limit)
	}

	// Next day the allowance resets.
	clock.now = clock.now.AddDate(0, 0, 1)
	if d := qs.CheckQuota(ctx, userID, types.UsageDiscussionPost, types.TierFree); !d.Allowed || d.Remaining != 5 {
		t.Fatalf("after reset: %+v", d)
	}
}

func TestCheckQuota_UnlimitedTier(t *testing.T) {
	qs, _, _, _, _ := newQuotaFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 200; i++ {
		if err := qs.RecordUsage(ctx, userID, types.UsageQuizAttempt); err != nil {
			t.Fatal(err)
		}
	}
	d := qs.CheckQuota(ctx, userID, types.UsageQuizAttempt, types.TierPremium)
	if !d.Allowed || !d.Unlimited {
		t.Fatalf("premium quiz attempt should be unlimited: %+v", d)
	}
}

func TestCheckQuota_UnknownTierFallsBackToFree(t *testing.T) {
	qs, _, _, _, _ := newQuotaFixture(t)
	d := qs.CheckQuota(context.Background(), uuid.New(), types.UsageDiscussionPost, types.SubscriptionTier("platinum"))
	if !d.Allowed || d.Limit != 5 {
		t.Fatalf("unknown tier should get free limits: %+v", d)
	}
}

func TestCheckQuota_MonthlyBoundAfterDaily(t *testing.T) {
	qs, daily, monthly, _, clock := newQuotaFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	date, month := periodKeys(clock.now)

	// Daily exhausted: the daily reason wins even with monthly headroom.
	daily.counts[usageKey{userID, types.UsageAIQuery, date}] = 5
	d := qs.CheckQuota(ctx, userID, types.UsageAIQuery, types.TierFree)
	if d.Allowed || !strings.Contains(d.Reason, "daily") {
		t.Fatalf("expected daily denial, got %+v", d)
	}

	// Daily fine, monthly exhausted.
	daily.counts[usageKey{userID, types.UsageAIQuery, date}] = 0
	monthly.counts[usageKey{userID, types.UsageAIQuery, month}] = 150
	d = qs.CheckQuota(ctx, userID, types.UsageAIQuery, types.TierFree)
	if d.Allowed || !strings.Contains(d.Reason, "monthly") {
		t.Fatalf("expected monthly denial, got %+v", d)
	}

	// Monthly headroom tighter than daily: remaining reflects it.
	monthly.counts[usageKey{userID, types.UsageAIQuery, month}] = 148
	d = qs.CheckQuota(ctx, userID, types.UsageAIQuery, types.TierFree)
	if !d.Allowed || d.Remaining != 2 {
		t.Fatalf("expected remaining 2 from the monthly bound, got %+v", d)
	}
}

func TestCheckQuota_SavedItemsLiveCount(t *testing.T) {
	qs, _, _, saved, _ := newQuotaFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	for i := 0; i < 40; i++ {
		if _, err := saved.Create(ctx, nil, &types.SavedNarration{
			ID: uuid.New(), UserID: userID, NarrationID: uuid.New(),
		}); err != nil {
			t.Fatal(err)
		}
	}
	d := qs.CheckQuota(ctx, userID, types.UsageSavedItems, types.TierFree)
	if d.Allowed {
		t.Fatalf("41st save should be denied: %+v", d)
	}

	// Unsaving frees a slot immediately.
	var any savedKey
	for k := range saved.rows {
		if k.userID == userID {
			any = k
			break
		}
	}
	if _, err := saved.DeleteByUserAndNarration(ctx, nil, any.userID, any.narrationID); err != nil {
		t.Fatal(err)
	}
	d = qs.CheckQuota(ctx, userID, types.UsageSavedItems, types.TierFree)
	if !d.Allowed || d.Remaining != 1 {
		t.Fatalf("after unsave: %+v", d)
	}
}

func TestCheckQuota_FailsClosed(t *testing.T) {
	qs, daily, _, saved, _ := newQuotaFixture(t)
	ctx := context.Background()
	userID := uuid.New()

	daily.err = errors.New("connection refused")
	d := qs.CheckQuota(ctx, userID, types.UsageDiscussionPost, types.TierFree)
	if d.Allowed {
		t.Fatalf("ledger error must deny: %+v", d)
	}
	if d.Reason != "failed to check quota" {
		t.Fatalf("reason = %q, want %q", d.Reason, "failed to check quota")
	}

	saved.countErr = errors.New("connection refused")
	d = qs.CheckQuota(ctx, userID, types.UsageSavedItems, types.TierFree)
	if d.Allowed || d.Reason != "failed to check quota" {
		t.Fatalf("saved-items ledger error must deny: %+v", d)
	}
}

func TestCheckQuota_RemainingNeverNegative(t *testing.T) {
	qs, daily, _, _, clock := newQuotaFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	date, _ := periodKeys(clock.now)

	// Overshoot past the limit (soft-path race leftovers).
	daily.counts[usageKey{userID, types.UsageDiscussionPost, date}] = 9
	d := qs.CheckQuota(ctx, userID, types.UsageDiscussionPost, types.TierFree)
	if d.Allowed {
		t.Fatalf("overshot usage should deny: %+v", d)
	}
	if d.Remaining < 0 {
		t.Fatalf("remaining went negative: %+v", d)
	}
}

func TestRecordUsage_AIQueryWritesBothLedgers(t *testing.T) {
	qs, daily, monthly, _, clock := newQuotaFixture(t)
	ctx := context.Background()
	userID := uuid.New()
	date, month := periodKeys(clock.now)

	if err := qs.RecordUsage(ctx, userID, types.UsageAIQuery); err != nil {
		t.Fatal(err)
	}
	if got := daily.counts[usageKey{userID, types.UsageAIQuery, date}]; got != 1 {
		t.Fatalf("daily count = %d, want 1", got)
	}
	if got := monthly.counts[usageKey{userID, types.UsageAIQuery, month}]; got != 1 {
		t.Fatalf("monthly count = %d, want 1", got)
	}
}

func TestRecordUsage_SavedItemsIsNoop(t *testing.T) {
	qs, daily, monthly, _, _ := newQuotaFixture(t)
	if err := qs.RecordUsage(context.Background(), uuid.New(), types.UsageSavedItems); err != nil {
		t.Fatal(err)
	}
	if len(daily.counts) != 0 || len(monthly.counts) != 0 {
		t.Fatal("saved items must not write the usage ledgers")
	}
}

func TestCheckAndReserve_FallsBackWithoutCounters(t *testing.T) {
	qs, _, _, _, _ := newQuotaFixture(t)
	d, release := qs.CheckAndReserve(context.Background(), uuid.New(), types.UsageAIQuery, types.TierFree)
	if !d.Allowed || d.Remaining != 5 {
		t.Fatalf("soft fallback decision: %+v", d)
	}
	release(context.Background())
}
