package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	redisclient "github.com/sanadlabs/sanad-backend/internal/clients/redis"
	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/repos"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

// quotaPolicy is a per-(tier, kind) limit. Unlimited is a flag, never a
// large finite number, so remaining arithmetic cannot underflow.
// Daily/Monthly bound calendar periods; Total bounds a live row count
// (saved items).
type quotaPolicy struct {
	Daily     int
	Monthly   int
	Total     int
	Unlimited bool
}

// policyTable is the single authoritative limit table. Every call site
// (discussions, AI queries, quizzes, saved items) goes through it.
var policyTable = map[types.SubscriptionTier]map[types.UsageKind]quotaPolicy{
	types.TierFree: {
		types.UsageDiscussionPost: {Daily: 5},
		types.UsageAIQuery:        {Daily: 5, Monthly: 150},
		types.UsageQuizAttempt:    {Daily: 1},
		types.UsageSavedItems:     {Total: 40},
	},
	types.TierPremium: {
		types.UsageDiscussionPost: {Daily: 50},
		types.UsageAIQuery:        {Daily: 50, Monthly: 1500},
		types.UsageQuizAttempt:    {Unlimited: true},
		types.UsageSavedItems:     {Unlimited: true},
	},
	types.TierLifetime: {
		types.UsageDiscussionPost: {Daily: 100},
		types.UsageAIQuery:        {Daily: 100, Monthly: 3000},
		types.UsageQuizAttempt:    {Unlimited: true},
		types.UsageSavedItems:     {Unlimited: true},
	},
}

// policyFor defaults unknown tiers to free, the most restrictive.
func policyFor(tier types.SubscriptionTier, kind types.UsageKind) quotaPolicy {
	limits, ok := policyTable[tier]
	if !ok {
		limits = policyTable[types.TierFree]
	}
	return limits[kind]
}

// QuotaDecision is the public quota-check shape.
type QuotaDecision struct {
	Allowed   bool   `json:"allowed"`
	Remaining int    `json:"remaining"`
	Limit     int    `json:"limit"`
	Unlimited bool   `json:"unlimited"`
	Reason    string `json:"reason,omitempty"`
}

const quotaCheckFailedReason = "failed to check quota"

// QuotaService is the quota ledger.
//
// CheckQuota and RecordUsage form the soft check-then-act pair: a race
// between concurrent requests from one user can overshoot the limit by
// at most the concurrency degree minus one, which is accepted for a
// soft cap. CheckAndReserve is the hard-enforcement path: when a redis
// counter store is configured it reserves the slot with one atomic
// increment, and the returned release fn undoes the reservation if the
// guarded action fails.
type QuotaService interface {
	CheckQuota(ctx context.Context, userID uuid.UUID, kind types.UsageKind, tier types.SubscriptionTier) QuotaDecision
	RecordUsage(ctx context.Context, userID uuid.UUID, kind types.UsageKind) error
	CheckAndReserve(ctx context.Context, userID uuid.UUID, kind types.UsageKind, tier types.SubscriptionTier) (QuotaDecision, func(context.Context))
}

type quotaService struct {
	db          *gorm.DB
	log         *logger.Logger
	clock       Clock
	dailyRepo   repos.DailyUsageRepo
	monthlyRepo repos.MonthlyUsageRepo
	savedRepo   repos.SavedNarrationRepo
	counters    redisclient.Counters
}

func NewQuotaService(
	db *gorm.DB,
	log *logger.Logger,
	clock Clock,
	dailyRepo repos.DailyUsageRepo,
	monthlyRepo repos.MonthlyUsageRepo,
	savedRepo repos.SavedNarrationRepo,
	counters redisclient.Counters,
) QuotaService {
	return &quotaService{
		db:          db,
		log:         log.With("service", "QuotaService"),
		clock:       clock,
		dailyRepo:   dailyRepo,
		monthlyRepo: monthlyRepo,
		savedRepo:   savedRepo,
		counters:    counters,
	}
}

func (qs *quotaService) CheckQuota(ctx context.Context, userID uuid.UUID, kind types.UsageKind, tier types.SubscriptionTier) QuotaDecision {
	p := policyFor(tier, kind)
	if p.Unlimited {
		return QuotaDecision{Allowed: true, Unlimited: true}
	}

	if kind == types.UsageSavedItems {
		used, err := qs.savedRepo.CountByUser(ctx, nil, userID)
		if err != nil {
			return qs.failClosed(userID, kind, err)
		}
		return decide(used, p.Total, fmt.Sprintf("saved item limit reached (%d total); upgrade for more", p.Total))
	}

	now := qs.clock.Now()
	date, month := periodKeys(now)

	usedDaily, err := qs.dailyRepo.GetCount(ctx, nil, userID, kind, date)
	if err != nil {
		return qs.failClosed(userID, kind, err)
	}
	// Daily before monthly: the tighter bound is reported first since
	// the upgrade messaging differs.
	if usedDaily >= p.Daily {
		return QuotaDecision{
			Allowed: false,
			Limit:   p.Daily,
			Reason:  fmt.Sprintf("daily %s limit reached (%d per day); try again tomorrow", kindLabel(kind), p.Daily),
		}
	}

	remaining := p.Daily - usedDaily
	if p.Monthly > 0 {
		usedMonthly, err := qs.monthlyRepo.GetCount(ctx, nil, userID, kind, month)
		if err != nil {
			return qs.failClosed(userID, kind, err)
		}
		if usedMonthly >= p.Monthly {
			return QuotaDecision{
				Allowed: false,
				Limit:   p.Monthly,
				Reason:  fmt.Sprintf("monthly %s limit reached (%d per month); upgrade for more", kindLabel(kind), p.Monthly),
			}
		}
		if mRem := p.Monthly - usedMonthly; mRem < remaining {
			remaining = mRem
		}
	}

	return QuotaDecision{Allowed: true, Remaining: remaining, Limit: p.Daily}
}

// RecordUsage charges quota after the guarded action has succeeded, so
// failed operations are never billed.
func (qs *quotaService) RecordUsage(ctx context.Context, userID uuid.UUID, kind types.UsageKind) error {
	if kind == types.UsageSavedItems {
		// Saved items are counted live from their rows.
		return nil
	}
	now := qs.clock.Now()
	date, month := periodKeys(now)
	if _, err := qs.dailyRepo.Increment(ctx, nil, userID, kind, date, 1); err != nil {
		return fmt.Errorf("record daily usage: %w", err)
	}
	if kind == types.UsageAIQuery {
		if _, err := qs.monthlyRepo.Increment(ctx, nil, userID, kind, month, 1); err != nil {
			return fmt.Errorf("record monthly usage: %w", err)
		}
	}
	return nil
}

// CheckAndReserve is the atomic increment-and-compare path. Without a
// counter store it degrades to the soft CheckQuota with a no-op
// release; the durable ledger is still written by RecordUsage either
// way.
func (qs *quotaService) CheckAndReserve(ctx context.Context, userID uuid.UUID, kind types.UsageKind, tier types.SubscriptionTier) (QuotaDecision, func(context.Context)) {
	noop := func(context.Context) {}

	p := policyFor(tier, kind)
	if p.Unlimited {
		return QuotaDecision{Allowed: true, Unlimited: true}, noop
	}
	if qs.counters == nil || kind == types.UsageSavedItems {
		return qs.CheckQuota(ctx, userID, kind, tier), noop
	}

	now := qs.clock.Now()
	date, month := periodKeys(now)
	dailyKey := counterKey(userID, kind, date)

	n, err := qs.counters.IncrementAndGet(ctx, dailyKey, untilEndOfDay(now))
	if err != nil {
		return qs.failClosed(userID, kind, err), noop
	}
	if n > int64(p.Daily) {
		_ = qs.counters.Decrement(ctx, dailyKey)
		return QuotaDecision{
			Allowed: false,
			Limit:   p.Daily,
			Reason:  fmt.Sprintf("daily %s limit reached (%d per day); try again tomorrow", kindLabel(kind), p.Daily),
		}, noop
	}

	release := func(rctx context.Context) {
		if err := qs.counters.Decrement(rctx, dailyKey); err != nil {
			qs.log.Warn("Failed to release quota reservation", "key", dailyKey, "error", err)
		}
	}

	if p.Monthly > 0 {
		monthlyKey := counterKey(userID, kind, month)
		m, err := qs.counters.IncrementAndGet(ctx, monthlyKey, untilEndOfMonth(now))
		if err != nil {
			release(ctx)
			return qs.failClosed(userID, kind, err), noop
		}
		if m > int64(p.Monthly) {
			_ = qs.counters.Decrement(ctx, monthlyKey)
			release(ctx)
			return QuotaDecision{
				Allowed: false,
				Limit:   p.Monthly,
				Reason:  fmt.Sprintf("monthly %s limit reached (%d per month); upgrade for more", kindLabel(kind), p.Monthly),
			}, noop
		}
		dailyRelease := release
		release = func(rctx context.Context) {
			if err := qs.counters.Decrement(rctx, monthlyKey); err != nil {
				qs.log.Warn("Failed to release quota reservation", "key", monthlyKey, "error", err)
			}
			dailyRelease(rctx)
		}
	}

	// Report the pre-charge remaining, matching what CheckQuota would
	// have said; n already includes this reservation.
	remaining := p.Daily - int(n) + 1
	if remaining < 0 {
		remaining = 0
	}
	return QuotaDecision{Allowed: true, Remaining: remaining, Limit: p.Daily}, release
}

// failClosed is the named policy for an unreachable ledger: deny,
// never allow. Quota bypass on error is the wrong default for a
// billing-adjacent control.
func (qs *quotaService) failClosed(userID uuid.UUID, kind types.UsageKind, err error) QuotaDecision {
	qs.log.Error("Quota check failed, denying", "user_id", userID, "kind", kind, "error", err)
	return QuotaDecision{Allowed: false, Reason: quotaCheckFailedReason}
}

func decide(used, limit int, exhaustedReason string) QuotaDecision {
	if used >= limit {
		return QuotaDecision{Allowed: false, Limit: limit, Reason: exhaustedReason}
	}
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return QuotaDecision{Allowed: true, Remaining: remaining, Limit: limit}
}

func periodKeys(now time.Time) (date, month string) {
	return now.Format("2006-01-02"), now.Format("2006-01")
}

func counterKey(userID uuid.UUID, kind types.UsageKind, period string) string {
	return fmt.Sprintf("quota:%s:%s:%s", userID, kind, period)
}

// Counter keys expire an hour past their period so late releases still
// find the key.
func untilEndOfDay(now time.Time) time.Duration {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return end.Sub(now) + time.Hour
}

func untilEndOfMonth(now time.Time) time.Duration {
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return end.Sub(now) + time.Hour
}

func kindLabel(kind types.UsageKind) string {
	switch kind {
	case types.UsageDiscussionPost:
		return "discussion post"
	case types.UsageAIQuery:
		return "AI query"
	case types.UsageQuizAttempt:
		return "quiz attempt"
	case types.UsageSavedItems:
		return "saved item"
	}
	return string(kind)
}
