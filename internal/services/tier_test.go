package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/sanadlabs/sanad-backend/internal/types"
)

func TestResolveTier(t *testing.T) {
	users := newFakeUserRepo()
	ts := NewTierService(testLogger(t), users)
	ctx := context.Background()

	premium := uuid.New()
	users.tiers[premium] = types.TierPremium
	bogus := uuid.New()
	users.tiers[bogus] = types.SubscriptionTier("platinum")

	cases := []struct {
		name   string
		userID uuid.UUID
		want   types.SubscriptionTier
	}{
		{"nil user id", uuid.Nil, types.TierFree},
		{"unknown user", uuid.New(), types.TierFree},
		{"premium user", premium, types.TierPremium},
		{"unrecognized attribute", bogus, types.TierFree},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := ts.ResolveTier(ctx, c.userID); got != c.want {
				t.Fatalf("ResolveTier = %q, want %q", got, c.want)
			}
		})
	}
}

func TestResolveTier_LookupErrorFallsBackToFree(t *testing.T) {
	users := newFakeUserRepo()
	users.tierErr = errors.New("connection refused")
	ts := NewTierService(testLogger(t), users)

	if got := ts.ResolveTier(context.Background(), uuid.New()); got != types.TierFree {
		t.Fatalf("ResolveTier on error = %q, want free", got)
	}
}
