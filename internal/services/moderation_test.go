package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sanadlabs/sanad-backend/internal/moderation"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

func newModerationFixture(t *testing.T, reviewer AIReviewer) ModerationService {
	t.Helper()
	matcher := moderation.NewMatcher([]string{"spam"}, []string{"scam"})
	return NewModerationService(testLogger(t), matcher, reviewer)
}

func TestModerate_CleanApprovesWithoutAICall(t *testing.T) {
	reviewer := &fakeReviewer{}
	ms := newModerationFixture(t, reviewer)

	v := ms.Moderate(context.Background(), "A reflection on patience and gratitude.")
	if v.Status != types.ModerationApproved {
		t.Fatalf("status = %q, want approved", v.Status)
	}
	if v.By != types.ModeratorAuto {
		t.Fatalf("moderated by %q, want %q", v.By, types.ModeratorAuto)
	}
	if reviewer.calls != 0 {
		t.Fatalf("reviewer called %d times for clean text", reviewer.calls)
	}
}

func TestModerate_DenylistHitShortCircuits(t *testing.T) {
	reviewer := &fakeReviewer{}
	ms := newModerationFixture(t, reviewer)

	v := ms.Moderate(context.Background(), "buy my spam now")
	if v.Status != types.ModerationRejected {
		t.Fatalf("status = %q, want rejected", v.Status)
	}
	if v.By != types.ModeratorAuto {
		t.Fatalf("moderated by %q, want %q", v.By, types.ModeratorAuto)
	}
	if !strings.Contains(v.Reason, "spam") {
		t.Fatalf("reason %q does not name the matched term", v.Reason)
	}
	if reviewer.calls != 0 {
		t.Fatalf("reviewer called %d times despite a denylist hit", reviewer.calls)
	}
}

func TestModerate_ReviewGoesToAI(t *testing.T) {
	reviewer := &fakeReviewer{verdict: ModerationVerdict{Status: types.ModerationApproved, Reason: "fine"}}
	ms := newModerationFixture(t, reviewer)

	v := ms.Moderate(context.Background(), "that sounds like a scam")
	if v.Status != types.ModerationApproved {
		t.Fatalf("status = %q, want approved", v.Status)
	}
	if v.By != types.ModeratorAI {
		t.Fatalf("moderated by %q, want %q", v.By, types.ModeratorAI)
	}
	if reviewer.calls != 1 {
		t.Fatalf("reviewer calls = %d, want 1", reviewer.calls)
	}
}

func TestModerate_ReviewerFailureHolds(t *testing.T) {
	reviewer := &fakeReviewer{err: errors.New("upstream timeout")}
	ms := newModerationFixture(t, reviewer)

	v := ms.Moderate(context.Background(), "that sounds like a scam")
	if v.Status != types.ModerationHeld {
		t.Fatalf("status = %q, want held", v.Status)
	}
	if v.Reason != "automated review unavailable" {
		t.Fatalf("reason = %q", v.Reason)
	}
}

func TestModerate_InvalidVerdictHolds(t *testing.T) {
	reviewer := &fakeReviewer{verdict: ModerationVerdict{Status: "maybe"}}
	ms := newModerationFixture(t, reviewer)

	v := ms.Moderate(context.Background(), "that sounds like a scam")
	if v.Status != types.ModerationHeld {
		t.Fatalf("status = %q, want held", v.Status)
	}
}
