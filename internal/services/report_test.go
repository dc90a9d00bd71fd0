package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"

	"github.com/sanadlabs/sanad-backend/internal/requestdata"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

func authedCtx(userID uuid.UUID) context.Context {
	return requestdata.WithRequestData(context.Background(), &requestdata.RequestData{
		UserID: userID,
		Email:  "user@example.com",
	})
}

func newReportFixture(t *testing.T) (ReportService, *fakePostRepo, *fakeReportRepo) {
	t.Helper()
	posts := newFakePostRepo()
	reports := newFakeReportRepo()
	return NewReportService(nil, testLogger(t), posts, reports), posts, reports
}

func seedPost(posts *fakePostRepo, author uuid.UUID, status types.ModerationStatus) *types.DiscussionPost {
	post := &types.DiscussionPost{
		ID:               uuid.New(),
		UserID:           author,
		NarrationID:      uuid.New(),
		Body:             "a reflection",
		ModerationStatus: status,
	}
	posts.posts[post.ID] = post
	return post
}

func TestReportPost_RequiresAuth(t *testing.T) {
	rs, posts, _ := newReportFixture(t)
	post := seedPost(posts, uuid.New(), types.ModerationApproved)

	if _, err := rs.ReportPost(context.Background(), post.ID, "abuse"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
}

func TestReportPost_UnknownPost(t *testing.T) {
	rs, _, _ := newReportFixture(t)
	if _, err := rs.ReportPost(authedCtx(uuid.New()), uuid.New(), "abuse"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestReportPost_SelfReport(t *testing.T) {
	rs, posts, _ := newReportFixture(t)
	author := uuid.New()
	post := seedPost(posts, author, types.ModerationApproved)

	if _, err := rs.ReportPost(authedCtx(author), post.ID, "abuse"); !errors.Is(err, ErrSelfReport) {
		t.Fatalf("err = %v, want ErrSelfReport", err)
	}
}

func TestReportPost_DuplicateReport(t *testing.T) {
	rs, posts, _ := newReportFixture(t)
	post := seedPost(posts, uuid.New(), types.ModerationApproved)
	reporter := uuid.New()

	if _, err := rs.ReportPost(authedCtx(reporter), post.ID, "abuse"); err != nil {
		t.Fatal(err)
	}
	if _, err := rs.ReportPost(authedCtx(reporter), post.ID, "abuse again"); !errors.Is(err, ErrAlreadyReported) {
		t.Fatalf("err = %v, want ErrAlreadyReported", err)
	}
}

func TestReportPost_AutoHoldAtThreshold(t *testing.T) {
	rs, posts, _ := newReportFixture(t)
	post := seedPost(posts, uuid.New(), types.ModerationApproved)

	// Two reports: still approved.
	for i := 0; i < 2; i++ {
		out, err := rs.ReportPost(authedCtx(uuid.New()), post.ID, "abuse")
		if err != nil {
			t.Fatal(err)
		}
		if out.ModerationStatus != types.ModerationApproved {
			t.Fatalf("report %d flipped status to %q", i+1, out.ModerationStatus)
		}
	}

	// Third report crosses the threshold.
	out, err := rs.ReportPost(authedCtx(uuid.New()), post.ID, "abuse")
	if err != nil {
		t.Fatal(err)
	}
	if out.ModerationStatus != types.ModerationHeld {
		t.Fatalf("status = %q, want held", out.ModerationStatus)
	}
	if out.ModerationReason != "Auto-held: 3 reports received" {
		t.Fatalf("reason = %q", out.ModerationReason)
	}
	if out.ModeratedBy != types.ModeratorAuto {
		t.Fatalf("moderated by %q, want %q", out.ModeratedBy, types.ModeratorAuto)
	}
	if out.ReportCount != 3 {
		t.Fatalf("report count = %d, want 3", out.ReportCount)
	}
}

func TestReportPost_NeverLowersRejected(t *testing.T) {
	rs, posts, _ := newReportFixture(t)
	post := seedPost(posts, uuid.New(), types.ModerationRejected)

	var out *types.DiscussionPost
	var err error
	for i := 0; i < 4; i++ {
		out, err = rs.ReportPost(authedCtx(uuid.New()), post.ID, fmt.Sprintf("report %d", i))
		if err != nil {
			t.Fatal(err)
		}
	}
	if out.ModerationStatus != types.ModerationRejected {
		t.Fatalf("rejected post changed to %q", out.ModerationStatus)
	}
}
