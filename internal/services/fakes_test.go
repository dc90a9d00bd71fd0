package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init test logger: %v", err)
	}
	return log
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// fakeUserRepo implements repos.UserRepo over an in-memory map.
type fakeUserRepo struct {
	tiers   map[uuid.UUID]types.SubscriptionTier
	tierErr error
	users   map[uuid.UUID]*types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		tiers: map[uuid.UUID]types.SubscriptionTier{},
		users: map[uuid.UUID]*types.User{},
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	for _, u := range users {
		f.users[u.ID] = u
	}
	return users, nil
}

func (f *fakeUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	for _, id := range userIDs {
		if u, ok := f.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.User, error) {
	var out []*types.User
	for _, u := range f.users {
		for _, e := range emails {
			if u.Email == e {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (f *fakeUserRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) GetSubscriptionTier(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (types.SubscriptionTier, error) {
	if f.tierErr != nil {
		return "", f.tierErr
	}
	tier, ok := f.tiers[userID]
	if !ok {
		return "", gorm.ErrRecordNotFound
	}
	return tier, nil
}

func (f *fakeUserRepo) UpdateSubscriptionTier(ctx context.Context, tx *gorm.DB, userID uuid.UUID, tier types.SubscriptionTier) error {
	f.tiers[userID] = tier
	return nil
}

func (f *fakeUserRepo) UpdateAvatar(ctx context.Context, tx *gorm.DB, userID uuid.UUID, bucketKey, url, color string) error {
	return nil
}

type usageKey struct {
	userID uuid.UUID
	kind   types.UsageKind
	period string
}

// fakeUsageRepo backs both the daily and monthly usage repo interfaces.
type fakeUsageRepo struct {
	counts map[usageKey]int
	err    error
}

func newFakeUsageRepo() *fakeUsageRepo {
	return &fakeUsageRepo{counts: map[usageKey]int{}}
}

func (f *fakeUsageRepo) GetCount(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind types.UsageKind, period string) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.counts[usageKey{userID, kind, period}], nil
}

func (f *fakeUsageRepo) Increment(ctx context.Context, tx *gorm.DB, userID uuid.UUID, kind types.UsageKind, period string, delta int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	k := usageKey{userID, kind, period}
	f.counts[k] += delta
	return f.counts[k], nil
}

type savedKey struct {
	userID      uuid.UUID
	narrationID uuid.UUID
}

type fakeSavedRepo struct {
	rows     map[savedKey]*types.SavedNarration
	countErr error
}

func newFakeSavedRepo() *fakeSavedRepo {
	return &fakeSavedRepo{rows: map[savedKey]*types.SavedNarration{}}
}

func (f *fakeSavedRepo) Create(ctx context.Context, tx *gorm.DB, saved *types.SavedNarration) (*types.SavedNarration, error) {
	k := savedKey{saved.UserID, saved.NarrationID}
	if _, ok := f.rows[k]; ok {
		return nil, gorm.ErrDuplicatedKey
	}
	f.rows[k] = saved
	return saved, nil
}

func (f *fakeSavedRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	n := 0
	for k := range f.rows {
		if k.userID == userID {
			n++
		}
	}
	return n, nil
}

func (f *fakeSavedRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.SavedNarration, error) {
	var out []*types.SavedNarration
	for k, v := range f.rows {
		if k.userID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeSavedRepo) DeleteByUserAndNarration(ctx context.Context, tx *gorm.DB, userID, narrationID uuid.UUID) (bool, error) {
	k := savedKey{userID, narrationID}
	if _, ok := f.rows[k]; !ok {
		return false, nil
	}
	delete(f.rows, k)
	return true, nil
}

type fakePostRepo struct {
	posts map[uuid.UUID]*types.DiscussionPost
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[uuid.UUID]*types.DiscussionPost{}}
}

func (f *fakePostRepo) Create(ctx context.Context, tx *gorm.DB, post *types.DiscussionPost) (*types.DiscussionPost, error) {
	f.posts[post.ID] = post
	return post, nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.DiscussionPost, error) {
	return f.posts[id], nil
}

func (f *fakePostRepo) ListByNarration(ctx context.Context, tx *gorm.DB, narrationID uuid.UUID, limit, offset int) ([]*types.DiscussionPost, error) {
	var out []*types.DiscussionPost
	for _, p := range f.posts {
		if p.NarrationID == narrationID && p.ModerationStatus == types.ModerationApproved {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePostRepo) SetModeration(ctx context.Context, tx *gorm.DB, id uuid.UUID, status types.ModerationStatus, reason, moderatedBy string) error {
	p, ok := f.posts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.ModerationStatus = status
	p.ModerationReason = reason
	p.ModeratedBy = moderatedBy
	return nil
}

func (f *fakePostRepo) SetReportCount(ctx context.Context, tx *gorm.DB, id uuid.UUID, count int) error {
	p, ok := f.posts[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.ReportCount = count
	return nil
}

type reportKey struct {
	postID     uuid.UUID
	reporterID uuid.UUID
}

type fakeReportRepo struct {
	reports map[reportKey]*types.PostReport
}

func newFakeReportRepo() *fakeReportRepo {
	return &fakeReportRepo{reports: map[reportKey]*types.PostReport{}}
}

func (f *fakeReportRepo) Create(ctx context.Context, tx *gorm.DB, report *types.PostReport) (*types.PostReport, error) {
	k := reportKey{report.PostID, report.ReporterID}
	if _, ok := f.reports[k]; ok {
		return nil, gorm.ErrDuplicatedKey
	}
	f.reports[k] = report
	return report, nil
}

func (f *fakeReportRepo) CountByPost(ctx context.Context, tx *gorm.DB, postID uuid.UUID) (int, error) {
	n := 0
	for k := range f.reports {
		if k.postID == postID {
			n++
		}
	}
	return n, nil
}

type fakeStatsRepo struct {
	stats map[uuid.UUID]*types.UserStats
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{stats: map[uuid.UUID]*types.UserStats{}}
}

func (f *fakeStatsRepo) GetOrCreate(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.UserStats, error) {
	if s, ok := f.stats[userID]; ok {
		// Like the real repo, existing rows come back as detached
		// snapshots: later AddXP/AddCounters writes must not show
		// through them. The pointer returned on creation stays live so
		// tests can seed state through it.
		snapshot := *s
		return &snapshot, nil
	}
	s := &types.UserStats{UserID: userID, Level: 1}
	f.stats[userID] = s
	return s, nil
}

func (f *fakeStatsRepo) row(userID uuid.UUID) *types.UserStats {
	if s, ok := f.stats[userID]; ok {
		return s
	}
	s := &types.UserStats{UserID: userID, Level: 1}
	f.stats[userID] = s
	return s
}

func (f *fakeStatsRepo) AddXP(ctx context.Context, tx *gorm.DB, userID uuid.UUID, delta, newLevel int) error {
	s := f.row(userID)
	s.XP += delta
	s.Level = newLevel
	return nil
}

func (f *fakeStatsRepo) AddCounters(ctx context.Context, tx *gorm.DB, userID uuid.UUID, deltas map[string]int) error {
	s := f.row(userID)
	for col, d := range deltas {
		switch col {
		case "posts_created":
			s.PostsCreated += d
		case "quizzes_taken":
			s.QuizzesTaken += d
		case "perfect_quizzes":
			s.PerfectQuizzes += d
		case "ai_queries":
			s.AIQueries += d
		case "narrations_saved":
			s.NarrationsSaved += d
		default:
			return errors.New("unknown counter column " + col)
		}
	}
	return nil
}

type fakeAchievementRepo struct {
	catalog []*types.Achievement
}

func (f *fakeAchievementRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Achievement, error) {
	return f.catalog, nil
}

func (f *fakeAchievementRepo) UpsertBySlug(ctx context.Context, tx *gorm.DB, achievements []*types.Achievement) error {
	f.catalog = append(f.catalog, achievements...)
	return nil
}

type unlockKey struct {
	userID        uuid.UUID
	achievementID uuid.UUID
}

type fakeUserAchievementRepo struct {
	unlocks map[unlockKey]*types.UserAchievement
}

func newFakeUserAchievementRepo() *fakeUserAchievementRepo {
	return &fakeUserAchievementRepo{unlocks: map[unlockKey]*types.UserAchievement{}}
}

func (f *fakeUserAchievementRepo) Unlock(ctx context.Context, tx *gorm.DB, userID, achievementID uuid.UUID) (bool, error) {
	k := unlockKey{userID, achievementID}
	if _, ok := f.unlocks[k]; ok {
		return false, nil
	}
	f.unlocks[k] = &types.UserAchievement{
		ID:            uuid.New(),
		UserID:        userID,
		AchievementID: achievementID,
		UnlockedAt:    time.Now(),
		IsNew:         true,
	}
	return true, nil
}

func (f *fakeUserAchievementRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserAchievement, error) {
	var out []*types.UserAchievement
	for k, v := range f.unlocks {
		if k.userID == userID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeUserAchievementRepo) MarkSeen(ctx context.Context, tx *gorm.DB, userID uuid.UUID, achievementIDs []uuid.UUID) error {
	for k, v := range f.unlocks {
		if k.userID != userID {
			continue
		}
		if len(achievementIDs) == 0 {
			v.IsNew = false
			continue
		}
		for _, id := range achievementIDs {
			if k.achievementID == id {
				v.IsNew = false
			}
		}
	}
	return nil
}

// fakeReviewer counts calls and returns a scripted verdict.
type fakeReviewer struct {
	calls   int
	verdict ModerationVerdict
	err     error
}

func (f *fakeReviewer) Review(ctx context.Context, text string) (ModerationVerdict, error) {
	f.calls++
	if f.err != nil {
		return ModerationVerdict{}, f.err
	}
	return f.verdict, nil
}
