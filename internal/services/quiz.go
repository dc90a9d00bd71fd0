package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/sanadlabs/sanad-backend/internal/logger"
	"github.com/sanadlabs/sanad-backend/internal/repos"
	"github.com/sanadlabs/sanad-backend/internal/requestdata"
	"github.com/sanadlabs/sanad-backend/internal/types"
)

const defaultQuizSize = 5

// gradeOptions are the answer choices for every grading question.
var gradeOptions = []string{"sahih", "hasan", "daif", "mawdu"}

// QuizQuestion asks the user to grade a narration. The correct answer
// stays server-side; submissions are re-checked against stored grades.
type QuizQuestion struct {
	NarrationID uuid.UUID `json:"narration_id"`
	Prompt      string    `json:"prompt"`
	Text        string    `json:"text"`
	Options     []string  `json:"options"`
}

type QuizAnswer struct {
	NarrationID uuid.UUID `json:"narration_id"`
	Answer      string    `json:"answer"`
}

type QuizResult struct {
	Attempt    *types.QuizAttempt   `json:"attempt"`
	NewUnlocks []*types.Achievement `json:"new_achievements,omitempty"`
}

type QuizService interface {
	// StartQuiz builds a question set; it checks quota but does not
	// charge it — only a submitted attempt consumes the allowance.
	StartQuiz(ctx context.Context, size int) ([]*QuizQuestion, error)
	SubmitQuiz(ctx context.Context, answers []QuizAnswer) (*QuizResult, error)
}

type quizService struct {
	db            *gorm.DB
	log           *logger.Logger
	narrationRepo repos.NarrationRepo
	attemptRepo   repos.QuizAttemptRepo
	tier          TierService
	quota         QuotaService
	activity      ActivityService
}

func NewQuizService(
	db *gorm.DB,
	log *logger.Logger,
	narrationRepo repos.NarrationRepo,
	attemptRepo repos.QuizAttemptRepo,
	tier TierService,
	quota QuotaService,
	activity ActivityService,
) QuizService {
	return &quizService{
		db:            db,
		log:           log.With("service", "QuizService"),
		narrationRepo: narrationRepo,
		attemptRepo:   attemptRepo,
		tier:          tier,
		quota:         quota,
		activity:      activity,
	}
}

func (qs *quizService) StartQuiz(ctx context.Context, size int) ([]*QuizQuestion, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if size <= 0 {
		size = defaultQuizSize
	}

	tier := qs.tier.ResolveTier(ctx, rd.UserID)
	decision := qs.quota.CheckQuota(ctx, rd.UserID, types.UsageQuizAttempt, tier)
	if !decision.Allowed {
		return nil, &QuotaExceededError{Decision: decision}
	}

	narrations, err := qs.narrationRepo.Random(ctx, nil, size)
	if err != nil {
		return nil, fmt.Errorf("pick narrations: %w", err)
	}
	if len(narrations) == 0 {
		return nil, fmt.Errorf("%w: no narrations available for a quiz", ErrValidation)
	}

	questions := make([]*QuizQuestion, 0, len(narrations))
	for _, n := range narrations {
		questions = append(questions, &QuizQuestion{
			NarrationID: n.ID,
			Prompt:      "What is the traditional grading of this narration?",
			Text:        n.Translation,
			Options:     gradeOptions,
		})
	}
	return questions, nil
}

func (qs *quizService) SubmitQuiz(ctx context.Context, answers []QuizAnswer) (*QuizResult, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if len(answers) == 0 {
		return nil, fmt.Errorf("%w: at least one answer is required", ErrValidation)
	}

	tier := qs.tier.ResolveTier(ctx, rd.UserID)
	decision := qs.quota.CheckQuota(ctx, rd.UserID, types.UsageQuizAttempt, tier)
	if !decision.Allowed {
		return nil, &QuotaExceededError{Decision: decision}
	}

	ids := make([]uuid.UUID, 0, len(answers))
	for _, a := range answers {
		ids = append(ids, a.NarrationID)
	}
	narrations, err := qs.narrationRepo.GetByIDs(ctx, nil, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch narrations: %w", err)
	}
	gradeByID := make(map[uuid.UUID]string, len(narrations))
	for _, n := range narrations {
		gradeByID[n.ID] = strings.ToLower(strings.TrimSpace(n.Grade))
	}

	correct := 0
	for _, a := range answers {
		grade, ok := gradeByID[a.NarrationID]
		if !ok {
			return nil, fmt.Errorf("%w: unknown narration %s", ErrValidation, a.NarrationID)
		}
		if strings.ToLower(strings.TrimSpace(a.Answer)) == grade {
			correct++
		}
	}

	attempt := &types.QuizAttempt{
		ID:            uuid.New(),
		UserID:        rd.UserID,
		QuestionCount: len(answers),
		CorrectCount:  correct,
	}
	if err := runInTx(ctx, qs.db, func(tx *gorm.DB) error {
		_, err := qs.attemptRepo.Create(ctx, tx, attempt)
		return err
	}); err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}

	if err := qs.quota.RecordUsage(ctx, rd.UserID, types.UsageQuizAttempt); err != nil {
		qs.log.Error("Failed to record quiz usage", "user_id", rd.UserID, "error", err)
	}

	kind := ActivityQuizCompleted
	if correct == len(answers) {
		kind = ActivityPerfectQuiz
	}
	var unlocks []*types.Achievement
	if _, newUnlocks, err := qs.activity.Track(ctx, rd.UserID, kind); err != nil {
		qs.log.Error("Failed to track quiz activity", "user_id", rd.UserID, "error", err)
	} else {
		unlocks = newUnlocks
	}

	return &QuizResult{Attempt: attempt, NewUnlocks: unlocks}, nil
}
